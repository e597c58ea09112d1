package api

import (
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"spadesk/internal/entities"
	apperrors "spadesk/internal/errors"
)

const (
	wsReadLimit    = 16 << 10
	wsWriteTimeout = 10 * time.Second
)

type ChatHandler struct {
	Chats    Chats
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewChatHandler accepts websocket connections from allowedOrigins; "*"
// allows any origin.
func NewChatHandler(chats Chats, allowedOrigins []string, logger *slog.Logger) *ChatHandler {
	return &ChatHandler{
		Chats: chats,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || slices.Contains(allowedOrigins, "*") || slices.Contains(allowedOrigins, origin)
			},
		},
		logger: logger,
	}
}

func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req entities.ChatRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	resp, err := h.Chats.Chat(r.Context(), &req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *ChatHandler) QuickReply(w http.ResponseWriter, r *http.Request) {
	var req entities.QuickChatRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	resp, err := h.Chats.QuickReply(r.Context(), &req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	history, err := h.Chats.History(r.Context(), mux.Vars(r)["session_id"])
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, history)
}

// Socket upgrades to a websocket on which every text frame is a chat
// message and every reply is a JSON ChatResponse. The session is created
// on connect when it does not exist.
func (h *ChatHandler) Socket(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["session_id"]
	if err := h.Chats.EnsureSession(r.Context(), sessionID); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		h.logger.Warn("WebSocket upgrade failed", "session_id", sessionID, "error", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(wsReadLimit)

	h.logger.Info("WebSocket connected", "session_id", sessionID)
	for {
		kind, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.Warn("WebSocket closed unexpectedly", "session_id", sessionID, "error", err)
			}
			break
		}
		if kind != websocket.TextMessage {
			continue
		}

		var reply any
		resp, err := h.Chats.ChatInSession(r.Context(), sessionID, string(data))
		if err != nil {
			appErr := apperrors.AsAppError(err)
			if appErr.HTTPStatus >= http.StatusInternalServerError {
				h.logger.Error("WebSocket chat failed", "session_id", sessionID, "error", err)
			}
			reply = ErrorResponse{Detail: appErr.Message, Code: appErr.Code, Fields: appErr.Fields}
		} else {
			reply = resp
		}

		_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
		if err := conn.WriteJSON(reply); err != nil {
			h.logger.Warn("WebSocket write failed", "session_id", sessionID, "error", err)
			break
		}
	}
	h.logger.Info("WebSocket disconnected", "session_id", sessionID)
}
