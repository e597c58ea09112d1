package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"spadesk/internal/entities"
	apperrors "spadesk/internal/errors"
)

// AdminHandler serves the staff endpoints: the inquiry queue and chat
// session housekeeping.
type AdminHandler struct {
	Inquiries Inquiries
	Chats     Chats
	logger    *slog.Logger
}

func NewAdminHandler(inquiries Inquiries, chats Chats, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{Inquiries: inquiries, Chats: chats, logger: logger}
}

func (h *AdminHandler) ListInquiries(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	offset, err := queryInt(r, "offset")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	list, err := h.Inquiries.ListInquiries(r.Context(), r.URL.Query().Get("status"), limit, offset)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *AdminHandler) GetInquiry(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	q, err := h.Inquiries.GetInquiry(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

func (h *AdminHandler) UpdateInquiryStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	status := r.URL.Query().Get("status")
	if status == "" {
		writeError(w, r, h.logger, apperrors.Validation("status is required", map[string]string{"status": "status is required"}))
		return
	}
	q, err := h.Inquiries.UpdateInquiryStatus(r.Context(), id, status)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

func (h *AdminHandler) RespondToInquiry(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	var req entities.InquiryReply
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	q, err := h.Inquiries.RespondToInquiry(r.Context(), id, &req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

func (h *AdminHandler) ListChatSessions(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	sessions, err := h.Chats.Sessions(r.Context(), r.URL.Query().Get("user_email"), limit)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"sessions": sessions})
}

func (h *AdminHandler) DeleteChatSession(w http.ResponseWriter, r *http.Request) {
	if err := h.Chats.DeleteSession(r.Context(), mux.Vars(r)["session_id"]); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Chat session deleted"})
}
