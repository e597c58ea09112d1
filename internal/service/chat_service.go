package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"spadesk/internal/chat"
	"spadesk/internal/db"
	"spadesk/internal/entities"
	apperrors "spadesk/internal/errors"
	"spadesk/internal/repository"
	"spadesk/internal/utils"
	"spadesk/internal/validation"
)

const defaultSessionsLimit = 10

type ChatStore interface {
	CreateSession(ctx context.Context, s *db.ChatSession) error
	GetSession(ctx context.Context, sessionID string) (*db.ChatSession, error)
	RecentMessages(ctx context.Context, sessionID string, limit int) ([]db.ChatMessage, error)
	AddMessage(ctx context.Context, m *db.ChatMessage) error
	ListSessions(ctx context.Context, userEmail string, limit int) ([]repository.SessionSummary, error)
	DeleteSession(ctx context.Context, sessionID string) error
}

type ChatService struct {
	Repo      ChatStore
	Responder chat.Responder

	validator *validation.Validator
	logger    *slog.Logger
	now       func() time.Time
}

func NewChatService(repo ChatStore, responder chat.Responder, v *validation.Validator, logger *slog.Logger) *ChatService {
	return &ChatService{
		Repo:      repo,
		Responder: responder,
		validator: v,
		logger:    logger,
		now:       time.Now,
	}
}

// Chat answers one message. Without a session id a new session is
// started; an unknown session id is NotFound.
func (s *ChatService) Chat(ctx context.Context, req *entities.ChatRequest) (*entities.ChatResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	var sessionID string
	if req.SessionID == nil || *req.SessionID == "" {
		session := &db.ChatSession{SessionID: uuid.NewString()}
		if req.UserEmail != nil {
			session.UserEmail = sql.NullString{String: utils.NormalizeEmail(*req.UserEmail), Valid: true}
		}
		if req.UserName != nil {
			session.UserName = sql.NullString{String: utils.CleanText(*req.UserName), Valid: true}
		}
		if err := s.Repo.CreateSession(ctx, session); err != nil {
			s.logger.Error("Error creating chat session", "error", err)
			return nil, apperrors.Persistence(err)
		}
		sessionID = session.SessionID
	} else {
		sessionID = *req.SessionID
		if _, err := s.session(ctx, sessionID); err != nil {
			return nil, err
		}
	}

	return s.reply(ctx, sessionID, strings.TrimSpace(req.Message))
}

// ChatInSession answers a message on a session that is known to exist,
// such as one opened by EnsureSession.
func (s *ChatService) ChatInSession(ctx context.Context, sessionID, message string) (*entities.ChatResponse, error) {
	req := &entities.ChatRequest{Message: message, SessionID: &sessionID}
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}
	return s.reply(ctx, sessionID, strings.TrimSpace(message))
}

// reply generates the answer, falling back to a fixed text when the
// responder fails, and records the exchange.
func (s *ChatService) reply(ctx context.Context, sessionID, message string) (*entities.ChatResponse, error) {
	recent, err := s.Repo.RecentMessages(ctx, sessionID, chat.HistoryExchanges)
	if err != nil {
		s.logger.Warn("Could not load chat history", "session_id", sessionID, "error", err)
		recent = nil
	}
	history := make([]chat.Exchange, len(recent))
	for i, m := range recent {
		history[i] = chat.Exchange{User: m.Message, Assistant: m.Response}
	}

	response := s.generate(ctx, sessionID, message, history)

	msg := &db.ChatMessage{SessionID: sessionID, Message: message, Response: response}
	if err := s.Repo.AddMessage(context.WithoutCancel(ctx), msg); err != nil {
		s.logger.Warn("Could not store chat exchange", "session_id", sessionID, "error", err)
		msg.CreatedAt = s.now()
	}

	return &entities.ChatResponse{
		Response:  response,
		SessionID: sessionID,
		Timestamp: msg.CreatedAt.Format(time.RFC3339),
	}, nil
}

// QuickReply answers a single message without a session. Nothing is
// stored.
func (s *ChatService) QuickReply(ctx context.Context, req *entities.QuickChatRequest) (*entities.QuickChatResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}
	return &entities.QuickChatResponse{
		Response:  s.generate(ctx, "", strings.TrimSpace(req.Message), nil),
		Timestamp: s.now().UTC().Format(time.RFC3339),
	}, nil
}

func (s *ChatService) generate(ctx context.Context, sessionID, message string, history []chat.Exchange) string {
	if s.Responder == nil {
		return chat.ChatFallback
	}
	generated, err := s.Responder.Generate(ctx, message, history)
	if err != nil {
		s.logger.Warn("Chat responder failed, using fallback", "session_id", sessionID, "error", err)
		return chat.ChatFallback
	}
	return generated
}

// EnsureSession creates sessionID when it does not exist yet.
func (s *ChatService) EnsureSession(ctx context.Context, sessionID string) error {
	if err := uuid.Validate(sessionID); err != nil {
		return apperrors.Validation("invalid session id", map[string]string{"session_id": "session_id must be a UUID"})
	}
	_, err := s.Repo.GetSession(ctx, sessionID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		s.logger.Error("Error loading chat session", "session_id", sessionID, "error", err)
		return apperrors.Persistence(err)
	}
	if err := s.Repo.CreateSession(ctx, &db.ChatSession{SessionID: sessionID}); err != nil {
		s.logger.Error("Error creating chat session", "session_id", sessionID, "error", err)
		return apperrors.Persistence(err)
	}
	s.logger.Info("Chat session opened", "session_id", sessionID)
	return nil
}

func (s *ChatService) History(ctx context.Context, sessionID string) (*entities.ChatHistory, error) {
	if _, err := s.session(ctx, sessionID); err != nil {
		return nil, err
	}
	messages, err := s.Repo.RecentMessages(ctx, sessionID, 0)
	if err != nil {
		s.logger.Error("Error loading chat history", "session_id", sessionID, "error", err)
		return nil, apperrors.Persistence(err)
	}

	history := &entities.ChatHistory{SessionID: sessionID, Messages: make([]entities.ChatExchange, len(messages))}
	for i, m := range messages {
		history.Messages[i] = entities.ChatExchange{
			Message:   m.Message,
			Response:  m.Response,
			Timestamp: m.CreatedAt.Format(time.RFC3339),
		}
	}
	return history, nil
}

func (s *ChatService) Sessions(ctx context.Context, userEmail string, limit int) ([]entities.ChatSessionSummary, error) {
	if limit <= 0 {
		limit = defaultSessionsLimit
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	sessions, err := s.Repo.ListSessions(ctx, utils.NormalizeEmail(userEmail), limit)
	if err != nil {
		s.logger.Error("Error listing chat sessions", "error", err)
		return nil, apperrors.Persistence(err)
	}

	out := make([]entities.ChatSessionSummary, len(sessions))
	for i, ss := range sessions {
		out[i] = entities.ChatSessionSummary{
			SessionID:    ss.SessionID,
			UserEmail:    nullableString(ss.UserEmail),
			UserName:     nullableString(ss.UserName),
			CreatedAt:    ss.CreatedAt.Format(time.RFC3339),
			LastActivity: ss.LastActivity.Format(time.RFC3339),
			MessageCount: ss.MessageCount,
		}
	}
	return out, nil
}

func (s *ChatService) DeleteSession(ctx context.Context, sessionID string) error {
	err := s.Repo.DeleteSession(ctx, sessionID)
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NotFound("chat session")
	}
	if err != nil {
		s.logger.Error("Error deleting chat session", "session_id", sessionID, "error", err)
		return apperrors.Persistence(err)
	}
	s.logger.Info("Chat session deleted", "session_id", sessionID)
	return nil
}

func (s *ChatService) session(ctx context.Context, sessionID string) (*db.ChatSession, error) {
	session, err := s.Repo.GetSession(ctx, sessionID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("chat session")
	}
	if err != nil {
		s.logger.Error("Error loading chat session", "session_id", sessionID, "error", err)
		return nil, apperrors.Persistence(err)
	}
	return session, nil
}
