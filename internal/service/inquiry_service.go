package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"
	"time"

	"spadesk/internal/chat"
	"spadesk/internal/db"
	"spadesk/internal/entities"
	apperrors "spadesk/internal/errors"
	"spadesk/internal/repository"
	"spadesk/internal/utils"
	"spadesk/internal/validation"
)

const (
	defaultPageSize = 50
	maxPageSize     = 100
)

type InquiryStore interface {
	CreateInquiry(ctx context.Context, q *db.Inquiry) error
	GetInquiry(ctx context.Context, id int) (*db.Inquiry, error)
	ListInquiries(ctx context.Context, status string, limit, offset int) ([]db.Inquiry, int64, error)
	SaveResponse(ctx context.Context, id int, response string) error
	UpdateStatus(ctx context.Context, id int, status string) error
}

type InquiryNotifier interface {
	NotifyInquiry(ctx context.Context, q *db.Inquiry) []entities.ChannelOutcome
	NotifyInquiryReply(ctx context.Context, q *db.Inquiry, reply string) []entities.ChannelOutcome
}

type InquiryService struct {
	Repo     InquiryStore
	Notifier InquiryNotifier
	// Responder drafts an answer for new inquiries. Nil disables drafting.
	Responder chat.Responder

	validator *validation.Validator
	logger    *slog.Logger
}

func NewInquiryService(repo InquiryStore, notifier InquiryNotifier, responder chat.Responder, v *validation.Validator, logger *slog.Logger) *InquiryService {
	return &InquiryService{
		Repo:      repo,
		Notifier:  notifier,
		Responder: responder,
		validator: v,
		logger:    logger,
	}
}

// SubmitInquiry stores a contact-form inquiry, drafts an answer when a
// responder is available, and notifies the client and the manager.
func (s *InquiryService) SubmitInquiry(ctx context.Context, req *entities.InquiryRequest) (*entities.InquiryConfirmation, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	q := &db.Inquiry{
		Name:    utils.CleanText(req.Name),
		Email:   utils.NormalizeEmail(req.Email),
		Subject: utils.CleanText(req.Subject),
		Message: strings.TrimSpace(req.Message),
		Status:  db.InquiryNew,
	}
	if req.Phone != nil && strings.TrimSpace(*req.Phone) != "" {
		q.Phone = sql.NullString{String: strings.TrimSpace(*req.Phone), Valid: true}
	}

	if err := s.Repo.CreateInquiry(ctx, q); err != nil {
		s.logger.Error("Error creating inquiry", "error", err)
		return nil, apperrors.Persistence(err)
	}
	s.logger.Info("Inquiry created", "inquiry_id", q.ID, "subject", q.Subject)

	s.draftResponse(ctx, q)

	report := s.Notifier.NotifyInquiry(ctx, q)

	return &entities.InquiryConfirmation{
		Success:       true,
		InquiryID:     q.ID,
		Status:        q.Status,
		AIResponse:    nullableString(q.AIResponse),
		Message:       "Thank you for your inquiry! We will get back to you soon.",
		Notifications: report,
	}, nil
}

// draftResponse asks the responder for an answer and stores it. Failures
// leave the inquiry new for a human to answer.
func (s *InquiryService) draftResponse(ctx context.Context, q *db.Inquiry) {
	if s.Responder == nil {
		return
	}
	draft, err := s.Responder.Generate(ctx, chat.InquiryPrompt(q.Subject, q.Message), nil)
	if err != nil {
		s.logger.Warn("Could not draft inquiry response", "inquiry_id", q.ID, "error", err)
		return
	}
	if err := s.Repo.SaveResponse(context.WithoutCancel(ctx), q.ID, draft); err != nil {
		s.logger.Warn("Could not store drafted response", "inquiry_id", q.ID, "error", err)
		return
	}
	q.AIResponse = sql.NullString{String: draft, Valid: true}
	q.Status = db.InquiryResponded
	q.RespondedAt = sql.NullTime{Time: time.Now(), Valid: true}
}

func (s *InquiryService) GetInquiry(ctx context.Context, id int) (*entities.InquiryResponse, error) {
	q, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return toInquiryResponse(q), nil
}

func (s *InquiryService) ListInquiries(ctx context.Context, status string, limit, offset int) (*entities.InquiriesList, error) {
	if status != "" && !validInquiryStatus(status) {
		return nil, apperrors.Validation("invalid status", map[string]string{
			"status": "status must be one of: new, responded, resolved",
		})
	}
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}

	inquiries, total, err := s.Repo.ListInquiries(ctx, status, limit, offset)
	if err != nil {
		s.logger.Error("Error listing inquiries", "error", err)
		return nil, apperrors.Persistence(err)
	}

	list := &entities.InquiriesList{
		Total:     total,
		Limit:     limit,
		Offset:    offset,
		Inquiries: make([]entities.InquiryResponse, 0, len(inquiries)),
	}
	for i := range inquiries {
		list.Inquiries = append(list.Inquiries, *toInquiryResponse(&inquiries[i]))
	}
	return list, nil
}

func (s *InquiryService) UpdateInquiryStatus(ctx context.Context, id int, status string) (*entities.InquiryResponse, error) {
	if !validInquiryStatus(status) {
		return nil, apperrors.Validation("invalid status", map[string]string{
			"status": "status must be one of: new, responded, resolved",
		})
	}
	if err := s.Repo.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("inquiry")
		}
		s.logger.Error("Error updating inquiry status", "inquiry_id", id, "error", err)
		return nil, apperrors.Persistence(err)
	}
	s.logger.Info("Inquiry status updated", "inquiry_id", id, "status", status)
	return s.GetInquiry(ctx, id)
}

// RespondToInquiry stores a manual answer and emails it to the client.
func (s *InquiryService) RespondToInquiry(ctx context.Context, id int, req *entities.InquiryReply) (*entities.InquiryResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}
	reply := strings.TrimSpace(req.ResponseMessage)

	if err := s.Repo.SaveResponse(ctx, id, reply); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("inquiry")
		}
		s.logger.Error("Error saving inquiry response", "inquiry_id", id, "error", err)
		return nil, apperrors.Persistence(err)
	}

	q, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	s.Notifier.NotifyInquiryReply(ctx, q, reply)
	return toInquiryResponse(q), nil
}

func (s *InquiryService) load(ctx context.Context, id int) (*db.Inquiry, error) {
	q, err := s.Repo.GetInquiry(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("inquiry")
	}
	if err != nil {
		s.logger.Error("Error loading inquiry", "inquiry_id", id, "error", err)
		return nil, apperrors.Persistence(err)
	}
	return q, nil
}

func validInquiryStatus(status string) bool {
	switch status {
	case db.InquiryNew, db.InquiryResponded, db.InquiryResolved:
		return true
	}
	return false
}

func toInquiryResponse(q *db.Inquiry) *entities.InquiryResponse {
	return &entities.InquiryResponse{
		ID:          q.ID,
		Name:        q.Name,
		Email:       q.Email,
		Phone:       nullableString(q.Phone),
		Subject:     q.Subject,
		Message:     q.Message,
		Status:      q.Status,
		AIResponse:  nullableString(q.AIResponse),
		CreatedAt:   q.CreatedAt.Format(time.RFC3339),
		RespondedAt: nullableTime(q.RespondedAt),
	}
}
