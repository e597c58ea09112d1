package api

import (
	"context"

	"spadesk/internal/entities"
)

// Health
type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Errors
type ErrorResponse struct {
	Detail string            `json:"detail"`
	Code   string            `json:"code"`
	Fields map[string]string `json:"fields,omitempty"`
}

// Bookings is the booking workflow as seen by the handlers.
type Bookings interface {
	AvailableSlots(ctx context.Context, date, serviceName string) (*entities.AvailabilityResponse, error)
	CreateBooking(ctx context.Context, req *entities.BookingRequest) (*entities.BookingConfirmation, error)
	GetBooking(ctx context.Context, id int) (*entities.BookingResponse, error)
}

type Inquiries interface {
	SubmitInquiry(ctx context.Context, req *entities.InquiryRequest) (*entities.InquiryConfirmation, error)
	GetInquiry(ctx context.Context, id int) (*entities.InquiryResponse, error)
	ListInquiries(ctx context.Context, status string, limit, offset int) (*entities.InquiriesList, error)
	UpdateInquiryStatus(ctx context.Context, id int, status string) (*entities.InquiryResponse, error)
	RespondToInquiry(ctx context.Context, id int, req *entities.InquiryReply) (*entities.InquiryResponse, error)
}

type Chats interface {
	Chat(ctx context.Context, req *entities.ChatRequest) (*entities.ChatResponse, error)
	ChatInSession(ctx context.Context, sessionID, message string) (*entities.ChatResponse, error)
	QuickReply(ctx context.Context, req *entities.QuickChatRequest) (*entities.QuickChatResponse, error)
	EnsureSession(ctx context.Context, sessionID string) error
	History(ctx context.Context, sessionID string) (*entities.ChatHistory, error)
	Sessions(ctx context.Context, userEmail string, limit int) ([]entities.ChatSessionSummary, error)
	DeleteSession(ctx context.Context, sessionID string) error
}
