package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"spadesk/internal/availability"
	"spadesk/internal/catalog"
	"spadesk/internal/db"
	"spadesk/internal/entities"
	apperrors "spadesk/internal/errors"
	"spadesk/internal/repository"
	"spadesk/internal/utils"
	"spadesk/internal/validation"
)

type BookingStore interface {
	ConfirmedOn(ctx context.Context, day time.Time) ([]db.Booking, error)
	CreateBooking(ctx context.Context, b *db.Booking) error
	GetBooking(ctx context.Context, id int) (*db.Booking, error)
	SetCalendarEventID(ctx context.Context, id int, eventID string) error
}

type BookingNotifier interface {
	NotifyBooking(ctx context.Context, b *db.Booking) []entities.ChannelOutcome
}

type BookingService struct {
	Repo     BookingStore
	Catalog  *catalog.Catalog
	Calc     *availability.Calculator
	Notifier BookingNotifier

	validator *validation.Validator
	logger    *slog.Logger
}

func NewBookingService(repo BookingStore, cat *catalog.Catalog, calc *availability.Calculator, notifier BookingNotifier, v *validation.Validator, logger *slog.Logger) *BookingService {
	return &BookingService{
		Repo:      repo,
		Catalog:   cat,
		Calc:      calc,
		Notifier:  notifier,
		validator: v,
		logger:    logger,
	}
}

// AvailableSlots lists the start times at which serviceName can be booked
// on date (YYYY-MM-DD).
func (s *BookingService) AvailableSlots(ctx context.Context, date, serviceName string) (*entities.AvailabilityResponse, error) {
	serviceName = strings.TrimSpace(serviceName)
	fields := map[string]string{}
	day, err := time.Parse(time.DateOnly, strings.TrimSpace(date))
	if err != nil {
		fields["date"] = "date must be a date in YYYY-MM-DD format"
	}
	if serviceName == "" {
		fields["service_name"] = "service_name is required"
	}
	if len(fields) > 0 {
		return nil, apperrors.Validation("invalid availability query", fields)
	}

	svc, ok := s.Catalog.Lookup(serviceName)
	if !ok {
		return nil, apperrors.NotFound("service")
	}

	slots, err := s.slots(ctx, day, svc, "date")
	if err != nil {
		return nil, err
	}

	resp := &entities.AvailabilityResponse{
		Date:           day.Format(time.DateOnly),
		ServiceName:    svc.Name,
		AvailableSlots: make([]string, len(slots)),
	}
	for i, c := range slots {
		resp.AvailableSlots[i] = c.String()
	}
	return resp, nil
}

func (s *BookingService) slots(ctx context.Context, day time.Time, svc db.Service, dateField string) ([]availability.Clock, error) {
	booked, err := s.Repo.ConfirmedOn(ctx, day)
	if err != nil {
		s.logger.Error("Error loading bookings", "date", day.Format(time.DateOnly), "error", err)
		return nil, apperrors.Persistence(err)
	}

	busy := make([]availability.Busy, 0, len(booked))
	for _, b := range booked {
		start, err := availability.ParseClock(b.AppointmentTime)
		if err != nil {
			s.logger.Warn("Skipping booking with malformed time", "booking_id", b.ID, "time", b.AppointmentTime)
			continue
		}
		busy = append(busy, availability.Busy{Start: start, Duration: b.ServiceDuration})
	}

	slots, err := s.Calc.Slots(day, svc.Duration, busy)
	if errors.Is(err, availability.ErrPastDate) {
		return nil, apperrors.Validation("cannot book appointments in the past", map[string]string{
			dateField: dateField + " cannot be in the past",
		})
	}
	return slots, err
}

// CreateBooking validates req, re-checks the slot, stores the booking and
// fans out notifications. Notification failures never fail the booking;
// they are reported in the confirmation.
func (s *BookingService) CreateBooking(ctx context.Context, req *entities.BookingRequest) (*entities.BookingConfirmation, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	svc, ok := s.Catalog.Lookup(strings.TrimSpace(req.ServiceName))
	if !ok {
		return nil, apperrors.NotFound("service")
	}

	day, _ := time.Parse(time.DateOnly, req.AppointmentDate)
	start, _ := availability.ParseClock(req.AppointmentTime)

	slots, err := s.slots(ctx, day, svc, "appointment_date")
	if err != nil {
		return nil, err
	}
	if !availability.Contains(slots, start) {
		return nil, apperrors.SlotUnavailable(fmt.Sprintf("%s on %s is not available for %s", start, req.AppointmentDate, svc.Name))
	}

	booking := &db.Booking{
		ConfirmationCode: newConfirmationCode(),
		ClientName:       utils.CleanText(req.ClientName),
		ClientEmail:      utils.NormalizeEmail(req.ClientEmail),
		ClientPhone:      strings.TrimSpace(req.ClientPhone),
		ServiceName:      svc.Name,
		ServiceDuration:  svc.Duration,
		AppointmentDate:  day,
		AppointmentTime:  start.String(),
		TotalPrice:       svc.Price,
		Status:           db.BookingConfirmed,
	}
	if req.SpecialRequests != nil && strings.TrimSpace(*req.SpecialRequests) != "" {
		booking.SpecialRequests = sql.NullString{String: strings.TrimSpace(*req.SpecialRequests), Valid: true}
	}

	if err := s.Repo.CreateBooking(ctx, booking); err != nil {
		if errors.Is(err, repository.ErrSlotTaken) {
			return nil, apperrors.SlotUnavailable(fmt.Sprintf("%s on %s was just booked by someone else", start, req.AppointmentDate))
		}
		s.logger.Error("Error creating booking", "error", err)
		return nil, apperrors.Persistence(err)
	}
	s.logger.Info("Booking created",
		"booking_id", booking.ID,
		"confirmation_code", booking.ConfirmationCode,
		"service", booking.ServiceName,
		"date", req.AppointmentDate,
		"time", booking.AppointmentTime,
	)

	report := s.Notifier.NotifyBooking(ctx, booking)
	if cal, ok := Outcome(report, ChannelCalendar); ok && cal.OK && cal.Ref != "" {
		if err := s.Repo.SetCalendarEventID(context.WithoutCancel(ctx), booking.ID, cal.Ref); err != nil {
			s.logger.Warn("Could not store calendar event id", "booking_id", booking.ID, "error", err)
		} else {
			booking.GoogleCalendarEventID = sql.NullString{String: cal.Ref, Valid: true}
		}
	}

	startsAt, _ := booking.StartsAt(s.Calc.Location())
	return &entities.BookingConfirmation{
		Success:             true,
		BookingID:           booking.ID,
		ConfirmationCode:    booking.ConfirmationCode,
		AppointmentDatetime: startsAt.Format(time.RFC3339),
		ServiceName:         booking.ServiceName,
		TotalPrice:          booking.TotalPrice,
		Status:              booking.Status,
		Message:             "Booking confirmed! You will receive a confirmation email shortly.",
		Notifications:       report,
	}, nil
}

func (s *BookingService) GetBooking(ctx context.Context, id int) (*entities.BookingResponse, error) {
	b, err := s.Repo.GetBooking(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("booking")
	}
	if err != nil {
		s.logger.Error("Error loading booking", "booking_id", id, "error", err)
		return nil, apperrors.Persistence(err)
	}
	return toBookingResponse(b), nil
}

func toBookingResponse(b *db.Booking) *entities.BookingResponse {
	return &entities.BookingResponse{
		ID:               b.ID,
		ConfirmationCode: b.ConfirmationCode,
		ClientName:       b.ClientName,
		ClientEmail:      b.ClientEmail,
		ClientPhone:      b.ClientPhone,
		ServiceName:      b.ServiceName,
		ServiceDuration:  b.ServiceDuration,
		AppointmentDate:  b.AppointmentDate.Format(time.DateOnly),
		AppointmentTime:  b.AppointmentTime,
		TotalPrice:       b.TotalPrice,
		Status:           b.Status,
		SpecialRequests:  nullableString(b.SpecialRequests),
		CalendarEventID:  nullableString(b.GoogleCalendarEventID),
		CreatedAt:        b.CreatedAt.Format(time.RFC3339),
	}
}

// newConfirmationCode returns 8 upper-case hex characters.
func newConfirmationCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

func nullableString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}

func nullableTime(nt sql.NullTime) *string {
	if !nt.Valid {
		return nil
	}
	s := nt.Time.Format(time.RFC3339)
	return &s
}
