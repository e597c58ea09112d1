package db

import (
	"database/sql"
	"fmt"
	"time"
)

const (
	BookingConfirmed = "confirmed"
	BookingCompleted = "completed"
	BookingCancelled = "cancelled"

	InquiryNew       = "new"
	InquiryResponded = "responded"
	InquiryResolved  = "resolved"
)

type Service struct {
	ID          int
	Name        string
	Description string
	Duration    int // minutes
	Price       float64
	Category    string
	IsActive    bool
	CreatedAt   time.Time
}

type Booking struct {
	ID                    int
	ConfirmationCode      string
	ClientName            string
	ClientEmail           string
	ClientPhone           string
	ServiceName           string
	ServiceDuration       int
	AppointmentDate       time.Time // date only
	AppointmentTime       string    // HH:MM
	TotalPrice            float64
	Status                string
	SpecialRequests       sql.NullString
	GoogleCalendarEventID sql.NullString
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// StartsAt combines the appointment date and time in loc.
func (b *Booking) StartsAt(loc *time.Location) (time.Time, error) {
	clock, err := time.Parse("15:04", b.AppointmentTime)
	if err != nil {
		return time.Time{}, fmt.Errorf("booking %d has malformed time %q: %w", b.ID, b.AppointmentTime, err)
	}
	d := b.AppointmentDate
	return time.Date(d.Year(), d.Month(), d.Day(), clock.Hour(), clock.Minute(), 0, 0, loc), nil
}

type Inquiry struct {
	ID          int
	Name        string
	Email       string
	Phone       sql.NullString
	Subject     string
	Message     string
	Status      string
	AIResponse  sql.NullString
	CreatedAt   time.Time
	RespondedAt sql.NullTime
}

type ChatSession struct {
	ID           int
	SessionID    string
	UserEmail    sql.NullString
	UserName     sql.NullString
	CreatedAt    time.Time
	LastActivity time.Time
}

type ChatMessage struct {
	ID        int
	SessionID string
	Message   string
	Response  string
	CreatedAt time.Time
}
