package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"spadesk/internal/db"
)

const bookingColumns = `
	id, confirmation_code, client_name, client_email, client_phone,
	service_name, service_duration, appointment_date, appointment_time,
	total_price, status, special_requests, google_calendar_event_id,
	created_at, updated_at`

type BookingRepository struct {
	DB *sql.DB
}

func NewBookingRepository(db *sql.DB) *BookingRepository {
	return &BookingRepository{DB: db}
}

// ConfirmedOn returns the confirmed bookings on the calendar date of day,
// ordered by start time.
func (r *BookingRepository) ConfirmedOn(ctx context.Context, day time.Time) ([]db.Booking, error) {
	query := `SELECT` + bookingColumns + `
	FROM bookings
	WHERE appointment_date = $1 AND status = $2
	ORDER BY appointment_time`

	rows, err := r.DB.QueryContext(ctx, query, day.Format(time.DateOnly), db.BookingConfirmed)
	if err != nil {
		return nil, fmt.Errorf("error querying bookings for %s: %w", day.Format(time.DateOnly), err)
	}
	defer rows.Close()

	var bookings []db.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating bookings: %w", err)
	}
	return bookings, nil
}

// CreateBooking inserts b and fills its id and timestamps. It returns
// ErrSlotTaken when another confirmed booking already starts at the same
// date and time.
func (r *BookingRepository) CreateBooking(ctx context.Context, b *db.Booking) error {
	query := `
		INSERT INTO bookings
		(confirmation_code, client_name, client_email, client_phone, service_name, service_duration,
		 appointment_date, appointment_time, total_price, status, special_requests)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at`
	err := r.DB.QueryRowContext(ctx, query,
		b.ConfirmationCode,
		b.ClientName,
		b.ClientEmail,
		b.ClientPhone,
		b.ServiceName,
		b.ServiceDuration,
		b.AppointmentDate.Format(time.DateOnly),
		b.AppointmentTime,
		b.TotalPrice,
		b.Status,
		b.SpecialRequests,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if isUniqueViolation(err, "bookings_confirmed_slot_idx") {
		return ErrSlotTaken
	}
	if err != nil {
		return fmt.Errorf("error inserting booking: %w", err)
	}
	return nil
}

func (r *BookingRepository) GetBooking(ctx context.Context, id int) (*db.Booking, error) {
	query := `SELECT` + bookingColumns + ` FROM bookings WHERE id = $1`
	b, err := scanBooking(r.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return b, err
}

func (r *BookingRepository) SetCalendarEventID(ctx context.Context, id int, eventID string) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE bookings SET google_calendar_event_id = $1, updated_at = NOW() WHERE id = $2`,
		eventID, id)
	if err != nil {
		return fmt.Errorf("error storing calendar event id: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (*db.Booking, error) {
	var b db.Booking
	err := row.Scan(
		&b.ID, &b.ConfirmationCode, &b.ClientName, &b.ClientEmail, &b.ClientPhone,
		&b.ServiceName, &b.ServiceDuration, &b.AppointmentDate, &b.AppointmentTime,
		&b.TotalPrice, &b.Status, &b.SpecialRequests, &b.GoogleCalendarEventID,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("error scanning booking: %w", err)
	}
	return &b, nil
}
