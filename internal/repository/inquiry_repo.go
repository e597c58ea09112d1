package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"spadesk/internal/db"
)

const inquiryColumns = `id, name, email, phone, subject, message, status, ai_response, created_at, responded_at`

type InquiryRepository struct {
	DB *sql.DB
}

func NewInquiryRepository(db *sql.DB) *InquiryRepository {
	return &InquiryRepository{DB: db}
}

func (r *InquiryRepository) CreateInquiry(ctx context.Context, q *db.Inquiry) error {
	query := `
		INSERT INTO customer_inquiries (name, email, phone, subject, message, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`
	err := r.DB.QueryRowContext(ctx, query, q.Name, q.Email, q.Phone, q.Subject, q.Message, q.Status).
		Scan(&q.ID, &q.CreatedAt)
	if err != nil {
		return fmt.Errorf("error inserting inquiry: %w", err)
	}
	return nil
}

func (r *InquiryRepository) GetInquiry(ctx context.Context, id int) (*db.Inquiry, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+inquiryColumns+` FROM customer_inquiries WHERE id = $1`, id)
	q, err := scanInquiry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return q, err
}

// ListInquiries returns one page of inquiries, newest first, and the total
// count matching status. An empty status matches all.
func (r *InquiryRepository) ListInquiries(ctx context.Context, status string, limit, offset int) ([]db.Inquiry, int64, error) {
	where := " WHERE 1=1"
	args := []interface{}{}
	idx := 1

	if status != "" {
		where += " AND status = $" + strconv.Itoa(idx)
		args = append(args, status)
		idx++
	}

	var total int64
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM customer_inquiries`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting inquiries: %w", err)
	}

	query := `SELECT ` + inquiryColumns + ` FROM customer_inquiries` + where +
		" ORDER BY created_at DESC, id DESC LIMIT $" + strconv.Itoa(idx) + " OFFSET $" + strconv.Itoa(idx+1)
	args = append(args, limit, offset)

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error querying inquiries: %w", err)
	}
	defer rows.Close()

	inquiries := []db.Inquiry{}
	for rows.Next() {
		q, err := scanInquiry(rows)
		if err != nil {
			return nil, 0, err
		}
		inquiries = append(inquiries, *q)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error after iterating inquiries: %w", err)
	}
	return inquiries, total, nil
}

// SaveResponse stores a drafted or manual reply and marks the inquiry
// responded.
func (r *InquiryRepository) SaveResponse(ctx context.Context, id int, response string) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE customer_inquiries
		SET ai_response = $1, status = $2, responded_at = NOW()
		WHERE id = $3`,
		response, db.InquiryResponded, id)
	if err != nil {
		return fmt.Errorf("error saving inquiry response: %w", err)
	}
	return expectOneRow(res)
}

// UpdateStatus sets status. Moving to resolved or responded stamps
// responded_at when it is still empty.
func (r *InquiryRepository) UpdateStatus(ctx context.Context, id int, status string) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE customer_inquiries
		SET status = $1,
		    responded_at = CASE WHEN $1 IN ('responded', 'resolved') THEN COALESCE(responded_at, NOW()) ELSE responded_at END
		WHERE id = $2`,
		status, id)
	if err != nil {
		return fmt.Errorf("error updating inquiry status: %w", err)
	}
	return expectOneRow(res)
}

func scanInquiry(row rowScanner) (*db.Inquiry, error) {
	var q db.Inquiry
	err := row.Scan(&q.ID, &q.Name, &q.Email, &q.Phone, &q.Subject, &q.Message, &q.Status, &q.AIResponse, &q.CreatedAt, &q.RespondedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("error scanning inquiry: %w", err)
	}
	return &q, nil
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not get rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
