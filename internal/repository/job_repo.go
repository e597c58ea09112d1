package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
)

type JobRepository struct {
	DB *sql.DB
}

func NewJobRepository(db *sql.DB) *JobRepository {
	return &JobRepository{DB: db}
}

// FinishedBookingIDs returns confirmed bookings whose appointment has
// ended, comparing against the wall clock of the named time zone.
func (r *JobRepository) FinishedBookingIDs(ctx context.Context, timezone string) ([]int, error) {
	query := `
	SELECT id FROM bookings
	WHERE status = 'confirmed'
	  AND appointment_date + appointment_time::time + make_interval(mins => service_duration)
	      < (NOW() AT TIME ZONE $1)`
	rows, err := r.DB.QueryContext(ctx, query, timezone)
	if err != nil {
		return nil, fmt.Errorf("error querying finished bookings: %w", err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning booking ID: %w", err)
		}
		ids = append(ids, id)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating rows: %w", err)
	}
	return ids, nil
}

// UpdateBookingStatuses sets newStatus on every id and returns how many
// rows changed.
func (r *JobRepository) UpdateBookingStatuses(ctx context.Context, ids []int, newStatus string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	query := `UPDATE bookings SET status = $1, updated_at = NOW() WHERE id = ANY($2)`
	result, err := r.DB.ExecContext(ctx, query, newStatus, pq.Array(ids))
	if err != nil {
		return 0, fmt.Errorf("error updating booking statuses: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("could not get rows affected: %w", err)
	}
	return n, nil
}
