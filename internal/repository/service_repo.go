package repository

import (
	"context"
	"database/sql"
	"fmt"

	"spadesk/internal/db"
)

type ServiceRepository struct {
	DB *sql.DB
}

func NewServiceRepository(db *sql.DB) *ServiceRepository {
	return &ServiceRepository{DB: db}
}

// ListActive returns the bookable services, read once at startup to build
// the catalog.
func (r *ServiceRepository) ListActive(ctx context.Context) ([]db.Service, error) {
	query := `
	SELECT id, name, description, duration, price, category, is_active, created_at
	FROM services
	WHERE is_active = TRUE
	ORDER BY category, name`

	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error querying services: %w", err)
	}
	defer rows.Close()

	var services []db.Service
	for rows.Next() {
		var s db.Service
		if err := rows.Scan(&s.ID, &s.Name, &s.Description, &s.Duration, &s.Price, &s.Category, &s.IsActive, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning service: %w", err)
		}
		services = append(services, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating services: %w", err)
	}
	return services, nil
}
