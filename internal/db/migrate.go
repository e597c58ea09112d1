package db

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"

	_ "github.com/lib/pq"
)

//go:embed migrations/schema.sql
var schema string

// DefaultServices is the catalog inserted on first start.
var DefaultServices = []Service{
	{Name: "Swedish Massage", Description: "Relaxing full-body massage using long, flowing strokes", Duration: 60, Price: 80.00, Category: "massage"},
	{Name: "Deep Tissue Massage", Description: "Therapeutic massage targeting deep muscle layers", Duration: 60, Price: 90.00, Category: "massage"},
	{Name: "Hot Stone Massage", Description: "Massage with heated stones for ultimate relaxation", Duration: 75, Price: 110.00, Category: "massage"},
	{Name: "Classic Facial", Description: "Cleansing, exfoliating, and nourishing facial treatment", Duration: 60, Price: 70.00, Category: "facial"},
	{Name: "Anti-Aging Facial", Description: "Advanced facial with anti-aging ingredients", Duration: 75, Price: 95.00, Category: "facial"},
	{Name: "Body Scrub", Description: "Exfoliating body treatment with natural ingredients", Duration: 45, Price: 65.00, Category: "body_treatment"},
	{Name: "Aromatherapy Session", Description: "Therapeutic session using essential oils", Duration: 60, Price: 85.00, Category: "wellness"},
}

// Open connects to Postgres and verifies the connection.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	conn, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open DB: %w", err)
	}
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to connect to DB: %w", err)
	}
	return conn, nil
}

// Migrate creates missing tables and seeds the default services. It is
// safe to run on every start.
func Migrate(ctx context.Context, conn *sql.DB, log *slog.Logger) error {
	if _, err := conn.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("error applying schema: %w", err)
	}

	inserted := 0
	for _, s := range DefaultServices {
		res, err := conn.ExecContext(ctx, `
			INSERT INTO services (name, description, duration, price, category)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (name) DO NOTHING`,
			s.Name, s.Description, s.Duration, s.Price, s.Category)
		if err != nil {
			return fmt.Errorf("error seeding service %q: %w", s.Name, err)
		}
		if n, err := res.RowsAffected(); err == nil {
			inserted += int(n)
		}
	}
	log.Info("Database initialized", "seeded_services", inserted)
	return nil
}
