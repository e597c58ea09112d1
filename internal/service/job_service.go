package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"

	"spadesk/internal/db"
)

type JobStore interface {
	FinishedBookingIDs(ctx context.Context, timezone string) ([]int, error)
	UpdateBookingStatuses(ctx context.Context, ids []int, newStatus string) (int64, error)
}

type JobService struct {
	Repo     JobStore
	Timezone string
	logger   *slog.Logger
}

func NewJobService(repo JobStore, timezone string, logger *slog.Logger) *JobService {
	return &JobService{Repo: repo, Timezone: timezone, logger: logger}
}

// CompleteFinishedBookings marks confirmed bookings whose appointment has
// ended as completed.
func (s *JobService) CompleteFinishedBookings(ctx context.Context) (int64, error) {
	ids, err := s.Repo.FinishedBookingIDs(ctx, s.Timezone)
	if err != nil {
		return 0, fmt.Errorf("cron job: failed to get finished bookings: %w", err)
	}
	if len(ids) == 0 {
		s.logger.Debug("Cron job: no finished bookings")
		return 0, nil
	}

	n, err := s.Repo.UpdateBookingStatuses(ctx, ids, db.BookingCompleted)
	if err != nil {
		return 0, fmt.Errorf("cron job: failed to update booking statuses: %w", err)
	}
	s.logger.Info("Cron job: bookings marked completed", "count", n, "ids", ids)
	return n, nil
}

// Schedule registers the completion job on a new cron scheduler. The
// caller starts and stops it.
func (s *JobService) Schedule(ctx context.Context, spec string) (*cron.Cron, error) {
	printf := cron.PrintfLogger(slog.NewLogLogger(s.logger.Handler(), slog.LevelWarn))
	c := cron.New(cron.WithChain(cron.Recover(printf), cron.SkipIfStillRunning(printf)))

	_, err := c.AddFunc(spec, func() {
		if _, err := s.CompleteFinishedBookings(ctx); err != nil {
			s.logger.Error("Cron job failed", "error", err)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid cron schedule %q: %w", spec, err)
	}
	return c, nil
}
