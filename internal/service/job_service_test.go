package service

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"spadesk/internal/db"
	"spadesk/internal/logger"
)

type fakeJobStore struct {
	finished  []int
	listErr   error
	updated   []int
	newStatus string
	timezone  string
}

func (f *fakeJobStore) FinishedBookingIDs(_ context.Context, timezone string) ([]int, error) {
	f.timezone = timezone
	return f.finished, f.listErr
}

func (f *fakeJobStore) UpdateBookingStatuses(_ context.Context, ids []int, newStatus string) (int64, error) {
	f.updated, f.newStatus = ids, newStatus
	return int64(len(ids)), nil
}

func TestCompleteFinishedBookings(t *testing.T) {
	store := &fakeJobStore{finished: []int{3, 5}}
	svc := NewJobService(store, "America/New_York", logger.Discard())

	n, err := svc.CompleteFinishedBookings(context.Background())
	if err != nil {
		t.Fatalf("CompleteFinishedBookings() error = %v", err)
	}
	if n != 2 || !reflect.DeepEqual(store.updated, []int{3, 5}) || store.newStatus != db.BookingCompleted {
		t.Errorf("n = %d, updated = %v, status = %q", n, store.updated, store.newStatus)
	}
	if store.timezone != "America/New_York" {
		t.Errorf("timezone = %q", store.timezone)
	}
}

func TestCompleteFinishedBookings_NothingToDo(t *testing.T) {
	store := &fakeJobStore{}
	svc := NewJobService(store, "UTC", logger.Discard())

	n, err := svc.CompleteFinishedBookings(context.Background())
	if err != nil || n != 0 {
		t.Fatalf("got %d, %v", n, err)
	}
	if store.updated != nil {
		t.Error("no update expected")
	}
}

func TestCompleteFinishedBookings_StoreError(t *testing.T) {
	svc := NewJobService(&fakeJobStore{listErr: errors.New("timeout")}, "UTC", logger.Discard())
	if _, err := svc.CompleteFinishedBookings(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestSchedule(t *testing.T) {
	svc := NewJobService(&fakeJobStore{}, "UTC", logger.Discard())

	c, err := svc.Schedule(context.Background(), "*/15 * * * *")
	if err != nil {
		t.Fatalf("Schedule() error = %v", err)
	}
	if len(c.Entries()) != 1 {
		t.Errorf("entries = %d", len(c.Entries()))
	}

	if _, err := svc.Schedule(context.Background(), "every now and then"); err == nil {
		t.Error("expected an invalid schedule error")
	}
}
