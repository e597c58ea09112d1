package db

import (
	"testing"
	"time"
)

func TestBookingStartsAt(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	b := Booking{AppointmentDate: time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC), AppointmentTime: "14:30"}

	got, err := b.StartsAt(ny)
	if err != nil {
		t.Fatal(err)
	}
	want := time.Date(2025, 6, 2, 14, 30, 0, 0, ny)
	if !got.Equal(want) {
		t.Errorf("StartsAt = %v, want %v", got, want)
	}

	b.AppointmentTime = "2:30pm"
	if _, err := b.StartsAt(ny); err == nil {
		t.Error("expected error for malformed time")
	}
}

func TestDefaultServicesSeed(t *testing.T) {
	names := map[string]bool{}
	for _, s := range DefaultServices {
		if s.Duration <= 0 || s.Price <= 0 || s.Category == "" {
			t.Errorf("bad seed row %+v", s)
		}
		if names[s.Name] {
			t.Errorf("duplicate seed %q", s.Name)
		}
		names[s.Name] = true
	}
	if !names["Swedish Massage"] {
		t.Error("Swedish Massage missing from seed")
	}
}
