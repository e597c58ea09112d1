package availability

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

var (
	monday   = time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	sunday   = time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC)
	fixedNow = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
)

func spaHours() BusinessHours {
	return BusinessHours{Open: 9 * 60, Close: 18 * 60, ClosedDays: []time.Weekday{time.Sunday}}
}

func formatted(slots []Clock) []string {
	out := make([]string, len(slots))
	for i, s := range slots {
		out[i] = s.String()
	}
	return out
}

func TestSlots_FullMondayHasNineHourlySlots(t *testing.T) {
	calc := NewCalculator(spaHours(), 60, 0, time.UTC, fixedNow)

	slots, err := calc.Slots(monday, 60, nil)
	if err != nil {
		t.Fatalf("Slots() error = %v", err)
	}
	want := []string{"09:00", "10:00", "11:00", "12:00", "13:00", "14:00", "15:00", "16:00", "17:00"}
	if got := formatted(slots); !reflect.DeepEqual(got, want) {
		t.Fatalf("slots = %v, want %v", got, want)
	}
}

func TestSlots_ClosedWeekdayIsEmpty(t *testing.T) {
	calc := NewCalculator(spaHours(), 60, 0, time.UTC, fixedNow)

	for week := 0; week < 4; week++ {
		day := sunday.AddDate(0, 0, 7*week)
		slots, err := calc.Slots(day, 60, nil)
		if err != nil {
			t.Fatalf("%s: error = %v", day.Format("2006-01-02"), err)
		}
		if slots == nil || len(slots) != 0 {
			t.Fatalf("%s: slots = %v, want empty non-nil", day.Format("2006-01-02"), slots)
		}
	}
}

func TestSlots_PastDateFails(t *testing.T) {
	calc := NewCalculator(spaHours(), 60, 0, time.UTC, fixedNow)

	_, err := calc.Slots(time.Date(2025, 5, 30, 0, 0, 0, 0, time.UTC), 60, nil)
	if !errors.Is(err, ErrPastDate) {
		t.Fatalf("err = %v, want ErrPastDate", err)
	}
}

func TestSlots_BookedStartIsNeverOffered(t *testing.T) {
	calc := NewCalculator(spaHours(), 60, 0, time.UTC, fixedNow)
	busy := []Busy{{Start: 10 * 60, Duration: 60}, {Start: 14 * 60, Duration: 75}}

	slots, err := calc.Slots(monday, 60, busy)
	if err != nil {
		t.Fatal(err)
	}
	for _, b := range busy {
		if Contains(slots, b.Start) {
			t.Errorf("booked start %s still offered in %v", b.Start, formatted(slots))
		}
	}
	// the 75 minute booking at 14:00 runs into the 15:00 tick
	if Contains(slots, 15*60) {
		t.Errorf("15:00 overlaps the 14:00-15:15 booking but was offered")
	}
	if !Contains(slots, 11*60) || !Contains(slots, 16*60) {
		t.Errorf("free ticks missing from %v", formatted(slots))
	}
}

func TestSlots_Idempotent(t *testing.T) {
	calc := NewCalculator(spaHours(), 60, 0, time.UTC, fixedNow)
	busy := []Busy{{Start: 12 * 60, Duration: 60}}

	first, _ := calc.Slots(monday, 60, busy)
	second, _ := calc.Slots(monday, 60, busy)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("repeat call differs: %v vs %v", first, second)
	}
}

func TestSlots_ClosingBoundary(t *testing.T) {
	// 15 minute grid so close-duration and close-duration+1 are distinguishable
	calc := NewCalculator(spaHours(), 15, 0, time.UTC, fixedNow)

	slots, err := calc.Slots(monday, 60, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !Contains(slots, 17*60) {
		t.Errorf("17:00 (close - duration) should be available")
	}
	if Contains(slots, 17*60+1) || Contains(slots, 17*60+15) {
		t.Errorf("nothing after close - duration may be offered, got %v", formatted(slots))
	}
	if last := slots[len(slots)-1]; last != 17*60 {
		t.Errorf("last slot = %s, want 17:00", last)
	}
}

func TestSlots_ServiceLongerThanDayLeavesNothing(t *testing.T) {
	calc := NewCalculator(spaHours(), 60, 0, time.UTC, fixedNow)

	slots, err := calc.Slots(monday, 10*60, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(slots) != 0 {
		t.Fatalf("slots = %v, want none", formatted(slots))
	}
}

func TestSlots_BufferAfterBooking(t *testing.T) {
	calc := NewCalculator(spaHours(), 15, 15, time.UTC, fixedNow)
	busy := []Busy{{Start: 10 * 60, Duration: 60}}

	slots, err := calc.Slots(monday, 60, busy)
	if err != nil {
		t.Fatal(err)
	}
	if Contains(slots, 11*60) {
		t.Error("11:00 falls inside the buffer after the 10:00 booking")
	}
	if !Contains(slots, 11*60+15) {
		t.Error("11:15 is after the buffer and should be offered")
	}
	if !Contains(slots, 9*60) {
		t.Error("09:00-10:00 ends exactly when the booking starts and should be offered")
	}
}

func TestSlots_TodaySkipsElapsedTicks(t *testing.T) {
	now := func() time.Time { return time.Date(2025, 6, 2, 13, 30, 0, 0, time.UTC) }
	calc := NewCalculator(spaHours(), 60, 0, time.UTC, now)

	slots, err := calc.Slots(monday, 60, nil)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"14:00", "15:00", "16:00", "17:00"}
	if got := formatted(slots); !reflect.DeepEqual(got, want) {
		t.Fatalf("slots = %v, want %v", got, want)
	}
}

func TestSlots_UsesCalendarDateInLocation(t *testing.T) {
	loc := time.FixedZone("EST", -5*3600)
	now := func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, loc) }
	calc := NewCalculator(spaHours(), 60, 0, loc, now)

	// a UTC midnight value for 2025-06-02 must still mean Monday the 2nd
	slots, err := calc.Slots(monday, 60, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(slots) != 9 {
		t.Fatalf("got %d slots, want 9", len(slots))
	}
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    Clock
		wantErr bool
	}{
		{"09:00", 540, false},
		{"17:45", 17*60 + 45, false},
		{"00:00", 0, false},
		{"24:00", 0, true},
		{"9am", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseClock(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseClock(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseClock(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
	if s := Clock(9*60 + 5).String(); s != "09:05" {
		t.Errorf("String() = %q", s)
	}
}

func TestSlots_BufferAtClosing(t *testing.T) {
	calc := NewCalculator(spaHours(), 60, 15, time.UTC, fixedNow)

	slots, err := calc.Slots(monday, 60, nil)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"09:00", "10:00", "11:00", "12:00", "13:00", "14:00", "15:00", "16:00"}
	if got := formatted(slots); !reflect.DeepEqual(got, want) {
		t.Fatalf("slots = %v, want %v", got, want)
	}

	// On a 15 minute grid the last start is close - duration - buffer.
	calc = NewCalculator(spaHours(), 15, 15, time.UTC, fixedNow)
	slots, err = calc.Slots(monday, 60, nil)
	if err != nil {
		t.Fatal(err)
	}
	if last := slots[len(slots)-1]; last != 16*60+45 {
		t.Errorf("last slot = %s, want 16:45", last)
	}
}
