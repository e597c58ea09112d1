package availability

import (
	"errors"
	"fmt"
	"time"
)

var ErrPastDate = errors.New("date is in the past")

// Clock is a time of day in minutes since midnight.
type Clock int

func ParseClock(s string) (Clock, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q, expected HH:MM", s)
	}
	return Clock(t.Hour()*60 + t.Minute()), nil
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

// BusinessHours is the weekly opening template: the same hours every open
// day, nothing on closed days.
type BusinessHours struct {
	Open       Clock
	Close      Clock
	ClosedDays []time.Weekday
}

func (h BusinessHours) IsClosed(day time.Weekday) bool {
	for _, d := range h.ClosedDays {
		if d == day {
			return true
		}
	}
	return false
}

// Busy is an existing confirmed booking on the requested day.
type Busy struct {
	Start    Clock
	Duration int // minutes
}

type Calculator struct {
	hours  BusinessHours
	step   int
	buffer int
	loc    *time.Location
	now    func() time.Time
}

// NewCalculator builds a calculator ticking every step minutes and keeping
// buffer minutes free after each existing booking. A nil now uses time.Now.
func NewCalculator(hours BusinessHours, step, buffer int, loc *time.Location, now func() time.Time) *Calculator {
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Calculator{hours: hours, step: step, buffer: buffer, loc: loc, now: now}
}

func (c *Calculator) Location() *time.Location { return c.loc }

func (c *Calculator) Now() time.Time { return c.now().In(c.loc) }

// Today returns midnight of the current day in the calculator's location.
func (c *Calculator) Today() time.Time {
	n := c.Now()
	return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, c.loc)
}

// Slots returns, in chronological order, every tick of the day's template
// at which a service of the given duration plus the buffer fits before
// closing without overlapping a busy interval. Only the calendar date of date is used.
// A closed day yields an empty slice; a date before today yields ErrPastDate.
func (c *Calculator) Slots(date time.Time, duration int, busy []Busy) ([]Clock, error) {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, c.loc)
	today := c.Today()
	if day.Before(today) {
		return nil, ErrPastDate
	}

	slots := []Clock{}
	if c.hours.IsClosed(day.Weekday()) || duration <= 0 || c.step <= 0 {
		return slots, nil
	}

	var earliest Clock = -1
	if day.Equal(today) {
		n := c.Now()
		earliest = Clock(n.Hour()*60 + n.Minute())
	}

	for t := c.hours.Open; t+Clock(duration+c.buffer) <= c.hours.Close; t += Clock(c.step) {
		if t < earliest {
			continue
		}
		if c.overlapsAny(t, t+Clock(duration), busy) {
			continue
		}
		slots = append(slots, t)
	}
	return slots, nil
}

// Contains reports whether want is one of the slots.
func Contains(slots []Clock, want Clock) bool {
	for _, s := range slots {
		if s == want {
			return true
		}
	}
	return false
}

func (c *Calculator) overlapsAny(start, end Clock, busy []Busy) bool {
	for _, b := range busy {
		// half-open: [start,end) overlaps [b.Start, b.Start+d+buffer)
		bEnd := b.Start + Clock(b.Duration+c.buffer)
		if start < bEnd && b.Start < end {
			return true
		}
	}
	return false
}
