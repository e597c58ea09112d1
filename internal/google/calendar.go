package google

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// Appointment is what the calendar needs to know about a booking.
type Appointment struct {
	ServiceName string
	ClientName  string
	ClientEmail string
	Start       time.Time
	Duration    int // minutes
	Location    string
}

type CalendarClient struct {
	service    *calendar.Service
	calendarID string
	logger     *slog.Logger
}

func NewCalendarClient(ctx context.Context, logger *slog.Logger, calendarID string, opts ...option.ClientOption) (*CalendarClient, error) {
	service, err := calendar.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}
	return &CalendarClient{service: service, calendarID: calendarID, logger: logger}, nil
}

// AddAppointment inserts an event with the client as attendee and returns
// the event id. Google emails the invitation to the attendee.
func (c *CalendarClient) AddAppointment(ctx context.Context, a Appointment) (string, error) {
	end := a.Start.Add(time.Duration(a.Duration) * time.Minute)
	tz := a.Start.Location().String()

	event := &calendar.Event{
		Summary: fmt.Sprintf("%s - %s", a.ServiceName, a.ClientName),
		Description: fmt.Sprintf("Client: %s\nService: %s\nDuration: %d minutes\nEmail: %s",
			a.ClientName, a.ServiceName, a.Duration, a.ClientEmail),
		Location: a.Location,
		Start:    &calendar.EventDateTime{DateTime: a.Start.Format(time.RFC3339), TimeZone: tz},
		End:      &calendar.EventDateTime{DateTime: end.Format(time.RFC3339), TimeZone: tz},
		Attendees: []*calendar.EventAttendee{
			{Email: a.ClientEmail, DisplayName: a.ClientName},
		},
		Reminders: &calendar.EventReminders{
			UseDefault: false,
			Overrides: []*calendar.EventReminder{
				{Method: "email", Minutes: 24 * 60},
				{Method: "popup", Minutes: 60},
			},
			ForceSendFields: []string{"UseDefault"},
		},
		ColorId: "1",
	}

	created, err := c.service.Events.Insert(c.calendarID, event).SendUpdates("all").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to insert calendar event: %w", err)
	}
	c.logger.Debug("Calendar event created", "event_id", created.Id, "calendar_id", c.calendarID)
	return created.Id, nil
}
