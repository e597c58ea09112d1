package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"spadesk/internal/db"
	"spadesk/internal/entities"
	"spadesk/internal/google"
	"spadesk/internal/notify"
	"spadesk/internal/utils"
)

const (
	ChannelClientEmail  = "client_email"
	ChannelManagerEmail = "manager_email"
	ChannelCalendar     = "calendar"
	ChannelSpreadsheet  = "spreadsheet"
	ChannelClientSMS    = "client_sms"
)

var errNotConfigured = errors.New("not configured")

type Mailer interface {
	Send(ctx context.Context, e notify.Email) (string, error)
}

type Texter interface {
	Send(ctx context.Context, to, body string) (string, error)
}

type CalendarWriter interface {
	AddAppointment(ctx context.Context, a google.Appointment) (string, error)
}

type SheetWriter interface {
	AppendBooking(ctx context.Context, row []string) (string, error)
}

// NotifyService fans a booking or inquiry out to every notification
// channel. A nil integration makes its channel report "not configured".
type NotifyService struct {
	Mailer   Mailer
	SMS      Texter
	Calendar CalendarWriter
	Sheets   SheetWriter
	Sender   *SenderService

	ManagerEmail string
	SpaAddress   string
	Location     *time.Location
	Timeout      time.Duration

	logger *slog.Logger
}

func NewNotifyService(sender *SenderService, managerEmail, spaAddress string, loc *time.Location, timeout time.Duration, logger *slog.Logger) *NotifyService {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if loc == nil {
		loc = time.UTC
	}
	return &NotifyService{
		Sender:       sender,
		ManagerEmail: managerEmail,
		SpaAddress:   spaAddress,
		Location:     loc,
		Timeout:      timeout,
		logger:       logger,
	}
}

// channelTask is one independent notification. It returns a reference to
// what it created, such as a message or event id.
type channelTask struct {
	channel string
	run     func(ctx context.Context) (string, error)
}

// NotifyBooking sends every booking notification and reports each
// channel's outcome in a fixed order.
func (s *NotifyService) NotifyBooking(ctx context.Context, b *db.Booking) []entities.ChannelOutcome {
	tasks := []channelTask{
		{ChannelClientEmail, s.emailTask(func() (notify.Email, error) { return s.Sender.BookingConfirmation(b) })},
		{ChannelManagerEmail, s.managerEmailTask(func() (notify.Email, error) { return s.Sender.BookingAlert(b) })},
		{ChannelCalendar, func(ctx context.Context) (string, error) {
			if s.Calendar == nil {
				return "", errNotConfigured
			}
			start, err := b.StartsAt(s.Location)
			if err != nil {
				return "", err
			}
			return s.Calendar.AddAppointment(ctx, google.Appointment{
				ServiceName: b.ServiceName,
				ClientName:  b.ClientName,
				ClientEmail: b.ClientEmail,
				Start:       start,
				Duration:    b.ServiceDuration,
				Location:    s.SpaAddress,
			})
		}},
		{ChannelSpreadsheet, func(ctx context.Context) (string, error) {
			if s.Sheets == nil {
				return "", errNotConfigured
			}
			return s.Sheets.AppendBooking(ctx, s.Sender.BookingRow(b))
		}},
		{ChannelClientSMS, func(ctx context.Context) (string, error) {
			if s.SMS == nil {
				return "", errNotConfigured
			}
			to, ok := utils.E164(b.ClientPhone)
			if !ok {
				return "", fmt.Errorf("phone %q cannot be converted to E.164", b.ClientPhone)
			}
			return s.SMS.Send(ctx, to, s.Sender.BookingSMS(b))
		}},
	}
	return s.dispatch(ctx, slog.String("confirmation_code", b.ConfirmationCode), tasks)
}

// NotifyInquiry acknowledges the inquiry to the client and alerts the
// manager.
func (s *NotifyService) NotifyInquiry(ctx context.Context, q *db.Inquiry) []entities.ChannelOutcome {
	tasks := []channelTask{
		{ChannelClientEmail, s.emailTask(func() (notify.Email, error) { return s.Sender.InquiryAcknowledgement(q) })},
		{ChannelManagerEmail, s.managerEmailTask(func() (notify.Email, error) { return s.Sender.InquiryAlert(q) })},
	}
	return s.dispatch(ctx, slog.Int("inquiry_id", q.ID), tasks)
}

// NotifyInquiryReply emails a manual answer to the client.
func (s *NotifyService) NotifyInquiryReply(ctx context.Context, q *db.Inquiry, reply string) []entities.ChannelOutcome {
	tasks := []channelTask{
		{ChannelClientEmail, s.emailTask(func() (notify.Email, error) { return s.Sender.InquiryReply(q, reply) })},
	}
	return s.dispatch(ctx, slog.Int("inquiry_id", q.ID), tasks)
}

func (s *NotifyService) emailTask(compose func() (notify.Email, error)) func(context.Context) (string, error) {
	return func(ctx context.Context) (string, error) {
		if s.Mailer == nil {
			return "", errNotConfigured
		}
		email, err := compose()
		if err != nil {
			return "", err
		}
		return s.Mailer.Send(ctx, email)
	}
}

func (s *NotifyService) managerEmailTask(compose func() (notify.Email, error)) func(context.Context) (string, error) {
	send := s.emailTask(compose)
	return func(ctx context.Context) (string, error) {
		if s.ManagerEmail == "" {
			return "", errNotConfigured
		}
		return send(ctx)
	}
}

// dispatch runs every task concurrently and waits for all of them. Tasks
// outlive the caller's cancellation so a dropped HTTP client does not
// abort half-sent notifications.
func (s *NotifyService) dispatch(ctx context.Context, subject slog.Attr, tasks []channelTask) []entities.ChannelOutcome {
	base := context.WithoutCancel(ctx)
	outcomes := make([]entities.ChannelOutcome, len(tasks))

	var wg sync.WaitGroup
	for i, t := range tasks {
		i, t := i, t
		wg.Add(1)
		go func() {
			defer wg.Done()
			outcomes[i] = s.runChannel(base, t)
		}()
	}
	wg.Wait()

	for _, o := range outcomes {
		switch {
		case o.OK:
			s.logger.Info("Notification sent", subject, "channel", o.Channel, "ref", o.Ref)
		case o.Error == errNotConfigured.Error():
			s.logger.Warn("Notification channel not configured", subject, "channel", o.Channel)
		default:
			s.logger.Error("Notification failed", subject, "channel", o.Channel, "error", o.Error)
		}
	}
	return outcomes
}

func (s *NotifyService) runChannel(parent context.Context, t channelTask) entities.ChannelOutcome {
	out := entities.ChannelOutcome{Channel: t.channel}

	ctx, cancel := context.WithTimeout(parent, s.Timeout)
	defer cancel()

	type result struct {
		ref string
		err error
	}
	done := make(chan result, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- result{err: fmt.Errorf("panic: %v", r)}
			}
		}()
		ref, err := t.run(ctx)
		done <- result{ref: ref, err: err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			out.Error = res.err.Error()
			return out
		}
		out.OK = true
		out.Ref = res.ref
	case <-ctx.Done():
		out.Error = fmt.Sprintf("timed out after %s", s.Timeout)
	}
	return out
}

// Outcome returns the outcome for channel, if the report has one.
func Outcome(report []entities.ChannelOutcome, channel string) (entities.ChannelOutcome, bool) {
	for _, o := range report {
		if o.Channel == channel {
			return o, true
		}
	}
	return entities.ChannelOutcome{}, false
}
