package service

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strconv"
	"time"

	"spadesk/internal/config"
	"spadesk/internal/db"
	"spadesk/internal/entities"
	"spadesk/internal/notify"
)

//go:embed templates/*.html
var templateFS embed.FS

// SenderService composes the outgoing emails, texts and sheet rows. It
// never sends anything itself.
type SenderService struct {
	spa  config.Spa
	tmpl *template.Template
	now  func() time.Time
}

func NewSenderService(spa config.Spa) (*SenderService, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("error parsing email templates: %w", err)
	}
	if spa.Location == nil {
		spa.Location = time.UTC
	}
	return &SenderService{spa: spa, tmpl: tmpl, now: time.Now}, nil
}

func (s *SenderService) bookingData(b *db.Booking) entities.BookingEmailData {
	data := entities.BookingEmailData{
		SpaName:          s.spa.Name,
		SpaAddress:       s.spa.Address,
		SpaPhone:         s.spa.Phone,
		ClientName:       b.ClientName,
		ClientEmail:      b.ClientEmail,
		ClientPhone:      b.ClientPhone,
		ConfirmationCode: b.ConfirmationCode,
		ServiceName:      b.ServiceName,
		Duration:         b.ServiceDuration,
		DateFormatted:    b.AppointmentDate.Format("Monday, January 2, 2006"),
		TimeFormatted:    b.AppointmentTime,
		TotalPrice:       formatPrice(b.TotalPrice),
		SpecialRequests:  b.SpecialRequests.String,
		CurrentYear:      s.now().In(s.spa.Location).Year(),
	}
	if start, err := b.StartsAt(s.spa.Location); err == nil {
		data.TimeFormatted = start.Format("3:04 PM")
	}
	return data
}

func (s *SenderService) inquiryData(q *db.Inquiry, response string) entities.InquiryEmailData {
	return entities.InquiryEmailData{
		SpaName:     s.spa.Name,
		SpaPhone:    s.spa.Phone,
		InquiryID:   q.ID,
		Name:        q.Name,
		Email:       q.Email,
		Phone:       q.Phone.String,
		Subject:     q.Subject,
		Message:     q.Message,
		Response:    response,
		CurrentYear: s.now().In(s.spa.Location).Year(),
	}
}

// BookingConfirmation is the email sent to the client.
func (s *SenderService) BookingConfirmation(b *db.Booking) (notify.Email, error) {
	data := s.bookingData(b)
	html, err := s.render("booking_confirmation.html", data)
	if err != nil {
		return notify.Email{}, err
	}
	plain := fmt.Sprintf(
		"Hello %s,\n\nYour appointment at %s is confirmed.\n\n"+
			"Confirmation code: %s\n"+
			"Service: %s (%d minutes)\n"+
			"Date: %s\n"+
			"Time: %s\n"+
			"Price: %s\n\n"+
			"Please arrive 10 minutes early. Cancellations require 24 hours notice.\n\n"+
			"%s\n%s\n%s",
		data.ClientName, data.SpaName, data.ConfirmationCode, data.ServiceName, data.Duration,
		data.DateFormatted, data.TimeFormatted, data.TotalPrice,
		data.SpaName, data.SpaAddress, data.SpaPhone,
	)
	return notify.Email{
		ToAddress: b.ClientEmail,
		ToName:    b.ClientName,
		Subject:   fmt.Sprintf("Booking confirmed: %s on %s - Code %s", data.ServiceName, data.DateFormatted, data.ConfirmationCode),
		PlainText: plain,
		HTML:      html,
	}, nil
}

// BookingAlert is the email sent to the spa manager.
func (s *SenderService) BookingAlert(b *db.Booking) (notify.Email, error) {
	data := s.bookingData(b)
	html, err := s.render("booking_alert.html", data)
	if err != nil {
		return notify.Email{}, err
	}
	plain := fmt.Sprintf(
		"New booking %s\n\nClient: %s\nEmail: %s\nPhone: %s\nService: %s (%d minutes)\nWhen: %s at %s\nPrice: %s\nSpecial requests: %s",
		data.ConfirmationCode, data.ClientName, data.ClientEmail, data.ClientPhone, data.ServiceName, data.Duration,
		data.DateFormatted, data.TimeFormatted, data.TotalPrice, orNone(data.SpecialRequests),
	)
	return notify.Email{
		ToAddress: s.spa.ManagerEmail,
		ToName:    s.spa.Name,
		Subject:   fmt.Sprintf("New booking: %s - %s %s", data.ClientName, b.AppointmentDate.Format(time.DateOnly), b.AppointmentTime),
		PlainText: plain,
		HTML:      html,
	}, nil
}

func (s *SenderService) BookingSMS(b *db.Booking) string {
	data := s.bookingData(b)
	return fmt.Sprintf("%s: your %s is confirmed for %s at %s. Code %s. More details in your email.",
		data.SpaName, data.ServiceName, b.AppointmentDate.Format("Jan 2"), data.TimeFormatted, data.ConfirmationCode)
}

// BookingRow is the spreadsheet row for b, in the column order of the
// bookings sheet.
func (s *SenderService) BookingRow(b *db.Booking) []string {
	return []string{
		s.now().In(s.spa.Location).Format(time.DateTime),
		b.ClientName,
		b.ClientEmail,
		b.ClientPhone,
		b.ServiceName,
		b.AppointmentDate.Format(time.DateOnly),
		b.AppointmentTime,
		strconv.Itoa(b.ServiceDuration) + " minutes",
		formatPrice(b.TotalPrice),
		b.Status,
		b.ConfirmationCode,
		b.SpecialRequests.String,
		b.GoogleCalendarEventID.String,
	}
}

// InquiryAcknowledgement thanks the client and includes the drafted
// answer when there is one.
func (s *SenderService) InquiryAcknowledgement(q *db.Inquiry) (notify.Email, error) {
	data := s.inquiryData(q, q.AIResponse.String)
	html, err := s.render("inquiry_ack.html", data)
	if err != nil {
		return notify.Email{}, err
	}
	plain := fmt.Sprintf("Hello %s,\n\nThank you for contacting %s about %q. Our team will get back to you shortly.\n\n",
		data.Name, data.SpaName, data.Subject)
	if data.Response != "" {
		plain += "In the meantime, here is a quick answer to your question:\n\n" + data.Response + "\n\n"
	}
	plain += "For immediate assistance call us at " + data.SpaPhone + "."
	return notify.Email{
		ToAddress: q.Email,
		ToName:    q.Name,
		Subject:   "We received your message: " + q.Subject,
		PlainText: plain,
		HTML:      html,
	}, nil
}

func (s *SenderService) InquiryAlert(q *db.Inquiry) (notify.Email, error) {
	data := s.inquiryData(q, q.AIResponse.String)
	html, err := s.render("inquiry_alert.html", data)
	if err != nil {
		return notify.Email{}, err
	}
	plain := fmt.Sprintf("New inquiry #%d from %s <%s>\nPhone: %s\nSubject: %s\n\n%s",
		q.ID, q.Name, q.Email, orNone(data.Phone), q.Subject, q.Message)
	return notify.Email{
		ToAddress: s.spa.ManagerEmail,
		ToName:    s.spa.Name,
		Subject:   fmt.Sprintf("New inquiry #%d: %s", q.ID, q.Subject),
		PlainText: plain,
		HTML:      html,
	}, nil
}

// InquiryReply carries a manual answer from the spa to the client.
func (s *SenderService) InquiryReply(q *db.Inquiry, reply string) (notify.Email, error) {
	data := s.inquiryData(q, reply)
	html, err := s.render("inquiry_reply.html", data)
	if err != nil {
		return notify.Email{}, err
	}
	plain := fmt.Sprintf("Hello %s,\n\nRegarding your message %q:\n\n%s\n\nBest regards,\n%s\n%s",
		q.Name, q.Subject, reply, data.SpaName, data.SpaPhone)
	return notify.Email{
		ToAddress: q.Email,
		ToName:    q.Name,
		Subject:   "Re: " + q.Subject,
		PlainText: plain,
		HTML:      html,
	}, nil
}

func (s *SenderService) render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := s.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("error rendering %s: %w", name, err)
	}
	return buf.String(), nil
}

func formatPrice(p float64) string {
	return "$" + strconv.FormatFloat(p, 'f', 2, 64)
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}
