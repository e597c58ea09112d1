package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Email is one outgoing message.
type Email struct {
	ToAddress string
	ToName    string
	Subject   string
	PlainText string
	HTML      string
}

type EmailConfig struct {
	APIKey    string
	FromEmail string
	FromName  string
	// Host overrides the SendGrid API host. Empty uses the default.
	Host string
}

type EmailSender struct {
	request rest.Request
	from    *mail.Email
	logger  *slog.Logger
}

func NewEmailSender(cfg EmailConfig, logger *slog.Logger) *EmailSender {
	request := sendgrid.GetRequest(cfg.APIKey, "/v3/mail/send", cfg.Host)
	request.Method = "POST"
	return &EmailSender{
		request: request,
		from:    mail.NewEmail(cfg.FromName, cfg.FromEmail),
		logger:  logger,
	}
}

// Send delivers e and returns the SendGrid message id when one is reported.
func (s *EmailSender) Send(ctx context.Context, e Email) (string, error) {
	to := mail.NewEmail(e.ToName, e.ToAddress)
	message := mail.NewSingleEmail(s.from, e.Subject, to, e.PlainText, e.HTML)

	response, err := s.client().SendWithContext(ctx, message)
	if err != nil {
		return "", fmt.Errorf("sendgrid request failed: %w", err)
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return "", fmt.Errorf("sendgrid returned status %d: %s", response.StatusCode, response.Body)
	}

	ref := ""
	if ids := response.Headers["X-Message-Id"]; len(ids) > 0 {
		ref = ids[0]
	}
	s.logger.Debug("Email sent", "to", e.ToAddress, "subject", e.Subject, "status", response.StatusCode)
	return ref, nil
}

// client returns a fresh SendGrid client. SendWithContext writes the body
// into the client, so one client cannot serve concurrent sends.
func (s *EmailSender) client() *sendgrid.Client {
	req := s.request
	req.Headers = make(map[string]string, len(s.request.Headers))
	for k, v := range s.request.Headers {
		req.Headers[k] = v
	}
	return &sendgrid.Client{Request: req}
}
