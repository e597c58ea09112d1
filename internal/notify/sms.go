package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

type SMSConfig struct {
	AccountSID string
	AuthToken  string
	FromNumber string
}

type SMSSender struct {
	client *twilio.RestClient
	from   string
	logger *slog.Logger
}

func NewSMSSender(cfg SMSConfig, logger *slog.Logger) *SMSSender {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username:   cfg.AccountSID,
		Password:   cfg.AuthToken,
		AccountSid: cfg.AccountSID,
	})
	return &SMSSender{client: client, from: cfg.FromNumber, logger: logger}
}

// Send texts body to an E.164 number and returns the message SID. The
// Twilio client does not take a context, so ctx is only checked before the
// call.
func (s *SMSSender) Send(ctx context.Context, to, body string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	params := &openapi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(s.from)
	params.SetBody(body)

	resp, err := s.client.Api.CreateMessage(params)
	if err != nil {
		return "", fmt.Errorf("twilio request failed: %w", err)
	}
	sid := ""
	if resp != nil && resp.Sid != nil {
		sid = *resp.Sid
	}
	s.logger.Debug("SMS sent", "to", to, "sid", sid)
	return sid, nil
}
