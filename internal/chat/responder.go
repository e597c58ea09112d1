package chat

import (
	"context"
	"fmt"
)

const (
	// ChatFallback is returned to chat users whenever no reply could be
	// generated.
	ChatFallback = "I'm here to help with your spa questions! Please let me know how I can assist you with booking, services, or any other inquiries."

	// HistoryExchanges is how many earlier exchanges accompany a message.
	HistoryExchanges = 3
)

// Exchange is one earlier user message and the reply it got.
type Exchange struct {
	User      string
	Assistant string
}

// Responder produces a reply to message given the recent conversation.
type Responder interface {
	Generate(ctx context.Context, message string, history []Exchange) (string, error)
}

// InquiryPrompt turns a contact-form inquiry into a request for a drafted
// answer.
func InquiryPrompt(subject, message string) string {
	return fmt.Sprintf("Customer inquiry: %s\n%s\n\nPlease provide a helpful, professional response based on our spa services and policies. Be friendly and informative.",
		subject, message)
}
