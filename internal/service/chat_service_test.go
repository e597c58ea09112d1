package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"spadesk/internal/chat"
	"spadesk/internal/entities"
	apperrors "spadesk/internal/errors"
	"spadesk/internal/logger"
	"spadesk/internal/validation"
)

func newTestChatService(store *fakeChatStore, responder *fakeResponder) *ChatService {
	svc := NewChatService(store, nil, validation.New(), logger.Discard())
	if responder != nil {
		svc.Responder = responder
	}
	svc.now = testNow
	return svc
}

func strPtr(s string) *string { return &s }

func TestChat_StartsSession(t *testing.T) {
	store := newFakeChatStore()
	responder := &fakeResponder{reply: "We open at 9am."}
	svc := newTestChatService(store, responder)

	resp, err := svc.Chat(context.Background(), &entities.ChatRequest{
		Message:   "When do you open?",
		UserEmail: strPtr("Ada@Example.com"),
	})
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if resp.Response != "We open at 9am." {
		t.Errorf("response = %q", resp.Response)
	}
	if uuid.Validate(resp.SessionID) != nil {
		t.Errorf("session id = %q", resp.SessionID)
	}
	session := store.sessions[resp.SessionID]
	if session == nil || session.UserEmail.String != "ada@example.com" {
		t.Errorf("session = %+v", session)
	}
	if len(store.messages) != 1 || store.messages[0].Response != "We open at 9am." {
		t.Errorf("messages = %+v", store.messages)
	}
	if resp.Timestamp != "2025-06-01T12:00:00Z" {
		t.Errorf("timestamp = %q", resp.Timestamp)
	}
}

func TestChat_SendsOnlyRecentHistory(t *testing.T) {
	store := newFakeChatStore()
	responder := &fakeResponder{reply: "ok"}
	svc := newTestChatService(store, responder)
	ctx := context.Background()

	first, err := svc.Chat(ctx, &entities.ChatRequest{Message: "m0"})
	if err != nil {
		t.Fatal(err)
	}
	for _, m := range []string{"m1", "m2", "m3", "m4"} {
		if _, err := svc.Chat(ctx, &entities.ChatRequest{Message: m, SessionID: &first.SessionID}); err != nil {
			t.Fatal(err)
		}
	}

	last := responder.history[len(responder.history)-1]
	if len(last) != chat.HistoryExchanges {
		t.Fatalf("history = %+v", last)
	}
	if last[0].User != "m1" || last[2].User != "m3" || last[2].Assistant != "ok" {
		t.Errorf("history = %+v", last)
	}
	if len(responder.history[0]) != 0 {
		t.Errorf("first message history = %+v", responder.history[0])
	}
}

func TestChat_UnknownSession(t *testing.T) {
	store := newFakeChatStore()
	responder := &fakeResponder{reply: "ok"}
	svc := newTestChatService(store, responder)

	_, err := svc.Chat(context.Background(), &entities.ChatRequest{Message: "hi", SessionID: strPtr(uuid.NewString())})
	if apperrors.CodeOf(err) != apperrors.CodeNotFound {
		t.Fatalf("err = %v, want NOT_FOUND", err)
	}
	if len(responder.prompts) != 0 || len(store.sessions) != 0 {
		t.Error("unknown session must not reach the responder or create a session")
	}
}

func TestChat_Invalid(t *testing.T) {
	svc := newTestChatService(newFakeChatStore(), &fakeResponder{})
	tests := []struct {
		name  string
		req   *entities.ChatRequest
		field string
	}{
		{"blank message", &entities.ChatRequest{Message: "   "}, "message"},
		{"bad session id", &entities.ChatRequest{Message: "hi", SessionID: strPtr("abc")}, "session_id"},
		{"bad email", &entities.ChatRequest{Message: "hi", UserEmail: strPtr("ada")}, "user_email"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Chat(context.Background(), tt.req)
			appErr := apperrors.AsAppError(err)
			if appErr.Code != apperrors.CodeValidation {
				t.Fatalf("err = %v", err)
			}
			if _, ok := appErr.Fields[tt.field]; !ok {
				t.Errorf("fields = %v, want %q", appErr.Fields, tt.field)
			}
		})
	}
}

func TestChat_FallbackOnResponderError(t *testing.T) {
	store := newFakeChatStore()
	svc := newTestChatService(store, &fakeResponder{err: errors.New("upstream 502")})

	resp, err := svc.Chat(context.Background(), &entities.ChatRequest{Message: "hello"})
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if resp.Response != chat.ChatFallback {
		t.Errorf("response = %q", resp.Response)
	}
	if len(store.messages) != 1 || store.messages[0].Response != chat.ChatFallback {
		t.Errorf("messages = %+v", store.messages)
	}
}

func TestChat_FallbackWithoutResponder(t *testing.T) {
	svc := newTestChatService(newFakeChatStore(), nil)

	resp, err := svc.Chat(context.Background(), &entities.ChatRequest{Message: "hello"})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Response != chat.ChatFallback {
		t.Errorf("response = %q", resp.Response)
	}
}

func TestChat_StoreFailureStillReplies(t *testing.T) {
	store := newFakeChatStore()
	store.addErr = errors.New("connection reset")
	svc := newTestChatService(store, &fakeResponder{reply: "hi there"})

	resp, err := svc.Chat(context.Background(), &entities.ChatRequest{Message: "hello"})
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if resp.Response != "hi there" || resp.Timestamp == "" {
		t.Errorf("response = %+v", resp)
	}
}

func TestQuickReply(t *testing.T) {
	store := newFakeChatStore()
	responder := &fakeResponder{reply: "Yes, we have a sauna."}
	svc := newTestChatService(store, responder)

	resp, err := svc.QuickReply(context.Background(), &entities.QuickChatRequest{Message: "  Do you have a sauna?  "})
	if err != nil {
		t.Fatalf("QuickReply() error = %v", err)
	}
	if resp.Response != "Yes, we have a sauna." || resp.Timestamp != "2025-06-01T12:00:00Z" {
		t.Errorf("response = %+v", resp)
	}
	if len(responder.prompts) != 1 || responder.prompts[0] != "Do you have a sauna?" || len(responder.history[0]) != 0 {
		t.Errorf("prompts = %q, history = %v", responder.prompts, responder.history)
	}
	if len(store.sessions) != 0 || len(store.messages) != 0 {
		t.Errorf("quick reply stored state: sessions=%d messages=%d", len(store.sessions), len(store.messages))
	}
}

func TestQuickReply_Fallback(t *testing.T) {
	tests := []struct {
		name      string
		responder *fakeResponder
	}{
		{"responder error", &fakeResponder{err: errors.New("upstream 502")}},
		{"no responder", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestChatService(newFakeChatStore(), tt.responder)
			resp, err := svc.QuickReply(context.Background(), &entities.QuickChatRequest{Message: "hello"})
			if err != nil {
				t.Fatal(err)
			}
			if resp.Response != chat.ChatFallback {
				t.Errorf("response = %q", resp.Response)
			}
		})
	}
}

func TestQuickReply_BlankMessage(t *testing.T) {
	svc := newTestChatService(newFakeChatStore(), &fakeResponder{reply: "x"})
	_, err := svc.QuickReply(context.Background(), &entities.QuickChatRequest{Message: " "})
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeValidation {
		t.Fatalf("err = %v", err)
	}
}

func TestEnsureSession(t *testing.T) {
	store := newFakeChatStore()
	svc := newTestChatService(store, &fakeResponder{reply: "ok"})
	ctx := context.Background()
	id := uuid.NewString()

	if err := svc.EnsureSession(ctx, id); err != nil {
		t.Fatalf("EnsureSession() error = %v", err)
	}
	if err := svc.EnsureSession(ctx, id); err != nil {
		t.Fatalf("second EnsureSession() error = %v", err)
	}
	if len(store.sessions) != 1 {
		t.Errorf("sessions = %d, want 1", len(store.sessions))
	}

	resp, err := svc.ChatInSession(ctx, id, "hello")
	if err != nil || resp.SessionID != id {
		t.Fatalf("ChatInSession() = %+v, %v", resp, err)
	}

	if err := svc.EnsureSession(ctx, "not-a-uuid"); apperrors.CodeOf(err) != apperrors.CodeValidation {
		t.Errorf("err = %v, want VALIDATION_ERROR", err)
	}
}

func TestHistoryAndSessions(t *testing.T) {
	store := newFakeChatStore()
	svc := newTestChatService(store, &fakeResponder{reply: "ok"})
	ctx := context.Background()

	first, err := svc.Chat(ctx, &entities.ChatRequest{Message: "one", UserEmail: strPtr("ada@example.com")})
	if err != nil {
		t.Fatal(err)
	}
	for _, m := range []string{"two", "three", "four", "five"} {
		if _, err := svc.Chat(ctx, &entities.ChatRequest{Message: m, SessionID: &first.SessionID}); err != nil {
			t.Fatal(err)
		}
	}

	history, err := svc.History(ctx, first.SessionID)
	if err != nil {
		t.Fatal(err)
	}
	if len(history.Messages) != 5 || history.Messages[0].Message != "one" || history.Messages[4].Message != "five" {
		t.Errorf("history = %+v", history)
	}

	sessions, err := svc.Sessions(ctx, "ADA@example.com", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(sessions) != 1 || sessions[0].MessageCount != 5 {
		t.Errorf("sessions = %+v", sessions)
	}

	if _, err := svc.History(ctx, uuid.NewString()); apperrors.CodeOf(err) != apperrors.CodeNotFound {
		t.Errorf("err = %v, want NOT_FOUND", err)
	}
}

func TestDeleteSession(t *testing.T) {
	store := newFakeChatStore()
	svc := newTestChatService(store, &fakeResponder{reply: "ok"})
	ctx := context.Background()

	resp, err := svc.Chat(ctx, &entities.ChatRequest{Message: "hello"})
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.DeleteSession(ctx, resp.SessionID); err != nil {
		t.Fatalf("DeleteSession() error = %v", err)
	}
	if err := svc.DeleteSession(ctx, resp.SessionID); apperrors.CodeOf(err) != apperrors.CodeNotFound {
		t.Errorf("err = %v, want NOT_FOUND", err)
	}
}
