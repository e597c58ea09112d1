package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"spadesk/internal/availability"
	"spadesk/internal/catalog"
	"spadesk/internal/chat"
	"spadesk/internal/config"
	"spadesk/internal/db"
	"spadesk/internal/entities"
	"spadesk/internal/google"
	"spadesk/internal/logger"
	"spadesk/internal/notify"
	"spadesk/internal/repository"
	"spadesk/internal/validation"
)

// Sunday 2025-06-01 noon; Monday 2025-06-02 is tomorrow.
var testNow = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }

func testCatalog() *catalog.Catalog {
	services := make([]db.Service, len(db.DefaultServices))
	for i, s := range db.DefaultServices {
		s.ID = i + 1
		s.IsActive = true
		services[i] = s
	}
	return catalog.New(services)
}

func testCalculator() *availability.Calculator {
	hours := availability.BusinessHours{Open: 9 * 60, Close: 18 * 60, ClosedDays: []time.Weekday{time.Sunday}}
	return availability.NewCalculator(hours, 60, 0, time.UTC, testNow)
}

func testSpa() config.Spa {
	return config.Spa{
		Name:         "Serenity Spa",
		Address:      "123 Spa Street",
		Phone:        "(555) 123-4567",
		ManagerEmail: "manager@example.com",
		Location:     time.UTC,
	}
}

// fakeBookingStore mirrors the partial unique index on confirmed start
// times.
type fakeBookingStore struct {
	mu        sync.Mutex
	bookings  []db.Booking
	nextID    int
	listErr   error
	createErr error
	eventIDs  map[int]string
	creates   int
}

func (f *fakeBookingStore) ConfirmedOn(_ context.Context, day time.Time) ([]db.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []db.Booking
	for _, b := range f.bookings {
		if b.Status == db.BookingConfirmed && b.AppointmentDate.Format(time.DateOnly) == day.Format(time.DateOnly) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AppointmentTime < out[j].AppointmentTime })
	return out, nil
}

func (f *fakeBookingStore) CreateBooking(_ context.Context, b *db.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates++
	if f.createErr != nil {
		return f.createErr
	}
	for _, existing := range f.bookings {
		if existing.Status == db.BookingConfirmed &&
			existing.AppointmentDate.Equal(b.AppointmentDate) &&
			existing.AppointmentTime == b.AppointmentTime {
			return repository.ErrSlotTaken
		}
	}
	f.nextID++
	b.ID = f.nextID
	b.CreatedAt = testNow()
	b.UpdatedAt = b.CreatedAt
	f.bookings = append(f.bookings, *b)
	return nil
}

func (f *fakeBookingStore) GetBooking(_ context.Context, id int) (*db.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.bookings {
		if b.ID == id {
			return &b, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeBookingStore) SetCalendarEventID(_ context.Context, id int, eventID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.eventIDs == nil {
		f.eventIDs = map[int]string{}
	}
	f.eventIDs[id] = eventID
	return nil
}

type fakeBookingNotifier struct {
	mu     sync.Mutex
	calls  []*db.Booking
	report []entities.ChannelOutcome
}

func (f *fakeBookingNotifier) NotifyBooking(_ context.Context, b *db.Booking) []entities.ChannelOutcome {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, b)
	return f.report
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []notify.Email
	err  error
}

func (f *fakeMailer) Send(_ context.Context, e notify.Email) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	f.sent = append(f.sent, e)
	return "msg-" + e.ToAddress, nil
}

type fakeTexter struct {
	to, body string
	block    bool
}

func (f *fakeTexter) Send(ctx context.Context, to, body string) (string, error) {
	if f.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	f.to, f.body = to, body
	return "SM123", nil
}

type fakeCalendar struct {
	got google.Appointment
	err error
}

func (f *fakeCalendar) AddAppointment(_ context.Context, a google.Appointment) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.got = a
	return "evt-1", nil
}

type fakeSheets struct {
	row   []string
	panic bool
}

func (f *fakeSheets) AppendBooking(_ context.Context, row []string) (string, error) {
	if f.panic {
		panic("sheet exploded")
	}
	f.row = row
	return "Bookings!A2:M2", nil
}

type fakeResponder struct {
	mu      sync.Mutex
	reply   string
	err     error
	history [][]chat.Exchange
	prompts []string
}

func (f *fakeResponder) Generate(_ context.Context, message string, history []chat.Exchange) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, message)
	f.history = append(f.history, history)
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

type fakeInquiryStore struct {
	inquiries map[int]*db.Inquiry
	nextID    int
	createErr error
}

func newFakeInquiryStore() *fakeInquiryStore {
	return &fakeInquiryStore{inquiries: map[int]*db.Inquiry{}}
}

func (f *fakeInquiryStore) CreateInquiry(_ context.Context, q *db.Inquiry) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.nextID++
	q.ID = f.nextID
	q.CreatedAt = testNow()
	stored := *q
	f.inquiries[q.ID] = &stored
	return nil
}

func (f *fakeInquiryStore) GetInquiry(_ context.Context, id int) (*db.Inquiry, error) {
	q, ok := f.inquiries[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := *q
	return &out, nil
}

func (f *fakeInquiryStore) ListInquiries(_ context.Context, status string, limit, offset int) ([]db.Inquiry, int64, error) {
	var all []db.Inquiry
	for id := 1; id <= f.nextID; id++ {
		if q, ok := f.inquiries[id]; ok && (status == "" || q.Status == status) {
			all = append(all, *q)
		}
	}
	total := int64(len(all))
	if offset > len(all) {
		offset = len(all)
	}
	all = all[offset:]
	if len(all) > limit {
		all = all[:limit]
	}
	return all, total, nil
}

func (f *fakeInquiryStore) SaveResponse(_ context.Context, id int, response string) error {
	q, ok := f.inquiries[id]
	if !ok {
		return repository.ErrNotFound
	}
	q.AIResponse.String, q.AIResponse.Valid = response, true
	q.Status = db.InquiryResponded
	q.RespondedAt.Time, q.RespondedAt.Valid = testNow(), true
	return nil
}

func (f *fakeInquiryStore) UpdateStatus(_ context.Context, id int, status string) error {
	q, ok := f.inquiries[id]
	if !ok {
		return repository.ErrNotFound
	}
	q.Status = status
	return nil
}

type fakeInquiryNotifier struct {
	notified []*db.Inquiry
	replies  []string
}

func (f *fakeInquiryNotifier) NotifyInquiry(_ context.Context, q *db.Inquiry) []entities.ChannelOutcome {
	f.notified = append(f.notified, q)
	return []entities.ChannelOutcome{{Channel: ChannelClientEmail, OK: true}, {Channel: ChannelManagerEmail, OK: true}}
}

func (f *fakeInquiryNotifier) NotifyInquiryReply(_ context.Context, q *db.Inquiry, reply string) []entities.ChannelOutcome {
	f.replies = append(f.replies, reply)
	return []entities.ChannelOutcome{{Channel: ChannelClientEmail, OK: true}}
}

type fakeChatStore struct {
	sessions map[string]*db.ChatSession
	messages []db.ChatMessage
	addErr   error
}

func newFakeChatStore() *fakeChatStore {
	return &fakeChatStore{sessions: map[string]*db.ChatSession{}}
}

func (f *fakeChatStore) CreateSession(_ context.Context, s *db.ChatSession) error {
	s.ID = len(f.sessions) + 1
	s.CreatedAt, s.LastActivity = testNow(), testNow()
	stored := *s
	f.sessions[s.SessionID] = &stored
	return nil
}

func (f *fakeChatStore) GetSession(_ context.Context, sessionID string) (*db.ChatSession, error) {
	s, ok := f.sessions[sessionID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return s, nil
}

func (f *fakeChatStore) RecentMessages(_ context.Context, sessionID string, limit int) ([]db.ChatMessage, error) {
	var out []db.ChatMessage
	for _, m := range f.messages {
		if m.SessionID == sessionID {
			out = append(out, m)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

func (f *fakeChatStore) AddMessage(_ context.Context, m *db.ChatMessage) error {
	if f.addErr != nil {
		return f.addErr
	}
	m.ID = len(f.messages) + 1
	m.CreatedAt = testNow()
	f.messages = append(f.messages, *m)
	return nil
}

func (f *fakeChatStore) ListSessions(_ context.Context, userEmail string, limit int) ([]repository.SessionSummary, error) {
	var out []repository.SessionSummary
	for _, s := range f.sessions {
		if userEmail != "" && s.UserEmail.String != userEmail {
			continue
		}
		count := 0
		for _, m := range f.messages {
			if m.SessionID == s.SessionID {
				count++
			}
		}
		out = append(out, repository.SessionSummary{ChatSession: *s, MessageCount: count})
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeChatStore) DeleteSession(_ context.Context, sessionID string) error {
	if _, ok := f.sessions[sessionID]; !ok {
		return repository.ErrNotFound
	}
	delete(f.sessions, sessionID)
	return nil
}

func newTestBookingService(store *fakeBookingStore, notifier *fakeBookingNotifier) *BookingService {
	return NewBookingService(store, testCatalog(), testCalculator(), notifier, validation.New(), logger.Discard())
}
