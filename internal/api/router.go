package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
)

type Routes struct {
	Health   *HealthHandler
	User     *UserHandler
	Services *ServicesHandler
	Admin    *AdminHandler
	Chat     *ChatHandler
	// ChatLimiter throttles POST /api/chat per client IP. Nil disables it.
	ChatLimiter *RateLimiter
}

func NewRouter(rt Routes) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", rt.Health.Health).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()

	// Bookings
	api.HandleFunc("/available-slots", rt.User.AvailableSlots).Methods("GET")
	api.HandleFunc("/book", rt.User.CreateBooking).Methods("POST")
	api.HandleFunc("/bookings/{id:[0-9]+}", rt.User.GetBooking).Methods("GET")

	// Services
	api.HandleFunc("/services", rt.Services.List).Methods("GET")
	api.HandleFunc("/services/categories", rt.Services.Categories).Methods("GET")
	api.HandleFunc("/services/search/{term}", rt.Services.Search).Methods("GET")
	api.HandleFunc("/services/popular", rt.Services.Popular).Methods("GET")
	api.HandleFunc("/services/recommendations", rt.Services.Recommendations).Methods("GET")
	api.HandleFunc("/services/{id:[0-9]+}", rt.Services.Get).Methods("GET")

	// Inquiries
	api.HandleFunc("/inquiry", rt.User.SubmitInquiry).Methods("POST")
	api.HandleFunc("/inquiries", rt.Admin.ListInquiries).Methods("GET")
	api.HandleFunc("/inquiries/{id:[0-9]+}", rt.Admin.GetInquiry).Methods("GET")
	api.HandleFunc("/inquiries/{id:[0-9]+}/status", rt.Admin.UpdateInquiryStatus).Methods("PUT")
	api.HandleFunc("/inquiries/{id:[0-9]+}/respond", rt.Admin.RespondToInquiry).Methods("POST")

	// Chat
	var chat, quick http.Handler = http.HandlerFunc(rt.Chat.Chat), http.HandlerFunc(rt.Chat.QuickReply)
	if rt.ChatLimiter != nil {
		chat, quick = rt.ChatLimiter.Limit(chat), rt.ChatLimiter.Limit(quick)
	}
	api.Handle("/chat", chat).Methods("POST")
	api.Handle("/chat/quick-response", quick).Methods("POST")
	api.HandleFunc("/chat/history/{session_id}", rt.Chat.History).Methods("GET")
	api.HandleFunc("/chat/sessions", rt.Admin.ListChatSessions).Methods("GET")
	api.HandleFunc("/chat/sessions/{session_id}", rt.Admin.DeleteChatSession).Methods("DELETE")
	api.HandleFunc("/chat/ws/{session_id}", rt.Chat.Socket).Methods("GET")

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Detail: "route not found", Code: "NOT_FOUND"})
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, ErrorResponse{Detail: "method not allowed", Code: "METHOD_NOT_ALLOWED"})
	})
	return r
}

// Wrap adds the outer middleware: client IP from proxy headers, request
// logging, panic recovery and CORS.
func Wrap(h http.Handler, allowedOrigins []string, logger *slog.Logger) http.Handler {
	h = handlers.CORS(
		handlers.AllowedOrigins(allowedOrigins),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization", requestIDHeader}),
	)(h)
	h = handlers.RecoveryHandler(
		handlers.RecoveryLogger(slog.NewLogLogger(logger.Handler(), slog.LevelError)),
		handlers.PrintRecoveryStack(true),
	)(h)
	h = RequestLogger(logger)(h)
	return handlers.ProxyHeaders(h)
}
