package api

import (
	"log/slog"
	"net/http"

	"spadesk/internal/entities"
)

// UserHandler serves the public booking and contact endpoints.
type UserHandler struct {
	Bookings  Bookings
	Inquiries Inquiries
	logger    *slog.Logger
}

func NewUserHandler(bookings Bookings, inquiries Inquiries, logger *slog.Logger) *UserHandler {
	return &UserHandler{Bookings: bookings, Inquiries: inquiries, logger: logger}
}

func (h *UserHandler) AvailableSlots(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	resp, err := h.Bookings.AvailableSlots(r.Context(), q.Get("date"), q.Get("service_name"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *UserHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req entities.BookingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	conf, err := h.Bookings.CreateBooking(r.Context(), &req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, conf)
}

func (h *UserHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	b, err := h.Bookings.GetBooking(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (h *UserHandler) SubmitInquiry(w http.ResponseWriter, r *http.Request) {
	var req entities.InquiryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	conf, err := h.Inquiries.SubmitInquiry(r.Context(), &req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, conf)
}
