package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"spadesk/internal/catalog"
	"spadesk/internal/db"
	"spadesk/internal/entities"
	apperrors "spadesk/internal/errors"
)

const topServices = 5

// ServicesHandler serves the read-only service catalog.
type ServicesHandler struct {
	Catalog *catalog.Catalog
	logger  *slog.Logger
}

func NewServicesHandler(cat *catalog.Catalog, logger *slog.Logger) *ServicesHandler {
	return &ServicesHandler{Catalog: cat, logger: logger}
}

func (h *ServicesHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toServiceResponses(h.Catalog.List(r.URL.Query().Get("category"))))
}

func (h *ServicesHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories := h.Catalog.Categories()
	out := make([]entities.ServiceCategory, len(categories))
	for i, c := range categories {
		out[i] = entities.ServiceCategory{Category: c.Category, Services: toServiceResponses(c.Services)}
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *ServicesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	s, ok := h.Catalog.Get(id)
	if !ok {
		writeError(w, r, h.logger, apperrors.NotFound("service"))
		return
	}
	writeJSON(w, http.StatusOK, toServiceResponse(s))
}

func (h *ServicesHandler) Search(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toServiceResponses(h.Catalog.Search(mux.Vars(r)["term"])))
}

func (h *ServicesHandler) Popular(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toServiceResponses(h.Catalog.Popular(topServices)))
}

func (h *ServicesHandler) Recommendations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := catalog.Filter{Category: q.Get("category")}
	fields := map[string]string{}

	if raw := q.Get("max_duration"); raw != "" {
		d, err := strconv.Atoi(raw)
		if err != nil || d < 0 {
			fields["max_duration"] = "max_duration must be a non-negative integer"
		}
		filter.MaxDuration = d
	}
	if raw := q.Get("max_price"); raw != "" {
		p, err := strconv.ParseFloat(raw, 64)
		if err != nil || p < 0 {
			fields["max_price"] = "max_price must be a non-negative number"
		}
		filter.MaxPrice = p
	}
	if len(fields) > 0 {
		writeError(w, r, h.logger, apperrors.Validation("invalid recommendation filter", fields))
		return
	}

	writeJSON(w, http.StatusOK, toServiceResponses(h.Catalog.Recommendations(filter, topServices)))
}

func toServiceResponse(s db.Service) entities.ServiceResponse {
	return entities.ServiceResponse{
		ID:          s.ID,
		Name:        s.Name,
		Description: s.Description,
		Duration:    s.Duration,
		Price:       s.Price,
		Category:    s.Category,
	}
}

func toServiceResponses(services []db.Service) []entities.ServiceResponse {
	out := make([]entities.ServiceResponse, len(services))
	for i, s := range services {
		out[i] = toServiceResponse(s)
	}
	return out
}
