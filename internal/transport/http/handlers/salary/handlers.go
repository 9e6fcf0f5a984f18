package salaryhandler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"salaryengine/internal/domain/auth"
	"salaryengine/internal/domain/salary"
	"salaryengine/internal/transport/http/api"
	"salaryengine/internal/transport/http/middleware"
	"salaryengine/internal/transport/http/shared"
)

// Handler serves the stateless salary engine. Every request carries the
// full record; nothing is stored.
type Handler struct {
	Rates salary.Rates
	Perms middleware.PermissionStore
}

func NewHandler(rates salary.Rates, perms middleware.PermissionStore) *Handler {
	return &Handler{Rates: rates, Perms: perms}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/salary", func(r chi.Router) {
		r.Use(middleware.RequirePermission(auth.PermSalaryCalculate, h.Perms))
		r.Post("/calculate", h.handleCalculate)
		r.Post("/recompute", h.handleRecompute)
		r.Post("/preview", h.handlePreview)
	})
}

type calculatePayload struct {
	Gross     float64                  `json:"gross" validate:"gte=0"`
	Overrides map[salary.Field]float64 `json:"overrides"`
}

type recordPayload struct {
	Record    salary.Record   `json:"record"`
	Overrides []salary.Field  `json:"overrides"`
	Changes   []salary.Change `json:"changes" validate:"max=100,dive"`
}

type sessionResponse struct {
	Record    salary.Record    `json:"record"`
	Overrides []salary.Field   `json:"overrides"`
	Breakdown salary.Breakdown `json:"breakdown"`
}

func (h *Handler) handleCalculate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	var payload calculatePayload
	if !shared.DecodeJSON(w, r, requestID, &payload) {
		return
	}
	breakdown, err := salary.CalculateSalaryFromGross(h.Rates, payload.Gross, payload.Overrides)
	if err != nil {
		failEngine(w, err, requestID)
		return
	}
	api.Success(w, breakdown, requestID)
}

// handleRecompute replays changes over a saved record and override set, the
// way an editing form does field by field.
func (h *Handler) handleRecompute(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	var payload recordPayload
	if !shared.DecodeJSON(w, r, requestID, &payload) {
		return
	}
	session := salary.ResumeSession(h.Rates, payload.Record, salary.NewOverrideSet(payload.Overrides...))
	for _, change := range payload.Changes {
		if _, err := session.Set(change); err != nil {
			failEngine(w, err, requestID)
			return
		}
	}
	api.Success(w, sessionResponse{
		Record:    session.Record(),
		Overrides: session.Overrides().Fields(),
		Breakdown: session.Breakdown(),
	}, requestID)
}

func (h *Handler) handlePreview(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	var payload recordPayload
	if !shared.DecodeJSON(w, r, requestID, &payload) {
		return
	}
	session := salary.ResumeSession(h.Rates, payload.Record, salary.NewOverrideSet(payload.Overrides...))
	for _, change := range payload.Changes {
		if _, err := session.Set(change); err != nil {
			failEngine(w, err, requestID)
			return
		}
	}
	api.Success(w, salary.Preview(h.Rates, session.Record(), session.Overrides()), requestID)
}

func failEngine(w http.ResponseWriter, err error, requestID string) {
	if errors.Is(err, salary.ErrUnknownField) {
		shared.FailValidation(w, requestID, []shared.ValidationIssue{{Field: "field", Reason: err.Error()}})
		return
	}
	api.Fail(w, http.StatusInternalServerError, "calculation_failed", "salary calculation failed", requestID)
}
