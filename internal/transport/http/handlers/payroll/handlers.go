package payrollhandler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"salaryengine/internal/domain/audit"
	"salaryengine/internal/domain/auth"
	"salaryengine/internal/domain/payroll"
	"salaryengine/internal/transport/http/api"
	"salaryengine/internal/transport/http/middleware"
	"salaryengine/internal/transport/http/shared"
)

type Service interface {
	CalculateEmployeePayroll(ctx context.Context, employeeID string, period payroll.Period) (payroll.Calculation, error)
	GenerateSlip(ctx context.Context, employeeID string, period payroll.Period) (payroll.Slip, error)
	GenerateMonthlyPayroll(ctx context.Context, period payroll.Period) (payroll.BatchSummary, error)
	GetSlip(ctx context.Context, slipID string) (payroll.Slip, error)
	ListSlips(ctx context.Context, period payroll.Period) ([]payroll.Slip, error)
	UpdateSlipStatus(ctx context.Context, slipID, actorID string, update payroll.StatusUpdate) (payroll.Slip, error)
}

// Enqueuer queues a monthly run on the background worker.
type Enqueuer interface {
	EnqueueMonthlyPayroll(ctx context.Context, period string) (string, error)
}

type AuditReader interface {
	Count(ctx context.Context, filter audit.Filter) (int, error)
	List(ctx context.Context, filter audit.Filter, includeDetails bool, limit, offset int) ([]audit.Event, error)
}

type Handler struct {
	Service Service
	Jobs    Enqueuer
	Audit   AuditReader
	Perms   middleware.PermissionStore
}

func NewHandler(service Service, jobs Enqueuer, auditLog AuditReader, perms middleware.PermissionStore) *Handler {
	return &Handler{Service: service, Jobs: jobs, Audit: auditLog, Perms: perms}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/payroll", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermPayrollRead, h.Perms)).Get("/employees/{employeeID}/periods/{period}", h.handleCalculate)
		r.With(middleware.RequirePermission(auth.PermPayrollRun, h.Perms)).Post("/employees/{employeeID}/periods/{period}/slip", h.handleGenerateSlip)
		r.With(middleware.RequirePermission(auth.PermPayrollRun, h.Perms)).Post("/runs", h.handleRun)
		r.With(middleware.RequirePermission(auth.PermPayrollRead, h.Perms)).Get("/periods/{period}/slips", h.handleListSlips)
		r.With(middleware.RequirePermission(auth.PermPayrollRun, h.Perms)).Get("/periods/{period}/register.csv", h.handleRegister)
		r.With(middleware.RequirePermission(auth.PermPayrollRead, h.Perms)).Get("/slips/{slipID}", h.handleGetSlip)
		r.With(middleware.RequirePermission(auth.PermPayrollRead, h.Perms)).Get("/slips/{slipID}/pdf", h.handleSlipPDF)
		r.With(middleware.RequirePermission(auth.PermPayrollPay, h.Perms)).Patch("/slips/{slipID}/status", h.handleUpdateStatus)
		r.With(middleware.RequirePermission(auth.PermPayrollRun, h.Perms)).Get("/slips/{slipID}/audit", h.handleSlipAudit)
	})
}

func (h *Handler) handleCalculate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	employeeID := chi.URLParam(r, "employeeID")
	if !canSee(r.Context(), employeeID) {
		api.Fail(w, http.StatusForbidden, "forbidden", "not allowed", requestID)
		return
	}
	period, ok := parsePeriod(w, r, requestID)
	if !ok {
		return
	}
	calc, err := h.Service.CalculateEmployeePayroll(r.Context(), employeeID, period)
	if err != nil {
		writeError(w, err, requestID)
		return
	}
	api.Success(w, calc, requestID)
}

func (h *Handler) handleGenerateSlip(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	period, ok := parsePeriod(w, r, requestID)
	if !ok {
		return
	}
	slip, err := h.Service.GenerateSlip(r.Context(), chi.URLParam(r, "employeeID"), period)
	if err != nil {
		writeError(w, err, requestID)
		return
	}
	api.Created(w, slip, requestID)
}

type runPayload struct {
	Period string `json:"period" validate:"required"`
}

type queuedRun struct {
	TaskID string `json:"taskId"`
	Period string `json:"period"`
}

// handleRun generates every slip of a period. With ?async=true the run is
// handed to the worker and the response only carries the task id.
func (h *Handler) handleRun(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	var payload runPayload
	if !shared.DecodeJSON(w, r, requestID, &payload) {
		return
	}
	period, err := payroll.ParsePeriod(payload.Period)
	if err != nil {
		shared.FailValidation(w, requestID, []shared.ValidationIssue{{Field: "period", Reason: "must be in YYYY-MM format"}})
		return
	}

	if async, _ := strconv.ParseBool(r.URL.Query().Get("async")); async {
		if h.Jobs == nil {
			api.Fail(w, http.StatusServiceUnavailable, "jobs_unavailable", "background worker is not configured", requestID)
			return
		}
		taskID, err := h.Jobs.EnqueueMonthlyPayroll(r.Context(), period.String())
		if err != nil {
			slog.Error("payroll run enqueue failed", "period", period.String(), "err", err)
			api.Fail(w, http.StatusServiceUnavailable, "enqueue_failed", "failed to queue payroll run", requestID)
			return
		}
		api.Accepted(w, queuedRun{TaskID: taskID, Period: period.String()}, requestID)
		return
	}

	summary, err := h.Service.GenerateMonthlyPayroll(r.Context(), period)
	if err != nil {
		writeError(w, err, requestID)
		return
	}
	api.Success(w, summary, requestID)
}

// handleListSlips returns every slip of the period to HR and only the
// caller's own slip to anyone else.
func (h *Handler) handleListSlips(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	period, ok := parsePeriod(w, r, requestID)
	if !ok {
		return
	}
	slips, err := h.Service.ListSlips(r.Context(), period)
	if err != nil {
		writeError(w, err, requestID)
		return
	}
	out := make([]payroll.Slip, 0, len(slips))
	for _, slip := range slips {
		if canSee(r.Context(), slip.EmployeeID) {
			out = append(out, slip)
		}
	}
	api.Success(w, out, requestID)
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	period, ok := parsePeriod(w, r, requestID)
	if !ok {
		return
	}
	slips, err := h.Service.ListSlips(r.Context(), period)
	if err != nil {
		writeError(w, err, requestID)
		return
	}
	var buf bytes.Buffer
	if err := payroll.WriteRegister(&buf, slips); err != nil {
		slog.Error("payroll register export failed", "period", period.String(), "err", err)
		api.Fail(w, http.StatusInternalServerError, "export_failed", "failed to export register", requestID)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="payroll-register-%s.csv"`, period))
	_, _ = w.Write(buf.Bytes())
}

func (h *Handler) handleGetSlip(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	slip, ok := h.visibleSlip(w, r, requestID)
	if !ok {
		return
	}
	api.Success(w, slip, requestID)
}

func (h *Handler) handleSlipPDF(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	slip, ok := h.visibleSlip(w, r, requestID)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := payroll.WriteSlipPDF(&buf, slip); err != nil {
		slog.Error("payslip pdf generation failed", "slipId", slip.ID, "err", err)
		api.Fail(w, http.StatusInternalServerError, "export_failed", "failed to render payslip", requestID)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="payslip-%s-%s.pdf"`, slip.EmployeeID, slip.Period))
	_, _ = w.Write(buf.Bytes())
}

func (h *Handler) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	var payload payroll.StatusUpdate
	if !shared.DecodeJSON(w, r, requestID, &payload) {
		return
	}
	slip, err := h.Service.UpdateSlipStatus(r.Context(), chi.URLParam(r, "slipID"), user.UserID, payload)
	if err != nil {
		writeError(w, err, requestID)
		return
	}
	api.Success(w, slip, requestID)
}

type auditPage struct {
	Items []audit.Event `json:"items"`
	Total int           `json:"total"`
	shared.Pagination
}

func (h *Handler) handleSlipAudit(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	if h.Audit == nil {
		api.Success(w, auditPage{Items: []audit.Event{}}, requestID)
		return
	}
	v := shared.NewValidator()
	page := shared.ParsePagination(r, v, 50, 200)
	if v.Reject(w, requestID) {
		return
	}
	filter := audit.Filter{EntityType: payroll.AuditEntitySlip, EntityID: chi.URLParam(r, "slipID")}
	total, err := h.Audit.Count(r.Context(), filter)
	if err != nil {
		slog.Error("audit count failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "audit_failed", "failed to load audit trail", requestID)
		return
	}
	events, err := h.Audit.List(r.Context(), filter, true, page.Limit, page.Offset)
	if err != nil {
		slog.Error("audit list failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "audit_failed", "failed to load audit trail", requestID)
		return
	}
	if events == nil {
		events = []audit.Event{}
	}
	api.Success(w, auditPage{Items: events, Total: total, Pagination: page}, requestID)
}

func (h *Handler) visibleSlip(w http.ResponseWriter, r *http.Request, requestID string) (payroll.Slip, bool) {
	slip, err := h.Service.GetSlip(r.Context(), chi.URLParam(r, "slipID"))
	if err != nil {
		writeError(w, err, requestID)
		return payroll.Slip{}, false
	}
	if !canSee(r.Context(), slip.EmployeeID) {
		api.Fail(w, http.StatusForbidden, "forbidden", "not allowed", requestID)
		return payroll.Slip{}, false
	}
	return slip, true
}

// canSee lets HR read any employee and everyone else only themselves.
func canSee(ctx context.Context, employeeID string) bool {
	user, ok := middleware.GetUser(ctx)
	if !ok {
		return false
	}
	if user.RoleName == auth.RoleHR {
		return true
	}
	return user.EmployeeID != "" && user.EmployeeID == employeeID
}

func parsePeriod(w http.ResponseWriter, r *http.Request, requestID string) (payroll.Period, bool) {
	period, err := payroll.ParsePeriod(chi.URLParam(r, "period"))
	if err != nil {
		shared.FailValidation(w, requestID, []shared.ValidationIssue{{Field: "period", Reason: "must be in YYYY-MM format"}})
		return payroll.Period{}, false
	}
	return period, true
}

func writeError(w http.ResponseWriter, err error, requestID string) {
	switch {
	case errors.Is(err, payroll.ErrInvalidEmployeeID), errors.Is(err, payroll.ErrInvalidPeriod):
		shared.FailValidation(w, requestID, []shared.ValidationIssue{{Reason: err.Error()}})
	case errors.Is(err, payroll.ErrProfileNotFound):
		api.Fail(w, http.StatusNotFound, "profile_not_found", err.Error(), requestID)
	case errors.Is(err, payroll.ErrSlipNotFound):
		api.Fail(w, http.StatusNotFound, "slip_not_found", err.Error(), requestID)
	case errors.Is(err, payroll.ErrDuplicateSlip):
		api.Fail(w, http.StatusConflict, "duplicate_slip", err.Error(), requestID)
	case errors.Is(err, payroll.ErrInvalidStatusTransition):
		api.Fail(w, http.StatusConflict, "invalid_status_transition", err.Error(), requestID)
	default:
		slog.Error("payroll request failed", "requestId", requestID, "err", err)
		api.Fail(w, http.StatusInternalServerError, "payroll_failed", "payroll operation failed", requestID)
	}
}
