package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"salaryengine/internal/domain/payroll"
)

func scrape(t *testing.T, c *Collector) string {
	t.Helper()
	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	return rec.Body.String()
}

func TestMiddlewareRecordsRoute(t *testing.T) {
	c := New()
	handler := c.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))

	routeCtx := chi.NewRouteContext()
	routeCtx.RoutePatterns = append(routeCtx.RoutePatterns, "/api/v1/payroll/runs")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payroll/runs", nil)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
	handler.ServeHTTP(httptest.NewRecorder(), req)

	body := scrape(t, c)
	if !strings.Contains(body, `salaryengine_http_requests_total{code="429",route="/api/v1/payroll/runs"} 1`) {
		t.Fatalf("request not recorded: %s", body)
	}
	if !strings.Contains(body, "salaryengine_http_rate_limited_total 1") {
		t.Fatalf("rate limit not recorded: %s", body)
	}
}

func TestObservePayroll(t *testing.T) {
	c := New()
	c.ObserveSlip(payroll.OutcomeSuccess)
	c.ObserveSlip(payroll.OutcomeSuccess)
	c.ObserveSlip(payroll.OutcomeSkipped)
	c.ObserveBatch(payroll.Period{Year: 2024, Month: 3}, 2*time.Second)

	body := scrape(t, c)
	for _, want := range []string{
		`salaryengine_payroll_slips_total{outcome="success"} 2`,
		`salaryengine_payroll_slips_total{outcome="skipped"} 1`,
		`salaryengine_payroll_slips_total{outcome="failed"} 0`,
		`salaryengine_payroll_batch_duration_seconds_count{period="2024-03"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in %s", want, body)
		}
	}
}

func TestNilCollectorIsSafe(t *testing.T) {
	var c *Collector
	c.ObserveSlip(payroll.OutcomeFailed)
	c.Record("/", http.StatusOK, time.Millisecond)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}
