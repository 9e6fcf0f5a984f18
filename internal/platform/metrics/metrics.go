package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"salaryengine/internal/domain/payroll"
)

// Collector exposes HTTP and payroll metrics on a private registry.
type Collector struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	rateLimited     prometheus.Counter
	slipsTotal      *prometheus.CounterVec
	batchDuration   *prometheus.HistogramVec
}

func New() *Collector {
	registry := prometheus.NewRegistry()
	c := &Collector{
		registry: registry,
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "salaryengine_http_requests_total",
			Help: "HTTP requests by route and status code.",
		}, []string{"route", "code"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "salaryengine_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		rateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "salaryengine_http_rate_limited_total",
			Help: "Requests rejected with 429.",
		}),
		slipsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "salaryengine_payroll_slips_total",
			Help: "Slip generation attempts by outcome.",
		}, []string{"outcome"}),
		batchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "salaryengine_payroll_batch_duration_seconds",
			Help:    "Monthly payroll batch duration.",
			Buckets: []float64{0.1, 0.5, 1, 5, 15, 60, 300},
		}, []string{"period"}),
	}
	registry.MustRegister(c.requestsTotal, c.requestDuration, c.rateLimited, c.slipsTotal, c.batchDuration)
	for _, outcome := range []string{payroll.OutcomeSuccess, payroll.OutcomeSkipped, payroll.OutcomeFailed} {
		c.slipsTotal.WithLabelValues(outcome)
	}
	c.handler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	return c
}

// Handler serves the registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		})
	}
	return c.handler
}

func (c *Collector) Record(route string, status int, duration time.Duration) {
	if c == nil {
		return
	}
	c.requestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
	c.requestDuration.WithLabelValues(route).Observe(duration.Seconds())
	if status == http.StatusTooManyRequests {
		c.rateLimited.Inc()
	}
}

func (c *Collector) Middleware(next http.Handler) http.Handler {
	if c == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)
		c.Record(routePattern(r), recorder.status, time.Since(start))
	})
}

func (c *Collector) ObserveSlip(outcome string) {
	if c == nil {
		return
	}
	c.slipsTotal.WithLabelValues(outcome).Inc()
}

func (c *Collector) ObserveBatch(period payroll.Period, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.batchDuration.WithLabelValues(period.String()).Observe(elapsed.Seconds())
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func routePattern(r *http.Request) string {
	if routeCtx := chi.RouteContext(r.Context()); routeCtx != nil {
		if pattern := routeCtx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unknown"
}
