package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"salaryengine/internal/domain/auth"
	"salaryengine/internal/domain/salary"
	"salaryengine/internal/platform/config"
	"salaryengine/internal/platform/metrics"
	payrollhandler "salaryengine/internal/transport/http/handlers/payroll"
	salaryhandler "salaryengine/internal/transport/http/handlers/salary"
	"salaryengine/internal/transport/http/middleware"
)

type RouterDeps struct {
	Config  config.Config
	Rates   salary.Rates
	Payroll payrollhandler.Service
	Jobs    payrollhandler.Enqueuer
	Audit   payrollhandler.AuditReader
	Metrics *metrics.Collector
	// Ready reports whether downstream dependencies are reachable.
	Ready func(ctx context.Context) error
}

func NewRouter(deps RouterDeps) http.Handler {
	cfg := deps.Config
	perms := auth.RoleTable{}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(chimw.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.IsProduction()))
	if deps.Metrics != nil {
		router.Use(deps.Metrics.Middleware)
	}
	router.Use(middleware.Auth(cfg.JWTSecret))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if deps.Ready != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := deps.Ready(ctx); err != nil {
				http.Error(w, "not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if deps.Metrics != nil {
		router.Handle("/metrics", deps.Metrics.Handler())
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
		r.Use(middleware.MutationRateLimit(cfg.RateLimitPerMinute, time.Minute))

		salaryhandler.NewHandler(deps.Rates, perms).RegisterRoutes(r)
		if deps.Payroll != nil {
			payrollhandler.NewHandler(deps.Payroll, deps.Jobs, deps.Audit, perms).RegisterRoutes(r)
		}
	})

	return router
}
