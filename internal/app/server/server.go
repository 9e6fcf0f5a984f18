package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"salaryengine/internal/domain/audit"
	"salaryengine/internal/platform/config"
	"salaryengine/internal/platform/db"
	"salaryengine/internal/platform/jobs"
	"salaryengine/internal/platform/metrics"
	payrollhandler "salaryengine/internal/transport/http/handlers/payroll"
)

type App struct {
	Config config.Config
	DB     *pgxpool.Pool
	Redis  *redis.Client
	Jobs   *jobs.Client
	Router http.Handler
}

// New connects to Postgres (and redis when configured), applies migrations
// and builds the router.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	rates, err := cfg.Rates()
	if err != nil {
		return nil, err
	}

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}
	app := &App{Config: cfg, DB: pool}

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, cfg.MigrationsDir); err != nil {
			app.Close()
			return nil, fmt.Errorf("migrations: %w", err)
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg, time.Now().UTC()); err != nil {
			app.Close()
			return nil, fmt.Errorf("seed: %w", err)
		}
	}

	app.Redis = NewRedis(cfg)
	var enqueuer payrollhandler.Enqueuer
	if cfg.RedisAddr != "" {
		app.Jobs = jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
		enqueuer = app.Jobs
	}

	var collector *metrics.Collector
	if cfg.MetricsEnabled {
		collector = metrics.New()
	}
	observer := payrollObserver(collector)

	app.Router = NewRouter(RouterDeps{
		Config:  cfg,
		Rates:   rates,
		Payroll: NewPayrollService(pool, app.Redis, cfg, rates, observer),
		Jobs:    enqueuer,
		Audit:   audit.New(pool),
		Metrics: collector,
		Ready:   pool.Ping,
	})
	return app, nil
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (a *App) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              a.Config.Addr,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		slog.Info("salary engine listening", "addr", a.Config.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (a *App) Close() {
	if a.Jobs != nil {
		if err := a.Jobs.Close(); err != nil {
			slog.Warn("jobs client close failed", "err", err)
		}
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			slog.Warn("redis close failed", "err", err)
		}
	}
	if a.DB != nil {
		a.DB.Close()
	}
}
