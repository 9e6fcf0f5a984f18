package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"salaryengine/internal/app/server"
	"salaryengine/internal/platform/config"
	"salaryengine/internal/platform/db"
	"salaryengine/internal/platform/jobs"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "err", err)
		os.Exit(1)
	}
	slog.SetDefault(cfg.Logger())
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "err", err)
		os.Exit(1)
	}
	if cfg.RedisAddr == "" {
		slog.Error("REDIS_ADDR is required for the worker")
		os.Exit(1)
	}
	rates, err := cfg.Rates()
	if err != nil {
		slog.Error("rate table invalid", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		slog.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	rdb := server.NewRedis(cfg)
	defer rdb.Close()

	service := server.NewPayrollService(pool, rdb, cfg, rates, nil)

	workerCfg := jobs.WorkerConfig{
		RedisOpts:   asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Concurrency: cfg.WorkerConcurrency,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskMonthlyPayroll, Handler: jobs.MonthlyPayrollHandler(service, nil)},
		},
	}
	if cfg.PayrollCron != "" {
		task, err := jobs.NewMonthlyPayrollTask("")
		if err != nil {
			slog.Error("cron task build failed", "err", err)
			os.Exit(1)
		}
		workerCfg.Cron = append(workerCfg.Cron, jobs.CronRegistration{Spec: cfg.PayrollCron, Task: task})
	}

	worker, err := jobs.NewWorker(workerCfg)
	if err != nil {
		slog.Error("worker init failed", "err", err)
		os.Exit(1)
	}
	slog.Info("payroll worker started", "concurrency", cfg.WorkerConcurrency, "cron", cfg.PayrollCron)
	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("worker stopped", "err", err)
		os.Exit(1)
	}
}
