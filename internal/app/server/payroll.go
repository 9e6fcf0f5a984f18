package server

import (
	"github.com/redis/go-redis/v9"

	"salaryengine/internal/domain/audit"
	"salaryengine/internal/domain/payroll"
	"salaryengine/internal/domain/salary"
	"salaryengine/internal/platform/config"
	"salaryengine/internal/platform/metrics"
	"salaryengine/internal/platform/querier"
)

// NewPayrollService wires the payroll service to Postgres, the redis DA
// cache and the audit log. rdb and observer may be nil.
func NewPayrollService(db querier.Querier, rdb *redis.Client, cfg config.Config, rates salary.Rates, observer payroll.Observer) *payroll.Service {
	store := payroll.NewStore(db)
	return payroll.NewService(payroll.Deps{
		Profiles:   store,
		DA:         payroll.NewDACache(store, rdb, cfg.DACacheTTL),
		Attendance: store,
		Slips:      store,
		Runs:       store,
		Audit:      audit.New(db),
		Observer:   observer,
		Rates:      rates,
	})
}

// NewRedis returns nil when no address is configured.
func NewRedis(cfg config.Config) *redis.Client {
	if cfg.RedisAddr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
}

func payrollObserver(c *metrics.Collector) payroll.Observer {
	if c == nil {
		return nil
	}
	return c
}
