package db

import (
	"context"
	"time"

	"salaryengine/internal/platform/config"
	"salaryengine/internal/platform/querier"
)

// Seed opens the DA schedule with the configured default amount when the
// schedule is still empty.
func Seed(ctx context.Context, db querier.Querier, cfg config.Config, now time.Time) error {
	var count int
	if err := db.QueryRow(ctx, "SELECT COUNT(1) FROM da_schedules").Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	start := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	_, err := db.Exec(ctx, `
    INSERT INTO da_schedules (effective_from, da_amount, is_active)
    VALUES ($1,$2,TRUE)
  `, start, cfg.DefaultDAAmount)
	return err
}
