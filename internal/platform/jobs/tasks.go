package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/hibiken/asynq"

	"salaryengine/internal/domain/payroll"
)

const (
	QueuePayroll = "payroll"
	// TaskMonthlyPayroll generates the slips of one period.
	TaskMonthlyPayroll = "payroll:monthly"
)

// MonthlyPayrollPayload names the period to run. An empty period means the
// month before the one the task is processed in, which is what the cron
// entry enqueues.
type MonthlyPayrollPayload struct {
	Period string `json:"period,omitempty"`
}

func NewMonthlyPayrollTask(period string) (*asynq.Task, error) {
	data, err := json.Marshal(MonthlyPayrollPayload{Period: strings.TrimSpace(period)})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskMonthlyPayroll, data, asynq.Queue(QueuePayroll), asynq.MaxRetry(3)), nil
}

// PayrollRunner is the part of the payroll service the worker drives.
type PayrollRunner interface {
	GenerateMonthlyPayroll(ctx context.Context, period payroll.Period) (payroll.BatchSummary, error)
}

// MonthlyPayrollHandler runs the batch for the task's period. Malformed
// payloads are not retried; a failed batch is.
func MonthlyPayrollHandler(runner PayrollRunner, now func() time.Time) asynq.HandlerFunc {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return func(ctx context.Context, t *asynq.Task) error {
		period, err := periodFromPayload(t.Payload(), now())
		if err != nil {
			slog.Warn("payroll task rejected", "err", err)
			return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
		}
		summary, err := runner.GenerateMonthlyPayroll(ctx, period)
		if err != nil {
			return fmt.Errorf("monthly payroll %s: %w", period, err)
		}
		slog.Info("payroll task completed",
			"period", period.String(),
			"runId", summary.RunID,
			"success", summary.Success,
			"skipped", summary.Skipped,
			"failed", summary.Failed,
		)
		return nil
	}
}

func periodFromPayload(data []byte, now time.Time) (payroll.Period, error) {
	var payload MonthlyPayrollPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return payroll.Period{}, fmt.Errorf("decode payload: %w", err)
	}
	if payload.Period == "" {
		return payroll.PeriodOf(now).Previous(), nil
	}
	return payroll.ParsePeriod(payload.Period)
}
