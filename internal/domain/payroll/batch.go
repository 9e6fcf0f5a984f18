package payroll

import (
	"context"
	"log/slog"
)

// GenerateMonthlyPayroll generates a slip for every employee with an active
// profile covering the period, one employee at a time in list order. A
// failing employee is recorded in the summary and the run moves on; only a
// failure to list the profiles aborts the run.
func (s *Service) GenerateMonthlyPayroll(ctx context.Context, period Period) (BatchSummary, error) {
	started := s.now()
	runID := s.startRun(ctx)

	summary, err := s.runBatch(ctx, period)
	summary.RunID = runID
	s.finishRun(ctx, runID, summary, err)

	if s.observer != nil {
		s.observer.ObserveBatch(period, s.now().Sub(started))
	}
	if err != nil {
		return summary, err
	}
	s.record(ctx, "", AuditActionBatchRun, AuditEntityPeriod, period.String(), nil, summary)
	return summary, nil
}

func (s *Service) runBatch(ctx context.Context, period Period) (BatchSummary, error) {
	summary := BatchSummary{Period: period, Errors: []BatchError{}}
	profiles, err := s.profiles.ListActiveProfiles(ctx, period)
	if err != nil {
		return summary, persistence("profile list", "", err)
	}

	summary.Total = len(profiles)
	for _, profile := range profiles {
		_, err := s.GenerateSlip(ctx, profile.EmployeeID, period)
		switch Outcome(err) {
		case OutcomeSuccess:
			summary.Success++
		case OutcomeSkipped:
			summary.Skipped++
		default:
			summary.Failed++
			summary.Errors = append(summary.Errors, BatchError{EmployeeID: profile.EmployeeID, Message: err.Error()})
			slog.Warn("payroll slip failed", "employeeId", profile.EmployeeID, "period", period.String(), "err", err)
		}
	}
	slog.Info("payroll batch finished",
		"period", period.String(),
		"total", summary.Total,
		"success", summary.Success,
		"skipped", summary.Skipped,
		"failed", summary.Failed,
	)
	return summary, nil
}

func (s *Service) startRun(ctx context.Context) string {
	if s.runs == nil {
		return ""
	}
	runID, err := s.runs.CreateJobRun(ctx, JobMonthlyPayroll)
	if err != nil {
		slog.Warn("job run insert failed", "err", err)
		return ""
	}
	return runID
}

func (s *Service) finishRun(ctx context.Context, runID string, summary BatchSummary, runErr error) {
	if s.runs == nil || runID == "" {
		return
	}
	status := JobStatusCompleted
	var details any = summary
	if runErr != nil {
		status = JobStatusFailed
		details = map[string]string{"error": runErr.Error()}
	}
	if err := s.runs.UpdateJobRun(ctx, runID, status, details); err != nil {
		slog.Warn("job run update failed", "runId", runID, "err", err)
	}
}
