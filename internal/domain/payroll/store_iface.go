package payroll

import (
	"context"
	"time"
)

type ProfileStore interface {
	// GetActiveProfile returns ErrProfileNotFound when no active profile
	// covers the period.
	GetActiveProfile(ctx context.Context, employeeID string, period Period) (Profile, error)
	ListActiveProfiles(ctx context.Context, period Period) ([]Profile, error)
}

type DAStore interface {
	// GetActiveDA reports found=false when no active entry covers date.
	GetActiveDA(ctx context.Context, date time.Time) (float64, bool, error)
}

type AttendanceSource interface {
	// Summary returns a zero summary when nothing was recorded.
	Summary(ctx context.Context, employeeID string, period Period) (AttendanceSummary, error)
}

type SlipStore interface {
	// InsertSlip returns ErrDuplicateSlip when the employee already has a
	// slip for the period.
	InsertSlip(ctx context.Context, slip Slip) (string, error)
	GetSlip(ctx context.Context, slipID string) (Slip, error)
	ListSlips(ctx context.Context, period Period) ([]Slip, error)
	// UpdateSlipStatus applies the change only while the slip still has
	// status from; otherwise it returns ErrInvalidStatusTransition.
	UpdateSlipStatus(ctx context.Context, slipID, from, to, remarks string) (Slip, error)
}

type RunStore interface {
	CreateJobRun(ctx context.Context, jobType string) (string, error)
	UpdateJobRun(ctx context.Context, runID, status string, details any) error
}

type AuditLog interface {
	Record(ctx context.Context, actorID, action, entityType, entityID, requestID string, before, after any) error
}

// Observer receives slip outcomes and batch timings.
type Observer interface {
	ObserveSlip(outcome string)
	ObserveBatch(period Period, elapsed time.Duration)
}
