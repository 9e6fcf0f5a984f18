package payroll

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"salaryengine/internal/domain/salary"
	"salaryengine/internal/requestctx"
)

var january = Period{Year: 2025, Month: time.January}

func newTestService(store *memStore) (*Service, *memAudit, *countingObserver) {
	audit := &memAudit{}
	observer := &countingObserver{}
	ids := 0
	svc := NewService(Deps{
		Profiles:   store,
		DA:         store,
		Attendance: store,
		Slips:      store,
		Runs:       store,
		Audit:      audit,
		Observer:   observer,
		Rates:      salary.DefaultRates(),
		Now:        func() time.Time { return time.Date(2025, 2, 1, 9, 0, 0, 0, time.UTC) },
		NewID: func() string {
			ids++
			return fmt.Sprintf("slip-%d", ids)
		},
	})
	return svc, audit, observer
}

func TestCalculateEmployeePayrollThirtyThousand(t *testing.T) {
	store := newMemStore(testProfile("E1", 30000))
	svc, _, _ := newTestService(store)

	calc, err := svc.CalculateEmployeePayroll(context.Background(), "E1", january)
	require.NoError(t, err)

	b := calc.Breakdown
	require.Equal(t, 18000.0, b.Earnings.BasicDA)
	require.Equal(t, 6000.0, b.Earnings.HRA)
	require.Equal(t, 3000.0, b.Earnings.Conveyance)
	require.Equal(t, 1800.0, b.Deductions.EmployeePF)
	require.Equal(t, 200.0, b.Deductions.ProfessionalTax)
	require.Equal(t, 0.0, b.Deductions.ESICEmployee)
	require.Equal(t, 28000.0, b.Summary.NetPay)
	require.Equal(t, "profile-E1", calc.ProfileID)
	require.Empty(t, store.slips)
}

func TestCalculateEmployeePayrollUsesAttendance(t *testing.T) {
	store := newMemStore(testProfile("E1", 30000))
	store.attendance["E1/2025-01"] = AttendanceSummary{TotalWorkingDays: 26, AbsentDays: 2}
	svc, _, _ := newTestService(store)

	calc, err := svc.CalculateEmployeePayroll(context.Background(), "E1", january)
	require.NoError(t, err)
	require.Equal(t, 2308.0, calc.Breakdown.Earnings.LeaveDeduction)
	require.Equal(t, 27692.0, calc.Breakdown.Earnings.AdjustedGross)
}

func TestCalculateEmployeePayrollResolvesDA(t *testing.T) {
	store := newMemStore(testProfile("E1", 30000))
	svc, _, _ := newTestService(store)
	svc.rates.DefaultDAAmount = 1500

	calc, err := svc.CalculateEmployeePayroll(context.Background(), "E1", january)
	require.NoError(t, err)
	require.Equal(t, 1500.0, calc.DAAmount)
	require.Equal(t, 1500.0, calc.Breakdown.Earnings.DA)

	store.da = []daEntry{{EffectiveFrom: time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC), Amount: 2200, IsActive: true}}
	calc, err = svc.CalculateEmployeePayroll(context.Background(), "E1", january)
	require.NoError(t, err)
	require.Equal(t, 2200.0, calc.DAAmount)
	require.Equal(t, 15800.0, calc.Breakdown.Earnings.Basic)
}

func TestCalculateEmployeePayrollProfileNotFound(t *testing.T) {
	expired := testProfile("E1", 30000)
	end := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
	expired.EffectiveTo = &end
	svc, _, _ := newTestService(newMemStore(expired))

	_, err := svc.CalculateEmployeePayroll(context.Background(), "E1", january)
	require.ErrorIs(t, err, ErrProfileNotFound)

	_, err = svc.CalculateEmployeePayroll(context.Background(), "  ", january)
	require.ErrorIs(t, err, ErrInvalidEmployeeID)
}

func TestCalculateEmployeePayrollWrapsStoreErrors(t *testing.T) {
	store := newMemStore()
	store.profileErr = errors.New("connection refused")
	svc, _, _ := newTestService(store)

	_, err := svc.CalculateEmployeePayroll(context.Background(), "E7", january)
	var perr *PersistenceError
	require.ErrorAs(t, err, &perr)
	require.Equal(t, "E7", perr.EmployeeID)
	require.Contains(t, err.Error(), "connection refused")
}

func TestGenerateSlipRejectsDuplicates(t *testing.T) {
	store := newMemStore(testProfile("E1", 30000))
	svc, audit, observer := newTestService(store)

	slip, err := svc.GenerateSlip(context.Background(), "E1", january)
	require.NoError(t, err)
	require.Equal(t, "slip-1", slip.ID)
	require.Equal(t, PaymentStatusPending, slip.PaymentStatus)
	require.Equal(t, 28000.0, slip.NetPay)
	require.Equal(t, 30000.0, slip.Gross)

	_, err = svc.GenerateSlip(context.Background(), "E1", january)
	require.ErrorIs(t, err, ErrDuplicateSlip)
	require.Len(t, store.slips, 1)

	require.Equal(t, 1, observer.slips[OutcomeSuccess])
	require.Equal(t, 1, observer.slips[OutcomeSkipped])
	require.Len(t, audit.entries, 1)
	require.Equal(t, AuditActionSlipGenerated, audit.entries[0].Action)
}

func TestUpdateSlipStatus(t *testing.T) {
	store := newMemStore(testProfile("E1", 30000))
	svc, audit, _ := newTestService(store)
	ctx := context.Background()

	slip, err := svc.GenerateSlip(ctx, "E1", january)
	require.NoError(t, err)

	updated, err := svc.UpdateSlipStatus(ctx, slip.ID, "hr-1", StatusUpdate{Status: PaymentStatusOnHold, Remarks: " bank details missing "})
	require.NoError(t, err)
	require.Equal(t, PaymentStatusOnHold, updated.PaymentStatus)
	require.Equal(t, "bank details missing", updated.Remarks)
	require.Equal(t, slip.NetPay, updated.NetPay)

	updated, err = svc.UpdateSlipStatus(ctx, slip.ID, "hr-1", StatusUpdate{Status: PaymentStatusOnHold, Remarks: "awaiting ifsc"})
	require.NoError(t, err)
	require.Equal(t, PaymentStatusOnHold, updated.PaymentStatus)
	require.Equal(t, "awaiting ifsc", updated.Remarks)

	updated, err = svc.UpdateSlipStatus(ctx, slip.ID, "hr-1", StatusUpdate{Status: PaymentStatusPaid})
	require.NoError(t, err)
	require.Equal(t, PaymentStatusPaid, updated.PaymentStatus)

	updated, err = svc.UpdateSlipStatus(ctx, slip.ID, "hr-1", StatusUpdate{Status: PaymentStatusPaid, Remarks: "utr 4471"})
	require.NoError(t, err)
	require.Equal(t, "utr 4471", updated.Remarks)

	_, err = svc.UpdateSlipStatus(ctx, slip.ID, "hr-1", StatusUpdate{Status: PaymentStatusPending})
	require.ErrorIs(t, err, ErrInvalidStatusTransition)

	_, err = svc.UpdateSlipStatus(ctx, "missing", "hr-1", StatusUpdate{Status: PaymentStatusPaid})
	require.ErrorIs(t, err, ErrSlipNotFound)

	require.Equal(t, "hr-1", audit.entries[len(audit.entries)-1].ActorID)
}

func TestGenerateSlipAuditsRequestActor(t *testing.T) {
	store := newMemStore(testProfile("E1", 30000))
	svc, audit, _ := newTestService(store)
	ctx := requestctx.WithActorID(context.Background(), "hr-7")

	_, err := svc.GenerateSlip(ctx, "E1", january)
	require.NoError(t, err)
	require.Len(t, audit.entries, 1)
	require.Equal(t, "hr-7", audit.entries[0].ActorID)
}

func TestOutcome(t *testing.T) {
	require.Equal(t, OutcomeSuccess, Outcome(nil))
	require.Equal(t, OutcomeSkipped, Outcome(fmt.Errorf("insert: %w", ErrDuplicateSlip)))
	require.Equal(t, OutcomeFailed, Outcome(ErrProfileNotFound))
	require.Equal(t, OutcomeFailed, Outcome(&PersistenceError{Op: "slip insert", Err: errors.New("boom")}))
}
