package payroll

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"salaryengine/internal/domain/salary"
	"salaryengine/internal/requestctx"
)

// Deps wires the collaborators of Service. Audit and Observer are optional.
type Deps struct {
	Profiles   ProfileStore
	DA         DAStore
	Attendance AttendanceSource
	Slips      SlipStore
	Runs       RunStore
	Audit      AuditLog
	Observer   Observer
	Rates      salary.Rates
	Now        func() time.Time
	NewID      func() string
}

type Service struct {
	profiles   ProfileStore
	da         DAStore
	attendance AttendanceSource
	slips      SlipStore
	runs       RunStore
	audit      AuditLog
	observer   Observer
	rates      salary.Rates
	now        func() time.Time
	newID      func() string
}

func NewService(deps Deps) *Service {
	s := &Service{
		profiles:   deps.Profiles,
		da:         deps.DA,
		attendance: deps.Attendance,
		slips:      deps.Slips,
		runs:       deps.Runs,
		audit:      deps.Audit,
		observer:   deps.Observer,
		rates:      deps.Rates,
		now:        deps.Now,
		newID:      deps.NewID,
	}
	if s.now == nil {
		s.now = func() time.Time { return time.Now().UTC() }
	}
	if s.newID == nil {
		s.newID = uuid.NewString
	}
	return s
}

func (s *Service) Rates() salary.Rates {
	return s.rates
}

// CalculateEmployeePayroll computes the slip figures for one employee without
// persisting anything.
func (s *Service) CalculateEmployeePayroll(ctx context.Context, employeeID string, period Period) (Calculation, error) {
	employeeID = strings.TrimSpace(employeeID)
	if employeeID == "" {
		return Calculation{}, ErrInvalidEmployeeID
	}
	profile, err := s.profiles.GetActiveProfile(ctx, employeeID, period)
	if err != nil {
		return Calculation{}, persistence("profile lookup", employeeID, err)
	}
	return s.calculate(ctx, profile, period)
}

func (s *Service) calculate(ctx context.Context, profile Profile, period Period) (Calculation, error) {
	da, err := s.resolveDA(ctx, period)
	if err != nil {
		return Calculation{}, persistence("da lookup", profile.EmployeeID, err)
	}
	var attendance AttendanceSummary
	if s.attendance != nil {
		attendance, err = s.attendance.Summary(ctx, profile.EmployeeID, period)
		if err != nil {
			return Calculation{}, persistence("attendance lookup", profile.EmployeeID, err)
		}
	}

	rec := recordFor(profile, attendance, period, da)
	return Calculation{
		EmployeeID:   profile.EmployeeID,
		EmployeeName: profile.EmployeeName,
		Period:       period,
		ProfileID:    profile.ID,
		DAAmount:     da,
		Attendance:   attendance,
		Breakdown:    salary.Preview(s.rates, rec, salary.NewOverrideSet()),
	}, nil
}

// resolveDA returns the schedule amount in force at the start of the period,
// or the configured default when none is.
func (s *Service) resolveDA(ctx context.Context, period Period) (float64, error) {
	if s.da == nil {
		return s.rates.DefaultDAAmount, nil
	}
	amount, found, err := s.da.GetActiveDA(ctx, period.Start())
	if err != nil {
		return 0, err
	}
	if !found {
		return s.rates.DefaultDAAmount, nil
	}
	return amount, nil
}

func recordFor(profile Profile, attendance AttendanceSummary, period Period, da float64) salary.Record {
	rec := salary.NewRecord(profile.Gross)
	if profile.SalaryType != "" {
		rec.SalaryType = profile.SalaryType
	}
	rec.EffectiveFrom = profile.EffectiveFrom
	rec.OtherAllowance = profile.OtherAllowances
	rec.PFApplicable = profile.PFApplicable
	rec.ESICApplicable = profile.ESICApplicable
	rec.PTApplicable = profile.PTApplicable
	rec.MLWFApplicable = profile.MLWFApplicable
	rec.Mediclaim = profile.Mediclaim
	rec.DA = da
	if profile.LoanEMI > 0 {
		rec.LoanActive = true
		rec.LoanEMI = profile.LoanEMI
	}

	rec.MonthDays = float64(period.Days())
	rec.TotalWorkingDays = attendance.TotalWorkingDays
	rec.AttendanceDays = attendance.PresentDays
	rec.AbsentDays = attendance.AbsentDays
	rec.OTHours = attendance.OTHours
	rec.PLUsed = attendance.PLUsed
	return rec
}

// GenerateSlip computes and stores the slip for one employee and period.
// A second call for the same pair fails with ErrDuplicateSlip.
func (s *Service) GenerateSlip(ctx context.Context, employeeID string, period Period) (Slip, error) {
	slip, err := s.generate(ctx, employeeID, period)
	s.observeSlip(Outcome(err))
	return slip, err
}

func (s *Service) generate(ctx context.Context, employeeID string, period Period) (Slip, error) {
	calc, err := s.CalculateEmployeePayroll(ctx, employeeID, period)
	if err != nil {
		return Slip{}, err
	}
	return s.insert(ctx, calc)
}

func (s *Service) insert(ctx context.Context, calc Calculation) (Slip, error) {
	slip := newSlip(s.newID(), calc, s.now())
	id, err := s.slips.InsertSlip(ctx, slip)
	if err != nil {
		return Slip{}, persistence("slip insert", calc.EmployeeID, err)
	}
	slip.ID = id
	s.record(ctx, "", AuditActionSlipGenerated, AuditEntitySlip, slip.ID, nil, slip)
	return slip, nil
}

func (s *Service) GetSlip(ctx context.Context, slipID string) (Slip, error) {
	slip, err := s.slips.GetSlip(ctx, slipID)
	if err != nil {
		return Slip{}, persistence("slip lookup", "", err)
	}
	return slip, nil
}

func (s *Service) ListSlips(ctx context.Context, period Period) ([]Slip, error) {
	slips, err := s.slips.ListSlips(ctx, period)
	if err != nil {
		return nil, persistence("slip list", "", err)
	}
	return slips, nil
}

// UpdateSlipStatus moves a slip to a new payment status. Only the status and
// remarks of a slip ever change after insertion.
func (s *Service) UpdateSlipStatus(ctx context.Context, slipID, actorID string, update StatusUpdate) (Slip, error) {
	current, err := s.GetSlip(ctx, slipID)
	if err != nil {
		return Slip{}, err
	}
	if !canTransition(current.PaymentStatus, update.Status) {
		return Slip{}, ErrInvalidStatusTransition
	}
	updated, err := s.slips.UpdateSlipStatus(ctx, slipID, current.PaymentStatus, update.Status, strings.TrimSpace(update.Remarks))
	if err != nil {
		return Slip{}, persistence("slip status", current.EmployeeID, err)
	}
	s.record(ctx, actorID, AuditActionSlipStatus, AuditEntitySlip, slipID,
		map[string]string{"paymentStatus": current.PaymentStatus, "remarks": current.Remarks},
		map[string]string{"paymentStatus": updated.PaymentStatus, "remarks": updated.Remarks})
	return updated, nil
}

func (s *Service) record(ctx context.Context, actorID, action, entityType, entityID string, before, after any) {
	if s.audit == nil {
		return
	}
	if actorID == "" {
		actorID = requestctx.GetActorID(ctx)
	}
	if err := s.audit.Record(ctx, actorID, action, entityType, entityID, requestctx.GetRequestID(ctx), before, after); err != nil {
		slog.Warn("audit record failed", "action", action, "entityId", entityID, "err", err)
	}
}

func (s *Service) observeSlip(outcome string) {
	if s.observer != nil {
		s.observer.ObserveSlip(outcome)
	}
}

// Outcome classifies a GenerateSlip error for batch accounting.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, ErrDuplicateSlip):
		return OutcomeSkipped
	default:
		return OutcomeFailed
	}
}
