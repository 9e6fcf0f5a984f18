package payroll

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"salaryengine/internal/platform/querier"
)

const slipUniqueConstraint = "uq_payroll_slips_employee_period"

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

const profileColumns = `id, employee_id, employee_name, salary_type, gross, other_allowances,
           pf_applicable, esic_applicable, pt_applicable, mlwf_applicable,
           mediclaim, loan_emi, effective_from, effective_to, is_active`

func scanProfile(row pgx.Row) (Profile, error) {
	var p Profile
	err := row.Scan(&p.ID, &p.EmployeeID, &p.EmployeeName, &p.SalaryType, &p.Gross, &p.OtherAllowances,
		&p.PFApplicable, &p.ESICApplicable, &p.PTApplicable, &p.MLWFApplicable,
		&p.Mediclaim, &p.LoanEMI, &p.EffectiveFrom, &p.EffectiveTo, &p.IsActive)
	return p, err
}

func (s *Store) GetActiveProfile(ctx context.Context, employeeID string, period Period) (Profile, error) {
	p, err := scanProfile(s.DB.QueryRow(ctx, `
    SELECT `+profileColumns+`
    FROM employee_salary_profiles
    WHERE employee_id = $1 AND is_active
      AND effective_from <= $3
      AND (effective_to IS NULL OR effective_to >= $2)
    ORDER BY effective_from DESC
    LIMIT 1
  `, employeeID, period.Start(), period.End()))
	if errors.Is(err, pgx.ErrNoRows) {
		return Profile{}, ErrProfileNotFound
	}
	return p, err
}

func (s *Store) ListActiveProfiles(ctx context.Context, period Period) ([]Profile, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT DISTINCT ON (employee_id) `+profileColumns+`
    FROM employee_salary_profiles
    WHERE is_active
      AND effective_from <= $2
      AND (effective_to IS NULL OR effective_to >= $1)
    ORDER BY employee_id, effective_from DESC
  `, period.Start(), period.End())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) GetActiveDA(ctx context.Context, date time.Time) (float64, bool, error) {
	var amount float64
	err := s.DB.QueryRow(ctx, `
    SELECT da_amount
    FROM da_schedules
    WHERE is_active
      AND effective_from <= $1
      AND (effective_to IS NULL OR effective_to >= $1)
    ORDER BY effective_from DESC
    LIMIT 1
  `, date).Scan(&amount)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return amount, true, nil
}

func (s *Store) Summary(ctx context.Context, employeeID string, period Period) (AttendanceSummary, error) {
	var summary AttendanceSummary
	err := s.DB.QueryRow(ctx, `
    SELECT total_working_days, present_days, absent_days, ot_hours, pl_used
    FROM attendance_summaries
    WHERE employee_id = $1 AND period = $2
  `, employeeID, period.String()).Scan(&summary.TotalWorkingDays, &summary.PresentDays, &summary.AbsentDays, &summary.OTHours, &summary.PLUsed)
	if errors.Is(err, pgx.ErrNoRows) {
		return AttendanceSummary{}, nil
	}
	return summary, err
}

func (s *Store) InsertSlip(ctx context.Context, slip Slip) (string, error) {
	breakdownJSON, err := json.Marshal(slip.Breakdown)
	if err != nil {
		return "", err
	}
	var id string
	err = s.DB.QueryRow(ctx, `
    INSERT INTO payroll_slips (id, employee_id, employee_name, period, profile_id, gross, adjusted_gross,
                               total_deductions, net_pay, ctc, breakdown_json, payment_status, remarks,
                               created_at, updated_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$14)
    RETURNING id
  `, slip.ID, slip.EmployeeID, slip.EmployeeName, slip.Period.String(), nullIfEmpty(slip.ProfileID),
		slip.Gross, slip.AdjustedGross, slip.TotalDeductions, slip.NetPay, slip.CTC, breakdownJSON,
		slip.PaymentStatus, slip.Remarks, slip.CreatedAt).Scan(&id)
	if isDuplicateSlip(err) {
		return "", ErrDuplicateSlip
	}
	if err != nil {
		return "", err
	}
	return id, nil
}

const slipColumns = `id, employee_id, employee_name, period, COALESCE(profile_id::text, ''), gross, adjusted_gross,
           total_deductions, net_pay, ctc, breakdown_json, payment_status, COALESCE(remarks, ''),
           created_at, updated_at`

func scanSlip(row pgx.Row) (Slip, error) {
	var slip Slip
	var period string
	var breakdownJSON []byte
	if err := row.Scan(&slip.ID, &slip.EmployeeID, &slip.EmployeeName, &period, &slip.ProfileID,
		&slip.Gross, &slip.AdjustedGross, &slip.TotalDeductions, &slip.NetPay, &slip.CTC, &breakdownJSON,
		&slip.PaymentStatus, &slip.Remarks, &slip.CreatedAt, &slip.UpdatedAt); err != nil {
		return Slip{}, err
	}
	parsed, err := ParsePeriod(period)
	if err != nil {
		return Slip{}, err
	}
	slip.Period = parsed
	if len(breakdownJSON) > 0 {
		if err := json.Unmarshal(breakdownJSON, &slip.Breakdown); err != nil {
			return Slip{}, err
		}
	}
	return slip, nil
}

func (s *Store) GetSlip(ctx context.Context, slipID string) (Slip, error) {
	slip, err := scanSlip(s.DB.QueryRow(ctx, `
    SELECT `+slipColumns+`
    FROM payroll_slips
    WHERE id = $1
  `, slipID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Slip{}, ErrSlipNotFound
	}
	return slip, err
}

func (s *Store) ListSlips(ctx context.Context, period Period) ([]Slip, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+slipColumns+`
    FROM payroll_slips
    WHERE period = $1
    ORDER BY employee_id
  `, period.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Slip
	for rows.Next() {
		slip, err := scanSlip(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, slip)
	}
	return out, rows.Err()
}

func (s *Store) UpdateSlipStatus(ctx context.Context, slipID, from, to, remarks string) (Slip, error) {
	slip, err := scanSlip(s.DB.QueryRow(ctx, `
    UPDATE payroll_slips
    SET payment_status = $3, remarks = $4, updated_at = now()
    WHERE id = $1 AND payment_status = $2
    RETURNING `+slipColumns, slipID, from, to, remarks))
	if errors.Is(err, pgx.ErrNoRows) {
		return Slip{}, ErrInvalidStatusTransition
	}
	return slip, err
}

func (s *Store) CreateJobRun(ctx context.Context, jobType string) (string, error) {
	var runID string
	if err := s.DB.QueryRow(ctx, `
    INSERT INTO job_runs (job_type, status)
    VALUES ($1,$2)
    RETURNING id
  `, jobType, JobStatusRunning).Scan(&runID); err != nil {
		return "", err
	}
	return runID, nil
}

func (s *Store) UpdateJobRun(ctx context.Context, runID, status string, details any) error {
	detailsJSON, err := json.Marshal(details)
	if err != nil {
		detailsJSON = []byte("{}")
	}
	_, execErr := s.DB.Exec(ctx, `
    UPDATE job_runs SET status = $1, details_json = $2, completed_at = now()
    WHERE id = $3
  `, status, detailsJSON, runID)
	return execErr
}

func isDuplicateSlip(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == slipUniqueConstraint
}

func nullIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}
