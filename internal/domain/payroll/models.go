package payroll

import (
	"time"

	"salaryengine/internal/domain/salary"
)

// Profile is the wage basis of one employee for a date range.
type Profile struct {
	ID              string     `json:"id"`
	EmployeeID      string     `json:"employeeId"`
	EmployeeName    string     `json:"employeeName"`
	SalaryType      string     `json:"salaryType"`
	Gross           float64    `json:"gross"`
	OtherAllowances float64    `json:"otherAllowances"`
	PFApplicable    bool       `json:"pfApplicable"`
	ESICApplicable  bool       `json:"esicApplicable"`
	PTApplicable    bool       `json:"ptApplicable"`
	MLWFApplicable  bool       `json:"mlwfApplicable"`
	Mediclaim       float64    `json:"mediclaim"`
	LoanEMI         float64    `json:"loanEmi"`
	EffectiveFrom   time.Time  `json:"effectiveFrom"`
	EffectiveTo     *time.Time `json:"effectiveTo,omitempty"`
	IsActive        bool       `json:"isActive"`
}

// Covers reports whether the profile is in force on some day of p.
func (pr Profile) Covers(p Period) bool {
	if !pr.IsActive || pr.EffectiveFrom.After(p.End()) {
		return false
	}
	return pr.EffectiveTo == nil || !pr.EffectiveTo.Before(p.Start())
}

// AttendanceSummary is the monthly roll-up read from the attendance source.
type AttendanceSummary struct {
	TotalWorkingDays float64 `json:"totalWorkingDays"`
	PresentDays      float64 `json:"presentDays"`
	AbsentDays       float64 `json:"absentDays"`
	OTHours          float64 `json:"otHours"`
	PLUsed           float64 `json:"plUsed"`
}

// Calculation is the unpersisted result for one employee and period.
type Calculation struct {
	EmployeeID   string            `json:"employeeId"`
	EmployeeName string            `json:"employeeName"`
	Period       Period            `json:"period"`
	ProfileID    string            `json:"profileId"`
	DAAmount     float64           `json:"daAmount"`
	Attendance   AttendanceSummary `json:"attendance"`
	Breakdown    salary.Breakdown  `json:"breakdown"`
}

// Slip is one persisted payroll slip. Only PaymentStatus and Remarks change
// after insertion.
type Slip struct {
	ID              string           `json:"id"`
	EmployeeID      string           `json:"employeeId"`
	EmployeeName    string           `json:"employeeName"`
	Period          Period           `json:"period"`
	ProfileID       string           `json:"profileId"`
	Gross           float64          `json:"gross"`
	AdjustedGross   float64          `json:"adjustedGross"`
	TotalDeductions float64          `json:"totalDeductions"`
	NetPay          float64          `json:"netPay"`
	CTC             float64          `json:"ctc"`
	Breakdown       salary.Breakdown `json:"breakdown"`
	PaymentStatus   string           `json:"paymentStatus"`
	Remarks         string           `json:"remarks,omitempty"`
	CreatedAt       time.Time        `json:"createdAt"`
	UpdatedAt       time.Time        `json:"updatedAt"`
}

func newSlip(id string, calc Calculation, now time.Time) Slip {
	b := calc.Breakdown
	return Slip{
		ID:              id,
		EmployeeID:      calc.EmployeeID,
		EmployeeName:    calc.EmployeeName,
		Period:          calc.Period,
		ProfileID:       calc.ProfileID,
		Gross:           b.Earnings.Gross,
		AdjustedGross:   b.Earnings.AdjustedGross,
		TotalDeductions: b.Deductions.Total,
		NetPay:          b.Summary.NetPay,
		CTC:             b.Summary.CTC,
		Breakdown:       b,
		PaymentStatus:   PaymentStatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

type BatchError struct {
	EmployeeID string `json:"employeeId"`
	Message    string `json:"message"`
}

// BatchSummary reports one monthly run. Total always equals
// Success + Skipped + Failed.
type BatchSummary struct {
	RunID   string       `json:"runId,omitempty"`
	Period  Period       `json:"period"`
	Total   int          `json:"total"`
	Success int          `json:"success"`
	Skipped int          `json:"skipped"`
	Failed  int          `json:"failed"`
	Errors  []BatchError `json:"errors"`
}

type StatusUpdate struct {
	Status  string `json:"status" validate:"required,oneof=pending paid on_hold"`
	Remarks string `json:"remarks" validate:"max=500"`
}
