package salary

import (
	"errors"
	"fmt"
	"time"
)

var ErrUnknownField = errors.New("unknown salary field")

// Record is the editable input of one salary entry. The overridable values
// hold whatever the user last typed; Recompute reads them only for fields in
// the override set.
type Record struct {
	SalaryType    string    `json:"salaryType"`
	EffectiveFrom time.Time `json:"effectiveFrom"`

	GrossSalary       float64 `json:"grossSalary"`
	OtherAllowance    float64 `json:"otherAllowance"`
	AttendanceDays    float64 `json:"attendanceDays"`
	AbsentDays        float64 `json:"absentDays"`
	TotalWorkingDays  float64 `json:"totalWorkingDays"`
	MonthDays         float64 `json:"monthDays"`
	OTHours           float64 `json:"otHours"`
	OTRate            float64 `json:"otRate"`
	TotalWorkingHours float64 `json:"totalWorkingHours"`
	PLUsed            float64 `json:"plUsed"`

	LoanActive           bool    `json:"loanActive"`
	LoanEMI              float64 `json:"loanEmi"`
	AdvancePayment       float64 `json:"advancePayment"`
	AdditionalEarnings   float64 `json:"additionalEarnings"`
	AdditionalDeductions float64 `json:"additionalDeductions"`

	PFApplicable   bool        `json:"pfApplicable"`
	ESICApplicable bool        `json:"esicApplicable"`
	PTApplicable   bool        `json:"ptApplicable"`
	MLWFApplicable bool        `json:"mlwfApplicable"`
	PFCeilingMode  CeilingMode `json:"pfCeilingMode,omitempty"`
	Mediclaim      float64     `json:"mediclaim"`
	DA             float64     `json:"da"`

	WeekOffs       float64 `json:"weekOffs"`
	PLBalance      float64 `json:"plBalance"`
	LeaveDeduction float64 `json:"leaveDeduction"`
	OTPay          float64 `json:"otPay"`
	BasicDA        float64 `json:"basicDa"`
	HRA            float64 `json:"hra"`
	Conveyance     float64 `json:"conveyance"`
	CallAllowance  float64 `json:"callAllowance"`
	PF             float64 `json:"pf"`
	PT             float64 `json:"pt"`
	MLWF           float64 `json:"mlwf"`
}

// NewRecord returns a monthly record with PF and PT switched on.
func NewRecord(gross float64) Record {
	return Record{
		SalaryType:   SalaryTypeMonthly,
		GrossSalary:  gross,
		PFApplicable: true,
		PTApplicable: true,
	}
}

// Change is one edit of a Record field. Numeric and boolean fields read
// Value (non-zero is true); salary_type reads Text.
type Change struct {
	Field  Field   `json:"field" validate:"required"`
	Value  float64 `json:"value"`
	Text   string  `json:"text,omitempty"`
	Manual bool    `json:"manual"`
}

func (rec *Record) set(c Change) error {
	if c.Field == FieldSalaryType {
		rec.SalaryType = c.Text
		return nil
	}
	if target := rec.flag(c.Field); target != nil {
		*target = c.Value != 0
		return nil
	}
	target := rec.number(c.Field)
	if target == nil {
		return fmt.Errorf("%w: %s", ErrUnknownField, c.Field)
	}
	*target = c.Value
	return nil
}

func (rec *Record) flag(field Field) *bool {
	switch field {
	case FieldLoanActive:
		return &rec.LoanActive
	case FieldPFApplicable:
		return &rec.PFApplicable
	case FieldESICApplicable:
		return &rec.ESICApplicable
	case FieldPTApplicable:
		return &rec.PTApplicable
	case FieldMLWFApplicable:
		return &rec.MLWFApplicable
	}
	return nil
}

func (rec *Record) number(field Field) *float64 {
	switch field {
	case FieldGross:
		return &rec.GrossSalary
	case FieldOtherAllowance:
		return &rec.OtherAllowance
	case FieldAttendanceDays:
		return &rec.AttendanceDays
	case FieldAbsentDays:
		return &rec.AbsentDays
	case FieldTotalWorkingDays:
		return &rec.TotalWorkingDays
	case FieldMonthDays:
		return &rec.MonthDays
	case FieldOTHours:
		return &rec.OTHours
	case FieldOTRate:
		return &rec.OTRate
	case FieldTotalWorkingHours:
		return &rec.TotalWorkingHours
	case FieldPLUsed:
		return &rec.PLUsed
	case FieldLoanEMI:
		return &rec.LoanEMI
	case FieldAdvancePayment:
		return &rec.AdvancePayment
	case FieldAdditionalEarnings:
		return &rec.AdditionalEarnings
	case FieldAdditionalDeductions:
		return &rec.AdditionalDeductions
	case FieldMediclaim:
		return &rec.Mediclaim
	case FieldDA:
		return &rec.DA
	case FieldWeekOffs:
		return &rec.WeekOffs
	case FieldPLBalance:
		return &rec.PLBalance
	case FieldLeaveDeduction:
		return &rec.LeaveDeduction
	case FieldOTPay:
		return &rec.OTPay
	case FieldBasicDA:
		return &rec.BasicDA
	case FieldHRA:
		return &rec.HRA
	case FieldConveyance:
		return &rec.Conveyance
	case FieldCallAllowance:
		return &rec.CallAllowance
	case FieldPF:
		return &rec.PF
	case FieldPT:
		return &rec.PT
	case FieldMLWF:
		return &rec.MLWF
	}
	return nil
}

// absorb copies computed values into the overridable fields the user has not
// taken over, so the record mirrors what the form displays.
func (rec *Record) absorb(b Breakdown, overrides OverrideSet) {
	values := map[Field]float64{
		FieldWeekOffs:       b.Attendance.WeekOffs,
		FieldPLBalance:      b.Attendance.PLBalance,
		FieldLeaveDeduction: b.Earnings.LeaveDeduction,
		FieldOTPay:          b.Earnings.OTPay,
		FieldBasicDA:        b.Earnings.BasicDA,
		FieldHRA:            b.Earnings.HRA,
		FieldConveyance:     b.Earnings.Conveyance,
		FieldCallAllowance:  b.Earnings.CallAllowance,
		FieldPF:             b.Deductions.EmployeePF,
		FieldPT:             b.Deductions.ProfessionalTax,
		FieldMLWF:           b.Deductions.MLWFEmployee,
	}
	for field, value := range values {
		if overrides.Has(field) {
			continue
		}
		*rec.number(field) = value
	}
}
