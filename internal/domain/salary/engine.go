package salary

import (
	"fmt"
	"math"
)

type Attendance struct {
	MonthDays       float64 `json:"monthDays"`
	WeekOffs        float64 `json:"weekOffs"`
	WorkingDays     float64 `json:"workingDays"`
	AbsentDays      float64 `json:"absentDays"`
	PaidDays        float64 `json:"paidDays"`
	PayableFraction float64 `json:"payableFraction"`
	PLBalance       float64 `json:"plBalance"`
}

type Earnings struct {
	Gross              float64 `json:"gross"`
	LeaveDeduction     float64 `json:"leaveDeduction"`
	OTPay              float64 `json:"otPay"`
	AdjustedGross      float64 `json:"adjustedGross"`
	OtherAllowance     float64 `json:"otherAllowance"`
	BasicDA            float64 `json:"basicDa"`
	Basic              float64 `json:"basic"`
	DA                 float64 `json:"da"`
	HRA                float64 `json:"hra"`
	Conveyance         float64 `json:"conveyance"`
	CallAllowance      float64 `json:"callAllowance"`
	AdditionalEarnings float64 `json:"additionalEarnings"`
}

type Deductions struct {
	EmployeePF      float64 `json:"employeePf"`
	ProfessionalTax float64 `json:"professionalTax"`
	ESICEmployee    float64 `json:"esicEmployee"`
	MLWFEmployee    float64 `json:"mlwfEmployee"`
	TDS             float64 `json:"tds"`
	LoanEMI         float64 `json:"loanEmi"`
	Advance         float64 `json:"advance"`
	Additional      float64 `json:"additional"`
	Total           float64 `json:"total"`
}

type EmployerContributions struct {
	EPF       float64 `json:"epf"`
	EPS       float64 `json:"eps"`
	PFTotal   float64 `json:"pfTotal"`
	PFAdmin   float64 `json:"pfAdmin"`
	EDLI      float64 `json:"edli"`
	ESIC      float64 `json:"esic"`
	MLWF      float64 `json:"mlwf"`
	Bonus     float64 `json:"bonus"`
	Gratuity  float64 `json:"gratuity"`
	Mediclaim float64 `json:"mediclaim"`
}

type Summary struct {
	InHand    float64 `json:"inHand"`
	NetPay    float64 `json:"netPay"`
	CTC       float64 `json:"ctc"`
	AnnualCTC float64 `json:"annualCtc"`
}

// Breakdown is the full derived result for one Record.
type Breakdown struct {
	Attendance Attendance            `json:"attendance"`
	Earnings   Earnings              `json:"earnings"`
	Deductions Deductions            `json:"deductions"`
	Employer   EmployerContributions `json:"employer"`
	Summary    Summary               `json:"summary"`
	Overrides  []Field               `json:"overrides"`
}

// Recompute derives every value of rec not held in overrides. It reads
// nothing but its arguments, so equal arguments give equal results.
//
// Evaluation order: attendance counters, leave deduction and overtime,
// adjusted gross, split, statutory deductions, in-hand, employer cost.
func Recompute(r Rates, rec Record, overrides OverrideSet) Breakdown {
	pick := func(field Field, manual, computed float64) float64 {
		if overrides.Has(field) {
			return sanitize(manual)
		}
		return computed
	}

	gross := sanitize(rec.GrossSalary)
	other := sanitize(rec.OtherAllowance)
	absent := sanitize(rec.AbsentDays)

	weekOffs := pick(FieldWeekOffs, rec.WeekOffs, WeekOffs(rec.MonthDays, rec.TotalWorkingDays))
	workingDays := WorkingDays(rec.MonthDays, rec.TotalWorkingDays, weekOffs)
	paidDays := PaidDays(workingDays, absent)
	payable := 0.0
	if workingDays > 0 {
		payable = paidDays / workingDays
	}

	leave := pick(FieldLeaveDeduction, rec.LeaveDeduction, LeaveDeduction(gross, rec.TotalWorkingDays, absent))
	ot := pick(FieldOTPay, rec.OTPay, OvertimePay(r, gross, rec.TotalWorkingDays, rec.TotalWorkingHours, rec.OTHours, rec.OTRate))
	adjusted := AdjustedGross(gross, leave, ot)

	split := SplitGross(r, adjusted, other, rec.SalaryType)
	basicDA := pick(FieldBasicDA, rec.BasicDA, split.BasicDA)
	hra := pick(FieldHRA, rec.HRA, split.HRA)
	conveyance := pick(FieldConveyance, rec.Conveyance, split.Conveyance)
	call := pick(FieldCallAllowance, rec.CallAllowance, split.CallAllowance)
	da := math.Min(sanitize(rec.DA), basicDA)

	pf := CalculatePF(r, basicDA, rec.PFApplicable, rec.PFCeilingMode)
	employeePF := 0.0
	if rec.PFApplicable {
		employeePF = pick(FieldPF, rec.PF, pf.Employee)
	}
	pt := 0.0
	if rec.PTApplicable {
		pt = pick(FieldPT, rec.PT, CalculateProfessionalTax(r, adjusted))
	}
	mlwf, mlwfEmployer := 0.0, 0.0
	if rec.MLWFApplicable {
		mlwf = pick(FieldMLWF, rec.MLWF, sanitize(r.MLWFEmployee))
		mlwfEmployer = sanitize(r.MLWFEmployer)
	}
	esic := CalculateESIC(r, adjusted, rec.ESICApplicable)

	inHand := roundMoney(math.Max(0, adjusted-(employeePF+pt+mlwf+esic.Employee)))
	bonus := percentOf(basicDA, r.BonusPercent)
	mediclaim := sanitize(rec.Mediclaim)
	ctc := roundMoney(adjusted + pf.EmployerTotal + bonus + mlwfEmployer + esic.Employer + mediclaim + other)

	additionalEarnings := sanitize(rec.AdditionalEarnings)
	additionalDeductions := sanitize(rec.AdditionalDeductions)

	b := Breakdown{
		Attendance: Attendance{
			MonthDays:       sanitize(rec.MonthDays),
			WeekOffs:        weekOffs,
			WorkingDays:     workingDays,
			AbsentDays:      absent,
			PaidDays:        paidDays,
			PayableFraction: payable,
			PLBalance:       pick(FieldPLBalance, rec.PLBalance, PaidLeaveBalance(r, rec.PLUsed)),
		},
		Earnings: Earnings{
			Gross:              gross,
			LeaveDeduction:     leave,
			OTPay:              ot,
			AdjustedGross:      adjusted,
			OtherAllowance:     other,
			BasicDA:            basicDA,
			Basic:              basicDA - da,
			DA:                 da,
			HRA:                hra,
			Conveyance:         conveyance,
			CallAllowance:      call,
			AdditionalEarnings: additionalEarnings,
		},
		Deductions: Deductions{
			EmployeePF:      employeePF,
			ProfessionalTax: pt,
			ESICEmployee:    esic.Employee,
			MLWFEmployee:    mlwf,
			Additional:      additionalDeductions,
		},
		Employer: EmployerContributions{
			EPF:       pf.EmployerEPF,
			EPS:       pf.EmployerEPS,
			PFTotal:   pf.EmployerTotal,
			PFAdmin:   pf.AdminCharge,
			EDLI:      pf.EDLI,
			ESIC:      esic.Employer,
			MLWF:      mlwfEmployer,
			Bonus:     bonus,
			Gratuity:  CalculateGratuity(r, basicDA),
			Mediclaim: mediclaim,
		},
		Summary: Summary{
			InHand:    inHand,
			CTC:       ctc,
			AnnualCTC: ctc * 12,
		},
		Overrides: overrides.Fields(),
	}
	settle(&b)
	return b
}

// settle totals the deductions and derives net pay from in-hand.
func settle(b *Breakdown) {
	d := &b.Deductions
	d.Total = d.EmployeePF + d.ProfessionalTax + d.ESICEmployee + d.MLWFEmployee + d.TDS + d.LoanEMI + d.Advance + d.Additional
	net := b.Summary.InHand + b.Earnings.AdditionalEarnings - d.Additional - d.TDS - d.LoanEMI - d.Advance
	b.Summary.NetPay = roundMoney(math.Max(0, net))
}

// CalculateSalaryFromGross runs a monthly, PF- and PT-applicable record
// through Recompute. Values in manual pin derived fields; any other field
// is rejected with ErrUnknownField.
func CalculateSalaryFromGross(r Rates, gross float64, manual map[Field]float64) (Breakdown, error) {
	rec := NewRecord(gross)
	overrides := NewOverrideSet()
	for field, value := range manual {
		if !field.Derived() {
			return Breakdown{}, fmt.Errorf("%w: %s is not overridable", ErrUnknownField, field)
		}
		*rec.number(field) = value
		overrides[field] = struct{}{}
	}
	return Recompute(r, rec, overrides), nil
}
