package salary

// Field names a tracked input or overridable value of a Record.
type Field string

const (
	FieldSalaryType           Field = "salary_type"
	FieldGross                Field = "gross_salary"
	FieldOtherAllowance       Field = "other_allowance"
	FieldAttendanceDays       Field = "attendance_days"
	FieldAbsentDays           Field = "absent_days"
	FieldTotalWorkingDays     Field = "total_working_days"
	FieldMonthDays            Field = "month_days"
	FieldOTHours              Field = "ot_hours"
	FieldOTRate               Field = "ot_rate"
	FieldTotalWorkingHours    Field = "total_working_hours"
	FieldPLUsed               Field = "pl_used"
	FieldLoanActive           Field = "loan_active"
	FieldLoanEMI              Field = "loan_emi"
	FieldAdvancePayment       Field = "advance_payment"
	FieldAdditionalEarnings   Field = "additional_earnings"
	FieldAdditionalDeductions Field = "additional_deductions"
	FieldPFApplicable         Field = "pf_applicable"
	FieldESICApplicable       Field = "esic_applicable"
	FieldPTApplicable         Field = "pt_applicable"
	FieldMLWFApplicable       Field = "mlwf_applicable"
	FieldMediclaim            Field = "mediclaim"
	FieldDA                   Field = "da"

	// Overridable values. Without an override the engine derives them.
	FieldWeekOffs       Field = "week_offs"
	FieldPLBalance      Field = "pl_balance"
	FieldLeaveDeduction Field = "leave_deduction"
	FieldOTPay          Field = "ot_pay"
	FieldBasicDA        Field = "basic_da"
	FieldHRA            Field = "hra"
	FieldConveyance     Field = "conveyance"
	FieldCallAllowance  Field = "call_allowance"
	FieldPF             Field = "pf"
	FieldPT             Field = "pt"
	FieldMLWF           Field = "mlwf"
)

var derivedFields = map[Field]bool{
	FieldWeekOffs:       true,
	FieldPLBalance:      true,
	FieldLeaveDeduction: true,
	FieldOTPay:          true,
	FieldBasicDA:        true,
	FieldHRA:            true,
	FieldConveyance:     true,
	FieldCallAllowance:  true,
	FieldPF:             true,
	FieldPT:             true,
	FieldMLWF:           true,
}

// Derived reports whether the engine computes f when it is not overridden.
func (f Field) Derived() bool {
	return derivedFields[f]
}

// triggerFields drive the attendance and split formulas.
var triggerFields = []Field{
	FieldGross,
	FieldOtherAllowance,
	FieldAbsentDays,
	FieldTotalWorkingDays,
	FieldMonthDays,
	FieldOTHours,
	FieldOTRate,
	FieldTotalWorkingHours,
}

// InvalidationPolicy maps an overridable field to the inputs whose change
// hands it back to formula control.
type InvalidationPolicy map[Field][]Field

// splitInvalidation covers the split triple only. Call allowance, PF and the
// other overridable fields keep a manual value until the user clears it.
var splitInvalidation = InvalidationPolicy{
	FieldBasicDA:    triggerFields,
	FieldHRA:        triggerFields,
	FieldConveyance: triggerFields,
}

// SplitInvalidationPolicy returns a copy of the policy the engine applies.
func SplitInvalidationPolicy() InvalidationPolicy {
	out := make(InvalidationPolicy, len(splitInvalidation))
	for field, triggers := range splitInvalidation {
		out[field] = append([]Field(nil), triggers...)
	}
	return out
}

// Invalidated lists the fields a change to trigger releases from override.
func (p InvalidationPolicy) Invalidated(trigger Field) []Field {
	var out []Field
	for field, triggers := range p {
		for _, candidate := range triggers {
			if candidate == trigger {
				out = append(out, field)
				break
			}
		}
	}
	sortFields(out)
	return out
}

func isSplitField(f Field) bool {
	switch f {
	case FieldBasicDA, FieldHRA, FieldConveyance, FieldCallAllowance:
		return true
	}
	return false
}
