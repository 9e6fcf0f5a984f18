package salary

import "math"

// Split is the component breakdown of a gross figure.
type Split struct {
	Base          float64 `json:"base"`
	BasicDA       float64 `json:"basicDa"`
	HRA           float64 `json:"hra"`
	Conveyance    float64 `json:"conveyance"`
	CallAllowance float64 `json:"callAllowance"`
}

// SplitGross carves otherAllowance out of gross and divides the remainder
// into Basic+DA, HRA, conveyance and call allowance.
func SplitGross(r Rates, gross, otherAllowance float64, salaryType string) Split {
	gross = sanitize(gross)
	otherAllowance = sanitize(otherAllowance)
	base := math.Max(0, gross-otherAllowance)

	vars := map[string]float64{
		"base":            base,
		"gross":           gross,
		"other_allowance": otherAllowance,
	}
	split := Split{
		Base:       base,
		BasicDA:    component(r, FieldBasicDA, vars, r.BasicDAPercent),
		HRA:        component(r, FieldHRA, vars, r.HRAPercent),
		Conveyance: component(r, FieldConveyance, vars, r.ConveyancePercent),
	}

	switch {
	case r.Formulas[FieldCallAllowance] != "":
		split.CallAllowance = component(r, FieldCallAllowance, vars, r.CallAllowancePercent)
	case salaryType == "" || salaryType == SalaryTypeMonthly:
		split.CallAllowance = percentOf(base, r.CallAllowancePercent)
	default:
		split.CallAllowance = roundMoney(sanitize(r.CallAllowanceFixed))
	}
	return split
}

func component(r Rates, field Field, vars map[string]float64, pct float64) float64 {
	if formula := r.Formulas[field]; formula != "" {
		if expr, err := ParseExpr(formula, splitFormulaVars...); err == nil {
			return roundMoney(sanitize(expr.Eval(vars)))
		}
	}
	return percentOf(vars["base"], pct)
}
