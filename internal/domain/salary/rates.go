package salary

import (
	"fmt"
	"sort"
)

// CeilingMode selects the PF wage base: the statutory ceiling or the raw wage.
type CeilingMode string

const (
	CeilingCapped CeilingMode = "15000"
	CeilingActual CeilingMode = "actual"
)

const (
	SalaryTypeMonthly = "monthly"
	SalaryTypeDaily   = "daily"
	SalaryTypeHourly  = "hourly"
)

// PTSlab charges Amount when the gross is above Threshold (or equal to it when Inclusive).
type PTSlab struct {
	Threshold float64 `json:"threshold"`
	Inclusive bool    `json:"inclusive"`
	Amount    float64 `json:"amount"`
}

// Rates is the statutory and company rate table. Treat it as a value: every
// calculator receives it explicitly and nothing mutates it after startup.
type Rates struct {
	BasicDAPercent       float64
	HRAPercent           float64
	ConveyancePercent    float64
	CallAllowancePercent float64
	CallAllowanceFixed   float64

	EmployeePFPercent  float64
	EmployerEPFPercent float64
	EPSPercent         float64
	PFAdminPercent     float64
	EDLIPercent        float64
	PFWageCeiling      float64
	PFCeilingMode      CeilingMode

	EmployeeESICPercent float64
	EmployerESICPercent float64
	ESICSalaryCeiling   float64

	PTSlabs []PTSlab

	GratuityPercent float64
	BonusPercent    float64
	MLWFEmployee    float64
	MLWFEmployer    float64

	OTRateMultiplier       float64
	HoursPerDay            float64
	AnnualLeaveEntitlement float64

	TDSAnnualThreshold float64
	TDSRate            float64

	DefaultDAAmount float64

	// Formulas replaces the default percentage of a split component with an
	// arithmetic expression over base, gross and other_allowance.
	Formulas map[Field]string
}

// DefaultRates returns a fresh copy of the base table.
func DefaultRates() Rates {
	return Rates{
		BasicDAPercent:       0.60,
		HRAPercent:           0.20,
		ConveyancePercent:    0.10,
		CallAllowancePercent: 0.10,
		CallAllowanceFixed:   500,

		EmployeePFPercent:  0.12,
		EmployerEPFPercent: 0.0367,
		EPSPercent:         0.0833,
		PFAdminPercent:     0.005,
		EDLIPercent:        0.005,
		PFWageCeiling:      15000,
		PFCeilingMode:      CeilingCapped,

		EmployeeESICPercent: 0.0075,
		EmployerESICPercent: 0.0325,
		ESICSalaryCeiling:   21000,

		PTSlabs: []PTSlab{
			{Threshold: 10000, Inclusive: true, Amount: 200},
			{Threshold: 7500, Amount: 175},
			{Threshold: 5000, Amount: 150},
		},

		GratuityPercent: 0.0481,
		BonusPercent:    0.0833,
		MLWFEmployee:    25,
		MLWFEmployer:    75,

		OTRateMultiplier:       2,
		HoursPerDay:            8,
		AnnualLeaveEntitlement: 18,

		TDSAnnualThreshold: 700000,
		TDSRate:            0.10,
	}
}

// RateOverrides lists the entries a caller may replace. Nil fields keep the base value.
type RateOverrides struct {
	BasicDAPercent         *float64
	HRAPercent             *float64
	ConveyancePercent      *float64
	CallAllowancePercent   *float64
	CallAllowanceFixed     *float64
	PFWageCeiling          *float64
	PFCeilingMode          *CeilingMode
	ESICSalaryCeiling      *float64
	MLWFEmployee           *float64
	MLWFEmployer           *float64
	OTRateMultiplier       *float64
	HoursPerDay            *float64
	AnnualLeaveEntitlement *float64
	TDSAnnualThreshold     *float64
	TDSRate                *float64
	DefaultDAAmount        *float64
	PTSlabs                []PTSlab
	Formulas               map[Field]string
}

// With returns a copy of r with the overrides merged on top.
func (r Rates) With(o RateOverrides) Rates {
	out := r.clone()
	setFloat(&out.BasicDAPercent, o.BasicDAPercent)
	setFloat(&out.HRAPercent, o.HRAPercent)
	setFloat(&out.ConveyancePercent, o.ConveyancePercent)
	setFloat(&out.CallAllowancePercent, o.CallAllowancePercent)
	setFloat(&out.CallAllowanceFixed, o.CallAllowanceFixed)
	setFloat(&out.PFWageCeiling, o.PFWageCeiling)
	setFloat(&out.ESICSalaryCeiling, o.ESICSalaryCeiling)
	setFloat(&out.MLWFEmployee, o.MLWFEmployee)
	setFloat(&out.MLWFEmployer, o.MLWFEmployer)
	setFloat(&out.OTRateMultiplier, o.OTRateMultiplier)
	setFloat(&out.HoursPerDay, o.HoursPerDay)
	setFloat(&out.AnnualLeaveEntitlement, o.AnnualLeaveEntitlement)
	setFloat(&out.TDSAnnualThreshold, o.TDSAnnualThreshold)
	setFloat(&out.TDSRate, o.TDSRate)
	setFloat(&out.DefaultDAAmount, o.DefaultDAAmount)
	if o.PFCeilingMode != nil {
		out.PFCeilingMode = *o.PFCeilingMode
	}
	if len(o.PTSlabs) > 0 {
		out.PTSlabs = append([]PTSlab(nil), o.PTSlabs...)
	}
	if len(o.Formulas) > 0 {
		if out.Formulas == nil {
			out.Formulas = make(map[Field]string, len(o.Formulas))
		}
		for field, formula := range o.Formulas {
			out.Formulas[field] = formula
		}
	}
	return out
}

// Validate reports formulas that do not parse or target a non-split field.
func (r Rates) Validate() error {
	fields := make([]string, 0, len(r.Formulas))
	for field := range r.Formulas {
		fields = append(fields, string(field))
	}
	sort.Strings(fields)
	for _, name := range fields {
		field := Field(name)
		if !isSplitField(field) {
			return fmt.Errorf("formula for %s: only split components accept formulas", field)
		}
		if _, err := ParseExpr(r.Formulas[field], splitFormulaVars...); err != nil {
			return fmt.Errorf("formula for %s: %w", field, err)
		}
	}
	switch r.PFCeilingMode {
	case CeilingCapped, CeilingActual:
	default:
		return fmt.Errorf("unknown pf ceiling mode %q", r.PFCeilingMode)
	}
	return nil
}

func (r Rates) clone() Rates {
	out := r
	out.PTSlabs = append([]PTSlab(nil), r.PTSlabs...)
	if r.Formulas != nil {
		out.Formulas = make(map[Field]string, len(r.Formulas))
		for field, formula := range r.Formulas {
			out.Formulas[field] = formula
		}
	}
	return out
}

func setFloat(dst *float64, value *float64) {
	if value != nil {
		*dst = *value
	}
}
