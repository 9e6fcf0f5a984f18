package salary

import "math"

type PFContribution struct {
	Eligible      bool    `json:"eligible"`
	WageBase      float64 `json:"wageBase"`
	Employee      float64 `json:"employeeContribution"`
	EmployerEPF   float64 `json:"employerEpf"`
	EmployerEPS   float64 `json:"employerEps"`
	EmployerTotal float64 `json:"employerTotal"`
	AdminCharge   float64 `json:"adminCharge"`
	EDLI          float64 `json:"edli"`
}

type ESICContribution struct {
	Eligible bool    `json:"eligible"`
	Employee float64 `json:"employeeContribution"`
	Employer float64 `json:"employerContribution"`
}

// CalculatePF computes provident-fund contributions on wage. An empty mode
// falls back to the table's ceiling mode.
func CalculatePF(r Rates, wage float64, applicable bool, mode CeilingMode) PFContribution {
	if !applicable {
		return PFContribution{}
	}
	wage = sanitize(wage)
	ceiling := sanitize(r.PFWageCeiling)
	capped := math.Min(wage, ceiling)
	if mode == "" {
		mode = r.PFCeilingMode
	}

	base := capped
	if mode == CeilingActual {
		base = wage
	}

	epf := percentOf(base, r.EmployerEPFPercent)
	eps := percentOf(capped, r.EPSPercent)
	return PFContribution{
		Eligible:      true,
		WageBase:      base,
		Employee:      percentOf(base, r.EmployeePFPercent),
		EmployerEPF:   epf,
		EmployerEPS:   eps,
		EmployerTotal: epf + eps,
		AdminCharge:   percentOf(base, r.PFAdminPercent),
		EDLI:          CalculateEDLI(r, base),
	}
}

// CalculateESIC applies state insurance only at or below the salary ceiling.
func CalculateESIC(r Rates, gross float64, applicable bool) ESICContribution {
	gross = sanitize(gross)
	if !applicable || gross > r.ESICSalaryCeiling {
		return ESICContribution{}
	}
	return ESICContribution{
		Eligible: true,
		Employee: percentOf(gross, r.EmployeeESICPercent),
		Employer: percentOf(gross, r.EmployerESICPercent),
	}
}

// CalculateProfessionalTax returns the amount of the first matching slab.
// Slabs are expected in descending threshold order.
func CalculateProfessionalTax(r Rates, gross float64) float64 {
	gross = sanitize(gross)
	for _, slab := range r.PTSlabs {
		if gross > slab.Threshold || (slab.Inclusive && gross == slab.Threshold) {
			return slab.Amount
		}
	}
	return 0
}

func CalculateGratuity(r Rates, basic float64) float64 {
	return percentOf(basic, r.GratuityPercent)
}

func CalculateEDLI(r Rates, wageBase float64) float64 {
	return percentOf(wageBase, r.EDLIPercent)
}

// EstimateTDS spreads a flat rate on annualised income above the threshold
// across twelve months.
func EstimateTDS(r Rates, monthlyGross float64) float64 {
	annual := sanitize(monthlyGross) * 12
	if annual <= r.TDSAnnualThreshold {
		return 0
	}
	return prorate((annual-r.TDSAnnualThreshold)*sanitize(r.TDSRate), 12, 1)
}
