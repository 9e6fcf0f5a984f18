package salary

// Preview runs Recompute and then applies the take-home deductions a
// committed slip would carry: loan EMI while a loan is active, advance
// recovery and an estimated monthly TDS.
func Preview(r Rates, rec Record, overrides OverrideSet) Breakdown {
	b := Recompute(r, rec, overrides)
	if rec.LoanActive {
		b.Deductions.LoanEMI = roundMoney(sanitize(rec.LoanEMI))
	}
	b.Deductions.Advance = roundMoney(sanitize(rec.AdvancePayment))
	b.Deductions.TDS = EstimateTDS(r, b.Earnings.AdjustedGross)
	settle(&b)
	return b
}
