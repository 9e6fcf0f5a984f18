package salary

import (
	"math"

	"github.com/shopspring/decimal"
)

// sanitize coerces negative, NaN and infinite amounts to zero.
func sanitize(value float64) float64 {
	if math.IsNaN(value) || math.IsInf(value, 0) || value < 0 {
		return 0
	}
	return value
}

// roundMoney rounds half away from zero to a whole currency unit.
func roundMoney(value float64) float64 {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0
	}
	return decimal.NewFromFloat(value).Round(0).InexactFloat64()
}

// percentOf returns round(amount * pct) computed in decimal.
func percentOf(amount, pct float64) float64 {
	amount = sanitize(amount)
	pct = sanitize(pct)
	return decimal.NewFromFloat(amount).Mul(decimal.NewFromFloat(pct)).Round(0).InexactFloat64()
}

// prorate returns round(amount / per * units); a zero divisor yields zero.
func prorate(amount, per, units float64) float64 {
	amount = sanitize(amount)
	per = sanitize(per)
	units = sanitize(units)
	if per == 0 {
		return 0
	}
	return decimal.NewFromFloat(amount).
		Div(decimal.NewFromFloat(per)).
		Mul(decimal.NewFromFloat(units)).
		Round(0).
		InexactFloat64()
}
