package salary

import (
	"math"

	"github.com/shopspring/decimal"
)

type AttendanceInput struct {
	Gross             float64
	MonthDays         float64
	TotalWorkingDays  float64
	LeaveDays         float64
	OTHours           float64
	OTRate            float64
	TotalWorkingHours float64
}

type AttendanceResult struct {
	WeekOffs       float64 `json:"weekOffs"`
	WorkingDays    float64 `json:"workingDays"`
	PaidDays       float64 `json:"paidDays"`
	LeaveDeduction float64 `json:"leaveDeduction"`
	OTPay          float64 `json:"otPay"`
	AdjustedGross  float64 `json:"adjustedGross"`
}

// AdjustForAttendance prorates gross for leave and adds overtime.
func AdjustForAttendance(r Rates, in AttendanceInput) AttendanceResult {
	weekOffs := WeekOffs(in.MonthDays, in.TotalWorkingDays)
	workingDays := WorkingDays(in.MonthDays, in.TotalWorkingDays, weekOffs)
	leave := LeaveDeduction(in.Gross, in.TotalWorkingDays, in.LeaveDays)
	ot := OvertimePay(r, in.Gross, in.TotalWorkingDays, in.TotalWorkingHours, in.OTHours, in.OTRate)
	return AttendanceResult{
		WeekOffs:       weekOffs,
		WorkingDays:    workingDays,
		PaidDays:       PaidDays(workingDays, in.LeaveDays),
		LeaveDeduction: leave,
		OTPay:          ot,
		AdjustedGross:  AdjustedGross(in.Gross, leave, ot),
	}
}

// WeekOffs counts whole weeks in the month, or in the working-day count when
// the month length is unknown.
func WeekOffs(monthDays, totalWorkingDays float64) float64 {
	return math.Floor(dayBasis(monthDays, totalWorkingDays) / 7)
}

func WorkingDays(monthDays, totalWorkingDays, weekOffs float64) float64 {
	return math.Max(0, dayBasis(monthDays, totalWorkingDays)-sanitize(weekOffs))
}

func PaidDays(workingDays, leaveDays float64) float64 {
	return math.Max(0, sanitize(workingDays)-sanitize(leaveDays))
}

func LeaveDeduction(gross, totalWorkingDays, leaveDays float64) float64 {
	return prorate(gross, totalWorkingDays, leaveDays)
}

// OvertimePay pays otHours at the hourly rate of gross times the multiplier.
// Missing hours fall back to working days times the standard day; a missing
// rate falls back to the table multiplier.
func OvertimePay(r Rates, gross, totalWorkingDays, totalWorkingHours, otHours, otRate float64) float64 {
	hours := sanitize(totalWorkingHours)
	if hours == 0 {
		hours = sanitize(totalWorkingDays) * sanitize(r.HoursPerDay)
	}
	rate := sanitize(otRate)
	if rate == 0 {
		rate = sanitize(r.OTRateMultiplier)
	}
	if hours == 0 {
		return 0
	}
	return decimal.NewFromFloat(sanitize(gross)).
		Div(decimal.NewFromFloat(hours)).
		Mul(decimal.NewFromFloat(sanitize(otHours))).
		Mul(decimal.NewFromFloat(rate)).
		Round(0).
		InexactFloat64()
}

func AdjustedGross(gross, leaveDeduction, otPay float64) float64 {
	return math.Max(0, sanitize(gross)-sanitize(leaveDeduction)+sanitize(otPay))
}

// PaidLeaveBalance is the annual entitlement left after plUsed.
func PaidLeaveBalance(r Rates, plUsed float64) float64 {
	return math.Max(0, sanitize(r.AnnualLeaveEntitlement)-sanitize(plUsed))
}

func dayBasis(monthDays, totalWorkingDays float64) float64 {
	if days := sanitize(monthDays); days > 0 {
		return days
	}
	return sanitize(totalWorkingDays)
}
