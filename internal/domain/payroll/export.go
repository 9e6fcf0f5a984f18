package payroll

import (
	"io"

	"github.com/gocarina/gocsv"
)

// RegisterRow is one line of the payroll register export.
type RegisterRow struct {
	EmployeeID      string  `csv:"employee_id"`
	EmployeeName    string  `csv:"employee_name"`
	Period          string  `csv:"period"`
	Gross           float64 `csv:"gross"`
	AdjustedGross   float64 `csv:"adjusted_gross"`
	BasicDA         float64 `csv:"basic_da"`
	HRA             float64 `csv:"hra"`
	Conveyance      float64 `csv:"conveyance"`
	CallAllowance   float64 `csv:"call_allowance"`
	OtherAllowance  float64 `csv:"other_allowance"`
	EmployeePF      float64 `csv:"employee_pf"`
	ProfessionalTax float64 `csv:"professional_tax"`
	ESIC            float64 `csv:"esic"`
	MLWF            float64 `csv:"mlwf"`
	TDS             float64 `csv:"tds"`
	TotalDeductions float64 `csv:"total_deductions"`
	NetPay          float64 `csv:"net_pay"`
	CTC             float64 `csv:"ctc"`
	PaymentStatus   string  `csv:"payment_status"`
}

func RegisterRows(slips []Slip) []RegisterRow {
	rows := make([]RegisterRow, 0, len(slips))
	for _, slip := range slips {
		b := slip.Breakdown
		rows = append(rows, RegisterRow{
			EmployeeID:      slip.EmployeeID,
			EmployeeName:    slip.EmployeeName,
			Period:          slip.Period.String(),
			Gross:           slip.Gross,
			AdjustedGross:   slip.AdjustedGross,
			BasicDA:         b.Earnings.BasicDA,
			HRA:             b.Earnings.HRA,
			Conveyance:      b.Earnings.Conveyance,
			CallAllowance:   b.Earnings.CallAllowance,
			OtherAllowance:  b.Earnings.OtherAllowance,
			EmployeePF:      b.Deductions.EmployeePF,
			ProfessionalTax: b.Deductions.ProfessionalTax,
			ESIC:            b.Deductions.ESICEmployee,
			MLWF:            b.Deductions.MLWFEmployee,
			TDS:             b.Deductions.TDS,
			TotalDeductions: slip.TotalDeductions,
			NetPay:          slip.NetPay,
			CTC:             slip.CTC,
			PaymentStatus:   slip.PaymentStatus,
		})
	}
	return rows
}

// WriteRegister writes the register as CSV with a header row.
func WriteRegister(w io.Writer, slips []Slip) error {
	rows := RegisterRows(slips)
	return gocsv.Marshal(&rows, w)
}
