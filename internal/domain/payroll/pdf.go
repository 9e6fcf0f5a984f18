package payroll

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
)

type slipLine struct {
	label  string
	amount float64
}

// WriteSlipPDF renders slip as a one-page A4 document.
func WriteSlipPDF(w io.Writer, slip Slip) error {
	b := slip.Breakdown

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Payslip %s %s", slip.EmployeeID, slip.Period), false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Payslip")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	name := slip.EmployeeName
	if name == "" {
		name = slip.EmployeeID
	}
	pdf.Cell(0, 8, fmt.Sprintf("Employee: %s", name))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Period: %s to %s", slip.Period.Start().Format("2006-01-02"), slip.Period.End().Format("2006-01-02")))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Paid days: %.1f of %.1f", b.Attendance.PaidDays, b.Attendance.WorkingDays))
	pdf.Ln(10)

	writeSection(pdf, "Earnings", []slipLine{
		{"Basic + DA", b.Earnings.BasicDA},
		{"HRA", b.Earnings.HRA},
		{"Conveyance", b.Earnings.Conveyance},
		{"Call allowance", b.Earnings.CallAllowance},
		{"Other allowance", b.Earnings.OtherAllowance},
		{"Overtime", b.Earnings.OTPay},
		{"Leave deduction", -b.Earnings.LeaveDeduction},
		{"Adjusted gross", b.Earnings.AdjustedGross},
	})
	writeSection(pdf, "Deductions", []slipLine{
		{"Provident fund", b.Deductions.EmployeePF},
		{"Professional tax", b.Deductions.ProfessionalTax},
		{"ESIC", b.Deductions.ESICEmployee},
		{"MLWF", b.Deductions.MLWFEmployee},
		{"TDS", b.Deductions.TDS},
		{"Loan EMI", b.Deductions.LoanEMI},
		{"Advance", b.Deductions.Advance},
		{"Total", b.Deductions.Total},
	})

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Net pay: %.2f", slip.NetPay))
	pdf.Ln(7)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 8, fmt.Sprintf("Status: %s", slip.PaymentStatus))
	if slip.Remarks != "" {
		pdf.Ln(6)
		pdf.Cell(0, 8, fmt.Sprintf("Remarks: %s", slip.Remarks))
	}

	return pdf.Output(w)
}

func writeSection(pdf *gofpdf.Fpdf, title string, lines []slipLine) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, title)
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	for _, line := range lines {
		if line.amount == 0 {
			continue
		}
		pdf.CellFormat(80, 7, line.label, "", 0, "L", false, 0, "")
		pdf.CellFormat(40, 7, fmt.Sprintf("%.2f", line.amount), "", 1, "R", false, 0, "")
	}
	pdf.Ln(4)
}
