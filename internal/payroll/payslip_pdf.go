package payroll

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// renderPayslipPDF writes a single-page payslip to slip.PDFPath.
func renderPayslipPDF(p *Payroll, slip *Payslip, employeeName string) error {
	if err := os.MkdirAll(filepath.Dir(slip.PDFPath), 0o755); err != nil {
		return err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Payslip "+slip.PayslipNumber, false)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, "PAYSLIP")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Payslip No: %s", slip.PayslipNumber))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Employee: %s", employeeName))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Period: %04d-%02d", p.PeriodYear, p.PeriodMonth))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Issued: %s", slip.IssuedAt.Format("2006-01-02")))
	pdf.Ln(10)

	rows := [][2]string{
		{"Base Salary", formatIDR(p.BaseSalary)},
		{fmt.Sprintf("Overtime (%.1f h)", p.OvertimeHours), formatIDR(p.OvertimePay)},
		{fmt.Sprintf("Deductions (%d absence days)", p.AbsenceDays), "-" + formatIDR(p.Deductions)},
	}

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(120, 8, "Component", "1", 0, "L", false, 0, "")
	pdf.CellFormat(60, 8, "Amount (IDR)", "1", 1, "R", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, row := range rows {
		pdf.CellFormat(120, 8, row[0], "1", 0, "L", false, 0, "")
		pdf.CellFormat(60, 8, row[1], "1", 1, "R", false, 0, "")
	}

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(120, 9, "Net Salary", "1", 0, "L", false, 0, "")
	pdf.CellFormat(60, 9, formatIDR(p.NetSalary), "1", 1, "R", false, 0, "")

	pdf.Ln(8)
	pdf.SetFont("Arial", "I", 8)
	pdf.Cell(0, 5, fmt.Sprintf("Generated %s. This document is system-issued and valid without signature.",
		time.Now().Format("2006-01-02 15:04")))

	return pdf.OutputFileAndClose(slip.PDFPath)
}

// formatIDR groups thousands with dots, the Indonesian convention.
func formatIDR(amount int64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}
	s := fmt.Sprintf("%d", amount)
	out := ""
	for i, d := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			out += "."
		}
		out += string(d)
	}
	if neg {
		out = "-" + out
	}
	return out
}
