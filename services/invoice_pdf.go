package services

import (
	"fmt"
	"io"

	"github.com/phpdave11/gofpdf"
	"github.com/shopspring/decimal"
)

// WriteInvoicePDF renders inv as a single A4 page.
func WriteInvoicePDF(w io.Writer, inv *Invoice) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(inv.Number, false)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, "Invoice "+inv.Number)
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 11)
	for _, row := range [][2]string{
		{"Client", inv.ClientName},
		{"National ID", inv.NationalID},
		{"Email", inv.Email},
		{"Reserved at", inv.ReservedAt.Format("2006-01-02 15:04")},
		{"Payment method", inv.PaymentMethod},
	} {
		pdf.CellFormat(40, 7, row[0]+":", "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 7, row[1], "", 1, "L", false, 0, "")
	}
	pdf.Ln(6)

	pdf.SetFont("Arial", "B", 11)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(90, 8, "Service", "1", 0, "L", true, 0, "")
	pdf.CellFormat(60, 8, "Scheduled at", "1", 0, "L", true, 0, "")
	pdf.CellFormat(40, 8, "Price", "1", 1, "R", true, 0, "")

	pdf.SetFont("Arial", "", 11)
	for _, line := range inv.Lines {
		pdf.CellFormat(90, 7, line.Service, "1", 0, "L", false, 0, "")
		pdf.CellFormat(60, 7, line.ScheduledAt.Format("2006-01-02 15:04"), "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 7, money(line.Price), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	pdf.CellFormat(150, 7, "Original amount", "", 0, "R", false, 0, "")
	pdf.CellFormat(40, 7, money(inv.Original), "", 1, "R", false, 0, "")
	if inv.DiscountPercentage != nil {
		pdf.CellFormat(150, 7, fmt.Sprintf("Discount (%d%%)", *inv.DiscountPercentage), "", 0, "R", false, 0, "")
		pdf.CellFormat(40, 7, "-"+money(inv.DiscountAmount), "", 1, "R", false, 0, "")
	}
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(150, 8, "Total", "", 0, "R", false, 0, "")
	pdf.CellFormat(40, 8, money(inv.Total), "", 1, "R", false, 0, "")

	return pdf.Output(w)
}

func money(v decimal.Decimal) string {
	return "$" + v.StringFixed(2)
}
