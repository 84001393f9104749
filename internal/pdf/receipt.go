// Package pdf renders printable sale receipts.
package pdf

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/phpdave11/gofpdf"

	"github.com/transportagency/bus-ticket-sales/internal/model"
)

// BuildReceipt renders the printable receipt for a completed sale and
// returns the document bytes together with a filesystem-safe filename.
func BuildReceipt(d model.SaleDetail) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Sale Receipt", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "SALE RECEIPT")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 7, "Receipt No : "+d.ReceiptNumber)
	pdf.Ln(7)
	pdf.Cell(0, 7, "Issued     : "+d.SaleDate.Format("2006-01-02 15:04"))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Customer")
	pdf.Ln(7)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Name       : %s", orDash(d.CustomerName)),
		fmt.Sprintf("Document   : %s", orDash(d.DocumentNumber)),
		fmt.Sprintf("Phone      : %s", orDash(deref(d.Phone))),
		fmt.Sprintf("Email      : %s", orDash(deref(d.Email))),
	}
	for _, line := range lines {
		pdf.Cell(0, 7, line)
		pdf.Ln(7)
	}
	pdf.Ln(3)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Trip")
	pdf.Ln(7)

	pdf.SetFont("Helvetica", "", 12)
	lines = []string{
		fmt.Sprintf("Route      : %s", d.TripInfo()),
		fmt.Sprintf("Bus        : %s", d.BusInfo()),
		fmt.Sprintf("Departure  : %s", d.DepartureTime.Format("2006-01-02 15:04")),
		fmt.Sprintf("Seat       : %s", d.SeatNumber),
	}
	for _, line := range lines {
		pdf.Cell(0, 7, line)
		pdf.Ln(7)
	}
	pdf.Ln(5)

	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 8, fmt.Sprintf("Total: $%.2f", d.Amount))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "This receipt covers one passenger and one seat. Please present it at boarding.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), safeFilename(d.ReceiptNumber) + ".pdf", nil
}

func orDash(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return "-"
	}
	return v
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func safeFilename(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "receipt"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "_", "\\", "_", ":", "_")
	return replacer.Replace(s)
}
