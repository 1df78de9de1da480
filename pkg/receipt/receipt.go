// Package receipt renders booking confirmation receipts as PDFs.
package receipt

import (
	"bytes"
	"fmt"
	"time"

	"stayhub/internal/models"

	"github.com/phpdave11/gofpdf"
)

// Render builds a one-page PDF receipt for a confirmed booking.
func Render(b *models.Booking) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Booking Receipt", false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "BOOKING RECEIPT")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Ticket        : %s", b.Ticket),
		fmt.Sprintf("Listing       : %s #%d", b.ListingKind, b.ListingID),
		fmt.Sprintf("Status        : %s", b.Status),
		fmt.Sprintf("Amount        : %s", money(b.GrossAmountCents)),
	}
	if b.SecurityDepositCents > 0 {
		lines = append(lines, fmt.Sprintf("Deposit       : %s", money(b.SecurityDepositCents)))
	}
	if b.StartDate != nil && b.EndDate != nil {
		lines = append(lines,
			fmt.Sprintf("Check-in      : %s", b.StartDate.Format("2006-01-02")),
			fmt.Sprintf("Check-out     : %s", b.EndDate.Format("2006-01-02")))
	}
	if b.Quantity > 0 {
		lines = append(lines, fmt.Sprintf("Tickets       : %d", b.Quantity))
	}
	lines = append(lines, fmt.Sprintf("Issued        : %s", time.Now().Format("2006-01-02 15:04")))
	for _, s := range lines {
		pdf.Cell(0, 7, s)
		pdf.Ln(7)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Keep this receipt and your ticket code. Present the ticket code at check-in or at the event entrance.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func money(cents int64) string {
	return fmt.Sprintf("$%d.%02d", cents/100, cents%100)
}
