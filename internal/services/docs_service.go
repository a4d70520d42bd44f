package services

import (
	"bytes"
	"fmt"
	"time"

	"github.com/phpdave11/gofpdf"

	"github.com/knexpress/dev-kn-system-sub001/internal/models"
	"github.com/knexpress/dev-kn-system-sub001/internal/repositories"
	"github.com/knexpress/dev-kn-system-sub001/internal/utils"
)

// DocsService renders the printable invoice for a billing request.
type DocsService struct {
	Billing   repositories.BillingRepo
	RequestID string
	Loader    func(int64) (models.BillingRequest, error)
}

func (s DocsService) GenerateInvoice(billingID int64) ([]byte, string, error) {
	br, err := s.load(billingID)
	if err != nil {
		return nil, "", err
	}
	utils.LogEvent(s.RequestID, "docs", "generate_invoice", fmt.Sprintf("billing_id=%d", billingID))
	return buildInvoicePDF(br)
}

func (s DocsService) load(billingID int64) (models.BillingRequest, error) {
	if s.Loader != nil {
		return s.Loader(billingID)
	}
	return s.Billing.GetByID(billingID)
}

func buildInvoicePDF(br models.BillingRequest) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Invoice", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "INVOICE")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		"Invoice No    : " + safe(br.InvoiceNo, "-"),
		"Tracking Code : " + safe(br.TrackingCode, "-"),
		"Service       : " + safe(br.ServiceCode, "-"),
		"Shipment Type : " + safe(br.ShipmentType, "-"),
		"Date          : " + utils.FormatDateTime(time.Now()),
	}
	for _, l := range lines {
		pdf.Cell(0, 7, l)
		pdf.Ln(7)
	}
	pdf.Ln(3)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Billed to:")
	pdf.Ln(7)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 7, "Name    : "+safe(br.CustomerName, "-"))
	pdf.Ln(7)
	pdf.Cell(0, 7, "Phone   : "+safe(br.CustomerPhone, "-"))
	pdf.Ln(7)
	pdf.MultiCell(0, 7, "Address : "+safe(br.CustomerAddress, "-"), "", "", false)
	pdf.Ln(3)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Ship to:")
	pdf.Ln(7)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 7, "Name    : "+safe(br.ReceiverName, "-"))
	pdf.Ln(7)
	pdf.Cell(0, 7, "Phone   : "+safe(br.ReceiverPhone, "-"))
	pdf.Ln(7)
	pdf.MultiCell(0, 7, "Address : "+safe(br.ReceiverAddress, "-"), "", "", false)
	pdf.Ln(3)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Boxes (%d):", br.Verification.BoxCount))
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	for i, box := range br.Verification.Boxes {
		dims := "-"
		if box.Length != "" && box.Width != "" && box.Height != "" {
			dims = fmt.Sprintf("%s x %s x %s cm", box.Length, box.Width, box.Height)
		}
		row := fmt.Sprintf("%d) %s  qty=%d  %s  weight=%s kg",
			i+1, safe(box.Description, "-"), box.Quantity, dims, safe(box.Weight, "-"))
		pdf.MultiCell(0, 6, row, "", "", false)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	declared := br.DeclaredValue
	if declared == "" {
		declared = "-"
	}
	pdf.Cell(0, 8, "Declared Value: "+declared)
	pdf.Ln(8)
	if br.IsInsured {
		pdf.SetFont("Helvetica", "I", 10)
		pdf.Cell(0, 6, "Shipment is covered by insurance.")
		pdf.Ln(6)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("INVOICE_%s.pdf", utils.SafeFilenamePart(br.InvoiceNo))
	return buf.Bytes(), filename, nil
}

// safe collapses stray whitespace from intake data before it lands on a
// PDF line.
func safe(v, fallback string) string {
	v = utils.NormalizeSpace(v)
	if v == "" {
		return fallback
	}
	return v
}
