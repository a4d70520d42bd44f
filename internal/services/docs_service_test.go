package services

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/knexpress/dev-kn-system-sub001/internal/models"
)

func TestGenerateInvoicePDF(t *testing.T) {
	svc := DocsService{
		Loader: func(id int64) (models.BillingRequest, error) {
			return models.BillingRequest{
				ID:            id,
				InvoiceNo:     "INV-20260314-ABCD1234",
				TrackingCode:  "P0000000042",
				ServiceCode:   "PH_TO_UAE",
				ShipmentType:  "NON_DOCUMENT",
				CustomerName:  "Maria Santos",
				ReceiverName:  "Ahmed Hassan",
				DeclaredValue: "1500.50",
				IsInsured:     true,
				Verification: models.VerificationData{
					Boxes: []models.BoxItem{
						{Description: "Balikbayan box", Quantity: 1, Weight: "18.50", Volumetric: "12.00"},
					},
					BoxCount: 1,
				},
			}, nil
		},
	}

	pdf, filename, err := svc.GenerateInvoice(9)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")), "output must be a PDF document")
	assert.Contains(t, filename, "INV-20260314-ABCD1234")
	assert.Contains(t, filename, ".pdf")
}

func TestGenerateInvoiceLoaderError(t *testing.T) {
	svc := DocsService{
		Loader: func(int64) (models.BillingRequest, error) {
			return models.BillingRequest{}, assert.AnError
		},
	}
	_, _, err := svc.GenerateInvoice(1)
	assert.Error(t, err)
}
