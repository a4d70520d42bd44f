package services

import (
	"fmt"
	"strings"

	"github.com/knexpress/dev-kn-system-sub001/internal/domain"
	"github.com/knexpress/dev-kn-system-sub001/internal/models"
	"github.com/knexpress/dev-kn-system-sub001/internal/utils"
)

// BillingStore is the slice of the billing repository the pipeline needs.
type BillingStore interface {
	Insert(br *models.BillingRequest) error
	GetByID(id int64) (models.BillingRequest, error)
	GetByBookingID(bookingID int64) (models.BillingRequest, error)
	GetByTracking(code string) (models.BillingRequest, error)
	InvoiceNumberExists(no string) (bool, error)
	TrackingCodeInUse(code string) (bool, error)
}

// maxIdentifierAttempts bounds candidate generation per identifier before
// the conversion fails with GenerationExhausted. Five pre-checked
// candidates plus the table's unique-key backstop has been plenty in
// practice; unbounded retry would just hide a broken sequence source.
const maxIdentifierAttempts = 5

type IdentifierService struct {
	Billing   BillingStore
	Sequence  SequenceSource
	RequestID string
}

func (s IdentifierService) sequence() SequenceSource {
	if s.Sequence != nil {
		return s.Sequence
	}
	return RandomSequence{}
}

// TrackingPrefix keeps tracking codes visually attributable to a route
// family: outbound PH_TO_UAE shipments carry "P", the return corridor none.
func TrackingPrefix(serviceCode string) string {
	if strings.HasPrefix(serviceCode, "PH_TO_UAE") {
		return "P"
	}
	return ""
}

func (s IdentifierService) AssignInvoiceNumber() (string, error) {
	for attempt := 1; attempt <= maxIdentifierAttempts; attempt++ {
		cand := s.sequence().NextInvoiceCandidate()
		taken, err := s.Billing.InvoiceNumberExists(cand)
		if err != nil {
			return "", err
		}
		if !taken {
			return cand, nil
		}
		utils.LogEvent(s.RequestID, "identifier", "invoice_retry",
			fmt.Sprintf("candidate %s taken, attempt %d", cand, attempt))
	}
	return "", domain.GenerationExhaustedError{Kind: "invoice_number", Attempts: maxIdentifierAttempts}
}

// AssignTrackingCode prefers the booking's own AWB when it is free on both
// the primary and alias fields; otherwise it falls back to generated
// candidates carrying the route prefix.
func (s IdentifierService) AssignTrackingCode(preferred, serviceCode string) (string, error) {
	preferred = strings.TrimSpace(preferred)
	if preferred != "" {
		taken, err := s.Billing.TrackingCodeInUse(preferred)
		if err != nil {
			return "", err
		}
		if !taken {
			return preferred, nil
		}
		utils.LogEvent(s.RequestID, "identifier", "awb_collision",
			fmt.Sprintf("booking AWB %s already in use, generating fresh code", preferred))
	}

	prefix := TrackingPrefix(serviceCode)
	for attempt := 1; attempt <= maxIdentifierAttempts; attempt++ {
		cand := s.sequence().NextTrackingCandidate(prefix)
		taken, err := s.Billing.TrackingCodeInUse(cand)
		if err != nil {
			return "", err
		}
		if !taken {
			return cand, nil
		}
		utils.LogEvent(s.RequestID, "identifier", "tracking_retry",
			fmt.Sprintf("candidate %s taken, attempt %d", cand, attempt))
	}
	return "", domain.GenerationExhaustedError{Kind: "tracking_code", Attempts: maxIdentifierAttempts}
}
