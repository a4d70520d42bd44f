package services

import (
	"fmt"
	"strings"

	"github.com/knexpress/dev-kn-system-sub001/internal/convert"
	intdb "github.com/knexpress/dev-kn-system-sub001/internal/db"
	"github.com/knexpress/dev-kn-system-sub001/internal/domain"
	"github.com/knexpress/dev-kn-system-sub001/internal/models"
	"github.com/knexpress/dev-kn-system-sub001/internal/utils"
)

// BookingStore is the slice of the booking repository the pipeline needs.
type BookingStore interface {
	GetByID(id int64) (models.BookingRecord, error)
	SetBillingRequest(bookingID, billingID int64) error
}

// OutboxWriter is the enqueue-only view of the outbox the orchestrator uses.
type OutboxWriter interface {
	Enqueue(kind string, payload map[string]any) (string, error)
}

// insertRetries is how many extra assemble+insert passes run when the
// unique-key backstop rejects a write that slipped past the pre-checks.
const insertRetries = 2

// notifyDepartments receive a fan-out message for every conversion.
var notifyDepartments = []string{"billing", "operations"}

// ConversionService derives a canonical billing request from a reviewed
// booking. All collaborator seams are injected; the service itself holds
// no state across invocations.
type ConversionService struct {
	Bookings    BookingStore
	Billing     BillingStore
	Identifiers IdentifierService
	Outbox      OutboxWriter
	Party       PartyResolver
	RequestID   string
}

// ConvertBooking runs the pipeline for one booking. Invoking it again for
// an already-converted booking re-establishes the back-link and returns
// the existing billing request instead of creating a second one.
func (s ConversionService) ConvertBooking(bookingID, actorID int64) (models.BillingRequest, error) {
	booking, err := s.Bookings.GetByID(bookingID)
	if err != nil {
		return models.BillingRequest{}, err
	}

	existing, ok, err := s.existingBilling(booking)
	if err != nil {
		return models.BillingRequest{}, err
	}
	if ok {
		utils.LogEvent(s.RequestID, "conversion", "already_converted",
			fmt.Sprintf("booking_id=%d billing_id=%d", booking.ID, existing.ID))
		if booking.BillingID != existing.ID {
			if err := s.Bookings.SetBillingRequest(booking.ID, existing.ID); err != nil {
				return models.BillingRequest{}, domain.PersistenceError{Op: "booking link", Err: err}
			}
		}
		return existing, nil
	}

	if booking.Status != string(domain.BookingReviewed) {
		return models.BillingRequest{}, domain.ConflictError{
			Resource: "booking",
			Msg:      fmt.Sprintf("booking %d is %q, only reviewed bookings convert", booking.ID, booking.Status),
		}
	}

	br, err := s.createBilling(booking)
	if err != nil {
		return models.BillingRequest{}, err
	}

	if err := s.Bookings.SetBillingRequest(booking.ID, br.ID); err != nil {
		// the billing row exists; the guard re-links it on retry
		return models.BillingRequest{}, domain.PersistenceError{Op: "booking link", Err: err}
	}

	s.enqueueFanOut(br, actorID)

	utils.LogEvent(s.RequestID, "conversion", "complete",
		fmt.Sprintf("booking_id=%d billing_id=%d tracking=%s invoice=%s",
			booking.ID, br.ID, br.TrackingCode, br.InvoiceNo))
	return br, nil
}

// existingBilling applies the idempotency guard: a set back-link, a billing
// request already referencing this booking, or one already holding the
// booking's tracking value. Only a definitive miss counts as "no existing
// billing"; a store error aborts the conversion so it cannot slip past the
// guard and insert a duplicate.
func (s ConversionService) existingBilling(booking models.BookingRecord) (models.BillingRequest, bool, error) {
	if booking.BillingID > 0 {
		br, err := s.Billing.GetByID(booking.BillingID)
		if err == nil {
			return br, true, nil
		}
		if !domain.IsNotFound(err) {
			return models.BillingRequest{}, false, domain.PersistenceError{Op: "billing lookup", Err: err}
		}
	}

	br, err := s.Billing.GetByBookingID(booking.ID)
	if err == nil {
		return br, true, nil
	}
	if !domain.IsNotFound(err) {
		return models.BillingRequest{}, false, domain.PersistenceError{Op: "billing lookup", Err: err}
	}

	if awb := strings.TrimSpace(booking.AWBNo); awb != "" {
		br, err := s.Billing.GetByTracking(awb)
		if err == nil {
			return br, true, nil
		}
		if !domain.IsNotFound(err) {
			return models.BillingRequest{}, false, domain.PersistenceError{Op: "billing lookup", Err: err}
		}
	}
	return models.BillingRequest{}, false, nil
}

func (s ConversionService) createBilling(booking models.BookingRecord) (models.BillingRequest, error) {
	payload := booking.Payload
	if payload == nil {
		payload = map[string]any{}
	}

	sender := convert.SenderContact(payload)
	receiver := convert.ReceiverContact(payload)

	serviceRaw := utils.FirstNonEmpty(
		booking.ServiceCode,
		convert.FirstString(payload, "service", "service_code", "serviceCode", "route"),
	)
	route := convert.Route(serviceRaw)
	if route != "" && !convert.IsCanonicalRoute(route) {
		utils.LogEvent(s.RequestID, "conversion", "route_unrecognized",
			fmt.Sprintf("booking_id=%d route=%s", booking.ID, route))
	}

	commodities := convert.ItemDescriptions(payload)
	shipmentType := convert.ShipmentType(commodities)

	declared, _ := convert.Amount(convert.RawValue(payload,
		"declared_value", "declaredValue", "declared_amount", "value"))
	insured := convert.Truthy(convert.RawValue(payload,
		"insurance", "is_insured", "isInsured", "insured", "with_insurance"))

	responsible := booking.ReviewedBy
	if responsible == 0 && s.Party != nil {
		id, err := s.Party.ResolveDefaultParty()
		if err != nil {
			utils.LogEvent(s.RequestID, "conversion", "default_party_missing", err.Error())
		} else {
			responsible = id
		}
	}

	boxes := convert.BoxList(payload)
	preferredAWB := utils.FirstNonEmpty(
		booking.AWBNo,
		convert.FirstString(payload, "awb", "awb_no", "awbNo", "tracking_no", "trackingNo"),
	)

	var lastErr error
	for attempt := 0; attempt <= insertRetries; attempt++ {
		invoiceNo, err := s.Identifiers.AssignInvoiceNumber()
		if err != nil {
			return models.BillingRequest{}, err
		}
		tracking, err := s.Identifiers.AssignTrackingCode(preferredAWB, route)
		if err != nil {
			return models.BillingRequest{}, err
		}

		br := models.BillingRequest{
			BookingID:    booking.ID,
			InvoiceNo:    invoiceNo,
			TrackingCode: tracking,
			ServiceCode:  route,
			ShipmentType: shipmentType,

			CustomerName:    sender.Name,
			CustomerPhone:   sender.Phone,
			CustomerAddress: sender.Address,
			ReceiverName:    receiver.Name,
			ReceiverPhone:   receiver.Phone,
			ReceiverAddress: receiver.Address,

			DeclaredValue: declared,
			IsInsured:     insured,
			ResponsibleID: responsible,

			Verification: models.VerificationData{
				ServiceCode:     route,
				Commodities:     commodities,
				Boxes:           boxes,
				BoxCount:        len(boxes),
				ReceiverName:    receiver.Name,
				ReceiverPhone:   receiver.Phone,
				ReceiverAddress: receiver.Address,
			},

			AuditSnapshot:      convert.AuditSnapshot(booking),
			IntegrationPayload: convert.IntegrationPayload(payload),
		}
		if preferredAWB != "" && tracking != preferredAWB {
			br.TrackingAlias = preferredAWB
		}

		if err := s.Billing.Insert(&br); err != nil {
			if intdb.IsDuplicateKey(err) && attempt < insertRetries {
				// a concurrent conversion won the race; never re-contest
				// the booking AWB, generate everything fresh
				utils.LogEvent(s.RequestID, "conversion", "insert_conflict",
					fmt.Sprintf("booking_id=%d attempt=%d", booking.ID, attempt+1))
				preferredAWB = ""
				lastErr = err
				continue
			}
			return models.BillingRequest{}, domain.PersistenceError{Op: "billing insert", Err: err}
		}
		return br, nil
	}
	return models.BillingRequest{}, domain.PersistenceError{Op: "billing insert", Err: lastErr}
}

// enqueueFanOut records the best-effort downstream intents. Failures to
// enqueue are logged and swallowed; they never fail the conversion.
func (s ConversionService) enqueueFanOut(br models.BillingRequest, actorID int64) {
	if s.Outbox == nil {
		return
	}
	if _, err := s.Outbox.Enqueue(models.OutboxBillingSync, map[string]any{
		"billing_request_id": br.ID,
		"reason":             "conversion",
	}); err != nil {
		utils.LogEvent(s.RequestID, "conversion", "sync_enqueue_failed", err.Error())
	}
	for _, dept := range notifyDepartments {
		if _, err := s.Outbox.Enqueue(models.OutboxDepartmentNotif, map[string]any{
			"department": dept,
			"entity_id":  br.ID,
			"actor_id":   actorID,
		}); err != nil {
			utils.LogEvent(s.RequestID, "conversion", "notify_enqueue_failed",
				fmt.Sprintf("department=%s err=%v", dept, err))
		}
	}
}
