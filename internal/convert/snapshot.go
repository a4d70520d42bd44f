package convert

import (
	"github.com/knexpress/dev-kn-system-sub001/internal/models"
)

// excludedFields enumerates the large/binary intake fields that must never
// reach a derived record: raw bookings can carry multi-megabyte image
// payloads and the derived row has to stay under the store's size ceiling.
// Keep this list in sync when a new photo/attachment field lands on the
// intake schema.
var excludedFields = map[string]bool{
	"valid_id":        true,
	"valid_id_front":  true,
	"valid_id_back":   true,
	"validId":         true,
	"selfie":          true,
	"selfie_photo":    true,
	"customer_photo":  true,
	"customer_photos": true,
	"id_photos":       true,
	"attachments":     true,
}

// StripLargeFields deep-copies the payload with the excluded field names
// removed at every nesting level touched. The source is never mutated.
func StripLargeFields(payload map[string]any) map[string]any {
	if payload == nil {
		return map[string]any{}
	}
	return pruneMap(payload)
}

func pruneMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if excludedFields[k] {
			continue
		}
		out[k] = pruneValue(v)
	}
	return out
}

func pruneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return pruneMap(t)
	case []any:
		out := make([]any, 0, len(t))
		for _, el := range t {
			out = append(out, pruneValue(el))
		}
		return out
	default:
		return v
	}
}

// AuditSnapshot wraps the stripped payload with the booking's review
// bookkeeping so the billing request stays auditable on its own.
func AuditSnapshot(b models.BookingRecord) map[string]any {
	snap := map[string]any{
		"booking_id": b.ID,
		"status":     b.Status,
		"awb_no":     b.AWBNo,
		"payload":    StripLargeFields(b.Payload),
	}
	if b.ReviewedBy > 0 {
		snap["reviewed_by"] = b.ReviewedBy
	}
	if b.ReviewedAt != nil {
		snap["reviewed_at"] = b.ReviewedAt.UTC()
	}
	return snap
}

// IntegrationPayload is the stripped copy handed to the billing system:
// full fidelity of sender/receiver/items minus the excluded fields.
func IntegrationPayload(payload map[string]any) map[string]any {
	return StripLargeFields(payload)
}
