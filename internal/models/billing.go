package models

import "time"

// BillingRequest is the canonical record derived from a reviewed booking.
// TrackingCode and InvoiceNo are unique across the collection (enforced by
// unique keys on the table plus the generator's pre-checks).
type BillingRequest struct {
	ID            int64  `json:"id"`
	BookingID     int64  `json:"booking_id"`
	InvoiceNo     string `json:"invoice_number"`
	TrackingCode  string `json:"tracking_code"`
	TrackingAlias string `json:"tracking_alias,omitempty"`
	ServiceCode   string `json:"service_code,omitempty"`
	ShipmentType  string `json:"shipment_type"`

	CustomerName    string `json:"customer_name,omitempty"`
	CustomerPhone   string `json:"customer_phone,omitempty"`
	CustomerAddress string `json:"customer_address,omitempty"`
	ReceiverName    string `json:"receiver_name,omitempty"`
	ReceiverPhone   string `json:"receiver_phone,omitempty"`
	ReceiverAddress string `json:"receiver_address,omitempty"`

	// DeclaredValue is a 2-decimal fixed-point amount rendered as a string,
	// empty when the intake value was missing or unparsable.
	DeclaredValue string `json:"declared_value,omitempty"`
	IsInsured     bool   `json:"is_insured"`

	ResponsibleID int64 `json:"responsible_id,omitempty"`

	Verification VerificationData `json:"verification"`

	AuditSnapshot      map[string]any `json:"audit_snapshot,omitempty"`
	IntegrationPayload map[string]any `json:"integration_payload,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// VerificationData carries the measurement/commodity block downstream
// pricing reads. Exactly one per billing request.
type VerificationData struct {
	ServiceCode     string    `json:"service_code,omitempty"`
	Commodities     []string  `json:"commodities,omitempty"`
	Boxes           []BoxItem `json:"boxes"`
	BoxCount        int       `json:"box_count"`
	ReceiverName    string    `json:"receiver_name,omitempty"`
	ReceiverPhone   string    `json:"receiver_phone,omitempty"`
	ReceiverAddress string    `json:"receiver_address,omitempty"`
}

// BoxItem is either copied from the booking's explicit box list or
// synthesized one-to-one from its item list. Dimension/weight fields are
// 2-decimal strings, empty when absent.
type BoxItem struct {
	Description string `json:"description,omitempty"`
	Quantity    int    `json:"quantity"`
	Length      string `json:"length,omitempty"`
	Width       string `json:"width,omitempty"`
	Height      string `json:"height,omitempty"`
	Weight      string `json:"weight,omitempty"`
	Volumetric  string `json:"volumetric,omitempty"`
}
