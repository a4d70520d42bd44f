package domain

// ID is used across domain entities.
type ID int64

// Status represents a lightweight state value.
type Status string

// Booking lifecycle states. A booking moves forward only; a failed
// conversion is not stored, the booking simply stays at BookingReviewed.
const (
	BookingReceived    Status = "received"
	BookingReviewed    Status = "reviewed"
	ConversionComplete Status = "converted"
)

// Shipment classification labels.
const (
	ShipmentDocument    = "DOCUMENT"
	ShipmentNonDocument = "NON_DOCUMENT"
)

// RequestContext carries authenticated user info when available.
type RequestContext struct {
	UserID ID     `json:"userId"`
	Role   string `json:"role"`
}
