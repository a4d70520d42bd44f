package models

import "time"

// BookingRecord is the raw intake entity. The typed columns cover what the
// back office filters on; everything the customer app submitted lives in
// Payload unmodified, including the inconsistently named sender/receiver
// sub-objects the conversion pipeline resolves against.
type BookingRecord struct {
	ID          int64          `json:"id"`
	Status      string         `json:"status"`
	ServiceCode string         `json:"service_code"`
	AWBNo       string         `json:"awb_no"`
	ReviewedBy  int64          `json:"reviewed_by,omitempty"`
	ReviewedAt  *time.Time     `json:"reviewed_at,omitempty"`
	BillingID   int64          `json:"billing_request_id,omitempty"`
	Payload     map[string]any `json:"payload"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}
