package models

import "time"

// Outbox message states.
const (
	OutboxPending = "pending"
	OutboxSent    = "sent"
	OutboxFailed  = "failed"
)

// Outbox message kinds drained by the fan-out worker.
const (
	OutboxBillingSync     = "billing_sync"
	OutboxDepartmentNotif = "department_notify"
)

// OutboxMessage is a durable fan-out intent. Conversion enqueues, the
// drainer delivers with backoff; delivery never blocks conversion itself.
type OutboxMessage struct {
	ID            string         `json:"id"`
	Kind          string         `json:"kind"`
	Payload       map[string]any `json:"payload"`
	Status        string         `json:"status"`
	Attempts      int            `json:"attempts"`
	NextAttemptAt time.Time      `json:"next_attempt_at"`
	LastError     string         `json:"last_error,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
}
