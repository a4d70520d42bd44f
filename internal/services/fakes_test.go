package services

import (
	"context"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/knexpress/dev-kn-system-sub001/internal/domain"
	"github.com/knexpress/dev-kn-system-sub001/internal/models"
)

// fakeBilling is an in-memory BillingStore mirroring the table's unique
// keys on invoice number, tracking code and booking id.
type fakeBilling struct {
	nextID     int64
	rows       map[int64]models.BillingRequest
	insertErrs []error
	inserts    int
	lookupErr  error
}

func newFakeBilling() *fakeBilling {
	return &fakeBilling{rows: map[int64]models.BillingRequest{}}
}

func (f *fakeBilling) Insert(br *models.BillingRequest) error {
	f.inserts++
	if len(f.insertErrs) > 0 {
		err := f.insertErrs[0]
		f.insertErrs = f.insertErrs[1:]
		if err != nil {
			return err
		}
	}
	// mirrors uniq_invoice, uniq_tracking and uniq_booking; the alias
	// column is indexed but not unique
	for _, row := range f.rows {
		if row.InvoiceNo == br.InvoiceNo || row.TrackingCode == br.TrackingCode || row.BookingID == br.BookingID {
			return &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}
		}
	}
	f.nextID++
	br.ID = f.nextID
	f.rows[br.ID] = *br
	return nil
}

func (f *fakeBilling) GetByID(id int64) (models.BillingRequest, error) {
	if f.lookupErr != nil {
		return models.BillingRequest{}, f.lookupErr
	}
	if row, ok := f.rows[id]; ok {
		return row, nil
	}
	return models.BillingRequest{}, domain.NotFoundError{Resource: "billing request"}
}

func (f *fakeBilling) GetByBookingID(bookingID int64) (models.BillingRequest, error) {
	if f.lookupErr != nil {
		return models.BillingRequest{}, f.lookupErr
	}
	for _, row := range f.rows {
		if row.BookingID == bookingID {
			return row, nil
		}
	}
	return models.BillingRequest{}, domain.NotFoundError{Resource: "billing request"}
}

func (f *fakeBilling) GetByTracking(code string) (models.BillingRequest, error) {
	if f.lookupErr != nil {
		return models.BillingRequest{}, f.lookupErr
	}
	for _, row := range f.rows {
		if row.TrackingCode == code || row.TrackingAlias == code {
			return row, nil
		}
	}
	return models.BillingRequest{}, domain.NotFoundError{Resource: "billing request"}
}

func (f *fakeBilling) InvoiceNumberExists(no string) (bool, error) {
	for _, row := range f.rows {
		if row.InvoiceNo == no {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeBilling) TrackingCodeInUse(code string) (bool, error) {
	for _, row := range f.rows {
		if row.TrackingCode == code || row.TrackingAlias == code {
			return true, nil
		}
	}
	return false, nil
}

type fakeBookings struct {
	rows  map[int64]models.BookingRecord
	links map[int64]int64
}

func newFakeBookings(rows ...models.BookingRecord) *fakeBookings {
	f := &fakeBookings{rows: map[int64]models.BookingRecord{}, links: map[int64]int64{}}
	for _, b := range rows {
		f.rows[b.ID] = b
	}
	return f
}

func (f *fakeBookings) GetByID(id int64) (models.BookingRecord, error) {
	if b, ok := f.rows[id]; ok {
		return b, nil
	}
	return models.BookingRecord{}, fmt.Errorf("booking %d not found", id)
}

func (f *fakeBookings) SetBillingRequest(bookingID, billingID int64) error {
	b, ok := f.rows[bookingID]
	if !ok {
		return fmt.Errorf("booking %d not found", bookingID)
	}
	b.BillingID = billingID
	f.rows[bookingID] = b
	f.links[bookingID] = billingID
	return nil
}

type enqueued struct {
	kind    string
	payload map[string]any
}

type fakeOutbox struct {
	messages []enqueued
}

func (f *fakeOutbox) Enqueue(kind string, payload map[string]any) (string, error) {
	f.messages = append(f.messages, enqueued{kind: kind, payload: payload})
	return fmt.Sprintf("msg-%d", len(f.messages)), nil
}

type fakeParty struct {
	id  int64
	err error
}

func (f fakeParty) ResolveDefaultParty() (int64, error) {
	return f.id, f.err
}

// stubSequence hands out candidates from a fixed queue, cycling the last
// entry once exhausted.
type stubSequence struct {
	invoices []string
	tracking []string
}

func (s *stubSequence) NextInvoiceCandidate() string {
	return popOrLast(&s.invoices)
}

func (s *stubSequence) NextTrackingCandidate(prefix string) string {
	return prefix + popOrLast(&s.tracking)
}

func popOrLast(q *[]string) string {
	if len(*q) == 0 {
		return "EMPTY"
	}
	head := (*q)[0]
	if len(*q) > 1 {
		*q = (*q)[1:]
	}
	return head
}

// fakeOutboxStore backs the drainer tests.
type fakeOutboxStore struct {
	due     []models.OutboxMessage
	sent    []string
	retries map[string]time.Time
	failed  []string
}

func newFakeOutboxStore(due ...models.OutboxMessage) *fakeOutboxStore {
	return &fakeOutboxStore{due: due, retries: map[string]time.Time{}}
}

func (f *fakeOutboxStore) Enqueue(kind string, payload map[string]any) (string, error) {
	m := models.OutboxMessage{ID: fmt.Sprintf("msg-%d", len(f.due)+1), Kind: kind, Payload: payload}
	f.due = append(f.due, m)
	return m.ID, nil
}

func (f *fakeOutboxStore) Due(limit int) ([]models.OutboxMessage, error) {
	if len(f.due) > limit {
		return f.due[:limit], nil
	}
	return f.due, nil
}

func (f *fakeOutboxStore) MarkSent(id string) error {
	f.sent = append(f.sent, id)
	f.remove(id)
	return nil
}

func (f *fakeOutboxStore) MarkRetry(id string, attempts int, nextAttempt time.Time, lastErr string) error {
	f.retries[id] = nextAttempt
	for i, m := range f.due {
		if m.ID == id {
			f.due[i].Attempts = attempts
		}
	}
	return nil
}

func (f *fakeOutboxStore) MarkFailed(id string, attempts int, lastErr string) error {
	f.failed = append(f.failed, id)
	f.remove(id)
	return nil
}

func (f *fakeOutboxStore) remove(id string) {
	for i, m := range f.due {
		if m.ID == id {
			f.due = append(f.due[:i], f.due[i+1:]...)
			return
		}
	}
}

type fakeSync struct {
	calls []int64
	err   error
}

func (f *fakeSync) Sync(ctx context.Context, billingRequestID int64, reason string) error {
	f.calls = append(f.calls, billingRequestID)
	return f.err
}

type fakeNotifier struct {
	departments []string
	err         error
}

func (f *fakeNotifier) Notify(ctx context.Context, department string, entityID, actorID int64) error {
	f.departments = append(f.departments, department)
	return f.err
}
