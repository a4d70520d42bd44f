package repositories

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/knexpress/dev-kn-system-sub001/internal/domain"
)

func TestBookingCreateExtractsFilterColumns(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("INSERT INTO bookings").
		WithArgs("received", "ph-to-uae", "AWB001", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(9, 1))

	repo := BookingRepo{DB: db}
	id, err := repo.Create(map[string]any{
		"service":       "ph-to-uae",
		"awb_no":        "AWB001",
		"customer_name": "Maria",
	})
	if err != nil {
		t.Fatalf("create error: %v", err)
	}
	if id != 9 {
		t.Fatalf("expected id 9, got %d", id)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestBookingEnsureTableAddsBackLinkColumn(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("information_schema\\.tables").WithArgs("bookings").
		WillReturnRows(sqlmock.NewRows([]string{"table_name"}).AddRow("bookings"))
	mock.ExpectQuery("information_schema\\.columns").WithArgs("bookings", "billing_request_id").
		WillReturnRows(sqlmock.NewRows([]string{"column_name"}))
	mock.ExpectExec("ALTER TABLE bookings ADD COLUMN billing_request_id").
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := BookingRepo{DB: db}
	if err := repo.EnsureTable(); err != nil {
		t.Fatalf("ensure table error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestBookingEnsureTableNoopWhenColumnPresent(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("information_schema\\.tables").WithArgs("bookings").
		WillReturnRows(sqlmock.NewRows([]string{"table_name"}).AddRow("bookings"))
	mock.ExpectQuery("information_schema\\.columns").WithArgs("bookings", "billing_request_id").
		WillReturnRows(sqlmock.NewRows([]string{"column_name"}).AddRow("billing_request_id"))

	repo := BookingRepo{DB: db}
	if err := repo.EnsureTable(); err != nil {
		t.Fatalf("ensure table error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestBookingListByStatusWithDateFilter(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	cols := []string{"id", "status", "service_code", "awb_no", "created_at"}
	mock.ExpectQuery("FROM bookings").
		WithArgs("reviewed", "reviewed", "2026-08-30", "2026-08-30", 50).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(int64(2), "reviewed", "PH_TO_UAE", "AWB002", time.Now()))

	repo := BookingRepo{DB: db}
	out, err := repo.ListByStatus("reviewed", "2026-08-30", 0)
	if err != nil {
		t.Fatalf("list error: %v", err)
	}
	if len(out) != 1 || out[0].AWBNo != "AWB002" {
		t.Fatalf("unexpected result: %#v", out)
	}
}

func TestBookingCreateRejectsEmptyPayload(t *testing.T) {
	repo := BookingRepo{}
	if _, err := repo.Create(nil); !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestBookingGetByIDParsesPayload(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	cols := []string{
		"id", "status", "service_code", "awb_no", "reviewed_by", "reviewed_at",
		"billing_request_id", "payload", "created_at", "updated_at",
	}
	now := time.Now()
	mock.ExpectQuery("FROM bookings").
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(int64(42), "reviewed", "PH_TO_UAE", "AWB001", int64(7), now,
				nil, `{"customer_name":"Maria"}`, now, now))

	repo := BookingRepo{DB: db}
	b, err := repo.GetByID(42)
	if err != nil {
		t.Fatalf("get error: %v", err)
	}
	if b.ReviewedBy != 7 {
		t.Fatalf("expected reviewer 7, got %d", b.ReviewedBy)
	}
	if b.ReviewedAt == nil {
		t.Fatal("expected reviewed_at to be set")
	}
	if b.BillingID != 0 {
		t.Fatalf("expected no billing link, got %d", b.BillingID)
	}
	if b.Payload["customer_name"] != "Maria" {
		t.Fatalf("payload not parsed: %#v", b.Payload)
	}
}

func TestBookingGetByIDCorruptPayloadStillReadable(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	cols := []string{
		"id", "status", "service_code", "awb_no", "reviewed_by", "reviewed_at",
		"billing_request_id", "payload", "created_at", "updated_at",
	}
	now := time.Now()
	mock.ExpectQuery("FROM bookings").
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(int64(1), "received", "", "", nil, nil, nil, `{broken`, now, now))

	repo := BookingRepo{DB: db}
	b, err := repo.GetByID(1)
	if err != nil {
		t.Fatalf("get error: %v", err)
	}
	if b.Payload == nil || len(b.Payload) != 0 {
		t.Fatalf("corrupt payload should surface empty, got %#v", b.Payload)
	}
}

func TestBookingMarkReviewedNullReviewer(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("UPDATE bookings").
		WithArgs("reviewed", nil, sqlmock.AnyArg(), int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := BookingRepo{DB: db}
	if err := repo.MarkReviewed(42, 0); err != nil {
		t.Fatalf("mark reviewed error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestBookingSetBillingRequest(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("UPDATE bookings").
		WithArgs(int64(5), "converted", int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := BookingRepo{DB: db}
	if err := repo.SetBillingRequest(42, 5); err != nil {
		t.Fatalf("set billing request error: %v", err)
	}

	if err := repo.SetBillingRequest(0, 5); !domain.IsValidation(err) {
		t.Fatalf("expected validation error for bad id, got %v", err)
	}
}
