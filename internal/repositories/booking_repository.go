package repositories

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	intdb "github.com/knexpress/dev-kn-system-sub001/internal/db"
	"github.com/knexpress/dev-kn-system-sub001/internal/domain"
	"github.com/knexpress/dev-kn-system-sub001/internal/models"

	"github.com/knexpress/dev-kn-system-sub001/internal/convert"
)

type BookingRepo struct {
	DB *sql.DB
}

func (r BookingRepo) EnsureTable() error {
	if r.DB == nil {
		return fmt.Errorf("db not available")
	}
	if intdb.HasTable(r.DB, "bookings") {
		// tables created before the conversion pipeline predate the
		// back-link column
		if !intdb.HasColumn(r.DB, "bookings", "billing_request_id") {
			_, err := r.DB.Exec(`ALTER TABLE bookings ADD COLUMN billing_request_id BIGINT NULL AFTER reviewed_at`)
			return err
		}
		return nil
	}
	ddl := `
CREATE TABLE IF NOT EXISTS bookings (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	status VARCHAR(30) NOT NULL DEFAULT 'received',
	service_code VARCHAR(100) NOT NULL DEFAULT '',
	awb_no VARCHAR(100) NOT NULL DEFAULT '',
	reviewed_by BIGINT NULL,
	reviewed_at TIMESTAMP NULL,
	billing_request_id BIGINT NULL,
	payload LONGTEXT NOT NULL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
	KEY idx_status (status),
	KEY idx_awb (awb_no)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;
`
	_, err := r.DB.Exec(ddl)
	return err
}

// Create stores a raw intake payload. The filterable columns are resolved
// leniently from the usual spellings; the payload itself is kept verbatim.
func (r BookingRepo) Create(payload map[string]any) (int64, error) {
	if len(payload) == 0 {
		return 0, domain.ValidationError{Field: "payload", Msg: "empty booking payload"}
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return 0, domain.ValidationError{Field: "payload", Msg: "payload not serializable", Err: err}
	}

	service := convert.FirstString(payload, "service", "service_code", "serviceCode", "route")
	awb := convert.FirstString(payload, "awb", "awb_no", "awbNo", "tracking_no", "trackingNo")

	res, err := r.DB.Exec(`
		INSERT INTO bookings (status, service_code, awb_no, payload)
		VALUES (?, ?, ?, ?)`,
		string(domain.BookingReceived), service, awb, string(raw),
	)
	if err != nil {
		return 0, domain.InternalError{Err: err}
	}
	return res.LastInsertId()
}

func (r BookingRepo) GetByID(id int64) (models.BookingRecord, error) {
	if id <= 0 {
		return models.BookingRecord{}, domain.ValidationError{Field: "booking_id", Msg: "invalid id"}
	}

	var (
		b          models.BookingRecord
		reviewedBy sql.NullInt64
		reviewedAt sql.NullTime
		billingID  sql.NullInt64
		rawPayload string
	)
	err := r.DB.QueryRow(`
		SELECT id, status, service_code, awb_no, reviewed_by, reviewed_at,
		       billing_request_id, payload, created_at, updated_at
		FROM bookings
		WHERE id=? LIMIT 1`, id,
	).Scan(
		&b.ID, &b.Status, &b.ServiceCode, &b.AWBNo,
		&reviewedBy, &reviewedAt, &billingID, &rawPayload,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return models.BookingRecord{}, domain.NotFoundError{Resource: "booking", Err: err}
	}
	if err != nil {
		return models.BookingRecord{}, domain.InternalError{Err: err}
	}

	if reviewedBy.Valid {
		b.ReviewedBy = reviewedBy.Int64
	}
	if reviewedAt.Valid {
		t := reviewedAt.Time
		b.ReviewedAt = &t
	}
	if billingID.Valid {
		b.BillingID = billingID.Int64
	}
	if rawPayload != "" {
		if err := json.Unmarshal([]byte(rawPayload), &b.Payload); err != nil {
			// a corrupt payload should not make the booking unreadable
			b.Payload = map[string]any{}
		}
	}
	return b, nil
}

func (r BookingRepo) MarkReviewed(id, reviewerID int64) error {
	if id <= 0 {
		return domain.ValidationError{Field: "booking_id", Msg: "invalid id"}
	}
	var reviewer any
	if reviewerID > 0 {
		reviewer = reviewerID
	}
	_, err := r.DB.Exec(`
		UPDATE bookings
		SET status=?, reviewed_by=?, reviewed_at=?
		WHERE id=?`,
		string(domain.BookingReviewed), reviewer, time.Now(), id,
	)
	if err != nil {
		return domain.InternalError{Err: err}
	}
	return nil
}

// SetBillingRequest records the back-link after a successful conversion.
// This is the only pipeline-owned mutation of a booking.
func (r BookingRepo) SetBillingRequest(bookingID, billingID int64) error {
	if bookingID <= 0 || billingID <= 0 {
		return domain.ValidationError{Field: "booking_id", Msg: "invalid id"}
	}
	_, err := r.DB.Exec(`
		UPDATE bookings
		SET billing_request_id=?, status=?
		WHERE id=?`,
		billingID, string(domain.ConversionComplete), bookingID,
	)
	if err != nil {
		return domain.InternalError{Err: err}
	}
	return nil
}

// ListByStatus filters on status and intake date; either filter may be
// empty. The date is a YYYY-MM-DD string validated by the caller.
func (r BookingRepo) ListByStatus(status, date string, limit int) ([]models.BookingRecord, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	rows, err := r.DB.Query(`
		SELECT id, status, service_code, awb_no, created_at
		FROM bookings
		WHERE (?='' OR status=?) AND (?='' OR DATE(created_at)=?)
		ORDER BY id DESC
		LIMIT ?`, status, status, date, date, limit)
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}
	defer rows.Close()

	var out []models.BookingRecord
	for rows.Next() {
		var b models.BookingRecord
		if err := rows.Scan(&b.ID, &b.Status, &b.ServiceCode, &b.AWBNo, &b.CreatedAt); err != nil {
			return nil, domain.InternalError{Err: err}
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
