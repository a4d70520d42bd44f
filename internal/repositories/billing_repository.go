package repositories

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	intdb "github.com/knexpress/dev-kn-system-sub001/internal/db"
	"github.com/knexpress/dev-kn-system-sub001/internal/domain"
	"github.com/knexpress/dev-kn-system-sub001/internal/models"
)

type BillingRepo struct {
	DB *sql.DB
}

func (r BillingRepo) EnsureTable() error {
	if r.DB == nil {
		return fmt.Errorf("db not available")
	}
	if intdb.HasTable(r.DB, "billing_requests") {
		return nil
	}
	// uniq_tracking/uniq_invoice back the generator's pre-checks and
	// uniq_booking backs the idempotency guard: a race that slips past the
	// reads lands on error 1062 instead of a duplicate row.
	ddl := `
CREATE TABLE IF NOT EXISTS billing_requests (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	booking_id BIGINT NOT NULL,
	invoice_number VARCHAR(100) NOT NULL,
	tracking_code VARCHAR(100) NOT NULL,
	tracking_alias VARCHAR(100) NOT NULL DEFAULT '',
	service_code VARCHAR(100) NOT NULL DEFAULT '',
	shipment_type VARCHAR(30) NOT NULL,
	customer_name VARCHAR(255) NOT NULL DEFAULT '',
	customer_phone VARCHAR(100) NOT NULL DEFAULT '',
	customer_address VARCHAR(500) NOT NULL DEFAULT '',
	receiver_name VARCHAR(255) NOT NULL DEFAULT '',
	receiver_phone VARCHAR(100) NOT NULL DEFAULT '',
	receiver_address VARCHAR(500) NOT NULL DEFAULT '',
	declared_value VARCHAR(30) NOT NULL DEFAULT '',
	is_insured TINYINT(1) NOT NULL DEFAULT 0,
	responsible_id BIGINT NULL,
	verification LONGTEXT NOT NULL,
	audit_snapshot LONGTEXT NOT NULL,
	integration_payload LONGTEXT NOT NULL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	UNIQUE KEY uniq_tracking (tracking_code),
	UNIQUE KEY uniq_invoice (invoice_number),
	UNIQUE KEY uniq_booking (booking_id),
	KEY idx_alias (tracking_alias)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;
`
	_, err := r.DB.Exec(ddl)
	return err
}

// Insert persists a fully assembled billing request. The caller assembles
// everything in memory first; nothing partial ever reaches the table.
func (r BillingRepo) Insert(br *models.BillingRequest) error {
	verification, err := json.Marshal(br.Verification)
	if err != nil {
		return domain.InternalError{Msg: "verification not serializable", Err: err}
	}
	audit, err := json.Marshal(br.AuditSnapshot)
	if err != nil {
		return domain.InternalError{Msg: "audit snapshot not serializable", Err: err}
	}
	integration, err := json.Marshal(br.IntegrationPayload)
	if err != nil {
		return domain.InternalError{Msg: "integration payload not serializable", Err: err}
	}

	var responsible any
	if br.ResponsibleID > 0 {
		responsible = br.ResponsibleID
	}

	res, err := r.DB.Exec(`
		INSERT INTO billing_requests (
			booking_id, invoice_number, tracking_code, tracking_alias,
			service_code, shipment_type,
			customer_name, customer_phone, customer_address,
			receiver_name, receiver_phone, receiver_address,
			declared_value, is_insured, responsible_id,
			verification, audit_snapshot, integration_payload
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		br.BookingID, br.InvoiceNo, br.TrackingCode, br.TrackingAlias,
		br.ServiceCode, br.ShipmentType,
		br.CustomerName, br.CustomerPhone, br.CustomerAddress,
		br.ReceiverName, br.ReceiverPhone, br.ReceiverAddress,
		br.DeclaredValue, br.IsInsured, responsible,
		string(verification), string(audit), string(integration),
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.InternalError{Err: err}
	}
	br.ID = id
	if br.CreatedAt.IsZero() {
		br.CreatedAt = time.Now()
	}
	return nil
}

const billingSelect = `
	SELECT id, booking_id, invoice_number, tracking_code, tracking_alias,
	       service_code, shipment_type,
	       customer_name, customer_phone, customer_address,
	       receiver_name, receiver_phone, receiver_address,
	       declared_value, is_insured, responsible_id,
	       verification, audit_snapshot, integration_payload, created_at
	FROM billing_requests
`

func (r BillingRepo) GetByID(id int64) (models.BillingRequest, error) {
	return r.getOne(billingSelect+` WHERE id=? LIMIT 1`, id)
}

func (r BillingRepo) GetByBookingID(bookingID int64) (models.BillingRequest, error) {
	return r.getOne(billingSelect+` WHERE booking_id=? LIMIT 1`, bookingID)
}

// GetByTracking matches the primary tracking code or the secondary alias.
func (r BillingRepo) GetByTracking(code string) (models.BillingRequest, error) {
	return r.getOne(billingSelect+` WHERE tracking_code=? OR tracking_alias=? LIMIT 1`, code, code)
}

func (r BillingRepo) getOne(query string, args ...any) (models.BillingRequest, error) {
	var (
		br          models.BillingRequest
		responsible sql.NullInt64
		rawVerif    string
		rawAudit    string
		rawIntegr   string
	)
	err := r.DB.QueryRow(query, args...).Scan(
		&br.ID, &br.BookingID, &br.InvoiceNo, &br.TrackingCode, &br.TrackingAlias,
		&br.ServiceCode, &br.ShipmentType,
		&br.CustomerName, &br.CustomerPhone, &br.CustomerAddress,
		&br.ReceiverName, &br.ReceiverPhone, &br.ReceiverAddress,
		&br.DeclaredValue, &br.IsInsured, &responsible,
		&rawVerif, &rawAudit, &rawIntegr, &br.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return models.BillingRequest{}, domain.NotFoundError{Resource: "billing request", Err: err}
	}
	if err != nil {
		return models.BillingRequest{}, domain.InternalError{Err: err}
	}

	if responsible.Valid {
		br.ResponsibleID = responsible.Int64
	}
	_ = json.Unmarshal([]byte(rawVerif), &br.Verification)
	_ = json.Unmarshal([]byte(rawAudit), &br.AuditSnapshot)
	_ = json.Unmarshal([]byte(rawIntegr), &br.IntegrationPayload)
	return br, nil
}

func (r BillingRepo) InvoiceNumberExists(no string) (bool, error) {
	var count int
	err := r.DB.QueryRow(`SELECT COUNT(*) FROM billing_requests WHERE invoice_number=?`, no).Scan(&count)
	if err != nil {
		return false, domain.InternalError{Err: err}
	}
	return count > 0, nil
}

// TrackingCodeInUse checks both the primary field and the alias field; a
// booking-carried AWB may only be adopted when neither holds it.
func (r BillingRepo) TrackingCodeInUse(code string) (bool, error) {
	var count int
	err := r.DB.QueryRow(`
		SELECT COUNT(*) FROM billing_requests
		WHERE tracking_code=? OR tracking_alias=?`, code, code,
	).Scan(&count)
	if err != nil {
		return false, domain.InternalError{Err: err}
	}
	return count > 0, nil
}

func (r BillingRepo) List(limit int) ([]models.BillingRequest, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	rows, err := r.DB.Query(`
		SELECT id, booking_id, invoice_number, tracking_code, service_code, shipment_type,
		       customer_name, receiver_name, declared_value, created_at
		FROM billing_requests
		ORDER BY id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}
	defer rows.Close()

	var out []models.BillingRequest
	for rows.Next() {
		var br models.BillingRequest
		if err := rows.Scan(
			&br.ID, &br.BookingID, &br.InvoiceNo, &br.TrackingCode, &br.ServiceCode, &br.ShipmentType,
			&br.CustomerName, &br.ReceiverName, &br.DeclaredValue, &br.CreatedAt,
		); err != nil {
			return nil, domain.InternalError{Err: err}
		}
		out = append(out, br)
	}
	return out, rows.Err()
}
