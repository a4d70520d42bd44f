package repositories

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	intdb "github.com/knexpress/dev-kn-system-sub001/internal/db"
	"github.com/knexpress/dev-kn-system-sub001/internal/domain"
	"github.com/knexpress/dev-kn-system-sub001/internal/models"
	"github.com/knexpress/dev-kn-system-sub001/internal/utils"
)

type OutboxRepo struct {
	DB *sql.DB
}

func (r OutboxRepo) EnsureTable() error {
	if r.DB == nil {
		return fmt.Errorf("db not available")
	}
	if intdb.HasTable(r.DB, "outbox_messages") {
		return nil
	}
	ddl := `
CREATE TABLE IF NOT EXISTS outbox_messages (
	id CHAR(36) PRIMARY KEY,
	kind VARCHAR(50) NOT NULL,
	payload LONGTEXT NOT NULL,
	status VARCHAR(20) NOT NULL DEFAULT 'pending',
	attempts INT NOT NULL DEFAULT 0,
	next_attempt_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	last_error VARCHAR(500) NOT NULL DEFAULT '',
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	KEY idx_due (status, next_attempt_at)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;
`
	_, err := r.DB.Exec(ddl)
	return err
}

func (r OutboxRepo) Enqueue(kind string, payload map[string]any) (string, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", domain.InternalError{Msg: "outbox payload not serializable", Err: err}
	}
	id := uuid.NewString()
	_, err = r.DB.Exec(`
		INSERT INTO outbox_messages (id, kind, payload, status, next_attempt_at)
		VALUES (?, ?, ?, ?, ?)`,
		id, kind, string(raw), models.OutboxPending, utils.NowUTC(),
	)
	if err != nil {
		return "", domain.InternalError{Err: err}
	}
	return id, nil
}

// Due returns pending messages whose next attempt time has passed.
func (r OutboxRepo) Due(limit int) ([]models.OutboxMessage, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	rows, err := r.DB.Query(`
		SELECT id, kind, payload, status, attempts, next_attempt_at, last_error, created_at
		FROM outbox_messages
		WHERE status=? AND next_attempt_at <= ?
		ORDER BY next_attempt_at
		LIMIT ?`, models.OutboxPending, utils.NowUTC(), limit)
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}
	defer rows.Close()

	var out []models.OutboxMessage
	for rows.Next() {
		var (
			m   models.OutboxMessage
			raw string
		)
		if err := rows.Scan(&m.ID, &m.Kind, &raw, &m.Status, &m.Attempts, &m.NextAttemptAt, &m.LastError, &m.CreatedAt); err != nil {
			return nil, domain.InternalError{Err: err}
		}
		if err := json.Unmarshal([]byte(raw), &m.Payload); err != nil {
			m.Payload = map[string]any{}
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r OutboxRepo) MarkSent(id string) error {
	_, err := r.DB.Exec(`
		UPDATE outbox_messages SET status=?, last_error='' WHERE id=?`,
		models.OutboxSent, id,
	)
	return err
}

func (r OutboxRepo) MarkRetry(id string, attempts int, nextAttempt time.Time, lastErr string) error {
	if len(lastErr) > 500 {
		lastErr = lastErr[:500]
	}
	_, err := r.DB.Exec(`
		UPDATE outbox_messages
		SET attempts=?, next_attempt_at=?, last_error=?
		WHERE id=?`,
		attempts, nextAttempt, lastErr, id,
	)
	return err
}

func (r OutboxRepo) MarkFailed(id string, attempts int, lastErr string) error {
	if len(lastErr) > 500 {
		lastErr = lastErr[:500]
	}
	_, err := r.DB.Exec(`
		UPDATE outbox_messages
		SET status=?, attempts=?, last_error=?
		WHERE id=?`,
		models.OutboxFailed, attempts, lastErr, id,
	)
	return err
}
