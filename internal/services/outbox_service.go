package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/knexpress/dev-kn-system-sub001/internal/models"
	"github.com/knexpress/dev-kn-system-sub001/internal/utils"
)

// OutboxStore is the persistence surface of the fan-out outbox.
type OutboxStore interface {
	Enqueue(kind string, payload map[string]any) (string, error)
	Due(limit int) ([]models.OutboxMessage, error)
	MarkSent(id string) error
	MarkRetry(id string, attempts int, nextAttempt time.Time, lastErr string) error
	MarkFailed(id string, attempts int, lastErr string) error
}

const (
	outboxMaxAttempts = 10
	outboxBaseDelay   = 30 * time.Second
	outboxMaxDelay    = time.Hour
	outboxBatchSize   = 20
)

// OutboxService drains durable fan-out intents. Conversion only enqueues;
// delivery, retry and give-up all happen here.
type OutboxService struct {
	Store    OutboxStore
	Sync     SyncClient
	Notifier Notifier
	Interval time.Duration
}

// Start runs the drain loop until ctx is cancelled.
func (s OutboxService) Start(ctx context.Context) {
	interval := s.Interval
	if interval <= 0 {
		interval = 15 * time.Second
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.DrainOnce(ctx)
			}
		}
	}()
}

// DrainOnce processes one batch of due messages and returns how many were
// delivered.
func (s OutboxService) DrainOnce(ctx context.Context) int {
	msgs, err := s.Store.Due(outboxBatchSize)
	if err != nil {
		utils.LogEvent("", "outbox", "poll_failed", err.Error())
		return 0
	}

	sent := 0
	for _, m := range msgs {
		if err := s.dispatch(ctx, m); err != nil {
			attempts := m.Attempts + 1
			if attempts >= outboxMaxAttempts {
				utils.LogEvent("", "outbox", "gave_up",
					fmt.Sprintf("id=%s kind=%s attempts=%d err=%v", m.ID, m.Kind, attempts, err))
				_ = s.Store.MarkFailed(m.ID, attempts, err.Error())
				continue
			}
			next := time.Now().Add(backoffDelay(attempts))
			utils.LogEvent("", "outbox", "retry_scheduled",
				fmt.Sprintf("id=%s kind=%s attempts=%d err=%v", m.ID, m.Kind, attempts, err))
			_ = s.Store.MarkRetry(m.ID, attempts, next, err.Error())
			continue
		}
		_ = s.Store.MarkSent(m.ID)
		sent++
	}
	return sent
}

func (s OutboxService) dispatch(ctx context.Context, m models.OutboxMessage) error {
	switch m.Kind {
	case models.OutboxBillingSync:
		if s.Sync == nil {
			return fmt.Errorf("no sync client configured")
		}
		id := payloadInt64(m.Payload, "billing_request_id")
		if id <= 0 {
			return fmt.Errorf("sync message %s missing billing_request_id", m.ID)
		}
		reason, _ := m.Payload["reason"].(string)
		return s.Sync.Sync(ctx, id, reason)
	case models.OutboxDepartmentNotif:
		if s.Notifier == nil {
			return fmt.Errorf("no notifier configured")
		}
		dept, _ := m.Payload["department"].(string)
		return s.Notifier.Notify(ctx, dept,
			payloadInt64(m.Payload, "entity_id"),
			payloadInt64(m.Payload, "actor_id"))
	default:
		return fmt.Errorf("unknown outbox kind %q", m.Kind)
	}
}

func backoffDelay(attempts int) time.Duration {
	d := outboxBaseDelay
	for i := 1; i < attempts; i++ {
		d *= 2
		if d >= outboxMaxDelay {
			return outboxMaxDelay
		}
	}
	return d
}

// payloadInt64 reads a numeric field that round-tripped through JSON.
func payloadInt64(m map[string]any, key string) int64 {
	switch v := m[key].(type) {
	case float64:
		return int64(v)
	case int64:
		return v
	case int:
		return int64(v)
	case string:
		n, _ := strconv.ParseInt(v, 10, 64)
		return n
	default:
		return 0
	}
}
