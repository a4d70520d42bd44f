package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/knexpress/dev-kn-system-sub001/internal/models"
)

func TestDrainOnceDeliversBothKinds(t *testing.T) {
	store := newFakeOutboxStore(
		models.OutboxMessage{ID: "m1", Kind: models.OutboxBillingSync,
			Payload: map[string]any{"billing_request_id": float64(12), "reason": "conversion"}},
		models.OutboxMessage{ID: "m2", Kind: models.OutboxDepartmentNotif,
			Payload: map[string]any{"department": "billing", "entity_id": float64(12), "actor_id": float64(7)}},
	)
	sync := &fakeSync{}
	notifier := &fakeNotifier{}
	svc := OutboxService{Store: store, Sync: sync, Notifier: notifier}

	sent := svc.DrainOnce(context.Background())

	assert.Equal(t, 2, sent)
	assert.Equal(t, []int64{12}, sync.calls)
	assert.Equal(t, []string{"billing"}, notifier.departments)
	assert.ElementsMatch(t, []string{"m1", "m2"}, store.sent)
}

func TestDrainOnceSchedulesRetryOnFailure(t *testing.T) {
	store := newFakeOutboxStore(models.OutboxMessage{
		ID: "m1", Kind: models.OutboxBillingSync, Attempts: 0,
		Payload: map[string]any{"billing_request_id": float64(12)},
	})
	svc := OutboxService{Store: store, Sync: &fakeSync{err: errors.New("gateway down")}, Notifier: &fakeNotifier{}}

	sent := svc.DrainOnce(context.Background())

	assert.Equal(t, 0, sent)
	assert.Empty(t, store.sent)
	next, ok := store.retries["m1"]
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(30*time.Second), next, 5*time.Second)
}

func TestDrainOnceGivesUpAtMaxAttempts(t *testing.T) {
	store := newFakeOutboxStore(models.OutboxMessage{
		ID: "m1", Kind: models.OutboxBillingSync, Attempts: outboxMaxAttempts - 1,
		Payload: map[string]any{"billing_request_id": float64(12)},
	})
	svc := OutboxService{Store: store, Sync: &fakeSync{err: errors.New("still down")}, Notifier: &fakeNotifier{}}

	svc.DrainOnce(context.Background())

	assert.Equal(t, []string{"m1"}, store.failed)
	assert.Empty(t, store.retries)
}

func TestDrainOnceMalformedSyncPayload(t *testing.T) {
	store := newFakeOutboxStore(models.OutboxMessage{
		ID: "m1", Kind: models.OutboxBillingSync, Payload: map[string]any{},
	})
	svc := OutboxService{Store: store, Sync: &fakeSync{}, Notifier: &fakeNotifier{}}

	sent := svc.DrainOnce(context.Background())

	assert.Equal(t, 0, sent)
	assert.Contains(t, store.retries, "m1")
}

func TestDrainOnceUnknownKindRetries(t *testing.T) {
	store := newFakeOutboxStore(models.OutboxMessage{ID: "m1", Kind: "mystery"})
	svc := OutboxService{Store: store, Sync: &fakeSync{}, Notifier: &fakeNotifier{}}

	sent := svc.DrainOnce(context.Background())

	assert.Equal(t, 0, sent)
	assert.Contains(t, store.retries, "m1")
}

func TestBackoffDelayDoublesAndCaps(t *testing.T) {
	assert.Equal(t, 30*time.Second, backoffDelay(1))
	assert.Equal(t, time.Minute, backoffDelay(2))
	assert.Equal(t, 8*time.Minute, backoffDelay(5))
	assert.Equal(t, time.Hour, backoffDelay(8))
	assert.Equal(t, time.Hour, backoffDelay(50))
}

func TestPayloadInt64Coercions(t *testing.T) {
	m := map[string]any{
		"float":  float64(12),
		"int":    7,
		"string": "33",
		"junk":   "abc",
	}
	assert.Equal(t, int64(12), payloadInt64(m, "float"))
	assert.Equal(t, int64(7), payloadInt64(m, "int"))
	assert.Equal(t, int64(33), payloadInt64(m, "string"))
	assert.Equal(t, int64(0), payloadInt64(m, "junk"))
	assert.Equal(t, int64(0), payloadInt64(m, "missing"))
}
