package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// SyncClient pushes a converted billing request to the external billing
// system. Invoked from the outbox drainer, never from the request path.
type SyncClient interface {
	Sync(ctx context.Context, billingRequestID int64, reason string) error
}

// Notifier tells a department about a new billing request.
type Notifier interface {
	Notify(ctx context.Context, department string, entityID, actorID int64) error
}

func defaultHTTPClient() *http.Client {
	return &http.Client{Timeout: 15 * time.Second}
}

// HTTPSyncClient posts sync intents to the billing system webhook. An
// empty endpoint turns it into a no-op so dev environments run without
// the external system.
type HTTPSyncClient struct {
	Endpoint string
	Client   *http.Client
}

func (c HTTPSyncClient) Sync(ctx context.Context, billingRequestID int64, reason string) error {
	if c.Endpoint == "" {
		return nil
	}
	return postJSON(ctx, c.client(), c.Endpoint, map[string]any{
		"billing_request_id": billingRequestID,
		"reason":             reason,
	})
}

func (c HTTPSyncClient) client() *http.Client {
	if c.Client != nil {
		return c.Client
	}
	return defaultHTTPClient()
}

type HTTPNotifier struct {
	Endpoint string
	Client   *http.Client
}

func (n HTTPNotifier) Notify(ctx context.Context, department string, entityID, actorID int64) error {
	if n.Endpoint == "" {
		return nil
	}
	return postJSON(ctx, n.client(), n.Endpoint, map[string]any{
		"department": department,
		"entity_id":  entityID,
		"actor_id":   actorID,
	})
}

func (n HTTPNotifier) client() *http.Client {
	if n.Client != nil {
		return n.Client
	}
	return defaultHTTPClient()
}

func postJSON(ctx context.Context, client *http.Client, endpoint string, payload map[string]any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%s responded %d", endpoint, resp.StatusCode)
	}
	return nil
}
