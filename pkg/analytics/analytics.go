// Package analytics forwards gallery interaction events to configured
// collector endpoints.
//
// Tracking is strictly fire-and-forget: events are posted asynchronously,
// delivery failures are logged and dropped, and nothing here ever blocks or
// fails a user-facing operation.
package analytics

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/go-retryablehttp"
)

// Event types emitted by the gallery flow.
const (
	EventPageView      = "gallery_page_view"
	EventStepStart     = "gallery_step_start"
	EventStepComplete  = "gallery_step_complete"
	EventProductSelect = "gallery_product_select"
	EventAddToCart     = "gallery_add_to_cart"
	EventPurchase      = "purchase"
)

// Event is one tracked interaction.
type Event struct {
	Type       string         `json:"event_type"`
	Timestamp  time.Time      `json:"timestamp"`
	SessionID  string         `json:"session_id,omitempty"`
	Properties map[string]any `json:"properties,omitempty"`
}

// Forwarder posts events to every configured endpoint.
type Forwarder struct {
	endpoints []string
	client    *retryablehttp.Client
	logger    *log.Logger
	wg        sync.WaitGroup
}

// NewForwarder creates a Forwarder posting to the given endpoint URLs. A nil
// logger falls back to the default logger.
func NewForwarder(endpoints []string, logger *log.Logger) *Forwarder {
	if logger == nil {
		logger = log.Default()
	}

	client := retryablehttp.NewClient()
	client.RetryMax = 2
	client.RetryWaitMin = 200 * time.Millisecond
	client.RetryWaitMax = 2 * time.Second
	client.HTTPClient.Timeout = 5 * time.Second
	client.Logger = nil // delivery failures are logged once, below

	return &Forwarder{
		endpoints: endpoints,
		client:    client,
		logger:    logger,
	}
}

// Track dispatches the event to all endpoints in the background and returns
// immediately. A zero timestamp is filled in.
func (f *Forwarder) Track(ctx context.Context, event Event) {
	if len(f.endpoints) == 0 {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		f.logger.Warn("dropping unencodable analytics event", "type", event.Type, "err", err)
		return
	}

	// Deliveries outlive the caller. Request-scoped contexts are cancelled
	// the moment the handler returns, which would abort every in-flight
	// post, so only the values are carried over.
	ctx = context.WithoutCancel(ctx)

	for _, endpoint := range f.endpoints {
		f.wg.Add(1)
		go func(endpoint string) {
			defer f.wg.Done()
			f.post(ctx, endpoint, payload, event.Type)
		}(endpoint)
	}
}

// post delivers one payload to one endpoint. Failures are logged, never
// returned.
func (f *Forwarder) post(ctx context.Context, endpoint string, payload []byte, eventType string) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		f.logger.Warn("analytics request build failed", "endpoint", endpoint, "err", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		f.logger.Warn("analytics delivery failed", "endpoint", endpoint, "type", eventType, "err", err)
		return
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 400 {
		f.logger.Warn("analytics endpoint rejected event",
			"endpoint", endpoint, "type", eventType, "status", resp.StatusCode)
	}
}

// Flush blocks until all in-flight deliveries finish. Used on shutdown and
// in tests; regular callers never wait.
func (f *Forwarder) Flush() {
	f.wg.Wait()
}
