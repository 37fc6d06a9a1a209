package analytics

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func discardLogger() *log.Logger {
	return log.New(io.Discard)
}

func TestTrackDeliversToAllEndpoints(t *testing.T) {
	var received atomic.Int32
	var gotType atomic.Value

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var event Event
		if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
			t.Errorf("decode event: %v", err)
		}
		gotType.Store(event.Type)
		received.Add(1)
	})
	srv1 := httptest.NewServer(handler)
	defer srv1.Close()
	srv2 := httptest.NewServer(handler)
	defer srv2.Close()

	f := NewForwarder([]string{srv1.URL, srv2.URL}, discardLogger())
	f.Track(context.Background(), Event{
		Type:       EventAddToCart,
		Properties: map[string]any{"variant_id": "12345"},
	})
	f.Flush()

	if received.Load() != 2 {
		t.Errorf("endpoints received %d events, want 2", received.Load())
	}
	if gotType.Load() != EventAddToCart {
		t.Errorf("event type = %v, want %q", gotType.Load(), EventAddToCart)
	}
}

func TestTrackFillsTimestamp(t *testing.T) {
	var stamped atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var event Event
		json.NewDecoder(r.Body).Decode(&event)
		stamped.Store(!event.Timestamp.IsZero())
	}))
	defer srv.Close()

	f := NewForwarder([]string{srv.URL}, discardLogger())
	f.Track(context.Background(), Event{Type: EventPageView})
	f.Flush()

	if !stamped.Load() {
		t.Error("event delivered without a timestamp")
	}
}

func TestTrackSurvivesFailures(t *testing.T) {
	var ok atomic.Int32
	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ok.Add(1)
	}))
	defer good.Close()
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	bad.Close() // refuse connections entirely

	f := NewForwarder([]string{bad.URL, good.URL}, discardLogger())
	f.Track(context.Background(), Event{Type: EventStepComplete})
	f.Flush()

	if ok.Load() != 1 {
		t.Errorf("healthy endpoint received %d events, want 1", ok.Load())
	}
}

func TestTrackOutlivesCallerContext(t *testing.T) {
	var received atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(150 * time.Millisecond) // slow collector
		received.Add(1)
	}))
	defer srv.Close()

	f := NewForwarder([]string{srv.URL}, discardLogger())

	// Request-scoped contexts die as soon as the handler returns; the
	// delivery must not die with them.
	ctx, cancel := context.WithCancel(context.Background())
	f.Track(ctx, Event{Type: EventPageView})
	cancel()
	f.Flush()

	if received.Load() != 1 {
		t.Errorf("collector received %d events, want 1", received.Load())
	}
}

func TestTrackWithoutEndpointsIsNoop(t *testing.T) {
	f := NewForwarder(nil, discardLogger())
	f.Track(context.Background(), Event{Type: EventPurchase})
	f.Flush()
}
