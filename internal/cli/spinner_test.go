package cli

import (
	"context"
	"testing"
	"time"
)

func TestSpinnerBasic(t *testing.T) {
	s := newSpinner(context.Background(), "working...")
	s.Start()
	time.Sleep(100 * time.Millisecond)
	s.Stop()
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s := newSpinner(context.Background(), "working...")
	s.Start()
	s.Stop()
	s.Stop()
	s.Stop()
}

func TestSpinnerStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := newSpinner(ctx, "working...")
	s.Start()
	cancel()
	time.Sleep(100 * time.Millisecond)
	s.Stop()
}

func TestSpinnerStopWithMessages(t *testing.T) {
	s := newSpinner(context.Background(), "working...")
	s.Start()
	time.Sleep(50 * time.Millisecond)
	s.StopWithSuccess("done")

	s = newSpinner(context.Background(), "working...")
	s.Start()
	s.StopWithError("failed")
}
