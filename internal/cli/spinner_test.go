package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func newTestSpinner(ctx context.Context, buf *bytes.Buffer) *Spinner {
	s := newSpinnerWithContext(ctx, "Loading...")
	s.out = buf
	return s
}

func TestSpinnerDraws(t *testing.T) {
	var buf bytes.Buffer
	s := newTestSpinner(context.Background(), &buf)
	s.Start()
	time.Sleep(200 * time.Millisecond)
	s.Stop()

	if !strings.Contains(buf.String(), "Loading...") {
		t.Errorf("spinner output = %q", buf.String())
	}
	if s.Cancelled() {
		t.Error("Stop must not report the parent as cancelled")
	}
}

func TestSpinnerWithContext(t *testing.T) {
	var buf bytes.Buffer
	ctx, cancel := context.WithCancel(context.Background())
	s := newTestSpinner(ctx, &buf)
	s.Start()
	cancel()
	time.Sleep(100 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("Spinner should be cancelled after context cancellation")
	}
	s.Stop()
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	var buf bytes.Buffer
	s := newTestSpinner(context.Background(), &buf)
	s.Start()
	s.Stop()
	s.Stop()
	s.Stop()
}
