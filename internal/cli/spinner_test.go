package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestSpinnerBasic(t *testing.T) {
	s := newSpinner(context.Background(), io.Discard, "Testing...")
	s.Start()
	time.Sleep(100 * time.Millisecond)
	s.Stop()

	if s.Cancelled() {
		t.Error("Stop should not count as cancellation")
	}
}

func TestSpinnerWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	s := newSpinner(ctx, io.Discard, "Testing with context...")
	s.Start()

	cancel()
	time.Sleep(100 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("Spinner should be cancelled after context cancellation")
	}
}

func TestSpinnerWithTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	s := newSpinner(ctx, io.Discard, "Testing with timeout...")
	s.Start()

	time.Sleep(100 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("Spinner should be cancelled after context timeout")
	}
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s := newSpinner(context.Background(), io.Discard, "Testing idempotent stop...")
	s.Start()

	// Stop multiple times should not panic
	s.Stop()
	s.Stop()
	s.Stop()
}

func TestSpinnerStopWithoutStart(t *testing.T) {
	s := newSpinner(context.Background(), io.Discard, "never started")
	s.Stop()
}

func TestSpinnerWritesMessage(t *testing.T) {
	var buf syncBuffer
	s := newSpinner(context.Background(), &buf, "first")
	s.Start()
	time.Sleep(120 * time.Millisecond)
	s.SetMessage("second")
	time.Sleep(120 * time.Millisecond)
	s.Stop()

	out := buf.String()
	if !strings.Contains(out, "first") || !strings.Contains(out, "second") {
		t.Errorf("spinner output %q should contain both messages", out)
	}
}

// syncBuffer is a bytes.Buffer safe for the spinner goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
