package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

// syncBuffer guards a buffer shared with the spinner goroutine.
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

func TestSpinnerAnimatesUntilStopped(t *testing.T) {
	var out syncBuffer
	s := newSpinner(context.Background(), &out, "loading aims").start()
	time.Sleep(200 * time.Millisecond)
	s.stop()

	if !strings.Contains(out.String(), "loading aims") {
		t.Errorf("spinner never drew its message: %q", out.String())
	}
}

func TestSpinnerStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var out syncBuffer
	s := newSpinner(ctx, &out, "waiting").start()
	cancel()

	select {
	case <-s.stopped:
	case <-time.After(time.Second):
		t.Fatal("spinner did not stop after cancellation")
	}
	s.stop()
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s := newSpinner(context.Background(), &syncBuffer{}, "x").start()
	s.stop()
	s.stop()
	s.stop()
}

func TestSpinnerStopWith(t *testing.T) {
	var out syncBuffer
	newSpinner(context.Background(), &out, "a").start().stopWith(nil, "rendered")
	newSpinner(context.Background(), &out, "b").start().stopWith(errors.New("graphviz failed"), "")

	got := out.String()
	if !strings.Contains(got, "rendered") {
		t.Errorf("missing success line in %q", got)
	}
	if !strings.Contains(got, "graphviz failed") {
		t.Errorf("missing error line in %q", got)
	}
}
