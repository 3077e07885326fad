package testsupport

import (
	"testing"
	"time"
)

// Recv waits for a value on ch and returns it.
// The test fails if ch closes or timeout elapses first.
func Recv[T any](t *testing.T, ch <-chan T, timeout time.Duration) T {
	t.Helper()

	select {
	case v, ok := <-ch:
		if !ok {
			t.Fatal("channel closed while waiting for a value")
		}
		return v
	case <-time.After(timeout):
		t.Fatalf("timed out after %v waiting for a value", timeout)
		var zero T
		return zero
	}
}

// NoRecv asserts that nothing happens on ch within wait: no value arrives
// and the channel does not close.
func NoRecv[T any](t *testing.T, ch <-chan T, wait time.Duration) {
	t.Helper()

	select {
	case v, ok := <-ch:
		if !ok {
			t.Fatal("expected no activity, but the channel closed")
		}
		t.Fatalf("expected no value, got %v", v)
	case <-time.After(wait):
	}
}

// RecvClosed waits for ch to close, discarding any buffered values.
// The test fails if timeout elapses first.
func RecvClosed[T any](t *testing.T, ch <-chan T, timeout time.Duration) {
	t.Helper()

	deadline := time.After(timeout)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatalf("timed out after %v waiting for the channel to close", timeout)
		}
	}
}
