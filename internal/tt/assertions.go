// Package tt holds test helpers shared by the tapable packages.
package tt

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/pmezard/go-difflib/difflib"
)

// -----------------------------------------------------------------------------
// Sequence Recording
// -----------------------------------------------------------------------------

// Recorder collects labels in the order they were recorded. It is safe for concurrent use,
// so async taps completing on other goroutines can record into it.
type Recorder struct {
	mu     sync.Mutex
	events []string
}

// Record appends label.
func (r *Recorder) Record(label string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, label)
}

// Events returns a copy of everything recorded so far.
func (r *Recorder) Events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

// Reset forgets everything recorded.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

// AssertSequence fails the test with a unified diff when got differs from want.
func AssertSequence(t *testing.T, want, got []string, msgAndArgs ...any) bool {
	t.Helper()

	if equal(want, got) {
		return true
	}

	diff, _ := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        lines(want),
		B:        lines(got),
		FromFile: "want",
		ToFile:   "got",
		Context:  2,
	})
	if len(msgAndArgs) > 0 {
		t.Errorf("%v: sequence mismatch:\n%s", msgAndArgs[0], diff)
	} else {
		t.Errorf("sequence mismatch:\n%s", diff)
	}
	return false
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func lines(items []string) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = strings.TrimRight(item, "\n") + "\n"
	}
	return out
}

// -----------------------------------------------------------------------------
// Async Completion
// -----------------------------------------------------------------------------

// Outcome is what an error-first callback received.
type Outcome struct {
	Err    error
	Result any
}

// Waiter captures the first call to its Callback so tests can block on it.
type Waiter struct {
	ch chan Outcome
}

// NewWaiter creates a Waiter.
func NewWaiter() *Waiter {
	return &Waiter{ch: make(chan Outcome, 1)}
}

// Callback returns the function to hand to CallAsync or an async tap. Calls after the first
// are dropped.
func (w *Waiter) Callback() func(err error, result any) {
	return func(err error, result any) {
		select {
		case w.ch <- Outcome{Err: err, Result: result}:
		default:
		}
	}
}

// Wait blocks until the callback fires, failing the test after timeout.
func (w *Waiter) Wait(t *testing.T, timeout time.Duration) Outcome {
	t.Helper()

	select {
	case o := <-w.ch:
		return o
	case <-time.After(timeout):
		t.Fatalf("callback not called within %v", timeout)
		return Outcome{}
	}
}
