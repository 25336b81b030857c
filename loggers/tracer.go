// Package loggers provides interceptors and dumps for watching hooks at work.
package loggers

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/google/uuid"
	"github.com/rickchristie/tapable"
)

// Tracer writes one line per interceptor phase:
//
//	[<invocation>] <hook> <phase> <detail>
//
// Every Call phase starts a new invocation id. Register lines, which happen outside any
// invocation, use "-" as the id. Lines from several hooks can share one Tracer.
type Tracer struct {
	mu    sync.Mutex
	out   io.Writer
	newID func() string
}

// TracerOption configures a Tracer.
type TracerOption func(*Tracer)

// WithIDGenerator replaces the random invocation ids, mainly so tests get stable output.
func WithIDGenerator(fn func() string) TracerOption {
	return func(t *Tracer) {
		t.newID = fn
	}
}

// NewTracer creates a Tracer writing to w, or to stdout when w is nil.
func NewTracer(w io.Writer, opts ...TracerOption) *Tracer {
	if w == nil {
		w = os.Stdout
	}
	t := &Tracer{
		out:   w,
		newID: func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// SequentialIDs returns an id generator yielding prefix-1, prefix-2, ...
func SequentialIDs(prefix string) func() string {
	var (
		mu sync.Mutex
		n  int
	)
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

// Interceptor returns an interceptor tracing hook under the given label.
//
// The invocation id is tracked per interceptor, so overlapping invocations of one hook are
// attributed to the most recent Call.
func (t *Tracer) Interceptor(hook string) tapable.Interceptor {
	var (
		mu      sync.Mutex
		current = "-"
	)
	id := func() string {
		mu.Lock()
		defer mu.Unlock()
		return current
	}

	return tapable.Interceptor{
		Name: "tracer",
		Register: func(tap *tapable.Tap) *tapable.Tap {
			t.line("-", hook, "register", describeTap(tap))
			return nil
		},
		Call: func(args []any) {
			next := t.newID()
			mu.Lock()
			current = next
			mu.Unlock()
			t.line(next, hook, "call", fmt.Sprintf("args=%v", args))
		},
		Loop: func(args []any) {
			t.line(id(), hook, "loop", fmt.Sprintf("args=%v", args))
		},
		Tap: func(tap *tapable.Tap) {
			t.line(id(), hook, "tap", describeTap(tap))
		},
		Error: func(err error) {
			t.line(id(), hook, "error", err.Error())
		},
		Result: func(result any) {
			t.line(id(), hook, "result", fmt.Sprintf("%v", result))
		},
		Done: func() {
			t.line(id(), hook, "done", "")
		},
	}
}

// Attach traces h under its own name.
func (t *Tracer) Attach(h tapable.Tapper) {
	h.Intercept(t.Interceptor(h.Name()))
}

func (t *Tracer) line(id, hook, phase, detail string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if detail == "" {
		fmt.Fprintf(t.out, "[%s] %s %s\n", id, hook, phase)
		return
	}
	fmt.Fprintf(t.out, "[%s] %s %s %s\n", id, hook, phase, detail)
}

func describeTap(tap *tapable.Tap) string {
	return fmt.Sprintf("%s (%s, stage %d)", tap.Name, tap.Kind, tap.Stage)
}
