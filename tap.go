package tapable

import (
	"fmt"
	"maps"
	"slices"
)

// Kind is the invocation discipline of a tap, and the invocation kind a hook is compiled for.
type Kind string

const (
	// KindSync taps return their result directly. A hook compiled for KindSync backs Call.
	KindSync Kind = "sync"

	// KindAsync taps report completion through an error-first Callback. A hook compiled for
	// KindAsync backs CallAsync.
	KindAsync Kind = "async"

	// KindPromise taps return a *Promise. A hook compiled for KindPromise backs Promise.
	KindPromise Kind = "promise"
)

// Callback is an error-first completion function. Exactly one of err and result is meaningful.
type Callback func(err error, result any)

// SyncFunc is the callback registered with Hook.Tap.
type SyncFunc func(args []any) (any, error)

// AsyncFunc is the callback registered with Hook.TapAsync. It must call done exactly once,
// from any goroutine.
type AsyncFunc func(args []any, done Callback)

// PromiseFunc is the callback registered with Hook.TapPromise.
type PromiseFunc func(args []any) *Promise

// Tap is one registered behavior on a hook.
//
// Once inserted, the hook owns the record. Register interceptors may return a replacement
// record; they should keep Name stable since before-constraints were resolved against it.
type Tap struct {
	// Name identifies the tap for ordering (Before) and diagnostics. Never blank.
	Name string

	// Kind is the invocation discipline of Fn.
	Kind Kind

	// Fn is a SyncFunc, AsyncFunc or PromiseFunc matching Kind.
	Fn any

	// Stage orders taps: lower stages run earlier. Defaults to 0.
	Stage int

	// Before lists tap names this tap must run ahead of.
	Before []string

	// Context is accepted for compatibility only and has no effect.
	Context bool

	// Meta holds extra fields supplied at registration or added by interceptors.
	Meta map[string]any
}

// Clone returns a copy of the tap that shares Fn but not Before or Meta.
func (t *Tap) Clone() *Tap {
	c := *t
	c.Before = slices.Clone(t.Before)
	c.Meta = maps.Clone(t.Meta)
	return &c
}

// Invoke runs the tap's callback with args and reports its outcome through done, regardless of
// the tap's kind. Synchronous taps call done before Invoke returns.
func (t *Tap) Invoke(args []any, done Callback) {
	switch fn := t.Fn.(type) {
	case SyncFunc:
		result, err := fn(args)
		done(err, result)
	case func([]any) (any, error):
		result, err := fn(args)
		done(err, result)
	case AsyncFunc:
		fn(args, done)
	case func([]any, Callback):
		fn(args, done)
	case PromiseFunc:
		awaitPromise(t, fn(args), done)
	case func([]any) *Promise:
		awaitPromise(t, fn(args), done)
	default:
		done(fmt.Errorf("%w: tap %q has callback of type %T", ErrInvalidTap, t.Name, t.Fn), nil)
	}
}

func awaitPromise(t *Tap, p *Promise, done Callback) {
	if p == nil {
		done(fmt.Errorf("%w: tap %q returned a nil promise", ErrInvalidTap, t.Name), nil)
		return
	}
	p.Then(done)
}
