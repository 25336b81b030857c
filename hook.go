package tapable

import (
	"fmt"
	"slices"
)

// Tapper is the registration and inspection surface shared by *Hook, the view returned by
// WithOptions and *MultiHook.
//
// Tapper has no invocation methods; only a concrete *Hook can be called.
type Tapper interface {
	// Name returns the hook's name, possibly empty.
	Name() string

	// Tap registers a synchronous callback.
	Tap(opts any, fn SyncFunc) error

	// TapAsync registers a callback that completes through a Callback.
	TapAsync(opts any, fn AsyncFunc) error

	// TapPromise registers a callback that returns a *Promise.
	TapPromise(opts any, fn PromiseFunc) error

	// Intercept attaches an interceptor.
	Intercept(i Interceptor)

	// IsUsed reports whether anything is registered.
	IsUsed() bool

	// WithOptions returns a view that applies defaults to every registration.
	WithOptions(defaults any) Tapper
}

// Config configures a Hook.
type Config struct {
	// Name identifies the hook in errors and logs. Optional.
	Name string

	// Args are the parameter names every invocation receives, fixed for the hook's lifetime.
	Args []string

	// Compiler builds the hook's invokers. A hook without one panics with ErrCompilerMissing
	// when invoked.
	Compiler Compiler

	// SyncTapsOnly rejects TapAsync and TapPromise.
	SyncTapsOnly bool

	// NoSyncCall rejects Call. Hooks whose taps may complete later set this.
	NoSyncCall bool
}

// Hook is an extension point: an ordered list of taps plus interceptors, with three
// invocation entry points compiled lazily from that state.
//
// # Ordering
//
// Taps run by ascending Stage, in registration order within a stage. A tap naming already
// registered taps in Before is placed ahead of them regardless of stage.
//
// # Compilation
//
// Call, CallAsync and Promise each compile an Invoker on first use and reuse it until the
// next registration or Intercept call, which discards all three. An invocation already
// running keeps the tap list it was compiled with.
//
// # Thread Safety
//
// Hook is NOT thread-safe. Registration and invocation must happen on one goroutine; async
// taps may complete on any goroutine.
type Hook struct {
	name         string
	args         []string
	compiler     Compiler
	syncTapsOnly bool
	noSyncCall   bool

	taps         []*Tap
	interceptors Interceptors
	compiled     [numKinds]Invoker
}

// NewHook creates a hook from cfg.
func NewHook(cfg Config) *Hook {
	return &Hook{
		name:         cfg.Name,
		args:         slices.Clone(cfg.Args),
		compiler:     cfg.Compiler,
		syncTapsOnly: cfg.SyncTapsOnly,
		noSyncCall:   cfg.NoSyncCall,
		taps:         make([]*Tap, 0),
	}
}

// Name returns the hook's name.
func (h *Hook) Name() string {
	return h.name
}

// Args returns the declared parameter names.
func (h *Hook) Args() []string {
	return slices.Clone(h.args)
}

// Taps returns the ordered tap list. The slice is a copy; the records are shared.
func (h *Hook) Taps() []*Tap {
	return slices.Clone(h.taps)
}

// Interceptors returns the attached interceptors in registration order.
func (h *Hook) Interceptors() Interceptors {
	return slices.Clone(h.interceptors)
}

// IsUsed reports whether the hook has at least one tap or interceptor. Hosts use it to skip
// building arguments for hooks nobody observes.
func (h *Hook) IsUsed() bool {
	return len(h.taps) > 0 || len(h.interceptors) > 0
}

// -----------------------------------------------------------------------------
// Registration
// -----------------------------------------------------------------------------

// Tap registers fn as a synchronous tap. opts is a tap name, TapOptions, *TapOptions or
// map[string]any.
func (h *Hook) Tap(opts any, fn SyncFunc) error {
	return h.tap(KindSync, opts, fn)
}

// TapAsync registers fn as a callback-style tap.
func (h *Hook) TapAsync(opts any, fn AsyncFunc) error {
	if h.syncTapsOnly {
		return &RegistrationError{Hook: h.name, Kind: KindAsync, Err: ErrUnsupported}
	}
	return h.tap(KindAsync, opts, fn)
}

// TapPromise registers fn as a promise-returning tap.
func (h *Hook) TapPromise(opts any, fn PromiseFunc) error {
	if h.syncTapsOnly {
		return &RegistrationError{Hook: h.name, Kind: KindPromise, Err: ErrUnsupported}
	}
	return h.tap(KindPromise, opts, fn)
}

func (h *Hook) tap(kind Kind, opts any, fn any) error {
	m, err := optionsMap(opts)
	if err != nil {
		return &RegistrationError{Hook: h.name, Kind: kind, Err: err}
	}

	t, err := newTap(m, kind, fn)
	if err != nil {
		return &RegistrationError{Hook: h.name, Kind: kind, Err: err}
	}
	if t.Context {
		warnContextDeprecated(h.name, t.Name)
	}

	t = h.interceptors.Register(t)

	h.resetCompilation()
	h.taps = insertTap(h.taps, t)
	return nil
}

// Intercept attaches a copy of i. Its Register phase is applied right away to every tap
// already registered, replacing records in place without re-sorting.
func (h *Hook) Intercept(i Interceptor) {
	h.resetCompilation()
	h.interceptors = append(h.interceptors, i)
	if i.Register == nil {
		return
	}
	for idx, t := range h.taps {
		h.taps[idx] = applyRegister(i, t)
	}
}

// WithOptions returns a view of the hook whose registrations merge defaults under the
// caller's options; the caller's keys win. defaults accepts the same forms as tap options,
// minus the requirement for a name.
func (h *Hook) WithOptions(defaults any) Tapper {
	return newOptionsView(h, defaults)
}

// -----------------------------------------------------------------------------
// Invocation
// -----------------------------------------------------------------------------

// Call runs the hook synchronously and returns its result.
func (h *Hook) Call(args ...any) (any, error) {
	if h.noSyncCall {
		return nil, fmt.Errorf("%w: Call on %s", ErrUnsupported, h.describe())
	}

	var (
		settled bool
		result  any
		callErr error
	)
	h.invoker(KindSync)(h.fitArgs(args), func(err error, res any) {
		settled, result, callErr = true, res, err
	})
	if !settled {
		return nil, fmt.Errorf("%w: %s", ErrNotSettled, h.describe())
	}
	return result, callErr
}

// CallAsync runs the hook and reports the outcome through done, which may be called from
// another goroutine.
func (h *Hook) CallAsync(done Callback, args ...any) {
	h.invoker(KindAsync)(h.fitArgs(args), done)
}

// Promise runs the hook and returns a promise for its outcome.
func (h *Hook) Promise(args ...any) *Promise {
	inv := h.invoker(KindPromise)
	fitted := h.fitArgs(args)
	return NewPromise(func(resolve func(any), reject func(error)) {
		inv(fitted, func(err error, res any) {
			if err != nil {
				reject(err)
				return
			}
			resolve(res)
		})
	})
}

// fitArgs pads or truncates args to the declared arity.
func (h *Hook) fitArgs(args []any) []any {
	fitted := make([]any, len(h.args))
	copy(fitted, args)
	return fitted
}

func (h *Hook) describe() string {
	if h.name == "" {
		return "unnamed hook"
	}
	return fmt.Sprintf("hook %q", h.name)
}
