package tapable

import "errors"

// MultiHook forwards registration to several hooks at once, so a plugin can attach the same
// behavior to related extension points in one call.
//
// MultiHook has no Call, CallAsync or Promise: the underlying hooks may declare different
// arguments and support different invocation kinds, so each must be invoked on its own.
type MultiHook struct {
	name  string
	hooks []Tapper
}

// NewMultiHook groups hooks under name.
func NewMultiHook(name string, hooks ...Tapper) *MultiHook {
	return &MultiHook{
		name:  name,
		hooks: append([]Tapper(nil), hooks...),
	}
}

// Name returns the group's name.
func (m *MultiHook) Name() string {
	return m.name
}

// Hooks returns the underlying hooks in order.
func (m *MultiHook) Hooks() []Tapper {
	return append([]Tapper(nil), m.hooks...)
}

// Tap registers fn on every hook. Failures from individual hooks are joined.
func (m *MultiHook) Tap(opts any, fn SyncFunc) error {
	return m.each(func(h Tapper) error { return h.Tap(opts, fn) })
}

// TapAsync registers fn on every hook.
func (m *MultiHook) TapAsync(opts any, fn AsyncFunc) error {
	return m.each(func(h Tapper) error { return h.TapAsync(opts, fn) })
}

// TapPromise registers fn on every hook.
func (m *MultiHook) TapPromise(opts any, fn PromiseFunc) error {
	return m.each(func(h Tapper) error { return h.TapPromise(opts, fn) })
}

// Intercept attaches i to every hook.
func (m *MultiHook) Intercept(i Interceptor) {
	for _, h := range m.hooks {
		h.Intercept(i)
	}
}

// IsUsed reports whether any underlying hook is used.
func (m *MultiHook) IsUsed() bool {
	for _, h := range m.hooks {
		if h.IsUsed() {
			return true
		}
	}
	return false
}

// WithOptions returns a MultiHook over each hook's own WithOptions view.
func (m *MultiHook) WithOptions(defaults any) Tapper {
	views := make([]Tapper, len(m.hooks))
	for i, h := range m.hooks {
		views[i] = h.WithOptions(defaults)
	}
	return &MultiHook{name: m.name, hooks: views}
}

func (m *MultiHook) each(fn func(h Tapper) error) error {
	var errs []error
	for _, h := range m.hooks {
		if err := fn(h); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
