package tapable

import (
	"fmt"
	"slices"
)

// Invoker is an executable produced by a Compiler. It runs the hook's taps with args, already
// fitted to the hook's declared arity, and reports the outcome through done.
//
// Invokers compiled for KindSync must call done before returning.
type Invoker func(args []any, done Callback)

// CompileOptions is everything a Compiler may close over.
type CompileOptions struct {
	// Name is the hook's name, possibly empty.
	Name string

	// Taps is a snapshot of the ordered tap list. The compiler may keep it.
	Taps []*Tap

	// Interceptors is a snapshot of the attached interceptors.
	Interceptors Interceptors

	// Args are the hook's declared parameter names.
	Args []string

	// Kind is the entry point being compiled: KindSync for Call, KindAsync for CallAsync,
	// KindPromise for Promise.
	Kind Kind
}

// Compiler turns a hook's current registration state into an Invoker. Each hook variant
// supplies one. Compile must be deterministic for identical options and must honor the
// runtime phases described on Interceptor.
type Compiler interface {
	Compile(opts CompileOptions) Invoker
}

// CompilerFunc adapts a function to the Compiler interface.
type CompilerFunc func(opts CompileOptions) Invoker

// Compile calls f(opts).
func (f CompilerFunc) Compile(opts CompileOptions) Invoker {
	return f(opts)
}

// invoker returns the cached invoker for kind, compiling it first if registration state
// changed since the last compile.
func (h *Hook) invoker(kind Kind) Invoker {
	slot := kindSlot(kind)
	if inv := h.compiled[slot]; inv != nil {
		return inv
	}

	if h.compiler == nil {
		panic(fmt.Errorf("%w: %s", ErrCompilerMissing, h.describe()))
	}

	inv := h.compiler.Compile(CompileOptions{
		Name:         h.name,
		Taps:         slices.Clone(h.taps),
		Interceptors: slices.Clone(h.interceptors),
		Args:         slices.Clone(h.args),
		Kind:         kind,
	})
	logger.Debug().
		Str("hook", h.name).
		Str("kind", string(kind)).
		Int("taps", len(h.taps)).
		Int("interceptors", len(h.interceptors)).
		Msg("compiled hook")

	h.compiled[slot] = inv
	return inv
}

// resetCompilation discards every cached invoker.
func (h *Hook) resetCompilation() {
	h.compiled = [numKinds]Invoker{}
}

const numKinds = 3

func kindSlot(kind Kind) int {
	switch kind {
	case KindSync:
		return 0
	case KindAsync:
		return 1
	case KindPromise:
		return 2
	}
	panic(fmt.Sprintf("tapable: unknown kind %q", kind))
}
