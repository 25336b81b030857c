package tapable

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingName is returned when a tap is registered without a name, or with a name that
	// is blank after trimming.
	ErrMissingName = errors.New("missing name for tap")

	// ErrInvalidOptions is returned when tap options are neither a string, a TapOptions value
	// nor a map, or when a map fails schema validation.
	ErrInvalidOptions = errors.New("invalid tap options")

	// ErrUnsupported is returned when a hook variant does not support the requested
	// registration or invocation kind (e.g. TapAsync on a sync hook, Call on an async hook).
	ErrUnsupported = errors.New("operation not supported by hook")

	// ErrCompilerMissing is the panic value raised when a hook without a Compiler is invoked.
	ErrCompilerMissing = errors.New("abstract: hook has no compiler")

	// ErrInvalidTap is reported through the callback when a tap's Fn does not match any of the
	// supported callback types.
	ErrInvalidTap = errors.New("invalid tap callback")

	// ErrNotSettled is returned by Call when the compiled invoker did not complete
	// synchronously.
	ErrNotSettled = errors.New("sync invocation did not settle")
)

// RegistrationError describes a rejected Tap, TapAsync or TapPromise call.
type RegistrationError struct {
	Hook string
	Kind Kind
	Err  error
}

func (e *RegistrationError) Error() string {
	if e.Hook == "" {
		return fmt.Sprintf("%s tap rejected: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s tap rejected on hook %q: %v", e.Kind, e.Hook, e.Err)
}

func (e *RegistrationError) Unwrap() error {
	return e.Err
}
