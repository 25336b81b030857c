package tapable

// Interceptor observes or transforms a hook's taps and invocations. Every field is optional;
// a nil field is a no-op for that phase.
//
// Interceptors are stored by value when attached, so mutating the caller's copy afterwards has
// no effect on the hook.
//
// # Phases
//
// Register runs when a tap is registered, and against every existing tap when the interceptor
// is attached. It may return a replacement record; nil keeps the record unchanged.
//
// The remaining phases run inside compiled invokers (see the hooks package):
//   - Call: once at invocation start, with the hook's arguments
//   - Loop: at the start of every pass of a looping hook, with the current arguments
//   - Tap: immediately before each tap's callback runs
//   - Error: when a tap fails and the invocation fails with it
//   - Result: when a bail or waterfall hook produces its final value
//   - Done: at the end of every invocation, after Error or Result
type Interceptor struct {
	// Name labels the interceptor in diagnostics.
	Name string

	Register func(tap *Tap) *Tap
	Call     func(args []any)
	Loop     func(args []any)
	Tap      func(tap *Tap)
	Error    func(err error)
	Result   func(result any)
	Done     func()
}

// Interceptors is an ordered list of interceptors. Its methods run one phase across the list
// in registration order, skipping interceptors that leave the phase nil.
type Interceptors []Interceptor

// Register threads tap through every Register phase; each interceptor sees the previous
// interceptor's output.
func (is Interceptors) Register(tap *Tap) *Tap {
	for _, i := range is {
		tap = applyRegister(i, tap)
	}
	return tap
}

func applyRegister(i Interceptor, tap *Tap) *Tap {
	if i.Register == nil {
		return tap
	}
	if replaced := i.Register(tap); replaced != nil {
		return replaced
	}
	return tap
}

// Call runs the Call phase.
func (is Interceptors) Call(args []any) {
	for _, i := range is {
		if i.Call != nil {
			i.Call(args)
		}
	}
}

// Loop runs the Loop phase.
func (is Interceptors) Loop(args []any) {
	for _, i := range is {
		if i.Loop != nil {
			i.Loop(args)
		}
	}
}

// Tap runs the Tap phase for the tap about to be invoked.
func (is Interceptors) Tap(tap *Tap) {
	for _, i := range is {
		if i.Tap != nil {
			i.Tap(tap)
		}
	}
}

// Error runs the Error phase.
func (is Interceptors) Error(err error) {
	for _, i := range is {
		if i.Error != nil {
			i.Error(err)
		}
	}
}

// Result runs the Result phase.
func (is Interceptors) Result(result any) {
	for _, i := range is {
		if i.Result != nil {
			i.Result(result)
		}
	}
}

// Done runs the Done phase.
func (is Interceptors) Done() {
	for _, i := range is {
		if i.Done != nil {
			i.Done()
		}
	}
}
