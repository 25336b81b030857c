package hooks

import (
	"fmt"
	"slices"
	"sync"

	"github.com/rickchristie/tapable"
)

// Exec is how a compiled hook schedules its taps.
type Exec int

const (
	// ExecSync runs taps one after another on the calling goroutine.
	ExecSync Exec = iota
	// ExecSeries runs taps one after another, waiting for each to complete.
	ExecSeries
	// ExecParallel starts every tap without waiting for the previous one.
	ExecParallel
)

func (e Exec) String() string {
	switch e {
	case ExecSync:
		return "sync"
	case ExecSeries:
		return "series"
	case ExecParallel:
		return "parallel"
	}
	return fmt.Sprintf("Exec(%d)", int(e))
}

// Flow is what a compiled hook does with tap results.
type Flow int

const (
	// FlowBasic ignores results.
	FlowBasic Flow = iota
	// FlowBail stops at the first non-nil result.
	FlowBail
	// FlowWaterfall passes each non-nil result on as the next tap's first argument.
	FlowWaterfall
	// FlowLoop starts over from the first tap after any non-nil result.
	FlowLoop
)

func (f Flow) String() string {
	switch f {
	case FlowBasic:
		return "basic"
	case FlowBail:
		return "bail"
	case FlowWaterfall:
		return "waterfall"
	case FlowLoop:
		return "loop"
	}
	return fmt.Sprintf("Flow(%d)", int(f))
}

// compiler is the tapable.Compiler behind every variant in this package.
type compiler struct {
	exec Exec
	flow Flow
}

// NewCompiler returns the compiler for one execution strategy and result flow. Parallel
// execution supports only FlowBasic and FlowBail; other combinations panic.
func NewCompiler(exec Exec, flow Flow) tapable.Compiler {
	if exec == ExecParallel && (flow == FlowWaterfall || flow == FlowLoop) {
		panic(fmt.Sprintf("hooks: %s execution does not support %s flow", exec, flow))
	}
	return compiler{exec: exec, flow: flow}
}

// Compile closes over the tap and interceptor snapshots in opts.
func (c compiler) Compile(opts tapable.CompileOptions) tapable.Invoker {
	taps := opts.Taps
	interceptors := opts.Interceptors

	return func(args []any, done tapable.Callback) {
		r := &run{
			flow:         c.flow,
			taps:         taps,
			interceptors: interceptors,
			args:         slices.Clone(args),
			done:         done,
		}
		interceptors.Call(r.args)
		if c.exec == ExecParallel {
			r.parallel()
			return
		}
		r.step(0)
	}
}

// run is the state of one invocation.
type run struct {
	flow         Flow
	taps         []*tapable.Tap
	interceptors tapable.Interceptors
	args         []any
	done         tapable.Callback
}

func (r *run) fail(err error) {
	r.interceptors.Error(err)
	r.interceptors.Done()
	r.done(err, nil)
}

func (r *run) resolve(result any) {
	r.interceptors.Result(result)
	r.interceptors.Done()
	r.done(nil, result)
}

// complete finishes an invocation in which no tap bailed or failed.
func (r *run) complete() {
	if r.flow == FlowWaterfall {
		r.resolve(r.args[0])
		return
	}
	r.interceptors.Done()
	r.done(nil, nil)
}

// -----------------------------------------------------------------------------
// Series
// -----------------------------------------------------------------------------

// step runs taps from index i on. Taps that complete inline advance the loop; a tap that
// completes later resumes the series from its own callback.
func (r *run) step(i int) {
	for {
		if i == 0 && r.flow == FlowLoop {
			r.interceptors.Loop(r.args)
		}
		if i >= len(r.taps) {
			r.complete()
			return
		}

		next, inline := r.invokeSeries(i)
		if !inline || next < 0 {
			return
		}
		i = next
	}
}

// invokeSeries invokes tap i. It reports the next index when the tap completed before
// Invoke returned; otherwise the tap's callback continues the series itself.
func (r *run) invokeSeries(i int) (next int, inline bool) {
	var (
		mu       sync.Mutex
		invoking = true
	)
	next = -1

	tap := r.taps[i]
	r.interceptors.Tap(tap)
	tap.Invoke(slices.Clone(r.args), func(err error, result any) {
		n := r.afterSeriesTap(i, err, result)

		mu.Lock()
		if invoking {
			next, inline = n, true
			mu.Unlock()
			return
		}
		mu.Unlock()

		if n >= 0 {
			r.step(n)
		}
	})

	mu.Lock()
	defer mu.Unlock()
	invoking = false
	return next, inline
}

// afterSeriesTap applies the flow to tap i's outcome and returns the next tap index, or -1
// once the invocation has finished.
func (r *run) afterSeriesTap(i int, err error, result any) int {
	if err != nil {
		r.fail(err)
		return -1
	}

	switch r.flow {
	case FlowBail:
		if result != nil {
			r.resolve(result)
			return -1
		}
	case FlowWaterfall:
		if result != nil {
			r.args[0] = result
		}
	case FlowLoop:
		if result != nil {
			return 0
		}
	}
	return i + 1
}

// -----------------------------------------------------------------------------
// Parallel
// -----------------------------------------------------------------------------

type outcome struct {
	settled bool
	err     error
	result  any
}

// parallel starts every tap and finishes on the first failure or once all taps completed.
// An outcome reached while taps are still being started is held until the start loop
// returns, so Done never precedes a Tap phase. No tap starts once the outcome is known.
func (r *run) parallel() {
	if len(r.taps) == 0 {
		r.complete()
		return
	}

	var (
		mu        sync.Mutex
		starting  = true
		finished  bool
		deferred  func()
		remaining = len(r.taps)
		outcomes  = make([]outcome, len(r.taps))
	)

	for i, tap := range r.taps {
		mu.Lock()
		stop := finished
		mu.Unlock()
		if stop {
			break
		}

		r.interceptors.Tap(tap)
		tap.Invoke(slices.Clone(r.args), func(err error, result any) {
			mu.Lock()
			if finished {
				mu.Unlock()
				return
			}

			var finish func()
			if r.flow == FlowBail {
				outcomes[i] = outcome{settled: true, err: err, result: result}
				finish = r.earliestOutcome(outcomes)
			} else if err != nil {
				finish = func() { r.fail(err) }
			} else if remaining--; remaining == 0 {
				finish = r.complete
			}
			finished = finish != nil
			if finish != nil && starting {
				deferred, finish = finish, nil
			}
			mu.Unlock()

			if finish != nil {
				finish()
			}
		})
	}

	mu.Lock()
	starting = false
	finish := deferred
	mu.Unlock()
	if finish != nil {
		finish()
	}
}

// earliestOutcome returns how to finish a parallel bail invocation, or nil while an earlier
// tap is still pending.
func (r *run) earliestOutcome(outcomes []outcome) func() {
	for _, o := range outcomes {
		switch {
		case !o.settled:
			return nil
		case o.err != nil:
			err := o.err
			return func() { r.fail(err) }
		case o.result != nil:
			result := o.result
			return func() { r.resolve(result) }
		}
	}
	return r.complete
}
