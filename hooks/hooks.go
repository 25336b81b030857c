package hooks

import (
	"github.com/rickchristie/tapable"
)

// NewSyncHook creates a hook that runs every tap in order and returns nil.
func NewSyncHook(name string, args ...string) *tapable.Hook {
	return newHook(name, args, ExecSync, FlowBasic)
}

// NewSyncBailHook creates a hook that returns the first non-nil tap result, skipping the
// remaining taps.
func NewSyncBailHook(name string, args ...string) *tapable.Hook {
	return newHook(name, args, ExecSync, FlowBail)
}

// NewSyncWaterfallHook creates a hook that replaces its first argument with every non-nil tap
// result and returns the final first argument. It panics without at least one argument.
func NewSyncWaterfallHook(name string, args ...string) *tapable.Hook {
	return newHook(name, args, ExecSync, FlowWaterfall)
}

// NewSyncLoopHook creates a hook that starts over from the first tap whenever a tap returns a
// non-nil result, until a full pass returns only nil.
func NewSyncLoopHook(name string, args ...string) *tapable.Hook {
	return newHook(name, args, ExecSync, FlowLoop)
}

// NewAsyncSeriesHook creates an async hook running taps one after another.
func NewAsyncSeriesHook(name string, args ...string) *tapable.Hook {
	return newHook(name, args, ExecSeries, FlowBasic)
}

// NewAsyncSeriesBailHook creates an async series hook that settles with the first non-nil
// tap result.
func NewAsyncSeriesBailHook(name string, args ...string) *tapable.Hook {
	return newHook(name, args, ExecSeries, FlowBail)
}

// NewAsyncSeriesWaterfallHook creates an async series hook threading non-nil results through
// its first argument. It panics without at least one argument.
func NewAsyncSeriesWaterfallHook(name string, args ...string) *tapable.Hook {
	return newHook(name, args, ExecSeries, FlowWaterfall)
}

// NewAsyncSeriesLoopHook creates an async series hook that restarts on any non-nil result.
func NewAsyncSeriesLoopHook(name string, args ...string) *tapable.Hook {
	return newHook(name, args, ExecSeries, FlowLoop)
}

// NewAsyncParallelHook creates an async hook that starts every tap at once and completes when
// all of them have, or as soon as one fails.
func NewAsyncParallelHook(name string, args ...string) *tapable.Hook {
	return newHook(name, args, ExecParallel, FlowBasic)
}

// NewAsyncParallelBailHook creates an async parallel hook settling with the result or error of
// the earliest tap, in tap order, that produced one.
func NewAsyncParallelBailHook(name string, args ...string) *tapable.Hook {
	return newHook(name, args, ExecParallel, FlowBail)
}

func newHook(name string, args []string, exec Exec, flow Flow) *tapable.Hook {
	if flow == FlowWaterfall && len(args) == 0 {
		panic("hooks: waterfall hooks need at least one argument")
	}
	return tapable.NewHook(tapable.Config{
		Name:         name,
		Args:         args,
		Compiler:     NewCompiler(exec, flow),
		SyncTapsOnly: exec == ExecSync,
		NoSyncCall:   exec != ExecSync,
	})
}
