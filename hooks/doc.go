// Package hooks provides the standard hook variants: ready-made compilers over the tapable
// core, each pairing an execution strategy with a result flow.
//
// # Variants
//
// Synchronous hooks accept only Tap registrations and can be invoked with Call, CallAsync or
// Promise:
//   - [NewSyncHook] - runs every tap in order
//   - [NewSyncBailHook] - stops at the first tap returning a non-nil result
//   - [NewSyncWaterfallHook] - feeds each non-nil result into the next tap's first argument
//   - [NewSyncLoopHook] - restarts from the first tap whenever a tap returns non-nil
//
// Asynchronous hooks accept Tap, TapAsync and TapPromise registrations and can be invoked with
// CallAsync or Promise:
//   - [NewAsyncSeriesHook] - runs taps one after another
//   - [NewAsyncSeriesBailHook] - series, stopping at the first non-nil result
//   - [NewAsyncSeriesWaterfallHook] - series, threading results through the first argument
//   - [NewAsyncSeriesLoopHook] - series, restarting on any non-nil result
//   - [NewAsyncParallelHook] - starts every tap at once, done when all complete
//   - [NewAsyncParallelBailHook] - parallel, resolving with the earliest tap's (by order)
//     result or error
//
// # Example
//
//	compile := hooks.NewAsyncSeriesHook("compile", "compilation")
//
//	compile.Tap("Logger", func(args []any) (any, error) {
//	    log.Printf("compiling %v", args[0])
//	    return nil, nil
//	})
//	compile.TapPromise(tapable.TapOptions{Name: "Cache", Stage: -10}, func(args []any) *tapable.Promise {
//	    return tapable.NewPromise(func(resolve func(any), reject func(error)) {
//	        go func() { resolve(nil) }()
//	    })
//	})
//
//	_, err := compile.Promise(compilation).Await(ctx)
//
// # Interceptors
//
// Every variant honors the phases documented on [tapable.Interceptor]: Call once per
// invocation, Loop at the start of every pass (loop variants only), Tap before each tap, Error
// on failure, Result when a bail or waterfall hook settles with a value, and Done last.
package hooks
