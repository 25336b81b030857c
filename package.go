// Package tapable provides named extension points ("hooks") that plugins attach behavior to
// ("taps"), with ordering, interception and lazily compiled invocation.
//
// The core in this package stores and orders taps and runs interceptors; it does not decide
// how taps execute. Execution strategies live in compilers. The hooks sub-package provides the
// standard variants: sync, bail, waterfall and loop flows over synchronous, async series and
// async parallel execution.
//
// # Quick Start
//
//	package main
//
//	import (
//	    "context"
//	    "fmt"
//
//	    "github.com/rickchristie/tapable"
//	    "github.com/rickchristie/tapable/hooks"
//	)
//
//	func main() {
//	    resolve := hooks.NewSyncBailHook("resolve", "request")
//
//	    resolve.Tap("Alias", func(args []any) (any, error) {
//	        if args[0] == "@app" {
//	            return "./src/app", nil
//	        }
//	        return nil, nil
//	    })
//	    resolve.Tap(tapable.TapOptions{Name: "Cache", Stage: -10}, func(args []any) (any, error) {
//	        return nil, nil // miss
//	    })
//
//	    res, err := resolve.Call("@app")
//	    fmt.Println(res, err) // ./src/app <nil>
//
//	    emit := hooks.NewAsyncSeriesHook("emit", "assets")
//	    emit.TapAsync("Writer", func(args []any, done tapable.Callback) {
//	        go func() { done(nil, nil) }()
//	    })
//	    _, err = emit.Promise([]string{"main.js"}).Await(context.Background())
//	}
//
// # Taps and Ordering
//
// A tap is registered with options: a plain name, a [TapOptions], or a map[string]any whose
// keys "name", "stage", "before" and "context" are validated against a JSON schema; any other
// map key is kept in [Tap.Meta].
//
// Taps run in ascending stage order, registration order among equal stages. A tap naming
// others in Before is placed ahead of every registered tap it names, regardless of stage.
// Names that match no registered tap are ignored.
//
// # Interceptors
//
// An [Interceptor] observes a hook. Register sees (and may replace) every tap, including the
// taps registered before the interceptor was attached. The runtime phases (Call, Loop, Tap,
// Error, Result, Done) are invoked by the compiled code; see the hooks package for when each
// fires.
//
// # Compilation
//
// A [Hook] holds a [Compiler]. The first invocation of each kind (Call, CallAsync, Promise)
// compiles an [Invoker] from a snapshot of taps and interceptors, which is reused until the
// next Tap or Intercept. Invocations already running keep their snapshot.
//
//	counting := tapable.CompilerFunc(func(opts tapable.CompileOptions) tapable.Invoker {
//	    return func(args []any, done tapable.Callback) {
//	        done(nil, len(opts.Taps))
//	    }
//	})
//	h := tapable.NewHook(tapable.Config{Name: "count", Compiler: counting})
//
// # Grouping and Defaults
//
// [MultiHook] forwards registrations to several hooks. [Hook.WithOptions] returns a view that
// merges default options under every registration made through it. Both satisfy [Tapper];
// neither can be invoked.
//
// # Logging
//
// The package logs through zerolog. Compiles are logged at debug level and deprecation notices
// at warn level; use [SetLogger] to redirect or silence them. The loggers sub-package has a
// tracing interceptor and a YAML dump of a hook's state.
package tapable
