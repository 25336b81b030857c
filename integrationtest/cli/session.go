package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rickchristie/tapable"
	"github.com/rickchristie/tapable/hooks"
	"github.com/rickchristie/tapable/loggers"
)

// errQuit is returned by Exec when the session should end.
var errQuit = errors.New("quit")

// variants maps the names accepted by the "hook" command to constructors.
var variants = map[string]func(string, ...string) *tapable.Hook{
	"sync":            hooks.NewSyncHook,
	"syncbail":        hooks.NewSyncBailHook,
	"syncwaterfall":   hooks.NewSyncWaterfallHook,
	"syncloop":        hooks.NewSyncLoopHook,
	"series":          hooks.NewAsyncSeriesHook,
	"seriesbail":      hooks.NewAsyncSeriesBailHook,
	"serieswaterfall": hooks.NewAsyncSeriesWaterfallHook,
	"seriesloop":      hooks.NewAsyncSeriesLoopHook,
	"parallel":        hooks.NewAsyncParallelHook,
	"parallelbail":    hooks.NewAsyncParallelBailHook,
}

const helpText = `Commands:
  hook <name> <variant> [args...]   create a hook; variants: %s
  tap <hook> <name> [key=value...]  register a tap; keys:
                                      kind=sync|async|promise  stage=N  before=a,b
                                      return=V  append=S  repeat=N  fail=MSG  delay=DUR
  intercept <hook>                  trace every interceptor phase of a hook
  call <hook> [args...]             invoke synchronously
  callasync <hook> [args...]        invoke with a callback
  promise <hook> [args...]          invoke as a promise
  list [hook]                       dump hooks as YAML
  help                              show this text
  quit                              leave the playground
`

// SessionOptions configures a Session.
type SessionOptions struct {
	// Trace attaches a tracer to every hook on creation.
	Trace bool
	// Timeout bounds callasync and promise invocations. Defaults to 5s.
	Timeout time.Duration
	// IDs generates tracer invocation ids. Defaults to random UUIDs.
	IDs func() string
}

// Session holds the hooks of one playground run and executes command lines against them.
// Output may be written from tap goroutines, so it is serialized.
type Session struct {
	out     *lockedWriter
	opts    SessionOptions
	tracer  *loggers.Tracer
	hooks   map[string]*tapable.Hook
	order   []string
	traced  map[string]bool
	timeout time.Duration
}

// NewSession creates a session writing to out.
func NewSession(out io.Writer, opts SessionOptions) *Session {
	lw := &lockedWriter{w: out}

	var tracerOpts []loggers.TracerOption
	if opts.IDs != nil {
		tracerOpts = append(tracerOpts, loggers.WithIDGenerator(opts.IDs))
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	return &Session{
		out:     lw,
		opts:    opts,
		tracer:  loggers.NewTracer(lw, tracerOpts...),
		hooks:   make(map[string]*tapable.Hook),
		traced:  make(map[string]bool),
		timeout: timeout,
	}
}

// Exec runs one command line. It returns errQuit when the line asks to leave.
func (s *Session) Exec(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}

	cmd, rest := strings.ToLower(fields[0]), fields[1:]
	switch cmd {
	case "hook":
		return s.createHook(rest)
	case "tap":
		return s.tap(rest)
	case "intercept":
		return s.intercept(rest)
	case "call":
		return s.call(rest)
	case "callasync":
		return s.callAsync(ctx, rest)
	case "promise":
		return s.promise(ctx, rest)
	case "list":
		return s.list(rest)
	case "help", "?":
		s.printf(helpText, strings.Join(variantNames(), ", "))
		return nil
	case "quit", "exit", "q":
		return errQuit
	default:
		return fmt.Errorf("unknown command %q, try \"help\"", cmd)
	}
}

// -----------------------------------------------------------------------------
// Commands
// -----------------------------------------------------------------------------

func (s *Session) createHook(args []string) error {
	if len(args) < 2 {
		return errors.New("usage: hook <name> <variant> [args...]")
	}
	name, variant := args[0], strings.ToLower(args[1])
	if _, exists := s.hooks[name]; exists {
		return fmt.Errorf("hook %q already exists", name)
	}

	ctor, ok := variants[variant]
	if !ok {
		return fmt.Errorf("unknown variant %q; one of %s", variant, strings.Join(variantNames(), ", "))
	}
	if strings.Contains(variant, "waterfall") && len(args) < 3 {
		return fmt.Errorf("%s hooks need at least one argument", variant)
	}

	h := ctor(name, args[2:]...)
	s.hooks[name] = h
	s.order = append(s.order, name)
	if s.opts.Trace {
		s.attachTracer(name, h)
	}
	s.printf("created %s hook %q args=%v\n", variant, name, h.Args())
	return nil
}

func (s *Session) tap(args []string) error {
	if len(args) < 2 {
		return errors.New("usage: tap <hook> <name> [key=value...]")
	}
	h, err := s.lookup(args[0])
	if err != nil {
		return err
	}

	spec, err := parseTapSpec(args[1], args[2:])
	if err != nil {
		return err
	}

	switch spec.kind {
	case tapable.KindAsync:
		err = h.TapAsync(spec.options, s.asyncTap(spec))
	case tapable.KindPromise:
		err = h.TapPromise(spec.options, s.promiseTap(spec))
	default:
		err = h.Tap(spec.options, s.syncTap(spec))
	}
	if err != nil {
		return err
	}
	s.printf("tapped %s on %q\n", spec.name, h.Name())
	return nil
}

func (s *Session) intercept(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: intercept <hook>")
	}
	h, err := s.lookup(args[0])
	if err != nil {
		return err
	}
	if s.traced[args[0]] {
		return fmt.Errorf("hook %q is already traced", args[0])
	}
	s.attachTracer(args[0], h)
	s.printf("tracing %q\n", args[0])
	return nil
}

func (s *Session) call(args []string) error {
	h, callArgs, err := s.invocation("call", args)
	if err != nil {
		return err
	}
	res, err := h.Call(callArgs...)
	if errors.Is(err, tapable.ErrUnsupported) || errors.Is(err, tapable.ErrNotSettled) {
		return fmt.Errorf("call %q: %w", h.Name(), err)
	}
	s.report(res, err)
	return nil
}

func (s *Session) callAsync(ctx context.Context, args []string) error {
	h, callArgs, err := s.invocation("callasync", args)
	if err != nil {
		return err
	}

	ch := make(chan outcome, 1)
	h.CallAsync(func(err error, res any) {
		select {
		case ch <- outcome{res: res, err: err}:
		default:
		}
	}, callArgs...)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	select {
	case o := <-ch:
		s.report(o.res, o.err)
		return nil
	case <-ctx.Done():
		return fmt.Errorf("callasync %q: %w", h.Name(), ctx.Err())
	}
}

func (s *Session) promise(ctx context.Context, args []string) error {
	h, callArgs, err := s.invocation("promise", args)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	res, err := h.Promise(callArgs...).Await(ctx)
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("promise %q: %w", h.Name(), err)
	}
	s.report(res, err)
	return nil
}

func (s *Session) list(args []string) error {
	names := s.order
	if len(args) > 0 {
		names = args
	}
	if len(names) == 0 {
		s.printf("no hooks\n")
		return nil
	}
	for _, name := range names {
		h, err := s.lookup(name)
		if err != nil {
			return err
		}
		if err := loggers.DumpHook(s.out, h); err != nil {
			return fmt.Errorf("dump %q: %w", name, err)
		}
	}
	return nil
}

// -----------------------------------------------------------------------------
// Taps
// -----------------------------------------------------------------------------

// tapSpec is a parsed "tap" command.
type tapSpec struct {
	name    string
	kind    tapable.Kind
	options map[string]any

	result any
	suffix string
	repeat int
	fail   string
	delay  time.Duration
}

func parseTapSpec(name string, pairs []string) (*tapSpec, error) {
	spec := &tapSpec{
		name:    name,
		kind:    tapable.KindSync,
		options: map[string]any{"name": name},
		repeat:  -1,
	}

	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("expected key=value, got %q", pair)
		}
		switch key {
		case "kind":
			switch k := tapable.Kind(value); k {
			case tapable.KindSync, tapable.KindAsync, tapable.KindPromise:
				spec.kind = k
			default:
				return nil, fmt.Errorf("unknown tap kind %q", value)
			}
		case "stage":
			stage, err := strconv.Atoi(value)
			if err != nil {
				return nil, fmt.Errorf("stage: %w", err)
			}
			spec.options["stage"] = stage
		case "before":
			spec.options["before"] = strings.Split(value, ",")
		case "return":
			spec.result = parseValue(value)
		case "append":
			spec.suffix = value
		case "repeat":
			n, err := strconv.Atoi(value)
			if err != nil {
				return nil, fmt.Errorf("repeat: %w", err)
			}
			spec.repeat = n
		case "fail":
			spec.fail = value
		case "delay":
			d, err := time.ParseDuration(value)
			if err != nil {
				return nil, fmt.Errorf("delay: %w", err)
			}
			spec.delay = d
		default:
			spec.options[key] = value
		}
	}
	return spec, nil
}

// runTap is the behavior shared by every tap kind.
func (s *Session) runTap(spec *tapSpec, calls *int, args []any) (any, error) {
	s.printf("  %s ran args=%v\n", spec.name, args)
	*calls++

	if spec.fail != "" {
		return nil, errors.New(spec.fail)
	}
	if spec.repeat >= 0 && *calls > spec.repeat {
		return nil, nil
	}
	if spec.suffix != "" && len(args) > 0 {
		return fmt.Sprint(args[0]) + spec.suffix, nil
	}
	return spec.result, nil
}

func (s *Session) syncTap(spec *tapSpec) tapable.SyncFunc {
	var calls int
	return func(args []any) (any, error) {
		return s.runTap(spec, &calls, args)
	}
}

func (s *Session) asyncTap(spec *tapSpec) tapable.AsyncFunc {
	var (
		mu    sync.Mutex
		calls int
	)
	return func(args []any, done tapable.Callback) {
		go func() {
			time.Sleep(spec.delay)
			mu.Lock()
			res, err := s.runTap(spec, &calls, args)
			mu.Unlock()
			done(err, res)
		}()
	}
}

func (s *Session) promiseTap(spec *tapSpec) tapable.PromiseFunc {
	var (
		mu    sync.Mutex
		calls int
	)
	return func(args []any) *tapable.Promise {
		return tapable.NewPromise(func(resolve func(any), reject func(error)) {
			go func() {
				time.Sleep(spec.delay)
				mu.Lock()
				res, err := s.runTap(spec, &calls, args)
				mu.Unlock()
				if err != nil {
					reject(err)
					return
				}
				resolve(res)
			}()
		})
	}
}

// -----------------------------------------------------------------------------
// Helpers
// -----------------------------------------------------------------------------

type outcome struct {
	res any
	err error
}

func (s *Session) lookup(name string) (*tapable.Hook, error) {
	h, ok := s.hooks[name]
	if !ok {
		return nil, fmt.Errorf("no hook named %q", name)
	}
	return h, nil
}

func (s *Session) invocation(cmd string, args []string) (*tapable.Hook, []any, error) {
	if len(args) < 1 {
		return nil, nil, fmt.Errorf("usage: %s <hook> [args...]", cmd)
	}
	h, err := s.lookup(args[0])
	if err != nil {
		return nil, nil, err
	}
	callArgs := make([]any, 0, len(args)-1)
	for _, a := range args[1:] {
		callArgs = append(callArgs, parseValue(a))
	}
	return h, callArgs, nil
}

func (s *Session) attachTracer(name string, h *tapable.Hook) {
	s.tracer.Attach(h)
	s.traced[name] = true
}

func (s *Session) report(res any, err error) {
	if err != nil {
		s.printf("error: %v\n", err)
		return
	}
	s.printf("result: %v\n", res)
}

func (s *Session) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}

// parseValue reads integers as int and everything else as a string.
func parseValue(s string) any {
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return s
}

func variantNames() []string {
	names := make([]string, 0, len(variants))
	for name := range variants {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
