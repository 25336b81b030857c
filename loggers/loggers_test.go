package loggers

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/rickchristie/tapable"
	"github.com/rickchristie/tapable/hooks"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nop(_ []any) (any, error) { return nil, nil }

// -----------------------------------------------------------------------------
// Tracer Tests
// -----------------------------------------------------------------------------

func TestTracer_Golden(t *testing.T) {
	var buf bytes.Buffer
	tracer := NewTracer(&buf, WithIDGenerator(SequentialIDs("inv")))

	resolve := hooks.NewSyncBailHook("resolve", "request")
	require.NoError(t, resolve.Tap("Cache", nop))
	require.NoError(t, resolve.Tap(tapable.TapOptions{Name: "Alias", Stage: -5}, nop))
	tracer.Attach(resolve)
	require.NoError(t, resolve.Tap("Resolver", func(args []any) (any, error) {
		return "resolved:" + args[0].(string), nil
	}))

	result, err := resolve.Call("./a")
	require.NoError(t, err)
	assert.Equal(t, "resolved:./a", result)

	emit := hooks.NewAsyncSeriesHook("emit", "asset")
	tracer.Attach(emit)
	require.NoError(t, emit.TapAsync("Writer", func(_ []any, done tapable.Callback) {
		done(errors.New("disk full"), nil)
	}))

	var asyncErr error
	emit.CallAsync(func(err error, _ any) { asyncErr = err }, "main.js")
	assert.EqualError(t, asyncErr, "disk full")

	optimize := hooks.NewSyncLoopHook("optimize")
	tracer.Attach(optimize)
	passes := 0
	require.NoError(t, optimize.Tap("Shrink", func(_ []any) (any, error) {
		passes++
		if passes < 2 {
			return true, nil
		}
		return nil, nil
	}))

	_, err = optimize.Call()
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "trace", buf.Bytes())
}

func TestTracer_DefaultIDsAreUnique(t *testing.T) {
	var buf bytes.Buffer
	tracer := NewTracer(&buf)

	h := hooks.NewSyncHook("build")
	tracer.Attach(h)
	_, err := h.Call()
	require.NoError(t, err)
	_, err = h.Call()
	require.NoError(t, err)

	var ids []string
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if strings.Contains(line, " call ") {
			ids = append(ids, line[1:strings.Index(line, "]")])
		}
	}
	require.Len(t, ids, 2)
	assert.NotEqual(t, ids[0], ids[1])
}

func TestTracer_DoesNotReplaceTaps(t *testing.T) {
	h := hooks.NewSyncHook("build")
	require.NoError(t, h.Tap("A", nop))
	before := h.Taps()[0]

	NewTracer(&bytes.Buffer{}).Attach(h)

	assert.Same(t, before, h.Taps()[0])
}

func TestSequentialIDs(t *testing.T) {
	next := SequentialIDs("x")

	assert.Equal(t, "x-1", next())
	assert.Equal(t, "x-2", next())
}

// -----------------------------------------------------------------------------
// DumpHook Tests
// -----------------------------------------------------------------------------

func TestDumpHook(t *testing.T) {
	h := hooks.NewAsyncSeriesHook("emit", "compilation", "assets")
	require.NoError(t, h.Tap("Stats", nop))
	require.NoError(t, h.TapAsync(map[string]any{
		"name":   "Writer",
		"stage":  10,
		"before": "Stats",
		"plugin": "fs",
	}, func(_ []any, done tapable.Callback) { done(nil, nil) }))
	h.Intercept(tapable.Interceptor{Name: "progress"})

	var buf bytes.Buffer
	require.NoError(t, DumpHook(&buf, h))

	assert.YAMLEq(t, `
name: emit
args: [compilation, assets]
interceptors: [progress]
taps:
  - name: Writer
    kind: async
    stage: 10
    before: [Stats]
    meta:
      plugin: fs
  - name: Stats
    kind: sync
    stage: 0
`, buf.String())
}

func TestDumpHook_EmptyHook(t *testing.T) {
	h := hooks.NewSyncHook("")

	var buf bytes.Buffer
	require.NoError(t, DumpHook(&buf, h))

	assert.YAMLEq(t, "args: []\ntaps: []\n", buf.String())
}
