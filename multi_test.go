package tapable_test

import (
	"testing"

	"github.com/rickchristie/tapable"
	"github.com/rickchristie/tapable/hooks"
	"github.com/rickchristie/tapable/internal/tt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -----------------------------------------------------------------------------
// WithOptions
// -----------------------------------------------------------------------------

func TestWithOptions_DefaultsAndOverride(t *testing.T) {
	h := hooks.NewSyncHook("build")
	view := h.WithOptions(tapable.TapOptions{Stage: 5})

	require.NoError(t, view.Tap("A", func(_ []any) (any, error) { return nil, nil }))
	require.NoError(t, view.Tap(map[string]any{"name": "B", "stage": 1}, func(_ []any) (any, error) { return nil, nil }))

	taps := h.Taps()
	require.Len(t, taps, 2)
	assert.Equal(t, "B", taps[0].Name)
	assert.Equal(t, 1, taps[0].Stage)
	assert.Equal(t, "A", taps[1].Name)
	assert.Equal(t, 5, taps[1].Stage)
}

func TestWithOptions_ExplicitZeroStageWins(t *testing.T) {
	h := hooks.NewSyncHook("build")
	view := h.WithOptions(map[string]any{"stage": 5})

	require.NoError(t, view.Tap(map[string]any{"name": "A", "stage": 0}, func(_ []any) (any, error) { return nil, nil }))

	assert.Equal(t, 0, h.Taps()[0].Stage)
}

func TestWithOptions_Nested(t *testing.T) {
	h := hooks.NewAsyncSeriesHook("emit")
	view := h.WithOptions(map[string]any{"stage": 5, "plugin": "outer"}).
		WithOptions(map[string]any{"plugin": "inner"})

	require.NoError(t, view.TapAsync("A", func(_ []any, done tapable.Callback) { done(nil, nil) }))

	tap := h.Taps()[0]
	assert.Equal(t, 5, tap.Stage)
	assert.Equal(t, "inner", tap.Meta["plugin"])
	assert.Equal(t, tapable.KindAsync, tap.Kind)
}

func TestWithOptions_DelegatesInterceptAndIsUsed(t *testing.T) {
	rec := &tt.Recorder{}
	h := hooks.NewSyncHook("build")
	view := h.WithOptions(tapable.TapOptions{Stage: 1})
	assert.Equal(t, "build", view.Name())
	assert.False(t, view.IsUsed())

	view.Intercept(tapable.Interceptor{Call: func(_ []any) { rec.Record("call") }})
	assert.True(t, view.IsUsed())
	assert.True(t, h.IsUsed())

	_, err := h.Call()
	require.NoError(t, err)
	tt.AssertSequence(t, []string{"call"}, rec.Events())
}

func TestWithOptions_InvalidDefaultsFailAtTapTime(t *testing.T) {
	h := hooks.NewSyncHook("build")
	view := h.WithOptions(42)

	err := view.Tap("A", func(_ []any) (any, error) { return nil, nil })

	assert.ErrorIs(t, err, tapable.ErrInvalidOptions)
	assert.False(t, h.IsUsed())
}

func TestWithOptions_ViewHasNoInvocation(t *testing.T) {
	view := hooks.NewSyncHook("build").WithOptions(tapable.TapOptions{Stage: 1})

	_, callable := view.(interface{ Call(...any) (any, error) })
	assert.False(t, callable)
}

// -----------------------------------------------------------------------------
// MultiHook
// -----------------------------------------------------------------------------

func TestMultiHook_TapRegistersOnEveryHook(t *testing.T) {
	a := hooks.NewSyncHook("a", "x")
	b := hooks.NewAsyncSeriesHook("b")
	m := tapable.NewMultiHook("both", a, b)

	require.NoError(t, m.Tap("Shared", func(_ []any) (any, error) { return nil, nil }))

	assert.Equal(t, []string{"Shared"}, tapNames(a))
	assert.Equal(t, []string{"Shared"}, tapNames(b))
	assert.Len(t, m.Hooks(), 2)
	assert.Equal(t, "both", m.Name())
}

func TestMultiHook_JoinsFailures(t *testing.T) {
	sync := hooks.NewSyncHook("sync")
	async := hooks.NewAsyncParallelHook("async")
	m := tapable.NewMultiHook("mixed", sync, async)

	err := m.TapAsync("A", func(_ []any, done tapable.Callback) { done(nil, nil) })

	require.Error(t, err)
	assert.ErrorIs(t, err, tapable.ErrUnsupported)
	assert.False(t, sync.IsUsed())
	assert.Equal(t, []string{"A"}, tapNames(async))
}

func TestMultiHook_IsUsed(t *testing.T) {
	a := hooks.NewSyncHook("a")
	b := hooks.NewSyncHook("b")
	m := tapable.NewMultiHook("group", a, b)
	assert.False(t, m.IsUsed())

	require.NoError(t, b.Tap("B", func(_ []any) (any, error) { return nil, nil }))
	assert.True(t, m.IsUsed())
}

func TestMultiHook_Intercept(t *testing.T) {
	rec := &tt.Recorder{}
	a := hooks.NewSyncHook("a")
	b := hooks.NewSyncHook("b")
	m := tapable.NewMultiHook("group", a, b)

	m.Intercept(tapable.Interceptor{Call: func(_ []any) { rec.Record("call") }})

	_, err := a.Call()
	require.NoError(t, err)
	_, err = b.Call()
	require.NoError(t, err)
	tt.AssertSequence(t, []string{"call", "call"}, rec.Events())
}

func TestMultiHook_WithOptions(t *testing.T) {
	a := hooks.NewSyncHook("a")
	b := hooks.NewSyncHook("b")
	require.NoError(t, a.Tap("Existing", func(_ []any) (any, error) { return nil, nil }))

	view := tapable.NewMultiHook("group", a, b).WithOptions(map[string]any{"before": "Existing"})
	require.NoError(t, view.Tap("Early", func(_ []any) (any, error) { return nil, nil }))

	assert.Equal(t, []string{"Early", "Existing"}, tapNames(a))
	assert.Equal(t, []string{"Early"}, tapNames(b))
}

func TestMultiHook_HasNoInvocation(t *testing.T) {
	var m any = tapable.NewMultiHook("group", hooks.NewSyncHook("a"))

	_, callable := m.(interface{ Call(...any) (any, error) })
	_, asyncCallable := m.(interface {
		CallAsync(tapable.Callback, ...any)
	})
	_, promisable := m.(interface{ Promise(...any) *tapable.Promise })

	assert.False(t, callable)
	assert.False(t, asyncCallable)
	assert.False(t, promisable)
}
