package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rickchristie/tapable"
	"github.com/rickchristie/tapable/loggers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func newTestSession(trace bool) (*Session, *bytes.Buffer) {
	var buf bytes.Buffer
	s := NewSession(&buf, SessionOptions{
		Trace:   trace,
		Timeout: time.Second,
		IDs:     loggers.SequentialIDs("inv"),
	})
	return s, &buf
}

func execAll(t *testing.T, s *Session, lines ...string) {
	t.Helper()
	for _, line := range lines {
		require.NoError(t, s.Exec(context.Background(), line), line)
	}
}

func TestSession_SyncBail(t *testing.T) {
	s, buf := newTestSession(false)

	execAll(t, s,
		"hook resolve syncbail request",
		"tap resolve Cache",
		"tap resolve Resolver return=found",
		"tap resolve Alias stage=-5",
	)
	buf.Reset()

	execAll(t, s, "call resolve ./a")

	assert.Equal(t, strings.Join([]string{
		"  Alias ran args=[./a]",
		"  Cache ran args=[./a]",
		"  Resolver ran args=[./a]",
		"result: found",
		"",
	}, "\n"), buf.String())
}

func TestSession_WaterfallAppends(t *testing.T) {
	s, buf := newTestSession(false)

	execAll(t, s,
		"hook transform serieswaterfall value",
		"tap transform Upper kind=async append=!",
		"tap transform Tail kind=promise append=?",
	)
	buf.Reset()

	execAll(t, s, "promise transform hi")

	assert.Contains(t, buf.String(), "result: hi!?")
}

func TestSession_LoopWithRepeat(t *testing.T) {
	s, buf := newTestSession(false)

	execAll(t, s,
		"hook optimize syncloop",
		"tap optimize Shrink return=again repeat=2",
	)
	buf.Reset()

	execAll(t, s, "call optimize")

	assert.Equal(t, 3, strings.Count(buf.String(), "Shrink ran"))
	assert.Contains(t, buf.String(), "result: <nil>")
}

func TestSession_CallReportsTapFailure(t *testing.T) {
	s, buf := newTestSession(false)
	execAll(t, s,
		"hook build sync",
		"tap build Broken fail=boom",
	)
	buf.Reset()

	require.NoError(t, s.Exec(context.Background(), "call build"))
	assert.Contains(t, buf.String(), "error: boom")
}

func TestSession_CallOnAsyncHookFails(t *testing.T) {
	s, buf := newTestSession(false)
	execAll(t, s, "hook emit series")
	buf.Reset()

	err := s.Exec(context.Background(), "call emit")

	assert.ErrorIs(t, err, tapable.ErrUnsupported)
	assert.ErrorContains(t, err, `call "emit"`)
	assert.Empty(t, buf.String())
}

func TestSession_CallAsyncReportsFailure(t *testing.T) {
	s, buf := newTestSession(false)

	execAll(t, s,
		"hook emit parallel assets",
		"tap emit Writer kind=async fail=disk-full delay=5ms",
		"tap emit Stats",
		"callasync emit bundle",
	)

	assert.Contains(t, buf.String(), "error: disk-full")
}

func TestSession_TraceOutput(t *testing.T) {
	s, buf := newTestSession(true)

	execAll(t, s,
		"hook build sync",
		"tap build A",
		"call build",
	)

	assert.Equal(t, strings.Join([]string{
		`created sync hook "build" args=[]`,
		"[-] build register A (sync, stage 0)",
		`tapped A on "build"`,
		"[inv-1] build call args=[]",
		"[inv-1] build tap A (sync, stage 0)",
		"  A ran args=[]",
		"[inv-1] build done",
		"result: <nil>",
		"",
	}, "\n"), buf.String())
}

func TestSession_Intercept(t *testing.T) {
	s, _ := newTestSession(false)
	execAll(t, s, "hook build sync", "intercept build")

	err := s.Exec(context.Background(), "intercept build")
	assert.ErrorContains(t, err, "already traced")
}

func TestSession_List(t *testing.T) {
	s, buf := newTestSession(false)
	execAll(t, s,
		"hook build sync compiler",
		"tap build Late stage=10",
		"tap build Early before=Late plugin=x",
	)
	buf.Reset()

	execAll(t, s, "list build")

	var dump struct {
		Name string `yaml:"name"`
		Taps []struct {
			Name string         `yaml:"name"`
			Meta map[string]any `yaml:"meta"`
		} `yaml:"taps"`
	}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &dump))
	assert.Equal(t, "build", dump.Name)
	require.Len(t, dump.Taps, 2)
	assert.Equal(t, "Early", dump.Taps[0].Name)
	assert.Equal(t, "x", dump.Taps[0].Meta["plugin"])
	assert.Equal(t, "Late", dump.Taps[1].Name)
}

func TestSession_Errors(t *testing.T) {
	s, _ := newTestSession(false)
	execAll(t, s, "hook build sync", "hook emit series")

	tests := []struct {
		line string
		want string
	}{
		{"frobnicate", "unknown command"},
		{"hook build sync", "already exists"},
		{"hook x nope", "unknown variant"},
		{"hook w syncwaterfall", "need at least one argument"},
		{"tap missing A", "no hook named"},
		{"tap build A kind=async", "not supported"},
		{"tap build A stage=early", "stage"},
		{"tap build A oops", "expected key=value"},
		{"tap build A kind=weird", "unknown tap kind"},
		{"call", "usage"},
		{"call emit", "not supported"},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			err := s.Exec(context.Background(), tt.line)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestSession_QuitAndBlank(t *testing.T) {
	s, _ := newTestSession(false)

	assert.NoError(t, s.Exec(context.Background(), "   "))
	assert.ErrorIs(t, s.Exec(context.Background(), "quit"), errQuit)
}

func TestSession_CallAsyncTimesOut(t *testing.T) {
	var buf bytes.Buffer
	s := NewSession(&buf, SessionOptions{Timeout: 20 * time.Millisecond})
	execAll(t, s,
		"hook emit series",
		"tap emit Slow kind=async delay=1s",
	)

	err := s.Exec(context.Background(), "callasync emit")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestConfigureLogger(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, configureLogger("debug", &buf))
	assert.Error(t, configureLogger("loud", &buf))
}
