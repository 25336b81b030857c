package tapable

import (
	"os"
	"sync"

	"github.com/rs/zerolog"
)

var (
	logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).
		Level(zerolog.WarnLevel).
		With().Timestamp().Str("component", "tapable").
		Logger()

	contextDeprecation sync.Once
)

// SetLogger replaces the package logger. Hooks log compiles at debug level and deprecation
// notices at warn level.
func SetLogger(l zerolog.Logger) {
	logger = l
}

// Logger returns the package logger.
func Logger() *zerolog.Logger {
	return &logger
}

// warnContextDeprecated logs, once per process, that the context option no longer does
// anything.
func warnContextDeprecated(hook, tap string) {
	contextDeprecation.Do(func() {
		logger.Warn().
			Str("hook", hook).
			Str("tap", tap).
			Msg(`tap option "context" is deprecated and has no effect`)
	})
}
