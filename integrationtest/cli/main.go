// Package main provides an interactive playground for building hooks, tapping them and
// watching every invocation kind run.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/rickchristie/tapable"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorBold   = "\033[1m"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr,
			"%sError: %v%s\n",
			colorRed, err, colorReset)
		os.Exit(1)
	}
}

// rootOptions holds the playground's flags.
type rootOptions struct {
	LogLevel string
	Trace    bool
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "tapable-playground",
		Short:         "Interactive hook playground",
		Long:          "Create hooks of every variant, register taps and interceptors, and invoke them from a prompt.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return configureLogger(opts.LogLevel, os.Stderr)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runREPL(cmd.Context(), opts)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "warn", "tapable log level (debug|info|warn|error)")
	cmd.PersistentFlags().BoolVar(&opts.Trace, "trace", false, "trace every hook as soon as it is created")

	return cmd
}

// configureLogger points the tapable logger at w with the given level.
func configureLogger(level string, w io.Writer) error {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	tapable.SetLogger(zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}).
		Level(lvl).
		With().Timestamp().Str("component", "tapable").
		Logger())
	return nil
}

func runREPL(ctx context.Context, opts *rootOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	rl, err := readline.New(colorCyan + "tapable> " + colorReset)
	if err != nil {
		return fmt.Errorf(
			"failed to create readline: %w", err)
	}
	defer rl.Close()

	fmt.Printf("%s%sTapable Playground%s (type 'help')\n\n",
		colorBold, colorYellow, colorReset)

	session := NewSession(rl.Stdout(), SessionOptions{Trace: opts.Trace})
	for {
		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
				fmt.Printf("%sGoodbye!%s\n", colorGreen, colorReset)
				return nil
			}
			return fmt.Errorf(
				"failed to read input: %w", err)
		}

		err = session.Exec(ctx, line)
		switch {
		case errors.Is(err, errQuit):
			fmt.Printf("%sGoodbye!%s\n", colorGreen, colorReset)
			return nil
		case err != nil:
			fmt.Fprintf(rl.Stderr(),
				"%s%v%s\n",
				colorRed, err, colorReset)
		}
	}
}
