// Package logger configures the zerolog logger shared across the CLI and
// server.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Options controls logger construction.
type Options struct {
	// Level is a zerolog level name: debug, info, warn, error. Unparseable
	// values fall back to info.
	Level string
	// Format is "console" for human-readable output or "json".
	Format string
	// Out overrides the output writer; defaults to stderr.
	Out io.Writer
}

// New builds a logger from options.
func New(opts Options) zerolog.Logger {
	level, err := zerolog.ParseLevel(opts.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	out := opts.Out
	if out == nil {
		out = os.Stderr
	}
	if opts.Format != "json" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}
