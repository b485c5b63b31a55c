// Package logging builds the zerolog logger shared by every command: a
// human-readable console writer plus an optional append-only log file.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// DefaultFile is created in the working directory unless --log-file says
// otherwise.
const DefaultFile = "cah_conversion.log"

type Options struct {
	// zerolog level name, info when empty or unknown
	Level string
	// empty disables file logging
	File string
	// defaults to os.Stderr
	Console io.Writer
	NoColor bool
}

// New returns the logger and a function closing the log file, if any.
func New(opts Options) (zerolog.Logger, func() error, error) {
	noop := func() error { return nil }

	lvl, err := zerolog.ParseLevel(opts.Level)
	if err != nil || opts.Level == "" {
		lvl = zerolog.InfoLevel
	}

	console := opts.Console
	if console == nil {
		console = os.Stderr
	}

	writers := []io.Writer{
		zerolog.ConsoleWriter{
			Out:        console,
			TimeFormat: time.RFC3339,
			NoColor:    opts.NoColor,
		},
	}

	closeFn := noop
	if opts.File != "" {
		f, err := os.OpenFile(opts.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return zerolog.Nop(), noop, err
		}
		writers = append(writers, f)
		closeFn = f.Close
	}

	logger := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(lvl).
		With().
		Timestamp().
		Logger()
	return logger, closeFn, nil
}

func Component(logger zerolog.Logger, name string) zerolog.Logger {
	return logger.With().Str("component", name).Logger()
}
