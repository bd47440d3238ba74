// Package logging configures the process-wide zerolog logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config holds logging configuration.
type Config struct {
	Level string // trace, debug, info, warn, error, disabled
	// File receives JSON lines when set. The practice screen owns the
	// terminal, so it always logs to a file.
	File string
	// Console writes human-readable lines to Out (stderr when nil) when File
	// is empty.
	Console bool
	Out     io.Writer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Init initializes the global logger and returns a closer for its output.
func Init(cfg Config) (io.Closer, error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	var output io.Writer
	var closer io.Closer = nopCloser{}
	switch {
	case cfg.File != "":
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		output = f
		closer = f
	case cfg.Console:
		out := cfg.Out
		if out == nil {
			out = os.Stderr
		}
		output = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
	default:
		output = io.Discard
	}

	log.Logger = zerolog.New(output).With().Timestamp().Logger()
	return closer, nil
}

// WithComponent returns a logger with a component tag.
func WithComponent(component string) zerolog.Logger {
	return log.With().
		Str("component", component).
		Logger()
}
