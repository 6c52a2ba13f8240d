// Package logging builds the assistant's diagnostic logger.
//
// The console belongs to the user, so logging is off unless a level is
// configured, and records go to a file rather than stdout.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Options configures New.
type Options struct {
	Level  string // "", "debug", "info", "warn", "error"; empty disables logging
	File   string // log file path, appended to; empty means Stderr
	Format string // "text" or "json"
	Stderr io.Writer
}

// New returns a logger for opts and a close function for the underlying file.
// It falls back to a discarding logger when logging is disabled.
func New(opts Options) (*slog.Logger, func() error, error) {
	noop := func() error { return nil }

	var level slog.Level
	switch strings.ToLower(opts.Level) {
	case "":
		return slog.New(slog.DiscardHandler), noop, nil
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return nil, nil, fmt.Errorf("logging: unknown level %q", opts.Level)
	}

	var output io.Writer
	closeFn := noop
	switch opts.File {
	case "":
		output = opts.Stderr
		if output == nil {
			output = os.Stderr
		}
	case os.DevNull:
		return slog.New(slog.DiscardHandler), noop, nil
	default:
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("logging: opening %s: %w", opts.File, err)
		}
		output = f
		closeFn = f.Close
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	switch strings.ToLower(opts.Format) {
	case "", "text":
		handler = slog.NewTextHandler(output, handlerOpts)
	case "json":
		handler = slog.NewJSONHandler(output, handlerOpts)
	default:
		_ = closeFn()
		return nil, nil, fmt.Errorf("logging: unknown format %q", opts.Format)
	}

	return slog.New(handler), closeFn, nil
}
