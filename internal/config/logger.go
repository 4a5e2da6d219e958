package config

import (
	"io"
	"log/slog"
	"os"
)

// NewLogger builds the process logger. Production gets JSON at info level
// for log shipping; everything else gets human-readable text at debug with
// source locations.
func NewLogger(env string) *slog.Logger {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		AddSource: env == "development",
	}

	if env == "production" {
		opts.Level = slog.LevelInfo
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		opts.Level = slog.LevelDebug
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}

// NewNopLogger returns a logger that discards everything. Handy for tests
// and for components that accept a logger but run silently by default.
func NewNopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
