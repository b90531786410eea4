// Package logger provides slog factories used across the module.
package logger

import (
	"io"
	"log/slog"
	"os"
)

// New creates a JSON-formatted logger writing to stdout at info level.
func New() *slog.Logger {
	return NewWithLevel(slog.LevelInfo)
}

// NewWithLevel creates a JSON-formatted logger writing to stdout at the
// given level.
func NewWithLevel(level slog.Leveler) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewNope creates a no-op logger that discards all output.
// Use this as a default when logging is not configured.
func NewNope() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
