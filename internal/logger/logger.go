package logger

import (
	"log/slog"
	"os"
)

// New creates a preconfigured slog.Logger. Diagnostics go to stderr so the
// interactive shell keeps stdout to itself.
func New() *slog.Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})
	return slog.New(handler)
}
