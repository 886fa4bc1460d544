package logger

import (
	"context"
	"log/slog"
	"testing"
)

func TestNewReturnsLogger(t *testing.T) {
	l := New()
	if l == nil {
		t.Fatal("expected logger instance")
	}
	ctx := context.Background()
	if !l.Enabled(ctx, slog.LevelInfo) {
		t.Fatal("expected info level to be enabled")
	}
	if l.Enabled(ctx, slog.LevelDebug) {
		t.Fatal("expected debug level to be disabled")
	}
}
