package logging

import (
	"context"
	"log/slog"
)

// DiscardHandler is a slog.Handler that reports every level as
// disabled and keeps nothing that reaches it anyway.
type DiscardHandler struct{}

func (h DiscardHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return false
}

func (h DiscardHandler) Handle(ctx context.Context, record slog.Record) error {
	return nil
}

func (h DiscardHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return h
}

func (h DiscardHandler) WithGroup(name string) slog.Handler {
	return h
}

// Discard returns a logger that drops everything handed to it.
func Discard() *slog.Logger {
	return slog.New(DiscardHandler{})
}
