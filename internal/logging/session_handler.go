package logging

import (
	"context"
	"log/slog"
)

// FieldSessionID is the standardized structured logging key for playback session identifiers.
const FieldSessionID = "session_id"

// sessionHandler wraps another handler to stamp every record with the
// session and disc it belongs to.
type sessionHandler struct {
	base  slog.Handler
	attrs []slog.Attr
}

func newSessionHandler(base slog.Handler, sessionID, discID string) slog.Handler {
	if base == nil {
		return NoopHandler{}
	}
	attrs := []slog.Attr{slog.String(FieldSessionID, sessionID)}
	if discID != "" {
		attrs = append(attrs, slog.String(FieldDiscID, discID))
	}
	return &sessionHandler{base: base, attrs: attrs}
}

func (h *sessionHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.base.Enabled(ctx, level)
}

func (h *sessionHandler) Handle(ctx context.Context, record slog.Record) error {
	record.AddAttrs(h.attrs...)
	return h.base.Handle(ctx, record)
}

func (h *sessionHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &sessionHandler{base: h.base.WithAttrs(attrs), attrs: h.attrs}
}

func (h *sessionHandler) WithGroup(name string) slog.Handler {
	return &sessionHandler{base: h.base.WithGroup(name), attrs: h.attrs}
}

// WithSession returns a logger whose records all carry session_id and,
// when discID is set, disc_id.
func WithSession(logger *slog.Logger, sessionID, discID string) *slog.Logger {
	if logger == nil {
		return NewNop()
	}
	return slog.New(newSessionHandler(logger.Handler(), sessionID, discID))
}
