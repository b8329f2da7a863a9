package logger

import (
	"context"
	"log/slog"
)

// contextKey is an unexported type for context keys defined by this package,
// preventing collisions with keys defined elsewhere.
type contextKey int

// loggerKey is the context key under which a request-scoped logger is stored.
const loggerKey contextKey = iota

// WithLogger returns a copy of ctx carrying the provided logger.
// Handlers and middleware use this to propagate a request-scoped logger
// (for example one annotated with a trace ID) to downstream code.
func WithLogger(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, log)
}

// FromContext retrieves the logger stored in ctx, if any.
// The second return value reports whether a logger was present.
func FromContext(ctx context.Context) (*slog.Logger, bool) {
	log, ok := ctx.Value(loggerKey).(*slog.Logger)
	return log, ok
}

// FromContextOrDefault retrieves the logger stored in ctx, falling back to
// the provided default when the context carries none. If the default is also
// nil, the process-wide slog.Default() is returned, so callers always get a
// usable logger.
func FromContextOrDefault(ctx context.Context, def *slog.Logger) *slog.Logger {
	if log, ok := FromContext(ctx); ok && log != nil {
		return log
	}
	if def != nil {
		return def
	}
	return slog.Default()
}
