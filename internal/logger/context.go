package logger

// context.go carries a request-scoped logger and deferred log attributes
// through the request context. Middleware installs the logger at the start
// of a request; handlers retrieve it with ContextRequestLogger and can
// attach extra attributes for the final request log line with
// ContextWithLogAttrs.

import (
	"context"
	"log/slog"
	"sync"
)

type contextKey int

const (
	requestLoggerKey contextKey = iota
	logAttrsKey
)

// logAttrHolder accumulates attributes added by handlers during a request.
// It is a pointer in the context so additions are visible to the middleware
// that writes the final request log line.
type logAttrHolder struct {
	mu    sync.Mutex
	attrs []slog.Attr
}

// ContextWithRequestLogger returns a context carrying the request-scoped
// logger and an empty attribute holder.
func ContextWithRequestLogger(ctx context.Context, l *slog.Logger) context.Context {
	ctx = context.WithValue(ctx, requestLoggerKey, l)
	return context.WithValue(ctx, logAttrsKey, &logAttrHolder{})
}

// ContextRequestLogger returns the request-scoped logger, or the default
// logger when the context has none (e.g. in tests).
func ContextRequestLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(requestLoggerKey).(*slog.Logger); ok {
		return l
	}
	return slog.Default()
}

// ContextWithLogAttrs records attributes to be included in the final
// request log line. No-op when the context has no attribute holder.
func ContextWithLogAttrs(ctx context.Context, attrs ...slog.Attr) {
	holder, ok := ctx.Value(logAttrsKey).(*logAttrHolder)
	if !ok {
		return
	}
	holder.mu.Lock()
	holder.attrs = append(holder.attrs, attrs...)
	holder.mu.Unlock()
}

// ContextLogAttrs returns the attributes recorded during the request.
func ContextLogAttrs(ctx context.Context) []slog.Attr {
	holder, ok := ctx.Value(logAttrsKey).(*logAttrHolder)
	if !ok {
		return nil
	}
	holder.mu.Lock()
	defer holder.mu.Unlock()
	return append([]slog.Attr(nil), holder.attrs...)
}
