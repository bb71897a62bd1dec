// Package observability carries per-pass logging context through context.Context.
package observability

import (
	"context"
	"log/slog"

	"github.com/Mshivam2409/rustduino/internal/logfields"
)

// LogContext holds the identifiers attached to every log line of a pass.
type LogContext struct {
	PassID  string
	Sidebar string
	Stage   string
	Logger  *slog.Logger
}

// Attrs returns the non-empty identifiers as log attributes.
func (lc LogContext) Attrs() []slog.Attr {
	var attrs []slog.Attr
	if lc.PassID != "" {
		attrs = append(attrs, slog.String("pass.id", lc.PassID))
	}
	if lc.Sidebar != "" {
		attrs = append(attrs, logfields.Sidebar(lc.Sidebar))
	}
	if lc.Stage != "" {
		attrs = append(attrs, logfields.Stage(lc.Stage))
	}
	return attrs
}

type ctxKey struct{}

// GetContext returns the log context stored in ctx, or the zero value.
func GetContext(ctx context.Context) LogContext {
	lc, _ := ctx.Value(ctxKey{}).(LogContext)
	return lc
}

func update(ctx context.Context, fn func(*LogContext)) context.Context {
	lc := GetContext(ctx)
	fn(&lc)
	return context.WithValue(ctx, ctxKey{}, lc)
}

func WithPassID(ctx context.Context, id string) context.Context {
	return update(ctx, func(lc *LogContext) { lc.PassID = id })
}

func WithSidebar(ctx context.Context, name string) context.Context {
	return update(ctx, func(lc *LogContext) { lc.Sidebar = name })
}

// WithStage names the pipeline stage (validate, merge, commit, render).
func WithStage(ctx context.Context, stage string) context.Context {
	return update(ctx, func(lc *LogContext) { lc.Stage = stage })
}

// WithLogger routes context logging to l instead of slog.Default().
func WithLogger(ctx context.Context, l *slog.Logger) context.Context {
	return update(ctx, func(lc *LogContext) { lc.Logger = l })
}

func log(ctx context.Context, level slog.Level, msg string, attrs []slog.Attr) {
	lc := GetContext(ctx)
	logger := lc.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if !logger.Enabled(ctx, level) {
		return
	}
	logger.LogAttrs(ctx, level, msg, append(lc.Attrs(), attrs...)...)
}

func DebugContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	log(ctx, slog.LevelDebug, msg, attrs)
}

func InfoContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	log(ctx, slog.LevelInfo, msg, attrs)
}

func WarnContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	log(ctx, slog.LevelWarn, msg, attrs)
}

func ErrorContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	log(ctx, slog.LevelError, msg, attrs)
}
