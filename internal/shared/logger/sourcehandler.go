package logger

import (
	"context"
	"log/slog"
	"runtime"
)

// sourceHandler decorates a handler so that source location is attached only
// for selected levels. The wrapped handler must be built with AddSource: false.
type sourceHandler struct {
	inner  slog.Handler
	levels map[slog.Level]bool
}

// NewConditionalSourceHandler wraps a handler to add source location for the
// given levels only, keeping low-severity logs compact.
func NewConditionalSourceHandler(inner slog.Handler, levels ...slog.Level) slog.Handler {
	m := make(map[slog.Level]bool, len(levels))
	for _, lv := range levels {
		m[lv] = true
	}
	return &sourceHandler{inner: inner, levels: m}
}

func (h *sourceHandler) Handle(ctx context.Context, r slog.Record) error {
	if h.levels[r.Level] {
		// Skip this frame plus the slog internal frame.
		var pcs [1]uintptr
		runtime.Callers(3, pcs[:])
		frames := runtime.CallersFrames(pcs[:])
		f, _ := frames.Next()

		r.AddAttrs(slog.Attr{
			Key: slog.SourceKey,
			Value: slog.AnyValue(&slog.Source{
				Function: f.Function,
				File:     f.File,
				Line:     f.Line,
			}),
		})
	}
	return h.inner.Handle(ctx, r)
}

func (h *sourceHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &sourceHandler{inner: h.inner.WithAttrs(attrs), levels: h.levels}
}

func (h *sourceHandler) WithGroup(name string) slog.Handler {
	return &sourceHandler{inner: h.inner.WithGroup(name), levels: h.levels}
}

func (h *sourceHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}
