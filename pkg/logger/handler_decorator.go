package logger

import (
	"context"
	"log/slog"
)

// ContextExtractor extracts a slog attribute from context.
type ContextExtractor func(ctx context.Context) (slog.Attr, bool)

// LogHandlerDecorator adds attributes taken from the record's context.
// An extracted attribute is skipped when the record, or a With in the same
// group, already carries its key, so request_id logged explicitly by the
// error handler is not written twice.
type LogHandlerDecorator struct {
	next       slog.Handler
	extractors []ContextExtractor
	keys       map[string]struct{} // keys added through WithAttrs in the current group
}

// NewLogHandlerDecorator creates a decorated handler. Nil extractors are dropped.
func NewLogHandlerDecorator(next slog.Handler, extractors ...ContextExtractor) slog.Handler {
	clean := make([]ContextExtractor, 0, len(extractors))
	for _, ex := range extractors {
		if ex != nil {
			clean = append(clean, ex)
		}
	}
	return &LogHandlerDecorator{next: next, extractors: clean}
}

func (h *LogHandlerDecorator) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *LogHandlerDecorator) Handle(ctx context.Context, rec slog.Record) error {
	if ctx == nil || len(h.extractors) == 0 {
		return h.next.Handle(ctx, rec)
	}

	var seen map[string]struct{}
	for _, ex := range h.extractors {
		attr, ok := ex(ctx)
		if !ok || attr.Key == "" {
			continue
		}
		if seen == nil {
			seen = h.recordKeys(rec)
		}
		if _, dup := seen[attr.Key]; dup {
			continue
		}
		seen[attr.Key] = struct{}{}
		rec.AddAttrs(attr)
	}
	return h.next.Handle(ctx, rec)
}

func (h *LogHandlerDecorator) recordKeys(rec slog.Record) map[string]struct{} {
	seen := make(map[string]struct{}, len(h.keys)+rec.NumAttrs())
	for k := range h.keys {
		seen[k] = struct{}{}
	}
	rec.Attrs(func(a slog.Attr) bool {
		seen[a.Key] = struct{}{}
		return true
	})
	return seen
}

func (h *LogHandlerDecorator) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	keys := make(map[string]struct{}, len(h.keys)+len(attrs))
	for k := range h.keys {
		keys[k] = struct{}{}
	}
	for _, a := range attrs {
		keys[a.Key] = struct{}{}
	}
	return &LogHandlerDecorator{next: h.next.WithAttrs(attrs), extractors: h.extractors, keys: keys}
}

// WithGroup opens a new key scope: extracted attributes land inside the group.
func (h *LogHandlerDecorator) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return &LogHandlerDecorator{next: h.next.WithGroup(name), extractors: h.extractors}
}
