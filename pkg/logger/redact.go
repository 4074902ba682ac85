package logger

import (
	"context"
	"log/slog"
	"strings"
)

// Redacted replaces the value of a masked attribute.
const Redacted = "[redacted]"

// Header names vendors use to carry credentials.
var credentialKeys = []string{"authorization", "x-api-key", "x-goog-api-key"}

// redactor masks credential attributes before handing records to next.
type redactor struct {
	next slog.Handler
	keys map[string]bool
}

func newRedactor(next slog.Handler, extra []string) *redactor {
	keys := make(map[string]bool, len(credentialKeys)+len(extra))
	for _, k := range credentialKeys {
		keys[k] = true
	}
	for _, k := range extra {
		keys[strings.ToLower(k)] = true
	}
	return &redactor{next: next, keys: keys}
}

func (r *redactor) masked(key string) bool {
	key = strings.ToLower(key)
	return r.keys[key] || key == "api_key" || strings.HasSuffix(key, ".api_key") || strings.HasSuffix(key, "_api_key")
}

func (r *redactor) scrub(a slog.Attr) slog.Attr {
	if r.masked(a.Key) {
		return slog.String(a.Key, Redacted)
	}
	if a.Value.Kind() != slog.KindGroup {
		return a
	}

	group := a.Value.Group()
	out := make([]slog.Attr, len(group))
	for i, ga := range group {
		out[i] = r.scrub(ga)
	}
	return slog.Attr{Key: a.Key, Value: slog.GroupValue(out...)}
}

func (r *redactor) Enabled(ctx context.Context, level slog.Level) bool {
	return r.next.Enabled(ctx, level)
}

func (r *redactor) Handle(ctx context.Context, rec slog.Record) error {
	clean := slog.NewRecord(rec.Time, rec.Level, rec.Message, rec.PC)
	rec.Attrs(func(a slog.Attr) bool {
		clean.AddAttrs(r.scrub(a))
		return true
	})
	return r.next.Handle(ctx, clean)
}

func (r *redactor) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		out[i] = r.scrub(a)
	}
	return &redactor{next: r.next.WithAttrs(out), keys: r.keys}
}

func (r *redactor) WithGroup(name string) slog.Handler {
	return &redactor{next: r.next.WithGroup(name), keys: r.keys}
}
