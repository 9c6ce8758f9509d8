package template

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/randalmurphal/stache/escape"
	"github.com/randalmurphal/stache/keypath"
	"github.com/randalmurphal/stache/schema"
)

// Engine renders templates. It holds only read-only settings, so one Engine
// may serve concurrent renders.
type Engine struct {
	logger   *slog.Logger
	escaper  escape.Escaper
	defaults []Option
}

// NewEngine creates an engine that HTML-escapes {{key}} placeholders.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{escaper: escape.HTML}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) log() *slog.Logger {
	if e.logger != nil {
		return e.logger
	}
	return slog.Default()
}

// Render validates data with s and substitutes it into tmpl.
// Validation issues are returned as *schema.ValidationError before any
// substitution happens. A nil schema uses data as is.
func (e *Engine) Render(ctx context.Context, tmpl string, s schema.Schema, data any, opts ...Option) (string, error) {
	validated, err := schema.Validate(ctx, s, data)
	if err != nil {
		e.log().Debug("template data rejected", slog.Any("error", err))
		return "", err
	}
	return e.Execute(tmpl, validated, opts...)
}

// RenderAny is Render for a template of unknown type. Anything other than
// a string fails with *TypeMismatchError before the schema runs.
func (e *Engine) RenderAny(ctx context.Context, tmpl any, s schema.Schema, data any, opts ...Option) (string, error) {
	str, ok := tmpl.(string)
	if !ok {
		return "", &TypeMismatchError{Got: fmt.Sprintf("%T", tmpl)}
	}
	return e.Render(ctx, str, s, data, opts...)
}

// Execute substitutes already-validated data into tmpl. It does not block.
func (e *Engine) Execute(tmpl string, data any, opts ...Option) (string, error) {
	cfg := renderConfig{escaper: e.escaper}
	for _, opt := range e.defaults {
		opt(&cfg)
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	start := time.Now()
	var substituted, kept int
	out, err := substitute(tmpl, func(p Placeholder) (string, error) {
		value := keypath.Lookup(data, p.Key)
		if cfg.transform != nil {
			value = cfg.transform(value, p.Key)
		}
		if keypath.IsAbsent(value) {
			if cfg.ignoreMissing {
				kept++
				return p.Text, nil
			}
			return "", &MissingValueError{Key: p.Key}
		}

		substituted++
		text := Stringify(value)
		if p.Class == Escaped {
			text = cfg.escaper(text)
		}
		return text, nil
	})
	if err != nil {
		e.log().Debug("template render failed", slog.Any("error", err))
		return "", err
	}

	e.log().Debug("template rendered",
		slog.Int("substituted", substituted),
		slog.Int("kept", kept),
		slog.Duration("elapsed", time.Since(start)))
	return out, nil
}

// Placeholders lists the placeholders of tmpl in template order, using the
// same precedence as rendering: an escaped placeholder is never also
// reported as a raw one.
func Placeholders(tmpl string) []Placeholder {
	var found []Placeholder
	_, _ = substitute(tmpl, func(p Placeholder) (string, error) {
		found = append(found, p)
		return p.Text, nil
	})
	sort.SliceStable(found, func(i, j int) bool {
		return found[i].Start < found[j].Start
	})
	return found
}

// Keys returns the distinct placeholder keys of tmpl in first-seen order.
func Keys(tmpl string) []string {
	seen := make(map[string]bool)
	var keys []string
	for _, p := range Placeholders(tmpl) {
		if !seen[p.Key] {
			seen[p.Key] = true
			keys = append(keys, p.Key)
		}
	}
	return keys
}

// MissingKeys returns the keys of tmpl that do not resolve against data,
// in first-seen order. It reports every missing key, unlike Execute which
// stops at the first.
func MissingKeys(tmpl string, data any) []string {
	var missing []string
	for _, key := range Keys(tmpl) {
		if keypath.IsAbsent(keypath.Lookup(data, key)) {
			missing = append(missing, key)
		}
	}
	return missing
}

var defaultEngine = NewEngine()

// Render validates and renders with the default engine.
func Render(ctx context.Context, tmpl string, s schema.Schema, data any, opts ...Option) (string, error) {
	return defaultEngine.Render(ctx, tmpl, s, data, opts...)
}

// RenderAny renders a template of unknown type with the default engine.
func RenderAny(ctx context.Context, tmpl any, s schema.Schema, data any, opts ...Option) (string, error) {
	return defaultEngine.RenderAny(ctx, tmpl, s, data, opts...)
}

// Execute renders already-validated data with the default engine.
func Execute(tmpl string, data any, opts ...Option) (string, error) {
	return defaultEngine.Execute(tmpl, data, opts...)
}
