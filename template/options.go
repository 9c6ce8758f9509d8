package template

import (
	"log/slog"

	"github.com/randalmurphal/stache/escape"
)

// TransformFunc rewrites a resolved value before it is stringified.
// value is keypath.Absent when the key did not resolve; returning
// keypath.Absent marks the placeholder missing.
type TransformFunc func(value any, key string) any

// Option configures a single render call.
type Option func(*renderConfig)

// renderConfig holds per-call settings.
type renderConfig struct {
	ignoreMissing bool
	transform     TransformFunc
	escaper       escape.Escaper
}

// WithIgnoreMissing leaves placeholders with missing values in the output
// instead of failing the render.
func WithIgnoreMissing(ignore bool) Option {
	return func(c *renderConfig) {
		c.ignoreMissing = ignore
	}
}

// WithTransform installs a transform hook. Repeated use chains the hooks in
// the order given.
func WithTransform(fn TransformFunc) Option {
	return func(c *renderConfig) {
		if fn == nil {
			return
		}
		if c.transform == nil {
			c.transform = fn
			return
		}
		c.transform = Chain(c.transform, fn)
	}
}

// WithEscaper overrides the escaper applied to {{key}} placeholders for
// this call.
func WithEscaper(e escape.Escaper) Option {
	return func(c *renderConfig) {
		if e != nil {
			c.escaper = e
		}
	}
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger sets the logger used for render diagnostics.
// By default the engine logs to slog.Default().
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithDefaultEscaper sets the escaper used when a call does not override
// it. The default is escape.HTML.
func WithDefaultEscaper(esc escape.Escaper) EngineOption {
	return func(e *Engine) {
		if esc != nil {
			e.escaper = esc
		}
	}
}

// WithDefaults sets options applied to every call before the call's own.
func WithDefaults(opts ...Option) EngineOption {
	return func(e *Engine) {
		e.defaults = append(e.defaults, opts...)
	}
}
