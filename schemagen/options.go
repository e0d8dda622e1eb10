package schemagen

import "time"

// DefaultDateFormat is the layout of generated date-like examples.
const DefaultDateFormat = "2006-01-02 15:04:05"

// Option configures a Generator.
// Options are applied when creating a new Generator with New().
type Option func(*Generator)

// WithLogger sets the logger. The default discards all output.
func WithLogger(l Logger) Option {
	return func(g *Generator) {
		if l == nil {
			l = NopLogger{}
		}
		g.logger = l
	}
}

// WithClock sets the time source of date-like examples. The default is
// time.Now.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		if now != nil {
			g.now = now
		}
	}
}

// WithDateFormat sets the layout of date-like examples. The default is
// DefaultDateFormat.
func WithDateFormat(layout string) Option {
	return func(g *Generator) {
		if layout != "" {
			g.dateFormat = layout
		}
	}
}

// WithStrictAnnotations controls how a malformed @example or @enum payload
// is handled. By default the annotation is skipped and a warning logged;
// when strict, generation fails with a *oaserrors.AnnotationError.
func WithStrictAnnotations(strict bool) Option {
	return func(g *Generator) {
		g.strict = strict
	}
}
