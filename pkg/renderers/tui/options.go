package tui

import (
	"github.com/goliatone/go-formstate/pkg/logging"
	"github.com/goliatone/go-formstate/pkg/model"
)

// OutputFormat controls how the filled node is serialized.
type OutputFormat string

const (
	// OutputFormatJSON emits application/json payloads.
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatFormURLEncoded emits application/x-www-form-urlencoded payloads.
	OutputFormatFormURLEncoded OutputFormat = "form"
	// OutputFormatPrettyText emits a human-friendly text summary.
	OutputFormatPrettyText OutputFormat = "pretty"
	// OutputFormatYAML emits a YAML document.
	OutputFormatYAML OutputFormat = "yaml"
)

// ParseOutputFormat maps a configuration value to an OutputFormat.
func ParseOutputFormat(raw string) (OutputFormat, bool) {
	switch format := OutputFormat(raw); format {
	case OutputFormatJSON, OutputFormatFormURLEncoded, OutputFormatPrettyText, OutputFormatYAML:
		return format, true
	default:
		return "", false
	}
}

// Theme captures optional formatting hints the driver can apply when printing
// messages. Keep minimal to avoid coupling renderer logic to ANSI specifics.
type Theme struct {
	PromptPrefix string
	InfoPrefix   string
	ErrorPrefix  string
}

// Field carries prompt hints for one property. Hints are looked up by
// "<type>.<property>" first, then by the bare property name.
type Field struct {
	Label    string
	Help     string
	Secret   bool
	TextArea bool
	// Options turns the prompt into a select (or a multi-select for
	// []string values).
	Options []string
	// Skip leaves the property untouched.
	Skip bool
}

// ItemFactory builds a new element for a has-many relation.
type ItemFactory func() *model.Node

// SubmitTransformer mutates collected values before serialization.
type SubmitTransformer func(map[string]any) (map[string]any, error)

// Option configures the TUI renderer.
type Option func(*Renderer)

// WithPromptDriver overrides the prompt driver used by the renderer.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Renderer) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithOutputFormat selects the output serialization format.
func WithOutputFormat(format OutputFormat) Option {
	return func(r *Renderer) {
		if format != "" {
			r.outputFormat = format
		}
	}
}

// WithField registers prompt hints under key.
func WithField(key string, field Field) Option {
	return func(r *Renderer) {
		if key == "" {
			return
		}
		if r.fields == nil {
			r.fields = make(map[string]Field)
		}
		r.fields[key] = field
	}
}

// WithItemFactory lets the renderer offer to append new elements to the
// has-many relation key ("<type>.<property>" or the bare property).
func WithItemFactory(key string, factory ItemFactory) Option {
	return func(r *Renderer) {
		if key == "" || factory == nil {
			return
		}
		if r.factories == nil {
			r.factories = make(map[string]ItemFactory)
		}
		r.factories[key] = factory
	}
}

// WithSubmitTransformer allows callers to mutate collected values prior to
// serialization.
func WithSubmitTransformer(fn SubmitTransformer) Option {
	return func(r *Renderer) {
		r.submitTransformer = fn
	}
}

// WithIncludeErrors serializes error stores next to the values.
func WithIncludeErrors(include bool) Option {
	return func(r *Renderer) {
		r.includeErrors = include
	}
}

// WithSanitizedInput strips markup from every non-secret text answer
// before it reaches the form.
func WithSanitizedInput(enabled bool) Option {
	return func(r *Renderer) {
		r.sanitize = enabled
	}
}

// WithTheme applies optional message prefixes.
func WithTheme(theme Theme) Option {
	return func(r *Renderer) {
		r.theme = theme
	}
}

// WithLogger sets the logger used for debug traces.
func WithLogger(logger logging.Logger) Option {
	return func(r *Renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}
