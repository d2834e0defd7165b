package orchestrator

import (
	"log/slog"
	"time"

	"github.com/goliatone/go-kintone-schema/pkg/category"
	"github.com/goliatone/go-kintone-schema/pkg/extract"
	"github.com/goliatone/go-kintone-schema/pkg/relations"
	"github.com/goliatone/go-kintone-schema/pkg/render"
)

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithLogger sets the logger handed to every pipeline stage.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithExtractOptions forwards options to every Extract call.
func WithExtractOptions(options ...extract.Option) Option {
	return func(o *Orchestrator) {
		o.extractOptions = append(o.extractOptions, options...)
	}
}

// WithRelationOptions forwards options to relationship inference.
func WithRelationOptions(options ...relations.Option) Option {
	return func(o *Orchestrator) {
		o.relationOptions = append(o.relationOptions, options...)
	}
}

// WithRules replaces the default classification rules.
func WithRules(rules ...category.Rule) Option {
	return func(o *Orchestrator) {
		o.rules = append([]category.Rule(nil), rules...)
		o.rulesSet = true
	}
}

// WithRenderers injects a renderer registry. Without it the HTML and
// Markdown renderers are registered.
func WithRenderers(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.renderers = registry
	}
}

// WithClock overrides the time source used for GeneratedAt.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		if now != nil {
			o.now = now
		}
	}
}
