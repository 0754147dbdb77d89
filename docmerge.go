package docmerge

import (
	"context"
	"fmt"

	"github.com/goliatone/go-docmerge/pkg/annotate"
	"github.com/goliatone/go-docmerge/pkg/orchestrator"
	"github.com/goliatone/go-docmerge/pkg/records"
	"github.com/goliatone/go-docmerge/pkg/render"
)

// Config is the YAML job description; alias exported via the root package for
// convenience.
type Config = orchestrator.Config

// Request names the inputs of one merge pass.
type Request = orchestrator.Request

// Result carries the outcome of a completed pass.
type Result = orchestrator.Result

// Stats counts interpolation sites and how many resolved.
type Stats = annotate.Stats

// Record is one flat dotted-path/value pair from a data file.
type Record = records.Record

// ParseConfig decodes a YAML job description.
func ParseConfig(data []byte) (Config, error) {
	return orchestrator.ParseConfig(data)
}

// LoadConfig reads and decodes a YAML job description from disk.
func LoadConfig(path string) (Config, error) {
	return orchestrator.LoadConfig(path)
}

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module for callers that want to configure and reuse a pipeline.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// Generate runs one merge pass with default wiring. It is the simplest entry
// point for callers that just want annotated markup.
func Generate(ctx context.Context, req Request, options ...orchestrator.Option) (Result, error) {
	return orchestrator.New(options...).Run(ctx, req)
}

// GenerateFromConfig builds a renderer honouring the job's locale and
// currency conventions and runs the pass it describes. A job without its own
// template falls back to the bundled letter template.
func GenerateFromConfig(ctx context.Context, cfg Config, options ...orchestrator.Option) (Result, error) {
	var renderOpts []render.Option
	if cfg.Locale != "" {
		renderOpts = append(renderOpts, render.WithLocale(cfg.Locale))
	}
	if cfg.Currency != "" {
		renderOpts = append(renderOpts, render.WithCurrency(cfg.Currency))
	}

	renderer, err := render.New(renderOpts...)
	if err != nil {
		return Result{}, fmt.Errorf("docmerge: build renderer: %w", err)
	}

	req := cfg.Request()
	if req.TemplatePath == "" {
		req.Template = DefaultTemplate()
	}

	opts := append([]orchestrator.Option{orchestrator.WithRenderer(renderer)}, options...)
	return orchestrator.New(opts...).Run(ctx, req)
}
