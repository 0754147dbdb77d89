// Package render evaluates a compiled template against a data context,
// producing annotated markup plus the pass's resolution statistics.
package render

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/goliatone/go-docmerge/pkg/annotate"
	"github.com/goliatone/go-docmerge/pkg/datatree"
	"github.com/goliatone/go-docmerge/pkg/format"
	"github.com/goliatone/go-docmerge/pkg/render/helpers"
	"github.com/goliatone/go-docmerge/pkg/render/template"
	"github.com/goliatone/go-docmerge/pkg/render/template/gotemplate"
)

const (
	defaultLocale   = "en"
	defaultCurrency = "USD"
)

// Option customises the renderer.
type Option func(*Renderer)

// WithEngine injects a custom template engine.
func WithEngine(engine template.TemplateRenderer) Option {
	return func(r *Renderer) {
		r.engine = engine
	}
}

// WithLocale sets the BCP 47 locale driving the formatting helpers.
func WithLocale(locale string) Option {
	return func(r *Renderer) {
		if locale != "" {
			r.locale = locale
		}
	}
}

// WithCurrency sets the default ISO 4217 code used by currency helpers
// that omit an explicit code.
func WithCurrency(code string) Option {
	return func(r *Renderer) {
		if code != "" {
			r.currency = code
		}
	}
}

// WithLogger routes helper warnings to the given logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// Result is one completed render pass: the annotated markup and the
// statistics accumulated from the markers actually emitted.
type Result struct {
	Markup string
	Stats  annotate.Stats
}

// Renderer compiles templates once and evaluates them against data
// contexts. A Renderer is safe for concurrent passes: each pass owns its
// state and statistics accumulator.
type Renderer struct {
	engine    template.TemplateRenderer
	formatter *format.Formatter
	locale    string
	currency  string
	logger    *slog.Logger
}

// New constructs a Renderer applying any options. Missing dependencies get
// the built-in pongo2 engine and defaults.
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		locale:   defaultLocale,
		currency: defaultCurrency,
		logger:   slog.Default(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.engine == nil {
		engine, err := gotemplate.New()
		if err != nil {
			return nil, fmt.Errorf("render: default engine: %w", err)
		}
		r.engine = engine
	}
	r.formatter = format.New(r.locale)
	return r, nil
}

// Compile parses template content for repeated execution.
func (r *Renderer) Compile(content string) (template.Template, error) {
	return r.engine.CompileString(content)
}

// CompileFile parses a template loaded through the engine's loaders.
func (r *Renderer) CompileFile(name string) (template.Template, error) {
	return r.engine.CompileFile(name)
}

// Render compiles and executes templateContent against tree.
func (r *Renderer) Render(ctx context.Context, templateContent string, tree datatree.Node) (Result, error) {
	tmpl, err := r.Compile(templateContent)
	if err != nil {
		return Result{}, err
	}
	return r.RenderTemplate(ctx, tmpl, tree)
}

// RenderTemplate executes an already-compiled template against tree. The
// tree is read-only for the duration of the pass.
func (r *Renderer) RenderTemplate(ctx context.Context, tmpl template.Template, tree datatree.Node) (Result, error) {
	if ctx == nil {
		return Result{}, errors.New("render: context is required")
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if tmpl == nil {
		return Result{}, errors.New("render: template is required")
	}
	if tree == nil {
		tree = datatree.NewObject()
	}

	stats := &annotate.Stats{}
	state := &helpers.State{
		Tree:      tree,
		Stats:     stats,
		Formatter: r.formatter,
		Logger:    r.logger,
		Currency:  r.currency,
	}

	data := map[string]any{helpers.StateKey: state}
	for name, fn := range helpers.RawFuncs(state) {
		data[name] = fn
	}

	markup, err := tmpl.Execute(data)
	if err != nil {
		return Result{}, fmt.Errorf("render: execute template: %w", err)
	}
	return Result{Markup: markup, Stats: *stats}, nil
}
