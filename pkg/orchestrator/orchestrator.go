// Package orchestrator sequences a full merge pass: validate the inputs,
// build the data context, render the template, and hand the annotated
// markup to output generation.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/goliatone/go-docmerge/internal/loader"
	"github.com/goliatone/go-docmerge/pkg/annotate"
	"github.com/goliatone/go-docmerge/pkg/datatree"
	"github.com/goliatone/go-docmerge/pkg/records"
	"github.com/goliatone/go-docmerge/pkg/render"
)

const (
	defaultRetryAttempts = 3
	defaultRetryBackoff  = 500 * time.Millisecond
)

// State names the stages of a merge pass. No state is re-entered except
// Validating, which may retry itself; Failed is terminal and reachable
// from any stage.
type State int

const (
	StateValidating State = iota
	StateBuildingContext
	StateRendering
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateValidating:
		return "validating"
	case StateBuildingContext:
		return "building-context"
	case StateRendering:
		return "rendering"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// FileReader is the injected file-reading capability.
type FileReader interface {
	ReadFile(ctx context.Context, path string) ([]byte, error)
}

// DirChecker is the injected directory-writability capability, consulted
// during validation when the pass names an output location.
type DirChecker interface {
	CheckDir(ctx context.Context, dir string) error
}

// DocumentRenderer converts finished markup plus a stylesheet into a
// binary document. It is an external collaborator; the orchestrator only
// hands work to it.
type DocumentRenderer interface {
	RenderDocument(ctx context.Context, markup []byte, style []byte) ([]byte, error)
}

// Option customises the orchestrator.
type Option func(*Orchestrator)

// WithFileReader injects a custom file-reading capability.
func WithFileReader(reader FileReader) Option {
	return func(o *Orchestrator) {
		o.reader = reader
	}
}

// WithDirChecker injects a custom directory-writability check.
func WithDirChecker(check DirChecker) Option {
	return func(o *Orchestrator) {
		o.dirCheck = check
	}
}

// WithDocumentRenderer injects the downstream document generator. Without
// one, the pass stops at annotated markup.
func WithDocumentRenderer(dr DocumentRenderer) Option {
	return func(o *Orchestrator) {
		o.documents = dr
	}
}

// WithRenderer injects a configured template renderer.
func WithRenderer(r *render.Renderer) Option {
	return func(o *Orchestrator) {
		o.renderer = r
	}
}

// WithRetry bounds the validation retry loop.
func WithRetry(attempts int, backoff time.Duration) Option {
	return func(o *Orchestrator) {
		if attempts > 0 {
			o.retryAttempts = attempts
		}
		if backoff >= 0 {
			o.retryBackoff = backoff
		}
	}
}

// WithLogger routes pass logging to the given logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithStrictConflicts makes structural conflicts in the data file fatal to
// the pass.
func WithStrictConflicts() Option {
	return func(o *Orchestrator) {
		o.strictConflicts = true
	}
}

// Orchestrator coordinates merge passes. It applies sensible defaults (OS
// file reader, built-in renderer) while remaining open to dependency
// injection.
type Orchestrator struct {
	reader          FileReader
	dirCheck        DirChecker
	documents       DocumentRenderer
	renderer        *render.Renderer
	logger          *slog.Logger
	retryAttempts   int
	retryBackoff    time.Duration
	strictConflicts bool
	initialiseErr   error
}

// New constructs an Orchestrator applying any provided options.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		retryAttempts: defaultRetryAttempts,
		retryBackoff:  defaultRetryBackoff,
		logger:        slog.Default(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	if o.reader == nil {
		o.reader = loader.OS{}
	}
	if o.dirCheck == nil {
		o.dirCheck = loader.OS{}
	}
	if o.renderer == nil {
		renderer, err := render.New(render.WithLogger(o.logger))
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: default renderer: %w", err)
		} else {
			o.renderer = renderer
		}
	}
	return o
}

// Request describes the inputs of one merge pass. Template and Data may be
// supplied inline, bypassing the file reader; StylePath is optional and
// only consumed when a DocumentRenderer is configured.
type Request struct {
	TemplatePath string
	DataPath     string
	StylePath    string

	// Template carries inline template content and takes precedence over
	// TemplatePath.
	Template string

	// Records carries pre-parsed records and takes precedence over
	// DataPath.
	Records []records.Record

	// Delimiter overrides the data file column delimiter.
	Delimiter rune

	// OutputPath names where the caller will write the result; its parent
	// directory is checked for writability during validation.
	OutputPath string
}

// Result is the outcome of a pass: the annotated markup, the resolution
// statistics, and the generated document when a DocumentRenderer is
// configured.
type Result struct {
	State    State
	Markup   string
	Stats    annotate.Stats
	Document []byte
}

// Run executes one merge pass. A completed pass always yields full markup,
// degraded but not aborted by bad individual fields; fatal errors identify
// the failing stage.
func (o *Orchestrator) Run(ctx context.Context, req Request) (Result, error) {
	if ctx == nil {
		return Result{State: StateFailed}, errors.New("orchestrator: context is required")
	}
	if err := o.initialiseErr; err != nil {
		return Result{State: StateFailed}, err
	}

	// Validating
	inputs, err := o.validate(ctx, req)
	if err != nil {
		return Result{State: StateFailed}, err
	}

	// BuildingContext
	recs := req.Records
	if recs == nil {
		reader := records.NewReader(
			records.WithDelimiter(req.Delimiter),
			records.WithLogger(o.logger),
		)
		recs, err = reader.ReadString(inputs.data)
		if err != nil {
			return Result{State: StateFailed}, &ProcessingError{Stage: StateBuildingContext, Err: err}
		}
	}

	builderOptions := []datatree.BuilderOption{datatree.WithBuilderLogger(o.logger)}
	if o.strictConflicts {
		builderOptions = append(builderOptions, datatree.WithStrictConflicts())
	}
	tree, err := datatree.Build(recs, builderOptions...)
	if err != nil {
		return Result{State: StateFailed}, err
	}

	// Rendering
	rendered, err := o.renderer.Render(ctx, inputs.template, tree)
	if err != nil {
		return Result{State: StateFailed}, &ProcessingError{Stage: StateRendering, Err: err}
	}

	result := Result{
		State:  StateDone,
		Markup: rendered.Markup,
		Stats:  rendered.Stats,
	}

	if o.documents != nil {
		document, err := o.documents.RenderDocument(ctx, []byte(rendered.Markup), inputs.style)
		if err != nil {
			return Result{State: StateFailed}, &ProcessingError{Stage: StateRendering, Err: err}
		}
		result.Document = document
	}

	o.logger.Info("merge pass complete",
		slog.Int("total_fields", result.Stats.TotalFields),
		slog.Int("resolved_fields", result.Stats.ResolvedFields))
	return result, nil
}

type passInputs struct {
	template string
	data     string
	style    []byte
}

// validate checks that every configured input exists and is readable,
// retrying transient read failures a bounded number of times with a fixed
// backoff before failing with ValidationError.
func (o *Orchestrator) validate(ctx context.Context, req Request) (passInputs, error) {
	var inputs passInputs
	var paths []string

	type target struct {
		path  string
		store func([]byte)
	}
	var targets []target

	if req.Template != "" {
		inputs.template = req.Template
	} else {
		if req.TemplatePath == "" {
			return inputs, &ValidationError{Attempts: 0, Err: errors.New("template input is required")}
		}
		targets = append(targets, target{req.TemplatePath, func(b []byte) { inputs.template = string(b) }})
	}

	if req.Records == nil {
		if req.DataPath == "" {
			return inputs, &ValidationError{Attempts: 0, Err: errors.New("data input is required")}
		}
		targets = append(targets, target{req.DataPath, func(b []byte) { inputs.data = string(b) }})
	}

	if req.StylePath != "" && o.documents != nil {
		targets = append(targets, target{req.StylePath, func(b []byte) { inputs.style = b }})
	}

	for _, t := range targets {
		paths = append(paths, t.path)
	}

	outputDir := ""
	if req.OutputPath != "" {
		outputDir = filepath.Dir(req.OutputPath)
		paths = append(paths, outputDir)
	}

	var lastErr error
	for attempt := 1; attempt <= o.retryAttempts; attempt++ {
		lastErr = nil
		for _, t := range targets {
			data, err := o.reader.ReadFile(ctx, t.path)
			if err != nil {
				lastErr = fmt.Errorf("read %q: %w", t.path, err)
				break
			}
			t.store(data)
		}
		if lastErr == nil && outputDir != "" {
			if err := o.dirCheck.CheckDir(ctx, outputDir); err != nil {
				lastErr = fmt.Errorf("output directory %q: %w", outputDir, err)
			}
		}
		if lastErr == nil {
			return inputs, nil
		}
		if ctx.Err() != nil {
			return inputs, ctx.Err()
		}
		if attempt < o.retryAttempts {
			o.logger.Warn("input validation failed, retrying",
				slog.Int("attempt", attempt),
				slog.String("reason", lastErr.Error()))
			select {
			case <-ctx.Done():
				return inputs, ctx.Err()
			case <-time.After(o.retryBackoff):
			}
		}
	}

	return inputs, &ValidationError{
		Paths:    paths,
		Attempts: o.retryAttempts,
		Err:      lastErr,
	}
}
