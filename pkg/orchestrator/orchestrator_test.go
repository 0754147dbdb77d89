package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/goliatone/go-docmerge/internal/loader"
	"github.com/goliatone/go-docmerge/pkg/records"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testOrchestrator(t *testing.T, options ...Option) *Orchestrator {
	t.Helper()
	options = append(options, WithLogger(quietLogger()))
	return New(options...)
}

func TestRun_FullPass(t *testing.T) {
	files := fstest.MapFS{
		"letter.tpl": {Data: []byte(`Hello {% field "name" %}!`)},
		"data.txt":   {Data: []byte("name;World\n")},
	}
	o := testOrchestrator(t, WithFileReader(loader.FS{Files: files}))

	result, err := o.Run(context.Background(), Request{
		TemplatePath: "letter.tpl",
		DataPath:     "data.txt",
	})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if result.State != StateDone {
		t.Fatalf("unexpected terminal state %s", result.State)
	}
	if !strings.Contains(result.Markup, `class="imported-value"`) {
		t.Fatalf("markup not annotated:\n%s", result.Markup)
	}
	if result.Stats.TotalFields != 1 || result.Stats.ResolvedFields != 1 {
		t.Fatalf("unexpected stats %+v", result.Stats)
	}
}

func TestRun_InlineInputs(t *testing.T) {
	o := testOrchestrator(t)
	result, err := o.Run(context.Background(), Request{
		Template: `{% field "missing" %}`,
		Records:  nil,
		DataPath: "", // no data input at all
	})
	if err == nil {
		t.Fatalf("expected missing data input to fail, got %+v", result)
	}
	var valErr *ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("expected *ValidationError, got %T: %v", err, err)
	}
	if got := valErr.Error(); got != "orchestrator: validation failed: data input is required" {
		t.Fatalf("unexpected precondition message %q", got)
	}
}

func TestRun_OutputDirChecked(t *testing.T) {
	dir := t.TempDir()
	o := testOrchestrator(t, WithRetry(1, 0))

	req := Request{
		Template:   `{% field "name" %}`,
		Records:    []records.Record{},
		OutputPath: filepath.Join(dir, "out.html"),
	}
	if _, err := o.Run(context.Background(), req); err != nil {
		t.Fatalf("writable output dir should validate: %v", err)
	}

	req.OutputPath = filepath.Join(dir, "no-such-subdir", "out.html")
	_, err := o.Run(context.Background(), req)
	var valErr *ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("expected *ValidationError, got %T: %v", err, err)
	}
	if len(valErr.Paths) == 0 || valErr.Paths[len(valErr.Paths)-1] != filepath.Join(dir, "no-such-subdir") {
		t.Fatalf("validation error should carry the output directory: %+v", valErr.Paths)
	}
}

func TestRun_ValidationRetriesThenFails(t *testing.T) {
	reader := &flakyReader{failures: 100}
	o := testOrchestrator(t,
		WithFileReader(reader),
		WithRetry(3, time.Millisecond))

	_, err := o.Run(context.Background(), Request{
		TemplatePath: "letter.tpl",
		DataPath:     "data.txt",
	})
	var valErr *ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("expected *ValidationError, got %T: %v", err, err)
	}
	if valErr.Attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", valErr.Attempts)
	}
	if len(valErr.Paths) == 0 || valErr.Paths[0] != "letter.tpl" {
		t.Fatalf("validation error should carry attempted paths: %+v", valErr.Paths)
	}
	if reader.calls != 3 {
		t.Fatalf("expected 3 read attempts, got %d", reader.calls)
	}
}

func TestRun_ValidationRecoversOnRetry(t *testing.T) {
	reader := &flakyReader{
		failures: 1,
		files: map[string][]byte{
			"letter.tpl": []byte("static"),
			"data.txt":   []byte("name;x\n"),
		},
	}
	o := testOrchestrator(t,
		WithFileReader(reader),
		WithRetry(3, time.Millisecond))

	result, err := o.Run(context.Background(), Request{
		TemplatePath: "letter.tpl",
		DataPath:     "data.txt",
	})
	if err != nil {
		t.Fatalf("expected recovery on retry, got %v", err)
	}
	if result.State != StateDone || result.Markup != "static" {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestRun_DocumentHandoff(t *testing.T) {
	files := fstest.MapFS{
		"letter.tpl": {Data: []byte(`x`)},
		"data.txt":   {Data: []byte("name;x\n")},
		"style.css":  {Data: []byte("body{}")},
	}
	docs := &captureDocuments{output: []byte("%PDF")}
	o := testOrchestrator(t,
		WithFileReader(loader.FS{Files: files}),
		WithDocumentRenderer(docs))

	result, err := o.Run(context.Background(), Request{
		TemplatePath: "letter.tpl",
		DataPath:     "data.txt",
		StylePath:    "style.css",
	})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if string(result.Document) != "%PDF" {
		t.Fatalf("document handoff broken: %q", result.Document)
	}
	if string(docs.style) != "body{}" {
		t.Fatalf("stylesheet not forwarded: %q", docs.style)
	}
}

func TestRun_RendererFailureWrapsProcessingError(t *testing.T) {
	o := testOrchestrator(t)
	_, err := o.Run(context.Background(), Request{
		Template: `{% iterate %}broken`,
		Records:  []records.Record{},
	})
	var procErr *ProcessingError
	if !errors.As(err, &procErr) {
		t.Fatalf("expected *ProcessingError, got %T: %v", err, err)
	}
	if procErr.Stage != StateRendering {
		t.Fatalf("unexpected stage %s", procErr.Stage)
	}
}

func TestStateString(t *testing.T) {
	states := map[State]string{
		StateValidating:      "validating",
		StateBuildingContext: "building-context",
		StateRendering:       "rendering",
		StateDone:            "done",
		StateFailed:          "failed",
	}
	for state, want := range states {
		if got := state.String(); got != want {
			t.Fatalf("State(%d).String() = %q, want %q", int(state), got, want)
		}
	}
}

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig([]byte(
		"template: letter.tpl\ndata: data.txt\nlocale: de\ncurrency: EUR\ndelimiter: \";\"\n"))
	if err != nil {
		t.Fatalf("ParseConfig returned error: %v", err)
	}
	if cfg.Template != "letter.tpl" || cfg.Locale != "de" || cfg.Currency != "EUR" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.DelimiterRune() != ';' {
		t.Fatalf("unexpected delimiter %q", cfg.DelimiterRune())
	}

	req := cfg.Request()
	if req.TemplatePath != "letter.tpl" || req.DataPath != "data.txt" || req.Delimiter != ';' {
		t.Fatalf("unexpected request %+v", req)
	}

	if _, err := ParseConfig([]byte("delimiter: \"ab\"\n")); err == nil {
		t.Fatalf("multi-character delimiter should be rejected")
	}
	if _, err := ParseConfig([]byte(":\tnot yaml")); err == nil {
		t.Fatalf("malformed yaml should be rejected")
	}
}

// flakyReader fails its first N reads, then serves files.
type flakyReader struct {
	failures int
	calls    int
	files    map[string][]byte
}

func (r *flakyReader) ReadFile(_ context.Context, path string) ([]byte, error) {
	r.calls++
	if r.calls <= r.failures {
		return nil, fmt.Errorf("transient failure %d", r.calls)
	}
	data, ok := r.files[path]
	if !ok {
		return nil, fmt.Errorf("no such file %q", path)
	}
	return data, nil
}

type captureDocuments struct {
	style  []byte
	output []byte
}

func (d *captureDocuments) RenderDocument(_ context.Context, _ []byte, style []byte) ([]byte, error) {
	d.style = style
	return d.output, nil
}
