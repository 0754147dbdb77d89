package docmerge_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	docmerge "github.com/goliatone/go-docmerge"
	"github.com/goliatone/go-docmerge/pkg/testsupport"
)

func TestGenerate_InlineInputs(t *testing.T) {
	result, err := docmerge.Generate(context.Background(), docmerge.Request{
		Template: `<p>{% field "customer.name" %}</p>`,
		Records:  testsupport.ParseRecords(t, "customer.name;Ada Lovelace\n"),
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	want := `<p><span class="imported-value" data-field-path="customer.name">Ada Lovelace</span></p>`
	testsupport.DiffStrings(t, want, result.Markup)

	if result.Stats.TotalFields != 1 || result.Stats.ResolvedFields != 1 {
		t.Fatalf("unexpected stats: %+v", result.Stats)
	}
}

func TestGenerateFromConfig_DefaultTemplate(t *testing.T) {
	dir := t.TempDir()
	dataPath := filepath.Join(dir, "letter.txt")
	data := strings.Join([]string{
		"letter.subject;Invoice 42",
		"letter.salutation;Dear Ms Lovelace,",
		"sender.company;Acme GmbH",
		"recipient.name;Ada Lovelace",
		"positions.0.description;Consulting",
		"positions.0.amount;1234.56",
	}, "\n")
	if err := os.WriteFile(dataPath, []byte(data), 0o644); err != nil {
		t.Fatalf("write data fixture: %v", err)
	}

	result, err := docmerge.GenerateFromConfig(context.Background(), docmerge.Config{
		Data:     dataPath,
		Locale:   "de",
		Currency: "EUR",
	})
	if err != nil {
		t.Fatalf("generate from config: %v", err)
	}

	if !strings.Contains(result.Markup, `data-field-path="sender.company">Acme GmbH`) {
		t.Fatalf("expected imported sender company, got:\n%s", result.Markup)
	}
	if !strings.Contains(result.Markup, "1.234,56 €") {
		t.Fatalf("expected locale-formatted amount, got:\n%s", result.Markup)
	}
	if !strings.Contains(result.Markup, `class="missing-value" data-field-path="sender.street"`) {
		t.Fatalf("expected missing marker for absent sender street, got:\n%s", result.Markup)
	}
	if result.Stats.ResolvedFields >= result.Stats.TotalFields {
		t.Fatalf("expected unresolved fields against default template, got %+v", result.Stats)
	}
}
