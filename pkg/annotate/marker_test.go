package annotate

import (
	"strings"
	"testing"

	"github.com/goliatone/go-docmerge/pkg/fieldpath"
)

func TestMarkerHTML_Imported(t *testing.T) {
	m := Imported(fieldpath.MustParse("user.profile.name"), "John")
	got := m.HTML()
	want := `<span class="imported-value" data-field-path="user.profile.name">John</span>`
	if got != want {
		t.Fatalf("unexpected markup:\n got %s\nwant %s", got, want)
	}
}

func TestMarkerHTML_MissingEchoesPath(t *testing.T) {
	m := Missing(fieldpath.MustParse("user.profile.contact.email"))
	got := m.HTML()
	if !strings.Contains(got, `class="missing-value"`) {
		t.Fatalf("missing marker lost its class: %s", got)
	}
	if !strings.Contains(got, ">[user.profile.contact.email]<") {
		t.Fatalf("missing marker should echo the path: %s", got)
	}
}

func TestMarkerHTML_DisplayIsInert(t *testing.T) {
	m := Imported(fieldpath.MustParse("payload"), `<script>x()</script> {% field "a" %} {{b}}`)
	got := m.HTML()
	if strings.Contains(got, "<script>") {
		t.Fatalf("markup survived sanitization: %s", got)
	}
	if strings.Contains(got, "{%") || strings.Contains(got, "{{") {
		t.Fatalf("template delimiters survived escaping: %s", got)
	}
}

func TestParse_RoundTrip(t *testing.T) {
	original := Imported(fieldpath.MustParse("items.0.price"), "12,50")
	parsed, ok := Parse(original.HTML())
	if !ok {
		t.Fatalf("Parse rejected own output: %s", original.HTML())
	}
	if parsed.Kind != KindImported || !parsed.Path.Equal(original.Path) {
		t.Fatalf("unexpected parsed marker %+v", parsed)
	}
	if parsed.Display != original.Display {
		t.Fatalf("display text changed: %q -> %q", original.Display, parsed.Display)
	}
}

func TestParse_RejectsPlainText(t *testing.T) {
	for _, raw := range []string{"World", "<span>plain</span>", "<b>x</b>"} {
		if _, ok := Parse(raw); ok {
			t.Fatalf("Parse accepted non-marker input %q", raw)
		}
	}
}

func TestStats_Count(t *testing.T) {
	var stats Stats
	stats.Count(KindImported)
	stats.Count(KindMissing)
	stats.Count(KindImported)

	if stats.TotalFields != 3 || stats.ResolvedFields != 2 {
		t.Fatalf("unexpected stats %+v", stats)
	}
	if stats.ResolvedFields > stats.TotalFields {
		t.Fatalf("resolved exceeds total: %+v", stats)
	}
}

func TestStats_EmitCountsAndSerializes(t *testing.T) {
	var stats Stats
	markup := stats.Emit(Missing(fieldpath.MustParse("a.b")))
	if !strings.Contains(markup, "missing-value") {
		t.Fatalf("unexpected markup %s", markup)
	}
	if stats.TotalFields != 1 || stats.ResolvedFields != 0 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}
