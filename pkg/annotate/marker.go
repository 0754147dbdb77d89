// Package annotate emits the resolution markers that record, inside the
// rendered markup itself, whether each interpolated field was resolved and
// from which fully qualified path. Markers are the only channel by which
// that information survives into the output; reviewers and statistics
// collectors act on them without re-parsing the template.
package annotate

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/goliatone/go-docmerge/pkg/fieldpath"
)

// Kind classifies a marker.
type Kind string

const (
	// KindImported marks a value that resolved from the data context.
	KindImported Kind = "imported"
	// KindMissing marks a path that did not resolve.
	KindMissing Kind = "missing"
)

// Class returns the stable CSS class carried by the serialized marker.
func (k Kind) Class() string {
	return string(k) + "-value"
}

// PathAttr is the data attribute carrying the canonical path string.
const PathAttr = "data-field-path"

// Marker is one resolution record: created per value per render, never
// persisted.
type Marker struct {
	Kind    Kind
	Path    fieldpath.Path
	Display string
}

// Imported creates an imported marker for path with the given display text.
func Imported(path fieldpath.Path, display string) Marker {
	return Marker{Kind: KindImported, Path: path, Display: display}
}

// Missing creates a missing marker for path. The display text is a
// bracketed echo of the path so reviewers can identify the absent field
// without consulting the data file.
func Missing(path fieldpath.Path) Marker {
	return Marker{Kind: KindMissing, Path: path, Display: "[" + path.String() + "]"}
}

// HTML serializes the marker as an inert span. Display text is sanitized
// and template delimiters are entity-escaped so the output can never be
// re-interpreted as markup or further template syntax.
func (m Marker) HTML() string {
	return fmt.Sprintf(`<span class="%s" %s="%s">%s</span>`,
		m.Kind.Class(),
		PathAttr,
		html.EscapeString(m.Path.String()),
		sanitizeDisplay(m.Display))
}

func sanitizeDisplay(display string) string {
	clean := displayPolicy().Sanitize(display)
	clean = strings.ReplaceAll(clean, "{", "&#123;")
	clean = strings.ReplaceAll(clean, "}", "&#125;")
	return clean
}

var markerPattern = regexp.MustCompile(
	`(?s)^\s*<span class="(imported|missing)-value" ` + PathAttr + `="([^"]*)">(.*)</span>\s*$`)

// Parse recognizes a serialized marker and reconstructs it, restoring the
// original display text. It returns false for anything that is not exactly
// one marker; resolvers use it to unwrap already-annotated values instead
// of re-wrapping them.
func Parse(raw string) (Marker, bool) {
	groups := markerPattern.FindStringSubmatch(raw)
	if groups == nil {
		return Marker{}, false
	}
	path, err := fieldpath.Parse(html.UnescapeString(groups[2]))
	if err != nil {
		return Marker{}, false
	}
	return Marker{
		Kind:    Kind(groups[1]),
		Path:    path,
		Display: html.UnescapeString(groups[3]),
	}, true
}
