// Package fieldpath implements the dotted-and-indexed path notation used to
// address values in a merge data context. Paths are immutable value objects:
// every derivation returns a fresh Path and equality is structural.
package fieldpath

import (
	"strconv"
	"strings"
)

// Segment is a single step in a path: either a property name or a
// non-negative positional index. Numeric path components are normalized to
// index segments during parsing so array-vs-object inference downstream is
// deterministic.
type Segment struct {
	Name  string
	Index int
	index bool
}

// NameSegment creates a property segment.
func NameSegment(name string) Segment {
	return Segment{Name: name}
}

// IndexSegment creates a positional segment.
func IndexSegment(i int) Segment {
	return Segment{Index: i, index: true}
}

// IsIndex reports whether the segment addresses a position rather than a
// property.
func (s Segment) IsIndex() bool {
	return s.index
}

// String renders the segment in canonical form: the bare property name, or
// the decimal index.
func (s Segment) String() string {
	if s.index {
		return strconv.Itoa(s.Index)
	}
	return s.Name
}

// Path is an ordered sequence of segments. The zero value is the root path.
type Path struct {
	segments []Segment
}

// New builds a path from the given segments.
func New(segments ...Segment) Path {
	if len(segments) == 0 {
		return Path{}
	}
	copied := make([]Segment, len(segments))
	copy(copied, segments)
	return Path{segments: copied}
}

// Parse decodes a canonical path string such as "items.0.price". Empty
// segments (leading, trailing, or doubled dots) are rejected with
// *InvalidPathError. Purely numeric segments decode as index segments.
func Parse(raw string) (Path, error) {
	if raw == "" {
		return Path{}, nil
	}

	parts := strings.Split(raw, ".")
	segments := make([]Segment, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			return Path{}, &InvalidPathError{Raw: raw, Reason: "empty segment"}
		}
		if idx, ok := parseIndex(part); ok {
			segments = append(segments, IndexSegment(idx))
			continue
		}
		segments = append(segments, NameSegment(part))
	}
	return Path{segments: segments}, nil
}

// MustParse is Parse for statically known paths; it panics on malformed
// input.
func MustParse(raw string) Path {
	path, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return path
}

func parseIndex(part string) (int, bool) {
	for _, r := range part {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	idx, err := strconv.Atoi(part)
	if err != nil || idx < 0 {
		return 0, false
	}
	return idx, true
}

// String encodes the path in canonical form, joining segments with dots.
// The root path encodes as the empty string.
func (p Path) String() string {
	if len(p.segments) == 0 {
		return ""
	}
	var sb strings.Builder
	for i, seg := range p.segments {
		if i > 0 {
			sb.WriteByte('.')
		}
		sb.WriteString(seg.String())
	}
	return sb.String()
}

// Len returns the number of segments.
func (p Path) Len() int {
	return len(p.segments)
}

// IsRoot reports whether the path has no segments.
func (p Path) IsRoot() bool {
	return len(p.segments) == 0
}

// Segments returns a copy of the underlying segments.
func (p Path) Segments() []Segment {
	out := make([]Segment, len(p.segments))
	copy(out, p.segments)
	return out
}

// At returns the i-th segment.
func (p Path) At(i int) Segment {
	return p.segments[i]
}

// Join appends child's segments to p, returning a new path.
func (p Path) Join(child Path) Path {
	if child.Len() == 0 {
		return p
	}
	combined := make([]Segment, 0, len(p.segments)+len(child.segments))
	combined = append(combined, p.segments...)
	combined = append(combined, child.segments...)
	return Path{segments: combined}
}

// AppendName returns p extended with a property segment.
func (p Path) AppendName(name string) Path {
	return p.append(NameSegment(name))
}

// AppendIndex returns p extended with a positional segment.
func (p Path) AppendIndex(i int) Path {
	return p.append(IndexSegment(i))
}

func (p Path) append(seg Segment) Path {
	combined := make([]Segment, 0, len(p.segments)+1)
	combined = append(combined, p.segments...)
	combined = append(combined, seg)
	return Path{segments: combined}
}

// Parent returns the path without its final segment. The root path's parent
// is the root path.
func (p Path) Parent() Path {
	if len(p.segments) == 0 {
		return Path{}
	}
	return New(p.segments[:len(p.segments)-1]...)
}

// Equal reports structural equality.
func (p Path) Equal(other Path) bool {
	if len(p.segments) != len(other.segments) {
		return false
	}
	for i, seg := range p.segments {
		if seg != other.segments[i] {
			return false
		}
	}
	return true
}

// HasPrefix reports whether prefix is an ancestor of (or equal to) p.
func (p Path) HasPrefix(prefix Path) bool {
	if len(prefix.segments) > len(p.segments) {
		return false
	}
	for i, seg := range prefix.segments {
		if seg != p.segments[i] {
			return false
		}
	}
	return true
}
