package datatree

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/goliatone/go-docmerge/pkg/fieldpath"
	"github.com/goliatone/go-docmerge/pkg/records"
)

func rec(path, value string) records.Record {
	return records.Record{Path: fieldpath.MustParse(path), Value: value}
}

func quietBuild(t *testing.T, recs []records.Record, options ...BuilderOption) Node {
	t.Helper()
	options = append(options,
		WithBuilderLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	root, err := Build(recs, options...)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	return root
}

func leafAt(t *testing.T, root Node, path string) string {
	t.Helper()
	node := root
	for _, seg := range fieldpath.MustParse(path).Segments() {
		switch typed := node.(type) {
		case *Object:
			child, ok := typed.Get(seg.String())
			if !ok {
				t.Fatalf("missing key %q while walking %q", seg.String(), path)
			}
			node = child
		case *Array:
			child, ok := typed.At(seg.Index)
			if !ok || !seg.IsIndex() {
				t.Fatalf("bad index %q while walking %q", seg.String(), path)
			}
			node = child
		default:
			t.Fatalf("walked through a leaf at %q in %q", seg.String(), path)
		}
	}
	leaf, ok := node.(Leaf)
	if !ok {
		t.Fatalf("node at %q is %T, not a leaf", path, node)
	}
	return leaf.Value
}

func TestBuild_EveryLeafReachable(t *testing.T) {
	recs := []records.Record{
		rec("name", "World"),
		rec("user.profile.name", "John"),
		rec("items.0.price", "12,50"),
		rec("items.1.price", "3,10"),
	}
	root := quietBuild(t, recs)

	for _, r := range recs {
		if got := leafAt(t, root, r.Path.String()); got != r.Value {
			t.Fatalf("leaf at %q is %q, want %q", r.Path.String(), got, r.Value)
		}
	}
}

func TestBuild_LastWriteWins(t *testing.T) {
	root := quietBuild(t, []records.Record{
		rec("name", "first"),
		rec("name", "second"),
	})
	if got := leafAt(t, root, "name"); got != "second" {
		t.Fatalf("expected override, got %q", got)
	}
}

func TestBuild_ContiguousIndexesBecomeArray(t *testing.T) {
	root := quietBuild(t, []records.Record{
		rec("items.0", "First"),
		rec("items.1", "Second"),
	})
	obj := root.(*Object)
	items, _ := obj.Get("items")
	arr, ok := items.(*Array)
	if !ok {
		t.Fatalf("items is %T, want *Array", items)
	}
	if arr.Len() != 2 {
		t.Fatalf("unexpected array length %d", arr.Len())
	}
}

func TestBuild_GapForcesObject(t *testing.T) {
	root := quietBuild(t, []records.Record{
		rec("items.0", "First"),
		rec("items.2", "Third"),
	})
	items, _ := root.(*Object).Get("items")
	obj, ok := items.(*Object)
	if !ok {
		t.Fatalf("items with an index gap is %T, want *Object", items)
	}
	if got := obj.Keys(); len(got) != 2 || got[0] != "0" || got[1] != "2" {
		t.Fatalf("integer keys should become string properties, got %v", got)
	}
}

func TestBuild_NonNumericSiblingForcesObject(t *testing.T) {
	root := quietBuild(t, []records.Record{
		rec("items.0", "First"),
		rec("items.total", "1"),
	})
	items, _ := root.(*Object).Get("items")
	if _, ok := items.(*Object); !ok {
		t.Fatalf("items with a non-numeric sibling is %T, want *Object", items)
	}
}

func TestBuild_DeeperPathWins(t *testing.T) {
	// leaf first, container later
	root := quietBuild(t, []records.Record{
		rec("a.b", "scalar"),
		rec("a.b.c", "deep"),
	})
	if got := leafAt(t, root, "a.b.c"); got != "deep" {
		t.Fatalf("container should replace leaf, got %q", got)
	}

	// container first, shallower leaf later
	root = quietBuild(t, []records.Record{
		rec("a.b.c", "deep"),
		rec("a.b", "scalar"),
	})
	if got := leafAt(t, root, "a.b.c"); got != "deep" {
		t.Fatalf("later shallow record should lose, got %q", got)
	}
}

func TestBuild_StrictConflictFails(t *testing.T) {
	_, err := Build([]records.Record{
		rec("a.b", "scalar"),
		rec("a.b.c", "deep"),
	}, WithStrictConflicts(),
		WithBuilderLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	if err == nil {
		t.Fatalf("expected strict mode to fail")
	}
	var structErr *InvalidDataStructureError
	if !errors.As(err, &structErr) {
		t.Fatalf("expected *InvalidDataStructureError, got %T", err)
	}
}

func TestBuild_EmptyInput(t *testing.T) {
	root := quietBuild(t, nil)
	obj, ok := root.(*Object)
	if !ok || obj.Len() != 0 {
		t.Fatalf("empty input should produce an empty object, got %#v", root)
	}
}

func TestBuild_EmptyValueIsPresent(t *testing.T) {
	root := quietBuild(t, []records.Record{rec("note", "")})
	if got := leafAt(t, root, "note"); got != "" {
		t.Fatalf("expected present-but-empty leaf, got %q", got)
	}
}
