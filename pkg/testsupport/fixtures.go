// Package testsupport provides fixture helpers shared by contract tests
// across packages. Helpers fail the test on error to keep call sites concise.
package testsupport

import (
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-docmerge/pkg/datatree"
	"github.com/goliatone/go-docmerge/pkg/records"
)

// LoadRecords reads a delimiter-separated fixture from disk.
func LoadRecords(t *testing.T, path string) []records.Record {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("load records fixture: %v", err)
	}
	recs, err := records.NewReader().ReadString(string(data))
	if err != nil {
		t.Fatalf("parse records fixture: %v", err)
	}
	return recs
}

// ParseRecords parses inline fixture data in the default record layout.
func ParseRecords(t *testing.T, data string) []records.Record {
	t.Helper()

	recs, err := records.NewReader().ReadString(data)
	if err != nil {
		t.Fatalf("parse records: %v", err)
	}
	return recs
}

// BuildTree converts inline fixture data into a context tree.
func BuildTree(t *testing.T, data string) datatree.Node {
	t.Helper()

	tree, err := datatree.Build(ParseRecords(t, data))
	if err != nil {
		t.Fatalf("build tree: %v", err)
	}
	return tree
}

// DiffStrings fails with a diff when got differs from want.
func DiffStrings(t *testing.T, want, got string) {
	t.Helper()

	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}
