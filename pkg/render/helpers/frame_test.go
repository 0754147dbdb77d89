package helpers

import (
	"testing"

	"github.com/goliatone/go-docmerge/pkg/fieldpath"
)

func TestFrameAncestor(t *testing.T) {
	root := &Frame{BasePath: fieldpath.MustParse("orders")}
	mid := &Frame{BasePath: fieldpath.MustParse("orders.0"), Index: 0, Parent: root}
	leaf := &Frame{BasePath: fieldpath.MustParse("orders.0.items.1"), Index: 1, Parent: mid}

	if got := leaf.Ancestor(0); got != leaf {
		t.Fatalf("Ancestor(0) = %+v, want the frame itself", got)
	}
	if got := leaf.Ancestor(1); got != mid {
		t.Fatalf("Ancestor(1) = %+v, want parent", got)
	}
	if got := leaf.Ancestor(2); got != root {
		t.Fatalf("Ancestor(2) = %+v, want root", got)
	}
	if got := leaf.Ancestor(3); got != nil {
		t.Fatalf("Ancestor(3) = %+v, want nil past the outermost frame", got)
	}
}

func TestFrameDepth(t *testing.T) {
	root := &Frame{}
	child := &Frame{Parent: root}
	grandchild := &Frame{Parent: child}

	if got := root.Depth(); got != 0 {
		t.Fatalf("root depth = %d, want 0", got)
	}
	if got := grandchild.Depth(); got != 2 {
		t.Fatalf("grandchild depth = %d, want 2", got)
	}
}
