// Package resolve looks values up in a data context by path. Absence is a
// return value, never an error; errors are reserved for values that cannot
// be rendered as text at all.
package resolve

import (
	"errors"
	"strings"

	"github.com/goliatone/go-docmerge/pkg/annotate"
	"github.com/goliatone/go-docmerge/pkg/datatree"
	"github.com/goliatone/go-docmerge/pkg/fieldpath"
)

// ErrNotScalar reports an attempt to render a container node as text.
var ErrNotScalar = errors.New("resolve: value is not a scalar")

// wrapperKey names the slot of single-keyed wrapper objects that behave
// like their bare value: entries shaped {value: ...} carry metadata
// elsewhere and resolve to the inner value transparently.
const wrapperKey = "value"

// Lookup walks root along path and returns the addressed node. The second
// return is false when any step of the path is absent.
func Lookup(root datatree.Node, path fieldpath.Path) (datatree.Node, bool) {
	node := root
	for _, seg := range path.Segments() {
		switch typed := node.(type) {
		case *datatree.Object:
			child, ok := typed.Get(seg.String())
			if !ok {
				// step through a {value: ...} wrapper before giving up
				inner, wrapped := unwrap(typed)
				if innerObj, isObj := inner.(*datatree.Object); wrapped && isObj {
					if child, ok = innerObj.Get(seg.String()); ok {
						node = child
						continue
					}
				}
				return nil, false
			}
			node = child
		case *datatree.Array:
			if !seg.IsIndex() {
				return nil, false
			}
			child, ok := typed.At(seg.Index)
			if !ok {
				return nil, false
			}
			node = child
		default:
			return nil, false
		}
	}
	if node == nil {
		return nil, false
	}
	return node, true
}

// Scalarize extracts the display text of a node. Already-annotated marker
// markup is unwrapped to its original display value so re-resolving
// rendered output is idempotent; single-keyed {value: ...} wrappers are
// unwrapped transparently. Containers return ErrNotScalar.
func Scalarize(node datatree.Node) (string, error) {
	switch typed := node.(type) {
	case datatree.Leaf:
		if marker, ok := annotate.Parse(typed.Value); ok {
			return marker.Display, nil
		}
		return typed.Value, nil
	case *datatree.Object:
		if inner, ok := unwrap(typed); ok {
			return Scalarize(inner)
		}
		return "", ErrNotScalar
	default:
		return "", ErrNotScalar
	}
}

// LookupScalar combines Lookup and Scalarize. The boolean reports presence;
// a present empty string stays present (the distinction between
// present-but-empty and absent belongs to the caller's helper policy).
func LookupScalar(root datatree.Node, path fieldpath.Path) (string, bool, error) {
	node, ok := Lookup(root, path)
	if !ok {
		return "", false, nil
	}
	text, err := Scalarize(node)
	if err != nil {
		return "", true, err
	}
	return text, true, nil
}

// Unwrap returns the bare value of a single-keyed {value: ...} wrapper, or
// the node itself.
func Unwrap(node datatree.Node) datatree.Node {
	if obj, ok := node.(*datatree.Object); ok {
		if inner, ok := unwrap(obj); ok {
			return inner
		}
	}
	return node
}

func unwrap(obj *datatree.Object) (datatree.Node, bool) {
	if obj.Len() != 1 {
		return nil, false
	}
	return obj.Get(wrapperKey)
}

// EmptyAfterTrim reports whether text is blank once surrounding whitespace
// is removed. Formatting helpers treat such values as absent; plain
// interpolation keeps them present.
func EmptyAfterTrim(text string) bool {
	return strings.TrimSpace(text) == ""
}
