// Package datatree builds and represents the nested data context a merge
// pass renders against. Internal nodes are insertion-ordered objects or
// positional arrays; leaves are string scalars. The tree is built once per
// pass and treated as read-only from then on.
package datatree

// Node is a value in the data context: *Object, *Array, or Leaf.
type Node interface {
	node()
}

// Object is an object-like node with insertion-ordered keys.
type Object struct {
	keys     []string
	children map[string]Node
}

// NewObject creates an empty object node.
func NewObject() *Object {
	return &Object{children: make(map[string]Node)}
}

func (o *Object) node() {}

// Set stores child under key, preserving first-insertion order for existing
// keys.
func (o *Object) Set(key string, child Node) {
	if _, exists := o.children[key]; !exists {
		o.keys = append(o.keys, key)
	}
	o.children[key] = child
}

// Get returns the child stored under key.
func (o *Object) Get(key string) (Node, bool) {
	child, ok := o.children[key]
	return child, ok
}

// Keys returns the keys in insertion order.
func (o *Object) Keys() []string {
	out := make([]string, len(o.keys))
	copy(out, o.keys)
	return out
}

// Len returns the number of children.
func (o *Object) Len() int {
	return len(o.keys)
}

// Array is an array-like node with positional children.
type Array struct {
	items []Node
}

// NewArray creates an array node over items.
func NewArray(items ...Node) *Array {
	return &Array{items: items}
}

func (a *Array) node() {}

// At returns the i-th item.
func (a *Array) At(i int) (Node, bool) {
	if i < 0 || i >= len(a.items) {
		return nil, false
	}
	return a.items[i], true
}

// Len returns the number of items.
func (a *Array) Len() int {
	return len(a.items)
}

// Leaf is a scalar value. The empty string is a present-but-empty value,
// distinct from an absent path.
type Leaf struct {
	Value string
}

func (Leaf) node() {}
