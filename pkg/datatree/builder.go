package datatree

import (
	"log/slog"
	"strconv"

	"github.com/goliatone/go-docmerge/pkg/fieldpath"
	"github.com/goliatone/go-docmerge/pkg/records"
)

// BuilderOption customises the builder.
type BuilderOption func(*Builder)

// WithStrictConflicts makes leaf-vs-container conflicts fatal
// (*InvalidDataStructureError) instead of resolving them in favour of the
// deeper path. Useful when the data file is machine generated and a
// conflict indicates corruption.
func WithStrictConflicts() BuilderOption {
	return func(b *Builder) {
		b.strict = true
	}
}

// WithBuilderLogger routes conflict warnings to the given logger.
func WithBuilderLogger(logger *slog.Logger) BuilderOption {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// Builder accumulates flat records into an intermediate keyed tree and
// freezes it into the final data context. Array-vs-object inference is
// deferred to Build: a node's decision can only be finalized once the whole
// input has been consumed, since later records may still plug index gaps or
// introduce a non-numeric sibling.
type Builder struct {
	root   *pending
	strict bool
	logger *slog.Logger
}

// pending is the mutable intermediate node. All children are keyed by
// string; index segments use their decimal form.
type pending struct {
	leaf     string
	hasLeaf  bool
	keys     []string
	children map[string]*pending
}

func newPending() *pending {
	return &pending{children: make(map[string]*pending)}
}

func (p *pending) child(key string) *pending {
	if c, ok := p.children[key]; ok {
		return c
	}
	c := newPending()
	p.children[key] = c
	p.keys = append(p.keys, key)
	return c
}

// NewBuilder constructs a Builder applying any options.
func NewBuilder(options ...BuilderOption) *Builder {
	b := &Builder{
		root:   newPending(),
		logger: slog.Default(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(b)
	}
	return b
}

// Add inserts one record. Later records with an identical path overwrite
// earlier ones. A record that extends an existing scalar leaf converts the
// leaf into a container (deeper path wins); a record whose path stops at an
// existing container is dropped for the same reason. In strict mode either
// conflict returns *InvalidDataStructureError.
func (b *Builder) Add(record records.Record) error {
	node := b.root
	segments := record.Path.Segments()
	for i, seg := range segments {
		key := seg.String()
		last := i == len(segments)-1

		if !last {
			next := node.child(key)
			if next.hasLeaf {
				if b.strict {
					return &InvalidDataStructureError{
						Path:   record.Path.String(),
						Reason: "path extends an existing scalar leaf",
					}
				}
				b.logger.Warn("scalar leaf replaced by container",
					slog.String("path", fieldpath.New(segments[:i+1]...).String()))
				next.hasLeaf = false
				next.leaf = ""
			}
			node = next
			continue
		}

		target := node.child(key)
		if len(target.children) > 0 {
			if b.strict {
				return &InvalidDataStructureError{
					Path:   record.Path.String(),
					Reason: "path addresses an existing container as a scalar",
				}
			}
			b.logger.Warn("scalar record dropped in favour of deeper container",
				slog.String("path", record.Path.String()))
			return nil
		}
		target.leaf = record.Value
		target.hasLeaf = true
	}
	return nil
}

// AddAll inserts records in order, stopping at the first fatal error.
func (b *Builder) AddAll(recs []records.Record) error {
	for _, rec := range recs {
		if err := b.Add(rec); err != nil {
			return err
		}
	}
	return nil
}

// Build freezes the accumulated tree into the immutable data context,
// materializing arrays for nodes whose children form a contiguous 0..n-1
// integer key set. Empty input produces an empty object.
func (b *Builder) Build() (Node, error) {
	return freeze(b.root), nil
}

// Build is a convenience over NewBuilder + AddAll + Build.
func Build(recs []records.Record, options ...BuilderOption) (Node, error) {
	builder := NewBuilder(options...)
	if err := builder.AddAll(recs); err != nil {
		return nil, err
	}
	return builder.Build()
}

// freeze runs the post-order array/object transform.
func freeze(p *pending) Node {
	if p.hasLeaf {
		return Leaf{Value: p.leaf}
	}

	if isContiguousIndexSet(p.keys) {
		arr := make([]Node, len(p.keys))
		for _, key := range p.keys {
			idx, _ := strconv.Atoi(key)
			arr[idx] = freeze(p.children[key])
		}
		return NewArray(arr...)
	}

	obj := NewObject()
	for _, key := range p.keys {
		obj.Set(key, freeze(p.children[key]))
	}
	return obj
}

// isContiguousIndexSet reports whether keys are exactly the decimal integers
// 0..n-1 in any order. Any gap, duplicate-by-formatting ("1" vs "01"), or
// non-numeric sibling forces object interpretation.
func isContiguousIndexSet(keys []string) bool {
	if len(keys) == 0 {
		return false
	}
	seen := make([]bool, len(keys))
	for _, key := range keys {
		idx, err := strconv.Atoi(key)
		if err != nil || idx < 0 || idx >= len(keys) || seen[idx] {
			return false
		}
		if strconv.Itoa(idx) != key {
			return false
		}
		seen[idx] = true
	}
	return true
}
