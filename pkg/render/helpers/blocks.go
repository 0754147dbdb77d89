package helpers

import (
	"bytes"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-docmerge/pkg/datatree"
	"github.com/goliatone/go-docmerge/pkg/fieldpath"
	"github.com/goliatone/go-docmerge/pkg/resolve"
)

// iterateNode implements the path-tracking iterator:
//
//	{% iterate "items" %} body {% empty %} fallback {% enditerate %}
//
// Arrays iterate positionally; objects iterate their properties in
// insertion order, exposing the key. Every entry gets a Frame whose base
// path extends the collection path with the entry's index or key, so
// missing markers inside the body always report fully qualified paths.
// Entry bodies are buffered and counted tentatively: a failing entry is
// logged, contributes no markup and no statistics, and never disturbs its
// siblings.
type iterateNode struct {
	position       *pongo2.Token
	collectionExpr pongo2.IEvaluator
	body           *pongo2.NodeWrapper
	empty          *pongo2.NodeWrapper
}

type iterationEntry struct {
	path  fieldpath.Path
	key   string
	index int
}

func iterateTagParser(doc *pongo2.Parser, start *pongo2.Token, arguments *pongo2.Parser) (pongo2.INodeTag, *pongo2.Error) {
	collectionExpr, err := arguments.ParseExpression()
	if err != nil {
		return nil, err
	}
	if arguments.Remaining() > 0 {
		return nil, arguments.Error("iterate tag takes a single collection path", nil)
	}

	node := &iterateNode{position: start, collectionExpr: collectionExpr}

	body, endArgs, err := doc.WrapUntilTag("empty", "enditerate")
	if err != nil {
		return nil, err
	}
	if endArgs.Remaining() > 0 {
		return nil, endArgs.Error("arguments not allowed here", nil)
	}
	node.body = body

	if body.Endtag == "empty" {
		empty, endArgs, err := doc.WrapUntilTag("enditerate")
		if err != nil {
			return nil, err
		}
		if endArgs.Remaining() > 0 {
			return nil, endArgs.Error("arguments not allowed here", nil)
		}
		node.empty = empty
	}

	return node, nil
}

func (n *iterateNode) Execute(ctx *pongo2.ExecutionContext, writer pongo2.TemplateWriter) *pongo2.Error {
	state, perr := stateFrom(ctx, n.position)
	if perr != nil {
		return perr
	}

	pathValue, perr := n.collectionExpr.Evaluate(ctx)
	if perr != nil {
		return perr
	}
	collectionPath, err := qualify(ctx, pathValue.String())
	if err != nil {
		return ctx.Error(err.Error(), n.position)
	}

	entries, ok := collectEntries(state.Tree, collectionPath)
	if !ok || len(entries) == 0 {
		if n.empty != nil {
			return n.empty.Execute(ctx, writer)
		}
		return nil
	}

	parent := frameFrom(ctx)
	for i, entry := range entries {
		frame := &Frame{
			BasePath: entry.path,
			Index:    entry.index,
			Key:      entry.key,
			First:    i == 0,
			Last:     i == len(entries)-1,
			Parent:   parent,
		}

		entryCtx := pongo2.NewChildExecutionContext(ctx)
		entryCtx.Private[frameKey] = frame
		entryCtx.Private[LoopVar] = frame

		// markers counted inside a failing body are rolled back with it
		snapshot := *state.Stats
		var buf bytes.Buffer
		if err := n.body.Execute(entryCtx, &buf); err != nil {
			*state.Stats = snapshot
			logger(state).Warn("iteration entry failed",
				"path", entry.path.String(),
				"reason", err.Error())
			continue
		}
		writer.WriteString(buf.String())
	}
	return nil
}

// collectEntries resolves the collection and flattens it into ordered
// entries. Scalars are not iterable and behave like an absent collection.
func collectEntries(root datatree.Node, path fieldpath.Path) ([]iterationEntry, bool) {
	node, ok := resolve.Lookup(root, path)
	if !ok {
		return nil, false
	}

	switch typed := resolve.Unwrap(node).(type) {
	case *datatree.Array:
		entries := make([]iterationEntry, typed.Len())
		for i := range entries {
			entries[i] = iterationEntry{
				path:  path.AppendIndex(i),
				index: i,
			}
		}
		return entries, true
	case *datatree.Object:
		keys := typed.Keys()
		entries := make([]iterationEntry, len(keys))
		for i, key := range keys {
			entries[i] = iterationEntry{
				path:  path.AppendName(key),
				key:   key,
				index: i,
			}
		}
		return entries, true
	default:
		return nil, false
	}
}

// scopeNode implements {% scope "user.profile" %} body {% endscope %}:
// sub-context scoping that extends the accumulated path prefix without
// iterating. The body renders whether or not the target resolves, so
// missing fields inside still surface as fully qualified missing markers.
type scopeNode struct {
	position *pongo2.Token
	pathExpr pongo2.IEvaluator
	body     *pongo2.NodeWrapper
}

func scopeTagParser(doc *pongo2.Parser, start *pongo2.Token, arguments *pongo2.Parser) (pongo2.INodeTag, *pongo2.Error) {
	pathExpr, err := arguments.ParseExpression()
	if err != nil {
		return nil, err
	}
	if arguments.Remaining() > 0 {
		return nil, arguments.Error("scope tag takes a single path argument", nil)
	}

	body, endArgs, err := doc.WrapUntilTag("endscope")
	if err != nil {
		return nil, err
	}
	if endArgs.Remaining() > 0 {
		return nil, endArgs.Error("arguments not allowed here", nil)
	}

	return &scopeNode{position: start, pathExpr: pathExpr, body: body}, nil
}

func (n *scopeNode) Execute(ctx *pongo2.ExecutionContext, writer pongo2.TemplateWriter) *pongo2.Error {
	pathValue, perr := n.pathExpr.Evaluate(ctx)
	if perr != nil {
		return perr
	}
	scopePath, err := qualify(ctx, pathValue.String())
	if err != nil {
		return ctx.Error(err.Error(), n.position)
	}

	frame := &Frame{BasePath: scopePath, Parent: frameFrom(ctx)}
	scopeCtx := pongo2.NewChildExecutionContext(ctx)
	scopeCtx.Private[frameKey] = frame

	return n.body.Execute(scopeCtx, writer)
}

// presentNode implements the presence conditional:
//
//	{% present "path" %} then {% otherwise %} else {% endpresent %}
//
// A present-but-empty value counts as present. Skipped branches contribute
// no markers, so conditionally hidden interpolation sites never count
// toward render statistics.
type presentNode struct {
	position  *pongo2.Token
	pathExpr  pongo2.IEvaluator
	then      *pongo2.NodeWrapper
	otherwise *pongo2.NodeWrapper
}

func presentTagParser(doc *pongo2.Parser, start *pongo2.Token, arguments *pongo2.Parser) (pongo2.INodeTag, *pongo2.Error) {
	pathExpr, err := arguments.ParseExpression()
	if err != nil {
		return nil, err
	}
	if arguments.Remaining() > 0 {
		return nil, arguments.Error("present tag takes a single path argument", nil)
	}

	node := &presentNode{position: start, pathExpr: pathExpr}

	then, endArgs, err := doc.WrapUntilTag("otherwise", "endpresent")
	if err != nil {
		return nil, err
	}
	if endArgs.Remaining() > 0 {
		return nil, endArgs.Error("arguments not allowed here", nil)
	}
	node.then = then

	if then.Endtag == "otherwise" {
		otherwise, endArgs, err := doc.WrapUntilTag("endpresent")
		if err != nil {
			return nil, err
		}
		if endArgs.Remaining() > 0 {
			return nil, endArgs.Error("arguments not allowed here", nil)
		}
		node.otherwise = otherwise
	}

	return node, nil
}

func (n *presentNode) Execute(ctx *pongo2.ExecutionContext, writer pongo2.TemplateWriter) *pongo2.Error {
	state, perr := stateFrom(ctx, n.position)
	if perr != nil {
		return perr
	}

	pathValue, perr := n.pathExpr.Evaluate(ctx)
	if perr != nil {
		return perr
	}
	path, err := qualify(ctx, pathValue.String())
	if err != nil {
		return ctx.Error(err.Error(), n.position)
	}

	if _, ok := resolve.Lookup(state.Tree, path); ok {
		return n.then.Execute(ctx, writer)
	}
	if n.otherwise != nil {
		return n.otherwise.Execute(ctx, writer)
	}
	return nil
}
