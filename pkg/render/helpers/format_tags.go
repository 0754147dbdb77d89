package helpers

import (
	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-docmerge/pkg/annotate"
	"github.com/goliatone/go-docmerge/pkg/datatree"
	"github.com/goliatone/go-docmerge/pkg/fieldpath"
	"github.com/goliatone/go-docmerge/pkg/format"
	"github.com/goliatone/go-docmerge/pkg/resolve"
)

// amountKey is the secondary slot checked when a numeric helper is pointed
// at an object: {value: ...} unwraps first, then {amount: ...}.
const amountKey = "amount"

// formatNode is the shared shape of the formatting tags: a path argument
// plus up to two style arguments, rendered by a kind-specific apply
// function. Formatting helpers treat empty-after-trim values as absent;
// unparseable values degrade to the style's error placeholder inside an
// imported marker, never to a missing marker. Placeholder emissions count
// toward the statistics total but not as resolved.
type formatNode struct {
	position *pongo2.Token
	pathExpr pongo2.IEvaluator
	optExprs []pongo2.IEvaluator
	apply    func(state *State, raw string, opts []*pongo2.Value) (string, error)
	fallback func(raw string) string
}

func parseFormatTag(start *pongo2.Token, arguments *pongo2.Parser, maxOpts int) (*formatNode, *pongo2.Error) {
	pathExpr, err := arguments.ParseExpression()
	if err != nil {
		return nil, err
	}
	node := &formatNode{position: start, pathExpr: pathExpr}
	for arguments.Remaining() > 0 {
		if len(node.optExprs) == maxOpts {
			return nil, arguments.Error("too many arguments for formatting tag", nil)
		}
		opt, err := arguments.ParseExpression()
		if err != nil {
			return nil, err
		}
		node.optExprs = append(node.optExprs, opt)
	}
	return node, nil
}

func (n *formatNode) Execute(ctx *pongo2.ExecutionContext, writer pongo2.TemplateWriter) *pongo2.Error {
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

	raw, present := lookupFormattable(state.Tree, path)
	if !present || resolve.EmptyAfterTrim(raw) {
		writer.WriteString(state.Stats.Emit(annotate.Missing(path)))
		return nil
	}

	opts := make([]*pongo2.Value, 0, len(n.optExprs))
	for _, expr := range n.optExprs {
		value, perr := expr.Evaluate(ctx)
		if perr != nil {
			return perr
		}
		opts = append(opts, value)
	}

	display, err := n.apply(state, raw, opts)
	if err != nil {
		logger(state).Warn("formatting failed",
			"path", path.String(), "reason", err.Error())
		writer.WriteString(state.Stats.EmitUnresolved(annotate.Imported(path, n.fallback(raw))))
		return nil
	}
	writer.WriteString(state.Stats.Emit(annotate.Imported(path, display)))
	return nil
}

// lookupFormattable resolves a path for a formatting helper, accepting bare
// scalars and objects carrying the value under a named property.
func lookupFormattable(root datatree.Node, path fieldpath.Path) (string, bool) {
	node, ok := resolve.Lookup(root, path)
	if !ok {
		return "", false
	}
	node = resolve.Unwrap(node)
	if obj, isObj := node.(*datatree.Object); isObj {
		inner, found := obj.Get(amountKey)
		if !found {
			return "", false
		}
		node = inner
	}
	text, err := resolve.Scalarize(node)
	if err != nil {
		return "", false
	}
	return text, true
}

// {% number "path" [maxFrac [minFrac]] %}
func numberTagParser(doc *pongo2.Parser, start *pongo2.Token, arguments *pongo2.Parser) (pongo2.INodeTag, *pongo2.Error) {
	node, err := parseFormatTag(start, arguments, 2)
	if err != nil {
		return nil, err
	}
	node.fallback = format.InvalidNumber
	node.apply = func(state *State, raw string, opts []*pongo2.Value) (string, error) {
		value, parseErr := format.ParseDecimal(raw)
		if parseErr != nil {
			return "", parseErr
		}
		options := format.NumberOptions{}
		if len(opts) > 0 {
			options.MaxFractionDigits = opts[0].Integer()
		}
		if len(opts) > 1 {
			options.MinFractionDigits = opts[1].Integer()
		} else {
			options.MinFractionDigits = options.MaxFractionDigits
		}
		return state.Formatter.Number(value, options), nil
	}
	return node, nil
}

// {% currency "path" [code] %}
func currencyTagParser(doc *pongo2.Parser, start *pongo2.Token, arguments *pongo2.Parser) (pongo2.INodeTag, *pongo2.Error) {
	node, err := parseFormatTag(start, arguments, 1)
	if err != nil {
		return nil, err
	}
	node.fallback = format.InvalidCurrency
	node.apply = func(state *State, raw string, opts []*pongo2.Value) (string, error) {
		value, parseErr := format.ParseDecimal(raw)
		if parseErr != nil {
			return "", parseErr
		}
		code := state.Currency
		if len(opts) > 0 {
			code = opts[0].String()
		}
		return state.Formatter.Currency(value, code)
	}
	return node, nil
}

// {% date "path" [layout] %}
func dateTagParser(doc *pongo2.Parser, start *pongo2.Token, arguments *pongo2.Parser) (pongo2.INodeTag, *pongo2.Error) {
	node, err := parseFormatTag(start, arguments, 1)
	if err != nil {
		return nil, err
	}
	node.fallback = format.InvalidDate
	node.apply = func(state *State, raw string, opts []*pongo2.Value) (string, error) {
		when, parseErr := format.ParseDate(raw)
		if parseErr != nil {
			return "", parseErr
		}
		layout := ""
		if len(opts) > 0 {
			layout = opts[0].String()
		}
		return state.Formatter.Date(when, layout), nil
	}
	return node, nil
}

// {% text "path" [transform] %}
func textTagParser(doc *pongo2.Parser, start *pongo2.Token, arguments *pongo2.Parser) (pongo2.INodeTag, *pongo2.Error) {
	node, err := parseFormatTag(start, arguments, 1)
	if err != nil {
		return nil, err
	}
	node.fallback = func(raw string) string { return raw }
	node.apply = func(state *State, raw string, opts []*pongo2.Value) (string, error) {
		transform := ""
		if len(opts) > 0 {
			transform = opts[0].String()
		}
		return state.Formatter.Transform(raw, transform), nil
	}
	return node, nil
}
