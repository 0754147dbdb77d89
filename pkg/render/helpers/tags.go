package helpers

import (
	"sync"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-docmerge/pkg/annotate"
	"github.com/goliatone/go-docmerge/pkg/resolve"
)

var registerOnce sync.Once

// Register installs the docmerge tags into pongo2's tag table. pongo2 tag
// registration is process wide, so Register is idempotent and safe to call
// from every renderer constructor.
func Register() {
	registerOnce.Do(func() {
		mustRegister("field", fieldTagParser)
		mustRegister("number", numberTagParser)
		mustRegister("currency", currencyTagParser)
		mustRegister("date", dateTagParser)
		mustRegister("text", textTagParser)
		mustRegister("iterate", iterateTagParser)
		mustRegister("scope", scopeTagParser)
		mustRegister("present", presentTagParser)
	})
}

func mustRegister(name string, parser pongo2.TagParser) {
	if err := pongo2.RegisterTag(name, parser); err != nil {
		panic(err)
	}
}

// fieldNode implements {% field "rel.path" %}: annotating interpolation.
// A present value emits an imported marker (a present empty string stays
// imported); an absent path emits a missing marker whose path is fully
// qualified from the context root.
type fieldNode struct {
	position *pongo2.Token
	pathExpr pongo2.IEvaluator
}

func fieldTagParser(doc *pongo2.Parser, start *pongo2.Token, arguments *pongo2.Parser) (pongo2.INodeTag, *pongo2.Error) {
	pathExpr, err := arguments.ParseExpression()
	if err != nil {
		return nil, err
	}
	if arguments.Remaining() > 0 {
		return nil, arguments.Error("field tag takes a single path argument", nil)
	}
	return &fieldNode{position: start, pathExpr: pathExpr}, nil
}

func (n *fieldNode) Execute(ctx *pongo2.ExecutionContext, writer pongo2.TemplateWriter) *pongo2.Error {
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

	text, present, err := resolve.LookupScalar(state.Tree, path)
	if err != nil || !present {
		if err != nil {
			logger(state).Warn("field does not render as text",
				"path", path.String(), "reason", err.Error())
		}
		writer.WriteString(state.Stats.Emit(annotate.Missing(path)))
		return nil
	}

	writer.WriteString(state.Stats.Emit(annotate.Imported(path, text)))
	return nil
}
