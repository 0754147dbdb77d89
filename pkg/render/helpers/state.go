// Package helpers implements the path-aware template extension points:
// annotating interpolation, locale formatting tags, the path-tracking
// iterator, scoping, and the presence conditional. All helpers resolve
// against the pass's data context and emit resolution markers through the
// pass's statistics accumulator.
package helpers

import (
	"log/slog"
	"strings"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-docmerge/pkg/annotate"
	"github.com/goliatone/go-docmerge/pkg/datatree"
	"github.com/goliatone/go-docmerge/pkg/fieldpath"
	"github.com/goliatone/go-docmerge/pkg/format"
)

// StateKey is the public-context key carrying the render pass state. The
// renderer owns the key; templates never address it directly.
const StateKey = "docmerge_state"

// frameKey is the private-context key carrying the innermost Frame, the
// same way pongo2's for tag carries forloop.
const frameKey = "docmerge_frame"

// LoopVar is the template-visible name of the current iteration frame.
const LoopVar = "loop"

// rootPrefix escapes a path argument to the context root inside nested
// blocks.
const rootPrefix = "@root"

// State is the per-pass evaluation state shared by every helper: the
// read-only data context, the statistics accumulator, the locale formatter
// and the default currency code. One State per render pass, never shared
// across passes.
type State struct {
	Tree      datatree.Node
	Stats     *annotate.Stats
	Formatter *format.Formatter
	Logger    *slog.Logger
	Currency  string
}

func stateFrom(ctx *pongo2.ExecutionContext, token *pongo2.Token) (*State, *pongo2.Error) {
	state, ok := ctx.Public[StateKey].(*State)
	if !ok || state == nil {
		return nil, ctx.Error("render pass state missing from context", token)
	}
	return state, nil
}

func frameFrom(ctx *pongo2.ExecutionContext) *Frame {
	frame, _ := ctx.Private[frameKey].(*Frame)
	return frame
}

// qualify turns a template path argument into a fully qualified path.
// Arguments are relative to the innermost frame; "@root." escapes to the
// context root and "." addresses the frame's own value.
func qualify(ctx *pongo2.ExecutionContext, raw string) (fieldpath.Path, error) {
	raw = strings.TrimSpace(raw)

	if raw == rootPrefix {
		return fieldpath.Path{}, nil
	}
	if rest, ok := strings.CutPrefix(raw, rootPrefix+"."); ok {
		return fieldpath.Parse(rest)
	}

	frame := frameFrom(ctx)
	if raw == "." || raw == "" {
		if frame != nil {
			return frame.BasePath, nil
		}
		return fieldpath.Path{}, nil
	}

	rel, err := fieldpath.Parse(raw)
	if err != nil {
		return fieldpath.Path{}, err
	}
	if frame != nil {
		return frame.BasePath.Join(rel), nil
	}
	return rel, nil
}

func logger(state *State) *slog.Logger {
	if state.Logger != nil {
		return state.Logger
	}
	return slog.Default()
}
