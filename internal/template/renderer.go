package template

import (
	"maps"
	"strings"

	starctx "github.com/leapstack-labs/rustfull/internal/starlark"
	"go.starlark.net/starlark"
)

// Render evaluates a parsed template against ctx.
//
// Rendering is all-or-nothing: on error no partial output is returned.
func Render(tmpl *Template, ctx *starctx.ExecutionContext) (string, error) {
	r := &renderer{ctx: ctx, file: tmpl.File}
	if err := r.renderNodes(tmpl.Nodes, nil); err != nil {
		return "", err
	}
	return r.out.String(), nil
}

// RenderString parses and renders input in one step.
func RenderString(input, file string, ctx *starctx.ExecutionContext) (string, error) {
	tmpl, err := ParseString(input, file)
	if err != nil {
		return "", err
	}
	return Render(tmpl, ctx)
}

type renderer struct {
	ctx  *starctx.ExecutionContext
	file string
	out  strings.Builder
}

func (r *renderer) renderNodes(nodes []Node, locals starlark.StringDict) error {
	for _, n := range nodes {
		if err := r.renderNode(n, locals); err != nil {
			return err
		}
	}
	return nil
}

func (r *renderer) renderNode(n Node, locals starlark.StringDict) error {
	switch node := n.(type) {
	case *TextNode:
		r.out.WriteString(node.Text)
		return nil

	case *ExprNode:
		s, err := r.ctx.EvalExprStringWithLocals(node.Expr, r.file, node.Pos().Line, locals)
		if err != nil {
			return WrapRenderError(node.Pos(), "expression failed", err)
		}
		r.out.WriteString(s)
		return nil

	case *ForBlock:
		return r.renderFor(node, locals)

	case *IfBlock:
		return r.renderIf(node, locals)

	default:
		return NewRenderErrorf(n.Pos(), "unsupported node %T", n)
	}
}

func (r *renderer) renderFor(block *ForBlock, locals starlark.StringDict) error {
	value, err := r.ctx.EvalExprWithLocals(block.IterExpr, r.file, block.Pos().Line, locals)
	if err != nil {
		return WrapRenderError(block.Pos(), "for iterable failed", err)
	}

	iterable, ok := value.(starlark.Iterable)
	if !ok {
		return NewRenderErrorf(block.Pos(), "cannot iterate over %s", value.Type())
	}

	iter := iterable.Iterate()
	defer iter.Done()

	scope := make(starlark.StringDict, len(locals)+1)
	maps.Copy(scope, locals)

	var item starlark.Value
	for iter.Next(&item) {
		scope[block.VarName] = item
		if err := r.renderNodes(block.Body, scope); err != nil {
			return err
		}
	}
	return nil
}

func (r *renderer) renderIf(block *IfBlock, locals starlark.StringDict) error {
	ok, err := r.truth(block.Condition, block.Pos(), locals)
	if err != nil {
		return err
	}
	if ok {
		return r.renderNodes(block.Body, locals)
	}

	for _, branch := range block.ElseIfs {
		ok, err := r.truth(branch.Condition, branch.pos, locals)
		if err != nil {
			return err
		}
		if ok {
			return r.renderNodes(branch.Body, locals)
		}
	}

	return r.renderNodes(block.Else, locals)
}

func (r *renderer) truth(expr string, pos Position, locals starlark.StringDict) (bool, error) {
	value, err := r.ctx.EvalExprWithLocals(expr, r.file, pos.Line, locals)
	if err != nil {
		return false, WrapRenderError(pos, "condition failed", err)
	}
	return bool(value.Truth()), nil
}
