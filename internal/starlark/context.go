package starlark

import (
	"fmt"
	"maps"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// ExecutionContext provides the globals for template expression evaluation.
// It is built once per scaffold run and shared by every render call; it is
// never mutated after construction.
type ExecutionContext struct {
	// Vars are the run variables the globals were built from.
	Vars Vars

	// globals is the frozen combined set of all globals for execution
	globals starlark.StringDict
}

// ContextOption is a functional option for configuring ExecutionContext.
type ContextOption func(*contextOptions)

type contextOptions struct {
	extra starlark.StringDict
}

// WithGlobals adds extra globals on top of the run variables.
// Names that collide with a predeclared global are rejected by
// NewExecutionContext.
func WithGlobals(extra starlark.StringDict) ContextOption {
	return func(o *contextOptions) {
		if o.extra == nil {
			o.extra = make(starlark.StringDict, len(extra))
		}
		maps.Copy(o.extra, extra)
	}
}

// NewExecutionContext creates an execution context for vars.
func NewExecutionContext(vars Vars, opts ...ContextOption) (*ExecutionContext, error) {
	var o contextOptions
	for _, opt := range opts {
		opt(&o)
	}

	base := Predeclared(vars)
	globals := make(starlark.StringDict, len(base)+len(o.extra))
	maps.Copy(globals, base)

	for name, value := range o.extra {
		if _, ok := base[name]; ok {
			return nil, fmt.Errorf("global %q conflicts with builtin", name)
		}
		globals[name] = value
	}
	globals.Freeze()

	return &ExecutionContext{Vars: vars, globals: globals}, nil
}

// Globals returns the combined globals dictionary for Starlark execution.
func (ctx *ExecutionContext) Globals() starlark.StringDict {
	return ctx.globals
}

// EvalExpr evaluates a single Starlark expression and returns the result.
func (ctx *ExecutionContext) EvalExpr(expr string, filename string, line int) (starlark.Value, error) {
	return ctx.EvalExprWithLocals(expr, filename, line, nil)
}

// EvalExprWithLocals evaluates a Starlark expression with additional local
// variables, e.g. loop variables. Locals shadow globals.
func (ctx *ExecutionContext) EvalExprWithLocals(expr string, filename string, line int, locals starlark.StringDict) (starlark.Value, error) {
	thread := ctx.newThread(filename)

	globals := ctx.globals
	if len(locals) > 0 {
		combined := make(starlark.StringDict, len(globals)+len(locals))
		maps.Copy(combined, globals)
		maps.Copy(combined, locals)
		globals = combined
	}

	result, err := starlark.EvalOptions(&syntax.FileOptions{}, thread, filename, expr, globals)
	if err != nil {
		return nil, &EvalError{
			File:    filename,
			Line:    line,
			Expr:    expr,
			Message: err.Error(),
		}
	}

	return result, nil
}

// EvalExprString evaluates a Starlark expression and returns the string result.
func (ctx *ExecutionContext) EvalExprString(expr string, filename string, line int) (string, error) {
	return ctx.EvalExprStringWithLocals(expr, filename, line, nil)
}

// EvalExprStringWithLocals evaluates a Starlark expression with local
// variables and returns the string result. Strings are returned raw, None
// renders as the empty string.
func (ctx *ExecutionContext) EvalExprStringWithLocals(expr string, filename string, line int, locals starlark.StringDict) (string, error) {
	result, err := ctx.EvalExprWithLocals(expr, filename, line, locals)
	if err != nil {
		return "", err
	}

	switch v := result.(type) {
	case starlark.String:
		return string(v), nil
	case starlark.NoneType:
		return "", nil
	default:
		return result.String(), nil
	}
}

func (ctx *ExecutionContext) newThread(name string) *starlark.Thread {
	return &starlark.Thread{
		Name: name,
		// Templates must not print.
		Print: func(_ *starlark.Thread, _ string) {},
	}
}

// EvalError represents an error during Starlark expression evaluation.
type EvalError struct {
	File    string
	Line    int
	Expr    string
	Message string
}

func (e *EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: error evaluating %q: %s", e.File, e.Line, e.Expr, e.Message)
	}
	return fmt.Sprintf("%s: error evaluating %q: %s", e.File, e.Expr, e.Message)
}
