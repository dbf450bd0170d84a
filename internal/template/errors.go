package template

import "fmt"

// Error is implemented by every error ParseString and Render return. The
// position points into the template file that failed.
type Error interface {
	error
	Position() Position
}

// located formats msg behind pos as "file:line:col: msg". In-memory
// sources have no file name.
func located(pos Position, msg string) string {
	if pos.File == "" {
		return fmt.Sprintf("%d:%d: %s", pos.Line, pos.Column, msg)
	}
	return fmt.Sprintf("%s:%d:%d: %s", pos.File, pos.Line, pos.Column, msg)
}

// LexError reports a tag that is opened but never closed.
type LexError struct {
	Pos Position
	Msg string
}

// NewLexError creates a lexer error.
func NewLexError(pos Position, msg string) *LexError {
	return &LexError{Pos: pos, Msg: msg}
}

// NewLexErrorf creates a lexer error with a formatted message.
func NewLexErrorf(pos Position, format string, args ...any) *LexError {
	return NewLexError(pos, fmt.Sprintf(format, args...))
}

func (e *LexError) Error() string { return located(e.Pos, e.Msg) }
func (e *LexError) Position() Position { return e.Pos }

// ParseError reports a malformed {{ }} or {* *} tag.
type ParseError struct {
	Pos Position
	Msg string
}

// NewParseErrorf creates a parse error with a formatted message.
func NewParseErrorf(pos Position, format string, args ...any) *ParseError {
	return &ParseError{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

func (e *ParseError) Error() string { return located(e.Pos, e.Msg) }
func (e *ParseError) Position() Position { return e.Pos }

// UnmatchedBlockError reports a {* for *} or {* if *} block that is never
// closed, or a closing tag with no block to close.
type UnmatchedBlockError struct {
	Pos       Position
	BlockKind StmtKind
}

// NewUnmatchedBlockError creates an unmatched block error for kind.
func NewUnmatchedBlockError(pos Position, kind StmtKind) *UnmatchedBlockError {
	return &UnmatchedBlockError{Pos: pos, BlockKind: kind}
}

func (e *UnmatchedBlockError) Error() string {
	var msg string
	switch e.BlockKind {
	case StmtFor:
		msg = "{* for *} block is never closed with {* endfor *}"
	case StmtIf:
		msg = "{* if *} block is never closed with {* endif *}"
	case StmtEndFor, StmtEndIf, StmtElse, StmtElif:
		msg = fmt.Sprintf("{* %s *} outside of a matching block", e.BlockKind)
	default:
		msg = fmt.Sprintf("unmatched {* %s *}", e.BlockKind)
	}
	return located(e.Pos, msg)
}

func (e *UnmatchedBlockError) Position() Position { return e.Pos }

// RenderError reports a failure while evaluating a parsed template against
// the render context. Cause is the Starlark error when there is one.
type RenderError struct {
	Pos   Position
	Msg   string
	Cause error
}

// NewRenderErrorf creates a render error with a formatted message.
func NewRenderErrorf(pos Position, format string, args ...any) *RenderError {
	return &RenderError{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

// WrapRenderError attaches the template position to cause.
func WrapRenderError(pos Position, msg string, cause error) *RenderError {
	return &RenderError{Pos: pos, Msg: msg, Cause: cause}
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return located(e.Pos, e.Msg+": "+e.Cause.Error())
	}
	return located(e.Pos, e.Msg)
}

func (e *RenderError) Position() Position { return e.Pos }

func (e *RenderError) Unwrap() error { return e.Cause }
