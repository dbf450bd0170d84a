// Package template implements the text template language used by scaffold
// templates. {{ expr }} substitutes the value of a Starlark expression,
// {* stmt *} drives control flow (for / if / elif / else) and {# ... #} is a
// comment. Any tag may carry a '-' marker on either side to strip adjacent
// whitespace, e.g. {*- endfor -*}.
package template

// Position tracks source location for error reporting.
type Position struct {
	File   string
	Line   int
	Column int
}

// Node is the interface for all template AST nodes.
type Node interface {
	Pos() Position
	node()
}

type nodeBase struct {
	pos Position
}

func (n *nodeBase) Pos() Position { return n.pos }
func (n *nodeBase) node()         {}

// TextNode is literal file content, emitted unchanged.
type TextNode struct {
	nodeBase
	Text string
}

// ExprNode is a {{ expr }} substitution. Expr holds the Starlark source
// without delimiters.
type ExprNode struct {
	nodeBase
	Expr string
}

// StmtKind identifies the type of control flow statement.
type StmtKind int

// StmtKind constants for control flow statement types.
const (
	StmtUnknown StmtKind = iota
	StmtFor              // {* for x in items: *}
	StmtEndFor           // {* endfor *}
	StmtIf               // {* if cond: *}
	StmtElif             // {* elif cond: *}
	StmtElse             // {* else: *}
	StmtEndIf            // {* endif *}
)

func (k StmtKind) String() string {
	switch k {
	case StmtFor:
		return "for"
	case StmtEndFor:
		return "endfor"
	case StmtIf:
		return "if"
	case StmtElif:
		return "elif"
	case StmtElse:
		return "else"
	case StmtEndIf:
		return "endif"
	default:
		return "unknown"
	}
}

// stmt is a classified {* *} tag before block assembly.
type stmt struct {
	kind    StmtKind
	expr    string // condition (if/elif) or iterable (for)
	varName string // loop variable (for)
	pos     Position
}

// ForBlock is a for loop with its body.
type ForBlock struct {
	nodeBase
	VarName  string
	IterExpr string
	Body     []Node
}

// IfBlock is an if/elif/else conditional.
type IfBlock struct {
	nodeBase
	Condition string
	Body      []Node
	ElseIfs   []Branch
	Else      []Node // nil when there is no else branch
}

// Branch is one elif branch.
type Branch struct {
	Condition string
	Body      []Node
	pos       Position
}

// Template is a parsed template.
type Template struct {
	Nodes []Node
	File  string
}
