package template

import (
	"strings"
	"unicode/utf8"
)

// TokenType identifies the type of token.
type TokenType int

// TokenType constants for template token types.
const (
	TokenText    TokenType = iota // Literal file content
	TokenExpr                     // Expression content (between {{ and }})
	TokenStmt                     // Statement content (between {* and *})
	TokenComment                  // Comment content (between {# and #}), never rendered
	TokenEOF                      // End of input
)

func (t TokenType) String() string {
	switch t {
	case TokenText:
		return "TEXT"
	case TokenExpr:
		return "EXPR"
	case TokenStmt:
		return "STMT"
	case TokenComment:
		return "COMMENT"
	case TokenEOF:
		return "EOF"
	default:
		return "UNKNOWN"
	}
}

// Token represents a lexical token.
//
// TrimLeft and TrimRight record the whitespace-control markers of a tag:
// "{{-" / "{*-" / "{#-" strip whitespace before the tag and "-}}" / "-*}" /
// "-#}" strip whitespace after it.
type Token struct {
	Type      TokenType
	Value     string
	Pos       Position
	TrimLeft  bool
	TrimRight bool
}

// delimiters describes one kind of tag.
type delimiters struct {
	open, close string
	kind        TokenType
	what        string
}

var tags = []delimiters{
	{open: "{{", close: "}}", kind: TokenExpr, what: "expression"},
	{open: "{*", close: "*}", kind: TokenStmt, what: "statement"},
	{open: "{#", close: "#}", kind: TokenComment, what: "comment"},
}

// Lexer tokenizes a template string.
type Lexer struct {
	input    string
	file     string
	pos      int // current position in input
	line     int // current line number (1-based)
	col      int // current column number (1-based)
	lastLine int // line at start of current token
	lastCol  int // column at start of current token
}

// NewLexer creates a new lexer for the given input.
func NewLexer(input, file string) *Lexer {
	return &Lexer{
		input: input,
		file:  file,
		line:  1,
		col:   1,
	}
}

// Tokenize converts the input into a slice of tokens.
func (l *Lexer) Tokenize() ([]Token, error) {
	var tokens []Token

	for {
		tok, err := l.nextToken()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Type == TokenEOF {
			break
		}
	}

	return tokens, nil
}

func (l *Lexer) nextToken() (Token, error) {
	if l.pos >= len(l.input) {
		return Token{Type: TokenEOF, Pos: l.position()}, nil
	}

	if d, ok := l.matchOpen(); ok {
		return l.scanTag(d)
	}

	return l.scanText()
}

// matchOpen reports which tag, if any, opens at the current position.
func (l *Lexer) matchOpen() (delimiters, bool) {
	for _, d := range tags {
		if l.matchString(d.open) {
			return d, true
		}
	}
	return delimiters{}, false
}

// scanText scans literal text until a tag opens or input ends.
func (l *Lexer) scanText() (Token, error) {
	l.markStart()
	start := l.pos

	for l.pos < len(l.input) {
		if _, ok := l.matchOpen(); ok {
			break
		}
		l.advance()
	}

	if l.pos == start {
		return Token{}, NewLexError(l.position(), "unexpected state in lexer")
	}

	return Token{
		Type:  TokenText,
		Value: l.input[start:l.pos],
		Pos:   l.startPosition(),
	}, nil
}

// scanTag scans a tag body up to its closing delimiter. Expressions track
// brace depth so that dict literals such as {{ {"a": 1}["a"] }} close
// correctly.
func (l *Lexer) scanTag(d delimiters) (Token, error) {
	l.markStart()
	l.skip(len(d.open))

	tok := Token{Type: d.kind, Pos: l.startPosition()}
	if l.matchString("-") {
		tok.TrimLeft = true
		l.advance()
	}

	bodyStart := l.pos
	depth := 0

	for l.pos < len(l.input) {
		if depth == 0 {
			if l.matchString("-" + d.close) {
				tok.TrimRight = true
				tok.Value = strings.TrimSpace(l.input[bodyStart:l.pos])
				l.skip(1 + len(d.close))
				return tok, nil
			}
			if l.matchString(d.close) {
				tok.Value = strings.TrimSpace(l.input[bodyStart:l.pos])
				l.skip(len(d.close))
				return tok, nil
			}
		}

		if d.kind == TokenExpr {
			switch l.peek() {
			case '{':
				depth++
			case '}':
				if depth > 0 {
					depth--
				}
			}
		}

		l.advance()
	}

	return Token{}, NewLexErrorf(l.startPosition(), "unclosed %s: missing '%s'", d.what, d.close)
}

// peek returns the current rune without advancing.
func (l *Lexer) peek() rune {
	if l.pos >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.pos:])
	return r
}

// advance moves to the next rune, updating position tracking.
func (l *Lexer) advance() {
	if l.pos >= len(l.input) {
		return
	}

	r, size := utf8.DecodeRuneInString(l.input[l.pos:])
	l.pos += size

	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
}

// skip advances over n bytes of ASCII delimiter text.
func (l *Lexer) skip(n int) {
	l.pos += n
	l.col += n
}

func (l *Lexer) matchString(s string) bool {
	return strings.HasPrefix(l.input[l.pos:], s)
}

func (l *Lexer) markStart() {
	l.lastLine = l.line
	l.lastCol = l.col
}

func (l *Lexer) position() Position {
	return Position{File: l.file, Line: l.line, Column: l.col}
}

func (l *Lexer) startPosition() Position {
	return Position{File: l.file, Line: l.lastLine, Column: l.lastCol}
}
