package template

import (
	"slices"
	"strings"
	"unicode"
)

// ParseString parses template source. file is used only for positions in
// error messages.
func ParseString(input, file string) (*Template, error) {
	tokens, err := NewLexer(input, file).Tokenize()
	if err != nil {
		return nil, err
	}
	applyWhitespaceControl(tokens)

	p := &parser{tokens: tokens}
	nodes, term, err := p.parseNodes()
	if err != nil {
		return nil, err
	}
	if term != nil {
		return nil, NewUnmatchedBlockError(term.pos, term.kind)
	}

	return &Template{Nodes: nodes, File: file}, nil
}

// applyWhitespaceControl strips whitespace from text tokens adjacent to tags
// carrying a '-' marker.
func applyWhitespaceControl(tokens []Token) {
	for i := range tokens {
		if tokens[i].TrimLeft && i > 0 && tokens[i-1].Type == TokenText {
			tokens[i-1].Value = strings.TrimRightFunc(tokens[i-1].Value, unicode.IsSpace)
		}
		if tokens[i].TrimRight && i+1 < len(tokens) && tokens[i+1].Type == TokenText {
			tokens[i+1].Value = strings.TrimLeftFunc(tokens[i+1].Value, unicode.IsSpace)
		}
	}
}

type parser struct {
	tokens []Token
	pos    int
}

// parseNodes collects nodes until EOF or until a statement of one of the
// stop kinds, which is consumed and returned. A terminating statement that
// is not expected here is reported as unmatched.
func (p *parser) parseNodes(stops ...StmtKind) ([]Node, *stmt, error) {
	var nodes []Node

	for p.pos < len(p.tokens) {
		tok := p.tokens[p.pos]
		p.pos++

		switch tok.Type {
		case TokenEOF:
			return nodes, nil, nil

		case TokenText:
			if tok.Value != "" {
				nodes = append(nodes, &TextNode{nodeBase: nodeBase{pos: tok.Pos}, Text: tok.Value})
			}

		case TokenComment:

		case TokenExpr:
			if tok.Value == "" {
				return nil, nil, NewParseErrorf(tok.Pos, "empty expression")
			}
			nodes = append(nodes, &ExprNode{nodeBase: nodeBase{pos: tok.Pos}, Expr: tok.Value})

		case TokenStmt:
			s, err := classify(tok)
			if err != nil {
				return nil, nil, err
			}

			if slices.Contains(stops, s.kind) {
				return nodes, s, nil
			}

			switch s.kind {
			case StmtFor:
				block, err := p.parseFor(s)
				if err != nil {
					return nil, nil, err
				}
				nodes = append(nodes, block)
			case StmtIf:
				block, err := p.parseIf(s)
				if err != nil {
					return nil, nil, err
				}
				nodes = append(nodes, block)
			default:
				return nil, nil, NewUnmatchedBlockError(s.pos, s.kind)
			}
		}
	}

	return nodes, nil, nil
}

func (p *parser) parseFor(open *stmt) (*ForBlock, error) {
	body, term, err := p.parseNodes(StmtEndFor)
	if err != nil {
		return nil, err
	}
	if term == nil {
		return nil, NewUnmatchedBlockError(open.pos, StmtFor)
	}

	return &ForBlock{
		nodeBase: nodeBase{pos: open.pos},
		VarName:  open.varName,
		IterExpr: open.expr,
		Body:     body,
	}, nil
}

func (p *parser) parseIf(open *stmt) (*IfBlock, error) {
	block := &IfBlock{nodeBase: nodeBase{pos: open.pos}, Condition: open.expr}

	body, term, err := p.parseNodes(StmtElif, StmtElse, StmtEndIf)
	if err != nil {
		return nil, err
	}
	block.Body = body

	for {
		if term == nil {
			return nil, NewUnmatchedBlockError(open.pos, StmtIf)
		}

		switch term.kind {
		case StmtEndIf:
			return block, nil

		case StmtElif:
			elif := term
			body, term, err = p.parseNodes(StmtElif, StmtElse, StmtEndIf)
			if err != nil {
				return nil, err
			}
			block.ElseIfs = append(block.ElseIfs, Branch{Condition: elif.expr, Body: body, pos: elif.pos})

		case StmtElse:
			body, term, err = p.parseNodes(StmtEndIf)
			if err != nil {
				return nil, err
			}
			if term == nil {
				return nil, NewUnmatchedBlockError(open.pos, StmtIf)
			}
			if body == nil {
				body = []Node{}
			}
			block.Else = body
			return block, nil
		}
	}
}

// classify turns the body of a {* *} tag into a statement.
func classify(tok Token) (*stmt, error) {
	body := strings.TrimSpace(tok.Value)
	head := strings.TrimSpace(strings.TrimSuffix(body, ":"))
	s := &stmt{pos: tok.Pos}

	switch {
	case head == "endfor":
		s.kind = StmtEndFor
	case head == "endif":
		s.kind = StmtEndIf
	case head == "else":
		s.kind = StmtElse
	case strings.HasPrefix(head, "for "):
		varName, iter, ok := strings.Cut(strings.TrimPrefix(head, "for "), " in ")
		varName = strings.TrimSpace(varName)
		iter = strings.TrimSpace(iter)
		if !ok || iter == "" {
			return nil, NewParseErrorf(tok.Pos, "malformed for statement %q: expected 'for <name> in <expr>'", body)
		}
		if !isIdentifier(varName) {
			return nil, NewParseErrorf(tok.Pos, "invalid loop variable %q", varName)
		}
		s.kind = StmtFor
		s.varName = varName
		s.expr = iter
	case head == "if" || strings.HasPrefix(head, "if "):
		s.kind = StmtIf
		s.expr = strings.TrimSpace(strings.TrimPrefix(head, "if"))
	case head == "elif" || strings.HasPrefix(head, "elif "):
		s.kind = StmtElif
		s.expr = strings.TrimSpace(strings.TrimPrefix(head, "elif"))
	default:
		return nil, NewParseErrorf(tok.Pos, "unknown statement %q", body)
	}

	if (s.kind == StmtIf || s.kind == StmtElif) && s.expr == "" {
		return nil, NewParseErrorf(tok.Pos, "missing condition in %s statement", s.kind)
	}

	return s, nil
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == '_' || unicode.IsLetter(r) || (i > 0 && unicode.IsDigit(r)) {
			continue
		}
		return false
	}
	return true
}
