package nam

import (
	"io"
	"strings"
)

// Stmt = Expr (EOF | EOL | ';')
// Expr = Operand { Op Operand }
// Operand = num | name | Matrix | '(' Expr ')'
// Matrix = '[' ']' | '[' Expr { [','] Expr | (';' | EOL) Expr } ']'
// Op = '+' | '-' | '*' | '/' | '^' | '='

// Parser parses statements from a token sequence one at a time.
type Parser struct {
	toks []Token
	pos  int
}

// NewParser creates a parser over toks. If toks does not end with a
// TokenEOF, one is added.
func NewParser(toks []Token) *Parser {
	if len(toks) == 0 || toks[len(toks)-1].Kind != TokenEOF {
		col := 1
		if len(toks) > 0 {
			last := toks[len(toks)-1]
			col = last.Col + len([]rune(last.Text))
		}
		toks = append(toks[:len(toks):len(toks)], Token{Kind: TokenEOF, Col: col})
	}
	return &Parser{toks: toks}
}

// ParseTokens parses exactly one statement from toks.
func ParseTokens(toks []Token) (*Stmt, error) {
	p := NewParser(toks)
	s, err := p.Next()
	if err == io.EOF {
		return nil, &EmptyExpressionError{Col: p.peek().Col}
	}
	return s, err
}

// Parse parses every statement in src.
func Parse(src io.RuneScanner) ([]*Stmt, error) {
	toks, err := Tokenize(src)
	if err != nil {
		return nil, err
	}
	p := NewParser(toks)
	var stmts []*Stmt
	for {
		s, err := p.Next()
		if err != nil {
			if err == io.EOF {
				return stmts, nil
			}
			return nil, err
		}
		stmts = append(stmts, s)
	}
}

// ParseString is a shortcut to parse every statement in a string.
func ParseString(src string) ([]*Stmt, error) {
	return Parse(strings.NewReader(src))
}

// Next parses the next statement. Blank lines are skipped. At the end of the
// input, the error is io.EOF. After any other error, the rest of the input is
// discarded and later calls return io.EOF.
func (p *Parser) Next() (*Stmt, error) {
	for p.peek().Kind == TokenEOL {
		p.advance()
	}
	if p.peek().Kind == TokenEOF {
		return nil, io.EOF
	}
	s, err := p.stmt()
	if err != nil {
		p.pos = len(p.toks) - 1
		return nil, err
	}
	return s, nil
}

func (p *Parser) stmt() (*Stmt, error) {
	n, err := p.parseExpr(false)
	if err != nil {
		return nil, err
	}
	tok := p.advance()
	if n == nil {
		return nil, &EmptyExpressionError{Col: tok.Col, End: endtext(tok)}
	}
	s := Stmt{Expr: n}
	switch {
	case tok.Kind == TokenEOF, tok.Kind == TokenEOL:
		s.PrintResult = true
	case tok.Kind == TokenSep && tok.Text == ";":
		s.PrintResult = false
	default:
		return nil, &TokenError{Col: tok.Col, Expected: "end of statement", Found: tok.String()}
	}
	s.decorate()
	return &s, nil
}

// peek returns the next token without consuming it.
func (p *Parser) peek() Token {
	return p.toks[p.pos]
}

// advance consumes and returns the next token. The final EOF is never
// consumed.
func (p *Parser) advance() Token {
	tok := p.toks[p.pos]
	if tok.Kind != TokenEOF {
		p.pos++
	}
	return tok
}

// pending is an entry on the operator stack: an operator or an open paren.
type pending struct {
	op    Operator
	paren bool
	col   int
}

// parseExpr parses one expression with an operator stack. It stops without
// consuming the first token that cannot continue the expression. If no tokens
// were consumed, the result is nil with no error; callers must create an
// error in contexts where empty expressions are illegal.
//
// Inside a matrix literal, an operand that directly follows another operand
// outside any parentheses starts the next cell, so it ends the expression.
func (p *Parser) parseExpr(inMatrix bool) (*Node, error) {
	var (
		out   []*Node
		ops   []pending
		depth int
		last  bool // last token was an operand
	)
loop:
	for {
		tok := p.peek()
		switch tok.Kind {
		case TokenNum, TokenIdent:
			if last {
				if inMatrix && depth == 0 {
					break loop
				}
				return nil, &ExpressionError{Col: tok.Col, Found: tok.String()}
			}
			p.advance()
			if tok.Kind == TokenNum {
				out = append(out, Number(tok.Num))
			} else {
				out = append(out, Variable(tok.Text))
			}
			last = true
		case TokenOpen:
			if last {
				if tok.Text == "[" && inMatrix && depth == 0 {
					break loop
				}
				return nil, &ExpressionError{Col: tok.Col, Found: tok.String()}
			}
			p.advance()
			if tok.Text == "[" {
				m, err := p.parseMatrix(tok)
				if err != nil {
					return nil, err
				}
				out = append(out, m)
				last = true
				continue
			}
			ops = append(ops, pending{paren: true, col: tok.Col})
			depth++
			last = false
		case TokenClose:
			if tok.Text == "]" {
				for i := len(ops) - 1; i >= 0; i-- {
					if ops[i].paren {
						return nil, &BracketError{Col: ops[i].col, Left: "(", Right: "]"}
					}
				}
				break loop
			}
			if !last {
				return nil, &ExpressionError{Col: tok.Col, Found: tok.String()}
			}
			p.advance()
			for {
				if len(ops) == 0 {
					return nil, &BracketError{Col: tok.Col, Right: tok.Text}
				}
				top := ops[len(ops)-1]
				ops = ops[:len(ops)-1]
				if top.paren {
					break
				}
				out = append(out, OperatorNode(top.op))
			}
			depth--
			last = true
		case TokenOp:
			op := binop(tok.Text)
			if op == opNone {
				panic("nam: lexed unknown operator " + tok.String())
			}
			if !last {
				return nil, &ExpressionError{Col: tok.Col, Found: tok.String()}
			}
			p.advance()
			for len(ops) > 0 {
				top := ops[len(ops)-1]
				if top.paren || !bindsFirst(top.op, op) {
					break
				}
				out = append(out, OperatorNode(top.op))
				ops = ops[:len(ops)-1]
			}
			ops = append(ops, pending{op: op, col: tok.Col})
			last = false
		default:
			// Terminators and separators end the expression.
			break loop
		}
	}

	for len(ops) > 0 {
		top := ops[len(ops)-1]
		ops = ops[:len(ops)-1]
		if top.paren {
			return nil, &BracketError{Col: top.col, Left: "("}
		}
		out = append(out, OperatorNode(top.op))
	}
	switch {
	case len(out) == 0:
		return nil, nil
	case !last:
		tok := p.peek()
		return nil, &ExpressionError{Col: tok.Col, Found: tok.String()}
	case len(out) == 1:
		return out[0], nil
	}
	// Store reversed so evaluation pops from the back.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return &Node{kind: NodePostfix, seq: out}, nil
}

// bindsFirst reports whether the operator top, already on the stack, must be
// applied before incoming.
func bindsFirst(top, incoming Operator) bool {
	if top.Prec() != incoming.Prec() {
		return top.Prec() > incoming.Prec()
	}
	return !incoming.RightAssoc()
}

// parseMatrix parses the rest of a matrix literal after its open bracket.
// Cells in a row are separated by commas or juxtaposition; rows are separated
// by semicolons or line breaks.
func (p *Parser) parseMatrix(open Token) (*Node, error) {
	for p.peek().Kind == TokenEOL {
		p.advance()
	}
	if tok := p.peek(); tok.Kind == TokenClose && tok.Text == "]" {
		p.advance()
		return MatrixLit(nil), nil
	}

	rows := [][]*Node{nil}
	comma := true // no cell since the last comma, or start of the literal
	newline := false
	for {
		tok := p.peek()
		switch {
		case tok.Kind == TokenEOF:
			return nil, &IncompleteError{Col: tok.Col, Open: open.Col}
		case tok.Kind == TokenClose && tok.Text == "]":
			p.advance()
			if err := checkRow(rows, tok); err != nil {
				return nil, err
			}
			return MatrixLit(rows), nil
		case tok.Kind == TokenSep && tok.Text == ",":
			if comma {
				return nil, &EmptyElementError{Col: tok.Col}
			}
			p.advance()
			comma = true
		case tok.Kind == TokenSep && tok.Text == ";":
			if len(rows) == 1 && len(rows[0]) == 0 {
				return nil, &EmptyElementError{Col: tok.Col}
			}
			if err := checkRow(rows, tok); err != nil {
				return nil, err
			}
			p.advance()
			rows = append(rows, nil)
			newline = false
		case tok.Kind == TokenEOL:
			p.advance()
			// A line break ends a row only if the row has cells and does not
			// end with a comma.
			newline = newline || (!comma && len(rows[len(rows)-1]) > 0)
		default:
			if newline {
				if err := checkRow(rows, tok); err != nil {
					return nil, err
				}
				rows = append(rows, nil)
				newline = false
			}
			cell, err := p.parseExpr(true)
			if err != nil {
				return nil, err
			}
			if cell == nil {
				tok := p.peek()
				return nil, &TokenError{Col: tok.Col, Expected: "matrix element", Found: tok.String()}
			}
			rows[len(rows)-1] = append(rows[len(rows)-1], cell)
			comma = false
		}
	}
}

// checkRow verifies that the last row has as many cells as the row before it.
func checkRow(rows [][]*Node, end Token) error {
	if len(rows) < 2 {
		return nil
	}
	prev, cur := len(rows[len(rows)-2]), len(rows[len(rows)-1])
	if prev != cur {
		return &RowLengthError{Col: end.Col, Want: prev, Got: cur}
	}
	return nil
}

// endtext describes a token that ended an expression for error messages.
func endtext(tok Token) string {
	switch tok.Kind {
	case TokenEOF:
		return ""
	case TokenEOL:
		return "end of line"
	default:
		return tok.Text
	}
}
