package nam

import (
	"errors"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// Token is a lexical unit of the input.
type Token struct {
	// Kind is the category of the token.
	Kind TokenKind
	// Text is the source text of the token. For TokenEOL and TokenEOF it is
	// empty.
	Text string
	// Num is the value of a TokenNum.
	Num float64
	// Col is the 1-based rune position of the start of the token.
	Col int
}

func (t Token) String() string {
	switch t.Kind {
	case TokenNum, TokenIdent:
		return t.Kind.String() + " " + strconv.Quote(t.Text)
	case TokenOp, TokenOpen, TokenClose, TokenSep:
		return strconv.Quote(t.Text)
	default:
		return t.Kind.String()
	}
}

// TokenKind is the category of a Token.
type TokenKind int

const (
	tokenNone TokenKind = iota
	// TokenEOF indicates the end of the input.
	TokenEOF
	// TokenEOL is a line break.
	TokenEOL
	// TokenNum is a numeric literal.
	TokenNum
	// TokenIdent is a variable name.
	TokenIdent
	// TokenOp is a binary operator, including assignment.
	TokenOp
	// TokenOpen is an open bracket, ( or [.
	TokenOpen
	// TokenClose is a close bracket, ) or ].
	TokenClose
	// TokenSep is a separator, either , or ;.
	TokenSep
)

func (k TokenKind) String() string {
	switch k {
	case TokenEOF:
		return "end of input"
	case TokenEOL:
		return "end of line"
	case TokenNum:
		return "number"
	case TokenIdent:
		return "identifier"
	case TokenOp:
		return "operator"
	case TokenOpen:
		return "open bracket"
	case TokenClose:
		return "close bracket"
	case TokenSep:
		return "separator"
	default:
		return "TokenKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Operators contains the runes which are considered to be operators.
const Operators = "+-*/=^"

// OpenBrackets and CloseBrackets contain the runes which group expressions.
// A bracket in byte position k in OpenBrackets is matched with the bracket in
// byte position k in CloseBrackets.
const (
	OpenBrackets  = "(["
	CloseBrackets = ")]"
)

type lexer struct {
	src  io.RuneScanner
	buf  strings.Builder
	rune int
}

func lex(src io.RuneScanner) *lexer {
	return &lexer{
		src:  src,
		rune: 1,
	}
}

// Tokenize scans all tokens from src. The result always ends with a TokenEOF
// unless there is an error, in which case the tokens scanned so far are
// returned along with it.
func Tokenize(src io.RuneScanner) ([]Token, error) {
	l := lex(src)
	var toks []Token
	for {
		tok, err := l.next()
		if err != nil {
			return toks, err
		}
		toks = append(toks, tok)
		if tok.Kind == TokenEOF {
			return toks, nil
		}
	}
}

// TokenizeString is a shortcut to tokenize a string.
func TokenizeString(src string) ([]Token, error) {
	return Tokenize(strings.NewReader(src))
}

// readRune reads a rune from the src and updates the lexer's position info.
func (l *lexer) readRune() (r rune, err error) {
	r, sz, err := l.src.ReadRune()
	if sz > 0 {
		l.rune++
	}
	return r, err
}

// unreadRune unreads a rune from the src and updates the lexer's position
// info. Panics if unreading returns an error.
func (l *lexer) unreadRune() {
	if err := l.src.UnreadRune(); err != nil {
		panic(err)
	}
	l.rune--
}

// peekRune reports the next rune without consuming it. ok is false at EOF.
func (l *lexer) peekRune() (r rune, ok bool, err error) {
	r, err = l.readRune()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return 0, false, nil
		}
		return 0, false, err
	}
	l.unreadRune()
	return r, true, nil
}

// next scans the next token from the input.
func (l *lexer) next() (Token, error) {
	defer l.buf.Reset()
	tok := Token{Col: l.rune}
	for {
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				tok.Kind = TokenEOF
				return tok, nil
			}
			return tok, err
		}
		switch {
		case r == '\n':
			tok.Kind = TokenEOL
			return tok, nil
		case r == '\r':
			// \r\n is a single line break.
			n, ok, err := l.peekRune()
			if err != nil {
				return tok, err
			}
			if ok && n == '\n' {
				l.readRune()
			}
			tok.Kind = TokenEOL
			return tok, nil
		case unicode.IsSpace(r):
			tok.Col++
			continue
		case '0' <= r && r <= '9', r == '.':
			l.unreadRune()
			if err := l.scanNum(); err != nil {
				return tok, err
			}
			tok.Text = l.buf.String()
			tok.Kind = TokenNum
			tok.Num = parseNum(tok.Text)
			return tok, nil
		case r == '_', unicode.IsLetter(r):
			l.unreadRune()
			if err := l.scanIdent(); err != nil {
				return tok, err
			}
			tok.Text = l.buf.String()
			// inf looks like an identifier, so check for it here.
			switch tok.Text {
			case "inf", "Inf":
				tok.Kind = TokenNum
				tok.Num = math.Inf(1)
			default:
				tok.Kind = TokenIdent
			}
			return tok, nil
		case r == '∞':
			tok.Text = "∞"
			tok.Kind = TokenNum
			tok.Num = math.Inf(1)
			return tok, nil
		case r == ',', r == ';':
			tok.Text = string(r)
			tok.Kind = TokenSep
			return tok, nil
		default:
			tok.Text = string(r)
			switch {
			case strings.ContainsRune(Operators, r):
				tok.Kind = TokenOp
			case strings.ContainsRune(OpenBrackets, r):
				tok.Kind = TokenOpen
			case strings.ContainsRune(CloseBrackets, r):
				tok.Kind = TokenClose
			default:
				// Write the rune so that it shows up in the error message.
				l.buf.WriteRune(r)
				return Token{Col: tok.Col}, l.error("")
			}
			return tok, nil
		}
	}
}

// scanNum scans a numeric literal into l.buf. Underscores between digits are
// dropped.
func (l *lexer) scanNum() error {
	var dig, dot, e, le, ed bool
	for {
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}
		if r == '+' || r == '-' {
			// + or - anywhere other than immediately following an exponent
			// marker means a new token, as it is an operator.
			if !le {
				l.unreadRune()
				break
			}
			le = false
			l.buf.WriteRune(r)
			continue
		}
		if r == '_' {
			continue
		}
		if r != 'e' && r != 'E' && r != '.' && !unicode.IsDigit(r) {
			if unicode.IsLetter(r) {
				l.buf.WriteRune(r)
				return l.error("number")
			}
			l.unreadRune()
			break
		}
		l.buf.WriteRune(r)
		switch r {
		case '.':
			if dot || e {
				return l.error("number")
			}
			dot = true
			le = false
		case 'e', 'E':
			if !dig || e {
				return l.error("number")
			}
			e = true
			le = true
		case '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
			if e {
				ed = true
			} else {
				dig = true
			}
			le = false
		default:
			return l.error("number")
		}
	}
	if !dig || (e && !ed) {
		return l.error("number")
	}
	return nil
}

func (l *lexer) scanIdent() error {
	for {
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				// next unreads the rune that decides ident scanning before
				// calling scanIdent, so we have scanned at least one rune.
				return nil
			}
			return err
		}
		switch {
		case r == '_', unicode.IsLetter(r), unicode.IsDigit(r):
			l.buf.WriteRune(r)
		default:
			l.unreadRune()
			return nil
		}
	}
}

// parseNum converts scanned number text. Literals too large for a float64
// become infinities.
func parseNum(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		var ne *strconv.NumError
		if errors.As(err, &ne) && errors.Is(ne.Err, strconv.ErrRange) {
			// ParseFloat already returns ±Inf or ±0 for range errors.
			return f
		}
		panic("nam: invalid number: " + s + " (" + err.Error() + ")")
	}
	return f
}

func (l *lexer) error(kind string) error {
	return &LexError{
		Text: l.buf.String(),
		Kind: kind,
		Col:  l.rune,
	}
}

// LexError indicates an invalid token. It implements InputError.
type LexError struct {
	// Text is the token the lexer was scanning when the invalid rune was
	// encountered, plus the invalid rune.
	Text string
	// Kind is the type of token the lexer was scanning. This may be "number"
	// or the empty string (if a token kind hadn't been decided).
	Kind string
	// Col is the total number of runes scanned by the lexer up to and
	// including this error.
	Col int
}

func (err *LexError) Error() string {
	pos := "column " + strconv.Itoa(err.Col)
	if err.Kind == "" {
		return "invalid token at " + pos + ": " + err.Text
	}
	return "invalid " + err.Kind + " token at " + pos + ": " + err.Text
}

func (err *LexError) Pos() int {
	return err.Col
}
