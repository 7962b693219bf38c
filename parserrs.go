package nam

import (
	"errors"
	"strconv"
)

// BracketError is an error indicating unmatched brackets in the input. It
// implements InputError.
type BracketError struct {
	// Col is the position of the bracket.
	Col int
	// Left is the opening bracket, or empty for a close with no open.
	Left string
	// Right is the closing bracket, or empty for an open with no close.
	Right string
}

func (err *BracketError) Error() string {
	if err.Left == "" {
		return errpos(err.Col, "close bracket "+err.Right+" with no open bracket")
	}
	if err.Right == "" {
		return errpos(err.Col, "open bracket "+err.Left+" with no close bracket")
	}
	return errpos(err.Col, "mismatched bracket: "+err.Left+"expr"+err.Right)
}

func (err *BracketError) Pos() int {
	return err.Col
}

// EmptyExpressionError is an error indicating that input ended, or a
// terminator appeared, where an expression was required. It implements
// InputError.
type EmptyExpressionError struct {
	// Col is the position of the token that ended the expression.
	Col int
	// End is the token that ended the expression.
	End string
}

func (err *EmptyExpressionError) Error() string {
	if err.End == "" {
		return errpos(err.Col, "unexpected end of input")
	}
	return errpos(err.Col, "no expression up to "+err.End)
}

func (err *EmptyExpressionError) Pos() int {
	return err.Col
}

// IncompleteError is an error indicating that input ended inside a matrix
// literal. Supplying more input may complete the statement. It implements
// InputError.
type IncompleteError struct {
	// Col is the position of the end of input.
	Col int
	// Open is the position of the unclosed [.
	Open int
}

func (err *IncompleteError) Error() string {
	return errpos(err.Col, "incomplete statement: [ at "+strconv.Itoa(err.Open)+" is not closed")
}

func (err *IncompleteError) Pos() int {
	return err.Col
}

// IsIncomplete reports whether err indicates a statement that more input
// could complete.
func IsIncomplete(err error) bool {
	var ie *IncompleteError
	return errors.As(err, &ie)
}

// ExpressionError is an error indicating an operand or operator where the
// other was required, e.g. "1 2" or "* 3". It implements InputError.
type ExpressionError struct {
	// Col is the position of the misplaced token.
	Col int
	// Found is the misplaced token.
	Found string
}

func (err *ExpressionError) Error() string {
	return errpos(err.Col, "invalid arithmetic expression at "+err.Found)
}

func (err *ExpressionError) Pos() int {
	return err.Col
}

// EmptyElementError is an error indicating a matrix cell with no expression,
// as in "[1,,2]". It implements InputError.
type EmptyElementError struct {
	// Col is the position of the separator following the empty cell.
	Col int
}

func (err *EmptyElementError) Error() string {
	return errpos(err.Col, "empty matrix element")
}

func (err *EmptyElementError) Pos() int {
	return err.Col
}

// RowLengthError is an error indicating a matrix literal row with a different
// number of cells than the row before it. It implements InputError.
type RowLengthError struct {
	// Col is the position of the token that ended the row.
	Col int
	// Want is the length of the previous row.
	Want int
	// Got is the length of the offending row.
	Got int
}

func (err *RowLengthError) Error() string {
	return errpos(err.Col, "dimensions mismatch ("+strconv.Itoa(err.Want)+" vs "+strconv.Itoa(err.Got)+")")
}

func (err *RowLengthError) Pos() int {
	return err.Col
}

// TokenError is an error indicating a token that cannot appear where it was
// found. It implements InputError.
type TokenError struct {
	// Col is the position of the token.
	Col int
	// Expected describes what the parser wanted.
	Expected string
	// Found describes the token.
	Found string
}

func (err *TokenError) Error() string {
	return errpos(err.Col, "unexpected token "+err.Found+", expected "+err.Expected)
}

func (err *TokenError) Pos() int {
	return err.Col
}

// errpos is a shortcut to create an error message with a position.
func errpos(pos int, msg string) string {
	return strconv.Itoa(pos) + ": " + msg
}

// InputError is an error with position information. Every error resulting from
// invalid input implements InputError.
type InputError interface {
	error
	// Pos returns the position of the error as the number of runes up to and
	// including the start of the token that caused the error.
	Pos() int
}

var (
	_ InputError = (*BracketError)(nil)
	_ InputError = (*EmptyExpressionError)(nil)
	_ InputError = (*IncompleteError)(nil)
	_ InputError = (*ExpressionError)(nil)
	_ InputError = (*EmptyElementError)(nil)
	_ InputError = (*RowLengthError)(nil)
	_ InputError = (*TokenError)(nil)
	_ InputError = (*LexError)(nil)
)
