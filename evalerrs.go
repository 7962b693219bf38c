package nam

import (
	"errors"
	"strconv"
)

var (
	// ErrNestedMatrix is the error when a matrix literal cell evaluates to a
	// matrix.
	ErrNestedMatrix = errors.New("matrix literal cells must be scalars")
	// ErrSingular is the error when dividing by, or taking a negative power
	// of, a matrix that has no inverse.
	ErrSingular = errors.New("divisor matrix is not invertible")
	// ErrMalformed is the error when a postfix sequence does not reduce to
	// exactly one value.
	ErrMalformed = errors.New("invalid arithmetic expression")
	// ErrAssignTarget is the error when the left side of = is not a
	// variable.
	ErrAssignTarget = errors.New("cannot assign to a non-variable")
)

// NameError is an error from a lookup for a variable that is missing from the
// evaluation context.
type NameError struct {
	// Name is the name that was missing.
	Name string
}

func (err *NameError) Error() string {
	return "undefined variable: " + strconv.Quote(err.Name)
}

// WidthError is an error indicating a matrix row with a different number of
// cells than the first row.
type WidthError struct {
	Want, Got int
}

func (err *WidthError) Error() string {
	return "inconsistent matrix width: " + strconv.Itoa(err.Want) + " vs " + strconv.Itoa(err.Got)
}

// ShapeError is an error indicating matrix operands whose shapes do not suit
// an operator.
type ShapeError struct {
	Op          Operator
	Left, Right [2]int
}

func (err *ShapeError) Error() string {
	return "dimensions mismatch for " + err.Op.String() + ": " +
		shapeString(err.Left[0], err.Left[1]) + " vs " + shapeString(err.Right[0], err.Right[1])
}

func shapeErr(op Operator, l, r *Matrix) error {
	return &ShapeError{Op: op, Left: [2]int{l.rows, l.cols}, Right: [2]int{r.rows, r.cols}}
}

// DomainError is an error returned when an operator is applied to operands
// outside its domain.
type DomainError struct {
	// X is the out-of-domain scalar, if Kind is KindScalar.
	X float64
	// Kind is the kind of the offending operand.
	Kind ValueKind
	// Func is a name identifying the operation.
	Func string
}

func (err *DomainError) Error() string {
	if err.Kind == KindMatrix {
		return "unsupported matrix operand for " + err.Func
	}
	return strconv.FormatFloat(err.X, 'g', -1, 64) + " outside domain of " + err.Func
}
