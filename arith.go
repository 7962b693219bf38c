package nam

import (
	"math"
	"math/big"

	"github.com/zephyrtronium/bigfloat"
)

// Add returns l + r. A scalar operand is added to every cell of a matrix.
func Add(l, r Value) (Value, error) {
	return binary(OpAdd, l, r, 0)
}

// Sub returns l - r. A scalar operand is broadcast over every cell of a
// matrix, so s - M has cells s - M[i,j].
func Sub(l, r Value) (Value, error) {
	return binary(OpSub, l, r, 0)
}

// Mul returns l * r: the matrix product for two matrices, otherwise the
// product with each cell.
func Mul(l, r Value) (Value, error) {
	return binary(OpMul, l, r, 0)
}

// Div returns l / r. For two matrices this is l multiplied by the inverse of
// r; a scalar divided by a matrix has cells s / M[i,j].
func Div(l, r Value) (Value, error) {
	return binary(OpDiv, l, r, 0)
}

// Pow returns l ^ r. A matrix may only be raised to an integer scalar power.
func Pow(l, r Value) (Value, error) {
	return binary(OpPow, l, r, 0)
}

// binary applies an arithmetic operator. tol is the singularity tolerance
// used when a matrix must be inverted.
func binary(op Operator, l, r Value, tol float64) (Value, error) {
	switch {
	case l.kind == KindScalar && r.kind == KindScalar:
		return Scalar(scalarop(op, l.x, r.x)), nil
	case l.kind == KindMatrix && r.kind == KindMatrix:
		m, err := matrixop(op, l.m, r.m, tol)
		if err != nil {
			return Value{}, err
		}
		return matrixValue(m), nil
	case l.kind == KindMatrix:
		m, err := matscalar(op, l.m, r.x, tol)
		if err != nil {
			return Value{}, err
		}
		return matrixValue(m), nil
	default:
		m, err := scalarmat(op, l.x, r.m)
		if err != nil {
			return Value{}, err
		}
		return matrixValue(m), nil
	}
}

func scalarop(op Operator, x, y float64) float64 {
	switch op {
	case OpAdd:
		return x + y
	case OpSub:
		return x - y
	case OpMul:
		return x * y
	case OpDiv:
		return x / y
	case OpPow:
		return pow(x, y)
	default:
		panic("nam: arithmetic on operator " + op.String())
	}
}

func matrixop(op Operator, l, r *Matrix, tol float64) (*Matrix, error) {
	switch op {
	case OpAdd:
		return l.Add(r)
	case OpSub:
		return l.Sub(r)
	case OpMul:
		return l.Mul(r)
	case OpDiv:
		return l.div(r, tol)
	case OpPow:
		return nil, &DomainError{Func: "^", Kind: KindMatrix}
	default:
		panic("nam: arithmetic on operator " + op.String())
	}
}

func matscalar(op Operator, m *Matrix, s float64, tol float64) (*Matrix, error) {
	switch op {
	case OpAdd:
		return m.AddScalar(s), nil
	case OpSub:
		return m.SubScalar(s), nil
	case OpMul:
		return m.MulScalar(s), nil
	case OpDiv:
		return m.DivScalar(s), nil
	case OpPow:
		k := math.Trunc(s)
		if k != s || math.Abs(k) > math.MaxInt32 {
			return nil, &DomainError{X: s, Func: "^", Kind: KindScalar}
		}
		return m.pow(int(k), tol)
	default:
		panic("nam: arithmetic on operator " + op.String())
	}
}

func scalarmat(op Operator, s float64, m *Matrix) (*Matrix, error) {
	switch op {
	case OpAdd:
		return m.AddScalar(s), nil
	case OpSub:
		return m.ScalarSub(s), nil
	case OpMul:
		return m.MulScalar(s), nil
	case OpDiv:
		return m.ScalarDiv(s), nil
	case OpPow:
		return nil, &DomainError{Func: "^", Kind: KindMatrix}
	default:
		panic("nam: arithmetic on operator " + op.String())
	}
}

// powprec is the mantissa precision used for scalar exponentiation.
const powprec = 64

// pow computes x^y. For a positive finite base and finite exponent, the
// result is computed with extra precision and then rounded; other cases
// follow math.Pow.
func pow(x, y float64) float64 {
	if !(x > 0) || math.IsInf(x, 0) || math.IsInf(y, 0) || math.IsNaN(y) {
		return math.Pow(x, y)
	}
	if y == 0 || x == 1 {
		return 1
	}
	if math.Abs(y*math.Log2(x)) > 1100 {
		// Far outside the float64 range either way.
		return math.Pow(x, y)
	}
	b := new(big.Float).SetPrec(powprec).SetFloat64(x)
	e := new(big.Float).SetPrec(powprec).SetFloat64(y)
	r := new(big.Float).SetPrec(powprec)
	bigfloat.Pow(r, b, e)
	f, _ := r.Float64()
	return f
}
