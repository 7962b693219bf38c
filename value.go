package nam

import (
	"fmt"
	"strconv"
	"strings"
)

// ValueKind identifies the variant held by a Value.
type ValueKind int8

const (
	KindScalar ValueKind = iota
	KindMatrix
)

func (k ValueKind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindMatrix:
		return "matrix"
	default:
		return "ValueKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value is the result of evaluating an expression: either a scalar or a
// matrix. The zero Value is the scalar 0.
type Value struct {
	kind ValueKind
	x    float64
	m    *Matrix
}

// Scalar creates a scalar Value.
func Scalar(x float64) Value {
	return Value{kind: KindScalar, x: x}
}

// MatrixValue creates a matrix Value holding a copy of m.
func MatrixValue(m *Matrix) Value {
	return Value{kind: KindMatrix, m: m.Clone()}
}

// matrixValue wraps m without copying. m must not be modified afterward.
func matrixValue(m *Matrix) Value {
	return Value{kind: KindMatrix, m: m}
}

// Kind returns the variant of v.
func (v Value) Kind() ValueKind {
	return v.kind
}

// IsMatrix reports whether v holds a matrix.
func (v Value) IsMatrix() bool {
	return v.kind == KindMatrix
}

// Scalar returns the value of a scalar. Panics if v is a matrix.
func (v Value) Scalar() float64 {
	if v.kind != KindScalar {
		panic("nam: Scalar called on " + v.kind.String())
	}
	return v.x
}

// Matrix returns a copy of the matrix held by v. Panics if v is a scalar.
func (v Value) Matrix() *Matrix {
	if v.kind != KindMatrix {
		panic("nam: Matrix called on " + v.kind.String())
	}
	return v.m.Clone()
}

// Equal reports whether v and w hold the same kind and contents.
func (v Value) Equal(w Value) bool {
	if v.kind != w.kind {
		return false
	}
	if v.kind == KindScalar {
		return v.x == w.x
	}
	return v.m.Equal(w.m)
}

// String renders v with the shortest representation of each number.
func (v Value) String() string {
	return v.Format("")
}

// Format renders v using a fmt verb such as "%g" or "%.3f" for each number.
// An empty verb uses the shortest representation that round-trips.
func (v Value) Format(verb string) string {
	if v.kind == KindScalar {
		return fmtnum(v.x, verb)
	}
	return v.m.Format(verb)
}

// String renders the matrix with right-aligned columns between brackets.
func (m *Matrix) String() string {
	return m.Format("")
}

// Format renders the matrix using a fmt verb for each cell. An empty verb
// uses the shortest representation that round-trips.
func (m *Matrix) Format(verb string) string {
	if m.rows == 0 || m.cols == 0 {
		return "[]"
	}
	cells := make([]string, len(m.data))
	widths := make([]int, m.cols)
	for i, x := range m.data {
		s := fmtnum(x, verb)
		cells[i] = s
		if w := len([]rune(s)); w > widths[i%m.cols] {
			widths[i%m.cols] = w
		}
	}
	var b strings.Builder
	b.WriteString("[\n")
	for i := 0; i < m.rows; i++ {
		for j := 0; j < m.cols; j++ {
			s := cells[i*m.cols+j]
			b.WriteString("   ")
			b.WriteString(strings.Repeat(" ", widths[j]-len([]rune(s))))
			b.WriteString(s)
		}
		b.WriteByte('\n')
	}
	b.WriteByte(']')
	return b.String()
}

func fmtnum(x float64, verb string) string {
	if verb == "" {
		return strconv.FormatFloat(x, 'g', -1, 64)
	}
	return fmt.Sprintf(verb, x)
}
