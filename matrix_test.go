package nam

import (
	"errors"
	"math"
	"testing"

	"github.com/kr/pretty"
)

// mat is a shortcut to build a matrix from rows in tests.
func mat(rows ...[]float64) *Matrix {
	m, err := FromRows(rows)
	if err != nil {
		panic(err)
	}
	return m
}

// near reports whether two matrices have the same shape and cells within eps.
func near(m, n *Matrix, eps float64) bool {
	if m.rows != n.rows || m.cols != n.cols {
		return false
	}
	for i, x := range m.data {
		if math.Abs(x-n.data[i]) > eps {
			return false
		}
	}
	return true
}

func TestMatrixConstructors(t *testing.T) {
	cases := []struct {
		name string
		got  *Matrix
		want *Matrix
	}{
		{"zeros", Zeros(2, 3), mat([]float64{0, 0, 0}, []float64{0, 0, 0})},
		{"ones", Ones(1, 2), mat([]float64{1, 1})},
		{"identity", Identity(3), mat([]float64{1, 0, 0}, []float64{0, 1, 0}, []float64{0, 0, 1})},
		{"identity-wide", IdentityRect(2, 3), mat([]float64{1, 0, 0}, []float64{0, 1, 0})},
		{"identity-tall", IdentityRect(3, 2), mat([]float64{1, 0}, []float64{0, 1}, []float64{0, 0})},
		{"new", NewMatrix(2, 2, []float64{1, 2, 3, 4}), mat([]float64{1, 2}, []float64{3, 4})},
		{"permutation", FromPermutation([]int{2, 0, 1}), mat([]float64{0, 0, 1}, []float64{1, 0, 0}, []float64{0, 1, 0})},
		{"empty", Zeros(0, 0), &Matrix{}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if !c.got.Equal(c.want) {
				t.Errorf("want %v, got %v", c.want, c.got)
			}
			if c.got.Len() != c.got.rows*c.got.cols {
				t.Errorf("buffer has %d cells for %s", c.got.Len(), shapeString(c.got.Shape()))
			}
		})
	}
}

func TestFromRowsWidth(t *testing.T) {
	_, err := FromRows([][]float64{{1, 2}, {3}})
	var we *WidthError
	if !errors.As(err, &we) {
		t.Fatalf("want *WidthError, got %T (%v)", err, err)
	}
	if we.Want != 2 || we.Got != 1 {
		t.Errorf("want 2 vs 1, got %d vs %d", we.Want, we.Got)
	}
}

func TestNewMatrixPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("no panic for wrong data length")
		}
	}()
	NewMatrix(2, 2, []float64{1, 2, 3})
}

func TestMatrixAccess(t *testing.T) {
	m := mat([]float64{1, 2, 3}, []float64{4, 5, 6})
	if r, c := m.Shape(); r != 2 || c != 3 {
		t.Errorf("wrong shape %d×%d", r, c)
	}
	if m.At(1, 2) != 6 {
		t.Errorf("At(1, 2) = %g", m.At(1, 2))
	}
	if d := pretty.Diff(m.Row(1), []float64{4, 5, 6}); len(d) != 0 {
		t.Errorf("Row(1): %v", d)
	}
	n := m.Clone()
	n.Set(0, 0, 9)
	if m.At(0, 0) != 1 {
		t.Error("Set on a clone modified the original")
	}
	row := m.Row(0)
	row[0] = 9
	if m.At(0, 0) != 1 {
		t.Error("modifying Row modified the matrix")
	}
	tr := m.Transpose()
	if !tr.Equal(mat([]float64{1, 4}, []float64{2, 5}, []float64{3, 6})) {
		t.Errorf("wrong transpose %v", tr)
	}
	func() {
		defer func() {
			if recover() == nil {
				t.Error("no panic for out of range index")
			}
		}()
		m.At(2, 0)
	}()
}

func TestMatrixArith(t *testing.T) {
	a := mat([]float64{1, 2}, []float64{3, 4})
	b := mat([]float64{5, 6}, []float64{7, 8})
	cases := []struct {
		name string
		f    func() (*Matrix, error)
		want *Matrix
	}{
		{"add", func() (*Matrix, error) { return a.Add(b) }, mat([]float64{6, 8}, []float64{10, 12})},
		{"sub", func() (*Matrix, error) { return a.Sub(b) }, mat([]float64{-4, -4}, []float64{-4, -4})},
		{"mul", func() (*Matrix, error) { return a.Mul(b) }, mat([]float64{19, 22}, []float64{43, 50})},
		{"mul-vec", func() (*Matrix, error) { return mat([]float64{1, 2}).Mul(mat([]float64{3}, []float64{4})) }, mat([]float64{11})},
		{"pow0", func() (*Matrix, error) { return a.Pow(0) }, Identity(2)},
		{"pow1", func() (*Matrix, error) { return a.Pow(1) }, a},
		{"pow2", func() (*Matrix, error) { return a.Pow(2) }, mat([]float64{7, 10}, []float64{15, 22})},
		{"pow5", func() (*Matrix, error) { return a.Pow(5) }, mat([]float64{1069, 1558}, []float64{2337, 3406})},
		{"pow-neg", func() (*Matrix, error) { return mat([]float64{2, 0}, []float64{0, 4}).Pow(-2) }, mat([]float64{0.25, 0}, []float64{0, 0.0625})},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := c.f()
			if err != nil {
				t.Fatal(err)
			}
			if !got.Equal(c.want) {
				t.Errorf("want %v, got %v", c.want, got)
			}
		})
	}
	if !a.Equal(mat([]float64{1, 2}, []float64{3, 4})) {
		t.Errorf("operands were modified: %v", a)
	}
}

func TestMatrixScalar(t *testing.T) {
	m := mat([]float64{1, 2}, []float64{4, 8})
	cases := []struct {
		name string
		got  *Matrix
		want *Matrix
	}{
		{"neg", m.Neg(), mat([]float64{-1, -2}, []float64{-4, -8})},
		{"add", m.AddScalar(1), mat([]float64{2, 3}, []float64{5, 9})},
		{"sub", m.SubScalar(1), mat([]float64{0, 1}, []float64{3, 7})},
		{"mul", m.MulScalar(2), mat([]float64{2, 4}, []float64{8, 16})},
		{"div", m.DivScalar(2), mat([]float64{0.5, 1}, []float64{2, 4})},
		{"scalar-sub", m.ScalarSub(1), mat([]float64{0, -1}, []float64{-3, -7})},
		{"scalar-div", m.ScalarDiv(8), mat([]float64{8, 4}, []float64{2, 1})},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if !c.got.Equal(c.want) {
				t.Errorf("want %v, got %v", c.want, c.got)
			}
		})
	}
}

func TestMatrixShapeErrors(t *testing.T) {
	row := mat([]float64{1, 2})
	sq := mat([]float64{1, 2}, []float64{3, 4})
	cases := []struct {
		name  string
		f     func() (*Matrix, error)
		op    Operator
		left  [2]int
		right [2]int
	}{
		{"add", func() (*Matrix, error) { return row.Add(sq) }, OpAdd, [2]int{1, 2}, [2]int{2, 2}},
		{"sub", func() (*Matrix, error) { return sq.Sub(row) }, OpSub, [2]int{2, 2}, [2]int{1, 2}},
		{"mul", func() (*Matrix, error) { return row.Mul(row) }, OpMul, [2]int{1, 2}, [2]int{1, 2}},
		{"div-shape", func() (*Matrix, error) { return row.Div(sq) }, OpDiv, [2]int{1, 2}, [2]int{2, 2}},
		{"div-nonsquare", func() (*Matrix, error) { return row.Div(row) }, OpDiv, [2]int{1, 2}, [2]int{1, 2}},
		{"pow", func() (*Matrix, error) { return row.Pow(2) }, OpPow, [2]int{1, 2}, [2]int{1, 2}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := c.f()
			var se *ShapeError
			if !errors.As(err, &se) {
				t.Fatalf("want *ShapeError, got %T (%v)", err, err)
			}
			want := ShapeError{Op: c.op, Left: c.left, Right: c.right}
			if *se != want {
				t.Errorf("want %+v, got %+v", want, *se)
			}
		})
	}
}

func TestMatrixDiv(t *testing.T) {
	m := mat([]float64{1, 2}, []float64{3, 4})
	q, err := m.Div(m)
	if err != nil {
		t.Fatal(err)
	}
	if !near(q, Identity(2), 1e-12) {
		t.Errorf("M/M is %v", q)
	}
	_, err = m.Div(mat([]float64{1, 2}, []float64{0, 0}))
	if !errors.Is(err, ErrSingular) {
		t.Errorf("dividing by a matrix with a zero row: want ErrSingular, got %v", err)
	}
	_, err = m.Pow(-1)
	if err != nil {
		t.Errorf("invertible matrix to -1: %v", err)
	}
	_, err = mat([]float64{1, 2}, []float64{2, 4}).Pow(-1)
	if !errors.Is(err, ErrSingular) {
		t.Errorf("singular matrix to -1: want ErrSingular, got %v", err)
	}
}

func TestMatrixFormat(t *testing.T) {
	cases := []struct {
		name string
		m    *Matrix
		verb string
		want string
	}{
		{"empty", &Matrix{}, "", "[]"},
		{"row", mat([]float64{1, 2, 3}), "", "[\n   1   2   3\n]"},
		{"aligned", mat([]float64{1, 20}, []float64{300, 4}), "", "[\n     1   20\n   300    4\n]"},
		{"neg", mat([]float64{-1.5, 2}), "", "[\n   -1.5   2\n]"},
		{"verb", mat([]float64{1, 2}), "%.2f", "[\n   1.00   2.00\n]"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.m.Format(c.verb); got != c.want {
				t.Errorf("want %q, got %q", c.want, got)
			}
		})
	}
}
