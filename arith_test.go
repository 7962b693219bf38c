package nam

import (
	"errors"
	"math"
	"testing"
)

func TestScalarArith(t *testing.T) {
	cases := []struct {
		name string
		f    func(l, r Value) (Value, error)
		l, r float64
		want float64
	}{
		{"add", Add, 1, 2, 3},
		{"sub", Sub, 1, 2, -1},
		{"mul", Mul, 3, 4, 12},
		{"div", Div, 1, 4, 0.25},
		{"div-zero", Div, 1, 0, math.Inf(1)},
		{"div-neg-zero", Div, -1, 0, math.Inf(-1)},
		{"pow", Pow, 2, 10, 1024},
		{"pow-neg-exp", Pow, 2, -1, 0.5},
		{"pow-zero-exp", Pow, 7, 0, 1},
		{"pow-zero-zero", Pow, 0, 0, 1},
		{"pow-neg-base", Pow, -2, 3, -8},
		{"pow-one-inf", Pow, 1, math.Inf(1), 1},
		{"pow-overflow", Pow, 10, 400, math.Inf(1)},
		{"pow-underflow", Pow, 10, -400, 0},
		{"inf", Add, math.Inf(1), 1, math.Inf(1)},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			v, err := c.f(Scalar(c.l), Scalar(c.r))
			if err != nil {
				t.Fatal(err)
			}
			if v.Kind() != KindScalar {
				t.Fatalf("got %v", v.Kind())
			}
			if got := v.Scalar(); !closeTo(got, c.want) {
				t.Errorf("want %g, got %g", c.want, got)
			}
		})
	}
}

func TestScalarNaN(t *testing.T) {
	cases := []struct {
		name string
		f    func(l, r Value) (Value, error)
		l, r float64
	}{
		{"zero-over-zero", Div, 0, 0},
		{"inf-minus-inf", Sub, math.Inf(1), math.Inf(1)},
		{"neg-root", Pow, -8, 1.0 / 3},
		{"nan", Add, math.NaN(), 1},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			v, err := c.f(Scalar(c.l), Scalar(c.r))
			if err != nil {
				t.Fatal(err)
			}
			if !math.IsNaN(v.Scalar()) {
				t.Errorf("want NaN, got %v", v)
			}
		})
	}
}

func TestPowPrecision(t *testing.T) {
	cases := []struct{ x, y float64 }{
		{2, 0.5},
		{10, 0.1},
		{1.0001, 10000},
		{3, 40},
		{0.5, 1000},
		{123.456, -7.89},
	}
	for _, c := range cases {
		got, want := pow(c.x, c.y), math.Pow(c.x, c.y)
		if !closeTo(got, want) {
			t.Errorf("%g^%g: want about %g, got %g", c.x, c.y, want, got)
		}
	}
}

func TestBroadcast(t *testing.T) {
	m := MatrixValue(mat([]float64{1, 2}, []float64{4, 8}))
	s := Scalar(2)
	cases := []struct {
		name string
		f    func(l, r Value) (Value, error)
		l, r Value
		want *Matrix
	}{
		{"add-ms", Add, m, s, mat([]float64{3, 4}, []float64{6, 10})},
		{"add-sm", Add, s, m, mat([]float64{3, 4}, []float64{6, 10})},
		{"sub-ms", Sub, m, s, mat([]float64{-1, 0}, []float64{2, 6})},
		{"sub-sm", Sub, s, m, mat([]float64{1, 0}, []float64{-2, -6})},
		{"mul-ms", Mul, m, s, mat([]float64{2, 4}, []float64{8, 16})},
		{"mul-sm", Mul, s, m, mat([]float64{2, 4}, []float64{8, 16})},
		{"div-ms", Div, m, s, mat([]float64{0.5, 1}, []float64{2, 4})},
		{"div-sm", Div, s, m, mat([]float64{2, 1}, []float64{0.5, 0.25})},
		{"pow-ms", Pow, m, s, mat([]float64{9, 18}, []float64{36, 72})},
		{"mul-mm", Mul, m, m, mat([]float64{9, 18}, []float64{36, 72})},
		{"sub-mm", Sub, m, m, Zeros(2, 2)},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			v, err := c.f(c.l, c.r)
			if err != nil {
				t.Fatal(err)
			}
			if !v.IsMatrix() {
				t.Fatalf("got scalar %v", v)
			}
			if got := v.Matrix(); !got.Equal(c.want) {
				t.Errorf("want %v, got %v", c.want, got)
			}
		})
	}
}

func TestArithErrors(t *testing.T) {
	sq := MatrixValue(mat([]float64{1, 2}, []float64{2, 4}))
	row := MatrixValue(mat([]float64{1, 2}))
	cases := []struct {
		name string
		f    func(l, r Value) (Value, error)
		l, r Value
		is   error
		as   interface{}
	}{
		{"add-shape", Add, sq, row, nil, new(*ShapeError)},
		{"mul-shape", Mul, row, row, nil, new(*ShapeError)},
		{"div-shape", Div, row, sq, nil, new(*ShapeError)},
		{"div-singular", Div, sq, sq, ErrSingular, nil},
		{"pow-singular", Pow, sq, Scalar(-1), ErrSingular, nil},
		{"pow-nonsquare", Pow, row, Scalar(2), nil, new(*ShapeError)},
		{"pow-fraction", Pow, sq, Scalar(0.5), nil, new(*DomainError)},
		{"pow-huge", Pow, sq, Scalar(1e10), nil, new(*DomainError)},
		{"pow-nan", Pow, sq, Scalar(math.NaN()), nil, new(*DomainError)},
		{"pow-sm", Pow, Scalar(2), sq, nil, new(*DomainError)},
		{"pow-mm", Pow, sq, sq, nil, new(*DomainError)},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := c.f(c.l, c.r)
			if err == nil {
				t.Fatal("no error")
			}
			if c.is != nil && !errors.Is(err, c.is) {
				t.Errorf("want %v, got %v", c.is, err)
			}
			if c.as != nil && !errors.As(err, c.as) {
				t.Errorf("wrong error type %T: %v", err, err)
			}
		})
	}
}

func TestValue(t *testing.T) {
	var zero Value
	if zero.Kind() != KindScalar || zero.Scalar() != 0 {
		t.Errorf("zero Value is %v %v", zero.Kind(), zero)
	}
	m := mat([]float64{1, 2})
	v := MatrixValue(m)
	m.Set(0, 0, 9)
	if v.Matrix().At(0, 0) != 1 {
		t.Error("MatrixValue does not copy its argument")
	}
	v.Matrix().Set(0, 1, 9)
	if v.Matrix().At(0, 1) != 2 {
		t.Error("Matrix does not return a copy")
	}
	if !v.Equal(MatrixValue(mat([]float64{1, 2}))) {
		t.Error("equal matrices compare unequal")
	}
	if v.Equal(Scalar(1)) || Scalar(1).Equal(v) {
		t.Error("matrix equals scalar")
	}
	if !Scalar(2).Equal(Scalar(2)) || Scalar(2).Equal(Scalar(3)) {
		t.Error("scalar equality is wrong")
	}
	if s := Scalar(0.1).String(); s != "0.1" {
		t.Errorf("scalar renders as %q", s)
	}
	if s := Scalar(math.Inf(-1)).String(); s != "-Inf" {
		t.Errorf("-Inf renders as %q", s)
	}
	if s := Scalar(1.0 / 3).Format("%.3f"); s != "0.333" {
		t.Errorf("formatted scalar renders as %q", s)
	}
	func() {
		defer func() {
			if recover() == nil {
				t.Error("Scalar on a matrix did not panic")
			}
		}()
		v.Scalar()
	}()
}

// closeTo reports whether x and y are equal or within a relative error of
// 1e-14.
func closeTo(x, y float64) bool {
	if x == y {
		return true
	}
	if math.IsInf(x, 0) || math.IsInf(y, 0) || math.IsNaN(x) || math.IsNaN(y) {
		return false
	}
	return math.Abs(x-y) <= 1e-14*math.Max(math.Abs(x), math.Abs(y))
}
