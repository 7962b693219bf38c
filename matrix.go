package nam

import (
	"strconv"
)

// Matrix is a dense matrix of float64 stored in row-major order. The zero
// value is an empty 0×0 matrix. Arithmetic methods never modify their
// receiver or arguments.
type Matrix struct {
	data       []float64
	rows, cols int
}

// NewMatrix creates a rows×cols matrix using data in row-major order. Panics
// if len(data) != rows*cols. The data is not copied.
func NewMatrix(rows, cols int, data []float64) *Matrix {
	if rows < 0 || cols < 0 || len(data) != rows*cols {
		panic("nam: " + strconv.Itoa(len(data)) + " elements for " + shapeString(rows, cols) + " matrix")
	}
	return &Matrix{data: data, rows: rows, cols: cols}
}

// FromRows creates a matrix from a slice of rows. All rows must have the same
// length. No rows gives an empty matrix.
func FromRows(rows [][]float64) (*Matrix, error) {
	if len(rows) == 0 {
		return &Matrix{}, nil
	}
	width := len(rows[0])
	data := make([]float64, 0, len(rows)*width)
	for _, row := range rows {
		if len(row) != width {
			return nil, &WidthError{Want: width, Got: len(row)}
		}
		data = append(data, row...)
	}
	return &Matrix{data: data, rows: len(rows), cols: width}, nil
}

// Zeros creates a rows×cols matrix of zeros.
func Zeros(rows, cols int) *Matrix {
	return &Matrix{data: make([]float64, rows*cols), rows: rows, cols: cols}
}

// Ones creates a rows×cols matrix of ones.
func Ones(rows, cols int) *Matrix {
	m := Zeros(rows, cols)
	for i := range m.data {
		m.data[i] = 1
	}
	return m
}

// Identity creates an n×n identity matrix.
func Identity(n int) *Matrix {
	return IdentityRect(n, n)
}

// IdentityRect creates a rows×cols matrix with ones on the main diagonal.
func IdentityRect(rows, cols int) *Matrix {
	m := Zeros(rows, cols)
	for i := 0; i < rows && i < cols; i++ {
		m.data[i*cols+i] = 1
	}
	return m
}

// FromPermutation creates the permutation matrix P for which row i of P·A is
// row perm[i] of A.
func FromPermutation(perm []int) *Matrix {
	n := len(perm)
	m := Zeros(n, n)
	for i, j := range perm {
		m.data[i*n+j] = 1
	}
	return m
}

// Shape returns the number of rows and columns.
func (m *Matrix) Shape() (rows, cols int) {
	return m.rows, m.cols
}

// Rows returns the number of rows.
func (m *Matrix) Rows() int {
	return m.rows
}

// Cols returns the number of columns.
func (m *Matrix) Cols() int {
	return m.cols
}

// IsSquare reports whether the matrix has as many rows as columns.
func (m *Matrix) IsSquare() bool {
	return m.rows == m.cols
}

// Len returns the number of cells.
func (m *Matrix) Len() int {
	return len(m.data)
}

func (m *Matrix) index(i, j int) int {
	if i < 0 || i >= m.rows || j < 0 || j >= m.cols {
		panic("nam: index (" + strconv.Itoa(i) + ", " + strconv.Itoa(j) + ") out of range for " + shapeString(m.rows, m.cols) + " matrix")
	}
	return i*m.cols + j
}

// At returns the cell at row i, column j.
func (m *Matrix) At(i, j int) float64 {
	return m.data[m.index(i, j)]
}

// Set sets the cell at row i, column j.
func (m *Matrix) Set(i, j int, x float64) {
	m.data[m.index(i, j)] = x
}

// Row returns a copy of row i.
func (m *Matrix) Row(i int) []float64 {
	k := m.index(i, 0)
	return append([]float64(nil), m.data[k:k+m.cols]...)
}

// Data returns a copy of the cells in row-major order.
func (m *Matrix) Data() []float64 {
	return append([]float64(nil), m.data...)
}

// Clone returns a deep copy of m.
func (m *Matrix) Clone() *Matrix {
	return &Matrix{data: m.Data(), rows: m.rows, cols: m.cols}
}

// Equal reports whether m and n have the same shape and cells. NaN cells are
// never equal.
func (m *Matrix) Equal(n *Matrix) bool {
	if m.rows != n.rows || m.cols != n.cols {
		return false
	}
	for i, x := range m.data {
		if x != n.data[i] {
			return false
		}
	}
	return true
}

// Transpose returns the transpose of m.
func (m *Matrix) Transpose() *Matrix {
	r := Zeros(m.cols, m.rows)
	for i := 0; i < m.rows; i++ {
		for j := 0; j < m.cols; j++ {
			r.data[j*m.rows+i] = m.data[i*m.cols+j]
		}
	}
	return r
}

// Add returns m + n. The shapes must match.
func (m *Matrix) Add(n *Matrix) (*Matrix, error) {
	if m.rows != n.rows || m.cols != n.cols {
		return nil, shapeErr(OpAdd, m, n)
	}
	r := m.Clone()
	for i, x := range n.data {
		r.data[i] += x
	}
	return r, nil
}

// Sub returns m - n. The shapes must match.
func (m *Matrix) Sub(n *Matrix) (*Matrix, error) {
	if m.rows != n.rows || m.cols != n.cols {
		return nil, shapeErr(OpSub, m, n)
	}
	r := m.Clone()
	for i, x := range n.data {
		r.data[i] -= x
	}
	return r, nil
}

// Mul returns the matrix product m·n. m must have as many columns as n has
// rows.
func (m *Matrix) Mul(n *Matrix) (*Matrix, error) {
	if m.cols != n.rows {
		return nil, shapeErr(OpMul, m, n)
	}
	r := Zeros(m.rows, n.cols)
	for i := 0; i < m.rows; i++ {
		for j := 0; j < n.cols; j++ {
			var s float64
			for k := 0; k < m.cols; k++ {
				s += m.data[i*m.cols+k] * n.data[k*n.cols+j]
			}
			r.data[i*n.cols+j] = s
		}
	}
	return r, nil
}

// Div returns m·n⁻¹. n must be square with the same shape as m. If n is not
// invertible, the error is ErrSingular.
func (m *Matrix) Div(n *Matrix) (*Matrix, error) {
	return m.div(n, 0)
}

func (m *Matrix) div(n *Matrix, tol float64) (*Matrix, error) {
	if !n.IsSquare() || m.rows != n.rows || m.cols != n.cols {
		return nil, shapeErr(OpDiv, m, n)
	}
	inv, ok := n.inverse(tol)
	if !ok {
		return nil, ErrSingular
	}
	return m.Mul(inv)
}

// Neg returns -m.
func (m *Matrix) Neg() *Matrix {
	return m.apply(func(x float64) float64 { return -x })
}

// AddScalar returns m with s added to each cell.
func (m *Matrix) AddScalar(s float64) *Matrix {
	return m.apply(func(x float64) float64 { return x + s })
}

// SubScalar returns m with s subtracted from each cell.
func (m *Matrix) SubScalar(s float64) *Matrix {
	return m.apply(func(x float64) float64 { return x - s })
}

// MulScalar returns m with each cell multiplied by s.
func (m *Matrix) MulScalar(s float64) *Matrix {
	return m.apply(func(x float64) float64 { return x * s })
}

// DivScalar returns m with each cell divided by s.
func (m *Matrix) DivScalar(s float64) *Matrix {
	return m.apply(func(x float64) float64 { return x / s })
}

// ScalarSub returns a matrix whose cells are s minus the cells of m.
func (m *Matrix) ScalarSub(s float64) *Matrix {
	return m.apply(func(x float64) float64 { return s - x })
}

// ScalarDiv returns a matrix whose cells are s divided by the cells of m.
func (m *Matrix) ScalarDiv(s float64) *Matrix {
	return m.apply(func(x float64) float64 { return s / x })
}

func (m *Matrix) apply(f func(float64) float64) *Matrix {
	r := &Matrix{data: make([]float64, len(m.data)), rows: m.rows, cols: m.cols}
	for i, x := range m.data {
		r.data[i] = f(x)
	}
	return r
}

// Pow returns m raised to an integer power. m must be square. A zero power is
// the identity and a negative power is a power of the inverse.
func (m *Matrix) Pow(k int) (*Matrix, error) {
	return m.pow(k, 0)
}

func (m *Matrix) pow(k int, tol float64) (*Matrix, error) {
	if !m.IsSquare() {
		return nil, shapeErr(OpPow, m, m)
	}
	b := m
	if k < 0 {
		inv, ok := m.inverse(tol)
		if !ok {
			return nil, ErrSingular
		}
		b, k = inv, -k
	}
	r := Identity(m.rows)
	// Classic right-to-left binary exponentiation.
	for k > 0 {
		if k&1 != 0 {
			r, _ = r.Mul(b)
		}
		k >>= 1
		if k > 0 {
			b, _ = b.Mul(b)
		}
	}
	return r, nil
}

// swapRowsFrom swaps rows i and j in columns [from, cols).
func (m *Matrix) swapRowsFrom(i, j, from int) {
	if i == j {
		return
	}
	for c := from; c < m.cols; c++ {
		a, b := m.index(i, c), m.index(j, c)
		m.data[a], m.data[b] = m.data[b], m.data[a]
	}
}

// swapRowsBefore swaps rows i and j in columns [0, to).
func (m *Matrix) swapRowsBefore(i, j, to int) {
	if i == j {
		return
	}
	for c := 0; c < to; c++ {
		a, b := m.index(i, c), m.index(j, c)
		m.data[a], m.data[b] = m.data[b], m.data[a]
	}
}

func shapeString(rows, cols int) string {
	return strconv.Itoa(rows) + "×" + strconv.Itoa(cols)
}
