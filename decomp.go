package nam

import "math"

// LU is the result of an LU decomposition with partial pivoting: P·A = L·U.
type LU struct {
	// L is unit lower-triangular with as many rows and columns as A has rows.
	L *Matrix
	// U is the row-echelon form of A, with the same shape as A.
	U *Matrix
	// Perm records the row exchanges: row i of P·A is row Perm[i] of A. Use
	// FromPermutation to build P.
	Perm []int
	// Rank is the number of nonzero pivots.
	Rank int
}

// LU decomposes m by Gaussian elimination with partial pivoting. Pivots are
// compared against zero exactly.
func (m *Matrix) LU() LU {
	return m.lu(0)
}

// iszero reports whether x counts as zero at tolerance tol. With tol == 0
// this is exactly x == 0.
func iszero(x, tol float64) bool {
	return math.Abs(x) <= tol
}

// lu works column by column. A column with no usable pivot at or below the
// current pivot row is skipped without advancing the pivot row, which is how
// rank deficiency is detected.
func (m *Matrix) lu(tol float64) LU {
	lower := Zeros(m.rows, m.rows)
	upper := m.Clone()
	perm := make([]int, m.rows)
	for i := range perm {
		perm[i] = i
	}

	shift := 0
	pivot := 0
	for pivot < upper.rows && pivot+shift < upper.cols {
		row, col := pivot, pivot+shift

		// Bring up a row with a nonzero cell in this column if needed.
		if iszero(upper.At(row, col), tol) {
			for r := row + 1; r < upper.rows; r++ {
				if iszero(upper.At(r, col), tol) {
					continue
				}
				upper.swapRowsFrom(row, r, col)
				lower.swapRowsBefore(row, r, pivot)
				perm[row], perm[r] = perm[r], perm[row]
				break
			}
		}
		if iszero(upper.At(row, col), tol) {
			shift++
			continue
		}

		p := upper.At(row, col)
		for r := row + 1; r < upper.rows; r++ {
			if iszero(upper.At(r, col), tol) {
				continue
			}
			factor := upper.At(r, col) / p
			for c := col + 1; c < upper.cols; c++ {
				upper.data[r*upper.cols+c] -= upper.data[row*upper.cols+c] * factor
			}
			upper.Set(r, col, 0)
			lower.Set(r, pivot, factor)
		}
		pivot++
	}

	for i := 0; i < lower.rows; i++ {
		lower.Set(i, i, 1)
	}
	return LU{L: lower, U: upper, Perm: perm, Rank: pivot}
}

// RowEchelon returns the row-echelon form of m.
func (m *Matrix) RowEchelon() *Matrix {
	return m.lu(0).U
}

// Rank returns the rank of m.
func (m *Matrix) Rank() int {
	return m.lu(0).Rank
}

// Det returns the product of the diagonal of the row-echelon form of m. ok is
// false if m is not square.
//
// Row exchanges made while pivoting do not flip the sign of the result, so
// for matrices that need an odd number of exchanges the sign is wrong.
func (m *Matrix) Det() (det float64, ok bool) {
	if !m.IsSquare() {
		return 0, false
	}
	u := m.RowEchelon()
	det = 1
	for i := 0; i < u.rows; i++ {
		det *= u.At(i, i)
	}
	return det, true
}

// Inverse returns the inverse of m by Gauss–Jordan elimination. ok is false
// if m is not square, is empty, or is singular.
func (m *Matrix) Inverse() (inv *Matrix, ok bool) {
	return m.inverse(0)
}

func (m *Matrix) inverse(tol float64) (*Matrix, bool) {
	if !m.IsSquare() || m.rows == 0 {
		return nil, false
	}
	a := m.Clone()
	n := a.rows
	res := Identity(n)

	for prim := 0; prim < n; prim++ {
		if iszero(a.At(prim, prim), tol) {
			found := false
			for r := prim + 1; r < n; r++ {
				if !iszero(a.At(r, prim), tol) {
					a.swapRowsFrom(prim, r, 0)
					res.swapRowsFrom(prim, r, 0)
					found = true
					break
				}
			}
			if !found {
				return nil, false
			}
		}

		// Normalize the pivot row.
		factor := 1 / a.At(prim, prim)
		for c := 0; c < n; c++ {
			a.data[prim*n+c] *= factor
			res.data[prim*n+c] *= factor
		}
		a.Set(prim, prim, 1)

		// Eliminate the pivot column from every other row.
		for r := 0; r < n; r++ {
			if r == prim {
				continue
			}
			f := a.At(r, prim)
			if f == 0 {
				continue
			}
			for c := 0; c < n; c++ {
				a.data[r*n+c] -= a.data[prim*n+c] * f
				res.data[r*n+c] -= res.data[prim*n+c] * f
			}
			a.Set(r, prim, 0)
		}
	}

	// The elimination above already leaves the last row as a unit vector, so
	// this cannot fail for a matrix that gets here. Singular matrices are
	// rejected by the pivot search.
	if a.At(n-1, n-1) != 1 {
		return nil, false
	}
	for c := 0; c < n-1; c++ {
		if !iszero(a.At(n-1, c), tol) {
			return nil, false
		}
	}
	return res, true
}
