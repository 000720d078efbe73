// SPDX-License-Identifier: MIT
// Package matrix provides universal operations on any Matrix implementation:
// multiplication, transpose, matrix-vector products, zero padding and a
// Householder QR factorization for tall matrices. All functions perform
// strict fail-fast validation and return clear errors on dimension mismatches.
//
// Notes:
//   - Kernels use central validators and wrap failures via matrixErrorf.
//   - *Dense operands hit flat row-major fast paths; other Matrix
//     implementations fall back to At/Set with the same loop order.

package matrix

import (
	"fmt"
	"math"
)

// NormZero is the additive identity for norm and accumulation operations.
const NormZero = 0.0

// ZeroSum is the initial sum value for dot products and similar.
const ZeroSum = 0.0

// Operation name constants for unified error wrapping and reducing magic strings.
const (
	opMul         = "Mul"
	opTranspose   = "Transpose"
	opMatVec      = "MatVec"
	opQR          = "QR"
	opPadRows     = "PadRows"
	opUpperSquare = "UpperSquare"
	opEqual       = "EqualApprox"
)

// matrixErrorf wraps err with an operation tag, preserving the original error via %w.
// The wrapper keeps a stable "Op: underlying" shape for uniform reporting.
//
// Inputs:
//   - tag: operation name/label (use package-level op* constants; no magic strings).
//   - err: underlying non-nil error to wrap.
//
// Notes:
//   - Wrapping nil with %w yields a non-nil error that wraps a nil cause; do not do this.
func matrixErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// toDense returns m as *Dense, materializing a copy when m is another implementation.
// The returned matrix may alias m; callers that mutate must Clone first.
func toDense(m Matrix) (*Dense, error) {
	if d, ok := m.(*Dense); ok {
		return d, nil
	}
	rows, cols := m.Rows(), m.Cols()
	d, err := NewDense(rows, cols)
	if err != nil {
		return nil, err
	}
	var i, j int
	var v float64
	for i = 0; i < rows; i++ {
		for j = 0; j < cols; j++ {
			if v, err = m.At(i, j); err != nil {
				return nil, err
			}
			d.data[i*cols+j] = v
		}
	}

	return d, nil
}

// Mul performs standard matrix multiplication C = A × B (no aliasing).
//
// Implementation:
//   - Stage 1: Validate A,B (not nil) and inner dimensions (A.Cols == B.Rows).
//   - Stage 2: If A and B are *Dense, use i→k→j with row-major strides and skip zeros;
//     otherwise use i→j→k with a fixed order.
//
// Errors:
//   - ErrNilMatrix (nil input), ErrDimensionMismatch (inner mismatch).
//
// Complexity:
//   - Time O(r*n*c), Space O(r*c).
func Mul(a, b Matrix) (Matrix, error) {
	if err := ValidateMulCompatible(a, b); err != nil {
		return nil, matrixErrorf(opMul, err)
	}

	aRows, aCols, bCols := a.Rows(), a.Cols(), b.Cols()
	res, err := NewDense(aRows, bCols)
	if err != nil {
		return nil, matrixErrorf(opMul, err)
	}
	var (
		i, j, k         int
		av, bv, current float64
	)
	// Fast-path for two Dense matrices
	if da, okA := a.(*Dense); okA {
		if db, okB := b.(*Dense); okB {
			var rowOffsetA, rowOffsetB, rowOffsetR int
			for i = 0; i < aRows; i++ {
				rowOffsetA = i * aCols
				rowOffsetR = i * bCols
				for k = 0; k < aCols; k++ {
					av = da.data[rowOffsetA+k]
					if av == 0 {
						continue
					}
					rowOffsetB = k * bCols
					for j = 0; j < bCols; j++ {
						res.data[rowOffsetR+j] += av * db.data[rowOffsetB+j]
					}
				}
			}

			return res, nil
		}
	}

	// Fallback: generic interface triple-loop (i-j-k)
	for i = 0; i < aRows; i++ {
		for j = 0; j < bCols; j++ {
			current = ZeroSum
			for k = 0; k < aCols; k++ {
				if av, err = a.At(i, k); err != nil {
					return nil, matrixErrorf(opMul, err)
				}
				if av == 0 {
					continue
				}
				if bv, err = b.At(k, j); err != nil {
					return nil, matrixErrorf(opMul, err)
				}
				current += av * bv
			}
			if err = res.Set(i, j, current); err != nil {
				return nil, matrixErrorf(opMul, err)
			}
		}
	}

	return res, nil
}

// Transpose returns a new matrix with rows and columns swapped (mᵀ).
// The original matrix is never mutated.
//
// Errors:
//   - ErrNilMatrix.
//
// Complexity:
//   - Time O(r*c), Space O(r*c).
func Transpose(m Matrix) (Matrix, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}
	src, err := toDense(m)
	if err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}
	rows, cols := src.r, src.c
	res, err := NewDense(cols, rows)
	if err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}
	res.validateNaNInf = src.validateNaNInf

	var i, j, baseSrc int
	for i = 0; i < rows; i++ {
		baseSrc = i * cols
		for j = 0; j < cols; j++ {
			res.data[j*rows+i] = src.data[baseSrc+j]
		}
	}

	return res, nil
}

// MatVec computes y = m * x for a column vector x.
//
// Contract: m non-nil; x non-nil; len(x) == m.Cols().
// Determinism: fixed i→j loop order.
// Complexity: Time O(r*c), Space O(r) for y.
func MatVec(m Matrix, x []float64) ([]float64, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opMatVec, err)
	}
	if err := ValidateVecLen(x, m.Cols()); err != nil {
		return nil, matrixErrorf(opMatVec, err)
	}
	d, err := toDense(m)
	if err != nil {
		return nil, matrixErrorf(opMatVec, err)
	}
	y := make([]float64, d.r)
	for i := 0; i < d.r; i++ {
		y[i] = Dot(d.data[i*d.c:(i+1)*d.c], x)
	}

	return y, nil
}

// PadRows returns a copy of m extended with zero rows up to rows total.
// When m already has at least rows rows the result is a plain copy.
//
// Errors:
//   - ErrNilMatrix.
//
// Complexity: O(max(rows, r) * c).
func PadRows(m Matrix, rows int) (*Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opPadRows, err)
	}
	src, err := toDense(m)
	if err != nil {
		return nil, matrixErrorf(opPadRows, err)
	}
	if rows < src.r {
		rows = src.r
	}
	res, err := NewDense(rows, src.c)
	if err != nil {
		return nil, matrixErrorf(opPadRows, err)
	}
	res.validateNaNInf = src.validateNaNInf
	copy(res.data, src.data) // leading r*c block; padding stays zero

	return res, nil
}

// UpperSquare extracts the leading c×c block of an r×c matrix (r ≥ c).
// Used to keep the triangular factor of a tall QR.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch (r < c).
func UpperSquare(m Matrix) (*Dense, error) {
	if err := ValidateTall(m); err != nil {
		return nil, matrixErrorf(opUpperSquare, err)
	}
	src, err := toDense(m)
	if err != nil {
		return nil, matrixErrorf(opUpperSquare, err)
	}
	idx := make([]int, src.c)
	for i := range idx {
		idx[i] = i
	}
	res, err := src.Induced(idx, idx)
	if err != nil {
		return nil, matrixErrorf(opUpperSquare, err)
	}

	return res, nil
}

// EqualApprox reports whether a and b share a shape and every entry differs
// by at most the configured epsilon (WithEpsilon, DefaultEpsilon otherwise).
//
// Errors:
//   - ErrNilMatrix.
func EqualApprox(a, b Matrix, opts ...Option) (bool, error) {
	if err := ValidateNotNil(a); err != nil {
		return false, matrixErrorf(opEqual, err)
	}
	if err := ValidateNotNil(b); err != nil {
		return false, matrixErrorf(opEqual, err)
	}
	if a.Rows() != b.Rows() || a.Cols() != b.Cols() {
		return false, nil
	}
	tol := gatherOptions(opts...).eps
	var av, bv float64
	var err error
	for i := 0; i < a.Rows(); i++ {
		for j := 0; j < a.Cols(); j++ {
			if av, err = a.At(i, j); err != nil {
				return false, matrixErrorf(opEqual, err)
			}
			if bv, err = b.At(i, j); err != nil {
				return false, matrixErrorf(opEqual, err)
			}
			if !(math.Abs(av-bv) <= tol) { // NaN never compares equal
				return false, nil
			}
		}
	}

	return true, nil
}

// QR computes a Householder-based factorization of a tall matrix such that A ≈ Qᵀ * R.
//
// Implementation:
//   - Stage 1: Validate m (not nil, rows ≥ cols); copy A into a Dense work buffer; Q = I(m).
//   - Stage 2: For k=0..min(m-1,n)-1, build a column reflector and apply it to A (forming R)
//     and to the rows of Q.
//
// Inputs:
//   - m: Matrix with shape (r × c), r ≥ c.
//
// Returns:
//   - *Dense: Q (r×r, accumulated reflectors; A ≈ Qᵀ * R, not Q*R).
//   - *Dense: R (r×c, upper triangular; rows ≥ c are zero up to rounding).
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch (r < c).
//
// Determinism:
//   - Fixed k→{i,j} visitation; stable column-wise accumulation.
//
// Complexity:
//   - Time O(r²c), Space O(r² + r*c).
//
// Notes:
//   - Diagonal signs of R are not canonicalized; |R[k,k]| equals the norm of the
//     k-th column after projecting out the previous ones.
func QR(m Matrix) (*Dense, *Dense, error) {
	if err := ValidateTall(m); err != nil {
		return nil, nil, matrixErrorf(opQR, err)
	}
	src, err := toDense(m)
	if err != nil {
		return nil, nil, matrixErrorf(opQR, err)
	}
	rows, cols := src.r, src.c

	// Work on a private copy; keep the finite-only policy off so rounding noise never trips Set.
	a := &Dense{r: rows, c: cols, data: make([]float64, rows*cols)}
	copy(a.data, src.data)
	q, err := NewIdentity(rows)
	if err != nil {
		return nil, nil, matrixErrorf(opQR, err)
	}

	v := make([]float64, rows)
	var (
		i, j, k    int
		norm, beta float64
		alpha, tau float64
		sum        float64
	)
	for k = 0; k < cols && k < rows-1; k++ {
		// Norm of A[k:rows][k]
		norm = NormZero
		for i = k; i < rows; i++ {
			norm += a.data[i*cols+k] * a.data[i*cols+k]
		}
		norm = math.Sqrt(norm)
		if norm == NormZero {
			continue // zero column: nothing to annihilate
		}

		// alpha = -sign(A[k,k]) * norm avoids cancellation in v[k]
		alpha = -math.Copysign(norm, a.data[k*cols+k])

		for i = 0; i < k; i++ {
			v[i] = 0.0
		}
		for i = k; i < rows; i++ {
			v[i] = a.data[i*cols+k]
		}
		v[k] -= alpha

		beta = SquaredNorm(v[k:])
		if beta == NormZero {
			continue
		}
		tau = 2.0 / beta

		// Apply reflection to A (update R)
		for j = k; j < cols; j++ {
			sum = ZeroSum
			for i = k; i < rows; i++ {
				sum += v[i] * a.data[i*cols+j]
			}
			for i = k; i < rows; i++ {
				a.data[i*cols+j] -= tau * v[i] * sum
			}
		}
		// Exact zeros below the pivot; the reflector maps them there up to rounding.
		a.data[k*cols+k] = alpha
		for i = k + 1; i < rows; i++ {
			a.data[i*cols+k] = 0
		}

		// Apply reflection to Q
		for j = 0; j < rows; j++ {
			sum = ZeroSum
			for i = k; i < rows; i++ {
				sum += v[i] * q.data[i*rows+j]
			}
			for i = k; i < rows; i++ {
				q.data[i*rows+j] -= tau * v[i] * sum
			}
		}
	}
	a.validateNaNInf = src.validateNaNInf

	return q, a, nil
}
