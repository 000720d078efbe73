// SPDX-License-Identifier: MIT

package sphdec

import (
	"fmt"
	"math"

	"github.com/Make1205/SDA-DGS/matrix"
)

const opTriangularize = "Triangularize"

// reconstructionTol bounds max|Qᵀ·R − B| relative to the largest |b_ij|.
const reconstructionTol = 1e-9

// sphdecErrorf wraps err with an operation tag, preserving the sentinel via %w.
func sphdecErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// Triangularize returns the n×n upper-triangular factor R of basis (m×n).
// Bases with m < n are padded with zero rows first.
//
// A diagonal entry that is zero, non-finite, or not larger than
// tol·‖b_i‖₂ (b_i the i-th column) yields ErrDegenerateBasis wrapped with
// the offending index. Zero-row padding of a wide basis always ends there.
// A factorisation that does not reproduce the basis within
// reconstructionTol (overflow inside the reflectors) is degenerate too.
//
// Errors: ErrDimension, ErrDegenerateBasis.
// Complexity: O(max(m,n)²·n).
func Triangularize(basis matrix.Matrix, tol float64) (*matrix.Dense, error) {
	_, r, err := factor(basis, tol)

	return r, err
}

// factor is Triangularize that also keeps the orthogonal accumulator Q
// (rows × rows) so targets can be rotated into R's coordinates.
func factor(basis matrix.Matrix, tol float64) (*matrix.Dense, *matrix.Dense, error) {
	if matrix.ValidateNotNil(basis) != nil || basis.Rows() == 0 || basis.Cols() == 0 {
		return nil, nil, sphdecErrorf(opTriangularize, ErrDimension)
	}
	n := basis.Cols()
	padded, err := matrix.PadRows(basis, n)
	if err != nil {
		return nil, nil, sphdecErrorf(opTriangularize, fmt.Errorf("%w: %v", ErrDimension, err))
	}
	q, full, err := matrix.QR(padded)
	if err != nil {
		return nil, nil, sphdecErrorf(opTriangularize, err)
	}
	if err = checkReconstruction(padded, q, full); err != nil {
		return nil, nil, sphdecErrorf(opTriangularize, err)
	}
	r, err := matrix.UpperSquare(full)
	if err != nil {
		return nil, nil, sphdecErrorf(opTriangularize, err)
	}

	var (
		col  []float64
		rii  float64
		norm float64
	)
	for i := 0; i < n; i++ {
		rii, _ = r.At(i, i)
		if col, err = padded.Col(i); err != nil {
			return nil, nil, sphdecErrorf(opTriangularize, err)
		}
		norm = math.Sqrt(matrix.SquaredNorm(col))
		if rii == 0 || math.IsNaN(rii) || math.IsInf(rii, 0) || math.Abs(rii) <= tol*norm {
			return nil, nil, sphdecErrorf(opTriangularize, fmt.Errorf("%w: column %d (|R_ii|=%g, ‖b_i‖=%g)", ErrDegenerateBasis, i, math.Abs(rii), norm))
		}
	}

	return q, r, nil
}

// checkReconstruction verifies b ≈ Qᵀ·R entrywise.
func checkReconstruction(b, q, r *matrix.Dense) error {
	scale := 1.0
	for _, v := range b.RawData() {
		scale = math.Max(scale, math.Abs(v))
	}
	if math.IsInf(scale, 0) || math.IsNaN(scale) {
		return fmt.Errorf("%w: non-finite basis entry", ErrDegenerateBasis)
	}
	qt, err := matrix.Transpose(q)
	if err != nil {
		return err
	}
	back, err := matrix.Mul(qt, r)
	if err != nil {
		return err
	}
	ok, err := matrix.EqualApprox(back, b, matrix.WithEpsilon(reconstructionTol*scale))
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: QR does not reproduce the basis (tolerance %g)", ErrDegenerateBasis, reconstructionTol*scale)
	}

	return nil
}
