// SPDX-License-Identifier: MIT

package sphdec

import (
	"context"
	"fmt"

	"github.com/Make1205/SDA-DGS/matrix"
)

const opSolve = "Solve"

// Solve runs the sphere decoder on basis without cancellation.
// See SolveContext.
func Solve(basis matrix.Matrix, opts ...Option) (Result, error) {
	return SolveContext(context.Background(), basis, opts...)
}

// SolveContext finds the integer coefficient vector minimising the squared
// distance between the lattice point basis·x and the target (origin by default).
//
// Implementation:
//   - Stage 1: resolve options; apply WithTimeLimit as a context deadline.
//   - Stage 2: triangularize (pad, QR, degeneracy check); rotate the target.
//   - Stage 3: run the iterative enumerator.
//
// Returns:
//   - Result with Found=false and zero Coeffs when nothing beats the radius.
//   - On ErrCanceled/ErrNodeLimit the incumbent found so far is returned with the error.
//
// Errors:
//   - ErrDimension, ErrDegenerateBasis, ErrCanceled, ErrNodeLimit.
//
// Determinism:
//   - Identical inputs produce identical results; no global state is touched.
func SolveContext(ctx context.Context, basis matrix.Matrix, opts ...Option) (Result, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.TimeLimit > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.TimeLimit)
		defer cancel()
	}

	q, r, err := factor(basis, o.DegenerateTol)
	if err != nil {
		return Result{}, sphdecErrorf(opSolve, err)
	}
	n := r.Rows()

	z := make([]float64, n)
	if o.Target != nil {
		if len(o.Target) != q.Cols() {
			return Result{}, sphdecErrorf(opSolve, fmt.Errorf("%w: target has %d entries, want %d", ErrDimension, len(o.Target), q.Cols()))
		}
		rotated, err := matrix.MatVec(q, o.Target)
		if err != nil {
			return Result{}, sphdecErrorf(opSolve, err)
		}
		copy(z, rotated[:n])
	}

	e := newEngine(ctx, r.RawData(), z, n, o)
	if err = ctx.Err(); err != nil {
		return e.result(), sphdecErrorf(opSolve, fmt.Errorf("%w: %w", ErrCanceled, err))
	}
	if err = e.run(); err != nil {
		return e.result(), sphdecErrorf(opSolve, err)
	}

	return e.result(), nil
}
