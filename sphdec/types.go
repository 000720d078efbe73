// SPDX-License-Identifier: MIT

// Package sphdec finds short and close lattice vectors with a Schnorr–Euchner
// sphere decoder.
//
// A lattice is given by a basis matrix whose columns are the basis vectors.
// Solve searches integer coefficient vectors x and returns the one minimising
// ‖B·x‖² (shortest vector, SVP), or ‖t − B·x‖² when a target t is supplied
// through WithTarget (closest vector, CVP).
//
// Algorithm:
//  1. Triangularize: pad rows to make the basis at least square, run a
//     Householder QR (matrix.QR) and keep the upper n×n block R.
//  2. Enumerate: depth-first over layers n−1 … 0. At layer L the partial
//     squared distance is the sum of per-layer terms from L up; candidates
//     are visited in zig-zag order (center, −1, +1, −2, +2, …) around the
//     rounded real center. Subtrees whose partial distance exceeds the
//     current bound are pruned.
//  3. Shrink: every accepted leaf lowers the bound to its own squared norm.
//
// The search keeps an explicit per-layer frame stack instead of recursing,
// so depth is limited by heap memory only.
//
// Complexity:
//   - Triangularize: O(m²n).
//   - Enumerate: exponential in n in the worst case; O(n) work per node.
//   - Memory: O(n²) for R plus O(n) frame state.
//
// Options:
//
//	– WithRadius:        initial search radius (squared bound r²). Default: unbounded.
//	– WithTarget:        CVP target in the basis' ambient coordinates. Default: origin.
//	– WithZeroEps:       squared norms ≤ eps are treated as the zero vector. Default 1e-15.
//	– WithDegenerateTol: relative diagonal threshold for ErrDegenerateBasis.
//	– WithTimeLimit:     soft wall-clock budget (checked every 4096 node events).
//	– WithNodeLimit:     hard cap on visited nodes.
//	– WithOnImprove:     callback on every accepted leaf.
//
// Errors (sentinel):
//
//	– ErrDimension       empty/nil basis or mismatched target length.
//	– ErrDegenerateBasis a diagonal entry of R is zero, non-finite or negligible.
//	– ErrCanceled        the context ended (wraps the context error).
//	– ErrNodeLimit       WithNodeLimit was exhausted.
//
// Example usage:
//
//	res, err := sphdec.Solve(basis)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(res.Coeffs, res.NormSq)
package sphdec

import (
	"errors"
	"math"
	"time"
)

// Sentinel errors returned by the sphere decoder.
var (
	// ErrDimension indicates a nil or empty basis, or a target of the wrong length.
	ErrDimension = errors.New("sphdec: dimension mismatch")

	// ErrDegenerateBasis indicates that the basis columns are (numerically) linearly dependent.
	ErrDegenerateBasis = errors.New("sphdec: degenerate basis")

	// ErrCanceled indicates that the search stopped because its context ended.
	ErrCanceled = errors.New("sphdec: search canceled")

	// ErrNodeLimit indicates that the node budget was exhausted.
	ErrNodeLimit = errors.New("sphdec: node limit reached")

	// ErrBadRadius is the panic message for a non-finite or non-positive radius.
	ErrBadRadius = errors.New("sphdec: radius must be finite and positive")

	// ErrBadLimit is the panic message for negative limits or tolerances.
	ErrBadLimit = errors.New("sphdec: limits and tolerances must be non-negative")
)

const (
	// DefaultZeroEps is the squared-norm threshold below which a leaf is the zero vector.
	DefaultZeroEps = 1e-15

	// DefaultDegenerateTol is the relative threshold |R_ii| ≤ tol·‖b_i‖₂.
	DefaultDegenerateTol = 64 * 0x1p-52

	// checkEvery is the node-event period of context polls (power of two).
	checkEvery = 4096
)

// Improvement describes one accepted leaf.
type Improvement struct {
	NormSq float64   // new bound
	Coeffs []float64 // copy of the coefficient vector
	Nodes  int64     // node events visited so far
}

// Options configures a decoder call.
//
// RadiusSq      – initial squared bound. Default math.MaxFloat64 (unbounded).
// Target        – CVP target (nil for SVP).
// ZeroEps       – squared norms ≤ ZeroEps are rejected as the zero vector.
// DegenerateTol – relative diagonal threshold for ErrDegenerateBasis.
// TimeLimit     – soft wall-clock budget; 0 means none.
// NodeLimit     – hard cap on node events; 0 means none.
// OnImprove     – optional callback per accepted leaf.
type Options struct {
	RadiusSq      float64
	Target        []float64
	ZeroEps       float64
	DegenerateTol float64
	TimeLimit     time.Duration
	NodeLimit     int64
	OnImprove     func(Improvement)
}

// Option represents a functional option for configuring Solve.
type Option func(*Options)

// WithRadius sets the initial search radius r; the bound compared against
// squared distances is r². Panics unless r is finite and positive.
func WithRadius(r float64) Option {
	if r <= 0 || math.IsNaN(r) || math.IsInf(r, 0) {
		panic(ErrBadRadius.Error())
	}

	return func(o *Options) {
		o.RadiusSq = r * r
	}
}

// WithTarget switches the search to CVP around t. The slice is copied.
// len(t) must equal the row count of the (padded) basis; Solve reports
// ErrDimension otherwise.
func WithTarget(t []float64) Option {
	cp := append([]float64(nil), t...)

	return func(o *Options) {
		o.Target = cp
	}
}

// WithZeroEps overrides the zero-vector threshold. Panics on negative or NaN eps.
func WithZeroEps(eps float64) Option {
	if eps < 0 || math.IsNaN(eps) {
		panic(ErrBadLimit.Error())
	}

	return func(o *Options) {
		o.ZeroEps = eps
	}
}

// WithDegenerateTol overrides the relative diagonal threshold. Panics on negative or NaN tol.
func WithDegenerateTol(tol float64) Option {
	if tol < 0 || math.IsNaN(tol) {
		panic(ErrBadLimit.Error())
	}

	return func(o *Options) {
		o.DegenerateTol = tol
	}
}

// WithTimeLimit bounds the wall-clock time of the search. Panics on negative d.
func WithTimeLimit(d time.Duration) Option {
	if d < 0 {
		panic(ErrBadLimit.Error())
	}

	return func(o *Options) {
		o.TimeLimit = d
	}
}

// WithNodeLimit caps the number of node events. Panics on negative n.
func WithNodeLimit(n int64) Option {
	if n < 0 {
		panic(ErrBadLimit.Error())
	}

	return func(o *Options) {
		o.NodeLimit = n
	}
}

// WithOnImprove registers fn to be called on every accepted leaf.
func WithOnImprove(fn func(Improvement)) Option {
	return func(o *Options) {
		o.OnImprove = fn
	}
}

// DefaultOptions returns the defaults used by Solve.
//
// Defaults:
//   - RadiusSq:      math.MaxFloat64 (unbounded).
//   - ZeroEps:       DefaultZeroEps.
//   - DegenerateTol: DefaultDegenerateTol.
//   - No target, no limits, no callback.
func DefaultOptions() Options {
	return Options{
		RadiusSq:      math.MaxFloat64,
		ZeroEps:       DefaultZeroEps,
		DegenerateTol: DefaultDegenerateTol,
	}
}

// Result is the outcome of a decoder call.
//
// Coeffs holds integral values. When Found is false no leaf was accepted
// and Coeffs is the all-zero vector.
type Result struct {
	Coeffs       []float64
	NormSq       float64 // squared distance of Coeffs (the final bound)
	Improvements int     // accepted leaves
	Nodes        int64   // node events visited
	Found        bool
}

// Radius returns the smallest float64 r with r·r ≥ NormSq, so that
// WithRadius(res.Radius()) reproduces res on the same basis.
// Returns 0 when nothing was found.
func (r Result) Radius() float64 {
	if !r.Found {
		return 0
	}
	rad := math.Sqrt(r.NormSq)
	for rad*rad < r.NormSq {
		rad = math.Nextafter(rad, math.Inf(1))
	}
	for {
		prev := math.Nextafter(rad, 0)
		if prev <= 0 || prev*prev < r.NormSq {
			break
		}
		rad = prev
	}

	return rad
}
