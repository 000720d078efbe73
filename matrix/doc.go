// Package matrix offers the dense linear-algebra primitives used by the
// lattice tooling in this module.
//
// The matrix package provides:
//
//   - Dense, a row-major float64 matrix with bounds-checked accessors and an
//     optional finite-only numeric policy.
//   - Kernels: Mul, Transpose, MatVec, PadRows and a Householder QR that
//     accepts tall (rows ≥ cols) inputs.
//   - Generic vector helpers (Dot, SquaredNorm) over any float type.
//   - Central validators shared by every kernel.
//
// Columns of a matrix are treated as lattice basis vectors by the sphdec
// package; QR(B) therefore yields the triangular factor used to decompose
// squared lattice-point norms layer by layer.
//
// All kernels are deterministic: fixed loop orders, no map iteration, no
// hidden randomness.
package matrix
