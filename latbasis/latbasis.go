// SPDX-License-Identifier: MIT

// Package latbasis builds the integer lattice whose shortest vector encodes a
// finite-precision approximation of a probability vector.
//
// For v = (v_0 … v_{n−1}) and precision eps ∈ (0,1), let D = eps^−(n+1).
// The (n+1)×(n+1) basis has columns
//
//	b_i = trunc(D)·e_i               for i < n
//	b_n = (trunc(−v_0·D), …, trunc(−v_{n−1}·D), 1)
//
// where trunc rounds toward zero. A lattice point Σ x_i b_i is short exactly
// when every x_i / x_n is close to v_i, so the shortest vector returned by a
// sphere decoder yields integer weights x_0 … x_{n−1} with denominator x_n.
//
// Arithmetic runs on math/big at a configurable precision (DefaultPrec bits).
// Dense converts to a float64 matrix for the decoder; entries beyond 2^53 lose
// low bits there, which Dense(true) reports as ErrPrecisionLoss.
package latbasis

import (
	"errors"
	"fmt"
	"math"
	"math/big"

	"github.com/ALTree/bigfloat"
	"github.com/Make1205/SDA-DGS/matrix"
)

// Sentinel errors.
var (
	// ErrDimension indicates an empty probability vector or an out-of-range index.
	ErrDimension = errors.New("latbasis: dimension mismatch")

	// ErrBadEpsilon indicates eps outside the open interval (0, 1).
	ErrBadEpsilon = errors.New("latbasis: eps must lie in (0, 1)")

	// ErrPrecisionLoss indicates an entry that float64 cannot represent exactly.
	ErrPrecisionLoss = errors.New("latbasis: entry exceeds float64 integer range")

	// ErrBadPrecision is the panic message for WithPrecision(0).
	ErrBadPrecision = errors.New("latbasis: precision must be positive")
)

// DefaultPrec is the working precision in bits (≈ 361 decimal digits).
const DefaultPrec uint = 1200

// maxExactFloat is 2^53, the largest magnitude below which every integer is a float64.
var maxExactFloat = new(big.Int).Lsh(big.NewInt(1), 53)

// Options configures Build.
//
// Prec – mantissa bits used for scaling before truncation. Default DefaultPrec.
type Options struct {
	Prec uint
}

// Option represents a functional option for configuring Build.
type Option func(*Options)

// WithPrecision sets the working precision in bits. Panics when bits == 0.
func WithPrecision(bits uint) Option {
	if bits == 0 {
		panic(ErrBadPrecision.Error())
	}

	return func(o *Options) {
		o.Prec = bits
	}
}

// DefaultOptions returns the defaults used by Build.
func DefaultOptions() Options {
	return Options{Prec: DefaultPrec}
}

// Basis is an (n+1)×(n+1) integer lattice basis in column convention.
type Basis struct {
	size    int
	entries []*big.Int // row-major, len == size*size
	scale   *big.Float // D = eps^−(n+1) at working precision
}

// Build constructs the basis for probs at precision eps.
//
// Implementation:
//   - Stage 1: validate (non-empty probs, 0 < eps < 1, no nil entries).
//   - Stage 2: D = 1 / eps^(n+1) by binary exponentiation at opts.Prec bits.
//   - Stage 3: fill the diagonal with trunc(D), column n with trunc(−v_i·D), corner 1.
//
// Errors: ErrDimension, ErrBadEpsilon.
// Complexity: O(n² + n·M(prec)).
func Build(probs []*big.Float, eps *big.Float, opts ...Option) (*Basis, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	n := len(probs)
	if n == 0 {
		return nil, fmt.Errorf("Build: %w", ErrDimension)
	}
	if eps == nil || eps.Sign() <= 0 || eps.Cmp(big.NewFloat(1)) >= 0 || eps.IsInf() {
		return nil, fmt.Errorf("Build: %w", ErrBadEpsilon)
	}
	for i, p := range probs {
		if p == nil {
			return nil, fmt.Errorf("Build: probs[%d] is nil: %w", i, ErrDimension)
		}
	}

	e := new(big.Float).SetPrec(o.Prec).Set(eps)
	scale := new(big.Float).SetPrec(o.Prec).SetInt64(1)
	scale.Quo(scale, powUint(e, uint(n+1)))

	size := n + 1
	b := &Basis{size: size, entries: make([]*big.Int, size*size), scale: scale}
	for i := range b.entries {
		b.entries[i] = new(big.Int)
	}

	diag, _ := scale.Int(nil) // truncation toward zero
	tmp := new(big.Float).SetPrec(o.Prec)
	for i := 0; i < n; i++ {
		b.entries[i*size+i].Set(diag)
		tmp.Mul(probs[i], scale)
		tmp.Neg(tmp)
		tmp.Int(b.entries[i*size+n])
	}
	b.entries[n*size+n].SetInt64(1)

	return b, nil
}

// powUint returns x^k at x's precision by binary exponentiation.
func powUint(x *big.Float, k uint) *big.Float {
	res := new(big.Float).SetPrec(x.Prec()).SetInt64(1)
	base := new(big.Float).SetPrec(x.Prec()).Set(x)
	for ; k > 0; k >>= 1 {
		if k&1 == 1 {
			res.Mul(res, base)
		}
		base.Mul(base, base)
	}

	return res
}

// EpsFromBits returns 2^(−k/s) at prec bits, the per-coordinate precision
// that makes the scale factor D = 2^(k(n+1)/s).
// Panics when s == 0 or prec == 0.
func EpsFromBits(k, s int, prec uint) *big.Float {
	if s == 0 || prec == 0 {
		panic("latbasis: EpsFromBits: s and prec must be non-zero")
	}
	two := new(big.Float).SetPrec(prec).SetInt64(2)
	w := new(big.Float).SetPrec(prec).SetInt64(int64(-k))
	w.Quo(w, new(big.Float).SetPrec(prec).SetInt64(int64(s)))

	return bigfloat.Pow(two, w)
}

// Size returns n+1, the row and column count.
func (b *Basis) Size() int { return b.size }

// Scale returns a copy of D = eps^−(n+1).
func (b *Basis) Scale() *big.Float { return new(big.Float).Copy(b.scale) }

// Entry returns a copy of the entry at (i, j).
func (b *Basis) Entry(i, j int) (*big.Int, error) {
	if i < 0 || j < 0 || i >= b.size || j >= b.size {
		return nil, fmt.Errorf("Entry(%d,%d): %w", i, j, ErrDimension)
	}

	return new(big.Int).Set(b.entries[i*b.size+j]), nil
}

// MaxBits returns the bit length of the largest entry magnitude.
func (b *Basis) MaxBits() int {
	var m int
	for _, v := range b.entries {
		if l := v.BitLen(); l > m {
			m = l
		}
	}

	return m
}

// Dense converts the basis to float64 for the sphere decoder. With strict set,
// any entry whose magnitude exceeds 2^53 yields ErrPrecisionLoss; otherwise
// such entries are rounded to the nearest float64.
func (b *Basis) Dense(strict bool) (*matrix.Dense, error) {
	d, err := matrix.NewDense(b.size, b.size)
	if err != nil {
		return nil, err
	}
	var f float64
	for i := 0; i < b.size; i++ {
		for j := 0; j < b.size; j++ {
			v := b.entries[i*b.size+j]
			if strict && new(big.Int).Abs(v).Cmp(maxExactFloat) > 0 {
				return nil, fmt.Errorf("Dense: entry (%d,%d) has %d bits: %w", i, j, v.BitLen(), ErrPrecisionLoss)
			}
			f, _ = new(big.Float).SetInt(v).Float64()
			if math.IsInf(f, 0) {
				return nil, fmt.Errorf("Dense: entry (%d,%d) overflows float64: %w", i, j, ErrPrecisionLoss)
			}
			if err = d.Set(i, j, f); err != nil {
				return nil, err
			}
		}
	}

	return d, nil
}
