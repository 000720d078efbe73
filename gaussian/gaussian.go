// SPDX-License-Identifier: MIT

// Package gaussian tabulates discrete Gaussian probabilities at arbitrary precision.
//
// Table gives the one-sided profile ρ(i) = exp(−i²/(2σ²)) for i = 0 … size−1,
// normalised to sum to one over the table. FoldedTable gives the distribution
// of |X| for a centred discrete Gaussian X: index 0 keeps ρ(0) and every
// other index carries ρ(i) + ρ(−i).
//
// Consecutive ratios are generated by the recurrence
// ρ(i) = ρ(i−1)·c^(2i−1) with c = exp(−1/(2σ²)), so only one
// transcendental evaluation (bigfloat.Exp) is needed per table.
package gaussian

import (
	"errors"
	"fmt"
	"math"
	"math/big"

	"github.com/ALTree/bigfloat"
)

// Sentinel errors.
var (
	// ErrBadSigma indicates a non-positive or non-finite σ.
	ErrBadSigma = errors.New("gaussian: sigma must be finite and positive")

	// ErrBadSize indicates a table with no entries or zero precision.
	ErrBadSize = errors.New("gaussian: size and precision must be positive")
)

// Table returns the normalised one-sided profile of length size.
//
// Errors: ErrBadSigma, ErrBadSize.
// Complexity: O(size) big-float multiplications plus one Exp.
func Table(sigma float64, size int, prec uint) ([]*big.Float, error) {
	rho, err := profile(sigma, size, prec)
	if err != nil {
		return nil, fmt.Errorf("Table: %w", err)
	}
	normalize(rho, prec)

	return rho, nil
}

// FoldedTable returns the normalised distribution of |X|, X a centred
// discrete Gaussian with parameter σ, truncated to size entries.
//
// Errors: ErrBadSigma, ErrBadSize.
func FoldedTable(sigma float64, size int, prec uint) ([]*big.Float, error) {
	rho, err := profile(sigma, size, prec)
	if err != nil {
		return nil, fmt.Errorf("FoldedTable: %w", err)
	}
	for i := 1; i < len(rho); i++ {
		rho[i].Add(rho[i], rho[i]) // ρ(i) + ρ(−i)
	}
	normalize(rho, prec)

	return rho, nil
}

// profile returns the unnormalised ρ(0) … ρ(size−1).
func profile(sigma float64, size int, prec uint) ([]*big.Float, error) {
	if sigma <= 0 || math.IsNaN(sigma) || math.IsInf(sigma, 0) {
		return nil, ErrBadSigma
	}
	if size < 1 || prec == 0 {
		return nil, ErrBadSize
	}

	// c = exp(−1/(2σ²))
	s := new(big.Float).SetPrec(prec).SetFloat64(sigma)
	x := new(big.Float).SetPrec(prec).Mul(s, s)
	x.Add(x, x)
	x.Quo(new(big.Float).SetPrec(prec).SetInt64(-1), x)
	c := bigfloat.Exp(x)
	c2 := new(big.Float).SetPrec(prec).Mul(c, c)

	rho := make([]*big.Float, size)
	rho[0] = new(big.Float).SetPrec(prec).SetInt64(1)
	step := new(big.Float).SetPrec(prec).Set(c) // c^(2i−1)
	for i := 1; i < size; i++ {
		rho[i] = new(big.Float).SetPrec(prec).Mul(rho[i-1], step)
		step.Mul(step, c2)
	}

	return rho, nil
}

func normalize(xs []*big.Float, prec uint) {
	sum := new(big.Float).SetPrec(prec)
	for _, v := range xs {
		sum.Add(sum, v)
	}
	for _, v := range xs {
		v.Quo(v, sum)
	}
}
