// SPDX-License-Identifier: MIT

package divergence

import (
	"fmt"
	"math/big"
)

// Float64s lifts xs to big floats at prec bits (DefaultPrec when prec == 0).
func Float64s(xs []float64, prec uint) []*big.Float {
	if prec == 0 {
		prec = DefaultPrec
	}
	out := make([]*big.Float, len(xs))
	for i, x := range xs {
		out[i] = new(big.Float).SetPrec(prec).SetFloat64(x)
	}

	return out
}

// Normalize divides coeffs[:idx] by coeffs[idx], turning decoder output
// (integer weights followed by their common denominator) into probabilities.
//
// Errors: ErrDimension (idx out of range or zero), ErrNumericDomain (zero denominator).
func Normalize(coeffs []float64, idx int, opts ...Option) ([]*big.Float, error) {
	o := gather(opts)
	if idx <= 0 || idx >= len(coeffs) {
		return nil, divergenceErrorf(opNormalize, fmt.Errorf("%w: idx=%d len=%d", ErrDimension, idx, len(coeffs)))
	}
	if coeffs[idx] == 0 {
		return nil, divergenceErrorf(opNormalize, fmt.Errorf("%w: zero denominator", ErrNumericDomain))
	}
	den := new(big.Float).SetPrec(o.Prec).SetFloat64(coeffs[idx])
	out := make([]*big.Float, idx)
	for i := 0; i < idx; i++ {
		out[i] = new(big.Float).SetPrec(o.Prec).SetFloat64(coeffs[i])
		out[i].Quo(out[i], den)
	}

	return out, nil
}
