// SPDX-License-Identifier: MIT

package divergence

import (
	"fmt"
	"math"
	"math/big"

	"github.com/ALTree/bigfloat"
)

const (
	opStatDist  = "StatDist"
	opRenyi     = "Renyi"
	opRenyiHalf = "RenyiHalf"
	opNormalize = "Normalize"
)

// divergenceErrorf wraps err with an operation tag, preserving the sentinel via %w.
func divergenceErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// checkPair validates equal, non-zero lengths and non-negative, non-nil entries.
func checkPair(p, q []*big.Float) error {
	if len(p) == 0 || len(p) != len(q) {
		return fmt.Errorf("%w: len(p)=%d len(q)=%d", ErrDimension, len(p), len(q))
	}
	for i := range p {
		if p[i] == nil || q[i] == nil {
			return fmt.Errorf("%w: nil entry at %d", ErrDimension, i)
		}
		if p[i].Sign() < 0 || q[i].Sign() < 0 {
			return fmt.Errorf("%w: negative probability at %d", ErrNumericDomain, i)
		}
	}

	return nil
}

// log2 returns log2(x) at prec bits; x must be positive.
func log2(x *big.Float, prec uint) *big.Float {
	xe := new(big.Float).SetPrec(prec).Set(x)
	two := new(big.Float).SetPrec(prec).SetInt64(2)

	return new(big.Float).SetPrec(prec).Quo(bigfloat.Log(xe), bigfloat.Log(two))
}

func negInf(prec uint) *big.Float { return new(big.Float).SetPrec(prec).SetInf(true) }
func posInf(prec uint) *big.Float { return new(big.Float).SetPrec(prec).SetInf(false) }

// StatDist returns log2(½·Σ|p_i − q_i|), or −Inf when p and q coincide.
//
// Errors: ErrDimension, ErrNumericDomain (negative entries).
// Complexity: O(n) big-float operations plus one logarithm.
func StatDist(p, q []*big.Float, opts ...Option) (*big.Float, error) {
	o := gather(opts)
	if err := checkPair(p, q); err != nil {
		return nil, divergenceErrorf(opStatDist, err)
	}

	sum := new(big.Float).SetPrec(o.Prec)
	diff := new(big.Float).SetPrec(o.Prec)
	for i := range p {
		diff.Sub(p[i], q[i])
		sum.Add(sum, diff.Abs(diff))
	}
	if sum.Sign() == 0 {
		return negInf(o.Prec), nil
	}
	sum.Quo(sum, new(big.Float).SetPrec(o.Prec).SetInt64(2))

	return log2(sum, o.Prec), nil
}

// Renyi returns the order-α Rényi divergence of p from q in bits under the
// configured Convention.
//
// Behavior highlights:
//   - Terms with p_i = 0 contribute nothing.
//   - Any q_i = 0 < p_i makes the result +Inf.
//   - Standard: log2(M) with M = (Σ p_i·(p_i/q_i)^(α−1))^(1/(α−1)); −Inf when M = 0.
//   - Shifted:  log2(M − 1); −Inf when M ≤ 1.
//
// Errors: ErrDimension, ErrNumericDomain (α ≤ 0, α = 1, NaN/Inf α, negative entries).
func Renyi(p, q []*big.Float, alpha float64, opts ...Option) (*big.Float, error) {
	res, err := renyi(p, q, alpha, false, gather(opts))
	if err != nil {
		return nil, divergenceErrorf(opRenyi, err)
	}

	return res, nil
}

// RenyiHalf is Renyi for one-sided tables of symmetric distributions: the
// term at index 0 counts once, every other term twice.
func RenyiHalf(p, q []*big.Float, alpha float64, opts ...Option) (*big.Float, error) {
	res, err := renyi(p, q, alpha, true, gather(opts))
	if err != nil {
		return nil, divergenceErrorf(opRenyiHalf, err)
	}

	return res, nil
}

func renyi(p, q []*big.Float, alpha float64, half bool, o Options) (*big.Float, error) {
	if alpha <= 0 || alpha == 1 || math.IsNaN(alpha) || math.IsInf(alpha, 0) {
		return nil, fmt.Errorf("%w: alpha=%v", ErrNumericDomain, alpha)
	}
	if err := checkPair(p, q); err != nil {
		return nil, err
	}

	prec := o.Prec
	am1 := new(big.Float).SetPrec(prec).SetFloat64(alpha - 1)
	sum := new(big.Float).SetPrec(prec)
	ratio := new(big.Float).SetPrec(prec)
	two := new(big.Float).SetPrec(prec).SetInt64(2)
	for i := range p {
		if p[i].Sign() == 0 {
			continue
		}
		if q[i].Sign() == 0 {
			return posInf(prec), nil
		}
		ratio.Quo(p[i], q[i])
		term := bigfloat.Pow(new(big.Float).SetPrec(prec).Set(ratio), am1)
		term.Mul(term, p[i])
		if half && i > 0 {
			term.Mul(term, two)
		}
		sum.Add(sum, term)
	}
	if sum.Sign() == 0 {
		return negInf(prec), nil
	}

	inv := new(big.Float).SetPrec(prec).Quo(new(big.Float).SetPrec(prec).SetInt64(1), am1)
	m := bigfloat.Pow(sum, inv)
	if o.Convention == Shifted {
		m.Sub(m, new(big.Float).SetPrec(prec).SetInt64(1))
	}
	if m.Sign() <= 0 {
		return negInf(prec), nil
	}

	return log2(m, prec), nil
}
