// SPDX-License-Identifier: MIT

// Package divergence measures how far a finite-precision distribution is from
// its ideal counterpart, in bits.
//
// Measures:
//
//	– StatDist:  log2(½·Σ|p_i − q_i|), the statistical (total variation) distance.
//	– Renyi:     log2 of the order-α Rényi divergence R_α(P‖Q) = (Σ p_i·(p_i/q_i)^(α−1))^(1/(α−1)).
//	– RenyiHalf: Renyi over a one-sided table of a symmetric distribution; every
//	             index except 0 stands for ±i and is counted twice.
//
// All arithmetic is math/big at a configurable precision (DefaultPrec bits)
// with logarithms and powers from github.com/ALTree/bigfloat.
//
// Conventions (Rényi only):
//
//	– Standard: log2(R_α).
//	– Shifted:  log2(R_α − 1), the bit-security form used by parameter scripts
//	            that track how far R_α sits above 1.
//
// Infinite divergence (some q_i = 0 < p_i) is a value (+Inf), not an error.
package divergence

import (
	"errors"
	"fmt"
)

// Sentinel errors.
var (
	// ErrDimension indicates inputs of different or zero length, or a bad index.
	ErrDimension = errors.New("divergence: dimension mismatch")

	// ErrNumericDomain indicates α ∉ (0,1)∪(1,∞), negative probabilities or a zero divisor.
	ErrNumericDomain = errors.New("divergence: argument outside numeric domain")

	// ErrBadPrecision is the panic message for WithPrecision(0).
	ErrBadPrecision = errors.New("divergence: precision must be positive")
)

// DefaultPrec is the default working precision in bits.
const DefaultPrec uint = 1000

// Convention selects the Rényi output form.
type Convention int

const (
	// Standard reports log2(R_α).
	Standard Convention = iota

	// Shifted reports log2(R_α − 1).
	Shifted
)

// String implements fmt.Stringer.
func (c Convention) String() string {
	switch c {
	case Standard:
		return "standard"
	case Shifted:
		return "shifted"
	default:
		return fmt.Sprintf("Convention(%d)", int(c))
	}
}

// ParseConvention maps "standard"/"shifted" to a Convention.
func ParseConvention(s string) (Convention, error) {
	switch s {
	case "standard":
		return Standard, nil
	case "shifted":
		return Shifted, nil
	default:
		return Standard, fmt.Errorf("ParseConvention(%q): %w", s, ErrNumericDomain)
	}
}

// Options configures the measures.
//
// Prec       – working precision in bits. Default DefaultPrec.
// Convention – Rényi output form. Default Standard.
type Options struct {
	Prec       uint
	Convention Convention
}

// Option represents a functional option.
type Option func(*Options)

// WithPrecision sets the working precision. Panics when bits == 0.
func WithPrecision(bits uint) Option {
	if bits == 0 {
		panic(ErrBadPrecision.Error())
	}

	return func(o *Options) {
		o.Prec = bits
	}
}

// WithConvention selects the Rényi output form.
func WithConvention(c Convention) Option {
	return func(o *Options) {
		o.Convention = c
	}
}

// DefaultOptions returns Standard at DefaultPrec bits.
func DefaultOptions() Options {
	return Options{Prec: DefaultPrec, Convention: Standard}
}

func gather(opts []Option) Options {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	return o
}
