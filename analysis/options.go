// SPDX-License-Identifier: MIT

package analysis

import (
	"io"
	"log"

	"github.com/Make1205/SDA-DGS/divergence"
	"github.com/Make1205/SDA-DGS/sphdec"
)

// DefaultPrec is the working precision (bits) for tables, basis and divergences.
const DefaultPrec uint = 1200

// Options configures Run and Sweep.
//
// Prec       – big-float precision in bits. Default DefaultPrec.
// Convention – Rényi output form. Default divergence.Standard.
// Strict     – reject bases whose entries exceed 2^53 (latbasis.ErrPrecisionLoss).
// Solver     – options forwarded to sphdec.SolveContext.
// Logger     – progress messages; nil means silent.
type Options struct {
	Prec       uint
	Convention divergence.Convention
	Strict     bool
	Solver     []sphdec.Option
	Logger     *log.Logger
}

// Option represents a functional option for configuring Run.
type Option func(*Options)

// WithPrecision sets the working precision. Panics when bits == 0.
func WithPrecision(bits uint) Option {
	if bits == 0 {
		panic("analysis: precision must be positive")
	}

	return func(o *Options) {
		o.Prec = bits
	}
}

// WithConvention selects the Rényi output form.
func WithConvention(c divergence.Convention) Option {
	return func(o *Options) {
		o.Convention = c
	}
}

// WithStrictBasis makes Run fail when the basis does not fit float64 exactly.
func WithStrictBasis() Option {
	return func(o *Options) {
		o.Strict = true
	}
}

// WithSolver appends decoder options (time/node limits, callbacks).
func WithSolver(opts ...sphdec.Option) Option {
	return func(o *Options) {
		o.Solver = append(o.Solver, opts...)
	}
}

// WithLogger routes progress messages to l.
func WithLogger(l *log.Logger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}

// DefaultOptions returns the defaults used by Run.
func DefaultOptions() Options {
	return Options{Prec: DefaultPrec, Convention: divergence.Standard}
}

func gather(opts []Option) Options {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard, "", 0)
	}

	return o
}
