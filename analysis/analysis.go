// SPDX-License-Identifier: MIT

// Package analysis runs the sphere-decoding approximation (SDA) of a discrete
// Gaussian table end to end and compares it with fixed-point baselines.
//
// Pipeline (Run):
//  1. Tabulate the target: gaussian.Table or gaussian.FoldedTable with
//     Full+1 entries, keep the first S.
//  2. Build the lattice basis with eps = 2^(−K/S) (latbasis).
//  3. Find its shortest vector (sphdec); coordinates 0 … S−1 are integer
//     weights, coordinate S their common denominator.
//  4. Measure statistical distance and half Rényi divergence of the
//     normalised weights from the target (divergence).
//  5. Do the same for fixed-point baselines at the SDA table's own
//     precision (bit length of the denominator) and at K bits.
//
// The decoder works in float64. Once entries of the basis exceed 2^53 the
// orthogonal component of the last column is lost and the decoder reports
// sphdec.ErrDegenerateBasis; Falcon at K = 72 is such a case.
package analysis

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/Make1205/SDA-DGS/cdt"
	"github.com/Make1205/SDA-DGS/divergence"
	"github.com/Make1205/SDA-DGS/gaussian"
	"github.com/Make1205/SDA-DGS/latbasis"
	"github.com/Make1205/SDA-DGS/params"
	"github.com/Make1205/SDA-DGS/sphdec"
)

const opRun = "Run"

// Baseline kinds.
const (
	BaselineTrunc  = "trunc"   // floor(p·2^b)/2^b at the SDA denominator's bit length
	BaselineRound  = "round"   // round(p·2^b)/2^b at the SDA denominator's bit length
	BaselineRoundK = "round-k" // round(p·2^K)/2^K
)

// Approximation is one finite-precision table and its distance from the target.
type Approximation struct {
	Name     string
	Bits     int          // denominator bit length
	Values   []*big.Float // normalised probabilities
	StatDist *big.Float   // log2 statistical distance
	Renyi    *big.Float   // log2 half Rényi divergence of order Scheme.Alpha
}

// Report is the outcome of Run.
type Report struct {
	Scheme     params.Scheme
	Convention divergence.Convention
	Target     []*big.Float // first S entries of the reference table
	BasisBits  int          // bit length of the largest basis entry
	Coeffs     []float64    // decoder output, S weights then the denominator
	Solve      sphdec.Result
	SDA        Approximation
	Baselines  []Approximation
	Elapsed    time.Duration
}

// Run is RunContext with context.Background.
func Run(scheme params.Scheme, opts ...Option) (Report, error) {
	return RunContext(context.Background(), scheme, opts...)
}

// RunContext executes the SDA pipeline for scheme.
//
// Errors:
//   - params.ErrInvalidScheme (validation),
//   - latbasis errors (construction / strict conversion),
//   - sphdec errors (degenerate basis, cancellation, limits),
//   - divergence errors (all-zero denominator).
func RunContext(ctx context.Context, scheme params.Scheme, opts ...Option) (Report, error) {
	o := gather(opts)
	start := time.Now()
	if err := scheme.Validate(); err != nil {
		return Report{}, fmt.Errorf("%s: %w", opRun, err)
	}
	rep := Report{Scheme: scheme, Convention: o.Convention}

	target, err := Target(scheme, o.Prec)
	if err != nil {
		return rep, fmt.Errorf("%s: %w", opRun, err)
	}
	rep.Target = target

	eps := latbasis.EpsFromBits(scheme.K, scheme.S, o.Prec)
	basis, err := latbasis.Build(target, eps, latbasis.WithPrecision(o.Prec))
	if err != nil {
		return rep, fmt.Errorf("%s: %w", opRun, err)
	}
	rep.BasisBits = basis.MaxBits()
	o.Logger.Printf("%s: k=%d basis %dx%d, largest entry %d bits", scheme.Name, scheme.K, basis.Size(), basis.Size(), rep.BasisBits)

	dense, err := basis.Dense(o.Strict)
	if err != nil {
		return rep, fmt.Errorf("%s: %w", opRun, err)
	}
	res, err := sphdec.SolveContext(ctx, dense, o.Solver...)
	rep.Solve = res
	if err != nil {
		return rep, fmt.Errorf("%s: %w", opRun, err)
	}
	rep.Coeffs = res.Coeffs
	o.Logger.Printf("%s: decoder visited %d nodes, %d improvements, norm² %g", scheme.Name, res.Nodes, res.Improvements, res.NormSq)

	div := []divergence.Option{divergence.WithPrecision(o.Prec), divergence.WithConvention(o.Convention)}
	sda, err := divergence.Normalize(res.Coeffs, scheme.S, div...)
	if err != nil {
		return rep, fmt.Errorf("%s: %w", opRun, err)
	}
	den := new(big.Int)
	new(big.Float).SetFloat64(res.Coeffs[scheme.S]).Int(den)
	bits := den.Abs(den).BitLen()

	if rep.SDA, err = measure("sda", bits, sda, target, scheme.Alpha, div); err != nil {
		return rep, fmt.Errorf("%s: %w", opRun, err)
	}
	for _, b := range []struct {
		name  string
		bits  int
		round bool
	}{
		{BaselineTrunc, bits, false},
		{BaselineRound, bits, true},
		{BaselineRoundK, scheme.K, true},
	} {
		vals := FixedPoint(target, b.bits, b.round)
		a, err := measure(b.name, b.bits, vals, target, scheme.Alpha, div)
		if err != nil {
			return rep, fmt.Errorf("%s: %w", opRun, err)
		}
		rep.Baselines = append(rep.Baselines, a)
	}
	rep.Elapsed = time.Since(start)
	o.Logger.Printf("%s: log2 SD sda=%s trunc=%s (%d bits)", scheme.Name, rep.SDA.StatDist.Text('f', 3), rep.Baselines[0].StatDist.Text('f', 3), bits)

	return rep, nil
}

// measure computes both distances of vals from target.
func measure(name string, bits int, vals, target []*big.Float, alpha float64, div []divergence.Option) (Approximation, error) {
	sd, err := divergence.StatDist(target, vals, div...)
	if err != nil {
		return Approximation{}, err
	}
	rd, err := divergence.RenyiHalf(vals, target, alpha, div...)
	if err != nil {
		return Approximation{}, err
	}

	return Approximation{Name: name, Bits: bits, Values: vals, StatDist: sd, Renyi: rd}, nil
}

// Target returns the first S entries of the scheme's normalised reference table.
func Target(scheme params.Scheme, prec uint) ([]*big.Float, error) {
	var (
		full []*big.Float
		err  error
	)
	if scheme.Folded {
		full, err = gaussian.FoldedTable(scheme.Sigma, scheme.Full+1, prec)
	} else {
		full, err = gaussian.Table(scheme.Sigma, scheme.Full+1, prec)
	}
	if err != nil {
		return nil, err
	}

	return full[:scheme.S], nil
}

// FixedPoint quantises p to multiples of 2^−bits, rounding half up when
// round is set and truncating otherwise.
func FixedPoint(p []*big.Float, bits int, round bool) []*big.Float {
	out := make([]*big.Float, len(p))
	half := big.NewFloat(0.5)
	for i, v := range p {
		scaled := new(big.Float).SetPrec(v.Prec()).SetMantExp(v, bits)
		if round {
			scaled.Add(scaled, half)
		}
		n, _ := scaled.Int(nil)
		out[i] = new(big.Float).SetPrec(v.Prec()).SetInt(n)
		out[i].SetMantExp(out[i], -bits)
	}

	return out
}

// SDATable returns the CDT built from the decoder's integer weights.
func (r Report) SDATable() (*cdt.Table, error) {
	if len(r.Coeffs) < r.Scheme.S {
		return nil, fmt.Errorf("SDATable: %w", cdt.ErrEmptyTable)
	}

	return cdt.FromFloats(r.Coeffs[:r.Scheme.S])
}

// BaselineTable returns the CDT of the named baseline's integer numerators.
func (r Report) BaselineTable(name string) (*cdt.Table, error) {
	for _, b := range r.Baselines {
		if b.Name != name {
			continue
		}
		w := make([]*big.Int, len(b.Values))
		for i, v := range b.Values {
			w[i], _ = new(big.Float).SetMantExp(v, b.Bits).Int(nil)
		}

		return cdt.NewTable(w)
	}

	return nil, fmt.Errorf("BaselineTable(%q): %w", name, cdt.ErrEmptyTable)
}
