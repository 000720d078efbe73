// SPDX-License-Identifier: MIT

// Command sdasvp approximates a discrete Gaussian table with the
// sphere-decoding approximation and reports how close it gets.
//
// Usage:
//
//	sdasvp -scheme frodo1344
//	sdasvp -scheme frodo976 -k 16 -samples 100000
//	sdasvp -scheme frodo1344 -sweep 10,12,14,15,16 -out sweep.html
//	sdasvp -params schemes.yaml -scheme custom -convention shifted
//	sdasvp -list
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"math/big"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Make1205/SDA-DGS/analysis"
	"github.com/Make1205/SDA-DGS/cdt"
	"github.com/Make1205/SDA-DGS/divergence"
	"github.com/Make1205/SDA-DGS/params"
	"github.com/Make1205/SDA-DGS/sphdec"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "sdasvp: %v\n", err)
		os.Exit(1)
	}
}

// float64BasisBits is the largest basis entry size float64 holds exactly.
const float64BasisBits = 53

type config struct {
	scheme     string
	paramsFile string
	k          int
	sweep      string
	out        string
	timeout    time.Duration
	convention string
	samples    int
	runs       int
	key        string
	prec       uint
	list       bool
}

func parseFlags(args []string, stderr io.Writer) (config, error) {
	var c config
	fs := flag.NewFlagSet("sdasvp", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&c.scheme, "scheme", "frodo1344", "scheme name (see -list)")
	fs.StringVar(&c.paramsFile, "params", "", "YAML file with extra schemes")
	fs.IntVar(&c.k, "k", 0, "bits of precision; 0 keeps the scheme's value")
	fs.StringVar(&c.sweep, "sweep", "", "comma-separated precisions to sweep, e.g. 10,12,15")
	fs.StringVar(&c.out, "out", "", "HTML chart path for -sweep")
	fs.DurationVar(&c.timeout, "timeout", 0, "decoder time limit per run (0 = none)")
	fs.StringVar(&c.convention, "convention", "standard", "Rényi output form: standard or shifted")
	fs.IntVar(&c.samples, "samples", 0, "draw this many samples from the SDA table (0 = skip)")
	fs.IntVar(&c.runs, "runs", 5, "benchmark runs for -samples")
	fs.StringVar(&c.key, "key", "sdasvp", "sampler key (at most 64 bytes)")
	fs.UintVar(&c.prec, "prec", analysis.DefaultPrec, "working precision in bits")
	fs.BoolVar(&c.list, "list", false, "list known schemes and exit")
	if err := fs.Parse(args); err != nil {
		return c, err
	}
	if c.prec == 0 {
		return c, errors.New("-prec must be positive")
	}
	if c.out != "" && c.sweep == "" {
		return c, errors.New("-out requires -sweep")
	}

	return c, nil
}

func parseKs(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	ks := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		k, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("-sweep: %w", err)
		}
		ks = append(ks, k)
	}

	return ks, nil
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	c, err := parseFlags(args, stdout)
	if err != nil {
		return err
	}
	logger := log.New(stdout, "sdasvp: ", log.LstdFlags|log.LUTC)

	reg := params.Default()
	if c.paramsFile != "" {
		if err = reg.LoadFile(c.paramsFile); err != nil {
			return err
		}
	}
	if c.list {
		for _, name := range reg.Names() {
			s, _ := reg.Get(name)
			note := ""
			if s.ScaleBits() > float64BasisBits {
				note = fmt.Sprintf("  (basis ~2^%.0f exceeds float64; use a smaller -k or -sweep)", s.ScaleBits())
			}
			fmt.Fprintf(stdout, "%-12s s=%-3d sigma=%-7g alpha=%-5g k=%-3d full=%d folded=%t%s\n",
				s.Name, s.S, s.Sigma, s.Alpha, s.K, s.Full, s.Folded, note)
		}

		return nil
	}

	scheme, err := reg.Get(c.scheme)
	if err != nil {
		return err
	}
	if c.k > 0 {
		scheme = scheme.WithK(c.k)
	}
	conv, err := divergence.ParseConvention(c.convention)
	if err != nil {
		return err
	}
	opts := []analysis.Option{
		analysis.WithLogger(logger),
		analysis.WithPrecision(c.prec),
		analysis.WithConvention(conv),
	}
	if c.timeout > 0 {
		opts = append(opts, analysis.WithSolver(sphdec.WithTimeLimit(c.timeout)))
	}

	if c.sweep != "" {
		return runSweep(ctx, c, scheme, opts, logger)
	}

	rep, err := analysis.RunContext(ctx, scheme, opts...)
	if errors.Is(err, sphdec.ErrDegenerateBasis) {
		return fmt.Errorf("%w; basis entries reach %d bits at k=%d, too large for the float64 decoder: retry with a smaller -k or explore with -sweep",
			err, rep.BasisBits, scheme.K)
	}
	if err != nil {
		return err
	}
	printReport(logger, rep)

	if c.samples > 0 {
		return runSampler(c, rep, logger)
	}

	return nil
}

func runSweep(ctx context.Context, c config, scheme params.Scheme, opts []analysis.Option, logger *log.Logger) error {
	ks, err := parseKs(c.sweep)
	if err != nil {
		return err
	}
	sw, err := analysis.Sweep(ctx, scheme, ks, opts...)
	if err != nil {
		return err
	}
	for _, p := range sw.Points {
		if p.Err != nil {
			logger.Printf("k=%-3d error: %v", p.K, p.Err)
			continue
		}
		logger.Printf("k=%-3d bits=%-3d SD sda=%.3f trunc=%.3f round=%.3f round-k=%.3f",
			p.K, p.Bits, p.SDAStatDist, p.TruncStatDist, p.RoundStatDist, p.RoundKStatDist)
	}
	if c.out == "" {
		return nil
	}

	f, err := os.Create(c.out)
	if err != nil {
		return err
	}
	if err = analysis.RenderSweep(f, sw); err != nil {
		f.Close()

		return err
	}
	logger.Printf("chart written to %s", c.out)

	return f.Close()
}

func printReport(logger *log.Logger, rep analysis.Report) {
	s := rep.Scheme
	logger.Printf("scheme %s: s=%d sigma=%g alpha=%g k=%d (%s Rényi)", s.Name, s.S, s.Sigma, s.Alpha, s.K, rep.Convention)
	logger.Printf("decoder: norm²=%g nodes=%d improvements=%d in %s", rep.Solve.NormSq, rep.Solve.Nodes, rep.Solve.Improvements, rep.Elapsed.Round(time.Millisecond))
	logger.Printf("coefficients: %v", rep.Coeffs)
	for i, v := range rep.SDA.Values {
		logger.Printf("  p[%2d] target=%s sda=%s", i, rep.Target[i].Text('e', 12), v.Text('e', 12))
	}
	all := append([]analysis.Approximation{rep.SDA}, rep.Baselines...)
	for _, a := range all {
		logger.Printf("%-8s bits=%-3d log2 SD=%s log2 Rényi=%s", a.Name, a.Bits, a.StatDist.Text('f', 4), a.Renyi.Text('f', 4))
	}
}

func runSampler(c config, rep analysis.Report, logger *log.Logger) error {
	tab, err := rep.SDATable()
	if err != nil {
		return err
	}
	src, err := cdt.NewKeyedSource([]byte(c.key))
	if err != nil {
		return err
	}
	if err = benchTable(c, "sda", tab, src, logger); err != nil {
		return err
	}
	for _, name := range []string{analysis.BaselineTrunc, analysis.BaselineRound, analysis.BaselineRoundK} {
		bt, err := rep.BaselineTable(name)
		if err != nil {
			return err
		}
		if err = benchTable(c, name, bt, src, logger); err != nil {
			return err
		}
	}

	src.Reset()
	xs, err := tab.Draw(src, c.samples)
	if err != nil {
		return err
	}
	m, err := cdt.EmpiricalMoments(xs)
	if err != nil {
		return err
	}
	logger.Printf("sda empirical mean %.5f variance %.5f (table variance %.5f)", m.Mean, m.Variance, tableVariance(tab))

	return nil
}

// benchTable logs the size and sampling throughput of one table.
func benchTable(c config, name string, tab *cdt.Table, src *cdt.KeyedSource, logger *log.Logger) error {
	logger.Printf("cdt %-8s entries=%d total=%s memory=%d bits digest=%s", name, tab.Size(), tab.Total(), tab.MemoryBits(), tab.Digest())
	src.Reset()
	thr, err := cdt.Benchmark(tab, src, c.samples, c.runs)
	if err != nil {
		return err
	}
	logger.Printf("cdt %-8s throughput over %d runs of %d: mean %.0f/s median %.0f/s stddev %.0f/s",
		name, thr.Runs, thr.Samples, thr.Mean, thr.Median, thr.StdDev)

	return nil
}

// tableVariance is Σ j²·P(|X| = j), the variance of the signed sampler.
func tableVariance(tab *cdt.Table) float64 {
	acc := new(big.Int)
	prev := new(big.Int)
	w := new(big.Int)
	for j, c := range tab.Cumulative() {
		w.Sub(c, prev)
		w.Mul(w, big.NewInt(int64(j*j)))
		acc.Add(acc, w)
		prev = c
	}
	out, _ := new(big.Rat).SetFrac(acc, tab.Total()).Float64()

	return out
}
