// SPDX-License-Identifier: MIT

package analysis

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"math/big"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/Make1205/SDA-DGS/params"
)

// ErrEmptySweep indicates Sweep was given no precisions.
var ErrEmptySweep = errors.New("analysis: empty sweep")

// Point is one precision of a sweep. Err is set when Run failed for that
// precision; the remaining fields are then zero.
type Point struct {
	K              int
	Bits           int     // SDA denominator bit length
	SDAStatDist    float64 // log2 values, ±Inf allowed
	SDARenyi       float64
	TruncStatDist  float64
	RoundStatDist  float64
	RoundKStatDist float64
	Err            error
}

// SweepResult collects the points of Sweep in input order.
type SweepResult struct {
	Scheme params.Scheme
	Points []Point
}

// Sweep runs the pipeline once per precision in ks. A failing precision is
// recorded in its Point and the sweep continues; cancellation of ctx stops it.
func Sweep(ctx context.Context, scheme params.Scheme, ks []int, options ...Option) (SweepResult, error) {
	if len(ks) == 0 {
		return SweepResult{}, fmt.Errorf("Sweep: %w", ErrEmptySweep)
	}
	o := gather(options)
	runOpts := append(append([]Option(nil), options...), WithLogger(o.Logger))
	out := SweepResult{Scheme: scheme, Points: make([]Point, 0, len(ks))}
	for _, k := range ks {
		if err := ctx.Err(); err != nil {
			return out, fmt.Errorf("Sweep: %w", err)
		}
		rep, err := RunContext(ctx, scheme.WithK(k), runOpts...)
		if err != nil {
			if ctx.Err() != nil {
				return out, fmt.Errorf("Sweep: k=%d: %w", k, err)
			}
			o.Logger.Printf("%s: k=%d skipped: %v", scheme.Name, k, err)
			out.Points = append(out.Points, Point{K: k, Err: err})
			continue
		}
		p := Point{
			K:           k,
			Bits:        rep.SDA.Bits,
			SDAStatDist: f64(rep.SDA.StatDist),
			SDARenyi:    f64(rep.SDA.Renyi),
		}
		for _, b := range rep.Baselines {
			v := f64(b.StatDist)
			switch b.Name {
			case BaselineTrunc:
				p.TruncStatDist = v
			case BaselineRound:
				p.RoundStatDist = v
			case BaselineRoundK:
				p.RoundKStatDist = v
			}
		}
		out.Points = append(out.Points, p)
	}

	return out, nil
}

func f64(x *big.Float) float64 {
	v, _ := x.Float64()

	return v
}

// lineData maps non-finite values and failed points to "-", which the
// chart renders as a gap.
func lineData(pts []Point, get func(Point) float64) []opts.LineData {
	out := make([]opts.LineData, len(pts))
	for i, p := range pts {
		v := get(p)
		if p.Err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
			out[i] = opts.LineData{Value: "-"}
			continue
		}
		out[i] = opts.LineData{Value: v}
	}

	return out
}

func newLine(title, subtitle string, xs []string) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle}),
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "1200px", Height: "500px"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "k (bits)"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "log2"}),
	)
	line.SetXAxis(xs)

	return line
}

// RenderSweep writes an HTML page with the statistical-distance and Rényi
// curves of sw.
func RenderSweep(w io.Writer, sw SweepResult) error {
	if len(sw.Points) == 0 {
		return fmt.Errorf("RenderSweep: %w", ErrEmptySweep)
	}
	xs := make([]string, len(sw.Points))
	for i, p := range sw.Points {
		xs[i] = strconv.Itoa(p.K)
	}
	sub := fmt.Sprintf("σ=%g s=%d α=%g", sw.Scheme.Sigma, sw.Scheme.S, sw.Scheme.Alpha)

	sd := newLine(sw.Scheme.Name+": statistical distance", sub, xs)
	sd.AddSeries("SDA", lineData(sw.Points, func(p Point) float64 { return p.SDAStatDist })).
		AddSeries("trunc (same bits)", lineData(sw.Points, func(p Point) float64 { return p.TruncStatDist })).
		AddSeries("round (same bits)", lineData(sw.Points, func(p Point) float64 { return p.RoundStatDist })).
		AddSeries("round (k bits)", lineData(sw.Points, func(p Point) float64 { return p.RoundKStatDist }))

	rd := newLine(sw.Scheme.Name+": Rényi divergence", sub, xs)
	rd.AddSeries("SDA", lineData(sw.Points, func(p Point) float64 { return p.SDARenyi }))

	page := components.NewPage()
	page.PageTitle = sw.Scheme.Name + " sweep"
	page.AddCharts(sd, rd)
	if err := page.Render(w); err != nil {
		return fmt.Errorf("RenderSweep: %w", err)
	}

	return nil
}
