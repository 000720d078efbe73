// SPDX-License-Identifier: MIT

package analysis_test

import (
	"bytes"
	"context"
	"log"
	"math"
	"math/big"
	"strings"
	"testing"

	"github.com/Make1205/SDA-DGS/analysis"
	"github.com/Make1205/SDA-DGS/divergence"
	"github.com/Make1205/SDA-DGS/latbasis"
	"github.com/Make1205/SDA-DGS/params"
	"github.com/Make1205/SDA-DGS/sphdec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustScheme(t *testing.T, name string) params.Scheme {
	t.Helper()
	s, err := params.Get(name)
	require.NoError(t, err)

	return s
}

func baseline(t *testing.T, rep analysis.Report, name string) analysis.Approximation {
	t.Helper()
	for _, b := range rep.Baselines {
		if b.Name == name {
			return b
		}
	}
	t.Fatalf("baseline %q missing", name)

	return analysis.Approximation{}
}

// TestRun_BeatsSamePrecisionBaselines checks that the decoder's table is
// closer to the Gaussian than fixed-point tables with the same denominator size.
func TestRun_BeatsSamePrecisionBaselines(t *testing.T) {
	for _, name := range []string{"frodo1344", "frodo976"} {
		t.Run(name, func(t *testing.T) {
			rep, err := analysis.Run(mustScheme(t, name))
			require.NoError(t, err)
			s := rep.Scheme.S
			require.Len(t, rep.Coeffs, s+1)
			require.Len(t, rep.SDA.Values, s)
			require.Len(t, rep.Target, s)
			assert.True(t, rep.Solve.Found)
			assert.Positive(t, rep.SDA.Bits)
			assert.Less(t, rep.SDA.Bits, rep.Scheme.K+3)

			for _, c := range rep.Coeffs {
				assert.Equal(t, math.Trunc(c), c)
			}
			for _, v := range rep.SDA.Values {
				assert.GreaterOrEqual(t, v.Sign(), 0)
			}

			trunc := baseline(t, rep, analysis.BaselineTrunc)
			round := baseline(t, rep, analysis.BaselineRound)
			assert.Equal(t, rep.SDA.Bits, trunc.Bits)
			assert.Equal(t, rep.SDA.Bits, round.Bits)
			assert.Equal(t, rep.Scheme.K, baseline(t, rep, analysis.BaselineRoundK).Bits)
			assert.Negative(t, rep.SDA.StatDist.Cmp(trunc.StatDist), "sda %s trunc %s",
				rep.SDA.StatDist.Text('f', 3), trunc.StatDist.Text('f', 3))
			assert.Negative(t, rep.SDA.StatDist.Cmp(round.StatDist), "sda %s round %s",
				rep.SDA.StatDist.Text('f', 3), round.StatDist.Text('f', 3))

			// log2 SD of a table this close must be well below −1.
			sd, _ := rep.SDA.StatDist.Float64()
			assert.Less(t, sd, -10.0)
			assert.False(t, rep.SDA.Renyi.IsInf())

			tab, err := rep.SDATable()
			require.NoError(t, err)
			assert.Equal(t, s, tab.Size())
			bt, err := rep.BaselineTable(analysis.BaselineTrunc)
			require.NoError(t, err)
			assert.Equal(t, s, bt.Size())
		})
	}
}

func TestRun_Deterministic(t *testing.T) {
	s := mustScheme(t, "frodo1344")
	a, err := analysis.Run(s)
	require.NoError(t, err)
	b, err := analysis.Run(s, analysis.WithConvention(divergence.Shifted))
	require.NoError(t, err)
	assert.Equal(t, a.Coeffs, b.Coeffs)
	assert.Equal(t, 0, a.SDA.StatDist.Cmp(b.SDA.StatDist))
	assert.Equal(t, divergence.Shifted, b.Convention)
}

func TestRun_FloatBoundary(t *testing.T) {
	falcon := mustScheme(t, "falcon")

	_, err := analysis.Run(falcon)
	require.ErrorIs(t, err, sphdec.ErrDegenerateBasis)

	rep, err := analysis.Run(falcon, analysis.WithStrictBasis())
	require.ErrorIs(t, err, latbasis.ErrPrecisionLoss)
	assert.Greater(t, rep.BasisBits, 53)
}

func TestRun_Errors(t *testing.T) {
	bad := mustScheme(t, "frodo1344")
	bad.Sigma = -1
	_, err := analysis.Run(bad)
	require.ErrorIs(t, err, params.ErrInvalidScheme)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = analysis.RunContext(ctx, mustScheme(t, "frodo1344"))
	require.ErrorIs(t, err, sphdec.ErrCanceled)

	_, err = analysis.Run(mustScheme(t, "frodo976"), analysis.WithSolver(sphdec.WithNodeLimit(5)))
	require.ErrorIs(t, err, sphdec.ErrNodeLimit)

	assert.Panics(t, func() { analysis.WithPrecision(0) })
}

func TestRun_Logger(t *testing.T) {
	var buf bytes.Buffer
	_, err := analysis.Run(mustScheme(t, "frodo1344"), analysis.WithLogger(log.New(&buf, "", 0)))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "frodo1344: k=15")
	assert.Contains(t, buf.String(), "log2 SD")
}

func TestFixedPoint(t *testing.T) {
	p := []*big.Float{big.NewFloat(0.3), big.NewFloat(0.7)}

	tr := analysis.FixedPoint(p, 2, false)
	got0, _ := tr[0].Float64()
	got1, _ := tr[1].Float64()
	assert.Equal(t, 0.25, got0)
	assert.Equal(t, 0.5, got1)

	rd := analysis.FixedPoint(p, 2, true)
	got0, _ = rd[0].Float64()
	got1, _ = rd[1].Float64()
	assert.Equal(t, 0.25, got0)
	assert.Equal(t, 0.75, got1)
}

func TestTarget(t *testing.T) {
	s := mustScheme(t, "frodo1344")
	tgt, err := analysis.Target(s, 256)
	require.NoError(t, err)
	require.Len(t, tgt, s.S)
	sum := new(big.Float)
	for _, v := range tgt {
		assert.Positive(t, v.Sign())
		sum.Add(sum, v)
	}
	assert.Negative(t, sum.Cmp(big.NewFloat(1)))

	s.Sigma = 0
	_, err = analysis.Target(s, 256)
	require.Error(t, err)
}

func TestSweep(t *testing.T) {
	s := mustScheme(t, "frodo1344")
	sw, err := analysis.Sweep(context.Background(), s, []int{12, 15, 72})
	require.NoError(t, err)
	require.Len(t, sw.Points, 3)

	assert.NoError(t, sw.Points[0].Err)
	assert.NoError(t, sw.Points[1].Err)
	assert.Less(t, sw.Points[1].SDAStatDist, -10.0)
	require.ErrorIs(t, sw.Points[2].Err, sphdec.ErrDegenerateBasis)
	assert.Equal(t, 72, sw.Points[2].K)

	var buf bytes.Buffer
	require.NoError(t, analysis.RenderSweep(&buf, sw))
	html := buf.String()
	assert.True(t, strings.Contains(html, "<html"))
	assert.Contains(t, html, "frodo1344 sweep")

	_, err = analysis.Sweep(context.Background(), s, nil)
	require.ErrorIs(t, err, analysis.ErrEmptySweep)
	require.ErrorIs(t, analysis.RenderSweep(&buf, analysis.SweepResult{}), analysis.ErrEmptySweep)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = analysis.Sweep(ctx, s, []int{15})
	require.ErrorIs(t, err, context.Canceled)
}
