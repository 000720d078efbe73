// SPDX-License-Identifier: MIT

package latbasis_test

import (
	"math"
	"math/big"
	"testing"

	"github.com/Make1205/SDA-DGS/latbasis"
	"github.com/Make1205/SDA-DGS/sphdec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floats(xs ...float64) []*big.Float {
	out := make([]*big.Float, len(xs))
	for i, x := range xs {
		out[i] = new(big.Float).SetPrec(latbasis.DefaultPrec).SetFloat64(x)
	}

	return out
}

func entry(t *testing.T, b *latbasis.Basis, i, j int) int64 {
	t.Helper()
	v, err := b.Entry(i, j)
	require.NoError(t, err)
	require.True(t, v.IsInt64())

	return v.Int64()
}

// TestBuild_Layout checks the diagonal, the last column and the corner.
func TestBuild_Layout(t *testing.T) {
	b, err := latbasis.Build(floats(0.5, 0.25), big.NewFloat(0.5))
	require.NoError(t, err)
	require.Equal(t, 3, b.Size())

	want := [][]int64{
		{8, 0, -4},
		{0, 8, -2},
		{0, 0, 1},
	}
	for i := range want {
		for j := range want[i] {
			assert.Equal(t, want[i][j], entry(t, b, i, j), "entry (%d,%d)", i, j)
		}
	}
	d, _ := b.Scale().Float64()
	assert.Equal(t, 8.0, d)
	assert.Equal(t, 4, b.MaxBits())
}

// TestBuild_TruncatesTowardZero keeps −4/3 as −1, not −2.
func TestBuild_TruncatesTowardZero(t *testing.T) {
	third := new(big.Float).SetPrec(latbasis.DefaultPrec).Quo(big.NewFloat(1), big.NewFloat(3))
	b, err := latbasis.Build([]*big.Float{third}, big.NewFloat(0.5))
	require.NoError(t, err)
	assert.Equal(t, int64(4), entry(t, b, 0, 0))
	assert.Equal(t, int64(-1), entry(t, b, 0, 1))
}

// TestBuild_Validation rejects empty input and eps outside (0,1).
func TestBuild_Validation(t *testing.T) {
	_, err := latbasis.Build(nil, big.NewFloat(0.5))
	require.ErrorIs(t, err, latbasis.ErrDimension)

	for _, eps := range []float64{0, 1, 2, -0.5} {
		_, err = latbasis.Build(floats(0.5), big.NewFloat(eps))
		require.ErrorIs(t, err, latbasis.ErrBadEpsilon, "eps=%v", eps)
	}
	_, err = latbasis.Build([]*big.Float{nil}, big.NewFloat(0.5))
	require.ErrorIs(t, err, latbasis.ErrDimension)

	b, err := latbasis.Build(floats(0.5), big.NewFloat(0.5))
	require.NoError(t, err)
	_, err = b.Entry(2, 0)
	require.ErrorIs(t, err, latbasis.ErrDimension)

	require.Panics(t, func() { latbasis.WithPrecision(0) })
}

// TestEpsFromBits compares against float64 powers.
func TestEpsFromBits(t *testing.T) {
	got, _ := latbasis.EpsFromBits(2, 1, 200).Float64()
	assert.InDelta(t, 0.25, got, 1e-15)

	got, _ = latbasis.EpsFromBits(15, 7, 200).Float64()
	assert.InDelta(t, math.Pow(2, -15.0/7.0), got, 1e-15)
}

// TestDense_Strict reports entries beyond 2^53.
func TestDense_Strict(t *testing.T) {
	eps := new(big.Float).SetMantExp(big.NewFloat(1), -30) // D = 2^60
	b, err := latbasis.Build(floats(0.3), eps)
	require.NoError(t, err)

	_, err = b.Dense(true)
	require.ErrorIs(t, err, latbasis.ErrPrecisionLoss)

	d, err := b.Dense(false)
	require.NoError(t, err)
	v, _ := d.At(0, 0)
	assert.Equal(t, math.Ldexp(1, 60), v)
}

// TestBuild_DecodesRationalTarget recovers weights proportional to (3, 1)/4.
// With eps = 2^−4 the scale is 2^12 and (3, 1, 4) maps to the lattice point (0, 0, 4).
func TestBuild_DecodesRationalTarget(t *testing.T) {
	b, err := latbasis.Build(floats(0.75, 0.25), big.NewFloat(1.0/16))
	require.NoError(t, err)
	dense, err := b.Dense(true)
	require.NoError(t, err)

	res, err := sphdec.Solve(dense)
	require.NoError(t, err)
	require.True(t, res.Found)
	den := res.Coeffs[2]
	require.NotZero(t, den)
	assert.Equal(t, 0.75, res.Coeffs[0]/den)
	assert.Equal(t, 0.25, res.Coeffs[1]/den)
	assert.InDelta(t, 16.0, res.NormSq, 1e-6)
}
