// SPDX-License-Identifier: MIT

package sphdec_test

import (
	"math"
	"testing"

	"github.com/Make1205/SDA-DGS/matrix"
	"github.com/stretchr/testify/require"
)

func mustBasis(t testing.TB, rows [][]float64) *matrix.Dense {
	t.Helper()
	m, err := matrix.NewDenseFrom(rows)
	require.NoError(t, err)

	return m
}

// latticeNormSq returns ‖B·x‖² computed directly from the basis.
func latticeNormSq(t testing.TB, b matrix.Matrix, x []float64) float64 {
	t.Helper()
	v, err := matrix.MatVec(b, x)
	require.NoError(t, err)

	return matrix.SquaredNorm(v)
}

// requireIntegral asserts every coefficient is a whole number.
func requireIntegral(t testing.TB, x []float64) {
	t.Helper()
	for i, v := range x {
		require.Equal(t, math.Trunc(v), v, "coefficient %d not integral", i)
	}
}

// benchBasis is a deterministic full-rank n×n integer basis with a dominant diagonal.
func benchBasis(t testing.TB, n int) *matrix.Dense {
	t.Helper()
	rows := make([][]float64, n)
	seed := uint32(7)
	for i := range rows {
		rows[i] = make([]float64, n)
		for j := i; j < n; j++ {
			seed = seed*1664525 + 1013904223
			rows[i][j] = float64(int(seed>>24)%11 - 5)
		}
		rows[i][i] = float64(10 + i)
	}

	return mustBasis(t, rows)
}
