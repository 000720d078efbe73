// Package matrix_test contains unit tests for the Dense implementation
// of the Matrix interface in the matrix package.
package matrix_test

import (
	"math"
	"testing"

	"github.com/Make1205/SDA-DGS/matrix"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewDenseInvalidDimensions ensures that NewDense rejects non-positive dimensions.
func TestNewDenseInvalidDimensions(t *testing.T) {
	_, err := matrix.NewDense(0, 5)                      // zero rows
	require.ErrorIs(t, err, matrix.ErrInvalidDimensions) // expect ErrInvalidDimensions

	_, err = matrix.NewDense(5, 0)                       // zero columns
	require.ErrorIs(t, err, matrix.ErrInvalidDimensions) // expect ErrInvalidDimensions
}

// TestRowsCols verifies that Rows(), Cols() and Shape() agree.
func TestRowsCols(t *testing.T) {
	m, err := matrix.NewDense(3, 4)
	require.NoError(t, err)

	require.Equal(t, 3, m.Rows())
	require.Equal(t, 4, m.Cols())
	r, c := m.Shape()
	assert.Equal(t, 3, r)
	assert.Equal(t, 4, c)
}

// TestAtSetBounds checks that out-of-range accesses return wrapped sentinels.
func TestAtSetBounds(t *testing.T) {
	m, err := matrix.NewDense(2, 2)
	require.NoError(t, err)

	_, err = m.At(2, 0)
	require.ErrorIs(t, err, matrix.ErrOutOfRange)
	require.ErrorIs(t, m.Set(0, -1, 1), matrix.ErrOutOfRange)

	require.NoError(t, m.Set(1, 0, 7.5))
	v, err := m.At(1, 0)
	require.NoError(t, err)
	assert.Equal(t, 7.5, v)
}

// TestSetRejectsNaNInf checks the default finite-only policy and its opt-out.
func TestSetRejectsNaNInf(t *testing.T) {
	m, err := matrix.NewDense(1, 1)
	require.NoError(t, err)
	require.ErrorIs(t, m.Set(0, 0, math.NaN()), matrix.ErrNaNInf)
	require.ErrorIs(t, m.Set(0, 0, math.Inf(-1)), matrix.ErrNaNInf)

	loose, err := matrix.NewDenseWithOptions(1, 1, matrix.WithNoValidateNaNInf())
	require.NoError(t, err)
	require.NoError(t, loose.Set(0, 0, math.Inf(1)))
}

// TestNewDenseFrom covers ragged input and value copying.
func TestNewDenseFrom(t *testing.T) {
	_, err := matrix.NewDenseFrom(nil)
	require.ErrorIs(t, err, matrix.ErrInvalidDimensions)

	_, err = matrix.NewDenseFrom([][]float64{{1, 2}, {3}})
	require.ErrorIs(t, err, matrix.ErrRagged)

	src := [][]float64{{1, 2}, {3, 4}}
	m := mustFrom(t, src)
	src[0][0] = 99 // the matrix owns its buffer
	v, err := m.At(0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1.0, v)
	assert.Equal(t, "[1, 2]\n[3, 4]\n", m.String())
}

// TestCloneIndependent ensures Clone deep-copies the buffer.
func TestCloneIndependent(t *testing.T) {
	m := mustFrom(t, [][]float64{{1, 2}, {3, 4}})
	cp := m.Clone()
	require.NoError(t, cp.Set(0, 0, -1))

	v, _ := m.At(0, 0)
	assert.Equal(t, 1.0, v)
	_, isDense := cp.(*matrix.Dense)
	assert.True(t, isDense)
}

// TestRowColCopies checks Row/Col extraction and bounds.
func TestRowColCopies(t *testing.T) {
	m := mustFrom(t, [][]float64{{1, 2, 3}, {4, 5, 6}})

	row, err := m.Row(1)
	require.NoError(t, err)
	assert.Equal(t, []float64{4, 5, 6}, row)
	col, err := m.Col(2)
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 6}, col)

	row[0] = 100
	v, _ := m.At(1, 0)
	assert.Equal(t, 4.0, v)

	_, err = m.Row(2)
	require.ErrorIs(t, err, matrix.ErrOutOfRange)
	_, err = m.Col(-1)
	require.ErrorIs(t, err, matrix.ErrOutOfRange)
}

// TestInduced extracts a permuted submatrix.
func TestInduced(t *testing.T) {
	m := mustFrom(t, [][]float64{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}})
	sub, err := m.Induced([]int{2, 0}, []int{1})
	require.NoError(t, err)
	assert.Equal(t, "[8]\n[2]\n", sub.String())

	_, err = m.Induced(nil, []int{0})
	require.ErrorIs(t, err, matrix.ErrBadShape)
	_, err = m.Induced([]int{3}, []int{0})
	require.ErrorIs(t, err, matrix.ErrOutOfRange)
}

// TestIdentityDiagonal builds the special constructors.
func TestIdentityDiagonal(t *testing.T) {
	id, err := matrix.NewIdentity(2)
	require.NoError(t, err)
	assert.Equal(t, "[1, 0]\n[0, 1]\n", id.String())

	d, err := matrix.NewDiagonal([]float64{2, 3})
	require.NoError(t, err)
	assert.Equal(t, "[2, 0]\n[0, 3]\n", d.String())

	_, err = matrix.NewDiagonal(nil)
	require.ErrorIs(t, err, matrix.ErrInvalidDimensions)
}
