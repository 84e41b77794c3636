// SPDX-License-Identifier: MIT

package expr_test

import (
	"testing"

	"github.com/katalvlaran/lvexpr/expr"
	"github.com/katalvlaran/lvexpr/matrix"
	"github.com/stretchr/testify/require"
)

// mustMatrix wraps a literal or fails the test.
func mustMatrix(t testing.TB, rows [][]float64) *expr.Matrix {
	t.Helper()
	m, err := expr.MatrixOf(rows)
	require.NoError(t, err)

	return m
}

// rowsOf dumps a Dense for require.Equal comparisons.
func rowsOf(t testing.TB, d *matrix.Dense) [][]float64 {
	t.Helper()
	out := make([][]float64, d.Rows())
	for i := range out {
		row, err := d.Row(i)
		require.NoError(t, err)
		out[i] = row
	}

	return out
}

// materializeRows materializes m and dumps it.
func materializeRows(t testing.TB, m *expr.Matrix) [][]float64 {
	t.Helper()
	d, err := m.Materialize()
	require.NoError(t, err)

	return rowsOf(t, d)
}

// indexedRows reads every cell of m through At, never materializing m.
func indexedRows(t testing.TB, m *expr.Matrix) [][]float64 {
	t.Helper()
	out := make([][]float64, m.Rows())
	for i := range out {
		out[i] = make([]float64, m.Cols())
		for j := range out[i] {
			v, err := m.At(i, j)
			require.NoError(t, err)
			out[i][j] = v
		}
	}

	return out
}

// indexedVec reads every element of v through At.
func indexedVec(t testing.TB, v *expr.Vector) []float64 {
	t.Helper()
	out := make([]float64, v.Len())
	for i := range out {
		x, err := v.At(i)
		require.NoError(t, err)
		out[i] = x
	}

	return out
}
