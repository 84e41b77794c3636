// SPDX-License-Identifier: MIT

package expr_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/lvexpr/expr"
	"github.com/katalvlaran/lvexpr/matrix"
	"github.com/stretchr/testify/require"
)

// TestMatrixElementwise covers the four elementwise kinds on a 2x2 pair.
func TestMatrixElementwise(t *testing.T) {
	t.Parallel()

	a := mustMatrix(t, [][]float64{{1, 2}, {3, 4}})
	b := mustMatrix(t, [][]float64{{5, 6}, {7, 8}})
	tests := []struct {
		name string
		e    *expr.Matrix
		kind expr.Op
		want [][]float64
	}{
		{"Add", a.Add(b), expr.OpAdd, [][]float64{{6, 8}, {10, 12}}},
		{"Sub", a.Sub(b), expr.OpSub, [][]float64{{-4, -4}, {-4, -4}}},
		{"Mul", a.Mul(b), expr.OpMul, [][]float64{{5, 12}, {21, 32}}},
		{"Div", b.Div(a), expr.OpDiv, [][]float64{{5, 3}, {7.0 / 3, 2}}},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.kind, tc.e.Kind())
			r, c := tc.e.Dims()
			require.Equal(t, 2, r)
			require.Equal(t, 2, c)
			require.Equal(t, tc.want, indexedRows(t, tc.e))
			require.Equal(t, tc.want, materializeRows(t, tc.e))
		})
	}
}

// TestMatrixScalarNonSquare checks scalar broadcast on a 2x3 matrix keeps
// the row-major layout on both paths and for both scalar sides.
func TestMatrixScalarNonSquare(t *testing.T) {
	t.Parallel()

	a := mustMatrix(t, [][]float64{{1, 2, 4}, {8, 16, 32}})
	tests := []struct {
		name string
		e    *expr.Matrix
		want [][]float64
	}{
		{"AddScalar", a.AddScalar(1), [][]float64{{2, 3, 5}, {9, 17, 33}}},
		{"SubScalar", a.SubScalar(1), [][]float64{{0, 1, 3}, {7, 15, 31}}},
		{"MulScalar", a.MulScalar(0.5), [][]float64{{0.5, 1, 2}, {4, 8, 16}}},
		{"DivScalar", a.DivScalar(2), [][]float64{{0.5, 1, 2}, {4, 8, 16}}},
		{"RSubScalar", a.RSubScalar(10), [][]float64{{9, 8, 6}, {2, -6, -22}}},
		{"RDivScalar", a.RDivScalar(64), [][]float64{{64, 32, 16}, {8, 4, 2}}},
		{"ScalarSubMatrix", expr.ScalarSubMatrix(10, a), [][]float64{{9, 8, 6}, {2, -6, -22}}},
		{"ScalarDivMatrix", expr.ScalarDivMatrix(64, a), [][]float64{{64, 32, 16}, {8, 4, 2}}},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			r, c := tc.e.Dims()
			require.Equal(t, 2, r)
			require.Equal(t, 3, c)
			require.Equal(t, tc.want, indexedRows(t, tc.e))
			require.Equal(t, tc.want, materializeRows(t, tc.e))
		})
	}
}

// TestMatrixTranspose checks shape swap, cell mapping and involution.
func TestMatrixTranspose(t *testing.T) {
	a := mustMatrix(t, [][]float64{{1, 2, 3}, {4, 5, 6}})
	at := a.T()
	require.Equal(t, expr.OpTranspose, at.Kind())
	r, c := at.Dims()
	require.Equal(t, 3, r)
	require.Equal(t, 2, c)

	want := [][]float64{{1, 4}, {2, 5}, {3, 6}}
	require.Equal(t, want, indexedRows(t, at))
	require.Equal(t, want, materializeRows(t, at))

	back := expr.Transpose(at)
	require.Equal(t, [][]float64{{1, 2, 3}, {4, 5, 6}}, materializeRows(t, back))

	// A transpose node composes elementwise with a matrix of the swapped shape.
	sum := at.Add(mustMatrix(t, [][]float64{{1, 1}, {1, 1}, {1, 1}}))
	require.Equal(t, [][]float64{{2, 5}, {3, 6}, {4, 7}}, indexedRows(t, sum))
}

// TestMatrixMaterializeIdempotent checks the cached Dense is reused.
func TestMatrixMaterializeIdempotent(t *testing.T) {
	e := mustMatrix(t, [][]float64{{1, 2}, {3, 4}}).MulScalar(2)
	require.False(t, e.Materialized())

	first, err := e.Materialize()
	require.NoError(t, err)
	require.True(t, e.Materialized())

	second, err := e.Materialize()
	require.NoError(t, err)
	require.Same(t, first, second)
}

// TestMatrixLeaf checks that leaves alias the wrapped Dense.
func TestMatrixLeaf(t *testing.T) {
	d, err := matrix.NewFromRows([][]float64{{1, 2}, {3, 4}})
	require.NoError(t, err)

	leaf := expr.WrapMatrix(d)
	require.Equal(t, expr.OpLeaf, leaf.Kind())
	require.True(t, leaf.Materialized())

	got, err := leaf.Materialize()
	require.NoError(t, err)
	require.Same(t, d, got)

	v, err := leaf.At(1, 0)
	require.NoError(t, err)
	require.Equal(t, 3.0, v)
}

// TestMatrixShapeMismatch checks elementwise kinds reject unequal shapes on
// evaluation, never on construction.
func TestMatrixShapeMismatch(t *testing.T) {
	a := mustMatrix(t, [][]float64{{1, 2}, {3, 4}})
	b := mustMatrix(t, [][]float64{{1, 2, 3}, {4, 5, 6}})
	for _, e := range []*expr.Matrix{a.Add(b), a.Sub(b), a.Mul(b), a.Div(b), a.Add(a.T().MatMul(b))} {
		_, err := e.At(0, 0)
		require.ErrorIs(t, err, matrix.ErrDimensionMismatch, e.Kind().String())

		_, err = e.Materialize()
		require.ErrorIs(t, err, matrix.ErrDimensionMismatch, e.Kind().String())
		require.False(t, e.Materialized())
	}
}

// TestMatrixOutOfRange checks cell validation on leaves and derived nodes.
func TestMatrixOutOfRange(t *testing.T) {
	a := mustMatrix(t, [][]float64{{1, 2, 3}})
	for _, e := range []*expr.Matrix{a, a.AddScalar(1), a.T(), a.MatMul(a.T())} {
		r, c := e.Dims()
		_, err := e.At(r, 0)
		require.ErrorIs(t, err, matrix.ErrOutOfRange, e.Kind().String())
		_, err = e.At(0, c)
		require.ErrorIs(t, err, matrix.ErrOutOfRange, e.Kind().String())
		_, err = e.At(-1, 0)
		require.ErrorIs(t, err, matrix.ErrOutOfRange, e.Kind().String())
	}
}

// TestMatrixDivideByZero checks IEEE results survive materialization.
func TestMatrixDivideByZero(t *testing.T) {
	a := mustMatrix(t, [][]float64{{1, -1}, {0, 2}})
	z := mustMatrix(t, [][]float64{{0, 0}, {0, 0}})

	d, err := a.Div(z).Materialize()
	require.NoError(t, err)
	v, _ := d.At(0, 0)
	require.True(t, math.IsInf(v, 1))
	v, _ = d.At(0, 1)
	require.True(t, math.IsInf(v, -1))
	v, _ = d.At(1, 0)
	require.True(t, math.IsNaN(v))

	d, err = a.RDivScalar(1).Materialize()
	require.NoError(t, err)
	v, _ = d.At(1, 0)
	require.True(t, math.IsInf(v, 1))
}

// TestMatrixSharedOperand checks a DAG where one node feeds two parents.
func TestMatrixSharedOperand(t *testing.T) {
	a := mustMatrix(t, [][]float64{{1, 2}, {3, 4}})
	twice := a.MulScalar(2)
	e := twice.Add(twice).Sub(a) // 3a

	require.Equal(t, [][]float64{{3, 6}, {9, 12}}, materializeRows(t, e))
	require.True(t, twice.Materialized())
}

// TestMatrixNil checks nil operands and nil leaf storage.
func TestMatrixNil(t *testing.T) {
	var nilMat *expr.Matrix
	r, c := nilMat.Dims()
	require.Zero(t, r)
	require.Zero(t, c)
	require.False(t, nilMat.Materialized())

	_, err := nilMat.Materialize()
	require.ErrorIs(t, err, expr.ErrNilOperand)

	empty := expr.WrapMatrix(nil)
	require.False(t, empty.Materialized())
	_, err = empty.Materialize()
	require.ErrorIs(t, err, matrix.ErrNilMatrix)

	a := mustMatrix(t, [][]float64{{1}})
	for _, e := range []*expr.Matrix{a.Add(nil), nilMat.AddScalar(1), a.MatMul(nil)} {
		_, err = e.Materialize()
		require.ErrorIs(t, err, expr.ErrNilOperand, e.Kind().String())
	}
}

// TestMatrixOfErrors checks literal validation.
func TestMatrixOfErrors(t *testing.T) {
	_, err := expr.MatrixOf([][]float64{{1, 2}, {3}})
	require.ErrorIs(t, err, matrix.ErrBadShape)

	m, err := expr.MatrixOf([][]float64{{math.NaN(), math.Inf(1)}})
	require.NoError(t, err, "non-finite literals are accepted")
	v, err := m.At(0, 1)
	require.NoError(t, err)
	require.True(t, math.IsInf(v, 1))
}

// TestAtErrorPriority checks both families rank failures the same way:
// nil operand, then index range, then shape mismatch.
func TestAtErrorPriority(t *testing.T) {
	x3 := expr.WrapVector([]float64{1, 2, 3})
	x4 := expr.WrapVector([]float64{1, 2, 3, 4})
	a22 := mustMatrix(t, [][]float64{{1, 2}, {3, 4}})
	a23 := mustMatrix(t, [][]float64{{1, 2, 3}, {4, 5, 6}})

	// Mismatched operands read out of range.
	_, err := x3.Add(x4).At(5)
	require.ErrorIs(t, err, matrix.ErrOutOfRange)
	require.NotErrorIs(t, err, matrix.ErrDimensionMismatch)
	_, err = a22.Add(a23).At(5, 5)
	require.ErrorIs(t, err, matrix.ErrOutOfRange)
	require.NotErrorIs(t, err, matrix.ErrDimensionMismatch)

	// Mismatched operands read in range.
	_, err = x3.Add(x4).At(0)
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
	_, err = a22.Add(a23).At(0, 0)
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)

	// Missing operand wins over a bad index.
	_, err = x3.Add(nil).At(7)
	require.ErrorIs(t, err, expr.ErrNilOperand)
	require.NotErrorIs(t, err, matrix.ErrOutOfRange)
	_, err = a22.Add(nil).At(7, 7)
	require.ErrorIs(t, err, expr.ErrNilOperand)
	require.NotErrorIs(t, err, matrix.ErrOutOfRange)
	_, err = expr.WrapMatrix(nil).At(0, 0)
	require.ErrorIs(t, err, expr.ErrNilOperand)
}
