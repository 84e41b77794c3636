// SPDX-License-Identifier: MIT

package expr

import (
	"fmt"
	"sync"

	"github.com/katalvlaran/lvexpr/matrix"
)

// Matrix is a deferred matrix-valued expression.
//
// Like Vector it is immutable apart from a one-shot materialization cache
// guarded by mu. Elementwise kinds (Add, Sub, Mul, Div) and true products
// (MatMul, CrossProduct, OuterProduct) are distinct node kinds with
// different shape rules and different engine kernels.
type Matrix struct {
	op   Op
	r, c int           // declared shape, fixed at construction
	leaf *matrix.Dense // OpLeaf storage (aliased, not copied)
	x, y *Matrix       // operands; y only for binary kinds
	s    float64       // scalar operand

	mu    sync.Mutex
	cache *matrix.Dense
}

// WrapMatrix lifts a Dense into a leaf expression without copying it.
// The same ownership rule as WrapVector applies: do not mutate m while
// expressions built on it are in use.
func WrapMatrix(m *matrix.Dense) *Matrix {
	node := &Matrix{op: OpLeaf, leaf: m}
	if m != nil {
		node.r, node.c = m.Shape()
	}

	return node
}

// MatrixOf copies a rectangular literal into a fresh Dense and wraps it.
// The Dense accepts empty shapes and non-finite values.
func MatrixOf(rows [][]float64) (*Matrix, error) {
	d, err := matrix.NewFromRows(rows, matrix.WithAllowEmpty(), matrix.WithNoValidateNaNInf())
	if err != nil {
		return nil, err
	}

	return WrapMatrix(d), nil
}

func newMatBinary(op Op, x, y *Matrix) *Matrix {
	r, c := x.Dims()
	switch op {
	case OpMatMul:
		c = y.Cols()
	case OpCrossProduct:
		r, c = x.Cols(), y.Cols()
	case OpOuterProduct:
		c = y.Rows()
	}

	return &Matrix{op: op, r: r, c: c, x: x, y: y}
}

func newMatScalar(op Op, x *Matrix, s float64) *Matrix {
	r, c := x.Dims()

	return &Matrix{op: op, r: r, c: c, x: x, s: s}
}

// Add returns the deferred elementwise sum m + o.
func (m *Matrix) Add(o *Matrix) *Matrix { return newMatBinary(OpAdd, m, o) }

// Sub returns the deferred elementwise difference m - o.
func (m *Matrix) Sub(o *Matrix) *Matrix { return newMatBinary(OpSub, m, o) }

// Mul returns the deferred elementwise (Hadamard) product m ⊙ o.
// For the linear-algebra product use MatMul.
func (m *Matrix) Mul(o *Matrix) *Matrix { return newMatBinary(OpMul, m, o) }

// Div returns the deferred elementwise quotient m / o.
func (m *Matrix) Div(o *Matrix) *Matrix { return newMatBinary(OpDiv, m, o) }

// AddScalar returns m + s broadcast over every cell.
func (m *Matrix) AddScalar(s float64) *Matrix { return newMatScalar(OpAddScalar, m, s) }

// SubScalar returns m - s.
func (m *Matrix) SubScalar(s float64) *Matrix { return newMatScalar(OpSubScalar, m, s) }

// MulScalar returns m * s.
func (m *Matrix) MulScalar(s float64) *Matrix { return newMatScalar(OpMulScalar, m, s) }

// DivScalar returns m / s.
func (m *Matrix) DivScalar(s float64) *Matrix { return newMatScalar(OpDivScalar, m, s) }

// RSubScalar returns s - m.
func (m *Matrix) RSubScalar(s float64) *Matrix { return newMatScalar(OpScalarSub, m, s) }

// RDivScalar returns s / m.
func (m *Matrix) RDivScalar(s float64) *Matrix { return newMatScalar(OpScalarDiv, m, s) }

// ScalarSubMatrix returns s - m. Same node as m.RSubScalar(s).
func ScalarSubMatrix(s float64, m *Matrix) *Matrix { return m.RSubScalar(s) }

// ScalarDivMatrix returns s / m. Same node as m.RDivScalar(s).
func ScalarDivMatrix(s float64, m *Matrix) *Matrix { return m.RDivScalar(s) }

// Kind returns the node's operation.
func (m *Matrix) Kind() Op {
	if m == nil {
		return OpLeaf
	}

	return m.op
}

// Rows returns the declared row count. A nil Matrix has 0 rows.
func (m *Matrix) Rows() int {
	if m == nil {
		return 0
	}

	return m.r
}

// Cols returns the declared column count. A nil Matrix has 0 columns.
func (m *Matrix) Cols() int {
	if m == nil {
		return 0
	}

	return m.c
}

// Dims returns (Rows, Cols).
func (m *Matrix) Dims() (rows, cols int) { return m.Rows(), m.Cols() }

// Materialized reports whether the cached full result is present.
// Leaves with storage are always materialized.
func (m *Matrix) Materialized() bool {
	if m == nil {
		return false
	}
	if m.op == OpLeaf {
		return m.leaf != nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.cache != nil
}

// operands reports ErrNilOperand when leaf storage or a required operand is
// missing.
func (m *Matrix) operands() error {
	switch {
	case m.op == OpLeaf:
		if m.leaf == nil {
			return ErrNilOperand
		}
	case m.op.isScalar(), m.op == OpTranspose:
		if m.x == nil {
			return ErrNilOperand
		}
	default: // elementwise and products
		if m.x == nil || m.y == nil {
			return ErrNilOperand
		}
	}

	return nil
}

// check validates operand presence and, for elementwise kinds, shape
// agreement. Product compatibility is left to the engine kernels.
func (m *Matrix) check() error {
	if err := m.operands(); err != nil {
		return err
	}
	if m.op.isElementwise() && (m.x.Rows() != m.y.Rows() || m.x.Cols() != m.y.Cols()) {
		return fmt.Errorf("shape %dx%d vs %dx%d: %w",
			m.x.Rows(), m.x.Cols(), m.y.Rows(), m.y.Cols(), matrix.ErrDimensionMismatch)
	}

	return nil
}

// At evaluates cell (i, j). Elementwise, scalar and transpose kinds recurse
// into their operands at the matching cell without materializing anything.
// Product kinds read from their own materialization.
//
// Errors, in priority order: ErrNilOperand, matrix.ErrOutOfRange,
// matrix.ErrDimensionMismatch, then any operand failure, wrapped with the
// node kind.
func (m *Matrix) At(i, j int) (float64, error) {
	if m == nil {
		return 0, ErrNilOperand
	}
	if err := m.operands(); err != nil {
		return 0, exprErrorf(m.op, err)
	}
	if i < 0 || i >= m.r || j < 0 || j >= m.c {
		return 0, cellErrorf(m.op, i, j, m.r, m.c)
	}
	if err := m.check(); err != nil {
		return 0, exprErrorf(m.op, err)
	}

	switch m.op {
	case OpLeaf:
		return m.leaf.At(i, j)
	case OpAdd, OpSub, OpMul, OpDiv:
		l, err := m.x.At(i, j)
		if err != nil {
			return 0, exprErrorf(m.op, err)
		}
		r, err := m.y.At(i, j)
		if err != nil {
			return 0, exprErrorf(m.op, err)
		}
		return combine(m.op, l, r), nil
	case OpAddScalar, OpSubScalar, OpMulScalar, OpDivScalar, OpScalarSub, OpScalarDiv:
		e, err := m.x.At(i, j)
		if err != nil {
			return 0, exprErrorf(m.op, err)
		}
		return broadcast(m.op, e, m.s), nil
	case OpTranspose:
		v, err := m.x.At(j, i)
		if err != nil {
			return 0, exprErrorf(m.op, err)
		}
		return v, nil
	case OpMatMul, OpCrossProduct, OpOuterProduct:
		d, err := m.Materialize()
		if err != nil {
			return 0, err
		}
		return d.At(i, j)
	}

	return 0, exprErrorf(m.op, errUnsupported)
}

// Materialize computes the full result once and caches it on the node.
// Leaves return the wrapped *matrix.Dense itself. The returned Dense is
// shared with the node and must be treated as read-only.
//
// A failed evaluation caches nothing. Concurrent first calls are
// serialized on the node's lock.
func (m *Matrix) Materialize() (*matrix.Dense, error) {
	if m == nil {
		return nil, ErrNilOperand
	}
	if m.op == OpLeaf {
		if m.leaf == nil {
			return nil, exprErrorf(m.op, ErrNilOperand)
		}
		return m.leaf, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cache != nil {
		return m.cache, nil
	}

	out, err := m.compute()
	if err != nil {
		return nil, exprErrorf(m.op, err)
	}
	m.cache = out

	return out, nil
}

// compute produces a fresh Dense for a non-leaf node. Called with mu held.
func (m *Matrix) compute() (*matrix.Dense, error) {
	if err := m.check(); err != nil {
		return nil, err
	}

	switch m.op {
	case OpAdd, OpSub, OpMul, OpDiv:
		return m.computeElementwise()
	case OpAddScalar, OpSubScalar, OpMulScalar, OpDivScalar, OpScalarSub, OpScalarDiv:
		return m.computeScalar()
	case OpTranspose, OpMatMul, OpCrossProduct, OpOuterProduct:
		return m.computeProduct()
	}

	return nil, errUnsupported
}

// computeElementwise materializes both operands and hands them to the
// matching engine kernel.
func (m *Matrix) computeElementwise() (*matrix.Dense, error) {
	xd, err := m.x.Materialize()
	if err != nil {
		return nil, err
	}
	yd, err := m.y.Materialize()
	if err != nil {
		return nil, err
	}

	switch m.op {
	case OpAdd:
		return asDense(matrix.Add(xd, yd))
	case OpSub:
		return asDense(matrix.Sub(xd, yd))
	case OpMul:
		return asDense(matrix.Hadamard(xd, yd))
	default:
		return asDense(matrix.Divide(xd, yd))
	}
}

// computeScalar broadcasts the scalar in row-major (i, j) order through the
// engine's Map kernel; MulScalar uses Scale.
func (m *Matrix) computeScalar() (*matrix.Dense, error) {
	xd, err := m.x.Materialize()
	if err != nil {
		return nil, err
	}
	if m.op == OpMulScalar {
		return asDense(matrix.Scale(xd, m.s))
	}
	op, s := m.op, m.s

	return asDense(matrix.Map(xd, func(v float64) float64 { return broadcast(op, v, s) }))
}

// asDense narrows a kernel result. Every kernel allocates a *matrix.Dense.
func asDense(res matrix.Matrix, err error) (*matrix.Dense, error) {
	if err != nil {
		return nil, err
	}
	d, ok := res.(*matrix.Dense)
	if !ok {
		return nil, fmt.Errorf("kernel returned %T: %w", res, errUnsupported)
	}

	return d, nil
}
