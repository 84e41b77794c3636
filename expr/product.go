// SPDX-License-Identifier: MIT

package expr

import "github.com/katalvlaran/lvexpr/matrix"

// T returns the deferred transpose of m. Shape is (m.Cols, m.Rows).
// Indexed reads swap coordinates on the operand; materialization always
// allocates a new Dense through the engine's Transpose kernel.
func (m *Matrix) T() *Matrix {
	r, c := m.Dims()

	return &Matrix{op: OpTranspose, r: c, c: r, x: m}
}

// MatMul returns the deferred product m·o with shape (m.Rows, o.Cols).
func (m *Matrix) MatMul(o *Matrix) *Matrix { return newMatBinary(OpMatMul, m, o) }

// CrossProduct returns the deferred product mᵀ·o with shape (m.Cols, o.Cols).
func (m *Matrix) CrossProduct(o *Matrix) *Matrix { return newMatBinary(OpCrossProduct, m, o) }

// OuterProduct returns the deferred product m·oᵀ with shape (m.Rows, o.Rows).
func (m *Matrix) OuterProduct(o *Matrix) *Matrix { return newMatBinary(OpOuterProduct, m, o) }

// Transpose is the function form of m.T().
func Transpose(m *Matrix) *Matrix { return m.T() }

// MatMul is the function form of a.MatMul(b).
func MatMul(a, b *Matrix) *Matrix { return a.MatMul(b) }

// CrossProduct is the function form of a.CrossProduct(b): aᵀ·b.
func CrossProduct(a, b *Matrix) *Matrix { return a.CrossProduct(b) }

// OuterProduct is the function form of a.OuterProduct(b): a·bᵀ.
func OuterProduct(a, b *Matrix) *Matrix { return a.OuterProduct(b) }

// computeProduct materializes the operand(s) and delegates the whole
// numeric kernel to the engine. Inner-dimension mismatches surface as
// matrix.ErrDimensionMismatch from the kernel validators.
func (m *Matrix) computeProduct() (*matrix.Dense, error) {
	xd, err := m.x.Materialize()
	if err != nil {
		return nil, err
	}
	if m.op == OpTranspose {
		return asDense(matrix.Transpose(xd))
	}

	yd, err := m.y.Materialize()
	if err != nil {
		return nil, err
	}
	switch m.op {
	case OpMatMul:
		return asDense(matrix.Mul(xd, yd))
	case OpCrossProduct:
		return asDense(matrix.MulTransA(xd, yd))
	default:
		return asDense(matrix.MulTransB(xd, yd))
	}
}
