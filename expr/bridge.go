// SPDX-License-Identifier: MIT

package expr

import "github.com/katalvlaran/lvexpr/matrix"

// MulVec returns the deferred matrix-vector product m·x, a Vector of
// length m.Rows.
func (m *Matrix) MulVec(x *Vector) *Vector {
	return &Vector{op: OpMatVec, n: m.Rows(), a: m, x: x}
}

// MulVecT returns the deferred product mᵀ·x, a Vector of length m.Cols.
func (m *Matrix) MulVecT(x *Vector) *Vector {
	return &Vector{op: OpMatVecTranspose, n: m.Cols(), a: m, x: x}
}

// MatVec is the function form of a.MulVec(x).
func MatVec(a *Matrix, x *Vector) *Vector { return a.MulVec(x) }

// MatVecTranspose is the function form of a.MulVecT(x).
func MatVecTranspose(a *Matrix, x *Vector) *Vector { return a.MulVecT(x) }

// computeBridge materializes both operands and runs the engine's dedicated
// matrix-vector kernel. Length mismatches surface as
// matrix.ErrDimensionMismatch from the kernel.
func (v *Vector) computeBridge() ([]float64, error) {
	ad, err := v.a.Materialize()
	if err != nil {
		return nil, err
	}
	xs, err := v.x.Materialize()
	if err != nil {
		return nil, err
	}
	if v.op == OpMatVecTranspose {
		return matrix.MatTVec(ad, xs)
	}

	return matrix.MatVec(ad, xs)
}
