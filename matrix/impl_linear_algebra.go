// SPDX-License-Identifier: MIT
// Package matrix provides universal operations on any Matrix implementation,
// including element-wise arithmetic, matrix multiplication (plain and with
// either operand transposed), transpose, matrix-vector products and scalar maps.
// All functions perform strict fail-fast validation and return clear errors
// on dimension mismatches.
//
// Purpose:
//   - Canonical numeric kernels consumed by the expression layer (package expr).
//   - Every kernel returns a freshly allocated result; operands are never mutated.
//
// Notes:
//   - Results are allocated through newResult: zero-sized shapes are legal and
//     the finite-only policy is OFF, so IEEE results (±Inf, NaN) survive.
//   - Fast paths engage when operands are *Dense; any other Matrix falls back
//     to At/Set with fixed i→j(→k) loop orders.

package matrix

import (
	"fmt"
	"math"
)

// ZeroSum is the initial accumulator value for dot products.
const ZeroSum = 0.0

// Operation name constants for unified error wrapping and reducing magic strings.
const (
	opAdd       = "Add"
	opSub       = "Sub"
	opHadamard  = "Hadamard"
	opDivide    = "Divide"
	opScale     = "Scale"
	opMap       = "Map"
	opMul       = "Mul"
	opMulTransA = "MulTransA"
	opMulTransB = "MulTransB"
	opTranspose = "Transpose"
	opMatVec    = "MatVec"
	opMatTVec   = "MatTVec"
	opAllClose  = "AllClose"
)

// matrixErrorf wraps err with an operation tag, preserving the original error via %w.
// Use only when err != nil to avoid creating a non-nil wrapper around a nil cause.
//
// AI-Hints:
//   - Always gate calls with `if err != nil { return nil, matrixErrorf(tag, err) }`.
func matrixErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// elementwise computes out[i,j] = f(a[i,j], b[i,j]) for identical shapes.
// Internal helper for Add/Sub/Hadamard/Divide to share validation, allocation and fast-path.
//
// Implementation:
//   - Stage 1: ValidateBinarySameShape(a, b). Allocate result(rows, cols).
//   - Stage 2: Fast-path if both are *Dense - single flat loop 0..n-1.
//     Otherwise, fallback At/Set with fixed i→j order.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch, At errors from foreign implementations.
//
// Complexity:
//   - Time O(r*c), Space O(r*c) for the new result.
func elementwise(a, b Matrix, opTag string, f func(x, y float64) float64) (Matrix, error) {
	if err := ValidateBinarySameShape(a, b); err != nil {
		return nil, matrixErrorf(opTag, err)
	}

	rows, cols := a.Rows(), a.Cols()
	res, err := newResult(rows, cols)
	if err != nil {
		return nil, matrixErrorf(opTag, err)
	}

	// Fast path: *Dense with *Dense → single flat loop.
	if da, okA := a.(*Dense); okA {
		if db, okB := b.(*Dense); okB {
			n := rows * cols
			for idx := 0; idx < n; idx++ {
				res.data[idx] = f(da.data[idx], db.data[idx])
			}

			return res, nil
		}
	}

	// Fallback: interface path with fixed i→j order.
	var i, j int
	var av, bv float64
	for i = 0; i < rows; i++ {
		for j = 0; j < cols; j++ {
			av, err = a.At(i, j)
			if err != nil {
				return nil, matrixErrorf(opTag, fmt.Errorf("At(%d,%d): %w", i, j, err))
			}
			bv, err = b.At(i, j)
			if err != nil {
				return nil, matrixErrorf(opTag, fmt.Errorf("At(%d,%d): %w", i, j, err))
			}
			res.data[i*cols+j] = f(av, bv)
		}
	}

	return res, nil
}

// Add computes the element-wise sum C = A + B and returns a fresh Dense result.
// Errors: ErrNilMatrix (nil input), ErrDimensionMismatch (shape mismatch).
// Complexity: Time O(r*c), Space O(r*c).
func Add(a, b Matrix) (Matrix, error) {
	return elementwise(a, b, opAdd, func(x, y float64) float64 { return x + y })
}

// Sub computes the element-wise difference C = A - B and returns a fresh Dense result.
// Errors: ErrNilMatrix (nil input), ErrDimensionMismatch (shape mismatch).
// Complexity: Time O(r*c), Space O(r*c).
func Sub(a, b Matrix) (Matrix, error) {
	return elementwise(a, b, opSub, func(x, y float64) float64 { return x - y })
}

// Hadamard computes the elementwise product (a ⊙ b) with a fresh Dense result.
//
// Notes:
//   - Hadamard ≠ matrix multiplication; it is elementwise. Use Mul for A×B.
//
// Complexity: Time O(r*c), Space O(r*c).
func Hadamard(a, b Matrix) (Matrix, error) {
	return elementwise(a, b, opHadamard, func(x, y float64) float64 { return x * y })
}

// Divide computes the elementwise quotient C[i,j] = A[i,j] / B[i,j].
// Division by zero follows IEEE-754 (±Inf, NaN) and is not an error.
// Complexity: Time O(r*c), Space O(r*c).
func Divide(a, b Matrix) (Matrix, error) {
	return elementwise(a, b, opDivide, func(x, y float64) float64 { return x / y })
}

// Map returns a new matrix whose elements are f(m[i,j]).
//
// Implementation:
//   - Stage 1: ValidateNotNil(m). Allocate result(rows, cols).
//   - Stage 2: If *Dense, flat loop; else generic i→j At.
//
// Behavior highlights:
//   - The result carries no finite-only policy; f may yield ±Inf/NaN.
//
// Complexity:
//   - Time O(r*c), Space O(r*c).
func Map(m Matrix, f func(v float64) float64) (Matrix, error) {
	return mapWith(m, opMap, f)
}

// Scale returns a new matrix whose elements are alpha * m[i,j].
// alpha = 0 yields an explicit zero matrix with the same shape (NaN/Inf entries aside).
// Complexity: Time O(r*c), Space O(r*c).
func Scale(m Matrix, alpha float64) (Matrix, error) {
	return mapWith(m, opScale, func(v float64) float64 { return v * alpha })
}

// mapWith is the shared body of Map and Scale.
func mapWith(m Matrix, opTag string, f func(v float64) float64) (Matrix, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opTag, err)
	}

	rows, cols := m.Rows(), m.Cols()
	res, err := newResult(rows, cols)
	if err != nil {
		return nil, matrixErrorf(opTag, err)
	}

	if dm, ok := m.(*Dense); ok {
		n := rows * cols
		for idx := 0; idx < n; idx++ {
			res.data[idx] = f(dm.data[idx])
		}

		return res, nil
	}

	var i, j int
	var v float64
	for i = 0; i < rows; i++ {
		for j = 0; j < cols; j++ {
			v, err = m.At(i, j)
			if err != nil {
				return nil, matrixErrorf(opTag, fmt.Errorf("At(%d,%d): %w", i, j, err))
			}
			res.data[i*cols+j] = f(v)
		}
	}

	return res, nil
}

// Mul performs standard matrix multiplication C = A × B (no aliasing).
//
// Implementation:
//   - Stage 1: Validate A,B (not nil) and inner dimensions (A.Cols == B.Rows).
//   - Stage 2: If A and B are *Dense, use i→k→j with row-major strides;
//     otherwise use i→j→k with a fixed order.
//
// Returns:
//   - Matrix: new Dense C with shape (r × c).
//
// Errors:
//   - ErrNilMatrix (nil input), ErrDimensionMismatch (inner mismatch).
//
// Complexity:
//   - Time O(r*n*c), Space O(r*c).
//
// Notes:
//   - No zero-skipping: 0·Inf must yield NaN exactly as the textbook sum does.
func Mul(a, b Matrix) (Matrix, error) {
	if err := ValidateMulCompatible(a, b); err != nil {
		return nil, matrixErrorf(opMul, err)
	}

	aRows, aCols, bCols := a.Rows(), a.Cols(), b.Cols()
	res, err := newResult(aRows, bCols)
	if err != nil {
		return nil, matrixErrorf(opMul, err)
	}
	var (
		i, j, k         int
		av, bv, current float64
	)
	// Fast-path for two Dense matrices
	if da, okA := a.(*Dense); okA {
		if db, okB := b.(*Dense); okB {
			// da.data layout: i*aCols + k
			// db.data layout: k*bCols + j
			var rowOffsetA, rowOffsetB, rowOffsetR int
			for i = 0; i < aRows; i++ {
				rowOffsetA = i * aCols
				rowOffsetR = i * bCols
				for k = 0; k < aCols; k++ {
					av = da.data[rowOffsetA+k]
					rowOffsetB = k * bCols
					for j = 0; j < bCols; j++ {
						res.data[rowOffsetR+j] += av * db.data[rowOffsetB+j]
					}
				}
			}

			return res, nil
		}
	}

	// Fallback: generic interface triple-loop (i-j-k)
	for i = 0; i < aRows; i++ {
		for j = 0; j < bCols; j++ {
			current = ZeroSum
			for k = 0; k < aCols; k++ {
				av, err = a.At(i, k)
				if err != nil {
					return nil, matrixErrorf(opMul, fmt.Errorf("At(%d,%d): %w", i, k, err))
				}
				bv, err = b.At(k, j)
				if err != nil {
					return nil, matrixErrorf(opMul, fmt.Errorf("At(%d,%d): %w", k, j, err))
				}
				current += av * bv
			}
			res.data[i*bCols+j] = current
		}
	}

	return res, nil
}

// MulTransA computes C = Aᵀ × B without forming Aᵀ.
//
// Implementation:
//   - Stage 1: Validate A,B (not nil) and A.Rows == B.Rows.
//   - Stage 2: *Dense fast path runs k→i→j: row k of A scales row k of B into row i of C.
//     Generic path uses i→j→k via At.
//
// Returns:
//   - Matrix: new Dense with shape (A.Cols × B.Cols).
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch.
//
// Complexity:
//   - Time O(n*r*c), Space O(r*c).
func MulTransA(a, b Matrix) (Matrix, error) {
	if err := ValidateMulTransACompatible(a, b); err != nil {
		return nil, matrixErrorf(opMulTransA, err)
	}

	inner, aCols, bCols := a.Rows(), a.Cols(), b.Cols()
	res, err := newResult(aCols, bCols)
	if err != nil {
		return nil, matrixErrorf(opMulTransA, err)
	}
	var (
		i, j, k         int
		av, bv, current float64
	)
	if da, okA := a.(*Dense); okA {
		if db, okB := b.(*Dense); okB {
			var rowOffsetA, rowOffsetB, rowOffsetR int
			for k = 0; k < inner; k++ {
				rowOffsetA = k * aCols
				rowOffsetB = k * bCols
				for i = 0; i < aCols; i++ {
					av = da.data[rowOffsetA+i]
					rowOffsetR = i * bCols
					for j = 0; j < bCols; j++ {
						res.data[rowOffsetR+j] += av * db.data[rowOffsetB+j]
					}
				}
			}

			return res, nil
		}
	}

	for i = 0; i < aCols; i++ {
		for j = 0; j < bCols; j++ {
			current = ZeroSum
			for k = 0; k < inner; k++ {
				av, err = a.At(k, i)
				if err != nil {
					return nil, matrixErrorf(opMulTransA, fmt.Errorf("At(%d,%d): %w", k, i, err))
				}
				bv, err = b.At(k, j)
				if err != nil {
					return nil, matrixErrorf(opMulTransA, fmt.Errorf("At(%d,%d): %w", k, j, err))
				}
				current += av * bv
			}
			res.data[i*bCols+j] = current
		}
	}

	return res, nil
}

// MulTransB computes C = A × Bᵀ without forming Bᵀ.
//
// Implementation:
//   - Stage 1: Validate A,B (not nil) and A.Cols == B.Cols.
//   - Stage 2: *Dense fast path is a row·row dot product per output cell (both contiguous).
//
// Returns:
//   - Matrix: new Dense with shape (A.Rows × B.Rows).
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch.
//
// Complexity:
//   - Time O(r*n*c), Space O(r*c).
func MulTransB(a, b Matrix) (Matrix, error) {
	if err := ValidateMulTransBCompatible(a, b); err != nil {
		return nil, matrixErrorf(opMulTransB, err)
	}

	aRows, inner, bRows := a.Rows(), a.Cols(), b.Rows()
	res, err := newResult(aRows, bRows)
	if err != nil {
		return nil, matrixErrorf(opMulTransB, err)
	}
	var (
		i, j, k         int
		av, bv, current float64
	)
	if da, okA := a.(*Dense); okA {
		if db, okB := b.(*Dense); okB {
			var rowOffsetA, rowOffsetB int
			for i = 0; i < aRows; i++ {
				rowOffsetA = i * inner
				for j = 0; j < bRows; j++ {
					rowOffsetB = j * inner
					current = ZeroSum
					for k = 0; k < inner; k++ {
						current += da.data[rowOffsetA+k] * db.data[rowOffsetB+k]
					}
					res.data[i*bRows+j] = current
				}
			}

			return res, nil
		}
	}

	for i = 0; i < aRows; i++ {
		for j = 0; j < bRows; j++ {
			current = ZeroSum
			for k = 0; k < inner; k++ {
				av, err = a.At(i, k)
				if err != nil {
					return nil, matrixErrorf(opMulTransB, fmt.Errorf("At(%d,%d): %w", i, k, err))
				}
				bv, err = b.At(j, k)
				if err != nil {
					return nil, matrixErrorf(opMulTransB, fmt.Errorf("At(%d,%d): %w", j, k, err))
				}
				current += av * bv
			}
			res.data[i*bRows+j] = current
		}
	}

	return res, nil
}

// Transpose returns a new matrix with rows and columns swapped (mᵀ).
//
// Implementation:
//   - Stage 1: ValidateNotNil(m). Allocate result(cols, rows).
//   - Stage 2: If m is *Dense, use contiguous slice mapping; else generic i→j loop.
//
// Errors:
//   - ErrNilMatrix.
//
// Complexity:
//   - Time O(r*c), Space O(r*c) for the returned matrix.
//
// Notes:
//   - Transpose is a full materialization, never a view.
//
// AI-Hints:
//   - If you only need Aᵀ*x, prefer MatTVec instead of forming Aᵀ.
func Transpose(m Matrix) (Matrix, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}

	rows, cols := m.Rows(), m.Cols()
	res, err := newResult(cols, rows) // dims flipped
	if err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}

	var i, j int
	if dm, ok := m.(*Dense); ok {
		// data[i*cols + j] → res.data[j*rows + i]
		var baseSrc int
		for i = 0; i < rows; i++ {
			baseSrc = i * cols
			for j = 0; j < cols; j++ {
				res.data[j*rows+i] = dm.data[baseSrc+j]
			}
		}

		return res, nil
	}

	var v float64
	for i = 0; i < rows; i++ {
		for j = 0; j < cols; j++ {
			v, err = m.At(i, j)
			if err != nil {
				return nil, matrixErrorf(opTranspose, fmt.Errorf("At(%d,%d): %w", i, j, err))
			}
			res.data[j*rows+i] = v
		}
	}

	return res, nil
}

// MatVec computes y = m * x for a column vector x.
//
// Contract: m non-nil; len(x) == m.Cols().
// Fast-path: *Dense performs one pass per row with flat indexing.
// Determinism: fixed i→j loop order.
// Complexity: Time O(r*c), Space O(r) for y.
func MatVec(m Matrix, x []float64) ([]float64, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opMatVec, err)
	}
	if err := ValidateVecLen(x, m.Cols()); err != nil {
		return nil, matrixErrorf(opMatVec, err)
	}
	rows, cols := m.Rows(), m.Cols()
	y := make([]float64, rows)

	if d, ok := m.(*Dense); ok {
		var i, j, base int
		var acc float64
		for i = 0; i < d.r; i++ {
			acc = ZeroSum
			base = i * d.c
			for j = 0; j < d.c; j++ {
				acc += d.data[base+j] * x[j]
			}
			y[i] = acc
		}

		return y, nil
	}

	var i, j int
	var mv float64
	var err error
	for i = 0; i < rows; i++ {
		y[i] = ZeroSum
		for j = 0; j < cols; j++ {
			mv, err = m.At(i, j)
			if err != nil {
				return nil, matrixErrorf(opMatVec, fmt.Errorf("At(%d,%d): %w", i, j, err))
			}
			y[i] += mv * x[j]
		}
	}

	return y, nil
}

// MatTVec computes y = mᵀ * x without forming mᵀ.
//
// Contract: m non-nil; len(x) == m.Rows().
// Fast-path: *Dense walks rows once, scattering x[i]*row_i into y (row-major friendly).
// Complexity: Time O(r*c), Space O(c) for y.
func MatTVec(m Matrix, x []float64) ([]float64, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opMatTVec, err)
	}
	if err := ValidateVecLen(x, m.Rows()); err != nil {
		return nil, matrixErrorf(opMatTVec, err)
	}
	rows, cols := m.Rows(), m.Cols()
	y := make([]float64, cols)

	if d, ok := m.(*Dense); ok {
		var i, j, base int
		var xv float64
		for i = 0; i < d.r; i++ {
			xv = x[i]
			base = i * d.c
			for j = 0; j < d.c; j++ {
				y[j] += d.data[base+j] * xv
			}
		}

		return y, nil
	}

	var i, j int
	var mv float64
	var err error
	for j = 0; j < cols; j++ {
		y[j] = ZeroSum
		for i = 0; i < rows; i++ {
			mv, err = m.At(i, j)
			if err != nil {
				return nil, matrixErrorf(opMatTVec, fmt.Errorf("At(%d,%d): %w", i, j, err))
			}
			y[j] += mv * x[i]
		}
	}

	return y, nil
}

// AllClose checks element-wise |a-b| ≤ atol + rtol*|b| for identical shapes.
// Returns (true,nil) if all elements satisfy the relation; (false,nil) otherwise.
// NaN != anything; +Inf equals +Inf; -Inf equals -Inf. Deterministic.
//
// Policy:
//   - a and b must be non-nil and have identical shapes.
//   - rtol, atol are treated as |rtol|, |atol|; NaN/Inf tolerances yield ErrNaNInf.
//
// Complexity: Time O(r*c), Space O(1).
func AllClose(a, b Matrix, rtol, atol float64) (bool, error) {
	if math.IsNaN(rtol) || math.IsNaN(atol) || math.IsInf(rtol, 0) || math.IsInf(atol, 0) {
		return false, matrixErrorf(opAllClose, ErrNaNInf)
	}
	rtol, atol = math.Abs(rtol), math.Abs(atol)

	if err := ValidateBinarySameShape(a, b); err != nil {
		return false, matrixErrorf(opAllClose, err)
	}

	r, c := a.Rows(), a.Cols()
	var av, bv float64
	var err error
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if av, err = a.At(i, j); err != nil {
				return false, matrixErrorf(opAllClose, err)
			}
			if bv, err = b.At(i, j); err != nil {
				return false, matrixErrorf(opAllClose, err)
			}
			if !closeEnough(av, bv, rtol, atol) {
				return false, nil // early-exit on first violation
			}
		}
	}

	return true, nil
}

// VecAllClose is AllClose for vectors; lengths must match.
// Complexity: Time O(n), Space O(1).
func VecAllClose(a, b []float64, rtol, atol float64) (bool, error) {
	if math.IsNaN(rtol) || math.IsNaN(atol) || math.IsInf(rtol, 0) || math.IsInf(atol, 0) {
		return false, matrixErrorf(opAllClose, ErrNaNInf)
	}
	if len(a) != len(b) {
		return false, matrixErrorf(opAllClose, ErrDimensionMismatch)
	}
	rtol, atol = math.Abs(rtol), math.Abs(atol)
	for i := range a {
		if !closeEnough(a[i], b[i], rtol, atol) {
			return false, nil
		}
	}

	return true, nil
}

// closeEnough is the scalar relation shared by AllClose and VecAllClose.
func closeEnough(x, y, rtol, atol float64) bool {
	if math.IsInf(x, 0) || math.IsInf(y, 0) {
		return x == y // same-signed infinities only
	}

	return math.Abs(x-y) <= atol+rtol*math.Abs(y) // NaN compares false
}

// ApproxEqual is AllClose with rtol = atol = eps taken from the options
// (DefaultEpsilon unless WithEpsilon is given).
// Errors: ErrNilMatrix, ErrDimensionMismatch.
// Complexity: Time O(r*c), Space O(1).
func ApproxEqual(a, b Matrix, opts ...Option) (bool, error) {
	eps := gatherOptions(opts...).eps

	return AllClose(a, b, eps, eps)
}

// VecApproxEqual is VecAllClose with rtol = atol = eps from the options.
// Errors: ErrDimensionMismatch.
// Complexity: Time O(n), Space O(1).
func VecApproxEqual(a, b []float64, opts ...Option) (bool, error) {
	eps := gatherOptions(opts...).eps

	return VecAllClose(a, b, eps, eps)
}
