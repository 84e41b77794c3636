// SPDX-License-Identifier: MIT

package expr

import (
	"fmt"
	"sync"

	"github.com/katalvlaran/lvexpr/matrix"
)

// Vector is a deferred vector-valued expression.
//
// A Vector is immutable once built: its kind, operands and scalar never
// change. The only mutable state is the materialization cache, which moves
// once from empty to populated under mu. Operands are shared pointers, so
// one subexpression may feed several parents.
type Vector struct {
	op   Op
	n    int       // declared length, fixed at construction
	data []float64 // OpLeaf storage (aliased, not copied)
	x, y *Vector   // operands; y only for elementwise kinds
	a    *Matrix   // matrix operand of the bridge kinds
	s    float64   // scalar operand

	mu    sync.Mutex
	done  bool
	cache []float64
}

// WrapVector lifts data into a leaf expression without copying it.
// The caller keeps ownership: data must outlive every expression built on
// it and must not be modified while those expressions are in use, or
// cached results will disagree with fresh indexed reads.
func WrapVector(data []float64) *Vector {
	return &Vector{op: OpLeaf, n: len(data), data: data}
}

func newVecBinary(op Op, x, y *Vector) *Vector {
	return &Vector{op: op, n: x.Len(), x: x, y: y}
}

func newVecScalar(op Op, x *Vector, s float64) *Vector {
	return &Vector{op: op, n: x.Len(), x: x, s: s}
}

// Add returns the deferred elementwise sum v + o.
func (v *Vector) Add(o *Vector) *Vector { return newVecBinary(OpAdd, v, o) }

// Sub returns the deferred elementwise difference v - o.
func (v *Vector) Sub(o *Vector) *Vector { return newVecBinary(OpSub, v, o) }

// Mul returns the deferred elementwise product v * o.
func (v *Vector) Mul(o *Vector) *Vector { return newVecBinary(OpMul, v, o) }

// Div returns the deferred elementwise quotient v / o.
func (v *Vector) Div(o *Vector) *Vector { return newVecBinary(OpDiv, v, o) }

// AddScalar returns v + s broadcast over every element.
func (v *Vector) AddScalar(s float64) *Vector { return newVecScalar(OpAddScalar, v, s) }

// SubScalar returns v - s.
func (v *Vector) SubScalar(s float64) *Vector { return newVecScalar(OpSubScalar, v, s) }

// MulScalar returns v * s.
func (v *Vector) MulScalar(s float64) *Vector { return newVecScalar(OpMulScalar, v, s) }

// DivScalar returns v / s. Division by zero yields ±Inf or NaN per IEEE-754.
func (v *Vector) DivScalar(s float64) *Vector { return newVecScalar(OpDivScalar, v, s) }

// RSubScalar returns s - v.
func (v *Vector) RSubScalar(s float64) *Vector { return newVecScalar(OpScalarSub, v, s) }

// RDivScalar returns s / v.
func (v *Vector) RDivScalar(s float64) *Vector { return newVecScalar(OpScalarDiv, v, s) }

// ScalarSub returns s - v. Same node as v.RSubScalar(s).
func ScalarSub(s float64, v *Vector) *Vector { return v.RSubScalar(s) }

// ScalarDiv returns s / v. Same node as v.RDivScalar(s).
func ScalarDiv(s float64, v *Vector) *Vector { return v.RDivScalar(s) }

// Kind returns the node's operation.
func (v *Vector) Kind() Op {
	if v == nil {
		return OpLeaf
	}

	return v.op
}

// Len returns the declared length. A nil Vector has length 0.
func (v *Vector) Len() int {
	if v == nil {
		return 0
	}

	return v.n
}

// Materialized reports whether the cached full result is present.
// Leaves are always materialized.
func (v *Vector) Materialized() bool {
	if v == nil {
		return false
	}
	if v.op == OpLeaf {
		return true
	}
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.done
}

// operands reports ErrNilOperand when a required operand is missing.
func (v *Vector) operands() error {
	switch {
	case v.op.isElementwise():
		if v.x == nil || v.y == nil {
			return ErrNilOperand
		}
	case v.op.isScalar():
		if v.x == nil {
			return ErrNilOperand
		}
	case v.op == OpMatVec || v.op == OpMatVecTranspose:
		if v.a == nil || v.x == nil {
			return ErrNilOperand
		}
	}

	return nil
}

// check validates operand presence and elementwise shape agreement.
// It runs at evaluation time; builders never validate.
func (v *Vector) check() error {
	if err := v.operands(); err != nil {
		return err
	}
	if v.op.isElementwise() && v.x.Len() != v.y.Len() {
		return fmt.Errorf("length %d vs %d: %w", v.x.Len(), v.y.Len(), matrix.ErrDimensionMismatch)
	}

	return nil
}

// At evaluates element i by recursing into the operands at index i only.
// Nothing is cached, so repeated calls repeat the operand work. Bridge
// nodes have no cheaper per-index path and read from their materialization.
//
// Errors, in priority order: ErrNilOperand, matrix.ErrOutOfRange,
// matrix.ErrDimensionMismatch, then any operand failure, wrapped with the
// node kind.
func (v *Vector) At(i int) (float64, error) {
	if v == nil {
		return 0, ErrNilOperand
	}
	if err := v.operands(); err != nil {
		return 0, exprErrorf(v.op, err)
	}
	if i < 0 || i >= v.n {
		return 0, indexErrorf(v.op, i, v.n)
	}
	if err := v.check(); err != nil {
		return 0, exprErrorf(v.op, err)
	}

	switch v.op {
	case OpLeaf:
		return v.data[i], nil
	case OpAdd, OpSub, OpMul, OpDiv:
		l, err := v.x.At(i)
		if err != nil {
			return 0, exprErrorf(v.op, err)
		}
		r, err := v.y.At(i)
		if err != nil {
			return 0, exprErrorf(v.op, err)
		}
		return combine(v.op, l, r), nil
	case OpAddScalar, OpSubScalar, OpMulScalar, OpDivScalar, OpScalarSub, OpScalarDiv:
		e, err := v.x.At(i)
		if err != nil {
			return 0, exprErrorf(v.op, err)
		}
		return broadcast(v.op, e, v.s), nil
	case OpMatVec, OpMatVecTranspose:
		out, err := v.Materialize()
		if err != nil {
			return 0, err
		}
		return out[i], nil
	}

	return 0, exprErrorf(v.op, errUnsupported)
}

// Materialize computes every element once and caches the result on the
// node; later calls return the same slice without recomputation. A failed
// evaluation caches nothing, so the node can be retried.
//
// Leaves return their wrapped storage itself. The returned slice is shared
// with the node and must be treated as read-only.
//
// Safe for concurrent use: the first caller computes under the node's lock,
// the others wait and receive the cached slice.
func (v *Vector) Materialize() ([]float64, error) {
	if v == nil {
		return nil, ErrNilOperand
	}
	if v.op == OpLeaf {
		return v.data, nil
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.done {
		return v.cache, nil
	}

	out, err := v.compute()
	if err != nil {
		return nil, exprErrorf(v.op, err)
	}
	v.cache, v.done = out, true

	return out, nil
}

// compute produces a fresh result for a non-leaf node. Called with mu held.
func (v *Vector) compute() ([]float64, error) {
	if err := v.check(); err != nil {
		return nil, err
	}

	switch v.op {
	case OpAdd, OpSub, OpMul, OpDiv:
		xs, err := v.x.Materialize()
		if err != nil {
			return nil, err
		}
		ys, err := v.y.Materialize()
		if err != nil {
			return nil, err
		}
		out := make([]float64, v.n)
		for i := range out {
			out[i] = combine(v.op, xs[i], ys[i])
		}
		return out, nil
	case OpAddScalar, OpSubScalar, OpMulScalar, OpDivScalar, OpScalarSub, OpScalarDiv:
		xs, err := v.x.Materialize()
		if err != nil {
			return nil, err
		}
		out := make([]float64, v.n)
		for i := range out {
			out[i] = broadcast(v.op, xs[i], v.s)
		}
		return out, nil
	case OpMatVec, OpMatVecTranspose:
		return v.computeBridge()
	}

	return nil, errUnsupported
}
