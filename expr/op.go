// SPDX-License-Identifier: MIT

package expr

import "fmt"

// Op names the operation a node performs. The set is closed: nodes are only
// built by this package, and every evaluation path switches over Op
// exhaustively.
type Op uint8

// Node kinds shared by both families. Not every kind is legal in both:
// products and transpose exist only on *Matrix, the matrix-vector bridges
// only on *Vector.
const (
	OpLeaf            Op = iota // wraps caller storage
	OpAdd                       // x + y (elementwise)
	OpSub                       // x - y (elementwise)
	OpMul                       // x * y (elementwise, Hadamard for matrices)
	OpDiv                       // x / y (elementwise)
	OpAddScalar                 // x + s
	OpSubScalar                 // x - s
	OpMulScalar                 // x * s
	OpDivScalar                 // x / s
	OpScalarSub                 // s - x
	OpScalarDiv                 // s / x
	OpMatMul                    // A·B
	OpCrossProduct              // Aᵀ·B
	OpOuterProduct              // A·Bᵀ
	OpTranspose                 // Aᵀ
	OpMatVec                    // A·x
	OpMatVecTranspose           // Aᵀ·x
)

var opNames = [...]string{
	OpLeaf:            "Leaf",
	OpAdd:             "Add",
	OpSub:             "Sub",
	OpMul:             "Mul",
	OpDiv:             "Div",
	OpAddScalar:       "AddScalar",
	OpSubScalar:       "SubScalar",
	OpMulScalar:       "MulScalar",
	OpDivScalar:       "DivScalar",
	OpScalarSub:       "ScalarSub",
	OpScalarDiv:       "ScalarDiv",
	OpMatMul:          "MatMul",
	OpCrossProduct:    "CrossProduct",
	OpOuterProduct:    "OuterProduct",
	OpTranspose:       "Transpose",
	OpMatVec:          "MatVec",
	OpMatVecTranspose: "MatVecTranspose",
}

// String returns the operation name used in error messages.
func (op Op) String() string {
	if int(op) < len(opNames) {
		return opNames[op]
	}

	return fmt.Sprintf("Op(%d)", uint8(op))
}

// isElementwise reports the operand-operand kinds.
func (op Op) isElementwise() bool {
	return op >= OpAdd && op <= OpDiv
}

// isScalar reports the scalar-broadcast kinds (either side).
func (op Op) isScalar() bool {
	return op >= OpAddScalar && op <= OpScalarDiv
}

// scalarLeft reports kinds where the scalar is the left operand.
func (op Op) scalarLeft() bool {
	return op == OpScalarSub || op == OpScalarDiv
}

// combine is the single arithmetic table for every elementwise and
// scalar-broadcast kind. Indexed reads and materialization both go through
// it, so At(i) and Materialize()[i] always agree.
// l is the left operand as written: for OpScalarSub, combine(op, s, x[i]).
func combine(op Op, l, r float64) float64 {
	switch op {
	case OpAdd, OpAddScalar:
		return l + r
	case OpSub, OpSubScalar, OpScalarSub:
		return l - r
	case OpMul, OpMulScalar:
		return l * r
	case OpDiv, OpDivScalar, OpScalarDiv:
		return l / r
	}
	panic("expr: combine called with non-arithmetic op " + op.String())
}

// broadcast applies a scalar-broadcast kind to one element, honouring
// which side the scalar sits on.
func broadcast(op Op, v, s float64) float64 {
	if op.scalarLeft() {
		return combine(op, s, v)
	}

	return combine(op, v, s)
}
