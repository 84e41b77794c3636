// SPDX-License-Identifier: MIT

package expr

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/lvexpr/matrix"
)

// ErrNilOperand is returned when a nil node, nil leaf storage or a nil
// operand is reached during evaluation. It wraps matrix.ErrNilMatrix so
// errors.Is matches either sentinel.
var ErrNilOperand = fmt.Errorf("expr: nil operand: %w", matrix.ErrNilMatrix)

// errUnsupported marks an Op reaching a family that never builds it.
// Unreachable through the public builders.
var errUnsupported = errors.New("expr: operation not supported by this node family")

// Shape and index failures surface the engine sentinels unchanged:
// matrix.ErrDimensionMismatch for incompatible operands and
// matrix.ErrOutOfRange for indices outside the declared shape.

// exprErrorf tags err with the node kind that was being evaluated.
// Use only when err != nil.
func exprErrorf(op Op, err error) error {
	return fmt.Errorf("expr.%s: %w", op, err)
}

// indexErrorf reports an out-of-range vector index.
func indexErrorf(op Op, i, n int) error {
	return fmt.Errorf("expr.%s: index %d of length %d: %w", op, i, n, matrix.ErrOutOfRange)
}

// cellErrorf reports an out-of-range matrix cell.
func cellErrorf(op Op, i, j, r, c int) error {
	return fmt.Errorf("expr.%s: cell (%d,%d) of %dx%d: %w", op, i, j, r, c, matrix.ErrOutOfRange)
}
