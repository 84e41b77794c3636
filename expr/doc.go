// Package expr builds lazy arithmetic over dense vectors and matrices.
//
// Calling a builder (Add, MulScalar, MatMul, T, MulVec, ...) only allocates
// a node that points at its operands; no arithmetic runs. Two read paths
// exist on every node:
//
//   - At(i) / At(i, j) evaluates one element by recursing through the tree
//     at that index. Nothing is cached, so repeated reads repeat the work.
//   - Materialize() computes the whole result once, stores it on the node
//     and returns the same slice or *matrix.Dense on every later call.
//
// Products (MatMul, CrossProduct = AᵀB, OuterProduct = ABᵀ), Transpose and
// the matrix-vector bridges (MulVec = Ax, MulVecT = Aᵀx) delegate their
// numeric kernel to package matrix. Mul is always elementwise; use MatMul
// for the linear-algebra product.
//
// Shapes are not checked when a node is built. Mismatched operands fail at
// evaluation time with matrix.ErrDimensionMismatch and indices outside the
// declared shape fail with matrix.ErrOutOfRange. Division by zero follows
// IEEE-754.
//
// Leaves alias caller storage (WrapVector, WrapMatrix). Nodes may be
// shared by any number of parents and by goroutines; the first
// materialization of each node is serialized on a per-node mutex.
package expr
