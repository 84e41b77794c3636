// Package matrix is the dense numeric engine behind lvexpr.
//
// The matrix package provides:
//
//   - Dense: a row-major float64 matrix with bounds-checked At/Set and an
//     optional finite-only numeric policy.
//   - Kernels: Add, Sub, Hadamard, Divide, Scale, Map, Mul, MulTransA (AᵀB),
//     MulTransB (ABᵀ), Transpose, MatVec (Ax), MatTVec (Aᵀx), AllClose.
//   - Validators and sentinel errors shared with package expr.
//
// Every kernel validates its operands, allocates a fresh result and never
// mutates its inputs. Kernels fast-path on *Dense and fall back to the
// Matrix interface for other implementations.
//
// See package expr for deferred (lazy) composition on top of these kernels.
package matrix
