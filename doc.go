// Package lvexpr is a small library for lazy linear algebra over dense
// float64 vectors and matrices.
//
// What is lvexpr?
//
//	Expressions are built with ordinary method calls and evaluated only
//	when a value is asked for:
//		• Vector trees: elementwise and scalar arithmetic, A·x and Aᵀ·x
//		• Matrix trees: elementwise and scalar arithmetic, transpose,
//		  MatMul (AB), CrossProduct (AᵀB), OuterProduct (ABᵀ)
//		• Indexed reads that touch one element and cache nothing
//		• Full materialization, computed once and cached per node
//
// Everything is organized under two subpackages:
//
//	matrix/  row-major Dense storage, numeric kernels, validators, sentinel errors
//	expr/    deferred Vector and Matrix expression nodes built on matrix/
//
// Quick example:
//
//	a, _ := expr.MatrixOf([][]float64{{1, 2}, {3, 4}})
//	b, _ := expr.MatrixOf([][]float64{{5, 6}, {7, 8}})
//	c := a.MatMul(b).AddScalar(1) // nothing computed yet
//	v, _ := c.At(0, 0)            // 20
//	s, _ := expr.Sprint(c)        // "[20, 23]\n[44, 51]\n"
//
// Shapes are checked at evaluation: a mismatched tree builds fine and fails
// with matrix.ErrDimensionMismatch on At or Materialize.
package lvexpr
