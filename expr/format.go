// SPDX-License-Identifier: MIT

package expr

import (
	"io"

	"github.com/katalvlaran/lvexpr/matrix"
)

// Expression is the closed set of renderable nodes: *Vector and *Matrix.
type Expression interface {
	Kind() Op
	render() (string, error)
}

var (
	_ Expression = (*Vector)(nil)
	_ Expression = (*Matrix)(nil)
)

func (v *Vector) render() (string, error) {
	out, err := v.Materialize()
	if err != nil {
		return "", err
	}

	return matrix.FormatVector(out), nil
}

func (m *Matrix) render() (string, error) {
	d, err := m.Materialize()
	if err != nil {
		return "", err
	}

	return d.String(), nil
}

// Sprint materializes e and formats it with the engine's formatter:
// "[1, 2, 3]" for vectors, one "[a, b]\n" line per row for matrices.
func Sprint(e Expression) (string, error) {
	if e == nil {
		return "", ErrNilOperand
	}

	return e.render()
}

// Fprint writes Sprint(e) to w.
func Fprint(w io.Writer, e Expression) (int, error) {
	s, err := Sprint(e)
	if err != nil {
		return 0, err
	}

	return io.WriteString(w, s)
}
