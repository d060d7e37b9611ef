// SPDX-License-Identifier: EPL-2.0

package feature

import "gonum.org/v1/gonum/mat"

// FitShape returns an r x n copy of m. Missing columns are zero on the
// right; columns past n are dropped.
func FitShape(m *mat.Dense, n int) *mat.Dense {
	r, _ := m.Dims()
	out := mat.NewDense(r, n, nil)
	out.Copy(m)
	return out
}
