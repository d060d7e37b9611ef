// SPDX-License-Identifier: EPL-2.0

package feature

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// dctMatrix returns the first m rows of the orthonormal DCT-II basis of
// size n. Multiplying it by an n x f matrix transforms every column.
func dctMatrix(m, n int) *mat.Dense {
	out := mat.NewDense(m, n, nil)
	scale0 := math.Sqrt(1 / float64(n))
	scale := math.Sqrt(2 / float64(n))

	for k := range m {
		s := scale
		if k == 0 {
			s = scale0
		}
		for i := range n {
			out.Set(k, i, s*math.Cos(math.Pi*float64(k)*(2*float64(i)+1)/(2*float64(n))))
		}
	}

	return out
}
