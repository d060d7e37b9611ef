// SPDX-License-Identifier: EPL-2.0

package dataset

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
)

// Split is a shuffled partition of a Dataset. Matrices are shared with
// the source dataset, not copied.
type Split struct {
	XTrain []*mat.Dense
	XTest  []*mat.Dense
	YTrain []int
	YTest  []int
}

// splitSizes returns (train, test) counts for n samples. The test share is
// 1-ratio rounded up, so a 0.6 ratio over 10 samples gives 6 and 4.
func splitSizes(n int, ratio float64) (int, int) {
	// drop float noise such as (1-0.6)*10 = 4.000000000000001
	nTest := int(math.Ceil((1-ratio)*float64(n) - 1e-9))
	if nTest < 1 {
		nTest = 1
	}
	if nTest > n {
		nTest = n
	}
	return n - nTest, nTest
}

// TrainTestSplit shuffles ds with a PCG generator seeded by seed and puts
// ratio of the rows in the training set. The same dataset, ratio and seed
// always produce the same split.
func TrainTestSplit(ds *Dataset, ratio float64, seed int64) (*Split, error) {
	if math.IsNaN(ratio) || ratio <= 0 || ratio >= 1 {
		return nil, fmt.Errorf("%w (got %g)", ErrInvalidRatio, ratio)
	}

	n := ds.Len()
	if n == 0 {
		return nil, fmt.Errorf("%w: dataset is empty", ErrEmptySplit)
	}

	nTrain, nTest := splitSizes(n, ratio)
	if nTrain == 0 {
		return nil, fmt.Errorf("%w: %d samples at ratio %g", ErrEmptySplit, n, ratio)
	}

	rng := rand.New(rand.NewPCG(uint64(seed), uint64(seed)))
	perm := rng.Perm(n)

	s := &Split{
		XTrain: make([]*mat.Dense, 0, nTrain),
		XTest:  make([]*mat.Dense, 0, nTest),
		YTrain: make([]int, 0, nTrain),
		YTest:  make([]int, 0, nTest),
	}
	for _, i := range perm[:nTest] {
		s.XTest = append(s.XTest, ds.X[i])
		s.YTest = append(s.YTest, ds.Y[i])
	}
	for _, i := range perm[nTest:] {
		s.XTrain = append(s.XTrain, ds.X[i])
		s.YTrain = append(s.YTrain, ds.Y[i])
	}

	return s, nil
}
