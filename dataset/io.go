// SPDX-License-Identifier: EPL-2.0

package dataset

import (
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"
	"gonum.org/v1/gonum/mat"
)

// splitFile is the on-disk form of a Split. Matrices are flattened
// row-major and share Shape.
type splitFile struct {
	Shape  [2]int    `msgpack:"shape"`
	XTrain []float64 `msgpack:"x_train"`
	YTrain []int     `msgpack:"y_train"`
	XTest  []float64 `msgpack:"x_test"`
	YTest  []int     `msgpack:"y_test"`
}

// WriteSplit encodes s as msgpack.
func WriteSplit(w io.Writer, s *Split) error {
	var f splitFile

	for _, ms := range [][]*mat.Dense{s.XTrain, s.XTest} {
		if len(ms) > 0 && f.Shape == [2]int{} {
			r, c := ms[0].Dims()
			f.Shape = [2]int{r, c}
		}
	}

	var err error
	if f.XTrain, err = flatten(s.XTrain, f.Shape); err != nil {
		return err
	}
	if f.XTest, err = flatten(s.XTest, f.Shape); err != nil {
		return err
	}
	f.YTrain, f.YTest = s.YTrain, s.YTest

	if err := msgpack.NewEncoder(w).Encode(&f); err != nil {
		return fmt.Errorf("encoding split: %w", err)
	}
	return nil
}

// ReadSplit decodes a Split written by WriteSplit.
func ReadSplit(r io.Reader) (*Split, error) {
	var f splitFile
	if err := msgpack.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("decoding split: %w", err)
	}

	xTrain, err := unflatten(f.XTrain, f.Shape, len(f.YTrain))
	if err != nil {
		return nil, err
	}
	xTest, err := unflatten(f.XTest, f.Shape, len(f.YTest))
	if err != nil {
		return nil, err
	}

	return &Split{XTrain: xTrain, XTest: xTest, YTrain: f.YTrain, YTest: f.YTest}, nil
}

func flatten(ms []*mat.Dense, shape [2]int) ([]float64, error) {
	out := make([]float64, 0, len(ms)*shape[0]*shape[1])
	for i, m := range ms {
		r, c := m.Dims()
		if r != shape[0] || c != shape[1] {
			return nil, fmt.Errorf("%w: matrix %d is %dx%d, expected %dx%d", ErrShapeMismatch, i, r, c, shape[0], shape[1])
		}
		for row := range r {
			out = append(out, m.RawRowView(row)...)
		}
	}
	return out, nil
}

func unflatten(data []float64, shape [2]int, n int) ([]*mat.Dense, error) {
	size := shape[0] * shape[1]
	if len(data) != n*size || (n > 0 && size == 0) {
		return nil, fmt.Errorf("%w: %d values for %d matrices of %dx%d", ErrShapeMismatch, len(data), n, shape[0], shape[1])
	}

	out := make([]*mat.Dense, n)
	for i := range out {
		out[i] = mat.NewDense(shape[0], shape[1], append([]float64(nil), data[i*size:(i+1)*size]...))
	}
	return out, nil
}
