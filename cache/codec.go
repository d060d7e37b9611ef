// SPDX-License-Identifier: EPL-2.0

package cache

import (
	"context"
	"fmt"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
	"gonum.org/v1/gonum/mat"
)

const labelExt = ".msgpack"

// LabelArray is the cached stack of feature matrices for one label.
// Data is row-major with Shape = [files, rows, cols].
type LabelArray struct {
	Label string    `msgpack:"label"`
	Shape [3]int    `msgpack:"shape"`
	Data  []float64 `msgpack:"data"`
}

// LabelKey returns the store path of a label's array.
func LabelKey(label string) (string, error) {
	if label == "" || label == "." || label == ".." || strings.ContainsAny(label, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidLabel, label)
	}
	return label + labelExt, nil
}

// NewLabelArray stacks ms, which must all be rows x cols. An empty ms
// yields shape [0, rows, cols].
func NewLabelArray(label string, rows, cols int, ms []*mat.Dense) (*LabelArray, error) {
	la := &LabelArray{
		Label: label,
		Shape: [3]int{len(ms), rows, cols},
		Data:  make([]float64, 0, len(ms)*rows*cols),
	}
	for i, m := range ms {
		r, c := m.Dims()
		if r != rows || c != cols {
			return nil, fmt.Errorf("%w: matrix %d of %q is %dx%d, want %dx%d", ErrCorrupt, i, label, r, c, rows, cols)
		}
		for row := range r {
			la.Data = append(la.Data, m.RawRowView(row)...)
		}
	}
	return la, nil
}

func (la *LabelArray) Len() int { return la.Shape[0] }

func (la *LabelArray) validate() error {
	for _, d := range la.Shape {
		if d < 0 {
			return fmt.Errorf("%w: negative shape %v", ErrCorrupt, la.Shape)
		}
	}
	if want := la.Shape[0] * la.Shape[1] * la.Shape[2]; len(la.Data) != want {
		return fmt.Errorf("%w: %q has %d values for shape %v", ErrCorrupt, la.Label, len(la.Data), la.Shape)
	}
	return nil
}

// Matrices splits the array back into its rows x cols matrices. The
// matrices share no storage with la.
func (la *LabelArray) Matrices() ([]*mat.Dense, error) {
	if err := la.validate(); err != nil {
		return nil, err
	}

	n, rows, cols := la.Shape[0], la.Shape[1], la.Shape[2]
	if rows == 0 || cols == 0 {
		if n > 0 {
			return nil, fmt.Errorf("%w: zero sized matrices in %q", ErrCorrupt, la.Label)
		}
		return nil, nil
	}

	size := rows * cols
	out := make([]*mat.Dense, n)
	for i := range out {
		data := make([]float64, size)
		copy(data, la.Data[i*size:(i+1)*size])
		out[i] = mat.NewDense(rows, cols, data)
	}
	return out, nil
}

// WriteLabel encodes la to the store at its label key.
func WriteLabel(ctx context.Context, s Store, la *LabelArray) (string, error) {
	key, err := LabelKey(la.Label)
	if err != nil {
		return "", err
	}
	if err := la.validate(); err != nil {
		return "", err
	}

	w, err := s.Write(ctx, key)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", key, err)
	}
	if err := msgpack.NewEncoder(w).Encode(la); err != nil {
		abortWrite(w, err)
		return "", fmt.Errorf("encoding %s: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("committing %s: %w", key, err)
	}
	return key, nil
}

// ReadLabel decodes the array stored for label.
func ReadLabel(ctx context.Context, s Store, label string) (*LabelArray, error) {
	key, err := LabelKey(label)
	if err != nil {
		return nil, err
	}
	return readArray(ctx, s, key)
}

func readArray(ctx context.Context, s Store, key string) (*LabelArray, error) {
	r, err := s.Read(ctx, key)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var la LabelArray
	if err := msgpack.NewDecoder(r).Decode(&la); err != nil {
		return nil, fmt.Errorf("%w: decoding %s: %w", ErrCorrupt, key, err)
	}
	if err := la.validate(); err != nil {
		return nil, err
	}
	return &la, nil
}
