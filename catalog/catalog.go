// SPDX-License-Identifier: EPL-2.0

// Package catalog maps label names to integer indices and one-hot vectors.
//
// Labels are the immediate children of a data root, one directory per
// class. Indices follow listing order, which os.ReadDir sorts by name.
// The order is persisted in the cache manifest, and New rebuilds a
// catalog from it.
package catalog

import (
	"errors"
	"fmt"
	"os"

	"gonum.org/v1/gonum/mat"
)

// ErrDuplicateLabel indicates the same label given twice to New
var ErrDuplicateLabel = errors.New("duplicate label")

// Catalog is an ordered set of labels. Labels[i] has index Indices[i] == i
// and one-hot row OneHot[i].
type Catalog struct {
	Labels  []string
	Indices []int
	OneHot  [][]float64

	index map[string]int
}

// New builds a catalog from labels in the given order.
func New(labels []string) (*Catalog, error) {
	c := &Catalog{
		Labels:  append([]string(nil), labels...),
		Indices: make([]int, len(labels)),
		OneHot:  make([][]float64, len(labels)),
		index:   make(map[string]int, len(labels)),
	}

	for i, l := range c.Labels {
		if _, dup := c.index[l]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateLabel, l)
		}
		c.index[l] = i
		c.Indices[i] = i
		c.OneHot[i] = make([]float64, len(labels))
		c.OneHot[i][i] = 1
	}

	return c, nil
}

// Load lists every immediate child of root as a label. Files are not
// filtered out; use LoadDirs when the root may contain stray files.
func Load(root string) (*Catalog, error) {
	return load(root, false)
}

// LoadDirs is Load restricted to directories.
func LoadDirs(root string) (*Catalog, error) {
	return load(root, true)
}

func load(root string, dirsOnly bool) (*Catalog, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("listing labels in %s: %w", root, err)
	}

	labels := make([]string, 0, len(entries))
	for _, e := range entries {
		if dirsOnly && !e.IsDir() {
			continue
		}
		labels = append(labels, e.Name())
	}

	return New(labels)
}

func (c *Catalog) Len() int { return len(c.Labels) }

func (c *Catalog) Index(label string) (int, bool) {
	i, ok := c.index[label]
	return i, ok
}

// OneHotMatrix returns the k x k identity, row i being label i's vector.
// It returns nil for an empty catalog.
func (c *Catalog) OneHotMatrix() *mat.Dense {
	k := c.Len()
	if k == 0 {
		return nil
	}

	m := mat.NewDense(k, k, nil)
	for i := range k {
		m.SetRow(i, c.OneHot[i])
	}
	return m
}
