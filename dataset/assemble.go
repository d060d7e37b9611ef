// SPDX-License-Identifier: EPL-2.0

// Package dataset loads cached label arrays into one labeled dataset and
// splits it into train and test sets.
package dataset

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gonum.org/v1/gonum/mat"

	"github.com/ik5/audfeat/cache"
	"github.com/ik5/audfeat/catalog"
)

// Dataset holds every cached matrix with its label index. Labels are
// concatenated in index order.
type Dataset struct {
	X      []*mat.Dense
	Y      []int
	Labels []string
}

func (d *Dataset) Len() int { return len(d.X) }

// Shape returns the (rows, cols) of the matrices, or zeros when empty.
func (d *Dataset) Shape() (int, int) {
	if len(d.X) == 0 {
		return 0, 0
	}
	return d.X[0].Dims()
}

type Assembler struct {
	store    cache.Store
	logger   *slog.Logger
	dirsOnly bool
}

type Option func(*Assembler)

func WithLogger(l *slog.Logger) Option {
	return func(a *Assembler) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithDirsOnly ignores non-directory entries when falling back to the
// data root listing.
func WithDirsOnly(v bool) Option {
	return func(a *Assembler) { a.dirsOnly = v }
}

func NewAssembler(store cache.Store, opts ...Option) *Assembler {
	a := &Assembler{store: store, logger: slog.Default()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Labels returns the label order the cache was written with. It reads the
// cache manifest and falls back to listing dataRoot when there is none.
func (a *Assembler) Labels(ctx context.Context, dataRoot string) (*catalog.Catalog, error) {
	cat, _, err := a.labels(ctx, dataRoot)
	return cat, err
}

// labels also returns the manifest it read, nil when it fell back to the
// data root listing.
func (a *Assembler) labels(ctx context.Context, dataRoot string) (*catalog.Catalog, *cache.Manifest, error) {
	ok, err := cache.HasManifest(ctx, a.store)
	if err != nil {
		return nil, nil, err
	}

	if ok {
		m, err := cache.ReadManifest(ctx, a.store)
		if err != nil {
			return nil, nil, err
		}
		a.logger.Debug("using cache manifest", slog.Int("labels", len(m.Labels)))
		cat, err := catalog.New(m.Names())
		if err != nil {
			return nil, nil, err
		}
		return cat, m, nil
	}

	a.logger.Warn("cache has no manifest, label order taken from the data root listing",
		slog.String("data_root", dataRoot))
	var cat *catalog.Catalog
	if a.dirsOnly {
		cat, err = catalog.LoadDirs(dataRoot)
	} else {
		cat, err = catalog.Load(dataRoot)
	}
	return cat, nil, err
}

// Assemble reads every label of cat in index order and stacks the arrays.
func (a *Assembler) Assemble(ctx context.Context, cat *catalog.Catalog) (*Dataset, error) {
	return a.assemble(ctx, cat, nil)
}

// assemble checks every array against m when it is not nil: the shape must
// be the manifest's and the row count the recorded file count.
func (a *Assembler) assemble(ctx context.Context, cat *catalog.Catalog, m *cache.Manifest) (*Dataset, error) {
	if cat == nil || cat.Len() == 0 {
		return nil, ErrNoLabels
	}
	if m != nil && len(m.Labels) != cat.Len() {
		return nil, fmt.Errorf("%w: manifest lists %d labels, catalog has %d", cache.ErrCorrupt, len(m.Labels), cat.Len())
	}

	ds := &Dataset{Labels: append([]string(nil), cat.Labels...)}
	var shape *[2]int

	for i, label := range cat.Labels {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w", err)
		}

		la, err := cache.ReadLabel(ctx, a.store, label)
		if errors.Is(err, cache.ErrNotFound) {
			return nil, fmt.Errorf("%w: label %q: %w", ErrMissingCache, label, err)
		}
		if err != nil {
			return nil, fmt.Errorf("label %q: %w", label, err)
		}

		got := [2]int{la.Shape[1], la.Shape[2]}
		if m != nil {
			if got != m.Shape {
				return nil, fmt.Errorf("%w: label %q is %dx%d, manifest says %dx%d",
					ErrShapeMismatch, label, got[0], got[1], m.Shape[0], m.Shape[1])
			}
			if want := m.Labels[i].Files; la.Len() != want {
				return nil, fmt.Errorf("%w: label %q has %d rows, manifest records %d files",
					cache.ErrCorrupt, label, la.Len(), want)
			}
		}
		if shape == nil {
			shape = &got
		} else if got != *shape {
			return nil, fmt.Errorf("%w: label %q is %dx%d, expected %dx%d",
				ErrShapeMismatch, label, got[0], got[1], shape[0], shape[1])
		}

		ms, err := la.Matrices()
		if err != nil {
			return nil, fmt.Errorf("label %q: %w", label, err)
		}
		ds.X = append(ds.X, ms...)
		for range ms {
			ds.Y = append(ds.Y, i)
		}

		a.logger.Debug("loaded label", slog.String("label", label), slog.Int("index", i), slog.Int("files", len(ms)))
	}

	return ds, nil
}

// Load is Labels followed by Assemble, with every array checked against
// the manifest when the cache has one.
func (a *Assembler) Load(ctx context.Context, dataRoot string) (*Dataset, error) {
	cat, m, err := a.labels(ctx, dataRoot)
	if err != nil {
		return nil, err
	}
	return a.assemble(ctx, cat, m)
}
