// SPDX-License-Identifier: EPL-2.0

// Package corpus turns a labeled audio tree into cached feature arrays.
//
// For each label directory under the data root, every file is run
// through an Extractor and the stacked matrices are written to a
// cache.Store as one LabelArray. A manifest recording the label order is
// written last, so a cache with a manifest is always complete.
package corpus

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gonum.org/v1/gonum/mat"

	"github.com/ik5/audfeat/cache"
	"github.com/ik5/audfeat/catalog"
)

// Extractor produces one fixed-shape matrix per audio file.
type Extractor interface {
	Extract(path string) (*mat.Dense, error)
	Shape() (rows, cols int)
}

type Transformer struct {
	ext      Extractor
	store    cache.Store
	policy   Policy
	progress Progress
	logger   *slog.Logger
	dirsOnly bool
}

type Option func(*Transformer)

func WithPolicy(p Policy) Option {
	return func(t *Transformer) { t.policy = p }
}

func WithProgress(p Progress) Option {
	return func(t *Transformer) {
		if p != nil {
			t.progress = p
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(t *Transformer) {
		if l != nil {
			t.logger = l
		}
	}
}

// WithDirsOnly ignores non-directory entries of the data root.
func WithDirsOnly(v bool) Option {
	return func(t *Transformer) { t.dirsOnly = v }
}

func New(ext Extractor, store cache.Store, opts ...Option) *Transformer {
	t := &Transformer{
		ext:    ext,
		store:  store,
		policy: AbortOnError,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.progress == nil {
		t.progress = LogProgress{Logger: t.logger}
	}
	return t
}

// Transform extracts every label under dataRoot and writes the cache.
// Existing entries are overwritten. The previous manifest is removed before
// the first label is written, so a run that fails part way leaves a cache
// without a manifest.
func (t *Transformer) Transform(ctx context.Context, dataRoot string) (*Report, error) {
	var (
		cat *catalog.Catalog
		err error
	)
	if t.dirsOnly {
		cat, err = catalog.LoadDirs(dataRoot)
	} else {
		cat, err = catalog.Load(dataRoot)
	}
	if err != nil {
		return nil, err
	}

	if err := t.store.Delete(ctx, cache.ManifestKey); err != nil {
		return nil, fmt.Errorf("removing previous manifest: %w", err)
	}

	rows, cols := t.ext.Shape()
	manifest := cache.NewManifest(rows, cols)
	report := &Report{Labels: make([]LabelReport, 0, cat.Len())}

	for i, label := range cat.Labels {
		lr, err := t.transformLabel(ctx, filepath.Join(dataRoot, label), label, i)
		if err != nil {
			return nil, err
		}

		report.Labels = append(report.Labels, *lr)
		manifest.Labels = append(manifest.Labels, cache.ManifestLabel{
			Name:    label,
			Index:   i,
			Key:     lr.Key,
			Files:   lr.Files,
			Skipped: len(lr.Skipped),
		})
	}

	if err := cache.WriteManifest(ctx, t.store, manifest); err != nil {
		return nil, err
	}
	t.logger.Info("wrote manifest",
		slog.Int("labels", cat.Len()),
		slog.Int("files", report.Files()),
		slog.Int("skipped", len(report.Skipped())),
	)

	return report, nil
}

func (t *Transformer) transformLabel(ctx context.Context, dir, label string, index int) (_ *LabelReport, err error) {
	files, err := labelFiles(dir)
	if err != nil {
		return nil, fmt.Errorf("label %q: %w", label, err)
	}

	tracker := t.progress.Begin(label, len(files))
	defer func() { tracker.Done(err) }()

	lr := &LabelReport{Label: label, Index: index}
	matrices := make([]*mat.Dense, 0, len(files))

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("label %q: %w", label, err)
		}

		m, err := t.ext.Extract(path)
		tracker.Increment()
		if err != nil {
			if t.policy != SkipAndLog {
				return nil, fmt.Errorf("label %q: %w", label, err)
			}
			t.logger.Warn("skipping file", slog.String("label", label), slog.String("path", path), slog.Any("error", err))
			lr.Skipped = append(lr.Skipped, FileError{Path: path, Err: err})
			continue
		}
		matrices = append(matrices, m)
	}

	rows, cols := t.ext.Shape()
	la, err := cache.NewLabelArray(label, rows, cols, matrices)
	if err != nil {
		return nil, err
	}

	lr.Key, err = cache.WriteLabel(ctx, t.store, la)
	if err != nil {
		return nil, fmt.Errorf("label %q: %w", label, err)
	}
	lr.Files = la.Len()

	return lr, nil
}

// labelFiles lists the regular entries of dir in listing order.
func labelFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	return files, nil
}
