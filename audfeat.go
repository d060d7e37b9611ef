// SPDX-License-Identifier: EPL-2.0

package audfeat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ik5/audfeat/audio"
	"github.com/ik5/audfeat/cache"
	"github.com/ik5/audfeat/config"
	"github.com/ik5/audfeat/corpus"
	"github.com/ik5/audfeat/dataset"
	"github.com/ik5/audfeat/feature"
	"github.com/ik5/audfeat/formats"
)

type options struct {
	logger   *slog.Logger
	progress corpus.Progress
	registry *audio.Registry
	store    cache.Store
}

type Option func(*options)

func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithProgress replaces the log based progress reporting of Transform.
func WithProgress(p corpus.Progress) Option {
	return func(o *options) { o.progress = p }
}

// WithRegistry replaces the default decoder set.
func WithRegistry(r *audio.Registry) Option {
	return func(o *options) { o.registry = r }
}

// WithStore bypasses the storage section of the config.
func WithStore(s cache.Store) Option {
	return func(o *options) { o.store = s }
}

func buildOptions(opts []Option) *options {
	o := &options{logger: slog.Default()}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if o.registry == nil {
		o.registry = formats.NewRegistry()
	}
	return o
}

// NewStore opens the cache backend described by cfg.Storage.
func NewStore(cfg config.Config) (cache.Store, error) {
	switch strings.ToLower(cfg.Storage.Backend) {
	case "", config.BackendLocal:
		return cache.NewLocal(cfg.CacheRoot)
	case config.BackendS3:
		client := cache.NewS3Client(cache.S3Options{
			Region:   cfg.Storage.Region,
			Endpoint: cfg.Storage.Endpoint,
		})
		return cache.NewS3(client, cfg.Storage.Bucket, cfg.Storage.Prefix), nil
	default:
		return nil, fmt.Errorf("%w: unknown storage backend %q", config.ErrInvalid, cfg.Storage.Backend)
	}
}

func (o *options) openStore(cfg config.Config) (cache.Store, error) {
	if o.store != nil {
		return o.store, nil
	}
	return NewStore(cfg)
}

// Transform extracts features for every label under cfg.DataRoot and
// writes one array per label plus the manifest to the cache.
func Transform(ctx context.Context, cfg config.Config, opts ...Option) (*corpus.Report, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := buildOptions(opts)

	store, err := o.openStore(cfg)
	if err != nil {
		return nil, err
	}
	policy, err := cfg.Policy()
	if err != nil {
		return nil, err
	}

	ext, err := feature.New(cfg.FeatureConfig(), o.registry, feature.WithLogger(o.logger))
	if err != nil {
		return nil, err
	}

	tr := corpus.New(ext, store,
		corpus.WithPolicy(policy),
		corpus.WithProgress(o.progress),
		corpus.WithLogger(o.logger),
		corpus.WithDirsOnly(cfg.DirsOnly),
	)
	return tr.Transform(ctx, cfg.DataRoot)
}

// Dataset loads the cached arrays in manifest order.
func Dataset(ctx context.Context, cfg config.Config, opts ...Option) (*dataset.Dataset, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := buildOptions(opts)

	store, err := o.openStore(cfg)
	if err != nil {
		return nil, err
	}

	a := dataset.NewAssembler(store,
		dataset.WithLogger(o.logger),
		dataset.WithDirsOnly(cfg.DirsOnly),
	)
	return a.Load(ctx, cfg.DataRoot)
}

// TrainTestData assembles the cache and splits it with cfg.SplitRatio and
// cfg.Seed.
func TrainTestData(ctx context.Context, cfg config.Config, opts ...Option) (*dataset.Split, error) {
	ds, err := Dataset(ctx, cfg, opts...)
	if err != nil {
		return nil, err
	}
	return dataset.TrainTestSplit(ds, cfg.SplitRatio, cfg.Seed)
}
