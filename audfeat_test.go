// SPDX-License-Identifier: EPL-2.0

package audfeat

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/ik5/audfeat/cache"
	"github.com/ik5/audfeat/config"
	"github.com/ik5/audfeat/corpus"
	"github.com/ik5/audfeat/dataset"
	"github.com/ik5/audfeat/formats/wav"
)

func quiet() Option {
	return WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func makeCorpus(t *testing.T, counts map[string]int) string {
	t.Helper()

	root := t.TempDir()
	for label, n := range counts {
		dir := filepath.Join(root, label)
		if err := os.Mkdir(dir, 0o755); err != nil {
			t.Fatal(err)
		}
		for i := range n {
			f, err := os.Create(filepath.Join(dir, label+string(rune('a'+i))+".wav"))
			if err != nil {
				t.Fatal(err)
			}
			samples := make([]float32, 1500*(i+1))
			for j := range samples {
				samples[j] = float32((j*(i+3))%200)/200 - 0.5
			}
			if err := wav.WriteWAV16(f, 8000, 1, samples); err != nil {
				t.Fatal(err)
			}
			f.Close()
		}
	}
	return root
}

func testConfig(t *testing.T, dataRoot string) config.Config {
	t.Helper()

	cfg := config.Default()
	cfg.DataRoot = dataRoot
	cfg.CacheRoot = t.TempDir()
	return cfg
}

func TestTrainTestData_Deterministic(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cfg := testConfig(t, makeCorpus(t, map[string]int{"up": 5, "down": 5}))

	if _, err := Transform(ctx, cfg, quiet(), WithProgress(corpus.NopProgress{})); err != nil {
		t.Fatal(err)
	}

	a, err := TrainTestData(ctx, cfg, quiet())
	if err != nil {
		t.Fatal(err)
	}
	b, err := TrainTestData(ctx, cfg, quiet())
	if err != nil {
		t.Fatal(err)
	}

	if len(a.YTrain) != 6 || len(a.YTest) != 4 {
		t.Fatalf("split sizes %d/%d", len(a.YTrain), len(a.YTest))
	}
	if !slices.Equal(a.YTrain, b.YTrain) || !slices.Equal(a.YTest, b.YTest) {
		t.Fatal("repeated split differs")
	}
	for i := range a.XTrain {
		if r, c := a.XTrain[i].Dims(); r != 20 || c != 20 {
			t.Fatalf("XTrain[%d] is %dx%d", i, r, c)
		}
	}
}

func TestTrainTestData_ManifestSurvivesNewLabel(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dataRoot := makeCorpus(t, map[string]int{"b": 2, "c": 2})
	cfg := testConfig(t, dataRoot)

	if _, err := Transform(ctx, cfg, quiet(), WithProgress(corpus.NopProgress{})); err != nil {
		t.Fatal(err)
	}

	// A label appearing after caching would shift listing indices.
	if err := os.Mkdir(filepath.Join(dataRoot, "a"), 0o755); err != nil {
		t.Fatal(err)
	}

	ds, err := Dataset(ctx, cfg, quiet())
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(ds.Labels, []string{"b", "c"}) {
		t.Fatalf("Labels = %v, want manifest order [b c]", ds.Labels)
	}
}

func TestTrainTestData_MissingCache(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t, makeCorpus(t, map[string]int{"x": 1}))
	_, err := TrainTestData(context.Background(), cfg, quiet())
	if !errors.Is(err, dataset.ErrMissingCache) {
		t.Fatalf("expected ErrMissingCache, got %v", err)
	}
}

func TestTransform_WithStore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cfg := testConfig(t, makeCorpus(t, map[string]int{"x": 2}))
	cfg.Storage = config.Storage{Backend: config.BackendS3, Bucket: "unused"}

	dir := t.TempDir()
	store, err := cache.NewLocal(dir)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := Transform(ctx, cfg, quiet(), WithStore(store), WithProgress(corpus.NopProgress{})); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, "x.msgpack")); err != nil {
		t.Fatalf("label array not written to the injected store: %v", err)
	}
}

func TestNewStore(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.CacheRoot = t.TempDir()
	s, err := NewStore(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := s.(*cache.Local); !ok {
		t.Fatalf("default backend is %T", s)
	}

	cfg.Storage = config.Storage{Backend: "s3", Bucket: "b", Endpoint: "http://127.0.0.1:9000"}
	s, err = NewStore(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := s.(*cache.S3); !ok {
		t.Fatalf("s3 backend is %T", s)
	}

	cfg.Storage.Backend = "tape"
	if _, err := NewStore(cfg); !errors.Is(err, config.ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}
