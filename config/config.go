// SPDX-License-Identifier: EPL-2.0

// Package config loads pipeline settings from YAML.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ik5/audfeat/corpus"
	"github.com/ik5/audfeat/feature"
)

// ErrInvalid indicates a configuration that fails Validate
var ErrInvalid = errors.New("invalid configuration")

const (
	BackendLocal = "local"
	BackendS3    = "s3"
)

type Storage struct {
	Backend  string `yaml:"backend"`
	Bucket   string `yaml:"bucket"`
	Prefix   string `yaml:"prefix"`
	Region   string `yaml:"region"`
	Endpoint string `yaml:"endpoint"`
}

type Config struct {
	DataRoot   string         `yaml:"data_root"`
	CacheRoot  string         `yaml:"cache_root"`
	Shape      [2]int         `yaml:"shape,flow"`
	SplitRatio float64        `yaml:"split_ratio"`
	Seed       int64          `yaml:"seed"`
	DirsOnly   bool           `yaml:"dirs_only"`
	OnError    string         `yaml:"on_error"`
	Feature    feature.Config `yaml:"feature"`
	Storage    Storage        `yaml:"storage"`
}

func Default() Config {
	return Config{
		DataRoot:   "./data/",
		CacheRoot:  "./npy_files/",
		Shape:      [2]int{20, 20},
		SplitRatio: 0.6,
		Seed:       42,
		OnError:    corpus.AbortOnError.String(),
		Feature:    feature.DefaultConfig(),
		Storage:    Storage{Backend: BackendLocal},
	}
}

// Load reads path over Default. Keys missing from the file keep their
// default value.
func Load(path string) (Config, error) {
	cfg := Default()

	f, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("%w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("parsing %s: %w", path, err)
	}

	return cfg, cfg.Validate()
}

// FeatureConfig returns the extractor settings with Shape applied.
func (c Config) FeatureConfig() feature.Config {
	fc := c.Feature
	fc.Coefficients, fc.Frames = c.Shape[0], c.Shape[1]
	return fc
}

func (c Config) Policy() (corpus.Policy, error) {
	return corpus.ParsePolicy(c.OnError)
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.DataRoot) == "" {
		return fmt.Errorf("%w: data_root is empty", ErrInvalid)
	}
	if c.SplitRatio <= 0 || c.SplitRatio >= 1 {
		return fmt.Errorf("%w: split_ratio %g outside (0,1)", ErrInvalid, c.SplitRatio)
	}
	if _, err := c.Policy(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if err := c.FeatureConfig().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	switch strings.ToLower(c.Storage.Backend) {
	case "", BackendLocal:
		if strings.TrimSpace(c.CacheRoot) == "" {
			return fmt.Errorf("%w: cache_root is empty", ErrInvalid)
		}
	case BackendS3:
		if c.Storage.Bucket == "" {
			return fmt.Errorf("%w: storage.bucket is required for s3", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: unknown storage backend %q", ErrInvalid, c.Storage.Backend)
	}

	return nil
}
