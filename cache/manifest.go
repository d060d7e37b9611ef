// SPDX-License-Identifier: EPL-2.0

package cache

import (
	"context"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// ManifestKey is the store path of the label manifest.
const ManifestKey = "manifest.yaml"

const manifestVersion = 1

// Manifest records the label order used when the cache was written, so
// later runs do not depend on directory listing order.
type Manifest struct {
	Version int             `yaml:"version"`
	Shape   [2]int          `yaml:"shape,flow"`
	Labels  []ManifestLabel `yaml:"labels"`
}

type ManifestLabel struct {
	Name    string `yaml:"name"`
	Index   int    `yaml:"index"`
	Key     string `yaml:"key"`
	Files   int    `yaml:"files"`
	Skipped int    `yaml:"skipped,omitempty"`
}

func NewManifest(rows, cols int) *Manifest {
	return &Manifest{Version: manifestVersion, Shape: [2]int{rows, cols}}
}

// Names returns label names in index order.
func (m *Manifest) Names() []string {
	out := make([]string, len(m.Labels))
	for i, l := range m.Labels {
		out[i] = l.Name
	}
	return out
}

// Validate checks that indices are 0..n-1 in order and names are unique.
func (m *Manifest) Validate() error {
	seen := make(map[string]struct{}, len(m.Labels))
	for i, l := range m.Labels {
		if l.Index != i {
			return fmt.Errorf("%w: label %q has index %d at position %d", ErrCorrupt, l.Name, l.Index, i)
		}
		if _, dup := seen[l.Name]; dup {
			return fmt.Errorf("%w: duplicate label %q", ErrCorrupt, l.Name)
		}
		seen[l.Name] = struct{}{}
	}
	return nil
}

func WriteManifest(ctx context.Context, s Store, m *Manifest) error {
	if err := m.Validate(); err != nil {
		return err
	}

	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("encoding manifest: %w", err)
	}

	w, err := s.Write(ctx, ManifestKey)
	if err != nil {
		return fmt.Errorf("opening manifest: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		abortWrite(w, err)
		return fmt.Errorf("writing manifest: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("committing manifest: %w", err)
	}
	return nil
}

// ReadManifest loads the manifest. A missing manifest returns an error
// wrapping ErrNotFound.
func ReadManifest(ctx context.Context, s Store) (*Manifest, error) {
	r, err := s.Read(ctx, ManifestKey)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: manifest: %w", ErrCorrupt, err)
	}
	if m.Version != manifestVersion {
		return nil, fmt.Errorf("%w: manifest version %d", ErrCorrupt, m.Version)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// HasManifest reports whether the store holds a manifest.
func HasManifest(ctx context.Context, s Store) (bool, error) {
	ok, err := s.Exists(ctx, ManifestKey)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return false, err
	}
	return ok, nil
}
