// SPDX-License-Identifier: EPL-2.0

package cache

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// Local implements Store on the local filesystem under a root directory.
type Local struct {
	root string
}

// NewLocal creates a Local store rooted at dir, creating it if needed.
func NewLocal(dir string) (*Local, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("%w", err)
	}
	return &Local{root: abs}, nil
}

func (l *Local) Root() string { return l.root }

func (l *Local) resolve(path string) string {
	return filepath.Join(l.root, filepath.FromSlash(path))
}

func (l *Local) Read(_ context.Context, path string) (io.ReadCloser, error) {
	f, err := os.Open(l.resolve(path))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s: %w", ErrNotFound, path, err)
	}
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}
	return f, nil
}

// Write stages data in a temp file next to the target and renames it into
// place on Close.
func (l *Local) Write(_ context.Context, path string) (io.WriteCloser, error) {
	full := l.resolve(path)
	dir := filepath.Dir(full)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(full)+".*.tmp")
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}
	return &atomicFile{f: tmp, target: full}, nil
}

func (l *Local) Delete(_ context.Context, path string) error {
	err := os.Remove(l.resolve(path))
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("%w", err)
}

func (l *Local) Exists(_ context.Context, path string) (bool, error) {
	_, err := os.Stat(l.resolve(path))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("%w", err)
}

type atomicFile struct {
	f      *os.File
	target string
	failed bool
	closed bool
}

func (a *atomicFile) Write(p []byte) (int, error) {
	n, err := a.f.Write(p)
	if err != nil {
		a.failed = true
	}
	return n, err
}

func (a *atomicFile) Close() error {
	if a.closed {
		return nil
	}
	a.closed = true

	tmp := a.f.Name()
	if err := a.f.Close(); err != nil || a.failed {
		os.Remove(tmp)
		if err == nil {
			err = errors.New("write failed")
		}
		return fmt.Errorf("writing %s: %w", filepath.Base(a.target), err)
	}

	if err := os.Chmod(tmp, 0o644); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("%w", err)
	}

	if err := os.Rename(tmp, a.target); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("%w", err)
	}
	return nil
}

// Abort drops the temp file. The target keeps its previous content.
func (a *atomicFile) Abort(error) error {
	if a.closed {
		return nil
	}
	a.closed = true

	a.f.Close()
	if err := os.Remove(a.f.Name()); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w", err)
	}
	return nil
}

var (
	_ Store   = (*Local)(nil)
	_ Aborter = (*atomicFile)(nil)
)
