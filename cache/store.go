// SPDX-License-Identifier: EPL-2.0

// Package cache persists per-label feature arrays and the label manifest.
//
// Entries live in a Store keyed by forward-slash paths relative to the
// cache root. Local keeps them on disk and S3 in an S3-compatible bucket.
// Each label is one msgpack-encoded LabelArray at "<label>.msgpack", and
// the label order is recorded in "manifest.yaml".
package cache

import (
	"context"
	"io"
)

// Store is a minimal file-oriented storage backend.
//
// Paths are forward-slash separated and relative to the store root.
// Implementations must be safe for concurrent use.
type Store interface {
	// Read opens the named entry. The caller closes the reader.
	// A missing entry returns an error wrapping ErrNotFound and os.ErrNotExist.
	Read(ctx context.Context, path string) (io.ReadCloser, error)

	// Write opens the named entry for writing, replacing any previous
	// content. Data becomes visible only once Close returns nil. Writers
	// that also implement Aborter can drop the entry without publishing it.
	Write(ctx context.Context, path string) (io.WriteCloser, error)

	// Delete removes the named entry. Missing entries are not an error.
	Delete(ctx context.Context, path string) error

	// Exists reports whether the named entry exists.
	Exists(ctx context.Context, path string) (bool, error)
}

// Aborter is implemented by Store writers that can discard everything
// written so far. After Abort the previous content, if any, is untouched.
type Aborter interface {
	Abort(cause error) error
}

// abortWrite discards w after a failed write. Writers without Abort are
// closed, which may publish what was written.
func abortWrite(w io.WriteCloser, cause error) {
	if a, ok := w.(Aborter); ok {
		a.Abort(cause)
		return
	}
	w.Close()
}
