// SPDX-License-Identifier: EPL-2.0

package cache

import "errors"

var (
	// ErrNotFound indicates a missing cache entry. Errors carrying it also
	// wrap os.ErrNotExist.
	ErrNotFound = errors.New("cache entry not found")
	// ErrCorrupt indicates an entry whose shape does not match its data
	ErrCorrupt = errors.New("corrupt cache entry")
	// ErrInvalidLabel indicates a label that cannot be used as a cache key
	ErrInvalidLabel = errors.New("invalid label for cache key")
)
