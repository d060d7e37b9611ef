// SPDX-License-Identifier: EPL-2.0

package dataset

import "errors"

var (
	// ErrMissingCache indicates a label with no cached array
	ErrMissingCache = errors.New("missing cache entry")
	// ErrShapeMismatch indicates label arrays with different matrix shapes
	ErrShapeMismatch = errors.New("feature shape mismatch")
	// ErrNoLabels indicates an empty catalog
	ErrNoLabels = errors.New("no labels")
	// ErrInvalidRatio indicates a split ratio outside (0,1)
	ErrInvalidRatio = errors.New("split ratio must be in (0,1)")
	// ErrEmptySplit indicates a ratio that leaves the training set empty
	ErrEmptySplit = errors.New("split leaves the training set empty")
)
