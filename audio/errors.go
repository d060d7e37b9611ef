// SPDX-License-Identifier: EPL-2.0

package audio

import "errors"

var (
	ErrInvalidDstSize    = errors.New("dst size must be multiple of channels")
	ErrUnsupportedFormat = errors.New("unsupported audio format")
	ErrInvalidFactor     = errors.New("decimation factor must be positive")
)
