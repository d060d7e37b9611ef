// SPDX-License-Identifier: EPL-2.0

package feature

import "errors"

var (
	// ErrDecode wraps any failure to open or decode an audio file
	ErrDecode = errors.New("cannot decode audio")
	// ErrInvalidConfig indicates a Config that fails Validate
	ErrInvalidConfig = errors.New("invalid feature config")
)
