// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"
)

// ReadAll drains src and returns every interleaved sample it produced.
// bufferSize is rounded down to a multiple of the channel count; values
// smaller than one frame fall back to src.BufSize().
func ReadAll(src Source, bufferSize int) ([]float32, error) {
	channels := max(src.Channels(), 1)
	if bufferSize < channels {
		bufferSize = src.BufSize()
	}
	bufferSize -= bufferSize % channels
	if bufferSize <= 0 {
		bufferSize = 4096 * channels
	}

	buf := make([]float32, bufferSize)
	out := make([]float32, 0, bufferSize)

	for {
		n, err := src.ReadSamples(buf)
		if n > 0 {
			out = append(out, buf[:n]...)
		}

		if errors.Is(err, io.EOF) {
			return out, nil
		}

		if err != nil {
			return nil, fmt.Errorf("%w", err)
		}
	}
}
