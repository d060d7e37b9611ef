// SPDX-License-Identifier: EPL-2.0

// Package aiff decodes AIFF files through github.com/go-audio/aiff.
//
// Integer PCM at 16, 24 or 32 bits is supported; compressed AIFF-C is not.
// Samples come out as interleaved float32 in [-1,1].
//
//	src, err := aiff.Decoder{}.Decode(file)
//	if errors.Is(err, aiff.ErrNotAiffFile) {
//	    fmt.Println("not an AIFF file")
//	}
//
// go-audio needs an io.ReadSeeker; other readers are buffered in memory.
package aiff
