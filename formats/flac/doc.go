// SPDX-License-Identifier: EPL-2.0

// Package flac decodes FLAC audio through github.com/mewkiz/flac.
//
// Frames are decoded one at a time and interleaved into float32 samples in
// [-1,1]; a read may span several FLAC frames.
//
//	src, err := flac.Decoder{}.Decode(file)
//	if errors.Is(err, flac.ErrNotFlacFile) {
//	    // missing fLaC signature
//	}
package flac
