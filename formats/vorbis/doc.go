// SPDX-License-Identifier: EPL-2.0

// Package vorbis decodes Ogg Vorbis audio through
// github.com/jfreymuth/oggvorbis.
//
// Vorbis decodes natively to float32, so samples pass through without
// conversion. Reads are trimmed to whole frames: a destination buffer of
// 5 values on a stereo stream receives at most 4.
//
//	src, err := vorbis.Decoder{}.Decode(file)
package vorbis
