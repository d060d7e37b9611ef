// SPDX-License-Identifier: EPL-2.0

// Package audio provides the streaming primitives the feature pipeline is
// built from.
//
// # Source Interface
//
// Every decoder and processor implements Source:
//
//	type Source interface {
//	    SampleRate() int
//	    Channels() int
//	    ReadSamples(dst []float32) (int, error)
//	    BufSize() int
//	    Close() error
//	}
//
// Samples are interleaved float32 in [-1,1]. ReadSamples returns io.EOF,
// possibly together with the last samples, when the stream is exhausted.
//
// # Registry
//
// A Registry maps file extensions to decoders and opens files by path:
//
//	reg := audio.NewRegistry()
//	reg.Register(wav.Decoder{}, ".wav", ".wave")
//	src, err := reg.Open("data/yes/001.wav")
//
// The formats package returns a registry with all bundled codecs.
//
// # Processing chain
//
//	mono := audio.NewMonoMixer(src)
//	dec, err := audio.NewDecimator(mono, 3)
//	samples, err := audio.ReadAll(dec, 4096)
//
// NewResampler converts to another rate with Catmull-Rom interpolation and
// a one-pole low-pass when downsampling. NewDecimator keeps every n-th frame
// with no filtering, matching plain slice striding across read boundaries.
package audio
