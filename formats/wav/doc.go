// SPDX-License-Identifier: EPL-2.0

// Package wav decodes and encodes WAV files through github.com/go-audio/wav.
//
// The decoder walks the RIFF chunk list, so files carrying LIST/fact/cue
// chunks before the data chunk decode fine. Integer PCM at 16, 24 or 32
// bits is accepted, in plain and WAVE_FORMAT_EXTENSIBLE headers. IEEE float
// WAV is rejected with ErrUnsupportedEncoding.
//
//	src, err := wav.Decoder{}.Decode(file)
//	if errors.Is(err, wav.ErrNotWavFile) {
//	    // not RIFF/WAVE, or no audio data
//	}
//
// Samples come out as interleaved float32 in [-1,1].
//
// WriteWAV16 writes float32 samples as 16-bit PCM. The go-audio encoder
// patches chunk sizes on close and therefore needs an io.WriteSeeker such
// as *os.File:
//
//	f, _ := os.Create("tone.wav")
//	defer f.Close()
//	err := wav.WriteWAV16(f, 16000, 1, samples)
package wav
