// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"

	"github.com/ik5/audfeat/utils"
)

// WriteWAV16 encodes interleaved float32 samples as 16-bit PCM WAV.
// Samples outside [-1,1] are clamped.
func WriteWAV16(w io.WriteSeeker, sampleRate, channels int, samples []float32) error {
	if channels <= 0 || len(samples)%channels != 0 {
		return fmt.Errorf("%d samples do not fill %d channels", len(samples), channels)
	}

	data := make([]int, len(samples))
	for i, s := range samples {
		data[i] = utils.FloatToPCM(s, 16)
	}

	enc := gowav.NewEncoder(w, sampleRate, 16, channels, formatPCM)
	buf := &goaudio.IntBuffer{
		Format: &goaudio.Format{
			NumChannels: channels,
			SampleRate:  sampleRate,
		},
		Data:           data,
		SourceBitDepth: 16,
	}

	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("%w", err)
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}

	return nil
}
