// SPDX-License-Identifier: EPL-2.0

package flac

import (
	"errors"
	"fmt"
	"io"

	"github.com/mewkiz/flac"
	"github.com/mewkiz/flac/frame"

	"github.com/ik5/audfeat/audio"
	"github.com/ik5/audfeat/utils"
)

var (
	// ErrNotFlacFile indicates a missing "fLaC" signature or STREAMINFO block
	ErrNotFlacFile = errors.New("not a FLAC file")
	// ErrUnsupportedBitDepth indicates a sample size outside 4..32 bits
	ErrUnsupportedBitDepth = errors.New("unsupported FLAC bit depth")
)

// frameReader is the part of flac.Stream used by source.
type frameReader interface {
	ParseNext() (*frame.Frame, error)
}

type source struct {
	dec        frameReader
	closer     io.Closer
	sampleRate int
	channels   int
	bitDepth   int
	pending    []float32 // interleaved samples of the current frame not yet returned
	done       bool
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return s.channels }
func (s *source) BufSize() int    { return 4096 }

func (s *source) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

func (s *source) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	total := 0
	for total < len(dst) {
		if len(s.pending) == 0 {
			if s.done {
				break
			}
			if err := s.nextFrame(); err != nil {
				return total, err
			}
			continue
		}

		n := copy(dst[total:], s.pending)
		s.pending = s.pending[n:]
		total += n
	}

	if s.done && len(s.pending) == 0 {
		return total, io.EOF
	}
	return total, nil
}

// nextFrame decodes one frame into pending, or marks the stream done.
func (s *source) nextFrame() error {
	f, err := s.dec.ParseNext()
	if errors.Is(err, io.EOF) {
		s.done = true
		return nil
	}
	if err != nil {
		return fmt.Errorf("decoding flac frame: %w", err)
	}
	if len(f.Subframes) != s.channels {
		return fmt.Errorf("flac frame has %d subframes, stream has %d channels", len(f.Subframes), s.channels)
	}

	frames := len(f.Subframes[0].Samples)
	if cap(s.pending) < frames*s.channels {
		s.pending = make([]float32, frames*s.channels)
	}
	s.pending = s.pending[:frames*s.channels]

	for ch, sub := range f.Subframes {
		for i := 0; i < frames && i < len(sub.Samples); i++ {
			s.pending[i*s.channels+ch] = utils.PCMToFloat(int(sub.Samples[i]), s.bitDepth)
		}
	}
	return nil
}

type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	stream, err := flac.New(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotFlacFile, err)
	}
	if stream.Info == nil || stream.Info.NChannels == 0 {
		return nil, ErrNotFlacFile
	}

	bits := int(stream.Info.BitsPerSample)
	if bits < 4 || bits > 32 {
		return nil, fmt.Errorf("%w (got %d)", ErrUnsupportedBitDepth, bits)
	}

	return &source{
		dec:        stream,
		closer:     stream,
		sampleRate: int(stream.Info.SampleRate),
		channels:   int(stream.Info.NChannels),
		bitDepth:   bits,
	}, nil
}
