// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"errors"
	"fmt"
	"io"

	"github.com/jfreymuth/oggvorbis"

	"github.com/ik5/audfeat/audio"
)

// ErrNotVorbisFile indicates the stream is not Ogg Vorbis
var ErrNotVorbisFile = errors.New("not an Ogg Vorbis file")

// oggReader is the part of oggvorbis.Reader used by source. Read fills p
// with interleaved samples and returns the number of values written.
type oggReader interface {
	SampleRate() int
	Channels() int
	Read(p []float32) (int, error)
}

type source struct {
	dec        oggReader
	sampleRate int
	channels   int
	bufSize    int
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return s.channels }
func (s *source) Close() error    { return nil }
func (s *source) BufSize() int    { return s.bufSize }

func (s *source) ReadSamples(dst []float32) (int, error) {
	// Whole frames only so channels stay aligned across calls.
	want := len(dst) - len(dst)%s.channels
	if want == 0 {
		return 0, nil
	}

	n, err := s.dec.Read(dst[:want])
	if err != nil && !errors.Is(err, io.EOF) {
		return n, fmt.Errorf("decoding vorbis packet: %w", err)
	}
	return n, err
}

type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	dec, err := oggvorbis.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotVorbisFile, err)
	}
	if dec.Channels() <= 0 {
		return nil, ErrNotVorbisFile
	}

	return &source{
		dec:        dec,
		sampleRate: dec.SampleRate(),
		channels:   dec.Channels(),
		bufSize:    4096 - 4096%dec.Channels(),
	}, nil
}
