// SPDX-License-Identifier: EPL-2.0

// Package pcmsource adapts go-audio integer PCM decoders (wav, aiff) to
// audio.Source.
package pcmsource

import (
	"errors"
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"

	"github.com/ik5/audfeat/utils"
)

// Reader is the part of the go-audio wav and aiff decoders that Source uses.
type Reader interface {
	Format() *goaudio.Format
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

// Source converts integer PCM from a Reader to float32 in [-1,1].
type Source struct {
	dec        Reader
	sampleRate int
	channels   int
	bitDepth   int
	intBuf     *goaudio.IntBuffer
	done       bool
}

func New(dec Reader, sampleRate, channels, bitDepth int) *Source {
	return &Source{
		dec:        dec,
		sampleRate: sampleRate,
		channels:   channels,
		bitDepth:   bitDepth,
	}
}

func (s *Source) SampleRate() int { return s.sampleRate }
func (s *Source) Channels() int   { return s.channels }
func (s *Source) BitDepth() int   { return s.bitDepth }
func (s *Source) Close() error    { return nil }

func (s *Source) BufSize() int {
	if s.intBuf != nil {
		return cap(s.intBuf.Data)
	}
	return 4096
}

func (s *Source) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}
	if s.done {
		return 0, io.EOF
	}

	if s.intBuf == nil || cap(s.intBuf.Data) < len(dst) {
		s.intBuf = &goaudio.IntBuffer{
			Data:           make([]int, len(dst)),
			Format:         s.dec.Format(),
			SourceBitDepth: s.bitDepth,
		}
	} else {
		s.intBuf.Data = s.intBuf.Data[:len(dst)]
	}

	n, err := s.dec.PCMBuffer(s.intBuf)
	for i := range n {
		dst[i] = utils.PCMToFloat(s.intBuf.Data[i], s.bitDepth)
	}

	switch {
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		s.done = true
		return n, io.EOF
	case err != nil:
		return n, fmt.Errorf("%w", err)
	case n < len(dst):
		// go-audio signals the end of the data chunk with a short read
		s.done = true
		return n, io.EOF
	}

	return n, nil
}
