// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"

	"github.com/ik5/audfeat/utils"
)

// Resampler converts src to a new sample rate with Catmull-Rom cubic
// interpolation. Channel count is preserved. When downsampling, a one-pole
// low-pass filter runs ahead of the interpolator.
type Resampler struct {
	src      Source
	dstRate  int
	ratio    float64 // source frames per output frame
	channels int

	// window[0..3] hold frames t-1, t, t+1, t+2
	window [4][]float32
	filled [4]bool
	primed bool

	// fractional position between window[1] and window[2]
	pos float64

	srcBuf []float32
	eof    bool

	lowPass bool
	alpha   float32
	state   []float32
}

func NewResampler(src Source, dstRate int) *Resampler {
	channels := src.Channels()
	ratio := float64(src.SampleRate()) / float64(dstRate)

	r := &Resampler{
		src:      src,
		dstRate:  dstRate,
		ratio:    ratio,
		channels: channels,
		srcBuf:   make([]float32, channels),
		lowPass:  ratio > 1.0,
		alpha:    0.5,
		state:    make([]float32, channels),
	}

	for i := range r.window {
		r.window[i] = make([]float32, channels)
	}

	return r
}

func (r *Resampler) SampleRate() int { return r.dstRate }
func (r *Resampler) Channels() int   { return r.channels }
func (r *Resampler) BufSize() int    { return r.src.BufSize() }

func (r *Resampler) Close() error {
	if err := r.src.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

// readFrame pulls one frame from the source into dst, filtered when
// downsampling. It reports whether a frame was read.
func (r *Resampler) readFrame(dst []float32) (bool, error) {
	n, err := r.src.ReadSamples(r.srcBuf)
	got := n > 0
	if got {
		copy(dst, r.srcBuf[:n])
		if r.lowPass {
			for c := range r.channels {
				dst[c] = r.alpha*dst[c] + (1-r.alpha)*r.state[c]
				r.state[c] = dst[c]
			}
		}
	}

	if errors.Is(err, io.EOF) {
		r.eof = true
		return got, nil
	}
	if err != nil {
		return got, fmt.Errorf("%w", err)
	}
	return got, nil
}

// prime fills the four-frame window, repeating the last frame when the
// source is shorter than the window.
func (r *Resampler) prime() error {
	r.primed = true

	for i := range r.window {
		if r.eof {
			copy(r.window[i], r.window[i-1])
			r.filled[i] = true
			continue
		}

		// seed the filter with the first frame to avoid a ramp from zero
		if i == 0 && r.lowPass {
			n, err := r.src.ReadSamples(r.srcBuf)
			if n > 0 {
				copy(r.window[0], r.srcBuf[:n])
				copy(r.state, r.srcBuf[:n])
				r.filled[0] = true
			}
			if errors.Is(err, io.EOF) {
				r.eof = true
			} else if err != nil {
				return fmt.Errorf("%w", err)
			}
			if n == 0 {
				return io.EOF
			}
			continue
		}

		got, err := r.readFrame(r.window[i])
		if err != nil {
			return err
		}
		if !got {
			if i == 0 {
				return io.EOF
			}
			copy(r.window[i], r.window[i-1])
		}
		r.filled[i] = true
	}

	return nil
}

// advance shifts the window by one source frame.
func (r *Resampler) advance() error {
	if r.eof {
		return io.EOF
	}

	last := r.window[0]
	copy(r.window[:], r.window[1:])
	r.window[3] = last
	copy(r.filled[:], r.filled[1:])

	got, err := r.readFrame(r.window[3])
	if err != nil {
		return err
	}
	r.filled[3] = got
	if !got && r.eof {
		return io.EOF
	}

	return nil
}

// ReadSamples produces interleaved output frames at the target rate.
// len(dst) must be a multiple of the channel count.
func (r *Resampler) ReadSamples(dst []float32) (int, error) {
	if len(dst)%r.channels != 0 {
		return 0, ErrInvalidDstSize
	}

	if !r.primed {
		if err := r.prime(); err != nil {
			return 0, err
		}
	}

	written := 0
	frames := len(dst) / r.channels

	for written < frames {
		for r.pos >= 1.0 {
			r.pos -= 1.0
			if err := r.advance(); err != nil {
				if errors.Is(err, io.EOF) {
					return written * r.channels, io.EOF
				}
				return written * r.channels, err
			}
		}

		if !r.filled[1] || !r.filled[2] {
			return written * r.channels, io.EOF
		}

		x := float32(r.pos)
		for c := range r.channels {
			y0 := r.window[1][c]
			if r.filled[0] {
				y0 = r.window[0][c]
			}
			y3 := r.window[2][c]
			if r.filled[3] {
				y3 = r.window[3][c]
			}

			dst[written*r.channels+c] = utils.CubicInterpolate(y0, r.window[1][c], r.window[2][c], y3, x)
		}

		written++
		r.pos += r.ratio
	}

	return written * r.channels, nil
}
