// SPDX-License-Identifier: EPL-2.0

package audio

import "fmt"

// Decimator keeps one frame out of every factor frames, starting with the
// first one, and drops the rest. No filtering is applied, so a decimated
// stream equals signal[::factor] of the source. The reported sample rate is
// divided accordingly.
type Decimator struct {
	src    Source
	factor int
	phase  int
	tmp    []float32
}

func NewDecimator(src Source, factor int) (*Decimator, error) {
	if factor <= 0 {
		return nil, ErrInvalidFactor
	}

	return &Decimator{
		src:    src,
		factor: factor,
		tmp:    make([]float32, 4096),
	}, nil
}

// SampleRate is the source rate divided by the factor, rounded down
// (16000/3 reports 5333). It describes the thinned stream only; feature
// extraction keeps using the source rate.
func (d *Decimator) SampleRate() int { return d.src.SampleRate() / d.factor }

func (d *Decimator) Channels() int { return d.src.Channels() }
func (d *Decimator) BufSize() int  { return d.src.BufSize() }
func (d *Decimator) Factor() int   { return d.factor }

func (d *Decimator) Close() error {
	if err := d.src.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

// ReadSamples may return (0, nil) when every frame read from the source was
// dropped; callers keep reading until io.EOF.
func (d *Decimator) ReadSamples(dst []float32) (int, error) {
	channels := d.src.Channels()
	if len(dst)%channels != 0 {
		return 0, ErrInvalidDstSize
	}

	maxFrames := len(dst) / channels
	if maxFrames == 0 {
		return 0, nil
	}

	need := maxFrames * d.factor * channels
	if cap(d.tmp) < need {
		d.tmp = make([]float32, need)
	}
	d.tmp = d.tmp[:need]

	n, err := d.src.ReadSamples(d.tmp)
	frames := n / channels

	written := 0
	for f := range frames {
		if d.phase == 0 {
			copy(dst[written*channels:(written+1)*channels], d.tmp[f*channels:(f+1)*channels])
			written++
		}
		d.phase++
		if d.phase == d.factor {
			d.phase = 0
		}
	}

	return written * channels, err
}
