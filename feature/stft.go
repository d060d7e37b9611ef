// SPDX-License-Identifier: EPL-2.0

package feature

import (
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/mat"
)

// hannWindow returns the periodic Hann window of length n, the variant
// used for spectral analysis.
func hannWindow(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(n))
	}
	return w
}

// frameCount is the number of centered frames for a signal of the given
// length: 1 + length/hop.
func frameCount(length, hop int) int {
	return 1 + length/hop
}

// reflectPad extends signal by pad samples on both sides, mirroring around
// the edge samples without repeating them. Pads longer than the signal keep
// reflecting back and forth.
func reflectPad(signal []float64, pad int) []float64 {
	n := len(signal)
	out := make([]float64, n+2*pad)
	copy(out[pad:], signal)
	if n < 2 {
		// nothing to mirror; a single sample is repeated, an empty signal stays zero
		if n == 1 {
			for i := range out {
				out[i] = signal[0]
			}
		}
		return out
	}

	period := 2 * (n - 1)
	for i := range out {
		if i >= pad && i < pad+n {
			continue
		}
		j := (i - pad) % period
		if j < 0 {
			j += period
		}
		if j >= n {
			j = period - j
		}
		out[i] = signal[j]
	}
	return out
}

// powerSpectrogram computes |STFT|^2 with centered frames. The signal is
// reflect padded by nfft/2 on both sides. The result is (nfft/2+1) x frames.
func powerSpectrogram(signal []float64, nfft, hop int) *mat.Dense {
	half := nfft / 2
	padded := reflectPad(signal, half)

	frames := frameCount(len(signal), hop)
	bins := half + 1
	out := mat.NewDense(bins, frames, nil)

	window := hannWindow(nfft)
	fft := fourier.NewFFT(nfft)
	buf := make([]float64, nfft)
	coeffs := make([]complex128, bins)

	for f := range frames {
		start := f * hop
		for i := range buf {
			buf[i] = padded[start+i] * window[i]
		}
		coeffs = fft.Coefficients(coeffs, buf)
		for b, c := range coeffs {
			re, im := real(c), imag(c)
			out.Set(b, f, re*re+im*im)
		}
	}

	return out
}
