// SPDX-License-Identifier: EPL-2.0

package feature

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Slaney's auditory toolbox scale: linear below 1 kHz, logarithmic above.
const (
	slaneyStep      = 200.0 / 3
	slaneyMinLogHz  = 1000.0
	slaneyMinLogMel = slaneyMinLogHz / slaneyStep
)

var slaneyLogStep = math.Log(6.4) / 27

// HTK scale constants.
const (
	htkBreakHz = 700.0
	htkQ       = 1127.0
)

func hzToMel(hz float64, scale MelScale) float64 {
	if scale == MelHTK {
		return htkQ * math.Log(1+hz/htkBreakHz)
	}
	if hz >= slaneyMinLogHz {
		return slaneyMinLogMel + math.Log(hz/slaneyMinLogHz)/slaneyLogStep
	}
	return hz / slaneyStep
}

func melToHz(mel float64, scale MelScale) float64 {
	if scale == MelHTK {
		return htkBreakHz * (math.Exp(mel/htkQ) - 1)
	}
	if mel >= slaneyMinLogMel {
		return slaneyMinLogHz * math.Exp(slaneyLogStep*(mel-slaneyMinLogMel))
	}
	return slaneyStep * mel
}

// melFrequencies returns n points evenly spaced on the mel scale between
// fmin and fmax, expressed in Hz.
func melFrequencies(n int, fmin, fmax float64, scale MelScale) []float64 {
	lo, hi := hzToMel(fmin, scale), hzToMel(fmax, scale)
	out := make([]float64, n)
	for i := range out {
		m := lo
		if n > 1 {
			m += (hi - lo) * float64(i) / float64(n-1)
		}
		out[i] = melToHz(m, scale)
	}
	return out
}

// melFilterBank builds an nMels x (nfft/2+1) matrix of triangular filters
// with area normalization, so each filter has roughly constant energy.
func melFilterBank(rate, nfft, nMels int, fmin, fmax float64, scale MelScale) *mat.Dense {
	if fmax <= 0 {
		fmax = float64(rate) / 2
	}

	bins := nfft/2 + 1
	fftFreqs := make([]float64, bins)
	for i := range fftFreqs {
		fftFreqs[i] = float64(i) * float64(rate) / float64(nfft)
	}

	melF := melFrequencies(nMels+2, fmin, fmax, scale)
	bank := mat.NewDense(nMels, bins, nil)

	for m := range nMels {
		left, center, right := melF[m], melF[m+1], melF[m+2]
		enorm := 2 / (right - left)
		for b, f := range fftFreqs {
			lower := (f - left) / (center - left)
			upper := (right - f) / (right - center)
			w := math.Max(0, math.Min(lower, upper))
			if w > 0 {
				bank.Set(m, b, w*enorm)
			}
		}
	}

	return bank
}

// powerToDB converts a power matrix to decibels in place, relative to 1.0,
// flooring at 1e-10. When topDB > 0, values below max-topDB are raised to it.
func powerToDB(s *mat.Dense, topDB float64) {
	const amin = 1e-10

	s.Apply(func(_, _ int, v float64) float64 {
		return 10 * math.Log10(math.Max(amin, v))
	}, s)

	if topDB <= 0 {
		return
	}

	floor := mat.Max(s) - topDB
	s.Apply(func(_, _ int, v float64) float64 {
		return math.Max(v, floor)
	}, s)
}
