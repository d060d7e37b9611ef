// SPDX-License-Identifier: EPL-2.0

// Package feature computes fixed-size mel-frequency cepstral matrices.
//
// A file is decoded at its native rate, mixed to mono and decimated by
// DecimationFactor. The mel scale is still laid out for the decode rate,
// as if the samples had not been thinned. The decimated signal is
// reflect-padded and framed with a centered periodic Hann window,
// transformed with gonum's real FFT, projected onto a bank of
// triangular mel filters, converted to decibels and reduced with an
// orthonormal DCT-II. The first Coefficients rows are kept.
//
// Frame count depends on duration, so FitShape zero-pads or truncates the
// columns to exactly Frames. Two files of different lengths always yield
// matrices of the same shape:
//
//	ext, err := feature.New(feature.DefaultConfig(), formats.NewRegistry())
//	m, err := ext.Extract("data/yes/0001.wav") // 20 x 20
package feature
