// SPDX-License-Identifier: EPL-2.0

package feature

import (
	"fmt"
	"strings"
)

// DecimationFactor is how many input frames collapse into one before
// analysis. Every third mono sample is kept.
const DecimationFactor = 3

// MelScale selects the Hz to mel mapping used to place the filters.
type MelScale string

const (
	MelSlaney MelScale = "slaney"
	MelHTK    MelScale = "htk"
)

// Config controls the shape and the analysis parameters of the extracted
// matrices. The zero value is not usable; start from DefaultConfig.
type Config struct {
	// Coefficients is M, the number of cepstral rows kept.
	Coefficients int `yaml:"-"`
	// Frames is N, the fixed number of columns.
	Frames int `yaml:"-"`

	NFFT      int     `yaml:"n_fft"`
	HopLength int     `yaml:"hop_length"`
	NMels     int     `yaml:"n_mels"`
	FMin      float64 `yaml:"fmin"`
	// FMax of 0 means half the analysis rate.
	FMax float64 `yaml:"fmax"`
	// TopDB of 0 disables the dynamic range clamp.
	TopDB    float64  `yaml:"top_db"`
	MelScale MelScale `yaml:"mel_scale"`

	// ResampleRate converts the decoded audio to this rate before mixing
	// and decimation. 0 keeps the native rate.
	ResampleRate int `yaml:"resample_rate"`
}

func DefaultConfig() Config {
	return Config{
		Coefficients: 20,
		Frames:       20,
		NFFT:         2048,
		HopLength:    512,
		NMels:        128,
		TopDB:        80,
		MelScale:     MelSlaney,
	}
}

func (c Config) Validate() error {
	switch {
	case c.Coefficients <= 0 || c.Frames <= 0:
		return fmt.Errorf("%w: shape must be positive, got [%d,%d]", ErrInvalidConfig, c.Coefficients, c.Frames)
	case c.NFFT < 2 || c.NFFT%2 != 0:
		return fmt.Errorf("%w: n_fft must be even and >= 2, got %d", ErrInvalidConfig, c.NFFT)
	case c.HopLength <= 0:
		return fmt.Errorf("%w: hop_length must be positive, got %d", ErrInvalidConfig, c.HopLength)
	case c.NMels <= 0:
		return fmt.Errorf("%w: n_mels must be positive, got %d", ErrInvalidConfig, c.NMels)
	case c.Coefficients > c.NMels:
		return fmt.Errorf("%w: %d coefficients exceed %d mel bands", ErrInvalidConfig, c.Coefficients, c.NMels)
	case c.FMin < 0 || c.FMax < 0 || (c.FMax > 0 && c.FMax <= c.FMin):
		return fmt.Errorf("%w: bad frequency range [%g,%g]", ErrInvalidConfig, c.FMin, c.FMax)
	case c.TopDB < 0:
		return fmt.Errorf("%w: top_db must not be negative", ErrInvalidConfig)
	case c.ResampleRate < 0:
		return fmt.Errorf("%w: resample_rate must not be negative", ErrInvalidConfig)
	}

	switch MelScale(strings.ToLower(string(c.MelScale))) {
	case MelSlaney, MelHTK:
	default:
		return fmt.Errorf("%w: unknown mel scale %q", ErrInvalidConfig, c.MelScale)
	}

	return nil
}
