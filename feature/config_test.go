// SPDX-License-Identifier: EPL-2.0

package feature

import (
	"errors"
	"testing"
)

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
		valid  bool
	}{
		{"default", func(*Config) {}, true},
		{"htk upper case", func(c *Config) { c.MelScale = "HTK" }, true},
		{"band limited", func(c *Config) { c.FMin, c.FMax = 20, 4000 }, true},
		{"no top db", func(c *Config) { c.TopDB = 0 }, true},
		{"zero rows", func(c *Config) { c.Coefficients = 0 }, false},
		{"odd fft", func(c *Config) { c.NFFT = 1023 }, false},
		{"zero hop", func(c *Config) { c.HopLength = 0 }, false},
		{"more rows than mels", func(c *Config) { c.NMels = 10 }, false},
		{"inverted range", func(c *Config) { c.FMin, c.FMax = 500, 100 }, false},
		{"negative top db", func(c *Config) { c.TopDB = -1 }, false},
		{"negative resample", func(c *Config) { c.ResampleRate = -8000 }, false},
		{"unknown scale", func(c *Config) { c.MelScale = "bark" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.valid && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tt.valid && !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}
