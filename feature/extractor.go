// SPDX-License-Identifier: EPL-2.0

package feature

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"gonum.org/v1/gonum/mat"

	"github.com/ik5/audfeat/audio"
)

const readBufferSize = 4096

// Extractor turns one audio file into a fixed M x N cepstral matrix.
// It is safe for concurrent use.
type Extractor struct {
	cfg    Config
	reg    *audio.Registry
	logger *slog.Logger

	dct *mat.Dense

	mtx   sync.Mutex
	banks map[int]*mat.Dense // mel filter bank per analysis rate
}

type Option func(*Extractor)

func WithLogger(l *slog.Logger) Option {
	return func(e *Extractor) {
		if l != nil {
			e.logger = l
		}
	}
}

func New(cfg Config, reg *audio.Registry, opts ...Option) (*Extractor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if reg == nil {
		return nil, fmt.Errorf("%w: nil registry", ErrInvalidConfig)
	}
	cfg.MelScale = MelScale(strings.ToLower(string(cfg.MelScale)))

	e := &Extractor{
		cfg:    cfg,
		reg:    reg,
		logger: slog.Default(),
		dct:    dctMatrix(cfg.Coefficients, cfg.NMels),
		banks:  make(map[int]*mat.Dense),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

func (e *Extractor) Config() Config { return e.cfg }

// Shape is the (rows, cols) of every matrix Extract returns.
func (e *Extractor) Shape() (int, int) { return e.cfg.Coefficients, e.cfg.Frames }

// Extract decodes path and returns its Coefficients x Frames matrix.
func (e *Extractor) Extract(path string) (*mat.Dense, error) {
	samples, rate, err := e.Load(path)
	if err != nil {
		return nil, err
	}

	coeffs := e.Coefficients(samples, rate)
	_, frames := coeffs.Dims()
	e.logger.Debug("extracted features",
		slog.String("path", path),
		slog.Int("samples", len(samples)),
		slog.Int("rate", rate),
		slog.Int("frames", frames),
	)

	return FitShape(coeffs, e.cfg.Frames), nil
}

// Load decodes path to mono, decimated samples. The returned rate is the
// rate before decimation (the native rate, or ResampleRate when set); the
// filter bank is built for that rate even though the samples are thinned.
func (e *Extractor) Load(path string) ([]float32, int, error) {
	src, err := e.reg.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %s: %w", ErrDecode, path, err)
	}
	defer src.Close()

	var chain audio.Source = src
	if e.cfg.ResampleRate > 0 && e.cfg.ResampleRate != src.SampleRate() {
		chain = audio.NewResampler(chain, e.cfg.ResampleRate)
	}

	dec, err := audio.NewDecimator(audio.NewMonoMixer(chain), DecimationFactor)
	if err != nil {
		return nil, 0, fmt.Errorf("%w", err)
	}

	samples, err := audio.ReadAll(dec, readBufferSize)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %s: %w", ErrDecode, path, err)
	}

	return samples, chain.SampleRate(), nil
}

// Coefficients computes the cepstral matrix of samples at the given rate.
// The result has Coefficients rows and 1 + len(samples)/HopLength columns.
func (e *Extractor) Coefficients(samples []float32, rate int) *mat.Dense {
	signal := make([]float64, len(samples))
	for i, s := range samples {
		signal[i] = float64(s)
	}

	power := powerSpectrogram(signal, e.cfg.NFFT, e.cfg.HopLength)
	_, frames := power.Dims()

	mel := mat.NewDense(e.cfg.NMels, frames, nil)
	mel.Mul(e.filterBank(rate), power)
	powerToDB(mel, e.cfg.TopDB)

	out := mat.NewDense(e.cfg.Coefficients, frames, nil)
	out.Mul(e.dct, mel)
	return out
}

func (e *Extractor) filterBank(rate int) *mat.Dense {
	e.mtx.Lock()
	defer e.mtx.Unlock()

	if bank, ok := e.banks[rate]; ok {
		return bank
	}

	bank := melFilterBank(rate, e.cfg.NFFT, e.cfg.NMels, e.cfg.FMin, e.cfg.FMax, e.cfg.MelScale)
	e.banks[rate] = bank
	return bank
}
