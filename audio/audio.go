// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

type Source interface {
	// SampleRate of the PCM stream in Hz.
	SampleRate() int
	// Channels count (e.g., 1=mono, 2=stereo).
	Channels() int
	// ReadSamples fills dst with interleaved float32 samples in [-1,1].
	// Returns number of float32 values written (not frames). When n == 0 with err == io.EOF, the stream is finished.
	ReadSamples(dst []float32) (n int, err error)

	BufSize() int

	// Close releases any resources.
	Close() error
}

// Decoder constructs a Source from an input reader.
type Decoder interface {
	Decode(r io.Reader) (Source, error)
}

// Registry maps file extensions (".wav", ".mp3", ...) to decoders.
type Registry struct {
	codecs map[string]Decoder

	mtx *sync.Mutex
}

func NewRegistry() *Registry {
	return &Registry{
		codecs: make(map[string]Decoder),
		mtx:    &sync.Mutex{},
	}
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// Register binds d to every extension given. Extensions are case
// insensitive and the leading dot is optional.
func (r *Registry) Register(d Decoder, exts ...string) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	for _, ext := range exts {
		r.codecs[normalizeExt(ext)] = d
	}
}

func (r *Registry) Get(ext string) (Decoder, bool) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	d, ok := r.codecs[normalizeExt(ext)]
	return d, ok
}

// Extensions lists the registered extensions in sorted order.
func (r *Registry) Extensions() []string {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	exts := make([]string, 0, len(r.codecs))
	for ext := range r.codecs {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// DecoderFor picks the decoder registered for the extension of path.
func (r *Registry) DecoderFor(path string) (Decoder, error) {
	ext := filepath.Ext(path)
	d, ok := r.Get(ext)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	return d, nil
}

// Open decodes the file at path. Closing the returned Source closes the file.
func (r *Registry) Open(path string) (Source, error) {
	d, err := r.DecoderFor(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	src, err := d.Decode(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("decoding %s: %w", filepath.Base(path), err)
	}

	return &fileSource{Source: src, f: f}, nil
}

// fileSource ties the lifetime of the open file to the decoded stream.
type fileSource struct {
	Source
	f *os.File
}

func (s *fileSource) Close() error {
	srcErr := s.Source.Close()
	fErr := s.f.Close()
	if srcErr != nil {
		return fmt.Errorf("%w", srcErr)
	}
	if fErr != nil {
		return fmt.Errorf("%w", fErr)
	}
	return nil
}
