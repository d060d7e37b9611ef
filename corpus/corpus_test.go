// SPDX-License-Identifier: EPL-2.0

package corpus

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/ik5/audfeat/cache"
	"github.com/ik5/audfeat/feature"
	"github.com/ik5/audfeat/formats"
	"github.com/ik5/audfeat/formats/wav"
)

var errBadFile = errors.New("bad file")

// fakeExtractor returns a 2x3 matrix filled with the file size, or
// errBadFile for files whose name starts with "bad".
type fakeExtractor struct {
	mu    sync.Mutex
	calls []string
}

func (f *fakeExtractor) Shape() (int, int) { return 2, 3 }

func (f *fakeExtractor) Extract(path string) (*mat.Dense, error) {
	f.mu.Lock()
	f.calls = append(f.calls, filepath.Base(path))
	f.mu.Unlock()

	if strings.HasPrefix(filepath.Base(path), "bad") {
		return nil, errBadFile
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	data := make([]float64, 6)
	for i := range data {
		data[i] = float64(info.Size())
	}
	return mat.NewDense(2, 3, data), nil
}

// tree creates root/<label>/<file> with content of the given length.
func tree(t *testing.T, layout map[string][]string) string {
	t.Helper()

	root := t.TempDir()
	for label, files := range layout {
		dir := filepath.Join(root, label)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
		for i, f := range files {
			if err := os.WriteFile(filepath.Join(dir, f), bytes.Repeat([]byte{'x'}, i+1), 0o600); err != nil {
				t.Fatal(err)
			}
		}
	}
	return root
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newStore(t *testing.T) *cache.Local {
	t.Helper()

	s, err := cache.NewLocal(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestTransform_WritesLabelsAndManifest(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	root := tree(t, map[string][]string{
		"yes": {"a.wav", "b.wav", "c.wav"},
		"no":  {"a.wav", "b.wav"},
	})
	if err := os.Mkdir(filepath.Join(root, "yes", "nested"), 0o755); err != nil {
		t.Fatal(err)
	}
	store := newStore(t)

	report, err := New(&fakeExtractor{}, store, WithLogger(quietLogger())).Transform(ctx, root)
	if err != nil {
		t.Fatal(err)
	}

	if len(report.Labels) != 2 || report.Files() != 5 {
		t.Fatalf("report = %+v", report)
	}
	if report.Labels[0].Label != "no" || report.Labels[1].Label != "yes" {
		t.Fatalf("labels out of listing order: %+v", report.Labels)
	}

	yes, err := cache.ReadLabel(ctx, store, "yes")
	if err != nil {
		t.Fatal(err)
	}
	if yes.Shape != [3]int{3, 2, 3} {
		t.Fatalf("yes shape = %v", yes.Shape)
	}
	ms, _ := yes.Matrices()
	for i, m := range ms {
		if m.At(0, 0) != float64(i+1) {
			t.Errorf("yes[%d] came from the wrong file", i)
		}
	}

	man, err := cache.ReadManifest(ctx, store)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(man.Names(), []string{"no", "yes"}) || man.Shape != [2]int{2, 3} {
		t.Fatalf("manifest = %+v", man)
	}
	if man.Labels[1].Key != "yes.msgpack" || man.Labels[1].Files != 3 {
		t.Fatalf("manifest yes entry = %+v", man.Labels[1])
	}
}

func TestTransform_AbortOnError(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	root := tree(t, map[string][]string{
		"a": {"one.wav"},
		"b": {"ok.wav", "bad.wav", "zzz.wav"},
	})
	store := newStore(t)
	ext := &fakeExtractor{}

	_, err := New(ext, store, WithLogger(quietLogger())).Transform(ctx, root)
	if !errors.Is(err, errBadFile) {
		t.Fatalf("expected errBadFile, got %v", err)
	}

	if ok, _ := store.Exists(ctx, "a.msgpack"); !ok {
		t.Error("label before the failure should be cached")
	}
	if ok, _ := store.Exists(ctx, "b.msgpack"); ok {
		t.Error("failed label must not be written")
	}
	if ok, _ := cache.HasManifest(ctx, store); ok {
		t.Error("manifest written for an aborted run")
	}
	if slices.Contains(ext.calls, "zzz.wav") {
		t.Error("extraction continued after the failure")
	}
}

func TestTransform_AbortedRerunDropsOldManifest(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	root := tree(t, map[string][]string{
		"a": {"1.wav", "2.wav"},
		"b": {"1.wav", "2.wav"},
	})
	store := newStore(t)
	tr := New(&fakeExtractor{}, store, WithLogger(quietLogger()))

	if _, err := tr.Transform(ctx, root); err != nil {
		t.Fatal(err)
	}
	if ok, _ := cache.HasManifest(ctx, store); !ok {
		t.Fatal("first run wrote no manifest")
	}

	// a grows to 5 files and b gains an undecodable one
	for _, f := range []string{"3.wav", "4.wav", "5.wav"} {
		if err := os.WriteFile(filepath.Join(root, "a", f), []byte("x"), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(root, "b", "bad.wav"), []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := tr.Transform(ctx, root); !errors.Is(err, errBadFile) {
		t.Fatalf("expected errBadFile, got %v", err)
	}

	a, err := cache.ReadLabel(ctx, store, "a")
	if err != nil {
		t.Fatal(err)
	}
	if a.Len() != 5 {
		t.Fatalf("a holds %d rows, want the rewritten 5", a.Len())
	}
	if ok, _ := cache.HasManifest(ctx, store); ok {
		t.Fatal("manifest from the first run survived the aborted rerun")
	}
}

func TestTransform_SkipAndLog(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	root := tree(t, map[string][]string{
		"a": {"bad1.wav", "good.wav", "bad2.wav"},
	})
	store := newStore(t)

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	report, err := New(&fakeExtractor{}, store, WithPolicy(SkipAndLog), WithLogger(logger)).Transform(ctx, root)
	if err != nil {
		t.Fatal(err)
	}

	lr := report.Labels[0]
	if lr.Files != 1 || len(lr.Skipped) != 2 {
		t.Fatalf("label report = %+v", lr)
	}
	if !errors.Is(lr.Skipped[0], errBadFile) || filepath.Base(lr.Skipped[0].Path) != "bad1.wav" {
		t.Fatalf("skipped[0] = %v", lr.Skipped[0])
	}
	if strings.Count(logs.String(), "level=WARN") != 2 {
		t.Errorf("expected two WARN lines, got:\n%s", logs.String())
	}

	man, err := cache.ReadManifest(ctx, store)
	if err != nil {
		t.Fatal(err)
	}
	if man.Labels[0].Skipped != 2 || man.Labels[0].Files != 1 {
		t.Fatalf("manifest entry = %+v", man.Labels[0])
	}
}

func TestTransform_EmptyLabel(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	root := tree(t, map[string][]string{"silence": nil})
	store := newStore(t)

	if _, err := New(&fakeExtractor{}, store, WithLogger(quietLogger())).Transform(ctx, root); err != nil {
		t.Fatal(err)
	}
	la, err := cache.ReadLabel(ctx, store, "silence")
	if err != nil {
		t.Fatal(err)
	}
	if la.Shape != [3]int{0, 2, 3} {
		t.Fatalf("shape = %v, want [0 2 3]", la.Shape)
	}
}

func TestTransform_StrayFileInRoot(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	root := tree(t, map[string][]string{"a": {"x.wav"}})
	if err := os.WriteFile(filepath.Join(root, "README"), []byte("hi"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := New(&fakeExtractor{}, newStore(t), WithLogger(quietLogger())).Transform(ctx, root); err == nil {
		t.Fatal("expected the stray file to fail as a label")
	}

	report, err := New(&fakeExtractor{}, newStore(t), WithLogger(quietLogger()), WithDirsOnly(true)).Transform(ctx, root)
	if err != nil {
		t.Fatal(err)
	}
	if len(report.Labels) != 1 {
		t.Fatalf("got %d labels, want 1", len(report.Labels))
	}
}

func TestTransform_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	root := tree(t, map[string][]string{"a": {"x.wav"}})
	_, err := New(&fakeExtractor{}, newStore(t), WithLogger(quietLogger())).Transform(ctx, root)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestTransform_MissingRoot(t *testing.T) {
	t.Parallel()

	_, err := New(&fakeExtractor{}, newStore(t)).Transform(context.Background(), filepath.Join(t.TempDir(), "nope"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected os.ErrNotExist, got %v", err)
	}
}

type recordingProgress struct {
	mu     sync.Mutex
	events []string
}

func (p *recordingProgress) Begin(label string, total int) Tracker {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, "begin "+label)
	return &recordingTracker{p: p, label: label}
}

type recordingTracker struct {
	p     *recordingProgress
	label string
	n     int
}

func (t *recordingTracker) Increment() { t.n++ }

func (t *recordingTracker) Done(err error) {
	t.p.mu.Lock()
	defer t.p.mu.Unlock()
	status := "ok"
	if err != nil {
		status = "err"
	}
	t.p.events = append(t.p.events, "done "+t.label+" "+strings.Repeat("+", t.n)+" "+status)
}

func TestTransform_Progress(t *testing.T) {
	t.Parallel()

	root := tree(t, map[string][]string{
		"a": {"1.wav", "2.wav"},
		"b": {"bad.wav"},
	})
	prog := &recordingProgress{}

	_, err := New(&fakeExtractor{}, newStore(t), WithProgress(prog), WithLogger(quietLogger())).Transform(context.Background(), root)
	if err == nil {
		t.Fatal("expected failure on bad.wav")
	}

	want := []string{"begin a", "done a ++ ok", "begin b", "done b + err"}
	if !slices.Equal(prog.events, want) {
		t.Fatalf("events = %q, want %q", prog.events, want)
	}
}

func TestTransform_IdempotentWithRealAudio(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	root := t.TempDir()
	for _, label := range []string{"up", "down"} {
		dir := filepath.Join(root, label)
		if err := os.Mkdir(dir, 0o755); err != nil {
			t.Fatal(err)
		}
		for i := range 2 {
			samples := make([]float32, 4000*(i+1))
			for j := range samples {
				samples[j] = float32(0.3 * math.Sin(float64(j)*0.05*float64(i+1)))
			}
			f, err := os.Create(filepath.Join(dir, label+string(rune('0'+i))+".wav"))
			if err != nil {
				t.Fatal(err)
			}
			if err := wav.WriteWAV16(f, 16000, 1, samples); err != nil {
				t.Fatal(err)
			}
			f.Close()
		}
	}

	ext, err := feature.New(feature.DefaultConfig(), formats.NewRegistry())
	if err != nil {
		t.Fatal(err)
	}
	cacheDir := t.TempDir()
	store, err := cache.NewLocal(cacheDir)
	if err != nil {
		t.Fatal(err)
	}
	tr := New(ext, store, WithProgress(NopProgress{}), WithLogger(quietLogger()))

	snapshot := func() map[string][]byte {
		out := map[string][]byte{}
		for _, name := range []string{"up.msgpack", "down.msgpack", cache.ManifestKey} {
			data, err := os.ReadFile(filepath.Join(cacheDir, name))
			if err != nil {
				t.Fatal(err)
			}
			out[name] = data
		}
		return out
	}

	if _, err := tr.Transform(ctx, root); err != nil {
		t.Fatal(err)
	}
	first := snapshot()
	if _, err := tr.Transform(ctx, root); err != nil {
		t.Fatal(err)
	}
	second := snapshot()

	for name := range first {
		if !bytes.Equal(first[name], second[name]) {
			t.Errorf("%s changed between identical runs", name)
		}
	}

	la, err := cache.ReadLabel(ctx, store, "up")
	if err != nil {
		t.Fatal(err)
	}
	if la.Shape != [3]int{2, 20, 20} {
		t.Fatalf("up shape = %v", la.Shape)
	}
}

func TestParsePolicy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want Policy
		ok   bool
	}{
		{"", AbortOnError, true},
		{"abort", AbortOnError, true},
		{" Skip ", SkipAndLog, true},
		{"retry", AbortOnError, false},
	}

	for _, tt := range tests {
		got, err := ParsePolicy(tt.in)
		if got != tt.want || (err == nil) != tt.ok {
			t.Errorf("ParsePolicy(%q) = (%v, %v)", tt.in, got, err)
		}
		if !tt.ok && !errors.Is(err, ErrUnknownPolicy) {
			t.Errorf("ParsePolicy(%q): expected ErrUnknownPolicy", tt.in)
		}
	}

	if SkipAndLog.String() != "skip" || AbortOnError.String() != "abort" {
		t.Error("unexpected policy names")
	}
}
