// SPDX-License-Identifier: EPL-2.0

package commands

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/ik5/audfeat/dataset"
	"github.com/ik5/audfeat/formats/wav"
)

func writeTone(t *testing.T, path string, frames int) {
	t.Helper()

	samples := make([]float32, frames)
	for i := range samples {
		samples[i] = float32(0.3 * math.Sin(2*math.Pi*440*float64(i)/16000))
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := wav.WriteWAV16(f, 16000, 1, samples); err != nil {
		t.Fatal(err)
	}
}

func run(t *testing.T, args ...string) string {
	t.Helper()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("audfeat %v: %v", args, err)
	}
	return out.String()
}

// The commands share package level flag state, so this test runs them in
// sequence instead of in parallel.
func TestCommands_EndToEnd(t *testing.T) {
	root := t.TempDir()
	data := filepath.Join(root, "data")
	cache := filepath.Join(root, "cache")
	for label, n := range map[string]int{"yes": 3, "no": 2} {
		if err := os.MkdirAll(filepath.Join(data, label), 0o755); err != nil {
			t.Fatal(err)
		}
		for i := range n {
			writeTone(t, filepath.Join(data, label, fmt.Sprintf("%d.wav", i)), 3000*(i+1))
		}
	}

	if got, want := run(t, "labels", "--data", data), "0\tno\n1\tyes\n"; got != want {
		t.Errorf("labels = %q, want %q", got, want)
	}

	got := run(t, "transform", "--data", data, "--cache", cache, "--no-progress", "--on-error", "skip")
	if want := "0\tno\t2 files\n1\tyes\t3 files\n"; got != want {
		t.Errorf("transform = %q, want %q", got, want)
	}
	if _, err := os.Stat(filepath.Join(cache, "manifest.yaml")); err != nil {
		t.Fatalf("manifest missing: %v", err)
	}

	if got, want := run(t, "labels", "--data", data, "--cache", cache, "--cached"), "0\tno\n1\tyes\n"; got != want {
		t.Errorf("labels --cached = %q, want %q", got, want)
	}

	out := filepath.Join(root, "split.msgpack")
	got = run(t, "split", "--data", data, "--cache", cache, "--ratio", "0.6", "--seed", "7", "--out", out)
	if want := "train 3\ntest  2\n"; got != want {
		t.Errorf("split = %q, want %q", got, want)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	split, err := dataset.ReadSplit(f)
	if err != nil {
		t.Fatalf("ReadSplit: %v", err)
	}
	if len(split.XTrain) != 3 || len(split.YTest) != 2 {
		t.Errorf("split file holds %d train, %d test", len(split.XTrain), len(split.YTest))
	}
	if r, c := split.XTrain[0].Dims(); r != 20 || c != 20 {
		t.Errorf("matrix dims = %dx%d, want 20x20", r, c)
	}
}

func TestCommands_BadPolicy(t *testing.T) {
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"transform", "--data", t.TempDir(), "--cache", t.TempDir(), "--no-progress", "--on-error", "retry"})
	if err := rootCmd.Execute(); err == nil {
		t.Fatal("expected an error for an unknown policy")
	}
}
