// SPDX-License-Identifier: EPL-2.0

package corpus

import (
	"log/slog"
	"time"
)

// Progress receives per-label progress from a Transformer.
type Progress interface {
	// Begin is called before the first file of a label.
	Begin(label string, total int) Tracker
}

// Tracker follows a single label.
type Tracker interface {
	// Increment is called once per file, extracted or skipped.
	Increment()
	// Done is called exactly once, with the error that ended the label or nil.
	Done(err error)
}

// LogProgress reports label start and completion through slog.
type LogProgress struct {
	Logger *slog.Logger
}

func (p LogProgress) Begin(label string, total int) Tracker {
	l := p.Logger
	if l == nil {
		l = slog.Default()
	}
	l.Info("transforming label", slog.String("label", label), slog.Int("files", total))
	return &logTracker{logger: l, label: label, total: total, start: time.Now()}
}

type logTracker struct {
	logger *slog.Logger
	label  string
	total  int
	done   int
	start  time.Time
}

func (t *logTracker) Increment() { t.done++ }

func (t *logTracker) Done(err error) {
	attrs := []any{
		slog.String("label", t.label),
		slog.Int("processed", t.done),
		slog.Int("files", t.total),
		slog.Duration("elapsed", time.Since(t.start)),
	}
	if err != nil {
		t.logger.Error("label failed", append(attrs, slog.Any("error", err))...)
		return
	}
	t.logger.Info("label done", attrs...)
}

// NopProgress discards all progress.
type NopProgress struct{}

func (NopProgress) Begin(string, int) Tracker { return nopTracker{} }

type nopTracker struct{}

func (nopTracker) Increment() {}
func (nopTracker) Done(error) {}
