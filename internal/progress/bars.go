// SPDX-License-Identifier: EPL-2.0

// Package progress renders corpus progress as terminal bars.
package progress

import (
	"io"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"github.com/ik5/audfeat/corpus"
)

// Bars draws one bar per label. Call Wait once the run is over.
type Bars struct {
	p *mpb.Progress
}

func New(w io.Writer) *Bars {
	return &Bars{p: mpb.New(mpb.WithOutput(w), mpb.WithWidth(64))}
}

func (b *Bars) Begin(label string, total int) corpus.Tracker {
	bar := b.p.AddBar(int64(total),
		mpb.PrependDecorators(
			decor.Name(label+": ", decor.WCSyncSpaceR),
			decor.CountersNoUnit("%d / %d"),
		),
		mpb.AppendDecorators(
			decor.Percentage(),
		),
	)
	return &tracker{bar: bar}
}

// Wait blocks until every bar has finished rendering.
func (b *Bars) Wait() { b.p.Wait() }

type tracker struct {
	bar *mpb.Bar
}

func (t *tracker) Increment() { t.bar.Increment() }

func (t *tracker) Done(err error) {
	if err != nil {
		t.bar.Abort(false)
		return
	}
	// completes the bar even when files were skipped or the label was empty
	t.bar.SetTotal(-1, true)
}

var _ corpus.Progress = (*Bars)(nil)
