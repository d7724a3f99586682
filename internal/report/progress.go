package report

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/progress"

	"github.com/JonMunkholm/recordcheck/internal/core"
)

// Bar draws a single-line progress bar, redrawing in place with a carriage
// return. It is not safe for concurrent use; the processor reports progress
// from one goroutine.
type Bar struct {
	w    io.Writer
	bar  progress.Model
	last int
	done bool
}

// NewBar creates a bar writing to w.
func NewBar(w io.Writer) *Bar {
	return &Bar{
		w:    w,
		bar:  progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		last: -1,
	}
}

// Update redraws the bar when the whole-number percentage changes.
func (b *Bar) Update(p core.Progress) {
	pct := p.Percent()
	if pct == b.last || b.done {
		return
	}
	b.last = pct
	fmt.Fprintf(b.w, "\r%s", b.bar.ViewAs(float64(pct)/100))
	if pct >= 100 {
		b.Finish()
	}
}

// Callback adapts the bar to core.WithProgress.
func (b *Bar) Callback() core.ProgressCallback {
	return b.Update
}

// Finish ends the bar line. It is safe to call more than once.
func (b *Bar) Finish() {
	if b.done {
		return
	}
	b.done = true
	if b.last >= 0 {
		fmt.Fprintln(b.w)
	}
}
