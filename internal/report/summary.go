// Package report renders run results for the terminal.
package report

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/JonMunkholm/recordcheck/internal/core"
)

// Colors
var (
	colorPrimary = lipgloss.Color("#7C3AED")
	colorSuccess = lipgloss.Color("#10B981")
	colorError   = lipgloss.Color("#EF4444")
	colorMuted   = lipgloss.Color("#6B7280")
)

// styles are bound to a renderer so color support follows the destination.
type styles struct {
	title   lipgloss.Style
	valid   lipgloss.Style
	invalid lipgloss.Style
	muted   lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		title:   r.NewStyle().Bold(true).Foreground(colorPrimary),
		valid:   r.NewStyle().Foreground(colorSuccess),
		invalid: r.NewStyle().Foreground(colorError),
		muted:   r.NewStyle().Foreground(colorMuted),
	}
}

// Summary describes a finished run for display.
type Summary struct {
	Source      string
	Destination string
	Result      *core.BatchResult
}

// WriteSummary prints the totals, the per-category breakdown in evaluation
// order and the phase timings.
func WriteSummary(w io.Writer, s Summary) error {
	st := newStyles(w)
	res := s.Result
	t := res.Tally

	var b []byte
	line := func(format string, args ...any) {
		b = fmt.Appendf(b, format+"\n", args...)
	}

	line("%s", st.title.Render("Processed "+s.Source))
	if s.Destination != "" {
		line("%s", st.muted.Render("Results written to "+s.Destination))
	}
	line("%s", st.muted.Render("Run "+res.RunID))
	line("")
	line("%-26s %d", "Total records:", t.Total)
	line("%-26s %s", "Valid records:", st.valid.Render(fmt.Sprint(t.Valid)))
	line("%-26s %s", "Invalid records:", st.invalid.Render(fmt.Sprint(t.Invalid())))
	line("")
	line("%s", st.title.Render("Invalid records by error type"))
	for _, cc := range t.Breakdown() {
		line("  %-24s %d", cc.Label+":", cc.Count)
	}
	line("")
	line("%s", st.muted.Render(fmt.Sprintf("Sort: %s  validate %s  sort %s  write %s",
		res.SortKey, round(res.Timings.Validate), round(res.Timings.Sort), round(res.Timings.Write))))

	_, err := w.Write(b)
	return err
}

func round(d time.Duration) time.Duration {
	if d > time.Millisecond {
		return d.Round(time.Millisecond)
	}
	return d.Round(time.Microsecond)
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
