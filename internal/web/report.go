package web

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/recordcheck/internal/core"
)

const pageStyle = `body{font-family:system-ui,sans-serif;margin:2rem;color:#1f2937}` +
	`table{border-collapse:collapse}td,th{padding:.25rem .75rem;border-bottom:1px solid #e5e7eb;text-align:left}` +
	`.valid{color:#059669}.invalid{color:#dc2626}.muted{color:#6b7280}`

// page wraps body in the shared document shell.
func page(title string, body func(b *strings.Builder)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString("<!DOCTYPE html><html><head><meta charset=\"utf-8\"><title>")
		b.WriteString(templ.EscapeString(title))
		b.WriteString("</title><style>")
		b.WriteString(pageStyle)
		b.WriteString("</style></head><body>")
		body(&b)
		b.WriteString("</body></html>")
		_, err := io.WriteString(w, b.String())
		return err
	})
}

// runReport renders a run summary with its per-category breakdown.
func runReport(s core.RunSummary) templ.Component {
	return page("Run "+s.RunID, func(b *strings.Builder) {
		fmt.Fprintf(b, "<h1>Run %s</h1>", templ.EscapeString(s.RunID))
		fmt.Fprintf(b, "<p class=\"muted\">Source %s, sorted by %s, finished %s</p>",
			templ.EscapeString(s.Source),
			templ.EscapeString(s.SortKey.String()),
			s.FinishedAt.Format(time.RFC3339))

		b.WriteString("<table>")
		fmt.Fprintf(b, "<tr><th>Total records</th><td>%d</td></tr>", s.Tally.Total)
		fmt.Fprintf(b, "<tr><th>Valid records</th><td class=\"valid\">%d</td></tr>", s.Tally.Valid)
		fmt.Fprintf(b, "<tr><th>Invalid records</th><td class=\"invalid\">%d</td></tr>", s.Tally.Invalid())
		b.WriteString("</table>")

		b.WriteString("<h2>Invalid records by error type</h2><table>")
		for _, cc := range s.Tally.Breakdown() {
			fmt.Fprintf(b, "<tr><td>%s</td><td>%d</td></tr>", templ.EscapeString(cc.Label), cc.Count)
		}
		b.WriteString("</table>")

		fmt.Fprintf(b, "<p class=\"muted\">validate %s, sort %s, write %s</p>",
			s.Timings.Validate, s.Timings.Sort, s.Timings.Write)
	})
}

// errorPage renders a user message for browser requests.
func errorPage(msg core.UserMessage) templ.Component {
	return page("Error "+msg.Code, func(b *strings.Builder) {
		fmt.Fprintf(b, "<h1 class=\"invalid\">%s</h1>", templ.EscapeString(msg.Message))
		if msg.Action != "" {
			fmt.Fprintf(b, "<p>%s</p>", templ.EscapeString(msg.Action))
		}
		fmt.Fprintf(b, "<p class=\"muted\">Code: %s</p>", templ.EscapeString(msg.Code))
	})
}
