package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"golang.org/x/term"

	"github.com/custodia-labs/missedcalls/internal/core/domain"
)

// timeLayout matches the timestamps written to the sheet.
const timeLayout = "2006-01-02 15:04:05"

// Colours shared with the dashboard's branding.
var (
	colourPrimary = lipgloss.Color("#7C3AED") // Purple
	colourMuted   = lipgloss.Color("#6C7086") // Medium gray
	colourSuccess = lipgloss.Color("#A6E3A1") // Green
	colourWarning = lipgloss.Color("#F9E2AF") // Yellow
	colourError   = lipgloss.Color("#F38BA8") // Red
	colourBorder  = lipgloss.Color("#45475A") // Border gray
)

// styles renders for one writer. Colour is dropped when the writer is not a terminal.
type styles struct {
	title   lipgloss.Style
	muted   lipgloss.Style
	success lipgloss.Style
	warning lipgloss.Style
	failure lipgloss.Style
	header  lipgloss.Style
	cell    lipgloss.Style
	border  lipgloss.Style
}

func newStyles(w io.Writer) *styles {
	r := lipgloss.NewRenderer(w)
	return &styles{
		title:   r.NewStyle().Bold(true).Foreground(colourPrimary),
		muted:   r.NewStyle().Foreground(colourMuted),
		success: r.NewStyle().Foreground(colourSuccess),
		warning: r.NewStyle().Foreground(colourWarning),
		failure: r.NewStyle().Foreground(colourError),
		header:  r.NewStyle().Bold(true).Padding(0, 1),
		cell:    r.NewStyle().Padding(0, 1),
		border:  r.NewStyle().Foreground(colourBorder),
	}
}

func (s *styles) newTable(w io.Writer, headers []string, rows [][]string) *table.Table {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(s.border).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return s.header
			}
			return s.cell
		})
	if width := terminalWidth(w); width > 0 {
		t.Width(width)
	}
	return t
}

// terminalWidth returns the width of w when it is a terminal, else 0.
func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return width
}

func writeln(w io.Writer, s string) {
	_, _ = fmt.Fprintln(w, s)
}

// renderReport prints the run summary and one line per tab.
func renderReport(w io.Writer, report *domain.RunReport) {
	st := newStyles(w)

	title := "Run " + report.RunID
	switch {
	case report.DryRun:
		title += " (dry run)"
	case report.Failed():
		title += " (some tabs failed)"
	}
	writeln(w, st.title.Render(title))
	writeln(w, st.muted.Render(fmt.Sprintf(
		"Fetched %s calls since %s in %s: %s normalised, %s skipped, %s missed inbound",
		humanize.Comma(int64(report.Fetched)),
		report.Since.Format(timeLayout),
		report.Duration().Round(time.Millisecond),
		humanize.Comma(int64(report.Normalized)),
		humanize.Comma(int64(report.Skipped)),
		humanize.Comma(int64(report.Missed)),
	)))

	if report.DryRun {
		return
	}

	rows := make([][]string, 0, len(report.Sheets))
	for _, s := range report.Sheets {
		rows = append(rows, []string{s.Sheet, strconv.Itoa(s.Rows), sheetStatus(st, s)})
	}
	writeln(w, st.newTable(w, []string{"SHEET", "ROWS", "STATUS"}, rows).Render())
}

func sheetStatus(st *styles, s domain.SheetResult) string {
	switch {
	case s.Skipped:
		return st.warning.Render("skipped")
	case s.Err != nil:
		return st.failure.Render("failed: " + s.Err.Error())
	default:
		return st.success.Render("published")
	}
}

// renderSubsets prints every classified call, one table per tab.
func renderSubsets(w io.Writer, report *domain.RunReport) {
	st := newStyles(w)
	now := report.EndedAt
	if now.IsZero() {
		now = time.Now()
	}

	for _, subset := range report.Subsets {
		writeln(w, st.title.Render(fmt.Sprintf("%s (%s)",
			subset.Category.Sheet, pluralCalls(len(subset.Calls)))))
		if len(subset.Calls) == 0 {
			writeln(w, st.muted.Render("no missed calls"))
			continue
		}

		rows := make([][]string, 0, len(subset.Calls))
		for _, c := range subset.Calls {
			tags := "none"
			if c.Tags != nil {
				tags = *c.Tags
			}
			rows = append(rows, []string{
				strconv.FormatInt(c.ID, 10),
				c.StartTime.Format(timeLayout),
				humanize.RelTime(c.StartTime, now, "ago", "from now"),
				c.Line,
				c.From,
				c.To,
				tags,
			})
		}
		writeln(w, st.newTable(w, []string{"ID", "START", "MISSED", "LINE", "FROM", "TO", "TAGS"}, rows).Render())
	}
}

func pluralCalls(n int) string {
	if n == 1 {
		return "1 call"
	}
	return humanize.Comma(int64(n)) + " calls"
}
