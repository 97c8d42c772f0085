package sheets

import (
	"fmt"
	"strconv"
	"strings"

	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/custodia-labs/missedcalls/internal/core/domain"
)

// TimestampLayout is how start and answer times are written to the sheet.
const TimestampLayout = "2006-01-02 15:04:05"

// Absent is written in place of a missing value.
const Absent = "none"

// UpdateTimeFormula renders the refresh time of a row.
const UpdateTimeFormula = `=TEXT(NOW(), "YY-MM-DD HH:MM:SS")`

// Header is the first row of every dashboard tab.
var Header = []string{
	"id", "start_time", "answered_time", "missed", "to", "from",
	"line", "duration", "tags", "direction",
	"Update Time", "Time Since Missed",
}

// Table widths.
const (
	HeaderWidth = 12
	DataWidth   = 10
)

// Table is the full content of one tab.
type Table struct {
	Header      []any
	Rows        [][]any
	UpdateTime  [][]any
	SinceMissed [][]any
}

// BuildTable lays out calls for publishing. It does not touch the network.
func BuildTable(calls []domain.NormalizedCall) *Table {
	t := &Table{
		Header:      make([]any, len(Header)),
		Rows:        make([][]any, 0, len(calls)),
		UpdateTime:  make([][]any, 0, len(calls)),
		SinceMissed: make([][]any, 0, len(calls)),
	}
	for i, h := range Header {
		t.Header[i] = h
	}

	for i, c := range calls {
		row := i + 2
		t.Rows = append(t.Rows, Row(c))
		t.UpdateTime = append(t.UpdateTime, []any{UpdateTimeFormula})
		t.SinceMissed = append(t.SinceMissed, []any{fmt.Sprintf("=K%d-B%d", row, row)})
	}
	return t
}

// Row converts one call into the A:J cells.
func Row(c domain.NormalizedCall) []any {
	answered := Absent
	if c.AnsweredTime != nil {
		answered = c.AnsweredTime.Format(TimestampLayout)
	}
	missed := "no"
	if c.Missed {
		missed = "yes"
	}
	tags := Absent
	if c.Tags != nil {
		tags = *c.Tags
	}

	return []any{
		c.ID,
		c.StartTime.Format(TimestampLayout),
		answered,
		missed,
		c.To,
		c.From,
		c.Line,
		c.Duration,
		tags,
		c.Direction,
	}
}

// Validate checks every row fits its target range.
func (t *Table) Validate() error {
	if len(t.Header) != HeaderWidth {
		return fmt.Errorf("%w: header has %d columns, range A1:L1 needs %d",
			domain.ErrRangeMismatch, len(t.Header), HeaderWidth)
	}
	for i, row := range t.Rows {
		if len(row) != DataWidth {
			return fmt.Errorf("%w: row %d has %d columns, range A:J needs %d",
				domain.ErrRangeMismatch, i+2, len(row), DataWidth)
		}
	}
	if len(t.UpdateTime) != len(t.Rows) || len(t.SinceMissed) != len(t.Rows) {
		return fmt.Errorf("%w: formula columns have %d and %d rows, data has %d",
			domain.ErrRangeMismatch, len(t.UpdateTime), len(t.SinceMissed), len(t.Rows))
	}
	return nil
}

// ValueRanges returns the batch update payload for the named tab.
// With no rows only the header range is returned.
func (t *Table) ValueRanges(sheet string) []*sheetsapi.ValueRange {
	ranges := []*sheetsapi.ValueRange{
		valueRange(A1(sheet, "A1:L1"), [][]any{t.Header}),
	}
	n := len(t.Rows)
	if n == 0 {
		return ranges
	}

	last := strconv.Itoa(n + 1)
	return append(ranges,
		valueRange(A1(sheet, "A2:J"+last), t.Rows),
		valueRange(A1(sheet, "K2:K"+last), t.UpdateTime),
		valueRange(A1(sheet, "L2:L"+last), t.SinceMissed),
	)
}

func valueRange(rng string, values [][]any) *sheetsapi.ValueRange {
	return &sheetsapi.ValueRange{
		Range:          rng,
		MajorDimension: "ROWS",
		Values:         values,
	}
}

// QuoteSheet quotes a tab name for use in A1 notation.
func QuoteSheet(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

// A1 prefixes a cell range with a quoted tab name.
func A1(sheet, cells string) string {
	return QuoteSheet(sheet) + "!" + cells
}
