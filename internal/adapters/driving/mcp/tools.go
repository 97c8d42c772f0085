package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/missedcalls/internal/core/domain"
	"github.com/custodia-labs/missedcalls/internal/core/ports/driving"
)

// timeLayout matches the timestamps written to the sheet.
const timeLayout = "2006-01-02 15:04:05"

// defaultLimit caps the calls returned per category.
const defaultLimit = 50

// MissedCallsInput is the input schema for the missed_calls tool.
type MissedCallsInput struct {
	Since string `json:"since,omitempty" jsonschema:"only calls from this time, RFC 3339 or YYYY-MM-DD (default the configured start)"`
	Sheet string `json:"sheet,omitempty" jsonschema:"only this category's tab, e.g. missed_sales"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum calls per category, newest first (default 50)"`
}

// MissedCallsOutput is the output schema for the missed_calls tool.
type MissedCallsOutput struct {
	RunID      string           `json:"run_id"`
	Since      string           `json:"since"`
	Fetched    int              `json:"fetched"`
	Missed     int              `json:"missed"`
	Categories []CategoryOutput `json:"categories"`
}

// CategoryOutput is one category's missed calls.
type CategoryOutput struct {
	Sheet string       `json:"sheet"`
	Count int          `json:"count"`
	Calls []CallOutput `json:"calls"`
}

// CallOutput is a single missed call.
type CallOutput struct {
	ID        int64  `json:"id"`
	StartTime string `json:"start_time"`
	Line      string `json:"line"`
	From      string `json:"from"`
	To        string `json:"to"`
	Tags      string `json:"tags,omitempty"`
}

// PublishInput is the input schema for the publish tool.
type PublishInput struct {
	Since string `json:"since,omitempty" jsonschema:"publish calls from this time, RFC 3339 or YYYY-MM-DD (default the configured start)"`
}

// PublishOutput is the output schema for the publish tool.
type PublishOutput struct {
	RunID  string        `json:"run_id"`
	Missed int           `json:"missed"`
	Failed bool          `json:"failed"`
	Sheets []SheetOutput `json:"sheets"`
}

// SheetOutput is one tab's publish result.
type SheetOutput struct {
	Sheet  string `json:"sheet"`
	Rows   int    `json:"rows"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "missed_calls",
		Description: "Fetch calls from Aircall and list the missed inbound calls per dashboard category, without writing anything",
	}, s.handleMissedCalls)

	if s.ports.Publish {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "publish",
			Description: "Rewrite every category tab of the missed calls dashboard with fresh data",
		}, s.handlePublish)
	}
}

// handleMissedCalls handles the missed_calls tool invocation.
func (s *Server) handleMissedCalls(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input MissedCallsInput,
) (*mcp.CallToolResult, MissedCallsOutput, error) {
	opts, err := runOptions(input.Since, true)
	if err != nil {
		return nil, MissedCallsOutput{}, err
	}
	if input.Sheet != "" && !hasCategory(s.ports.Pipeline.Categories(), input.Sheet) {
		return nil, MissedCallsOutput{}, fmt.Errorf("%w: unknown sheet %q", domain.ErrInvalidInput, input.Sheet)
	}

	report, err := s.ports.Pipeline.Run(ctx, opts)
	if err != nil {
		return nil, MissedCallsOutput{}, err
	}

	limit := input.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	output := MissedCallsOutput{
		RunID:      report.RunID,
		Since:      report.Since.Format(timeLayout),
		Fetched:    report.Fetched,
		Missed:     report.Missed,
		Categories: make([]CategoryOutput, 0, len(report.Subsets)),
	}
	for _, subset := range report.Subsets {
		if input.Sheet != "" && subset.Category.Sheet != input.Sheet {
			continue
		}
		output.Categories = append(output.Categories, CategoryOutput{
			Sheet: subset.Category.Sheet,
			Count: len(subset.Calls),
			Calls: newestCalls(subset.Calls, limit),
		})
	}

	return nil, output, nil
}

// handlePublish handles the publish tool invocation. Per-tab failures are
// reported in the output rather than failing the call.
func (s *Server) handlePublish(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input PublishInput,
) (*mcp.CallToolResult, PublishOutput, error) {
	opts, err := runOptions(input.Since, false)
	if err != nil {
		return nil, PublishOutput{}, err
	}

	report, err := s.ports.Pipeline.Run(ctx, opts)
	if report == nil {
		return nil, PublishOutput{}, err
	}

	output := PublishOutput{
		RunID:  report.RunID,
		Missed: report.Missed,
		Failed: report.Failed(),
		Sheets: make([]SheetOutput, len(report.Sheets)),
	}
	for i, sheet := range report.Sheets {
		output.Sheets[i] = SheetOutput{Sheet: sheet.Sheet, Rows: sheet.Rows, Status: "published"}
		switch {
		case sheet.Skipped:
			output.Sheets[i].Status = "skipped"
		case sheet.Err != nil:
			output.Sheets[i].Status = "failed"
			output.Sheets[i].Error = sheet.Err.Error()
		}
	}

	return nil, output, nil
}

func runOptions(since string, dryRun bool) (driving.RunOptions, error) {
	opts := driving.RunOptions{DryRun: dryRun}
	if since == "" {
		return opts, nil
	}
	t, err := domain.ParseStart(since)
	if err != nil {
		return opts, fmt.Errorf("since: %w", err)
	}
	opts.Since = t
	return opts, nil
}

func hasCategory(categories []domain.Category, sheet string) bool {
	for _, c := range categories {
		if c.Sheet == sheet {
			return true
		}
	}
	return false
}

// newestCalls returns up to limit calls, newest first. Calls arrive oldest first.
func newestCalls(calls []domain.NormalizedCall, limit int) []CallOutput {
	n := len(calls)
	if n > limit {
		n = limit
	}
	out := make([]CallOutput, 0, n)
	for i := len(calls) - 1; i >= 0 && len(out) < n; i-- {
		c := calls[i]
		call := CallOutput{
			ID:        c.ID,
			StartTime: c.StartTime.Format(timeLayout),
			Line:      c.Line,
			From:      c.From,
			To:        c.To,
		}
		if c.Tags != nil {
			call.Tags = *c.Tags
		}
		out = append(out, call)
	}
	return out
}
