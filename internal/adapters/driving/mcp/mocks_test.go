package mcp

import (
	"context"
	"time"

	"github.com/custodia-labs/missedcalls/internal/core/domain"
	"github.com/custodia-labs/missedcalls/internal/core/ports/driving"
)

// mockPipeline is a mock implementation of driving.Pipeline.
type mockPipeline struct {
	report *domain.RunReport
	err    error
	runs   []driving.RunOptions
}

func (m *mockPipeline) Run(_ context.Context, opts driving.RunOptions) (*domain.RunReport, error) {
	m.runs = append(m.runs, opts)
	return m.report, m.err
}

func (m *mockPipeline) Categories() []domain.Category {
	return domain.DefaultCategories()
}

func strPtr(s string) *string {
	return &s
}

func missedCall(id int64, line string, start time.Time) domain.NormalizedCall {
	return domain.NormalizedCall{
		ID:        id,
		StartTime: start,
		Missed:    true,
		To:        "33123456789",
		From:      "447700900123",
		Line:      line,
		Direction: domain.DirectionInbound,
	}
}

func sampleReport() *domain.RunReport {
	start := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	first := missedCall(1, "Sales FR", start)
	first.Tags = strPtr("VIP")
	second := missedCall(2, "Support", start.Add(time.Hour))
	third := missedCall(3, "Sales UK", start.Add(2*time.Hour))

	categories := domain.DefaultCategories()
	return &domain.RunReport{
		RunID:   "run-1",
		Since:   domain.DefaultStart,
		Fetched: 10,
		Missed:  3,
		Subsets: []domain.Subset{
			{Category: categories[0], Calls: []domain.NormalizedCall{first, second, third}},
			{Category: categories[1], Calls: []domain.NormalizedCall{first, third}},
		},
		Sheets: []domain.SheetResult{
			{Sheet: "missed_all", Rows: 3},
			{Sheet: "missed_sales", Rows: 2},
		},
	}
}
