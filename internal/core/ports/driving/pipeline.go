package driving

import (
	"context"
	"time"

	"github.com/custodia-labs/missedcalls/internal/core/domain"
)

// Pipeline runs the fetch, transform, classify and publish sequence.
type Pipeline interface {
	// Run executes one pass. The returned report is non-nil whenever fetching
	// succeeded, even if some sheets failed; the error then joins those failures.
	Run(ctx context.Context, opts RunOptions) (*domain.RunReport, error)

	// Categories returns the configured category mappings.
	Categories() []domain.Category
}

// RunOptions adjusts a single run.
type RunOptions struct {
	// Since overrides the configured start time when non-zero.
	Since time.Time

	// DryRun classifies calls without touching the spreadsheet.
	DryRun bool
}
