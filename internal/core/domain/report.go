package domain

import (
	"errors"
	"fmt"
	"time"
)

// SheetResult is the outcome of publishing one tab.
type SheetResult struct {
	Sheet string
	Rows  int
	Err   error

	// Skipped is set when an earlier failure aborted the run before this tab.
	Skipped bool
}

// RunReport summarises one pipeline run.
type RunReport struct {
	RunID     string
	Since     time.Time
	StartedAt time.Time
	EndedAt   time.Time

	// Fetched is the number of raw records returned by the provider.
	Fetched int

	// Normalized is the number of records that survived transformation.
	Normalized int

	// Skipped is the number of invalid records dropped when skipping is enabled.
	Skipped int

	// Missed is the number of missed inbound calls.
	Missed int

	// DryRun is set when publishing was skipped.
	DryRun bool

	// Subsets holds the classified calls, one per category.
	Subsets []Subset

	// Sheets holds one result per category in configuration order.
	Sheets []SheetResult
}

// Failed reports whether any tab failed to publish.
func (r *RunReport) Failed() bool {
	for _, s := range r.Sheets {
		if s.Err != nil {
			return true
		}
	}
	return false
}

// Err joins every per-sheet failure, or returns nil.
func (r *RunReport) Err() error {
	var errs []error
	for _, s := range r.Sheets {
		if s.Err != nil {
			errs = append(errs, fmt.Errorf("sheet %q: %w", s.Sheet, s.Err))
		}
	}
	return errors.Join(errs...)
}

// Duration is the wall time of the run.
func (r *RunReport) Duration() time.Duration {
	return r.EndedAt.Sub(r.StartedAt)
}
