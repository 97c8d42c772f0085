// Package tui provides a live terminal monitor for watch mode.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"time"

	"github.com/custodia-labs/missedcalls/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/missedcalls/internal/core/ports/driving"
)

// Ports aggregates what the monitor needs from the core.
type Ports struct {
	// Scheduler runs the pipeline. The monitor starts it.
	Scheduler driving.Scheduler

	// Results receives every run's outcome from the scheduler callback.
	Results <-chan messages.RunFinished

	// Interval is the time between runs, used for the countdown.
	Interval time.Duration

	// Target names the spreadsheet being published to. Optional.
	Target string
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Scheduler == nil {
		return ErrMissingScheduler
	}
	if p.Results == nil {
		return ErrMissingResults
	}
	if p.Interval <= 0 {
		return ErrInvalidInterval
	}
	return nil
}
