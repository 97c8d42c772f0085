// Package messages defines Bubbletea message types for the TUI.
// Messages represent events that flow through the Elm architecture.
package messages

import (
	"time"

	"github.com/custodia-labs/missedcalls/internal/core/domain"
)

// RunFinished carries one scheduled run's outcome. Report may be nil when
// the run failed before fetching completed.
type RunFinished struct {
	Report *domain.RunReport
	Err    error
}

// SchedulerStopped is sent when the scheduler returns.
type SchedulerStopped struct {
	Err error
}

// Tick drives the countdown to the next run.
type Tick struct {
	Time time.Time
}
