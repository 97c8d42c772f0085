package tui

import "errors"

// ErrMissingScheduler is returned when the scheduler is not provided.
var ErrMissingScheduler = errors.New("tui: scheduler is required")

// ErrMissingResults is returned when the results channel is not provided.
var ErrMissingResults = errors.New("tui: results channel is required")

// ErrInvalidInterval is returned when the run interval is not positive.
var ErrInvalidInterval = errors.New("tui: interval must be positive")
