package domain

import (
	"fmt"
	"strings"
	"time"
)

// Config holds every setting of a run. DefaultConfig reproduces the dashboard's
// historical constants, so a missing config file changes nothing.
type Config struct {
	Aircall    AircallConfig
	Sheets     SheetsConfig
	Transform  TransformConfig
	Schedule   ScheduleConfig
	Categories []Category
}

// AircallConfig controls the call fetcher.
type AircallConfig struct {
	// BaseURL is the API root, e.g. https://api.aircall.io/v1/.
	BaseURL string

	// Start is the earliest call creation time to fetch.
	Start time.Time

	// PerPage is the page size requested from the API.
	PerPage int

	// PageDelay is the pause between consecutive page requests.
	PageDelay time.Duration

	// Timeout bounds each HTTP request.
	Timeout time.Duration
}

// SheetsConfig controls the spreadsheet publisher.
type SheetsConfig struct {
	// SpreadsheetID addresses the dashboard directly. Takes precedence over SpreadsheetName.
	SpreadsheetID string

	// SpreadsheetName is resolved to an ID through Drive when SpreadsheetID is empty.
	SpreadsheetName string

	// CreateMissing adds absent tabs instead of failing with ErrSheetNotFound.
	CreateMissing bool

	// FailFast aborts the remaining tabs after the first publish failure.
	FailFast bool
}

// TransformConfig controls raw record normalisation.
type TransformConfig struct {
	// Location is the time zone timestamps are rendered in.
	Location *time.Location

	// SkipInvalid drops records with missing fields instead of failing the run.
	SkipInvalid bool
}

// ScheduleConfig controls watch mode.
type ScheduleConfig struct {
	// Interval between runs.
	Interval time.Duration
}

// Defaults taken from the dashboard's original script.
const (
	DefaultBaseURL         = "https://api.aircall.io/v1/"
	DefaultPerPage         = 50
	DefaultPageDelay       = 500 * time.Millisecond
	DefaultTimeout         = 30 * time.Second
	DefaultSpreadsheetName = "Call Monitoring Dashboard"
	DefaultInterval        = 15 * time.Minute
)

// DefaultStart is the first day covered by the dashboard.
var DefaultStart = time.Date(2022, time.July, 1, 0, 0, 0, 0, time.UTC)

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() Config {
	return Config{
		Aircall: AircallConfig{
			BaseURL:   DefaultBaseURL,
			Start:     DefaultStart,
			PerPage:   DefaultPerPage,
			PageDelay: DefaultPageDelay,
			Timeout:   DefaultTimeout,
		},
		Sheets: SheetsConfig{
			SpreadsheetName: DefaultSpreadsheetName,
		},
		Transform: TransformConfig{
			Location: time.UTC,
		},
		Schedule: ScheduleConfig{
			Interval: DefaultInterval,
		},
		Categories: DefaultCategories(),
	}
}

// Validate checks the configuration for values that would break a run.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Aircall.BaseURL) == "" {
		return fmt.Errorf("%w: aircall.base_url is empty", ErrInvalidInput)
	}
	if c.Aircall.PerPage <= 0 {
		return fmt.Errorf("%w: aircall.per_page must be positive", ErrInvalidInput)
	}
	if c.Aircall.PageDelay < 0 {
		return fmt.Errorf("%w: aircall.page_delay must not be negative", ErrInvalidInput)
	}
	if c.Aircall.Start.IsZero() {
		return fmt.Errorf("%w: aircall.start is not set", ErrInvalidInput)
	}
	if c.Sheets.SpreadsheetID == "" && c.Sheets.SpreadsheetName == "" {
		return fmt.Errorf("%w: one of sheets.spreadsheet_id or sheets.spreadsheet_name is required", ErrInvalidInput)
	}
	if c.Schedule.Interval <= 0 {
		return fmt.Errorf("%w: schedule.interval must be positive", ErrInvalidInput)
	}
	if c.Transform.Location == nil {
		c.Transform.Location = time.UTC
	}
	return ValidateCategories(c.Categories)
}

// dateLayout is accepted for start times in addition to RFC 3339.
const dateLayout = "2006-01-02"

// ParseStart accepts RFC 3339 or a bare YYYY-MM-DD date (midnight UTC).
func ParseStart(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%w: start %q is neither RFC 3339 nor YYYY-MM-DD", ErrInvalidInput, s)
}
