package file

import (
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/missedcalls/internal/core/domain"
)

// fileConfig is the on-disk shape of the configuration.
// Zero values leave the corresponding default untouched.
type fileConfig struct {
	Aircall    aircallSection    `toml:"aircall" yaml:"aircall"`
	Sheets     sheetsSection     `toml:"sheets" yaml:"sheets"`
	Transform  transformSection  `toml:"transform" yaml:"transform"`
	Schedule   scheduleSection   `toml:"schedule" yaml:"schedule"`
	Categories []categorySection `toml:"categories,omitempty" yaml:"categories,omitempty"`
}

type aircallSection struct {
	BaseURL   string `toml:"base_url,omitempty" yaml:"base_url,omitempty"`
	Start     string `toml:"start,omitempty" yaml:"start,omitempty"`
	PerPage   int    `toml:"per_page,omitempty" yaml:"per_page,omitempty"`
	PageDelay string `toml:"page_delay,omitempty" yaml:"page_delay,omitempty"`
	Timeout   string `toml:"timeout,omitempty" yaml:"timeout,omitempty"`
}

type sheetsSection struct {
	SpreadsheetID   string `toml:"spreadsheet_id,omitempty" yaml:"spreadsheet_id,omitempty"`
	SpreadsheetName string `toml:"spreadsheet_name,omitempty" yaml:"spreadsheet_name,omitempty"`
	CreateMissing   bool   `toml:"create_missing" yaml:"create_missing"`
	FailFast        bool   `toml:"fail_fast" yaml:"fail_fast"`
}

type transformSection struct {
	Timezone    string `toml:"timezone,omitempty" yaml:"timezone,omitempty"`
	SkipInvalid bool   `toml:"skip_invalid" yaml:"skip_invalid"`
}

type scheduleSection struct {
	Interval string `toml:"interval,omitempty" yaml:"interval,omitempty"`
}

type categorySection struct {
	Sheet       string        `toml:"sheet" yaml:"sheet"`
	Description string        `toml:"description,omitempty" yaml:"description,omitempty"`
	Rules       []ruleSection `toml:"rules,omitempty" yaml:"rules,omitempty"`
}

type ruleSection struct {
	Field      string `toml:"field" yaml:"field"`
	Op         string `toml:"op" yaml:"op"`
	Value      string `toml:"value" yaml:"value"`
	IgnoreCase bool   `toml:"ignore_case,omitempty" yaml:"ignore_case,omitempty"`
}

// apply overlays the file values onto cfg.
func (fc *fileConfig) apply(cfg *domain.Config) error {
	a := fc.Aircall
	if a.BaseURL != "" {
		cfg.Aircall.BaseURL = a.BaseURL
	}
	if a.Start != "" {
		start, err := domain.ParseStart(a.Start)
		if err != nil {
			return fmt.Errorf("aircall.start: %w", err)
		}
		cfg.Aircall.Start = start
	}
	if a.PerPage != 0 {
		cfg.Aircall.PerPage = a.PerPage
	}
	if err := setDuration(&cfg.Aircall.PageDelay, a.PageDelay, "aircall.page_delay"); err != nil {
		return err
	}
	if err := setDuration(&cfg.Aircall.Timeout, a.Timeout, "aircall.timeout"); err != nil {
		return err
	}

	s := fc.Sheets
	if s.SpreadsheetID != "" {
		cfg.Sheets.SpreadsheetID = s.SpreadsheetID
	}
	if s.SpreadsheetName != "" {
		cfg.Sheets.SpreadsheetName = s.SpreadsheetName
	}
	cfg.Sheets.CreateMissing = s.CreateMissing
	cfg.Sheets.FailFast = s.FailFast

	if fc.Transform.Timezone != "" {
		loc, err := time.LoadLocation(fc.Transform.Timezone)
		if err != nil {
			return fmt.Errorf("%w: transform.timezone: %w", domain.ErrInvalidInput, err)
		}
		cfg.Transform.Location = loc
	}
	cfg.Transform.SkipInvalid = fc.Transform.SkipInvalid

	if err := setDuration(&cfg.Schedule.Interval, fc.Schedule.Interval, "schedule.interval"); err != nil {
		return err
	}

	if len(fc.Categories) > 0 {
		cfg.Categories = make([]domain.Category, 0, len(fc.Categories))
		for _, c := range fc.Categories {
			cat := domain.Category{Sheet: c.Sheet, Description: c.Description}
			for _, r := range c.Rules {
				cat.Rules = append(cat.Rules, domain.Rule{
					Field:      domain.RuleField(strings.ToLower(r.Field)),
					Operator:   domain.Operator(strings.ToLower(r.Op)),
					Value:      r.Value,
					IgnoreCase: r.IgnoreCase,
				})
			}
			cfg.Categories = append(cfg.Categories, cat)
		}
	}

	return nil
}

// fromDomain renders cfg in file form, e.g. to write an example config.
func fromDomain(cfg domain.Config) fileConfig {
	fc := fileConfig{
		Aircall: aircallSection{
			BaseURL:   cfg.Aircall.BaseURL,
			Start:     cfg.Aircall.Start.Format(time.RFC3339),
			PerPage:   cfg.Aircall.PerPage,
			PageDelay: cfg.Aircall.PageDelay.String(),
			Timeout:   cfg.Aircall.Timeout.String(),
		},
		Sheets: sheetsSection{
			SpreadsheetID:   cfg.Sheets.SpreadsheetID,
			SpreadsheetName: cfg.Sheets.SpreadsheetName,
			CreateMissing:   cfg.Sheets.CreateMissing,
			FailFast:        cfg.Sheets.FailFast,
		},
		Transform: transformSection{
			SkipInvalid: cfg.Transform.SkipInvalid,
		},
		Schedule: scheduleSection{
			Interval: cfg.Schedule.Interval.String(),
		},
	}
	if cfg.Transform.Location != nil {
		fc.Transform.Timezone = cfg.Transform.Location.String()
	}

	for _, c := range cfg.Categories {
		cs := categorySection{Sheet: c.Sheet, Description: c.Description}
		for _, r := range c.Rules {
			cs.Rules = append(cs.Rules, ruleSection{
				Field:      string(r.Field),
				Op:         string(r.Operator),
				Value:      r.Value,
				IgnoreCase: r.IgnoreCase,
			})
		}
		fc.Categories = append(fc.Categories, cs)
	}
	return fc
}

func setDuration(dst *time.Duration, value, key string) error {
	if value == "" {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", domain.ErrInvalidInput, key, err)
	}
	*dst = d
	return nil
}
