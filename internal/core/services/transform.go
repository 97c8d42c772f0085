package services

import (
	"errors"
	"strings"
	"time"

	"github.com/custodia-labs/missedcalls/internal/core/domain"
	"github.com/custodia-labs/missedcalls/internal/logger"
)

// phoneSeparators are the characters stripped from phone numbers.
var phoneSeparators = strings.NewReplacer("+", "", "-", "", " ", "")

// CleanPhoneNumber removes '+', '-' and spaces from a phone number.
func CleanPhoneNumber(s string) string {
	return phoneSeparators.Replace(s)
}

// Transformer maps raw provider records onto the dashboard's tabular schema.
type Transformer struct {
	location    *time.Location
	skipInvalid bool
}

// NewTransformer creates a transformer. A nil location means UTC.
func NewTransformer(cfg domain.TransformConfig) *Transformer {
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	return &Transformer{
		location:    loc,
		skipInvalid: cfg.SkipInvalid,
	}
}

// TransformResult holds the normalised calls and any rows dropped on the way.
type TransformResult struct {
	Calls   []domain.NormalizedCall
	Skipped []*domain.RowError
}

// Transform normalises every record. Unless skipping is enabled, any row
// error fails the whole batch and all row errors are returned joined.
func (t *Transformer) Transform(raw []domain.RawCall) (*TransformResult, error) {
	result := &TransformResult{
		Calls: make([]domain.NormalizedCall, 0, len(raw)),
	}

	var errs []error
	for i, r := range raw {
		call, err := t.Normalize(i, r)
		if err != nil {
			var rowErr *domain.RowError
			if t.skipInvalid && errors.As(err, &rowErr) {
				logger.Warn("Skipping invalid record: %v", err)
				result.Skipped = append(result.Skipped, rowErr)
				continue
			}
			errs = append(errs, err)
			continue
		}
		result.Calls = append(result.Calls, call)
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return result, nil
}

// Normalize converts a single record. index is used for error reporting only.
func (t *Transformer) Normalize(index int, r domain.RawCall) (domain.NormalizedCall, error) {
	var callID int64
	if r.ID != nil {
		callID = *r.ID
	}
	missing := func(field string) error {
		return &domain.RowError{Index: index, CallID: callID, Field: field, Err: domain.ErrMissingField}
	}

	switch {
	case r.ID == nil:
		return domain.NormalizedCall{}, missing("id")
	case r.StartedAt == nil:
		return domain.NormalizedCall{}, missing("started_at")
	case r.NumberDigits == nil:
		return domain.NormalizedCall{}, missing("number.digits")
	case r.RawDigits == nil:
		return domain.NormalizedCall{}, missing("raw_digits")
	case r.NumberName == nil:
		return domain.NormalizedCall{}, missing("number.name")
	case r.Duration == nil:
		return domain.NormalizedCall{}, missing("duration")
	case r.Direction == nil:
		return domain.NormalizedCall{}, missing("direction")
	}

	call := domain.NormalizedCall{
		ID:        *r.ID,
		StartTime: time.Unix(*r.StartedAt, 0).In(t.location),
		To:        CleanPhoneNumber(*r.NumberDigits),
		From:      CleanPhoneNumber(*r.RawDigits),
		Line:      *r.NumberName,
		Duration:  *r.Duration,
		Direction: *r.Direction,
	}

	// Any parsable timestamp counts as answered, zero included.
	if r.AnsweredAt != nil {
		answered := time.Unix(*r.AnsweredAt, 0).In(t.location)
		call.AnsweredTime = &answered
	}
	call.Missed = call.AnsweredTime == nil

	if len(r.Tags) > 0 {
		tag := r.Tags[0]
		call.Tags = &tag
	}

	return call, nil
}
