package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrRunInProgress indicates a pipeline run is already executing.
	ErrRunInProgress = errors.New("run in progress")

	// Authentication Errors.

	// ErrAuthRequired indicates a required secret is not present in the environment.
	ErrAuthRequired = errors.New("authentication required")

	// ErrAuthInvalid indicates the authentication credentials are invalid.
	ErrAuthInvalid = errors.New("authentication invalid")

	// Data Errors.

	// ErrMissingField indicates a raw call record lacks an expected field.
	ErrMissingField = errors.New("missing field")

	// Publish Errors.

	// ErrSheetNotFound indicates the destination tab does not exist in the spreadsheet.
	ErrSheetNotFound = errors.New("sheet not found")

	// ErrSpreadsheetNotFound indicates no spreadsheet matched the configured name.
	ErrSpreadsheetNotFound = errors.New("spreadsheet not found")

	// ErrRangeMismatch indicates the table width does not fit the target range.
	ErrRangeMismatch = errors.New("range size mismatch")
)

// RowError reports a raw call record that could not be normalised.
type RowError struct {
	// Index is the position of the record in the fetched slice.
	Index int

	// CallID is the provider identifier, zero when the id itself is missing.
	CallID int64

	// Field names the offending field using the provider's dotted path.
	Field string

	// Err is the underlying cause.
	Err error
}

func (e *RowError) Error() string {
	if e.CallID != 0 {
		return fmt.Sprintf("call %d (row %d): %s: %v", e.CallID, e.Index, e.Field, e.Err)
	}
	return fmt.Sprintf("row %d: %s: %v", e.Index, e.Field, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}
