package aircall

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Aircall-specific errors.
var (
	// ErrMissingToken indicates the client was built without an API token.
	ErrMissingToken = errors.New("aircall: API token is empty")

	// ErrUnauthorized indicates the API token was rejected (401).
	ErrUnauthorized = errors.New("aircall: unauthorized")

	// ErrForbidden indicates the token lacks access to calls (403).
	ErrForbidden = errors.New("aircall: forbidden")
)

// RateLimitError represents a 429 response. The fetch is not retried.
type RateLimitError struct {
	RetryAfter time.Duration
	URL        string
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("aircall: rate limit exceeded, retry after %s", e.RetryAfter)
	}
	return "aircall: rate limit exceeded"
}

// APIError represents an Aircall API error response.
type APIError struct {
	StatusCode int
	Message    string
	URL        string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("aircall: API error %d: %s (URL: %s)", e.StatusCode, e.Message, e.URL)
}

// Unwrap exposes ErrUnauthorized or ErrForbidden for 401 and 403 responses.
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	}
	return nil
}

// IsRateLimited checks if the error indicates rate limiting.
func IsRateLimited(err error) bool {
	var rateLimitErr *RateLimitError
	return errors.As(err, &rateLimitErr)
}

// IsUnauthorized checks if the error indicates an authentication failure.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrMissingToken)
}

// IsForbidden checks if the error indicates a forbidden resource.
func IsForbidden(err error) bool {
	return errors.Is(err, ErrForbidden)
}
