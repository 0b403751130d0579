package github

import (
	"errors"
	"fmt"
	"time"
)

// APIError represents a non-2xx response from the GitHub API that is not a
// rate-limit signal. It is fatal to the current run.
type APIError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("GitHub API error (status %d): %s: %v", e.StatusCode, e.Body, e.Err)
	}
	return fmt.Sprintf("GitHub API error (status %d): %s", e.StatusCode, e.Body)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// RateLimitError is returned once the suspend-and-retry budget for rate-limit
// responses is exhausted. A fresh run may retry; this run will not.
type RateLimitError struct {
	ResetTime time.Time
	Limit     int
	Remaining int
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("GitHub API rate limit exceeded. Reset at %v. Limit: %d, Remaining: %d",
		e.ResetTime, e.Limit, e.Remaining)
}

// NewAPIError creates a new APIError with the given status code and body.
func NewAPIError(statusCode int, body string, err error) error {
	return &APIError{
		StatusCode: statusCode,
		Body:       body,
		Err:        err,
	}
}

// NewRateLimitError creates a new RateLimitError.
func NewRateLimitError(resetTime time.Time, limit, remaining int) error {
	return &RateLimitError{
		ResetTime: resetTime,
		Limit:     limit,
		Remaining: remaining,
	}
}

// IsRateLimitError checks if an error is a rate limit error.
func IsRateLimitError(err error) bool {
	var rle *RateLimitError
	return errors.As(err, &rle)
}
