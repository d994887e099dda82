package confluence

import (
	"errors"
	"fmt"
	"net/http"
)

// Confluence-specific errors.
var (
	// ErrConfigInvalidContentType indicates an invalid content type was specified.
	ErrConfigInvalidContentType = errors.New("confluence: invalid content type")

	// ErrConfigInvalidLimit indicates an invalid page limit was specified.
	ErrConfigInvalidLimit = errors.New("confluence: invalid page limit")

	// ErrNoAccessibleResources indicates the token grants access to no
	// workspace instance.
	ErrNoAccessibleResources = errors.New("confluence: no accessible resources")
)

// ScopeError represents a 401 caused by missing OAuth scopes.
// Refreshing the token cannot fix a missing grant, so it is never
// retried and should be surfaced distinctly to operators.
type ScopeError struct {
	Message string
	URL     string
}

func (e *ScopeError) Error() string {
	return fmt.Sprintf("confluence: OAuth scope error: %s (URL: %s)", e.Message, e.URL)
}

// APIError represents a non-2xx API response.
// Carries status, headers and body for diagnostics.
type APIError struct {
	StatusCode int
	Header     http.Header
	Body       string
	URL        string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("confluence: API error %d (URL: %s)", e.StatusCode, e.URL)
}

// IsScope checks if the error indicates missing OAuth scopes.
func IsScope(err error) bool {
	var scopeErr *ScopeError
	return errors.As(err, &scopeErr)
}

// IsUnauthorized checks if the error indicates an authentication failure.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusUnauthorized
	}
	return false
}

// IsNotFound checks if the error indicates a resource was not found.
func IsNotFound(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusNotFound
	}
	return false
}

// IsRateLimited checks if the error indicates upstream rate limiting.
func IsRateLimited(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusTooManyRequests
	}
	return false
}
