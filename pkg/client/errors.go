package client

import (
	"errors"
	"fmt"
)

// ErrSessionExpired is returned when the session could not be kept alive:
// the refresh exchange failed or the replayed request was rejected again.
// The session store has already been cleared when a caller sees it.
var ErrSessionExpired = errors.New("Session expired. Please login again.") //nolint:staticcheck // shown verbatim to the user

// errUnauthorized signals a 401 on a first attempt so the coordinator can refresh.
var errUnauthorized = errors.New("unauthorized")

// APIError represents a non-2xx HTTP response from the API.
type APIError struct {
	Status  int
	Message string
	Code    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.Status, e.Message)
}

// IsStatus returns true if err (or any wrapped error) is an APIError with the given status code.
func IsStatus(err error, code int) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status == code
	}
	return false
}

// MalformedResponseError is returned when a 2xx response body is not the
// JSON the caller expected.
type MalformedResponseError struct {
	Status int
	Err    error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed response (HTTP %d): %v", e.Status, e.Err)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }
