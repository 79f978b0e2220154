package api

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSessionExpired is returned when the backend rejects the stored token
	// on any call outside the login flow. The access layer clears the token
	// and notifies the session-expired callback before returning it.
	ErrSessionExpired = errors.New("session expired")

	// ErrMalformedResponse is returned when a successful response body could
	// not be decoded as JSON.
	ErrMalformedResponse = errors.New("malformed response")
)

const genericServerError = "server error"

// NetworkError wraps transport-level failures: connection errors, request
// timeouts, and an open circuit breaker.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network failure: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// HTTPError carries a non-2xx status and the backend's detail message.
type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("http %d: %s", e.Status, e.Message)
}

// ValidationError is an HTTP error whose detail was a list of per-field
// messages. Error() concatenates them into one human-readable string.
type ValidationError struct {
	Status   int
	Messages []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("http %d: %s", e.Status, strings.Join(e.Messages, ", "))
}
