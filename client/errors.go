package client

import (
	"fmt"
	"time"
)

// APIError is a status-coded rejection from the service. StatusCode is the
// HTTP status; Code and Status carry the service's own error vocabulary when
// the body included one. For errors received as a stream's terminal error
// chunk, StatusCode is zero.
type APIError struct {
	StatusCode int
	Code       int
	Status     string
	Message    string

	// RequestID is the client-side correlation id sent with the request,
	// useful when reporting the failure to the service operator.
	RequestID string

	// RetryAfter is the server-suggested delay, zero if none was given.
	RetryAfter time.Duration
}

func (e *APIError) Error() string {
	if e.Status != "" {
		return fmt.Sprintf("interactions API error (http %d, %s): %s", e.StatusCode, e.Status, e.Message)
	}
	return fmt.Sprintf("interactions API error (http %d): %s", e.StatusCode, e.Message)
}

// Retryable reports whether the failure is transient. The client never
// retries on its own; this is the classification primitive for the caller's
// retry policy.
func (e *APIError) Retryable() bool {
	return e.StatusCode == 429 || e.StatusCode >= 500
}

// TransportError is a connection-level failure: the request never completed,
// or a stream ended before its terminal chunk.
type TransportError struct {
	Op        string
	Timeout   bool
	Truncated bool
	Cause     error
}

func (e *TransportError) Error() string {
	switch {
	case e.Timeout:
		return fmt.Sprintf("%s: timed out: %v", e.Op, e.Cause)
	case e.Truncated:
		return fmt.Sprintf("%s: stream truncated: %v", e.Op, e.Cause)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Cause)
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}

// Retryable always reports true: transport failures are transient in
// principle.
func (e *TransportError) Retryable() bool {
	return true
}
