// Package errors provides the error taxonomy for the finman aggregation
// engine. Fetch failures are split into transport-level errors (no response
// from the finance API) and application-level errors (the API rejected the
// request), so that callers can decide between failing a whole run and
// degrading a single section.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrRunSuperseded signals that an aggregation run was cancelled because a
// newer run on the same assembler started before it could publish. It is an
// internal coordination signal and is never shown to an operator as a view
// error.
var ErrRunSuperseded = errors.New("aggregation run superseded by a newer run")

// TransportError indicates the finance API could not be reached at all:
// connection refused, DNS failure, timeout. No HTTP response was received.
type TransportError struct {
	Op  string // e.g. "fetching accounts"
	Err error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying network error.
func (e *TransportError) Unwrap() error { return e.Err }

// FieldError is a single field-level validation failure reported by the
// finance API on a rejected mutation.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"defaultMessage"`
}

// APIError indicates the finance API answered with a non-2xx status. It
// carries the remote status code, the remote human-readable message and,
// for validation failures, the field-level errors from the response body.
type APIError struct {
	Status      int          `json:"status"`
	Message     string       `json:"message"`
	FieldErrors []FieldError `json:"errors,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("finance api returned status %d", e.Status)
	}
	return fmt.Sprintf("finance api returned status %d: %s", e.Status, e.Message)
}

// NotFound reports whether err is an APIError with status 404. A missing
// focal entity terminates a whole aggregation run, unlike other fetch
// failures which may only degrade one section.
func NotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// IsTransport reports whether err is (or wraps) a TransportError.
func IsTransport(err error) bool {
	var tErr *TransportError
	return errors.As(err, &tErr)
}

// StatusCode maps err to the HTTP status this process should answer with
// when surfacing the error through its own view endpoints. Transport errors
// become 502 since the upstream never answered.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	if IsTransport(err) {
		return http.StatusBadGateway
	}
	if errors.Is(err, ErrRunSuperseded) {
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
