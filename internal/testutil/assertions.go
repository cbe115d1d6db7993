package testutil

import (
	"errors"
	"testing"

	apperrors "finman/internal/errors"
)

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertAPIStatus checks that err is an *APIError with the expected remote
// status code.
func AssertAPIStatus(t *testing.T, err error, expectedStatus int) {
	t.Helper()

	if err == nil {
		t.Fatalf("expected APIError with status %d, got nil", expectedStatus)
	}

	var apiErr *apperrors.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T: %v", err, err)
	}

	if apiErr.Status != expectedStatus {
		t.Errorf("expected status %d, got %d (message: %s)", expectedStatus, apiErr.Status, apiErr.Message)
	}
}

// AssertTransportError checks that err wraps a *TransportError.
func AssertTransportError(t *testing.T, err error) {
	t.Helper()

	if err == nil {
		t.Fatal("expected TransportError, got nil")
	}
	if !apperrors.IsTransport(err) {
		t.Fatalf("expected *TransportError, got %T: %v", err, err)
	}
}
