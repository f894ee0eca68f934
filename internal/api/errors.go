package api

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrUnauthorized marks a 401 from the server: the stored token is missing,
// invalid, or expired. Callers match it with errors.Is.
var ErrUnauthorized = errors.New("unauthorized")

// APIError is a non-2xx response from the server. Message carries the
// server's human-readable "message" field when the body had one.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: %s (status %d)", e.Message, e.StatusCode)
	}
	return fmt.Sprintf("api: unexpected status %d", e.StatusCode)
}

func (e *APIError) Unwrap() error {
	if e.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	return nil
}
