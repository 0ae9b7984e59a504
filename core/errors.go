package core

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

// ValidationError is a client-side validation failure. It never reaches the network.
type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		if len(err.Fields) > 0 {
			return err.Fields[0].Field + ": " + err.Fields[0].Error
		}
		return "validation failed"
	}
	return err.Err.Error()
}

// APIError is a non-2xx answer from the backend.
type APIError struct {
	Status  int
	Message string
	Fields  map[string]string // from an `errors` object in the body, if any
	Body    json.RawMessage   // parsed JSON body, nil when the body was not JSON
	Raw     string            // raw body text when it was not JSON
}

func (err *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", err.Status, err.Message)
}

// Unauthorized reports whether the backend refused the credentials (the session is gone).
func (err *APIError) Unauthorized() bool {
	return err.Status == http.StatusUnauthorized
}

// TransportError wraps a network failure. Its cause is opaque to callers.
type TransportError struct {
	Err error
}

func (err *TransportError) Error() string {
	return "transport: " + err.Err.Error()
}

func (err *TransportError) Unwrap() error { return err.Err }

// IsUnauthorized reports whether err, or any error it wraps, is a 401 APIError.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Unauthorized()
	}
	return false
}

// IsNotFound reports whether err, or any error it wraps, is a 404 APIError.
func IsNotFound(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status == http.StatusNotFound
	}
	return false
}

// NewNotFoundError builds the 404 the backend would have answered.
func NewNotFoundError(msg string) error {
	return &APIError{Status: http.StatusNotFound, Message: msg}
}
