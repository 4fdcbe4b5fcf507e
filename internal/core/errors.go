// Package core provides the types, interfaces and error taxonomy shared
// across the relay.
package core

import (
	"fmt"
	"net/http"
)

// ErrorType represents the type of error that occurred
type ErrorType string

const (
	// ErrorTypeAuthentication indicates a rejected shared-secret check (401)
	ErrorTypeAuthentication ErrorType = "authentication_error"
	// ErrorTypeInvalidRequest indicates a malformed or unsupported request (400)
	ErrorTypeInvalidRequest ErrorType = "invalid_request_error"
	// ErrorTypeConfiguration indicates missing server-side configuration (500)
	ErrorTypeConfiguration ErrorType = "configuration_error"
	// ErrorTypeUpstream indicates a failure talking to the generative API (500)
	ErrorTypeUpstream ErrorType = "upstream_error"
)

// RelayError is the base error type for all relay errors
type RelayError struct {
	Type       ErrorType
	Message    string
	StatusCode int
	// Original error for debugging (not exposed to clients)
	Err error
}

// Error implements the error interface
func (e *RelayError) Error() string {
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap implements the error unwrapping interface
func (e *RelayError) Unwrap() error {
	return e.Err
}

// HTTPStatusCode returns the appropriate HTTP status code for this error
func (e *RelayError) HTTPStatusCode() int {
	if e.StatusCode != 0 {
		return e.StatusCode
	}
	switch e.Type {
	case ErrorTypeAuthentication:
		return http.StatusUnauthorized
	case ErrorTypeInvalidRequest:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// ToJSON converts the error to the wire-level error envelope. The caller
// only ever sees the message; type and cause stay server-side.
func (e *RelayError) ToJSON() map[string]interface{} {
	return map[string]interface{}{
		"error": e.Message,
	}
}

// NewAuthenticationError creates a new authentication error (401)
func NewAuthenticationError(message string) *RelayError {
	return &RelayError{
		Type:       ErrorTypeAuthentication,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

// NewInvalidRequestError creates a new invalid request error (400)
func NewInvalidRequestError(message string, err error) *RelayError {
	return &RelayError{
		Type:       ErrorTypeInvalidRequest,
		Message:    message,
		StatusCode: http.StatusBadRequest,
		Err:        err,
	}
}

// NewConfigurationError creates a new configuration error (500). The
// detailed cause is logged server-side; callers receive a generic message.
func NewConfigurationError(message string, err error) *RelayError {
	return &RelayError{
		Type:       ErrorTypeConfiguration,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Err:        err,
	}
}

// NewUpstreamError creates a new upstream/transport error (500)
func NewUpstreamError(message string, err error) *RelayError {
	return &RelayError{
		Type:       ErrorTypeUpstream,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Err:        err,
	}
}
