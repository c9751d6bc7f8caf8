package core

import (
	"fmt"

	"github.com/pkg/errors"
)

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

// APIError is a non-2xx answer of the records API.
// Message is empty when the body did not carry a usable `message`.
type APIError struct {
	StatusCode int
	Message    string
	Body       string
}

func (err *APIError) Error() string {
	if err.Message != "" {
		return fmt.Sprintf("api: %d %s", err.StatusCode, err.Message)
	}
	return fmt.Sprintf("api: %d", err.StatusCode)
}

// TransportError means the records API could not be reached at all.
type TransportError struct {
	Err error
}

func (err *TransportError) Error() string {
	return "api unreachable: " + err.Err.Error()
}

func (err *TransportError) Cause() error { return err.Err }

const unreachableText = "Não foi possível conectar à API"

// UserMessage turns any operation error into the single human-readable string shown to the operator.
// The server-provided message wins; fallback is used when there is none.
func UserMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var (
		apiErr   *APIError
		vErr     *ValidationError
		transErr *TransportError
	)
	switch {
	case errors.As(err, &apiErr):
		if apiErr.Message != "" {
			return apiErr.Message
		}
	case errors.As(err, &vErr):
		if msg := vErr.Error(); msg != "" {
			return msg
		}
	case errors.As(err, &transErr):
		return unreachableText
	}
	return fallback
}
