package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies batch geocoding failures.
type ErrorKind string

const (
	ErrorKindInvalidQuery         ErrorKind = "invalid_query"
	ErrorKindInvalidConfiguration ErrorKind = "invalid_configuration"
	ErrorKindTransport            ErrorKind = "transport_error"
	ErrorKindResponse             ErrorKind = "response_error"
	ErrorKindMalformedResponse    ErrorKind = "malformed_response"
)

// GeocodeError is returned for every failed batch. A failed batch never carries
// partial results.
type GeocodeError struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
	Err        error
}

// Error implements the error interface.
func (e *GeocodeError) Error() string {
	msg := fmt.Sprintf("geocoding %s: %s", e.Kind, e.Message)
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("geocoding %s (status %d): %s", e.Kind, e.StatusCode, e.Message)
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *GeocodeError) Unwrap() error {
	return e.Err
}

// NewGeocodeError создает ошибку заданного вида
func NewGeocodeError(kind ErrorKind, message string, err error) *GeocodeError {
	return &GeocodeError{Kind: kind, Message: message, Err: err}
}

// IsErrorKind reports whether err is a GeocodeError of the given kind.
func IsErrorKind(err error, kind ErrorKind) bool {
	var gerr *GeocodeError
	if errors.As(err, &gerr) {
		return gerr.Kind == kind
	}
	return false
}
