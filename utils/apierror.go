package utils

import (
	"errors"
	"net/http"
)

// APIError is an error that already knows the HTTP status it should be
// rendered with. Core services return these; controllers pass them to
// RespondError and anything that is not an APIError becomes a 500.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string { return e.Message }

// NewAPIError builds an APIError with an explicit status code.
func NewAPIError(status int, message string) *APIError {
	return &APIError{StatusCode: status, Message: message}
}

func ErrBadRequest(message string) *APIError {
	return NewAPIError(http.StatusBadRequest, message)
}

func ErrUnauthorized(message string) *APIError {
	return NewAPIError(http.StatusUnauthorized, message)
}

func ErrForbidden(message string) *APIError {
	return NewAPIError(http.StatusForbidden, message)
}

func ErrNotFound(message string) *APIError {
	return NewAPIError(http.StatusNotFound, message)
}

func ErrConflict(message string) *APIError {
	return NewAPIError(http.StatusConflict, message)
}

// AsAPIError unwraps err into an APIError if it is one.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
