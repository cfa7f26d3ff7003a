// Package apierrors contains the errors returned to the API clients.
package apierrors

import (
	"encoding/json"
	"net/http"
)

// APIError represents an error that must be exposed to the client with a given HTTP status.
type APIError struct {
	Detail         string `json:"detail"`
	httpStatusCode int
}

// APIErrorOption determines the Functional Options used to create a new APIError.
type APIErrorOption func(apiError *APIError)

// WithDetail sets the message exposed to the client.
func WithDetail(detail string) APIErrorOption {
	return func(apiError *APIError) {
		apiError.Detail = detail
	}
}

// WithHTTPStatusCode sets the HTTP status used to answer the request.
func WithHTTPStatusCode(statusCode int) APIErrorOption {
	return func(apiError *APIError) {
		apiError.httpStatusCode = statusCode
	}
}

// NewAPIError creates a new APIError. If no status is given, 400 is assumed.
func NewAPIError(opts ...APIErrorOption) *APIError {
	apiError := &APIError{httpStatusCode: http.StatusBadRequest}
	for _, opt := range opts {
		opt(apiError)
	}
	return apiError
}

func (a APIError) Error() string {
	return a.Detail
}

// HTTPStatusCode gets the HTTP status associated to the error.
func (a APIError) HTTPStatusCode() int {
	return a.httpStatusCode
}

// ValidationError represents an invalid field in a request payload.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (v ValidationError) Error() string {
	return v.Field + ": " + v.Message
}

// Write answers the request with the given error. APIError and ValidationError are exposed to
// the client, any other error results in a 500 with no body.
func Write(w http.ResponseWriter, err error) {
	switch v := err.(type) {
	case *APIError:
		w.WriteHeader(v.HTTPStatusCode())
		_ = json.NewEncoder(w).Encode(v)
		return
	case *ValidationError:
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(v)
		return
	}
	w.WriteHeader(http.StatusInternalServerError)
}
