package filemapper

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError represents a non-2xx response from the file mapper API
type APIError struct {
	StatusCode int
	Message    string
	Method     string
	Path       string
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Path != "" && e.Method != "" {
		return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("file mapper error: %d %s", e.StatusCode, e.Message)
}

// IsTemporary returns true if the error might be resolved by retrying
func (e *APIError) IsTemporary() bool {
	switch e.StatusCode {
	case http.StatusRequestTimeout, http.StatusTooManyRequests, http.StatusInternalServerError,
		http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

// IsAuthError returns true if the credentials were rejected
func (e *APIError) IsAuthError() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// IsNotFound returns true if the remote path does not exist
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

var errorMessages = map[int]string{
	http.StatusBadRequest:            "bad request",
	http.StatusUnauthorized:          "authentication failed: invalid credentials",
	http.StatusForbidden:             "permission denied for this account",
	http.StatusNotFound:              "remote path not found",
	http.StatusConflict:              "remote path conflict",
	http.StatusRequestEntityTooLarge: "file too large",
	http.StatusTooManyRequests:       "rate limit exceeded",
	http.StatusInternalServerError:   "internal server error",
	http.StatusBadGateway:            "bad gateway",
	http.StatusServiceUnavailable:    "service unavailable",
	http.StatusGatewayTimeout:        "gateway timeout",
}

// NewAPIError creates an APIError. An empty message falls back to a
// description of the status code.
func NewAPIError(statusCode int, method, path, message string) *APIError {
	if message == "" {
		message = errorMessages[statusCode]
	}
	if message == "" {
		message = http.StatusText(statusCode)
	}
	if message == "" {
		message = "unknown error"
	}

	return &APIError{
		StatusCode: statusCode,
		Message:    message,
		Method:     method,
		Path:       path,
	}
}

// AsAPIError unwraps err into an *APIError if it carries one
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
