// Package apierror provides standardized error response structures for the API.
// All errors returned to clients go through this package to ensure consistency
// and to prevent leaking internal details (stack traces, DB errors, etc.).
package apierror

import "time"

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Path      string    `json:"path"`
}

func New(msg, path string) *APIError {
	return &APIError{Message: msg, Timestamp: time.Now().UTC(), Path: path}
}

// ValidationError wraps multiple field errors.
type ValidationError struct {
	APIError
	Fields map[string]string `json:"fields"`
}

func NewValidation(path string, fields map[string]string) *ValidationError {
	return &ValidationError{APIError: *New("request validation failed", path), Fields: fields}
}
