package client

import (
	"encoding/json"
	"errors"
	"fmt"
)

// DefaultErrorMessage is used when nothing better can be said about a failure.
const DefaultErrorMessage = "An unexpected error occurred"

// APIError is a non-2xx response from the backend.
type APIError struct {
	StatusCode int
	Message    string
	Body       []byte
}

func (e *APIError) Error() string {
	return e.Message
}

func newAPIError(status int, body []byte) *APIError {
	msg := ""
	var fields map[string]any
	if err := json.Unmarshal(body, &fields); err == nil {
		msg = stringField(fields, "message")
		if msg == "" {
			msg = stringField(fields, "error")
		}
	}
	if msg == "" {
		msg = fmt.Sprintf("HTTP %d", status)
	}
	return &APIError{StatusCode: status, Message: msg, Body: body}
}

// RequestError means the request never produced a response.
type RequestError struct {
	Method string
	Path   string
	Cause  error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Cause)
}

func (e *RequestError) Unwrap() error {
	return e.Cause
}

// DecodeError is a 2xx response whose body was not the expected JSON.
type DecodeError struct {
	StatusCode int
	Cause      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("invalid response body: %v", e.Cause)
}

func (e *DecodeError) Unwrap() error {
	return e.Cause
}

// IsStatus reports whether err is an APIError with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == status
}

func stringField(m map[string]any, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}
