package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNotFound reports that the requested record does not exist in the remote
// store. Callers render a "not found" placeholder instead of failing the page.
var ErrNotFound = errors.New("registro no encontrado")

// TransportError wraps a network-level failure (connection refused, timeout,
// DNS) before any HTTP status was received.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error on %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// APIError is a non-2xx response from the backend. Message carries the
// server-supplied human-readable "error" field when present.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api error %d", e.StatusCode)
}

// ServerMessage extracts the server-supplied error message from err, if err is
// an APIError carrying one. The form controller surfaces it verbatim.
func ServerMessage(err error) (string, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message, true
	}
	return "", false
}

// errorBody is the shape of a backend error payload.
type errorBody struct {
	Error string `json:"error"`
}

// extractErrorMessage probes a response body for the "error" field.
func extractErrorMessage(body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return ""
	}
	return eb.Error
}
