package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
)

// APIError is an HTTP error response surfaced to the caller unchanged.
// Domain errors (404, 403, validation 400) are interpretation for the
// caller; only 401 carries gateway-level behaviour.
type APIError struct {
	StatusCode int
	Status     string
	Body       []byte
	RequestID  string
}

func (e *APIError) Error() string {
	if detail := e.Detail(); detail != "" {
		return fmt.Sprintf("%s: %s", e.Status, detail)
	}
	return e.Status
}

// Detail extracts the backend's "detail" message when the error body is the
// usual JSON error envelope.
func (e *APIError) Detail() string {
	var envelope struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(e.Body, &envelope); err != nil {
		return ""
	}
	return envelope.Detail
}

// StatusOf returns the HTTP status carried by err, or 0 when err is not an
// APIError (e.g. a transport failure with no response at all).
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// IsStatus reports whether err is an APIError with the given status code.
func IsStatus(err error, code int) bool {
	return StatusOf(err) == code
}
