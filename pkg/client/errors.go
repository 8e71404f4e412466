package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// HTTPError represents a non-2xx HTTP response from the API.
type HTTPError struct {
	StatusCode int
	Message    string
	// Detail is the message the backend put in the body, empty when the
	// body carried none.
	Detail string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// newHTTPError extracts the backend's message from body. The API answers
// with {"message": ...}, FastAPI-style {"detail": ...} or {"error": ...}.
func newHTTPError(status int, body []byte) *HTTPError {
	var apiErr struct {
		Message string          `json:"message"`
		Error   string          `json:"error"`
		Detail  json.RawMessage `json:"detail"`
	}
	if json.Unmarshal(body, &apiErr) == nil {
		for _, m := range []string{apiErr.Message, detailString(apiErr.Detail), apiErr.Error} {
			if m != "" {
				return &HTTPError{StatusCode: status, Message: m, Detail: m}
			}
		}
	}
	return &HTTPError{StatusCode: status, Message: strings.TrimSpace(string(body))}
}

// detailString flattens FastAPI's detail, which is a string for raised
// HTTPExceptions and a list of {msg} objects for validation errors.
func detailString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	var items []struct {
		Msg string `json:"msg"`
	}
	if json.Unmarshal(raw, &items) == nil {
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			if it.Msg != "" {
				msgs = append(msgs, it.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}
	return ""
}

// IsStatus returns true if err (or any wrapped error) is an HTTPError with the given status code.
func IsStatus(err error, code int) bool {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode == code
	}
	return false
}

// ServerMessage returns the message the backend attached to err, if any.
func ServerMessage(err error) string {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Detail
	}
	return ""
}
