package client

import "fmt"

const (
	// MsgNetwork is reported when the server could not be reached.
	MsgNetwork = "Network error"
	// MsgMalformed is reported when the server answered with something other than the JSON envelope.
	MsgMalformed = "Malformed server response"
	// MsgCancelled is reported when the caller's context ended before the response arrived.
	MsgCancelled = "Request cancelled"
)

// APIError is the single error type returned by Client. Message is always
// human readable and safe to show to a user.
type APIError struct {
	// Status is the HTTP status, or 0 when no response was received.
	Status  int
	Message string
	// Fields holds per-field messages for validation failures.
	Fields map[string]string
	Err    error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	if e.Status != 0 {
		return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
	}
	return e.Message
}

func (e *APIError) Unwrap() error { return e.Err }

// NotFound reports whether the server answered 404.
func (e *APIError) NotFound() bool { return e.Status == 404 }
