package client

import (
	"errors"
	"fmt"
	"strings"
)

// ErrRequestFailed is the only error kind operations return. Every error from
// an operation satisfies errors.Is(err, ErrRequestFailed).
var ErrRequestFailed = errors.New("request failed")

// RequestError describes a failed operation.
type RequestError struct {
	// Op is the operation name, e.g. "list_ensayos".
	Op     string
	Method string
	// Path is the path of the last attempt, relative to the base address.
	Path string
	// StatusCode is the HTTP status, or 0 when no response was received.
	StatusCode int
	// Body is a bounded excerpt of the error response body.
	Body string
	// Err is the transport or status error of the last attempt.
	Err error
	// Primary is the primary path's error when the failure came from a fallback attempt.
	Primary error
}

func (e *RequestError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s %s", e.Op, e.Method, e.Path)
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	if e.Primary != nil {
		fmt.Fprintf(&b, " (after primary: %v)", e.Primary)
	}
	return b.String()
}

// Is reports ErrRequestFailed as a match.
func (e *RequestError) Is(target error) bool {
	return target == ErrRequestFailed
}

func (e *RequestError) Unwrap() error {
	return e.Err
}
