package backend

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

type ErrorKind string

const (
	KindNetwork    ErrorKind = "network"
	KindTimeout    ErrorKind = "timeout"
	KindValidation ErrorKind = "validation"
	KindServer     ErrorKind = "server"
	KindHTTP       ErrorKind = "http"
	KindUnknown    ErrorKind = "unknown"
)

// Error is returned for every failed backend call
type Error struct {
	Kind       ErrorKind
	Message    string
	StatusCode int
	cause      error
}

func newError(kind ErrorKind, message string, statusCode int, cause error) *Error {
	return &Error{Kind: kind, Message: message, StatusCode: statusCode, cause: cause}
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("backend %s error", e.Kind)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	msg += ": " + e.Message
	if e.cause != nil {
		msg += fmt.Sprintf(": %v", e.cause)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.cause
}

// IsKind reports whether err is a backend Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var be *Error
	return errors.As(err, &be) && be.Kind == kind
}

// kindForStatus classifies a non-2xx response status.
func kindForStatus(status int) ErrorKind {
	switch {
	case status == http.StatusBadRequest, status == http.StatusUnprocessableEntity:
		return KindValidation
	case status >= 500:
		return KindServer
	default:
		return KindHTTP
	}
}

// transportError classifies an error returned by http.Client.Do.
func transportError(err error) *Error {
	if errors.Is(err, context.DeadlineExceeded) {
		return newError(KindTimeout, "request timed out", 0, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return newError(KindTimeout, "request timed out", 0, err)
	}
	if errors.Is(err, context.Canceled) {
		return newError(KindUnknown, "request cancelled", 0, err)
	}
	return newError(KindNetwork, "failed to reach backend", 0, err)
}
