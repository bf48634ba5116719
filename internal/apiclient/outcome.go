package apiclient

import (
	"errors"
	"fmt"
)

// Kind classifies a failed call.
type Kind string

const (
	// KindNetwork is a transport failure or an unreadable success body. StatusCode is 0.
	KindNetwork Kind = "network"
	// KindHTTP is a non-2xx response other than an unrecoverable 401.
	KindHTTP Kind = "http"
	// KindAuthExpired means the session could not be renewed and has been cleared.
	KindAuthExpired Kind = "auth_expired"
)

const (
	msgNetwork        = "Network error"
	msgRequestFailed  = "Request failed"
	msgSessionExpired = "Session expired. Please login again."
)

// Error is the failure half of an Outcome.
type Error struct {
	Kind       Kind
	Message    string
	StatusCode int
}

func (e *Error) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s %d: %s", e.Kind, e.StatusCode, e.Message)
}

func networkError(err error) *Error {
	msg := msgNetwork
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}
	return &Error{Kind: KindNetwork, Message: msg}
}

func authExpiredError() *Error {
	return &Error{Kind: KindAuthExpired, Message: msgSessionExpired, StatusCode: 401}
}

// IsAuthExpired reports whether err (or anything it wraps) is an expired-session failure.
func IsAuthExpired(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == KindAuthExpired
}

// StatusCode extracts the upstream status from err, or 0.
func StatusCode(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// Outcome holds exactly one of a decoded payload or an *Error.
// The zero value reports a network failure.
type Outcome[T any] struct {
	data T
	err  *Error
	ok   bool
}

// Success wraps a payload.
func Success[T any](data T) Outcome[T] {
	return Outcome[T]{data: data, ok: true}
}

// Failure wraps an error. A nil err becomes a generic network error.
func Failure[T any](err *Error) Outcome[T] {
	if err == nil {
		err = networkError(nil)
	}
	return Outcome[T]{err: err}
}

// Ok reports whether the call succeeded.
func (o Outcome[T]) Ok() bool { return o.ok }

// Data returns the payload; the zero T on failure.
func (o Outcome[T]) Data() T { return o.data }

// Err returns the failure, or nil on success.
func (o Outcome[T]) Err() *Error {
	if o.ok {
		return nil
	}
	if o.err == nil {
		return networkError(nil)
	}
	return o.err
}

// Unwrap converts the outcome to Go's (value, error) convention.
func (o Outcome[T]) Unwrap() (T, error) {
	if o.ok {
		return o.data, nil
	}
	return o.data, o.Err()
}
