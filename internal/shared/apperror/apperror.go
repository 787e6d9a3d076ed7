// Package apperror defines the typed failure returned by usecases.
// The HTTP boundary translates it into the JSON error envelope.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure. Each kind maps to one HTTP status.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindInvalidArgument
	KindConflict
	KindUnauthenticated
	KindForbidden
	KindRateLimited
)

// HTTPStatus returns the status code the boundary responds with for k.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindNotFound:
		return http.StatusNotFound
	case KindInvalidArgument:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindInvalidArgument:
		return "invalid_argument"
	case KindConflict:
		return "conflict"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindForbidden:
		return "forbidden"
	case KindRateLimited:
		return "rate_limited"
	default:
		return "internal"
	}
}

// Error is a domain failure with a client-safe message.
type Error struct {
	Kind    Kind
	Message string
	// Errors carries optional field-level details.
	Errors []string
	// Err is the underlying cause. It is logged, never sent to clients.
	Err error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same kind, so that
// errors.Is(err, apperror.NotFound("")) style checks work on kinds.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Message == "" || t.Message == e.Message)
}

// Code returns the HTTP status carried by the error.
func (e *Error) Code() int {
	return e.Kind.HTTPStatus()
}

func newError(kind Kind, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Err: cause}
}

func NotFound(msg string) *Error { return newError(KindNotFound, msg, nil) }

func Conflict(msg string) *Error { return newError(KindConflict, msg, nil) }

func Forbidden(msg string) *Error { return newError(KindForbidden, msg, nil) }

func RateLimited(msg string) *Error { return newError(KindRateLimited, msg, nil) }

// InvalidArgument builds a 400 failure with optional field errors.
func InvalidArgument(msg string, fieldErrors ...string) *Error {
	e := newError(KindInvalidArgument, msg, nil)
	if len(fieldErrors) > 0 {
		e.Errors = fieldErrors
	}
	return e
}

// Unauthenticated wraps the internal reason; clients only ever see msg.
func Unauthenticated(msg string, reason error) *Error {
	return newError(KindUnauthenticated, msg, reason)
}

// Internal wraps an unexpected cause.
func Internal(cause error) *Error {
	return newError(KindInternal, "Internal Server Error", cause)
}

// As extracts an *Error from err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// KindOf returns the kind of err, KindInternal when err is not an *Error.
func KindOf(err error) Kind {
	if e, ok := As(err); ok {
		return e.Kind
	}
	return KindInternal
}
