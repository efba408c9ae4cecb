package document

import (
	"errors"
	"fmt"
)

// Kind classifies a runtime failure for clients. It travels in tool
// results and HTTP responses so callers can branch without string
// matching.
type Kind string

const (
	KindNotFound        Kind = "not_found"
	KindInvalidArgument Kind = "invalid_argument"
	KindStale           Kind = "stale"
	KindIOError         Kind = "io_error"
	KindParseError      Kind = "parse_error"
	KindConflict        Kind = "conflict"
)

// Error is a kinded domain error. The wrapped cause, when present,
// surfaces as detail.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError builds a kinded error with a formatted message.
func NewError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WrapError attaches a kind to an underlying cause.
func WrapError(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// KindOf extracts the kind from err, defaulting to io_error for plain
// errors.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindIOError
}
