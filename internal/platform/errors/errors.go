package errors

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindAuth       Kind = "auth"
	KindForbidden  Kind = "forbidden"
	KindLockout    Kind = "lockout"
	KindUpstream   Kind = "upstream"
	KindValidation Kind = "validation"
	KindConflict   Kind = "conflict"
	KindNotFound   Kind = "not_found"
	KindStorage    Kind = "storage"
	KindTransport  Kind = "transport"
	KindConfig     Kind = "config"
	KindBootstrap  Kind = "bootstrap"
	KindUnknown    Kind = "unknown"
)

type Error struct {
	Kind    Kind
	Op      string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s:%s] %s: %v", e.Kind, e.Op, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s:%s] %s", e.Kind, e.Op, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func Wrap(kind Kind, op, message string, err error) *Error {
	if err == nil {
		return nil
	}

	var typed *Error
	if errors.As(err, &typed) {
		return typed
	}

	return &Error{
		Kind:    kind,
		Op:      op,
		Message: message,
		Cause:   err,
	}
}

func New(kind Kind, op, message string) *Error {
	return &Error{
		Kind:    kind,
		Op:      op,
		Message: message,
	}
}

// IsKind checks whether any error in the chain matches the provided kind.
func IsKind(err error, kind Kind) bool {
	var target *Error
	for err != nil {
		if errors.As(err, &target) {
			return target.Kind == kind
		}
		err = errors.Unwrap(err)
	}
	return false
}

// LockedOut carries the seconds a caller should wait before retrying a
// temporarily blocked account. The message stays generic so responses never
// reveal whether the account exists.
type LockedOut struct {
	RetrySeconds int
}

func (e *LockedOut) Error() string {
	return fmt.Sprintf("account temporarily locked, retry in %d seconds", e.RetrySeconds)
}

// NewLockedOut builds a lockout error wrapped with the lockout kind.
func NewLockedOut(op string, retrySeconds int) *Error {
	return &Error{
		Kind:    KindLockout,
		Op:      op,
		Message: "too many failed attempts",
		Cause:   &LockedOut{RetrySeconds: retrySeconds},
	}
}

// RetryAfter extracts the remaining lockout seconds from an error chain.
// The second return value reports whether a lockout was present.
func RetryAfter(err error) (int, bool) {
	var locked *LockedOut
	if errors.As(err, &locked) {
		return locked.RetrySeconds, true
	}
	return 0, false
}
