// Package errors provides the sentinel error type used by the status
// packages, plus shortcuts to the standard matching helpers.
package errors

import (
	stderr "errors"
)

var _ error = New("")

// Error is a sentinel error that can carry a cause.
type Error struct {
	msg   string
	cause error
}

// New builds a sentinel with the given message.
func New(msg string) *Error {
	return &Error{msg: msg}
}

// Error message
func (e *Error) Error() string {
	return e.msg
}

// Unwrap the cause
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// Wrap derives a new error carrying err as its cause. The receiver is
// left untouched, so package-level sentinels stay pristine.
func (e *Error) Wrap(err error) *Error {
	return &Error{msg: e.msg, cause: err}
}

// Is matches the sentinel itself or any error derived from it with
// Wrap.
func (e *Error) Is(target error) bool {
	if e == target {
		return true
	}
	t, ok := target.(*Error)
	return ok && t.msg == e.msg
}

// As finds the first error in err's chain that matches target
// (a shortcut to standard lib errors.As)
func As(err error, target interface{}) bool {
	return stderr.As(err, target)
}

// Is reports whether any error in err's chain matches target
// (a shortcut to standard lib errors.Is)
func Is(err, target error) bool {
	return stderr.Is(err, target)
}
