// Package errors defines the coded errors shared by the store, server and
// CLI.
//
// Every failure a client can act on carries a [Code]. The server turns
// codes into HTTP statuses and returns [UserMessage] as the error text, so
// messages are written for the person holding the .quiver repository:
//
//	return errors.New(errors.ErrCodeAimNotFound, "Aim not found: %s", id)
//
//	if errors.Is(err, errors.ErrCodeRepoNotInitialized) {
//	    // offer to run init
//	}
package errors

import (
	"errors"
	"fmt"
)

// Code is a stable, machine-readable error identifier.
type Code string

const (
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidPath   Code = "INVALID_PATH"
	ErrCodeInvalidAimID  Code = "INVALID_AIM_ID"
	ErrCodeInvalidStatus Code = "INVALID_STATUS"
	ErrCodeInvalidType   Code = "INVALID_CONTRIBUTION_TYPE"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"

	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeAimNotFound  Code = "AIM_NOT_FOUND"
	ErrCodeMetaNotFound Code = "META_NOT_FOUND"

	// Repository selection and layout.
	ErrCodeRepoNotSelected    Code = "REPO_NOT_SELECTED"
	ErrCodeRepoNotInitialized Code = "REPO_NOT_INITIALIZED"
	ErrCodeAlreadyInitialized Code = "ALREADY_INITIALIZED"

	// A cache or store backend could not be reached.
	ErrCodeUnavailable Code = "UNAVAILABLE"

	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error pairs a code with a user-facing message and an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return string(e.Code) + ": " + e.Message
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap is New with a cause kept for errors.Is and errors.As.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	e := New(code, format, args...)
	e.Cause = cause
	return e
}

// as finds the outermost *Error in err's chain.
func as(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

// Is reports whether the outermost coded error in err's chain has code.
func Is(err error, code Code) bool {
	e, ok := as(err)
	return ok && e.Code == code
}

// GetCode returns the outermost code in err's chain, or "".
func GetCode(err error) Code {
	if e, ok := as(err); ok {
		return e.Code
	}
	return ""
}

// UserMessage returns the message of the outermost coded error, without
// code or cause. Uncoded errors are returned as err.Error().
func UserMessage(err error) string {
	if e, ok := as(err); ok {
		return e.Message
	}
	return err.Error()
}
