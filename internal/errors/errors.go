// Package errors defines the agent's coded errors.
//
// Every failure that crosses a package boundary carries an ErrorCode:
// source_unavailable for a sampler tick that could not read its source,
// invalid_configuration for settings rejected at startup, and so on. The
// code travels to the log as error_code; the human text comes from the
// message table unless a caller overrides it.
package errors

import (
	"errors"
	"fmt"
)

// Standard library helpers, so callers need a single errors import.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
)

type appError struct {
	code    ErrorCode
	message string
	cause   error
	detail  any
}

// Error renders "<message>: <detail or cause>". Detail wins when both are
// set; it is what names the offending setting or unit.
func (e *appError) Error() string {
	msg := e.message
	if msg == "" {
		msg = GetErrorMessage(e.code)
	}

	switch {
	case e.detail != nil:
		return fmt.Sprintf("%s: %v", msg, e.detail)
	case e.cause != nil:
		return fmt.Sprintf("%s: %v", msg, e.cause)
	default:
		return msg
	}
}

func (e *appError) Code() ErrorCode {
	return e.code
}

// WithMessage returns a copy of e with msg replacing the table message.
func (e *appError) WithMessage(msg string) Error {
	c := *e
	c.message = msg

	return &c
}

func (e *appError) Unwrap() error {
	return e.cause
}

type factory struct{}

func (factory) New(code ErrorCode) Error {
	return &appError{code: code}
}

func (factory) Wrap(code ErrorCode, err error) Error {
	return &appError{code: code, cause: err}
}

func (factory) WithData(code ErrorCode, data any) Error {
	return &appError{code: code, detail: data}
}

// New returns the Factory used throughout the agent.
func New() Factory {
	return factory{}
}

// HasCode reports whether any coded error in err's chain carries code.
// Startup failures nest: initialization_failed wraps
// invalid_configuration, which wraps invalid_interval.
func HasCode(err error, code ErrorCode) bool {
	for err != nil {
		var e Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Code() == code {
			return true
		}
		err = e.Unwrap()
	}

	return false
}
