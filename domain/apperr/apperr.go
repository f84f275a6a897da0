// Package apperr defines the coded error type shared by every module.
//
// Errors returned by a request-reply service lose their Go type when they
// cross the event bus, so services put an *Error into the reply body instead
// and the calling adapter hands the same value back to its caller.
package apperr

import "errors"

// Code is a machine-readable error class.
type Code string

const (
	CodeValidation         Code = "validation"
	CodeInvalidCredentials Code = "invalid_credentials"
	CodeInvalidToken       Code = "invalid_token"
	CodeExpiredToken       Code = "expired_token"
	CodeUserNotFound       Code = "user_not_found"
	CodeForbidden          Code = "forbidden"
	CodeNotFound           Code = "not_found"
	CodeInternal           Code = "internal"
)

// Fields maps an input field name to its validation messages.
type Fields map[string][]string

// Add appends a message for field.
func (f Fields) Add(field, message string) {
	f[field] = append(f[field], message)
}

// Empty reports whether no field has a message.
func (f Fields) Empty() bool {
	return len(f) == 0
}

// Error is the domain error type.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Fields  Fields `json:"fields,omitempty"`
	Cause   error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// New creates a domain error with a code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap creates a domain error that wraps an underlying cause.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// Validation creates a validation error carrying per-field messages.
func Validation(fields Fields) *Error {
	return &Error{Code: CodeValidation, Message: "Validation failed", Fields: fields}
}

// From extracts the *Error in err's chain. Errors of any other type become
// CodeInternal so callers never have to special-case them.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(CodeInternal, "internal error", err)
}

// Reply converts err to the form carried inside a service reply. Domain
// errors pass through; unexpected errors are returned as the second value so
// the service handler fails the request instead of leaking the cause.
func Reply(err error) (*Error, error) {
	if err == nil {
		return nil, nil
	}
	var e *Error
	if errors.As(err, &e) && e.Code != CodeInternal {
		return e, nil
	}
	return nil, err
}
