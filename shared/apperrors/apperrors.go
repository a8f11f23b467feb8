// Package apperrors defines the coded error type shared by the service and
// API layers. Handlers map an error's code to an HTTP status and hand the
// message to the client; wrapped causes stay server-side.
package apperrors

import "net/http"

// Code is a machine-readable classification of a failure.
type Code string

const (
	CodeValidation    Code = "VALIDATION"     // malformed or missing input
	CodeConflict      Code = "CONFLICT"       // uniqueness or ownership violation
	CodeCapacity      Code = "CAPACITY"       // a configured limit was reached
	CodeForbidden     Code = "FORBIDDEN"      // business rule disallows the action
	CodeNotFound      Code = "NOT_FOUND"      // resource absent or not owned by caller
	CodeAuth          Code = "AUTH"           // missing, invalid or expired credential
	CodeAdminRequired Code = "ADMIN_REQUIRED" // valid credential, insufficient privilege
	CodeBackend       Code = "BACKEND"        // datastore call failed
)

// HTTPStatus maps a code to the response status used by the HTTP surface.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeValidation, CodeConflict, CodeCapacity:
		return http.StatusBadRequest
	case CodeAuth:
		return http.StatusUnauthorized
	case CodeForbidden, CodeAdminRequired:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Error is a domain error with a code, a client-facing message and an
// optional wrapped cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause for error chain traversal.
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

// Wrap creates a domain error that carries an underlying cause.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// CodeOf extracts the code from err, walking the error chain. Errors that
// are not domain errors classify as CodeBackend.
func CodeOf(err error) Code {
	for err != nil {
		if e, ok := err.(*Error); ok {
			return e.Code
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return CodeBackend
		}
		err = u.Unwrap()
	}
	return CodeBackend
}
