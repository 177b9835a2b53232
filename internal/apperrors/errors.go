package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error kinds. Handlers map these to HTTP status codes; everything the
// repository and service return wraps one of them.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("already exists")
	ErrTimeout    = errors.New("storage timeout")
	ErrStorage    = errors.New("storage failure")
)

var statusCodes = map[error]int{
	ErrValidation: http.StatusBadRequest,
	ErrNotFound:   http.StatusNotFound,
	ErrConflict:   http.StatusConflict,
	ErrTimeout:    http.StatusServiceUnavailable,
	ErrStorage:    http.StatusInternalServerError,
}

// Error is a kinded error with a client-safe message. The underlying cause
// stays in Err for logging and is never serialized to clients.
type Error struct {
	Kind    error
	Message string
	Fields  map[string]string
	Err     error
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

func (e *Error) Is(target error) bool {
	return errors.Is(e.Kind, target)
}

func New(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind error, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// Validation builds a validation error carrying every field violation.
func Validation(message string, fields map[string]string) *Error {
	return &Error{Kind: ErrValidation, Message: message, Fields: fields}
}

// Status resolves the HTTP status code for an error. Unknown errors are
// treated as storage failures.
func Status(err error) int {
	for kind, code := range statusCodes {
		if errors.Is(err, kind) {
			return code
		}
	}
	return http.StatusInternalServerError
}

// Message returns the outward-facing message for an error. Storage and
// timeout failures are sanitized so internal detail never reaches clients.
func Message(err error) string {
	if errors.Is(err, ErrTimeout) {
		return "storage timed out, try again later"
	}
	if errors.Is(err, ErrStorage) {
		return "something went wrong"
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "something went wrong"
}

// FieldErrors returns per-field violations when err is a validation error.
func FieldErrors(err error) map[string]string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Fields
	}
	return nil
}
