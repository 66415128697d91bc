// Package apperror defines the closed error taxonomy shared by every layer.
// Failures are constructed where they happen, carried up unchanged, and
// translated to an HTTP response exactly once at the transport boundary.
package apperror

import (
	"errors"
	"net/http"
)

// Kind tags an error with its taxonomy bucket.
type Kind int

const (
	KindValidation Kind = iota
	KindAuthentication
	KindAuthorization
	KindNotFound
	KindConflict
	KindRateLimit
	KindInternal
)

// Status returns the HTTP status code for the kind.
func (k Kind) Status() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindAuthorization:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindRateLimit:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuthentication:
		return "authentication"
	case KindAuthorization:
		return "authorization"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindRateLimit:
		return "rate_limit"
	default:
		return "internal"
	}
}

// Error is a tagged failure value. Details carries structured payloads such
// as the field-error list for validation failures.
type Error struct {
	Kind    Kind
	Message string
	Details any
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// Status is the HTTP status the error maps to.
func (e *Error) Status() int { return e.Kind.Status() }

// New builds an error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap attaches an underlying cause. The cause is for server-side logs only;
// it never reaches the client.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, cause: cause}
}

// Validation builds a validation error carrying the aggregated field list.
func Validation(details any) *Error {
	return &Error{Kind: KindValidation, Message: "Validation failed", Details: details}
}

// Internal wraps an unexpected failure with a generic client-facing message.
func Internal(cause error) *Error {
	return &Error{Kind: KindInternal, Message: "An unexpected error occurred. Please try again later.", cause: cause}
}

// From coerces any error into an *Error. Unknown errors default to internal
// with a generic message, never leaking the original text.
func From(err error) *Error {
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return Internal(err)
}
