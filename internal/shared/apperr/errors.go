package apperr

import (
	"errors"
	"net/http"
)

// Kind classifies an expected failure so the HTTP layer can map it to a status code.
type Kind string

const (
	KindInvalid     Kind = "INVALID"
	KindNotFound    Kind = "NOT_FOUND"
	KindConflict    Kind = "CONFLICT"
	KindUnavailable Kind = "UNAVAILABLE"
	KindUpstream    Kind = "UPSTREAM"
)

// Error is a domain error carrying a human-readable reason.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// New creates a domain error of the given kind
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Invalid(message string) *Error     { return New(KindInvalid, message) }
func NotFound(message string) *Error    { return New(KindNotFound, message) }
func Conflict(message string) *Error    { return New(KindConflict, message) }
func Unavailable(message string) *Error { return New(KindUnavailable, message) }

// KindOf returns the kind of the first *Error in err's chain, or "" for unexpected errors.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ""
}

// StatusCode maps an error to the HTTP status the API answers with
func StatusCode(err error) int {
	switch KindOf(err) {
	case KindInvalid:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict, KindUnavailable:
		return http.StatusConflict
	case KindUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
