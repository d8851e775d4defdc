// Package httpx provides HTTP response utilities.
package httpx

import (
	"errors"
	"net/http"
)

// Sentinel errors for domain layer.
var (
	ErrNotFound   = errors.New("resource not found")
	ErrValidation = errors.New("validation failed")
	ErrConflict   = errors.New("conflict")
	ErrRender     = errors.New("document rendering failed")
)

// StatusFor maps a domain error to its HTTP status code.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// RespondError maps domain errors to JSON {message} responses.
// Unexpected errors are reported with a generic message.
func RespondError(w http.ResponseWriter, err error) {
	status := StatusFor(err)
	switch {
	case errors.Is(err, ErrRender):
		Message(w, status, "Failed to generate quotation document")
	case status == http.StatusInternalServerError:
		Message(w, status, "Internal server error")
	default:
		Message(w, status, Describe(err))
	}
}

// Describe strips the sentinel suffix so callers see the contextual message only.
func Describe(err error) string {
	if err == nil {
		return ""
	}
	var d described
	if errors.As(err, &d) {
		return d.msg
	}
	return err.Error()
}

type described struct {
	msg  string
	kind error
}

func (d described) Error() string { return d.msg }
func (d described) Unwrap() error { return d.kind }

// Errorf builds an error of the given kind whose client-facing text is msg.
func Errorf(kind error, msg string) error {
	return described{msg: msg, kind: kind}
}
