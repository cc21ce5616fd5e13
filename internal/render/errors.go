package render

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies every failure the pipeline can produce. The set is closed:
// no stage returns an unclassified error past the pipeline boundary.
type Kind int

const (
	// KindValidation covers malformed or out-of-range requests, bad
	// templates, and unreadable fonts. Not retryable; the caller must fix
	// the request.
	KindValidation Kind = iota
	// KindFontsNotAllowed covers font requests on a server without a fonts
	// directory, and any traversal or sandbox-escape attempt.
	KindFontsNotAllowed
	// KindRender covers layout, paint, and codec failures on an otherwise
	// valid request.
	KindRender
	// KindTask covers failures joining the worker executing the render.
	KindTask
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindFontsNotAllowed:
		return "fonts_not_allowed"
	case KindRender:
		return "render"
	case KindTask:
		return "task"
	default:
		return "unknown"
	}
}

// Error is the single error type crossing the pipeline boundary. It carries
// exactly one human-readable message; internal error chains are folded into
// that message and never exposed as structured fields.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindValidation:
		return "invalid request: " + e.Message
	case KindFontsNotAllowed:
		return "font usage is not allowed on this server"
	case KindRender:
		return "rendering failed: " + e.Message
	case KindTask:
		return "render task failed: " + e.Message
	default:
		return e.Message
	}
}

// HTTPStatus maps the error kind to an HTTP response status.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindValidation, KindFontsNotAllowed:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// ExitCode maps the error kind to a CLI process exit code.
func (e *Error) ExitCode() int {
	switch e.Kind {
	case KindValidation:
		return 2
	case KindFontsNotAllowed:
		return 3
	case KindRender:
		return 4
	case KindTask:
		return 5
	default:
		return 1
	}
}

// Retryable reports whether an identical retry could plausibly succeed.
// Validation and sandbox failures are caused by the request itself and will
// not change on retry.
func (e *Error) Retryable() bool {
	return e.Kind == KindRender || e.Kind == KindTask
}

// Validationf builds a KindValidation error.
func Validationf(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// FontsNotAllowed builds the fixed KindFontsNotAllowed error.
func FontsNotAllowed() *Error {
	return &Error{Kind: KindFontsNotAllowed}
}

// Renderf builds a KindRender error.
func Renderf(format string, args ...any) *Error {
	return &Error{Kind: KindRender, Message: fmt.Sprintf(format, args...)}
}

// Taskf builds a KindTask error.
func Taskf(format string, args ...any) *Error {
	return &Error{Kind: KindTask, Message: fmt.Sprintf(format, args...)}
}

// AsError extracts a *Error from err, wrapping anything unclassified as
// KindTask so callers always see exactly one taxonomy.
func AsError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return &Error{Kind: KindTask, Message: err.Error()}
}
