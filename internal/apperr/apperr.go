package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an application error.
type Kind string

const (
	KindValidation      Kind = "VALIDATION"       // 400
	KindContentRejected Kind = "CONTENT_REJECTED" // 400
	KindNotFound        Kind = "NOT_FOUND"        // 404
	KindUpstream        Kind = "UPSTREAM"         // 500
	KindStorage         Kind = "STORAGE"          // 500
)

// ContentRejectedMessage is shown to users when the keyword filter blocks a prompt.
// The matched term is never echoed back.
const ContentRejectedMessage = "Content not allowed. Please create family-friendly card designs only."

// Error carries a kind, the HTTP status it maps to, a caller-safe message and an optional cause.
type Error struct {
	Kind    Kind
	Status  int
	Message string

	// UpstreamStatus is the provider's HTTP status for KindUpstream, 0 otherwise.
	UpstreamStatus int

	Err error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewValidation creates a 400 error for missing or empty required input.
func NewValidation(msg string) *Error {
	return &Error{
		Kind:    KindValidation,
		Status:  http.StatusBadRequest,
		Message: msg,
	}
}

// NewContentRejected creates a 400 error for prompts blocked by moderation.
func NewContentRejected() *Error {
	return &Error{
		Kind:    KindContentRejected,
		Status:  http.StatusBadRequest,
		Message: ContentRejectedMessage,
	}
}

// NewNotFound creates a 404 error for an unknown card skin id.
func NewNotFound(id string) *Error {
	return &Error{
		Kind:    KindNotFound,
		Status:  http.StatusNotFound,
		Message: "Card not found",
		Err:     fmt.Errorf("card skin %q does not exist", id),
	}
}

// NewUpstream creates a 500 error for image provider failures.
// status is the provider's HTTP status, or 0 when the request never completed.
func NewUpstream(status int, msg string, err error) *Error {
	return &Error{
		Kind:           KindUpstream,
		Status:         http.StatusInternalServerError,
		Message:        msg,
		UpstreamStatus: status,
		Err:            err,
	}
}

// NewStorage creates a 500 error for persistence failures. Details stay in Err.
func NewStorage(err error) *Error {
	return &Error{
		Kind:    KindStorage,
		Status:  http.StatusInternalServerError,
		Message: "storage failure",
		Err:     err,
	}
}

// As returns the *Error in err's chain, if any.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// Is reports whether err (or anything it wraps) is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	e, ok := As(err)
	return ok && e.Kind == kind
}

// StatusCode maps err to an HTTP status, defaulting to 500.
func StatusCode(err error) int {
	if e, ok := As(err); ok {
		return e.Status
	}
	return http.StatusInternalServerError
}
