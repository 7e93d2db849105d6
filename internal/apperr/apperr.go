package apperr

import (
	"errors"
	"fmt"
)

// Kind is a stable error kind for programmatic handling.
type Kind string

const (
	KindValidation        Kind = "validation_error"
	KindNotFound          Kind = "not_found"
	KindInvalidTransition Kind = "invalid_transition"
	KindJobNotOpen        Kind = "job_not_open"
	KindDuplicateProposal Kind = "duplicate_proposal"
	KindUnauthorized      Kind = "unauthorized"
	KindStoreUnavailable  Kind = "store_unavailable"
)

// Error carries a kind, a human message and an optional wrapped cause.
// StoreUnavailable is the only kind a caller may reasonably retry.
type Error struct {
	Kind    Kind
	Message string
	Err     error

	// Per-field validation messages, populated for KindValidation.
	Fields map[string][]string
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(err error, kind Kind, message string) *Error {
	if err == nil {
		return New(kind, message)
	}
	return &Error{Kind: kind, Message: message, Err: err}
}

func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message, Fields: map[string][]string{}}
}

// AddField records a per-field validation message.
func (e *Error) AddField(field, msg string) *Error {
	if e.Fields == nil {
		e.Fields = map[string][]string{}
	}
	e.Fields[field] = append(e.Fields[field], msg)
	return e
}

func NotFound(entity string) *Error {
	return New(KindNotFound, entity+" not found")
}

// InvalidTransition names the current and requested state.
func InvalidTransition(entity, from, to string) *Error {
	return New(KindInvalidTransition,
		fmt.Sprintf("%s cannot move from %q to %q", entity, from, to))
}

func Unauthorized(message string) *Error {
	return New(KindUnauthorized, message)
}

// IsKind reports whether err carries the given kind, through wrapping.
func IsKind(err error, kind Kind) bool {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind == kind
	}
	return false
}

// KindOf returns the kind carried by err, or "" for foreign errors.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return ""
}
