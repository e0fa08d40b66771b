// Package apperr defines the error taxonomy shared by every request handler
// and its mapping onto HTTP status codes.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure.
type Kind int

const (
	Internal Kind = iota
	MissingField
	InvalidAmount
	InvalidDate
	DeadlinePast
	InvalidEnum
	Unauthenticated
	InvalidUserID
	InvalidCredentials
	NotFound
	Conflict
	NoFieldsToUpdate
	MalformedInput
	PersistenceFailure
	UnsupportedMethod
	WeakPassword
	InvalidAction
	InvalidID
)

var kindNames = map[Kind]string{
	Internal:           "internal",
	MissingField:       "missing_field",
	InvalidAmount:      "invalid_amount",
	InvalidDate:        "invalid_date",
	DeadlinePast:       "deadline_past",
	InvalidEnum:        "invalid_enum",
	Unauthenticated:    "unauthenticated",
	InvalidUserID:      "invalid_user_id",
	InvalidCredentials: "invalid_credentials",
	NotFound:           "not_found",
	Conflict:           "conflict",
	NoFieldsToUpdate:   "no_fields_to_update",
	MalformedInput:     "malformed_input",
	PersistenceFailure: "persistence_failure",
	UnsupportedMethod:  "unsupported_method",
	WeakPassword:       "weak_password",
	InvalidAction:      "invalid_action",
	InvalidID:          "invalid_id",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error is a classified failure with a message safe to show to the caller.
type Error struct {
	Kind    Kind
	Message string
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

// New creates a classified error.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates a classified error around a cause. The cause is kept for logs
// and never rendered to the caller.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// Persistence wraps a storage failure.
func Persistence(err error) *Error {
	return Wrap(PersistenceFailure, "Database error", err)
}

// KindOf returns the kind of err, or Internal for unclassified errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// Is reports whether err is classified as kind.
func Is(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// Status maps a kind to its HTTP status code.
func Status(kind Kind) int {
	switch kind {
	case MissingField, InvalidAmount, InvalidDate, DeadlinePast, InvalidEnum,
		InvalidUserID, NoFieldsToUpdate, MalformedInput, WeakPassword, InvalidAction, InvalidID:
		return http.StatusBadRequest
	case Unauthenticated, InvalidCredentials:
		return http.StatusUnauthorized
	case NotFound:
		return http.StatusNotFound
	case Conflict:
		return http.StatusConflict
	case UnsupportedMethod:
		return http.StatusMethodNotAllowed
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the text to render for err. Internal and persistence
// failures never expose their cause.
func PublicMessage(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return "Internal server error"
	}
	switch e.Kind {
	case Internal:
		return "Internal server error"
	case PersistenceFailure:
		return "Database error"
	}
	return e.Message
}
