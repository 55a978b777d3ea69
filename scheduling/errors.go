package scheduling

import (
	"errors"
)

// Kind classifies a scheduling failure so handlers can map it to an HTTP
// status without parsing message strings.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindNotFound
	KindForbidden
	KindConflict
	KindInternal
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func validation(msg string) error { return &Error{Kind: KindValidation, Message: msg} }
func notFound(msg string) error   { return &Error{Kind: KindNotFound, Message: msg} }
func forbidden(msg string) error  { return &Error{Kind: KindForbidden, Message: msg} }
func conflict(msg string) error   { return &Error{Kind: KindConflict, Message: msg} }

func internal(msg string, err error) error {
	return &Error{Kind: KindInternal, Message: msg, Err: err}
}

// KindOf returns the Kind carried by err, or KindInternal for anything
// the scheduling layer did not classify.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindInternal
}

// Message returns the user-facing message for err.
func Message(err error) string {
	var se *Error
	if errors.As(err, &se) {
		return se.Message
	}
	return "Server error"
}
