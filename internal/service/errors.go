// Package service implements the reservation engine on top of the
// entity store: availability resolution, booking, the status lifecycle
// and the read-only query façade.  It is identity-agnostic; callers
// decide who may invoke which operation.
package service

import (
	"errors"
	"fmt"
)

// Error kinds.  Every error returned by this package that is caused by
// the request matches at least one of them with errors.Is; anything else
// is an internal failure.
var (
	ErrValidation        = errors.New("validation error")
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// Error is a client-facing failure.  Its message is safe to show to the
// caller and it unwraps to its kinds.
type Error struct {
	msg   string
	kinds []error
}

func newError(msg string, kinds ...error) *Error { return &Error{msg: msg, kinds: kinds} }

func (e *Error) Error() string   { return e.msg }
func (e *Error) Unwrap() []error { return e.kinds }

// withDetail returns a copy of e with detail appended to the message.
// The copy still matches e and e's kinds.
func (e *Error) withDetail(format string, args ...any) error {
	return &Error{
		msg:   e.msg + ": " + fmt.Sprintf(format, args...),
		kinds: append([]error{e}, e.kinds...),
	}
}

var (
	ErrInvalidDate = newError("date must be YYYY-MM-DD", ErrValidation)
	ErrInvalidTime = newError("time must be HH:MM (24-hour)", ErrValidation)
	ErrNoTables    = newError("at least one table id is required", ErrValidation)
	// ErrInvalidStatus is returned by the staff review path for targets
	// other than Accepted and Rejected.
	ErrInvalidStatus = newError("status must be Accepted or Rejected", ErrValidation, ErrInvalidTransition)

	ErrUnknownTable       = newError("table not found", ErrNotFound)
	ErrUnknownUser        = newError("user not found", ErrNotFound)
	ErrUnknownReservation = newError("reservation not found", ErrNotFound)

	ErrTablesTaken   = newError("tables already booked for this slot", ErrConflict)
	ErrDuplicate     = newError("already exists", ErrConflict)
	ErrTableInUse    = newError("table is referenced by reservations", ErrConflict)
	ErrBadTransition = newError("status change not allowed", ErrInvalidTransition)
)

// missingField reports a required request field that was empty.
func missingField(name string) error {
	return newError(name+" is required", ErrValidation)
}
