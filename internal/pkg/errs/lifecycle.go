package errs

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidTransition = errors.New("invalid transition")
	ErrConflict          = errors.New("concurrent modification")
	ErrPermissionDenied  = errors.New("permission denied")
	ErrExpired           = errors.New("expired")
)

// InvalidTransitionError reports a state machine rule violation. The state of the
// entity is left unchanged.
type InvalidTransitionError struct {
	Entity string
	From   string
	To     string
	Cause  error
}

func NewInvalidTransitionError(entity, from, to string) *InvalidTransitionError {
	return &InvalidTransitionError{Entity: entity, From: from, To: to}
}

func NewInvalidTransitionErrorWithCause(entity, from, to string, cause error) *InvalidTransitionError {
	return &InvalidTransitionError{Entity: entity, From: from, To: to, Cause: cause}
}

func (e *InvalidTransitionError) Error() string {
	msg := fmt.Sprintf("%s: %s cannot move from %s to %s", ErrInvalidTransition, e.Entity, e.From, e.To)
	if e.Cause != nil {
		return fmt.Sprintf("%s (cause: %v)", msg, e.Cause)
	}
	return msg
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// Is lets callers match the cause as well as the sentinel.
func (e *InvalidTransitionError) Is(target error) bool {
	return e.Cause != nil && errors.Is(e.Cause, target)
}

// ConflictError reports that a concurrent writer changed the record first.
// The whole operation may be retried by the caller.
type ConflictError struct {
	Entity string
	ID     any
	Cause  error
}

func NewConflictError(entity string, id any) *ConflictError {
	return &ConflictError{Entity: entity, ID: id}
}

func NewConflictErrorWithCause(entity string, id any, cause error) *ConflictError {
	return &ConflictError{Entity: entity, ID: id, Cause: cause}
}

func (e *ConflictError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s %v (cause: %v)", ErrConflict, e.Entity, e.ID, e.Cause)
	}
	return fmt.Sprintf("%s: %s %v", ErrConflict, e.Entity, e.ID)
}

func (e *ConflictError) Unwrap() error {
	return ErrConflict
}

func (e *ConflictError) Is(target error) bool {
	return e.Cause != nil && errors.Is(e.Cause, target)
}

// PermissionError reports an actor that may not perform the requested action.
type PermissionError struct {
	Actor  string
	Action string
}

func NewPermissionError(actor, action string) *PermissionError {
	return &PermissionError{Actor: actor, Action: action}
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("%s: %s may not %s", ErrPermissionDenied, e.Actor, e.Action)
}

func (e *PermissionError) Unwrap() error {
	return ErrPermissionDenied
}

// ExpiredError reports an action attempted after its deadline passed.
type ExpiredError struct {
	Subject  string
	Deadline time.Time
}

func NewExpiredError(subject string, deadline time.Time) *ExpiredError {
	return &ExpiredError{Subject: subject, Deadline: deadline}
}

func (e *ExpiredError) Error() string {
	return fmt.Sprintf("%s: %s deadline was %s", ErrExpired, e.Subject, e.Deadline.UTC().Format(time.RFC3339))
}

func (e *ExpiredError) Unwrap() error {
	return ErrExpired
}
