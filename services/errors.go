package services

import (
	"errors"
	"fmt"
)

// Terminal failures returned to the immediate caller. None of these are
// retried internally: they reflect the permission model or a state-machine
// invariant, not infrastructure flakiness.
var (
	ErrNotAMember       = errors.New("access denied: not a member of this budget")
	ErrForbidden        = errors.New("forbidden")
	ErrNotFound         = errors.New("not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrAlreadyMember    = errors.New("user is already a member of this budget")
	ErrDuplicateInvite  = errors.New("an invitation for this user is already pending")
	ErrAlreadyResponded = errors.New("invitation has already been responded to")
)

// ValidationError carries per-field messages, checked before any state
// change.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %v", e.Fields)
}

func newValidationError() *ValidationError {
	return &ValidationError{Fields: map[string]string{}}
}

func (e *ValidationError) add(field, message string) {
	if _, taken := e.Fields[field]; !taken {
		e.Fields[field] = message
	}
}

func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}
