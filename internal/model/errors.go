package model

import "errors"

// Error classes returned by the domain, services and repositories.
// Concrete errors wrap exactly one of these, so callers can branch with errors.Is.
var (
	ErrValidation        = errors.New("validation failed")
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrIllegalTransition = errors.New("illegal status transition")
	ErrPersistence       = errors.New("persistence failure")
)
