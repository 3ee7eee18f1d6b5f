// Package services holds the business logic behind the HTTP layer.
// Every failure is one of the typed kinds below so controllers can map
// it to a precise status code, the same way repository sentinel errors
// are matched with errors.Is.
package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound: an id does not resolve to an active record.
	ErrNotFound = errors.New("not found")

	// ErrConflict: uniqueness violation, overlapping booking, refund
	// exceeding the net paid balance, or an illegal room-status
	// override.
	ErrConflict = errors.New("conflict")

	// ErrInvalidTransition: an illegal state-machine edge.
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrPrecondition: the operation requires a state the record is
	// not currently in (e.g. check-in on a non-confirmed reservation).
	ErrPrecondition = errors.New("precondition failed")

	// ErrValidation: malformed or out-of-range input.
	ErrValidation = errors.New("validation failed")
)

func notFoundErr(entity string, id uint) error {
	return fmt.Errorf("%s %d: %w", entity, id, ErrNotFound)
}

func conflictErr(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrConflict)...)
}

func transitionErr(entity string, id uint, from, to string) error {
	return fmt.Errorf("%s %d: %s -> %s: %w", entity, id, from, to, ErrInvalidTransition)
}

func preconditionErr(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrPrecondition)...)
}

func validationErr(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrValidation)...)
}

// isDuplicateKeyErr detects unique-index violations across the MySQL
// and sqlite drivers.
func isDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") ||
		strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicated key")
}
