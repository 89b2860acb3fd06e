package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

var (
	// ErrConnection is returned when the store cannot be opened or reached.
	ErrConnection = errors.New("unable to connect to database")

	// ErrConstraintViolation is returned when roll or email is already taken.
	ErrConstraintViolation = errors.New("unique constraint violation")

	// ErrNotFound is returned when no record matches the id.
	ErrNotFound = errors.New("record not found")

	// ErrValidation is returned when a required field is empty.
	ErrValidation = errors.New("validation failed")

	// ErrStore covers every other storage failure.
	ErrStore = errors.New("store error")
)

// Error keeps the failing operation and the driver error next to the sentinel
// kind, so callers can use errors.Is(err, ErrNotFound) and still log the cause.
type Error struct {
	Op   string
	Kind error
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Is(target error) bool { return e.Kind == target }
func (e *Error) Unwrap() error        { return e.Err }

func IsNotFound(err error) bool            { return errors.Is(err, ErrNotFound) }
func IsConstraintViolation(err error) bool { return errors.Is(err, ErrConstraintViolation) }
func IsConnection(err error) bool          { return errors.Is(err, ErrConnection) }
func IsValidation(err error) bool          { return errors.Is(err, ErrValidation) }

// wrap classifies err and attaches op. Already classified errors pass through.
func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *Error
	if errors.As(err, &se) {
		return err
	}
	return &Error{Op: op, Kind: classify(err), Err: err}
}

func classify(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrConstraintViolation
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return ErrConnection
	}

	// The sqlite translator only covers unique and foreign key codes.
	s := err.Error()
	switch {
	case strings.Contains(s, "UNIQUE constraint failed"):
		return ErrConstraintViolation
	case strings.Contains(s, "NOT NULL constraint failed"),
		strings.Contains(s, "CHECK constraint failed"):
		return ErrValidation
	case strings.Contains(s, "unable to open database file"),
		strings.Contains(s, "connection refused"):
		return ErrConnection
	}
	return ErrStore
}
