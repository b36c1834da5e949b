package shared

import (
	"errors"
	"fmt"
)

// Severity is how loudly a recovered error should be presented
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// ValidationError is returned for a missing or invalid input, such as an unknown
// honor type or an inactive period
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// ConflictError is returned when a pending application already exists for the period
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// DataUnavailableError is returned when the requested scope has no processed grades
// or the requested record does not exist
type DataUnavailableError struct {
	Message string
}

func (e *DataUnavailableError) Error() string { return e.Message }

// PersistenceError wraps a failed snapshot or application write
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s failed", e.Op)
	}
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func NewValidationError(msg string) error      { return &ValidationError{Message: msg} }
func NewConflictError(msg string) error        { return &ConflictError{Message: msg} }
func NewDataUnavailableError(msg string) error { return &DataUnavailableError{Message: msg} }

func NewPersistenceError(op string, err error) error {
	return &PersistenceError{Op: op, Err: err}
}

// Recover turns any error into the (message, severity) pair shown to the caller.
// Persistence failures are reported generically; their cause is for the logs.
func Recover(err error) (string, Severity) {
	if err == nil {
		return "", SeverityInfo
	}

	var (
		validation *ValidationError
		conflict   *ConflictError
		missing    *DataUnavailableError
		persist    *PersistenceError
	)
	switch {
	case errors.As(err, &validation):
		return validation.Message, SeverityWarning
	case errors.As(err, &conflict):
		return conflict.Message, SeverityWarning
	case errors.As(err, &missing):
		return missing.Message, SeverityInfo
	case errors.As(err, &persist):
		return "We could not save your request. Please try again later.", SeverityError
	default:
		return "An unexpected error occurred.", SeverityError
	}
}
