package core

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by engines and transports. Match with errors.Is.
var (
	// ErrInvalidArgument reports a caller mistake detected before any catalog access.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrDataAccess reports that the underlying catalog could not be read.
	ErrDataAccess = errors.New("data access failure")
)

// ArgumentError describes a rejected argument.
type ArgumentError struct {
	Field  string
	Reason string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Unwrap lets errors.Is match ErrInvalidArgument.
func (e *ArgumentError) Unwrap() error {
	return ErrInvalidArgument
}

// DataAccessError wraps a failure of the catalog.
type DataAccessError struct {
	Op  string
	Err error
}

func (e *DataAccessError) Error() string {
	return fmt.Sprintf("data access failure during %s: %v", e.Op, e.Err)
}

// Unwrap returns both the sentinel and the cause so either can be matched.
func (e *DataAccessError) Unwrap() []error {
	return []error{ErrDataAccess, e.Err}
}

// NewDataAccessError wraps err unless it already is a DataAccessError.
func NewDataAccessError(op string, err error) error {
	var dae *DataAccessError
	if errors.As(err, &dae) {
		return err
	}
	return &DataAccessError{Op: op, Err: err}
}
