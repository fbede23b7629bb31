// Package error defines domain-specific errors for the Diet Tracker application.
package error

import (
	"errors"
	"fmt"
)

// Data store error kinds. A StoreError matches exactly one of these with errors.Is.
var (
	// ErrNotFound is returned by use cases when a required record is missing.
	// Store lookups report a miss as a nil record, never with this error.
	ErrNotFound = errors.New("record not found")

	// ErrConflict is returned when a write violates a uniqueness constraint.
	ErrConflict = errors.New("record conflicts with an existing one")

	// ErrBackendUnavailable is returned when the active store cannot be reached or rejects our credentials.
	ErrBackendUnavailable = errors.New("storage backend unavailable")

	// ErrUnknown is returned for any other backend failure.
	ErrUnknown = errors.New("unknown storage error")
)

// StoreError wraps a native backend error with its classified kind.
// Unwrap exposes both, so callers can test the kind and still inspect the cause.
type StoreError struct {
	Kind error
	Op   string
	Err  error
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Kind.Error(), e.Err.Error())
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Kind.Error())
}

// Unwrap returns the kind and the underlying backend error.
func (e *StoreError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// NewStoreError creates a new StoreError. A nil kind is treated as ErrUnknown.
func NewStoreError(op string, kind error, err error) *StoreError {
	if kind == nil {
		kind = ErrUnknown
	}
	return &StoreError{
		Kind: kind,
		Op:   op,
		Err:  err,
	}
}

// IsConflict reports whether err is a uniqueness violation raised by a data store.
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

// IsBackendUnavailable reports whether err means the data store could not be reached.
func IsBackendUnavailable(err error) bool {
	return errors.Is(err, ErrBackendUnavailable)
}
