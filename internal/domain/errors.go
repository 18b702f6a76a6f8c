package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the reconciliation engine. Callers use errors.Is to
// map these onto transport-level responses.
var (
	// ErrInvalidRequest indicates malformed or missing input data.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrTripNotFound indicates the target trip does not exist in the store.
	ErrTripNotFound = errors.New("trip not found")

	// ErrSegmentNotFound indicates a referenced segment does not belong to the trip.
	ErrSegmentNotFound = errors.New("segment not found")

	// ErrNoLegs indicates an extraction event with no valid flight legs.
	ErrNoLegs = errors.New("no flight legs to process")

	// ErrStoreUnavailable indicates the trip store cannot be reached at all.
	ErrStoreUnavailable = errors.New("trip store unavailable")
)

// StoreError wraps a trip-store failure with the operation that produced it.
// Orchestration catches these per cluster; a StoreError never aborts the
// whole batch.
type StoreError struct {
	// Op is the store operation that failed (e.g., "create reservation")
	Op string

	// Err is the underlying error
	Err error

	// Retryable indicates whether the store adapter considers the failure
	// transient. The engine itself never retries clusters; this flag only
	// drives write-level retries inside store adapters.
	Retryable bool
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a non-retryable StoreError.
func NewStoreError(op string, err error) *StoreError {
	return &StoreError{Op: op, Err: err}
}

// NewRetryableStoreError creates a StoreError marked as transient.
func NewRetryableStoreError(op string, err error) *StoreError {
	return &StoreError{Op: op, Err: err, Retryable: true}
}

// IsRetryableStoreError reports whether err is a StoreError flagged transient.
func IsRetryableStoreError(err error) bool {
	var se *StoreError
	return errors.As(err, &se) && se.Retryable
}
