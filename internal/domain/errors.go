package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrInsufficientStock   = errors.New("insufficient stock")
	ErrConstraintViolation = errors.New("constraint violation")
	ErrStorageFailure      = errors.New("storage failure")
)

const (
	CodeOK                  = "OK"
	CodeNotFound            = "NOT_FOUND"
	CodeInsufficientStock   = "INSUFFICIENT_STOCK"
	CodeConstraintViolation = "CONSTRAINT_VIOLATION"
	CodeStorageFailure      = "STORAGE_FAILURE"
)

// Storage wraps a driver error so it classifies as ErrStorageFailure while
// keeping the driver error in the chain.
func Storage(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", op, ErrStorageFailure, err)
}

// KindOf maps an error onto the ledger taxonomy. Unknown errors are storage failures.
func KindOf(err error) string {
	switch {
	case err == nil:
		return CodeOK
	case errors.Is(err, ErrNotFound):
		return CodeNotFound
	case errors.Is(err, ErrInsufficientStock):
		return CodeInsufficientStock
	case errors.Is(err, ErrConstraintViolation):
		return CodeConstraintViolation
	default:
		return CodeStorageFailure
	}
}

// LineError reports which draft line failed a checkout.
type LineError struct {
	Line int
	Err  error
}

func (e *LineError) Error() string { return fmt.Sprintf("line %d: %v", e.Line+1, e.Err) }
func (e *LineError) Unwrap() error { return e.Err }
