package service

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDateFormat marks a date path parameter that is not an
	// 8-digit YYYYMMDD calendar date.
	ErrInvalidDateFormat = errors.New("invalid date format")
	// ErrStoreUnavailable marks a failure to reach or query the store.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// DateError reports which parameter failed date validation.
type DateError struct {
	Param string
	Value string
}

func (e *DateError) Error() string {
	return fmt.Sprintf("invalid %s %q: expected %s", e.Param, e.Value, pathDateLayoutHint)
}

func (e *DateError) Unwrap() error { return ErrInvalidDateFormat }

// storeError tags repository failures with ErrStoreUnavailable while keeping
// the underlying cause (including context errors) reachable via errors.Is.
type storeError struct {
	err error
}

func (e *storeError) Error() string { return e.err.Error() }

func (e *storeError) Unwrap() []error { return []error{ErrStoreUnavailable, e.err} }

func wrapStore(err error) error {
	if err == nil {
		return nil
	}
	return &storeError{err: err}
}
