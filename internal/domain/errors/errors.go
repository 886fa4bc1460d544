package errors

import (
	"errors"
	"fmt"
)

var (
	ErrAuthRejected = errors.New("authentication rejected")
	ErrNotFound     = errors.New("not found")
)

// ValidationError reports invalid input before or after a round trip.
// Local validation produces it without touching any state.
type ValidationError struct {
	Detail string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", e.Detail)
}

// NetworkError wraps transport and decode failures. Retry is left to the
// caller.
type NetworkError struct {
	Op    string
	Cause error
}

func (e NetworkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Cause)
}

func (e NetworkError) Unwrap() error {
	return e.Cause
}
