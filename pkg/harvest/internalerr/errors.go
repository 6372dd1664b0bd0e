package internalerr

import (
	"errors"
	"fmt"
)

// Sentinel errors for common cases
var (
	ErrNotInitialized = errors.New("source connector not initialized")
	ErrValidation     = errors.New("invalid input")
	ErrNotFound       = errors.New("not found")
	ErrStoreClosed    = errors.New("store closed")
)

// TransportError marks a failed call against the external content API.
// It carries the container being worked on when the call failed, since a
// collection run aborts wholesale and the caller only sees this one value.
type TransportError struct {
	Container string
	Err       error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport failure in container %q: %v", e.Container, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
