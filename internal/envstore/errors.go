package envstore

import (
	"errors"
	"fmt"
)

var (
	// ErrWriteFailed is the single failure kind of the package; every write error wraps it.
	ErrWriteFailed = errors.New("environment write failed")
	// ErrAmbiguousName is returned for names that look like inbound HTTP header mirrors.
	ErrAmbiguousName = errors.New("refusing ambiguous HTTP header variable")
)

// WriteError describes a failed write of Name into Sink.
type WriteError struct {
	Name string
	Sink string
	Err  error
}

func (e *WriteError) Error() string {
	if e.Sink == "" {
		return fmt.Sprintf("%s: %s: %v", ErrWriteFailed, e.Name, e.Err)
	}
	return fmt.Sprintf("%s: %s (sink %s): %v", ErrWriteFailed, e.Name, e.Sink, e.Err)
}

// Is reports ErrWriteFailed for every WriteError.
func (e *WriteError) Is(target error) bool {
	return target == ErrWriteFailed
}

func (e *WriteError) Unwrap() error {
	return e.Err
}
