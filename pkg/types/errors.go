package types

import (
	"errors"
	"fmt"
)

// Domain errors for type validation
var (
	// Match record errors
	ErrInvalidRow      = errors.New("row must be >= 1")
	ErrInvalidColumn   = errors.New("column must be >= 0")
	ErrInvalidPosition = errors.New("position must be >= column")
	ErrInvalidLength   = errors.New("length must be >= 0")
)

// Failure kinds reported by scans and multi-file searches. Use errors.Is to
// classify an error returned from the scanner or the finder.
var (
	ErrIO          = errors.New("io failure")
	ErrConcurrency = errors.New("concurrency failure")
)

// IOError reports a file that could not be opened or read.
type IOError struct {
	Path string
	Op   string // "open" or "read"
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrIO.
func (e *IOError) Is(target error) bool {
	return target == ErrIO
}

// ConcurrencyError reports a worker that could not run to completion, for
// instance because it panicked.
type ConcurrencyError struct {
	Worker int
	Value  interface{}
}

func (e *ConcurrencyError) Error() string {
	return fmt.Sprintf("worker %d failed: %v", e.Worker, e.Value)
}

// Is reports whether target is ErrConcurrency.
func (e *ConcurrencyError) Is(target error) bool {
	return target == ErrConcurrency
}
