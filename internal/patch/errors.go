package patch

import (
	"errors"
	"fmt"
)

// ErrPatternNotFound is returned when the expected substring is absent.
// The target file is never modified in that case.
var ErrPatternNotFound = errors.New("pattern not found")

// Error wraps an I/O failure with the operation and file it happened on
type Error struct {
	Op   string // "read", "write", "backup"
	Path string
	Err  error
}

// Error implements error interface. The os errors wrapped here already
// carry the path, so it is not repeated.
func (e *Error) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

// Unwrap implements error unwrapping
func (e *Error) Unwrap() error {
	return e.Err
}

func newError(op, path string, err error) *Error {
	return &Error{Op: op, Path: path, Err: err}
}
