package storage

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	ErrNotFound    = errors.New("blob not found")
	ErrNoSnapshot  = errors.New("no graph snapshot")
	ErrInvalidKey  = errors.New("invalid key")
	ErrCorruptBlob = errors.New("corrupt blob")
)

// StoreError provides structured error information for blob store operations.
type StoreError struct {
	Op      string // Operation that failed (e.g., "put", "list")
	Backend string // Backend name (e.g., "local", "s3")
	Key     string // Blob key or list prefix
	Cause   error  // Underlying error
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("%s %s %q: %v", e.Backend, e.Op, e.Key, e.Cause)
	}
	return fmt.Sprintf("%s %s: %v", e.Backend, e.Op, e.Cause)
}

// Unwrap returns the underlying cause for error chain support.
func (e *StoreError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target error matches this error's cause.
func (e *StoreError) Is(target error) bool {
	if target == nil {
		return false
	}
	return errors.Is(e.Cause, target)
}

// ErrorBuilder provides a fluent interface for building StoreErrors.
type ErrorBuilder struct {
	err StoreError
}

// NewError creates a new error builder with the given operation.
func NewError(op string) *ErrorBuilder {
	return &ErrorBuilder{err: StoreError{Op: op}}
}

// Backend sets the backend name.
func (b *ErrorBuilder) Backend(name string) *ErrorBuilder {
	b.err.Backend = name
	return b
}

// Key sets the blob key.
func (b *ErrorBuilder) Key(key string) *ErrorBuilder {
	b.err.Key = key
	return b
}

// Cause sets the underlying error cause.
func (b *ErrorBuilder) Cause(err error) *ErrorBuilder {
	b.err.Cause = err
	return b
}

// Err returns the error as an error interface.
func (b *ErrorBuilder) Err() error {
	return &b.err
}

// IsNotFound returns true if the key or snapshot does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrNoSnapshot)
}
