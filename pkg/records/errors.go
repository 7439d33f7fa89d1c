package records

import (
	"errors"
	"fmt"
)

// ErrMalformedRecord marks a record that is structurally unusable: a missing
// id or a value outside its valid range.
var ErrMalformedRecord = errors.New("malformed record")

// MalformedRecordError describes which record failed and why.
type MalformedRecordError struct {
	Entity string // "company" or "asset"
	Index  int    // position in the input, 0-based
	ID     string // record id when known
	Field  string
	Cause  error
}

// Error implements the error interface.
func (e *MalformedRecordError) Error() string {
	subject := fmt.Sprintf("%s record %d", e.Entity, e.Index)
	if e.ID != "" {
		subject = fmt.Sprintf("%s record %d (%s)", e.Entity, e.Index, e.ID)
	}
	if e.Field != "" {
		return fmt.Sprintf("%s: %s field %s: %v", ErrMalformedRecord, subject, e.Field, e.Cause)
	}
	return fmt.Sprintf("%s: %s: %v", ErrMalformedRecord, subject, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *MalformedRecordError) Unwrap() error {
	return e.Cause
}

// Is matches ErrMalformedRecord as well as anything the cause matches.
func (e *MalformedRecordError) Is(target error) bool {
	if target == ErrMalformedRecord {
		return true
	}
	return errors.Is(e.Cause, target)
}

// Malformed builds a MalformedRecordError.
func Malformed(entity string, index int, id, field string, cause error) error {
	return &MalformedRecordError{Entity: entity, Index: index, ID: id, Field: field, Cause: cause}
}
