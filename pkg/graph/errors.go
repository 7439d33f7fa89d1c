package graph

import (
	"errors"
	"fmt"
)

// Sentinel errors
var (
	ErrUnknownNode  = errors.New("unknown node")
	ErrInvalidGraph = errors.New("invalid graph")
)

// UnknownNodeError reports a lookup of a node id the graph does not hold.
type UnknownNodeError struct {
	Op string // operation that failed, e.g. "out_edges"
	ID string
}

// Error implements the error interface.
func (e *UnknownNodeError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Op, e.ID, ErrUnknownNode)
}

// Unwrap returns ErrUnknownNode so callers can match with errors.Is.
func (e *UnknownNodeError) Unwrap() error {
	return ErrUnknownNode
}

func unknownNode(op, id string) error {
	return &UnknownNodeError{Op: op, ID: id}
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidGraph, fmt.Sprintf(format, args...))
}
