package sparseset

import (
	"errors"
	"fmt"

	"github.com/hupe1980/sparseset/internal/mem"
)

var (
	// ErrOutOfRange is returned by checked queries for values whose index lies
	// outside [0, capacity).
	ErrOutOfRange = errors.New("value out of range")

	// ErrCapacityExceeded is returned by Insert for values whose index lies
	// outside [0, capacity).
	ErrCapacityExceeded = errors.New("capacity exceeded")

	// ErrConversion is returned when a value cannot be converted to an index,
	// or an index cannot be converted back to a value.
	ErrConversion = errors.New("value/index conversion failed")

	// ErrInvalidEncoding is returned when decoding a malformed binary form.
	ErrInvalidEncoding = errors.New("invalid encoding")

	// ErrOutOfMemory is the class of allocation failures. New, Resize and
	// Clone panic with it; the decoding paths return it. A denied memory
	// budget additionally matches resource.ErrMemoryLimitExceeded.
	ErrOutOfMemory = mem.ErrOutOfMemory
)

// RangeError describes a rejected value.
//
// Kind is one of ErrOutOfRange, ErrCapacityExceeded or ErrConversion, so
// callers can branch with errors.Is. The underlying conversion error, if any,
// is also matched by errors.Is and errors.As.
type RangeError struct {
	Op       string
	Value    any
	Index    int // -1 if the value has no index
	Capacity int
	Kind     error
	cause    error
}

func (e *RangeError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("sparseset: %s %v: %v", e.Op, e.Value, e.Kind)
	}
	return fmt.Sprintf("sparseset: %s %v: index %d not in [0, %d): %v", e.Op, e.Value, e.Index, e.Capacity, e.Kind)
}

func (e *RangeError) Unwrap() []error {
	if e.cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.cause}
}
