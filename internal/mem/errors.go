package mem

import (
	"errors"
	"fmt"
)

// ErrOutOfMemory is the class of every allocation failure.
var ErrOutOfMemory = errors.New("mem: out of memory")

// AllocError describes a failed allocation or reallocation.
//
// Allocation failure is fatal: Buffer operations panic with an *AllocError
// instead of returning it. The underlying cause (mmap errno, memory budget
// denial, size overflow) is matched by errors.Is and errors.As.
type AllocError struct {
	Op        string
	Bytes     int
	Allocator string
	cause     error
}

func (e *AllocError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("mem: %s of %d bytes via %s allocator failed: %v", e.Op, e.Bytes, e.Allocator, e.cause)
	}
	return fmt.Sprintf("mem: %s of %d bytes via %s allocator failed", e.Op, e.Bytes, e.Allocator)
}

func (e *AllocError) Unwrap() []error { return []error{ErrOutOfMemory, e.cause} }
