package sparseset

import (
	"github.com/hupe1980/sparseset/internal/mem"
	"github.com/hupe1980/sparseset/resource"
)

// Allocator manages the two backing buffers of a set.
// Use HeapAllocator or OffHeapAllocator.
type Allocator = mem.Allocator

// HeapAllocator returns the default allocator: cache-line aligned blocks from
// the Go heap.
func HeapAllocator() Allocator { return mem.Heap{} }

// OffHeapAllocator returns an allocator backed by anonymous memory mappings.
// Buffers live outside the Go heap, are never scanned by the garbage
// collector, and are returned to the OS on Release. Sets using it should be
// released explicitly.
func OffHeapAllocator() Allocator { return mem.OffHeap{} }

type options struct {
	allocator Allocator
	rc        *resource.Controller
	logger    *Logger
}

// Option configures a Set.
type Option func(*options)

// WithAllocator configures the allocator for the set's buffers.
//
// If nil is passed, HeapAllocator is used.
func WithAllocator(a Allocator) Option {
	return func(o *options) {
		if a == nil {
			a = HeapAllocator()
		}
		o.allocator = a
	}
}

// WithResourceController charges the set's buffers against a shared memory
// budget. An allocation the budget cannot cover is fatal, like any other
// allocation failure.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) {
		o.rc = rc
	}
}

// WithLogger configures the logger. Only allocation, resize and release are
// logged (at debug level).
//
// If nil is passed, NoopLogger is used.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		allocator: HeapAllocator(),
		logger:    NoopLogger(),
	}
	for _, fn := range optFns {
		fn(&o)
	}
	return o
}
