// Package mem is the backing storage manager for sparse sets.
//
// It owns raw byte blocks and exposes them as typed, fixed-length views. This
// is the only package in the module that uses unsafe: block addresses are
// aligned here and reinterpreted as element slices here, and nowhere else.
//
// # Allocators
//
//   - Heap: 64-byte aligned blocks from the Go heap; reallocation is allocate-copy.
//   - OffHeap: anonymous mmap regions outside the garbage collector; reallocation
//     uses mremap on Linux and is released to the OS on Deallocate.
//
// # Failure Policy
//
// Allocation failure is fatal. Buffer methods never return allocation errors;
// they panic with an *AllocError whose chain contains ErrOutOfMemory and the
// underlying cause (mmap failure, resource.ErrMemoryLimitExceeded, size overflow).
//
// Zero-length buffers allocate nothing and hold a placeholder block.
package mem
