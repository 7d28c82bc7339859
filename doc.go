// Package sparseset provides a sparse/dense index set: O(1) insert and
// membership over a bounded integer domain, with insertion-ordered iteration
// and manually managed backing storage.
//
// # Quick Start
//
//	s := sparseset.New[uint32](1024)   // domain [0, 1024)
//	_ = s.Insert(42)
//	s.Contains(42)                     // true
//	for v := range s.All() { ... }     // first-insertion order
//	s.Clear()                          // O(1)
//
// # Storage
//
// A set owns two buffers of Cap() elements each. The dense buffer holds the
// members in insertion order; the sparse buffer maps a value's index to its
// dense position. Sparse entries are never cleared, so membership is always
// confirmed with a cross-check:
//
//	idx < Cap() && sparse[idx] < Len() && dense[sparse[idx]] == idx
//
// Buffers come from the Go heap by default. WithAllocator(OffHeapAllocator())
// places them in anonymous memory mappings instead, and
// WithResourceController charges them against a shared memory budget.
// Allocation failure is fatal: it panics rather than returning an error.
//
// # Errors
//
// Insert rejects values outside [0, Cap()) with a *RangeError wrapping
// ErrCapacityExceeded, and values that cannot be converted to an index (for
// example negative ones) with one wrapping ErrConversion. Contains reports
// false for both; Lookup is its checked form.
//
// # Resize
//
// Resize changes the capacity and always removes every member, whether the set
// grows, shrinks or keeps its size.
//
// # Serialization
//
// The serialized form is the member list in insertion order. Capacity and the
// sparse buffer are never encoded; decoding rebuilds the capacity as max+1
// (0 for an empty list), and duplicate entries collapse to their first
// occurrence. Set implements json.Marshaler, encoding.BinaryMarshaler
// (group-varint) and their decoding counterparts. See the snapshot package for
// persisting sets to blob stores.
//
// # Concurrency
//
// A Set is not safe for concurrent use. Locked wraps one behind a
// sync.RWMutex.
package sparseset
