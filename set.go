package sparseset

import (
	"fmt"
	"iter"
	"strings"

	"github.com/hupe1980/sparseset/internal/conv"
	"github.com/hupe1980/sparseset/internal/mem"
)

// Value is the set of element kinds a Set can hold: integers that convert
// losslessly to an array index. Named integer types are accepted.
type Value interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// Set is a sparse/dense index set over the domain [0, Cap()).
//
// Insert and Contains are O(1). Iteration yields the members in first
// insertion order. Clear is O(1) and does not touch the buffers.
//
// The zero value is an empty set of capacity 0 using the heap allocator.
//
// A Set is not safe for concurrent use; wrap it in a Locked to share it
// between goroutines.
type Set[T Value] struct {
	capacity int
	len      int
	// dense[0:len] holds the members in insertion order.
	dense *mem.Buffer[T]
	// sparse[idx] is the dense position of the value with index idx. Entries
	// are never cleared; every read is cross-checked against dense and len.
	sparse *mem.Buffer[T]
	opts   options
	ready  bool
}

// New creates a set that can hold values with indexes in [0, capacity).
// Capacity 0 allocates nothing. New panics if capacity is negative, or with
// an allocation error if the buffers cannot be allocated.
func New[T Value](capacity int, optFns ...Option) *Set[T] {
	if capacity < 0 {
		panic(fmt.Sprintf("sparseset: negative capacity %d", capacity))
	}
	s := &Set[T]{opts: applyOptions(optFns), ready: true}
	s.alloc(capacity)
	return s
}

func (s *Set[T]) cfg() *options {
	if !s.ready {
		s.opts = applyOptions(nil)
		s.ready = true
	}
	return &s.opts
}

func (s *Set[T]) alloc(capacity int) {
	o := s.cfg()
	// Both buffers exist before either allocates, so a failed allocation
	// leaves a set that Release can clean up.
	s.dense = mem.NewBuffer[T](o.allocator, o.rc, 0)
	s.sparse = mem.NewBuffer[T](o.allocator, o.rc, 0)
	s.dense.Resize(capacity)
	s.sparse.Resize(capacity)
	s.capacity = capacity
	s.len = 0
	if capacity > 0 {
		o.logger.LogAlloc(o.allocator.Name(), capacity, s.MemoryUsage())
	}
}

// Len returns the number of members.
func (s *Set[T]) Len() int { return s.len }

// Cap returns the capacity: the size of the index domain [0, Cap()).
func (s *Set[T]) Cap() int { return s.capacity }

// IsEmpty reports whether the set has no members.
func (s *Set[T]) IsEmpty() bool { return s.len == 0 }

// position runs the membership cross-check for index idx and returns the
// dense position on success.
func (s *Set[T]) position(idx int) (int, bool) {
	if s.len == 0 || idx >= s.capacity {
		return 0, false
	}
	i, err := conv.ToIndex(s.sparse.Items()[idx])
	if err != nil || i >= s.len {
		return 0, false
	}
	j, err := conv.ToIndex(s.dense.Items()[i])
	if err != nil || j != idx {
		return 0, false
	}
	return i, true
}

// Contains reports whether v is a member. Values outside the domain,
// including those that cannot be converted to an index, are never members.
func (s *Set[T]) Contains(v T) bool {
	idx, err := conv.ToIndex(v)
	if err != nil {
		return false
	}
	_, ok := s.position(idx)
	return ok
}

// Lookup is the checked form of Contains. It returns a *RangeError wrapping
// ErrOutOfRange or ErrConversion instead of false for values outside the
// domain.
func (s *Set[T]) Lookup(v T) (bool, error) {
	idx, err := conv.ToIndex(v)
	if err != nil {
		return false, &RangeError{Op: "lookup", Value: v, Index: -1, Capacity: s.capacity, Kind: ErrConversion, cause: err}
	}
	if idx >= s.capacity {
		return false, &RangeError{Op: "lookup", Value: v, Index: idx, Capacity: s.capacity, Kind: ErrOutOfRange}
	}
	_, ok := s.position(idx)
	return ok, nil
}

// Index returns the insertion position of v, or -1 if v is not a member.
func (s *Set[T]) Index(v T) int {
	idx, err := conv.ToIndex(v)
	if err != nil {
		return -1
	}
	if i, ok := s.position(idx); ok {
		return i
	}
	return -1
}

// Insert adds v to the set. Inserting a member is a no-op.
//
// Values whose index lies outside [0, Cap()) are rejected with a *RangeError
// wrapping ErrCapacityExceeded; values that cannot be converted to an index
// are rejected with one wrapping ErrConversion. The set is unchanged on error.
func (s *Set[T]) Insert(v T) error {
	idx, err := conv.ToIndex(v)
	if err != nil {
		return &RangeError{Op: "insert", Value: v, Index: -1, Capacity: s.capacity, Kind: ErrConversion, cause: err}
	}
	if idx >= s.capacity {
		return &RangeError{Op: "insert", Value: v, Index: idx, Capacity: s.capacity, Kind: ErrCapacityExceeded}
	}
	if _, ok := s.position(idx); ok {
		return nil
	}
	pos, err := conv.FromIndex[T](s.len)
	if err != nil {
		return &RangeError{Op: "insert", Value: v, Index: idx, Capacity: s.capacity, Kind: ErrConversion, cause: err}
	}
	s.dense.Items()[s.len] = v
	s.sparse.Items()[idx] = pos
	s.len++
	return nil
}

// MustInsert is like Insert but panics on error.
func (s *Set[T]) MustInsert(v T) {
	if err := s.Insert(v); err != nil {
		panic(err)
	}
}

// Clear removes all members. The capacity is unchanged.
func (s *Set[T]) Clear() { s.len = 0 }

// Resize changes the capacity and removes all members, regardless of whether
// the set grows, shrinks or keeps its capacity. It panics if capacity is
// negative, or with an allocation error if the buffers cannot be resized.
func (s *Set[T]) Resize(capacity int) {
	if capacity < 0 {
		panic(fmt.Sprintf("sparseset: negative capacity %d", capacity))
	}
	s.len = 0
	if capacity == s.capacity {
		return
	}
	if s.dense == nil {
		s.alloc(capacity)
		return
	}
	o := s.cfg()
	from := s.capacity
	s.dense.Resize(capacity)
	s.sparse.Resize(capacity)
	s.capacity = capacity
	o.logger.LogResize(o.allocator.Name(), from, capacity, s.MemoryUsage())
}

// Release returns both buffers to the allocator and the memory budget. The
// set is left empty with capacity 0 and may be resized again.
func (s *Set[T]) Release() {
	if s.dense == nil {
		return
	}
	o := s.cfg()
	capacity, bytes := s.capacity, s.MemoryUsage()
	s.dense.Release()
	s.sparse.Release()
	s.capacity = 0
	s.len = 0
	if capacity > 0 {
		o.logger.LogRelease(o.allocator.Name(), capacity, bytes)
	}
}

// MemoryUsage returns the number of bytes owned by the set's buffers.
func (s *Set[T]) MemoryUsage() int {
	if s.dense == nil {
		return 0
	}
	return s.dense.Bytes() + s.sparse.Bytes()
}

// At returns the member at insertion position i.
// It panics if i is not in [0, Len()).
func (s *Set[T]) At(i int) T {
	if i < 0 || i >= s.len {
		panic(fmt.Sprintf("sparseset: index %d out of range [0, %d)", i, s.len))
	}
	return s.dense.Items()[i]
}

// Values returns the members in insertion order. The slice is a read-only
// view into the set's storage, not a copy: any later Insert, Clear, Resize or
// Release invalidates it, and its elements may then change. Callers must not
// modify it; use slices.Clone to keep the members.
func (s *Set[T]) Values() []T {
	if s.len == 0 {
		return nil
	}
	return s.dense.Items()[:s.len:s.len]
}

// All returns an iterator over the members in insertion order.
func (s *Set[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for i := 0; i < s.len; i++ {
			if !yield(s.dense.Items()[i]) {
				return
			}
		}
	}
}

// Clone returns a deep copy with its own buffers and the same options.
// Mutating either set never affects the other.
func (s *Set[T]) Clone() *Set[T] {
	c := &Set[T]{opts: *s.cfg(), ready: true}
	c.alloc(s.capacity)
	if s.capacity > 0 {
		c.dense.CopyFrom(s.dense, s.len)
		c.sparse.CopyFrom(s.sparse, s.capacity)
	}
	c.len = s.len
	return c
}

// String formats the members in insertion order, e.g. {3, 1, 5}.
func (s *Set[T]) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, v := range s.Values() {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%d", v)
	}
	b.WriteByte('}')
	return b.String()
}
