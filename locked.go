package sparseset

import "sync"

// Locked shares a Set between goroutines behind a sync.RWMutex.
//
// The lock is not reentrant: calling Read or Write on the same Locked from
// inside a Read or Write callback deadlocks.
type Locked[T Value] struct {
	mu  sync.RWMutex
	set *Set[T]
}

// NewLocked takes ownership of s. The caller must not use s directly
// afterwards.
func NewLocked[T Value](s *Set[T]) *Locked[T] {
	if s == nil {
		s = &Set[T]{}
	}
	return &Locked[T]{set: s}
}

// Read calls fn with the set under the read lock. fn must not retain the set
// or any slice obtained from it.
func (l *Locked[T]) Read(fn func(s *Set[T])) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	fn(l.set)
}

// Write calls fn with the set under the write lock. fn must not retain the
// set or any slice obtained from it.
func (l *Locked[T]) Write(fn func(s *Set[T])) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fn(l.set)
}

// Contains reports whether v is a member.
func (l *Locked[T]) Contains(v T) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.set.Contains(v)
}

// Len returns the number of members.
func (l *Locked[T]) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.set.Len()
}

// Insert adds v to the set.
func (l *Locked[T]) Insert(v T) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.set.Insert(v)
}

// Clear removes all members.
func (l *Locked[T]) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.set.Clear()
}

// Snapshot returns a clone of the set taken under the read lock.
func (l *Locked[T]) Snapshot() *Set[T] {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.set.Clone()
}
