package sparseset

import (
	"iter"
	"slices"
)

// Equal reports whether s and other hold the same members in the same
// insertion order. Capacity is not compared. A nil set equals an empty one.
func (s *Set[T]) Equal(other *Set[T]) bool {
	return slices.Equal(s.values(), other.values())
}

// EqualSlice reports whether the members of s, in insertion order, equal vs
// element by element.
func (s *Set[T]) EqualSlice(vs []T) bool {
	return slices.Equal(s.values(), vs)
}

// EqualSeq reports whether the members of s, in insertion order, equal the
// values yielded by seq. seq is consumed only until the first mismatch.
func (s *Set[T]) EqualSeq(seq iter.Seq[T]) bool {
	return EqualValues(s, seq)
}

// EqualValues compares the members of s, in insertion order, with the values
// yielded by seq, which may be of a different integer kind. Values are
// compared numerically, so int8(-1) never equals uint8(255).
func EqualValues[A, B Value](s *Set[A], seq iter.Seq[B]) bool {
	vals := s.values()
	i := 0
	for b := range seq {
		if i >= len(vals) || !sameValue(vals[i], b) {
			return false
		}
		i++
	}
	return i == len(vals)
}

func sameValue[A, B Value](a A, b B) bool {
	if a < 0 || b < 0 {
		return a < 0 && b < 0 && int64(a) == int64(b)
	}
	return uint64(a) == uint64(b)
}

func (s *Set[T]) values() []T {
	if s == nil {
		return nil
	}
	return s.Values()
}
