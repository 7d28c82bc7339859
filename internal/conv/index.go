package conv

import (
	"fmt"
	"math"
)

// Integer is the set of value kinds that can stand in for an array index.
// Named types are accepted through the ~ approximation.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// ToIndex converts a domain value to a non-negative int index.
// It fails for negative values and for values above math.MaxInt.
func ToIndex[T Integer](v T) (int, error) {
	if v < 0 {
		return 0, fmt.Errorf("%w: %d cannot be converted to index (negative)", ErrOverflow, v)
	}
	u := uint64(v)
	if u > uint64(math.MaxInt) {
		return 0, fmt.Errorf("%w: %d cannot be converted to index (too large)", ErrOverflow, u)
	}
	return int(u), nil
}

// FromIndex converts an index back to a domain value.
// It fails when the index is negative or does not survive the round trip
// through T (e.g. 300 into a uint8).
func FromIndex[T Integer](i int) (T, error) {
	if i < 0 {
		return 0, fmt.Errorf("%w: index %d is negative", ErrOverflow, i)
	}
	v := T(i)
	if v < 0 || uint64(v) != uint64(i) {
		return 0, fmt.Errorf("%w: index %d does not fit %T", ErrOverflow, i, v)
	}
	return v, nil
}
