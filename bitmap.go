package sparseset

import (
	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/sparseset/internal/conv"
)

// Bitmap returns the members as a roaring bitmap. Insertion order is lost.
// It fails with ErrConversion if a member does not fit in 32 bits.
func (s *Set[T]) Bitmap() (*roaring.Bitmap, error) {
	bm := roaring.New()
	for _, v := range s.Values() {
		u, err := memberToUint32(v)
		if err != nil {
			return nil, &RangeError{Op: "bitmap", Value: v, Index: -1, Capacity: s.capacity, Kind: ErrConversion, cause: err}
		}
		bm.Add(u)
	}
	return bm, nil
}

func memberToUint32[T Value](v T) (uint32, error) {
	idx, err := conv.ToIndex(v)
	if err != nil {
		return 0, err
	}
	return conv.IntToUint32(idx)
}

// FromBitmap builds a set holding the members of bm in ascending order. The
// capacity is bm.Maximum()+1, or 0 for an empty bitmap.
func FromBitmap[T Value](bm *roaring.Bitmap, optFns ...Option) (*Set[T], error) {
	if bm == nil || bm.IsEmpty() {
		return New[T](0, optFns...), nil
	}

	maxIdx, err := conv.Uint32ToInt(bm.Maximum())
	if err != nil {
		return nil, &RangeError{Op: "bitmap", Value: bm.Maximum(), Index: -1, Kind: ErrConversion, cause: err}
	}
	if _, err := conv.FromIndex[T](maxIdx); err != nil {
		return nil, &RangeError{Op: "bitmap", Value: bm.Maximum(), Index: maxIdx, Kind: ErrConversion, cause: err}
	}

	s := New[T](maxIdx+1, optFns...)
	it := bm.Iterator()
	for it.HasNext() {
		// Every member is <= maxIdx, which converts, so neither step can fail.
		v, _ := conv.FromIndex[T](int(it.Next()))
		s.MustInsert(v)
	}
	return s, nil
}

// Or inserts every member of bm into s. It fails without modifying s if a
// member lies outside [0, Cap()).
func (s *Set[T]) Or(bm *roaring.Bitmap) error {
	if bm == nil || bm.IsEmpty() {
		return nil
	}
	maxIdx, err := conv.Uint32ToInt(bm.Maximum())
	if err != nil || maxIdx >= s.capacity {
		return &RangeError{Op: "or", Value: bm.Maximum(), Index: -1, Capacity: s.capacity, Kind: ErrCapacityExceeded, cause: err}
	}
	if _, err := conv.FromIndex[T](maxIdx); err != nil {
		return &RangeError{Op: "or", Value: bm.Maximum(), Index: maxIdx, Capacity: s.capacity, Kind: ErrConversion, cause: err}
	}
	it := bm.Iterator()
	for it.HasNext() {
		v, _ := conv.FromIndex[T](int(it.Next()))
		s.MustInsert(v)
	}
	return nil
}
