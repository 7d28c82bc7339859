package sparseset

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/dgryski/go-groupvarint"
	"github.com/hupe1980/sparseset/internal/conv"
	"github.com/hupe1980/sparseset/internal/mem"
)

// FromValues builds a set from an ordered value list, the serialized form of a
// set. The capacity is max(values)+1, or 0 for an empty list. Values are
// inserted in list order, so duplicates collapse to their first occurrence.
//
// Unlike New, FromValues reports allocation failures, including a denied
// memory budget, as an error wrapping ErrOutOfMemory.
func FromValues[T Value](values []T, optFns ...Option) (*Set[T], error) {
	capacity, err := capacityFor(values)
	if err != nil {
		return nil, err
	}
	s := &Set[T]{opts: applyOptions(optFns), ready: true}
	if err := s.fill(capacity, values); err != nil {
		s.Release()
		return nil, err
	}
	return s, nil
}

func capacityFor[T Value](values []T) (int, error) {
	maxIdx := -1
	for _, v := range values {
		idx, err := conv.ToIndex(v)
		if err != nil {
			return 0, &RangeError{Op: "decode", Value: v, Index: -1, Kind: ErrConversion, cause: err}
		}
		maxIdx = max(maxIdx, idx)
	}
	if maxIdx == math.MaxInt {
		return 0, &RangeError{Op: "decode", Value: maxIdx, Index: maxIdx, Capacity: math.MaxInt, Kind: ErrCapacityExceeded}
	}
	return maxIdx + 1, nil
}

// fill resizes s to capacity and inserts values in order. An allocation
// failure is returned as an error and leaves s released.
func (s *Set[T]) fill(capacity int, values []T) (err error) {
	defer recoverAlloc(s, &err)

	s.Resize(capacity)
	for _, v := range values {
		if err := s.Insert(v); err != nil {
			return err
		}
	}
	return nil
}

// recoverAlloc converts an allocation panic into *err. The buffers of s may
// be half resized at that point, so s is released. Other panics propagate.
func recoverAlloc[T Value](s *Set[T], err *error) {
	r := recover()
	if r == nil {
		return
	}
	ae, ok := r.(*mem.AllocError)
	if !ok {
		panic(r)
	}
	s.Release()
	*err = fmt.Errorf("sparseset: decode: %w", ae)
}

// reset replaces the contents of s with values, keeping the options of s.
func (s *Set[T]) reset(values []T) error {
	capacity, err := capacityFor(values)
	if err != nil {
		return err
	}
	return s.fill(capacity, values)
}

// MarshalJSON encodes the members as a JSON array in insertion order.
// Capacity is not encoded.
func (s *Set[T]) MarshalJSON() ([]byte, error) {
	buf := make([]byte, 0, 2+4*s.Len())
	buf = append(buf, '[')
	for i, v := range s.Values() {
		if i > 0 {
			buf = append(buf, ',')
		}
		if v < 0 {
			buf = strconv.AppendInt(buf, int64(v), 10)
		} else {
			buf = strconv.AppendUint(buf, uint64(v), 10)
		}
	}
	return append(buf, ']'), nil
}

// UnmarshalJSON replaces the contents of s with the values of a JSON array.
// The capacity becomes max+1 (0 for an empty array or null) and duplicates
// collapse to their first occurrence. Allocation failures are returned as an
// error wrapping ErrOutOfMemory and leave s released.
func (s *Set[T]) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var nums []json.Number
	if err := dec.Decode(&nums); err != nil {
		return fmt.Errorf("sparseset: decode json: %w", err)
	}

	values := make([]T, 0, len(nums))
	for _, n := range nums {
		v, err := parseValue[T](n.String())
		if err != nil {
			return err
		}
		values = append(values, v)
	}
	return s.reset(values)
}

func parseValue[T Value](str string) (T, error) {
	if len(str) > 0 && str[0] == '-' {
		i, err := strconv.ParseInt(str, 10, 64)
		if err != nil {
			return 0, &RangeError{Op: "decode", Value: str, Index: -1, Kind: ErrConversion, cause: err}
		}
		v := T(i)
		if v >= 0 || int64(v) != i {
			return 0, &RangeError{Op: "decode", Value: str, Index: -1, Kind: ErrConversion}
		}
		return v, nil
	}
	u, err := strconv.ParseUint(str, 10, 64)
	if err != nil {
		return 0, &RangeError{Op: "decode", Value: str, Index: -1, Kind: ErrConversion, cause: err}
	}
	v := T(u)
	if v < 0 || uint64(v) != u {
		return 0, &RangeError{Op: "decode", Value: str, Index: -1, Kind: ErrConversion}
	}
	return v, nil
}

const binaryVersion = 1

// Binary payload layouts.
const (
	layoutGroupVarint = 0 // groups of four uint32, group-varint encoded
	layoutUvarint     = 1 // one uvarint per value
)

// groupVarintPadding covers the widest Decode4 read past the last group.
const groupVarintPadding = 16

// AppendBinary appends the binary form of s to b:
//
//	version  byte
//	layout   byte
//	count    uvarint
//	payload  count values in insertion order
//
// Sets whose members all fit in 32 bits use the group-varint layout; others
// fall back to one uvarint per value.
func (s *Set[T]) AppendBinary(b []byte) ([]byte, error) {
	values := s.Values()

	wide := false
	for _, v := range values {
		if uint64(v) > math.MaxUint32 {
			wide = true
			break
		}
	}

	b = append(b, binaryVersion)
	if wide {
		b = append(b, layoutUvarint)
	} else {
		b = append(b, layoutGroupVarint)
	}
	b = binary.AppendUvarint(b, uint64(len(values)))

	if wide {
		for _, v := range values {
			b = binary.AppendUvarint(b, uint64(v))
		}
		return b, nil
	}

	var (
		group [4]uint32
		tmp   = make([]byte, 17)
	)
	for i := 0; i < len(values); i += 4 {
		for j := range group {
			group[j] = 0
			if i+j < len(values) {
				group[j] = uint32(values[i+j])
			}
		}
		b = append(b, groupvarint.Encode4(tmp, group[:])...)
	}
	return b, nil
}

// MarshalBinary encodes the members in insertion order. See AppendBinary.
func (s *Set[T]) MarshalBinary() ([]byte, error) {
	return s.AppendBinary(nil)
}

// UnmarshalBinary replaces the contents of s with the decoded value list,
// following the same capacity and duplicate rules as UnmarshalJSON.
func (s *Set[T]) UnmarshalBinary(data []byte) error {
	values, err := decodeBinary[T](data)
	if err != nil {
		return err
	}
	return s.reset(values)
}

func decodeBinary[T Value](data []byte) ([]T, error) {
	if len(data) < 2 {
		return nil, fmt.Errorf("%w: short header", ErrInvalidEncoding)
	}
	if data[0] != binaryVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrInvalidEncoding, data[0])
	}
	layout := data[1]
	data = data[2:]

	count, n := binary.Uvarint(data)
	if n <= 0 {
		return nil, fmt.Errorf("%w: bad count", ErrInvalidEncoding)
	}
	data = data[n:]
	// Every value takes at least one byte in either layout.
	if count > uint64(len(data)) {
		return nil, fmt.Errorf("%w: count %d exceeds payload", ErrInvalidEncoding, count)
	}
	values := make([]T, 0, count)

	switch layout {
	case layoutUvarint:
		for i := uint64(0); i < count; i++ {
			u, n := binary.Uvarint(data)
			if n <= 0 {
				return nil, fmt.Errorf("%w: bad value at %d", ErrInvalidEncoding, i)
			}
			data = data[n:]
			v, err := valueFromUint64[T](u)
			if err != nil {
				return nil, err
			}
			values = append(values, v)
		}
	case layoutGroupVarint:
		padded := make([]byte, len(data)+groupVarintPadding)
		copy(padded, data)
		var group [4]uint32
		off := 0
		for uint64(len(values)) < count {
			if off >= len(data) || off+int(groupvarint.BytesUsed[data[off]]) > len(data) {
				return nil, fmt.Errorf("%w: truncated group at byte %d", ErrInvalidEncoding, off)
			}
			groupvarint.Decode4(group[:], padded[off:])
			off += int(groupvarint.BytesUsed[data[off]])
			for _, u := range group {
				if uint64(len(values)) == count {
					break
				}
				v, err := valueFromUint64[T](uint64(u))
				if err != nil {
					return nil, err
				}
				values = append(values, v)
			}
		}
		data = data[off:]
	default:
		return nil, fmt.Errorf("%w: unknown layout %d", ErrInvalidEncoding, layout)
	}

	if len(data) != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrInvalidEncoding, len(data))
	}
	return values, nil
}

func valueFromUint64[T Value](u uint64) (T, error) {
	idx, err := conv.Uint64ToInt(u)
	if err != nil {
		return 0, &RangeError{Op: "decode", Value: u, Index: -1, Kind: ErrConversion, cause: err}
	}
	v, err := conv.FromIndex[T](idx)
	if err != nil {
		return 0, &RangeError{Op: "decode", Value: u, Index: idx, Kind: ErrConversion, cause: err}
	}
	return v, nil
}
