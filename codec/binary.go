package codec

import (
	"encoding"
	"fmt"
)

// Binary encodes values through their encoding.BinaryMarshaler and
// encoding.BinaryUnmarshaler implementations. For sets this is the compact
// group-varint form.
type Binary struct{}

// Marshal encodes v, which must implement encoding.BinaryMarshaler.
func (Binary) Marshal(v any) ([]byte, error) {
	m, ok := v.(encoding.BinaryMarshaler)
	if !ok {
		return nil, fmt.Errorf("%w: %T does not implement encoding.BinaryMarshaler", ErrUnsupported, v)
	}
	return m.MarshalBinary()
}

// Unmarshal decodes data into v, which must implement
// encoding.BinaryUnmarshaler.
func (Binary) Unmarshal(data []byte, v any) error {
	u, ok := v.(encoding.BinaryUnmarshaler)
	if !ok {
		return fmt.Errorf("%w: %T does not implement encoding.BinaryUnmarshaler", ErrUnsupported, v)
	}
	return u.UnmarshalBinary(data)
}

// Name returns the unique name of the codec ("binary").
func (Binary) Name() string { return "binary" }
