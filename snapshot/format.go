package snapshot

import (
	"encoding/binary"
	"fmt"

	"github.com/hupe1980/sparseset/internal/compress"
)

const (
	magicNumber = 0x31535053 // "SPS1"
	version     = 1
)

// HeaderSize is the size of the fixed snapshot header in bytes.
const HeaderSize = 4 + 4 + 1 + 1 + 2 + 8 + 8 + 4

// Header describes a stored snapshot.
type Header struct {
	Version     uint32
	Compression compress.Type
	Codec       string
	// Count is the number of members.
	Count uint64
	// PayloadLen is the compressed payload length in bytes.
	PayloadLen uint64
	// Checksum is the CRC32C of the codec name and payload.
	Checksum uint32
}

// encode returns the fixed header. The codec name follows it in the blob.
func (h *Header) encode() []byte {
	buf := make([]byte, HeaderSize)
	binary.LittleEndian.PutUint32(buf[0:], magicNumber)
	binary.LittleEndian.PutUint32(buf[4:], h.Version)
	buf[8] = byte(h.Compression)
	buf[9] = byte(len(h.Codec))
	// Reserved [10:12]
	binary.LittleEndian.PutUint64(buf[12:], h.Count)
	binary.LittleEndian.PutUint64(buf[20:], h.PayloadLen)
	binary.LittleEndian.PutUint32(buf[28:], h.Checksum)
	return buf
}

// decodeHeader parses the fixed header and the codec name. It returns the
// header and the number of bytes consumed.
func decodeHeader(buf []byte) (*Header, int, error) {
	if len(buf) < HeaderSize {
		return nil, 0, fmt.Errorf("%w: %d bytes is too small for a header", ErrCorrupt, len(buf))
	}
	if m := binary.LittleEndian.Uint32(buf[0:]); m != magicNumber {
		return nil, 0, fmt.Errorf("%w: invalid magic %x", ErrCorrupt, m)
	}
	h := &Header{
		Version:     binary.LittleEndian.Uint32(buf[4:]),
		Compression: compress.Type(buf[8]),
		Count:       binary.LittleEndian.Uint64(buf[12:]),
		PayloadLen:  binary.LittleEndian.Uint64(buf[20:]),
		Checksum:    binary.LittleEndian.Uint32(buf[28:]),
	}
	if h.Version != version {
		return nil, 0, fmt.Errorf("%w: %d", ErrUnsupportedVersion, h.Version)
	}
	if !h.Compression.Valid() {
		return nil, 0, fmt.Errorf("%w: unknown compression %s", ErrCorrupt, h.Compression)
	}
	n := HeaderSize + int(buf[9])
	if len(buf) < n {
		return nil, 0, fmt.Errorf("%w: truncated codec name", ErrCorrupt)
	}
	h.Codec = string(buf[HeaderSize:n])
	return h, n, nil
}
