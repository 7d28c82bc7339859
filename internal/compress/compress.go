package compress

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// ErrCorrupt is returned for blocks whose header or body does not decode.
var ErrCorrupt = errors.New("compress: corrupt block")

// Type defines the compression algorithm used.
type Type uint8

const (
	// None stores blocks uncompressed.
	None Type = 0
	// LZ4 is LZ4 block compression (fastest).
	LZ4 Type = 1
	// ZSTD is ZSTD compression (best ratio).
	ZSTD Type = 2
	// Snappy is Snappy block compression.
	Snappy Type = 3
)

// String returns the stable name of the algorithm.
func (t Type) String() string {
	switch t {
	case None:
		return "none"
	case LZ4:
		return "lz4"
	case ZSTD:
		return "zstd"
	case Snappy:
		return "snappy"
	default:
		return fmt.Sprintf("compress.Type(%d)", uint8(t))
	}
}

// Valid reports whether t is a known algorithm.
func (t Type) Valid() bool { return t <= Snappy }

// ParseType returns the Type with the given name.
func ParseType(name string) (Type, error) {
	for t := None; t <= Snappy; t++ {
		if t.String() == name {
			return t, nil
		}
	}
	return None, fmt.Errorf("compress: unknown algorithm %q", name)
}

// ZSTD encoder/decoder pools for efficiency
var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func putZstdEncoder(enc *zstd.Encoder) {
	zstdEncoderPool.Put(enc)
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil)
	return dec
}

func putZstdDecoder(dec *zstd.Decoder) {
	zstdDecoderPool.Put(dec)
}

// HeaderSize is the size of the block header.
// Format: [UncompressedSize uint32][CompressedSize uint32][Data...]
// If CompressedSize == 0, the block is stored uncompressed.
const HeaderSize = 8

// MaxBlockSize is the largest block Compress accepts.
const MaxBlockSize = math.MaxUint32

// Compress returns data as a single block with header. Blocks that compress to
// more than 90% of their size are stored uncompressed.
func Compress(data []byte, t Type) ([]byte, error) {
	if uint64(len(data)) > MaxBlockSize {
		return nil, fmt.Errorf("compress: block of %d bytes exceeds limit", len(data))
	}

	if !t.Valid() {
		return nil, fmt.Errorf("compress: unknown algorithm %d", uint8(t))
	}
	if t == None || len(data) == 0 {
		return frame(data, len(data), 0), nil
	}

	var (
		compressed []byte
		err        error
	)
	switch t {
	case LZ4:
		compressed, err = compressLZ4(data)
	case ZSTD:
		compressed = compressZSTD(data)
	case Snappy:
		compressed = snappy.Encode(nil, data)
	}
	if err != nil {
		return nil, err
	}

	if len(compressed) == 0 || float64(len(compressed)) > float64(len(data))*0.9 {
		return frame(data, len(data), 0), nil
	}
	return frame(compressed, len(data), len(compressed)), nil
}

func frame(body []byte, uncompressed, compressed int) []byte {
	out := make([]byte, HeaderSize+len(body))
	binary.LittleEndian.PutUint32(out[0:], uint32(uncompressed))
	binary.LittleEndian.PutUint32(out[4:], uint32(compressed))
	copy(out[HeaderSize:], body)
	return out
}

func compressLZ4(data []byte) ([]byte, error) {
	compressed := make([]byte, lz4.CompressBlockBound(len(data)))

	n, err := lz4.CompressBlock(data, compressed, nil)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil // Incompressible
	}
	return compressed[:n], nil
}

func compressZSTD(data []byte) []byte {
	enc := getZstdEncoder()
	defer putZstdEncoder(enc)

	return enc.EncodeAll(data, nil)
}

// Decompress decodes the first block of data and returns its contents and
// the number of bytes consumed.
func Decompress(data []byte, t Type) ([]byte, int, error) {
	if len(data) < HeaderSize {
		return nil, 0, fmt.Errorf("%w: block too small for header", ErrCorrupt)
	}

	uncompressedSize := uint64(binary.LittleEndian.Uint32(data[0:]))
	compressedSize := uint64(binary.LittleEndian.Uint32(data[4:]))
	body := data[HeaderSize:]

	if compressedSize == 0 {
		if uint64(len(body)) < uncompressedSize {
			return nil, 0, fmt.Errorf("%w: block data too small", ErrCorrupt)
		}
		return body[:uncompressedSize], HeaderSize + int(uncompressedSize), nil
	}

	if uint64(len(body)) < compressedSize {
		return nil, 0, fmt.Errorf("%w: compressed block data too small", ErrCorrupt)
	}
	body = body[:compressedSize]
	consumed := HeaderSize + int(compressedSize)

	var (
		out []byte
		err error
	)
	switch t {
	case LZ4:
		out = make([]byte, uncompressedSize)
		var n int
		n, err = lz4.UncompressBlock(body, out)
		out = out[:max(n, 0)]
	case ZSTD:
		dec := getZstdDecoder()
		defer putZstdDecoder(dec)
		out, err = dec.DecodeAll(body, make([]byte, 0, uncompressedSize))
	case Snappy:
		out, err = snappy.Decode(nil, body)
	default:
		return nil, 0, fmt.Errorf("%w: block compressed with unknown algorithm %d", ErrCorrupt, uint8(t))
	}
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %s: %w", ErrCorrupt, t, err)
	}
	if uint64(len(out)) != uncompressedSize {
		return nil, 0, fmt.Errorf("%w: decompressed size mismatch", ErrCorrupt)
	}
	return out, consumed, nil
}
