package snapshot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/hupe1980/sparseset"
	"github.com/hupe1980/sparseset/blobstore"
	"github.com/hupe1980/sparseset/codec"
	"github.com/hupe1980/sparseset/internal/compress"
	"github.com/hupe1980/sparseset/internal/hash"
)

var (
	// ErrCorrupt is returned when a snapshot fails structural or checksum
	// validation.
	ErrCorrupt = errors.New("snapshot: corrupt")
	// ErrUnsupportedVersion is returned for snapshots written by a newer format.
	ErrUnsupportedVersion = errors.New("snapshot: unsupported version")
	// ErrUnknownCodec is returned when the codec named in a header is not
	// registered.
	ErrUnknownCodec = errors.New("snapshot: unknown codec")
)

// Save encodes s and writes it to store under key, replacing any previous
// snapshot.
func Save[T sparseset.Value](ctx context.Context, store blobstore.BlobStore, key string, s *sparseset.Set[T], optFns ...Option) (err error) {
	o, ct, err := applyOptions(optFns)
	if err != nil {
		return err
	}
	defer func() { o.Logger.LogSnapshot(ctx, "save", key, s.Len(), err) }()

	data, err := encode(s, o.Codec, ct, o.BlockSize)
	if err != nil {
		return err
	}
	if err := o.ResourceController.AcquireIO(ctx, len(data)); err != nil {
		return err
	}
	if err := store.Put(ctx, key, data); err != nil {
		return fmt.Errorf("snapshot: put %q: %w", key, err)
	}
	return nil
}

// SaveLocked saves a consistent copy of l taken under its read lock.
func SaveLocked[T sparseset.Value](ctx context.Context, store blobstore.BlobStore, key string, l *sparseset.Locked[T], optFns ...Option) error {
	s := l.Snapshot()
	defer s.Release()
	return Save(ctx, store, key, s, optFns...)
}

func encode[T sparseset.Value](s *sparseset.Set[T], c codec.Codec, ct compress.Type, blockSize int) ([]byte, error) {
	if len(c.Name()) > math.MaxUint8 {
		return nil, fmt.Errorf("snapshot: codec name %q too long", c.Name())
	}
	payload, err := c.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("snapshot: encode with %s: %w", c.Name(), err)
	}

	var body bytes.Buffer
	body.WriteString(c.Name())
	bw := compress.NewBlockWriter(&body, ct, blockSize)
	if _, err := bw.Write(payload); err != nil {
		return nil, err
	}
	if err := bw.Flush(); err != nil {
		return nil, err
	}

	h := Header{
		Version:     version,
		Compression: ct,
		Codec:       c.Name(),
		Count:       uint64(s.Len()),
		PayloadLen:  uint64(bw.BytesWritten()),
		Checksum:    hash.CRC32C(body.Bytes()),
	}
	return append(h.encode(), body.Bytes()...), nil
}

// Load reads the snapshot stored under key and decodes it into a new set.
func Load[T sparseset.Value](ctx context.Context, store blobstore.BlobStore, key string, optFns ...Option) (s *sparseset.Set[T], err error) {
	o, _, err := applyOptions(optFns)
	if err != nil {
		return nil, err
	}
	defer func() {
		n := 0
		if s != nil {
			n = s.Len()
		}
		o.Logger.LogSnapshot(ctx, "load", key, n, err)
	}()

	data, err := blobstore.ReadAll(ctx, store, key)
	if err != nil {
		return nil, fmt.Errorf("snapshot: read %q: %w", key, err)
	}
	if err := o.ResourceController.AcquireIO(ctx, len(data)); err != nil {
		return nil, err
	}
	return decode[T](data, o.SetOptions)
}

func decode[T sparseset.Value](data []byte, setOpts []sparseset.Option) (*sparseset.Set[T], error) {
	h, n, err := decodeHeader(data)
	if err != nil {
		return nil, err
	}
	if err := hash.Verify(data[HeaderSize:], h.Checksum); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	if uint64(len(data)-n) != h.PayloadLen {
		return nil, fmt.Errorf("%w: payload is %d bytes, header says %d", ErrCorrupt, len(data)-n, h.PayloadLen)
	}
	c, ok := codec.ByName(h.Codec)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, h.Codec)
	}

	payload, err := compress.DecompressAll(data[n:], h.Compression)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}

	s := sparseset.New[T](0, setOpts...)
	if err := c.Unmarshal(payload, s); err != nil {
		s.Release()
		if errors.Is(err, sparseset.ErrOutOfMemory) {
			return nil, fmt.Errorf("snapshot: allocate %d members: %w", h.Count, err)
		}
		return nil, fmt.Errorf("%w: decode with %s: %w", ErrCorrupt, c.Name(), err)
	}
	if uint64(s.Len()) != h.Count {
		// Duplicates in the payload collapse on decode.
		s.Release()
		return nil, fmt.Errorf("%w: decoded %d members, header says %d", ErrCorrupt, s.Len(), h.Count)
	}
	return s, nil
}

// Stat reads only the header of the snapshot stored under key.
func Stat(ctx context.Context, store blobstore.BlobStore, key string) (*Header, error) {
	b, err := store.Open(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("snapshot: open %q: %w", key, err)
	}
	defer func() { _ = b.Close() }()

	buf := make([]byte, min(b.Size(), HeaderSize+math.MaxUint8))
	n, err := b.ReadAt(ctx, buf, 0)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	h, _, err := decodeHeader(buf[:n])
	return h, err
}
