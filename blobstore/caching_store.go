package blobstore

import (
	"context"
	"errors"
	"io"

	"github.com/hupe1980/sparseset/internal/cache"
	"github.com/hupe1980/sparseset/resource"
	"golang.org/x/sync/errgroup"
)

// CachingStore wraps a BlobStore and adds block-level caching of reads.
// Put and Delete invalidate the cached blocks of the blob they replace.
type CachingStore struct {
	inner     BlobStore
	cache     cache.BlockCache
	blockSize int64
}

// maxParallelFetches bounds concurrent backend reads per ReadAt.
const maxParallelFetches = 16

// NewLRUCachingStore wraps inner with a sharded LRU cache of capacityBytes.
// Cached bytes are charged to rc, which may be nil.
func NewLRUCachingStore(inner BlobStore, capacityBytes int64, rc *resource.Controller, blockSize int64) *CachingStore {
	return NewCachingStore(inner, cache.NewShardedLRUBlockCache(capacityBytes, rc), blockSize)
}

// Close releases the cached blocks.
func (s *CachingStore) Close() error {
	return s.cache.Close()
}

// NewCachingStore creates a new CachingStore.
// blockSize defaults to 4KB if <= 0.
func NewCachingStore(inner BlobStore, cache cache.BlockCache, blockSize int64) *CachingStore {
	if blockSize <= 0 {
		blockSize = 4096
	}
	return &CachingStore{
		inner:     inner,
		cache:     cache,
		blockSize: blockSize,
	}
}

// Open opens the blob in the inner store and wraps it in a CachingBlob.
func (s *CachingStore) Open(ctx context.Context, name string) (Blob, error) {
	b, err := s.inner.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	return &CachingBlob{
		inner:     b,
		cache:     s.cache,
		name:      name,
		blockSize: s.blockSize,
	}, nil
}

// Create invalidates the cached blocks of name and passes through.
func (s *CachingStore) Create(ctx context.Context, name string) (WritableBlob, error) {
	s.invalidate(name)
	return s.inner.Create(ctx, name)
}

// Put writes through to the inner store. Cached blocks are dropped after the
// write so concurrent readers cannot re-populate them with stale data.
func (s *CachingStore) Put(ctx context.Context, name string, data []byte) error {
	s.invalidate(name)
	err := s.inner.Put(ctx, name, data)
	s.invalidate(name)
	return err
}

// Delete removes the blob and its cached blocks.
func (s *CachingStore) Delete(ctx context.Context, name string) error {
	err := s.inner.Delete(ctx, name)
	s.invalidate(name)
	return err
}

func (s *CachingStore) invalidate(name string) {
	s.cache.Invalidate(func(key cache.Key) bool {
		return key.Kind == cache.KindBlob && key.Path == name
	})
}

// List passes through to the inner store.
func (s *CachingStore) List(ctx context.Context, prefix string) ([]string, error) {
	return s.inner.List(ctx, prefix)
}

// CachingBlob serves reads of a blob from fixed-size cached blocks. Block i
// covers bytes [i*blockSize, (i+1)*blockSize); the last block may be short.
type CachingBlob struct {
	inner     Blob
	cache     cache.BlockCache
	name      string
	blockSize int64
}

// Close closes the underlying blob. Cached blocks stay in the cache.
func (b *CachingBlob) Close() error { return b.inner.Close() }

// Size returns the size of the underlying blob.
func (b *CachingBlob) Size() int64 { return b.inner.Size() }

func (b *CachingBlob) key(blk int64) cache.Key {
	return cache.Key{Kind: cache.KindBlob, Path: b.name, Offset: uint64(blk)}
}

// ReadAt copies the blocks overlapping [off, off+len(p)) into p, loading
// missing blocks from the inner blob first.
func (b *CachingBlob) ReadAt(ctx context.Context, p []byte, off int64) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	size := b.Size()
	if off < 0 || off >= size {
		return 0, io.EOF
	}

	end := min(off+int64(len(p)), size)
	first, last := off/b.blockSize, (end-1)/b.blockSize

	if err := b.load(ctx, b.missing(ctx, first, last)); err != nil {
		return 0, err
	}

	n := 0
	for blk := first; blk <= last; blk++ {
		data, err := b.block(ctx, blk)
		if err != nil {
			return n, err
		}
		base := blk * b.blockSize
		lo := max(off, base) - base
		if lo >= int64(len(data)) {
			break
		}
		n += copy(p[max(base-off, 0):], data[lo:])
	}

	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// blockRun is a run of consecutive blocks.
type blockRun struct {
	first, count int64
}

// missing returns the runs of uncached blocks in [first, last].
func (b *CachingBlob) missing(ctx context.Context, first, last int64) []blockRun {
	var runs []blockRun
	for blk := first; blk <= last; blk++ {
		if _, ok := b.cache.Get(ctx, b.key(blk)); ok {
			continue
		}
		if n := len(runs); n > 0 && runs[n-1].first+runs[n-1].count == blk {
			runs[n-1].count++
			continue
		}
		runs = append(runs, blockRun{first: blk, count: 1})
	}
	return runs
}

// load fetches each run with one backend read, at most maxParallelFetches
// at a time, and caches its blocks.
func (b *CachingBlob) load(ctx context.Context, runs []blockRun) error {
	if len(runs) == 0 {
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelFetches)

	size := b.Size()
	for _, run := range runs {
		g.Go(func() error {
			start := run.first * b.blockSize
			if start >= size {
				return nil
			}
			buf := make([]byte, min(run.count*b.blockSize, size-start))
			n, err := b.inner.ReadAt(gctx, buf, start)
			if err != nil && !errors.Is(err, io.EOF) {
				return err
			}
			buf = buf[:n]

			for i := int64(0); i < run.count && i*b.blockSize < int64(len(buf)); i++ {
				chunk := buf[i*b.blockSize : min((i+1)*b.blockSize, int64(len(buf)))]
				// Copy so a cached block does not pin the whole run buffer.
				b.cache.Set(gctx, b.key(run.first+i), append([]byte(nil), chunk...))
			}
			return nil
		})
	}
	return g.Wait()
}

// block returns block blk from the cache, reading it from the inner blob if
// it was evicted since load.
func (b *CachingBlob) block(ctx context.Context, blk int64) ([]byte, error) {
	if data, ok := b.cache.Get(ctx, b.key(blk)); ok {
		return data, nil
	}

	buf := make([]byte, b.blockSize)
	n, err := b.inner.ReadAt(ctx, buf, blk*b.blockSize)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if n > 0 {
		b.cache.Set(ctx, b.key(blk), buf[:n])
	}
	return buf[:n], nil
}

// ReadRange returns a reader that serves the range through ReadAt and the
// block cache.
func (b *CachingBlob) ReadRange(ctx context.Context, off, length int64) (io.ReadCloser, error) {
	size := b.Size()
	if off < 0 || off > size || (off == size && size > 0) {
		return nil, io.EOF
	}
	return io.NopCloser(&rangeReader{blob: b, ctx: ctx, off: off, limit: off + max(length, 0)}), nil
}

// rangeReader adapts CachingBlob.ReadAt to io.Reader.
type rangeReader struct {
	blob  *CachingBlob
	ctx   context.Context
	off   int64
	limit int64
}

func (r *rangeReader) Read(p []byte) (int, error) {
	if r.off >= r.limit {
		return 0, io.EOF
	}
	if remaining := r.limit - r.off; int64(len(p)) > remaining {
		p = p[:remaining]
	}
	n, err := r.blob.ReadAt(r.ctx, p, r.off)
	r.off += int64(n)
	if n > 0 && errors.Is(err, io.EOF) {
		err = nil
	}
	return n, err
}
