package blobstore

import (
	"bytes"
	"context"
	"io"
	"sync/atomic"
	"testing"

	"github.com/hupe1980/sparseset/internal/cache"
	"github.com/hupe1980/sparseset/resource"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingStore counts backend reads of a MemoryStore.
type countingStore struct {
	*MemoryStore
	reads atomic.Int64
}

func (s *countingStore) Open(ctx context.Context, name string) (Blob, error) {
	b, err := s.MemoryStore.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	return &countingBlob{Blob: b, reads: &s.reads}, nil
}

type countingBlob struct {
	Blob
	reads *atomic.Int64
}

func (b *countingBlob) ReadAt(ctx context.Context, p []byte, off int64) (int, error) {
	b.reads.Add(1)
	return b.Blob.ReadAt(ctx, p, off)
}

func newCountingStore() *countingStore {
	return &countingStore{MemoryStore: NewMemoryStore()}
}

func TestCachingStore_ReadAt(t *testing.T) {
	ctx := context.Background()
	inner := newCountingStore()
	data := bytes.Repeat([]byte("0123456789"), 100) // 1000 bytes
	require.NoError(t, inner.Put(ctx, "blob", data))

	store := NewCachingStore(inner, cache.NewLRUBlockCache(1<<20, nil), 64)
	blob, err := store.Open(ctx, "blob")
	require.NoError(t, err)
	defer blob.Close()

	buf := make([]byte, 100)
	n, err := blob.ReadAt(ctx, buf, 50)
	require.NoError(t, err)
	require.Equal(t, 100, n)
	assert.Equal(t, data[50:150], buf)
	firstReads := inner.reads.Load()
	assert.Positive(t, firstReads)

	// Served from cache.
	n, err = blob.ReadAt(ctx, buf, 60)
	require.NoError(t, err)
	require.Equal(t, 100, n)
	assert.Equal(t, data[60:160], buf)
	assert.Equal(t, firstReads, inner.reads.Load())
}

func TestCachingStore_ReadTail(t *testing.T) {
	ctx := context.Background()
	inner := newCountingStore()
	data := bytes.Repeat([]byte("x"), 100)
	require.NoError(t, inner.Put(ctx, "blob", data))

	store := NewCachingStore(inner, cache.NewLRUBlockCache(1<<20, nil), 64)
	blob, err := store.Open(ctx, "blob")
	require.NoError(t, err)

	buf := make([]byte, 50)
	n, err := blob.ReadAt(ctx, buf, 80)
	assert.Equal(t, 20, n)
	assert.ErrorIs(t, err, io.EOF)

	_, err = blob.ReadAt(ctx, buf, 100)
	assert.ErrorIs(t, err, io.EOF)

	r, err := blob.ReadRange(ctx, 0, 1000)
	require.NoError(t, err)
	all, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, data, all)
}

func TestCachingStore_PutInvalidates(t *testing.T) {
	ctx := context.Background()
	inner := newCountingStore()
	store := NewCachingStore(inner, cache.NewShardedLRUBlockCache(1<<20, nil), 0)

	require.NoError(t, store.Put(ctx, "k", []byte("old value")))
	got, err := ReadAll(ctx, store, "k")
	require.NoError(t, err)
	assert.Equal(t, "old value", string(got))

	require.NoError(t, store.Put(ctx, "k", []byte("new value")))
	got, err = ReadAll(ctx, store, "k")
	require.NoError(t, err)
	assert.Equal(t, "new value", string(got))

	require.NoError(t, store.Delete(ctx, "k"))
	_, err = store.Open(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)

	names, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestCachingStore_Canceled(t *testing.T) {
	inner := newCountingStore()
	require.NoError(t, inner.Put(context.Background(), "k", []byte("v")))
	store := NewCachingStore(inner, cache.NewLRUBlockCache(1024, nil), 0)

	blob, err := store.Open(context.Background(), "k")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = blob.ReadAt(ctx, make([]byte, 1), 0)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewLRUCachingStore_Budget(t *testing.T) {
	ctx := context.Background()
	rc := resource.NewController(resource.Config{MemoryLimitBytes: 1 << 20})
	inner := NewMemoryStore()
	require.NoError(t, inner.Put(ctx, "k", bytes.Repeat([]byte("a"), 4096)))

	store := NewLRUCachingStore(inner, 1<<20, rc, 1024)
	got, err := ReadAll(ctx, store, "k")
	require.NoError(t, err)
	assert.Len(t, got, 4096)
	assert.Equal(t, int64(4096), rc.MemoryUsage())

	require.NoError(t, store.Close())
	assert.Equal(t, int64(0), rc.MemoryUsage())
}

func TestCachingStore_EvictedDuringRead(t *testing.T) {
	ctx := context.Background()
	inner := newCountingStore()
	data := bytes.Repeat([]byte("abcdefgh"), 32) // 256 bytes
	require.NoError(t, inner.Put(ctx, "blob", data))

	// Room for a single block: loading a run evicts its own earlier blocks.
	store := NewCachingStore(inner, cache.NewLRUBlockCache(64, nil), 64)
	blob, err := store.Open(ctx, "blob")
	require.NoError(t, err)

	buf := make([]byte, 200)
	n, err := blob.ReadAt(ctx, buf, 10)
	require.NoError(t, err)
	assert.Equal(t, 200, n)
	assert.Equal(t, data[10:210], buf)
}
