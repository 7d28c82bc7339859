package cache

import (
	"context"
	"testing"

	"github.com/hupe1980/sparseset/resource"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLRU_EdgeCases(t *testing.T) {
	rc := resource.NewController(resource.Config{MemoryLimitBytes: 100})
	c := NewLRUBlockCache(50, rc)
	ctx := context.Background()
	k := Key{Kind: KindBlob, Path: "a", Offset: 1}

	// Larger than the cache capacity.
	c.Set(ctx, k, make([]byte, 60))
	_, ok := c.Get(ctx, k)
	assert.False(t, ok)

	c.Set(ctx, k, make([]byte, 10))
	assert.Equal(t, int64(10), c.Size())

	c.Set(ctx, k, make([]byte, 20))
	assert.Equal(t, int64(20), c.Size())
	assert.Equal(t, int64(20), rc.MemoryUsage())

	c.Set(ctx, k, make([]byte, 5))
	assert.Equal(t, int64(5), c.Size())
	assert.Equal(t, int64(5), rc.MemoryUsage())

	// Growth denied by the shared budget keeps the old value.
	rc2 := resource.NewController(resource.Config{MemoryLimitBytes: 10})
	c2 := NewLRUBlockCache(50, rc2)
	c2.Set(ctx, k, make([]byte, 8))
	c2.Set(ctx, k, make([]byte, 12))

	val, ok := c2.Get(ctx, k)
	require.True(t, ok)
	assert.Len(t, val, 8)
}

func TestLRU_Eviction(t *testing.T) {
	c := NewLRUBlockCache(30, nil)
	ctx := context.Background()

	for i := range 3 {
		c.Set(ctx, Key{Path: "p", Offset: uint64(i)}, make([]byte, 10))
	}
	// Touch 0 so that 1 is the least recently used.
	_, ok := c.Get(ctx, Key{Path: "p", Offset: 0})
	require.True(t, ok)

	c.Set(ctx, Key{Path: "p", Offset: 3}, make([]byte, 10))

	_, ok = c.Get(ctx, Key{Path: "p", Offset: 1})
	assert.False(t, ok)
	_, ok = c.Get(ctx, Key{Path: "p", Offset: 0})
	assert.True(t, ok)
	assert.Equal(t, 3, c.Len())
	assert.Equal(t, int64(30), c.Size())
}

func TestLRU_Stats(t *testing.T) {
	c := NewLRUBlockCache(100, nil)
	ctx := context.Background()
	k := Key{Path: "a", Offset: 1}
	c.Set(ctx, k, []byte{1})
	c.Get(ctx, k)
	c.Get(ctx, Key{Path: "b", Offset: 2})

	hits, misses := c.Stats()
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(1), misses)
}

func TestLRU_Invalidate(t *testing.T) {
	c := NewLRUBlockCache(100, nil)
	ctx := context.Background()
	c.Set(ctx, Key{Path: "a", Offset: 1}, []byte("a"))
	c.Set(ctx, Key{Path: "a", Offset: 2}, []byte("b"))
	c.Set(ctx, Key{Path: "b", Offset: 1}, []byte("c"))

	c.Invalidate(ForPath("a"))

	_, ok := c.Get(ctx, Key{Path: "a", Offset: 1})
	assert.False(t, ok)
	_, ok = c.Get(ctx, Key{Path: "b", Offset: 1})
	assert.True(t, ok)
}

func TestLRU_CloseReleasesBudget(t *testing.T) {
	rc := resource.NewController(resource.Config{MemoryLimitBytes: 1024})
	c := NewLRUBlockCache(1024, rc)
	ctx := context.Background()
	c.Set(ctx, Key{Path: "a"}, make([]byte, 100))
	c.Set(ctx, Key{Path: "b"}, make([]byte, 200))
	require.Equal(t, int64(300), rc.MemoryUsage())

	require.NoError(t, c.Close())
	assert.Equal(t, int64(0), rc.MemoryUsage())
	assert.Equal(t, 0, c.Len())
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "blob", KindBlob.String())
	assert.Equal(t, "unknown", KindUnknown.String())
}
