package cache

import (
	"context"
	"encoding/binary"
	"errors"
	"hash/maphash"
	"sync"

	"github.com/hupe1980/sparseset/resource"
)

const numShards = 64

// ShardedLRUBlockCache spreads keys over 64 independently locked LRU shards.
// Each shard holds capacity/64 bytes, so eviction order is per shard.
type ShardedLRUBlockCache struct {
	seed   maphash.Seed
	shards [numShards]*LRUBlockCache
}

// NewShardedLRUBlockCache creates a cache of capacity bytes split evenly
// across the shards. All shards charge rc, which may be nil.
func NewShardedLRUBlockCache(capacity int64, rc *resource.Controller) *ShardedLRUBlockCache {
	c := &ShardedLRUBlockCache{seed: maphash.MakeSeed()}
	per := max(capacity/numShards, 1)
	for i := range c.shards {
		c.shards[i] = NewLRUBlockCache(per, rc)
	}
	return c
}

func (c *ShardedLRUBlockCache) shard(key Key) *LRUBlockCache {
	var h maphash.Hash
	h.SetSeed(c.seed)

	var prefix [9]byte
	prefix[0] = byte(key.Kind)
	binary.LittleEndian.PutUint64(prefix[1:], key.Offset)
	_, _ = h.Write(prefix[:])
	_, _ = h.WriteString(key.Path)

	return c.shards[h.Sum64()%numShards]
}

// Get returns a cached block.
func (c *ShardedLRUBlockCache) Get(ctx context.Context, key Key) ([]byte, bool) {
	return c.shard(key).Get(ctx, key)
}

// Set caches a block in the shard owning key.
func (c *ShardedLRUBlockCache) Set(ctx context.Context, key Key, b []byte) {
	c.shard(key).Set(ctx, key, b)
}

// Invalidate removes the matching entries of every shard, scanning the
// shards in parallel.
func (c *ShardedLRUBlockCache) Invalidate(predicate func(key Key) bool) {
	var wg sync.WaitGroup
	for _, s := range c.shards {
		wg.Go(func() { s.Invalidate(predicate) })
	}
	wg.Wait()
}

// Close empties every shard.
func (c *ShardedLRUBlockCache) Close() error {
	var errs []error
	for _, s := range c.shards {
		errs = append(errs, s.Close())
	}
	return errors.Join(errs...)
}

// Stats returns the hit and miss counts summed over the shards.
func (c *ShardedLRUBlockCache) Stats() (hits, misses int64) {
	for _, s := range c.shards {
		h, m := s.Stats()
		hits += h
		misses += m
	}
	return hits, misses
}

// Size returns the number of cached bytes.
func (c *ShardedLRUBlockCache) Size() int64 {
	var n int64
	for _, s := range c.shards {
		n += s.Size()
	}
	return n
}

// ShardStat describes one shard.
type ShardStat struct {
	ShardID int
	Size    int64
	Hits    int64
	Misses  int64
}

// ShardStats returns per-shard statistics, useful to check key spread.
func (c *ShardedLRUBlockCache) ShardStats() []ShardStat {
	stats := make([]ShardStat, len(c.shards))
	for i, s := range c.shards {
		stats[i].ShardID = i
		stats[i].Size = s.Size()
		stats[i].Hits, stats[i].Misses = s.Stats()
	}
	return stats
}
