package cache

import (
	"container/list"
	"context"
	"sync"
	"sync/atomic"

	"github.com/hupe1980/sparseset/resource"
)

// LRUBlockCache is a BlockCache bounded by a byte capacity. The least
// recently used blocks are evicted first.
type LRUBlockCache struct {
	rc       *resource.Controller
	capacity int64

	mu    sync.Mutex
	size  int64
	items map[Key]*list.Element // of *entry
	order *list.List            // front is most recently used

	hits   atomic.Int64
	misses atomic.Int64
}

type entry struct {
	key   Key
	value []byte
}

// NewLRUBlockCache creates a cache holding at most capacity bytes.
// Cached bytes are charged to rc, which may be nil.
func NewLRUBlockCache(capacity int64, rc *resource.Controller) *LRUBlockCache {
	return &LRUBlockCache{
		rc:       rc,
		capacity: capacity,
		items:    make(map[Key]*list.Element),
		order:    list.New(),
	}
}

// Get returns a cached block and marks it as recently used.
func (c *LRUBlockCache) Get(_ context.Context, key Key) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.items[key]
	if !ok {
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	c.order.MoveToFront(e)
	return e.Value.(*entry).value, true
}

// Set caches b under key. Blocks larger than the capacity are not cached.
// Set never blocks on the budget: when rc denies the bytes, a new block is
// dropped and an existing block keeps its old value.
func (c *LRUBlockCache) Set(_ context.Context, key Key, b []byte) {
	n := int64(len(b))
	if n > c.capacity {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.items[key]; ok {
		ent := e.Value.(*entry)
		delta := n - int64(len(ent.value))
		if delta > 0 && !c.rc.TryAcquireMemory(delta) {
			return
		}
		if delta < 0 {
			c.rc.ReleaseMemory(-delta)
		}
		ent.value = b
		c.size += delta
		c.order.MoveToFront(e)
		c.shrinkTo(c.capacity)
		return
	}

	// Evict first so released bytes are back in the budget.
	c.shrinkTo(c.capacity - n)
	if !c.rc.TryAcquireMemory(n) {
		return
	}
	c.items[key] = c.order.PushFront(&entry{key: key, value: b})
	c.size += n
}

// Invalidate removes the entries matching predicate.
func (c *LRUBlockCache) Invalidate(predicate func(key Key) bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, e := range c.items {
		if predicate(key) {
			c.remove(e)
		}
	}
}

// Close drops every entry and returns its bytes to the budget.
func (c *LRUBlockCache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.shrinkTo(0)
	return nil
}

// Stats returns the hit and miss counts.
func (c *LRUBlockCache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

// Len returns the number of cached blocks.
func (c *LRUBlockCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Size returns the number of cached bytes.
func (c *LRUBlockCache) Size() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.size
}

// shrinkTo evicts from the back until at most limit bytes remain.
// c.mu must be held.
func (c *LRUBlockCache) shrinkTo(limit int64) {
	for c.size > limit {
		back := c.order.Back()
		if back == nil {
			return
		}
		c.remove(back)
	}
}

// remove unlinks e and releases its bytes. c.mu must be held.
func (c *LRUBlockCache) remove(e *list.Element) {
	ent := c.order.Remove(e).(*entry)
	delete(c.items, ent.key)
	c.size -= int64(len(ent.value))
	c.rc.ReleaseMemory(int64(len(ent.value)))
}
