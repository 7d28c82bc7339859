package cache

import "context"

// Kind separates key spaces.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindBlob         // byte ranges of a stored blob
)

func (k Kind) String() string {
	switch k {
	case KindBlob:
		return "blob"
	default:
		return "unknown"
	}
}

// Key identifies a cached block. Path names the source object and Offset
// the block within it.
type Key struct {
	Kind   Kind
	Path   string
	Offset uint64
}

// BlockCache is a byte-oriented cache for immutable blocks.
// Returned slices must be treated as read-only.
type BlockCache interface {
	// Get returns a cached block. ok=false if missing.
	Get(ctx context.Context, key Key) (b []byte, ok bool)
	// Set caches a block. The caller must not modify b afterwards.
	Set(ctx context.Context, key Key, b []byte)
	// Invalidate removes entries matching the predicate.
	Invalidate(predicate func(key Key) bool)
	Close() error
	Stats() (hits, misses int64)
}

// ForPath returns a predicate matching every entry of the given source.
func ForPath(path string) func(Key) bool {
	return func(k Key) bool { return k.Path == path }
}
