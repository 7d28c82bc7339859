package mem

import (
	"github.com/hupe1980/sparseset/internal/mmap"
)

// Block is an owned, contiguous byte region handed out by an Allocator.
// The zero Block is the placeholder for a zero-sized allocation.
type Block struct {
	data    []byte
	mapping *mmap.Mapping // non-nil for off-heap blocks
}

// Bytes returns the raw region. It is valid until the block is reallocated
// or deallocated.
func (b Block) Bytes() []byte { return b.data }

// Size returns the size of the block in bytes.
func (b Block) Size() int { return len(b.data) }

// Allocator is a byte-buffer lifecycle manager. It never inspects contents.
type Allocator interface {
	// Allocate returns a block of exactly size bytes. size must be > 0.
	Allocate(size int) (Block, error)
	// Reallocate grows or shrinks b to size bytes, preserving the common prefix.
	// b must not be used after a successful call.
	Reallocate(b Block, size int) (Block, error)
	// Deallocate releases b.
	Deallocate(b Block) error
	// Name identifies the allocator in logs and errors.
	Name() string
}

// Heap allocates cache-line aligned blocks from the Go heap. Deallocate drops
// the reference and leaves reclamation to the garbage collector.
type Heap struct{}

// Allocate implements Allocator.
func (Heap) Allocate(size int) (Block, error) {
	return Block{data: AllocAligned(size)}, nil
}

// Reallocate implements Allocator by allocate-copy.
func (Heap) Reallocate(b Block, size int) (Block, error) {
	nb := Block{data: AllocAligned(size)}
	copy(nb.data, b.data)
	return nb, nil
}

// Deallocate implements Allocator.
func (Heap) Deallocate(Block) error { return nil }

// Name implements Allocator.
func (Heap) Name() string { return "heap" }

// OffHeap allocates blocks from anonymous memory mappings outside the Go heap.
// Blocks are released to the OS on Deallocate and resized with mremap where
// the platform supports it.
type OffHeap struct{}

// Allocate implements Allocator.
func (OffHeap) Allocate(size int) (Block, error) {
	m, err := mmap.MapAnon(size)
	if err != nil {
		return Block{}, err
	}
	// Set buffers are read at arbitrary positions; readahead is wasted work.
	_ = m.Advise(mmap.AccessRandom)
	return Block{data: m.Bytes(), mapping: m}, nil
}

// Reallocate implements Allocator.
func (a OffHeap) Reallocate(b Block, size int) (Block, error) {
	if b.mapping == nil {
		nb, err := a.Allocate(size)
		if err != nil {
			return Block{}, err
		}
		copy(nb.data, b.data)
		return nb, nil
	}
	if err := b.mapping.Remap(size); err != nil {
		return Block{}, err
	}
	return Block{data: b.mapping.Bytes(), mapping: b.mapping}, nil
}

// Deallocate implements Allocator.
func (OffHeap) Deallocate(b Block) error {
	if b.mapping == nil {
		return nil
	}
	return b.mapping.Close()
}

// Name implements Allocator.
func (OffHeap) Name() string { return "offheap" }
