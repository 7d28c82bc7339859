package mem

import (
	"errors"
	"math"
	"unsafe"

	"github.com/hupe1980/sparseset/internal/conv"
	"github.com/hupe1980/sparseset/resource"
)

var errSizeOverflow = errors.New("element count overflows byte size")

// Buffer is an owning, fixed-length buffer of pointer-free elements backed by
// an Allocator block. A zero-length Buffer holds a placeholder and allocates
// nothing.
//
// Contents are unspecified after allocation and after growing past the old
// length (they happen to be zero for both allocators, but callers must not
// rely on it).
//
// A Buffer is not safe for concurrent use.
type Buffer[T conv.Integer] struct {
	alloc Allocator
	rc    *resource.Controller
	block Block
	items []T
}

// NewBuffer allocates a buffer of n elements. It panics with an *AllocError if
// the allocation fails or rc denies the reservation.
func NewBuffer[T conv.Integer](a Allocator, rc *resource.Controller, n int) *Buffer[T] {
	if a == nil {
		a = Heap{}
	}
	b := &Buffer[T]{alloc: a, rc: rc}
	if n > 0 {
		b.allocate(n)
	}
	return b
}

// ElemSize returns the size of one element in bytes.
func (b *Buffer[T]) ElemSize() int {
	var zero T
	return int(unsafe.Sizeof(zero))
}

// Len returns the number of elements.
func (b *Buffer[T]) Len() int { return len(b.items) }

// Bytes returns the number of bytes owned by the buffer.
func (b *Buffer[T]) Bytes() int { return b.block.Size() }

// Items returns the typed view of the whole buffer. The slice is valid until
// the next Resize or Release.
func (b *Buffer[T]) Items() []T { return b.items }

// Allocator returns the allocator backing the buffer.
func (b *Buffer[T]) Allocator() Allocator { return b.alloc }

// Resize changes the buffer length to n elements, preserving the first
// min(old, n) elements. Resize(0) releases the block.
func (b *Buffer[T]) Resize(n int) {
	switch {
	case n == len(b.items):
		return
	case n <= 0:
		b.Release()
	case len(b.items) == 0:
		b.allocate(n)
	default:
		b.reallocate(n)
	}
}

// CopyFrom copies the first n elements of src into b.
// Both buffers must hold at least n elements.
func (b *Buffer[T]) CopyFrom(src *Buffer[T], n int) {
	copy(b.items[:n], src.items[:n])
}

// Release returns the block to the allocator and the reservation to the
// resource controller. The buffer is empty afterwards and may be resized again.
func (b *Buffer[T]) Release() {
	if b.block.Size() == 0 {
		b.items = nil
		return
	}
	size := b.block.Size()
	if err := b.alloc.Deallocate(b.block); err != nil {
		panic(&AllocError{Op: "deallocate", Bytes: size, Allocator: b.alloc.Name(), cause: err})
	}
	b.rc.ReleaseMemory(int64(size))
	b.block = Block{}
	b.items = nil
}

func (b *Buffer[T]) byteSize(op string, n int) int {
	es := b.ElemSize()
	if n > math.MaxInt/es {
		panic(&AllocError{Op: op, Bytes: math.MaxInt, Allocator: b.alloc.Name(), cause: errSizeOverflow})
	}
	return n * es
}

func (b *Buffer[T]) allocate(n int) {
	size := b.byteSize("allocate", n)
	if err := b.rc.ReserveMemory(int64(size)); err != nil {
		panic(&AllocError{Op: "allocate", Bytes: size, Allocator: b.alloc.Name(), cause: err})
	}
	block, err := b.alloc.Allocate(size)
	if err != nil {
		b.rc.ReleaseMemory(int64(size))
		panic(&AllocError{Op: "allocate", Bytes: size, Allocator: b.alloc.Name(), cause: err})
	}
	b.setBlock(block, n)
}

func (b *Buffer[T]) reallocate(n int) {
	oldSize := b.block.Size()
	size := b.byteSize("reallocate", n)
	if delta := int64(size - oldSize); delta > 0 {
		if err := b.rc.ReserveMemory(delta); err != nil {
			panic(&AllocError{Op: "reallocate", Bytes: size, Allocator: b.alloc.Name(), cause: err})
		}
	}
	block, err := b.alloc.Reallocate(b.block, size)
	if err != nil {
		if delta := int64(size - oldSize); delta > 0 {
			b.rc.ReleaseMemory(delta)
		}
		panic(&AllocError{Op: "reallocate", Bytes: size, Allocator: b.alloc.Name(), cause: err})
	}
	if delta := int64(oldSize - size); delta > 0 {
		b.rc.ReleaseMemory(delta)
	}
	b.setBlock(block, n)
}

// setBlock installs block and rebuilds the typed view. Both allocators hand
// out blocks aligned to at least 64 bytes, which covers every integer kind.
func (b *Buffer[T]) setBlock(block Block, n int) {
	b.block = block
	data := block.Bytes()
	ptr := unsafe.Pointer(&data[0])      //nolint:gosec // typed view over an owned, aligned block
	b.items = unsafe.Slice((*T)(ptr), n) //nolint:gosec // T is pointer-free by constraint
}
