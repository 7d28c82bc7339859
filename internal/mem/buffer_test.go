package mem

import (
	"errors"
	"fmt"
	"testing"

	"github.com/hupe1980/sparseset/resource"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allocators = []Allocator{Heap{}, OffHeap{}}

func TestBuffer_ZeroLength(t *testing.T) {
	for _, a := range allocators {
		t.Run(a.Name(), func(t *testing.T) {
			b := NewBuffer[uint32](a, nil, 0)
			assert.Equal(t, 0, b.Len())
			assert.Equal(t, 0, b.Bytes())
			assert.Empty(t, b.Items())
			b.Release() // no-op
			assert.Equal(t, 0, b.Len())
		})
	}
}

func TestBuffer_AllocateAndWrite(t *testing.T) {
	for _, a := range allocators {
		t.Run(a.Name(), func(t *testing.T) {
			b := NewBuffer[uint16](a, nil, 1000)
			defer b.Release()

			assert.Equal(t, 1000, b.Len())
			assert.Equal(t, 2, b.ElemSize())
			assert.Equal(t, 2000, b.Bytes())

			items := b.Items()
			for i := range items {
				items[i] = uint16(i)
			}
			assert.Equal(t, uint16(999), b.Items()[999])
		})
	}
}

func TestBuffer_ResizePreservesPrefix(t *testing.T) {
	for _, a := range allocators {
		t.Run(a.Name(), func(t *testing.T) {
			b := NewBuffer[uint64](a, nil, 16)
			defer b.Release()
			for i := range b.Items() {
				b.Items()[i] = uint64(i * 3)
			}

			b.Resize(4096)
			require.Equal(t, 4096, b.Len())
			for i := 0; i < 16; i++ {
				assert.Equal(t, uint64(i*3), b.Items()[i])
			}

			b.Resize(8)
			require.Equal(t, 8, b.Len())
			for i := 0; i < 8; i++ {
				assert.Equal(t, uint64(i*3), b.Items()[i])
			}

			b.Resize(0)
			assert.Equal(t, 0, b.Len())
			assert.Equal(t, 0, b.Bytes())

			b.Resize(4)
			assert.Equal(t, 4, b.Len())
		})
	}
}

func TestBuffer_CopyFrom(t *testing.T) {
	src := NewBuffer[int32](Heap{}, nil, 8)
	dst := NewBuffer[int32](OffHeap{}, nil, 8)
	defer dst.Release()
	for i := range src.Items() {
		src.Items()[i] = int32(-i)
	}

	dst.CopyFrom(src, 5)
	assert.Equal(t, []int32{0, -1, -2, -3, -4}, dst.Items()[:5])

	src.Items()[0] = 42
	assert.Equal(t, int32(0), dst.Items()[0], "buffers must not share memory")
}

func TestBuffer_MemoryAccounting(t *testing.T) {
	rc := resource.NewController(resource.Config{MemoryLimitBytes: 1024})

	b := NewBuffer[uint32](Heap{}, rc, 64) // 256 bytes
	assert.Equal(t, int64(256), rc.MemoryUsage())

	b.Resize(128) // 512 bytes
	assert.Equal(t, int64(512), rc.MemoryUsage())

	b.Resize(32) // 128 bytes
	assert.Equal(t, int64(128), rc.MemoryUsage())

	b.Release()
	assert.Equal(t, int64(0), rc.MemoryUsage())
}

func TestBuffer_AllocationFailureIsFatal(t *testing.T) {
	rc := resource.NewController(resource.Config{MemoryLimitBytes: 100})

	defer func() {
		r := recover()
		require.NotNil(t, r, "expected panic")
		err, ok := r.(error)
		require.True(t, ok)

		var ae *AllocError
		require.True(t, errors.As(err, &ae))
		assert.Equal(t, "allocate", ae.Op)
		assert.Equal(t, 400, ae.Bytes)
		assert.ErrorIs(t, err, ErrOutOfMemory)
		assert.ErrorIs(t, err, resource.ErrMemoryLimitExceeded)
		assert.Equal(t, int64(0), rc.MemoryUsage())
	}()

	_ = NewBuffer[uint32](Heap{}, rc, 100)
}

func TestBuffer_ReallocationFailureIsFatal(t *testing.T) {
	rc := resource.NewController(resource.Config{MemoryLimitBytes: 100})
	b := NewBuffer[uint8](Heap{}, rc, 50)

	assert.PanicsWithError(t, fmt.Sprintf("mem: reallocate of 200 bytes via heap allocator failed: %v", resource.ErrMemoryLimitExceeded), func() {
		b.Resize(200)
	})
	assert.Equal(t, 50, b.Len(), "failed reallocation leaves the buffer intact")
	assert.Equal(t, int64(50), rc.MemoryUsage())
}

func BenchmarkBuffer_Allocate(b *testing.B) {
	for _, a := range allocators {
		b.Run(a.Name(), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				buf := NewBuffer[uint32](a, nil, 1<<16)
				buf.Release()
			}
		})
	}
}
