package mmap

import (
	"io"
	"os"
	"sync/atomic"
)

// Mapping represents a memory mapping, either a read-only view of a file or a
// read-write anonymous region.
// It owns the underlying byte slice and is responsible for unmapping it.
type Mapping struct {
	data   []byte
	size   int
	anon   bool
	closed atomic.Bool
	// unmap is the platform-specific function to unmap the memory.
	unmap func([]byte) error
}

// Open maps the file at path into memory.
// The file is mapped as read-only.
func Open(path string) (*Mapping, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}

	size := fi.Size()
	if size == 0 {
		return &Mapping{data: nil, size: 0}, nil
	}
	if size < 0 {
		return nil, ErrInvalidSize
	}

	// Platform-specific mapping
	data, unmapFunc, err := osMap(f, int(size))
	if err != nil {
		return nil, err
	}

	return &Mapping{
		data:  data,
		size:  int(size),
		unmap: unmapFunc,
	}, nil
}

// MapAnon creates a zero-filled read-write anonymous mapping of size bytes.
// The memory lives outside the Go heap and is never scanned by the garbage
// collector, so it must not hold Go pointers.
func MapAnon(size int) (*Mapping, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}

	data, unmapFunc, err := osMapAnon(size)
	if err != nil {
		return nil, err
	}

	return &Mapping{
		data:  data,
		size:  size,
		anon:  true,
		unmap: unmapFunc,
	}, nil
}

// Remap changes the size of an anonymous mapping. The first min(old, new)
// bytes are preserved. Where the platform supports it (mremap on Linux) the
// region is resized in place or moved by the kernel; otherwise a new region is
// mapped, the contents copied and the old region released.
//
// Slices previously returned by Bytes are invalid after Remap.
func (m *Mapping) Remap(size int) error {
	if m.closed.Load() {
		return ErrClosed
	}
	if !m.anon {
		return ErrReadOnly
	}
	if size <= 0 {
		return ErrInvalidSize
	}
	if size == m.size {
		return nil
	}

	if data, ok, err := osRemap(m.data, size); ok {
		if err != nil {
			return err
		}
		m.data = data
		m.size = size
		return nil
	}

	data, unmapFunc, err := osMapAnon(size)
	if err != nil {
		return err
	}
	copy(data, m.data)

	if err := m.unmap(m.data); err != nil {
		_ = unmapFunc(data)
		return err
	}

	m.data = data
	m.size = size
	m.unmap = unmapFunc
	return nil
}

// Close unmaps the memory. It is idempotent.
func (m *Mapping) Close() error {
	if m.closed.Swap(true) {
		return nil // Already closed
	}
	if m.unmap != nil && m.data != nil {
		err := m.unmap(m.data)
		m.data = nil
		return err
	}
	return nil
}

// Bytes returns the underlying byte slice.
// Warning: The slice is valid only until Close() or Remap() is called.
// Accessing the slice after that results in undefined behavior (likely a crash).
func (m *Mapping) Bytes() []byte {
	if m.closed.Load() {
		return nil
	}
	return m.data
}

// Size returns the size of the mapping in bytes.
func (m *Mapping) Size() int {
	return m.size
}

// Anonymous reports whether the mapping was created by MapAnon.
func (m *Mapping) Anonymous() bool {
	return m.anon
}

// Advise provides hints to the kernel about how the memory will be accessed.
func (m *Mapping) Advise(pattern AccessPattern) error {
	if m.closed.Load() {
		return ErrClosed
	}
	if m.data == nil {
		return nil
	}
	return osAdvise(m.data, pattern)
}

// ReadAt implements io.ReaderAt.
func (m *Mapping) ReadAt(p []byte, off int64) (n int, err error) {
	if m.closed.Load() {
		return 0, ErrClosed
	}
	if off < 0 {
		return 0, ErrInvalidOffset
	}
	if off >= int64(len(m.data)) {
		return 0, io.EOF
	}
	n = copy(p, m.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}
