// Package mmap provides memory mappings for off-heap buffers and zero-copy file reads.
//
// # Overview
//
// Anonymous mappings give the storage manager memory that lives outside the Go
// garbage collector's control: a set's dense and sparse buffers can be large,
// are pointer-free, and have an explicit owner that releases them, which is
// exactly the lifecycle of an mmap'd region.
//
// File mappings give the local blob store zero-copy reads of snapshot files.
//
// # Usage
//
//	m, err := mmap.MapAnon(4096)
//	if err != nil { ... }
//	defer m.Close()
//
//	buf := m.Bytes()      // read-write, zero-filled
//	_ = m.Remap(8192)     // grow; contents preserved, buf is now stale
//
//	f, err := mmap.Open("set.snap")
//	data := f.Bytes()     // read-only
//
// # Platform Support
//
//   - Linux: mmap(2), mremap(2) for in-place resizing, madvise(2) for access hints
//   - Other Unix (macOS, BSD): mmap(2); Remap falls back to map-copy-unmap
//   - Windows: VirtualAlloc / CreateFileMapping (madvise is a no-op)
//
// # Thread Safety
//
// Close is idempotent and protected by atomic operations. Remap is not safe for
// concurrent use, and callers must ensure no goroutine holds a slice from Bytes
// across Remap or Close.
package mmap
