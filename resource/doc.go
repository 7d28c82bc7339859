// Package resource provides shared limits for memory and IO.
//
// One Controller can be handed to many sets, caches and snapshot operations so
// that their combined buffer memory stays under a single budget:
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes:   64 << 20,
//	    IOLimitBytesPerSec: 8 << 20,
//	})
//	s := sparseset.WithCapacity[uint32](1<<20, sparseset.WithResourceController(rc))
//
// Set buffers reserve memory without blocking (allocation never waits); a denied
// reservation is an allocation failure. Snapshot reads and writes are paced by
// the IO limiter.
package resource
