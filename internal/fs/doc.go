// Package fs provides filesystem abstractions for testability and fault injection.
//
//   - [LocalFS]: production implementation using the os package
//   - [FaultyFS]: test wrapper that injects write, sync, close and rename errors
//
// Operations take no context.Context: local filesystem calls are short and
// not interruptible at the syscall level. Slow backends go through
// blobstore.Blob, which does take one.
package fs
