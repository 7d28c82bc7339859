// Package hash provides the CRC32-Castagnoli checksum that guards snapshot
// payloads.
//
// Go's hash/crc32 uses SSE4.2 or the ARM CRC extension for this polynomial
// when available.
//
//	sum := hash.CRC32C(payload)
//	err := hash.Verify(payload, sum) // wraps ErrChecksumMismatch on failure
package hash
