// Package snapshot persists sets to a blobstore.BlobStore.
//
// A snapshot is a self-describing blob:
//
//	Magic       (4 bytes)  "SPS1"
//	Version     (4 bytes)
//	Compression (1 byte)   compress.Type of the payload blocks
//	CodecLen    (1 byte)
//	Reserved    (2 bytes)
//	Count       (8 bytes)  number of members
//	PayloadLen  (8 bytes)  length of the compressed payload
//	Checksum    (4 bytes)  CRC32C of everything after the header
//	Codec       (CodecLen bytes) codec name, e.g. "binary"
//	Payload     compressed blocks of the codec output
//
// All integers are little-endian. Only the members are stored; a loaded set
// has capacity max+1, like any decoded set.
package snapshot
