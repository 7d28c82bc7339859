// Package compress implements the block compression used by snapshots.
//
// Each block carries an 8-byte header:
//
//	[UncompressedSize uint32][CompressedSize uint32][Data...]
//
// CompressedSize 0 marks a block stored as-is, which is what Compress falls
// back to when an algorithm saves less than 10%. The algorithm itself is not
// recorded per block; callers store it once (see the snapshot header).
//
// Supported algorithms: None, LZ4 (github.com/pierrec/lz4/v4), ZSTD
// (github.com/klauspost/compress/zstd, pooled encoders) and Snappy
// (github.com/golang/snappy).
package compress
