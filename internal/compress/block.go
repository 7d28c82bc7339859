package compress

import (
	"bytes"
	"io"
)

// DefaultBlockSize is the uncompressed size of a block written by BlockWriter.
const DefaultBlockSize = 256 * 1024

// BlockWriter writes compressed blocks to an underlying writer.
type BlockWriter struct {
	w         io.Writer
	t         Type
	blockSize int
	buffer    *bytes.Buffer
	written   int64
}

// NewBlockWriter creates a new compressed block writer.
func NewBlockWriter(w io.Writer, t Type, blockSize int) *BlockWriter {
	if blockSize <= 0 {
		blockSize = DefaultBlockSize
	}
	return &BlockWriter{
		w:         w,
		t:         t,
		blockSize: blockSize,
		buffer:    bytes.NewBuffer(make([]byte, 0, blockSize)),
	}
}

// Write writes data to the buffer, flushing blocks as needed.
func (c *BlockWriter) Write(p []byte) (int, error) {
	total := 0
	for len(p) > 0 {
		space := c.blockSize - c.buffer.Len()
		if space <= 0 {
			if err := c.flushBlock(); err != nil {
				return total, err
			}
			space = c.blockSize
		}

		n, _ := c.buffer.Write(p[:min(len(p), space)])
		total += n
		p = p[n:]
	}
	return total, nil
}

func (c *BlockWriter) flushBlock() error {
	if c.buffer.Len() == 0 {
		return nil
	}

	block, err := Compress(c.buffer.Bytes(), c.t)
	if err != nil {
		return err
	}

	n, err := c.w.Write(block)
	c.written += int64(n)
	if err != nil {
		return err
	}
	c.buffer.Reset()
	return nil
}

// Flush writes any remaining buffered data as a final block.
func (c *BlockWriter) Flush() error {
	return c.flushBlock()
}

// BytesWritten returns the total compressed bytes written.
func (c *BlockWriter) BytesWritten() int64 {
	return c.written
}

// DecompressAll decodes a sequence of blocks and returns the concatenated
// contents.
func DecompressAll(data []byte, t Type) ([]byte, error) {
	var result []byte
	for len(data) > 0 {
		block, n, err := Decompress(data, t)
		if err != nil {
			return nil, err
		}
		result = append(result, block...)
		data = data[n:]
	}
	return result, nil
}
