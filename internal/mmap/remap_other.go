//go:build !linux

package mmap

// osRemap reports that in-place resizing is unsupported; Remap falls back to
// map-copy-unmap.
func osRemap(_ []byte, _ int) ([]byte, bool, error) {
	return nil, false, nil
}
