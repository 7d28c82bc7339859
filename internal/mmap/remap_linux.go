//go:build linux

package mmap

import "golang.org/x/sys/unix"

func osRemap(data []byte, size int) ([]byte, bool, error) {
	out, err := unix.Mremap(data, size, unix.MREMAP_MAYMOVE)
	return out, true, err
}
