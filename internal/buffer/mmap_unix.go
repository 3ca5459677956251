//go:build unix

package buffer

import (
	"os"

	"golang.org/x/sys/unix"
)

// MmapSource acquires buffers from anonymous memory mappings, outside the Go
// heap. Requests are rounded up to whole pages; the returned slice covers
// the full mapping and must be handed back to Release as-is.
type MmapSource struct{}

// Acquire implements Source.
func (MmapSource) Acquire(size int) ([]byte, error) {
	pageSize := os.Getpagesize()
	size = (size + pageSize - 1) &^ (pageSize - 1)

	return unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
}

// Release implements Source.
func (MmapSource) Release(buf []byte) error {
	return unix.Munmap(buf)
}
