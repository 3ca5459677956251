//go:build windows

package buffer

import (
	"os"
	"unsafe"

	"golang.org/x/sys/windows"
)

// MmapSource acquires buffers from virtual-memory reservations, outside the
// Go heap. Requests are rounded up to whole pages; the returned slice covers
// the full reservation and must be handed back to Release as-is.
type MmapSource struct{}

// Acquire implements Source.
func (MmapSource) Acquire(size int) ([]byte, error) {
	pageSize := os.Getpagesize()
	size = (size + pageSize - 1) &^ (pageSize - 1)

	address, err := windows.VirtualAlloc(0, uintptr(size),
		windows.MEM_COMMIT|windows.MEM_RESERVE, windows.PAGE_READWRITE)
	if err != nil {
		return nil, err
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(address)), size), nil
}

// Release implements Source.
func (MmapSource) Release(buf []byte) error {
	address := uintptr(unsafe.Pointer(unsafe.SliceData(buf)))
	return windows.VirtualFree(address, 0, windows.MEM_RELEASE)
}
