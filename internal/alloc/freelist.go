package alloc

import (
	"encoding/binary"
	"unsafe"
)

// nodeHeaderSize is the size of the onePastNext field threaded through free
// cells. Block sizes must be a multiple of it.
const nodeHeaderSize = 4

// FreeList is a fixed-block allocator. The client-supplied buffer is tiled
// into count cells of blockSize bytes; allocation and free are both O(1).
// The free chain is intrusive: each free cell stores, in its first four
// bytes, one past the index of the next free cell, with 0 meaning no next
// recorded. Cells beyond the chain that have never been allocated form a
// contiguous implicitly-free suffix.
type FreeList struct {
	buf       []byte
	blockSize int
	count     int
	firstFree int
	used      int
}

// NewFreeList creates a free-list allocator tiling count cells of blockSize
// bytes over buf. blockSize must be a positive multiple of the node header
// size.
func NewFreeList(buf []byte, blockSize, count int) *FreeList {
	if blockSize <= 0 || blockSize%nodeHeaderSize != 0 {
		fatalf("block size must be a positive multiple of %d, got %d", nodeHeaderSize, blockSize)
	}
	if count <= 0 {
		fatalf("block count must be positive, got %d", count)
	}
	if blockSize*count > len(buf) {
		fatalf("buffer of %d bytes cannot hold %d blocks of %d bytes", len(buf), count, blockSize)
	}

	f := &FreeList{buf: buf, blockSize: blockSize, count: count}
	fill(f.buf[:f.capacity()], 0)
	return f
}

func (f *FreeList) base() uintptr {
	return uintptr(unsafe.Pointer(unsafe.SliceData(f.buf)))
}

func (f *FreeList) capacity() int {
	return f.blockSize * f.count
}

func (f *FreeList) allocate(size int) Word {
	if size > f.blockSize {
		fatalf("allocation of %d bytes exceeds the block size %d", size, f.blockSize)
	}

	if f.firstFree == f.count {
		return makeAllocError(AllocationOutOfMemory)
	}

	offset := f.firstFree * f.blockSize
	onePastNext := binary.LittleEndian.Uint32(f.buf[offset:])
	if onePastNext == 0 {
		// Sentinel: no next recorded, walk forward into the never-allocated
		// suffix.
		f.firstFree++
	} else {
		f.firstFree = int(onePastNext) - 1
	}
	f.used++
	return makeResult(f.base() + uintptr(offset))
}

// allocateAligned accepts any power-of-two alignment up to the block size;
// cell addresses are aligned by construction relative to the buffer base.
func (f *FreeList) allocateAligned(size, alignment int) Word {
	if !isPowerOfTwo(alignment) || alignment > f.blockSize {
		fatalf("free list can align at most to its block size %d, got %d", f.blockSize, alignment)
	}
	return f.allocate(size)
}

func (f *FreeList) free(memory uintptr) Word {
	if f.owns(memory) != 1 {
		return makeFreeStatus(FreeCalledOnNonOwnedMemory)
	}

	offset := int(memory - f.base())
	if offset >= f.capacity() {
		return makeFreeStatus(FreeCalledOnNonOwnedMemory)
	}
	if offset%f.blockSize != 0 {
		fatalf("free pointer %#x is not on a cell boundary", memory)
	}
	if f.used == 0 {
		fatalf("free on an allocator with no outstanding blocks")
	}

	binary.LittleEndian.PutUint32(f.buf[offset:], uint32(f.firstFree)+1)
	f.firstFree = offset / f.blockSize
	f.used--
	return makeFreeStatus(FreeSucceeded)
}

func (f *FreeList) freeAll() Word {
	f.firstFree = 0
	f.used = 0
	fill(f.buf[:f.capacity()], 0)
	return makeFreeStatus(FreeSucceeded)
}

func (f *FreeList) owns(memory uintptr) uintptr {
	if f.base() <= memory && memory <= f.base()+uintptr(f.capacity()) {
		return 1
	}
	return 0
}

// Invoke implements Allocator.
func (f *FreeList) Invoke(args Args) Word {
	switch args.Op {
	case OpAllocate:
		return f.allocate(args.Size)
	case OpAllocateAligned:
		return f.allocateAligned(args.Size, args.Alignment)
	case OpAllocateAll:
		return makeAllocError(AllocationUnsupportedOperation)
	case OpResize:
		return makeAllocError(AllocationUnsupportedOperation)
	case OpFree:
		return f.free(args.Memory)
	case OpFreeAll:
		return f.freeAll()
	case OpQueryUsed:
		return makeQuery(uintptr(f.used * f.blockSize))
	case OpQueryOwns:
		return makeQuery(f.owns(args.Memory))
	case OpQueryCapacity:
		return makeQuery(uintptr(f.capacity()))
	case OpQueryAlignment, OpQueryGoodSize:
		return makeQuery(uintptr(f.blockSize))
	}
	fatalf("unknown operation %v", args.Op)
	return 0
}
