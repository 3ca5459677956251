package alloc

import "unsafe"

// heapResizeAlignment is the granule resize rounds to when the original
// alignment of the block is unknown.
const heapResizeAlignment = 8

// Heap is the leaf that fetches memory from the Go runtime. Every handed-out
// block is pinned in a map so the garbage collector keeps it alive for as
// long as the address is outstanding; Free unpins it. Freshly-allocated
// memory is filled with DebugFill.
//
// AllocateAll and FreeAll make no sense on an unbounded heap and report an
// unsupported operation; the size queries are likewise unsupported. Ownership
// is answered from the pin map, which compositors rely on to route frees and
// resizes.
type Heap struct {
	allocations map[uintptr][]byte
}

// NewHeap creates a system-heap allocator.
func NewHeap() *Heap {
	return &Heap{allocations: make(map[uintptr][]byte)}
}

// fetch grabs size bytes from the runtime at the requested alignment and
// pins them under the address handed out.
func (h *Heap) fetch(size, alignment int) uintptr {
	if size <= 0 {
		size = 1
	}

	// The runtime only guarantees its own natural alignment, so over-allocate
	// and hand out the first aligned address inside the block.
	block := make([]byte, size+alignment-1)
	address := alignAddress(uintptr(unsafe.Pointer(unsafe.SliceData(block))), alignment)

	h.allocations[address] = block
	fill(unsafe.Slice((*byte)(unsafe.Pointer(address)), size), DebugFill)
	return address
}

func (h *Heap) allocate(size int) Word {
	return makeResult(h.fetch(size, heapResizeAlignment))
}

func (h *Heap) allocateAligned(size, alignment int) Word {
	if !isPowerOfTwo(alignment) {
		fatalf("alignment must be a power of two, got %d", alignment)
	}
	return makeResult(h.fetch(roundToAligned(size, alignment), alignment))
}

func (h *Heap) resize(memory uintptr, oldSize, newSize int) Word {
	if memory == 0 {
		return h.allocate(newSize)
	}

	if _, ok := h.allocations[memory]; !ok {
		return makeAllocError(AllocationNonOwnedMemory)
	}

	size := roundToAligned(newSize, heapResizeAlignment)
	address := h.fetch(size, heapResizeAlignment)

	n := oldSize
	if newSize < n {
		n = newSize
	}
	if n > 0 {
		old := unsafe.Slice((*byte)(unsafe.Pointer(memory)), n)
		copy(unsafe.Slice((*byte)(unsafe.Pointer(address)), n), old)
	}

	delete(h.allocations, memory)
	return makeResult(address)
}

func (h *Heap) free(memory uintptr) Word {
	if memory == 0 {
		return makeFreeStatus(FreeSucceeded)
	}
	if _, ok := h.allocations[memory]; !ok {
		return makeFreeStatus(FreeCalledOnNonOwnedMemory)
	}
	delete(h.allocations, memory)
	return makeFreeStatus(FreeSucceeded)
}

func (h *Heap) owns(memory uintptr) uintptr {
	if _, ok := h.allocations[memory]; ok {
		return 1
	}
	return 0
}

// Invoke implements Allocator.
func (h *Heap) Invoke(args Args) Word {
	switch args.Op {
	case OpAllocate:
		return h.allocate(args.Size)
	case OpAllocateAligned:
		return h.allocateAligned(args.Size, args.Alignment)
	case OpAllocateAll:
		return makeAllocError(AllocationUnsupportedOperation)
	case OpResize:
		return h.resize(args.Memory, args.OldSize, args.NewSize)
	case OpFree:
		return h.free(args.Memory)
	case OpFreeAll:
		return makeFreeStatus(FreeUnsupportedOperation)
	case OpQueryOwns:
		return makeQuery(h.owns(args.Memory))
	case OpQueryUsed, OpQueryCapacity, OpQueryAlignment, OpQueryGoodSize:
		return QueryUnsupported
	}
	fatalf("unknown operation %v", args.Op)
	return 0
}
