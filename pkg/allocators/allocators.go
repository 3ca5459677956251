// Package allocators is the public surface of the composable allocator
// library. It re-exports the allocator contract, the leaf allocators and
// strategies, the compositors, and the backing-buffer sources, so clients
// import a single package.
//
//	buf := make([]byte, 1024)
//	stack := allocators.NewStack(buf)
//	heap := allocators.NewHeap()
//	a := allocators.NewFallback(stack, heap)
//
//	w := allocators.Allocate(a, 128)
//	if !allocators.Succeeded(w) {
//		// decode allocators.StatusOf(w)
//	}
package allocators

import (
	"github.com/naxaes/allocators-go/internal/alloc"
	"github.com/naxaes/allocators-go/internal/buffer"
)

// Contract types.
type (
	Allocator        = alloc.Allocator
	Args             = alloc.Args
	Op               = alloc.Op
	Word             = alloc.Word
	AllocationStatus = alloc.AllocationStatus
	FreeStatus       = alloc.FreeStatus
	Location         = alloc.Location
	ContractError    = alloc.ContractError
	AllocError       = alloc.AllocError
	FreeError        = alloc.FreeError
)

// Allocators.
type (
	Stack        = alloc.Stack
	FreeList     = alloc.FreeList
	Heap         = alloc.Heap
	Null         = alloc.Null
	Panic        = alloc.Panic
	Fallback     = alloc.Fallback
	Segregator   = alloc.Segregator
	Instrumented = alloc.Instrumented
	Locked       = alloc.Locked
)

// Backing-buffer sources.
type (
	Source     = buffer.Source
	HeapSource = buffer.HeapSource
	MmapSource = buffer.MmapSource
)

// Operation codes.
const (
	OpAllocate        = alloc.OpAllocate
	OpAllocateAligned = alloc.OpAllocateAligned
	OpAllocateAll     = alloc.OpAllocateAll
	OpResize          = alloc.OpResize
	OpFree            = alloc.OpFree
	OpFreeAll         = alloc.OpFreeAll
	OpQueryUsed       = alloc.OpQueryUsed
	OpQueryOwns       = alloc.OpQueryOwns
	OpQueryCapacity   = alloc.OpQueryCapacity
	OpQueryAlignment  = alloc.OpQueryAlignment
	OpQueryGoodSize   = alloc.OpQueryGoodSize
)

// Result encoding.
const (
	Reserved         = alloc.Reserved
	QueryUnsupported = alloc.QueryUnsupported
)

// Allocation statuses.
const (
	AllocationSucceeded            = alloc.AllocationSucceeded
	AllocationOutOfMemory          = alloc.AllocationOutOfMemory
	AllocationUnsupportedOperation = alloc.AllocationUnsupportedOperation
	AllocationNonOwnedMemory       = alloc.AllocationNonOwnedMemory
)

// Free statuses.
const (
	FreeSucceeded              = alloc.FreeSucceeded
	FreeCalledOnNonOwnedMemory = alloc.FreeCalledOnNonOwnedMemory
	FreeUnsupportedOperation   = alloc.FreeUnsupportedOperation
)

// Constructors.
var (
	NewStack        = alloc.NewStack
	NewFreeList     = alloc.NewFreeList
	NewHeap         = alloc.NewHeap
	NewFallback     = alloc.NewFallback
	NewSegregator   = alloc.NewSegregator
	NewInstrumented = alloc.NewInstrumented
	NewLocked       = alloc.NewLocked
)

// Typed helper surface.
var (
	Allocate        = alloc.Allocate
	AllocateAligned = alloc.AllocateAligned
	AllocateAll     = alloc.AllocateAll
	Resize          = alloc.Resize
	Free            = alloc.Free
	FreeAll         = alloc.FreeAll
	QueryOwns       = alloc.QueryOwns
	QueryUsed       = alloc.QueryUsed
	QueryCapacity   = alloc.QueryCapacity
	QueryAlignment  = alloc.QueryAlignment
	QueryGoodSize   = alloc.QueryGoodSize
	Bytes           = alloc.Bytes
	Succeeded       = alloc.Succeeded
	Freed           = alloc.Freed
	StatusOf        = alloc.StatusOf
	FreeStatusOf    = alloc.FreeStatusOf
)

// AllocateSlice allocates count values of T with T's natural alignment and
// returns a typed slice over the allocation.
func AllocateSlice[T any](a Allocator, count int) ([]T, error) {
	return alloc.AllocateSlice[T](a, count)
}
