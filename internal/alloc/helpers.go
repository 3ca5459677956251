package alloc

import (
	"fmt"
	"unsafe"
)

// Trace, when set, observes every dispatch made through the typed helpers
// together with the call site that issued it. It is a diagnostic hook and
// must not mutate the arguments.
var Trace func(args Args, result Word, location Location)

// proxy is the single funnel of the typed helper surface.
func proxy(a Allocator, args Args, location Location) Word {
	result := a.Invoke(args)
	if Trace != nil {
		Trace(args, result, location)
	}
	return result
}

// Allocate requests size bytes with the allocator's default alignment.
func Allocate(a Allocator, size int) Word {
	return proxy(a, Args{Op: OpAllocate, Size: size}, callerLocation(1))
}

// AllocateAligned requests size bytes aligned to alignment, a positive power
// of two.
func AllocateAligned(a Allocator, size, alignment int) Word {
	return proxy(a, Args{Op: OpAllocateAligned, Size: size, Alignment: alignment}, callerLocation(1))
}

// AllocateAll requests all remaining memory of the allocator.
func AllocateAll(a Allocator) Word {
	return proxy(a, Args{Op: OpAllocateAll}, callerLocation(1))
}

// Resize grows or shrinks the allocation at memory from oldSize to newSize.
// A zero memory degrades to a plain allocation of newSize.
func Resize(a Allocator, memory uintptr, oldSize, newSize int) Word {
	return proxy(a, Args{Op: OpResize, Memory: memory, OldSize: oldSize, NewSize: newSize}, callerLocation(1))
}

// Free releases the allocation at memory.
func Free(a Allocator, memory uintptr) Word {
	return proxy(a, Args{Op: OpFree, Memory: memory}, callerLocation(1))
}

// FreeAll releases every allocation of the allocator.
func FreeAll(a Allocator) Word {
	return proxy(a, Args{Op: OpFreeAll}, callerLocation(1))
}

// QueryOwns reports 1 if the allocator owns memory, 0 if it does not, and
// QueryUnsupported if it cannot tell.
func QueryOwns(a Allocator, memory uintptr) Word {
	return proxy(a, Args{Op: OpQueryOwns, Memory: memory}, callerLocation(1))
}

// QueryUsed reports how many bytes the allocator has handed out.
func QueryUsed(a Allocator) Word {
	return proxy(a, Args{Op: OpQueryUsed}, callerLocation(1))
}

// QueryCapacity reports how many bytes the allocator can hand out in total.
func QueryCapacity(a Allocator) Word {
	return proxy(a, Args{Op: OpQueryCapacity}, callerLocation(1))
}

// QueryAlignment reports the allocator's natural alignment.
func QueryAlignment(a Allocator) Word {
	return proxy(a, Args{Op: OpQueryAlignment}, callerLocation(1))
}

// QueryGoodSize reports the allocator's smallest fully-utilized allocation
// size.
func QueryGoodSize(a Allocator) Word {
	return proxy(a, Args{Op: OpQueryGoodSize}, callerLocation(1))
}

// Bytes views a successful allocation as a byte slice of the given size.
// Passing a failed word is a contract violation.
func Bytes(w Word, size int) []byte {
	if !Succeeded(w) || w == 0 {
		fatalf("cannot view result %#x as memory", uintptr(w))
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(uintptr(w))), size)
}

// AllocateSlice allocates count values of T with T's natural alignment and
// returns a typed slice over the allocation, or an error on failure.
func AllocateSlice[T any](a Allocator, count int) ([]T, error) {
	var zero T
	size := count * int(unsafe.Sizeof(zero))
	alignment := int(unsafe.Alignof(zero))

	w := proxy(a, Args{Op: OpAllocateAligned, Size: size, Alignment: alignment}, callerLocation(1))
	if !Succeeded(w) {
		return nil, &AllocError{Status: StatusOf(w), Op: OpAllocateAligned, Size: size, Alignment: alignment}
	}
	if w == 0 {
		return nil, nil
	}
	return unsafe.Slice((*T)(unsafe.Pointer(uintptr(w))), count), nil
}

// AllocError reports a failed allocating operation as an error value.
type AllocError struct {
	Status    AllocationStatus
	Op        Op
	Size      int
	Alignment int
}

func (e *AllocError) Error() string {
	if e.Alignment > 0 {
		return fmt.Sprintf("alloc error [%s]: %s (size=%d, align=%d)", e.Op, e.Status, e.Size, e.Alignment)
	}
	return fmt.Sprintf("alloc error [%s]: %s (size=%d)", e.Op, e.Status, e.Size)
}

// FreeError reports a failed freeing operation as an error value.
type FreeError struct {
	Status FreeStatus
	Memory uintptr
}

func (e *FreeError) Error() string {
	return fmt.Sprintf("free error: %s (ptr=%#x)", e.Status, e.Memory)
}
