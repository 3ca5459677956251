package alloc

// Null is the allocator that owns nothing. Size-zero allocations succeed with
// the address 0; everything else is out of memory. It is the only allocator
// allowed to hand out 0, and it is stateless, so a single value can be shared
// freely.
type Null struct{}

// Invoke implements Allocator.
func (Null) Invoke(args Args) Word {
	switch args.Op {
	case OpAllocate:
		if args.Size == 0 {
			return nullResult()
		}
		return makeAllocError(AllocationOutOfMemory)
	case OpAllocateAligned:
		if args.Size == 0 {
			return nullResult()
		}
		return makeAllocError(AllocationOutOfMemory)
	case OpAllocateAll:
		return nullResult()
	case OpResize:
		if args.NewSize == 0 {
			return nullResult()
		}
		return makeAllocError(AllocationOutOfMemory)
	case OpFree:
		if args.Memory == 0 {
			return makeFreeStatus(FreeSucceeded)
		}
		return makeFreeStatus(FreeCalledOnNonOwnedMemory)
	case OpFreeAll:
		return makeFreeStatus(FreeSucceeded)
	case OpQueryOwns:
		if args.Memory == 0 {
			return makeQuery(1)
		}
		return makeQuery(0)
	case OpQueryUsed, OpQueryCapacity, OpQueryAlignment, OpQueryGoodSize:
		return QueryUnsupported
	}
	fatalf("unknown operation %v", args.Op)
	return 0
}

// Panic is the allocator that aborts on every operation. It marks branches of
// a composite tree that must never be reached, so a composition failure is
// loud instead of a silent degradation.
type Panic struct{}

// Invoke implements Allocator.
func (Panic) Invoke(args Args) Word {
	fatalf("panic allocator invoked with %v", args.Op)
	return 0
}
