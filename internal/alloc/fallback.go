package alloc

// Fallback presents the union of two allocators: every allocation is tried
// on the primary first and handed to the secondary only when the primary
// fails. Both children must outlive the compositor.
type Fallback struct {
	Primary   Allocator
	Secondary Allocator
}

// NewFallback creates a fallback compositor over primary and secondary.
func NewFallback(primary, secondary Allocator) *Fallback {
	return &Fallback{Primary: primary, Secondary: secondary}
}

func (f *Fallback) allocate(args Args) Word {
	result := f.Primary.Invoke(args)
	if Succeeded(result) {
		return result
	}
	return f.Secondary.Invoke(args)
}

// resize routes to whichever child owns the memory; it never migrates a
// block between children.
func (f *Fallback) resize(args Args) Word {
	if args.Memory == 0 {
		return f.allocate(Args{Op: OpAllocate, Size: args.NewSize})
	}

	if owner := ownerOf(args.Memory, f.Primary, f.Secondary); owner != nil {
		return owner.Invoke(args)
	}
	return makeAllocError(AllocationNonOwnedMemory)
}

// free tries the primary and falls through to the secondary on any failure,
// inferring ownership from the free result rather than pre-querying.
func (f *Fallback) free(args Args) Word {
	result := f.Primary.Invoke(args)
	if Freed(result) {
		return result
	}
	return f.Secondary.Invoke(args)
}

func (f *Fallback) freeAll() Word {
	f.Primary.Invoke(Args{Op: OpFreeAll})
	f.Secondary.Invoke(Args{Op: OpFreeAll})
	return makeFreeStatus(FreeSucceeded)
}

// Invoke implements Allocator.
func (f *Fallback) Invoke(args Args) Word {
	switch args.Op {
	case OpAllocate, OpAllocateAligned:
		return f.allocate(args)
	case OpAllocateAll:
		return makeAllocError(AllocationUnsupportedOperation)
	case OpResize:
		return f.resize(args)
	case OpFree:
		return f.free(args)
	case OpFreeAll:
		return f.freeAll()
	case OpQueryOwns:
		return combinedOwns(args.Memory, f.Primary, f.Secondary)
	case OpQueryUsed, OpQueryCapacity:
		return combinedSum(args.Op, f.Primary, f.Secondary)
	case OpQueryAlignment, OpQueryGoodSize:
		return combinedMin(args.Op, f.Primary, f.Secondary)
	}
	fatalf("unknown operation %v", args.Op)
	return 0
}

// ownerOf returns the first child that answers the ownership query with 1,
// or nil when neither does. An unsupported answer counts as not owning.
func ownerOf(memory uintptr, children ...Allocator) Allocator {
	for _, child := range children {
		if child.Invoke(Args{Op: OpQueryOwns, Memory: memory}) == 1 {
			return child
		}
	}
	return nil
}

// combinedOwns is the ownership union: 1 if either child owns the memory,
// unsupported when neither child can tell, 0 otherwise.
func combinedOwns(memory uintptr, primary, secondary Allocator) Word {
	first := primary.Invoke(Args{Op: OpQueryOwns, Memory: memory})
	if first == 1 {
		return makeQuery(1)
	}
	second := secondary.Invoke(Args{Op: OpQueryOwns, Memory: memory})
	if second == 1 {
		return makeQuery(1)
	}
	if first == QueryUnsupported && second == QueryUnsupported {
		return QueryUnsupported
	}
	return makeQuery(0)
}

// combinedSum adds the children's answers, skipping any child that reports
// unsupported.
func combinedSum(op Op, primary, secondary Allocator) Word {
	first := primary.Invoke(Args{Op: op})
	second := secondary.Invoke(Args{Op: op})

	if first != QueryUnsupported && second != QueryUnsupported {
		return makeQuery(uintptr(first) + uintptr(second))
	}
	if first != QueryUnsupported {
		return first
	}
	return second
}

// combinedMin takes the smaller of the children's answers: the tightest
// guarantee both can honor. An unsupported answer is the maximum word, so it
// never wins.
func combinedMin(op Op, primary, secondary Allocator) Word {
	first := primary.Invoke(Args{Op: op})
	second := secondary.Invoke(Args{Op: op})

	if second < first {
		return second
	}
	return first
}
