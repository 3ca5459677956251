package alloc

// Segregator routes each allocation to one of two allocators by size:
// requests of at most Threshold bytes go to the primary, larger ones to the
// secondary. Frees and resizes are routed back by ownership.
type Segregator struct {
	Primary   Allocator
	Secondary Allocator
	Threshold int
}

// NewSegregator creates a segregator with the given positive byte threshold.
func NewSegregator(primary, secondary Allocator, threshold int) *Segregator {
	if threshold <= 0 {
		fatalf("segregator threshold must be positive, got %d", threshold)
	}
	return &Segregator{Primary: primary, Secondary: secondary, Threshold: threshold}
}

// route picks the child for an allocation footprint.
func (s *Segregator) route(footprint int) Allocator {
	if footprint <= s.Threshold {
		return s.Primary
	}
	return s.Secondary
}

func (s *Segregator) allocate(args Args) Word {
	return s.route(args.Size).Invoke(args)
}

// allocateAligned routes by the worst-case footprint: padding up to
// alignment-1 bytes may be spent on top of the requested size, and the
// routing decision must hold either way.
func (s *Segregator) allocateAligned(args Args) Word {
	return s.route(args.Size + args.Alignment - 1).Invoke(args)
}

func (s *Segregator) resize(args Args) Word {
	if args.Memory == 0 {
		return s.route(args.NewSize).Invoke(Args{Op: OpAllocate, Size: args.NewSize})
	}

	if owner := ownerOf(args.Memory, s.Primary, s.Secondary); owner != nil {
		return owner.Invoke(args)
	}
	return makeAllocError(AllocationNonOwnedMemory)
}

func (s *Segregator) free(args Args) Word {
	if owner := ownerOf(args.Memory, s.Primary, s.Secondary); owner != nil {
		return owner.Invoke(args)
	}
	return makeFreeStatus(FreeCalledOnNonOwnedMemory)
}

func (s *Segregator) freeAll() Word {
	s.Primary.Invoke(Args{Op: OpFreeAll})
	s.Secondary.Invoke(Args{Op: OpFreeAll})
	return makeFreeStatus(FreeSucceeded)
}

// Invoke implements Allocator.
func (s *Segregator) Invoke(args Args) Word {
	switch args.Op {
	case OpAllocate:
		return s.allocate(args)
	case OpAllocateAligned:
		return s.allocateAligned(args)
	case OpAllocateAll:
		return makeAllocError(AllocationUnsupportedOperation)
	case OpResize:
		return s.resize(args)
	case OpFree:
		return s.free(args)
	case OpFreeAll:
		return s.freeAll()
	case OpQueryOwns:
		return combinedOwns(args.Memory, s.Primary, s.Secondary)
	case OpQueryUsed, OpQueryCapacity:
		return combinedSum(args.Op, s.Primary, s.Secondary)
	case OpQueryAlignment, OpQueryGoodSize:
		return combinedMin(args.Op, s.Primary, s.Secondary)
	}
	fatalf("unknown operation %v", args.Op)
	return 0
}
