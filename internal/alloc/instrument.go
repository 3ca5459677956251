package alloc

import (
	"sync/atomic"

	"github.com/puzpuzpuz/xsync/v3"
	"modernc.org/mathutil"
)

// Instrumented wraps any allocator and counts what flows through it:
// operations, requested bytes, live allocations, and the peak of live bytes.
// Results pass through unchanged, so an instrumented handle is
// indistinguishable from its child to the caller.
//
// The counters are striped and the live map is concurrent, so reading stats
// from another goroutine is safe even though the wrapped allocator itself is
// not.
type Instrumented struct {
	child Allocator

	allocations *xsync.Counter
	frees       *xsync.Counter
	failures    *xsync.Counter
	bytes       *xsync.Counter

	// live maps handed-out addresses to their requested sizes.
	live      *xsync.MapOf[uintptr, int]
	liveBytes atomic.Int64
	peakBytes atomic.Int64

	// sizeClasses counts allocations per log2 bucket of the requested size.
	sizeClasses *xsync.MapOf[int, *xsync.Counter]
}

// NewInstrumented creates a counting wrapper around child.
func NewInstrumented(child Allocator) *Instrumented {
	return &Instrumented{
		child:       child,
		allocations: xsync.NewCounter(),
		frees:       xsync.NewCounter(),
		failures:    xsync.NewCounter(),
		bytes:       xsync.NewCounter(),
		live:        xsync.NewMapOf[uintptr, int](),
		sizeClasses: xsync.NewMapOf[int, *xsync.Counter](),
	}
}

func (i *Instrumented) recordAllocation(address uintptr, size int) {
	i.allocations.Inc()
	i.bytes.Add(int64(size))

	bucket := mathutil.BitLen(size)
	counter, _ := i.sizeClasses.LoadOrCompute(bucket, xsync.NewCounter)
	counter.Inc()

	if address == 0 {
		return
	}
	i.live.Store(address, size)

	current := i.liveBytes.Add(int64(size))
	for {
		peak := i.peakBytes.Load()
		if current <= peak || i.peakBytes.CompareAndSwap(peak, current) {
			break
		}
	}
}

func (i *Instrumented) recordFree(address uintptr) {
	i.frees.Inc()
	if size, ok := i.live.LoadAndDelete(address); ok {
		i.liveBytes.Add(-int64(size))
	}
}

// Invoke implements Allocator.
func (i *Instrumented) Invoke(args Args) Word {
	result := i.child.Invoke(args)

	switch args.Op {
	case OpAllocate, OpAllocateAligned, OpAllocateAll:
		if Succeeded(result) {
			i.recordAllocation(uintptr(result), args.Size)
		} else {
			i.failures.Inc()
		}
	case OpResize:
		if Succeeded(result) {
			i.recordFree(args.Memory)
			i.recordAllocation(uintptr(result), args.NewSize)
		} else {
			i.failures.Inc()
		}
	case OpFree:
		if Freed(result) {
			i.recordFree(args.Memory)
		} else {
			i.failures.Inc()
		}
	case OpFreeAll:
		if Freed(result) {
			i.frees.Inc()
			i.live.Clear()
			i.liveBytes.Store(0)
		}
	}
	return result
}

// Stats returns a snapshot of the counters.
func (i *Instrumented) Stats() map[string]uint64 {
	return map[string]uint64{
		"allocations":      uint64(i.allocations.Value()),
		"frees":            uint64(i.frees.Value()),
		"failures":         uint64(i.failures.Value()),
		"bytes_requested":  uint64(i.bytes.Value()),
		"live_allocations": uint64(i.live.Size()),
		"live_bytes":       uint64(i.liveBytes.Load()),
		"peak_bytes":       uint64(i.peakBytes.Load()),
	}
}

// SizeClasses returns the allocation count per log2 bucket of the requested
// size. Bucket b holds requests with sizes in [2^(b-1), 2^b).
func (i *Instrumented) SizeClasses() map[int]uint64 {
	classes := make(map[int]uint64)
	i.sizeClasses.Range(func(bucket int, counter *xsync.Counter) bool {
		classes[bucket] = uint64(counter.Value())
		return true
	})
	return classes
}
