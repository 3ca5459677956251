package alloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstrumentedPassesResultsThrough(t *testing.T) {
	stack := NewStack(make([]byte, 64))
	instrumented := NewInstrumented(stack)

	w := Allocate(instrumented, 16)
	require.True(t, Succeeded(w))
	assert.EqualValues(t, 1, QueryOwns(stack, uintptr(w)))

	assert.EqualValues(t, 16, QueryUsed(instrumented))
	assert.EqualValues(t, 64, QueryCapacity(instrumented))

	full := Allocate(instrumented, 100)
	assert.Equal(t, AllocationOutOfMemory, StatusOf(full))
}

func TestInstrumentedCountsOperations(t *testing.T) {
	heap := NewHeap()
	instrumented := NewInstrumented(heap)

	a := Allocate(instrumented, 100)
	b := Allocate(instrumented, 28)
	require.True(t, Succeeded(a))
	require.True(t, Succeeded(b))

	stats := instrumented.Stats()
	assert.EqualValues(t, 2, stats["allocations"])
	assert.EqualValues(t, 128, stats["bytes_requested"])
	assert.EqualValues(t, 2, stats["live_allocations"])
	assert.EqualValues(t, 128, stats["live_bytes"])
	assert.EqualValues(t, 128, stats["peak_bytes"])

	require.True(t, Freed(Free(instrumented, uintptr(a))))

	stats = instrumented.Stats()
	assert.EqualValues(t, 1, stats["frees"])
	assert.EqualValues(t, 1, stats["live_allocations"])
	assert.EqualValues(t, 28, stats["live_bytes"])
	assert.EqualValues(t, 128, stats["peak_bytes"], "peak must survive frees")

	require.True(t, Freed(Free(instrumented, uintptr(b))))
	stats = instrumented.Stats()
	assert.EqualValues(t, 0, stats["live_bytes"])
}

func TestInstrumentedCountsFailures(t *testing.T) {
	instrumented := NewInstrumented(Null{})

	require.False(t, Succeeded(Allocate(instrumented, 10)))
	require.False(t, Freed(Free(instrumented, uintptr(Reserved))))

	stats := instrumented.Stats()
	assert.EqualValues(t, 2, stats["failures"])
	assert.EqualValues(t, 0, stats["allocations"])
	assert.EqualValues(t, 0, stats["frees"])
}

func TestInstrumentedTracksResize(t *testing.T) {
	heap := NewHeap()
	instrumented := NewInstrumented(heap)

	p := Allocate(instrumented, 16)
	require.True(t, Succeeded(p))

	q := Resize(instrumented, uintptr(p), 16, 48)
	require.True(t, Succeeded(q))

	stats := instrumented.Stats()
	assert.EqualValues(t, 1, stats["live_allocations"])
	assert.EqualValues(t, 48, stats["live_bytes"])

	require.True(t, Freed(Free(instrumented, uintptr(q))))
}

func TestInstrumentedFreeAllResetsLiveness(t *testing.T) {
	stack := NewStack(make([]byte, 128))
	instrumented := NewInstrumented(stack)

	require.True(t, Succeeded(Allocate(instrumented, 32)))
	require.True(t, Succeeded(Allocate(instrumented, 32)))
	require.True(t, Freed(FreeAll(instrumented)))

	stats := instrumented.Stats()
	assert.EqualValues(t, 0, stats["live_allocations"])
	assert.EqualValues(t, 0, stats["live_bytes"])
	assert.EqualValues(t, 64, stats["peak_bytes"])
}

func TestInstrumentedSizeClasses(t *testing.T) {
	heap := NewHeap()
	instrumented := NewInstrumented(heap)

	var handed []Word
	for _, size := range []int{1, 2, 3, 4, 300} {
		w := Allocate(instrumented, size)
		require.True(t, Succeeded(w))
		handed = append(handed, w)
	}

	classes := instrumented.SizeClasses()
	assert.EqualValues(t, 1, classes[1]) // size 1
	assert.EqualValues(t, 2, classes[2]) // sizes 2 and 3
	assert.EqualValues(t, 1, classes[3]) // size 4
	assert.EqualValues(t, 1, classes[9]) // size 300

	for _, w := range handed {
		require.True(t, Freed(Free(instrumented, uintptr(w))))
	}
}
