package allocators_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naxaes/allocators-go/pkg/allocators"
)

// TestComposedTree walks the canonical composition: a stack over a client
// buffer, a free list carved out of a stack allocation, and a fallback of the
// emptied stack onto the system heap that takes what the stack cannot hold.
func TestComposedTree(t *testing.T) {
	buf := make([]byte, 1024)
	stack := allocators.NewStack(buf)

	a := allocators.Allocate(stack, 10)
	b := allocators.AllocateAligned(stack, 155, 64)
	c := allocators.Allocate(stack, 12)
	require.True(t, allocators.Succeeded(a))
	require.True(t, allocators.Succeeded(b))
	require.True(t, allocators.Succeeded(c))
	assert.Zero(t, uintptr(b)%64)

	assert.EqualValues(t, 1024, allocators.QueryCapacity(stack))
	assert.EqualValues(t, 1, allocators.QueryAlignment(stack))
	assert.EqualValues(t, 1, allocators.QueryGoodSize(stack))

	require.True(t, allocators.Freed(allocators.Free(stack, uintptr(c))))
	require.True(t, allocators.Freed(allocators.Free(stack, uintptr(b))))
	require.True(t, allocators.Freed(allocators.Free(stack, uintptr(a))))
	require.True(t, allocators.Freed(allocators.FreeAll(stack)))
	assert.EqualValues(t, 0, allocators.QueryUsed(stack))

	// Carve a free list out of one big stack allocation.
	region := allocators.Allocate(stack, 1024)
	require.True(t, allocators.Succeeded(region))
	freelist := allocators.NewFreeList(allocators.Bytes(region, 1024), 64, 16)

	x := allocators.Allocate(freelist, 64)
	y := allocators.Allocate(freelist, 13)
	require.True(t, allocators.Succeeded(x))
	require.True(t, allocators.Succeeded(y))
	assert.EqualValues(t, 1, allocators.QueryOwns(freelist, uintptr(x)))
	assert.EqualValues(t, 1, allocators.QueryOwns(freelist, uintptr(y)))

	require.True(t, allocators.Freed(allocators.Free(freelist, uintptr(x))))
	require.True(t, allocators.Freed(allocators.Free(freelist, uintptr(y))))
	require.True(t, allocators.Freed(allocators.FreeAll(stack)))

	// The stack is empty again; a fallback serves what it cannot.
	fallback := allocators.NewFallback(stack, allocators.NewHeap())

	p := allocators.Allocate(fallback, 1000)
	q := allocators.Allocate(fallback, 1000)
	require.True(t, allocators.Succeeded(p))
	require.True(t, allocators.Succeeded(q))
	assert.EqualValues(t, 1, allocators.QueryOwns(fallback, uintptr(p)))
	assert.EqualValues(t, 1, allocators.QueryOwns(fallback, uintptr(q)))

	require.True(t, allocators.Freed(allocators.Free(fallback, uintptr(p))))
	require.True(t, allocators.Freed(allocators.Free(fallback, uintptr(q))))
}

func TestSegregatedTree(t *testing.T) {
	freelist := allocators.NewFreeList(make([]byte, 1024), 64, 16)
	segregator := allocators.NewSegregator(freelist, allocators.NewHeap(), 64)

	small, err := allocators.AllocateSlice[uint32](segregator, 4)
	require.NoError(t, err)
	assert.Len(t, small, 4)

	large := allocators.Allocate(segregator, 4096)
	require.True(t, allocators.Succeeded(large))
	assert.EqualValues(t, 1, allocators.QueryOwns(segregator, uintptr(large)))

	require.True(t, allocators.Freed(allocators.Free(segregator, uintptr(large))))
}

func TestBufferSources(t *testing.T) {
	var source allocators.HeapSource

	buf, err := source.Acquire(256)
	require.NoError(t, err)

	stack := allocators.NewStack(buf)
	w := allocators.Allocate(stack, 128)
	require.True(t, allocators.Succeeded(w))

	require.NoError(t, source.Release(buf))
}
