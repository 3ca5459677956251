package alloc

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLockedDelegates(t *testing.T) {
	stack := NewStack(make([]byte, 128))
	locked := NewLocked(stack)

	w := Allocate(locked, 32)
	require.True(t, Succeeded(w))
	assert.EqualValues(t, 32, QueryUsed(locked))
	assert.EqualValues(t, 1, QueryOwns(locked, uintptr(w)))

	require.True(t, Freed(FreeAll(locked)))
	assert.EqualValues(t, 0, QueryUsed(stack))
}

func TestLockedSerializesConcurrentCallers(t *testing.T) {
	const (
		goroutines = 8
		rounds     = 200
		blockSize  = 16
	)

	stack := NewStack(make([]byte, goroutines*rounds*blockSize))
	locked := NewLocked(stack)

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < rounds; i++ {
				w := Allocate(locked, blockSize)
				assert.True(t, Succeeded(w))
			}
		}()
	}
	wg.Wait()

	assert.EqualValues(t, goroutines*rounds*blockSize, QueryUsed(locked))
}
