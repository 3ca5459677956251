package main

import (
	"fmt"
	"os"

	"github.com/naxaes/allocators-go/pkg/allocators"
)

func check(w allocators.Word, what string) allocators.Word {
	if !allocators.Succeeded(w) {
		fmt.Fprintf(os.Stderr, "%s failed: %v\n", what, allocators.StatusOf(w))
		os.Exit(1)
	}
	return w
}

func main() {
	fmt.Println("---- Stack allocator ----")
	buf := make([]byte, 1024)
	stack := allocators.NewStack(buf)
	{
		a := check(allocators.Allocate(stack, 10), "allocate")
		b := check(allocators.AllocateAligned(stack, 155, 64), "allocate aligned")
		c := check(allocators.Allocate(stack, 12), "allocate")
		if _, err := allocators.AllocateSlice[int32](stack, 12); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		fmt.Println(allocators.QueryCapacity(stack))
		fmt.Println(allocators.QueryAlignment(stack))
		fmt.Println(allocators.QueryGoodSize(stack))
		fmt.Println(allocators.QueryUsed(stack))

		allocators.Free(stack, uintptr(c))
		allocators.Free(stack, uintptr(b))
		allocators.Free(stack, uintptr(a))

		allocators.FreeAll(stack)
	}

	fmt.Println("---- Free-list allocator ----")
	region := check(allocators.Allocate(stack, 1024), "allocate")
	freelist := allocators.NewFreeList(allocators.Bytes(region, 1024), 64, 16)
	{
		x := check(allocators.Allocate(freelist, 64), "allocate")
		y := check(allocators.Allocate(freelist, 13), "allocate")

		fmt.Println(allocators.QueryCapacity(freelist))
		fmt.Println(allocators.QueryAlignment(freelist))
		fmt.Println(allocators.QueryGoodSize(freelist))

		fmt.Println(allocators.QueryOwns(freelist, uintptr(x)))
		fmt.Println(allocators.QueryOwns(freelist, uintptr(y)))

		allocators.Free(freelist, uintptr(x))
		allocators.Free(freelist, uintptr(y))

		fmt.Println(allocators.QueryOwns(freelist, uintptr(x)))
		fmt.Println(allocators.QueryOwns(freelist, uintptr(y)))
	}
	allocators.FreeAll(stack)

	fmt.Println("---- Fallback allocator ----")
	fallback := allocators.NewFallback(allocators.NewInstrumented(stack), allocators.NewHeap())
	{
		x := check(allocators.Allocate(fallback, 1000), "allocate")
		y := check(allocators.Allocate(fallback, 1000), "allocate")

		fmt.Println(allocators.QueryCapacity(fallback))
		fmt.Println(allocators.QueryAlignment(fallback))
		fmt.Println(allocators.QueryGoodSize(fallback))

		fmt.Println(allocators.QueryOwns(fallback, uintptr(x)))
		fmt.Println(allocators.QueryOwns(fallback, uintptr(y)))

		allocators.Free(fallback, uintptr(x))
		allocators.Free(fallback, uintptr(y))

		allocators.FreeAll(fallback)
	}
}
