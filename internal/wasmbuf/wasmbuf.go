// Package wasmbuf provides backing buffers carved out of a WebAssembly
// module's linear memory. The memory lives inside a wazero sandbox with a
// hard size ceiling, which makes it a convenient bounded region for an
// allocator tree to manage.
package wasmbuf

import (
	"context"
	"fmt"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
)

// PageSize is the WebAssembly linear-memory page size.
const PageSize = 64 * 1024

// Config holds configuration options for the linear-memory source.
type Config struct {
	// Pages sets the size of the linear memory in 64KiB pages.
	Pages uint32
}

// DefaultConfig returns a configuration with one megabyte of linear memory.
func DefaultConfig() *Config {
	return &Config{Pages: 16}
}

// Source owns one instantiated module and hands out views of its exported
// linear memory. The view stays valid until Close tears the runtime down.
type Source struct {
	runtime  wazero.Runtime
	module   api.Module
	memory   api.Memory
	acquired bool
}

// New instantiates the memory-only module and returns a source over its
// linear memory.
func New(ctx context.Context, config *Config) (*Source, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if config.Pages == 0 {
		return nil, fmt.Errorf("wasmbuf: page count must be positive")
	}

	runtime := wazero.NewRuntime(ctx)

	module, err := runtime.Instantiate(ctx, moduleBytes(config.Pages))
	if err != nil {
		runtime.Close(ctx)
		return nil, fmt.Errorf("wasmbuf: failed to instantiate module: %w", err)
	}

	memory := module.Memory()
	if memory == nil {
		runtime.Close(ctx)
		return nil, fmt.Errorf("wasmbuf: module exports no memory")
	}

	return &Source{runtime: runtime, module: module, memory: memory}, nil
}

// Size returns the byte size of the linear memory.
func (s *Source) Size() int {
	return int(s.memory.Size())
}

// Acquire implements buffer.Source. The source is a single region: at most
// one buffer can be outstanding, and it is a view of the module's memory
// starting at offset zero.
func (s *Source) Acquire(size int) ([]byte, error) {
	if s.acquired {
		return nil, fmt.Errorf("wasmbuf: linear memory already acquired")
	}
	if size <= 0 {
		return nil, fmt.Errorf("wasmbuf: buffer size must be positive, got %d", size)
	}
	if uint64(size) > uint64(s.memory.Size()) {
		return nil, fmt.Errorf("wasmbuf: %d bytes requested from a %d-byte memory", size, s.memory.Size())
	}

	view, ok := s.memory.Read(0, uint32(size))
	if !ok {
		return nil, fmt.Errorf("wasmbuf: failed to read %d bytes of linear memory", size)
	}

	s.acquired = true
	return view, nil
}

// Release implements buffer.Source. The memory itself is only reclaimed by
// Close.
func (s *Source) Release([]byte) error {
	s.acquired = false
	return nil
}

// Close tears down the runtime and invalidates every view handed out.
func (s *Source) Close(ctx context.Context) error {
	return s.runtime.Close(ctx)
}

// moduleBytes builds the smallest module that carries memory: a header, a
// memory section with the requested minimum, and an export of that memory
// under the name "memory".
func moduleBytes(pages uint32) []byte {
	// Header: magic and version.
	module := []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}

	// Memory section: one memory, minimum only.
	limits := append([]byte{0x00}, uleb128(pages)...)
	memorySection := append([]byte{0x01}, limits...)
	module = append(module, 0x05)
	module = append(module, uleb128(uint32(len(memorySection)))...)
	module = append(module, memorySection...)

	// Export section: "memory" as memory index 0.
	name := "memory"
	export := append([]byte{0x01, byte(len(name))}, name...)
	export = append(export, 0x02, 0x00)
	module = append(module, 0x07)
	module = append(module, uleb128(uint32(len(export)))...)
	module = append(module, export...)

	return module
}

func uleb128(value uint32) []byte {
	var encoded []byte
	for {
		b := byte(value & 0x7f)
		value >>= 7
		if value != 0 {
			b |= 0x80
		}
		encoded = append(encoded, b)
		if value == 0 {
			return encoded
		}
	}
}
