package alloc

// Debug enables the development-time checks: freed stack memory is scribbled
// with DebugFill, and ownership queries assert on pointers into a stack's
// already-freed region. The checks cost time on the hot path and are off by
// default.
var Debug = false

// DebugFill is the byte written over freshly-allocated heap memory and, with
// Debug set, over freed stack memory. Reading it back usually means a
// use-before-init or use-after-free.
const DebugFill = 0xCC

func fill(buf []byte, b byte) {
	for i := range buf {
		buf[i] = b
	}
}
