package alloc

import "sync"

// Locked serializes every dispatch to its child behind a mutex, so one handle
// can be shared across goroutines. The allocators themselves hold no locks;
// this wrapper is the opt-in boundary for cross-thread use.
type Locked struct {
	mu    sync.Mutex
	child Allocator
}

// NewLocked creates a mutex-guarded wrapper around child.
func NewLocked(child Allocator) *Locked {
	return &Locked{child: child}
}

// Invoke implements Allocator.
func (l *Locked) Invoke(args Args) Word {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.child.Invoke(args)
}
