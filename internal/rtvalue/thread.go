package rtvalue

import (
	"sync"

	"github.com/jtolds/gls"
)

// Thread and synchronisation primitives are thin wrappers over Go's own
// goroutines and sync.Mutex (spec §4.4.8: "Thin wrappers over POSIX
// threads and mutexes"); the teacher's gls.Go (see storage/compute.go,
// storage/partition.go) is the same idea of a goroutine-spawn wrapper
// that preserves call-stack-local context across the `go` boundary, used
// here so a spawned Nytrix thread inherits nothing from its parent's
// catch-frame stack and instead starts a fresh one via Unwind.Run.

// ThreadHandle is the tagged handle returned by thread_spawn, pointing at
// a heap-allocated join channel.
type ThreadHandle struct {
	done chan Value
}

// threadArg is the trampoline argument struct thread_spawn allocates; it
// is owned by the spawned goroutine, which frees it before dispatching
// into the user function body (spec §4.4.8).
type threadArg struct {
	fn   Value
	args []Value
}

// ThreadSpawn starts fn(args...) on a new goroutine under a fresh Unwind
// context and returns a handle Join can wait on.
func (u *Unwind) ThreadSpawn(h *Heap, t *Table, fn Value, args []Value) *ThreadHandle {
	th := &ThreadHandle{done: make(chan Value, 1)}
	arg := &threadArg{fn: fn, args: args}
	gls.Go(func() {
		var result Value
		u.Run(func() {
			a := arg
			arg = nil // the trampoline owns and releases arg before dispatch
			result = t.Call(h, a.fn, a.args)
		})
		th.done <- result
	})
	return th
}

// Join blocks until the spawned thread's function returns, yielding its
// result.
func (h *ThreadHandle) Join() Value {
	return <-h.done
}

// Mutex is a tagged handle around a POSIX-style mutex.
type Mutex struct {
	mu sync.Mutex
}

// NewMutex allocates an unlocked mutex.
func NewMutex() *Mutex { return &Mutex{} }

func (m *Mutex) Lock()   { m.mu.Lock() }
func (m *Mutex) Unlock() { m.mu.Unlock() }

// TryLock reports whether the mutex was acquired without blocking.
func (m *Mutex) TryLock() bool { return m.mu.TryLock() }
