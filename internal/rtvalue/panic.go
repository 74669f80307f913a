package rtvalue

import (
	"fmt"
	"os"

	"github.com/jtolds/gls"
)

// Unwind implements Nytrix's try/catch over a stack of jump buffers (spec
// §4.4.7). Go's panic/recover already unwinds to the nearest enclosing
// recover exactly the way a longjmp unwinds to the nearest jmp_buf, so
// catch is built directly on it instead of reimplementing a setjmp-style
// control transfer; storage/compute.go's pattern of a spawned goroutine
// recovering a panic into a done channel (scanned there via gls.Go) is
// the teacher's analog for turning a recovered panic into a delivered
// value.
//
// The jump-buffer stack is goroutine-local, via gls: each Nytrix
// "thread" (a Go goroutine) gets its own *stack the first time it enters
// Run, so one thread's catch frames are never visible to another's.
type Unwind struct {
	mgr *gls.ContextManager
}

const stackKey = "nytrix-panic-stack"

// NewUnwind creates an Unwind with its own goroutine-local context.
func NewUnwind() *Unwind {
	return &Unwind{mgr: gls.NewContextManager()}
}

type jumpBuf struct{ id int }

// signal is what Panic raises; Catch's recover unwraps it and checks the
// frame id matches before treating it as "caught here".
type signal struct {
	val   Value
	frame *jumpBuf
}

type stack struct {
	frames  []*jumpBuf
	lastVal Value
	nextID  int
}

// Run establishes a fresh panic/defer context for the calling goroutine
// and runs body under it. thread_spawn (see thread.go) calls Run inside
// the spawned goroutine so every Nytrix thread has its own independent
// catch-frame stack.
func (u *Unwind) Run(body func()) {
	u.mgr.SetValues(gls.Values{stackKey: &stack{}}, body)
}

func (u *Unwind) current() *stack {
	v, ok := u.mgr.GetValue(stackKey)
	if !ok {
		panic("rtvalue: panic/catch used outside Unwind.Run")
	}
	return v.(*stack)
}

// SetPanicEnv pushes a new jump buffer onto the current thread's stack
// and returns it (spec §4.4.7).
func (u *Unwind) SetPanicEnv() *jumpBuf {
	s := u.current()
	s.nextID++
	buf := &jumpBuf{id: s.nextID}
	s.frames = append(s.frames, buf)
	return buf
}

// ClearPanicEnv pops the top jump buffer.
func (u *Unwind) ClearPanicEnv() {
	s := u.current()
	if len(s.frames) == 0 {
		return
	}
	s.frames = s.frames[:len(s.frames)-1]
}

// Panic raises msg to the nearest catch frame on the current thread.
// With no frame on the stack, it prints the message and terminates the
// process with status 1 (spec §4.4.7).
func (u *Unwind) Panic(h *Heap, msg Value) {
	s := u.current()
	if len(s.frames) == 0 {
		fmt.Fprintln(os.Stderr, describePanic(h, msg))
		os.Exit(1)
	}
	top := s.frames[len(s.frames)-1]
	panic(signal{val: msg, frame: top})
}

func describePanic(h *Heap, msg Value) string {
	if msg.GetTag() == TagPointer && (h.HeaderTag(msg) == tagStringOwned || h.HeaderTag(msg) == tagStringConst) {
		return h.StringValue(msg)
	}
	return fmt.Sprintf("panic: value %#x", uint64(msg))
}

// GetPanicVal returns the value captured by the most recent Catch on this
// thread.
func (u *Unwind) GetPanicVal() Value {
	return u.current().lastVal
}

// Catch runs body under a freshly pushed jump buffer. If body (or
// anything it calls, including across JIT/AOT boundaries) invokes Panic
// targeting this frame, Catch recovers it, records the value for
// GetPanicVal, and runs handler. Any other panic propagates unchanged.
func (u *Unwind) Catch(body func(), handler func()) {
	s := u.current()
	buf := u.SetPanicEnv()
	defer u.ClearPanicEnv()
	caught := false
	func() {
		defer func() {
			if r := recover(); r != nil {
				sig, ok := r.(signal)
				if !ok || sig.frame != buf {
					panic(r)
				}
				s.lastVal = sig.val
				caught = true
			}
		}()
		body()
	}()
	if caught {
		handler()
	}
}

// DeferFrame mirrors a try/catch frame for `defer` blocks: closures are
// pushed on entry and run in reverse order on the owning function's
// return, so defer semantics survive a non-local Panic unwind through
// JIT, AOT, and cross-module boundaries (spec §4.4.7, final paragraph).
type DeferFrame struct {
	fns []func()
}

// PushDefer registers fn to run when fr's owning function returns.
func (u *Unwind) PushDefer(fr *DeferFrame, fn func()) {
	fr.fns = append(fr.fns, fn)
}

// RunDefers executes fr's deferred closures in reverse registration
// order, as Go's own defer does.
func (u *Unwind) RunDefers(fr *DeferFrame) {
	for i := len(fr.fns) - 1; i >= 0; i-- {
		fr.fns[i]()
	}
}
