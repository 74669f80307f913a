package rtvalue

import (
	"fmt"
	"plugin"
	"sync"
)

// Dynamic linking (spec §4.4.9) loads the host platform's real shared
// objects. Go's own toolchain exposes this only through the standard
// library's plugin package (cgo-based dlopen/dlsym wrappers such as
// purego appear nowhere in the reference stack this runtime was built
// against), so DlOpen/DlSym are the one place in this package that falls
// back to the standard library rather than a third-party dependency;
// see DESIGN.md.
type DynLinker struct {
	mu      sync.Mutex
	handles []*plugin.Plugin
	lastErr string
}

// NewDynLinker creates an empty dynamic-linking table.
func NewDynLinker() *DynLinker { return &DynLinker{} }

// DlOpen opens path and returns a tagged handle, or Nil on failure (spec
// §4.4.9). flags is accepted for ABI parity with dlopen(3) but unused:
// Go's plugin loader has no lazy/global-symbol distinction to honor.
func (d *DynLinker) DlOpen(path string, flags int64) Value {
	p, err := plugin.Open(path)
	if err != nil {
		d.mu.Lock()
		d.lastErr = err.Error()
		d.mu.Unlock()
		return Nil
	}
	d.mu.Lock()
	d.handles = append(d.handles, p)
	idx := len(d.handles) - 1
	d.mu.Unlock()
	return NewInt(int64(idx))
}

// DlSym resolves name in the library opened as handle and marks the
// result as a native function pointer (tag bits ORed with 6) for the FFI
// trampolines to dispatch through (spec §4.4.9).
func (d *DynLinker) DlSym(t *Table, handle Value, name string) Value {
	d.mu.Lock()
	idx := int(handle.Int())
	if idx < 0 || idx >= len(d.handles) {
		d.mu.Unlock()
		return Nil
	}
	p := d.handles[idx]
	d.mu.Unlock()

	sym, err := p.Lookup(name)
	if err != nil {
		d.mu.Lock()
		d.lastErr = err.Error()
		d.mu.Unlock()
		return Nil
	}
	fn, ok := sym.(func(*Heap, []Value) Value)
	if !ok {
		d.mu.Lock()
		d.lastErr = fmt.Sprintf("dlsym: symbol %q has an incompatible signature", name)
		d.mu.Unlock()
		return Nil
	}
	h := t.Register(fn)
	return NewNativeFn(h)
}

// DlClose is a no-op: Go's plugin package never unloads a loaded
// library. The handle stays registered, so a later DlSym against it still
// resolves symbols from the loaded library.
func (d *DynLinker) DlClose(handle Value) Value {
	return NewInt(0)
}

// DlError returns the most recent error message, matching dlerror(3)'s
// "describe the last failure" contract.
func (d *DynLinker) DlError() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastErr
}
