package rtvalue

import (
	"fmt"
	"unsafe"
)

// NativeFunc is a Go-hosted implementation of a trampoline target. The
// real ABI calls into actual machine code (JIT-emitted or AOT-linked);
// since Go cannot jump to an arbitrary raw address without cgo or
// architecture-specific assembly, native and closure code bodies are
// registered in a Table and referenced by a small integer handle packed
// into the tagged value's upper bits, mirroring how scm/jit_entry.go's
// JITEntryPoint keeps a Go closure (Native func(...Scmer) Scmer) alongside
// the compiled machine code as the callable representation.
type NativeFunc func(h *Heap, args []Value) Value

// Table is the registry of callable bodies a tagged function/native/
// closure value resolves through.
type Table struct {
	fns []NativeFunc
}

// NewTable creates an empty function table.
func NewTable() *Table { return &Table{} }

// Register adds fn and returns its handle.
func (t *Table) Register(fn NativeFunc) int {
	t.fns = append(t.fns, fn)
	return len(t.fns) - 1
}

func (t *Table) lookup(handle int) NativeFunc {
	if handle < 0 || handle >= len(t.fns) {
		panic(fmt.Sprintf("rtvalue: call through unregistered handle %d", handle))
	}
	return t.fns[handle]
}

// NewNativeFn tags handle as a native C function pointer (spec §3.6, tag
// pattern xxxxxxx6).
func NewNativeFn(handle int) Value { return Value(uint64(handle)<<3 | 6) }

// NewClosureFn tags handle as a Nytrix function pointer (spec §3.6, tag
// pattern xxxxxxx2). The handle is shifted by 3 so bit 2 stays clear and
// the value never reads as the native pattern xxxxxxx6.
func NewClosureFn(handle int) Value { return Value(uint64(handle)<<3 | 2) }

func handleOf(v Value, shift uint) int { return int(uint64(v) >> shift) }

// ClosureRecord reads the {code, env} pair from a heap closure object
// (header tag 105, payload words 0 and 1) per spec §4.4.6.
func (h *Heap) ClosureRecord(v Value) (code, env Value) {
	base := h.headerOf(v)
	if base == nil || int(getU64(base, offTypeTag)) != tagClosure {
		panic("rtvalue: ClosureRecord called on a non-closure value")
	}
	payload := unsafe.Add(base, headerSize)
	return Value(getU64(payload, 0)), Value(getU64(payload, 8))
}

// NewClosure allocates a closure record (header tag 105) holding code and
// env as its first two payload words (spec §3.8).
func (h *Heap) NewClosure(code, env Value) Value {
	v := h.Alloc(16, tagClosure)
	base := h.headerOf(v)
	payload := unsafe.Add(base, headerSize)
	putU64(payload, 0, uint64(code))
	putU64(payload, 8, uint64(env))
	return v
}

// Call dispatches v against args per the trampoline rule table in spec
// §4.4.6: a native C pointer untags arguments and retags the result, a
// Nytrix function pointer passes tagged arguments through unchanged, a
// heap closure record reads code/env and calls code(env, args...), and
// anything else falls back to a raw handle lookup.
func (t *Table) Call(h *Heap, v Value, args []Value) Value {
	switch {
	case v&7 == 6: // native C pointer (dlsym result)
		raw := make([]Value, len(args))
		for i, a := range args {
			raw[i] = Value(untagBits(a))
		}
		result := t.lookup(handleOf(v, 3))(h, raw)
		return NewInt(int64(result))
	case v&3 == 2: // Nytrix function pointer: tagged arguments pass through
		return t.lookup(handleOf(v, 3))(h, args)
	case v.GetTag() == TagPointer && h.HeaderTag(v) == tagClosure:
		code, env := h.ClosureRecord(v)
		return t.Call(h, code, append([]Value{env}, args...))
	default:
		return t.lookup(handleOf(v, 0))(h, args)
	}
}
