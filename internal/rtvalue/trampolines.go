package rtvalue

// Call0 through Call15 are the fixed-arity trampoline entry points
// compiled code calls into directly (spec §4.4.6); each forwards to
// Table.Call with its arguments collected into a slice.
func (t *Table) Call0(h *Heap, fn Value) Value {
	return t.Call(h, fn, nil)
}
func (t *Table) Call1(h *Heap, fn Value, a0 Value) Value {
	return t.Call(h, fn, []Value{a0})
}
func (t *Table) Call2(h *Heap, fn Value, a0 Value, a1 Value) Value {
	return t.Call(h, fn, []Value{a0, a1})
}
func (t *Table) Call3(h *Heap, fn Value, a0 Value, a1 Value, a2 Value) Value {
	return t.Call(h, fn, []Value{a0, a1, a2})
}
func (t *Table) Call4(h *Heap, fn Value, a0 Value, a1 Value, a2 Value, a3 Value) Value {
	return t.Call(h, fn, []Value{a0, a1, a2, a3})
}
func (t *Table) Call5(h *Heap, fn Value, a0 Value, a1 Value, a2 Value, a3 Value, a4 Value) Value {
	return t.Call(h, fn, []Value{a0, a1, a2, a3, a4})
}
func (t *Table) Call6(h *Heap, fn Value, a0 Value, a1 Value, a2 Value, a3 Value, a4 Value, a5 Value) Value {
	return t.Call(h, fn, []Value{a0, a1, a2, a3, a4, a5})
}
func (t *Table) Call7(h *Heap, fn Value, a0 Value, a1 Value, a2 Value, a3 Value, a4 Value, a5 Value, a6 Value) Value {
	return t.Call(h, fn, []Value{a0, a1, a2, a3, a4, a5, a6})
}
func (t *Table) Call8(h *Heap, fn Value, a0 Value, a1 Value, a2 Value, a3 Value, a4 Value, a5 Value, a6 Value, a7 Value) Value {
	return t.Call(h, fn, []Value{a0, a1, a2, a3, a4, a5, a6, a7})
}
func (t *Table) Call9(h *Heap, fn Value, a0 Value, a1 Value, a2 Value, a3 Value, a4 Value, a5 Value, a6 Value, a7 Value, a8 Value) Value {
	return t.Call(h, fn, []Value{a0, a1, a2, a3, a4, a5, a6, a7, a8})
}
func (t *Table) Call10(h *Heap, fn Value, a0 Value, a1 Value, a2 Value, a3 Value, a4 Value, a5 Value, a6 Value, a7 Value, a8 Value, a9 Value) Value {
	return t.Call(h, fn, []Value{a0, a1, a2, a3, a4, a5, a6, a7, a8, a9})
}
func (t *Table) Call11(h *Heap, fn Value, a0 Value, a1 Value, a2 Value, a3 Value, a4 Value, a5 Value, a6 Value, a7 Value, a8 Value, a9 Value, a10 Value) Value {
	return t.Call(h, fn, []Value{a0, a1, a2, a3, a4, a5, a6, a7, a8, a9, a10})
}
func (t *Table) Call12(h *Heap, fn Value, a0 Value, a1 Value, a2 Value, a3 Value, a4 Value, a5 Value, a6 Value, a7 Value, a8 Value, a9 Value, a10 Value, a11 Value) Value {
	return t.Call(h, fn, []Value{a0, a1, a2, a3, a4, a5, a6, a7, a8, a9, a10, a11})
}
func (t *Table) Call13(h *Heap, fn Value, a0 Value, a1 Value, a2 Value, a3 Value, a4 Value, a5 Value, a6 Value, a7 Value, a8 Value, a9 Value, a10 Value, a11 Value, a12 Value) Value {
	return t.Call(h, fn, []Value{a0, a1, a2, a3, a4, a5, a6, a7, a8, a9, a10, a11, a12})
}
func (t *Table) Call14(h *Heap, fn Value, a0 Value, a1 Value, a2 Value, a3 Value, a4 Value, a5 Value, a6 Value, a7 Value, a8 Value, a9 Value, a10 Value, a11 Value, a12 Value, a13 Value) Value {
	return t.Call(h, fn, []Value{a0, a1, a2, a3, a4, a5, a6, a7, a8, a9, a10, a11, a12, a13})
}
func (t *Table) Call15(h *Heap, fn Value, a0 Value, a1 Value, a2 Value, a3 Value, a4 Value, a5 Value, a6 Value, a7 Value, a8 Value, a9 Value, a10 Value, a11 Value, a12 Value, a13 Value, a14 Value) Value {
	return t.Call(h, fn, []Value{a0, a1, a2, a3, a4, a5, a6, a7, a8, a9, a10, a11, a12, a13, a14})
}
