package rtvalue

import (
	"math"
	"unsafe"
)

// NewFloat heap-boxes f as an 8-byte IEEE-754 payload with type tag 221
// (spec §3.8, §4.4.4).
func (h *Heap) NewFloat(f float64) Value {
	v := h.Alloc(8, tagFloat)
	base := h.headerOf(v)
	putU64(unsafe.Add(base, headerSize), 0, math.Float64bits(f))
	return v
}

// Float unboxes a float value. Panics if v is not a float box; callers
// dispatch on GetTag/HeaderTag first.
func (h *Heap) Float(v Value) float64 {
	base := h.headerOf(v)
	if base == nil || int(getU64(base, offTypeTag)) != tagFloat {
		panic("rtvalue: Float called on a non-float value")
	}
	return floatBits(getU64(unsafe.Add(base, headerSize), 0))
}

// asFloat reinterprets any numeric value as a float64, auto-promoting
// untagged integers (spec §4.4.4: "flt_add(int, float) reinterprets the
// int as a float and proceeds").
func (h *Heap) asFloat(v Value) (float64, bool) {
	switch v.GetTag() {
	case TagInt, TagNone:
		return float64(v.Int()), true
	case TagPointer:
		if h.HeaderTag(v) == tagFloat {
			return h.Float(v), true
		}
	}
	return 0, false
}

// FltAdd, FltSub, FltMul, FltDiv implement the float arithmetic primitives
// (spec §4.4.3's "Float involved" column). Division by zero yields a
// boxed +/-Inf or NaN per IEEE-754, matching float semantics rather than
// the int column's "yields 0 or nil" rule.
func (h *Heap) FltAdd(a, b Value) Value { return h.fltOp(a, b, func(x, y float64) float64 { return x + y }) }
func (h *Heap) FltSub(a, b Value) Value { return h.fltOp(a, b, func(x, y float64) float64 { return x - y }) }
func (h *Heap) FltMul(a, b Value) Value { return h.fltOp(a, b, func(x, y float64) float64 { return x * y }) }
func (h *Heap) FltDiv(a, b Value) Value { return h.fltOp(a, b, func(x, y float64) float64 { return x / y }) }

func (h *Heap) fltOp(a, b Value, op func(x, y float64) float64) Value {
	x, ok1 := h.asFloat(a)
	y, ok2 := h.asFloat(b)
	if !ok1 || !ok2 {
		panic("rtvalue: float op on a non-numeric value")
	}
	return h.NewFloat(op(x, y))
}

// FltCompare reports whether a cmp b holds, returning the True/False
// singletons (spec §4.4.3: "Comparison against strings or pointers
// returns false without error").
func (h *Heap) FltCompare(a, b Value, cmp func(x, y float64) bool) Value {
	x, ok1 := h.asFloat(a)
	y, ok2 := h.asFloat(b)
	if !ok1 || !ok2 {
		return False
	}
	return NewBool(cmp(x, y))
}
