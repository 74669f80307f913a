package rtvalue

import (
	"bytes"
	"fmt"
	"strconv"
	"unsafe"
)

// NewString heap-boxes s as a NUL-terminated UTF-8 payload with type tag
// 241 (owned). The header's size word holds the payload size rounded up
// to 64 bytes, not the string length; no length slot is written, and the
// length is found by the NUL terminator.
func (h *Heap) NewString(s string) Value {
	v := h.Alloc(len(s)+1, tagStringOwned)
	b := h.payloadBytes(v)
	copy(b, s)
	b[len(s)] = 0
	return v
}

// NewConstString is identical to NewString but tags the result 243
// (constant); the runtime must never Free a constant string (spec §3.8,
// §4.4.5).
func (h *Heap) NewConstString(s string) Value {
	v := h.Alloc(len(s)+1, tagStringConst)
	b := h.payloadBytes(v)
	copy(b, s)
	b[len(s)] = 0
	return v
}

// StringLen returns the string's length: the number of payload bytes
// before the first NUL.
func (h *Heap) StringLen(v Value) int64 {
	n := h.Size(v)
	if n == 0 {
		return 0
	}
	return int64(len(h.StringValue(v)))
}

// StringValue returns the Go string view of a heap string value. Panics
// if v is not tagged 241 or 243.
func (h *Heap) StringValue(v Value) string {
	t := h.HeaderTag(v)
	if t != tagStringOwned && t != tagStringConst {
		panic("rtvalue: StringValue called on a non-string value")
	}
	b := h.payloadBytes(v)
	n := bytes.IndexByte(b, 0)
	if n < 0 {
		n = len(b)
	}
	return unsafe.String(&b[0], n)
}

// ToStr canonicalises any tagged value to its owned string form (spec
// §4.4.5): integers via base-10, floats via %g, booleans to
// "true"/"false", nil to "none", closures to "<fn 0x...>", and existing
// strings returned by identity (no copy).
func (h *Heap) ToStr(v Value) Value {
	switch v.GetTag() {
	case TagNil:
		return h.NewConstString("none")
	case TagTrue:
		return h.NewConstString("true")
	case TagFalse:
		return h.NewConstString("false")
	case TagInt:
		return h.NewString(strconv.FormatInt(v.Int(), 10))
	case TagClosure, TagNative:
		return h.NewString(fmt.Sprintf("<fn %#x>", uint64(v)))
	case TagPointer:
		switch h.HeaderTag(v) {
		case tagFloat:
			return h.NewString(strconv.FormatFloat(h.Float(v), 'g', -1, 64))
		case tagStringOwned, tagStringConst:
			return v
		case tagClosure:
			return h.NewString(fmt.Sprintf("<fn %#x>", uint64(v)))
		default:
			return h.NewString(fmt.Sprintf("<obj %#x>", uint64(v)))
		}
	default:
		return h.NewConstString("none")
	}
}

// Concat coerces both sides through ToStr and joins them (spec §4.4.5).
func (h *Heap) Concat(a, b Value) Value {
	sa := h.ToStr(a)
	sb := h.ToStr(b)
	return h.NewString(h.StringValue(sa) + h.StringValue(sb))
}
