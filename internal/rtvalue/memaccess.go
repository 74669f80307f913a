package rtvalue

import "unsafe"

// untagIndex strips the integer tag bit if present, so an index can be
// handed through either as a raw machine integer or as a tagged Nytrix
// value (spec §4.4.2: "Index may be raw or tagged; untag if tag bit set").
func untagIndex(idx Value) int64 {
	if idx&1 == 1 {
		return idx.Int()
	}
	return int64(idx)
}

// isAnyPtr reports whether v looks like a plausible pointer: non-zero,
// even (tag bit clear), and above the first page, matching spec §4.4.2's
// "any_ptr" predicate used to reject obviously-bogus addresses before a
// bounds check is even attempted.
func isAnyPtr(v Value) bool {
	return v != 0 && v&1 == 0 && v > 4096
}

// checkAccess validates ptr+idx against the header's recorded size,
// allowing negative indices only within the 64-byte header region (spec
// §4.4.2).
func (h *Heap) checkAccess(ptr Value, idx int64, width int64) unsafe.Pointer {
	if !isAnyPtr(ptr) {
		panic("rtvalue: load/store on non-pointer value")
	}
	if base := h.headerOf(ptr); base != nil {
		size := int64(getU64(base, offSize))
		if idx < 0 {
			if idx < -headerSize || idx+width > 0 {
				panic("rtvalue: negative index outside header region")
			}
		} else if idx+width > size {
			panic("rtvalue: indexed access out of bounds")
		}
	} else if idx < 0 {
		panic("rtvalue: negative index on a non-heap pointer")
	}
	return unsafe.Add(unsafe.Pointer(uintptr(ptr)), idx)
}

func (h *Heap) Load8(ptr, idx Value) Value {
	p := h.checkAccess(ptr, untagIndex(idx), 1)
	return NewInt(int64(*(*uint8)(p)))
}

func (h *Heap) Load16(ptr, idx Value) Value {
	p := h.checkAccess(ptr, untagIndex(idx), 2)
	return NewInt(int64(*(*uint16)(p)))
}

func (h *Heap) Load32(ptr, idx Value) Value {
	p := h.checkAccess(ptr, untagIndex(idx), 4)
	return NewInt(int64(*(*uint32)(p)))
}

func (h *Heap) Load64(ptr, idx Value) Value {
	p := h.checkAccess(ptr, untagIndex(idx), 8)
	return NewInt(int64(*(*uint64)(p)))
}

func (h *Heap) Store8(ptr, idx, v Value) {
	p := h.checkAccess(ptr, untagIndex(idx), 1)
	*(*uint8)(p) = uint8(untagIndex(v))
}

func (h *Heap) Store16(ptr, idx, v Value) {
	p := h.checkAccess(ptr, untagIndex(idx), 2)
	*(*uint16)(p) = uint16(untagIndex(v))
}

func (h *Heap) Store32(ptr, idx, v Value) {
	p := h.checkAccess(ptr, untagIndex(idx), 4)
	*(*uint32)(p) = uint32(untagIndex(v))
}

func (h *Heap) Store64(ptr, idx, v Value) {
	p := h.checkAccess(ptr, untagIndex(idx), 8)
	*(*uint64)(p) = uint64(untagIndex(v))
}
