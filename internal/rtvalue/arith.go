package rtvalue

// Add implements `+` across the Int/Int, Float, Ptr+Int, and Str+Str
// columns of spec §4.4.3's dispatch table.
func (h *Heap) Add(a, b Value) Value {
	switch {
	case a&1 == 1 && b&1 == 1:
		return Value(uint64(a) + uint64(b) - 1)
	case h.isNumericPair(a, b):
		return h.FltAdd(a, b)
	case a.GetTag() == TagPointer && b&1 == 1 && h.HeaderTag(a) != tagStringOwned && h.HeaderTag(a) != tagStringConst:
		return Value(uint64(a) + uint64(b.Int()))
	case h.isStringish(a, b):
		return h.Concat(a, b)
	default:
		panic("rtvalue: '+' on incompatible operands")
	}
}

// Sub implements `-`: Int/Int, float, pointer-int (still pointer
// arithmetic), and pointer-pointer (distance as a tagged int).
func (h *Heap) Sub(a, b Value) Value {
	switch {
	case a&1 == 1 && b&1 == 1:
		return Value(uint64(a) - uint64(b) + 1)
	case h.isNumericPair(a, b):
		return h.FltSub(a, b)
	case a.GetTag() == TagPointer && b.GetTag() == TagPointer:
		return NewInt(int64(a) - int64(b))
	case a.GetTag() == TagPointer && b&1 == 1:
		return Value(uint64(a) - uint64(b.Int()))
	default:
		panic("rtvalue: '-' on incompatible operands")
	}
}

// Mul implements `*`: tagged int multiply untags both operands, widens,
// and retags (spec §4.4.3: "(a>>1)*(b>>1) <<1 |1").
func (h *Heap) Mul(a, b Value) Value {
	switch {
	case a&1 == 1 && b&1 == 1:
		return NewInt(a.Int() * b.Int())
	case h.isNumericPair(a, b):
		return h.FltMul(a, b)
	default:
		panic("rtvalue: '*' on incompatible operands")
	}
}

// Div and Mod implement `/` and `%`. Integer division by zero yields 0
// (Div) or Nil (Mod) rather than trapping, per spec §4.4.3.
func (h *Heap) Div(a, b Value) Value {
	if a&1 == 1 && b&1 == 1 {
		if b.Int() == 0 {
			return NewInt(0)
		}
		return NewInt(a.Int() / b.Int())
	}
	if h.isNumericPair(a, b) {
		return h.FltDiv(a, b)
	}
	panic("rtvalue: '/' on incompatible operands")
}

func (h *Heap) Mod(a, b Value) Value {
	if a&1 == 1 && b&1 == 1 {
		if b.Int() == 0 {
			return Nil
		}
		return NewInt(a.Int() % b.Int())
	}
	panic("rtvalue: '%' on incompatible operands")
}

func (h *Heap) isNumericPair(a, b Value) bool {
	_, ok1 := h.asFloat(a)
	_, ok2 := h.asFloat(b)
	return ok1 && ok2 && (a.IsFloat(h) || b.IsFloat(h))
}

func (h *Heap) isStringish(a, b Value) bool {
	return a.GetTag() == TagPointer && b.GetTag() == TagPointer &&
		isStringTag(h.HeaderTag(a)) && isStringTag(h.HeaderTag(b))
}

func isStringTag(t int) bool { return t == tagStringOwned || t == tagStringConst }

// Eq implements `==`: reflexive, treats the Nil/None singletons as a
// single equivalence class, deep-compares strings by content, and falls
// back to identity for everything else (spec §4.4.3).
func (h *Heap) Eq(a, b Value) Value {
	if a == b {
		return True
	}
	if isNilLike(a) && isNilLike(b) {
		return True
	}
	if h.isStringish(a, b) {
		return NewBool(h.StringValue(a) == h.StringValue(b))
	}
	if f1, ok1 := h.maybeFloat(a); ok1 {
		if f2, ok2 := h.maybeFloat(b); ok2 {
			return NewBool(f1 == f2)
		}
	}
	return False
}

// isNilLike groups Nil, None, and the tagged integer 0 into a single
// equivalence class for `==` (spec §4.4.3: "treats nil/0/NONE singletons
// as equal").
func isNilLike(v Value) bool { return v == Nil || v == None || v == NewInt(0) }

func (h *Heap) maybeFloat(v Value) (float64, bool) {
	if v&1 == 1 {
		return float64(v.Int()), true
	}
	if v.GetTag() == TagPointer && h.HeaderTag(v) == tagFloat {
		return h.Float(v), true
	}
	return 0, false
}

// Cmp implements the ordering operators `<`, `>`, `<=`, `>=` by
// dispatching to integer, float, or string comparison as appropriate,
// returning False without error for mismatched operand kinds (spec
// §4.4.3, §4.4.4).
func (h *Heap) Cmp(a, b Value, lt, eq bool) Value {
	if a&1 == 1 && b&1 == 1 {
		return NewBool(orderedCompare(a.Int(), b.Int(), lt, eq))
	}
	if h.isStringish(a, b) {
		return NewBool(orderedCompareStr(h.StringValue(a), h.StringValue(b), lt, eq))
	}
	if f1, ok1 := h.maybeFloat(a); ok1 {
		if f2, ok2 := h.maybeFloat(b); ok2 {
			return NewBool(orderedCompareFloat(f1, f2, lt, eq))
		}
	}
	return False
}

func orderedCompare(a, b int64, lt, eq bool) bool {
	if a == b {
		return eq
	}
	if lt {
		return a < b
	}
	return a > b
}

func orderedCompareFloat(a, b float64, lt, eq bool) bool {
	if a == b {
		return eq
	}
	if lt {
		return a < b
	}
	return a > b
}

func orderedCompareStr(a, b string, lt, eq bool) bool {
	if a == b {
		return eq
	}
	if lt {
		return a < b
	}
	return a > b
}

// untagBits strips the integer tag bit for bitwise ops without requiring
// the value to round-trip through Int()'s sign-extending shift.
func untagBits(v Value) uint64 {
	if v&1 == 1 {
		return uint64(v.Int())
	}
	return uint64(v)
}

// BitAnd, BitOr, BitXor, Shl, Shr untag both sides, compute, and retag
// (spec §4.4.3: "Bitwise ops untag both sides, compute, and retag").
func BitAnd(a, b Value) Value { return NewInt(int64(untagBits(a) & untagBits(b))) }
func BitOr(a, b Value) Value  { return NewInt(int64(untagBits(a) | untagBits(b))) }
func BitXor(a, b Value) Value { return NewInt(int64(untagBits(a) ^ untagBits(b))) }
func Shl(a, b Value) Value    { return NewInt(int64(untagBits(a) << uint(untagBits(b)))) }
func Shr(a, b Value) Value    { return NewInt(int64(untagBits(a)) >> uint(untagBits(b))) }
