package rtvalue

import "testing"

func TestIntTagRoundTrip(t *testing.T) {
	for _, n := range []int64{0, 1, -1, 42, -1000000} {
		v := NewInt(n)
		want := TagInt
		if n == 0 {
			want = TagNone // tagged 0 has the bit pattern of the None singleton
		}
		if v.GetTag() != want {
			t.Fatalf("NewInt(%d).GetTag() = %v, want %v", n, v.GetTag(), want)
		}
		if got := v.Int(); got != n {
			t.Fatalf("NewInt(%d).Int() = %d", n, got)
		}
	}
}

func TestSingletons(t *testing.T) {
	cases := []struct {
		v    Value
		want Tag
	}{
		{Nil, TagNil}, {None, TagNone}, {True, TagTrue}, {False, TagFalse},
	}
	for _, c := range cases {
		if got := c.v.GetTag(); got != c.want {
			t.Fatalf("Value(%d).GetTag() = %v, want %v", c.v, got, c.want)
		}
	}
}

func TestHeapAllocFreeCanary(t *testing.T) {
	h := NewHeap()
	v := h.Alloc(32, 150)
	if !h.IsHeapOwned(v) {
		t.Fatal("freshly allocated value should be heap-owned")
	}
	if h.HeaderTag(v) != 150 {
		t.Fatalf("HeaderTag = %d, want 150", h.HeaderTag(v))
	}
	if !h.checkCanary(v) {
		t.Fatal("canary should be intact after alloc")
	}
	h.Free(v)
	if h.IsHeapOwned(v) {
		t.Fatal("freed value should no longer be heap-owned (poisoned magic words)")
	}
}

func TestLoadStoreRoundTrip(t *testing.T) {
	h := NewHeap()
	v := h.Alloc(64, 200)
	h.Store64(v, NewInt(0), NewInt(123456))
	if got := h.Load64(v, NewInt(0)).Int(); got != 123456 {
		t.Fatalf("Load64 = %d, want 123456", got)
	}
	h.Store8(v, NewInt(8), NewInt(7))
	if got := h.Load8(v, NewInt(8)).Int(); got != 7 {
		t.Fatalf("Load8 = %d, want 7", got)
	}
}

func TestLoadOutOfBoundsPanics(t *testing.T) {
	h := NewHeap()
	v := h.Alloc(8, 150)
	defer func() {
		if recover() == nil {
			t.Fatal("expected out-of-bounds load to panic")
		}
	}()
	h.Load64(v, NewInt(1000))
}

func TestStringConcatAndToStr(t *testing.T) {
	h := NewHeap()
	a := h.NewString("foo")
	b := h.NewString("bar")
	c := h.Concat(a, b)
	if got := h.StringValue(c); got != "foobar" {
		t.Fatalf("Concat = %q, want %q", got, "foobar")
	}
	n := h.ToStr(NewInt(42))
	if got := h.StringValue(n); got != "42" {
		t.Fatalf("ToStr(42) = %q", got)
	}
	nilStr := h.ToStr(Nil)
	if got := h.StringValue(nilStr); got != "none" {
		t.Fatalf("ToStr(Nil) = %q, want %q", got, "none")
	}
}

func TestFloatBoxAndPromotion(t *testing.T) {
	h := NewHeap()
	f := h.NewFloat(2.5)
	if !f.IsFloat(h) {
		t.Fatal("expected a heap-boxed float")
	}
	sum := h.Add(f, NewInt(2)) // int auto-promotes to float
	if !sum.IsFloat(h) {
		t.Fatal("int+float should promote to a float result")
	}
	if got := h.Float(sum); got != 4.5 {
		t.Fatalf("2.5+2 = %v, want 4.5", got)
	}
}

func TestIntArithmeticTaggedFormulas(t *testing.T) {
	h := NewHeap()
	sum := h.Add(NewInt(3), NewInt(4))
	if sum.Int() != 7 {
		t.Fatalf("3+4 = %d", sum.Int())
	}
	diff := h.Sub(NewInt(10), NewInt(3))
	if diff.Int() != 7 {
		t.Fatalf("10-3 = %d", diff.Int())
	}
	prod := h.Mul(NewInt(6), NewInt(7))
	if prod.Int() != 42 {
		t.Fatalf("6*7 = %d", prod.Int())
	}
}

func TestDivModByZero(t *testing.T) {
	h := NewHeap()
	if got := h.Div(NewInt(5), NewInt(0)); got.Int() != 0 {
		t.Fatalf("5/0 = %d, want 0", got.Int())
	}
	if got := h.Mod(NewInt(5), NewInt(0)); got != Nil {
		t.Fatalf("5%%0 = %v, want Nil", got)
	}
}

func TestEqNilZeroNoneEquivalence(t *testing.T) {
	h := NewHeap()
	if h.Eq(Nil, None) != True {
		t.Fatal("Nil should equal None")
	}
	if h.Eq(Nil, NewInt(0)) != True {
		t.Fatal("Nil should equal tagged 0")
	}
}

func TestCallTrampolines(t *testing.T) {
	h := NewHeap()
	tbl := NewTable()
	handle := tbl.Register(func(h *Heap, args []Value) Value {
		return h.Add(args[0], args[1])
	})
	fn := NewClosureFn(handle)
	result := tbl.Call2(h, fn, NewInt(3), NewInt(4))
	if result.Int() != 7 {
		t.Fatalf("Call2 = %d, want 7", result.Int())
	}
}

func TestClosureRecordDispatch(t *testing.T) {
	h := NewHeap()
	tbl := NewTable()
	codeHandle := tbl.Register(func(h *Heap, args []Value) Value {
		env := args[0]
		return h.Add(env, args[1])
	})
	code := NewClosureFn(codeHandle)
	closure := h.NewClosure(code, NewInt(100))
	result := tbl.Call1(h, closure, NewInt(1))
	if result.Int() != 101 {
		t.Fatalf("closure call = %d, want 101", result.Int())
	}
}

func TestUnwindCatchRecoversMatchingPanic(t *testing.T) {
	u := NewUnwind()
	h := NewHeap()
	var caughtVal Value
	u.Run(func() {
		u.Catch(func() {
			u.Panic(h, NewInt(99))
		}, func() {
			caughtVal = u.GetPanicVal()
		})
	})
	if caughtVal.Int() != 99 {
		t.Fatalf("caught value = %d, want 99", caughtVal.Int())
	}
}

func TestUnwindNestedCatchOnlyHandlesOwnFrame(t *testing.T) {
	u := NewUnwind()
	h := NewHeap()
	outerCaught := false
	innerCaught := false
	u.Run(func() {
		u.Catch(func() {
			u.Catch(func() {
				u.Panic(h, NewInt(1))
			}, func() {
				innerCaught = true
			})
		}, func() {
			outerCaught = true
		})
	})
	if !innerCaught {
		t.Fatal("inner catch should have handled the panic raised inside it")
	}
	if outerCaught {
		t.Fatal("outer catch should not run once the inner catch handled it")
	}
}

func TestDeferFrameRunsInReverseOrder(t *testing.T) {
	u := NewUnwind()
	var order []int
	fr := &DeferFrame{}
	u.PushDefer(fr, func() { order = append(order, 1) })
	u.PushDefer(fr, func() { order = append(order, 2) })
	u.RunDefers(fr)
	if len(order) != 2 || order[0] != 2 || order[1] != 1 {
		t.Fatalf("defers ran in order %v, want [2 1]", order)
	}
}

func TestMutexTryLock(t *testing.T) {
	m := NewMutex()
	if !m.TryLock() {
		t.Fatal("first TryLock should succeed")
	}
	if m.TryLock() {
		t.Fatal("second TryLock should fail while held")
	}
	m.Unlock()
}

func TestThreadSpawnJoin(t *testing.T) {
	u := NewUnwind()
	h := NewHeap()
	tbl := NewTable()
	handle := tbl.Register(func(h *Heap, args []Value) Value {
		return h.Mul(args[0], NewInt(2))
	})
	fn := NewClosureFn(handle)
	th := u.ThreadSpawn(h, tbl, fn, []Value{NewInt(21)})
	if got := th.Join().Int(); got != 42 {
		t.Fatalf("thread result = %d, want 42", got)
	}
}
