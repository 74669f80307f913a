package eqsat

import (
	"testing"

	"github.com/nytrix-lang/nytrix/internal/ast"
	"github.com/nytrix-lang/nytrix/internal/token"
)

func call(a *ast.Arena, name string) *ast.CallExpr {
	return a.NewCall(token.Token{}, a.NewIdent(token.Token{}, name), nil)
}

func TestEffectsOrdersCallsLeftToRight(t *testing.T) {
	a := ast.NewArena()
	bin := a.NewBinary(token.Token{}, token.Plus, call(a, "f"), call(a, "g"))

	effects := Effects(bin)
	if len(effects) != 2 || effects[0] != EffectCall || effects[1] != EffectCall {
		t.Fatalf("Effects() = %v", effects)
	}
}

func TestEffectsRecordsDivAfterItsOperands(t *testing.T) {
	a := ast.NewArena()
	bin := a.NewBinary(token.Token{}, token.Slash, call(a, "f"), call(a, "g"))

	effects := Effects(bin)
	want := []EffectKind{EffectCall, EffectCall, EffectDivMod}
	if len(effects) != len(want) {
		t.Fatalf("Effects() = %v; want %v", effects, want)
	}
	for i := range want {
		if effects[i] != want[i] {
			t.Fatalf("Effects() = %v; want %v", effects, want)
		}
	}
}

func TestCheckOrderPreservedAcceptsIdenticalTrees(t *testing.T) {
	a := ast.NewArena()
	before := a.NewBinary(token.Token{}, token.Plus, call(a, "f"), call(a, "g"))
	after := a.NewBinary(token.Token{}, token.Plus, call(a, "f"), call(a, "g"))

	if err := CheckOrderPreserved(before, after); err != nil {
		t.Fatalf("CheckOrderPreserved() error = %v", err)
	}
}

func TestCheckOrderPreservedRejectsSwappedOperands(t *testing.T) {
	a := ast.NewArena()
	before := a.NewBinary(token.Token{}, token.Plus, call(a, "f"), call(a, "g"))
	// A commutativity rewrite that swaps evaluation order is exactly what
	// this check exists to catch, even though `+` is mathematically
	// commutative: evaluation order of side effects is not.
	after := a.NewBinary(token.Token{}, token.Plus, call(a, "g"), call(a, "f"))

	if err := CheckOrderPreserved(before, after); err == nil {
		t.Fatal("CheckOrderPreserved() = nil; want an error for a reordered rewrite")
	}
}

func TestCheckOrderPreservedRejectsDroppedEffect(t *testing.T) {
	a := ast.NewArena()
	before := a.NewBinary(token.Token{}, token.Plus, call(a, "f"), call(a, "g"))
	after := call(a, "f")

	if err := CheckOrderPreserved(before, after); err == nil {
		t.Fatal("CheckOrderPreserved() = nil; want an error when a rewrite drops an effect")
	}
}
