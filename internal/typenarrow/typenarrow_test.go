package typenarrow

import (
	"testing"

	"github.com/nytrix-lang/nytrix/internal/ast"
	"github.com/nytrix-lang/nytrix/internal/token"
)

func nilLit(a *ast.Arena) *ast.LiteralExpr {
	n := a.NewLiteral(token.Token{Kind: token.KwNil})
	n.Kind = ast.LitBool
	n.BoolValue = false
	return n
}

func ident(a *ast.Arena, name string) *ast.IdentExpr {
	return a.NewIdent(token.Token{Kind: token.Ident}, name)
}

func TestGuardedIdentDetectsNotEqualNil(t *testing.T) {
	a := ast.NewArena()
	bin := a.NewBinary(token.Token{Kind: token.NotEq}, token.NotEq, ident(a, "x"), nilLit(a))

	name, nonNilWhenTrue, ok := guardedIdent(bin)
	if !ok || name != "x" || !nonNilWhenTrue {
		t.Fatalf("guardedIdent() = %q, %v, %v; want x, true, true", name, nonNilWhenTrue, ok)
	}
}

func TestGuardedIdentDetectsEqualNilEitherSide(t *testing.T) {
	a := ast.NewArena()
	bin := a.NewBinary(token.Token{Kind: token.Eq}, token.Eq, nilLit(a), ident(a, "y"))

	name, nonNilWhenTrue, ok := guardedIdent(bin)
	if !ok || name != "y" || nonNilWhenTrue {
		t.Fatalf("guardedIdent() = %q, %v, %v; want y, false, true", name, nonNilWhenTrue, ok)
	}
}

func TestGuardedIdentRejectsNonNilComparison(t *testing.T) {
	a := ast.NewArena()
	bin := a.NewBinary(token.Token{Kind: token.Eq}, token.Eq, ident(a, "x"), ident(a, "y"))

	if _, _, ok := guardedIdent(bin); ok {
		t.Fatalf("guardedIdent() reported a nil-guard for a non-nil comparison")
	}
}

func TestNarrowAttachesFactToThenBranchForNotEqualNil(t *testing.T) {
	a := ast.NewArena()
	test := a.NewBinary(token.Token{Kind: token.NotEq}, token.NotEq, ident(a, "x"), nilLit(a))
	then := a.NewBlock(token.Token{}, nil)
	ifStmt := a.NewIf(token.Token{}, test, then, nil)

	thenFacts, elseFacts := Narrow(ifStmt)
	if len(thenFacts) != 1 || thenFacts[0].Name != "x" || !thenFacts[0].NonNil {
		t.Fatalf("thenFacts = %+v; want [{x true}]", thenFacts)
	}
	if len(elseFacts) != 0 {
		t.Fatalf("elseFacts = %+v; want empty", elseFacts)
	}
}

func TestNarrowAttachesFactToElseBranchForEqualNil(t *testing.T) {
	a := ast.NewArena()
	test := a.NewBinary(token.Token{Kind: token.Eq}, token.Eq, ident(a, "x"), nilLit(a))
	then := a.NewBlock(token.Token{}, nil)
	els := a.NewBlock(token.Token{}, nil)
	ifStmt := a.NewIf(token.Token{}, test, then, els)

	thenFacts, elseFacts := Narrow(ifStmt)
	if len(thenFacts) != 0 {
		t.Fatalf("thenFacts = %+v; want empty", thenFacts)
	}
	if len(elseFacts) != 1 || elseFacts[0].Name != "x" || !elseFacts[0].NonNil {
		t.Fatalf("elseFacts = %+v; want [{x true}]", elseFacts)
	}
}

func TestScopeLooksUpThroughParent(t *testing.T) {
	root := (&Scope{}).Child([]Fact{{Name: "x", NonNil: true}})
	child := root.Child(nil)

	if !child.NonNil("x") {
		t.Fatal("child scope did not inherit parent's narrowed fact")
	}
	if child.NonNil("y") {
		t.Fatal("child scope reported an unrelated name as narrowed")
	}
}

func TestWalkerScopesNarrowingToItsOwnBranch(t *testing.T) {
	a := ast.NewArena()
	test := a.NewBinary(token.Token{Kind: token.NotEq}, token.NotEq, ident(a, "x"), nilLit(a))

	thenUse := a.NewExprStmt(token.Token{}, ident(a, "x"))
	then := a.NewBlock(token.Token{}, []ast.Stmt{thenUse})
	elseUse := a.NewExprStmt(token.Token{}, ident(a, "x"))
	els := a.NewBlock(token.Token{}, []ast.Stmt{elseUse})
	ifStmt := a.NewIf(token.Token{}, test, then, els)

	// walkStmt visits the guard's own `x != nil` test before either
	// branch, so the first IdentExpr("x") seen is the guard itself
	// (always unnarrowed); the second is the then-branch use, the third
	// the else-branch use.
	var occurrence int
	var thenNonNil, elseNonNil bool
	w := &Walker{OnExpr: func(e ast.Expr, scope *Scope) {
		id, ok := e.(*ast.IdentExpr)
		if !ok || id.Name != "x" {
			return
		}
		occurrence++
		switch occurrence {
		case 2:
			thenNonNil = scope.NonNil("x")
		case 3:
			elseNonNil = scope.NonNil("x")
		}
	}}

	prog := &ast.Program{Arena: a, Statements: []ast.Stmt{ifStmt}}
	w.WalkProgram(prog)

	if !thenNonNil {
		t.Fatal("x should be narrowed non-nil inside the `x != nil` then-branch")
	}
	if elseNonNil {
		t.Fatal("x should NOT be narrowed non-nil inside the else-branch of `x != nil`")
	}
}
