package backend

import (
	"strings"
	"testing"

	"github.com/nytrix-lang/nytrix/internal/ast"
	"github.com/nytrix-lang/nytrix/internal/token"
)

func intLit(a *ast.Arena, v int64) *ast.LiteralExpr {
	n := a.NewLiteral(token.Token{Kind: token.Int})
	n.Kind = ast.LitInt
	n.IntValue = v
	return n
}

func strLit(a *ast.Arena, v string) *ast.LiteralExpr {
	n := a.NewLiteral(token.Token{Kind: token.Str})
	n.Kind = ast.LitString
	n.StringValue = v
	return n
}

func program(a *ast.Arena, stmts ...ast.Stmt) *ast.Program {
	return &ast.Program{Arena: a, Statements: stmts}
}

func containsSymbol(syms []string, want string) bool {
	for _, s := range syms {
		if s == want {
			return true
		}
	}
	return false
}

func TestEmitProgramCollectsRuntimeSymbolsForArithmetic(t *testing.T) {
	a := ast.NewArena()
	expr := a.NewBinary(token.Token{Kind: token.Plus}, token.Plus, intLit(a, 1), intLit(a, 2))
	prog := program(a, a.NewExprStmt(token.Token{}, expr))

	mod, err := NewRefBackend().EmitProgram(prog, Options{})
	if err != nil {
		t.Fatalf("EmitProgram: %v", err)
	}
	if !containsSymbol(mod.RuntimeSymbols, "__add") {
		t.Fatalf("expected __add in %v", mod.RuntimeSymbols)
	}
}

func TestEmitProgramInternsStringLiterals(t *testing.T) {
	a := ast.NewArena()
	prog := program(a, a.NewExprStmt(token.Token{}, strLit(a, "hello")))

	mod, err := NewRefBackend().EmitProgram(prog, Options{})
	if err != nil {
		t.Fatalf("EmitProgram: %v", err)
	}
	if len(mod.Interns) != 1 {
		t.Fatalf("expected 1 intern, got %d", len(mod.Interns))
	}
	if mod.Interns[0].Value != "hello" || !mod.Interns[0].Const {
		t.Fatalf("unexpected intern: %+v", mod.Interns[0])
	}
}

func TestStringHeaderBytesMatchesHeapLayout(t *testing.T) {
	buf := stringHeaderBytes("hi")
	if len(buf) < hdrSize+hdrCanarySize {
		t.Fatalf("buffer too small: %d", len(buf))
	}
	if buf[56] != hdrTagStringConst {
		t.Fatalf("expected type tag %d at offset 56, got %d", hdrTagStringConst, buf[56])
	}
	canaryOff := len(buf) - hdrCanarySize
	var canary uint64
	for i := 0; i < 8; i++ {
		canary |= uint64(buf[canaryOff+i]) << (8 * uint(i))
	}
	if canary != hdrCanary {
		t.Fatalf("expected canary %x, got %x", hdrCanary, canary)
	}
}

func TestEmitProgramSynthesisesMainWhenRequested(t *testing.T) {
	a := ast.NewArena()
	prog := program(a, a.NewExprStmt(token.Token{}, intLit(a, 1)))

	mod, err := NewRefBackend().EmitProgram(prog, Options{EmitMain: true, ModuleName: "demo"})
	if err != nil {
		t.Fatalf("EmitProgram: %v", err)
	}
	if !containsSymbol(mod.RuntimeSymbols, "__set_args") {
		t.Fatalf("expected __set_args when EmitMain is set, got %v", mod.RuntimeSymbols)
	}
	skeleton, ok := mod.Handle.(string)
	if !ok {
		t.Fatalf("expected Module.Handle to be a string skeleton, got %T", mod.Handle)
	}
	if !strings.Contains(skeleton, "func main(") {
		t.Fatalf("expected synthesised main in skeleton:\n%s", skeleton)
	}
	if !strings.Contains(skeleton, "__script_top") {
		t.Fatalf("expected __script_top in skeleton:\n%s", skeleton)
	}
}

func TestEmitProgramRejectsCallWithTooManyArguments(t *testing.T) {
	a := ast.NewArena()
	var args []ast.CallArg
	for i := 0; i < 16; i++ {
		args = append(args, ast.CallArg{Value: intLit(a, int64(i))})
	}
	callee := a.NewIdent(token.Token{}, "f")
	call := a.NewCall(token.Token{}, callee, args)
	prog := program(a, a.NewExprStmt(token.Token{}, call))

	if _, err := NewRefBackend().EmitProgram(prog, Options{}); err == nil {
		t.Fatal("expected an error for a call with more than 15 arguments")
	}
}

func TestCanonicalRuntimeSymbolStripsDisambiguationSuffix(t *testing.T) {
	if got := canonicalRuntimeSymbol("__add.2"); got != "__add" {
		t.Fatalf("canonicalRuntimeSymbol(__add.2) = %q, want __add", got)
	}
}
