package ssa

import (
	"testing"

	"github.com/nytrix-lang/nytrix/internal/ast"
	"github.com/nytrix-lang/nytrix/internal/token"
)

func decl(a *ast.Arena, name string) *ast.VarStmt {
	return a.NewVar(token.Token{}, ast.VarStmt{Names: []string{name}, IsDecl: true})
}

func TestCheckSingleAssignmentFlagsRepeatedDef(t *testing.T) {
	a := ast.NewArena()
	block := a.NewBlock(token.Token{}, []ast.Stmt{decl(a, "x"), decl(a, "x")})

	violations := CheckSingleAssignment(block)
	if len(violations) != 1 || violations[0].Name != "x" || violations[0].Count != 2 {
		t.Fatalf("violations = %+v", violations)
	}
}

func TestCheckSingleAssignmentAllowsDistinctNames(t *testing.T) {
	a := ast.NewArena()
	block := a.NewBlock(token.Token{}, []ast.Stmt{decl(a, "x"), decl(a, "y")})

	if v := CheckSingleAssignment(block); len(v) != 0 {
		t.Fatalf("violations = %+v; want none", v)
	}
}

func TestCheckSingleAssignmentIgnoresMut(t *testing.T) {
	a := ast.NewArena()
	mutStmt := a.NewVar(token.Token{}, ast.VarStmt{Names: []string{"x"}, IsDecl: false})
	block := a.NewBlock(token.Token{}, []ast.Stmt{decl(a, "x"), mutStmt})

	if v := CheckSingleAssignment(block); len(v) != 0 {
		t.Fatalf("violations = %+v; want none (mut is not a redeclaration)", v)
	}
}

func TestCheckProgramDescendsIntoNestedBlocks(t *testing.T) {
	a := ast.NewArena()
	inner := a.NewBlock(token.Token{}, []ast.Stmt{decl(a, "y"), decl(a, "y")})
	ifStmt := a.NewIf(token.Token{}, a.NewIdent(token.Token{}, "cond"), inner, nil)
	outer := a.NewBlock(token.Token{}, []ast.Stmt{ifStmt})
	fn := a.NewFunc(token.Token{}, ast.FuncStmt{Name: "f", Body: outer})

	prog := &ast.Program{Arena: a, Statements: []ast.Stmt{fn}}
	violations := CheckProgram(prog)
	if len(violations) != 1 || violations[0].Name != "y" {
		t.Fatalf("violations = %+v", violations)
	}
}
