// Package ssa checks the single-assignment invariant a Braun-style SSA
// construction pass depends on (original `src/code/braun.c`): a backend
// is free to run one, but spec §4.5.5 scopes this repository to the
// invariant it must hold, not the construction algorithm itself. Given
// a block, CheckSingleAssignment reports whether any `def` name is
// declared more than once directly inside it — a real SSA builder
// renumbers on every definition and this never happens by construction,
// so a violation here means a caller handed the checker ordinary,
// pre-SSA source instead.
package ssa

import "github.com/nytrix-lang/nytrix/internal/ast"

// Violation names one identifier the block declares more than once.
type Violation struct {
	Name  string
	Count int
}

func (v Violation) Error() string {
	return "ssa: " + v.Name + " declared more than once in the same block"
}

// CheckSingleAssignment walks block's direct statements (not nested
// blocks — each nested block is its own scope) and reports every `def`
// name declared more than once. Shadowing in a nested block, or
// reassignment through `mut`, is not a violation: only a repeated `def`
// of the same name at the same scope level breaks the single-assignment
// invariant.
func CheckSingleAssignment(block *ast.BlockStmt) []Violation {
	counts := map[string]int{}
	for _, s := range block.Statements {
		v, ok := s.(*ast.VarStmt)
		if !ok || !v.IsDecl {
			continue
		}
		for _, name := range v.Names {
			counts[name]++
		}
	}

	var violations []Violation
	for _, s := range block.Statements {
		v, ok := s.(*ast.VarStmt)
		if !ok || !v.IsDecl {
			continue
		}
		for _, name := range v.Names {
			if n := counts[name]; n > 1 {
				violations = append(violations, Violation{Name: name, Count: n})
				counts[name] = 0 // report each repeated name once
			}
		}
	}
	return violations
}

// CheckProgram runs CheckSingleAssignment over every function body and
// the program's own top-level block in a Program, returning every
// violation found.
func CheckProgram(prog *ast.Program) []Violation {
	var out []Violation
	out = append(out, CheckSingleAssignment(&ast.BlockStmt{Statements: prog.Statements})...)
	for _, s := range prog.Statements {
		if fn, ok := s.(*ast.FuncStmt); ok && fn.Body != nil {
			out = append(out, checkNested(fn.Body)...)
		}
	}
	return out
}

func checkNested(block *ast.BlockStmt) []Violation {
	out := CheckSingleAssignment(block)
	for _, s := range block.Statements {
		switch n := s.(type) {
		case *ast.IfStmt:
			out = append(out, checkNested(n.Then)...)
			if els, ok := n.Else.(*ast.BlockStmt); ok {
				out = append(out, checkNested(els)...)
			}
		case *ast.WhileStmt:
			out = append(out, checkNested(n.Body)...)
		case *ast.ForStmt:
			out = append(out, checkNested(n.Body)...)
		case *ast.TryStmt:
			out = append(out, checkNested(n.Body)...)
			if n.Handler != nil {
				out = append(out, checkNested(n.Handler)...)
			}
		case *ast.DeferStmt:
			out = append(out, checkNested(n.Body)...)
		case *ast.BlockStmt:
			out = append(out, checkNested(n)...)
		}
	}
	return out
}
