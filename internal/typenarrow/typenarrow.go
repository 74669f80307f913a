// Package typenarrow implements the flow-sensitive null-narrowing
// inference the original compiler's nullnarrow.c performs: inside the
// branch an `if x != nil { ... }` / `if x == nil { ... } else { ... }`
// test guards, the guarded identifier is known not to be nil. The
// narrowing is scoped strictly to the branch it guards, matching
// nullnarrow.c's flow-sensitive, branch-local scope rather than a
// whole-function dataflow solve.
package typenarrow

import (
	"github.com/nytrix-lang/nytrix/internal/ast"
	"github.com/nytrix-lang/nytrix/internal/token"
)

// Fact records that name is known non-nil at the point it's attached.
type Fact struct {
	Name   string
	NonNil bool
}

// isNilLiteral reports whether e is the `nil` keyword literal (parsed
// as a LitBool literal whose originating token is KwNil; internal/ast
// has no dedicated nil node kind).
func isNilLiteral(e ast.Expr) bool {
	lit, ok := e.(*ast.LiteralExpr)
	return ok && lit.Pos().Kind == token.KwNil
}

// guardedIdent extracts the identifier name being nil-compared, and
// whether nonNilOp is true for "!= nil" (the name is non-nil when the
// comparison is true) or false for "== nil" (non-nil when false).
func guardedIdent(test ast.Expr) (name string, nonNilOp bool, ok bool) {
	bin, isBin := test.(*ast.BinaryExpr)
	if !isBin || (bin.Op != token.Eq && bin.Op != token.NotEq) {
		return "", false, false
	}

	var other ast.Expr
	switch {
	case isNilLiteral(bin.Rhs):
		other = bin.Lhs
	case isNilLiteral(bin.Lhs):
		other = bin.Rhs
	default:
		return "", false, false
	}

	id, isIdent := other.(*ast.IdentExpr)
	if !isIdent {
		return "", false, false
	}
	return id.Name, bin.Op == token.NotEq, true
}

// Narrow computes the facts that hold inside an IfStmt's Then branch
// and, symmetrically, inside its Else branch (when present) — an
// `if x != nil` narrows x non-nil in Then; `if x == nil` narrows x
// non-nil in Else, the mirror case.
func Narrow(stmt *ast.IfStmt) (thenFacts, elseFacts []Fact) {
	name, nonNilWhenTrue, ok := guardedIdent(stmt.Test)
	if !ok {
		return nil, nil
	}
	fact := Fact{Name: name, NonNil: true}
	if nonNilWhenTrue {
		return []Fact{fact}, nil
	}
	return nil, []Fact{fact}
}

// Scope holds the facts narrowed along the path leading to a piece of
// AST, keyed by identifier name — the branch-local "known non-nil"
// set nullnarrow.c threads through its walk.
type Scope struct {
	parent *Scope
	facts  map[string]bool
}

// Child returns a new scope that inherits parent's facts plus extras,
// without mutating parent (branch scopes never leak sideways into a
// sibling branch).
func (s *Scope) Child(extras []Fact) *Scope {
	child := &Scope{parent: s, facts: make(map[string]bool, len(extras))}
	for _, f := range extras {
		child.facts[f.Name] = f.NonNil
	}
	return child
}

// NonNil reports whether name is known non-nil in s or any ancestor
// scope.
func (s *Scope) NonNil(name string) bool {
	for cur := s; cur != nil; cur = cur.parent {
		if v, ok := cur.facts[name]; ok {
			return v
		}
	}
	return false
}

// Walker runs a visitor over a program's statements carrying the
// narrowing scope active at each point, so a consumer (a future
// optimisation pass, or a lint-style diagnostic) can ask "is x narrowed
// here" without re-deriving the if/else structure itself.
type Walker struct {
	// OnExpr is called for every expression reached, with the scope
	// active at that point.
	OnExpr func(e ast.Expr, scope *Scope)
}

// WalkProgram walks every top-level statement with an empty root scope.
func (w *Walker) WalkProgram(prog *ast.Program) {
	w.walkStmts(prog.Statements, nil)
}

func (w *Walker) walkStmts(stmts []ast.Stmt, scope *Scope) {
	for _, s := range stmts {
		w.walkStmt(s, scope)
	}
}

func (w *Walker) walkStmt(s ast.Stmt, scope *Scope) {
	switch n := s.(type) {
	case *ast.ExprStmt:
		w.walkExpr(n.X, scope)
	case *ast.VarStmt:
		for _, e := range n.Exprs {
			if e != nil {
				w.walkExpr(e, scope)
			}
		}
	case *ast.IfStmt:
		w.walkExpr(n.Test, scope)
		thenFacts, elseFacts := Narrow(n)
		w.walkStmts(n.Then.Statements, scope.Child(thenFacts))
		if n.Else != nil {
			switch els := n.Else.(type) {
			case *ast.BlockStmt:
				w.walkStmts(els.Statements, scope.Child(elseFacts))
			default:
				w.walkStmt(els, scope.Child(elseFacts))
			}
		}
	case *ast.WhileStmt:
		w.walkExpr(n.Test, scope)
		w.walkStmts(n.Body.Statements, scope)
	case *ast.ForStmt:
		w.walkExpr(n.Iterable, scope)
		w.walkStmts(n.Body.Statements, scope)
	case *ast.TryStmt:
		w.walkStmts(n.Body.Statements, scope)
		if n.Handler != nil {
			w.walkStmts(n.Handler.Statements, scope)
		}
	case *ast.DeferStmt:
		w.walkStmts(n.Body.Statements, scope)
	case *ast.ReturnStmt:
		if n.Value != nil {
			w.walkExpr(n.Value, scope)
		}
	case *ast.BlockStmt:
		w.walkStmts(n.Statements, scope)
	case *ast.FuncStmt:
		if n.Body != nil {
			w.walkStmts(n.Body.Statements, nil)
		}
	}
}

func (w *Walker) walkExpr(e ast.Expr, scope *Scope) {
	if w.OnExpr != nil {
		w.OnExpr(e, scope)
	}
	switch n := e.(type) {
	case *ast.UnaryExpr:
		w.walkExpr(n.Operand, scope)
	case *ast.BinaryExpr:
		w.walkExpr(n.Lhs, scope)
		w.walkExpr(n.Rhs, scope)
	case *ast.LogicalExpr:
		w.walkExpr(n.Lhs, scope)
		w.walkExpr(n.Rhs, scope)
	case *ast.TernaryExpr:
		w.walkExpr(n.Cond, scope)
		w.walkExpr(n.Then, scope)
		w.walkExpr(n.Else, scope)
	case *ast.CallExpr:
		w.walkExpr(n.Callee, scope)
		for _, a := range n.Args {
			w.walkExpr(a.Value, scope)
		}
	case *ast.MemberCallExpr:
		w.walkExpr(n.Target, scope)
		for _, a := range n.Args {
			w.walkExpr(a.Value, scope)
		}
	case *ast.MemberExpr:
		w.walkExpr(n.Target, scope)
	case *ast.IndexExpr:
		w.walkExpr(n.Target, scope)
	}
}
