// Package eqsat checks the order-preservation invariant an equality
// saturation rewrite pass must hold (original `src/code/eqsat.c`): a
// rewrite may reshape an expression tree, but it must never reorder the
// side-effecting operations within it — calls, member-calls, indexing,
// inline asm, division/modulo (which can trap), and the '?' try operator
// all count as an effect a reordering could change the observable
// behavior of. Spec §4.5.5 scopes this repository to the invariant;
// the rewrite rules themselves are a concrete backend's concern.
package eqsat

import (
	"fmt"

	"github.com/nytrix-lang/nytrix/internal/ast"
	"github.com/nytrix-lang/nytrix/internal/token"
)

// EffectKind names one category of order-sensitive operation.
type EffectKind int

const (
	EffectCall EffectKind = iota
	EffectMemberCall
	EffectIndex
	EffectAsm
	EffectDivMod
	EffectTry
)

func (k EffectKind) String() string {
	switch k {
	case EffectCall:
		return "call"
	case EffectMemberCall:
		return "member call"
	case EffectIndex:
		return "index"
	case EffectAsm:
		return "asm"
	case EffectDivMod:
		return "div/mod"
	case EffectTry:
		return "try"
	default:
		return "unknown"
	}
}

// Effects returns the ordered sequence of order-sensitive operations a
// left-to-right, depth-first walk of e encounters — the same evaluation
// order the language's own left-to-right operand evaluation rule gives
// every expression.
func Effects(e ast.Expr) []EffectKind {
	var out []EffectKind
	walk(e, &out)
	return out
}

func walk(e ast.Expr, out *[]EffectKind) {
	if e == nil {
		return
	}
	switch n := e.(type) {
	case *ast.UnaryExpr:
		walk(n.Operand, out)
	case *ast.BinaryExpr:
		walk(n.Lhs, out)
		walk(n.Rhs, out)
		if n.Op == token.Slash || n.Op == token.Percent {
			*out = append(*out, EffectDivMod)
		}
	case *ast.LogicalExpr:
		walk(n.Lhs, out)
		walk(n.Rhs, out)
	case *ast.TernaryExpr:
		walk(n.Cond, out)
		walk(n.Then, out)
		walk(n.Else, out)
	case *ast.CallExpr:
		walk(n.Callee, out)
		for _, a := range n.Args {
			walk(a.Value, out)
		}
		*out = append(*out, EffectCall)
	case *ast.MemberCallExpr:
		walk(n.Target, out)
		for _, a := range n.Args {
			walk(a.Value, out)
		}
		*out = append(*out, EffectMemberCall)
	case *ast.MemberExpr:
		walk(n.Target, out)
	case *ast.IndexExpr:
		walk(n.Target, out)
		walk(n.Start, out)
		walk(n.Stop, out)
		walk(n.Step, out)
		*out = append(*out, EffectIndex)
	case *ast.AsmExpr:
		for _, a := range n.Args {
			walk(a, out)
		}
		*out = append(*out, EffectAsm)
	case *ast.TryExpr:
		walk(n.Inner, out)
		*out = append(*out, EffectTry)
	case *ast.ListExpr:
		for _, el := range n.Elements {
			walk(el, out)
		}
	case *ast.DictExpr:
		for _, p := range n.Pairs {
			walk(p.Key, out)
			walk(p.Value, out)
		}
	case *ast.FStringExpr:
		for _, part := range n.Parts {
			if part.IsExpr {
				walk(part.Expr, out)
			}
		}
	case *ast.MatchExpr:
		walk(n.Test, out)
		for _, arm := range n.Arms {
			for _, p := range arm.Patterns {
				walk(p, out)
			}
			walk(arm.Consequent, out)
		}
		walk(n.Default, out)
	}
}

// CheckOrderPreserved reports an error if a rewrite from before to
// after changed the order of side-effecting operations. Equal-length
// sequences with a differing effect kind at some position, or
// differing lengths (a rewrite that drops or duplicates an effect),
// are both violations; this does not attempt to verify that the
// rewrite is otherwise value-preserving, only that the rewrite rules
// this package's caller applies keep their promise about evaluation
// order.
func CheckOrderPreserved(before, after ast.Expr) error {
	a, b := Effects(before), Effects(after)
	if len(a) != len(b) {
		return fmt.Errorf("eqsat: rewrite changed effect count from %d to %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			return fmt.Errorf("eqsat: rewrite reordered effect %d from %s to %s", i, a[i], b[i])
		}
	}
	return nil
}
