// Package ast defines the Nytrix AST node types and the arena that owns
// them (spec §3.2-§3.5).
//
// Ownership invariant: every Expr, Stmt, and every string the parser
// copies out of the source buffer is allocated from a single Arena. The
// Arena is the sole owner; dropping it (letting it become unreachable)
// invalidates every node at once, mirroring the teacher's single-owner
// discipline for Scmer heap payloads (scm/scmer.go) generalized from a
// tagged-value runtime to a parse-time node arena. Vectors inside nodes
// (parameter lists, statement bodies, call arguments) are ordinary Go
// slices built with append; they are not allocated from the arena.
package ast

// slab is a bump allocator for a single node type. Unlike a plain
// growing slice, chunks are never reallocated once created, so pointers
// handed out by alloc remain valid for the arena's lifetime even as more
// nodes are added.
type slab[T any] struct {
	chunks    [][]T
	nextChunk int
}

func (s *slab[T]) alloc() *T {
	if len(s.chunks) == 0 || len(s.chunks[len(s.chunks)-1]) == cap(s.chunks[len(s.chunks)-1]) {
		if s.nextChunk == 0 {
			s.nextChunk = 8
		} else {
			s.nextChunk *= 2
		}
		s.chunks = append(s.chunks, make([]T, 0, s.nextChunk))
	}
	last := &s.chunks[len(s.chunks)-1]
	*last = append(*last, *new(T))
	return &(*last)[len(*last)-1]
}

func (s *slab[T]) len() int {
	n := 0
	for _, c := range s.chunks {
		n += len(c)
	}
	return n
}

// Arena owns every node and interned string produced during one parse.
type Arena struct {
	idents      slab[IdentExpr]
	literals    slab[LiteralExpr]
	unaries     slab[UnaryExpr]
	binaries    slab[BinaryExpr]
	logicals    slab[LogicalExpr]
	ternaries   slab[TernaryExpr]
	calls       slab[CallExpr]
	memberCalls slab[MemberCallExpr]
	members     slab[MemberExpr]
	indices     slab[IndexExpr]
	lambdas     slab[LambdaExpr]
	fns         slab[FnExpr]
	lists       slab[ListExpr]
	dicts       slab[DictExpr]
	asms        slab[AsmExpr]
	embeds      slab[EmbedExpr]
	sizeofs     slab[SizeofExpr]
	comptimes   slab[ComptimeExpr]
	fstrings    slab[FStringExpr]
	infMembers  slab[InferredMemberExpr]
	matchExprs  slab[MatchExpr]
	tryExprs    slab[TryExpr]

	blocks   slab[BlockStmt]
	uses     slab[UseStmt]
	vars     slab[VarStmt]
	exprStmt slab[ExprStmt]
	ifs      slab[IfStmt]
	whiles   slab[WhileStmt]
	fors     slab[ForStmt]
	tryStmts slab[TryStmt]
	funcs    slab[FuncStmt]
	externs  slab[ExternStmt]
	returns  slab[ReturnStmt]
	breaks   slab[BreakStmt]
	continue_ slab[ContinueStmt]
	labels   slab[LabelStmt]
	gotos    slab[GotoStmt]
	defers   slab[DeferStmt]
	structs  slab[StructStmt]
	enums    slab[EnumStmt]
	matches  slab[MatchStmt]
	modules  slab[ModuleStmt]
	exports  slab[ExportStmt]
	macros   slab[MacroStmt]

	// interned strings: one growing byte buffer, grown by doubling.
	strbuf []byte
}

// NewArena creates an empty Arena.
func NewArena() *Arena { return &Arena{} }

// Intern copies s into the arena's string storage and returns the copy.
// Every string the parser lifts out of the source buffer goes through
// this so the arena remains the sole owner (spec §3.2).
func (a *Arena) Intern(s string) string {
	if s == "" {
		return ""
	}
	need := len(a.strbuf) + len(s)
	if need > cap(a.strbuf) {
		newCap := cap(a.strbuf)*2 + len(s)
		if newCap < 64 {
			newCap = 64
		}
		grown := make([]byte, len(a.strbuf), newCap)
		copy(grown, a.strbuf)
		a.strbuf = grown
	}
	start := len(a.strbuf)
	a.strbuf = append(a.strbuf, s...)
	return string(a.strbuf[start : start+len(s)])
}

// NodeCount reports the total number of expression and statement nodes
// allocated.
func (a *Arena) NodeCount() int {
	return a.idents.len() + a.literals.len() + a.unaries.len() + a.binaries.len() +
		a.logicals.len() + a.ternaries.len() + a.calls.len() + a.memberCalls.len() +
		a.members.len() + a.indices.len() + a.lambdas.len() + a.fns.len() +
		a.lists.len() + a.dicts.len() + a.asms.len() + a.embeds.len() +
		a.sizeofs.len() + a.comptimes.len() + a.fstrings.len() + a.infMembers.len() +
		a.matchExprs.len() + a.tryExprs.len() +
		a.blocks.len() + a.uses.len() + a.vars.len() + a.exprStmt.len() + a.ifs.len() +
		a.whiles.len() + a.fors.len() + a.tryStmts.len() + a.funcs.len() + a.externs.len() +
		a.returns.len() + a.breaks.len() + a.continue_.len() + a.labels.len() + a.gotos.len() +
		a.defers.len() + a.structs.len() + a.enums.len() + a.matches.len() + a.modules.len() +
		a.exports.len() + a.macros.len()
}
