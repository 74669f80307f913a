package ast

import "github.com/nytrix-lang/nytrix/internal/token"

// Stmt is the sum type over statement node kinds (spec §3.4).
type Stmt interface {
	stmtNode()
	Pos() token.Token
}

type stmtBase struct{ Tok token.Token }

func (stmtBase) stmtNode()          {}
func (s stmtBase) Pos() token.Token { return s.Tok }

type BlockStmt struct {
	stmtBase
	Statements []Stmt
}

type UseImport struct {
	Name  string
	Alias string // empty if absent
}

type UseStmt struct {
	stmtBase
	ModuleName string
	Alias      string
	IsLocal    bool
	ImportAll  bool
	Imports    []UseImport
}

// VarStmt binds one or more names in parallel (spec §3.4). A single
// statement handles def/mut/undef and optional [a, b] = ... destructuring.
type VarStmt struct {
	stmtBase
	Names         []string
	Types         []string // parallel to Names; empty string = no annotation
	Exprs         []Expr   // parallel to Names, or a single expr when IsDestructure
	IsDecl        bool     // def (true) vs mut (false) — both bind; IsDecl distinguishes immutability
	IsMut         bool
	IsUndef       bool
	IsDestructure bool
}

type ExprStmt struct {
	stmtBase
	X Expr
}

type IfStmt struct {
	stmtBase
	Test Expr
	Then *BlockStmt
	Else Stmt // *BlockStmt or *IfStmt (elif chain), nil if absent
}

type WhileStmt struct {
	stmtBase
	Test Expr
	Body *BlockStmt
}

type ForStmt struct {
	stmtBase
	IterVar  string
	Iterable Expr
	Body     *BlockStmt
}

type TryStmt struct {
	stmtBase
	Body      *BlockStmt
	ErrorName string // empty if catch has no bound name
	Handler   *BlockStmt
}

type Attribute struct {
	Name string
	Args []Expr
}

// SrcRange records the original source text span for documentation and
// REPL source-printing (spec §4.2.4).
type SrcRange struct {
	Start, End int // byte offsets into the source buffer
}

type FuncStmt struct {
	stmtBase
	Name       string
	Params     []Param
	ReturnType string
	Body       *BlockStmt // nil for a forward declaration ("fn name(...);")
	Doc        string
	Variadic   bool
	Attributes []Attribute
	SrcRange   SrcRange
}

type ExternStmt struct {
	stmtBase
	Name       string
	Params     []Param
	ReturnType string
	LinkName   string // empty unless "as linkname" given
	Variadic   bool
}

type ReturnStmt struct {
	stmtBase
	Value Expr // nil if bare "return"
}

type BreakStmt struct{ stmtBase }
type ContinueStmt struct{ stmtBase }

type LabelStmt struct {
	stmtBase
	Name string
}

type GotoStmt struct {
	stmtBase
	Name string
}

type DeferStmt struct {
	stmtBase
	Body *BlockStmt
}

type Field struct {
	Name          string
	Type          string
	ExplicitAlign int // 0 if absent
}

type StructStmt struct {
	stmtBase
	Name          string
	Fields        []Field
	AlignOverride int // 0 if absent
	Pack          int // 0 if absent
	IsLayout      bool
}

type EnumItem struct {
	Name  string
	Value Expr // nil if absent
}

type EnumStmt struct {
	stmtBase
	Name  string
	Items []EnumItem
}

type MatchArmStmt struct {
	Patterns   []Expr
	Consequent Stmt
}

type MatchStmt struct {
	stmtBase
	Test    Expr
	Arms    []MatchArmStmt
	Default *BlockStmt
}

type ModuleStmt struct {
	stmtBase
	Name       string
	Body       *BlockStmt
	ExportAll  bool
	SrcRange   SrcRange
}

type ExportStmt struct {
	stmtBase
	Names []string
}

type MacroStmt struct {
	stmtBase
	Name string
	Args []Expr
	Body *BlockStmt
}

// --- Arena constructors ---

func (a *Arena) NewBlock(tok token.Token, stmts []Stmt) *BlockStmt {
	n := a.blocks.alloc()
	n.Tok, n.Statements = tok, stmts
	return n
}

func (a *Arena) NewUse(tok token.Token, u UseStmt) *UseStmt {
	n := a.uses.alloc()
	*n = u
	n.Tok = tok
	return n
}

func (a *Arena) NewVar(tok token.Token, v VarStmt) *VarStmt {
	n := a.vars.alloc()
	*n = v
	n.Tok = tok
	return n
}

func (a *Arena) NewExprStmt(tok token.Token, x Expr) *ExprStmt {
	n := a.exprStmt.alloc()
	n.Tok, n.X = tok, x
	return n
}

func (a *Arena) NewIf(tok token.Token, test Expr, then *BlockStmt, els Stmt) *IfStmt {
	n := a.ifs.alloc()
	n.Tok, n.Test, n.Then, n.Else = tok, test, then, els
	return n
}

func (a *Arena) NewWhile(tok token.Token, test Expr, body *BlockStmt) *WhileStmt {
	n := a.whiles.alloc()
	n.Tok, n.Test, n.Body = tok, test, body
	return n
}

func (a *Arena) NewFor(tok token.Token, iterVar string, iterable Expr, body *BlockStmt) *ForStmt {
	n := a.fors.alloc()
	n.Tok, n.IterVar, n.Iterable, n.Body = tok, a.Intern(iterVar), iterable, body
	return n
}

func (a *Arena) NewTryStmt(tok token.Token, body *BlockStmt, errName string, handler *BlockStmt) *TryStmt {
	n := a.tryStmts.alloc()
	n.Tok, n.Body, n.ErrorName, n.Handler = tok, body, a.Intern(errName), handler
	return n
}

func (a *Arena) NewFunc(tok token.Token, f FuncStmt) *FuncStmt {
	n := a.funcs.alloc()
	*n = f
	n.Tok = tok
	return n
}

func (a *Arena) NewExtern(tok token.Token, e ExternStmt) *ExternStmt {
	n := a.externs.alloc()
	*n = e
	n.Tok = tok
	return n
}

func (a *Arena) NewReturn(tok token.Token, value Expr) *ReturnStmt {
	n := a.returns.alloc()
	n.Tok, n.Value = tok, value
	return n
}

func (a *Arena) NewBreak(tok token.Token) *BreakStmt {
	n := a.breaks.alloc()
	n.Tok = tok
	return n
}

func (a *Arena) NewContinue(tok token.Token) *ContinueStmt {
	n := a.continue_.alloc()
	n.Tok = tok
	return n
}

func (a *Arena) NewLabel(tok token.Token, name string) *LabelStmt {
	n := a.labels.alloc()
	n.Tok, n.Name = tok, a.Intern(name)
	return n
}

func (a *Arena) NewGoto(tok token.Token, name string) *GotoStmt {
	n := a.gotos.alloc()
	n.Tok, n.Name = tok, a.Intern(name)
	return n
}

func (a *Arena) NewDefer(tok token.Token, body *BlockStmt) *DeferStmt {
	n := a.defers.alloc()
	n.Tok, n.Body = tok, body
	return n
}

func (a *Arena) NewStruct(tok token.Token, s StructStmt) *StructStmt {
	n := a.structs.alloc()
	*n = s
	n.Tok = tok
	return n
}

func (a *Arena) NewEnum(tok token.Token, e EnumStmt) *EnumStmt {
	n := a.enums.alloc()
	*n = e
	n.Tok = tok
	return n
}

func (a *Arena) NewMatchStmt(tok token.Token, test Expr, arms []MatchArmStmt, def *BlockStmt) *MatchStmt {
	n := a.matches.alloc()
	n.Tok, n.Test, n.Arms, n.Default = tok, test, arms, def
	return n
}

func (a *Arena) NewModule(tok token.Token, m ModuleStmt) *ModuleStmt {
	n := a.modules.alloc()
	*n = m
	n.Tok = tok
	return n
}

func (a *Arena) NewExport(tok token.Token, names []string) *ExportStmt {
	n := a.exports.alloc()
	n.Tok, n.Names = tok, names
	return n
}

func (a *Arena) NewMacro(tok token.Token, m MacroStmt) *MacroStmt {
	n := a.macros.alloc()
	*n = m
	n.Tok = tok
	return n
}
