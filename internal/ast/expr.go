package ast

import "github.com/nytrix-lang/nytrix/internal/token"

// Expr is the sum type over expression node kinds (spec §3.3). Every
// concrete variant embeds its originating Token.
type Expr interface {
	exprNode()
	Pos() token.Token
}

type exprBase struct{ Tok token.Token }

func (exprBase) exprNode()          {}
func (e exprBase) Pos() token.Token { return e.Tok }

// LiteralKind discriminates LiteralExpr.Value's Go representation.
type LiteralKind int

const (
	LitInt LiteralKind = iota
	LitFloat
	LitBool
	LitString
)

type IdentExpr struct {
	exprBase
	Name string
}

type LiteralExpr struct {
	exprBase
	Kind         LiteralKind
	IntValue     int64
	FloatValue   float64
	BoolValue    bool
	StringValue  string
	Hint         token.TypeHint
	HintExplicit bool
}

type UnaryExpr struct {
	exprBase
	Op      token.Kind
	Operand Expr
}

type BinaryExpr struct {
	exprBase
	Op       token.Kind
	Lhs, Rhs Expr
}

// LogicalOp is && or ||.
type LogicalExpr struct {
	exprBase
	Op       token.Kind
	Lhs, Rhs Expr
}

type TernaryExpr struct {
	exprBase
	Cond, Then, Else Expr
}

// CallArg is one positional or keyword call argument.
type CallArg struct {
	Name  string // empty when positional
	Value Expr
}

type CallExpr struct {
	exprBase
	Callee Expr
	Args   []CallArg
}

type MemberCallExpr struct {
	exprBase
	Target Expr
	Name   string
	Args   []CallArg
}

type MemberExpr struct {
	exprBase
	Target Expr
	Name   string
}

// IndexSentinel is the magic value marking a missing slice bound
// (spec §3.3, §4.2.1).
const IndexSentinel = 0x3fffffff

type IndexExpr struct {
	exprBase
	Target            Expr
	Start, Stop, Step Expr // nil when not given; Stop==nil means default end (sentinel)
	IsSlice           bool
}

type Param struct {
	Name string
	Type string // type annotation text, empty if absent
}

type LambdaExpr struct {
	exprBase
	Params     []Param
	ReturnType string
	Body       Expr // not set by the parser; every body, including a single-expression one (wrapped as a return), is in BodyStmt
	BodyStmt   *BlockStmt
	Variadic   bool
}

// FnExpr is a named-function literal (spec §3.3: "a named-function literal").
type FnExpr struct {
	exprBase
	Name       string
	Params     []Param
	ReturnType string
	Body       *BlockStmt
	Variadic   bool
}

type ListKind int

const (
	ListList ListKind = iota
	ListTuple
	ListSet
)

type ListExpr struct {
	exprBase
	Kind     ListKind
	Elements []Expr
}

type DictPair struct {
	Key, Value Expr
}

type DictExpr struct {
	exprBase
	Pairs []DictPair
}

type AsmExpr struct {
	exprBase
	Code        string
	Constraints []string
	Args        []Expr
}

type EmbedExpr struct {
	exprBase
	Path string
}

type SizeofExpr struct {
	exprBase
	TypeName string // non-empty when sizeof(TypeName)
	Operand  Expr   // non-nil when sizeof(expr)
}

type ComptimeExpr struct {
	exprBase
	Block *BlockStmt
}

type FStringExpr struct {
	exprBase
	Parts []FStringPart
}

// FStringPart mirrors token.FStringPart but with the expression part
// already parsed into an Expr (spec §3.3).
type FStringPart struct {
	Literal string
	Expr    Expr
	IsExpr  bool
}

type InferredMemberExpr struct {
	exprBase
	Name string
}

type MatchArm struct {
	Patterns   []Expr
	Consequent Expr
}

type MatchExpr struct {
	exprBase
	Test    Expr
	Arms    []MatchArm
	Default Expr // nil if absent
}

// TryExpr is the postfix '?' operator (spec §3.3).
type TryExpr struct {
	exprBase
	Inner Expr
}

// --- Arena constructors ---

func (a *Arena) NewIdent(tok token.Token, name string) *IdentExpr {
	n := a.idents.alloc()
	n.Tok, n.Name = tok, a.Intern(name)
	return n
}

func (a *Arena) NewLiteral(tok token.Token) *LiteralExpr {
	n := a.literals.alloc()
	n.Tok = tok
	return n
}

func (a *Arena) NewUnary(tok token.Token, op token.Kind, operand Expr) *UnaryExpr {
	n := a.unaries.alloc()
	n.Tok, n.Op, n.Operand = tok, op, operand
	return n
}

func (a *Arena) NewBinary(tok token.Token, op token.Kind, lhs, rhs Expr) *BinaryExpr {
	n := a.binaries.alloc()
	n.Tok, n.Op, n.Lhs, n.Rhs = tok, op, lhs, rhs
	return n
}

func (a *Arena) NewLogical(tok token.Token, op token.Kind, lhs, rhs Expr) *LogicalExpr {
	n := a.logicals.alloc()
	n.Tok, n.Op, n.Lhs, n.Rhs = tok, op, lhs, rhs
	return n
}

func (a *Arena) NewTernary(tok token.Token, cond, then, els Expr) *TernaryExpr {
	n := a.ternaries.alloc()
	n.Tok, n.Cond, n.Then, n.Else = tok, cond, then, els
	return n
}

func (a *Arena) NewCall(tok token.Token, callee Expr, args []CallArg) *CallExpr {
	n := a.calls.alloc()
	n.Tok, n.Callee, n.Args = tok, callee, args
	return n
}

func (a *Arena) NewMemberCall(tok token.Token, target Expr, name string, args []CallArg) *MemberCallExpr {
	n := a.memberCalls.alloc()
	n.Tok, n.Target, n.Name, n.Args = tok, target, a.Intern(name), args
	return n
}

func (a *Arena) NewMember(tok token.Token, target Expr, name string) *MemberExpr {
	n := a.members.alloc()
	n.Tok, n.Target, n.Name = tok, target, a.Intern(name)
	return n
}

func (a *Arena) NewIndex(tok token.Token, target, start, stop, step Expr, isSlice bool) *IndexExpr {
	n := a.indices.alloc()
	n.Tok, n.Target, n.Start, n.Stop, n.Step, n.IsSlice = tok, target, start, stop, step, isSlice
	return n
}

func (a *Arena) NewLambda(tok token.Token, params []Param, retType string, bodyStmt *BlockStmt, variadic bool) *LambdaExpr {
	n := a.lambdas.alloc()
	n.Tok, n.Params, n.ReturnType, n.BodyStmt, n.Variadic = tok, params, retType, bodyStmt, variadic
	return n
}

func (a *Arena) NewFn(tok token.Token, name string, params []Param, retType string, body *BlockStmt, variadic bool) *FnExpr {
	n := a.fns.alloc()
	n.Tok, n.Name, n.Params, n.ReturnType, n.Body, n.Variadic = tok, a.Intern(name), params, retType, body, variadic
	return n
}

func (a *Arena) NewList(tok token.Token, kind ListKind, elems []Expr) *ListExpr {
	n := a.lists.alloc()
	n.Tok, n.Kind, n.Elements = tok, kind, elems
	return n
}

func (a *Arena) NewDict(tok token.Token, pairs []DictPair) *DictExpr {
	n := a.dicts.alloc()
	n.Tok, n.Pairs = tok, pairs
	return n
}

func (a *Arena) NewAsm(tok token.Token, code string, constraints []string, args []Expr) *AsmExpr {
	n := a.asms.alloc()
	n.Tok, n.Code, n.Constraints, n.Args = tok, a.Intern(code), constraints, args
	return n
}

func (a *Arena) NewEmbed(tok token.Token, path string) *EmbedExpr {
	n := a.embeds.alloc()
	n.Tok, n.Path = tok, a.Intern(path)
	return n
}

func (a *Arena) NewSizeof(tok token.Token, typeName string, operand Expr) *SizeofExpr {
	n := a.sizeofs.alloc()
	n.Tok, n.TypeName, n.Operand = tok, a.Intern(typeName), operand
	return n
}

func (a *Arena) NewComptime(tok token.Token, block *BlockStmt) *ComptimeExpr {
	n := a.comptimes.alloc()
	n.Tok, n.Block = tok, block
	return n
}

func (a *Arena) NewFString(tok token.Token, parts []FStringPart) *FStringExpr {
	n := a.fstrings.alloc()
	n.Tok, n.Parts = tok, parts
	return n
}

func (a *Arena) NewInferredMember(tok token.Token, name string) *InferredMemberExpr {
	n := a.infMembers.alloc()
	n.Tok, n.Name = tok, a.Intern(name)
	return n
}

func (a *Arena) NewMatchExpr(tok token.Token, test Expr, arms []MatchArm, def Expr) *MatchExpr {
	n := a.matchExprs.alloc()
	n.Tok, n.Test, n.Arms, n.Default = tok, test, arms, def
	return n
}

func (a *Arena) NewTry(tok token.Token, inner Expr) *TryExpr {
	n := a.tryExprs.alloc()
	n.Tok, n.Inner = tok, inner
	return n
}
