// Package token defines the lexical token kinds produced by internal/lexer
// and consumed by internal/parser.
package token

// Kind discriminates a Token's lexical category.
type Kind int

const (
	EOF Kind = iota
	Ident
	Int
	Float
	Str
	FString

	// punctuation / operators
	LParen
	RParen
	LBrace
	RBrace
	LBracket
	RBracket
	Comma
	Colon
	Semicolon
	Dot
	DotDotDot
	Question
	At

	Plus
	Minus
	Star
	Slash
	Percent
	Amp
	Pipe
	Caret
	Tilde
	Bang
	Assign

	PlusEq
	MinusEq
	StarEq
	SlashEq
	PercentEq

	Eq
	NotEq
	Lt
	Gt
	LtEq
	GtEq

	AndAnd
	OrOr
	Shl
	Shr
	Arrow

	// keywords
	KwAs
	KwAsm
	KwBreak
	KwCase
	KwCatch
	KwContinue
	KwComptime
	KwDef
	KwDefer
	KwElif
	KwElse
	KwEmbed
	KwEnum
	KwExport
	KwExtern
	KwFalse
	KwFn
	KwFor
	KwGoto
	KwIf
	KwIn
	KwLambda
	KwLayout
	KwMatch
	KwModule
	KwMut
	KwNil
	KwReturn
	KwSizeof
	KwStruct
	KwTrue
	KwTry
	KwUndef
	KwUse
	KwWhile
)

// Keywords maps reserved-word lexemes to their Kind (spec §6).
var Keywords = map[string]Kind{
	"as":       KwAs,
	"asm":      KwAsm,
	"break":    KwBreak,
	"case":     KwCase,
	"catch":    KwCatch,
	"continue": KwContinue,
	"comptime": KwComptime,
	"def":      KwDef,
	"defer":    KwDefer,
	"elif":     KwElif,
	"else":     KwElse,
	"embed":    KwEmbed,
	"enum":     KwEnum,
	"export":   KwExport,
	"extern":   KwExtern,
	"false":    KwFalse,
	"fn":       KwFn,
	"for":      KwFor,
	"goto":     KwGoto,
	"if":       KwIf,
	"in":       KwIn,
	"lambda":   KwLambda,
	"layout":   KwLayout,
	"match":    KwMatch,
	"module":   KwModule,
	"mut":      KwMut,
	"nil":      KwNil,
	"return":   KwReturn,
	"sizeof":   KwSizeof,
	"struct":   KwStruct,
	"true":     KwTrue,
	"try":      KwTry,
	"undef":    KwUndef,
	"use":      KwUse,
	"while":    KwWhile,
}

// TypeHint is a numeric literal's optional declared width/signedness (spec §3.3).
type TypeHint int

const (
	HintNone TypeHint = iota
	HintI8
	HintI16
	HintI32
	HintI64
	HintU8
	HintU16
	HintU32
	HintU64
	HintF32
	HintF64
	HintF128
)

// TypeHints maps case-insensitive numeric suffixes to their hint (spec §6).
var TypeHints = map[string]TypeHint{
	"i8":   HintI8,
	"i16":  HintI16,
	"i32":  HintI32,
	"i64":  HintI64,
	"u8":   HintU8,
	"u16":  HintU16,
	"u32":  HintU32,
	"u64":  HintU64,
	"f32":  HintF32,
	"f64":  HintF64,
	"f128": HintF128,
}

// IsIntHint reports whether hint names an integer width.
func (h TypeHint) IsIntHint() bool {
	return h >= HintI8 && h <= HintU64
}

// IsFloatHint reports whether hint names a float width.
func (h TypeHint) IsFloatHint() bool {
	return h >= HintF32 && h <= HintF128
}

// Token is a lexeme with its source location. Lexeme is a slice into the
// original source buffer; the arena never copies it eagerly (spec §3.1).
type Token struct {
	Kind     Kind
	Lexeme   string
	Line     int
	Column   int
	Filename string
	Offset   int // byte offset of the token's first byte in the source buffer

	// Suffix-typed numeric literal metadata (spec §3.3, §6).
	Hint         TypeHint
	HintExplicit bool

	// FString sub-parts, populated by the parser when Kind == FString.
	// Each element is either a literal run (Expr == nil) or an embedded
	// expression's raw source text to be sub-parsed.
	Parts []FStringPart
}

// FStringPart is one alternating literal-or-expression chunk of an
// interpolated string token (spec §3.1, §4.1).
type FStringPart struct {
	Literal string // valid when IsExpr == false
	Source  string // raw "{ ... }" interior text, valid when IsExpr == true
	IsExpr  bool
	Line    int
	Column  int
}

func (t Token) String() string {
	if t.Lexeme != "" {
		return t.Lexeme
	}
	return kindNames[t.Kind]
}

var kindNames = map[Kind]string{
	EOF: "EOF", Ident: "identifier", Int: "int literal", Float: "float literal",
	Str: "string literal", FString: "f-string literal",
	LParen: "(", RParen: ")", LBrace: "{", RBrace: "}", LBracket: "[", RBracket: "]",
	Comma: ",", Colon: ":", Semicolon: ";", Dot: ".", DotDotDot: "...", Question: "?", At: "@",
	Plus: "+", Minus: "-", Star: "*", Slash: "/", Percent: "%",
	Amp: "&", Pipe: "|", Caret: "^", Tilde: "~", Bang: "!", Assign: "=",
	PlusEq: "+=", MinusEq: "-=", StarEq: "*=", SlashEq: "/=", PercentEq: "%=",
	Eq: "==", NotEq: "!=", Lt: "<", Gt: ">", LtEq: "<=", GtEq: ">=",
	AndAnd: "&&", OrOr: "||", Shl: "<<", Shr: ">>", Arrow: "->",
}

// Describe returns a human-readable description of the token's kind,
// used when formatting "expected X, got Y" diagnostics.
func (k Kind) Describe() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	for lex, kk := range Keywords {
		if kk == k {
			return "'" + lex + "'"
		}
	}
	return "token"
}
