// Package parser builds an AST from a token stream and reports
// structured diagnostics with statement-level recovery (spec §4.2).
//
// The parser mixes recursive descent for statements with Pratt
// precedence climbing for expressions, the same split the teacher's
// reader uses between its list-structural readFrom (scm/parser.go) and
// its flat Eval dispatch — generalized here from s-expression reading to
// infix-operator parsing because Nytrix, unlike the teacher's embedded
// scheme, is not a Lisp.
package parser

import (
	"fmt"

	"github.com/nytrix-lang/nytrix/internal/ast"
	"github.com/nytrix-lang/nytrix/internal/lexer"
	"github.com/nytrix-lang/nytrix/internal/token"
)

// MaxErrors bounds the number of diagnostics collected before the parser
// aborts with a summary (spec §4.2.3, §7).
const MaxErrors = 200

// Parser is only ever owned by a single goroutine; the arena it builds
// must not be shared for concurrent mutation (spec §5).
type Parser struct {
	lex    *lexer.Lexer
	arena  *ast.Arena
	cur    token.Token
	prev   token.Token

	currentModule string // non-empty while inside a `module name { ... }` body
	loopDepth     int

	diags   []Diagnostic
	seen    map[string]bool
	aborted bool

	// srcMap lets diagnostics from a concatenated loader bundle (spec
	// §4.3 step 6) be attributed to the file they actually came from.
	// nil when parsing a single standalone file.
	srcMap *SourceMap
}

// SourceMap translates a byte offset into a concatenated bundle back to
// the original filename and a line number local to that file. Boundaries
// must be sorted ascending by Offset (the loader builds them in emission
// order, which is already ascending).
type SourceMap struct {
	Boundaries []SourceBoundary
}

// SourceBoundary marks where one bundled file's text begins.
type SourceBoundary struct {
	Offset   int    // byte offset into the bundle where this file's text starts
	Filename string // original filename
	LineBase int     // bundle-global line number of the file's first line, minus 1
}

// Resolve maps a bundle-global (offset, line) pair to the originating
// filename and a file-local line number.
func (m *SourceMap) Resolve(offset, line int) (filename string, localLine int) {
	if m == nil || len(m.Boundaries) == 0 {
		return "", line
	}
	b := m.Boundaries[0]
	for _, cand := range m.Boundaries {
		if cand.Offset > offset {
			break
		}
		b = cand
	}
	return b.Filename, line - b.LineBase
}

// SetSourceMap attaches a bundle's offset-to-filename map so subsequent
// diagnostics are attributed to the original file rather than the bundle.
func (p *Parser) SetSourceMap(m *SourceMap) { p.srcMap = m }

// New creates a Parser over src reading into its own arena.
func New(filename, src string) *Parser {
	p := &Parser{
		lex:   lexer.New(filename, src),
		arena: ast.NewArena(),
		seen:  make(map[string]bool),
	}
	p.advance()
	return p
}

// Arena returns the parser's AST arena.
func (p *Parser) Arena() *ast.Arena { return p.arena }

// Diagnostics returns all diagnostics collected so far.
func (p *Parser) Diagnostics() []Diagnostic { return p.diags }

// HadErrors reports whether any diagnostic was recorded.
func (p *Parser) HadErrors() bool { return len(p.diags) > 0 }

func (p *Parser) advance() {
	p.prev = p.cur
	p.cur = p.lex.Next()
}

// snapshotLexer/restoreLexer bundle (lexer state, cur, prev) to backtrack
// over a bounded lookahead (keyword-argument detection, sizeof's
// type-or-expression disambiguation).
func (p *Parser) snapshotLexer() (lexer.State, token.Token, token.Token) {
	return p.lex.Snapshot(), p.cur, p.prev
}

func (p *Parser) restoreLexer(s lexer.State, cur, prev token.Token) {
	p.lex.Restore(s)
	p.cur, p.prev = cur, prev
}

func (p *Parser) check(k token.Kind) bool { return p.cur.Kind == k }

func (p *Parser) match(k token.Kind) bool {
	if p.check(k) {
		p.advance()
		return true
	}
	return false
}

// expect consumes the current token if it has kind k, otherwise reports
// a structured "expected X, got Y" diagnostic and synchronizes.
func (p *Parser) expect(k token.Kind, context string) token.Token {
	if p.check(k) {
		t := p.cur
		p.advance()
		return t
	}
	bad := p.cur
	p.errorf(bad, "expected %s %s, got %s", k.Describe(), context, describeTok(bad))
	p.synchronize()
	return bad
}

func describeTok(t token.Token) string {
	if t.Kind == token.EOF {
		return "end of input"
	}
	if t.Lexeme != "" {
		return fmt.Sprintf("'%s'", t.Lexeme)
	}
	return t.Kind.Describe()
}

func (p *Parser) errorf(at token.Token, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	filename, line := at.Filename, at.Line
	if p.srcMap != nil {
		if fn, ln := p.srcMap.Resolve(at.Offset, at.Line); fn != "" {
			filename, line = fn, ln
		}
	}
	d := Diagnostic{
		Filename: filename,
		Line:     line,
		Column:   at.Column,
		Message:  msg,
		Hint:     lookupHint(at.Lexeme),
	}
	key := d.dedupKey()
	if p.seen[key] {
		return
	}
	p.seen[key] = true
	p.diags = append(p.diags, d)
	if len(p.diags) >= MaxErrors && !p.aborted {
		p.aborted = true
		p.diags = append(p.diags, Diagnostic{Filename: filename, Line: line, Column: at.Column,
			Message: fmt.Sprintf("too many errors (%d); parsing stopped", MaxErrors)})
	}
}

// synchronize skips tokens until a ';' (consumed) or '}' or EOF, the
// statement-boundary recovery strategy from spec §4.2.3.
func (p *Parser) synchronize() {
	for !p.check(token.EOF) {
		if p.check(token.Semicolon) {
			p.advance()
			return
		}
		if p.check(token.RBrace) {
			return
		}
		p.advance()
	}
}

// ParseProgram parses the whole token stream into a Program, recovering
// after each failing top-level statement so as many diagnostics as
// possible are produced in one pass (spec §4.2.3).
func (p *Parser) ParseProgram() *ast.Program {
	prog := &ast.Program{Arena: p.arena}

	// optional leading string literal doc comment (spec §3.5). A leading
	// string literal is the module doc string only if nothing (no postfix
	// or binary operator) attaches to it; otherwise it is the start of an
	// ordinary expression statement, e.g. a string concatenated with '+'.
	if p.check(token.Str) {
		savedCur := p.cur
		doc := savedCur.Lexeme
		p.advance()
		lit := p.arena.NewLiteral(savedCur)
		lit.Kind = ast.LitString
		lit.StringValue = p.arena.Intern(doc)
		var expr ast.Expr = lit
		expr = p.parsePostfixFrom(expr)
		expr = p.parseBinaryFrom(expr, 1)
		expr = p.finishTernary(expr)
		if expr == ast.Expr(lit) {
			prog.Doc = doc
		} else {
			stmt := p.arena.NewExprStmt(savedCur, expr)
			p.consumeStmtEnd()
			prog.Statements = append(prog.Statements, stmt)
		}
	}

	for !p.check(token.EOF) && !p.aborted {
		stmt := p.parseStatement()
		if stmt != nil {
			prog.Statements = append(prog.Statements, stmt)
		}
	}
	if p.check(token.EOF) && p.cur.Lexeme != "" {
		p.errorf(p.cur, "unexpected character '%s'", p.cur.Lexeme)
	}
	return prog
}
