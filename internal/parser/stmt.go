package parser

import (
	"github.com/nytrix-lang/nytrix/internal/ast"
	"github.com/nytrix-lang/nytrix/internal/token"
)

// consumeStmtEnd is a no-op placeholder: Nytrix statements are
// self-delimiting by grammar structure (an expression's precedence
// climbing naturally stops at the next statement-starting token), and ';'
// begins a line comment rather than terminating a statement (spec §4.1).
func (p *Parser) consumeStmtEnd() {}

// endOffset returns the byte offset just past tok in the source buffer,
// used to populate SrcRange for source extraction (spec §4.2.4).
func endOffset(tok token.Token) int { return tok.Offset + len(tok.Lexeme) }

func (p *Parser) parseBlock() *ast.BlockStmt {
	tok := p.expect(token.LBrace, "to start a block")
	var stmts []ast.Stmt
	for !p.check(token.RBrace) && !p.check(token.EOF) && !p.aborted {
		s := p.parseStatement()
		if s != nil {
			stmts = append(stmts, s)
		}
	}
	p.expect(token.RBrace, "to close a block")
	return p.arena.NewBlock(tok, stmts)
}

func (p *Parser) parseStatement() ast.Stmt {
	switch p.cur.Kind {
	case token.KwUse:
		return p.parseUse()
	case token.KwDef, token.KwMut, token.KwUndef:
		return p.parseVarDecl()
	case token.KwIf:
		return p.parseIf()
	case token.KwWhile:
		return p.parseWhile()
	case token.KwFor:
		return p.parseFor()
	case token.KwTry:
		return p.parseTryStmt()
	case token.KwFn:
		return p.parseFuncStmt(nil)
	case token.At:
		attrs := p.parseAttributes()
		if !p.check(token.KwFn) {
			p.errorf(p.cur, "expected 'fn' after attribute list, got %s", describeTok(p.cur))
			p.synchronize()
			return nil
		}
		return p.parseFuncStmt(attrs)
	case token.KwExtern:
		return p.parseExternStmt()
	case token.KwReturn:
		return p.parseReturn()
	case token.KwBreak:
		tok := p.cur
		p.advance()
		if p.loopDepth == 0 {
			p.errorf(tok, "'break' outside a loop")
		}
		p.consumeStmtEnd()
		return p.arena.NewBreak(tok)
	case token.KwContinue:
		tok := p.cur
		p.advance()
		if p.loopDepth == 0 {
			p.errorf(tok, "'continue' outside a loop")
		}
		p.consumeStmtEnd()
		return p.arena.NewContinue(tok)
	case token.KwGoto:
		tok := p.cur
		p.advance()
		name := p.expect(token.Ident, "after 'goto'")
		p.consumeStmtEnd()
		return p.arena.NewGoto(tok, name.Lexeme)
	case token.KwDefer:
		tok := p.cur
		p.advance()
		body := p.parseBlock()
		return p.arena.NewDefer(tok, body)
	case token.KwStruct, token.KwLayout:
		return p.parseStructStmt()
	case token.KwEnum:
		return p.parseEnumStmt()
	case token.KwMatch:
		return p.parseMatchStatement()
	case token.KwModule:
		return p.parseModule()
	case token.KwExport:
		return p.parseExport()
	case token.LBrace:
		return p.parseBlock()
	default:
		return p.parseSimpleStatement()
	}
}

func (p *Parser) parseAttributes() []ast.Attribute {
	var attrs []ast.Attribute
	for p.check(token.At) {
		p.advance()
		name := p.expect(token.Ident, "as an attribute name")
		var args []ast.Expr
		if p.check(token.LParen) {
			args = argsToExprs(p.parseArgs())
		}
		attrs = append(attrs, ast.Attribute{Name: name.Lexeme, Args: args})
	}
	return attrs
}

func argsToExprs(args []ast.CallArg) []ast.Expr {
	out := make([]ast.Expr, len(args))
	for i, a := range args {
		out[i] = a.Value
	}
	return out
}

// parseUse covers "use std.io", "use \"./rel/path\"", "use mod *",
// "use mod (a, b as c)", "use mod as m" (spec §4.2.2).
func (p *Parser) parseUse() ast.Stmt {
	tok := p.cur
	p.advance() // consume 'use'

	if p.check(token.Str) {
		path := p.cur
		p.advance()
		p.consumeStmtEnd()
		return p.arena.NewUse(tok, ast.UseStmt{ModuleName: path.Lexeme, IsLocal: true})
	}

	modName := p.parseDottedModuleName()
	u := ast.UseStmt{ModuleName: modName}

	switch {
	case p.match(token.Star):
		u.ImportAll = true
	case p.check(token.LParen):
		p.advance()
		for !p.check(token.RParen) && !p.check(token.EOF) {
			if len(u.Imports) > 0 {
				p.expect(token.Comma, "between imports")
			}
			name := p.expect(token.Ident, "in import list")
			imp := ast.UseImport{Name: name.Lexeme}
			if p.match(token.KwAs) {
				alias := p.expect(token.Ident, "after 'as' in import list")
				imp.Alias = alias.Lexeme
			}
			u.Imports = append(u.Imports, imp)
		}
		p.expect(token.RParen, "to close import list")
	case p.match(token.KwAs):
		alias := p.expect(token.Ident, "after 'as'")
		u.Alias = alias.Lexeme
	}
	p.consumeStmtEnd()
	return p.arena.NewUse(tok, u)
}

func (p *Parser) parseDottedModuleName() string {
	name := p.expect(token.Ident, "as a module name")
	text := name.Lexeme
	for p.check(token.Dot) {
		// Only consume '.' as part of a module path when followed by an
		// identifier that doesn't itself start a member-access postfix on
		// what would otherwise be a bare name; module names are always
		// parsed in statement-leading position, so this is unambiguous.
		p.advance()
		part := p.expect(token.Ident, "in dotted module name")
		text += "." + part.Lexeme
	}
	return p.arena.Intern(text)
}

// parseVarDecl handles def/mut/undef, optional [a, b] = ... destructuring,
// and per-name type annotations (spec §4.2.2).
func (p *Parser) parseVarDecl() ast.Stmt {
	tok := p.cur
	kind := p.cur.Kind
	p.advance()

	v := ast.VarStmt{
		IsDecl:  kind == token.KwDef,
		IsMut:   kind == token.KwMut,
		IsUndef: kind == token.KwUndef,
	}

	if p.check(token.LBracket) {
		p.advance()
		v.IsDestructure = true
		for !p.check(token.RBracket) && !p.check(token.EOF) {
			if len(v.Names) > 0 {
				p.expect(token.Comma, "between destructured names")
			}
			name := p.expect(token.Ident, "in destructuring pattern")
			v.Names = append(v.Names, name.Lexeme)
			v.Types = append(v.Types, "")
		}
		p.expect(token.RBracket, "to close destructuring pattern")
	} else {
		for {
			name := p.expect(token.Ident, "as a variable name")
			typ := ""
			if p.match(token.Colon) {
				typ = p.parseTypeName()
			}
			v.Names = append(v.Names, name.Lexeme)
			v.Types = append(v.Types, typ)
			if !p.match(token.Comma) {
				break
			}
		}
	}

	if v.IsUndef {
		p.consumeStmtEnd()
		return p.arena.NewVar(tok, v)
	}

	p.expect(token.Assign, "after variable name(s)")
	if v.IsDestructure {
		v.Exprs = []ast.Expr{p.parseExpr()}
	} else {
		for {
			v.Exprs = append(v.Exprs, p.parseExpr())
			if !p.match(token.Comma) {
				break
			}
		}
	}
	p.consumeStmtEnd()
	return p.arena.NewVar(tok, v)
}

func (p *Parser) parseIf() ast.Stmt {
	tok := p.cur
	p.advance() // 'if'
	test := p.parseExpr()
	then := p.parseBlock()
	var els ast.Stmt
	if p.check(token.KwElif) {
		els = p.parseElif()
	} else if p.match(token.KwElse) {
		els = p.parseBlock()
	}
	return p.arena.NewIf(tok, test, then, els)
}

func (p *Parser) parseElif() ast.Stmt {
	tok := p.cur
	p.advance() // 'elif'
	test := p.parseExpr()
	then := p.parseBlock()
	var els ast.Stmt
	if p.check(token.KwElif) {
		els = p.parseElif()
	} else if p.match(token.KwElse) {
		els = p.parseBlock()
	}
	return p.arena.NewIf(tok, test, then, els)
}

func (p *Parser) parseWhile() ast.Stmt {
	tok := p.cur
	p.advance() // 'while'
	test := p.parseExpr()
	p.loopDepth++
	body := p.parseBlock()
	p.loopDepth--
	return p.arena.NewWhile(tok, test, body)
}

func (p *Parser) parseFor() ast.Stmt {
	tok := p.cur
	p.advance() // 'for'
	iterVar := p.expect(token.Ident, "as a loop variable")
	p.expect(token.KwIn, "after 'for' loop variable")
	iterable := p.parseExpr()
	p.loopDepth++
	body := p.parseBlock()
	p.loopDepth--
	return p.arena.NewFor(tok, iterVar.Lexeme, iterable, body)
}

// parseTryStmt handles "try { } catch [(name)|name]? { }" (spec §4.2.2).
func (p *Parser) parseTryStmt() ast.Stmt {
	tok := p.cur
	p.advance() // 'try'
	body := p.parseBlock()
	p.expect(token.KwCatch, "after try block")
	errName := ""
	if p.check(token.LParen) {
		p.advance()
		if p.check(token.Ident) {
			name := p.cur
			p.advance()
			errName = name.Lexeme
		}
		p.expect(token.RParen, "to close catch binder")
	} else if p.check(token.Ident) {
		name := p.cur
		p.advance()
		errName = name.Lexeme
	}
	handler := p.parseBlock()
	return p.arena.NewTryStmt(tok, body, errName, handler)
}

func (p *Parser) parseFuncStmt(attrs []ast.Attribute) ast.Stmt {
	tok := p.cur
	p.advance() // 'fn'
	name := p.expect(token.Ident, "as a function name")
	params, variadic := p.parseParamList()
	retType := ""
	if p.match(token.Colon) {
		retType = p.parseTypeName()
	}

	f := ast.FuncStmt{
		Name:       name.Lexeme,
		Params:     params,
		ReturnType: retType,
		Variadic:   variadic,
		Attributes: attrs,
		SrcRange:   ast.SrcRange{Start: tok.Offset},
	}
	if p.check(token.LBrace) {
		f.Body = p.parseBlock()
	} else {
		p.consumeStmtEnd() // forward declaration: "fn name(...);"
	}
	f.SrcRange.End = endOffset(p.prev)
	return p.arena.NewFunc(tok, f)
}

// parseExternStmt handles "extern fn name(params): Ret? [as linkname]"
// (spec §4.2.2).
func (p *Parser) parseExternStmt() ast.Stmt {
	tok := p.cur
	p.advance() // 'extern'
	p.expect(token.KwFn, "after 'extern'")
	name := p.expect(token.Ident, "as an extern function name")
	params, variadic := p.parseParamList()
	retType := ""
	if p.match(token.Colon) {
		retType = p.parseTypeName()
	}
	linkName := ""
	if p.match(token.KwAs) {
		link := p.expect(token.Ident, "after 'as' in extern declaration")
		linkName = link.Lexeme
	}
	p.consumeStmtEnd()
	return p.arena.NewExtern(tok, ast.ExternStmt{
		Name:       name.Lexeme,
		Params:     params,
		ReturnType: retType,
		LinkName:   linkName,
		Variadic:   variadic,
	})
}

func (p *Parser) parseReturn() ast.Stmt {
	tok := p.cur
	p.advance() // 'return'
	var val ast.Expr
	if !p.check(token.RBrace) && !p.check(token.EOF) && !p.startsStatement() {
		val = p.parseExpr()
	}
	p.consumeStmtEnd()
	return p.arena.NewReturn(tok, val)
}

// startsStatement reports whether the current token could only begin a new
// statement, used by "return" to decide whether a value expression
// follows on the same logical construct.
func (p *Parser) startsStatement() bool {
	switch p.cur.Kind {
	case token.KwUse, token.KwDef, token.KwMut, token.KwUndef, token.KwIf,
		token.KwWhile, token.KwFor, token.KwTry, token.KwFn, token.KwExtern,
		token.KwReturn, token.KwBreak, token.KwContinue, token.KwGoto,
		token.KwDefer, token.KwStruct, token.KwLayout, token.KwEnum,
		token.KwModule, token.KwExport:
		return true
	default:
		return false
	}
}

// parseStructStmt handles "struct/layout name [align(N)] [pack(N)] {
// field: Type [align(N)], ... }" (spec §4.2.2).
func (p *Parser) parseStructStmt() ast.Stmt {
	tok := p.cur
	isLayout := p.cur.Kind == token.KwLayout
	p.advance()
	name := p.expect(token.Ident, "as a struct name")

	s := ast.StructStmt{Name: name.Lexeme, IsLayout: isLayout}
	for p.check(token.Ident) && (p.cur.Lexeme == "align" || p.cur.Lexeme == "pack") {
		kw := p.cur.Lexeme
		p.advance()
		p.expect(token.LParen, "after '"+kw+"'")
		n := p.expect(token.Int, "as an alignment/pack value")
		val := parseDecimalLiteral(n.Lexeme)
		p.expect(token.RParen, "to close '"+kw+"(...)'")
		if kw == "align" {
			s.AlignOverride = val
		} else {
			s.Pack = val
		}
	}

	p.expect(token.LBrace, "to start struct body")
	for !p.check(token.RBrace) && !p.check(token.EOF) {
		if len(s.Fields) > 0 {
			p.expect(token.Comma, "between struct fields")
		}
		fname := p.expect(token.Ident, "as a field name")
		p.expect(token.Colon, "after field name")
		ftype := p.parseTypeName()
		field := ast.Field{Name: fname.Lexeme, Type: ftype}
		if p.check(token.Ident) && p.cur.Lexeme == "align" {
			p.advance()
			p.expect(token.LParen, "after 'align'")
			n := p.expect(token.Int, "as a field alignment")
			field.ExplicitAlign = parseDecimalLiteral(n.Lexeme)
			p.expect(token.RParen, "to close 'align(...)'")
		}
		s.Fields = append(s.Fields, field)
	}
	p.expect(token.RBrace, "to close struct body")
	return p.arena.NewStruct(tok, s)
}

func parseDecimalLiteral(lexeme string) int {
	v := 0
	for i := 0; i < len(lexeme); i++ {
		c := lexeme[i]
		if c < '0' || c > '9' {
			break
		}
		v = v*10 + int(c-'0')
	}
	return v
}

func (p *Parser) parseEnumStmt() ast.Stmt {
	tok := p.cur
	p.advance() // 'enum'
	name := p.expect(token.Ident, "as an enum name")
	e := ast.EnumStmt{Name: name.Lexeme}
	p.expect(token.LBrace, "to start enum body")
	for !p.check(token.RBrace) && !p.check(token.EOF) {
		if len(e.Items) > 0 {
			p.expect(token.Comma, "between enum variants")
		}
		item := p.expect(token.Ident, "as an enum variant name")
		it := ast.EnumItem{Name: item.Lexeme}
		if p.match(token.Assign) {
			it.Value = p.parseExpr()
		}
		e.Items = append(e.Items, it)
	}
	p.expect(token.RBrace, "to close enum body")
	return p.arena.NewEnum(tok, e)
}

// parseMatchStatement handles match used as a statement; arms whose
// consequent is a brace block bind a Stmt, others an implicit ExprStmt
// (spec §4.2.2).
func (p *Parser) parseMatchStatement() ast.Stmt {
	tok := p.cur
	p.advance() // 'match'
	test := p.parseExpr()
	p.expect(token.LBrace, "to start match arms")
	var arms []ast.MatchArmStmt
	var def *ast.BlockStmt
	for !p.check(token.RBrace) && !p.check(token.EOF) {
		if p.check(token.KwElse) {
			p.advance()
			p.expect(token.Arrow, "after 'else' in match statement")
			def = p.parseArmConsequent()
			continue
		}
		patterns := []ast.Expr{p.parseExpr()}
		for p.match(token.Comma) {
			if p.check(token.Arrow) {
				break
			}
			patterns = append(patterns, p.parseExpr())
		}
		p.expect(token.Arrow, "before match consequent")
		consequent := p.parseArmConsequent()
		arms = append(arms, ast.MatchArmStmt{Patterns: patterns, Consequent: consequent})
	}
	p.expect(token.RBrace, "to close match statement")
	return p.arena.NewMatchStmt(tok, test, arms, def)
}

func (p *Parser) parseArmConsequent() *ast.BlockStmt {
	if p.check(token.LBrace) {
		return p.parseBlock()
	}
	tok := p.cur
	expr := p.parseExpr()
	p.match(token.Comma)
	stmt := p.arena.NewExprStmt(tok, expr)
	return p.arena.NewBlock(tok, []ast.Stmt{stmt})
}

// parseModule handles "module name [*] [( body ) | { body }]" (spec §3.9,
// §4.2.2). The dotted module name is kept in currentModule while the body
// is parsed; the def declarations inside keep their own names, and no
// "<module>.<name>" mangling is applied to them.
func (p *Parser) parseModule() ast.Stmt {
	tok := p.cur
	p.advance() // 'module'
	name := p.expect(token.Ident, "as a module name")
	m := ast.ModuleStmt{Name: name.Lexeme, SrcRange: ast.SrcRange{Start: tok.Offset}}
	if p.match(token.Star) {
		m.ExportAll = true
	}

	closeKind := token.RBrace
	if p.check(token.LParen) {
		closeKind = token.RParen
		p.advance()
	} else {
		p.expect(token.LBrace, "to start module body")
	}

	outerModule := p.currentModule
	if p.currentModule == "" {
		p.currentModule = name.Lexeme
	} else {
		p.currentModule = p.currentModule + "." + name.Lexeme
	}
	var stmts []ast.Stmt
	for !p.check(closeKind) && !p.check(token.EOF) && !p.aborted {
		s := p.parseStatement()
		if s != nil {
			stmts = append(stmts, s)
		}
	}
	p.currentModule = outerModule
	p.expect(closeKind, "to close module body")
	m.SrcRange.End = endOffset(p.prev)
	m.Body = p.arena.NewBlock(tok, stmts)
	return p.arena.NewModule(tok, m)
}

func (p *Parser) parseExport() ast.Stmt {
	tok := p.cur
	p.advance() // 'export'
	var names []string
	for {
		name := p.expect(token.Ident, "as an exported name")
		names = append(names, name.Lexeme)
		if !p.match(token.Comma) {
			break
		}
	}
	p.consumeStmtEnd()
	return p.arena.NewExport(tok, names)
}

// compoundAssignOp maps a compound-assignment token to the binary
// operator its desugared RHS uses (spec §4.2.2).
var compoundAssignOp = map[token.Kind]token.Kind{
	token.PlusEq:    token.Plus,
	token.MinusEq:   token.Minus,
	token.StarEq:    token.Star,
	token.SlashEq:   token.Slash,
	token.PercentEq: token.Percent,
}

// parseSimpleStatement covers plain assignment, compound assignment,
// index-assignment (rewritten to a set_idx call), macro statements, label
// statements, and bare expression statements (spec §4.2.2).
func (p *Parser) parseSimpleStatement() ast.Stmt {
	tok := p.cur

	if p.check(token.Ident) {
		savedLex, savedCur, savedPrev := p.snapshotLexer()
		name := p.cur
		p.advance()
		if p.check(token.Colon) {
			p.advance()
			p.consumeStmtEnd()
			return p.arena.NewLabel(tok, name.Lexeme)
		}
		if p.check(token.LBrace) {
			body := p.parseBlock()
			return p.arena.NewMacro(tok, ast.MacroStmt{Name: name.Lexeme, Body: body})
		}
		if p.check(token.LParen) {
			argSnapLex, argSnapCur, argSnapPrev := p.snapshotLexer()
			args := p.parseArgs()
			if p.check(token.LBrace) {
				body := p.parseBlock()
				return p.arena.NewMacro(tok, ast.MacroStmt{Name: name.Lexeme, Args: argsToExprs(args), Body: body})
			}
			p.restoreLexer(argSnapLex, argSnapCur, argSnapPrev)
		}
		p.restoreLexer(savedLex, savedCur, savedPrev)
	}

	expr := p.parseExpr()

	if p.check(token.Assign) {
		p.advance()
		rhs := p.parseExpr()
		p.consumeStmtEnd()
		return p.assignmentStmt(tok, expr, rhs)
	}
	if op, ok := compoundAssignOp[p.cur.Kind]; ok {
		p.advance()
		rhs := p.parseExpr()
		binTok := tok
		desugared := p.arena.NewBinary(binTok, op, expr, rhs)
		p.consumeStmtEnd()
		return p.assignmentStmt(tok, expr, desugared)
	}

	p.consumeStmtEnd()
	return p.arena.NewExprStmt(tok, expr)
}

// assignmentStmt builds the statement for "target = value", rewriting
// index targets to a set_idx(...) call expression (spec §4.2.2).
func (p *Parser) assignmentStmt(tok token.Token, target, value ast.Expr) ast.Stmt {
	if idx, ok := target.(*ast.IndexExpr); ok {
		args := []ast.CallArg{{Value: idx.Target}, {Value: idx.Start}, {Value: value}}
		call := p.arena.NewCall(tok, p.arena.NewIdent(tok, "set_idx"), args)
		return p.arena.NewExprStmt(tok, call)
	}
	if ident, ok := target.(*ast.IdentExpr); ok {
		return p.arena.NewVar(tok, ast.VarStmt{
			Names: []string{ident.Name},
			Types: []string{""},
			Exprs: []ast.Expr{value},
		})
	}
	p.errorf(tok, "invalid assignment target")
	return p.arena.NewExprStmt(tok, value)
}
