package parser

import (
	"strconv"
	"strings"

	"github.com/nytrix-lang/nytrix/internal/ast"
	"github.com/nytrix-lang/nytrix/internal/token"
)

// precedence levels, low to high (spec §4.2.1).
func precedenceOf(k token.Kind) (int, bool) {
	switch k {
	case token.OrOr:
		return 1, true
	case token.AndAnd:
		return 2, true
	case token.Eq, token.NotEq:
		return 3, true
	case token.Lt, token.Gt, token.LtEq, token.GtEq:
		return 4, true
	case token.Plus, token.Minus:
		return 5, true
	case token.Star, token.Slash, token.Percent:
		return 6, true
	case token.Pipe, token.Amp, token.Caret, token.Shl, token.Shr:
		return 7, true
	default:
		return 0, false
	}
}

func isLogicalOp(k token.Kind) bool { return k == token.AndAnd || k == token.OrOr }

// parseExpr is the entry point: ternary sits below '||' (spec §4.2.1).
func (p *Parser) parseExpr() ast.Expr {
	lhs := p.parseBinary(1)
	return p.finishTernary(lhs)
}

// finishTernary completes lhs into a TernaryExpr if a genuine ternary '?'
// follows (the postfix chain already ruled out Try for this '?').
func (p *Parser) finishTernary(lhs ast.Expr) ast.Expr {
	if p.check(token.Question) {
		tok := p.cur
		p.advance()
		then := p.parseExpr()
		p.expect(token.Colon, "in ternary expression")
		els := p.parseExpr()
		return p.arena.NewTernary(tok, lhs, then, els)
	}
	return lhs
}

func (p *Parser) parseBinary(minPrec int) ast.Expr {
	lhs := p.parseUnary()
	return p.parseBinaryFrom(lhs, minPrec)
}

func (p *Parser) parseBinaryFrom(lhs ast.Expr, minPrec int) ast.Expr {
	for {
		prec, ok := precedenceOf(p.cur.Kind)
		if !ok || prec < minPrec {
			break
		}
		op := p.cur.Kind
		tok := p.cur
		p.advance()
		rhs := p.parseUnary()
		for {
			nextPrec, ok2 := precedenceOf(p.cur.Kind)
			if !ok2 || nextPrec <= prec {
				break
			}
			rhs = p.parseBinaryFrom(rhs, prec+1)
		}
		if isLogicalOp(op) {
			lhs = p.arena.NewLogical(tok, op, lhs, rhs)
		} else {
			lhs = p.arena.NewBinary(tok, op, lhs, rhs)
		}
	}
	return lhs
}

// parseUnary handles right-associative -, !, ~, binding tighter than
// level 7 (spec §4.2.1).
func (p *Parser) parseUnary() ast.Expr {
	if p.check(token.Minus) || p.check(token.Bang) || p.check(token.Tilde) {
		tok := p.cur
		op := p.cur.Kind
		p.advance()
		operand := p.parseUnary()
		return p.arena.NewUnary(tok, op, operand)
	}
	return p.parsePostfix(p.parsePrimary())
}

// parsePostfixFrom re-enters the postfix chain on an already-constructed
// base expression (used when the leading-doc-string heuristic in
// ParseProgram must reinterpret a literal as an expression statement).
func (p *Parser) parsePostfixFrom(base ast.Expr) ast.Expr { return p.parsePostfix(base) }

func (p *Parser) parsePostfix(base ast.Expr) ast.Expr {
	for {
		switch {
		case p.check(token.Dot):
			tok := p.cur
			p.advance()
			name := p.expect(token.Ident, "after '.'")
			if p.check(token.LParen) {
				args := p.parseArgs()
				base = p.arena.NewMemberCall(tok, base, name.Lexeme, args)
			} else {
				base = p.arena.NewMember(tok, base, name.Lexeme)
			}
		case p.check(token.LBracket):
			base = p.parseIndexOrSlice(base)
		case p.check(token.LParen):
			tok := p.cur
			args := p.parseArgs()
			base = p.arena.NewCall(tok, base, args)
		case p.check(token.Question):
			// ternary/Try disambiguation (spec §4.2.1, §9).
			if p.lex.RemainingLineHasTopLevelColon() {
				return base // leave '?' for the ternary parser
			}
			tok := p.cur
			p.advance()
			base = p.arena.NewTry(tok, base)
		default:
			return base
		}
	}
}

func (p *Parser) parseArgs() []ast.CallArg {
	p.expect(token.LParen, "to start call arguments")
	var args []ast.CallArg
	for !p.check(token.RParen) && !p.check(token.EOF) {
		if len(args) > 0 {
			p.expect(token.Comma, "between call arguments")
		}
		if p.check(token.Ident) {
			// lookahead for "name = value" keyword argument form
			savedLex, savedCur, savedPrev := p.snapshotLexer()
			nameTok := p.cur
			p.advance()
			if p.check(token.Assign) {
				p.advance()
				val := p.parseExpr()
				args = append(args, ast.CallArg{Name: nameTok.Lexeme, Value: val})
				continue
			}
			p.restoreLexer(savedLex, savedCur, savedPrev)
		}
		val := p.parseExpr()
		args = append(args, ast.CallArg{Value: val})
	}
	p.expect(token.RParen, "to close call arguments")
	return args
}

func (p *Parser) parseIndexOrSlice(target ast.Expr) ast.Expr {
	tok := p.cur
	p.advance() // consume '['
	var start, stop, step ast.Expr
	isSlice := false

	if !p.check(token.Colon) && !p.check(token.RBracket) {
		start = p.parseExpr()
	}
	if p.check(token.Colon) {
		isSlice = true
		p.advance()
		if !p.check(token.Colon) && !p.check(token.RBracket) {
			stop = p.parseExpr()
		}
		if p.check(token.Colon) {
			p.advance()
			if !p.check(token.RBracket) {
				step = p.parseExpr()
			}
		}
	}
	p.expect(token.RBracket, "to close index/slice")
	return p.arena.NewIndex(tok, target, start, stop, step, isSlice)
}

func (p *Parser) parsePrimary() ast.Expr {
	tok := p.cur
	switch tok.Kind {
	case token.Ident:
		p.advance()
		return p.arena.NewIdent(tok, tok.Lexeme)
	case token.KwNil, token.KwTrue, token.KwFalse:
		p.advance()
		lit := p.arena.NewLiteral(tok)
		lit.Kind = ast.LitBool
		lit.BoolValue = tok.Kind == token.KwTrue
		return lit
	case token.Int:
		p.advance()
		return p.parseIntLiteral(tok)
	case token.Float:
		p.advance()
		return p.parseFloatLiteral(tok)
	case token.Str:
		p.advance()
		lit := p.arena.NewLiteral(tok)
		lit.Kind = ast.LitString
		lit.StringValue = p.arena.Intern(tok.Lexeme)
		return lit
	case token.FString:
		p.advance()
		return p.parseFString(tok)
	case token.Dot:
		p.advance()
		name := p.expect(token.Ident, "after '.' in inferred member")
		return p.arena.NewInferredMember(tok, name.Lexeme)
	case token.LParen:
		return p.parseParenOrTuple()
	case token.LBracket:
		return p.parseListLiteral()
	case token.LBrace:
		return p.parseSetOrDict()
	case token.KwLambda:
		return p.parseLambda()
	case token.KwFn:
		return p.parseFnExpr()
	case token.KwMatch:
		return p.parseMatchExpr()
	case token.KwAsm:
		return p.parseAsm()
	case token.KwEmbed:
		return p.parseEmbed()
	case token.KwSizeof:
		return p.parseSizeof()
	case token.KwComptime:
		p.advance()
		block := p.parseBlock()
		return p.arena.NewComptime(tok, block)
	default:
		p.errorf(tok, "unexpected %s in expression", describeTok(tok))
		p.advance()
		lit := p.arena.NewLiteral(tok)
		lit.Kind = ast.LitInt
		return lit
	}
}

func (p *Parser) parseIntLiteral(tok token.Token) ast.Expr {
	digits := tok.Lexeme
	hint := tok.Hint
	explicit := tok.HintExplicit
	isHex := strings.HasPrefix(digits, "0x") || strings.HasPrefix(digits, "0X")

	if explicit && hint.IsFloatHint() {
		p.errorf(tok, "integer suffix required for hex/integer literal, got float suffix")
	}
	suffixLen := 0
	for k, h := range token.TypeHints {
		if h == hint && explicit && strings.HasSuffix(strings.ToLower(digits), k) {
			suffixLen = len(k)
		}
	}
	numPart := digits[:len(digits)-suffixLen]

	lit := p.arena.NewLiteral(tok)
	lit.Kind = ast.LitInt
	lit.Hint = hint
	lit.HintExplicit = explicit
	var v int64
	if isHex {
		parsed, err := strconv.ParseUint(numPart[2:], 16, 64)
		if err != nil {
			p.errorf(tok, "invalid hex literal '%s'", digits)
		}
		v = int64(parsed)
	} else {
		parsed, err := strconv.ParseUint(numPart, 10, 64)
		if err != nil {
			p.errorf(tok, "invalid integer literal '%s'", digits)
		}
		v = int64(parsed)
		if parsed > 1<<63-1 && !explicit {
			// silently reinterpreted as u64 per spec §9 open question
			lit.Hint = token.HintU64
		}
	}
	lit.IntValue = v
	return lit
}

func (p *Parser) parseFloatLiteral(tok token.Token) ast.Expr {
	digits := tok.Lexeme
	hint := tok.Hint
	explicit := tok.HintExplicit
	if explicit && hint.IsIntHint() {
		p.errorf(tok, "integer suffix on a dotted (float) literal is an error")
	}
	suffixLen := 0
	for k, h := range token.TypeHints {
		if h == hint && explicit && strings.HasSuffix(strings.ToLower(digits), k) {
			suffixLen = len(k)
		}
	}
	numPart := digits[:len(digits)-suffixLen]
	v, err := strconv.ParseFloat(numPart, 64)
	if err != nil {
		p.errorf(tok, "invalid float literal '%s'", digits)
	}
	lit := p.arena.NewLiteral(tok)
	lit.Kind = ast.LitFloat
	lit.FloatValue = v
	lit.Hint = hint
	lit.HintExplicit = explicit
	if !explicit {
		lit.Hint = token.HintF64
	}
	return lit
}

func (p *Parser) parseFString(tok token.Token) ast.Expr {
	parts := make([]ast.FStringPart, 0, len(tok.Parts))
	for _, part := range tok.Parts {
		if !part.IsExpr {
			parts = append(parts, ast.FStringPart{Literal: p.arena.Intern(part.Literal), IsExpr: false})
			continue
		}
		sub := New(tok.Filename, part.Source)
		expr := sub.parseExpr()
		for _, d := range sub.Diagnostics() {
			d.Line += part.Line - 1
			p.diags = append(p.diags, d)
		}
		parts = append(parts, ast.FStringPart{Expr: expr, IsExpr: true})
	}
	return p.arena.NewFString(tok, parts)
}

// parseParenOrTuple handles (expr), (a, b, c) tuples, and arg-name
// lookahead is not needed here because tuples never use '='.
func (p *Parser) parseParenOrTuple() ast.Expr {
	tok := p.cur
	p.advance() // consume '('
	if p.check(token.RParen) {
		p.advance()
		return p.arena.NewList(tok, ast.ListTuple, nil)
	}
	first := p.parseExpr()
	if !p.check(token.Comma) {
		p.expect(token.RParen, "to close parenthesized expression")
		return first
	}
	elems := []ast.Expr{first}
	for p.match(token.Comma) {
		if p.check(token.RParen) {
			break
		}
		elems = append(elems, p.parseExpr())
	}
	p.expect(token.RParen, "to close tuple")
	return p.arena.NewList(tok, ast.ListTuple, elems)
}

func (p *Parser) parseListLiteral() ast.Expr {
	tok := p.cur
	p.advance() // consume '['
	var elems []ast.Expr
	for !p.check(token.RBracket) && !p.check(token.EOF) {
		if len(elems) > 0 {
			p.expect(token.Comma, "between list elements")
		}
		elems = append(elems, p.parseExpr())
	}
	p.expect(token.RBracket, "to close list literal")
	return p.arena.NewList(tok, ast.ListList, elems)
}

// parseSetOrDict distinguishes {a, b} (set) from {a: 1, b: 2} (dict) by
// whether the first element is followed by ':' (spec §4.2.1).
func (p *Parser) parseSetOrDict() ast.Expr {
	tok := p.cur
	p.advance() // consume '{'
	if p.check(token.RBrace) {
		p.advance()
		return p.arena.NewList(tok, ast.ListSet, nil)
	}
	first := p.parseExpr()
	if p.check(token.Colon) {
		p.advance()
		firstVal := p.parseExpr()
		pairs := []ast.DictPair{{Key: first, Value: firstVal}}
		for p.match(token.Comma) {
			if p.check(token.RBrace) {
				break
			}
			k := p.parseExpr()
			p.expect(token.Colon, "between dict key and value")
			v := p.parseExpr()
			pairs = append(pairs, ast.DictPair{Key: k, Value: v})
		}
		p.expect(token.RBrace, "to close dict literal")
		return p.arena.NewDict(tok, pairs)
	}
	elems := []ast.Expr{first}
	for p.match(token.Comma) {
		if p.check(token.RBrace) {
			break
		}
		elems = append(elems, p.parseExpr())
	}
	p.expect(token.RBrace, "to close set literal")
	return p.arena.NewList(tok, ast.ListSet, elems)
}

func (p *Parser) parseParamList() ([]ast.Param, bool) {
	p.expect(token.LParen, "to start parameter list")
	var params []ast.Param
	variadic := false
	for !p.check(token.RParen) && !p.check(token.EOF) {
		if len(params) > 0 {
			p.expect(token.Comma, "between parameters")
		}
		if p.match(token.DotDotDot) {
			variadic = true
			if p.check(token.Ident) {
				name := p.cur
				p.advance()
				params = append(params, ast.Param{Name: name.Lexeme})
			}
			break
		}
		name := p.expect(token.Ident, "in parameter list")
		typ := ""
		if p.match(token.Colon) {
			typ = p.parseTypeName()
		}
		params = append(params, ast.Param{Name: name.Lexeme, Type: typ})
	}
	p.expect(token.RParen, "to close parameter list")
	return params, variadic
}

// parseTypeName parses a (possibly dotted) type annotation as raw text.
func (p *Parser) parseTypeName() string {
	name := p.expect(token.Ident, "as a type name")
	text := name.Lexeme
	for p.check(token.Dot) {
		p.advance()
		part := p.expect(token.Ident, "in dotted type name")
		text += "." + part.Lexeme
	}
	return p.arena.Intern(text)
}

func (p *Parser) parseLambda() ast.Expr {
	tok := p.cur
	p.advance() // consume 'lambda'
	params, variadic := p.parseParamList()
	retType := ""
	if p.match(token.Colon) {
		retType = p.parseTypeName()
	}
	if p.check(token.LBrace) {
		body := p.parseBlock()
		return p.arena.NewLambda(tok, params, retType, body, variadic)
	}
	// single-expression lambda body, wrapped as an implicit return block
	p.expect(token.Arrow, "before single-expression lambda body")
	exprBody := p.parseExpr()
	ret := p.arena.NewReturn(exprBody.Pos(), exprBody)
	block := p.arena.NewBlock(exprBody.Pos(), []ast.Stmt{ret})
	return p.arena.NewLambda(tok, params, retType, block, variadic)
}

func (p *Parser) parseFnExpr() ast.Expr {
	tok := p.cur
	p.advance() // consume 'fn'
	name := ""
	if p.check(token.Ident) {
		name = p.cur.Lexeme
		p.advance()
	}
	params, variadic := p.parseParamList()
	retType := ""
	if p.match(token.Colon) {
		retType = p.parseTypeName()
	}
	body := p.parseBlock()
	return p.arena.NewFn(tok, name, params, retType, body, variadic)
}

func (p *Parser) parseMatchExpr() ast.Expr {
	tok := p.cur
	p.advance() // consume 'match'
	test := p.parseExpr()
	p.expect(token.LBrace, "to start match arms")
	var arms []ast.MatchArm
	var def ast.Expr
	for !p.check(token.RBrace) && !p.check(token.EOF) {
		if p.check(token.KwElse) {
			p.advance()
			p.expect(token.Arrow, "after 'else' in match expression")
			def = p.parseExpr()
			p.match(token.Comma)
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
		consequent := p.parseExpr()
		arms = append(arms, ast.MatchArm{Patterns: patterns, Consequent: consequent})
		p.match(token.Comma)
	}
	p.expect(token.RBrace, "to close match expression")
	return p.arena.NewMatchExpr(tok, test, arms, def)
}

func (p *Parser) parseAsm() ast.Expr {
	tok := p.cur
	p.advance() // consume 'asm'
	p.expect(token.LParen, "after 'asm'")
	code := p.expect(token.Str, "as asm code")
	var constraints []string
	var args []ast.Expr
	for p.match(token.Comma) {
		if p.check(token.RParen) {
			break
		}
		if p.check(token.Str) {
			constraints = append(constraints, p.cur.Lexeme)
			p.advance()
		} else {
			args = append(args, p.parseExpr())
		}
	}
	p.expect(token.RParen, "to close asm(...)")
	return p.arena.NewAsm(tok, code.Lexeme, constraints, args)
}

func (p *Parser) parseEmbed() ast.Expr {
	tok := p.cur
	p.advance() // consume 'embed'
	p.expect(token.LParen, "after 'embed'")
	path := p.expect(token.Str, "as embed path")
	p.expect(token.RParen, "to close embed(...)")
	return p.arena.NewEmbed(tok, path.Lexeme)
}

func (p *Parser) parseSizeof() ast.Expr {
	tok := p.cur
	p.advance() // consume 'sizeof'
	p.expect(token.LParen, "after 'sizeof'")
	// A bare identifier immediately followed by ')' is treated as a type
	// name; anything else parses as an expression.
	if p.check(token.Ident) {
		savedLex, savedCur, savedPrev := p.snapshotLexer()
		name := p.cur
		p.advance()
		if p.check(token.RParen) {
			p.advance()
			return p.arena.NewSizeof(tok, name.Lexeme, nil)
		}
		p.restoreLexer(savedLex, savedCur, savedPrev)
	}
	operand := p.parseExpr()
	p.expect(token.RParen, "to close sizeof(...)")
	return p.arena.NewSizeof(tok, "", operand)
}
