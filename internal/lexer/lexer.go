// Package lexer turns a Nytrix source buffer into a token stream.
//
// The state-machine shape (an explicit integer state advanced one rune at
// a time, with start/end offsets captured into the original buffer) is
// carried over from the teacher's scheme reader (scm/parser.go's
// tokenize), generalized here to emit typed tokens with source locations,
// suffix-typed numeric literals, and interpolated strings instead of a
// flat list of Scmer atoms.
package lexer

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/nytrix-lang/nytrix/internal/token"
)

// Lexer is restartable by re-initialization and single-pass otherwise
// (spec §4.1).
type Lexer struct {
	source   string // normalized source buffer (NFC, spec §2 ambient stack)
	filename string
	pos      int
	line     int
	col      int
	peeked   *token.Token
}

// New creates a Lexer over src, attributed to filename in diagnostics.
// The buffer is NFC-normalized so identifier and string comparisons are
// Unicode-stable (see SPEC_FULL.md domain stack: golang.org/x/text).
func New(filename, src string) *Lexer {
	return &Lexer{
		source:   norm.NFC.String(src),
		filename: filename,
		pos:      0,
		line:     1,
		col:      1,
	}
}

func (l *Lexer) errorTok(msg string) token.Token {
	return token.Token{Kind: token.EOF, Lexeme: "", Line: l.line, Column: l.col, Filename: l.filename}
}

func (l *Lexer) peekByte() byte {
	if l.pos >= len(l.source) {
		return 0
	}
	return l.source[l.pos]
}

func (l *Lexer) peekByteAt(off int) byte {
	if l.pos+off >= len(l.source) {
		return 0
	}
	return l.source[l.pos+off]
}

func (l *Lexer) advance() byte {
	c := l.source[l.pos]
	l.pos++
	if c == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return c
}

func isIdentStart(c byte) bool {
	return c == '_' || unicode.IsLetter(rune(c)) || c >= 0x80
}

func isIdentBody(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// skipSpaceAndComments consumes whitespace and ';' / '#' line comments
// (spec §4.1 / §6).
func (l *Lexer) skipSpaceAndComments() {
	for l.pos < len(l.source) {
		c := l.peekByte()
		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			l.advance()
		case c == ';' || c == '#':
			for l.pos < len(l.source) && l.peekByte() != '\n' {
				l.advance()
			}
		default:
			return
		}
	}
}

// Next returns the next token. EOF produces a sentinel EOF token
// indefinitely (spec §4.1).
func (l *Lexer) Next() token.Token {
	if l.peeked != nil {
		t := *l.peeked
		l.peeked = nil
		return t
	}
	return l.scan()
}

// Peek returns the next token without consuming it.
func (l *Lexer) Peek() token.Token {
	if l.peeked == nil {
		t := l.scan()
		l.peeked = &t
	}
	return *l.peeked
}

func (l *Lexer) scan() token.Token {
	l.skipSpaceAndComments()
	if l.pos >= len(l.source) {
		return token.Token{Kind: token.EOF, Line: l.line, Column: l.col, Filename: l.filename, Offset: l.pos}
	}

	startLine, startCol, startOffset := l.line, l.col, l.pos
	c := l.peekByte()

	var t token.Token
	switch {
	case isIdentStart(c):
		t = l.scanIdentOrKeyword(startLine, startCol)
	case isDigit(c):
		t = l.scanNumber(startLine, startCol)
	case c == '"' || c == '\'':
		t = l.scanString(startLine, startCol, c, false)
	case (c == 'f' || c == 'F') && (l.peekByteAt(1) == '"' || l.peekByteAt(1) == '\''):
		l.advance() // consume 'f'
		quote := l.peekByte()
		t = l.scanString(startLine, startCol, quote, true)
	default:
		t = l.scanOperator(startLine, startCol)
	}
	t.Offset = startOffset
	return t
}

func (l *Lexer) scanIdentOrKeyword(line, col int) token.Token {
	start := l.pos
	l.advance()
	for l.pos < len(l.source) {
		c := l.peekByte()
		if isIdentBody(c) {
			l.advance()
			continue
		}
		// trailing '?' is part of the identifier (spec §4.1)
		if c == '?' {
			l.advance()
			break
		}
		// trailing '!' is part of the identifier unless followed by '='
		if c == '!' && l.peekByteAt(1) != '=' {
			l.advance()
			break
		}
		// embedded '-' before a letter: kebab identifier (spec §4.1, §9 open question)
		if c == '-' && isIdentStart(l.peekByteAt(1)) {
			l.advance()
			continue
		}
		break
	}
	lex := l.source[start:l.pos]
	if kw, ok := token.Keywords[lex]; ok {
		return token.Token{Kind: kw, Lexeme: lex, Line: line, Column: col, Filename: l.filename}
	}
	return token.Token{Kind: token.Ident, Lexeme: lex, Line: line, Column: col, Filename: l.filename}
}

func (l *Lexer) scanNumber(line, col int) token.Token {
	start := l.pos
	isFloat := false
	isHex := false
	if l.peekByte() == '0' && (l.peekByteAt(1) == 'x' || l.peekByteAt(1) == 'X') {
		isHex = true
		l.advance()
		l.advance()
		for l.pos < len(l.source) && isHexDigit(l.peekByte()) {
			l.advance()
		}
	} else {
		for l.pos < len(l.source) && isDigit(l.peekByte()) {
			l.advance()
		}
		if l.peekByte() == '.' && isDigit(l.peekByteAt(1)) {
			isFloat = true
			l.advance()
			for l.pos < len(l.source) && isDigit(l.peekByte()) {
				l.advance()
			}
		}
	}
	digits := l.source[start:l.pos]

	// optional case-insensitive suffix (spec §4.1, §6)
	suffixStart := l.pos
	for l.pos < len(l.source) && isIdentBody(l.peekByte()) {
		l.advance()
	}
	suffix := l.source[suffixStart:l.pos]

	hint := token.HintNone
	explicit := false
	if suffix != "" {
		lower := strings.ToLower(suffix)
		if h, ok := token.TypeHints[lower]; ok {
			hint = h
			explicit = true
			if isHex && !h.IsIntHint() {
				// hex literals accept only integer suffixes (spec §6); the
				// parser reports a float suffix on an integer literal when
				// it converts the literal.
			}
			if isFloat && h.IsIntHint() {
				// integer suffix on a dotted literal is an error, deferred
				// to the parser which has diagnostic machinery.
			}
		} else {
			// not a recognized suffix: treat as end of literal, rewind
			l.pos = suffixStart
			l.line, l.col = line, col // best effort; callers rarely hit this path
			suffix = ""
		}
	}

	lexeme := digits + suffix
	kind := token.Int
	if isFloat || (!explicit && false) {
		kind = token.Float
	}
	if explicit && hint.IsFloatHint() {
		kind = token.Float
	}
	if !explicit {
		if isFloat {
			kind = token.Float
			hint = token.HintF64
		} else {
			kind = token.Int
			hint = token.HintNone
		}
	}
	return token.Token{Kind: kind, Lexeme: lexeme, Line: line, Column: col, Filename: l.filename, Hint: hint, HintExplicit: explicit}
}

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// scanString handles '…', "…", their triple-quoted variants, and (when
// interp is true) f"…"/f'…' interpolated strings (spec §4.1).
func (l *Lexer) scanString(line, col int, quote byte, interp bool) token.Token {
	triple := l.peekByteAt(1) == quote && l.peekByteAt(2) == quote
	l.advance() // opening quote
	if triple {
		l.advance()
		l.advance()
	}

	var sb strings.Builder
	var parts []token.FStringPart
	litStart := &strings.Builder{}

	flushLit := func() {
		if interp {
			parts = append(parts, token.FStringPart{Literal: litStart.String(), IsExpr: false})
			litStart.Reset()
		}
	}

	closed := false
	for l.pos < len(l.source) {
		c := l.peekByte()
		if c == quote {
			if triple {
				if l.peekByteAt(1) == quote && l.peekByteAt(2) == quote {
					l.advance()
					l.advance()
					l.advance()
					closed = true
					break
				}
				sb.WriteByte(c)
				litStart.WriteByte(c)
				l.advance()
				continue
			}
			l.advance()
			closed = true
			break
		}
		if c == '\\' {
			l.advance()
			esc := l.scanEscape()
			sb.WriteString(esc)
			litStart.WriteString(esc)
			continue
		}
		if interp && c == '{' {
			flushLit()
			l.advance()
			exprStart := l.pos
			depth := 1
			eline, ecol := l.line, l.col
			for l.pos < len(l.source) && depth > 0 {
				cc := l.peekByte()
				if cc == '{' {
					depth++
				} else if cc == '}' {
					depth--
					if depth == 0 {
						break
					}
				}
				l.advance()
			}
			exprSrc := l.source[exprStart:l.pos]
			if l.pos < len(l.source) {
				l.advance() // closing '}'
			}
			parts = append(parts, token.FStringPart{Source: exprSrc, IsExpr: true, Line: eline, Column: ecol})
			continue
		}
		sb.WriteByte(c)
		litStart.WriteByte(c)
		l.advance()
	}
	if !closed {
		// unterminated string: emit best-effort token, diagnostic raised by parser
	}
	if interp {
		flushLit()
		return token.Token{Kind: token.FString, Lexeme: sb.String(), Line: line, Column: col, Filename: l.filename, Parts: parts}
	}
	return token.Token{Kind: token.Str, Lexeme: sb.String(), Line: line, Column: col, Filename: l.filename}
}

// scanEscape handles \n \t \r \\ \' \" \xHH \ooo (1-3 octal digits), spec §4.1.
func (l *Lexer) scanEscape() string {
	if l.pos >= len(l.source) {
		return ""
	}
	c := l.advance()
	switch c {
	case 'n':
		return "\n"
	case 't':
		return "\t"
	case 'r':
		return "\r"
	case '\\':
		return "\\"
	case '\'':
		return "'"
	case '"':
		return "\""
	case 'x':
		start := l.pos
		for i := 0; i < 2 && l.pos < len(l.source) && isHexDigit(l.peekByte()); i++ {
			l.advance()
		}
		hex := l.source[start:l.pos]
		var v int64
		fmt.Sscanf(hex, "%x", &v)
		return string(rune(v))
	default:
		if c >= '0' && c <= '7' {
			digits := string(c)
			for i := 0; i < 2 && l.pos < len(l.source) && l.peekByte() >= '0' && l.peekByte() <= '7'; i++ {
				digits += string(l.advance())
			}
			var v int64
			fmt.Sscanf(digits, "%o", &v)
			return string(rune(v))
		}
		return string(c)
	}
}

// longest-match operator table, ordered longest-first (spec §4.1).
var multiCharOps = []struct {
	lex  string
	kind token.Kind
}{
	{"...", token.DotDotDot},
	{"->", token.Arrow},
	{"==", token.Eq},
	{"!=", token.NotEq},
	{"<=", token.LtEq},
	{">=", token.GtEq},
	{"+=", token.PlusEq},
	{"-=", token.MinusEq},
	{"*=", token.StarEq},
	{"/=", token.SlashEq},
	{"%=", token.PercentEq},
	{"<<", token.Shl},
	{">>", token.Shr},
	{"&&", token.AndAnd},
	{"||", token.OrOr},
}

var singleCharOps = map[byte]token.Kind{
	'(': token.LParen, ')': token.RParen,
	'{': token.LBrace, '}': token.RBrace,
	'[': token.LBracket, ']': token.RBracket,
	',': token.Comma, ':': token.Colon, ';': token.Semicolon,
	'.': token.Dot, '?': token.Question, '@': token.At,
	'+': token.Plus, '-': token.Minus, '*': token.Star, '/': token.Slash, '%': token.Percent,
	'&': token.Amp, '|': token.Pipe, '^': token.Caret, '~': token.Tilde, '!': token.Bang,
	'=': token.Assign, '<': token.Lt, '>': token.Gt,
}

func (l *Lexer) scanOperator(line, col int) token.Token {
	rest := l.source[l.pos:]
	for _, op := range multiCharOps {
		if strings.HasPrefix(rest, op.lex) {
			for range op.lex {
				l.advance()
			}
			return token.Token{Kind: op.kind, Lexeme: op.lex, Line: line, Column: col, Filename: l.filename}
		}
	}
	c := l.advance()
	if kind, ok := singleCharOps[c]; ok {
		return token.Token{Kind: kind, Lexeme: string(c), Line: line, Column: col, Filename: l.filename}
	}
	// unknown character: returned as an EOF-kind token whose Lexeme is the
	// character, so the parse stops there and ParseProgram reports
	// "unexpected character" without the lexer needing its own diagnostic
	// sink.
	r, _ := utf8.DecodeRuneInString(string(c))
	return token.Token{Kind: token.EOF, Lexeme: string(r), Line: line, Column: col, Filename: l.filename}
}

// Filename returns the source name tokens are attributed to.
func (l *Lexer) Filename() string { return l.filename }

// State is an opaque snapshot of the lexer's read position, used by the
// parser to backtrack over small bounded lookaheads (e.g. keyword-argument
// "name = value" detection, sizeof's type-or-expression disambiguation).
type State struct {
	pos    int
	line   int
	col    int
	peeked *token.Token
}

// Snapshot captures the lexer's current position.
func (l *Lexer) Snapshot() State {
	var peeked *token.Token
	if l.peeked != nil {
		t := *l.peeked
		peeked = &t
	}
	return State{pos: l.pos, line: l.line, col: l.col, peeked: peeked}
}

// Restore rewinds the lexer to a previously captured Snapshot.
func (l *Lexer) Restore(s State) {
	l.pos, l.line, l.col = s.pos, s.line, s.col
	l.peeked = s.peeked
}

// RemainingLineHasTopLevelColon scans from the current read position to
// the next newline or ';' and reports whether a ':' appears outside any
// bracket nesting. The parser uses this to disambiguate the ternary
// operator from the postfix '?' (Try) operator at a '?' token (spec
// §4.2.1, §9 open question: "exactly what counts as a line terminator
// in that scan is ambiguous" — this implementation treats '\n' and ';'
// as terminators, matching the loader's statement-synchronization
// boundary, see internal/parser's error recovery).
func (l *Lexer) RemainingLineHasTopLevelColon() bool {
	depth := 0
	for i := l.pos; i < len(l.source); i++ {
		c := l.source[i]
		switch c {
		case '\n', ';':
			return false
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			if depth == 0 {
				return false
			}
			depth--
		case ':':
			if depth == 0 {
				return true
			}
		case '"', '\'':
			// skip string literal contents
			quote := c
			i++
			for i < len(l.source) && l.source[i] != quote {
				if l.source[i] == '\\' {
					i++
				}
				i++
			}
		}
	}
	return false
}
