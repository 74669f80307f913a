package parser

import "fmt"

// Diagnostic is a structured parser/lexer error (spec §4.2.3, §7).
type Diagnostic struct {
	Filename string
	Line     int
	Column   int
	Message  string
	Hint     string // optional actionable hint, empty if none
}

func (d Diagnostic) String() string {
	s := fmt.Sprintf("%s:%d:%d: %s", d.Filename, d.Line, d.Column, d.Message)
	if d.Hint != "" {
		s += "\n  hint: " + d.Hint
	}
	return s
}

// dedupKey produces the content hash used to suppress duplicate
// diagnostics (same location + message), per spec §4.2.3 / §7. The
// received token is not a separate part of the key; an "expected X, got
// Y" message already names it.
func (d Diagnostic) dedupKey() string {
	return fmt.Sprintf("%s:%d:%d:%s", d.Filename, d.Line, d.Column, d.Message)
}

// hintTable converts common cross-language mistakes into actionable
// hints (spec §4.2.3). Grounded in the teacher's plain "panic(message)"
// diagnostics (scm/parser.go), generalized into a curated lookup instead
// of a single panic string.
var hintTable = map[string]string{
	"func":     "did you mean 'fn'?",
	"function": "did you mean 'fn'?",
	"let":      "use 'mut' for mutable variables, or 'def' for immutable ones",
	"var":      "use 'mut' for mutable variables, or 'def' for immutable ones",
	"import":   "did you mean 'use'?",
	"null":     "did you mean 'nil'?",
	"None":     "did you mean 'nil'?",
}

func lookupHint(lexeme string) string {
	return hintTable[lexeme]
}
