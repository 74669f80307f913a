// Package docscan parses the small structured-comment grammar stdlib
// doc comments use — a summary line followed by `@param name desc` and
// `@returns desc` lines — into repldoc.Topic entries (spec §1's "REPL
// documentation browser... peripheral UX", supplemented from
// FuncStmt.Doc / a module's leading doc string). Grounded on
// participle's struct-tag grammar style, the same technique
// gaarutyunov-guix's pkg/parser uses to turn a lexer + tagged AST types
// into a working parser, generalized here from a full language grammar
// to one small doc-comment format.
package docscan

import (
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/nytrix-lang/nytrix/internal/repldoc"
)

// Doc is the parsed shape of one doc comment: a single summary line
// (peripheral UX, so a multi-line summary is simply truncated to its
// first line rather than this grammar growing a paragraph rule) plus
// zero or more @param/@returns tag lines.
type Doc struct {
	Summary string    `@Text`
	Tags    []*DocTag `@@*`
}

// DocTag is one `@param name desc` or `@returns desc` line.
type DocTag struct {
	Kind string `"@" @("param" | "returns")`
	Name string `(@Ident)?`
	Desc string `@Text?`
}

var docLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "At", Pattern: `@`},
	{Name: "Keyword", Pattern: `\b(param|returns)\b`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
	{Name: "Text", Pattern: `[^\n@]+`},
	{Name: "Newline", Pattern: `\r?\n`},
	{Name: "Whitespace", Pattern: `[ \t]+`},
})

var docParser = participle.MustBuild[Doc](
	participle.Lexer(docLexer),
	participle.Elide("Whitespace", "Newline"),
	participle.UseLookahead(2),
)

// Parse reads one doc comment body into a Doc. A comment with no `@`
// tags parses to a bare Summary and an empty Tags slice.
func Parse(comment string) (*Doc, error) {
	return docParser.ParseString("", strings.TrimSpace(comment))
}

// Topic converts a parsed Doc into a repldoc.Topic under name, for
// registration via repldoc.Register.
func (d *Doc) Topic(name string) *repldoc.Topic {
	t := &repldoc.Topic{Name: name, Desc: strings.TrimSpace(d.Summary)}
	for _, tag := range d.Tags {
		if tag.Kind == "param" {
			t.Params = append(t.Params, repldoc.Param{Name: tag.Name, Desc: strings.TrimSpace(tag.Desc)})
		}
	}
	return t
}

// ScanModule parses every doc comment in docsByName (name → raw comment
// text, typically collected by walking a bundle's FuncStmt.Doc fields)
// and registers each as a repldoc topic, skipping entries whose comment
// fails to parse rather than aborting the whole scan — a malformed
// stdlib doc comment should not prevent every other module's docs from
// loading.
func ScanModule(docsByName map[string]string) {
	for name, comment := range docsByName {
		if strings.TrimSpace(comment) == "" {
			continue
		}
		doc, err := Parse(comment)
		if err != nil {
			continue
		}
		repldoc.Register(doc.Topic(name))
	}
}
