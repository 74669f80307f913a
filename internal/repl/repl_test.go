package repl

import (
	"testing"

	"github.com/nytrix-lang/nytrix/internal/ast"
	"github.com/nytrix-lang/nytrix/internal/backend"
	"github.com/nytrix-lang/nytrix/internal/parser"
)

func TestIncompleteInputDetectsEndOfInput(t *testing.T) {
	p := parser.New("<test>", "fn foo(x) {")
	p.ParseProgram()
	if !p.HadErrors() {
		t.Fatal("expected a parse error for an unterminated function body")
	}
	if !incompleteInput(p.Diagnostics()) {
		t.Fatalf("incompleteInput() = false for diags %v", p.Diagnostics())
	}
}

func TestIncompleteInputRejectsOrdinarySyntaxError(t *testing.T) {
	p := parser.New("<test>", "def = 1;")
	p.ParseProgram()
	if !p.HadErrors() {
		t.Fatal("expected a parse error for a missing binding name")
	}
	if incompleteInput(p.Diagnostics()) {
		t.Fatal("incompleteInput() = true for an ordinary syntax error")
	}
}

func TestBackendEvaluatorRendersSkeletonText(t *testing.T) {
	eval := NewBackendEvaluator(backend.NewRefBackend())
	prog := &ast.Program{Arena: ast.NewArena(), Statements: nil}

	out, err := eval.EvalLine(prog)
	if err != nil {
		t.Fatalf("EvalLine() error = %v", err)
	}
	if out == "" {
		t.Fatal("EvalLine() returned empty output for the reference backend's skeleton")
	}
}

func TestRunCommandListsTopicsOnBareHelp(t *testing.T) {
	if !runCommand(":help") {
		t.Fatal("runCommand(\":help\") = false; want true")
	}
}

func TestRunCommandIgnoresOrdinaryLines(t *testing.T) {
	if runCommand("1 + 1;") {
		t.Fatal("runCommand() = true for a non-command line")
	}
}
