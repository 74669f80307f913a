// Package repl is the interactive top-level loop, adapted from the
// teacher's scm/prompt.go: the same chzyer/readline setup, the same
// three-prompt scheme (new/continuation/result), and the same
// anti-panic recover-per-line wrapper, generalized from one
// s-expression read at a time to one Nytrix statement (or run of
// statements) at a time, parsed and verified with internal/parser
// instead of the teacher's own Read/Validate/Optimize/Eval chain.
package repl

import (
	"bytes"
	"fmt"
	"io"
	"runtime/debug"
	"strings"

	"github.com/chzyer/readline"

	"github.com/nytrix-lang/nytrix/internal/ast"
	"github.com/nytrix-lang/nytrix/internal/backend"
	"github.com/nytrix-lang/nytrix/internal/parser"
	"github.com/nytrix-lang/nytrix/internal/repldoc"
)

const (
	newPrompt    = "\033[32m>\033[0m "
	contPrompt   = "\033[32m.\033[0m "
	resultPrompt = "\033[31m=\033[0m "
)

// Evaluator runs a parsed program and renders its result, the REPL's
// analogue of the teacher's Eval+Serialize pair. A concrete Backend
// (internal/backend.Backend, wired through internal/pipeline.runJIT for
// a real build) supplies this; the REPL package itself stays agnostic
// to how evaluation actually happens.
type Evaluator interface {
	EvalLine(prog *ast.Program) (string, error)
}

// backendEvaluator adapts a backend.Backend into an Evaluator by
// emitting each line's program and rendering the emitted module: its
// text when the handle is a string, otherwise a count of the runtime
// symbols it references. It does not execute the module.
type backendEvaluator struct {
	be backend.Backend
}

// NewBackendEvaluator wraps be so it can serve as the REPL's Evaluator.
func NewBackendEvaluator(be backend.Backend) Evaluator {
	return &backendEvaluator{be: be}
}

func (b *backendEvaluator) EvalLine(prog *ast.Program) (string, error) {
	mod, err := b.be.EmitProgram(prog, backend.Options{ModuleName: "repl"})
	if err != nil {
		return "", err
	}
	if text, ok := mod.Handle.(string); ok {
		return text, nil
	}
	return fmt.Sprintf("ok (%d runtime symbol(s) referenced)", len(mod.RuntimeSymbols)), nil
}

// Repl runs the interactive loop until EOF or an unrecovered interrupt.
func Repl(eval Evaluator) error {
	l, err := readline.NewEx(&readline.Config{
		Prompt:            newPrompt,
		HistoryFile:       ".nytrix-history.tmp",
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		return err
	}
	defer l.Close()
	l.CaptureExitSignal()

	oldline := ""
	for {
		line, err := l.Readline()
		line = oldline + line
		switch {
		case err == readline.ErrInterrupt:
			if len(line) == 0 {
				return nil
			}
			continue
		case err == io.EOF:
			return nil
		case err != nil:
			return err
		}

		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if handled := runCommand(trimmed); handled {
			oldline = ""
			continue
		}

		oldline = runLine(line, eval, l)
		if oldline == "" {
			l.SetPrompt(newPrompt)
		} else {
			l.SetPrompt(contPrompt)
		}
	}
}

// runCommand handles `:help [topic]`, the REPL's only built-in command
// surface (spec §1's doc browser, wired in here rather than in
// internal/repldoc itself, which stays a plain data index).
func runCommand(line string) bool {
	if !strings.HasPrefix(line, ":help") {
		return false
	}
	arg := strings.TrimSpace(strings.TrimPrefix(line, ":help"))
	if arg == "" {
		fmt.Println("Available topics:")
		for _, name := range repldoc.Names() {
			fmt.Println("  " + name)
		}
		fmt.Println("\ntype :help <topic> for details")
		return true
	}
	topic, ok := repldoc.Lookup(arg)
	if !ok {
		fmt.Println("no help for: " + arg)
		return true
	}
	fmt.Println("Help for: " + topic.Name)
	fmt.Println(topic.Desc)
	for _, p := range topic.Params {
		fmt.Println("  - " + p.Name + ": " + p.Desc)
	}
	return true
}

// runLine parses, verifies, and evaluates one (possibly multi-line,
// continuation-accumulated) input, recovering from any panic the way
// the teacher's own anti-panic func does — except here "expecting
// matching )" becomes "unexpected end of input", the parser's own
// recoverable-incomplete-input signal rather than a Lisp paren-depth
// panic. It returns the accumulated source to keep reading as a
// continuation, or "" once a line is fully consumed.
func runLine(line string, eval Evaluator, l *readline.Instance) (nextOldline string) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Println("panic:", r, string(debug.Stack()))
			nextOldline = ""
		}
	}()

	p := parser.New("<repl>", line)
	prog := p.ParseProgram()
	if p.HadErrors() {
		if incompleteInput(p.Diagnostics()) {
			return line + "\n"
		}
		for _, d := range p.Diagnostics() {
			fmt.Println(d.String())
		}
		return ""
	}

	out, err := eval.EvalLine(prog)
	if err != nil {
		fmt.Println("error:", err)
		return ""
	}
	var b bytes.Buffer
	b.WriteString(out)
	fmt.Print(resultPrompt)
	fmt.Println(b.String())
	return ""
}

// incompleteInput reports whether diags look like "ran out of input
// mid-construct" rather than a genuine syntax error — the signal that
// should grow the continuation prompt instead of reporting failure.
func incompleteInput(diags []parser.Diagnostic) bool {
	if len(diags) != 1 {
		return false
	}
	return strings.Contains(diags[0].Message, "end of input")
}
