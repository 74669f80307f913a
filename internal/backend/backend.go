// Package backend is the external contract a code generator implements
// (spec §4.5.4, and spec §1's explicit scope line: "the LLVM IR
// construction for individual AST node kinds ... we specify the
// compiler's integration contract with a backend: the data it must
// consume, the runtime symbols it must bind, and the final artifacts it
// must produce. A reimplementer may substitute any equivalent
// backend."). This package is therefore deliberately NOT a real LLVM
// emitter: refbackend.go fills the contract (collects which runtime
// symbols a program references, resolves `.N` disambiguation, interns
// string literals as named `__str.N` globals, validates call arity
// against call0..call15) and renders a Go-shaped textual skeleton of
// the module for debug-dump purposes, the way the teacher's own
// scm/jit.go introspects Go source via go/parser/go/ast/go/token rather
// than emitting machine code by hand for its specialization pass. A
// production build substitutes a real LLVM-backed implementation of
// this same interface; internal/pipeline only depends on the
// interface below.
package backend

import "github.com/nytrix-lang/nytrix/internal/ast"

// Options controls how a Program is lowered.
type Options struct {
	// EmitMain synthesises a C-compatible main(argc, argv, envp) that
	// calls set_args, invokes __script_top, and returns its untagged
	// result as an int32 exit code (spec §4.5.4, AOT only).
	EmitMain bool
	// ModuleName becomes the emitted IR module's identifier.
	ModuleName string
}

// StringIntern is one string literal promoted to a global, laid out per
// the §3.7 heap object header so JIT and AOT code see identical
// representations for interned constants.
type StringIntern struct {
	Value  string
	Symbol string // the global's linkage name
	Const  bool   // true unless the program ever mutates it in place
}

// Module is the result of emission: an opaque backend-specific IR handle
// plus the bookkeeping the rest of the pipeline needs without reaching
// back into backend internals.
type Module struct {
	// Handle is the backend-specific module value (an *llvm.Module for
	// the LLVM backend). Declared as `any` so Options/Module don't force
	// every caller to import the LLVM binding.
	Handle any
	// RuntimeSymbols lists every runtime symbol the emitted module
	// references, already resolved from any `.N` disambiguation suffix
	// to its base name (spec §4.5.4).
	RuntimeSymbols []string
	// Interns lists every string literal promoted to a global.
	Interns []StringIntern
}

// Backend emits an IR module for prog (prog.Arena owns every node it
// references).
type Backend interface {
	EmitProgram(prog *ast.Program, opts Options) (*Module, error)
}
