// Package pipeline wires source to artifact through the mode-specific
// stages of a single compiler invocation (spec §4.5): source assembly
// over internal/loader, parse and verify over internal/parser, backend
// emission through the internal/backend contract, JIT execution, AOT
// linking, the JIT IR cache, and on-failure debug dumps. The SSA and
// eqsat invariant checks (internal/ssa, internal/eqsat) are not called
// from this package. Modeled on the teacher's own
// driving loop in scm/prompt.go (Read → Validate → Optimize → Eval),
// generalized from one interactive line to one whole-program
// compilation.
package pipeline

import (
	"github.com/nytrix-lang/nytrix/internal/loader"
	"github.com/nytrix-lang/nytrix/internal/parser"
)

// Mode is the dispatch target chosen from parsed options (spec §4.5.1).
type Mode int

const (
	ModeRun    Mode = iota // run-JIT: parse, emit, execute, no artifact written
	ModeREPL               // hand off to the interactive loop
	ModeBuild              // emit-object: AOT link to an executable
	ModeEmitIR             // emit IR/ASM text only, no link
)

// Options mirrors the subset of the original compiler's option surface
// this repository's scope covers (spec §4.5.1-§4.5.9); CLI flag parsing
// that maps onto this struct is cmd/nytrix's concern, not pipeline's.
type Options struct {
	Mode Mode

	InputFile     string // empty when CommandString is used instead
	CommandString string
	OutputFile    string

	NoStd      bool // skip the standard-library bundle (spec §4.3, §4.5.2)
	StdLibMode loader.Mode

	OptLevel    int
	OptPipeline string // explicit pass-pipeline string, overrides OptLevel when non-empty

	EmitIRPath  string
	EmitASMPath string

	DumpTokens   bool
	DumpAST      bool
	DumpIR       bool
	DumpOnError  bool

	// AOT linking (spec §4.5.7)
	CC          string // system C driver; empty means resolve NYTRIX_CC / CC / "clang"
	ExtraObjs   []string
	LinkDirs    []string
	LinkLibs    []string
	Strip       bool
	DebugSymbols bool
	LinkReadline bool

	// JIT IR cache (spec §4.5.8)
	CacheDisabled bool
	CacheDir      string // empty resolves to $HOME/.cache/nytrix/jit

	StdlibPath string // resolved stdlib bundle path/root, hashed into the cache key
}

// Result is what a completed pipeline run produced, independent of
// which Mode was taken.
type Result struct {
	Source      string
	SourceMap   *parser.SourceMap
	ExitCode    int32
	ObjectPath  string
	OutputPath  string
	CacheHit    bool
	DebugBundle string // build/debug/<uuid> path, set only when a dump was written
}
