package pipeline

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dc0d/onexit"
	"github.com/nytrix-lang/nytrix/internal/backend"
	"github.com/nytrix-lang/nytrix/internal/parser"
)

// loadEntry reads the entry source, either from InputFile or, when empty,
// from CommandString as an inline "-c"-style program (spec §4.5.1:
// "absence of an input file together with a command string runs that
// string directly").
func loadEntry(opts Options) (filename, src string, err error) {
	if opts.InputFile != "" {
		body, err := os.ReadFile(opts.InputFile)
		if err != nil {
			return "", "", fmt.Errorf("pipeline: reading %s: %w", opts.InputFile, err)
		}
		return opts.InputFile, string(body), nil
	}
	if opts.CommandString != "" {
		return "<command-line>", opts.CommandString, nil
	}
	return "", "", fmt.Errorf("pipeline: no input file and no command string given")
}

// Run drives one compiler invocation end to end (spec §4.5): assemble
// the source, parse and verify it, emit through be, then dispatch to
// whatever artifact Options.Mode asks for. It mirrors the shape of the
// teacher's own per-line Repl loop (scm/prompt.go: Read, Validate,
// Optimize, Eval), generalized from one interactive line to one
// whole-program build, with a recover-free error return replacing the
// teacher's panic/recover per-line isolation (a whole-program compile
// either succeeds or it doesn't; there's no next line to keep reading).
func Run(opts Options, be backend.Backend) (result *Result, err error) {
	filename, entrySrc, err := loadEntry(opts)
	if err != nil {
		return nil, err
	}

	bundle, err := assembleSource(opts, filename, entrySrc)
	if err != nil {
		return nil, err
	}

	var mod *backend.Module

	defer func() {
		if err != nil && opts.DumpOnError {
			dumpSource := bundle.Source
			ir, asm := debugIR(mod), debugASM(mod)
			if dir, dumpErr := debugDump(".", dumpSource, ir, asm); dumpErr == nil {
				if result == nil {
					result = &Result{Source: bundle.Source, SourceMap: bundle.SourceMap}
				}
				result.DebugBundle = dir
			}
		}
	}()

	p := parser.New(filename, bundle.Source)
	p.SetSourceMap(bundle.SourceMap)
	prog := p.ParseProgram()
	if p.HadErrors() {
		return nil, diagnosticError(p.Diagnostics())
	}

	result = &Result{Source: bundle.Source, SourceMap: bundle.SourceMap}

	if opts.Mode == ModeREPL {
		// The interactive loop owns its own Read/Eval cycle; Run's job
		// ends at producing a parsed, verified program for it to start
		// from.
		return result, nil
	}

	cachePathValue := ""
	if cacheEnabled(opts) {
		cachePathValue = cachePath(opts, bundle.Source)
	}

	var hit bool
	mod, hit = loadCache(cachePathValue)
	if !hit {
		beOpts := backend.Options{
			EmitMain:   opts.Mode == ModeBuild,
			ModuleName: moduleName(filename),
		}
		mod, err = be.EmitProgram(prog, beOpts)
		if err != nil {
			return result, fmt.Errorf("pipeline: emitting module: %w", err)
		}
		if cachePathValue != "" {
			if saveErr := saveCache(cachePathValue, mod); saveErr != nil {
				// A failed cache write never fails an otherwise
				// successful compile.
				fmt.Fprintf(os.Stderr, "pipeline: caching module: %v\n", saveErr)
			}
		}
	}
	result.CacheHit = hit

	switch opts.Mode {
	case ModeRun:
		code, runErr := runJIT(be, mod)
		result.ExitCode = code
		if runErr != nil {
			return result, fmt.Errorf("pipeline: running module: %w", runErr)
		}
		return result, nil

	case ModeEmitIR:
		if err := writeIRText(opts, mod); err != nil {
			return result, err
		}
		return result, nil

	case ModeBuild:
		objPath, err := emitObject(opts, mod)
		if err != nil {
			return result, err
		}
		result.ObjectPath = objPath

		output, err := link(opts, objPath, runtimeObjectPaths(opts))
		if err != nil {
			return result, err
		}
		result.OutputPath = output
		return result, nil
	}

	return result, fmt.Errorf("pipeline: unknown mode %d", opts.Mode)
}

func moduleName(filename string) string {
	base := filepath.Base(filename)
	ext := filepath.Ext(base)
	return base[:len(base)-len(ext)]
}

// debugIR/debugASM recover whatever textual IR a Module.Handle carries,
// for the on-failure dump; a nil mod, or a Handle that isn't a string (a
// real LLVM module pointer, say), simply has nothing to dump here, which
// is fine, since the failure already happened before or during emission.
func debugIR(mod *backend.Module) string {
	if mod == nil {
		return ""
	}
	text, _ := mod.Handle.(string)
	return text
}

func debugASM(mod *backend.Module) string {
	return debugIR(mod)
}

// writeIRText renders the module's textual form to EmitIRPath/EmitASMPath
// (spec §4.5.1's emit-IR/ASM mode), falling back to stdout when neither
// path is given.
func writeIRText(opts Options, mod *backend.Module) error {
	text, ok := mod.Handle.(string)
	if !ok {
		return fmt.Errorf("pipeline: backend module has no textual representation to emit")
	}
	if opts.EmitIRPath == "" && opts.EmitASMPath == "" {
		_, err := io.WriteString(os.Stdout, text)
		return err
	}
	if opts.EmitIRPath != "" {
		if err := os.WriteFile(opts.EmitIRPath, []byte(text), 0o644); err != nil {
			return fmt.Errorf("pipeline: writing %s: %w", opts.EmitIRPath, err)
		}
	}
	if opts.EmitASMPath != "" {
		if err := os.WriteFile(opts.EmitASMPath, []byte(text), 0o644); err != nil {
			return fmt.Errorf("pipeline: writing %s: %w", opts.EmitASMPath, err)
		}
	}
	return nil
}

// emitObject writes the module to a temporary object file for the linker
// to consume (spec §4.5.7). The bundled reference backend has no machine
// object to produce, so it writes its textual skeleton instead under a
// ".o" name; a real backend substitutes actual object-file bytes behind
// the same Module.Handle contract. The temp object is registered with
// onexit rather than deferred directly, so it's cleaned up on success
// and on failure alike (spec §4.5.7) even though link, not emitObject,
// is the next thing to run.
func emitObject(opts Options, mod *backend.Module) (string, error) {
	text, ok := mod.Handle.(string)
	if !ok {
		return "", fmt.Errorf("pipeline: backend module has no textual representation to write as an object")
	}
	path := filepath.Join(os.TempDir(), moduleName(opts.InputFile)+".o")
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return "", fmt.Errorf("pipeline: writing object %s: %w", path, err)
	}
	onexit.Register(func() { os.Remove(path) })
	return path, nil
}

// runtimeObjectPaths is a placeholder for the compiled runtime objects
// spec §4.5.7 links alongside the emitted object (init.c, optionally
// ast.c); a concrete Backend or build driver supplies real paths via
// Options.ExtraObjs today, since compiling the C runtime sources is an
// external toolchain step outside this package's scope.
func runtimeObjectPaths(opts Options) []string {
	return nil
}

func diagnosticError(diags []parser.Diagnostic) error {
	if len(diags) == 0 {
		return fmt.Errorf("pipeline: parse failed with no diagnostics recorded")
	}
	msg := fmt.Sprintf("pipeline: %d parse error(s), first: %s", len(diags), diags[0].String())
	return fmt.Errorf("%s", msg)
}
