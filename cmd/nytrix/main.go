// Command nytrix is the compiler driver's entry point (spec §4.5.1),
// adapted from the teacher's main.go: a short banner, wiring the
// runtime environment together, then handing off to the REPL or a
// one-shot pipeline run depending on the flags given. Flag parsing
// stays on the standard library's flag package (spec's Non-goal: "CLI
// argument parsing beyond the thin flag wrapper").
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/dc0d/onexit"
	"github.com/nytrix-lang/nytrix/internal/backend"
	"github.com/nytrix-lang/nytrix/internal/loader"
	"github.com/nytrix-lang/nytrix/internal/pipeline"
	"github.com/nytrix-lang/nytrix/internal/repl"
)

// resolveMode implements spec §4.5.1's mode dispatch: absence of both
// an input file and a command string means REPL; an explicit IR path
// wins over an output path, since a user asking for textual IR wants
// to inspect it rather than link; otherwise an output path means a
// build, and anything else runs under the JIT.
func resolveMode(inputFile, cmdString, emitIR, outputFile string) pipeline.Mode {
	switch {
	case inputFile == "" && cmdString == "":
		return pipeline.ModeREPL
	case emitIR != "":
		return pipeline.ModeEmitIR
	case outputFile != "":
		return pipeline.ModeBuild
	default:
		return pipeline.ModeRun
	}
}

func main() {
	fmt.Print(`nytrix Copyright (C) 2026
    This program comes with ABSOLUTELY NO WARRANTY;
    This is free software, and you are welcome to redistribute it
    under certain conditions;
`)

	var (
		outputFile  = flag.String("o", "", "output executable path (AOT build mode)")
		emitIR      = flag.String("emit-ir", "", "emit textual IR to this path instead of linking")
		cmdString   = flag.String("c", "", "run this source string instead of a file")
		noStd       = flag.Bool("no-std", false, "skip the standard-library bundle")
		fullStd     = flag.Bool("full-std", false, "bundle every indexed standard-library module")
		stdlibPath  = flag.String("stdlib", os.Getenv("NYTRIX_STDLIB"), "standard library installation root")
		optLevel    = flag.Int("O", 0, "optimisation level")
		dumpOnError = flag.Bool("dump-on-error", false, "write build/debug/ artifacts on pipeline failure")
		noCache     = flag.Bool("no-jit-cache", false, "disable the JIT IR cache")
		strip       = flag.Bool("s", false, "strip symbols from the linked executable")
	)
	flag.Parse()

	opts := pipeline.Options{
		InputFile:     flag.Arg(0),
		CommandString: *cmdString,
		OutputFile:    *outputFile,
		NoStd:         *noStd,
		OptLevel:      *optLevel,
		EmitIRPath:    *emitIR,
		DumpOnError:   *dumpOnError,
		CacheDisabled: *noCache,
		Strip:         *strip,
		StdlibPath:    *stdlibPath,
	}
	if *fullStd {
		opts.StdLibMode = loader.ModeFull
	}

	opts.Mode = resolveMode(opts.InputFile, opts.CommandString, *emitIR, *outputFile)

	be := backend.NewRefBackend()

	if opts.Mode == pipeline.ModeREPL {
		if err := repl.Repl(repl.NewBackendEvaluator(be)); err != nil {
			fmt.Fprintln(os.Stderr, "nytrix:", err)
			os.Exit(1)
		}
		return
	}

	result, err := pipeline.Run(opts, be)
	if err != nil {
		fmt.Fprintln(os.Stderr, "nytrix:", err)
		if result != nil && result.DebugBundle != "" {
			fmt.Fprintln(os.Stderr, "debug artifacts written to", result.DebugBundle)
		}
		onexit.Exit(1)
	}
	onexit.Exit(int(result.ExitCode))
}
