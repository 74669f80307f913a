package pipeline

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// chooseCC resolves the system C driver (spec §4.5.7): an explicit
// Options.CC, then NYTRIX_CC, then CC, then "clang" — the same fallback
// chain as the original's ny_builder_choose_cc.
func chooseCC(opts Options) string {
	if opts.CC != "" {
		return opts.CC
	}
	if cc := os.Getenv("NYTRIX_CC"); cc != "" {
		return cc
	}
	if cc := os.Getenv("CC"); cc != "" {
		return cc
	}
	return "clang"
}

// link invokes the system C driver to combine the emitted object with
// the runtime objects into output_path (spec §4.5.7): "-lm", optionally
// "-lreadline", "-ldl", plus any user `-L`/`-l` flags, with
// "--gc-sections" and "-O1" applied to the link and symbols stripped
// when requested. A rpath is added when one of the extra objects is a
// shared library, so a dynamically-linked runtime resolves at exec
// time without LD_LIBRARY_PATH.
func link(opts Options, objPath string, runtimeObjs []string) (string, error) {
	cc := chooseCC(opts)
	output := opts.OutputFile
	if output == "" {
		output = "a.out"
	}

	args := []string{}
	if opts.DebugSymbols {
		args = append(args, "-g")
	}
	args = append(args, "-no-pie", objPath)
	args = append(args, runtimeObjs...)
	args = append(args, opts.ExtraObjs...)

	var rpathDir string
	for _, o := range opts.ExtraObjs {
		if strings.HasSuffix(o, ".so") {
			if i := strings.LastIndexByte(o, '/'); i >= 0 {
				rpathDir = o[:i]
			}
		}
	}

	for _, d := range opts.LinkDirs {
		args = append(args, d)
	}

	args = append(args, "-Wl,--build-id=none", "-Wl,--gc-sections", "-Wl,-O1", "-Wl,--no-as-needed")
	if opts.Strip {
		args = append(args, "-Wl,--strip-all")
	}
	if rpathDir != "" {
		args = append(args, "-Wl,-rpath,"+rpathDir, "-L"+rpathDir, "-lnytrixrt")
	}

	args = append(args, "-o", output, "-lm")
	if opts.LinkReadline {
		args = append(args, "-lreadline")
	}
	args = append(args, "-ldl")
	args = append(args, opts.LinkLibs...)
	args = append(args, "-Wl,--as-needed")

	cmd := exec.Command(cc, args...)
	cmd.Stdout, cmd.Stderr = os.Stdout, os.Stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("pipeline: linking with %s: %w", cc, err)
	}

	if opts.Strip {
		if err := exec.Command("strip", "-s", output).Run(); err != nil {
			return "", fmt.Errorf("pipeline: strip %s: %w", output, err)
		}
	}
	return output, nil
}
