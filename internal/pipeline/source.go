package pipeline

import (
	"strings"

	"github.com/nytrix-lang/nytrix/internal/loader"
)

// stripShebang removes a leading "#!" line, replacing it with a blank
// line so downstream line numbers stay aligned with the original file
// (spec §4.5.2 step 1).
func stripShebang(src string) string {
	if !strings.HasPrefix(src, "#!") {
		return src
	}
	if i := strings.IndexByte(src, '\n'); i >= 0 {
		return src[i:] // keep the newline, drop everything before it
	}
	return ""
}

// assembleSource runs spec §4.5.2: load and shebang-strip the entry
// source, then hand off to internal/loader's Bundler to scan `use`
// statements, union the prelude, and concatenate the standard-library
// bundle ahead of the user source. When NoStd is set, Mode is forced to
// loader.ModeNone regardless of Options.StdLibMode, mirroring the
// original's "no_std" override (spec §4.3, "Failure handling").
func assembleSource(opts Options, entryFilename, entrySrc string) (*loader.Bundle, error) {
	entrySrc = stripShebang(entrySrc)

	mode := opts.StdLibMode
	if opts.NoStd {
		mode = loader.ModeNone
	}

	ix, err := stdlibIndex(defaultRoots(opts.StdlibPath))
	if err != nil {
		return nil, err
	}

	b := &loader.Bundler{Index: ix, Mode: mode}
	return b.Build(entryFilename, entrySrc)
}
