package pipeline

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pierrec/lz4/v4"

	"github.com/nytrix-lang/nytrix/internal/backend"
)

// djb2 is the same hash the original compiler used for cache keys (spec
// §4.5.8): hash = hash*33 + c, seeded at 5381.
func djb2(s string) uint64 {
	var hash uint64 = 5381
	for i := 0; i < len(s); i++ {
		hash = hash*33 + uint64(s[i])
	}
	return hash
}

// cacheEnabled mirrors the NYTRIX_JIT_CACHE env override (spec §4.5.8:
// "disabled by setting the cache environment flag to 0/off/false").
func cacheEnabled(opts Options) bool {
	if opts.CacheDisabled {
		return false
	}
	switch os.Getenv("NYTRIX_JIT_CACHE") {
	case "0", "off", "false":
		return false
	}
	return true
}

func cacheDir(opts Options) string {
	if opts.CacheDir != "" {
		return opts.CacheDir
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ""
	}
	return filepath.Join(home, ".cache", "nytrix", "jit")
}

// cachePath derives the cache filename from a pair of hashes: DJB2 over
// the combined source, XORed with the stdlib bundle's mtime and path
// hash (spec §4.5.8).
func cachePath(opts Options, combinedSource string) string {
	dir := cacheDir(opts)
	if dir == "" {
		return ""
	}
	srcHash := djb2(combinedSource)

	var stdHash uint64
	if opts.StdlibPath != "" {
		if info, err := os.Stat(opts.StdlibPath); err == nil {
			stdHash = uint64(info.ModTime().Unix())
		}
		stdHash ^= djb2(opts.StdlibPath)
	}

	name := strconv.FormatUint(srcHash, 16) + "_" + strconv.FormatUint(stdHash, 16) + ".bc"
	return filepath.Join(dir, name)
}

// cacheEntry is the payload a cache file carries: everything EmitProgram
// produced, so a cache hit skips emission (spec §4.5.8). Run parses the
// bundle before it looks the cache up, so a hit does not skip the parse. The original compiler's cache holds raw LLVM bitcode;
// this repository's bundled reference backend has no bitcode to hold, so
// the entry instead carries the backend-agnostic Module fields gob-
// encoded, then LZ4-framed the same way the cache file is framed for any
// backend.
type cacheEntry struct {
	Handle         string // only the reference backend's string skeleton is cacheable this way
	RuntimeSymbols []string
	Interns        []backend.StringIntern
}

// loadCache reads and LZ4-decompresses a cache file, returning ok=false
// on any miss (absent file, truncated frame, decode error) rather than
// failing the whole pipeline run — a corrupt cache entry should never
// block compilation (spec §4.5.8 only specifies hit/miss, not
// corruption handling, so miss is the conservative default).
func loadCache(path string) (*backend.Module, bool) {
	if path == "" {
		return nil, false
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, false
	}
	defer f.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, lz4.NewReader(f)); err != nil {
		return nil, false
	}

	var entry cacheEntry
	if err := gob.NewDecoder(&buf).Decode(&entry); err != nil {
		return nil, false
	}
	return &backend.Module{
		Handle:         entry.Handle,
		RuntimeSymbols: entry.RuntimeSymbols,
		Interns:        entry.Interns,
	}, true
}

// saveCache writes mod to path, LZ4-framed, creating the cache
// directory if needed (spec §4.5.8: "on miss, write the freshly emitted
// module to the cache path"). Errors are non-fatal: a failed cache
// write should not fail a compile that otherwise succeeded.
func saveCache(path string, mod *backend.Module) error {
	if path == "" {
		return nil
	}
	handle, ok := mod.Handle.(string)
	if !ok {
		return fmt.Errorf("pipeline: cache entry requires a string Module.Handle, got %T", mod.Handle)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	var encoded bytes.Buffer
	entry := cacheEntry{Handle: handle, RuntimeSymbols: mod.RuntimeSymbols, Interns: mod.Interns}
	if err := gob.NewEncoder(&encoded).Encode(entry); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	zw := lz4.NewWriter(f)
	if _, err := zw.Write(encoded.Bytes()); err != nil {
		zw.Close()
		return err
	}
	return zw.Close()
}
