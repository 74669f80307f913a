package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nytrix-lang/nytrix/internal/backend"
)

func TestStripShebangDropsFirstLineOnly(t *testing.T) {
	src := "#!/usr/bin/env nytrix\nfn main() {}\n"
	got := stripShebang(src)
	if got != "\nfn main() {}\n" {
		t.Fatalf("stripShebang() = %q", got)
	}
}

func TestStripShebangLeavesOrdinarySourceUntouched(t *testing.T) {
	src := "fn main() {}\n"
	if got := stripShebang(src); got != src {
		t.Fatalf("stripShebang() = %q; want unchanged", got)
	}
}

func TestCacheDisabledByEnvValue(t *testing.T) {
	t.Setenv("NYTRIX_JIT_CACHE", "off")
	if cacheEnabled(Options{}) {
		t.Fatal("cacheEnabled() = true; want false when NYTRIX_JIT_CACHE=off")
	}
}

func TestCacheDisabledByOption(t *testing.T) {
	t.Setenv("NYTRIX_JIT_CACHE", "")
	if cacheEnabled(Options{CacheDisabled: true}) {
		t.Fatal("cacheEnabled() = true; want false when CacheDisabled is set")
	}
}

func TestCachePathStableForIdenticalSource(t *testing.T) {
	opts := Options{CacheDir: t.TempDir()}
	a := cachePath(opts, "fn main() {}")
	b := cachePath(opts, "fn main() {}")
	if a != b {
		t.Fatalf("cachePath() not stable: %q != %q", a, b)
	}
}

func TestCachePathDiffersForDifferentSource(t *testing.T) {
	opts := Options{CacheDir: t.TempDir()}
	a := cachePath(opts, "fn main() {}")
	b := cachePath(opts, "fn other() {}")
	if a == b {
		t.Fatal("cachePath() collided for different source")
	}
}

func TestSaveAndLoadCacheRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "entry.bc")
	mod := &backend.Module{
		Handle:         "skeleton text",
		RuntimeSymbols: []string{"__add", "__sub"},
		Interns:        []backend.StringIntern{{Value: "hi", Symbol: "__str.0", Const: true}},
	}
	if err := saveCache(path, mod); err != nil {
		t.Fatalf("saveCache() error = %v", err)
	}
	got, ok := loadCache(path)
	if !ok {
		t.Fatal("loadCache() ok = false after a successful save")
	}
	if got.Handle.(string) != "skeleton text" || len(got.RuntimeSymbols) != 2 || len(got.Interns) != 1 {
		t.Fatalf("loadCache() = %+v", got)
	}
}

func TestLoadCacheMissOnAbsentFile(t *testing.T) {
	if _, ok := loadCache(filepath.Join(t.TempDir(), "missing.bc")); ok {
		t.Fatal("loadCache() ok = true for a file that was never written")
	}
}

func TestChooseCCPrefersExplicitOption(t *testing.T) {
	t.Setenv("NYTRIX_CC", "gcc")
	if got := chooseCC(Options{CC: "clang-18"}); got != "clang-18" {
		t.Fatalf("chooseCC() = %q; want clang-18", got)
	}
}

func TestChooseCCFallsBackToEnv(t *testing.T) {
	t.Setenv("NYTRIX_CC", "")
	t.Setenv("CC", "musl-gcc")
	if got := chooseCC(Options{}); got != "musl-gcc" {
		t.Fatalf("chooseCC() = %q; want musl-gcc", got)
	}
}

func TestChooseCCDefaultsToClang(t *testing.T) {
	t.Setenv("NYTRIX_CC", "")
	t.Setenv("CC", "")
	if got := chooseCC(Options{}); got != "clang" {
		t.Fatalf("chooseCC() = %q; want clang", got)
	}
}

func TestDebugDumpWritesAllThreeFiles(t *testing.T) {
	root := t.TempDir()
	dir, err := debugDump(root, "src", "ir", "asm")
	if err != nil {
		t.Fatalf("debugDump() error = %v", err)
	}
	for _, name := range []string{"last_source.ny", "last_ir.ll", "last_asm.s"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Fatalf("expected %s to exist: %v", name, err)
		}
	}
}

func TestRunEmitIRWritesIRFile(t *testing.T) {
	dir := t.TempDir()
	entry := filepath.Join(dir, "main.ny")
	if err := os.WriteFile(entry, []byte("1 + 1;\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	irPath := filepath.Join(dir, "out.ll")

	opts := Options{
		Mode:        ModeEmitIR,
		InputFile:   entry,
		NoStd:       true,
		EmitIRPath:  irPath,
		CacheDisabled: true,
	}
	res, err := Run(opts, backend.NewRefBackend())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.Source == "" {
		t.Fatal("Result.Source is empty")
	}
	if _, err := os.Stat(irPath); err != nil {
		t.Fatalf("expected IR file to be written: %v", err)
	}
}

func TestRunReturnsDiagnosticErrorOnParseFailure(t *testing.T) {
	dir := t.TempDir()
	entry := filepath.Join(dir, "bad.ny")
	if err := os.WriteFile(entry, []byte("fn ( {"), 0o644); err != nil {
		t.Fatal(err)
	}

	opts := Options{Mode: ModeEmitIR, InputFile: entry, NoStd: true, CacheDisabled: true}
	if _, err := Run(opts, backend.NewRefBackend()); err == nil {
		t.Fatal("Run() error = nil; want a parse diagnostic error")
	}
}
