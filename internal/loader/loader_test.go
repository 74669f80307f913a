package loader

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCanonicalModuleName(t *testing.T) {
	cases := []struct {
		prefix string
		rel    string
		want   string
	}{
		{"std", "core.ny", "std.core"},
		{"std", "core/error.ny", "std.core.error"},
		{"std", "collections/dict.ny", "std.collections.dict"},
		{"std", "io/mod.ny", "std.io"},
		{"lib", "json/mod.ny", "lib.json"},
	}
	for _, c := range cases {
		got := canonicalModuleName(c.prefix, c.rel)
		if got != c.want {
			t.Errorf("canonicalModuleName(%q, %q) = %q, want %q", c.prefix, c.rel, got, c.want)
		}
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestIndexBuildAndLookup(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "core.ny"), "def x = 1\n")
	writeFile(t, filepath.Join(root, "collections", "dict.ny"), "def y = 2\n")
	writeFile(t, filepath.Join(root, "collections", "set.ny"), "def z = 3\n")

	idx := NewIndex()
	if err := idx.Build([]Root{{Path: root, Prefix: "std"}}); err != nil {
		t.Fatal(err)
	}

	if _, ok := idx.Lookup("std.core"); !ok {
		t.Fatal("expected std.core to be indexed")
	}
	if _, ok := idx.Lookup("std.nonexistent"); ok {
		t.Fatal("expected std.nonexistent to be absent")
	}

	pkg := idx.Package("std.collections")
	if len(pkg) != 2 {
		t.Fatalf("expected 2 modules under std.collections, got %d", len(pkg))
	}

	all := idx.All()
	for i := 1; i < len(all); i++ {
		if all[i-1].Name > all[i].Name {
			t.Fatalf("All() not sorted: %q before %q", all[i-1].Name, all[i].Name)
		}
	}
}

func TestBundlerDefaultModeInjectsPrelude(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "core.ny"), "def one = 1\n")

	idx := NewIndex()
	if err := idx.Build([]Root{{Path: root, Prefix: "std"}}); err != nil {
		t.Fatal(err)
	}

	b := &Bundler{Index: idx, Mode: ModeDefault}
	bundle, err := b.Build("main.ny", "def main = 1\n")
	if err != nil {
		t.Fatal(err)
	}
	if bundle.SourceMap == nil || len(bundle.SourceMap.Boundaries) == 0 {
		t.Fatal("expected a non-empty source map")
	}
	last := bundle.SourceMap.Boundaries[len(bundle.SourceMap.Boundaries)-1]
	if last.Filename != "main.ny" {
		t.Fatalf("expected the entry file to be the final boundary, got %q", last.Filename)
	}
}

func TestBundlerNoneModeSkipsLibrary(t *testing.T) {
	idx := NewIndex()
	b := &Bundler{Index: idx, Mode: ModeNone}
	bundle, err := b.Build("main.ny", "def main = 1\n")
	if err != nil {
		t.Fatal(err)
	}
	if len(bundle.SourceMap.Boundaries) != 1 {
		t.Fatalf("expected exactly the entry file boundary, got %d", len(bundle.SourceMap.Boundaries))
	}
}
