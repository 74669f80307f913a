// Package loader indexes the standard library and user modules and
// assembles them into a single textual bundle the parser consumes in one
// pass (spec §3.9, §4.3).
//
// The per-schema catalog in the teacher's storage package (schema_fs.go,
// tables_catalog.go) is the closest analog: a name → {path, metadata}
// table, populated by a filesystem walk, kept sorted for reproducible
// lookup. Generalized here from "schema.table" catalog entries to
// "pkg.module" entries, and from a flat map to a google/btree ordered
// index so the "sorted on first population" invariant (spec §3.9) is a
// property of the data structure rather than a separate re-sort step.
package loader

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/btree"

	"golang.org/x/sync/errgroup"
)

// Mode controls how much of the standard library an Index seeds into a
// bundle (spec §4.3 step 2).
type Mode int

const (
	ModeDefault Mode = iota // prelude + transitive closure of explicit `use`s
	ModeFull                // every indexed module
	ModeUseList             // alias of ModeDefault kept for CLI symmetry
	ModeNone                // library entirely skipped
)

// Prelude is unconditionally injected ahead of user code so unqualified
// lookups resolve without an explicit `use` (spec §4.3, "Prelude").
var Prelude = []string{
	"std.core", "std.core.error", "std.core.reflect",
	"std.collections", "std.collections.dict", "std.collections.set",
	"std.strings.str", "std.iter", "std.io",
}

// Root is one filesystem root to index, tagged with the name prefix its
// modules receive (spec §4.3 step 1: "Prefix with std. or lib. according
// to the root").
type Root struct {
	Path   string
	Prefix string // "std" or "lib"
}

// ModuleEntry is one resolved module: its canonical name, the file it
// lives in, and the package (first dotted segment) it belongs to (spec
// §3.9).
type ModuleEntry struct {
	Name    string
	Path    string
	Package string
}

// Index is the in-memory module table (spec §3.9): fully-qualified name →
// {filesystem path, package name}, kept sorted by name.
type Index struct {
	mu   sync.RWMutex
	tree *btree.BTreeG[ModuleEntry]
}

func entryLess(a, b ModuleEntry) bool { return a.Name < b.Name }

// NewIndex creates an empty, unpopulated module index.
func NewIndex() *Index {
	return &Index{tree: btree.NewG(32, entryLess)}
}

// Build walks every root depth-first collecting `.ny` files and populates
// the index (spec §4.3 step 1). Roots are walked concurrently; insertion
// into the shared tree is serialized.
func (ix *Index) Build(roots []Root) error {
	var g errgroup.Group
	var mu sync.Mutex
	var collected []ModuleEntry

	for _, root := range roots {
		root := root
		g.Go(func() error {
			var local []ModuleEntry
			err := filepath.WalkDir(root.Path, func(path string, d fs.DirEntry, err error) error {
				if err != nil {
					if errors.Is(err, fs.ErrNotExist) {
						return nil // a configured root may simply not exist
					}
					return err
				}
				if d.IsDir() || !strings.HasSuffix(path, ".ny") {
					return nil
				}
				rel, err := filepath.Rel(root.Path, path)
				if err != nil {
					return nil
				}
				name := canonicalModuleName(root.Prefix, rel)
				local = append(local, ModuleEntry{
					Name:    name,
					Path:    path,
					Package: packageOf(name),
				})
				return nil
			})
			if err != nil {
				return err
			}
			mu.Lock()
			collected = append(collected, local...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.tree.Clear(false)
	for _, e := range collected {
		ix.tree.ReplaceOrInsert(e)
	}
	return nil
}

// canonicalModuleName derives a module name from a root-relative .ny path
// (spec §3.9, §4.3 step 1): trim the root prefix (already done via
// filepath.Rel), drop the .ny extension and a trailing /mod segment,
// replace path separators with '.', and prefix with the root's package
// prefix.
func canonicalModuleName(rootPrefix, rel string) string {
	rel = filepath.ToSlash(rel)
	rel = strings.TrimSuffix(rel, ".ny")
	rel = strings.TrimSuffix(rel, "/mod")
	if rel == "mod" {
		rel = ""
	}
	dotted := strings.ReplaceAll(rel, "/", ".")
	if dotted == "" {
		return rootPrefix
	}
	return rootPrefix + "." + dotted
}

func packageOf(name string) string {
	if i := strings.IndexByte(name, '.'); i >= 0 {
		return name[:i]
	}
	return name
}

// Lookup returns the entry for an exact module name.
func (ix *Index) Lookup(name string) (ModuleEntry, bool) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.tree.Get(ModuleEntry{Name: name})
}

// Package returns every module whose name begins with "<name>." (spec
// §4.3 step 3c), sorted by name.
func (ix *Index) Package(name string) []ModuleEntry {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	prefix := name + "."
	var out []ModuleEntry
	ix.tree.AscendGreaterOrEqual(ModuleEntry{Name: prefix}, func(e ModuleEntry) bool {
		if !strings.HasPrefix(e.Name, prefix) {
			return false
		}
		out = append(out, e)
		return true
	})
	return out
}

// All returns every indexed module, sorted by name (spec §3.9: "sorted on
// first population for reproducible lookup").
func (ix *Index) All() []ModuleEntry {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	out := make([]ModuleEntry, 0, ix.tree.Len())
	ix.tree.Ascend(func(e ModuleEntry) bool {
		out = append(out, e)
		return true
	})
	return out
}
