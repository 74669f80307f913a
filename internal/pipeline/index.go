package pipeline

import (
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/nytrix-lang/nytrix/internal/loader"
)

// indexCache memoizes one loader.Index per distinct root set so repeated
// pipeline runs in the same process (REPL, a long-lived embedder) don't
// re-walk the standard library on every call. indexGroup collapses
// concurrent first-touch builds for the same key into a single
// filesystem walk (spec §5: "a concurrent compiler embedding must guard
// first-touch with a lock").
var (
	indexMu    sync.Mutex
	indexCache = map[string]*loader.Index{}
	indexGroup singleflight.Group
)

func rootsKey(roots []loader.Root) string {
	parts := make([]string, len(roots))
	for i, r := range roots {
		parts[i] = r.Prefix + "=" + r.Path
	}
	return strings.Join(parts, ";")
}

// stdlibIndex returns the shared Index for roots, building it at most
// once even under concurrent callers.
func stdlibIndex(roots []loader.Root) (*loader.Index, error) {
	key := rootsKey(roots)

	indexMu.Lock()
	if ix, ok := indexCache[key]; ok {
		indexMu.Unlock()
		return ix, nil
	}
	indexMu.Unlock()

	v, err, _ := indexGroup.Do(key, func() (any, error) {
		indexMu.Lock()
		if ix, ok := indexCache[key]; ok {
			indexMu.Unlock()
			return ix, nil
		}
		indexMu.Unlock()

		ix := loader.NewIndex()
		if err := ix.Build(roots); err != nil {
			return nil, err
		}
		indexMu.Lock()
		indexCache[key] = ix
		indexMu.Unlock()
		return ix, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*loader.Index), nil
}

// defaultRoots returns the standard-library search roots (spec §4.3 step
// 1): "<stdlibPath>/src/std" (prefix std) and "<stdlibPath>/src/lib"
// (prefix lib). An empty stdlibPath yields no roots; no installation
// prefix directory is searched as a fallback.
func defaultRoots(stdlibPath string) []loader.Root {
	if stdlibPath == "" {
		return nil
	}
	return []loader.Root{
		{Path: stdlibPath + "/src/std", Prefix: "std"},
		{Path: stdlibPath + "/src/lib", Prefix: "lib"},
	}
}
