package pipeline

import (
	"fmt"

	"github.com/dc0d/onexit"
	"github.com/nytrix-lang/nytrix/internal/backend"
)

// Executor is implemented by a Backend that can actually run the module
// it just emitted (spec §4.5.6: "initialise the backend's JIT... look
// up __script_top and call it"). The bundled reference backend
// (internal/backend.RefBackend) does not implement it — its
// Module.Handle is a textual skeleton, not executable code — so
// runJIT below fails with a clear error rather than pretending to
// execute anything; a real LLVM-backed Backend substituted in its
// place is expected to satisfy this interface.
type Executor interface {
	// Execute registers every runtime symbol address in symbols, looks
	// up __script_top, calls it with no arguments, and returns its
	// untagged result as an int32 exit code. It must not additionally
	// call main() (spec §4.5.6: "the script's top-level controls
	// exit").
	Execute(mod *backend.Module, symbols map[string]uintptr) (int32, error)
}

// Disposer is optionally implemented by an Executor to release its JIT
// engine's resources (code caches, module memory managers) once this
// process is done with it. runJIT registers it as an onexit hook rather
// than calling it directly, so the engine still gets torn down even if
// the executed script's own top-level exits the process on its way out.
type Disposer interface {
	Dispose()
}

// runJIT implements spec §4.5.6 on top of whichever Backend produced
// mod: collect every runtime symbol mod.RuntimeSymbols references plus
// every interned string's symbol into one name-to-address mapping, each
// address left 0 for the backend to resolve, then hand both to the
// backend's execution engine.
func runJIT(be backend.Backend, mod *backend.Module) (int32, error) {
	ex, ok := be.(Executor)
	if !ok {
		return 0, fmt.Errorf("pipeline: backend %T does not implement Executor, run-JIT mode needs a backend that can execute the module it emits", be)
	}

	if d, ok := be.(Disposer); ok {
		onexit.Register(d.Dispose)
	}

	symbols := make(map[string]uintptr, len(mod.RuntimeSymbols)+len(mod.Interns))
	for _, name := range mod.RuntimeSymbols {
		symbols[name] = 0 // resolved by the backend's own runtime-symbol table at Execute time
	}
	for _, in := range mod.Interns {
		symbols[in.Symbol] = 0
	}

	return ex.Execute(mod, symbols)
}
