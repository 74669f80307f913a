package backend

import "strings"

// runtimeSig describes a runtime symbol's arity so the backend can
// declare a matching LLVM function type. Every Nytrix runtime symbol
// operates entirely on tagged i64 values (spec §4.4), so no symbol needs
// a signature richer than "N i64 params, one i64 result".
type runtimeSig struct {
	Params int
	// Void is true for symbols with no meaningful return (e.g.
	// __store64, __clear_panic_env).
	Void bool
}

// runtimeSymbols is the fixed vocabulary of spec §4.5.4: "lower-level
// primitives like __malloc, higher-level ones like __str_concat,
// __flt_add, __call3, etc." This table is the backend's side of that
// contract; internal/rtvalue's exported methods are the Go
// implementations these names are eventually bound to by the JIT/AOT
// linking stage (internal/pipeline).
var runtimeSymbols = map[string]runtimeSig{
	"__malloc":  {Params: 2},
	"__free":    {Params: 1, Void: true},
	"__realloc": {Params: 2},
	"__memcpy":  {Params: 3, Void: true},
	"__memset":  {Params: 3, Void: true},
	"__memcmp":  {Params: 3},

	"__load8":  {Params: 2},
	"__load16": {Params: 2},
	"__load32": {Params: 2},
	"__load64": {Params: 2},
	"__store8":  {Params: 3, Void: true},
	"__store16": {Params: 3, Void: true},
	"__store32": {Params: 3, Void: true},
	"__store64": {Params: 3, Void: true},

	"__add": {Params: 2}, "__sub": {Params: 2}, "__mul": {Params: 2},
	"__div": {Params: 2}, "__mod": {Params: 2},
	"__eq": {Params: 2}, "__lt": {Params: 2}, "__gt": {Params: 2},
	"__le": {Params: 2}, "__ge": {Params: 2},
	"__band": {Params: 2}, "__bor": {Params: 2}, "__bxor": {Params: 2},
	"__shl": {Params: 2}, "__shr": {Params: 2},

	"__flt_add": {Params: 2}, "__flt_sub": {Params: 2},
	"__flt_mul": {Params: 2}, "__flt_div": {Params: 2},

	"__to_str":    {Params: 1},
	"__str_concat": {Params: 2},

	"__set_panic_env":   {Params: 1},
	"__clear_panic_env": {Params: 0, Void: true},
	"__panic":           {Params: 1, Void: true},
	"__get_panic_val":   {Params: 0},
	"__defer_push":      {Params: 2, Void: true},
	"__defer_run":       {Params: 1, Void: true},

	"__thread_spawn": {Params: 2},
	"__thread_join":  {Params: 1},
	"__mutex_new":    {Params: 0},
	"__mutex_lock":   {Params: 1, Void: true},
	"__mutex_unlock": {Params: 1, Void: true},

	"__dlopen":  {Params: 2},
	"__dlsym":   {Params: 2},
	"__dlclose": {Params: 1},
	"__dlerror": {Params: 0},

	"__set_args": {Params: 3, Void: true},
}

// call0..call15 each take the callee plus N tagged arguments.
func init() {
	for n := 0; n <= 15; n++ {
		runtimeSymbols[callSymbolName(n)] = runtimeSig{Params: n + 1}
	}
}

func callSymbolName(arity int) string {
	switch arity {
	case 0:
		return "__call0"
	default:
		return "__call" + itoa(arity)
	}
}

func itoa(n int) string {
	if n < 10 {
		return string(rune('0' + n))
	}
	return itoa(n/10) + string(rune('0'+n%10))
}

// canonicalRuntimeSymbol resolves a disambiguated symbol name like
// "__malloc.9" back to its base "__malloc" (spec §4.5.4: "the backend
// must resolve name-suffix disambiguation").
func canonicalRuntimeSymbol(name string) string {
	if i := strings.IndexByte(name, '.'); i >= 0 {
		return name[:i]
	}
	return name
}

// lookupRuntimeSymbol resolves name (with or without a disambiguation
// suffix) against the fixed vocabulary.
func lookupRuntimeSymbol(name string) (string, runtimeSig, bool) {
	base := canonicalRuntimeSymbol(name)
	sig, ok := runtimeSymbols[base]
	return base, sig, ok
}
