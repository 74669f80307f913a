// Package repldoc is the REPL's `:help` topic index (supplemented,
// grounded on the teacher's scm/declare.go Declaration/Help mechanism).
// The teacher indexes Go-registered builtin functions by name; this
// repository has no such registry (Nytrix's builtins are runtime
// symbols bound at JIT/AOT time, not Scmer-callable Go closures), so the
// index is generalized from "builtin function docs" to "language
// construct docs": one topic per keyword/statement form, in the same
// Name/Desc/Params shape.
package repldoc

import "sort"

// Param documents one piece of a topic's syntax, mirroring the
// teacher's DeclarationParameter (Name/Type/Desc).
type Param struct {
	Name string
	Desc string
}

// Topic is one `:help`-able entry.
type Topic struct {
	Name   string
	Desc   string
	Params []Param
}

var topics = map[string]*Topic{
	"def": {
		Name: "def",
		Desc: "def name = expr   — declares an immutable binding.",
	},
	"mut": {
		Name: "mut",
		Desc: "mut name = expr   — declares a mutable binding.",
	},
	"if": {
		Name: "if",
		Desc: "if cond { ... } else { ... }   — branches on cond's truthiness.",
		Params: []Param{
			{Name: "cond", Desc: "the guard expression"},
		},
	},
	"while": {
		Name: "while",
		Desc: "while cond { ... }   — repeats body while cond holds.",
	},
	"for": {
		Name: "for",
		Desc: "for x in iterable { ... }   — iterates using has_next/next.",
		Params: []Param{
			{Name: "iterable", Desc: "any value exposing has_next()/next()"},
		},
	},
	"try": {
		Name: "try",
		Desc: "try { ... } catch err { ... }   — runs body, binding a thrown value to err on unwind.",
	},
	"defer": {
		Name: "defer",
		Desc: "defer { ... }   — runs body when the enclosing function returns, in reverse declaration order.",
	},
	"fn": {
		Name: "fn",
		Desc: "fn name(params) { ... }   — declares a function.",
	},
	"match": {
		Name: "match",
		Desc: "match expr { pattern -> consequent, ... }   — dispatches on the first matching pattern.",
	},
	"use": {
		Name: "use",
		Desc: "use module.name   — imports a module into scope.",
	},
	"struct": {
		Name: "struct",
		Desc: "struct Name { field: Type, ... }   — declares a fixed-layout record type.",
	},
	"enum": {
		Name: "enum",
		Desc: "enum Name { Item, Item = expr, ... }   — declares a set of named integer constants.",
	},
	"nil": {
		Name: "nil",
		Desc: "the absent-value literal; compare with != or == to narrow a binding's nilness within a branch.",
	},
}

// Lookup returns the topic registered under name, if any.
func Lookup(name string) (*Topic, bool) {
	t, ok := topics[name]
	return t, ok
}

// Names returns every registered topic name, sorted, for `:help` with
// no argument to list (spec-supplemented, mirroring the teacher's
// Help("")'s "Available scm functions" listing).
func Names() []string {
	out := make([]string, 0, len(topics))
	for name := range topics {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Register adds or overwrites a topic — used by internal/docscan's
// ScanModule to extend the index beyond the built-in language
// constructs above.
func Register(t *Topic) {
	topics[t.Name] = t
}
