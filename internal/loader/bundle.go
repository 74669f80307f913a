package loader

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/nytrix-lang/nytrix/internal/ast"
	"github.com/nytrix-lang/nytrix/internal/lexer"
	"github.com/nytrix-lang/nytrix/internal/parser"
	"github.com/nytrix-lang/nytrix/internal/token"
)

// Bundle is a single textual bundle plus the map the parser consults to
// attribute diagnostics back to the file a span actually came from (spec
// §4.3 step 6).
type Bundle struct {
	Source    string
	SourceMap *parser.SourceMap
}

// Bundler assembles the standard library, transitively referenced
// modules, and an entry source into one Bundle (spec §4.3).
type Bundler struct {
	Index *Index
	Mode  Mode
}

// Build runs the index→seed→resolve→scan→emit pipeline (spec §4.3).
func (b *Bundler) Build(entryFilename, entrySrc string) (*Bundle, error) {
	resolved := map[string]ModuleEntry{}
	var order []string

	var seed []string
	switch b.Mode {
	case ModeNone:
		// library entirely skipped (spec §4.3, "Failure handling")
	case ModeFull:
		for _, e := range b.Index.All() {
			seed = append(seed, e.Name)
		}
	default: // ModeDefault, ModeUseList
		seed = append(seed, Prelude...)
		entryUses, err := extractUses(entryFilename, entrySrc)
		if err != nil {
			return nil, fmt.Errorf("loader: scanning %s: %w", entryFilename, err)
		}
		for _, u := range entryUses {
			if !u.IsLocal {
				seed = append(seed, u.ModuleName)
			}
		}
	}

	queue := append([]string(nil), seed...)
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		if _, ok := resolved[name]; ok {
			continue
		}
		if e, ok := b.Index.Lookup(name); ok {
			resolved[name] = e
			order = append(order, name)
			src, err := os.ReadFile(e.Path)
			if err != nil {
				if b.Mode == ModeFull {
					return nil, fmt.Errorf("loader: reading module %q: %w", name, err)
				}
				continue
			}
			uses, err := extractUses(e.Path, string(src))
			if err != nil {
				if b.Mode == ModeFull {
					return nil, fmt.Errorf("loader: scanning module %q: %w", name, err)
				}
				continue
			}
			for _, u := range uses {
				if !u.IsLocal {
					queue = append(queue, u.ModuleName)
				}
			}
			continue
		}
		if pkg := b.Index.Package(name); len(pkg) > 0 {
			for _, e := range pkg {
				queue = append(queue, e.Name)
			}
			continue
		}
		if b.Mode == ModeFull {
			return nil, fmt.Errorf("loader: unresolved package %q", name)
		}
		// default/use_list mode: leave unresolved, the parser will
		// diagnose the dangling `use` once it reaches it (spec §4.3,
		// "Failure handling").
	}

	// re-sort by path for stable output ordering (spec §4.3 step 4)
	sort.Slice(order, func(i, j int) bool {
		return resolved[order[i]].Path < resolved[order[j]].Path
	})

	return b.emit(entryFilename, entrySrc, order, resolved)
}

func (b *Bundler) emit(entryFilename, entrySrc string, order []string, resolved map[string]ModuleEntry) (*Bundle, error) {
	var sb strings.Builder
	var boundaries []parser.SourceBoundary
	line := 1

	appendSegment := func(filename, text string) {
		boundaries = append(boundaries, parser.SourceBoundary{Offset: sb.Len(), Filename: filename, LineBase: line - 1})
		sb.WriteString(text)
		if !strings.HasSuffix(text, "\n") {
			sb.WriteString("\n")
			text += "\n"
		}
		line += strings.Count(text, "\n")
	}

	if b.Mode != ModeNone {
		for _, name := range Prelude {
			appendSegment("<prelude>", "use "+name+"\n")
		}
	}

	for _, name := range order {
		e := resolved[name]
		src, err := os.ReadFile(e.Path)
		if err != nil {
			return nil, fmt.Errorf("loader: reading module %q: %w", name, err)
		}
		body := string(src)
		if !hasLeadingModuleDecl(body) {
			body = "module " + name + " {\n" + body + "\n}\n"
		}
		appendSegment(e.Path, body)
	}

	appendSegment(entryFilename, entrySrc)

	return &Bundle{Source: sb.String(), SourceMap: &parser.SourceMap{Boundaries: boundaries}}, nil
}

// extractUses parses just enough of src to pull out its top-level `use`
// statements, including one level into a leading `module { }` wrapper
// (spec §4.3 step 4: "parse only enough to extract its use statements").
func extractUses(filename, src string) ([]ast.UseStmt, error) {
	p := parser.New(filename, src)
	prog := p.ParseProgram()
	var out []ast.UseStmt
	for _, s := range prog.Statements {
		switch st := s.(type) {
		case *ast.UseStmt:
			out = append(out, *st)
		case *ast.ModuleStmt:
			if st.Body != nil {
				for _, inner := range st.Body.Statements {
					if u, ok := inner.(*ast.UseStmt); ok {
						out = append(out, *u)
					}
				}
			}
		}
	}
	return out, nil
}

// hasLeadingModuleDecl peeks the first token of src to decide whether it
// already opens with a `module` declaration (spec §4.3 step 5: "If a
// module's source does not begin with a module declaration, wrap it").
func hasLeadingModuleDecl(src string) bool {
	lx := lexer.New("", src)
	return lx.Peek().Kind == token.KwModule
}
