// Package symboltable implements the global symbol table (L8): minting a
// final, project-unique symbol ID for every declaration across the
// project, recording its visibility and export/import status, and
// following re-export chains so an imported binding ultimately points at
// the symbol that actually defines it.
//
// ID grammar: "file#scope_path#name[:kind_tag]", with an anonymous
// segment rendered as "<anon:row:col>" in place of a missing name. This
// package approximates scope_path with the symbol's already-built
// fully-qualified name (pkg/extractor's scopeSeparator-joined FQN), which
// is the same information a full pkg/scope.Tree.Path walk would produce
// for every *named* declaration; the literal `<anon:row:col>` segment form
// is reserved for symbols pkg/extractor does not currently name on its own
// (anonymous functions/closures are skipped by L2 today).
package symboltable

import (
	"fmt"

	"github.com/relgraph/codegraph/pkg/extractor"
)

// ID is a final, project-unique symbol identifier.
type ID string

// BuiltinID mints the synthetic ID used for standard-library/external
// symbols that have no definition in the project, per spec.md §4.8.
func BuiltinID(language, name string) ID {
	return ID(fmt.Sprintf("builtin:%s:%s", language, name))
}

// Entry is one minted symbol record.
type Entry struct {
	ID         ID
	File       string
	Symbol     extractor.Symbol
	Visibility string
	IsExported bool
	IsImported bool
}

// Table is the project-wide, frozen-after-build symbol table.
type Table struct {
	byID       map[ID]*Entry
	byFileName map[string]map[string]*Entry
}

// Build mints an Entry for every declared symbol across files, then
// resolves re-export chains using each file's own ExportInfo records. A
// re-export's target file comes from extractor's own path guess
// (ExportInfo.ResolvedPath) rather than pkg/modgraph's filesystem-aware L5
// resolution, since L5 only resolves ImportInfo records today; see
// DESIGN.md for the follow-up to route re-export targets through L5 too.
func Build(files []*extractor.PerFileResult) *Table {
	t := &Table{
		byID:       make(map[ID]*Entry),
		byFileName: make(map[string]map[string]*Entry),
	}

	fileByPath := make(map[string]*extractor.PerFileResult, len(files))
	for _, f := range files {
		fileByPath[f.FilePath] = f
	}

	for _, f := range files {
		names := make(map[string]*Entry, len(f.Symbols))
		for _, sym := range f.Symbols {
			entry := &Entry{
				ID:         mintID(f.FilePath, sym),
				File:       f.FilePath,
				Symbol:     sym,
				Visibility: visibilityOf(sym),
				IsExported: sym.IsExported,
			}
			t.byID[entry.ID] = entry
			names[sym.Name] = entry
			names[sym.FullyQualifiedName] = entry
		}
		t.byFileName[f.FilePath] = names
	}

	t.resolveReExports(files, fileByPath)
	return t
}

func mintID(file string, sym extractor.Symbol) ID {
	return ID(fmt.Sprintf("%s#%s:%s", file, sym.FullyQualifiedName, sym.Kind))
}

// visibilityOf normalizes each language's own visibility vocabulary
// (TS/JS accessibility_modifier text, Rust's `pub`/`pub(crate)` scope
// text, Python's underscore convention already folded into IsExported) to
// the "public/crate/module/private" vocabulary spec.md §4.8 names.
func visibilityOf(sym extractor.Symbol) string {
	switch sym.Scope {
	case "private":
		return "private"
	case "protected":
		return "module"
	case "public", "":
		if sym.IsExported {
			return "public"
		}
		return "module"
	case "pub":
		return "public"
	default:
		if len(sym.Scope) >= 4 && sym.Scope[:4] == "pub(" {
			return "crate"
		}
		return "private"
	}
}

// Lookup finds the entry for name within file, trying the bare name first
// and falling back to an exact fully-qualified-name match.
func (t *Table) Lookup(file, name string) (*Entry, bool) {
	names, ok := t.byFileName[file]
	if !ok {
		return nil, false
	}
	e, ok := names[name]
	return e, ok
}

// ByID returns the entry with the given minted ID.
func (t *Table) ByID(id ID) (*Entry, bool) {
	e, ok := t.byID[id]
	return e, ok
}

// resolveReExports walks every file's re-export records (`export { x }
// from './mod'` / `pub use a::b::x`) and binds the re-exporting name to the
// upstream entry, following chains until a non-re-export definition is
// reached or a cycle/dead end is hit.
func (t *Table) resolveReExports(files []*extractor.PerFileResult, fileByPath map[string]*extractor.PerFileResult) {
	for _, f := range files {
		for _, exp := range f.Exports {
			if exp.ExportType != extractor.ExportTypeReExport {
				continue
			}
			target := t.followReExport(f.FilePath, exp, fileByPath, make(map[string]bool))
			if target == nil {
				continue
			}
			alias := &Entry{
				ID:         target.ID,
				File:       f.FilePath,
				Symbol:     target.Symbol,
				Visibility: target.Visibility,
				IsExported: true,
				IsImported: true,
			}
			if t.byFileName[f.FilePath] == nil {
				t.byFileName[f.FilePath] = make(map[string]*Entry)
			}
			t.byFileName[f.FilePath][exp.Name] = alias
		}
	}
}

func (t *Table) followReExport(fromFile string, exp extractor.ExportInfo, fileByPath map[string]*extractor.PerFileResult, visited map[string]bool) *Entry {
	key := fromFile + "#" + exp.Name
	if visited[key] {
		return nil
	}
	visited[key] = true

	if exp.ResolvedPath == "" {
		return nil
	}
	target, ok := t.Lookup(exp.ResolvedPath, exp.Name)
	if !ok {
		return nil
	}

	// The resolved definition might itself be a re-export; chase it.
	targetFile := fileByPath[exp.ResolvedPath]
	if targetFile != nil {
		for _, innerExp := range targetFile.Exports {
			if innerExp.Name == exp.Name && innerExp.ExportType == extractor.ExportTypeReExport {
				if chased := t.followReExport(exp.ResolvedPath, innerExp, fileByPath, visited); chased != nil {
					return chased
				}
			}
		}
	}
	return target
}
