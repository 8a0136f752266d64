// Package modgraph implements the module graph (L5): resolving each
// file's import records to the absolute path of the file they name,
// against the actual set of files discovered in the project (not just a
// best-guess string join the way the extractor's placeholder resolver
// does before this layer runs).
package modgraph

import (
	"path/filepath"
	"strings"

	"github.com/relgraph/codegraph/pkg/extractor"
	"github.com/relgraph/codegraph/pkg/parser"
)

// Record pairs one import with its resolution outcome.
type Record struct {
	Import       extractor.ImportInfo
	ResolvedFile string
	Resolved     bool
}

// Graph is the project-wide module graph: for every analyzed file, the
// list of its imports paired with their resolved target file (if any).
type Graph struct {
	// ImportsByFile mirrors spec.md §4.5's `imports_by_file` output.
	ImportsByFile map[string][]Record

	known map[string]bool
}

// jsExtensions and rustUnresolvedCrates follow spec.md §4.5 verbatim.
var jsExtensions = []string{".ts", ".tsx", ".js", ".jsx", ".mjs", ".cjs"}

var rustUnresolvedCrates = map[string]bool{
	"std": true, "core": true, "alloc": true, "proc_macro": true, "test": true,
}

// Build constructs a Graph over the given per-file results, resolving every
// import against the set of file paths those results cover.
func Build(files []*extractor.PerFileResult) *Graph {
	known := make(map[string]bool, len(files))
	for _, f := range files {
		known[f.FilePath] = true
	}

	g := &Graph{
		ImportsByFile: make(map[string][]Record, len(files)),
		known:         known,
	}

	for _, f := range files {
		records := make([]Record, 0, len(f.Imports))
		for _, imp := range f.Imports {
			resolved, ok := g.resolve(imp, f.FilePath, f.Language)
			records = append(records, Record{Import: imp, ResolvedFile: resolved, Resolved: ok})
		}
		g.ImportsByFile[f.FilePath] = records
	}
	return g
}

func (g *Graph) resolve(imp extractor.ImportInfo, fromFile string, lang parser.Language) (string, bool) {
	switch lang {
	case parser.LanguageTypeScript, parser.LanguageJavaScript:
		return g.resolveJS(imp, fromFile)
	case parser.LanguagePython:
		return g.resolvePython(imp, fromFile)
	case parser.LanguageRust:
		return g.resolveRust(imp, fromFile)
	default:
		return "", false
	}
}

// resolveJS implements spec.md §4.5's JS/TS rule: relative paths try each
// extension in jsExtensions, then an index.* file in the named directory;
// bare specifiers (no leading "." or "/") are external packages and are
// left unresolved (Node built-ins included).
func (g *Graph) resolveJS(imp extractor.ImportInfo, fromFile string) (string, bool) {
	if imp.IsExternal {
		return "", false
	}
	dir := filepath.Dir(fromFile)
	base := filepath.Clean(filepath.Join(dir, imp.Source))

	if filepath.Ext(base) != "" && g.known[base] {
		return base, true
	}
	for _, ext := range jsExtensions {
		if candidate := base + ext; g.known[candidate] {
			return candidate, true
		}
	}
	for _, ext := range jsExtensions {
		if candidate := filepath.Join(base, "index"+ext); g.known[candidate] {
			return candidate, true
		}
	}
	return "", false
}

// resolvePython implements spec.md §4.5's Python rule: leading dots walk up
// the directory tree (N dots = N-1 parent steps beyond the current file's
// package directory), then the remaining dotted path segments are tried as
// "name.py" and "name/__init__.py"; absolute (no leading dot) imports are
// tried the same way from the topmost directory of the unbroken chain of
// __init__.py packages above the file, i.e. the top of the current package.
func (g *Graph) resolvePython(imp extractor.ImportInfo, fromFile string) (string, bool) {
	source := imp.Source
	dir := filepath.Dir(fromFile)

	dots := 0
	for dots < len(source) && source[dots] == '.' {
		dots++
	}
	rest := source[dots:]

	var baseDir string
	if dots > 0 {
		baseDir = dir
		for i := 1; i < dots; i++ {
			baseDir = filepath.Dir(baseDir)
		}
	} else {
		baseDir = g.packageRoot(dir)
	}

	if rest == "" {
		return g.tryPythonModule(baseDir, "", true)
	}

	segments := strings.Split(rest, ".")
	modPath := filepath.Join(segments...)
	return g.tryPythonModule(baseDir, modPath, false)
}

func (g *Graph) tryPythonModule(baseDir, modPath string, packageOnly bool) (string, bool) {
	if !packageOnly {
		if candidate := filepath.Join(baseDir, modPath+".py"); g.known[candidate] {
			return candidate, true
		}
	}
	if candidate := filepath.Join(baseDir, modPath, "__init__.py"); g.known[candidate] {
		return candidate, true
	}
	return "", false
}

// packageRoot walks up from dir while the parent directory still contains
// an __init__.py, returning the topmost package directory found.
func (g *Graph) packageRoot(dir string) string {
	cur := dir
	for {
		parent := filepath.Dir(cur)
		if parent == cur {
			return cur
		}
		if !g.known[filepath.Join(parent, "__init__.py")] {
			return cur
		}
		cur = parent
	}
}

// resolveRust implements spec.md §4.5's Rust rule.
func (g *Graph) resolveRust(imp extractor.ImportInfo, fromFile string) (string, bool) {
	source := imp.Source
	dir := filepath.Dir(fromFile)

	switch {
	case source == "self" || strings.HasPrefix(source, "self::"):
		rest := strings.TrimPrefix(strings.TrimPrefix(source, "self"), "::")
		return g.tryRustModule(dir, rest)

	case source == "super" || strings.HasPrefix(source, "super::"):
		rest := strings.TrimPrefix(strings.TrimPrefix(source, "super"), "::")
		return g.tryRustModule(filepath.Dir(dir), rest)

	case source == "crate" || strings.HasPrefix(source, "crate::"):
		rest := strings.TrimPrefix(strings.TrimPrefix(source, "crate"), "::")
		root := g.crateRoot(dir)
		if root == "" {
			return "", false
		}
		return g.tryRustModule(root, rest)

	default:
		head := strings.SplitN(source, "::", 2)[0]
		if rustUnresolvedCrates[head] {
			return "", false
		}
		rest := strings.ReplaceAll(source, "::", string(filepath.Separator))
		return g.tryRustModule(dir, rest)
	}
}

func (g *Graph) tryRustModule(dir, relPath string) (string, bool) {
	if relPath == "" {
		return "", false
	}
	if candidate := filepath.Join(dir, relPath+".rs"); g.known[candidate] {
		return candidate, true
	}
	if candidate := filepath.Join(dir, relPath, "mod.rs"); g.known[candidate] {
		return candidate, true
	}
	return "", false
}

// crateRoot walks up from dir looking for a directory containing lib.rs or
// main.rs, treating that directory as the crate root (a lightweight stand-
// in for a full Cargo.toml workspace lookup, sufficient for single-crate
// analysis runs; multi-crate workspaces are not handled).
func (g *Graph) crateRoot(dir string) string {
	cur := dir
	for {
		if g.known[filepath.Join(cur, "lib.rs")] || g.known[filepath.Join(cur, "main.rs")] {
			return cur
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return ""
		}
		cur = parent
	}
}
