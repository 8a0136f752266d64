package codegraph

import (
	"log/slog"

	"github.com/relgraph/codegraph/pkg/calldetect"
	"github.com/relgraph/codegraph/pkg/extractor"
	"github.com/relgraph/codegraph/pkg/inheritance"
	"github.com/relgraph/codegraph/pkg/modgraph"
	"github.com/relgraph/codegraph/pkg/resolver"
	"github.com/relgraph/codegraph/pkg/scope"
	"github.com/relgraph/codegraph/pkg/symboltable"
	"github.com/relgraph/codegraph/pkg/typereg"
)

// foldResult bundles the L5-L8 project-wide registries, plus each file's L4
// call records resolved against them, so codegraph.go's Analyze can
// assemble the public ProjectCodeGraph from it in one final pass.
type foldResult struct {
	moduleGraph *modgraph.Graph
	typeReg     *typereg.Registry
	inheritance *inheritance.Graph
	table       *symboltable.Table
	resolver    *resolver.Resolver
	callsByFile map[string][]calldetect.CallRecord
}

// fold runs L5 through L9 as single-threaded passes over the fan-out's
// per-file bundles, in sorted file order, per spec.md §5's rule that the
// project-wide layers are folds rather than fan-outs.
//
// L4 (call classification) runs here rather than inside the parallel
// fan-out: its chained- and namespace-call shapes need the module graph
// (L5) and per-file return types to resolve cross-file, so it has to wait
// for L5 the same way L6-L9 do. This reorders spec.md §4's literal
// "L1-L4 fan-out, then L5-L7 folds" framing; the dependency is real (a
// chained or namespaced call cannot be resolved before imports are), so the
// reorder is kept here rather than forcing a second, wasted per-file pass.
func fold(orderedFiles []string, perFiles map[string]*perFile, logger *slog.Logger) foldResult {
	results := make([]*extractor.PerFileResult, 0, len(orderedFiles))
	filesByPath := make(map[string]*extractor.PerFileResult, len(orderedFiles))
	for _, path := range orderedFiles {
		pf, ok := perFiles[path]
		if !ok {
			continue
		}
		results = append(results, pf.result)
		filesByPath[path] = pf.result
	}

	mg := modgraph.Build(results)

	exportsByFile := buildExportsByFile(results)

	callsByFile := make(map[string][]calldetect.CallRecord, len(orderedFiles))
	for _, path := range orderedFiles {
		pf, ok := perFiles[path]
		if !ok {
			continue
		}
		f := pf.result

		cr := &calldetect.Resolver{
			Tracker:          pf.tracker,
			Scope:            pf.scope,
			Lang:             f.Language,
			ReturnTypeOf:     returnTypeLookup(f.FilePath, filesByPath, mg),
			NamespaceExports: namespaceExportsFor(f.FilePath, mg, exportsByFile),
		}
		records := cr.Resolve(f.CallSites)
		fixupReceiverKeywords(records, pf.scope)
		callsByFile[path] = records
	}

	reg := typereg.Build(results)
	inh := inheritance.Build(reg, mg)
	table := symboltable.Build(results)

	res := &resolver.Resolver{
		Table:       table,
		TypeReg:     reg,
		ModuleGraph: mg,
		Inheritance: inh,
		Files:       filesByPath,
	}

	return foldResult{
		moduleGraph: mg,
		typeReg:     reg,
		inheritance: inh,
		table:       table,
		resolver:    res,
		callsByFile: callsByFile,
	}
}

// returnTypeLookup builds the per-file ReturnTypeOf closure calldetect's
// chained-call resolution needs: a same-file function/method by name
// first, then the same name reached through one of the file's resolved
// imports.
func returnTypeLookup(file string, filesByPath map[string]*extractor.PerFileResult, mg *modgraph.Graph) func(string) (string, bool) {
	return func(name string) (string, bool) {
		if f, ok := filesByPath[file]; ok {
			if rt, ok := returnTypeIn(f, name); ok {
				return rt, true
			}
		}
		if mg == nil {
			return "", false
		}
		for _, rec := range mg.ImportsByFile[file] {
			if !rec.Resolved {
				continue
			}
			exportedName, imported := rec.Import.ImportedSymbols[name]
			if !imported {
				continue
			}
			if tf, ok := filesByPath[rec.ResolvedFile]; ok {
				if rt, ok := returnTypeIn(tf, exportedName); ok {
					return rt, true
				}
			}
		}
		return "", false
	}
}

func returnTypeIn(f *extractor.PerFileResult, name string) (string, bool) {
	for _, sym := range f.Symbols {
		if (sym.Kind == extractor.SymbolKindFunction || sym.Kind == extractor.SymbolKindMethod) && sym.Name == name && sym.ReturnType != "" {
			return sym.ReturnType, true
		}
	}
	return "", false
}

// buildExportsByFile computes, for every file, the full set of names it
// exports — including names it only re-exports transitively through a
// wildcard re-export (`export * from './ops'`). A file's own direct
// exports are recorded as-is; a namespace/wildcard ExportInfo instead
// records its resolved target file as a re-export source, and the final
// set for that file is the closure over all such sources. Cycles (a
// re-export chain that loops back on itself) are broken rather than
// recursed forever: a file being resolved when its own resolution is
// requested again contributes nothing further.
func buildExportsByFile(results []*extractor.PerFileResult) map[string]map[string]bool {
	direct := make(map[string]map[string]bool, len(results))
	reexportSources := make(map[string][]string, len(results))
	for _, f := range results {
		names := make(map[string]bool, len(f.Exports))
		for _, exp := range f.Exports {
			if exp.ExportType == extractor.ExportTypeNamespace {
				if exp.ResolvedPath != "" {
					reexportSources[f.FilePath] = append(reexportSources[f.FilePath], exp.ResolvedPath)
				}
				continue
			}
			names[exp.Name] = true
		}
		direct[f.FilePath] = names
	}

	resolved := make(map[string]map[string]bool, len(results))
	var resolve func(file string, visiting map[string]bool) map[string]bool
	resolve = func(file string, visiting map[string]bool) map[string]bool {
		if cached, ok := resolved[file]; ok {
			return cached
		}
		if visiting[file] {
			return nil
		}
		visiting[file] = true

		names := make(map[string]bool, len(direct[file]))
		for name := range direct[file] {
			names[name] = true
		}
		for _, source := range reexportSources[file] {
			for name := range resolve(source, visiting) {
				names[name] = true
			}
		}

		delete(visiting, file)
		resolved[file] = names
		return names
	}

	exportsByFile := make(map[string]map[string]bool, len(results))
	for _, f := range results {
		exportsByFile[f.FilePath] = resolve(f.FilePath, make(map[string]bool))
	}
	return exportsByFile
}

// namespaceExportsFor builds the per-file NamespaceExports closure: given a
// local `import * as alias` binding, the set of names the aliased module
// actually exports, expanded through any wildcard re-export chain the
// aliased module itself follows (see buildExportsByFile).
func namespaceExportsFor(file string, mg *modgraph.Graph, exportsByFile map[string]map[string]bool) func(string) (map[string]bool, bool) {
	return func(alias string) (map[string]bool, bool) {
		if mg == nil {
			return nil, false
		}
		for _, rec := range mg.ImportsByFile[file] {
			if rec.Import.ImportType != extractor.ImportTypeNamespace || rec.Import.Namespace != alias {
				continue
			}
			if !rec.Resolved {
				return nil, false
			}
			exports, ok := exportsByFile[rec.ResolvedFile]
			return exports, ok
		}
		return nil, false
	}
}

// fixupReceiverKeywords substitutes the real enclosing class name for the
// this/self/super placeholder calldetect.Resolver leaves on these receiver
// shapes (see calldetect.Resolver.resolveMethodCall), so L9's method
// resolution gets an actual type name to look up instead of a bare keyword.
//
// super is resolved identically to this/self here: the enclosing class's
// own MRO, not strictly the parent's. True super semantics would need the
// inheritance graph (L7) available before L4 runs, which would invert an
// already-inverted-from-spec ordering a second time; kept as a known
// simplification rather than attempted.
func fixupReceiverKeywords(records []calldetect.CallRecord, tree *scope.Tree) {
	if tree == nil {
		return
	}
	for i := range records {
		rec := &records[i]
		switch rec.Site.Shape {
		case extractor.ShapeThisCall, extractor.ShapeSelfCall, extractor.ShapeSuperCall:
			if cls, ok := tree.EnclosingClass(rec.Site.Location.StartByte); ok {
				rec.ReceiverType = cls
				rec.ReceiverResolved = true
			}
		}
	}
}
