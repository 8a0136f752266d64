package codegraph

import (
	"strings"

	"github.com/relgraph/codegraph/pkg/calldetect"
	"github.com/relgraph/codegraph/pkg/extractor"
	"github.com/relgraph/codegraph/pkg/inheritance"
	"github.com/relgraph/codegraph/pkg/resolver"
	"github.com/relgraph/codegraph/pkg/symboltable"
	"github.com/relgraph/codegraph/pkg/typereg"
)

// buildModuleGraph flattens modgraph's per-file import records and each
// file's own export list into spec.md §6's `modules` output shape.
func buildModuleGraph(orderedFiles []string, perFiles map[string]*perFile, fr foldResult) ModuleGraph {
	out := make(ModuleGraph, len(orderedFiles))
	for _, path := range orderedFiles {
		pf, ok := perFiles[path]
		if !ok {
			continue
		}
		f := pf.result

		var entry ModuleEntry
		for _, rec := range fr.moduleGraph.ImportsByFile[path] {
			if len(rec.Import.ImportedSymbols) == 0 {
				entry.ImportsResolved = append(entry.ImportsResolved, ResolvedImport{
					Local:      rec.Import.Namespace,
					TargetFile: rec.ResolvedFile,
					Resolved:   rec.Resolved,
				})
				continue
			}
			for local, exported := range rec.Import.ImportedSymbols {
				entry.ImportsResolved = append(entry.ImportsResolved, ResolvedImport{
					Local:        local,
					TargetFile:   rec.ResolvedFile,
					ExternalName: exported,
					Resolved:     rec.Resolved,
				})
			}
		}

		for _, exp := range f.Exports {
			var id symboltable.ID
			if entry2, ok := fr.table.Lookup(path, exp.Name); ok {
				id = entry2.ID
			}
			entry.Exports = append(entry.Exports, ExportedSymbol{
				Name:      exp.Name,
				SymbolID:  id,
				IsDefault: exp.ExportType == extractor.ExportTypeDefault,
			})
		}

		out[path] = entry
	}
	return out
}

// buildClassHierarchy reshapes the type registry + inheritance graph into
// spec.md §6's `classes` output, one node per cataloged class/interface.
func buildClassHierarchy(reg *typereg.Registry, inh *inheritance.Graph) ClassHierarchy {
	entries := reg.All()
	out := make(ClassHierarchy, len(entries))
	for _, e := range entries {
		key := e.Key
		out[key] = &ClassNode{
			Key:            key,
			DirectParents:  inh.ExtendsMap[key],
			Implements:     inh.ImplementsMap[key],
			AllAncestors:   inh.AllAncestors[key],
			AllDescendants: inh.AllDescendants[key],
			MRO:            inh.MRO[key],
			Unresolved:     inh.Unresolved[key],
		}
	}
	return out
}

// buildCallGraph resolves every L4 call record against fr's registries
// (L9), then assembles spec.md §6's `calls` output: one CallNode per
// distinct resolved symbol, with outgoing Calls edges on the caller and
// CalledBy back-references on the callee.
func buildCallGraph(orderedFiles []string, perFiles map[string]*perFile, fr foldResult) (CallGraph, []FileErrorRecord) {
	graph := make(CallGraph)
	var errs []FileErrorRecord

	node := func(id symboltable.ID) *CallNode {
		n, ok := graph[id]
		if !ok {
			n = &CallNode{Signature: signatureFor(fr.table, id)}
			graph[id] = n
		}
		return n
	}

	for _, path := range orderedFiles {
		pf, ok := perFiles[path]
		if !ok {
			continue
		}
		f := pf.result
		for _, rec := range fr.callsByFile[path] {
			res := fr.resolver.ResolveCall(rec, path, f.Language)
			if res.State == resolver.StateUnresolved {
				loc := rec.Site.Location
				errs = append(errs, FileErrorRecord{
					File: path, Layer: "L9", Kind: ErrorKindResolve,
					Message: res.Reason, Location: &loc,
				})
				continue
			}

			calleeNode := node(res.SymbolID)
			callerID, hasCaller := callerFor(f, fr.table, rec.Site.Location.StartByte)
			if !hasCaller {
				continue
			}
			callerNode := node(callerID)
			callerNode.Calls = append(callerNode.Calls, CallEdge{
				Callee: res.SymbolID,
				Kind:   callEdgeKind(rec.Kind),
				Site:   rec.Site.Location,
			})
			calleeNode.CalledBy = append(calleeNode.CalledBy, callerID)
		}
	}

	for _, n := range graph {
		n.IsEntryPoint = len(n.CalledBy) == 0
	}

	return graph, errs
}

// buildSymbolIndex reshapes the symbol table into spec.md §6's `symbols`
// output, cross-referencing each symbol with the call sites (from the call
// graph just built) that invoke it.
func buildSymbolIndex(orderedFiles []string, perFiles map[string]*perFile, table *symboltable.Table, graph CallGraph) SymbolIndex {
	idx := make(SymbolIndex)
	for _, path := range orderedFiles {
		pf, ok := perFiles[path]
		if !ok {
			continue
		}
		for _, sym := range pf.result.Symbols {
			entry, ok := table.Lookup(path, sym.FullyQualifiedName)
			if !ok {
				continue
			}
			if _, exists := idx[entry.ID]; !exists {
				idx[entry.ID] = &SymbolRecord{Entry: *entry}
			}
		}
	}

	for calleeID, calleeNode := range graph {
		rec, ok := idx[calleeID]
		if !ok {
			continue
		}
		for _, callerID := range calleeNode.CalledBy {
			callerNode, ok := graph[callerID]
			if !ok {
				continue
			}
			for _, edge := range callerNode.Calls {
				if edge.Callee == calleeID {
					rec.CalledFrom = append(rec.CalledFrom, edge.Site)
				}
			}
		}
	}
	return idx
}

// buildFileAnalysis reshapes one file's layered results into spec.md §6's
// per-file output, splitting L4's three call-record slices back apart by
// kind for the public shape's Functions/Classes/Variables-style grouping.
func buildFileAnalysis(path string, pf *perFile, records []calldetect.CallRecord, fileErrs []FileErrorRecord, fr foldResult) *FileAnalysis {
	f := pf.result
	fa := &FileAnalysis{
		FilePath:   path,
		Language:   f.Language,
		Scopes:     pf.scope,
		Imports:    f.Imports,
		Exports:    f.Exports,
		References: resolveReferences(path, pf, fr),
		Errors:     fileErrs,
	}

	for _, sym := range f.Symbols {
		switch sym.Kind {
		case extractor.SymbolKindFunction, extractor.SymbolKindMethod:
			fa.Functions = append(fa.Functions, sym)
		case extractor.SymbolKindClass, extractor.SymbolKindInterface, extractor.SymbolKindEnum, extractor.SymbolKindType:
			fa.Classes = append(fa.Classes, sym)
		default:
			fa.Variables = append(fa.Variables, sym)
		}
	}

	for _, rec := range records {
		switch rec.Kind {
		case calldetect.KindMethodCall:
			fa.MethodCalls = append(fa.MethodCalls, rec)
		case calldetect.KindConstructorCall:
			fa.ConstructorCalls = append(fa.ConstructorCalls, rec)
		default:
			fa.FunctionCalls = append(fa.FunctionCalls, rec)
		}
	}

	return fa
}

// resolveReferences runs every one of a file's L2 references through L9's
// lexical-walk resolver (pkg/resolver.Resolver.ResolveReference), per
// spec.md §4.9's "resolves every reference from L2" half of the algorithm.
// Unlike call resolution, an unresolved reference isn't reported as a
// project error: a name that resolves to nothing (a bare identifier used
// as a string, a destructuring pattern target, a language keyword the
// references query couldn't distinguish from an identifier) is expected
// noise at this granularity, not a defect to surface.
func resolveReferences(path string, pf *perFile, fr foldResult) []ResolvedReference {
	f := pf.result
	if len(f.References) == 0 {
		return nil
	}

	out := make([]ResolvedReference, 0, len(f.References))
	for _, ref := range f.References {
		res := fr.resolver.ResolveReference(ref, path, f.Language, pf.scope)
		out = append(out, ResolvedReference{
			Name:     ref.Name,
			Location: ref.Location,
			State:    res.State,
			SymbolID: res.SymbolID,
			Reason:   res.Reason,
		})
	}
	return out
}

// enclosingSymbol returns the innermost function/method symbol in f whose
// declared range contains offset, the unit buildCallGraph treats as "the
// caller" of any call site nested inside it.
func enclosingSymbol(f *extractor.PerFileResult, offset uint32) (*extractor.Symbol, bool) {
	var best *extractor.Symbol
	for i := range f.Symbols {
		sym := &f.Symbols[i]
		if sym.Kind != extractor.SymbolKindFunction && sym.Kind != extractor.SymbolKindMethod {
			continue
		}
		if offset < sym.Location.StartByte || offset >= sym.Location.EndByte {
			continue
		}
		if best == nil || symbolSpan(sym) < symbolSpan(best) {
			best = sym
		}
	}
	if best == nil {
		return nil, false
	}
	return best, true
}

func symbolSpan(sym *extractor.Symbol) uint32 {
	return sym.Location.EndByte - sym.Location.StartByte
}

func callerFor(f *extractor.PerFileResult, table *symboltable.Table, offset uint32) (symboltable.ID, bool) {
	sym, ok := enclosingSymbol(f, offset)
	if !ok {
		return "", false
	}
	entry, ok := table.Lookup(f.FilePath, sym.FullyQualifiedName)
	if !ok {
		return "", false
	}
	return entry.ID, true
}

func signatureFor(table *symboltable.Table, id symboltable.ID) string {
	if entry, ok := table.ByID(id); ok {
		return signatureOf(&entry.Symbol)
	}
	return string(id)
}

func signatureOf(sym *extractor.Symbol) string {
	return sym.FullyQualifiedName + "(" + strings.Join(sym.Parameters, ", ") + ")"
}

func callEdgeKind(k calldetect.Kind) CallEdgeKind {
	switch k {
	case calldetect.KindMethodCall:
		return CallEdgeMethod
	case calldetect.KindConstructorCall:
		return CallEdgeConstructor
	default:
		return CallEdgeDirect
	}
}
