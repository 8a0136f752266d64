package codegraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relgraph/codegraph/pkg/calldetect"
	"github.com/relgraph/codegraph/pkg/extractor"
	"github.com/relgraph/codegraph/pkg/inheritance"
	"github.com/relgraph/codegraph/pkg/modgraph"
	"github.com/relgraph/codegraph/pkg/parser"
	"github.com/relgraph/codegraph/pkg/resolver"
	"github.com/relgraph/codegraph/pkg/scope"
	"github.com/relgraph/codegraph/pkg/symboltable"
	"github.com/relgraph/codegraph/pkg/typereg"
)

// buildFoldResult wires up L5-L8 the same way fold() does, for tests that
// only need to exercise assemble.go without going through a real parse.
func buildFoldResult(files []*extractor.PerFileResult, callsByFile map[string][]calldetect.CallRecord) foldResult {
	mg := modgraph.Build(files)
	reg := typereg.Build(files)
	inh := inheritance.Build(reg, mg)
	table := symboltable.Build(files)

	fileMap := make(map[string]*extractor.PerFileResult, len(files))
	for _, f := range files {
		fileMap[f.FilePath] = f
	}

	res := &resolver.Resolver{
		Table:       table,
		TypeReg:     reg,
		ModuleGraph: mg,
		Inheritance: inh,
		Files:       fileMap,
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

func TestBuildCallGraph_LocalFunctionCall(t *testing.T) {
	caller := extractor.Symbol{
		Name: "main", FullyQualifiedName: "main", Kind: extractor.SymbolKindFunction,
		Location: extractor.Location{StartByte: 0, EndByte: 100},
	}
	callee := extractor.Symbol{
		Name: "helper", FullyQualifiedName: "helper", Kind: extractor.SymbolKindFunction,
		Location: extractor.Location{StartByte: 100, EndByte: 150},
	}
	file := &extractor.PerFileResult{
		FilePath: "app.ts",
		Language: parser.LanguageTypeScript,
		Symbols:  []extractor.Symbol{caller, callee},
	}
	perFiles := map[string]*perFile{
		"app.ts": {result: file, scope: scope.NewTree("app.ts", scope.KindModule, extractor.Location{})},
	}
	calls := map[string][]calldetect.CallRecord{
		"app.ts": {
			{
				Kind:   calldetect.KindFunctionCall,
				Callee: "helper",
				Site: extractor.CallSite{
					Shape: extractor.ShapePlainCall, Callee: "helper",
					Location: extractor.Location{FilePath: "app.ts", StartByte: 20, EndByte: 35},
				},
			},
		},
	}

	fr := buildFoldResult([]*extractor.PerFileResult{file}, calls)
	graph, errs := buildCallGraph([]string{"app.ts"}, perFiles, fr)
	require.Empty(t, errs)

	calleeEntry, ok := fr.table.Lookup("app.ts", "helper")
	require.True(t, ok)
	node, ok := graph[calleeEntry.ID]
	require.True(t, ok)
	assert.Len(t, node.CalledBy, 1)
	assert.False(t, node.IsEntryPoint)

	callerEntry, ok := fr.table.Lookup("app.ts", "main")
	require.True(t, ok)
	callerNode, ok := graph[callerEntry.ID]
	require.True(t, ok)
	require.Len(t, callerNode.Calls, 1)
	assert.Equal(t, CallEdgeDirect, callerNode.Calls[0].Kind)
	assert.True(t, callerNode.IsEntryPoint)
}

func TestBuildCallGraph_UnresolvedRecordsError(t *testing.T) {
	file := &extractor.PerFileResult{FilePath: "app.py", Language: parser.LanguagePython}
	perFiles := map[string]*perFile{
		"app.py": {result: file, scope: scope.NewTree("app.py", scope.KindModule, extractor.Location{})},
	}
	calls := map[string][]calldetect.CallRecord{
		"app.py": {{Kind: calldetect.KindFunctionCall, Callee: "mystery", Site: extractor.CallSite{Location: extractor.Location{FilePath: "app.py"}}}},
	}

	fr := buildFoldResult([]*extractor.PerFileResult{file}, calls)
	_, errs := buildCallGraph([]string{"app.py"}, perFiles, fr)
	require.Len(t, errs, 1)
	assert.Equal(t, ErrorKindResolve, errs[0].Kind)
	assert.Equal(t, "L9", errs[0].Layer)
}

func TestEnclosingSymbol_PicksInnermost(t *testing.T) {
	outer := extractor.Symbol{Name: "outer", FullyQualifiedName: "outer", Kind: extractor.SymbolKindFunction, Location: extractor.Location{StartByte: 0, EndByte: 100}}
	inner := extractor.Symbol{Name: "inner", FullyQualifiedName: "outer.inner", Kind: extractor.SymbolKindFunction, Location: extractor.Location{StartByte: 10, EndByte: 50}}
	f := &extractor.PerFileResult{FilePath: "x.ts", Symbols: []extractor.Symbol{outer, inner}}

	sym, ok := enclosingSymbol(f, 20)
	require.True(t, ok)
	assert.Equal(t, "outer.inner", sym.FullyQualifiedName)
}

func TestCallEdgeKind(t *testing.T) {
	assert.Equal(t, CallEdgeMethod, callEdgeKind(calldetect.KindMethodCall))
	assert.Equal(t, CallEdgeConstructor, callEdgeKind(calldetect.KindConstructorCall))
	assert.Equal(t, CallEdgeDirect, callEdgeKind(calldetect.KindFunctionCall))
}

func TestBuildClassHierarchy_KeyedByFileAndName(t *testing.T) {
	base := extractor.Symbol{Name: "Animal", FullyQualifiedName: "Animal", Kind: extractor.SymbolKindClass}
	derived := extractor.Symbol{Name: "Dog", FullyQualifiedName: "Dog", Kind: extractor.SymbolKindClass, Extends: []string{"Animal"}}
	file := &extractor.PerFileResult{FilePath: "zoo.ts", Language: parser.LanguageTypeScript, Symbols: []extractor.Symbol{base, derived}}

	reg := typereg.Build([]*extractor.PerFileResult{file})
	mg := modgraph.Build([]*extractor.PerFileResult{file})
	inh := inheritance.Build(reg, mg)

	hierarchy := buildClassHierarchy(reg, inh)
	dogKey := typereg.Key{File: "zoo.ts", Name: "Dog"}
	node, ok := hierarchy[dogKey]
	require.True(t, ok)
	assert.Contains(t, node.DirectParents, typereg.Key{File: "zoo.ts", Name: "Animal"})
}
