package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relgraph/codegraph/pkg/calldetect"
	"github.com/relgraph/codegraph/pkg/extractor"
	"github.com/relgraph/codegraph/pkg/inheritance"
	"github.com/relgraph/codegraph/pkg/modgraph"
	"github.com/relgraph/codegraph/pkg/parser"
	"github.com/relgraph/codegraph/pkg/symboltable"
	"github.com/relgraph/codegraph/pkg/typereg"
)

func buildResolver(files []*extractor.PerFileResult) *Resolver {
	table := symboltable.Build(files)
	reg := typereg.Build(files)
	mg := modgraph.Build(files)
	inh := inheritance.Build(reg, mg)

	fileMap := make(map[string]*extractor.PerFileResult, len(files))
	for _, f := range files {
		fileMap[f.FilePath] = f
	}

	return &Resolver{Table: table, TypeReg: reg, ModuleGraph: mg, Inheritance: inh, Files: fileMap}
}

func TestResolveCall_LocalFunctionCall(t *testing.T) {
	files := []*extractor.PerFileResult{
		{
			FilePath: "app.ts",
			Language: parser.LanguageTypeScript,
			Symbols: []extractor.Symbol{
				{Name: "helper", FullyQualifiedName: "helper", Kind: extractor.SymbolKindFunction},
			},
		},
	}
	r := buildResolver(files)
	res := r.ResolveCall(calldetect.CallRecord{Kind: calldetect.KindFunctionCall, Callee: "helper"}, "app.ts", parser.LanguageTypeScript)
	require.Equal(t, StateResolved, res.State)
	assert.Equal(t, symboltable.ID("app.ts#helper:function"), res.SymbolID)
}

func TestResolveCall_BuiltinFallback(t *testing.T) {
	r := buildResolver(nil)
	res := r.ResolveCall(calldetect.CallRecord{Kind: calldetect.KindFunctionCall, Callee: "print"}, "app.py", parser.LanguagePython)
	assert.Equal(t, StateBuiltin, res.State)
}

func TestResolveCall_UnresolvedWhenNothingMatches(t *testing.T) {
	r := buildResolver(nil)
	res := r.ResolveCall(calldetect.CallRecord{Kind: calldetect.KindFunctionCall, Callee: "mysteryFn"}, "app.ts", parser.LanguageTypeScript)
	assert.Equal(t, StateUnresolved, res.State)
	assert.NotEmpty(t, res.Reason)
}

func TestResolveCall_MethodCallWalksMRO(t *testing.T) {
	files := []*extractor.PerFileResult{
		{
			FilePath: "models.ts",
			Language: parser.LanguageTypeScript,
			Symbols: []extractor.Symbol{
				{Name: "Base", FullyQualifiedName: "Base", Kind: extractor.SymbolKindClass},
				{Name: "save", FullyQualifiedName: "Base.save", Kind: extractor.SymbolKindMethod},
				{Name: "Derived", FullyQualifiedName: "Derived", Kind: extractor.SymbolKindClass, Extends: []string{"Base"}},
			},
		},
	}
	r := buildResolver(files)
	rec := calldetect.CallRecord{
		Kind:             calldetect.KindMethodCall,
		Callee:           "save",
		ReceiverType:     "Derived",
		ReceiverResolved: true,
	}
	res := r.ResolveCall(rec, "models.ts", parser.LanguageTypeScript)
	require.Equal(t, StateResolved, res.State)
	assert.Equal(t, symboltable.ID("models.ts#Base.save:method"), res.SymbolID)
}

func TestResolveCall_ConstructorCall(t *testing.T) {
	files := []*extractor.PerFileResult{
		{
			FilePath: "models.ts",
			Language: parser.LanguageTypeScript,
			Symbols: []extractor.Symbol{
				{Name: "UserService", FullyQualifiedName: "UserService", Kind: extractor.SymbolKindClass},
			},
		},
	}
	r := buildResolver(files)
	res := r.ResolveCall(calldetect.CallRecord{Kind: calldetect.KindConstructorCall, Callee: "UserService"}, "models.ts", parser.LanguageTypeScript)
	require.Equal(t, StateResolved, res.State)
}
