package typereg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relgraph/codegraph/pkg/extractor"
	"github.com/relgraph/codegraph/pkg/parser"
)

func TestBuild_CatalogsClassesOnly(t *testing.T) {
	files := []*extractor.PerFileResult{
		{
			FilePath: "service.ts",
			Language: parser.LanguageTypeScript,
			Symbols: []extractor.Symbol{
				{Name: "UserService", Kind: extractor.SymbolKindClass, FullyQualifiedName: "UserService"},
				{Name: "getUser", Kind: extractor.SymbolKindFunction, FullyQualifiedName: "getUser"},
				{Name: "getUser", Kind: extractor.SymbolKindMethod, FullyQualifiedName: "UserService.getUser"},
			},
		},
	}

	r := Build(files)
	entry, ok := r.Lookup("service.ts", "UserService")
	require.True(t, ok)
	assert.Equal(t, extractor.SymbolKindClass, entry.Symbol.Kind)

	_, ok = r.Lookup("service.ts", "getUser")
	assert.False(t, ok)
}

func TestMethodsOf_FiltersByClassPrefix(t *testing.T) {
	files := map[string]*extractor.PerFileResult{
		"service.ts": {
			FilePath: "service.ts",
			Language: parser.LanguageTypeScript,
			Symbols: []extractor.Symbol{
				{Name: "getUser", Kind: extractor.SymbolKindMethod, FullyQualifiedName: "UserService.getUser"},
				{Name: "helper", Kind: extractor.SymbolKindFunction, FullyQualifiedName: "helper"},
			},
		},
	}
	methods := MethodsOf(files, Key{File: "service.ts", Name: "UserService"})
	require.Len(t, methods, 1)
	assert.Equal(t, "getUser", methods[0].Name)
}

func TestMethodsOf_RustUsesDoubleColonSeparator(t *testing.T) {
	files := map[string]*extractor.PerFileResult{
		"lib.rs": {
			FilePath: "lib.rs",
			Language: parser.LanguageRust,
			Symbols: []extractor.Symbol{
				{Name: "new", Kind: extractor.SymbolKindMethod, FullyQualifiedName: "UserService::new"},
			},
		},
	}
	methods := MethodsOf(files, Key{File: "lib.rs", Name: "UserService"})
	require.Len(t, methods, 1)
}
