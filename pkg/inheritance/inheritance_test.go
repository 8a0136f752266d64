package inheritance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relgraph/codegraph/pkg/extractor"
	"github.com/relgraph/codegraph/pkg/modgraph"
	"github.com/relgraph/codegraph/pkg/parser"
	"github.com/relgraph/codegraph/pkg/typereg"
)

func TestBuild_SameFileExtends(t *testing.T) {
	files := []*extractor.PerFileResult{
		{
			FilePath: "models.ts",
			Language: parser.LanguageTypeScript,
			Symbols: []extractor.Symbol{
				{Name: "Base", Kind: extractor.SymbolKindClass},
				{Name: "Derived", Kind: extractor.SymbolKindClass, Extends: []string{"Base"}},
			},
		},
	}
	reg := typereg.Build(files)
	mg := modgraph.Build(files)
	g := Build(reg, mg)

	derivedKey := typereg.Key{File: "models.ts", Name: "Derived"}
	baseKey := typereg.Key{File: "models.ts", Name: "Base"}
	require.Contains(t, g.ExtendsMap, derivedKey)
	assert.Equal(t, []typereg.Key{baseKey}, g.ExtendsMap[derivedKey])
	assert.Contains(t, g.AllAncestors[derivedKey], baseKey)
	assert.Contains(t, g.AllDescendants[baseKey], derivedKey)
}

func TestBuild_CrossFileExtendsViaImport(t *testing.T) {
	files := []*extractor.PerFileResult{
		{
			FilePath: "base.ts",
			Language: parser.LanguageTypeScript,
			Symbols: []extractor.Symbol{
				{Name: "Base", Kind: extractor.SymbolKindClass},
			},
		},
		{
			FilePath: "derived.ts",
			Language: parser.LanguageTypeScript,
			Symbols: []extractor.Symbol{
				{Name: "Derived", Kind: extractor.SymbolKindClass, Extends: []string{"Base"}},
			},
			Imports: []extractor.ImportInfo{
				{Source: "./base", ImportedSymbols: map[string]string{"Base": "Base"}},
			},
		},
	}
	reg := typereg.Build(files)
	mg := modgraph.Build(files)
	g := Build(reg, mg)

	derivedKey := typereg.Key{File: "derived.ts", Name: "Derived"}
	baseKey := typereg.Key{File: "base.ts", Name: "Base"}
	require.Contains(t, g.ExtendsMap, derivedKey)
	assert.Equal(t, []typereg.Key{baseKey}, g.ExtendsMap[derivedKey])
}

func TestBuild_UnresolvedHeritageRecorded(t *testing.T) {
	files := []*extractor.PerFileResult{
		{
			FilePath: "models.ts",
			Language: parser.LanguageTypeScript,
			Symbols: []extractor.Symbol{
				{Name: "Derived", Kind: extractor.SymbolKindClass, Extends: []string{"ExternalBase"}},
			},
		},
	}
	reg := typereg.Build(files)
	g := Build(reg, nil)

	derivedKey := typereg.Key{File: "models.ts", Name: "Derived"}
	assert.Contains(t, g.Unresolved[derivedKey], "ExternalBase")
}

func TestBuild_DiamondDoesNotDuplicateAncestors(t *testing.T) {
	files := []*extractor.PerFileResult{
		{
			FilePath: "models.ts",
			Language: parser.LanguageTypeScript,
			Symbols: []extractor.Symbol{
				{Name: "Root", Kind: extractor.SymbolKindClass},
				{Name: "Left", Kind: extractor.SymbolKindClass, Extends: []string{"Root"}},
				{Name: "Right", Kind: extractor.SymbolKindClass, Extends: []string{"Root"}},
				{Name: "Bottom", Kind: extractor.SymbolKindClass, Implements: []string{"Left", "Right"}},
			},
		},
	}
	reg := typereg.Build(files)
	g := Build(reg, nil)

	bottomKey := typereg.Key{File: "models.ts", Name: "Bottom"}
	rootKey := typereg.Key{File: "models.ts", Name: "Root"}

	count := 0
	for _, k := range g.AllAncestors[bottomKey] {
		if k == rootKey {
			count++
		}
	}
	assert.Equal(t, 1, count)
}
