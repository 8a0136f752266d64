package symboltable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relgraph/codegraph/pkg/extractor"
)

func TestBuild_MintsIDPerSymbol(t *testing.T) {
	files := []*extractor.PerFileResult{
		{
			FilePath: "service.ts",
			Symbols: []extractor.Symbol{
				{Name: "UserService", FullyQualifiedName: "UserService", Kind: extractor.SymbolKindClass, IsExported: true},
			},
		},
	}
	table := Build(files)
	entry, ok := table.Lookup("service.ts", "UserService")
	require.True(t, ok)
	assert.Equal(t, ID("service.ts#UserService:class"), entry.ID)
	assert.Equal(t, "public", entry.Visibility)
}

func TestBuild_PrivateScopeIsNotPublic(t *testing.T) {
	files := []*extractor.PerFileResult{
		{
			FilePath: "service.ts",
			Symbols: []extractor.Symbol{
				{Name: "helper", FullyQualifiedName: "UserService.helper", Kind: extractor.SymbolKindMethod, Scope: "private"},
			},
		},
	}
	table := Build(files)
	entry, ok := table.Lookup("service.ts", "helper")
	require.True(t, ok)
	assert.Equal(t, "private", entry.Visibility)
}

func TestBuild_FollowsReExportChain(t *testing.T) {
	files := []*extractor.PerFileResult{
		{
			FilePath: "base.ts",
			Symbols: []extractor.Symbol{
				{Name: "Base", FullyQualifiedName: "Base", Kind: extractor.SymbolKindClass, IsExported: true},
			},
		},
		{
			FilePath: "index.ts",
			Exports: []extractor.ExportInfo{
				{Name: "Base", ExportType: extractor.ExportTypeReExport, ResolvedPath: "base.ts"},
			},
		},
	}
	table := Build(files)
	entry, ok := table.Lookup("index.ts", "Base")
	require.True(t, ok)
	assert.True(t, entry.IsImported)
	assert.Equal(t, ID("base.ts#Base:class"), entry.ID)
}

func TestBuiltinID_Format(t *testing.T) {
	assert.Equal(t, ID("builtin:python:print"), BuiltinID("python", "print"))
}
