package modgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relgraph/codegraph/pkg/extractor"
	"github.com/relgraph/codegraph/pkg/parser"
)

func TestBuild_ResolvesJSRelativeImport(t *testing.T) {
	files := []*extractor.PerFileResult{
		{
			FilePath: "/proj/src/index.ts",
			Language: parser.LanguageTypeScript,
			Imports: []extractor.ImportInfo{
				{Source: "./service", IsExternal: false},
			},
		},
		{FilePath: "/proj/src/service.ts", Language: parser.LanguageTypeScript},
	}

	g := Build(files)
	records := g.ImportsByFile["/proj/src/index.ts"]
	require.Len(t, records, 1)
	assert.True(t, records[0].Resolved)
	assert.Equal(t, "/proj/src/service.ts", records[0].ResolvedFile)
}

func TestBuild_LeavesExternalJSImportUnresolved(t *testing.T) {
	files := []*extractor.PerFileResult{
		{
			FilePath: "/proj/src/index.ts",
			Language: parser.LanguageTypeScript,
			Imports: []extractor.ImportInfo{
				{Source: "lodash", IsExternal: true},
			},
		},
	}
	g := Build(files)
	records := g.ImportsByFile["/proj/src/index.ts"]
	require.Len(t, records, 1)
	assert.False(t, records[0].Resolved)
}

func TestBuild_ResolvesPythonRelativeImport(t *testing.T) {
	files := []*extractor.PerFileResult{
		{
			FilePath: "/proj/pkg/mod_a.py",
			Language: parser.LanguagePython,
			Imports: []extractor.ImportInfo{
				{Source: ".mod_b"},
			},
		},
		{FilePath: "/proj/pkg/mod_b.py", Language: parser.LanguagePython},
	}
	g := Build(files)
	records := g.ImportsByFile["/proj/pkg/mod_a.py"]
	require.Len(t, records, 1)
	assert.True(t, records[0].Resolved)
	assert.Equal(t, "/proj/pkg/mod_b.py", records[0].ResolvedFile)
}

func TestBuild_ResolvesRustSelfAndSuper(t *testing.T) {
	files := []*extractor.PerFileResult{
		{
			FilePath: "/proj/src/main.rs",
			Language: parser.LanguageRust,
			Imports: []extractor.ImportInfo{
				{Source: "self::helpers"},
			},
		},
		{
			FilePath: "/proj/src/sub/mod.rs",
			Language: parser.LanguageRust,
			Imports: []extractor.ImportInfo{
				{Source: "super::helpers"},
			},
		},
		{FilePath: "/proj/src/helpers.rs", Language: parser.LanguageRust},
	}
	g := Build(files)
	records := g.ImportsByFile["/proj/src/main.rs"]
	require.Len(t, records, 1)
	assert.True(t, records[0].Resolved)
	assert.Equal(t, "/proj/src/helpers.rs", records[0].ResolvedFile)

	superRecords := g.ImportsByFile["/proj/src/sub/mod.rs"]
	require.Len(t, superRecords, 1)
	assert.True(t, superRecords[0].Resolved)
	assert.Equal(t, "/proj/src/helpers.rs", superRecords[0].ResolvedFile)
}

func TestBuild_RustStdIsUnresolved(t *testing.T) {
	files := []*extractor.PerFileResult{
		{
			FilePath: "/proj/src/main.rs",
			Language: parser.LanguageRust,
			Imports: []extractor.ImportInfo{
				{Source: "std::collections::HashMap"},
			},
		},
	}
	g := Build(files)
	records := g.ImportsByFile["/proj/src/main.rs"]
	require.Len(t, records, 1)
	assert.False(t, records[0].Resolved)
}
