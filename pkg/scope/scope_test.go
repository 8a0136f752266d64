package scope

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relgraph/codegraph/pkg/parser"
)

func buildTreeFor(t *testing.T, source string, lang parser.Language) *Tree {
	t.Helper()
	pm := parser.NewParserManager(slog.Default())
	defer pm.Close()

	tree, err := pm.Parse([]byte(source), lang, false)
	require.NoError(t, err)
	defer tree.Close()

	return Build(tree, []byte(source), "test.ts", lang)
}

func TestBuild_FunctionAndClassScopes(t *testing.T) {
	source := `
class A {
  greet() {
    return 1;
  }
}
function top() {
  return 2;
}
`
	st := buildTreeFor(t, source, parser.LanguageTypeScript)

	var classScope, methodScope, funcScope *Scope
	for _, s := range st.Nodes {
		switch {
		case s.Kind == KindClass && s.Name == "A":
			classScope = s
		case s.Kind == KindMethod && s.Name == "greet":
			methodScope = s
		case s.Kind == KindFunction && s.Name == "top":
			funcScope = s
		}
	}

	require.NotNil(t, classScope, "class scope for A should exist")
	require.NotNil(t, methodScope, "method scope for greet should exist")
	require.NotNil(t, funcScope, "function scope for top should exist")

	// greet's scope must be nested under A's scope.
	assert.Equal(t, classScope.ID, methodScope.ParentID)

	// top-level function scope's parent is the root module scope.
	assert.Equal(t, st.Root().ID, funcScope.ParentID)
}

func TestTree_Lookup(t *testing.T) {
	source := `function outer() { function inner() { return 1; } }`
	st := buildTreeFor(t, source, parser.LanguageTypeScript)

	var inner *Scope
	for _, s := range st.Nodes {
		if s.Name == "inner" {
			inner = s
		}
	}
	require.NotNil(t, inner)

	found := st.Lookup(inner.Location.StartByte + 1)
	assert.Equal(t, inner.ID, found)
}

func TestTree_Path(t *testing.T) {
	source := `class A { greet() { return 1; } }`
	st := buildTreeFor(t, source, parser.LanguageTypeScript)

	var method *Scope
	for _, s := range st.Nodes {
		if s.Kind == KindMethod {
			method = s
		}
	}
	require.NotNil(t, method)

	path := st.Path(method.ID)
	assert.Equal(t, []string{"A", "greet"}, path)
}
