package typetrack

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relgraph/codegraph/pkg/extractor"
	"github.com/relgraph/codegraph/pkg/scope"
)

func TestTracker_ResolveImportBinding(t *testing.T) {
	st := scope.NewTree("test.ts", scope.KindModule, extractor.Location{FilePath: "test.ts"})
	tr := New("test.ts", st)

	SeedFromImports(tr, []extractor.ImportInfo{
		{
			ImportedSymbols: map[string]string{"UserService": "UserService"},
			Location:        extractor.Location{StartByte: 0},
		},
	}, st.Root().ID)
	tr.Finalize()

	typ, ok := tr.Resolve("UserService", st.Root().ID, 100)
	require.True(t, ok)
	assert.Equal(t, "UserService", typ)
}

func TestTracker_ResolveAnnotationBinding(t *testing.T) {
	st := scope.NewTree("test.ts", scope.KindModule, extractor.Location{FilePath: "test.ts"})
	tr := New("test.ts", st)

	SeedFromAnnotations(tr, map[string]string{"service": "UserService"}, st.Root().ID, nil)
	tr.Finalize()

	typ, ok := tr.Resolve("service", st.Root().ID, 50)
	require.True(t, ok)
	assert.Equal(t, "UserService", typ)

	_, ok = tr.Resolve("missing", st.Root().ID, 50)
	assert.False(t, ok)
}

func TestTracker_ShadowingAcrossScopes(t *testing.T) {
	st := scope.NewTree("test.ts", scope.KindModule, extractor.Location{FilePath: "test.ts"})
	childID := st.AddChild(st.Root().ID, scope.KindFunction, "handler", extractor.Location{StartByte: 10, EndByte: 200})

	tr := New("test.ts", st)
	tr.Add(Binding{Name: "service", Type: "UserService", ScopeID: st.Root().ID, StartByte: 0})
	tr.Add(Binding{Name: "service", Type: "MockService", ScopeID: childID, StartByte: 20})
	tr.Finalize()

	// Inside the child scope, after the shadowing binding, the local type wins.
	typ, ok := tr.Resolve("service", childID, 50)
	require.True(t, ok)
	assert.Equal(t, "MockService", typ)

	// At the root scope, only the outer binding is visible.
	typ, ok = tr.Resolve("service", st.Root().ID, 50)
	require.True(t, ok)
	assert.Equal(t, "UserService", typ)
}

func TestTracker_LatestBindingBeforeOffsetWins(t *testing.T) {
	st := scope.NewTree("test.ts", scope.KindModule, extractor.Location{FilePath: "test.ts"})
	tr := New("test.ts", st)
	tr.Add(Binding{Name: "x", Type: "A", ScopeID: st.Root().ID, StartByte: 0})
	tr.Add(Binding{Name: "x", Type: "B", ScopeID: st.Root().ID, StartByte: 30})
	tr.Finalize()

	typ, ok := tr.Resolve("x", st.Root().ID, 20)
	require.True(t, ok)
	assert.Equal(t, "A", typ)

	typ, ok = tr.Resolve("x", st.Root().ID, 40)
	require.True(t, ok)
	assert.Equal(t, "B", typ)
}

func TestConstructorCallSites_Filters(t *testing.T) {
	sites := []extractor.CallSite{
		{Shape: extractor.ShapeNewCall, Callee: "UserService"},
		{Shape: extractor.ShapeMethodCall, Callee: "getUser"},
		{Shape: extractor.ShapePathQualified, Callee: "new"},
	}
	out := ConstructorCallSites(sites)
	require.Len(t, out, 2)
}
