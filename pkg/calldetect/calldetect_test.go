package calldetect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relgraph/codegraph/pkg/extractor"
	"github.com/relgraph/codegraph/pkg/parser"
	"github.com/relgraph/codegraph/pkg/scope"
	"github.com/relgraph/codegraph/pkg/typetrack"
)

func TestResolver_ConstructorCall(t *testing.T) {
	r := &Resolver{}
	sites := []extractor.CallSite{
		{Shape: extractor.ShapeNewCall, Callee: "UserService"},
	}
	records := r.Resolve(sites)
	require.Len(t, records, 1)
	assert.Equal(t, KindConstructorCall, records[0].Kind)
	assert.Equal(t, "UserService", records[0].Callee)
}

func TestResolver_MethodCallOnIdentifier(t *testing.T) {
	st := scope.NewTree("test.ts", scope.KindModule, extractor.Location{FilePath: "test.ts"})
	tr := typetrack.New("test.ts", st)
	tr.Add(typetrack.Binding{Name: "service", Type: "UserService", ScopeID: st.Root().ID, StartByte: 0})
	tr.Finalize()

	r := &Resolver{Tracker: tr, Scope: st}
	sites := []extractor.CallSite{
		{Shape: extractor.ShapeMethodCall, Callee: "getUser", Object: "service", Location: extractor.Location{StartByte: 50}},
	}
	records := r.Resolve(sites)
	require.Len(t, records, 1)
	assert.Equal(t, KindMethodCall, records[0].Kind)
	assert.True(t, records[0].ReceiverResolved)
	assert.Equal(t, "UserService", records[0].ReceiverType)
}

func TestResolver_ChainedCallUsesReturnType(t *testing.T) {
	r := &Resolver{
		ReturnTypeOf: func(name string) (string, bool) {
			if name == "getUser" {
				return "User", true
			}
			return "", false
		},
	}
	loc := extractor.Location{StartByte: 0}
	sites := []extractor.CallSite{
		{Shape: extractor.ShapeChainedCall, Callee: "save", Object: "getUser", ChainObjectLocation: &loc},
	}
	records := r.Resolve(sites)
	require.Len(t, records, 1)
	assert.True(t, records[0].ReceiverResolved)
	assert.Equal(t, "User", records[0].ReceiverType)
}

func TestResolver_NamespacedCall(t *testing.T) {
	r := &Resolver{
		NamespaceExports: func(alias string) (map[string]bool, bool) {
			if alias == "models" {
				return map[string]bool{"createUser": true}, true
			}
			return nil, false
		},
	}
	sites := []extractor.CallSite{
		{Shape: extractor.ShapeNamespacedCall, Callee: "createUser", Object: "models"},
	}
	records := r.Resolve(sites)
	require.Len(t, records, 1)
	assert.True(t, records[0].ReceiverResolved)
	assert.Equal(t, "models", records[0].Namespace)
}

func TestResolver_PythonBareCallConstructorHeuristic(t *testing.T) {
	st := scope.NewTree("test.py", scope.KindModule, extractor.Location{FilePath: "test.py"})
	tr := typetrack.New("test.py", st)
	tr.Add(typetrack.Binding{Name: "x", Type: "UserService", ScopeID: st.Root().ID})
	tr.Finalize()

	r := &Resolver{Tracker: tr}
	sites := []extractor.CallSite{
		{Shape: extractor.ShapePlainCall, Callee: "UserService"},
		{Shape: extractor.ShapePlainCall, Callee: "helper_func"},
	}
	records := r.Resolve(sites)
	require.Len(t, records, 2)
	assert.Equal(t, KindConstructorCall, records[0].Kind)
	assert.Equal(t, KindFunctionCall, records[1].Kind)
}

func TestResolver_PascalCaseHeuristicScopedToPythonAndRust(t *testing.T) {
	sites := []extractor.CallSite{
		{Shape: extractor.ShapePlainCall, Callee: "UserService"},
	}

	jsRecords := (&Resolver{Lang: parser.LanguageJavaScript}).Resolve(sites)
	require.Len(t, jsRecords, 1)
	assert.Equal(t, KindFunctionCall, jsRecords[0].Kind, "a bare PascalCase call in JS is an ordinary function/component call, not a constructor")

	tsRecords := (&Resolver{Lang: parser.LanguageTypeScript}).Resolve(sites)
	require.Len(t, tsRecords, 1)
	assert.Equal(t, KindFunctionCall, tsRecords[0].Kind)

	pyRecords := (&Resolver{Lang: parser.LanguagePython}).Resolve(sites)
	require.Len(t, pyRecords, 1)
	assert.Equal(t, KindConstructorCall, pyRecords[0].Kind, "Python's ClassName() call syntax is ambiguous, so the heuristic still applies there")

	rustRecords := (&Resolver{Lang: parser.LanguageRust}).Resolve(sites)
	require.Len(t, rustRecords, 1)
	assert.Equal(t, KindConstructorCall, rustRecords[0].Kind, "Rust tuple-struct construction looks like a plain call too")
}

func TestResolver_ThisCallDefersToEnclosingClass(t *testing.T) {
	r := &Resolver{}
	sites := []extractor.CallSite{
		{Shape: extractor.ShapeThisCall, Callee: "save", Object: "this"},
	}
	records := r.Resolve(sites)
	require.Len(t, records, 1)
	assert.Equal(t, KindMethodCall, records[0].Kind)
	assert.Equal(t, "this", records[0].ReceiverType)
}
