package mcpgraph

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relgraph/codegraph/pkg/codegraph"
	"github.com/relgraph/codegraph/pkg/extractor"
	"github.com/relgraph/codegraph/pkg/symboltable"
	"github.com/relgraph/codegraph/pkg/typereg"
)

func testGraph() *codegraph.ProjectCodeGraph {
	calleeID := symboltable.ID("app.ts#helper:function")
	callerID := symboltable.ID("app.ts#main:function")
	callSite := extractor.Location{FilePath: "app.ts", StartLine: 5}

	calls := codegraph.CallGraph{
		calleeID: {Signature: "helper()", CalledBy: []symboltable.ID{callerID}},
		callerID: {
			Signature:    "main()",
			IsEntryPoint: true,
			Calls: []codegraph.CallEdge{
				{Callee: calleeID, Kind: codegraph.CallEdgeDirect, Site: callSite},
			},
		},
	}

	symbols := codegraph.SymbolIndex{
		calleeID: {
			Entry: symboltable.Entry{
				ID: calleeID, File: "app.ts",
				Symbol: extractor.Symbol{Name: "helper", FullyQualifiedName: "helper", Kind: extractor.SymbolKindFunction},
			},
			CalledFrom: []extractor.Location{callSite},
		},
	}

	classKey := typereg.Key{File: "zoo.ts", Name: "Dog"}
	classes := codegraph.ClassHierarchy{
		classKey: {Key: classKey, DirectParents: []typereg.Key{{File: "zoo.ts", Name: "Animal"}}},
	}

	return &codegraph.ProjectCodeGraph{
		Calls:   calls,
		Symbols: symbols,
		Classes: classes,
	}
}

func makeRequest(args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{Params: mcp.CallToolParams{Arguments: args}}
}

func resultJSON(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	tc, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected TextContent, got %T", result.Content[0])
	return tc.Text
}

func TestHandleGetCallees(t *testing.T) {
	s := &Server{graph: testGraph()}
	result, err := s.handleGetCallees(context.Background(), makeRequest(map[string]any{"symbol_id": "app.ts#main:function"}))
	require.NoError(t, err)

	var resp struct {
		Signature string
		Calls     []calleeSummary
	}
	require.NoError(t, json.Unmarshal([]byte(resultJSON(t, result)), &resp))
	assert.Equal(t, "main()", resp.Signature)
	require.Len(t, resp.Calls, 1)
	assert.Equal(t, "app.ts#helper:function", resp.Calls[0].Callee)
}

func TestHandleGetCallees_UnknownID(t *testing.T) {
	s := &Server{graph: testGraph()}
	result, err := s.handleGetCallees(context.Background(), makeRequest(map[string]any{"symbol_id": "nope"}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestHandleGetCallers(t *testing.T) {
	s := &Server{graph: testGraph()}
	result, err := s.handleGetCallers(context.Background(), makeRequest(map[string]any{"symbol_id": "app.ts#helper:function"}))
	require.NoError(t, err)

	var out []callerSummary
	require.NoError(t, json.Unmarshal([]byte(resultJSON(t, result)), &out))
	require.Len(t, out, 1)
	assert.Equal(t, "main()", out[0].Signature)
}

func TestHandleGetClassHierarchy(t *testing.T) {
	s := &Server{graph: testGraph()}
	result, err := s.handleGetClassHierarchy(context.Background(), makeRequest(map[string]any{"file": "zoo.ts", "name": "Dog"}))
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Contains(t, resultJSON(t, result), "Animal")
}

func TestHandleFindReferences(t *testing.T) {
	s := &Server{graph: testGraph()}
	result, err := s.handleFindReferences(context.Background(), makeRequest(map[string]any{"symbol_id": "app.ts#helper:function"}))
	require.NoError(t, err)
	assert.False(t, result.IsError)
}
