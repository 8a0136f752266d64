package mcpgraph

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/relgraph/codegraph/pkg/symboltable"
	"github.com/relgraph/codegraph/pkg/typereg"
)

func argString(req mcp.CallToolRequest, key string) string {
	if v, ok := req.GetArguments()[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}

type symbolSummary struct {
	ID         symboltable.ID `json:"id"`
	Name       string         `json:"name"`
	Kind       string         `json:"kind"`
	File       string         `json:"file"`
	Visibility string         `json:"visibility"`
}

func (s *Server) handleListSymbols(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	fileFilter := argString(req, "file")
	kindFilter := argString(req, "kind")

	var out []symbolSummary
	for id, rec := range s.graph.Symbols {
		if fileFilter != "" && rec.Entry.File != fileFilter {
			continue
		}
		if kindFilter != "" && string(rec.Entry.Symbol.Kind) != kindFilter {
			continue
		}
		out = append(out, symbolSummary{
			ID:         id,
			Name:       rec.Entry.Symbol.Name,
			Kind:       string(rec.Entry.Symbol.Kind),
			File:       rec.Entry.File,
			Visibility: rec.Entry.Visibility,
		})
	}
	return jsonResult(out)
}

type calleeSummary struct {
	Callee string `json:"callee_id"`
	Kind   string `json:"kind"`
	File   string `json:"file"`
	Line   uint32 `json:"line"`
}

func (s *Server) handleGetCallees(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := symboltable.ID(argString(req, "symbol_id"))
	node, ok := s.graph.Calls[id]
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("unknown symbol_id %q", id)), nil
	}

	resp := struct {
		Signature string          `json:"signature"`
		Calls     []calleeSummary `json:"calls"`
	}{Signature: node.Signature}
	for _, edge := range node.Calls {
		resp.Calls = append(resp.Calls, calleeSummary{
			Callee: string(edge.Callee),
			Kind:   string(edge.Kind),
			File:   edge.Site.FilePath,
			Line:   edge.Site.StartLine,
		})
	}
	return jsonResult(resp)
}

type callerSummary struct {
	ID        symboltable.ID `json:"id"`
	Signature string         `json:"signature"`
}

func (s *Server) handleGetCallers(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := symboltable.ID(argString(req, "symbol_id"))
	node, ok := s.graph.Calls[id]
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("unknown symbol_id %q", id)), nil
	}

	var out []callerSummary
	for _, callerID := range node.CalledBy {
		sig := string(callerID)
		if callerNode, ok := s.graph.Calls[callerID]; ok {
			sig = callerNode.Signature
		}
		out = append(out, callerSummary{ID: callerID, Signature: sig})
	}
	return jsonResult(out)
}

func (s *Server) handleGetClassHierarchy(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key := typereg.Key{File: argString(req, "file"), Name: argString(req, "name")}
	node, ok := s.graph.Classes[key]
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("unknown class %s#%s", key.File, key.Name)), nil
	}
	return jsonResult(node)
}

func (s *Server) handleFindReferences(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := symboltable.ID(argString(req, "symbol_id"))
	rec, ok := s.graph.Symbols[id]
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("unknown symbol_id %q", id)), nil
	}
	return jsonResult(rec.CalledFrom)
}
