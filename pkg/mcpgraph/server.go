// Package mcpgraph exposes a finished codegraph.ProjectCodeGraph as an MCP
// tool server: list_symbols, get_callers, get_callees, get_class_hierarchy,
// and find_references, all read-only queries over the graph already built
// by pkg/codegraph.Analyze. This package never re-runs analysis itself.
package mcpgraph

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/relgraph/codegraph/pkg/codegraph"
	"github.com/relgraph/codegraph/pkg/mcplog"
)

const serverVersion = "0.1.0-dev"

// Server implements the MCP query surface over one ProjectCodeGraph.
type Server struct {
	mcpServer *server.MCPServer
	graph     *codegraph.ProjectCodeGraph
	logger    *mcplog.Logger // may be nil if logging is disabled
}

// NewServer creates a new MCP server backed by graph. Pass nil for logger
// to disable tool-call logging.
func NewServer(graph *codegraph.ProjectCodeGraph, logger *mcplog.Logger) *Server {
	s := &Server{graph: graph, logger: logger}

	opts := []server.ServerOption{
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	}
	if logger != nil {
		opts = append(opts, server.WithToolHandlerMiddleware(s.loggingMiddleware()))
	}

	s.mcpServer = server.NewMCPServer("codegraph", serverVersion, opts...)

	s.mcpServer.AddTools(
		server.ServerTool{Tool: listSymbolsTool(), Handler: s.handleListSymbols},
		server.ServerTool{Tool: getCalleesTool(), Handler: s.handleGetCallees},
		server.ServerTool{Tool: getCallersTool(), Handler: s.handleGetCallers},
		server.ServerTool{Tool: getClassHierarchyTool(), Handler: s.handleGetClassHierarchy},
		server.ServerTool{Tool: findReferencesTool(), Handler: s.handleFindReferences},
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// Close shuts down the logger if one is active. Should be deferred after NewServer.
func (s *Server) Close() error {
	if s.logger != nil {
		return s.logger.Close()
	}
	return nil
}
