package mcpgraph

import "github.com/mark3labs/mcp-go/mcp"

func listSymbolsTool() mcp.Tool {
	return mcp.NewTool("list_symbols",
		mcp.WithDescription("List symbols in the code graph, optionally filtered by file and/or kind (function, class, interface, enum, type, variable, constant, method, property)"),
		mcp.WithString("file", mcp.Description("Restrict results to symbols declared in this file path")),
		mcp.WithString("kind", mcp.Description("Restrict results to this symbol kind")),
	)
}

func getCalleesTool() mcp.Tool {
	return mcp.NewTool("get_callees",
		mcp.WithDescription("Return the outgoing call edges (functions/methods/constructors this symbol calls) for a symbol ID"),
		mcp.WithString("symbol_id", mcp.Required(), mcp.Description("Symbol ID, as returned by list_symbols")),
	)
}

func getCallersTool() mcp.Tool {
	return mcp.NewTool("get_callers",
		mcp.WithDescription("Return every symbol that calls the given symbol ID"),
		mcp.WithString("symbol_id", mcp.Required(), mcp.Description("Symbol ID, as returned by list_symbols")),
	)
}

func getClassHierarchyTool() mcp.Tool {
	return mcp.NewTool("get_class_hierarchy",
		mcp.WithDescription("Return the direct/transitive ancestors, descendants, and method resolution order for a class, identified by the file that declares it and its name"),
		mcp.WithString("file", mcp.Required(), mcp.Description("File path the class is declared in")),
		mcp.WithString("name", mcp.Required(), mcp.Description("Class/interface name")),
	)
}

func findReferencesTool() mcp.Tool {
	return mcp.NewTool("find_references",
		mcp.WithDescription("Return every call site that resolves to the given symbol ID"),
		mcp.WithString("symbol_id", mcp.Required(), mcp.Description("Symbol ID, as returned by list_symbols")),
	)
}
