// Package queries provides tree-sitter query compilation, caching, and execution.
package queries

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	ts "github.com/tree-sitter/go-tree-sitter"

	sitter "github.com/smacker/go-tree-sitter"
	sitter_rust "github.com/smacker/go-tree-sitter/rust"

	"github.com/relgraph/codegraph/pkg/cst"
	"github.com/relgraph/codegraph/pkg/parser"
	"github.com/relgraph/codegraph/pkg/parser/queries/calls"
	"github.com/relgraph/codegraph/pkg/parser/queries/imports"
	"github.com/relgraph/codegraph/pkg/parser/queries/references"
	"github.com/relgraph/codegraph/pkg/parser/queries/symbols"
	"github.com/relgraph/codegraph/pkg/parser/queries/types"
)

// QueryType identifies which type of query to execute (symbols, imports, types, calls).
type QueryType int

const (
	// QueryTypeSymbols extracts symbol definitions (functions, classes, variables, etc.)
	QueryTypeSymbols QueryType = iota
	// QueryTypeImports extracts import/export statements for dependency graph construction
	QueryTypeImports
	// QueryTypeTypes extracts type annotations
	QueryTypeTypes
	// QueryTypeCalls extracts call-expression sites for the L4 call detector
	QueryTypeCalls
	// QueryTypeReferences extracts bare identifier occurrences for the L9
	// reference resolver's lexical-walk pass
	QueryTypeReferences
)

// String returns the string representation of a QueryType.
func (qt QueryType) String() string {
	switch qt {
	case QueryTypeSymbols:
		return "symbols"
	case QueryTypeImports:
		return "imports"
	case QueryTypeTypes:
		return "types"
	case QueryTypeCalls:
		return "calls"
	case QueryTypeReferences:
		return "references"
	default:
		return "unknown"
	}
}

// queryKey uniquely identifies a compiled query (language + type).
type queryKey struct {
	lang  parser.Language
	qtype QueryType
}

// QueryManager manages tree-sitter query compilation and caching across both
// underlying tree-sitter engines (go-tree-sitter for JS/TS/Python, smacker
// for Rust). Callers only ever see cst.Query / cst.Match; the engine split
// is resolved internally by language.
//
// Features:
//   - Lazy query compilation: Queries compiled on first use
//   - Thread-safe caching: Uses sync.RWMutex for concurrent access
//   - Memory management: Queries freed via Close()
//
// Usage:
//
//	qm := NewQueryManager(parserManager, logger)
//	defer qm.Close()
//
//	query, err := qm.GetQuery(parser.LanguageTypeScript, QueryTypeSymbols)
//	if err != nil {
//	    return err
//	}
//
//	matches, err := qm.ExecuteQuery(tree, query, sourceCode)
//	if err != nil {
//	    return err
//	}
type QueryManager struct {
	parserManager *parser.ParserManager
	cache         map[queryKey]cst.Query
	mutex         sync.RWMutex
	logger        *slog.Logger
}

// NewQueryManager creates a new query manager.
//
// The parserManager is required to access language-specific parsers for query compilation.
// Logger can be nil (will use default slog logger).
func NewQueryManager(pm *parser.ParserManager, logger *slog.Logger) *QueryManager {
	if logger == nil {
		logger = slog.Default()
	}

	return &QueryManager{
		parserManager: pm,
		cache:         make(map[queryKey]cst.Query),
		logger:        logger,
	}
}

// GetQuery returns a compiled query for the specified language and type.
//
// Queries are compiled lazily on first access and cached for subsequent calls.
// This method is thread-safe.
//
// Returns an error if:
//   - Language is unknown or unsupported
//   - Query compilation fails (invalid query syntax)
func (qm *QueryManager) GetQuery(lang parser.Language, qtype QueryType) (cst.Query, error) {
	key := queryKey{lang: lang, qtype: qtype}

	// Fast path: Check if query already compiled (read lock)
	qm.mutex.RLock()
	query, exists := qm.cache[key]
	qm.mutex.RUnlock()

	if exists {
		return query, nil
	}

	// Slow path: Compile query (write lock)
	qm.mutex.Lock()
	defer qm.mutex.Unlock()

	// Double-check: Another goroutine may have compiled it
	if query, exists = qm.cache[key]; exists {
		return query, nil
	}

	queryString, err := qm.getQueryString(lang, qtype)
	if err != nil {
		return nil, err
	}

	if lang == parser.LanguageRust {
		query, err = compileRustQuery(queryString)
	} else {
		query, err = qm.compileTSQuery(lang, queryString)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to compile %s query for %s: %w", qtype, lang, err)
	}

	qm.cache[key] = query

	qm.logger.Debug("compiled query",
		"language", lang.String(),
		"type", qtype.String())

	return query, nil
}

// compileTSQuery compiles a query through the go-tree-sitter engine
// (JavaScript, TypeScript, Python).
func (qm *QueryManager) compileTSQuery(lang parser.Language, queryString string) (cst.Query, error) {
	langPtr, err := qm.parserManager.GetLanguagePointer(lang, false)
	if err != nil {
		return nil, fmt.Errorf("failed to get language pointer for %s: %w", lang, err)
	}

	tsLang := ts.NewLanguage(langPtr)

	query, qerr := ts.NewQuery(tsLang, queryString)
	if qerr != nil {
		return nil, fmt.Errorf("%s", qerr.Message)
	}

	return cst.WrapTSQuery(query), nil
}

// compileRustQuery compiles a query through the smacker/go-tree-sitter
// engine, the only engine that serves the Rust policy.
func compileRustQuery(queryString string) (cst.Query, error) {
	query, err := sitter.NewQuery([]byte(queryString), sitter_rust.GetLanguage())
	if err != nil {
		return nil, err
	}

	return cst.WrapSmackerQuery(query), nil
}

// getQueryString returns the query string for a language and type.
func (qm *QueryManager) getQueryString(lang parser.Language, qtype QueryType) (string, error) {
	switch qtype {
	case QueryTypeSymbols:
		return qm.getSymbolQuery(lang)
	case QueryTypeImports:
		return qm.getImportQuery(lang)
	case QueryTypeTypes:
		return qm.getTypesQuery(lang)
	case QueryTypeCalls:
		return qm.getCallsQuery(lang)
	case QueryTypeReferences:
		return qm.getReferenceQuery(lang)
	default:
		return "", fmt.Errorf("unknown query type: %d", qtype)
	}
}

// getSymbolQuery returns the symbol extraction query for a language.
func (qm *QueryManager) getSymbolQuery(lang parser.Language) (string, error) {
	switch lang {
	case parser.LanguageJavaScript:
		return symbols.JSQueries, nil
	case parser.LanguageTypeScript:
		return symbols.TSQueries, nil
	case parser.LanguagePython:
		return symbols.PyQueries, nil
	case parser.LanguageRust:
		return symbols.RustQueries, nil
	default:
		return "", fmt.Errorf("unsupported language for symbol queries: %s", lang)
	}
}

// getImportQuery returns the import/export extraction query for a language.
func (qm *QueryManager) getImportQuery(lang parser.Language) (string, error) {
	switch lang {
	case parser.LanguageJavaScript:
		return imports.JSQueries, nil
	case parser.LanguageTypeScript:
		return imports.TSQueries, nil
	case parser.LanguagePython:
		return imports.PyQueries, nil
	case parser.LanguageRust:
		return imports.RustQueries, nil
	default:
		return "", fmt.Errorf("unsupported language for import queries: %s", lang)
	}
}

// getTypesQuery returns the type annotation extraction query for a language.
func (qm *QueryManager) getTypesQuery(lang parser.Language) (string, error) {
	switch lang {
	case parser.LanguageTypeScript:
		return types.TSQueries, nil
	case parser.LanguageJavaScript:
		// JavaScript reuses the TypeScript patterns. They name
		// TypeScript-only node kinds (type_annotation, predefined_type,
		// ...), so compiling them for JavaScript fails and JS files get
		// no type annotations.
		return types.TSQueries, nil
	case parser.LanguagePython:
		return types.PyQueries, nil
	case parser.LanguageRust:
		return types.RustQueries, nil
	default:
		return "", fmt.Errorf("type annotation queries not supported for language: %s", lang)
	}
}

// getCallsQuery returns the call-site extraction query for a language.
func (qm *QueryManager) getCallsQuery(lang parser.Language) (string, error) {
	switch lang {
	case parser.LanguageJavaScript:
		return calls.JSQueries, nil
	case parser.LanguageTypeScript:
		return calls.TSQueries, nil
	case parser.LanguagePython:
		return calls.PyQueries, nil
	case parser.LanguageRust:
		return calls.RustQueries, nil
	default:
		return "", fmt.Errorf("call queries not supported for language: %s", lang)
	}
}

// getReferenceQuery returns the identifier-reference extraction query for a
// language.
func (qm *QueryManager) getReferenceQuery(lang parser.Language) (string, error) {
	switch lang {
	case parser.LanguageJavaScript:
		return references.JSQueries, nil
	case parser.LanguageTypeScript:
		return references.TSQueries, nil
	case parser.LanguagePython:
		return references.PyQueries, nil
	case parser.LanguageRust:
		return references.RustQueries, nil
	default:
		return "", fmt.Errorf("reference queries not supported for language: %s", lang)
	}
}

// ExecuteQuery runs a compiled query on a parse tree and returns structured matches.
//
// Parameters:
//   - tree: The parse tree to query
//   - query: The compiled query (from GetQuery)
//   - source: The original source code (for extracting matched text)
//
// Returns:
//   - []QueryMatch: Structured query results with captures
//   - error: If query execution fails
func (qm *QueryManager) ExecuteQuery(tree cst.Tree, query cst.Query, source []byte) ([]QueryMatch, error) {
	if tree == nil {
		return nil, fmt.Errorf("tree is nil")
	}
	if query == nil {
		return nil, fmt.Errorf("query is nil")
	}

	rawMatches, err := query.Execute(tree, source)
	if err != nil {
		return nil, fmt.Errorf("query execution failed: %w", err)
	}

	matches := make([]QueryMatch, 0, len(rawMatches))
	for _, m := range rawMatches {
		captures := make([]QueryCapture, 0, len(m.Captures))
		for _, c := range m.Captures {
			category, field := parseCaptureName(c.Name)

			captures = append(captures, QueryCapture{
				Name:     c.Name,
				Category: category,
				Field:    field,
				Node:     c.Node,
				Text:     c.Node.Text(source),
				Location: nodeLocation(c.Node),
			})
		}

		matches = append(matches, QueryMatch{
			PatternIndex: m.PatternIndex,
			Captures:     captures,
		})
	}

	return matches, nil
}

// Close releases all compiled queries.
//
// MUST be called when QueryManager is no longer needed to avoid memory leaks.
// After Close(), the QueryManager cannot be used.
func (qm *QueryManager) Close() error {
	qm.mutex.Lock()
	defer qm.mutex.Unlock()

	qm.logger.Info("closing QueryManager",
		"queries_compiled", len(qm.cache))

	for key, query := range qm.cache {
		if query != nil {
			query.Close()
		}
		delete(qm.cache, key)
	}

	return nil
}

// QueryMatch represents a single pattern match from query execution.
type QueryMatch struct {
	// PatternIndex identifies which query pattern matched
	PatternIndex uint32

	// Captures contains all captured nodes for this match
	Captures []QueryCapture
}

// QueryCapture represents a single captured node from a query match.
type QueryCapture struct {
	// Name is the full capture name (e.g., "function.name", "call.definition")
	Name string

	// Category is the first part of the capture name (e.g., "function", "call")
	Category string

	// Field is the second part of the capture name (e.g., "name", "definition")
	// Empty string if capture name has no dot
	Field string

	// Node is the captured CST node
	Node cst.Node

	// Text is the source code text of the captured node
	Text string

	// Location is the file location of the captured node
	Location Location
}

// Location represents a position in source code.
type Location struct {
	StartLine   uint32 // 1-based line number
	StartColumn uint32 // 1-based column number
	EndLine     uint32
	EndColumn   uint32
	StartByte   uint32 // 0-based byte offset
	EndByte     uint32
}

// parseCaptureName splits a capture name like "function.name" into ("function", "name").
//
// If the name has no dot, returns (name, "").
// Examples:
//   - "function.name" → ("function", "name")
//   - "call.definition" → ("call", "definition")
//   - "package_name" → ("package_name", "")
func parseCaptureName(name string) (category, field string) {
	parts := strings.SplitN(name, ".", 2)
	if len(parts) == 2 {
		return parts[0], parts[1]
	}
	return name, ""
}

// nodeLocation extracts location information from a CST node.
//
// Converts tree-sitter's 0-based coordinates to 1-based line/column numbers
// for consistency with LSP and most editor APIs.
func nodeLocation(node cst.Node) Location {
	start := node.StartPoint()
	end := node.EndPoint()

	return Location{
		StartLine:   start.Row + 1,
		StartColumn: start.Column + 1,
		EndLine:     end.Row + 1,
		EndColumn:   end.Column + 1,
		StartByte:   node.StartByte(),
		EndByte:     node.EndByte(),
	}
}
