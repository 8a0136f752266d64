// Package codegraph ties layers L1 through L9 together into the single
// public entry point spec.md §5 describes: fan out per-file analysis,
// fold the project-wide registries, then resolve every call to a symbol,
// producing one terminal ProjectCodeGraph.
package codegraph

import (
	"github.com/relgraph/codegraph/pkg/calldetect"
	"github.com/relgraph/codegraph/pkg/extractor"
	"github.com/relgraph/codegraph/pkg/inheritance"
	"github.com/relgraph/codegraph/pkg/modgraph"
	"github.com/relgraph/codegraph/pkg/parser"
	"github.com/relgraph/codegraph/pkg/resolver"
	"github.com/relgraph/codegraph/pkg/scope"
	"github.com/relgraph/codegraph/pkg/symboltable"
	"github.com/relgraph/codegraph/pkg/typereg"
)

// Config is the project-wide analysis input, per spec.md §6.
type Config struct {
	RootPath        string
	IncludePatterns []string
	ExcludePatterns []string

	// MaxFileSize skips any file larger than this many bytes. Zero means
	// unlimited.
	MaxFileSize int64

	// Languages restricts analysis to this set. Nil or empty means every
	// language the extractor supports.
	Languages map[parser.Language]bool
}

// ErrorKind is the taxonomy spec.md §7 names.
type ErrorKind string

const (
	ErrorKindParse   ErrorKind = "parse"
	ErrorKindScope   ErrorKind = "scope"
	ErrorKindExtract ErrorKind = "extract"
	ErrorKindImport  ErrorKind = "import"
	ErrorKindResolve ErrorKind = "resolve"
	ErrorKindCycle   ErrorKind = "cycle"
	ErrorKindIO      ErrorKind = "io"
)

// FileErrorRecord is one non-fatal error attached to the project result.
type FileErrorRecord struct {
	File     string
	Layer    string
	Kind     ErrorKind
	Message  string
	Location *extractor.Location
}

// FileAnalysis is one file's complete per-layer result set.
type FileAnalysis struct {
	FilePath string
	Language parser.Language

	Scopes    *scope.Tree
	Functions []extractor.Symbol
	Classes   []extractor.Symbol
	Variables []extractor.Symbol

	Imports []extractor.ImportInfo
	Exports []extractor.ExportInfo

	FunctionCalls    []calldetect.CallRecord
	MethodCalls      []calldetect.CallRecord
	ConstructorCalls []calldetect.CallRecord

	// References holds every L2 identifier occurrence in the file together
	// with its L9 resolution outcome (spec.md §3's Reference entity, bound
	// via the lexical scope-chain walk).
	References []ResolvedReference

	Errors []FileErrorRecord
}

// ResolvedReference pairs one L2 Reference with its L9 resolution outcome.
type ResolvedReference struct {
	Name     string
	Location extractor.Location
	State    resolver.State
	SymbolID symboltable.ID
	Reason   string
}

// ResolvedImport is one import's resolution outcome, as reported in the
// module graph output.
type ResolvedImport struct {
	Local        string
	TargetFile   string
	ExternalName string
	Resolved     bool
}

// ExportedSymbol is one export's outward-facing identity.
type ExportedSymbol struct {
	Name     string
	SymbolID symboltable.ID
	IsDefault bool
}

// ModuleEntry is one file's module-graph record.
type ModuleEntry struct {
	ImportsResolved []ResolvedImport
	Exports         []ExportedSymbol
}

// ModuleGraph mirrors spec.md §6's `modules` output.
type ModuleGraph map[string]ModuleEntry

// CallEdgeKind tags a call-graph edge the way spec.md §6 asks.
type CallEdgeKind string

const (
	CallEdgeDirect      CallEdgeKind = "direct"
	CallEdgeMethod      CallEdgeKind = "method"
	CallEdgeConstructor CallEdgeKind = "constructor"
)

// CallEdge is one outgoing edge from a CallNode.
type CallEdge struct {
	Callee symboltable.ID
	Kind   CallEdgeKind
	Site   extractor.Location
}

// CallNode is one function/method/constructor in the project call graph.
type CallNode struct {
	Signature    string
	Calls        []CallEdge
	CalledBy     []symboltable.ID
	IsEntryPoint bool
}

// CallGraph mirrors spec.md §6's `calls` output: nodes keyed by symbol ID.
type CallGraph map[symboltable.ID]*CallNode

// ClassNode is one class hierarchy entry, per spec.md §4.7/§6.
type ClassNode struct {
	Key            typereg.Key
	DirectParents  []typereg.Key
	Implements     []typereg.Key
	AllAncestors   []typereg.Key
	AllDescendants []typereg.Key
	MRO            []typereg.Key
	Unresolved     []string
}

// ClassHierarchy mirrors spec.md §6's `classes` output.
type ClassHierarchy map[typereg.Key]*ClassNode

// SymbolRecord is one definition plus the call sites that reference it.
type SymbolRecord struct {
	Entry      symboltable.Entry
	CalledFrom []extractor.Location
}

// SymbolIndex mirrors spec.md §6's `symbols` output.
type SymbolIndex map[symboltable.ID]*SymbolRecord

// Metadata mirrors spec.md §6's `metadata` output. AnalysisTimeMs is broken
// down into three phases (discover, fan_out_l1_l3, fold_l5_l9) rather than a
// single aggregate (SPEC_FULL.md's supplemented-features addition).
type Metadata struct {
	RootPath        string
	FileCount       int
	AnalysisTimeMs  map[string]int64
	LanguageStats   map[string]int
}

// ProjectCodeGraph is the terminal artifact, per spec.md §3/§6.
type ProjectCodeGraph struct {
	Files    map[string]*FileAnalysis
	Modules  ModuleGraph
	Calls    CallGraph
	Classes  ClassHierarchy
	Symbols  SymbolIndex
	Metadata Metadata

	// Errors collects every non-fatal per-file error across all layers,
	// in addition to the ones embedded per-file in Files[...].Errors.
	Errors []FileErrorRecord

	// The underlying L5-L9 artifacts, kept reachable for callers (the MCP
	// query surface) that need more than the flattened public shape above.
	ModuleGraphRaw *modgraph.Graph
	TypeRegistry   *typereg.Registry
	InheritanceRaw *inheritance.Graph
	SymbolTable    *symboltable.Table
	Resolver       *resolver.Resolver
}
