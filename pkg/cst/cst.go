// Package cst abstracts over the two tree-sitter Go bindings used by this
// module (tree-sitter/go-tree-sitter for JavaScript/TypeScript/Python, and
// smacker/go-tree-sitter for Rust) behind a single node/tree/query surface.
//
// Later layers (scope, extractor, calldetect, ...) only ever see cst.Node
// and cst.Tree; they never import either underlying binding. This keeps the
// per-language grammar differences confined to the parser package, per the
// "Language Policy" design note: the core algorithms are generic over a
// capability set, not over a specific tree-sitter binding.
package cst

import "errors"

// errWrongEngine is returned when a Query is executed against a Tree
// produced by the other tree-sitter binding.
var errWrongEngine = errors.New("cst: query and tree belong to different tree-sitter engines")

// Point is a zero-based (row, column) position in the tree-sitter frame.
type Point struct {
	Row    uint32
	Column uint32
}

// Node is a read-only view of one concrete syntax tree node.
//
// Implementations wrap either go-tree-sitter or smacker/go-tree-sitter
// nodes. A nil interface value or an IsNull() node represents "no node"
// (e.g. a missing optional field), mirroring tree-sitter's own null-node
// convention.
type Node interface {
	IsNull() bool
	Kind() string // grammar node type, e.g. "function_declaration"
	StartByte() uint32
	EndByte() uint32
	StartPoint() Point
	EndPoint() Point
	Text(source []byte) string

	Parent() Node
	ChildCount() int
	Child(i int) Node
	NamedChildCount() int
	NamedChild(i int) Node
	ChildByFieldName(name string) Node
	NextSibling() Node
	PrevSibling() Node
	NextNamedSibling() Node
	PrevNamedSibling() Node
	HasError() bool
}

// Tree is a parsed concrete syntax tree. The caller owns it and must call
// Close to release the underlying tree-sitter resources.
type Tree interface {
	Root() Node
	Close()
}

// Capture is one captured node from a query match, tagged with its full
// capture name (e.g. "function.name").
type Capture struct {
	Name string
	Node Node
}

// Match is one pattern match from query execution.
type Match struct {
	PatternIndex uint32
	Captures     []Capture
}

// Query is a compiled tree-sitter query, engine-specific under the hood.
type Query interface {
	// Execute runs the query against tree and returns all matches.
	Execute(tree Tree, source []byte) ([]Match, error)
	Close()
}
