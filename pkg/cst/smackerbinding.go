package cst

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// smackerNode adapts a smacker/go-tree-sitter node to cst.Node. This engine
// backs the Rust policy only: the tree-sitter/go-tree-sitter organization has
// no published Rust grammar binding, so Rust follows the pack's own
// precedent (the retrieved roveo-topo-mcp Rust analyzer) instead.
type smackerNode struct {
	n *sitter.Node
}

// WrapSmackerNode exposes a smacker/go-tree-sitter node as a cst.Node.
func WrapSmackerNode(n *sitter.Node) Node {
	if n == nil {
		return nil
	}
	return smackerNode{n: n}
}

func (w smackerNode) IsNull() bool      { return w.n == nil || w.n.IsNull() }
func (w smackerNode) Kind() string      { return w.n.Type() }
func (w smackerNode) StartByte() uint32 { return w.n.StartByte() }
func (w smackerNode) EndByte() uint32   { return w.n.EndByte() }
func (w smackerNode) StartPoint() Point {
	p := w.n.StartPoint()
	return Point{Row: p.Row, Column: p.Column}
}
func (w smackerNode) EndPoint() Point {
	p := w.n.EndPoint()
	return Point{Row: p.Row, Column: p.Column}
}
func (w smackerNode) Text(source []byte) string { return w.n.Content(source) }
func (w smackerNode) HasError() bool            { return w.n.HasError() }

func (w smackerNode) Parent() Node { return WrapSmackerNode(w.n.Parent()) }

func (w smackerNode) ChildCount() int        { return int(w.n.ChildCount()) }
func (w smackerNode) Child(i int) Node       { return WrapSmackerNode(w.n.Child(i)) }
func (w smackerNode) NamedChildCount() int   { return int(w.n.NamedChildCount()) }
func (w smackerNode) NamedChild(i int) Node  { return WrapSmackerNode(w.n.NamedChild(i)) }

func (w smackerNode) ChildByFieldName(name string) Node {
	return WrapSmackerNode(w.n.ChildByFieldName(name))
}

func (w smackerNode) NextSibling() Node      { return WrapSmackerNode(w.n.NextSibling()) }
func (w smackerNode) PrevSibling() Node      { return WrapSmackerNode(w.n.PrevSibling()) }
func (w smackerNode) NextNamedSibling() Node { return WrapSmackerNode(w.n.NextNamedSibling()) }
func (w smackerNode) PrevNamedSibling() Node { return WrapSmackerNode(w.n.PrevNamedSibling()) }

// smackerTree adapts a smacker/go-tree-sitter *sitter.Tree to cst.Tree.
// The binding has no explicit tree-teardown call; Close is a no-op kept to
// satisfy the shared interface so callers don't special-case engines.
type smackerTree struct {
	t *sitter.Tree
}

// WrapSmackerTree exposes a smacker/go-tree-sitter tree as a cst.Tree.
func WrapSmackerTree(t *sitter.Tree) Tree {
	return smackerTree{t: t}
}

func (w smackerTree) Root() Node { return WrapSmackerNode(w.t.RootNode()) }
func (w smackerTree) Close()     {}

// smackerQuery adapts a compiled smacker/go-tree-sitter query to cst.Query.
type smackerQuery struct {
	q *sitter.Query
}

// WrapSmackerQuery exposes a compiled smacker/go-tree-sitter query as a cst.Query.
func WrapSmackerQuery(q *sitter.Query) Query {
	return smackerQuery{q: q}
}

func (w smackerQuery) Close() {
	w.q.Close()
}

func (w smackerQuery) Execute(tree Tree, source []byte) ([]Match, error) {
	underlying, ok := tree.(smackerTree)
	if !ok {
		return nil, errWrongEngine
	}

	cursor := sitter.NewQueryCursor()
	defer cursor.Close()

	cursor.Exec(w.q, underlying.t.RootNode())

	var matches []Match
	for {
		m, ok := cursor.NextMatch()
		if !ok {
			break
		}

		captures := make([]Capture, 0, len(m.Captures))
		for _, c := range m.Captures {
			captures = append(captures, Capture{
				Name: w.q.CaptureNameForId(c.Index),
				Node: WrapSmackerNode(c.Node),
			})
		}

		matches = append(matches, Match{PatternIndex: uint32(m.PatternIndex), Captures: captures})
	}

	return matches, nil
}
