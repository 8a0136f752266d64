package cst

import (
	ts "github.com/tree-sitter/go-tree-sitter"
)

// tsNode adapts a go-tree-sitter node to cst.Node.
type tsNode struct {
	n ts.Node
}

// WrapTSNode exposes a go-tree-sitter node as a cst.Node. Exported for use
// by the parser package, which is the only other package allowed to touch
// the underlying binding types.
func WrapTSNode(n ts.Node) Node {
	return tsNode{n: n}
}

func (w tsNode) IsNull() bool    { return w.n.IsNull() }
func (w tsNode) Kind() string    { return w.n.GrammarName() }
func (w tsNode) StartByte() uint32 { return w.n.StartByte() }
func (w tsNode) EndByte() uint32   { return w.n.EndByte() }
func (w tsNode) StartPoint() Point {
	p := w.n.StartPosition()
	return Point{Row: uint32(p.Row), Column: uint32(p.Column)}
}
func (w tsNode) EndPoint() Point {
	p := w.n.EndPosition()
	return Point{Row: uint32(p.Row), Column: uint32(p.Column)}
}
func (w tsNode) Text(source []byte) string { return w.n.Utf8Text(source) }
func (w tsNode) HasError() bool            { return w.n.HasError() }

func (w tsNode) Parent() Node {
	p := w.n.Parent()
	if p == nil {
		return nil
	}
	return tsNode{n: *p}
}

func (w tsNode) ChildCount() int { return int(w.n.ChildCount()) }
func (w tsNode) Child(i int) Node {
	c := w.n.Child(uint(i))
	if c == nil {
		return nil
	}
	return tsNode{n: *c}
}

func (w tsNode) NamedChildCount() int { return int(w.n.NamedChildCount()) }
func (w tsNode) NamedChild(i int) Node {
	c := w.n.NamedChild(uint(i))
	if c == nil {
		return nil
	}
	return tsNode{n: *c}
}

func (w tsNode) ChildByFieldName(name string) Node {
	c := w.n.ChildByFieldName(name)
	if c == nil {
		return nil
	}
	return tsNode{n: *c}
}

func (w tsNode) NextSibling() Node {
	c := w.n.NextSibling()
	if c == nil {
		return nil
	}
	return tsNode{n: *c}
}

func (w tsNode) PrevSibling() Node {
	c := w.n.PrevSibling()
	if c == nil {
		return nil
	}
	return tsNode{n: *c}
}

func (w tsNode) NextNamedSibling() Node {
	c := w.n.NextNamedSibling()
	if c == nil {
		return nil
	}
	return tsNode{n: *c}
}

func (w tsNode) PrevNamedSibling() Node {
	c := w.n.PrevNamedSibling()
	if c == nil {
		return nil
	}
	return tsNode{n: *c}
}

// tsTree adapts a go-tree-sitter *ts.Tree to cst.Tree.
type tsTree struct {
	t *ts.Tree
}

// WrapTSTree exposes a go-tree-sitter tree as a cst.Tree.
func WrapTSTree(t *ts.Tree) Tree {
	return tsTree{t: t}
}

func (w tsTree) Root() Node {
	return tsNode{n: w.t.RootNode()}
}

func (w tsTree) Close() {
	w.t.Close()
}

// tsQuery adapts a compiled go-tree-sitter query to cst.Query.
type tsQuery struct {
	q *ts.Query
}

// WrapTSQuery exposes a compiled go-tree-sitter query as a cst.Query.
func WrapTSQuery(q *ts.Query) Query {
	return tsQuery{q: q}
}

func (w tsQuery) Close() {
	w.q.Close()
}

func (w tsQuery) Execute(tree Tree, source []byte) ([]Match, error) {
	underlying, ok := tree.(tsTree)
	if !ok {
		return nil, errWrongEngine
	}

	cursor := ts.NewQueryCursor()
	defer cursor.Close()

	iter := cursor.Matches(w.q, underlying.t.RootNode(), source)
	names := w.q.CaptureNames()

	var matches []Match
	for {
		m := iter.Next()
		if m == nil {
			break
		}

		captures := make([]Capture, 0, len(m.Captures))
		for _, c := range m.Captures {
			name := ""
			if int(c.Index) < len(names) {
				name = names[c.Index]
			}
			captures = append(captures, Capture{Name: name, Node: tsNode{n: c.Node}})
		}

		matches = append(matches, Match{PatternIndex: uint32(m.PatternIndex), Captures: captures})
	}

	return matches, nil
}
