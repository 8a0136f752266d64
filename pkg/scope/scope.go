// Package scope builds the per-file lexical scope tree (L1 of the analysis
// pipeline): an arena of Scope nodes addressed by integer index, mirroring
// the parent/child scope-chain walk of a traditional pointer-based analyzer
// but keyed by index so the tree serializes cleanly and cycle detection is a
// visited-bitset check rather than pointer-chasing.
package scope

import (
	"github.com/relgraph/codegraph/pkg/extractor"
)

// Kind identifies what kind of lexical region a Scope represents.
type Kind string

const (
	KindModule      Kind = "module"
	KindGlobal      Kind = "global"
	KindFunction    Kind = "function"
	KindMethod      Kind = "method"
	KindConstructor Kind = "constructor"
	KindClass       Kind = "class"
	KindBlock       Kind = "block"
)

// ID is an index into a Tree's arena. The root scope always has ID 0.
// ParentID is -1 for the root.
type ID int

const NoParent ID = -1

// Scope is one node of the per-file lexical scope tree.
type Scope struct {
	ID       ID
	ParentID ID
	Kind     Kind
	Name     string // nullable: "" for anonymous/unnamed scopes
	Location extractor.Location
	Children []ID

	// Symbols maps a locally-bound name to the most recent (innermost,
	// last-declared-at-this-level) symbol recorded for it. Populated by L2
	// and L8 as definitions are discovered; L1 only builds the skeleton.
	Symbols map[string]SymbolBinding
}

// SymbolBinding records a single name binding inside a scope, stamped with
// its declaration position so L9's position-aware lookup can pick the
// closest-preceding binding instead of the textually-last one.
type SymbolBinding struct {
	Name       string
	SymbolID   string
	StartByte  uint32
	IsHoisted  bool
}

// Tree is the per-file scope arena produced by a Builder.
type Tree struct {
	FilePath string
	Nodes    []*Scope
}

// NewTree creates an empty tree with a single root scope of the given kind.
func NewTree(filePath string, rootKind Kind, rootLoc extractor.Location) *Tree {
	t := &Tree{FilePath: filePath}
	t.Nodes = append(t.Nodes, &Scope{
		ID:       0,
		ParentID: NoParent,
		Kind:     rootKind,
		Location: rootLoc,
		Symbols:  make(map[string]SymbolBinding),
	})
	return t
}

// Root returns the tree's root scope (always index 0).
func (t *Tree) Root() *Scope {
	return t.Nodes[0]
}

// Get returns the scope at id, or nil if out of range.
func (t *Tree) Get(id ID) *Scope {
	if int(id) < 0 || int(id) >= len(t.Nodes) {
		return nil
	}
	return t.Nodes[id]
}

// AddChild creates a new scope under parentID and returns its ID.
func (t *Tree) AddChild(parentID ID, kind Kind, name string, loc extractor.Location) ID {
	id := ID(len(t.Nodes))
	t.Nodes = append(t.Nodes, &Scope{
		ID:       id,
		ParentID: parentID,
		Kind:     kind,
		Name:     name,
		Location: loc,
		Symbols:  make(map[string]SymbolBinding),
	})
	if parent := t.Get(parentID); parent != nil {
		parent.Children = append(parent.Children, id)
	}
	return id
}

// Bind records a symbol binding directly in the given scope.
func (t *Tree) Bind(id ID, binding SymbolBinding) {
	if s := t.Get(id); s != nil {
		s.Symbols[binding.Name] = binding
	}
}

// Path returns the scope path from root to id, exclusive of the root and
// inclusive of id's own name, joined the way FQNs are built: class/function
// names in outer-to-inner order. Anonymous scopes contribute a positional
// placeholder so the resulting symbol ID segment stays unique, per the
// grammar's `<anon:row:col>` segment.
func (t *Tree) Path(id ID) []string {
	var segments []string
	for cur := t.Get(id); cur != nil && cur.ParentID != NoParent; cur = t.Get(cur.ParentID) {
		name := cur.Name
		if name == "" {
			name = anonSegment(cur.Location)
		}
		segments = append([]string{name}, segments...)
	}
	return segments
}

func anonSegment(loc extractor.Location) string {
	return "<anon:" + itoa(int(loc.StartLine)) + ":" + itoa(int(loc.StartColumn)) + ">"
}

// itoa avoids pulling in strconv for this one call site's worth of use.
func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// EnclosingClass returns the name of the nearest class-kind ancestor scope
// (including the scope found by Lookup itself) containing byteOffset. Used
// to resolve `this`/`self`/`super` method-call receivers, which name a
// keyword rather than a type: the real receiver type is whatever class
// lexically encloses the call site.
func (t *Tree) EnclosingClass(byteOffset uint32) (string, bool) {
	for id := t.Lookup(byteOffset); id != NoParent; {
		s := t.Get(id)
		if s == nil {
			return "", false
		}
		if s.Kind == KindClass && s.Name != "" {
			return s.Name, true
		}
		id = s.ParentID
	}
	return "", false
}

// Lookup returns the ID of the smallest scope whose range contains the given
// byte offset, starting the search from root. Ties (zero-length ranges)
// favor the innermost (most recently descended) match, matching the spec's
// tie-break rule.
func (t *Tree) Lookup(byteOffset uint32) ID {
	best := ID(0)
	cur := t.Root()
	for {
		advanced := false
		for _, childID := range cur.Children {
			child := t.Get(childID)
			if child == nil {
				continue
			}
			if byteOffset >= child.Location.StartByte && byteOffset < child.Location.EndByte {
				best = childID
				cur = child
				advanced = true
				break
			}
		}
		if !advanced {
			break
		}
	}
	return best
}
