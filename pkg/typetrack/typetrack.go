// Package typetrack implements the local type tracker (L3): a per-file,
// position-aware map from variable name to declared/inferred type, seeded
// from imports and constructor-call assignments and consulted by call
// detection (L4) to resolve a method call's receiver type.
//
// Tracking is position-aware, not flow-sensitive: a binding is visible to
// any lookup at a byte offset at or after the binding's own offset within
// the same or a descendant scope, and a later binding of the same name in
// the same scope shadows an earlier one for lookups that follow it. There
// is no attempt to model reassignment invalidating a type (e.g. "x = new A();
// x = new B()" keeps both bindings, ordered by offset) since the source
// languages give no static guarantee narrowing would be sound anyway.
package typetrack

import (
	"sort"

	"github.com/relgraph/codegraph/pkg/extractor"
	"github.com/relgraph/codegraph/pkg/scope"
)

// Binding records one name→type association and where it takes effect.
type Binding struct {
	Name      string
	Type      string
	ScopeID   scope.ID
	StartByte uint32

	// FromConstructorCall is true when the binding came from "x = new T()" /
	// "x = T()" / "let x = T::new()" rather than an explicit annotation or
	// import. Constructor-derived bindings are weaker evidence: a plain
	// function call in Python/JS shares the same syntax, so L6 may later
	// downgrade one of these if no matching type is ever registered.
	FromConstructorCall bool
}

// Tracker holds all bindings discovered in one file, indexed by name for
// fast lookup; Resolve scans a name's bindings for the latest one at or
// before a query offset.
type Tracker struct {
	FilePath string
	tree     *scope.Tree
	byName   map[string][]Binding
}

// New creates an empty tracker over an already-built scope tree.
func New(filePath string, tree *scope.Tree) *Tracker {
	return &Tracker{
		FilePath: filePath,
		tree:     tree,
		byName:   make(map[string][]Binding),
	}
}

// Add records a binding. Call Finalize after all Add calls and before any
// Resolve.
func (t *Tracker) Add(b Binding) {
	t.byName[b.Name] = append(t.byName[b.Name], b)
}

// Finalize sorts each name's bindings by StartByte. The sort is not stable,
// so bindings with equal StartByte are left in no defined order.
func (t *Tracker) Finalize() {
	for _, bindings := range t.byName {
		sort.Slice(bindings, func(i, j int) bool {
			return bindings[i].StartByte < bindings[j].StartByte
		})
	}
}

// Resolve returns the declared type of name visible at byteOffset within
// scopeID, or "" if none is known. It walks from scopeID up through parent
// scopes (since an enclosing scope's binding is visible to a nested one),
// at each scope level picking the latest binding in that *same* scope whose
// StartByte is <= byteOffset; the first scope level with a match wins.
func (t *Tracker) Resolve(name string, scopeID scope.ID, byteOffset uint32) (string, bool) {
	bindings, ok := t.byName[name]
	if !ok {
		return "", false
	}

	for sid := scopeID; sid != scope.NoParent; {
		s := t.tree.Get(sid)
		if s == nil {
			break
		}

		best := -1
		for i, b := range bindings {
			if b.ScopeID != sid {
				continue
			}
			if b.StartByte > byteOffset {
				continue
			}
			if best == -1 || b.StartByte >= bindings[best].StartByte {
				best = i
			}
		}
		if best != -1 {
			return bindings[best].Type, true
		}
		sid = s.ParentID
	}
	return "", false
}

// SeedFromImports registers every imported local name as a binding of its
// own exported name (the common case: "import { UserService } from './x'"
// gives a receiver named UserService whose type is itself for constructor
// calls, and "import { UserService as US }" gives a receiver US of type
// UserService). Namespace imports ("import * as models") are skipped here;
// a namespaced call is resolved against the module's exports by L4 instead
// of through the type tracker.
func SeedFromImports(t *Tracker, imports []extractor.ImportInfo, rootScope scope.ID) {
	for _, imp := range imports {
		if imp.ImportType == extractor.ImportTypeNamespace {
			continue
		}
		for localName, exportedName := range imp.ImportedSymbols {
			if localName == "*" {
				continue
			}
			t.Add(Binding{
				Name:      localName,
				Type:      exportedName,
				ScopeID:   rootScope,
				StartByte: imp.Location.StartByte,
			})
		}
	}
}

// SeedFromAnnotations registers every var→type pair found by the
// tree-sitter type-annotation queries (pkg/extractor's TypeAnnotations map)
// at file scope. The annotation queries are not scope-aware, so every
// binding lands on the root scope; Resolve still finds it from any nested
// scope via the parent-walk, and a narrower binding added later (e.g. a
// shadowing parameter) still wins locally because Resolve matches the
// nearest enclosing scope first.
func SeedFromAnnotations(t *Tracker, annotations map[string]string, rootScope scope.ID, constructorDerived map[string]bool) {
	for varName, typeName := range annotations {
		t.Add(Binding{
			Name:                varName,
			Type:                typeName,
			ScopeID:             rootScope,
			FromConstructorCall: constructorDerived[varName],
		})
	}
}

// KnownType reports whether typeName appears as the Type of any binding in
// this tracker (e.g. an imported class name, or the target of some other
// variable's constructor-call assignment). Used by call detection to guess
// whether a bare call in a language with no constructor syntax of its own
// (Python's "x = T()") is a constructor call: if T is already known as a
// type somewhere in this file, that's strong evidence T is a class rather
// than a plain function.
func (t *Tracker) KnownType(typeName string) bool {
	for _, bindings := range t.byName {
		for _, b := range bindings {
			if b.Type == typeName {
				return true
			}
		}
	}
	return false
}

// ConstructorCallSites filters sites down to the shapes a constructor
// invocation can take: "new T(...)", any path-qualified call such as
// "T::new(...)", and any plain call "T(...)". Plain calls are kept in every
// language, not only Python, so the result also holds ordinary function
// calls. Call detection (L4) uses this to know which unresolved calls are
// candidate type-registry lookups rather than ordinary function calls, and
// pass 1 of the two-pass resolution (build calls, then re-resolve once the
// tracker below has been enriched by pass 1's own findings) drives off it.
func ConstructorCallSites(sites []extractor.CallSite) []extractor.CallSite {
	out := make([]extractor.CallSite, 0, len(sites))
	for _, s := range sites {
		if s.Shape == extractor.ShapeNewCall || s.Shape == extractor.ShapePathQualified || s.Shape == extractor.ShapePlainCall {
			out = append(out, s)
		}
	}
	return out
}
