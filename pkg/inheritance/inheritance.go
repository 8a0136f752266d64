// Package inheritance implements the inheritance resolver (L7): resolving
// every class's declared extends/implements names to the typereg.Key of
// the class that defines them, then computing the transitive ancestor/
// descendant closure and a linearized method resolution order per class.
package inheritance

import (
	"github.com/relgraph/codegraph/pkg/modgraph"
	"github.com/relgraph/codegraph/pkg/typereg"
)

// Graph holds the resolved inheritance relationships for the whole
// project, per spec.md §4.7's named outputs.
type Graph struct {
	// ExtendsMap maps a class to the classes it directly extends.
	ExtendsMap map[typereg.Key][]typereg.Key
	// ImplementsMap maps a class to the interfaces/traits it directly
	// implements.
	ImplementsMap map[typereg.Key][]typereg.Key
	// AllAncestors maps a class to its full transitive ancestor set
	// (extends + implements, recursively).
	AllAncestors map[typereg.Key][]typereg.Key
	// AllDescendants is the inverse of AllAncestors.
	AllDescendants map[typereg.Key][]typereg.Key
	// MRO holds each class's linearized method resolution order:
	// depth-first, parents before interfaces, stable tie-break by the
	// textual order extends/implements were declared in.
	MRO map[typereg.Key][]typereg.Key

	// Unresolved records declared extends/implements names that could not
	// be matched to any class in the registry, keyed by the declaring
	// class; spec.md treats these as open questions, not hard failures.
	Unresolved map[typereg.Key][]string
}

// Build resolves and closes over every class's heritage in reg, using mg to
// follow cross-file extends/implements references through imports.
func Build(reg *typereg.Registry, mg *modgraph.Graph) *Graph {
	g := &Graph{
		ExtendsMap:     make(map[typereg.Key][]typereg.Key),
		ImplementsMap:  make(map[typereg.Key][]typereg.Key),
		AllAncestors:   make(map[typereg.Key][]typereg.Key),
		AllDescendants: make(map[typereg.Key][]typereg.Key),
		MRO:            make(map[typereg.Key][]typereg.Key),
		Unresolved:     make(map[typereg.Key][]string),
	}

	for _, entry := range reg.All() {
		key := entry.Key
		for _, name := range entry.Symbol.Extends {
			if target, ok := resolveHeritageName(reg, mg, key.File, name); ok {
				g.ExtendsMap[key] = append(g.ExtendsMap[key], target)
			} else {
				g.Unresolved[key] = append(g.Unresolved[key], name)
			}
		}
		for _, name := range entry.Symbol.Implements {
			if target, ok := resolveHeritageName(reg, mg, key.File, name); ok {
				g.ImplementsMap[key] = append(g.ImplementsMap[key], target)
			} else {
				g.Unresolved[key] = append(g.Unresolved[key], name)
			}
		}
	}

	for key := range g.ExtendsMap {
		g.AllAncestors[key] = closeAncestors(g, key, make(map[typereg.Key]bool))
	}
	for key := range g.ImplementsMap {
		if _, ok := g.AllAncestors[key]; !ok {
			g.AllAncestors[key] = closeAncestors(g, key, make(map[typereg.Key]bool))
		}
	}

	for child, ancestors := range g.AllAncestors {
		for _, anc := range ancestors {
			g.AllDescendants[anc] = append(g.AllDescendants[anc], child)
		}
	}

	for key := range g.AllAncestors {
		g.MRO[key] = linearize(g, key, make(map[typereg.Key]bool))
	}

	return g
}

// resolveHeritageName implements spec.md §4.7's two-step resolution order:
// a same-file type definition first, then the declaring file's resolved
// imports.
func resolveHeritageName(reg *typereg.Registry, mg *modgraph.Graph, fromFile, name string) (typereg.Key, bool) {
	if entry, ok := reg.Lookup(fromFile, name); ok {
		return entry.Key, true
	}

	if mg != nil {
		for _, rec := range mg.ImportsByFile[fromFile] {
			if !rec.Resolved {
				continue
			}
			exportedName, imported := rec.Import.ImportedSymbols[name]
			if !imported {
				continue
			}
			if entry, ok := reg.Lookup(rec.ResolvedFile, exportedName); ok {
				return entry.Key, true
			}
		}
	}

	// Last resort: a project-unique name match, for languages/cases where
	// the import record's local/exported name bookkeeping didn't line up
	// (e.g. Rust glob `use` imports).
	if matches := reg.LookupByName(name); len(matches) == 1 {
		return matches[0].Key, true
	}
	return typereg.Key{}, false
}

// closeAncestors computes the transitive ancestor set of key via
// depth-first traversal of ExtendsMap+ImplementsMap, guarding against
// cycles and duplicate entries.
func closeAncestors(g *Graph, key typereg.Key, visiting map[typereg.Key]bool) []typereg.Key {
	if visiting[key] {
		return nil // cycle guard: never revisit a key already on the stack
	}
	visiting[key] = true

	seen := make(map[typereg.Key]bool)
	var ordered []typereg.Key
	add := func(k typereg.Key) {
		if k == key || seen[k] {
			return
		}
		seen[k] = true
		ordered = append(ordered, k)
	}

	for _, parent := range g.ExtendsMap[key] {
		add(parent)
		for _, anc := range closeAncestors(g, parent, visiting) {
			add(anc)
		}
	}
	for _, iface := range g.ImplementsMap[key] {
		add(iface)
		for _, anc := range closeAncestors(g, iface, visiting) {
			add(anc)
		}
	}

	delete(visiting, key)
	return ordered
}

// linearize produces a class's method resolution order: itself, then its
// direct parents depth-first (extends before implements), in declaration
// order, skipping anything already placed.
func linearize(g *Graph, key typereg.Key, visiting map[typereg.Key]bool) []typereg.Key {
	if visiting[key] {
		return nil
	}
	visiting[key] = true
	defer delete(visiting, key)

	seen := map[typereg.Key]bool{key: true}
	order := []typereg.Key{key}

	var walk func(k typereg.Key)
	walk = func(k typereg.Key) {
		for _, parent := range g.ExtendsMap[k] {
			if seen[parent] {
				continue
			}
			seen[parent] = true
			order = append(order, parent)
			walk(parent)
		}
		for _, iface := range g.ImplementsMap[k] {
			if seen[iface] {
				continue
			}
			seen[iface] = true
			order = append(order, iface)
			walk(iface)
		}
	}
	walk(key)
	return order
}
