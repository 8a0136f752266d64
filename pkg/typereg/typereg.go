// Package typereg implements the type registry (L6): a project-wide
// catalog of classes/structs/interfaces/enums/traits, folded over every
// file's extracted symbols after the module graph (L5) has resolved
// imports. The registry is the lookup surface L7 (inheritance) and L9
// (reference resolution) query to turn a bare type name into the class
// that declares it.
package typereg

import (
	"strings"

	"github.com/relgraph/codegraph/pkg/extractor"
	"github.com/relgraph/codegraph/pkg/parser"
)

// classKinds are the SymbolKinds the registry catalogs. Functions,
// variables, and constants are not type-shaped and stay out of it.
var classKinds = map[extractor.SymbolKind]bool{
	extractor.SymbolKindClass:     true,
	extractor.SymbolKindInterface: true,
	extractor.SymbolKindEnum:      true,
	extractor.SymbolKindType:      true,
}

// Key identifies one catalog entry by the file that declares it and its
// local name, per spec.md §4.6's "keyed by (file, name)" requirement.
type Key struct {
	File string
	Name string
}

// MarshalText renders Key as "file#name" so it can serialize as a JSON
// object key (encoding/json refuses struct-keyed maps without this).
func (k Key) MarshalText() ([]byte, error) {
	return []byte(k.File + "#" + k.Name), nil
}

// UnmarshalText parses the "file#name" form MarshalText produces. The name
// is taken from the last '#'-delimited field so file paths containing '#'
// still round-trip.
func (k *Key) UnmarshalText(text []byte) error {
	s := string(text)
	idx := strings.LastIndex(s, "#")
	if idx < 0 {
		k.File, k.Name = "", s
		return nil
	}
	k.File, k.Name = s[:idx], s[idx+1:]
	return nil
}

// Entry is one catalog record.
type Entry struct {
	Key
	Symbol extractor.Symbol
}

// Registry is the project-wide type catalog.
type Registry struct {
	byKey map[Key]*Entry

	// byName indexes every entry additionally by bare name, across all
	// files, to support "search import target by name" lookups when a
	// reference's binding isn't yet pinned to a specific file (L9's
	// lexical-walk fallback before import resolution narrows it down).
	byName map[string][]*Entry
}

// Build folds every file's class-shaped symbols into a Registry.
func Build(files []*extractor.PerFileResult) *Registry {
	r := &Registry{
		byKey:  make(map[Key]*Entry),
		byName: make(map[string][]*Entry),
	}
	for _, f := range files {
		for _, sym := range f.Symbols {
			if !classKinds[sym.Kind] {
				continue
			}
			key := Key{File: f.FilePath, Name: sym.Name}
			entry := &Entry{Key: key, Symbol: sym}
			r.byKey[key] = entry
			r.byName[sym.Name] = append(r.byName[sym.Name], entry)
		}
	}
	return r
}

// Lookup returns the entry declared in file with the given name.
func (r *Registry) Lookup(file, name string) (*Entry, bool) {
	e, ok := r.byKey[Key{File: file, Name: name}]
	return e, ok
}

// All returns every entry in the registry, in no particular order.
func (r *Registry) All() []*Entry {
	entries := make([]*Entry, 0, len(r.byKey))
	for _, e := range r.byKey {
		entries = append(entries, e)
	}
	return entries
}

// LookupByName returns every entry across the project with the given bare
// name (normally a singleton; more than one means the name is declared in
// multiple files and the caller must disambiguate via imports/scope).
func (r *Registry) LookupByName(name string) []*Entry {
	return r.byName[name]
}

// MethodsOf returns the method names declared directly on the class at key
// (not including inherited methods; L7 walks ancestors for those), looked
// up among the same file's symbols by fully-qualified-name prefix.
func MethodsOf(files map[string]*extractor.PerFileResult, key Key) []extractor.Symbol {
	f, ok := files[key.File]
	if !ok {
		return nil
	}
	sep := "."
	if f.Language == parser.LanguageRust {
		sep = "::"
	}
	prefix := key.Name + sep

	var methods []extractor.Symbol
	for _, sym := range f.Symbols {
		if sym.Kind != extractor.SymbolKindMethod {
			continue
		}
		if strings.HasPrefix(sym.FullyQualifiedName, prefix) {
			methods = append(methods, sym)
		}
	}
	return methods
}
