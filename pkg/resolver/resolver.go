// Package resolver implements the reference resolver (L9): the final pass
// that binds every reference L2 produced and every call-site callee L4
// produced to a symbol ID from L8, using the lexical scope, the module
// graph (L5), the type registry (L6), and the inheritance resolver's
// linearized method resolution order (L7).
//
// Two entry points mirror spec.md §4.9's two reference shapes: ResolveCall
// handles a call-site callee (function/method/constructor dispatch, via
// the module graph and MRO); ResolveReference handles a bare identifier
// occurrence via the lexical scope-chain walk (step 1 of §4.9's algorithm)
// before falling back to the same import-follow and built-in steps
// ResolveCall itself falls back to.
package resolver

import (
	"github.com/relgraph/codegraph/pkg/calldetect"
	"github.com/relgraph/codegraph/pkg/extractor"
	"github.com/relgraph/codegraph/pkg/inheritance"
	"github.com/relgraph/codegraph/pkg/modgraph"
	"github.com/relgraph/codegraph/pkg/parser"
	"github.com/relgraph/codegraph/pkg/scope"
	"github.com/relgraph/codegraph/pkg/symboltable"
	"github.com/relgraph/codegraph/pkg/typereg"
)

// State is the terminal resolution state of one reference, per spec.md
// §4.9's state machine: Pending → Resolved|Builtin|Unresolved, monotonic,
// with Resolved/Builtin/Unresolved all terminal.
type State string

const (
	StatePending    State = "pending"
	StateResolved   State = "resolved"
	StateBuiltin    State = "builtin"
	StateUnresolved State = "unresolved"
)

// Resolution is the outcome of resolving one call-site callee.
type Resolution struct {
	State    State
	SymbolID symboltable.ID
	Reason   string // populated when State == StateUnresolved
}

// Resolver ties together the project-wide registries built by L5-L8.
type Resolver struct {
	Table       *symboltable.Table
	TypeReg     *typereg.Registry
	ModuleGraph *modgraph.Graph
	Inheritance *inheritance.Graph
	Builtins    BuiltinSet

	// Files indexes every analyzed file by path, needed to look up a
	// class's own method symbols (typereg.MethodsOf) while walking an MRO
	// chain that spans multiple files.
	Files map[string]*extractor.PerFileResult
}

// BuiltinSet reports whether name is a known built-in for a language, for
// the final fallback step of §4.9's algorithm.
type BuiltinSet func(lang parser.Language, name string) bool

// DefaultBuiltins recognizes a small, deliberately incomplete set of very
// common built-ins per language; call sites are otherwise left
// Unresolved rather than guessed at.
func DefaultBuiltins(lang parser.Language, name string) bool {
	switch lang {
	case parser.LanguageJavaScript, parser.LanguageTypeScript:
		return jsBuiltins[name]
	case parser.LanguagePython:
		return pyBuiltins[name]
	case parser.LanguageRust:
		return rustBuiltins[name]
	}
	return false
}

var jsBuiltins = map[string]bool{
	"console": true, "Object": true, "Array": true, "Promise": true, "JSON": true,
	"Map": true, "Set": true, "Error": true, "Date": true, "Math": true,
	"parseInt": true, "parseFloat": true, "setTimeout": true, "fetch": true,
}

var pyBuiltins = map[string]bool{
	"print": true, "len": true, "range": true, "str": true, "int": true, "float": true,
	"list": true, "dict": true, "set": true, "tuple": true, "open": true, "super": true,
	"isinstance": true, "Exception": true,
}

var rustBuiltins = map[string]bool{
	"println": true, "format": true, "vec": true, "Vec": true, "String": true,
	"Option": true, "Result": true, "Box": true, "HashMap": true, "panic": true,
}

// ResolveCall resolves one classified call record originating in file
// under language lang.
func (r *Resolver) ResolveCall(rec calldetect.CallRecord, file string, lang parser.Language) Resolution {
	switch rec.Kind {
	case calldetect.KindConstructorCall:
		return r.resolveTypeName(rec.Callee, file, lang)
	case calldetect.KindFunctionCall:
		return r.resolveFunctionName(rec.Callee, file, lang, rec.Namespace)
	case calldetect.KindMethodCall:
		return r.resolveMethod(rec, file, lang)
	default:
		return Resolution{State: StateUnresolved, Reason: "unknown call kind"}
	}
}

// ResolveReference resolves one bare identifier reference per spec.md
// §4.9's algorithm: a lexical scope-chain walk first (step 1), then an
// import follow (step 2), then a built-in fallback (step 4). Step 3
// (method/constructor dispatch through L6/L7) doesn't apply here — a bare
// reference has no receiver — and is handled by ResolveCall instead.
// tree is the reference's file's L1 scope tree; a nil tree skips straight
// to the import-follow/built-in fallback.
func (r *Resolver) ResolveReference(ref extractor.Reference, file string, lang parser.Language, tree *scope.Tree) Resolution {
	if tree != nil {
		if symbolID, ok := r.walkScopeChain(tree, ref.Name, ref.Location.StartByte); ok {
			if entry, ok := r.Table.Lookup(file, symbolID); ok {
				return Resolution{State: StateResolved, SymbolID: entry.ID}
			}
		}
	}

	if target, ok := r.followImport(file, ref.Name); ok {
		return Resolution{State: StateResolved, SymbolID: target}
	}

	if r.builtins(lang, ref.Name) {
		return Resolution{State: StateBuiltin, SymbolID: symboltable.BuiltinID(lang.String(), ref.Name)}
	}
	return Resolution{State: StateUnresolved, Reason: "no lexical, imported, or builtin binding for " + ref.Name}
}

// walkScopeChain implements the closest-lexical-binding-wins tie-break
// spec.md §4.9 names: starting from the scope enclosing offset, walk
// upward through ancestor scopes (the innermost match wins, since the walk
// stops at the first scope with a binding for name) looking for name in
// each scope's symbol map. A hoisted binding is visible throughout its
// scope regardless of position; a non-hoisted one is only visible from its
// own declaration offset onward, preserving the let/const-vs-var/function
// asymmetry pkg/scope.SymbolBinding.IsHoisted records.
func (r *Resolver) walkScopeChain(tree *scope.Tree, name string, offset uint32) (string, bool) {
	for id := tree.Lookup(offset); ; {
		s := tree.Get(id)
		if s == nil {
			return "", false
		}
		if binding, ok := s.Symbols[name]; ok && (binding.IsHoisted || offset >= binding.StartByte) {
			return binding.SymbolID, true
		}
		if s.ParentID == scope.NoParent {
			return "", false
		}
		id = s.ParentID
	}
}

// resolveFunctionName resolves a plain or namespaced function call: local
// declaration in the same file, else the file's resolved imports, else a
// built-in fallback.
func (r *Resolver) resolveFunctionName(name, file string, lang parser.Language, namespace string) Resolution {
	if entry, ok := r.Table.Lookup(file, name); ok {
		return Resolution{State: StateResolved, SymbolID: entry.ID}
	}

	if target, ok := r.followImport(file, name); ok {
		return Resolution{State: StateResolved, SymbolID: target}
	}

	if r.builtins(lang, name) {
		return Resolution{State: StateBuiltin, SymbolID: symboltable.BuiltinID(lang.String(), name)}
	}
	return Resolution{State: StateUnresolved, Reason: "no local, imported, or builtin definition for " + name}
}

// resolveTypeName resolves a constructor call's type name the same way as
// a function name, but restricted to the type registry's class-shaped
// catalog (so a same-named function never shadows a class in this path).
func (r *Resolver) resolveTypeName(name, file string, lang parser.Language) Resolution {
	if entry, ok := r.TypeReg.Lookup(file, name); ok {
		if tableEntry, ok := r.Table.Lookup(file, entry.Symbol.Name); ok {
			return Resolution{State: StateResolved, SymbolID: tableEntry.ID}
		}
	}

	if target, ok := r.followImport(file, name); ok {
		return Resolution{State: StateResolved, SymbolID: target}
	}

	if matches := r.TypeReg.LookupByName(name); len(matches) == 1 {
		if tableEntry, ok := r.Table.Lookup(matches[0].Key.File, matches[0].Symbol.Name); ok {
			return Resolution{State: StateResolved, SymbolID: tableEntry.ID}
		}
	}

	if r.builtins(lang, name) {
		return Resolution{State: StateBuiltin, SymbolID: symboltable.BuiltinID(lang.String(), name)}
	}
	return Resolution{State: StateUnresolved, Reason: "no local, imported, or builtin type named " + name}
}

// resolveMethod resolves a method call by locating the receiver's class in
// the type registry, then walking its linearized method resolution order
// (from L7) until a method of matching name is found.
func (r *Resolver) resolveMethod(rec calldetect.CallRecord, file string, lang parser.Language) Resolution {
	if !rec.ReceiverResolved || rec.ReceiverType == "" {
		if r.builtins(lang, rec.Callee) {
			return Resolution{State: StateBuiltin, SymbolID: symboltable.BuiltinID(lang.String(), rec.Callee)}
		}
		return Resolution{State: StateUnresolved, Reason: "unresolved receiver for method " + rec.Callee}
	}

	// this/self/super receivers arrive here already rewritten to the
	// enclosing class name (pkg/codegraph's fixupReceiverKeywords); super
	// is looked up from that class itself, not from its MRO's next entry.
	receiverKey, ok := r.findReceiverKey(rec.ReceiverType, file)
	if !ok {
		if r.builtins(lang, rec.Callee) {
			return Resolution{State: StateBuiltin, SymbolID: symboltable.BuiltinID(lang.String(), rec.Callee)}
		}
		return Resolution{State: StateUnresolved, Reason: "unknown receiver class " + rec.ReceiverType}
	}

	mro := []typereg.Key{receiverKey}
	if r.Inheritance != nil {
		if chain, ok := r.Inheritance.MRO[receiverKey]; ok {
			mro = chain
		}
	}

	for _, key := range mro {
		methods := typereg.MethodsOf(r.Files, key)
		for _, m := range methods {
			if m.Name == rec.Callee {
				if entry, ok := r.Table.Lookup(key.File, m.FullyQualifiedName); ok {
					return Resolution{State: StateResolved, SymbolID: entry.ID}
				}
			}
		}
	}

	if r.builtins(lang, rec.Callee) {
		return Resolution{State: StateBuiltin, SymbolID: symboltable.BuiltinID(lang.String(), rec.Callee)}
	}
	return Resolution{State: StateUnresolved, Reason: "no method named " + rec.Callee + " in MRO of " + rec.ReceiverType}
}

func (r *Resolver) findReceiverKey(typeName, file string) (typereg.Key, bool) {
	if entry, ok := r.TypeReg.Lookup(file, typeName); ok {
		return entry.Key, true
	}
	if r.ModuleGraph != nil {
		for _, rec := range r.ModuleGraph.ImportsByFile[file] {
			if !rec.Resolved {
				continue
			}
			if exportedName, imported := rec.Import.ImportedSymbols[typeName]; imported {
				if entry, ok := r.TypeReg.Lookup(rec.ResolvedFile, exportedName); ok {
					return entry.Key, true
				}
			}
		}
	}
	if matches := r.TypeReg.LookupByName(typeName); len(matches) == 1 {
		return matches[0].Key, true
	}
	return typereg.Key{}, false
}

// followImport resolves name as an imported binding in file, returning the
// upstream definition's minted symbol ID if found.
func (r *Resolver) followImport(file, name string) (symboltable.ID, bool) {
	if r.ModuleGraph == nil {
		return "", false
	}
	for _, rec := range r.ModuleGraph.ImportsByFile[file] {
		if !rec.Resolved {
			continue
		}
		exportedName, imported := rec.Import.ImportedSymbols[name]
		if !imported {
			continue
		}
		if entry, ok := r.Table.Lookup(rec.ResolvedFile, exportedName); ok {
			return entry.ID, true
		}
	}
	return "", false
}

func (r *Resolver) builtins(lang parser.Language, name string) bool {
	if r.Builtins != nil {
		return r.Builtins(lang, name)
	}
	return DefaultBuiltins(lang, name)
}
