// Package calldetect implements the call detector (L4): classifying each
// raw call site found by the extractor into a function/method/constructor
// call and, where possible, resolving its callee to a receiver type.
//
// Resolution here is local to a file: a CallRecord's ResolvedType is the
// receiver's class name, not yet a global symbol ID (L9 does that final
// step once the type registry and inheritance resolver have run). This
// package only has to decide "what kind of call is this, and what type, if
// any, do we already know about its receiver."
package calldetect

import (
	"strings"

	"github.com/relgraph/codegraph/pkg/extractor"
	"github.com/relgraph/codegraph/pkg/parser"
	"github.com/relgraph/codegraph/pkg/scope"
	"github.com/relgraph/codegraph/pkg/typetrack"
)

// Kind classifies a call site the way spec.md §4.4 describes.
type Kind string

const (
	KindFunctionCall    Kind = "function_call"
	KindMethodCall      Kind = "method_call"
	KindConstructorCall Kind = "constructor_call"
)

// BuiltinFile is the synthetic file path "<builtin>". No code in this
// module stamps it on a record: recognised builtins get edges to
// symboltable.BuiltinID, and a call whose callee does not resolve at all
// gets no call-graph edge; it is reported as an L9 resolve error instead.
const BuiltinFile = "<builtin>"

// CallRecord is one classified, file-local call resolution result.
type CallRecord struct {
	Kind Kind

	// Callee is the invoked name (function name, method name, or
	// constructed type name).
	Callee string

	// ReceiverType is the resolved class/type name of the call's receiver,
	// when Kind is KindMethodCall and resolution succeeded. Empty
	// otherwise.
	ReceiverType string

	// ReceiverResolved is true when ReceiverType was determined from a
	// known binding (type tracker, namespace export, or return-type
	// heuristic) rather than left unknown.
	ReceiverResolved bool

	// Namespace is set when the call was made through a namespace import
	// (`ns.fn()`), holding the local namespace alias.
	Namespace string

	Site extractor.CallSite
}

// Resolver classifies and resolves the call sites of a single file. It
// needs the file's type tracker (for identifier receivers), its scope tree
// (to know which scope each call site sits in), and an optional
// return-type lookup for chained calls and a namespace-export lookup for
// namespace-qualified calls; both may be nil if the caller has nothing to
// offer yet (e.g. before L5/L6 have run), in which case those two call
// shapes are simply left unresolved rather than erroring.
type Resolver struct {
	Tracker *typetrack.Tracker
	Scope   *scope.Tree

	// Lang gates the PascalCase branch of looksLikeConstructor to the
	// languages whose call syntax is actually ambiguous between a function
	// call and a constructor call: Python (obj = ClassName()) and Rust
	// (tuple-struct construction, Some(x)). JS/TS/unset Lang never take
	// this branch, since `new` disambiguates constructors there and a
	// PascalCase function name (a React component, a factory) is common
	// and not a constructor.
	Lang parser.Language

	// ReturnTypeOf, given a function/method name, returns its declared or
	// heuristically-inferred return type. Used for chained calls
	// (a.b().c()): the inner call a.b()'s return type becomes the receiver
	// type for .c().
	ReturnTypeOf func(calleeName string) (string, bool)

	// NamespaceExports, given a local namespace alias (from `import * as
	// ns`), returns the set of names that module exports. Used to confirm
	// a namespace-receiver call (ns.fn()) actually names an export rather
	// than being a false positive from some other use of a dotted name.
	NamespaceExports func(namespaceAlias string) (map[string]bool, bool)
}

// Resolve classifies and resolves every call site in sites, in order.
func (r *Resolver) Resolve(sites []extractor.CallSite) []CallRecord {
	records := make([]CallRecord, 0, len(sites))
	for _, site := range sites {
		records = append(records, r.resolveOne(site))
	}
	return records
}

func (r *Resolver) resolveOne(site extractor.CallSite) CallRecord {
	switch site.Shape {
	case extractor.ShapeNewCall, extractor.ShapeNewNamespaced, extractor.ShapePathQualified:
		return CallRecord{Kind: KindConstructorCall, Callee: site.Callee, Site: site}

	case extractor.ShapePlainCall:
		// Python gives constructor calls and plain function calls the same
		// syntax; if the callee name is itself a known receiver type (i.e.
		// the type tracker has a binding whose Type equals this name,
		// meaning some earlier import/annotation already treats it as a
		// class), treat it as a constructor call rather than a function
		// call. Otherwise it's an ordinary function call.
		if r.looksLikeConstructor(site.Callee) {
			return CallRecord{Kind: KindConstructorCall, Callee: site.Callee, Site: site}
		}
		return CallRecord{Kind: KindFunctionCall, Callee: site.Callee, Site: site}

	case extractor.ShapeThisCall, extractor.ShapeSelfCall, extractor.ShapeSuperCall:
		return r.resolveMethodCall(site, site.Object)

	case extractor.ShapeMethodCall:
		return r.resolveIdentifierReceiver(site)

	case extractor.ShapeChainedCall:
		return r.resolveChainedCall(site)

	case extractor.ShapeNamespacedCall:
		return r.resolveNamespacedCall(site)

	default:
		return CallRecord{Kind: KindFunctionCall, Callee: site.Callee, Site: site}
	}
}

// resolveIdentifierReceiver handles obj.method(): look the receiver's
// static type up in the type tracker at the call site's position.
func (r *Resolver) resolveIdentifierReceiver(site extractor.CallSite) CallRecord {
	rec := CallRecord{Kind: KindMethodCall, Callee: site.Callee, Site: site}
	if r.Tracker == nil {
		return rec
	}

	sid := scope.NoParent
	if r.Scope != nil {
		sid = r.Scope.Lookup(site.Location.StartByte)
	}
	if typ, ok := r.Tracker.Resolve(site.Object, sid, site.Location.StartByte); ok {
		rec.ReceiverType = typ
		rec.ReceiverResolved = true
		return rec
	}

	// The receiver might be a namespace alias used without the dedicated
	// "namespaced" shape (some grammars don't distinguish obj.method()
	// from ns.fn() syntactically); fall back to the namespace-export
	// lookup before giving up.
	if r.NamespaceExports != nil {
		if exports, ok := r.NamespaceExports(site.Object); ok {
			if exports[site.Callee] {
				rec.Namespace = site.Object
				rec.ReceiverResolved = true
			}
		}
	}
	return rec
}

func (r *Resolver) resolveMethodCall(site extractor.CallSite, receiverKeyword string) CallRecord {
	rec := CallRecord{Kind: KindMethodCall, Callee: site.Callee, Site: site}
	rec.ReceiverType = receiverKeyword // "this"/"self"/"super"; L7/L9 resolve the enclosing class.
	return rec
}

// resolveChainedCall handles a.b().c(): resolve the inner call's return
// type via ReturnTypeOf, then use that as the receiver type for the outer
// call.
func (r *Resolver) resolveChainedCall(site extractor.CallSite) CallRecord {
	rec := CallRecord{Kind: KindMethodCall, Callee: site.Callee, Site: site}
	if r.ReturnTypeOf == nil || site.ChainObjectLocation == nil {
		return rec
	}
	if typ, ok := r.ReturnTypeOf(site.Object); ok {
		rec.ReceiverType = typ
		rec.ReceiverResolved = true
	}
	return rec
}

// resolveNamespacedCall handles ns.fn() where ns came from `import * as ns`.
func (r *Resolver) resolveNamespacedCall(site extractor.CallSite) CallRecord {
	rec := CallRecord{Kind: KindFunctionCall, Callee: site.Callee, Site: site, Namespace: site.Object}
	if r.NamespaceExports == nil {
		return rec
	}
	if exports, ok := r.NamespaceExports(site.Object); ok && exports[site.Callee] {
		rec.ReceiverResolved = true
	}
	return rec
}

// looksLikeConstructor reports whether name is already known as a type
// (bound as an import or annotation target somewhere in this file), which
// is enough signal on its own in any language, or follows the PascalCase
// convention Python and Rust use for type names, which is only meaningful
// in those two languages' otherwise-ambiguous plain-call syntax.
func (r *Resolver) looksLikeConstructor(name string) bool {
	if name == "" {
		return false
	}
	if r.Tracker != nil && r.Tracker.KnownType(name) {
		return true
	}
	if r.Lang != parser.LanguagePython && r.Lang != parser.LanguageRust {
		return false
	}
	first := name[0]
	return first >= 'A' && first <= 'Z' && !strings.Contains(name, "_")
}
