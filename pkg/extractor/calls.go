// Call-site extraction: the raw, per-capture-shape call sites that feed L3's
// constructor-call seeding pass and L4's call classification. This file only
// turns query captures into a normalized CallSite; classifying a CallSite as
// a function/method/constructor call and resolving its callee is L4's job
// (package calldetect), which runs after L3 has had a chance to seed types
// from constructor calls found here.
package extractor

import (
	"github.com/relgraph/codegraph/pkg/cst"
	"github.com/relgraph/codegraph/pkg/parser"
	"github.com/relgraph/codegraph/pkg/parser/queries"
)

// CallSiteShape distinguishes the syntactic shape a call capture came from,
// since the same @call.callee name means something different depending on
// which sibling captures accompany it.
type CallSiteShape string

const (
	ShapePlainCall       CallSiteShape = "plain"        // foo(x)
	ShapeMethodCall      CallSiteShape = "method"        // obj.method(x)
	ShapeChainedCall     CallSiteShape = "chained"        // a.b().c()
	ShapeThisCall        CallSiteShape = "this"           // this.method(x)
	ShapeSelfCall        CallSiteShape = "self"           // self.method(x)
	ShapeSuperCall       CallSiteShape = "super"          // super.method(x)
	ShapeNamespacedCall  CallSiteShape = "namespaced"     // ns.fn(x)
	ShapeNewCall         CallSiteShape = "new"            // new X(x)
	ShapeNewNamespaced   CallSiteShape = "new_namespaced" // new ns.X(x)
	ShapePathQualified   CallSiteShape = "path_qualified" // Rust Type::method(x) / Self::method(x)
)

// CallSite is one call/constructor invocation found in a file, before any
// name resolution has happened.
type CallSite struct {
	Shape CallSiteShape

	// Callee is the invoked name: plain function name, method/property
	// name for method calls, or the type name for constructor calls.
	Callee string

	// Object is the receiver text for method calls (identifier name,
	// "this"/"self"/"super", or a namespace/path prefix). Empty for plain
	// calls.
	Object string

	// ChainObjectLocation is set when Shape == ShapeChainedCall: the
	// location of the inner call expression whose return type must be
	// resolved before the outer call's callee can be looked up.
	ChainObjectLocation *Location

	Location Location
}

// extractCallSites executes the calls query against tree and normalizes
// every match into a CallSite.
func (e *Extractor) extractCallSites(tree cst.Tree, sourceCode []byte, filePath string, lang parser.Language) []CallSite {
	query, err := e.queryManager.GetQuery(lang, queries.QueryTypeCalls)
	if err != nil {
		e.logger.Debug("failed to get calls query", "language", lang, "error", err)
		return nil
	}

	matches, err := e.queryManager.ExecuteQuery(tree, query, sourceCode)
	if err != nil {
		e.logger.Debug("failed to execute calls query", "error", err)
		return nil
	}

	sites := make([]CallSite, 0, len(matches))
	for _, match := range matches {
		if site := e.buildCallSite(match, filePath); site != nil {
			sites = append(sites, *site)
		}
	}
	return sites
}

func (e *Extractor) buildCallSite(match queries.QueryMatch, filePath string) *CallSite {
	var (
		calleeCap, objectCap, chainCap, propertyCap *queries.QueryCapture
		shape                                        CallSiteShape
	)

	for i := range match.Captures {
		c := &match.Captures[i]
		switch c.Field {
		case "callee", "new.callee":
			calleeCap = c
			if c.Field == "new.callee" {
				if shape == "" {
					shape = ShapeNewCall
				}
			}
		case "property":
			propertyCap = c
		case "object":
			objectCap = c
			if shape == "" {
				shape = ShapeMethodCall
			}
		case "chain.object":
			chainCap = c
			shape = ShapeChainedCall
		case "this":
			objectCap = c
			shape = ShapeThisCall
		case "self":
			objectCap = c
			shape = ShapeSelfCall
		case "super":
			objectCap = c
			shape = ShapeSuperCall
		case "new.namespace":
			objectCap = c
			shape = ShapeNewNamespaced
		case "path.base", "path.generic", "path.selftype":
			objectCap = c
			shape = ShapePathQualified
		}
	}

	// Method/chained/this/self/super call shapes carry the invoked name in
	// @call.property rather than @call.callee.
	if calleeCap == nil {
		calleeCap = propertyCap
	}
	if calleeCap == nil {
		return nil
	}
	if shape == "" {
		shape = ShapePlainCall
	}

	site := &CallSite{
		Shape:    shape,
		Callee:   calleeCap.Text,
		Location: queryLocationToExtractorLocation(calleeCap.Location, filePath),
	}
	if objectCap != nil {
		site.Object = objectCap.Text
	}
	if chainCap != nil {
		loc := queryLocationToExtractorLocation(chainCap.Location, filePath)
		site.ChainObjectLocation = &loc
	}
	return site
}

// queryLocationToExtractorLocation converts a queries.Location (already
// 1-based line/column, per nodeLocation) into extractor.Location.
func queryLocationToExtractorLocation(l queries.Location, filePath string) Location {
	return Location{
		FilePath:    filePath,
		StartLine:   l.StartLine,
		StartColumn: l.StartColumn,
		EndLine:     l.EndLine,
		EndColumn:   l.EndColumn,
		StartByte:   l.StartByte,
		EndByte:     l.EndByte,
	}
}
