package typetrack

import (
	"github.com/relgraph/codegraph/pkg/extractor"
	"github.com/relgraph/codegraph/pkg/scope"
)

// Build constructs a fully-seeded, finalized Tracker for one file: imports
// first, then explicit/inferred type annotations, all at file scope.
// Annotation bindings carry StartByte 0, so for a lookup after an import of
// the same name the import binding (at its own, later offset) wins; between
// bindings with equal StartByte the winner is not defined.
//
// scopeTree must already cover the same file; pass the result of
// scope.Build over the same parsed tree this result came from.
func Build(result *extractor.PerFileResult, scopeTree *scope.Tree) *Tracker {
	t := New(result.FilePath, scopeTree)
	root := scopeTree.Root().ID

	SeedFromImports(t, result.Imports, root)
	SeedFromAnnotations(t, result.TypeAnnotations, root, nil)

	t.Finalize()
	return t
}

// Enrich re-seeds the tracker with bindings discovered during L4's first
// resolution pass (e.g. a constructor call assigned through a destructuring
// or reassignment shape the static queries missed) and re-sorts. This is
// pass 2 of the spec's two-pass local type tracking: L4 calls Enrich with
// anything it learned, then re-resolves the calls that failed the first
// time around.
func Enrich(t *Tracker, extra []Binding) {
	for _, b := range extra {
		t.Add(b)
	}
	t.Finalize()
}
