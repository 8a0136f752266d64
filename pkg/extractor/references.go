// Reference extraction: every bare identifier occurrence in a file. This is
// a separate, coarser pass from extractCallSites (which only captures the
// callee position of a call expression) and feeds L9's lexical-walk
// reference resolver rather than L4's call classifier.
package extractor

import (
	"github.com/relgraph/codegraph/pkg/cst"
	"github.com/relgraph/codegraph/pkg/parser"
	"github.com/relgraph/codegraph/pkg/parser/queries"
)

// extractReferences executes the references query against tree and
// normalizes every `@reference.name` capture into a Reference.
func (e *Extractor) extractReferences(tree cst.Tree, sourceCode []byte, filePath string, lang parser.Language) []Reference {
	query, err := e.queryManager.GetQuery(lang, queries.QueryTypeReferences)
	if err != nil {
		e.logger.Debug("failed to get references query", "language", lang, "error", err)
		return nil
	}

	matches, err := e.queryManager.ExecuteQuery(tree, query, sourceCode)
	if err != nil {
		e.logger.Debug("failed to execute references query", "error", err)
		return nil
	}

	refs := make([]Reference, 0, len(matches))
	for _, match := range matches {
		for _, capture := range match.Captures {
			if capture.Category != "reference" || capture.Field != "name" {
				continue
			}
			refs = append(refs, Reference{
				Name:     capture.Text,
				Location: queryLocationToExtractorLocation(capture.Location, filePath),
			})
		}
	}
	return refs
}
