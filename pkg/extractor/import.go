// Import and export extraction implementation.
package extractor

import (
	"path/filepath"
	"strings"

	"github.com/relgraph/codegraph/pkg/parser"
	"github.com/relgraph/codegraph/pkg/parser/queries"
)

// extractImports processes import query matches into ImportInfo structs.
//
// Handles all import styles:
// - TypeScript/JavaScript: ES6 imports, CommonJS require
// - Python: import and from...import statements
// - Rust: use statements
func (e *Extractor) extractImports(matches []queries.QueryMatch, sourceCode []byte, filePath string, lang parser.Language) []ImportInfo {
	imports := make([]ImportInfo, 0)

	for _, match := range matches {
		// Filter to import-related captures
		if !e.isImportMatch(match) {
			continue
		}

		importInfo := e.buildImportInfo(match, sourceCode, filePath, lang)
		if importInfo != nil {
			imports = append(imports, *importInfo)
		}
	}

	return imports
}

// extractExports processes export query matches into ExportInfo structs.
//
// Handles all export styles:
// - TypeScript/JavaScript: ES6 exports, CommonJS module.exports
// - Python: none; the Python query captures no exports and __all__ is not
//   read (a symbol's export status comes from isExported's underscore rule)
// - Rust: pub declarations
func (e *Extractor) extractExports(matches []queries.QueryMatch, sourceCode []byte, filePath string, lang parser.Language) []ExportInfo {
	exports := make([]ExportInfo, 0)

	for _, match := range matches {
		// Filter to export-related captures
		if !e.isExportMatch(match) {
			continue
		}

		// Check if this is a CommonJS export
		isCommonJS := false
		for _, capture := range match.Captures {
			if strings.Contains(capture.Field, "commonjs") || strings.Contains(capture.Category, "commonjs") {
				isCommonJS = true
				break
			}
		}

		var exportInfo *ExportInfo
		if isCommonJS {
			exportInfo = e.buildCommonJSExportInfo(match, sourceCode, filePath)
		} else {
			exportInfo = e.buildExportInfo(match, sourceCode, filePath, lang)
		}

		if exportInfo != nil {
			exports = append(exports, *exportInfo)
		}
	}

	return exports
}

// isImportMatch checks if a query match contains import-related captures.
func (e *Extractor) isImportMatch(match queries.QueryMatch) bool {
	for _, capture := range match.Captures {
		if strings.HasPrefix(capture.Category, "import") {
			return true
		}
	}
	return false
}

// isExportMatch checks if a query match contains export-related captures.
func (e *Extractor) isExportMatch(match queries.QueryMatch) bool {
	for _, capture := range match.Captures {
		if strings.HasPrefix(capture.Category, "export") {
			return true
		}
	}
	return false
}

// buildImportInfo creates ImportInfo from query captures.
func (e *Extractor) buildImportInfo(match queries.QueryMatch, sourceCode []byte, filePath string, lang parser.Language) *ImportInfo {
	// Extract source (module path). Field names vary by language/capture
	// shape: TS/JS use "source"/"commonjs.source", Python uses "source" or
	// "relative.source"/"wildcard.source", Rust uses "path" (a scoped
	// identifier that doubles as both source and symbol for single-item use).
	sourceCapture := e.findCapture(match.Captures, "import", "source")
	if sourceCapture == nil {
		sourceCapture = e.findCapture(match.Captures, "import", "commonjs.source")
	}
	if sourceCapture == nil {
		sourceCapture = e.findCapture(match.Captures, "import", "relative.source")
	}
	if sourceCapture == nil {
		sourceCapture = e.findCapture(match.Captures, "import", "wildcard.source")
	}
	if sourceCapture == nil {
		sourceCapture = e.findCapture(match.Captures, "import", "module")
		if sourceCapture == nil {
			sourceCapture = e.findCapture(match.Captures, "import", "path")
		}
	}
	if sourceCapture == nil {
		// Rust single-identifier `use foo;` or a `mod foo;` file-module
		// declaration: the namespace/modfile capture IS the source.
		sourceCapture = e.findCapture(match.Captures, "import", "namespace")
		if sourceCapture == nil {
			sourceCapture = e.findCapture(match.Captures, "import", "modfile")
		}
		if sourceCapture == nil {
			sourceCapture = e.findCapture(match.Captures, "import", "relative.self")
		}
		if sourceCapture == nil {
			sourceCapture = e.findCapture(match.Captures, "import", "relative.super")
		}
		if sourceCapture == nil {
			sourceCapture = e.findCapture(match.Captures, "import", "relative.crate")
		}
	}

	if sourceCapture == nil {
		return nil // No source = invalid import
	}

	source := strings.Trim(sourceCapture.Text, "\"'")

	// Determine if external. JS/TS/Python use relative path prefixes;
	// Rust's locality is instead signaled by a "crate"/"self"/"super" prefix
	// segment or resolving to a sibling/child module file at L5, so treat
	// every Rust use-path as local and let the module-graph layer decide.
	var isExternal bool
	if lang == parser.LanguageRust {
		isExternal = !strings.HasPrefix(source, "crate") && !strings.HasPrefix(source, "self") && !strings.HasPrefix(source, "super") && source != "crate" && source != "self" && source != "super"
	} else {
		isExternal = !strings.HasPrefix(source, ".") && !strings.HasPrefix(source, "/")
	}

	// Resolve path for local imports
	var resolvedPath string
	if !isExternal {
		resolvedPath = e.resolveImportPath(source, filePath, lang)
	}

	// Extract imported symbols
	importedSymbols := make(map[string]string)
	importType := ImportTypeNamed
	namespace := ""

	// Check for namespace import (import * as foo OR const foo = require(...))
	namespaceCapture := e.findCapture(match.Captures, "import", "namespace")
	if namespaceCapture == nil {
		// Try CommonJS namespace (simple require)
		namespaceCapture = e.findCapture(match.Captures, "import", "commonjs.namespace")
	}
	if namespaceCapture != nil {
		namespace = namespaceCapture.Text
		importedSymbols[namespace] = "*"
		importType = ImportTypeNamespace
	}

	// Check for default import (import foo)
	defaultCapture := e.findCapture(match.Captures, "import", "default")
	if defaultCapture != nil {
		defaultName := defaultCapture.Text
		importedSymbols[defaultName] = "default"
		importType = ImportTypeDefault
	}

	// Check for named imports (import { foo, bar } OR const { foo } = require(...))
	for _, capture := range match.Captures {
		if capture.Field == "named" || capture.Field == "name" || capture.Field == "commonjs.named" {
			localName := capture.Text
			exportedName := localName // Default: same name

			// Check for alias (import { foo as bar })
			aliasCapture := e.findCaptureAfter(match.Captures, "import", "alias", &capture)
			if aliasCapture != nil {
				exportedName = localName
				localName = aliasCapture.Text
			}

			importedSymbols[localName] = exportedName
			importType = ImportTypeNamed
		}
	}

	// Rust `use a::b::Path as Alias;` and `use a::b::Result;` carry the
	// imported symbol in @import.path, not @import.named.
	if lang == parser.LanguageRust {
		if pathCapture := e.findCapture(match.Captures, "import", "path"); pathCapture != nil {
			segments := strings.Split(pathCapture.Text, "::")
			localName := segments[len(segments)-1]
			exportedName := localName
			if aliasCapture := e.findCapture(match.Captures, "import", "alias"); aliasCapture != nil {
				localName = aliasCapture.Text
			}
			importedSymbols[localName] = exportedName
			importType = ImportTypeNamed
		}
	}

	// Wildcard imports: `from module import *` / `use path::*;`
	if strings.HasSuffix(sourceCapture.Field, "wildcard.source") {
		importType = ImportTypeNamespace
		namespace = "*"
		importedSymbols["*"] = "*"
	}

	// Get location from first capture
	var location Location
	if len(match.Captures) > 0 {
		firstCapture := match.Captures[0]
		location = e.extractLocation(firstCapture.Node, filePath)
	}

	return &ImportInfo{
		Source:          source,
		ResolvedPath:    resolvedPath,
		ImportedSymbols: importedSymbols,
		IsExternal:      isExternal,
		ImportType:      importType,
		Namespace:       namespace,
		Location:        location,
	}
}

// buildExportInfo creates ExportInfo from query captures.
func (e *Extractor) buildExportInfo(match queries.QueryMatch, sourceCode []byte, filePath string, lang parser.Language) *ExportInfo {
	// Extract export name
	nameCapture := e.findCapture(match.Captures, "export", "name")
	if nameCapture == nil {
		// Try alternate field names
		nameCapture = e.findCapture(match.Captures, "export", "identifier")
		if nameCapture == nil {
			// Check for default export
			nameCapture = e.findCapture(match.Captures, "export", "default")
			if nameCapture != nil {
				// Default export
				location := e.extractLocation(nameCapture.Node, filePath)
				return &ExportInfo{
					Name:       "default",
					ExportType: ExportTypeDefault,
					Location:   location,
				}
			}

			// Wildcard re-export: `export * from './mod'`. This match carries
			// no name at all, only the re-exported module's source string
			// (a dedicated query pattern with `!declaration`); record it as a
			// namespace export so downstream consumers can expand the target
			// module's own exports as if they were declared here.
			if wildcardSource := e.findCapture(match.Captures, "export", "reexport.source"); wildcardSource != nil {
				source := strings.Trim(wildcardSource.Text, "\"'")
				return &ExportInfo{
					Name:         "*",
					ExportType:   ExportTypeNamespace,
					Source:       source,
					ResolvedPath: e.resolveImportPath(source, filePath, lang),
					Location:     e.extractLocation(wildcardSource.Node, filePath),
				}
			}
			return nil
		}
	}

	name := nameCapture.Text

	// Determine export type
	exportType := ExportTypeNamed

	// Check for re-export (export { foo } from './mod')
	sourceCapture := e.findCapture(match.Captures, "export", "source")
	var source string
	var resolvedPath string
	if sourceCapture != nil {
		source = strings.Trim(sourceCapture.Text, "\"'")
		resolvedPath = e.resolveImportPath(source, filePath, lang)
		exportType = ExportTypeReExport
	}

	// Get location
	location := e.extractLocation(nameCapture.Node, filePath)

	// Try to infer kind from node type
	kind := ""
	nodeType := nameCapture.Node.Kind()
	if strings.Contains(nodeType, "function") {
		kind = "function"
	} else if strings.Contains(nodeType, "class") {
		kind = "class"
	} else if strings.Contains(nodeType, "variable") {
		kind = "variable"
	}

	return &ExportInfo{
		Name:         name,
		ExportType:   exportType,
		Kind:         kind,
		Source:       source,
		ResolvedPath: resolvedPath,
		Location:     location,
	}
}

// buildCommonJSExportInfo creates ExportInfo from CommonJS module.exports captures.
//
// Handles all CommonJS export patterns:
// - module.exports = value → default export
// - module.exports = { foo, bar } → named exports
// - exports.foo = value → named export
// - module.exports.bar = value → named export
func (e *Extractor) buildCommonJSExportInfo(match queries.QueryMatch, sourceCode []byte, filePath string) *ExportInfo {
	// Check for default export: module.exports = value
	defaultCapture := e.findCapture(match.Captures, "export", "commonjs.default")
	if defaultCapture != nil {
		location := e.extractLocation(defaultCapture.Node, filePath)
		return &ExportInfo{
			Name:       "default",
			ExportType: ExportTypeDefault,
			Location:   location,
		}
	}

	// Named exports: exports.foo, module.exports.foo, module.exports = { foo }
	nameCapture := e.findCapture(match.Captures, "export", "commonjs.name")
	if nameCapture == nil {
		// Try alternate field names
		nameCapture = e.findCapture(match.Captures, "export.commonjs", "name")
	}

	if nameCapture != nil {
		name := nameCapture.Text
		location := e.extractLocation(nameCapture.Node, filePath)

		return &ExportInfo{
			Name:       name,
			ExportType: ExportTypeNamed,
			Location:   location,
		}
	}

	return nil
}


// resolveImportPath converts relative import path to absolute path.
//
// Examples:
// - './utils' in /path/to/project/src/a.ts → '/path/to/project/src/utils.ts'
// - '../lib' in /path/to/project/src/a.js → '/path/to/project/lib.js'
//
// This is a simple resolution: the language's first extension is appended
// without checking that the file exists. Resolution against the project's
// actual files happens in pkg/modgraph.
func (e *Extractor) resolveImportPath(source string, currentFile string, lang parser.Language) string {
	// Get directory of current file
	dir := filepath.Dir(currentFile)

	// Resolve relative path
	absPath := filepath.Join(dir, source)
	absPath = filepath.Clean(absPath)

	// Try adding file extensions if not present
	if !hasExtension(absPath) {
		// Try common extensions for the language
		extensions := getLanguageExtensions(lang)
		for _, ext := range extensions {
			candidate := absPath + ext
			// In a real implementation, we'd check if file exists
			// For now, just use first extension
			return candidate
		}
	}

	return absPath
}

// hasExtension checks if a path has a file extension.
func hasExtension(path string) bool {
	return filepath.Ext(path) != ""
}

// getLanguageExtensions returns common file extensions for a language.
func getLanguageExtensions(lang parser.Language) []string {
	switch lang {
	case parser.LanguageTypeScript:
		return []string{".ts", ".tsx", ".d.ts"}
	case parser.LanguageJavaScript:
		return []string{".js", ".jsx", ".mjs", ".cjs"}
	case parser.LanguagePython:
		return []string{".py", "/__init__.py"}
	case parser.LanguageRust:
		return []string{".rs", "/mod.rs"}
	default:
		return []string{}
	}
}

// findCapture finds a capture with matching category and field.
func (e *Extractor) findCapture(captures []queries.QueryCapture, category string, field string) *queries.QueryCapture {
	for i := range captures {
		if captures[i].Category == category && captures[i].Field == field {
			return &captures[i]
		}
	}
	return nil
}

// findCaptureAfter finds a capture with matching category and field that comes after the given capture.
//
// Used to find aliases that follow named imports.
func (e *Extractor) findCaptureAfter(captures []queries.QueryCapture, category string, field string, after *queries.QueryCapture) *queries.QueryCapture {
	afterFound := false
	for i := range captures {
		if &captures[i] == after {
			afterFound = true
			continue
		}
		if afterFound && captures[i].Category == category && captures[i].Field == field {
			return &captures[i]
		}
	}
	return nil
}

