// Symbol extraction implementation.
package extractor

import (
	"strings"

	"github.com/relgraph/codegraph/pkg/cst"
	"github.com/relgraph/codegraph/pkg/parser"
	"github.com/relgraph/codegraph/pkg/parser/queries"
)

// extractSymbols processes symbol query matches into Symbol structs.
//
// This includes:
// - Extracting symbol names and kinds from query captures
// - Building fully qualified names (FQN) by walking scope chain
// - Extracting metadata (visibility, modifiers, parameters, return types)
// - Detecting whether symbol is exported
func (e *Extractor) extractSymbols(matches []queries.QueryMatch, tree cst.Tree, sourceCode []byte, filePath string, lang parser.Language) []Symbol {
	symbols := make([]Symbol, 0, len(matches))

	for _, match := range matches {
		symbol := e.buildSymbol(match, tree, sourceCode, filePath, lang)
		if symbol != nil {
			symbols = append(symbols, *symbol)
		}
	}

	return symbols
}

// buildSymbol creates a Symbol from query captures.
//
// Steps:
// 1. Extract name from @{prefix}.name capture
// 2. Infer kind from capture prefix
// 3. Find declaration node (entire function/class, not just identifier)
// 4. Extract location from DECLARATION node (captures full function/class body)
// 5. Build FQN by walking scope chain from identifier
// 6. Extract metadata (via metadata.go)
func (e *Extractor) buildSymbol(match queries.QueryMatch, tree cst.Tree, sourceCode []byte, filePath string, lang parser.Language) *Symbol {
	// Find the name capture (e.g., @function.name, @class.name, etc.)
	nameCapture := e.findNameCapture(match.Captures)
	if nameCapture == nil {
		return nil
	}

	name := nameCapture.Text

	// Infer kind from capture prefix
	// e.g., "function.name" → prefix="function" → kind=SymbolKindFunction
	kind := e.inferSymbolKind(nameCapture.Category)

	// Get identifier node for FQN building
	definitionNode := nameCapture.Node

	// Find the declaration node (entire function/class declaration)
	// This is the parent node that contains the full symbol including body
	declarationNode := e.findDeclarationNode(definitionNode, kind, lang)

	// Extract location from DECLARATION node (not identifier)
	// This captures the entire function/class body for code fetching
	var location Location
	if declarationNode != nil {
		location = e.extractLocation(declarationNode, filePath)
	} else {
		// Fallback to identifier node if declaration not found
		location = e.extractLocation(definitionNode, filePath)
	}

	// Build FQN by walking scope chain from identifier node
	// Using identifier ensures correct scope resolution
	fqn := e.buildFQN(definitionNode, name, sourceCode, lang, kind)

	// Create base symbol
	symbol := &Symbol{
		Name:               name,
		FullyQualifiedName: fqn,
		Kind:               kind,
		Location:           location,
	}

	// Extract metadata (visibility, modifiers, parameters, return types)
	// declarationNode is already found above
	if declarationNode != nil {
		e.extractMetadata(symbol, declarationNode, sourceCode, lang)
	}

	// Detect if exported (language-specific)
	symbol.IsExported = e.isExported(definitionNode, name, sourceCode, lang)

	return symbol
}

// findNameCapture finds the capture with ".name" field in its name.
//
// Tree-sitter queries use capture names like:
// - @function.name
// - @class.name
// - @method.name
//
// We look for the one with Field == "name" to get the symbol's name.
func (e *Extractor) findNameCapture(captures []queries.QueryCapture) *queries.QueryCapture {
	for i := range captures {
		if captures[i].Field == "name" {
			return &captures[i]
		}
	}
	return nil
}

// inferSymbolKind infers SymbolKind from capture category.
//
// The category comes from the capture prefix:
// - "function" → SymbolKindFunction
// - "class" → SymbolKindClass
// - "method" → SymbolKindMethod
// - etc.
func (e *Extractor) inferSymbolKind(category string) SymbolKind {
	switch category {
	case "function", "func":
		return SymbolKindFunction
	case "class":
		return SymbolKindClass
	case "interface":
		return SymbolKindInterface
	case "type":
		return SymbolKindType
	case "variable", "var", "let", "const":
		return SymbolKindVariable
	case "constant":
		return SymbolKindConstant
	case "enum":
		return SymbolKindEnum
	case "method":
		return SymbolKindMethod
	case "property", "field":
		return SymbolKindProperty
	case "module":
		return SymbolKindModule
	default:
		return SymbolKindVariable // Default fallback
	}
}

// declarationNodeTypes returns the set of grammar node types that represent
// a "whole declaration" for a language, as opposed to the bare identifier
// name captured by the symbol query.
func declarationNodeTypes(lang parser.Language) map[string]bool {
	switch lang {
	case parser.LanguageTypeScript, parser.LanguageJavaScript:
		return map[string]bool{
			"function_declaration":    true,
			"generator_function_declaration": true,
			"method_definition":       true,
			"class_declaration":       true,
			"interface_declaration":   true,
			"type_alias_declaration":  true,
			"lexical_declaration":     true,
			"variable_declaration":    true,
			"function_signature":      true,
			"method_signature":        true,
			"enum_declaration":        true,
		}
	case parser.LanguagePython:
		return map[string]bool{
			"function_definition": true,
			"class_definition":    true,
			"assignment":          true,
		}
	case parser.LanguageRust:
		return map[string]bool{
			"function_item": true,
			"struct_item":   true,
			"enum_item":     true,
			"trait_item":    true,
			"impl_item":     true,
			"const_item":    true,
			"static_item":   true,
			"type_item":     true,
			"mod_item":      true,
		}
	default:
		return map[string]bool{}
	}
}

// findDeclarationNode finds the parent declaration node that contains metadata.
//
// The query captures give us the identifier (name) node, but metadata like
// visibility, modifiers, parameters, and return types are on the parent
// declaration node (function_declaration, method_definition, etc.).
//
// This walks up the tree to find the appropriate declaration node.
func (e *Extractor) findDeclarationNode(nameNode cst.Node, kind SymbolKind, lang parser.Language) cst.Node {
	declarationTypes := declarationNodeTypes(lang)

	current := nameNode.Parent()
	maxDepth := 10 // Prevent infinite loops
	depth := 0

	for current != nil && !current.IsNull() && depth < maxDepth {
		if declarationTypes[current.Kind()] {
			return current
		}
		current = current.Parent()
		depth++
	}

	// If we can't find a declaration node, return the original node
	// Metadata extraction will handle this gracefully
	return nameNode
}

// buildFQN constructs fully qualified name by walking up the scope chain.
//
// FQN format varies by language:
// - TypeScript/JavaScript: "ClassName.methodName" or "moduleName.functionName"
// - Python: "ClassName.method_name" or "module_name.function_name"
// - Rust: "ImplType::method" or "module::function"
//
// Algorithm:
// 1. Walk up parent chain to find enclosing scopes (classes, impl blocks, etc.)
// 2. Build scope chain from outermost to innermost
// 3. Join with the language's scope separator
func (e *Extractor) buildFQN(node cst.Node, name string, sourceCode []byte, lang parser.Language, kind SymbolKind) string {
	scopeChain := []string{}

	current := node.Parent()
	for current != nil && !current.IsNull() {
		scopeName := e.extractScopeName(current, sourceCode, lang)
		if scopeName != "" {
			// Prepend to maintain outer → inner order
			scopeChain = append([]string{scopeName}, scopeChain...)
		}
		current = current.Parent()
	}

	scopeChain = append(scopeChain, name)

	return strings.Join(scopeChain, scopeSeparator(lang))
}

// scopeSeparator returns the FQN join separator conventional for a language.
func scopeSeparator(lang parser.Language) string {
	if lang == parser.LanguageRust {
		return "::"
	}
	return "."
}

// extractScopeName extracts scope name from parent node (class, impl block, namespace, etc.).
//
// Returns empty string if node is not a scope-defining construct.
func (e *Extractor) extractScopeName(node cst.Node, sourceCode []byte, lang parser.Language) string {
	nodeType := node.Kind()

	switch lang {
	case parser.LanguageTypeScript, parser.LanguageJavaScript:
		return e.extractTSScopeName(node, nodeType, sourceCode)
	case parser.LanguagePython:
		return e.extractPyScopeName(node, nodeType, sourceCode)
	case parser.LanguageRust:
		return e.extractRustScopeName(node, nodeType, sourceCode)
	}

	return ""
}

// extractTSScopeName extracts scope name for TypeScript/JavaScript.
func (e *Extractor) extractTSScopeName(node cst.Node, nodeType string, sourceCode []byte) string {
	switch nodeType {
	case "class_declaration", "class":
		if nameNode := node.ChildByFieldName("name"); nameNode != nil {
			return nameNode.Text(sourceCode)
		}
	case "namespace_declaration", "module_declaration":
		if nameNode := node.ChildByFieldName("name"); nameNode != nil {
			return nameNode.Text(sourceCode)
		}
	case "interface_declaration":
		if nameNode := node.ChildByFieldName("name"); nameNode != nil {
			return nameNode.Text(sourceCode)
		}
	}
	return ""
}

// extractPyScopeName extracts scope name for Python (class bodies only;
// Python has no block-level lexical scope that contributes to a symbol's
// qualified name the way JS namespaces do).
func (e *Extractor) extractPyScopeName(node cst.Node, nodeType string, sourceCode []byte) string {
	if nodeType != "class_definition" {
		return ""
	}
	if nameNode := node.ChildByFieldName("name"); nameNode != nil {
		return nameNode.Text(sourceCode)
	}
	return ""
}

// extractRustScopeName extracts scope name for Rust: impl blocks contribute
// their Self type, modules contribute their name.
func (e *Extractor) extractRustScopeName(node cst.Node, nodeType string, sourceCode []byte) string {
	switch nodeType {
	case "impl_item":
		if typeNode := node.ChildByFieldName("type"); typeNode != nil {
			return typeNode.Text(sourceCode)
		}
	case "mod_item":
		if nameNode := node.ChildByFieldName("name"); nameNode != nil {
			return nameNode.Text(sourceCode)
		}
	case "trait_item":
		if nameNode := node.ChildByFieldName("name"); nameNode != nil {
			return nameNode.Text(sourceCode)
		}
	}
	return ""
}

// extractLocation converts a CST node position to a Location struct.
//
// Tree-sitter uses 0-based positions, but LSP uses 1-based, so we add 1 to line/column.
// Byte offsets are kept as 0-based for direct slicing (sourceCode[start:end]).
func (e *Extractor) extractLocation(node cst.Node, filePath string) Location {
	start := node.StartPoint()
	end := node.EndPoint()

	return Location{
		FilePath:    filePath,
		StartLine:   start.Row + 1,
		StartColumn: start.Column + 1,
		EndLine:     end.Row + 1,
		EndColumn:   end.Column + 1,
		StartByte:   node.StartByte(),
		EndByte:     node.EndByte(),
	}
}

// isExported checks if a symbol is exported from its module.
//
// Language-specific rules:
// - TypeScript/JavaScript: Has 'export' keyword
// - Python: Not prefixed with '_' (by convention)
// - Rust: Has 'pub' visibility modifier
func (e *Extractor) isExported(node cst.Node, name string, sourceCode []byte, lang parser.Language) bool {
	switch lang {
	case parser.LanguageTypeScript, parser.LanguageJavaScript:
		parent := node.Parent()
		if parent != nil && (parent.Kind() == "export_statement" || parent.Kind() == "export_declaration") {
			return true
		}
		if parent != nil {
			if grandparent := parent.Parent(); grandparent != nil && (grandparent.Kind() == "export_statement" || grandparent.Kind() == "export_declaration") {
				return true
			}
		}
		return false

	case parser.LanguagePython:
		return !strings.HasPrefix(name, "_")

	case parser.LanguageRust:
		declarationNode := node
		for current := node; current != nil && !current.IsNull(); current = current.Parent() {
			if declarationNodeTypes(parser.LanguageRust)[current.Kind()] {
				declarationNode = current
				break
			}
		}
		for i := 0; i < declarationNode.ChildCount(); i++ {
			if child := declarationNode.Child(i); child != nil && child.Kind() == "visibility_modifier" {
				return true
			}
		}
		return false
	}

	return false
}
