// Metadata extraction via AST traversal.
package extractor

import (
	"strings"

	"github.com/relgraph/codegraph/pkg/cst"
	"github.com/relgraph/codegraph/pkg/parser"
)

// extractMetadata walks AST node to extract metadata.
//
// Metadata includes:
// - Visibility/scope: public, private, protected
// - Modifiers: static, async, readonly, abstract, const, let, unsafe
// - Parameters: names and types
// - Return type
//
// This is done via AST traversal (not queries) because metadata requires
// examining the node's children and field names.
func (e *Extractor) extractMetadata(symbol *Symbol, node cst.Node, sourceCode []byte, lang parser.Language) {
	switch lang {
	case parser.LanguageTypeScript, parser.LanguageJavaScript:
		e.extractTSMetadata(symbol, node, sourceCode)
	case parser.LanguagePython:
		e.extractPyMetadata(symbol, node, sourceCode)
	case parser.LanguageRust:
		e.extractRustMetadata(symbol, node, sourceCode)
	}
}

// extractTSMetadata extracts TypeScript/JavaScript metadata.
func (e *Extractor) extractTSMetadata(symbol *Symbol, node cst.Node, sourceCode []byte) {
	modifiers := []string{}

	// Iterate through children to find modifiers
	for i := 0; i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}

		childType := child.Kind()
		childText := child.Text(sourceCode)

		// Extract visibility (public, private, protected)
		if childType == "accessibility_modifier" {
			symbol.Scope = childText // "public", "private", "protected"
		}

		// Extract modifiers
		switch childText {
		case "static":
			modifiers = append(modifiers, "static")
		case "async":
			modifiers = append(modifiers, "async")
		case "readonly":
			modifiers = append(modifiers, "readonly")
		case "abstract":
			modifiers = append(modifiers, "abstract")
		case "const":
			modifiers = append(modifiers, "const")
		case "let":
			modifiers = append(modifiers, "let")
		case "export":
			// Skip, handled in isExported check
		}
	}

	if len(modifiers) > 0 {
		symbol.Modifiers = modifiers
	}

	// Extract parameters
	paramsNode := node.ChildByFieldName("parameters")
	if paramsNode != nil {
		params, paramTypes := e.extractTSParameters(paramsNode, sourceCode)
		symbol.Parameters = params
		symbol.ParameterTypes = paramTypes
	}

	// Extract return type
	returnTypeNode := node.ChildByFieldName("return_type")
	if returnTypeNode != nil {
		// TypeScript return_type node contains the ':' and the type
		// We want just the type part
		for i := 0; i < returnTypeNode.ChildCount(); i++ {
			child := returnTypeNode.Child(i)
			if child != nil && child.Kind() != ":" {
				symbol.ReturnType = child.Text(sourceCode)
				break
			}
		}
	}

	// Extract class/interface heritage: `class X extends Y implements Z, W`.
	if heritage := node.ChildByFieldName("heritage"); heritage != nil {
		extractTSHeritageClause(symbol, heritage, sourceCode)
	} else {
		for i := 0; i < node.ChildCount(); i++ {
			if child := node.Child(i); child != nil && child.Kind() == "class_heritage" {
				extractTSHeritageClause(symbol, child, sourceCode)
			}
		}
	}
	// interface_declaration's own extends clause is a direct child, not
	// wrapped in class_heritage.
	for i := 0; i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}
		if child.Kind() == "extends_type_clause" {
			symbol.Extends = append(symbol.Extends, tsTypeIdentifierTexts(child, sourceCode)...)
		}
	}
}

func extractTSHeritageClause(symbol *Symbol, heritage cst.Node, sourceCode []byte) {
	for i := 0; i < heritage.NamedChildCount(); i++ {
		clause := heritage.NamedChild(i)
		if clause == nil {
			continue
		}
		switch clause.Kind() {
		case "extends_clause":
			symbol.Extends = append(symbol.Extends, tsTypeIdentifierTexts(clause, sourceCode)...)
		case "implements_clause":
			symbol.Implements = append(symbol.Implements, tsTypeIdentifierTexts(clause, sourceCode)...)
		}
	}
}

// tsTypeIdentifierTexts collects every identifier/type_identifier text
// under node, which for an extends/implements clause is the list of named
// base types (possibly more than one for `implements A, B`).
func tsTypeIdentifierTexts(node cst.Node, sourceCode []byte) []string {
	var names []string
	for i := 0; i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "identifier", "type_identifier", "nested_type_identifier":
			names = append(names, child.Text(sourceCode))
		default:
			names = append(names, tsTypeIdentifierTexts(child, sourceCode)...)
		}
	}
	return names
}

// extractTSParameters extracts parameter names and types from TypeScript/JavaScript.
func (e *Extractor) extractTSParameters(paramsNode cst.Node, sourceCode []byte) ([]string, []string) {
	params := []string{}
	paramTypes := []string{}

	for i := 0; i < paramsNode.NamedChildCount(); i++ {
		param := paramsNode.NamedChild(i)
		if param == nil {
			continue
		}

		paramType := param.Kind()

		// Handle different parameter types
		switch paramType {
		case "required_parameter", "optional_parameter":
			// Get parameter name (pattern field)
			nameNode := param.ChildByFieldName("pattern")
			if nameNode == nil {
				nameNode = param.ChildByFieldName("name")
			}
			if nameNode != nil {
				paramName := nameNode.Text(sourceCode)
				params = append(params, paramName)

				// Get parameter type if available
				typeNode := param.ChildByFieldName("type")
				if typeNode != nil {
					// Type node contains ': type', extract just the type
					typeText := typeNode.Text(sourceCode)
					typeText = strings.TrimPrefix(typeText, ":")
					typeText = strings.TrimSpace(typeText)
					paramTypes = append(paramTypes, typeText)
				} else {
					paramTypes = append(paramTypes, "")
				}
			}
		}
	}

	return params, paramTypes
}

// extractPyMetadata extracts Python metadata: decorators (as modifiers),
// parameters with optional type annotations, and return type annotation.
func (e *Extractor) extractPyMetadata(symbol *Symbol, node cst.Node, sourceCode []byte) {
	modifiers := []string{}

	// Decorators are siblings of the function/class definition, attached to
	// a wrapping decorated_definition node.
	if parent := node.Parent(); parent != nil && parent.Kind() == "decorated_definition" {
		for i := 0; i < parent.NamedChildCount(); i++ {
			child := parent.NamedChild(i)
			if child != nil && child.Kind() == "decorator" {
				modifiers = append(modifiers, strings.TrimPrefix(child.Text(sourceCode), "@"))
			}
		}
	}
	if len(modifiers) > 0 {
		symbol.Modifiers = modifiers
	}

	paramsNode := node.ChildByFieldName("parameters")
	if paramsNode != nil {
		params, paramTypes := e.extractPyParameters(paramsNode, sourceCode)
		symbol.Parameters = params
		symbol.ParameterTypes = paramTypes
	}

	if returnTypeNode := node.ChildByFieldName("return_type"); returnTypeNode != nil {
		symbol.ReturnType = returnTypeNode.Text(sourceCode)
	}

	// class X(Base1, Base2, metaclass=Meta): ... — the superclasses list is
	// an argument_list; keyword arguments (metaclass=...) are skipped since
	// they aren't base classes.
	if superclasses := node.ChildByFieldName("superclasses"); superclasses != nil {
		for i := 0; i < superclasses.NamedChildCount(); i++ {
			arg := superclasses.NamedChild(i)
			if arg == nil {
				continue
			}
			switch arg.Kind() {
			case "identifier", "attribute":
				symbol.Extends = append(symbol.Extends, arg.Text(sourceCode))
			}
		}
	}
}

// extractPyParameters extracts parameter names and optional type annotations
// from a Python parameters node.
func (e *Extractor) extractPyParameters(paramsNode cst.Node, sourceCode []byte) ([]string, []string) {
	params := []string{}
	paramTypes := []string{}

	for i := 0; i < paramsNode.NamedChildCount(); i++ {
		param := paramsNode.NamedChild(i)
		if param == nil {
			continue
		}

		switch param.Kind() {
		case "identifier":
			params = append(params, param.Text(sourceCode))
			paramTypes = append(paramTypes, "")
		case "typed_parameter":
			nameNode := param.Child(0)
			if nameNode == nil {
				continue
			}
			params = append(params, nameNode.Text(sourceCode))
			if typeNode := param.ChildByFieldName("type"); typeNode != nil {
				paramTypes = append(paramTypes, typeNode.Text(sourceCode))
			} else {
				paramTypes = append(paramTypes, "")
			}
		case "default_parameter", "typed_default_parameter":
			nameNode := param.ChildByFieldName("name")
			if nameNode == nil {
				continue
			}
			params = append(params, nameNode.Text(sourceCode))
			if typeNode := param.ChildByFieldName("type"); typeNode != nil {
				paramTypes = append(paramTypes, typeNode.Text(sourceCode))
			} else {
				paramTypes = append(paramTypes, "")
			}
		case "self", "list_splat_pattern", "dictionary_splat_pattern":
			params = append(params, param.Text(sourceCode))
			paramTypes = append(paramTypes, "")
		}
	}

	return params, paramTypes
}

// extractRustMetadata extracts Rust metadata: pub visibility, async/unsafe/const
// modifiers, function parameters with types, and return type.
func (e *Extractor) extractRustMetadata(symbol *Symbol, node cst.Node, sourceCode []byte) {
	modifiers := []string{}

	for i := 0; i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}

		switch child.Kind() {
		case "visibility_modifier":
			symbol.Scope = child.Text(sourceCode) // "pub", "pub(crate)", ...
		case "async":
			modifiers = append(modifiers, "async")
		case "unsafe":
			modifiers = append(modifiers, "unsafe")
		case "const":
			modifiers = append(modifiers, "const")
		}
	}

	if len(modifiers) > 0 {
		symbol.Modifiers = modifiers
	}

	paramsNode := node.ChildByFieldName("parameters")
	if paramsNode != nil {
		params, paramTypes := e.extractRustParameters(paramsNode, sourceCode)
		symbol.Parameters = params
		symbol.ParameterTypes = paramTypes
	}

	if returnTypeNode := node.ChildByFieldName("return_type"); returnTypeNode != nil {
		symbol.ReturnType = returnTypeNode.Text(sourceCode)
	}

	// impl Trait for Type { ... } — record the trait as what Type
	// implements. A bare `impl Type { ... }` (inherent impl, no "trait"
	// field) has nothing to record.
	if node.Kind() == "impl_item" {
		if traitNode := node.ChildByFieldName("trait"); traitNode != nil {
			symbol.Implements = append(symbol.Implements, traitNode.Text(sourceCode))
		}
	}

	// trait_item Foo: Bar + Baz { ... } — supertrait bounds behave like
	// `extends` for resolving a trait's own ancestor methods.
	if node.Kind() == "trait_item" {
		if bounds := node.ChildByFieldName("bounds"); bounds != nil {
			for i := 0; i < bounds.NamedChildCount(); i++ {
				b := bounds.NamedChild(i)
				if b != nil && b.Kind() == "type_identifier" {
					symbol.Extends = append(symbol.Extends, b.Text(sourceCode))
				}
			}
		}
	}
}

// extractRustParameters extracts parameter names and types from a Rust
// function's parameter list, including the receiver (self/&self/&mut self).
func (e *Extractor) extractRustParameters(paramsNode cst.Node, sourceCode []byte) ([]string, []string) {
	params := []string{}
	paramTypes := []string{}

	for i := 0; i < paramsNode.NamedChildCount(); i++ {
		param := paramsNode.NamedChild(i)
		if param == nil {
			continue
		}

		switch param.Kind() {
		case "self_parameter":
			params = append(params, param.Text(sourceCode))
			paramTypes = append(paramTypes, "")
		case "parameter":
			nameNode := param.ChildByFieldName("pattern")
			if nameNode == nil {
				continue
			}
			params = append(params, nameNode.Text(sourceCode))
			if typeNode := param.ChildByFieldName("type"); typeNode != nil {
				paramTypes = append(paramTypes, typeNode.Text(sourceCode))
			} else {
				paramTypes = append(paramTypes, "")
			}
		}
	}

	return params, paramTypes
}
