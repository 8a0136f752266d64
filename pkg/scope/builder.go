package scope

import (
	"github.com/relgraph/codegraph/pkg/cst"
	"github.com/relgraph/codegraph/pkg/extractor"
	"github.com/relgraph/codegraph/pkg/parser"
)

// boundaryRule describes how one CST node kind introduces a scope: what
// Kind of scope it is, which child field (if any) supplies the scope's name,
// and which child field supplies the scope's boundary range. When
// bodyField is empty the node's own range is the scope's range.
type boundaryRule struct {
	kind      Kind
	nameField string
	bodyField string
}

// Policy is the per-language set of scope-creating node kinds, the
// "boundary extractor" the spec's design notes call for. A common base
// (this file) provides the generic walk; per-language maps cover where
// grammars disagree (e.g. Python's class body starts at the `:`, which in
// tree-sitter-python is already folded into the `block` body field, so no
// special case is needed there beyond picking the right field name).
type Policy struct {
	Rules map[string]boundaryRule
}

var tsPolicy = Policy{Rules: map[string]boundaryRule{
	"function_declaration":           {KindFunction, "name", "body"},
	"generator_function_declaration": {KindFunction, "name", "body"},
	"function_expression":            {KindFunction, "name", "body"},
	"generator_function":             {KindFunction, "name", "body"},
	"arrow_function":                 {KindFunction, "", "body"},
	"method_definition":              {KindMethod, "name", "body"},
	"function_signature":             {KindFunction, "name", ""},
	"method_signature":                {KindMethod, "name", ""},
	"class_declaration":              {KindClass, "name", "body"},
	"class":                          {KindClass, "name", "body"},
	"interface_declaration":          {KindClass, "name", "body"},
	"statement_block":                {KindBlock, "", ""},
	"for_statement":                  {KindBlock, "", "body"},
	"for_in_statement":               {KindBlock, "", "body"},
	"while_statement":                {KindBlock, "", "body"},
	"catch_clause":                   {KindBlock, "", "body"},
}}

var pyPolicy = Policy{Rules: map[string]boundaryRule{
	"function_definition": {KindFunction, "name", "body"},
	"class_definition":    {KindClass, "name", "body"},
	"lambda":              {KindFunction, "", "body"},
}}

var rustPolicy = Policy{Rules: map[string]boundaryRule{
	"function_item":           {KindFunction, "name", "body"},
	"function_signature_item": {KindFunction, "name", ""},
	"closure_expression":      {KindFunction, "", "body"},
	"impl_item":                {KindClass, "type", "body"},
	"trait_item":              {KindClass, "name", "body"},
	"mod_item":                {KindModule, "name", "body"},
	"block":                   {KindBlock, "", ""},
}}

func policyFor(lang parser.Language) Policy {
	switch lang {
	case parser.LanguagePython:
		return pyPolicy
	case parser.LanguageRust:
		return rustPolicy
	default:
		return tsPolicy
	}
}

func rootKind(lang parser.Language) Kind {
	if lang == parser.LanguageRust {
		return KindModule
	}
	return KindModule
}

// Build walks the CST rooted at tree and produces the per-file scope tree.
func Build(tree cst.Tree, sourceCode []byte, filePath string, lang parser.Language) *Tree {
	root := tree.Root()
	policy := policyFor(lang)

	rootLoc := locationOf(root, filePath)
	st := NewTree(filePath, rootKind(lang), rootLoc)

	walk(st, st.Root().ID, root, sourceCode, filePath, policy, 0)
	return st
}

const maxWalkDepth = 500

func walk(st *Tree, currentScope ID, node cst.Node, sourceCode []byte, filePath string, policy Policy, depth int) {
	if node == nil || node.IsNull() || depth > maxWalkDepth {
		return
	}

	for i := 0; i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil || child.IsNull() {
			continue
		}

		nextScope := currentScope
		rule, ok := policy.Rules[child.Kind()]
		if ok && rule.kind == KindBlock {
			// A function/method body block already gave its range to the
			// enclosing scope; don't nest a second scope over the same range.
			if cur := st.Get(currentScope); cur != nil && cur.Location.StartByte == child.StartByte() && cur.Location.EndByte == child.EndByte() {
				ok = false
			}
		}
		if ok {
			name := ""
			if rule.nameField != "" {
				if nameNode := child.ChildByFieldName(rule.nameField); nameNode != nil && !nameNode.IsNull() {
					name = nameNode.Text(sourceCode)
				}
			}

			boundaryNode := child
			if rule.bodyField != "" {
				if bodyNode := child.ChildByFieldName(rule.bodyField); bodyNode != nil && !bodyNode.IsNull() {
					boundaryNode = bodyNode
				}
			}

			loc := locationOf(boundaryNode, filePath)
			// Constructor detection: only a method named "constructor"
			// (JS/TS) is tagged with KindConstructor; Python's "__init__"
			// and Rust's "new" keep the kind of their rule.
			kind := rule.kind
			if kind == KindMethod && (name == "constructor") {
				kind = KindConstructor
			}
			if kind == KindFunction && (name == "__init__" || name == "new") {
				// Leave as function; constructor-ness for Python/Rust is
				// determined by call-site shape in L4, not by scope kind,
				// since __init__/new are still ordinary callables.
			}

			nextScope = st.AddChild(currentScope, kind, name, loc)
		}

		walk(st, nextScope, child, sourceCode, filePath, policy, depth+1)
	}
}

func locationOf(node cst.Node, filePath string) extractor.Location {
	start := node.StartPoint()
	end := node.EndPoint()
	return extractor.Location{
		FilePath:    filePath,
		StartLine:   start.Row + 1,
		StartColumn: start.Column + 1,
		EndLine:     end.Row + 1,
		EndColumn:   end.Column + 1,
		StartByte:   node.StartByte(),
		EndByte:     node.EndByte(),
	}
}
