package symbols

// PyQueries contains tree-sitter query patterns for Python symbol extraction.
//
// Each query captures:
//   - @name - The symbol name
//   - @definition - The entire symbol node (for location)
const PyQueries = `
; ============================================================================
; Functions
; ============================================================================

; def my_function(): ...
(function_definition
  name: (identifier) @function.name
) @function.definition

; async def my_function(): ...
; covered by function_definition above; tree-sitter-python folds "async" into
; the same node type.

; ============================================================================
; Classes
; ============================================================================

; class MyClass: ...
(class_definition
  name: (identifier) @class.name
  body: (block) @body
) @class.definition

; ============================================================================
; Methods
; ============================================================================

; Method definitions are function_definition nodes whose parent is a class
; body; the scope walk in the extractor distinguishes method from function by
; checking the enclosing scope kind, mirroring the JS/TS method_definition
; split without a distinct grammar node.

; ============================================================================
; Variables & Constants
; ============================================================================

; my_var = 42
(expression_statement
  (assignment
    left: (identifier) @variable.name
  ) @variable.definition
)

; Type-annotated assignment: my_var: int = 42
(expression_statement
  (assignment
    left: (identifier) @variable.name
    type: (type)
  ) @variable.definition
)

; Module-level constant pattern (UPPER_CASE) reuses the same assignment node;
; case is a naming convention, not a grammar distinction.
`
