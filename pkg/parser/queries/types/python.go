package types

// PyQueries contains tree-sitter query patterns for Python type annotation
// extraction (PEP 484 style), used the same way as the TypeScript queries:
// resolving the declared type of a receiver variable for method-call
// resolution.
//
// Each query captures:
//   - @type.var.name - The variable/parameter name
//   - @type.name     - The type name (simple types)
//   - @type.base     - The base type for generics (List in List[User])
//   - @type.arg      - The first type argument for generics
const PyQueries = `
; ============================================================================
; Variable annotations
; ============================================================================

; service: UserService = ...
(assignment
  left: (identifier) @type.var.name
  type: (type
    (identifier) @type.name))

; users: list[User] = ...  /  users: List[User] = ...
(assignment
  left: (identifier) @type.var.name
  type: (type
    (subscript
      value: (identifier) @type.base
      subscript: (identifier) @type.arg)))

; ============================================================================
; Constructor-call assignments (no explicit annotation)
; ============================================================================

; service = UserService()
;
; Python makes no syntactic distinction between a constructor call and a
; plain function call, so this also captures "x = some_func()"; the local
; type tracker treats the result as a candidate binding that L6 confirms or
; discards once the project-wide type registry is built.
(assignment
  left: (identifier) @type.var.name
  right: (call
    function: (identifier) @type.name))

; ============================================================================
; Function parameter annotations
; ============================================================================

; def process(data: DataType): ...
(typed_parameter
  (identifier) @type.var.name
  type: (type
    (identifier) @type.name))

; def process(items: List[Item]): ...
(typed_parameter
  (identifier) @type.var.name
  type: (type
    (subscript
      value: (identifier) @type.base
      subscript: (identifier) @type.arg)))

; def process(self, data: DataType = default): ...
(typed_default_parameter
  name: (identifier) @type.var.name
  type: (type
    (identifier) @type.name))

; ============================================================================
; Function return annotations (tracked per-function, not per-variable)
; ============================================================================

(function_definition
  name: (identifier) @type.var.name
  return_type: (type
    (identifier) @type.name))
`
