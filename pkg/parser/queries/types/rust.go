package types

// RustQueries contains tree-sitter query patterns for Rust type annotation
// extraction, used for resolving let-bound variable types ahead of method
// call resolution (Rust has no implicit untyped receivers the way dynamic
// languages do, but explicit annotations and `let x: Type = Type::new()`
// bindings still need tracking for calls through a renamed/aliased binding).
//
// Each query captures:
//   - @type.var.name - The variable name
//   - @type.name     - The type name (simple types)
//   - @type.base     - The base type for generics (Vec in Vec<User>)
//   - @type.arg      - The first type argument for generics
const RustQueries = `
; ============================================================================
; let bindings with explicit types
; ============================================================================

; let service: UserService = UserService::new();
(let_declaration
  pattern: (identifier) @type.var.name
  type: (type_identifier) @type.name)

; let users: Vec<User> = Vec::new();
(let_declaration
  pattern: (identifier) @type.var.name
  type: (generic_type
    type: (type_identifier) @type.base
    type_arguments: (type_arguments
      (type_identifier) @type.arg)))

; ============================================================================
; Constructor-call assignments (no explicit annotation)
; ============================================================================

; let service = UserService::new();
;
; Captures any associated-function call assigned to a let binding, not only
; ::new(); the local type tracker treats the result as a candidate binding,
; same as the Python constructor-assignment pattern above.
(let_declaration
  pattern: (identifier) @type.var.name
  value: (call_expression
    function: (scoped_identifier
      path: (identifier) @type.name)))

; ============================================================================
; Function parameter types
; ============================================================================

; fn process(data: DataType) { ... }
(parameter
  pattern: (identifier) @type.var.name
  type: (type_identifier) @type.name)

; fn process(items: Vec<Item>) { ... }
(parameter
  pattern: (identifier) @type.var.name
  type: (generic_type
    type: (type_identifier) @type.base
    type_arguments: (type_arguments
      (type_identifier) @type.arg)))
`
