package calls

// RustQueries contains tree-sitter query patterns for Rust call-site
// extraction: free function calls, method calls via field access, path-qualified
// calls (associated functions / constructors), and macro invocations.
const RustQueries = `
; ============================================================================
; Plain function calls
; ============================================================================

(call_expression
  function: (identifier) @call.callee
) @call.definition

; ============================================================================
; Method calls
; ============================================================================

; value.method(arg)
(call_expression
  function: (field_expression
    value: (identifier) @call.object
    field: (field_identifier) @call.property
  )
) @call.definition

; Chained method calls: value.method1().method2()
(call_expression
  function: (field_expression
    value: (call_expression) @call.chain.object
    field: (field_identifier) @call.property
  )
) @call.definition

; self.method(arg)
(call_expression
  function: (field_expression
    value: (self) @call.self
    field: (field_identifier) @call.property
  )
) @call.definition

; ============================================================================
; Path-qualified calls (associated functions / constructors)
; ============================================================================

; MyStruct::new(arg)
(call_expression
  function: (scoped_identifier
    path: (identifier) @call.path.base
    name: (identifier) @call.callee
  )
) @call.definition

; <MyStruct as MyTrait>::method(arg)
(call_expression
  function: (scoped_identifier
    path: (generic_type) @call.path.generic
    name: (identifier) @call.callee
  )
) @call.definition

; Self::method(arg)
(call_expression
  function: (scoped_identifier
    path: (self_type) @call.path.selftype
    name: (identifier) @call.callee
  )
) @call.definition
`
