package calls

// TSQueries contains tree-sitter query patterns for TypeScript call-site
// extraction. Grammar shapes for call_expression/new_expression are shared
// with JavaScript; TypeScript adds type_arguments on generic calls, captured
// separately so the call detector can record them without them interfering
// with callee resolution.
const TSQueries = `
; ============================================================================
; Plain function calls
; ============================================================================

(call_expression
  function: (identifier) @call.callee
) @call.definition

; Generic function call: identity<User>(value)
(call_expression
  function: (identifier) @call.callee
  type_arguments: (type_arguments
    (type_identifier) @call.type_arg)
) @call.definition

; ============================================================================
; Method calls
; ============================================================================

(call_expression
  function: (member_expression
    object: (identifier) @call.object
    property: (property_identifier) @call.property
  )
) @call.definition

(call_expression
  function: (member_expression
    object: (call_expression) @call.chain.object
    property: (property_identifier) @call.property
  )
) @call.definition

(call_expression
  function: (member_expression
    object: (this) @call.this
    property: (property_identifier) @call.property
  )
) @call.definition

; super.method(arg)
(call_expression
  function: (member_expression
    object: (super) @call.super
    property: (property_identifier) @call.property
  )
) @call.definition

; ============================================================================
; Constructor calls
; ============================================================================

(new_expression
  constructor: (identifier) @call.new.callee
) @call.new.definition

(new_expression
  constructor: (member_expression
    object: (identifier) @call.new.namespace
    property: (property_identifier) @call.new.callee
  )
) @call.new.definition

; new Generic<User>(arg)
(new_expression
  constructor: (identifier) @call.new.callee
  type_arguments: (type_arguments
    (type_identifier) @call.new.type_arg)
) @call.new.definition
`
