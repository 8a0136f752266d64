// Package calls provides tree-sitter query patterns for call-site
// extraction, feeding the L4 call detector.
package calls

// JSQueries contains tree-sitter query patterns for JavaScript call-site
// extraction: plain calls, method calls, and constructor calls.
//
// Each query captures:
//   - @call.callee       - The identifier/member being invoked
//   - @call.object       - The receiver expression, for method calls
//   - @call.property     - The method name, for method calls
//   - @call.definition   - The entire call expression (for location)
//   - @call.new.callee   - The constructor identifier, for `new X()`
const JSQueries = `
; ============================================================================
; Plain function calls
; ============================================================================

; doSomething(arg)
(call_expression
  function: (identifier) @call.callee
) @call.definition

; ============================================================================
; Method calls
; ============================================================================

; obj.method(arg)
(call_expression
  function: (member_expression
    object: (identifier) @call.object
    property: (property_identifier) @call.property
  )
) @call.definition

; Chained method calls: obj.method1().method2()
; The inner call_expression is matched recursively by the same pattern above;
; object in that case is itself a call_expression, which the call detector
; resolves by return-type tracking rather than the query layer.
(call_expression
  function: (member_expression
    object: (call_expression) @call.chain.object
    property: (property_identifier) @call.property
  )
) @call.definition

; this.method(arg)
(call_expression
  function: (member_expression
    object: (this) @call.this
    property: (property_identifier) @call.property
  )
) @call.definition

; ============================================================================
; Constructor calls
; ============================================================================

; new MyClass(arg)
(new_expression
  constructor: (identifier) @call.new.callee
) @call.new.definition

; new namespace.MyClass(arg)
(new_expression
  constructor: (member_expression
    object: (identifier) @call.new.namespace
    property: (property_identifier) @call.new.callee
  )
) @call.new.definition
`
