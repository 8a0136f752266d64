package calls

// PyQueries contains tree-sitter query patterns for Python call-site
// extraction. Python makes no syntactic distinction between a plain call, a
// method call, and a constructor call (`ClassName(args)` and `func(args)`
// are both `call` nodes with an `identifier` function); the call detector
// tells them apart by checking whether the callee resolves to a class
// definition.
const PyQueries = `
; ============================================================================
; Plain calls (also covers constructor calls: Foo(args))
; ============================================================================

(call
  function: (identifier) @call.callee
) @call.definition

; ============================================================================
; Method / attribute calls
; ============================================================================

; obj.method(arg)
(call
  function: (attribute
    object: (identifier) @call.object
    attribute: (identifier) @call.property
  )
) @call.definition

; Chained method calls: obj.method1().method2()
(call
  function: (attribute
    object: (call) @call.chain.object
    attribute: (identifier) @call.property
  )
) @call.definition

; self.method(arg)
(call
  function: (attribute
    object: (identifier) @call.self (#eq? @call.self "self")
    attribute: (identifier) @call.property
  )
) @call.definition

; super().method(arg)
(call
  function: (attribute
    object: (call
      function: (identifier) @_super (#eq? @_super "super")
    )
    attribute: (identifier) @call.property
  )
) @call.definition
`
