package symbols

// RustQueries contains tree-sitter query patterns for Rust symbol extraction,
// grounded on the node shapes used by the pack's own Rust analyzer (which
// walks use_declaration/function_item/struct_item/enum_item/trait_item/
// impl_item by hand rather than via queries; these patterns express the same
// node shapes declaratively for this module's query-driven pipeline).
//
// Each query captures:
//   - @name - The symbol name
//   - @definition - The entire symbol node (for location)
const RustQueries = `
; ============================================================================
; Functions
; ============================================================================

; fn my_function() { ... }
(function_item
  name: (identifier) @function.name
) @function.definition

; ============================================================================
; Structs, Enums, Traits
; ============================================================================

(struct_item
  name: (type_identifier) @class.name
) @class.definition

(enum_item
  name: (type_identifier) @class.name
  body: (enum_variant_list) @body
) @class.definition

(trait_item
  name: (type_identifier) @class.name
  body: (declaration_list) @body
) @class.definition

; ============================================================================
; impl blocks - inherent and trait methods
; ============================================================================

; impl MyStruct { fn method(&self) { ... } }
(impl_item
  type: (type_identifier) @impl.type
  body: (declaration_list
    (function_item
      name: (identifier) @method.name
    ) @method.definition
  )
)

; impl MyTrait for MyStruct { fn method(&self) { ... } }
(impl_item
  trait: (type_identifier) @impl.trait
  type: (type_identifier) @impl.type
  body: (declaration_list
    (function_item
      name: (identifier) @method.name
    ) @method.definition
  )
)

; ============================================================================
; Constants & Statics
; ============================================================================

(const_item
  name: (identifier) @variable.name
) @variable.definition

(static_item
  name: (identifier) @variable.name
) @variable.definition

; ============================================================================
; Type aliases & modules
; ============================================================================

(type_item
  name: (type_identifier) @class.name
) @class.definition

(mod_item
  name: (identifier) @module.name
) @module.definition
`
