package imports

// RustQueries contains tree-sitter query patterns for Rust `use` extraction,
// grounded on the use_declaration walk in the pack's own Rust analyzer.
// Rust's "export" side has no dedicated statement: visibility is carried by
// the `pub` modifier on each item, handled by the extractor reading
// symbols.RustQueries' @impl/@class/@function captures alongside their
// visibility_modifier child, not here.
//
// Captures:
//   - @import.* - Import-related nodes
const RustQueries = `
; ===========================================================================
; USE DECLARATIONS
; ===========================================================================

; use std::collections::HashMap;
(use_declaration
  argument: (scoped_identifier) @import.path
)

; use std::io::{Read, Write};
(use_declaration
  argument: (scoped_use_list
    path: (_) @import.source
    list: (use_list
      (identifier) @import.named
    )
  )
)

; use std::fmt::Result as FmtResult;
(use_declaration
  argument: (use_as_clause
    path: (_) @import.path
    alias: (identifier) @import.alias
  )
)

; use self::module;  /  use super::module;  /  use crate::module;
(use_declaration
  argument: (scoped_identifier
    path: (self) @import.relative.self
  )
)

(use_declaration
  argument: (scoped_identifier
    path: (super) @import.relative.super
  )
)

(use_declaration
  argument: (scoped_identifier
    path: (crate) @import.relative.crate
  )
)

; use plain_name;
(use_declaration
  argument: (identifier) @import.namespace
)

; use std::io::*;
(use_declaration
  argument: (use_wildcard
    (scoped_identifier) @import.wildcard.source
  )
)

; mod my_module; (file-module declaration, resolved like an import by L5)
(mod_item
  !body
  name: (identifier) @import.modfile
)
`
