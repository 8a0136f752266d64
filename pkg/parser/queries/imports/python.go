package imports

// PyQueries contains tree-sitter query patterns for Python import and
// "export" extraction. Python has no export keyword; a module's public
// surface is every top-level definition not prefixed with an underscore,
// decided at the extractor layer, not here; __all__ is not read anywhere.
// This file only extracts the import side.
//
// Captures:
//   - @import.* - Import-related nodes
const PyQueries = `
; ===========================================================================
; IMPORT STATEMENTS
; ===========================================================================

; import os
; import os, sys
(import_statement
  name: (dotted_name) @import.namespace
)

; import os as operating_system
(import_statement
  name: (aliased_import
    name: (dotted_name) @import.namespace
    alias: (identifier) @import.alias
  )
)

; from . import utils
; from .sibling import helper
; from ..pkg.module import thing
(import_from_statement
  module_name: (dotted_name) @import.source
  name: (dotted_name) @import.named
)

(import_from_statement
  module_name: (relative_import) @import.relative.source
  name: (dotted_name) @import.named
)

; from module import name as alias
(import_from_statement
  module_name: (dotted_name) @import.source
  name: (aliased_import
    name: (dotted_name) @import.named
    alias: (identifier) @import.alias
  )
)

; from module import *
(import_from_statement
  module_name: (dotted_name) @import.wildcard.source
  (wildcard_import)
)
`
