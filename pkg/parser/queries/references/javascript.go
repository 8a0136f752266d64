package references

// JSQueries contains the tree-sitter query pattern for JavaScript identifier
// reference extraction, consumed by L2's reference pass.
//
// Captures:
//   - @reference.name - Any bare identifier occurrence
//
// Deliberately coarse: this captures every `identifier` node, declaration
// sites included, rather than trying to distinguish reads from writes at
// extraction time (spec.md's Reference carries only a best-guess kind, and
// resolution in L9 treats a declaration's own name the same as any other
// occurrence — it simply resolves to itself). Member-expression property
// names are a distinct node kind (`property_identifier`) and are not
// matched here, since those aren't independently-bindable names.
const JSQueries = `
(identifier) @reference.name
`
