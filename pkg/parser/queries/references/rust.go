package references

// RustQueries contains the tree-sitter query pattern for Rust identifier
// reference extraction, run through the smacker/go-tree-sitter engine like
// the rest of this language's queries. `field_identifier` (struct field
// access) is a distinct node kind and is not matched here.
const RustQueries = `
(identifier) @reference.name
`
