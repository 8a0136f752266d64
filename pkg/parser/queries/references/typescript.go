package references

// TSQueries contains the tree-sitter query pattern for TypeScript identifier
// reference extraction. Shares JSQueries' shape and rationale; TypeScript's
// own type-identifier nodes (interface/type names used in annotations) are
// intentionally left uncaptured here since L3's type-annotation pass already
// extracts those positions for the purposes this pipeline needs.
const TSQueries = `
(identifier) @reference.name
`
