package references

// PyQueries contains the tree-sitter query pattern for Python identifier
// reference extraction. Same shape as the JS/TS queries: every bare
// `identifier` node, attribute names (a distinct `attribute` node field in
// tree-sitter-python) excluded.
const PyQueries = `
(identifier) @reference.name
`
