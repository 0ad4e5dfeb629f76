// Package treesitter adapts tree-sitter grammars to the grammar
// package's parse/reparse/token-extraction contract.
//
// Token extraction walks the syntax tree's leaves, clips spans to line
// boundaries, and maps node kinds to scopes through a per-grammar
// ScopeMap plus generic classification rules (parent context for
// function calls and type positions, lexeme shape for constants).
// Extraction is deterministic: identical tree and range inputs produce
// byte-identical token sequences.
package treesitter
