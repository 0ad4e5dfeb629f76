// Package grammar manages the lifecycle of per-language parsing
// capabilities: a registry of language descriptors, a single-flight
// loader that caches constructed grammars for the process lifetime,
// and the Grammar/Tree interfaces implemented by the concrete adapters
// (grammar/treesitter, grammar/script).
//
// Responsibilities:
//   - Resolve language ids to descriptors (extension, filename and
//     shebang detection included)
//   - Load grammars asynchronously with at most one in-flight load per
//     language id, shared by all concurrent callers
//   - Cache loaded grammars permanently; failed loads are retried on
//     the next explicit request
//   - Define the parse/reparse/token-extraction contract consumed by
//     the highlight engine
package grammar
