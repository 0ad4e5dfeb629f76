// Package script provides line-oriented tokenizer grammars written in
// Lua, for languages without a compiled tree-sitter grammar.
//
// A script grammar is a Lua chunk defining:
//
//	function tokenize(line, state) -> tokens, state
//
// where line is one line of text without its newline, state is the
// carry-over lexer state string from the previous line ("" at document
// start), tokens is an array of tables {start=<byte offset>,
// stop=<exclusive byte offset>, scope=<scope string>} with 0-based
// offsets, and the returned state feeds the next line (multi-line
// constructs carry a non-empty state).
//
// Scripts run in a sandboxed state: only the base, table, string and
// math libraries are open, and execution is bounded by the caller's
// context. Script grammars do not support incremental reparse; the
// highlight engine takes the full-retokenize, diff-notify path for
// them.
//
// A directory of script grammars is described by a grammars.yaml
// manifest mapping language ids to script files.
package script
