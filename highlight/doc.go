// Package highlight maintains per-line syntax highlighting for open
// documents and keeps it current across edits.
//
// The package exposes two surfaces:
//
//   - Document is the per-document handle. Highlight performs a full
//     tokenization; Update applies an edit and recomputes only the
//     affected lines; SetLanguage switches grammars; Reload absorbs an
//     external content change.
//   - Service owns the shared grammar registry and loader and the table
//     of open documents.
//
// Update receives the changed line span and the entire document content
// after the edit. Grammars capable of incremental reparse reuse the
// previous syntax tree; the recompute span starts at the first changed
// line and widens while recomputed tokens or line-context fingerprints
// differ from the previous state, so an unterminated construct (an
// opened block comment) extends the span to the end of the document.
// Grammars without incremental reparse are re-run in full and the
// result reports only the lines whose tokens actually changed.
//
// Load and parse failures never fail the edit path: the document
// degrades to plain text (empty token sets) and the cause is available
// from LastError. The next Highlight retries the load.
package highlight
