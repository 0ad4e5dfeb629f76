package grammar

import (
	"context"

	"github.com/dshills/limn/token"
)

// Point is a 0-indexed row and byte-column position within a document.
type Point struct {
	Row    uint32
	Column uint32
}

// Edit describes a single contiguous byte replacement applied to a
// document, in both byte offsets and row/column points. End offsets
// are exclusive.
type Edit struct {
	StartByte   uint32
	OldEndByte  uint32
	NewEndByte  uint32
	StartPoint  Point
	OldEndPoint Point
	NewEndPoint Point
}

// Grammar is a loaded per-language parsing capability. Implementations
// are shared by every document using the language and must be safe for
// concurrent use.
type Grammar interface {
	// ID returns the language id this grammar parses.
	ID() string

	// Parse runs a full parse over content and returns a syntax tree.
	Parse(ctx context.Context, content []byte) (Tree, error)
}

// IncrementalGrammar is implemented by grammars that can reuse
// unaffected subtrees when re-parsing after a localized edit.
type IncrementalGrammar interface {
	Grammar

	// Reparse re-parses newContent reusing old where the edit did not
	// invalidate it. The old tree is invalidated for token extraction;
	// the caller still owns it and must Close it.
	Reparse(ctx context.Context, old Tree, edit Edit, newContent []byte) (Tree, error)
}

// Tree is the result of parsing one document snapshot. Token extraction
// is deterministic and side-effect-free: identical tree and range inputs
// produce byte-identical token sequences.
type Tree interface {
	// LineTokens returns the token sets for lines [startLine, endLine],
	// both inclusive and 0-indexed, clipped to the document.
	LineTokens(startLine, endLine int) []token.LineTokens

	// ContextAt returns an opaque fingerprint of the syntactic context
	// enclosing the start of the line (e.g. the innermost named node
	// kind). The highlight engine compares fingerprints across reparses
	// to decide how far an edit's effect reaches.
	ContextAt(line int) string

	// LineCount returns the number of lines in the parsed snapshot.
	LineCount() int

	// Close releases resources held by the tree. The tree must not be
	// used afterwards.
	Close()
}
