package highlight

import "errors"

// Highlight errors.
var (
	// ErrDocumentClosed indicates an operation on a closed document.
	ErrDocumentClosed = errors.New("document closed")

	// ErrDocumentNotFound indicates the document id is not open.
	ErrDocumentNotFound = errors.New("document not found")

	// ErrInvalidLineRange indicates a changed-line span that does not
	// fit the document.
	ErrInvalidLineRange = errors.New("invalid line range")

	// ErrLineCountMismatch indicates the parsed tree and the document
	// content disagree on the line count. This is an invariant
	// violation, not a recoverable parse failure.
	ErrLineCountMismatch = errors.New("line count mismatch")
)
