package highlight

import "github.com/dshills/limn/token"

// Result is the affected-range notification returned by Highlight,
// Update and Reload. The renderer repaints lines [StartLine, EndLine]
// from Lines; token sets outside that span are unchanged since the
// previous result.
type Result struct {
	// DocumentVersion is the document version this result reflects.
	DocumentVersion uint64

	// StartLine is the first recomputed line, 0-indexed inclusive.
	StartLine int

	// EndLine is the last recomputed line, 0-indexed inclusive.
	EndLine int

	// Lines holds one token set per line in [StartLine, EndLine].
	Lines []token.LineTokens

	// Full reports that the whole document was retokenized.
	Full bool
}

// LineCount returns the number of lines the result covers.
func (r *Result) LineCount() int {
	if r == nil || r.EndLine < r.StartLine {
		return 0
	}
	return r.EndLine - r.StartLine + 1
}

func cloneLines(lines []token.LineTokens) []token.LineTokens {
	out := make([]token.LineTokens, len(lines))
	for i, lt := range lines {
		out[i] = lt.Clone()
	}
	return out
}
