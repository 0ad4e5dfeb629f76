package treesitter

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/dshills/limn/internal/textutil"
	"github.com/dshills/limn/token"
)

// Tree is one parsed document snapshot.
type Tree struct {
	g       *Grammar
	inner   *sitter.Tree
	content []byte
	starts  []int
}

func newTree(g *Grammar, inner *sitter.Tree, content []byte) *Tree {
	return &Tree{
		g:       g,
		inner:   inner,
		content: content,
		starts:  textutil.LineStarts(content),
	}
}

// LineCount returns the number of lines in the parsed snapshot.
func (t *Tree) LineCount() int { return len(t.starts) }

// lineSpan returns the byte range [start, end) of a line, excluding
// the trailing newline.
func (t *Tree) lineSpan(line int) (int, int) {
	start := t.starts[line]
	end := len(t.content)
	if line+1 < len(t.starts) {
		end = t.starts[line+1] - 1
	}
	return start, end
}

// leafSpan is a classified leaf node span in document byte offsets.
type leafSpan struct {
	start int
	end   int
	scope token.Scope
}

// LineTokens returns the token sets for lines [startLine, endLine],
// clipped to the document.
func (t *Tree) LineTokens(startLine, endLine int) []token.LineTokens {
	if startLine < 0 {
		startLine = 0
	}
	if endLine >= len(t.starts) {
		endLine = len(t.starts) - 1
	}
	if startLine > endLine || t.inner == nil {
		return nil
	}

	rangeStart := t.starts[startLine]
	_, rangeEnd := t.lineSpan(endLine)

	spans := make([]leafSpan, 0, 64)
	t.collectLeaves(t.inner.RootNode(), rangeStart, rangeEnd, "", "", &spans)

	out := make([]token.LineTokens, endLine-startLine+1)
	si := 0
	for line := startLine; line <= endLine; line++ {
		lineStart, lineEnd := t.lineSpan(line)

		// Skip spans that end before this line.
		for si < len(spans) && spans[si].end <= lineStart {
			si++
		}

		var lt token.LineTokens
		for i := si; i < len(spans) && spans[i].start < lineEnd; i++ {
			clippedStart := max(spans[i].start, lineStart)
			clippedEnd := min(spans[i].end, lineEnd)
			if clippedStart >= clippedEnd {
				continue
			}
			tok := token.Token{
				Start: uint32(clippedStart - lineStart),
				End:   uint32(clippedEnd - lineStart),
				Scope: spans[i].scope,
			}
			// Merge adjacent spans with the same scope.
			if n := len(lt); n > 0 && lt[n-1].End == tok.Start && lt[n-1].Scope == tok.Scope {
				lt[n-1].End = tok.End
				continue
			}
			lt = append(lt, tok)
		}
		out[line-startLine] = lt
	}
	return out
}

// collectLeaves walks the subtree appending classified leaf spans that
// overlap [rangeStart, rangeEnd). Spans arrive sorted by start offset
// because tree-sitter children are ordered.
func (t *Tree) collectLeaves(node *sitter.Node, rangeStart, rangeEnd int, parentType, grandType string, out *[]leafSpan) {
	if node == nil {
		return
	}

	start := int(node.StartByte())
	end := int(node.EndByte())
	if end <= rangeStart || start >= rangeEnd {
		return
	}

	if node.ChildCount() == 0 {
		if start >= end {
			return
		}
		scope := t.classify(node, parentType, grandType)
		if scope == token.ScopeNone {
			return
		}
		*out = append(*out, leafSpan{start: start, end: end, scope: scope})
		return
	}

	nodeType := node.Type()
	// Composite nodes with an explicit scope mapping (string literals,
	// block comments) highlight as a unit: their quote and escape
	// children would otherwise leave the interior unscoped.
	if scope, ok := t.g.scopes[nodeType]; ok && scope != token.ScopeNone {
		*out = append(*out, leafSpan{start: start, end: end, scope: scope})
		return
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		t.collectLeaves(node.Child(i), rangeStart, rangeEnd, nodeType, parentType, out)
	}
}

// ContextAt returns the innermost named node kind enclosing the start
// of the line.
func (t *Tree) ContextAt(line int) string {
	if t.inner == nil || line < 0 || line >= len(t.starts) {
		return ""
	}
	root := t.inner.RootNode()
	if root == nil {
		return ""
	}
	point := sitter.Point{Row: uint32(line), Column: 0}
	node := root.NamedDescendantForPointRange(point, point)
	if node == nil {
		return ""
	}
	return node.Type()
}

// Close releases the underlying tree-sitter tree.
func (t *Tree) Close() {
	if t.inner != nil {
		t.inner.Close()
		t.inner = nil
	}
}
