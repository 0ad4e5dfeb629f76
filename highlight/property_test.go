package highlight

import (
	"context"
	"strings"
	"testing"

	"pgregory.net/rapid"
)

// editScript is the vocabulary random documents are built from. The
// comment markers make edits with long-range effects likely.
var editWords = []string{"func", "var", "if", "return", "x", "y", "42", "7", "/*", "*/", ""}

func genLine(t *rapid.T, label string) string {
	n := rapid.IntRange(0, 4).Draw(t, label+"-words")
	parts := make([]string, n)
	for i := range parts {
		parts[i] = rapid.SampledFrom(editWords).Draw(t, label+"-word")
	}
	return strings.Join(parts, " ")
}

func genDocument(t *rapid.T) []string {
	n := rapid.IntRange(1, 12).Draw(t, "lines")
	lines := make([]string, n)
	for i := range lines {
		lines[i] = genLine(t, "line")
	}
	return lines
}

// TestIncrementalMatchesFullProperty drives a document through random
// edit sequences and checks after every update that the retained token
// table is identical to a from-scratch tokenization of the content.
func TestIncrementalMatchesFullProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		lines := genDocument(rt)
		g := newLineGrammar("fake", true)
		d := newTestDocument(rt, g, strings.Join(lines, "\n"))
		defer d.Close()

		if _, err := d.Highlight(context.Background()); err != nil {
			rt.Fatalf("Highlight failed: %v", err)
		}

		steps := rapid.IntRange(1, 8).Draw(rt, "steps")
		for step := 0; step < steps; step++ {
			var start, end int
			switch rapid.IntRange(0, 2).Draw(rt, "op") {
			case 0: // replace a line
				start = rapid.IntRange(0, len(lines)-1).Draw(rt, "at")
				end = start
				lines[start] = genLine(rt, "repl")
			case 1: // insert a line
				start = rapid.IntRange(0, len(lines)).Draw(rt, "at")
				lines = append(lines[:start], append([]string{genLine(rt, "ins")}, lines[start:]...)...)
				end = start
			case 2: // delete a line, keeping at least one
				if len(lines) == 1 {
					start = 0
					end = 0
					lines[0] = genLine(rt, "repl")
					break
				}
				at := rapid.IntRange(0, len(lines)-1).Draw(rt, "at")
				lines = append(lines[:at], lines[at+1:]...)
				start = min(at, len(lines)-1)
				end = start
			}

			content := strings.Join(lines, "\n")
			res, err := d.Update(context.Background(), start, end, []byte(content))
			if err != nil {
				rt.Fatalf("step %d: Update failed: %v", step, err)
			}
			if res.EndLine >= len(lines) || res.StartLine < 0 {
				rt.Fatalf("step %d: result span [%d, %d] outside %d lines",
					step, res.StartLine, res.EndLine, len(lines))
			}

			want := lexAll([]byte(content))
			got := d.LineTokens(0, len(lines)-1)
			if len(got) != want.LineCount() {
				rt.Fatalf("step %d: %d retained lines, want %d", step, len(got), want.LineCount())
			}
			for i := range got {
				if !got[i].Equal(want.lines[i]) {
					rt.Fatalf("step %d line %d: incremental %v != full %v", step, i, got[i], want.lines[i])
				}
			}
		}
	})
}
