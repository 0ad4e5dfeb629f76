package highlight

import (
	"bytes"
	"context"
	"sync"

	"github.com/dshills/limn/grammar"
	"github.com/dshills/limn/internal/textutil"
	"github.com/dshills/limn/token"
)

// lineGrammar is a deterministic line lexer used across the engine
// tests. It understands /* */ block comments spanning lines, a few
// keywords, numbers and identifiers, so an edit that opens or closes a
// comment changes every following line.
type lineGrammar struct {
	id          string
	incremental bool

	mu       sync.Mutex
	parses   int
	reparses int
}

var lexKeywords = map[string]bool{
	"func": true, "var": true, "if": true, "return": true,
}

func newLineGrammar(id string, incremental bool) *lineGrammar {
	return &lineGrammar{id: id, incremental: incremental}
}

func (g *lineGrammar) ID() string { return g.id }

func (g *lineGrammar) Parse(_ context.Context, content []byte) (grammar.Tree, error) {
	g.mu.Lock()
	g.parses++
	g.mu.Unlock()
	return lexAll(content), nil
}

func (g *lineGrammar) counts() (parses, reparses int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.parses, g.reparses
}

// incLineGrammar adds Reparse on top of lineGrammar.
type incLineGrammar struct {
	*lineGrammar
}

func (g *incLineGrammar) Reparse(_ context.Context, _ grammar.Tree, _ grammar.Edit, newContent []byte) (grammar.Tree, error) {
	g.mu.Lock()
	g.reparses++
	g.mu.Unlock()
	return lexAll(newContent), nil
}

func (g *lineGrammar) registration() grammar.Registration {
	return grammar.Registration{
		Descriptor: grammar.Descriptor{ID: g.id, Name: g.id, Extensions: []string{"." + g.id}, Version: "1", Source: "test"},
		Factory: func(context.Context) (grammar.Grammar, error) {
			if g.incremental {
				return &incLineGrammar{lineGrammar: g}, nil
			}
			return g, nil
		},
	}
}

type lineTree struct {
	lines  []token.LineTokens
	states []bool // block-comment state entering each line
}

func lexAll(content []byte) *lineTree {
	raw := textutil.SplitLines(content)
	t := &lineTree{
		lines:  make([]token.LineTokens, len(raw)),
		states: make([]bool, len(raw)),
	}
	inComment := false
	for i, line := range raw {
		t.states[i] = inComment
		t.lines[i], inComment = lexLine(line, inComment)
	}
	return t
}

func lexLine(line []byte, inComment bool) (token.LineTokens, bool) {
	var toks token.LineTokens
	add := func(s, e int, sc token.Scope) {
		if s < e {
			toks = append(toks, token.Token{Start: uint32(s), End: uint32(e), Scope: sc})
		}
	}

	i := 0
	for i < len(line) {
		if inComment {
			if j := bytes.Index(line[i:], []byte("*/")); j >= 0 {
				add(i, i+j+2, token.ScopeCommentBlock)
				i += j + 2
				inComment = false
				continue
			}
			add(i, len(line), token.ScopeCommentBlock)
			i = len(line)
			continue
		}
		if line[i] == '/' && i+1 < len(line) && line[i+1] == '*' {
			inComment = true
			continue
		}
		if isWordByte(line[i]) {
			j := i
			for j < len(line) && isWordByte(line[j]) {
				j++
			}
			word := string(line[i:j])
			switch {
			case lexKeywords[word]:
				add(i, j, token.ScopeKeyword)
			case isDigits(word):
				add(i, j, token.ScopeNumber)
			default:
				add(i, j, token.ScopeVariable)
			}
			i = j
			continue
		}
		i++
	}
	return toks, inComment
}

func isWordByte(b byte) bool {
	return b == '_' ||
		(b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func (t *lineTree) LineCount() int { return len(t.lines) }

func (t *lineTree) LineTokens(startLine, endLine int) []token.LineTokens {
	if startLine < 0 {
		startLine = 0
	}
	if endLine >= len(t.lines) {
		endLine = len(t.lines) - 1
	}
	if startLine > endLine {
		return nil
	}
	out := make([]token.LineTokens, endLine-startLine+1)
	for i := range out {
		out[i] = t.lines[startLine+i].Clone()
	}
	return out
}

func (t *lineTree) ContextAt(line int) string {
	if line < 0 || line >= len(t.states) {
		return ""
	}
	if t.states[line] {
		return "comment"
	}
	return ""
}

func (t *lineTree) Close() {}

// fataler covers *testing.T and *rapid.T.
type fataler interface {
	Fatal(args ...any)
}

// newTestDocument wires a document to a fresh registry holding the
// given grammar plus plain text.
func newTestDocument(tb fataler, g *lineGrammar, content string) *Document {
	reg := grammar.NewRegistry()
	if err := reg.Register(grammar.PlainTextRegistration()); err != nil {
		tb.Fatal(err)
	}
	if err := reg.Register(g.registration()); err != nil {
		tb.Fatal(err)
	}
	loader := grammar.NewLoader(reg, nil)
	return newDocument(g.id, "", []byte(content), loader, nil)
}
