package grammar

import (
	"context"

	"github.com/dshills/limn/internal/textutil"
	"github.com/dshills/limn/token"
)

// PlainTextID is the language id of the built-in plain-text grammar.
const PlainTextID = "text"

// PlainTextRegistration returns the registration for the plain-text
// grammar: every line tokenizes to an empty token set. It is the
// degradation target when no real grammar is available.
func PlainTextRegistration() Registration {
	return Registration{
		Descriptor: Descriptor{
			ID:         PlainTextID,
			Name:       "Plain Text",
			Extensions: []string{".txt"},
			Version:    "1",
			Source:     "builtin",
		},
		Factory: func(ctx context.Context) (Grammar, error) {
			return NewPlainText(), nil
		},
	}
}

// NewPlainText creates the plain-text grammar.
func NewPlainText() Grammar {
	return plainGrammar{}
}

type plainGrammar struct{}

func (plainGrammar) ID() string { return PlainTextID }

func (plainGrammar) Parse(_ context.Context, content []byte) (Tree, error) {
	return plainTree{lines: textutil.CountLines(content)}, nil
}

type plainTree struct {
	lines int
}

func (t plainTree) LineTokens(startLine, endLine int) []token.LineTokens {
	if startLine < 0 {
		startLine = 0
	}
	if endLine >= t.lines {
		endLine = t.lines - 1
	}
	if startLine > endLine {
		return nil
	}
	return make([]token.LineTokens, endLine-startLine+1)
}

func (t plainTree) ContextAt(int) string { return "" }

func (t plainTree) LineCount() int { return t.lines }

func (t plainTree) Close() {}
