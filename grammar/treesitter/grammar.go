package treesitter

import (
	"context"
	"fmt"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/dshills/limn/grammar"
)

// Grammar wraps a tree-sitter language as an incremental grammar.
// One Grammar is shared by every document using the language; the
// embedded parser is not goroutine-safe, so parses are serialized by
// a mutex.
type Grammar struct {
	id     string
	lang   *sitter.Language
	scopes ScopeMap

	mu     sync.Mutex
	parser *sitter.Parser
}

// New creates a grammar for a tree-sitter language. scopes may be nil,
// in which case only the generic classification rules apply.
func New(id string, lang *sitter.Language, scopes ScopeMap) *Grammar {
	parser := sitter.NewParser()
	parser.SetLanguage(lang)
	return &Grammar{
		id:     id,
		lang:   lang,
		scopes: scopes,
		parser: parser,
	}
}

// ID returns the language id.
func (g *Grammar) ID() string { return g.id }

// Parse runs a full parse over content.
func (g *Grammar) Parse(ctx context.Context, content []byte) (grammar.Tree, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	inner, err := g.parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, grammar.NewOperationError("parse", g.id,
			fmt.Errorf("%w: %w", grammar.ErrParse, err))
	}
	return newTree(g, inner, content), nil
}

// Reparse re-parses newContent reusing the old tree's unaffected
// subtrees. Falls back to a full parse when old is not a tree produced
// by this adapter.
func (g *Grammar) Reparse(ctx context.Context, old grammar.Tree, edit grammar.Edit, newContent []byte) (grammar.Tree, error) {
	prev, ok := old.(*Tree)
	if !ok || prev.inner == nil {
		return g.Parse(ctx, newContent)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	prev.inner.Edit(sitter.EditInput{
		StartIndex:  edit.StartByte,
		OldEndIndex: edit.OldEndByte,
		NewEndIndex: edit.NewEndByte,
		StartPoint:  sitter.Point{Row: edit.StartPoint.Row, Column: edit.StartPoint.Column},
		OldEndPoint: sitter.Point{Row: edit.OldEndPoint.Row, Column: edit.OldEndPoint.Column},
		NewEndPoint: sitter.Point{Row: edit.NewEndPoint.Row, Column: edit.NewEndPoint.Column},
	})

	inner, err := g.parser.ParseCtx(ctx, prev.inner, newContent)
	if err != nil {
		return nil, grammar.NewOperationError("reparse", g.id,
			fmt.Errorf("%w: %w", grammar.ErrParse, err))
	}
	return newTree(g, inner, newContent), nil
}
