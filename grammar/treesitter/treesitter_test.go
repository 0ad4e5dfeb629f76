package treesitter

import (
	"context"
	"testing"

	"github.com/dshills/limn/grammar"
	"github.com/dshills/limn/internal/textutil"
	"github.com/dshills/limn/token"
)

const goSample = `package main

// entry point
func main() {
	x := 1
	println(x)
}
`

func parseGo(t *testing.T, content string) (*Grammar, *Tree) {
	t.Helper()
	var g *Grammar
	for _, reg := range Builtins() {
		if reg.Descriptor.ID == "go" {
			got, err := reg.Factory(context.Background())
			if err != nil {
				t.Fatal(err)
			}
			g = got.(*Grammar)
		}
	}
	if g == nil {
		t.Fatal("go grammar not registered")
	}
	tree, err := g.Parse(context.Background(), []byte(content))
	if err != nil {
		t.Fatal(err)
	}
	return g, tree.(*Tree)
}

func TestBuiltinsRegister(t *testing.T) {
	r := grammar.NewRegistry()
	for _, reg := range Builtins() {
		if err := r.Register(reg); err != nil {
			t.Errorf("Should register %s: %v", reg.Descriptor.ID, err)
		}
	}

	for _, id := range []string{"bash", "c", "cpp", "go", "javascript", "python", "rust", "toml", "typescript", "tsx", "yaml"} {
		if _, err := r.Resolve(id); err != nil {
			t.Errorf("Should resolve builtin %s: %v", id, err)
		}
	}

	if desc, ok := r.Detect("main.go", ""); !ok || desc.ID != "go" {
		t.Error("Should detect .go extension")
	}
	if desc, ok := r.Detect("script", "#!/usr/bin/env python3"); !ok || desc.ID != "python" {
		t.Error("Should detect python shebang")
	}
}

func TestParseLineCount(t *testing.T) {
	_, tree := parseGo(t, goSample)
	defer tree.Close()

	if tree.LineCount() != textutil.CountLines([]byte(goSample)) {
		t.Errorf("LineCount = %d, want %d", tree.LineCount(), textutil.CountLines([]byte(goSample)))
	}
}

func TestLineTokensScopes(t *testing.T) {
	_, tree := parseGo(t, goSample)
	defer tree.Close()

	lines := tree.LineTokens(0, tree.LineCount()-1)
	if len(lines) != tree.LineCount() {
		t.Fatalf("got %d line sets, want %d", len(lines), tree.LineCount())
	}
	for i, lt := range lines {
		if !lt.Valid() {
			t.Errorf("line %d tokens not well formed: %v", i, lt)
		}
	}

	// Line 0: "package main" starts with a keyword.
	if len(lines[0]) == 0 || !lines[0][0].Scope.HasPrefix(token.ScopeKeyword) {
		t.Errorf("line 0 should start with a keyword token, got %v", lines[0])
	}

	// Line 2: "// entry point" is a comment.
	if len(lines[2]) == 0 || !lines[2][0].Scope.HasPrefix(token.ScopeComment) {
		t.Errorf("line 2 should be a comment, got %v", lines[2])
	}

	// Line 4: "\tx := 1" ends with a number.
	found := false
	for _, tok := range lines[4] {
		if tok.Scope.HasPrefix(token.ScopeNumber) {
			found = true
		}
	}
	if !found {
		t.Errorf("line 4 should contain a number token, got %v", lines[4])
	}
}

func TestLineTokensDeterministic(t *testing.T) {
	_, tree := parseGo(t, goSample)
	defer tree.Close()

	first := tree.LineTokens(0, tree.LineCount()-1)
	second := tree.LineTokens(0, tree.LineCount()-1)
	for i := range first {
		if !first[i].Equal(second[i]) {
			t.Errorf("line %d differs between identical calls: %v vs %v", i, first[i], second[i])
		}
	}
}

// deriveEdit builds the covering single edit between two snapshots.
func deriveEdit(old, updated []byte) grammar.Edit {
	prefix := textutil.CommonPrefix(old, updated)
	suffix := textutil.CommonSuffix(old, updated, prefix)
	oldEnd := len(old) - suffix
	newEnd := len(updated) - suffix

	point := func(content []byte, off int) grammar.Point {
		row, col := textutil.PointAt(content, off)
		return grammar.Point{Row: uint32(row), Column: uint32(col)}
	}
	return grammar.Edit{
		StartByte:   uint32(prefix),
		OldEndByte:  uint32(oldEnd),
		NewEndByte:  uint32(newEnd),
		StartPoint:  point(old, prefix),
		OldEndPoint: point(old, oldEnd),
		NewEndPoint: point(updated, newEnd),
	}
}

func TestReparseMatchesFullParse(t *testing.T) {
	g, oldTree := parseGo(t, goSample)

	updated := []byte(`package main

// entry point
func main() {
	y := 42
	println(y)
}
`)

	edit := deriveEdit([]byte(goSample), updated)
	reparsed, err := g.Reparse(context.Background(), oldTree, edit, updated)
	if err != nil {
		t.Fatalf("Reparse failed: %v", err)
	}
	oldTree.Close()
	defer reparsed.Close()

	fresh, err := g.Parse(context.Background(), updated)
	if err != nil {
		t.Fatal(err)
	}
	defer fresh.Close()

	n := fresh.LineCount()
	if reparsed.LineCount() != n {
		t.Fatalf("LineCount mismatch: reparse %d, full %d", reparsed.LineCount(), n)
	}

	incLines := reparsed.LineTokens(0, n-1)
	fullLines := fresh.LineTokens(0, n-1)
	for i := range fullLines {
		if !incLines[i].Equal(fullLines[i]) {
			t.Errorf("line %d: incremental %v != full %v", i, incLines[i], fullLines[i])
		}
	}
}

func TestContextAt(t *testing.T) {
	_, tree := parseGo(t, goSample)
	defer tree.Close()

	// Line 4 sits inside the function body; the fingerprint must be
	// non-empty and stable.
	ctx := tree.ContextAt(4)
	if ctx == "" {
		t.Error("Should report a context inside a function body")
	}
	if tree.ContextAt(4) != ctx {
		t.Error("ContextAt should be deterministic")
	}

	if tree.ContextAt(-1) != "" || tree.ContextAt(1000) != "" {
		t.Error("Out-of-range lines have no context")
	}
}
