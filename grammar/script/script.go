package script

import (
	"context"
	"fmt"
	"sync"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/limn/grammar"
	"github.com/dshills/limn/internal/textutil"
	"github.com/dshills/limn/token"
)

// tokenizeFn is the global every script grammar must define.
const tokenizeFn = "tokenize"

// Grammar runs a Lua tokenize function over a document line by line.
// A single Lua state backs each Grammar; the mutex serializes parses
// because Lua states are not safe for concurrent use.
type Grammar struct {
	id    string
	mu    sync.Mutex
	state *lua.LState
	fn    lua.LValue
}

// New compiles a Lua tokenizer chunk into a grammar. The chunk runs
// once inside a sandboxed state and must leave a tokenize function in
// the global table.
func New(id, source string) (*Grammar, error) {
	state, err := newSandbox()
	if err != nil {
		return nil, grammar.NewOperationError("load", id, fmt.Errorf("%w: %w", grammar.ErrGrammarLoad, err))
	}

	if err := state.DoString(source); err != nil {
		state.Close()
		return nil, grammar.NewOperationError("load", id, fmt.Errorf("%w: %w", grammar.ErrGrammarLoad, err))
	}

	fn := state.GetGlobal(tokenizeFn)
	if _, ok := fn.(*lua.LFunction); !ok {
		state.Close()
		return nil, grammar.NewOperationError("load", id,
			fmt.Errorf("%w: script does not define %s", grammar.ErrGrammarLoad, tokenizeFn))
	}

	return &Grammar{id: id, state: state, fn: fn}, nil
}

// newSandbox creates a Lua state with only the base, table, string and
// math libraries open. Scripts cannot reach the filesystem, the
// network or the process environment.
func newSandbox() (*lua.LState, error) {
	state := lua.NewState(lua.Options{SkipOpenLibs: true})
	for _, lib := range []struct {
		name string
		fn   lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		if err := state.CallByParam(lua.P{
			Fn:      state.NewFunction(lib.fn),
			NRet:    0,
			Protect: true,
		}, lua.LString(lib.name)); err != nil {
			state.Close()
			return nil, fmt.Errorf("open %s library: %w", lib.name, err)
		}
	}
	return state, nil
}

// ID returns the language id.
func (g *Grammar) ID() string { return g.id }

// Parse tokenizes every line of content, threading the lexer state
// string from each line into the next.
func (g *Grammar) Parse(ctx context.Context, content []byte) (grammar.Tree, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.state.SetContext(ctx)
	defer g.state.RemoveContext()

	rawLines := textutil.SplitLines(content)
	lines := make([]token.LineTokens, len(rawLines))
	states := make([]string, len(rawLines))

	carry := ""
	for i, raw := range rawLines {
		states[i] = carry
		toks, next, err := g.tokenizeLine(raw, carry)
		if err != nil {
			return nil, grammar.NewOperationError("parse", g.id,
				fmt.Errorf("%w: %w", grammar.ErrParse, err)).WithContext(fmt.Sprintf("line %d", i))
		}
		lines[i] = toks
		carry = next
	}

	return &Tree{lines: lines, states: states}, nil
}

// tokenizeLine calls the script for one line. Caller holds g.mu.
func (g *Grammar) tokenizeLine(line []byte, state string) (token.LineTokens, string, error) {
	if err := g.state.CallByParam(lua.P{
		Fn:      g.fn,
		NRet:    2,
		Protect: true,
	}, lua.LString(line), lua.LString(state)); err != nil {
		return nil, "", err
	}

	nextVal := g.state.Get(-1)
	toksVal := g.state.Get(-2)
	g.state.Pop(2)

	next := ""
	if s, ok := nextVal.(lua.LString); ok {
		next = string(s)
	}

	tbl, ok := toksVal.(*lua.LTable)
	if !ok {
		return nil, next, nil
	}

	var toks token.LineTokens
	prevEnd := 0
	n := tbl.Len()
	for i := 1; i <= n; i++ {
		entry, ok := tbl.RawGetInt(i).(*lua.LTable)
		if !ok {
			continue
		}
		start := int(lua.LVAsNumber(entry.RawGetString("start")))
		stop := int(lua.LVAsNumber(entry.RawGetString("stop")))
		scope := lua.LVAsString(entry.RawGetString("scope"))

		// Malformed entries are dropped rather than failing the parse;
		// overlap with a previous token is clipped away.
		if scope == "" || stop > len(line) {
			continue
		}
		if start < prevEnd {
			start = prevEnd
		}
		if start >= stop {
			continue
		}
		toks = append(toks, token.Token{
			Start: uint32(start),
			End:   uint32(stop),
			Scope: token.Scope(scope),
		})
		prevEnd = stop
	}
	return toks, next, nil
}

// Tree is one tokenized document snapshot. Script trees carry no
// native resources; Close is a no-op.
type Tree struct {
	lines  []token.LineTokens
	states []string
}

// LineCount returns the number of lines in the snapshot.
func (t *Tree) LineCount() int { return len(t.lines) }

// LineTokens returns copies of the token sets for lines
// [startLine, endLine], clipped to the document.
func (t *Tree) LineTokens(startLine, endLine int) []token.LineTokens {
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

// ContextAt returns the lexer state string entering the line.
func (t *Tree) ContextAt(line int) string {
	if line < 0 || line >= len(t.states) {
		return ""
	}
	return t.states[line]
}

// Close is a no-op.
func (t *Tree) Close() {}
