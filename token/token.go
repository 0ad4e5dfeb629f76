// Package token defines the token model shared by grammars and the
// highlight engine: line-relative byte spans tagged with hierarchical
// scope strings that a renderer's theme maps to display attributes.
package token

// Scope is a hierarchical dotted tag describing the lexical or syntactic
// category of a token, e.g. "keyword.control" or "string.quoted".
// Renderers resolve styles by exact match first, then by walking parent
// segments ("string.quoted" falls back to "string").
type Scope string

// Scopes emitted by the built-in grammars.
// These follow TextMate/VS Code scope naming conventions at a high level.
const (
	ScopeNone Scope = ""

	ScopeComment      Scope = "comment"
	ScopeCommentLine  Scope = "comment.line"
	ScopeCommentBlock Scope = "comment.block"

	ScopeString       Scope = "string"
	ScopeStringQuoted Scope = "string.quoted"
	ScopeStringEscape Scope = "string.escape"

	ScopeNumber Scope = "number"

	ScopeKeyword            Scope = "keyword"
	ScopeKeywordControl     Scope = "keyword.control"
	ScopeKeywordDeclaration Scope = "keyword.declaration"

	ScopeOperator             Scope = "operator"
	ScopePunctuation          Scope = "punctuation"
	ScopePunctuationBracket   Scope = "punctuation.bracket"
	ScopePunctuationDelimiter Scope = "punctuation.delimiter"

	ScopeVariable         Scope = "variable"
	ScopeConstant         Scope = "constant"
	ScopeConstantLanguage Scope = "constant.language"

	ScopeFunction     Scope = "function"
	ScopeFunctionCall Scope = "function.call"

	ScopeType        Scope = "type"
	ScopeTypeBuiltin Scope = "type.builtin"

	ScopeProperty Scope = "property"
	ScopeLabel    Scope = "label"
	ScopeTag      Scope = "tag"

	ScopeInvalid Scope = "invalid"
)

// Parent returns the scope with its last segment removed, or ScopeNone
// when no segments remain. "string.quoted" -> "string" -> "".
func (s Scope) Parent() Scope {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '.' {
			return s[:i]
		}
	}
	return ScopeNone
}

// HasPrefix reports whether s equals prefix or sits below it in the
// scope hierarchy. "keyword.control" has prefix "keyword" but not "key".
func (s Scope) HasPrefix(prefix Scope) bool {
	if len(s) < len(prefix) || s[:len(prefix)] != prefix {
		return false
	}
	return len(s) == len(prefix) || s[len(prefix)] == '.'
}

// Token is a highlighted span within a single line.
// Start and End are line-relative byte offsets with Start < End;
// End is exclusive.
type Token struct {
	Start uint32
	End   uint32
	Scope Scope
}

// Len returns the byte length of the token.
func (t Token) Len() uint32 {
	return t.End - t.Start
}

// Contains reports whether the byte offset falls within the token.
func (t Token) Contains(col uint32) bool {
	return col >= t.Start && col < t.End
}

// LineTokens is the ordered token set for one line: tokens are
// non-overlapping and sorted by Start. An unhighlighted line is
// represented by an empty (or nil) LineTokens.
type LineTokens []Token

// At returns the token covering the byte offset, if any.
func (lt LineTokens) At(col uint32) (Token, bool) {
	for _, tok := range lt {
		if tok.Contains(col) {
			return tok, true
		}
		if tok.Start > col {
			break
		}
	}
	return Token{}, false
}

// Equal reports whether two lines carry byte-identical token sets.
func (lt LineTokens) Equal(other LineTokens) bool {
	if len(lt) != len(other) {
		return false
	}
	for i := range lt {
		if lt[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns an independent copy of the token set.
func (lt LineTokens) Clone() LineTokens {
	if lt == nil {
		return nil
	}
	out := make(LineTokens, len(lt))
	copy(out, lt)
	return out
}

// Valid reports whether the token set is well formed: every token has
// Start < End and tokens are sorted without overlap.
func (lt LineTokens) Valid() bool {
	var prev uint32
	for _, tok := range lt {
		if tok.Start >= tok.End {
			return false
		}
		if tok.Start < prev {
			return false
		}
		prev = tok.End
	}
	return true
}
