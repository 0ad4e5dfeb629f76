package treesitter

import (
	"strings"
	"unicode"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/dshills/limn/token"
)

// ScopeMap maps tree-sitter node kinds to scopes. It is static
// configuration shipped with each language registration and consulted
// before the generic classification rules.
type ScopeMap map[string]token.Scope

// classify maps a leaf node to a scope. The ScopeMap wins on exact node
// kind; otherwise generic rules classify by kind substring, parent
// context and lexeme shape.
func (t *Tree) classify(node *sitter.Node, parentType, grandType string) token.Scope {
	nodeType := node.Type()

	if scope, ok := t.g.scopes[nodeType]; ok {
		return scope
	}

	lower := strings.ToLower(nodeType)
	lexeme := string(t.content[node.StartByte():node.EndByte()])

	switch {
	case lower == "error" || strings.Contains(lower, "invalid"):
		return token.ScopeNone
	case strings.Contains(lower, "comment"):
		return token.ScopeComment
	case lower == "escape_sequence":
		return token.ScopeStringEscape
	case strings.Contains(lower, "string") || strings.Contains(lower, "char") || strings.Contains(lower, "heredoc"):
		return token.ScopeString
	case strings.Contains(lower, "number") || strings.Contains(lower, "integer") ||
		strings.Contains(lower, "float") || strings.Contains(lower, "numeric"):
		return token.ScopeNumber
	}

	switch lexeme {
	case "true", "false", "nil", "null", "None", "True", "False", "iota":
		return token.ScopeConstantLanguage
	}

	if strings.Contains(lower, "type_identifier") || strings.Contains(lower, "primitive_type") ||
		strings.Contains(lower, "predefined_type") {
		return token.ScopeType
	}

	if isIdentifierKind(lower) {
		switch {
		case lower == "field_identifier" || lower == "property_identifier":
			return token.ScopeProperty
		case isTypeContext(parentType, grandType):
			return token.ScopeType
		case isCallContext(parentType):
			return token.ScopeFunctionCall
		case isFunctionContext(parentType, grandType):
			return token.ScopeFunction
		case isLikelyConstant(lexeme):
			return token.ScopeConstant
		}
		return token.ScopeNone
	}

	if !node.IsNamed() || strings.HasSuffix(lower, "keyword") {
		if controlKeywords[lexeme] {
			return token.ScopeKeywordControl
		}
		if declarationKeywords[lexeme] {
			return token.ScopeKeywordDeclaration
		}
		if keywords[lexeme] || strings.HasSuffix(lower, "keyword") {
			return token.ScopeKeyword
		}
		switch lexeme {
		case "(", ")", "[", "]", "{", "}":
			return token.ScopePunctuationBracket
		case ",", ";", ".", ":", "::":
			return token.ScopePunctuationDelimiter
		}
		if looksLikeOperator(lexeme) {
			return token.ScopeOperator
		}
	}

	return token.ScopeNone
}

func isIdentifierKind(nodeType string) bool {
	return nodeType == "identifier" ||
		strings.HasSuffix(nodeType, "_identifier") ||
		strings.HasSuffix(nodeType, "name")
}

func isCallContext(parentType string) bool {
	return strings.Contains(parentType, "call")
}

func isFunctionContext(parentType, grandType string) bool {
	for _, t := range []string{parentType, grandType} {
		if strings.Contains(t, "function") || strings.Contains(t, "method") {
			return true
		}
	}
	return false
}

func isTypeContext(parentType, grandType string) bool {
	for _, t := range []string{parentType, grandType} {
		if strings.Contains(t, "type") || strings.Contains(t, "class") ||
			strings.Contains(t, "struct") || strings.Contains(t, "interface") ||
			strings.Contains(t, "trait") || strings.Contains(t, "enum") {
			return true
		}
	}
	return false
}

// isLikelyConstant reports whether a lexeme looks like an UPPER_SNAKE
// constant name.
func isLikelyConstant(s string) bool {
	if len(s) < 2 {
		return false
	}
	hasLetter := false
	for _, r := range s {
		switch {
		case r == '_':
		case unicode.IsDigit(r):
		case unicode.IsLetter(r):
			hasLetter = true
			if unicode.IsLower(r) {
				return false
			}
		default:
			return false
		}
	}
	return hasLetter
}

func looksLikeOperator(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch r {
		case '+', '-', '*', '/', '%', '=', '!', '<', '>', '&', '|', '^', '~', ':', ';', ',', '.', '?', '@':
		default:
			return false
		}
	}
	return true
}

var controlKeywords = map[string]bool{
	"if": true, "else": true, "elif": true, "for": true, "while": true,
	"loop": true, "switch": true, "match": true, "case": true, "default": true,
	"break": true, "continue": true, "return": true, "goto": true,
	"fallthrough": true, "select": true, "defer": true, "go": true,
	"try": true, "catch": true, "finally": true, "except": true,
	"raise": true, "throw": true, "yield": true, "await": true, "do": true,
}

var declarationKeywords = map[string]bool{
	"func": true, "fn": true, "function": true, "def": true, "var": true,
	"let": true, "const": true, "type": true, "struct": true, "enum": true,
	"interface": true, "trait": true, "impl": true, "class": true,
	"mut": true, "static": true, "lambda": true,
}

var keywords = map[string]bool{
	"package": true, "import": true, "export": true, "from": true,
	"use": true, "mod": true, "pub": true, "as": true, "in": true,
	"range": true, "map": true, "chan": true, "async": true, "new": true,
	"delete": true, "typeof": true, "instanceof": true, "extends": true,
	"implements": true, "with": true, "pass": true, "global": true,
	"nonlocal": true, "and": true, "or": true, "not": true, "is": true,
	"where": true, "ref": true, "unsafe": true, "extern": true,
	"local": true, "then": true, "end": true,
}
