package treesitter

import (
	"context"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/bash"
	"github.com/smacker/go-tree-sitter/c"
	"github.com/smacker/go-tree-sitter/cpp"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/rust"
	"github.com/smacker/go-tree-sitter/toml"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
	"github.com/smacker/go-tree-sitter/yaml"

	"github.com/dshills/limn/grammar"
	"github.com/dshills/limn/token"
)

// langSpec describes one built-in tree-sitter language.
type langSpec struct {
	id        string
	name      string
	exts      []string
	filenames []string
	shebangs  []string
	language  func() *sitter.Language
	scopes    ScopeMap
}

var builtins = []langSpec{
	{
		id: "bash", name: "Bash",
		exts:      []string{".sh", ".bash", ".zsh"},
		filenames: []string{".bashrc", ".zshrc", ".profile"},
		shebangs:  []string{"bash", "zsh", "sh"},
		language:  bash.GetLanguage,
		scopes: ScopeMap{
			"comment":          token.ScopeCommentLine,
			"string":           token.ScopeStringQuoted,
			"raw_string":       token.ScopeStringQuoted,
			"variable_name":    token.ScopeVariable,
			"command_name":     token.ScopeFunctionCall,
			"file_descriptor":  token.ScopeNumber,
			"special_variable": token.ScopeVariable,
		},
	},
	{
		id: "c", name: "C",
		exts:     []string{".c", ".h"},
		language: c.GetLanguage,
		scopes: ScopeMap{
			"comment":        token.ScopeComment,
			"string_literal": token.ScopeStringQuoted,
			"char_literal":   token.ScopeStringQuoted,
			"preproc_arg":    token.ScopeNone,
			"#include":       token.ScopeKeyword,
			"#define":        token.ScopeKeyword,
			"#ifdef":         token.ScopeKeyword,
			"#ifndef":        token.ScopeKeyword,
			"#endif":         token.ScopeKeyword,
			"system_lib_string": token.ScopeString,
		},
	},
	{
		id: "cpp", name: "C++",
		exts:     []string{".cpp", ".cc", ".cxx", ".hpp", ".hh"},
		language: cpp.GetLanguage,
		scopes: ScopeMap{
			"comment":            token.ScopeComment,
			"string_literal":     token.ScopeStringQuoted,
			"char_literal":       token.ScopeStringQuoted,
			"raw_string_literal": token.ScopeStringQuoted,
			"namespace_identifier": token.ScopeType,
			"auto":               token.ScopeTypeBuiltin,
		},
	},
	{
		id: "go", name: "Go",
		exts:      []string{".go"},
		filenames: []string{"go.mod"},
		language:  golang.GetLanguage,
		scopes: ScopeMap{
			"comment":                     token.ScopeComment,
			"interpreted_string_literal":  token.ScopeStringQuoted,
			"raw_string_literal":          token.ScopeStringQuoted,
			"rune_literal":                token.ScopeStringQuoted,
			"int_literal":                 token.ScopeNumber,
			"float_literal":               token.ScopeNumber,
			"imaginary_literal":           token.ScopeNumber,
			"package_identifier":          token.ScopeVariable,
			"label_name":                  token.ScopeLabel,
			"blank_identifier":            token.ScopeVariable,
		},
	},
	{
		id: "javascript", name: "JavaScript",
		exts:     []string{".js", ".jsx", ".mjs", ".cjs"},
		shebangs: []string{"node"},
		language: javascript.GetLanguage,
		scopes: ScopeMap{
			"comment":          token.ScopeComment,
			"string":           token.ScopeStringQuoted,
			"template_string":  token.ScopeStringQuoted,
			"regex":            token.ScopeString,
			"shorthand_property_identifier": token.ScopeProperty,
		},
	},
	{
		id: "python", name: "Python",
		exts:     []string{".py"},
		shebangs: []string{"python"},
		language: python.GetLanguage,
		scopes: ScopeMap{
			"comment":             token.ScopeCommentLine,
			"string":              token.ScopeStringQuoted,
			"string_content":      token.ScopeStringQuoted,
			"string_start":        token.ScopeStringQuoted,
			"string_end":          token.ScopeStringQuoted,
			"decorator":           token.ScopeFunction,
			"ellipsis":            token.ScopeConstantLanguage,
		},
	},
	{
		id: "rust", name: "Rust",
		exts:     []string{".rs"},
		language: rust.GetLanguage,
		scopes: ScopeMap{
			"line_comment":    token.ScopeCommentLine,
			"block_comment":   token.ScopeCommentBlock,
			"string_literal":  token.ScopeStringQuoted,
			"char_literal":    token.ScopeStringQuoted,
			"raw_string_literal": token.ScopeStringQuoted,
			"integer_literal": token.ScopeNumber,
			"float_literal":   token.ScopeNumber,
			"lifetime":        token.ScopeLabel,
			"self":            token.ScopeVariable,
		},
	},
	{
		id: "toml", name: "TOML",
		exts:      []string{".toml"},
		filenames: []string{"Cargo.toml"},
		language:  toml.GetLanguage,
		scopes: ScopeMap{
			"comment":        token.ScopeCommentLine,
			"string":         token.ScopeStringQuoted,
			"bare_key":       token.ScopeProperty,
			"quoted_key":     token.ScopeProperty,
			"integer":        token.ScopeNumber,
			"float":          token.ScopeNumber,
			"boolean":        token.ScopeConstantLanguage,
			"offset_date_time": token.ScopeNumber,
			"local_date":     token.ScopeNumber,
		},
	},
	{
		id: "typescript", name: "TypeScript",
		exts:     []string{".ts"},
		language: typescript.GetLanguage,
		scopes: ScopeMap{
			"comment":         token.ScopeComment,
			"string":          token.ScopeStringQuoted,
			"template_string": token.ScopeStringQuoted,
			"regex":           token.ScopeString,
		},
	},
	{
		id: "tsx", name: "TSX",
		exts:     []string{".tsx"},
		language: tsx.GetLanguage,
		scopes: ScopeMap{
			"comment":         token.ScopeComment,
			"string":          token.ScopeStringQuoted,
			"template_string": token.ScopeStringQuoted,
			"jsx_text":        token.ScopeNone,
		},
	},
	{
		id: "yaml", name: "YAML",
		exts:      []string{".yaml", ".yml"},
		filenames: []string{".yamllint"},
		language:  yaml.GetLanguage,
		scopes: ScopeMap{
			"comment":              token.ScopeCommentLine,
			"string_scalar":        token.ScopeString,
			"single_quote_scalar":  token.ScopeStringQuoted,
			"double_quote_scalar":  token.ScopeStringQuoted,
			"block_scalar":         token.ScopeString,
			"integer_scalar":       token.ScopeNumber,
			"float_scalar":         token.ScopeNumber,
			"boolean_scalar":       token.ScopeConstantLanguage,
			"null_scalar":          token.ScopeConstantLanguage,
			"anchor_name":          token.ScopeLabel,
			"alias_name":           token.ScopeLabel,
		},
	},
}

// Builtins returns registrations for every compiled-in tree-sitter
// language. Grammar construction is cheap; the factory exists so the
// loader only instantiates languages that are actually requested.
func Builtins() []grammar.Registration {
	regs := make([]grammar.Registration, 0, len(builtins))
	for _, spec := range builtins {
		spec := spec
		regs = append(regs, grammar.Registration{
			Descriptor: grammar.Descriptor{
				ID:         spec.id,
				Name:       spec.name,
				Extensions: spec.exts,
				Filenames:  spec.filenames,
				Shebangs:   spec.shebangs,
				Version:    "1",
				Source:     "tree-sitter",
			},
			Factory: func(ctx context.Context) (grammar.Grammar, error) {
				return New(spec.id, spec.language(), spec.scopes), nil
			},
		})
	}
	return regs
}
