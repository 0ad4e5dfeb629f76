package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/tidwall/gjson"

	"github.com/dshills/limn/token"
)

// Theme maps token scopes to terminal styles. Lookup walks the scope
// hierarchy: "keyword.control" falls back to "keyword" before the
// default style.
type Theme struct {
	styles map[token.Scope]tcell.Style
	def    tcell.Style
}

// Style resolves the style for a scope.
func (t *Theme) Style(scope token.Scope) tcell.Style {
	for s := scope; s != token.ScopeNone; s = s.Parent() {
		if style, ok := t.styles[s]; ok {
			return style
		}
	}
	return t.def
}

func defaultTheme() *Theme {
	fg := func(color tcell.Color) tcell.Style {
		return tcell.StyleDefault.Foreground(color)
	}
	return &Theme{
		def: tcell.StyleDefault,
		styles: map[token.Scope]tcell.Style{
			token.ScopeComment:          fg(tcell.ColorGray).Italic(true),
			token.ScopeString:           fg(tcell.ColorGreen),
			token.ScopeStringEscape:     fg(tcell.ColorOlive),
			token.ScopeNumber:           fg(tcell.ColorAqua),
			token.ScopeKeyword:          fg(tcell.ColorFuchsia).Bold(true),
			token.ScopeOperator:         fg(tcell.ColorSilver),
			token.ScopePunctuation:      fg(tcell.ColorSilver),
			token.ScopeVariable:         tcell.StyleDefault,
			token.ScopeConstant:         fg(tcell.ColorAqua),
			token.ScopeConstantLanguage: fg(tcell.ColorAqua).Bold(true),
			token.ScopeFunction:         fg(tcell.ColorYellow),
			token.ScopeFunctionCall:     fg(tcell.ColorYellow),
			token.ScopeType:             fg(tcell.ColorTeal),
			token.ScopeProperty:         fg(tcell.ColorBlue),
			token.ScopeLabel:            fg(tcell.ColorOlive),
			token.ScopeInvalid:          fg(tcell.ColorRed),
		},
	}
}

// loadTheme reads a VS Code style theme JSON and overlays its
// tokenColors on the default theme. Only foreground and fontStyle are
// honored.
func loadTheme(path string) (*Theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read theme: %w", err)
	}
	return parseTheme(data)
}

func parseTheme(data []byte) (*Theme, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("theme is not valid JSON")
	}

	theme := defaultTheme()
	gjson.GetBytes(data, "tokenColors").ForEach(func(_, entry gjson.Result) bool {
		style, ok := entryStyle(entry)
		if !ok {
			return true
		}
		for _, scope := range entryScopes(entry) {
			theme.styles[token.Scope(scope)] = style
		}
		return true
	})
	return theme, nil
}

func entryStyle(entry gjson.Result) (tcell.Style, bool) {
	style := tcell.StyleDefault
	found := false

	if fg := entry.Get("settings.foreground").String(); fg != "" {
		style = style.Foreground(tcell.GetColor(fg))
		found = true
	}
	if fs := entry.Get("settings.fontStyle").String(); fs != "" {
		if strings.Contains(fs, "bold") {
			style = style.Bold(true)
		}
		if strings.Contains(fs, "italic") {
			style = style.Italic(true)
		}
		if strings.Contains(fs, "underline") {
			style = style.Underline(true)
		}
		found = true
	}
	return style, found
}

// entryScopes collects the scope selectors of one tokenColors entry,
// which may be a string, a comma separated string or an array.
func entryScopes(entry gjson.Result) []string {
	raw := entry.Get("scope")
	var scopes []string
	if raw.IsArray() {
		for _, s := range raw.Array() {
			scopes = append(scopes, strings.TrimSpace(s.String()))
		}
		return scopes
	}
	for _, s := range strings.Split(raw.String(), ",") {
		if s = strings.TrimSpace(s); s != "" {
			scopes = append(scopes, s)
		}
	}
	return scopes
}
