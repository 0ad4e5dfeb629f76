package main

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/limn/token"
)

func TestThemeFallback(t *testing.T) {
	theme := defaultTheme()

	// "keyword.control" has no direct entry and falls back to "keyword".
	if theme.Style(token.ScopeKeywordControl) != theme.Style(token.ScopeKeyword) {
		t.Error("Should fall back to the parent scope style")
	}
	if theme.Style("nonsense.scope") != theme.def {
		t.Error("Unknown scopes should use the default style")
	}
}

func TestParseTheme(t *testing.T) {
	data := []byte(`{
		"name": "test",
		"tokenColors": [
			{
				"scope": "comment",
				"settings": {"foreground": "#00ff00", "fontStyle": "italic"}
			},
			{
				"scope": ["keyword", "keyword.control"],
				"settings": {"foreground": "#ff0000", "fontStyle": "bold"}
			},
			{
				"scope": "string, string.quoted",
				"settings": {"foreground": "#0000ff"}
			},
			{
				"scope": "number",
				"settings": {}
			}
		]
	}`)

	theme, err := parseTheme(data)
	if err != nil {
		t.Fatalf("parseTheme failed: %v", err)
	}

	wantComment := tcell.StyleDefault.Foreground(tcell.GetColor("#00ff00")).Italic(true)
	if theme.Style(token.ScopeComment) != wantComment {
		t.Error("comment style not applied")
	}

	wantKeyword := tcell.StyleDefault.Foreground(tcell.GetColor("#ff0000")).Bold(true)
	if theme.Style(token.ScopeKeyword) != wantKeyword || theme.Style(token.ScopeKeywordControl) != wantKeyword {
		t.Error("array scope selector not applied to both scopes")
	}

	wantString := tcell.StyleDefault.Foreground(tcell.GetColor("#0000ff"))
	if theme.Style(token.ScopeString) != wantString || theme.Style(token.ScopeStringQuoted) != wantString {
		t.Error("comma separated scope selector not applied")
	}

	// The empty settings entry leaves the default number style intact.
	if theme.Style(token.ScopeNumber) != defaultTheme().Style(token.ScopeNumber) {
		t.Error("entry without settings should not override the default")
	}
}

func TestParseThemeInvalid(t *testing.T) {
	if _, err := parseTheme([]byte("not json")); err == nil {
		t.Error("Should reject invalid JSON")
	}
}
