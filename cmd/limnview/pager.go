package main

import (
	"context"
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/limn/highlight"
	"github.com/dshills/limn/internal/textutil"
	"github.com/dshills/limn/token"
)

// pager is a read-only viewer over one highlighted document.
type pager struct {
	screen tcell.Screen
	doc    *highlight.Document
	theme  *Theme
	path   string

	lines [][]byte
	top   int
}

func newPager(doc *highlight.Document, content []byte, theme *Theme, path string) *pager {
	return &pager{
		doc:   doc,
		theme: theme,
		path:  path,
		lines: textutil.SplitLines(content),
	}
}

func (p *pager) run() error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("open screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	p.screen = screen
	defer screen.Fini()

	p.highlightAsync()
	p.draw()

	for {
		switch ev := screen.PollEvent().(type) {
		case *tcell.EventResize:
			screen.Sync()
			p.draw()
		case *tcell.EventInterrupt:
			// Async highlight finished; repaint with fresh tokens.
			p.draw()
		case *tcell.EventKey:
			if !p.handleKey(ev) {
				return nil
			}
			p.draw()
		}
	}
}

// highlightAsync runs the initial full highlight off the event loop and
// wakes the loop when tokens arrive. A result for an older document
// version is discarded.
func (p *pager) highlightAsync() {
	version := p.doc.Version()
	go func() {
		res, err := p.doc.Highlight(context.Background())
		if err != nil || res == nil {
			return
		}
		if res.DocumentVersion <= version {
			return
		}
		_ = p.screen.PostEvent(tcell.NewEventInterrupt(nil))
	}()
}

func (p *pager) handleKey(ev *tcell.EventKey) bool {
	_, height := p.screen.Size()
	page := height - 1

	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyUp:
		p.scroll(-1)
	case tcell.KeyDown:
		p.scroll(1)
	case tcell.KeyPgUp:
		p.scroll(-page)
	case tcell.KeyPgDn:
		p.scroll(page)
	case tcell.KeyHome:
		p.top = 0
	case tcell.KeyEnd:
		p.scroll(len(p.lines))
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return false
		case 'j':
			p.scroll(1)
		case 'k':
			p.scroll(-1)
		case 'g':
			p.top = 0
		case 'G':
			p.scroll(len(p.lines))
		case 'r':
			p.reload()
		}
	}
	return true
}

func (p *pager) scroll(delta int) {
	_, height := p.screen.Size()
	maxTop := len(p.lines) - (height - 1)
	if maxTop < 0 {
		maxTop = 0
	}
	p.top += delta
	if p.top > maxTop {
		p.top = maxTop
	}
	if p.top < 0 {
		p.top = 0
	}
}

// reload re-reads the file and feeds the change through the engine's
// external-change path.
func (p *pager) reload() {
	content, err := os.ReadFile(p.path)
	if err != nil {
		return
	}
	if _, err := p.doc.Reload(context.Background(), content); err != nil {
		return
	}
	p.lines = textutil.SplitLines(content)
	p.scroll(0)
}

func (p *pager) draw() {
	p.screen.Clear()
	width, height := p.screen.Size()
	view := height - 1

	last := p.top + view - 1
	if last >= len(p.lines) {
		last = len(p.lines) - 1
	}
	var toks []token.LineTokens
	if last >= p.top {
		toks = p.doc.LineTokens(p.top, last)
	}

	for row := 0; row < view && p.top+row < len(p.lines); row++ {
		line := p.lines[p.top+row]
		var lt token.LineTokens
		if row < len(toks) {
			lt = toks[row]
		}

		col := 0
		off := 0
		for _, r := range string(line) {
			if col >= width {
				break
			}
			style := p.theme.def
			if tok, ok := lt.At(uint32(off)); ok {
				style = p.theme.Style(tok.Scope)
			}
			if r == '\t' {
				for i := 0; i < 4 && col < width; i++ {
					p.screen.SetContent(col, row, ' ', nil, style)
					col++
				}
			} else {
				p.screen.SetContent(col, row, r, nil, style)
				col++
			}
			off += utf8.RuneLen(r)
		}
	}

	p.drawStatus(width, height-1)
	p.screen.Show()
}

func (p *pager) drawStatus(width, row int) {
	status := fmt.Sprintf(" %s  [%s]  line %d/%d  q:quit r:reload",
		p.path, p.doc.Language(), p.top+1, len(p.lines))
	if err := p.doc.LastError(); err != nil {
		status += fmt.Sprintf("  (plain text: %v)", err)
	}

	style := tcell.StyleDefault.Reverse(true)
	col := 0
	for _, r := range status {
		if col >= width {
			break
		}
		p.screen.SetContent(col, row, r, nil, style)
		col++
	}
	for ; col < width; col++ {
		p.screen.SetContent(col, row, ' ', nil, style)
	}
}
