package highlight

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/dshills/limn/grammar"
	"github.com/dshills/limn/internal/textutil"
	"github.com/dshills/limn/logging"
	"github.com/dshills/limn/token"
)

// Document is the per-document highlighting handle. All operations are
// serialized by the document mutex; callers keep edits ordered.
type Document struct {
	id     uuid.UUID
	path   string
	loader *grammar.Loader
	log    *logging.Logger

	mu       sync.Mutex
	closed   bool
	langID   string
	content  []byte
	gram     grammar.Grammar
	tree     grammar.Tree
	lines    []token.LineTokens
	contexts []string
	version  uint64
	lastErr  error
}

func newDocument(langID, path string, content []byte, loader *grammar.Loader, log *logging.Logger) *Document {
	if log == nil {
		log = logging.NullLogger
	}
	return &Document{
		id:      uuid.New(),
		path:    path,
		langID:  langID,
		content: append([]byte(nil), content...),
		loader:  loader,
		log:     log.WithComponent("document"),
	}
}

// ID returns the document id.
func (d *Document) ID() uuid.UUID { return d.id }

// Path returns the file path the document was opened with, if any.
func (d *Document) Path() string { return d.path }

// Language returns the current language id.
func (d *Document) Language() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.langID
}

// Version returns the current document version. The version increments
// on every state change.
func (d *Document) Version() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.version
}

// LineCount returns the number of lines in the current content.
func (d *Document) LineCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return textutil.CountLines(d.content)
}

// LastError returns the cause of the most recent plain-text
// degradation, or nil when the document is highlighted normally.
func (d *Document) LastError() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastErr
}

// LineTokens returns copies of the current token sets for lines
// [startLine, endLine], clipped to the document. Lines with no
// highlight state yet return empty sets.
func (d *Document) LineTokens(startLine, endLine int) []token.LineTokens {
	d.mu.Lock()
	defer d.mu.Unlock()

	count := textutil.CountLines(d.content)
	if startLine < 0 {
		startLine = 0
	}
	if endLine >= count {
		endLine = count - 1
	}
	if startLine > endLine {
		return nil
	}
	out := make([]token.LineTokens, endLine-startLine+1)
	for i := range out {
		if line := startLine + i; line < len(d.lines) {
			out[i] = d.lines[line].Clone()
		}
	}
	return out
}

// Highlight performs a full tokenization of the current content,
// discarding any prior highlight state. Load and parse failures degrade
// the document to plain text and are reported through LastError, not
// the return value.
func (d *Document) Highlight(ctx context.Context) (*Result, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil, ErrDocumentClosed
	}
	return d.highlightLocked(ctx)
}

func (d *Document) highlightLocked(ctx context.Context) (*Result, error) {
	if d.gram == nil {
		g, err := d.loader.Load(ctx, d.langID)
		if err != nil {
			return d.degradeLocked(err), nil
		}
		d.gram = g
	}

	tree, err := d.gram.Parse(ctx, d.content)
	if err != nil {
		return d.degradeLocked(err), nil
	}

	count := textutil.CountLines(d.content)
	if tree.LineCount() != count {
		tree.Close()
		err := fmt.Errorf("%w: tree has %d lines, content has %d", ErrLineCountMismatch, tree.LineCount(), count)
		d.log.Error("document %s: %v", d.id, err)
		return nil, err
	}

	d.installLocked(tree, count)
	d.lastErr = nil
	d.version++
	return &Result{
		DocumentVersion: d.version,
		StartLine:       0,
		EndLine:         count - 1,
		Lines:           cloneLines(d.lines),
		Full:            true,
	}, nil
}

// installLocked replaces the retained tree and rebuilds the full token
// table from it. The tree's line count has already been validated.
func (d *Document) installLocked(tree grammar.Tree, count int) {
	if d.tree != nil {
		d.tree.Close()
	}
	d.tree = tree
	d.lines = tree.LineTokens(0, count-1)
	d.contexts = contextsFor(tree, 0, count-1)
}

// degradeLocked drops the document to plain text: every line gets an
// empty token set and cause is retained for LastError. The next
// Highlight or Update retries the load.
func (d *Document) degradeLocked(cause error) *Result {
	d.log.Warn("document %s: falling back to plain text: %v", d.id, cause)
	if d.tree != nil {
		d.tree.Close()
		d.tree = nil
	}
	d.gram = nil
	d.lastErr = cause

	count := textutil.CountLines(d.content)
	d.lines = make([]token.LineTokens, count)
	d.contexts = make([]string, count)
	d.version++
	return &Result{
		DocumentVersion: d.version,
		StartLine:       0,
		EndLine:         count - 1,
		Lines:           cloneLines(d.lines),
		Full:            true,
	}
}

// Update applies an edit. Lines [startLine, endLine] of newContent
// changed (inclusive, 0-indexed); newContent is the entire document
// after the edit. The returned result covers the recomputed span, which
// may be wider than the edit when its effect reaches further.
func (d *Document) Update(ctx context.Context, startLine, endLine int, newContent []byte) (*Result, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil, ErrDocumentClosed
	}
	return d.updateLocked(ctx, startLine, endLine, newContent)
}

func (d *Document) updateLocked(ctx context.Context, startLine, endLine int, newContent []byte) (*Result, error) {
	newCount := textutil.CountLines(newContent)
	if startLine < 0 || endLine < startLine || endLine >= newCount {
		return nil, fmt.Errorf("%w: lines [%d, %d] in a %d-line document", ErrInvalidLineRange, startLine, endLine, newCount)
	}

	// No highlight state to update from: full path. This also retries
	// the grammar load after a degradation.
	if d.gram == nil || d.tree == nil || d.lines == nil {
		d.content = append([]byte(nil), newContent...)
		return d.highlightLocked(ctx)
	}

	content := append([]byte(nil), newContent...)
	if inc, ok := d.gram.(grammar.IncrementalGrammar); ok {
		return d.updateIncrementalLocked(ctx, inc, startLine, endLine, content, newCount)
	}
	return d.updateFullDiffLocked(ctx, startLine, endLine, content, newCount)
}

// updateIncrementalLocked reparses incrementally and widens the
// recompute span until token output stabilizes against the previous
// state.
func (d *Document) updateIncrementalLocked(ctx context.Context, inc grammar.IncrementalGrammar, startLine, endLine int, content []byte, newCount int) (*Result, error) {
	oldLines := d.lines
	oldCtxs := d.contexts
	oldCount := len(oldLines)
	delta := newCount - oldCount

	edit := deriveEdit(d.content, content)
	tree, err := inc.Reparse(ctx, d.tree, edit, content)
	if err != nil {
		// A failed reparse invalidates the retained tree; try a full
		// parse before degrading.
		d.tree.Close()
		d.tree = nil
		tree, err = d.gram.Parse(ctx, content)
		if err != nil {
			d.content = content
			return d.degradeLocked(err), nil
		}
	}
	if tree.LineCount() != newCount {
		tree.Close()
		err := fmt.Errorf("%w: tree has %d lines, content has %d", ErrLineCountMismatch, tree.LineCount(), newCount)
		d.log.Error("document %s: %v", d.id, err)
		return nil, err
	}

	// Lines before the edit are unshifted; lines after it map back to
	// the old state through the line delta.
	first := min(startLine, oldCount)
	last := endLine
	newLines := tree.LineTokens(first, last)
	newCtxs := contextsFor(tree, first, last)

	for first > 0 {
		probe := tree.LineTokens(first-1, first-1)[0]
		pctx := tree.ContextAt(first - 1)
		if probe.Equal(oldLines[first-1]) && pctx == oldCtxs[first-1] {
			break
		}
		first--
		newLines = append([]token.LineTokens{probe}, newLines...)
		newCtxs = append([]string{pctx}, newCtxs...)
	}

	for last+1 < newCount {
		line := last + 1
		probe := tree.LineTokens(line, line)[0]
		pctx := tree.ContextAt(line)
		oldIdx := line - delta
		if oldIdx >= 0 && oldIdx < oldCount && probe.Equal(oldLines[oldIdx]) && pctx == oldCtxs[oldIdx] {
			break
		}
		last = line
		newLines = append(newLines, probe)
		newCtxs = append(newCtxs, pctx)
	}

	// Stitch: untouched prefix, recomputed span, shifted untouched
	// suffix.
	stitchedLines := make([]token.LineTokens, 0, newCount)
	stitchedCtxs := make([]string, 0, newCount)
	stitchedLines = append(stitchedLines, oldLines[:first]...)
	stitchedCtxs = append(stitchedCtxs, oldCtxs[:first]...)
	stitchedLines = append(stitchedLines, newLines...)
	stitchedCtxs = append(stitchedCtxs, newCtxs...)
	if tail := last + 1 - delta; tail >= 0 && tail < oldCount {
		stitchedLines = append(stitchedLines, oldLines[tail:]...)
		stitchedCtxs = append(stitchedCtxs, oldCtxs[tail:]...)
	}

	if len(stitchedLines) != newCount {
		// The caller-declared span disagrees with the actual content
		// shape; rebuild the whole table from the fresh tree.
		d.log.Warn("document %s: stitched %d lines for a %d-line document, rebuilding", d.id, len(stitchedLines), newCount)
		d.content = content
		d.installLocked(tree, newCount)
		d.lastErr = nil
		d.version++
		return &Result{
			DocumentVersion: d.version,
			StartLine:       0,
			EndLine:         newCount - 1,
			Lines:           cloneLines(d.lines),
			Full:            true,
		}, nil
	}

	d.content = content
	if d.tree != nil {
		d.tree.Close()
	}
	d.tree = tree
	d.lines = stitchedLines
	d.contexts = stitchedCtxs
	d.lastErr = nil
	d.version++
	return &Result{
		DocumentVersion: d.version,
		StartLine:       first,
		EndLine:         last,
		Lines:           cloneLines(newLines),
		Full:            false,
	}, nil
}

// updateFullDiffLocked retokenizes the whole document with a
// non-incremental grammar and reports only the lines whose tokens
// differ from the previous state.
func (d *Document) updateFullDiffLocked(ctx context.Context, startLine, endLine int, content []byte, newCount int) (*Result, error) {
	oldLines := d.lines
	oldCount := len(oldLines)

	tree, err := d.gram.Parse(ctx, content)
	if err != nil {
		d.content = content
		return d.degradeLocked(err), nil
	}
	if tree.LineCount() != newCount {
		tree.Close()
		err := fmt.Errorf("%w: tree has %d lines, content has %d", ErrLineCountMismatch, tree.LineCount(), newCount)
		d.log.Error("document %s: %v", d.id, err)
		return nil, err
	}

	freshLines := tree.LineTokens(0, newCount-1)

	firstDiff := 0
	for firstDiff < newCount && firstDiff < oldCount && freshLines[firstDiff].Equal(oldLines[firstDiff]) {
		firstDiff++
	}

	d.content = content
	d.installLocked(tree, newCount)
	d.lastErr = nil
	d.version++

	if firstDiff == newCount && oldCount == newCount {
		// Token output is unchanged; report the caller's span so the
		// renderer still has fresh copies of the lines it asked about.
		end := min(endLine, newCount-1)
		return &Result{
			DocumentVersion: d.version,
			StartLine:       startLine,
			EndLine:         end,
			Lines:           cloneLines(d.lines[startLine : end+1]),
			Full:            false,
		}, nil
	}

	suffix := 0
	for suffix < newCount-firstDiff && suffix < oldCount-firstDiff &&
		freshLines[newCount-1-suffix].Equal(oldLines[oldCount-1-suffix]) {
		suffix++
	}
	lastDiff := newCount - 1 - suffix
	if lastDiff < firstDiff {
		lastDiff = firstDiff
	}

	return &Result{
		DocumentVersion: d.version,
		StartLine:       firstDiff,
		EndLine:         lastDiff,
		Lines:           cloneLines(d.lines[firstDiff : lastDiff+1]),
		Full:            false,
	}, nil
}

// SetLanguage switches the document's language and clears all highlight
// state. No reparse happens until the next Highlight or Update, which
// lazily loads the new grammar.
func (d *Document) SetLanguage(id string) error {
	if id == "" {
		return fmt.Errorf("%w: empty language id", grammar.ErrUnsupportedLanguage)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrDocumentClosed
	}
	if id == d.langID {
		return nil
	}

	d.langID = id
	d.gram = nil
	if d.tree != nil {
		d.tree.Close()
		d.tree = nil
	}
	d.lines = nil
	d.contexts = nil
	d.lastErr = nil
	d.version++
	return nil
}

// Reload replaces the document content after an external change,
// deriving the changed span by diffing the old and new snapshots. It
// returns nil when the content is unchanged.
func (d *Document) Reload(ctx context.Context, newContent []byte) (*Result, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil, ErrDocumentClosed
	}

	if d.tree == nil || d.lines == nil {
		d.content = append([]byte(nil), newContent...)
		return d.highlightLocked(ctx)
	}

	first, last, changed := changedLineSpan(d.content, newContent)
	if !changed {
		return nil, nil
	}
	return d.updateLocked(ctx, first, last, newContent)
}

// Close releases the document's resources. Close is idempotent; every
// other operation fails with ErrDocumentClosed afterwards.
func (d *Document) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.closed = true
	if d.tree != nil {
		d.tree.Close()
		d.tree = nil
	}
	d.gram = nil
	d.lines = nil
	d.contexts = nil
}

func contextsFor(tree grammar.Tree, startLine, endLine int) []string {
	ctxs := make([]string, endLine-startLine+1)
	for i := range ctxs {
		ctxs[i] = tree.ContextAt(startLine + i)
	}
	return ctxs
}
