package highlight

import (
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/dshills/limn/grammar"
	"github.com/dshills/limn/internal/textutil"
)

// deriveEdit builds the single contiguous edit covering the difference
// between two document snapshots, from a common prefix/suffix scan.
// Multi-region edits collapse into one covering replacement, which is
// always safe to hand to an incremental reparse.
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

// changedLineSpan computes the changed line span between two snapshots
// in the coordinates of the new content. Used by Reload, where the
// caller has no edit information.
func changedLineSpan(old, updated []byte) (first, last int, changed bool) {
	dmp := diffmatchpatch.New()
	a, b, _ := dmp.DiffLinesToChars(string(old), string(updated))
	diffs := dmp.DiffMain(a, b, false)

	// Each rune in the char-encoded diff texts stands for one line.
	first, last = -1, -1
	pos := 0
	for _, df := range diffs {
		n := utf8.RuneCountInString(df.Text)
		switch df.Type {
		case diffmatchpatch.DiffEqual:
			pos += n
		case diffmatchpatch.DiffInsert:
			if first < 0 {
				first = pos
			}
			last = pos + n - 1
			pos += n
		case diffmatchpatch.DiffDelete:
			// A deletion affects the line now sitting at the deletion
			// point.
			if first < 0 {
				first = pos
			}
			if last < pos {
				last = pos
			}
		}
	}
	if first < 0 {
		return 0, 0, false
	}

	count := textutil.CountLines(updated)
	if first >= count {
		first = count - 1
	}
	if last >= count {
		last = count - 1
	}
	if last < first {
		last = first
	}
	return first, last, true
}
