package highlight

import "testing"

func TestDeriveEdit(t *testing.T) {
	cases := []struct {
		name              string
		old, updated      string
		start, oldE, newE uint32
	}{
		{"replace middle", "abc def ghi", "abc XY ghi", 4, 7, 6},
		{"insert at end", "abc", "abcdef", 3, 3, 6},
		{"delete at start", "abcdef", "def", 0, 3, 0},
		{"identical", "abc", "abc", 3, 3, 3},
		{"newline insert", "a\nb", "a\nx\nb", 2, 2, 4},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			edit := deriveEdit([]byte(tc.old), []byte(tc.updated))
			if edit.StartByte != tc.start || edit.OldEndByte != tc.oldE || edit.NewEndByte != tc.newE {
				t.Errorf("edit = {%d %d %d}, want {%d %d %d}",
					edit.StartByte, edit.OldEndByte, edit.NewEndByte, tc.start, tc.oldE, tc.newE)
			}
			if edit.StartByte > edit.OldEndByte || edit.StartByte > edit.NewEndByte {
				t.Error("Should keep the start before both ends")
			}
		})
	}
}

func TestDeriveEditPoints(t *testing.T) {
	old := []byte("line one\nline two\nline three")
	updated := []byte("line one\nline 2\nline three")

	edit := deriveEdit(old, updated)
	if edit.StartPoint.Row != 1 {
		t.Errorf("StartPoint.Row = %d, want 1", edit.StartPoint.Row)
	}
	if edit.OldEndPoint.Row != 1 || edit.NewEndPoint.Row != 1 {
		t.Errorf("end rows = %d, %d, want 1, 1", edit.OldEndPoint.Row, edit.NewEndPoint.Row)
	}
}

func TestChangedLineSpan(t *testing.T) {
	cases := []struct {
		name         string
		old, updated string
		first, last  int
		changed      bool
	}{
		{"no change", "a\nb\nc", "a\nb\nc", 0, 0, false},
		{"middle line", "a\nb\nc", "a\nX\nc", 1, 1, true},
		{"first line", "a\nb\nc", "X\nb\nc", 0, 0, true},
		{"last line", "a\nb\nc", "a\nb\nX", 2, 2, true},
		{"insert line", "a\nc", "a\nb\nc", 1, 1, true},
		{"delete line", "a\nb\nc", "a\nc", 1, 1, true},
		{"replace all", "a\nb", "x\ny\nz", 0, 2, true},
		{"append line", "a", "a\nb", 1, 1, true},
		{"delete last line", "a\nb", "a", 0, 0, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			first, last, changed := changedLineSpan([]byte(tc.old), []byte(tc.updated))
			if changed != tc.changed {
				t.Fatalf("changed = %v, want %v", changed, tc.changed)
			}
			if !changed {
				return
			}
			if first > tc.first || last < tc.last {
				t.Errorf("span = [%d, %d], should cover [%d, %d]", first, last, tc.first, tc.last)
			}
		})
	}
}
