// Package textutil provides the byte/line arithmetic shared by the
// grammar adapters and the highlight engine.
package textutil

import "bytes"

// CountLines returns the number of lines in content. The empty document
// has one line; a trailing newline implies a final empty line.
func CountLines(content []byte) int {
	return bytes.Count(content, []byte{'\n'}) + 1
}

// SplitLines splits content into lines without their newline bytes.
// The result always has CountLines(content) entries.
func SplitLines(content []byte) [][]byte {
	return bytes.Split(content, []byte{'\n'})
}

// LineStarts returns the byte offset of the start of every line.
// The slice has CountLines(content) entries and always begins with 0.
func LineStarts(content []byte) []int {
	starts := make([]int, 1, CountLines(content))
	starts[0] = 0
	for i, b := range content {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// LineAt returns the 0-indexed line containing the byte offset.
// Offsets past the end of content map to the last line.
func LineAt(content []byte, offset int) int {
	if offset <= 0 {
		return 0
	}
	if offset > len(content) {
		offset = len(content)
	}
	return bytes.Count(content[:offset], []byte{'\n'})
}

// PointAt returns the 0-indexed row and byte column of an offset.
func PointAt(content []byte, offset int) (row, col int) {
	if offset <= 0 {
		return 0, 0
	}
	if offset > len(content) {
		offset = len(content)
	}
	nl := bytes.LastIndexByte(content[:offset], '\n')
	if nl < 0 {
		return 0, offset
	}
	return bytes.Count(content[:offset], []byte{'\n'}), offset - nl - 1
}

// CommonPrefix returns the length of the longest common byte prefix.
func CommonPrefix(a, b []byte) int {
	n := min(len(a), len(b))
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return i
}

// CommonSuffix returns the length of the longest common byte suffix,
// bounded so prefix+suffix never overlap in either input.
func CommonSuffix(a, b []byte, prefix int) int {
	n := min(len(a), len(b)) - prefix
	i := 0
	for i < n && a[len(a)-1-i] == b[len(b)-1-i] {
		i++
	}
	return i
}
