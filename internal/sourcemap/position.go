package sourcemap

import "unicode/utf8"

// LineIndex provides line lookups over an original source text, as found in
// a source map's "sourcesContent". Line start positions are computed once.
type LineIndex struct {
	source     string
	lineStarts []int // byte offset of each line start
}

// NewLineIndex creates a LineIndex for the given source.
func NewLineIndex(source string) *LineIndex {
	idx := &LineIndex{
		source:     source,
		lineStarts: []int{0},
	}

	for i := 0; i < len(source); i++ {
		c := source[i]
		if c == '\n' {
			// LF - next line starts after this (unless at end of source)
			if i+1 < len(source) {
				idx.lineStarts = append(idx.lineStarts, i+1)
			}
		} else if c == '\r' {
			if i+1 < len(source) && source[i+1] == '\n' {
				// CRLF
				if i+2 < len(source) {
					idx.lineStarts = append(idx.lineStarts, i+2)
				}
				i++
			} else if i+1 < len(source) {
				idx.lineStarts = append(idx.lineStarts, i+1)
			}
		}
	}

	return idx
}

// LineCount returns the number of lines in the source.
func (idx *LineIndex) LineCount() int {
	return len(idx.lineStarts)
}

// Line returns the text of a 1-indexed line without its terminator.
func (idx *LineIndex) Line(line int) (string, bool) {
	if line < 1 || line > len(idx.lineStarts) {
		return "", false
	}
	start := idx.lineStarts[line-1]
	end := len(idx.source)
	if line < len(idx.lineStarts) {
		end = idx.lineStarts[line]
	}
	text := idx.source[start:end]
	for len(text) > 0 && (text[len(text)-1] == '\n' || text[len(text)-1] == '\r') {
		text = text[:len(text)-1]
	}
	return text, true
}

// utf16ColumnToByteOffset converts a column in UTF-16 code units, the unit
// source maps count columns in, to a byte offset within s. Columns past the
// end clamp to len(s).
func utf16ColumnToByteOffset(s string, col int) int {
	units := 0
	for i := 0; i < len(s); {
		if units >= col {
			return i
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		if r >= 0x10000 {
			// Supplementary plane - surrogate pair
			units += 2
		} else {
			units++
		}
		i += size
	}
	return len(s)
}

// ExcerptLine is one numbered line of an Excerpt.
type ExcerptLine struct {
	Number int
	Text   string
}

// Excerpt is a window of original source around a position.
type Excerpt struct {
	Lines []ExcerptLine

	// Line is the 1-indexed line the position is on.
	Line int
	// Caret is the position's rune offset within that line's text.
	Caret int
}

// NewExcerpt returns the lines of content around (line, column), with
// context lines on each side. line is 1-indexed and column is a 0-indexed
// UTF-16 column.
func NewExcerpt(content string, line, column, context int) (Excerpt, bool) {
	idx := NewLineIndex(content)
	text, ok := idx.Line(line)
	if !ok {
		return Excerpt{}, false
	}
	if context < 0 {
		context = 0
	}

	ex := Excerpt{
		Line:  line,
		Caret: utf8.RuneCountInString(text[:utf16ColumnToByteOffset(text, column)]),
	}
	first := line - context
	if first < 1 {
		first = 1
	}
	last := line + context
	if last > idx.LineCount() {
		last = idx.LineCount()
	}
	for n := first; n <= last; n++ {
		t, _ := idx.Line(n)
		ex.Lines = append(ex.Lines, ExcerptLine{Number: n, Text: t})
	}
	return ex, true
}
