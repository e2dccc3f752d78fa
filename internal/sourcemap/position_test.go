package sourcemap

import (
	"fmt"
	"strings"
	"testing"
)

// ============================================================================
// Line Index Tests
// ============================================================================

func TestLineIndexEmpty(t *testing.T) {
	idx := NewLineIndex("")
	if idx.LineCount() != 1 {
		t.Errorf("Empty source LineCount() = %d, want 1", idx.LineCount())
	}

	line, ok := idx.Line(1)
	if !ok || line != "" {
		t.Errorf("Empty source Line(1) = (%q, %v), want (\"\", true)", line, ok)
	}
}

func TestLineIndexNewlineStyles(t *testing.T) {
	tests := []struct {
		name      string
		source    string
		lineCount int
	}{
		{"unix_lf", "a\nb\nc", 3},
		{"windows_crlf", "a\r\nb\r\nc", 3},
		{"old_mac_cr", "a\rb\rc", 3},
		{"trailing_lf", "a\nb\n", 2},
		{"trailing_crlf", "a\r\nb\r\n", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx := NewLineIndex(tt.source)
			if idx.LineCount() != tt.lineCount {
				t.Errorf("LineCount() = %d, want %d", idx.LineCount(), tt.lineCount)
			}
			for n, want := range []string{"a", "b"} {
				got, ok := idx.Line(n + 1)
				if !ok || got != want {
					t.Errorf("Line(%d) = (%q, %v), want %q", n+1, got, ok, want)
				}
			}
		})
	}
}

func TestLineIndexLineOutOfRange(t *testing.T) {
	idx := NewLineIndex("one\ntwo")

	for _, line := range []int{-1, 0, 3, 100} {
		t.Run(fmt.Sprintf("line_%d", line), func(t *testing.T) {
			if text, ok := idx.Line(line); ok {
				t.Errorf("Line(%d) = %q, want not found", line, text)
			}
		})
	}
}

func TestLineIndexManyLines(t *testing.T) {
	var sb strings.Builder
	for i := 1; i <= 1000; i++ {
		fmt.Fprintf(&sb, "line %d\n", i)
	}
	idx := NewLineIndex(sb.String())

	if idx.LineCount() != 1000 {
		t.Fatalf("LineCount() = %d, want 1000", idx.LineCount())
	}
	for _, n := range []int{1, 2, 500, 999, 1000} {
		got, _ := idx.Line(n)
		if want := fmt.Sprintf("line %d", n); got != want {
			t.Errorf("Line(%d) = %q, want %q", n, got, want)
		}
	}
}

// ============================================================================
// UTF-16 Column Tests
// ============================================================================

func TestUTF16ColumnToByteOffset(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		col    int
		offset int
	}{
		{"ascii_start", "abc", 0, 0},
		{"ascii_middle", "abc", 2, 2},
		{"ascii_past_end", "abc", 10, 3},
		{"two_byte", "éa", 1, 2},         // é is 2 bytes, 1 unit
		{"three_byte", "中a", 1, 3},        // 中 is 3 bytes, 1 unit
		{"surrogate_pair", "😀a", 2, 4},    // 😀 is 4 bytes, 2 units
		{"after_emoji", "x😀y", 3, 5},      // x(1) + 😀(2)
		{"mixed", "aé中😀b", 5, 10},         // a + é + 中 + 😀
		{"invalid_utf8", "\xffab", 1, 1},   // invalid byte counts as one unit
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := utf16ColumnToByteOffset(tt.text, tt.col)
			if got != tt.offset {
				t.Errorf("utf16ColumnToByteOffset(%q, %d) = %d, want %d", tt.text, tt.col, got, tt.offset)
			}
		})
	}
}

// ============================================================================
// Excerpt Tests
// ============================================================================

func TestExcerptWithContext(t *testing.T) {
	content := "let a = 1;\nlet 😀b = 2;\nreturn;"

	ex, ok := NewExcerpt(content, 2, 6, 1)
	if !ok {
		t.Fatal("NewExcerpt returned not found")
	}
	if ex.Line != 2 {
		t.Errorf("Line = %d, want 2", ex.Line)
	}
	if ex.Caret != 5 {
		t.Errorf("Caret = %d, want 5", ex.Caret)
	}
	want := []ExcerptLine{{1, "let a = 1;"}, {2, "let 😀b = 2;"}, {3, "return;"}}
	if fmt.Sprint(ex.Lines) != fmt.Sprint(want) {
		t.Errorf("Lines = %v, want %v", ex.Lines, want)
	}
}

func TestExcerptClampsContext(t *testing.T) {
	ex, ok := NewExcerpt("a\nb", 1, 0, 5)
	if !ok {
		t.Fatal("NewExcerpt returned not found")
	}
	if len(ex.Lines) != 2 || ex.Lines[0].Number != 1 || ex.Lines[1].Number != 2 {
		t.Errorf("Lines = %v, want lines 1-2", ex.Lines)
	}

	ex, _ = NewExcerpt("a\nb", 2, 0, -1)
	if len(ex.Lines) != 1 || ex.Lines[0].Text != "b" {
		t.Errorf("negative context Lines = %v, want [b]", ex.Lines)
	}
}

func TestExcerptLineMissing(t *testing.T) {
	if _, ok := NewExcerpt("a\nb", 3, 0, 0); ok {
		t.Error("NewExcerpt past the last line should report not found")
	}
}

func BenchmarkNewLineIndex(b *testing.B) {
	source := strings.Repeat("const x = 1;\n", 10000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		NewLineIndex(source)
	}
}
