// Package test provides fixtures for source map tests: a reference encoder
// that turns absolute segments into a VLQ mappings stream, and a builder for
// complete source map documents.
package test

import (
	"sort"
	"strings"

	"github.com/HugoDaniel/smquery/internal/sourcemap"
	"gopkg.in/guregu/null.v3"
)

// Segment is an absolute mapping as a test expects to read it back.
// Lines are 1-indexed, columns 0-indexed.
type Segment struct {
	GeneratedLine   int
	GeneratedColumn int

	// Source is -1 for a generated-only segment.
	Source         int
	OriginalLine   int
	OriginalColumn int

	// Name is -1 when the segment has no name.
	Name int
}

// GeneratedOnly returns a one-field segment.
func GeneratedOnly(line, column int) Segment {
	return Segment{GeneratedLine: line, GeneratedColumn: column, Source: -1, Name: -1}
}

// Mapped returns a four-field segment.
func Mapped(line, column, source, origLine, origColumn int) Segment {
	return Segment{
		GeneratedLine:   line,
		GeneratedColumn: column,
		Source:          source,
		OriginalLine:    origLine,
		OriginalColumn:  origColumn,
		Name:            -1,
	}
}

// Named returns a five-field segment.
func Named(line, column, source, origLine, origColumn, name int) Segment {
	s := Mapped(line, column, source, origLine, origColumn)
	s.Name = name
	return s
}

// EncodeMappings delta-encodes segments into a mappings stream. Segments
// are emitted in (generated line, generated column) order; the sort is
// stable, so equal keys keep their relative order.
func EncodeMappings(segments []Segment) string {
	sorted := make([]Segment, len(segments))
	copy(sorted, segments)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].GeneratedLine != sorted[j].GeneratedLine {
			return sorted[i].GeneratedLine < sorted[j].GeneratedLine
		}
		return sorted[i].GeneratedColumn < sorted[j].GeneratedColumn
	})

	var buf strings.Builder

	// State for delta encoding
	prevGenCol := 0
	prevSrcIndex := 0
	prevSrcLine := 0
	prevSrcCol := 0
	prevNameIndex := 0

	currentLine := 1
	firstOnLine := true

	for _, s := range sorted {
		// Emit semicolons for skipped lines
		for currentLine < s.GeneratedLine {
			buf.WriteByte(';')
			currentLine++
			prevGenCol = 0
			firstOnLine = true
		}

		if !firstOnLine {
			buf.WriteByte(',')
		}
		firstOnLine = false

		buf.WriteString(sourcemap.EncodeVLQ(s.GeneratedColumn - prevGenCol))
		prevGenCol = s.GeneratedColumn

		if s.Source < 0 {
			continue
		}

		// Original lines are stored 0-indexed.
		buf.WriteString(sourcemap.EncodeVLQSequence([]int{
			s.Source - prevSrcIndex,
			(s.OriginalLine - 1) - prevSrcLine,
			s.OriginalColumn - prevSrcCol,
		}))
		prevSrcIndex = s.Source
		prevSrcLine = s.OriginalLine - 1
		prevSrcCol = s.OriginalColumn

		if s.Name >= 0 {
			buf.WriteString(sourcemap.EncodeVLQ(s.Name - prevNameIndex))
			prevNameIndex = s.Name
		}
	}

	return buf.String()
}

// Fixture describes a complete source map document.
type Fixture struct {
	File           string
	SourceRoot     string
	Sources        []string
	SourcesContent []string
	Names          []string
	Segments       []Segment
}

// SourceMap returns the envelope for the fixture.
func (f Fixture) SourceMap() *sourcemap.SourceMap {
	sm := &sourcemap.SourceMap{
		Version:    null.IntFrom(sourcemap.Version),
		File:       null.StringFrom(f.File),
		SourceRoot: f.SourceRoot,
		Sources:    nonNil(f.Sources),
		Names:      nonNil(f.Names),
		Mappings:   null.StringFrom(EncodeMappings(f.Segments)),
	}
	for _, c := range f.SourcesContent {
		sm.SourcesContent = append(sm.SourcesContent, null.StringFrom(c))
	}
	return sm
}

// JSON returns the fixture serialized as a source map document.
func (f Fixture) JSON() []byte {
	return []byte(f.SourceMap().ToJSON())
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
