package sourcemap

import (
	"strings"

	"github.com/pkg/errors"
)

// Mapping is one decoded segment of the "mappings" stream.
type Mapping struct {
	GeneratedLine   int // 1-indexed
	GeneratedColumn int // 0-indexed

	// Original is nil when the segment only carried a generated column.
	Original *Original
}

// Original is the original-source half of a mapping.
type Original struct {
	SourceIndex int
	Source      string // joined with the source root, if any
	Line        int    // 1-indexed
	Column      int    // 0-indexed

	NameIndex int // -1 if the segment has no name
	Name      string
}

// HasName reports whether the segment carried a fifth (name) field.
func (o *Original) HasName() bool {
	return o.NameIndex >= 0
}

// clone returns m with its own copy of Original.
func (m Mapping) clone() Mapping {
	if m.Original != nil {
		orig := *m.Original
		m.Original = &orig
	}
	return m
}

// decodeState holds the running values that every field of a segment is
// delta-encoded against.
type decodeState struct {
	generatedLine   int
	generatedColumn int
	source          int
	originalLine    int // 0-indexed, as stored in the stream
	originalColumn  int
	name            int
}

func newDecodeState() decodeState {
	return decodeState{generatedLine: 1}
}

// nextLine moves to the next generated line.
func (s *decodeState) nextLine() {
	s.generatedLine++
	s.generatedColumn = 0
}

// mappingParser walks a mappings stream left to right.
type mappingParser struct {
	input   string
	rest    string
	state   decodeState
	sources *StringTable
	names   *StringTable

	// resolved holds each source joined with the source root.
	resolved []string
}

// ParseMappings decodes a VLQ mappings stream into mappings in stream
// order. Source and name indices are resolved against the given tables and
// sources are joined with sourceRoot when it is non-empty.
func ParseMappings(stream string, sources, names *StringTable, sourceRoot string) ([]Mapping, error) {
	return parseMappings(stream, sources, resolveSources(sourceRoot, sources), names)
}

func parseMappings(stream string, sources *StringTable, resolved []string, names *StringTable) ([]Mapping, error) {
	p := &mappingParser{
		input:    stream,
		rest:     stream,
		state:    newDecodeState(),
		sources:  sources,
		names:    names,
		resolved: resolved,
	}
	return p.parse()
}

func (p *mappingParser) parse() ([]Mapping, error) {
	// Rough capacity guess: segments are usually 4-8 bytes.
	result := make([]Mapping, 0, len(p.input)/5)

	for len(p.rest) > 0 {
		switch p.rest[0] {
		case ';':
			p.state.nextLine()
			p.rest = p.rest[1:]
		case ',':
			p.rest = p.rest[1:]
		default:
			m, err := p.decodeSegment()
			if err != nil {
				return nil, errors.Wrapf(err, "mappings: offset %d", p.offset())
			}
			result = append(result, m)
		}
	}

	return result, nil
}

func (p *mappingParser) offset() int {
	return len(p.input) - len(p.rest)
}

// atSeparator reports whether the current segment has no more fields.
func (p *mappingParser) atSeparator() bool {
	return len(p.rest) == 0 || p.rest[0] == ',' || p.rest[0] == ';'
}

// field decodes the next VLQ of the current segment.
func (p *mappingParser) field() (int, error) {
	value, rest, err := DecodeVLQ(p.rest)
	if err != nil {
		return 0, err
	}
	p.rest = rest
	return value, nil
}

// decodeSegment decodes one segment of one, four or five fields and
// advances the running state.
func (p *mappingParser) decodeSegment() (Mapping, error) {
	s := &p.state
	m := Mapping{GeneratedLine: s.generatedLine}

	delta, err := p.field()
	if err != nil {
		return m, errors.Wrap(err, "generated column")
	}
	s.generatedColumn += delta
	if s.generatedColumn < 0 {
		return m, errors.Wrapf(ErrMalformedVLQ, "negative generated column %d", s.generatedColumn)
	}
	m.GeneratedColumn = s.generatedColumn

	if p.atSeparator() {
		return m, nil
	}

	// Source, original line and original column travel together.
	if delta, err = p.field(); err != nil {
		return m, errors.Wrap(err, "source")
	}
	s.source += delta
	if _, err := p.sources.At(s.source); err != nil {
		return m, errors.Wrap(err, "source")
	}

	if delta, err = p.field(); err != nil {
		return m, errors.Wrap(err, "original line")
	}
	s.originalLine += delta
	if s.originalLine < 0 {
		return m, errors.Wrapf(ErrMalformedVLQ, "negative original line %d", s.originalLine)
	}

	if delta, err = p.field(); err != nil {
		return m, errors.Wrap(err, "original column")
	}
	s.originalColumn += delta
	if s.originalColumn < 0 {
		return m, errors.Wrapf(ErrMalformedVLQ, "negative original column %d", s.originalColumn)
	}

	orig := &Original{
		SourceIndex: s.source,
		Source:      p.resolved[s.source],
		Line:        s.originalLine + 1,
		Column:      s.originalColumn,
		NameIndex:   -1,
	}
	m.Original = orig

	if p.atSeparator() {
		return m, nil
	}

	if delta, err = p.field(); err != nil {
		return m, errors.Wrap(err, "name")
	}
	s.name += delta
	name, err := p.names.At(s.name)
	if err != nil {
		return m, errors.Wrap(err, "name")
	}
	orig.NameIndex = s.name
	orig.Name = name

	if !p.atSeparator() {
		return m, errors.Wrap(ErrMalformedVLQ, "too many fields in segment")
	}
	return m, nil
}

// resolveSources joins every entry of sources with root, once per map.
func resolveSources(root string, sources *StringTable) []string {
	out := sources.Values()
	if root == "" {
		return out
	}
	for i := range out {
		out[i] = joinSourceRoot(root, out[i])
	}
	return out
}

// joinSourceRoot prefixes source with root, separated by exactly one slash.
func joinSourceRoot(root, source string) string {
	if root == "" {
		return source
	}
	return strings.TrimSuffix(root, "/") + "/" + source
}
