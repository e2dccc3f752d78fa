package sourcemap

import (
	"github.com/pkg/errors"
	"gopkg.in/guregu/null.v3"
)

// Version is the only source map format version this package decodes.
const Version = 3

// Consumer is a parsed source map that answers position queries.
// It is immutable once NewConsumer returns and safe for concurrent use.
type Consumer struct {
	version    int
	file       string
	sourceRoot string

	sources        *StringTable
	resolved       []string // sources joined with sourceRoot
	names          *StringTable
	sourcesContent []null.String

	mappings []Mapping
}

// OriginalPosition is the result of a position query. Fields that the
// matched mapping does not carry are null.
type OriginalPosition struct {
	Source null.String `json:"source"`
	Line   null.Int    `json:"line"`
	Column null.Int    `json:"column"`
	Name   null.String `json:"name"`
}

// Found reports whether the position resolved to an original source.
func (p OriginalPosition) Found() bool {
	return p.Source.Valid
}

// NewConsumer validates sm and decodes its mappings.
func NewConsumer(sm *SourceMap) (*Consumer, error) {
	if sm == nil {
		return nil, errors.New("nil source map")
	}
	if err := checkRequired(sm); err != nil {
		return nil, err
	}
	if sm.Version.Int64 != Version {
		return nil, &UnsupportedVersionError{Got: int(sm.Version.Int64), Expected: Version}
	}

	c := &Consumer{
		version:        int(sm.Version.Int64),
		file:           sm.File.String,
		sourceRoot:     sm.SourceRoot,
		sources:        NewStringTable(sm.Sources),
		names:          NewStringTable(sm.Names),
		sourcesContent: append([]null.String(nil), sm.SourcesContent...),
	}
	c.resolved = resolveSources(c.sourceRoot, c.sources)

	mappings, err := parseMappings(sm.Mappings.String, c.sources, c.resolved, c.names)
	if err != nil {
		return nil, err
	}
	c.mappings = mappings

	return c, nil
}

// checkRequired reports the first required field missing from sm.
func checkRequired(sm *SourceMap) error {
	switch {
	case !sm.Version.Valid:
		return &MissingFieldError{Field: "version"}
	case sm.Sources == nil:
		return &MissingFieldError{Field: "sources"}
	case sm.Names == nil:
		return &MissingFieldError{Field: "names"}
	case !sm.Mappings.Valid:
		return &MissingFieldError{Field: "mappings"}
	case !sm.File.Valid:
		return &MissingFieldError{Field: "file"}
	}
	return nil
}

// OriginalPositionFor returns the original position of the mapping in
// effect at the given generated position: the last mapping at or before
// (line, column). line is 1-indexed and column is 0-indexed; the returned
// line and column follow the same convention.
func (c *Consumer) OriginalPositionFor(line, column int) OriginalPosition {
	i := floorSearch(c.mappings, line, column)
	if i < 0 {
		return OriginalPosition{}
	}

	orig := c.mappings[i].Original
	if orig == nil {
		return OriginalPosition{}
	}

	pos := OriginalPosition{
		Source: null.StringFrom(orig.Source),
		Line:   null.IntFrom(int64(orig.Line)),
		Column: null.IntFrom(int64(orig.Column)),
	}
	if orig.HasName() {
		pos.Name = null.StringFrom(orig.Name)
	}
	return pos
}

// Version returns the source map format version.
func (c *Consumer) Version() int { return c.version }

// File returns the name of the generated file.
func (c *Consumer) File() string { return c.file }

// SourceRoot returns the source root prefix, or "" if there is none.
func (c *Consumer) SourceRoot() string { return c.sourceRoot }

// Sources returns the original source names joined with the source root.
func (c *Consumer) Sources() []string {
	out := make([]string, len(c.resolved))
	copy(out, c.resolved)
	return out
}

// Names returns the identifier names referenced by mappings.
func (c *Consumer) Names() []string { return c.names.Values() }

// Len returns the number of decoded mappings.
func (c *Consumer) Len() int { return len(c.mappings) }

// Mappings returns a deep copy of the decoded mappings in generated order.
func (c *Consumer) Mappings() []Mapping {
	out := make([]Mapping, len(c.mappings))
	for i, m := range c.mappings {
		out[i] = m.clone()
	}
	return out
}

// EachMapping calls fn with a copy of each mapping in generated order until
// fn returns false.
func (c *Consumer) EachMapping(fn func(Mapping) bool) {
	for _, m := range c.mappings {
		if !fn(m.clone()) {
			return
		}
	}
}

// SourceContentFor returns the embedded content of source, which may be
// given with or without the source root.
func (c *Consumer) SourceContentFor(source string) (string, bool) {
	idx, ok := c.sources.IndexOf(source)
	if !ok && c.sourceRoot != "" {
		for i, s := range c.resolved {
			if s == source {
				idx, ok = i, true
				break
			}
		}
	}
	if !ok || idx >= len(c.sourcesContent) {
		return "", false
	}
	content := c.sourcesContent[idx]
	return content.String, content.Valid
}
