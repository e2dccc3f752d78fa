// Package api provides the public API for reading Source Map v3 files.
//
// This package is intended for programmatic use. For CLI usage, see
// cmd/smquery.
package api

import (
	"github.com/pkg/errors"

	"github.com/HugoDaniel/smquery/internal/loader"
	"github.com/HugoDaniel/smquery/internal/sourcemap"
)

// Errors returned while decoding a source map. Use errors.Is to test for
// them.
var (
	ErrInvalidJSON        = sourcemap.ErrInvalidJSON
	ErrMissingField       = sourcemap.ErrMissingField
	ErrUnsupportedVersion = sourcemap.ErrUnsupportedVersion
	ErrMalformedVLQ       = sourcemap.ErrMalformedVLQ
	ErrIndexOutOfRange    = sourcemap.ErrIndexOutOfRange
	ErrIndexMap           = sourcemap.ErrIndexMap
	ErrNoSourceMap        = loader.ErrNoSourceMap
)

// Detailed error types, usable with errors.As.
type (
	MissingFieldError       = sourcemap.MissingFieldError
	UnsupportedVersionError = sourcemap.UnsupportedVersionError
	IndexOutOfRangeError    = sourcemap.IndexOutOfRangeError
)

// Position is the result of a lookup. Every field is null when the
// generated position has no original mapping; Name is also null for
// mappings without a name.
type Position = sourcemap.OriginalPosition

// Mapping is one decoded segment of a source map.
type Mapping struct {
	// GeneratedLine is 1-indexed, GeneratedColumn 0-indexed.
	GeneratedLine   int
	GeneratedColumn int

	// HasOriginal is false for segments that only mark a generated
	// position. The fields below are zero in that case.
	HasOriginal    bool
	Source         string
	OriginalLine   int
	OriginalColumn int

	// Name is empty when the segment has no name.
	Name string
}

// Consumer answers queries against one decoded source map. It is safe for
// concurrent use.
type Consumer struct {
	c *sourcemap.Consumer
}

// NewConsumer decodes a source map JSON document.
func NewConsumer(data []byte) (*Consumer, error) {
	sm, err := sourcemap.ParseSourceMap(data)
	if err != nil {
		return nil, err
	}
	c, err := sourcemap.NewConsumer(sm)
	if err != nil {
		return nil, err
	}
	return &Consumer{c: c}, nil
}

// NewConsumerFromGenerated decodes the source map inlined in generated code
// as a data: URI sourceMappingURL comment.
func NewConsumerFromGenerated(code string) (*Consumer, error) {
	ref, ok := loader.FindSourceMappingURL(code)
	if !ok {
		return nil, ErrNoSourceMap
	}
	if !loader.IsDataURI(ref) {
		return nil, errors.Errorf("sourceMappingURL %q is not inline", ref)
	}
	data, err := loader.DecodeDataURI(ref)
	if err != nil {
		return nil, err
	}
	return NewConsumer(data)
}

// OriginalPositionFor returns the original position of a generated
// position. line is 1-indexed and column 0-indexed.
func (c *Consumer) OriginalPositionFor(line, column int) Position {
	return c.c.OriginalPositionFor(line, column)
}

// File returns the name of the generated file.
func (c *Consumer) File() string { return c.c.File() }

// Sources returns the source names, joined with the source root.
func (c *Consumer) Sources() []string { return c.c.Sources() }

// Names returns the symbol names.
func (c *Consumer) Names() []string { return c.c.Names() }

// SourceContentFor returns the embedded content of source.
func (c *Consumer) SourceContentFor(source string) (string, bool) {
	return c.c.SourceContentFor(source)
}

// Mappings returns every decoded segment in generated order.
func (c *Consumer) Mappings() []Mapping {
	out := make([]Mapping, 0, c.c.Len())
	c.c.EachMapping(func(m sourcemap.Mapping) bool {
		out = append(out, convertMapping(m))
		return true
	})
	return out
}

func convertMapping(m sourcemap.Mapping) Mapping {
	out := Mapping{GeneratedLine: m.GeneratedLine, GeneratedColumn: m.GeneratedColumn}
	if o := m.Original; o != nil {
		out.HasOriginal = true
		out.Source = o.Source
		out.OriginalLine = o.Line
		out.OriginalColumn = o.Column
		out.Name = o.Name
	}
	return out
}

// OriginalPositionFor decodes data and looks up a single position.
// Decode once with NewConsumer when querying the same map repeatedly.
func OriginalPositionFor(data []byte, line, column int) (Position, error) {
	c, err := NewConsumer(data)
	if err != nil {
		return Position{}, err
	}
	return c.OriginalPositionFor(line, column), nil
}
