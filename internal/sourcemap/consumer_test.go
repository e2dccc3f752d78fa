package sourcemap

import (
	"encoding/json"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/guregu/null.v3"
)

func newSourceMap(mappings string, sources, names []string) *SourceMap {
	return &SourceMap{
		Version:  null.IntFrom(3),
		File:     null.StringFrom("out.js"),
		Sources:  sources,
		Names:    names,
		Mappings: null.StringFrom(mappings),
	}
}

func newConsumer(t *testing.T, sm *SourceMap) *Consumer {
	t.Helper()
	c, err := NewConsumer(sm)
	require.NoError(t, err)
	return c
}

func position(source string, line, column int64, name string) OriginalPosition {
	p := OriginalPosition{
		Source: null.StringFrom(source),
		Line:   null.IntFrom(line),
		Column: null.IntFrom(column),
	}
	if name != "" {
		p.Name = null.StringFrom(name)
	}
	return p
}

// ============================================================================
// Construction
// ============================================================================

func TestNewConsumerMissingField(t *testing.T) {
	tests := []struct {
		field  string
		modify func(sm *SourceMap)
	}{
		{"version", func(sm *SourceMap) { sm.Version = null.Int{} }},
		{"sources", func(sm *SourceMap) { sm.Sources = nil }},
		{"names", func(sm *SourceMap) { sm.Names = nil }},
		{"mappings", func(sm *SourceMap) { sm.Mappings = null.String{} }},
		{"file", func(sm *SourceMap) { sm.File = null.String{} }},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			sm := newSourceMap("AAAA", []string{"a.js"}, []string{})
			tt.modify(sm)

			c, err := NewConsumer(sm)
			require.Error(t, err)
			assert.Nil(t, c)
			assert.True(t, errors.Is(err, ErrMissingField))

			var fieldErr *MissingFieldError
			require.True(t, errors.As(err, &fieldErr))
			assert.Equal(t, tt.field, fieldErr.Field)
		})
	}
}

func TestNewConsumerEmptyListsArePresent(t *testing.T) {
	c := newConsumer(t, newSourceMap("", []string{}, []string{}))
	assert.Equal(t, 0, c.Len())
}

func TestNewConsumerUnsupportedVersion(t *testing.T) {
	sm := newSourceMap("AAAA", []string{"a.js"}, []string{})
	sm.Version = null.IntFrom(2)

	_, err := NewConsumer(sm)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedVersion))

	var versionErr *UnsupportedVersionError
	require.True(t, errors.As(err, &versionErr))
	assert.Equal(t, 2, versionErr.Got)
	assert.Equal(t, 3, versionErr.Expected)
}

func TestNewConsumerMalformedMappings(t *testing.T) {
	_, err := NewConsumer(newSourceMap("AAAA,A!", []string{"a.js"}, []string{}))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedVLQ))

	_, err = NewConsumer(newSourceMap("AEAA", []string{"a.js"}, []string{}))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrIndexOutOfRange))
}

func TestNewConsumerNil(t *testing.T) {
	_, err := NewConsumer(nil)
	assert.Error(t, err)
}

func TestConsumerAccessors(t *testing.T) {
	sm := newSourceMap("AAAAA;AACA", []string{"a.js", "b.js"}, []string{"n"})
	sm.SourceRoot = "/src"
	c := newConsumer(t, sm)

	assert.Equal(t, 3, c.Version())
	assert.Equal(t, "out.js", c.File())
	assert.Equal(t, "/src", c.SourceRoot())
	assert.Equal(t, []string{"/src/a.js", "/src/b.js"}, c.Sources())
	assert.Equal(t, []string{"n"}, c.Names())
	assert.Equal(t, 2, c.Len())

	mappings := c.Mappings()
	require.Len(t, mappings, 2)
	mappings[0].GeneratedColumn = 99
	assert.Equal(t, 0, c.Mappings()[0].GeneratedColumn)

	var lines []int
	c.EachMapping(func(m Mapping) bool {
		lines = append(lines, m.GeneratedLine)
		return true
	})
	assert.Equal(t, []int{1, 2}, lines)

	calls := 0
	c.EachMapping(func(Mapping) bool {
		calls++
		return false
	})
	assert.Equal(t, 1, calls)
}

func TestConsumerAccessorsReturnCopies(t *testing.T) {
	sm := newSourceMap("AAAAA,KAAKA", []string{"a.js"}, []string{"n"})
	sm.SourceRoot = "/src"
	sm.SourcesContent = []null.String{null.StringFrom("let n;")}
	c := newConsumer(t, sm)
	before := c.OriginalPositionFor(1, 0)

	mappings := c.Mappings()
	require.NotNil(t, mappings[0].Original)
	mappings[0].Original.Line = 999
	mappings[0].Original.Source = "evil.js"
	mappings[0].Original.NameIndex = -1

	c.EachMapping(func(m Mapping) bool {
		m.Original.Column = 42
		m.Original.Source = "evil.js"
		return true
	})

	sources := c.Sources()
	sources[0] = "evil.js"

	// The envelope is the caller's to reuse once the consumer is built.
	sm.SourcesContent[0] = null.StringFrom("overwritten")
	sm.Sources[0] = "evil.js"

	assert.Equal(t, before, c.OriginalPositionFor(1, 0))
	assert.Equal(t, position("/src/a.js", 1, 0, "n"), c.OriginalPositionFor(1, 0))
	assert.Equal(t, position("/src/a.js", 1, 5, "n"), c.OriginalPositionFor(1, 5))
	assert.Equal(t, []string{"/src/a.js"}, c.Sources())
	assert.Equal(t, 1, c.Mappings()[0].Original.Line)

	content, ok := c.SourceContentFor("/src/a.js")
	assert.True(t, ok)
	assert.Equal(t, "let n;", content)
}

// ============================================================================
// Queries
// ============================================================================

func TestOriginalPositionForExactAndFloor(t *testing.T) {
	// (1,0) -> a.js:1:0 and (1,5) -> a.js:1:10
	c := newConsumer(t, newSourceMap("AAAA,KAAU", []string{"a.js"}, []string{}))

	assert.Equal(t, position("a.js", 1, 0, ""), c.OriginalPositionFor(1, 0))
	assert.Equal(t, position("a.js", 1, 0, ""), c.OriginalPositionFor(1, 3))
	assert.Equal(t, position("a.js", 1, 10, ""), c.OriginalPositionFor(1, 5))
	assert.Equal(t, position("a.js", 1, 10, ""), c.OriginalPositionFor(1, 80))
}

func TestOriginalPositionForEmpty(t *testing.T) {
	c := newConsumer(t, newSourceMap("", []string{}, []string{}))

	pos := c.OriginalPositionFor(1, 0)
	assert.Equal(t, OriginalPosition{}, pos)
	assert.False(t, pos.Found())
}

func TestOriginalPositionForBeforeFirstMapping(t *testing.T) {
	c := newConsumer(t, newSourceMap(";KAAA", []string{"a.js"}, []string{}))

	assert.Equal(t, OriginalPosition{}, c.OriginalPositionFor(1, 0))
	assert.Equal(t, OriginalPosition{}, c.OriginalPositionFor(2, 4))
	assert.True(t, c.OriginalPositionFor(2, 5).Found())
}

func TestOriginalPositionForGeneratedOnlySegment(t *testing.T) {
	c := newConsumer(t, newSourceMap("AAAA,K", []string{"a.js"}, []string{}))

	assert.True(t, c.OriginalPositionFor(1, 4).Found())
	assert.Equal(t, OriginalPosition{}, c.OriginalPositionFor(1, 5))
}

func TestOriginalPositionForNames(t *testing.T) {
	c := newConsumer(t, newSourceMap("AAAAA,KAAKC,KAAK", []string{"a.js"}, []string{"foo", "bar"}))

	assert.Equal(t, position("a.js", 1, 0, "foo"), c.OriginalPositionFor(1, 0))
	assert.Equal(t, position("a.js", 1, 5, "bar"), c.OriginalPositionFor(1, 5))

	// Four-field segment: name stays null.
	pos := c.OriginalPositionFor(1, 10)
	assert.Equal(t, position("a.js", 1, 10, ""), pos)
	assert.False(t, pos.Name.Valid)
}

func TestOriginalPositionForSourceRoot(t *testing.T) {
	sm := newSourceMap("AAAA", []string{"a.js"}, []string{})
	sm.SourceRoot = "/src"
	c := newConsumer(t, sm)

	assert.Equal(t, "/src/a.js", c.OriginalPositionFor(1, 0).Source.String)
}

func TestOriginalPositionForMultipleLines(t *testing.T) {
	c := newConsumer(t, newSourceMap("AAAA;AACA,EAAE;;GAAG", []string{"a.js"}, []string{}))

	assert.Equal(t, position("a.js", 2, 0, ""), c.OriginalPositionFor(2, 0))
	assert.Equal(t, position("a.js", 2, 2, ""), c.OriginalPositionFor(2, 2))
	// Line 3 has no segments; the floor is the last mapping of line 2.
	assert.Equal(t, position("a.js", 2, 2, ""), c.OriginalPositionFor(3, 0))
	assert.Equal(t, position("a.js", 2, 5, ""), c.OriginalPositionFor(4, 3))
}

func TestOriginalPositionJSON(t *testing.T) {
	c := newConsumer(t, newSourceMap("AAAA", []string{"a.js"}, []string{}))

	data, err := json.Marshal(c.OriginalPositionFor(1, 0))
	require.NoError(t, err)
	assert.JSONEq(t, `{"source":"a.js","line":1,"column":0,"name":null}`, string(data))

	data, err = json.Marshal(OriginalPosition{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"source":null,"line":null,"column":null,"name":null}`, string(data))
}

// ============================================================================
// Sources Content
// ============================================================================

func TestSourceContentFor(t *testing.T) {
	sm := newSourceMap("AAAA", []string{"a.js", "b.js", "c.js"}, []string{})
	sm.SourceRoot = "/src"
	sm.SourcesContent = []null.String{null.StringFrom("let a;"), {}}
	c := newConsumer(t, sm)

	content, ok := c.SourceContentFor("a.js")
	assert.True(t, ok)
	assert.Equal(t, "let a;", content)

	content, ok = c.SourceContentFor("/src/a.js")
	assert.True(t, ok)
	assert.Equal(t, "let a;", content)

	_, ok = c.SourceContentFor("b.js") // null entry
	assert.False(t, ok)
	_, ok = c.SourceContentFor("c.js") // past the end of sourcesContent
	assert.False(t, ok)
	_, ok = c.SourceContentFor("missing.js")
	assert.False(t, ok)
}
