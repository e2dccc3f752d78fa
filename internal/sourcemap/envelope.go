package sourcemap

import (
	"bytes"
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
	"gopkg.in/guregu/null.v3"
)

// SourceMap is the deserialized Source Map v3 envelope.
// See https://sourcemaps.info/spec.html
//
// Required scalar fields are null types so that an absent field can be told
// apart from a zero value; a nil Sources or Names slice means the field was
// absent.
type SourceMap struct {
	Version        null.Int      `json:"version"`
	File           null.String   `json:"file"`
	SourceRoot     string        `json:"sourceRoot,omitempty"`
	Sources        []string      `json:"sources"`
	SourcesContent []null.String `json:"sourcesContent,omitempty"`
	Names          []string      `json:"names"`
	Mappings       null.String   `json:"mappings"`
}

// utf8BOM is skipped at the start of a document.
const utf8BOM = "\ufeff"

// xssiPrefix may precede a source map served over HTTP to keep it from
// being evaluated as a script. It runs to the end of its line.
var xssiPrefix = []byte(")]}'")

// ParseSourceMap decodes a JSON source map document.
func ParseSourceMap(data []byte) (*SourceMap, error) {
	data = stripXSSIPrefix(data)

	if !gjson.ValidBytes(data) {
		return nil, errors.Wrap(ErrInvalidJSON, "not valid JSON")
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		return nil, errors.Wrapf(ErrInvalidJSON, "expected a JSON object, got %s", doc.Type)
	}
	if doc.Get("sections").Exists() {
		return nil, ErrIndexMap
	}

	// version is read from the parsed document so that its JSON type is
	// checked strictly: 3 and 3.0 are accepted, "3" is not.
	var raw struct {
		SourceMap
		Version json.RawMessage `json:"version"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrapf(ErrInvalidJSON, "decoding source map: %v", err)
	}
	sm := raw.SourceMap

	version, err := parseVersion(doc.Get("version"))
	if err != nil {
		return nil, err
	}
	sm.Version = version
	return &sm, nil
}

// parseVersion returns a null Int for an absent or null version.
func parseVersion(v gjson.Result) (null.Int, error) {
	switch v.Type {
	case gjson.Null:
		return null.Int{}, nil
	case gjson.Number:
		n := int64(v.Num)
		if float64(n) != v.Num {
			return null.Int{}, errors.Wrapf(ErrUnsupportedVersion, "version %s", v.Raw)
		}
		return null.IntFrom(n), nil
	default:
		return null.Int{}, errors.Wrapf(ErrUnsupportedVersion, "version must be a number, got %s", v.Raw)
	}
}

func stripXSSIPrefix(data []byte) []byte {
	trimmed := bytes.TrimLeft(data, " \t\r\n"+utf8BOM)
	if !bytes.HasPrefix(trimmed, xssiPrefix) {
		return trimmed
	}
	if nl := bytes.IndexByte(trimmed, '\n'); nl >= 0 {
		return trimmed[nl+1:]
	}
	return nil
}

// ToJSON returns the source map as a JSON string.
func (sm *SourceMap) ToJSON() string {
	data, _ := json.Marshal(sm)
	return string(data)
}
