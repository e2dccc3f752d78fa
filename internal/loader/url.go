package loader

import (
	"encoding/base64"
	"net/url"
	"strings"

	"github.com/pkg/errors"
)

// urlMarkers introduce a source map reference in generated code. The "@"
// forms are the deprecated spelling some older tools still emit.
var urlMarkers = []string{
	"//# sourceMappingURL=",
	"//@ sourceMappingURL=",
	"/*# sourceMappingURL=",
	"/*@ sourceMappingURL=",
}

// FindSourceMappingURL returns the URL of the last sourceMappingURL comment
// in code.
func FindSourceMappingURL(code string) (string, bool) {
	best := -1
	var marker string
	for _, m := range urlMarkers {
		if i := strings.LastIndex(code, m); i > best {
			best, marker = i, m
		}
	}
	if best < 0 {
		return "", false
	}

	rest := code[best+len(marker):]
	if end := strings.IndexAny(rest, "\r\n"); end >= 0 {
		rest = rest[:end]
	}
	if strings.HasPrefix(marker, "/*") {
		if end := strings.Index(rest, "*/"); end >= 0 {
			rest = rest[:end]
		}
	}
	rest = strings.TrimSpace(rest)
	return rest, rest != ""
}

// IsDataURI reports whether u is an inline data: URI.
func IsDataURI(u string) bool {
	return strings.HasPrefix(u, "data:")
}

// DecodeDataURI returns the payload of a data: URI, such as the one a
// bundler inlines with "data:application/json;base64,".
func DecodeDataURI(u string) ([]byte, error) {
	if !IsDataURI(u) {
		return nil, errors.Errorf("not a data URI: %.32q", u)
	}
	meta, payload, ok := strings.Cut(strings.TrimPrefix(u, "data:"), ",")
	if !ok {
		return nil, errors.New("data URI has no payload")
	}

	if strings.HasSuffix(meta, ";base64") {
		b, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			// Some tools strip the padding.
			b, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
		}
		return b, errors.Wrap(err, "decoding base64 data URI")
	}

	s, err := url.PathUnescape(payload)
	if err != nil {
		return nil, errors.Wrap(err, "decoding data URI")
	}
	return []byte(s), nil
}
