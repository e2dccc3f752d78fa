// Package loader reads source maps from disk for the command line tools.
//
// A path may name a source map, a gzip-compressed source map, or a
// generated file that references its map through a sourceMappingURL
// comment (either inline as a data: URI or as a relative path).
package loader

import (
	"bytes"
	"io"
	"net/url"
	"path/filepath"

	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/HugoDaniel/smquery/internal/sourcemap"
)

var (
	// ErrNoSourceMap is returned for a generated file without a
	// sourceMappingURL comment.
	ErrNoSourceMap = errors.New("no sourceMappingURL comment found")

	// ErrRemoteSourceMap is returned when a sourceMappingURL points to a
	// remote location. Only local files and inline maps are read.
	ErrRemoteSourceMap = errors.New("remote source maps are not supported")
)

// maxMapSize bounds decompressed map size.
const maxMapSize = 256 << 20

var gzipMagic = []byte{0x1f, 0x8b}

// Options controls how maps are turned into consumers.
type Options struct {
	// SourceRoot replaces the map's own sourceRoot when non-empty.
	SourceRoot string
}

// Loader reads source maps through an afero filesystem.
type Loader struct {
	fs     afero.Fs
	logger logrus.FieldLogger
	opts   Options
}

// New creates a Loader.
func New(fs afero.Fs, logger logrus.FieldLogger, opts Options) *Loader {
	return &Loader{fs: fs, logger: logger, opts: opts}
}

// Load reads the source map for path and decodes it.
func (l *Loader) Load(path string) (*sourcemap.Consumer, error) {
	sm, err := l.ReadSourceMap(path)
	if err != nil {
		return nil, err
	}
	if l.opts.SourceRoot != "" {
		sm.SourceRoot = l.opts.SourceRoot
	}

	c, err := sourcemap.NewConsumer(sm)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}
	l.logger.WithFields(logrus.Fields{
		"path":     path,
		"file":     c.File(),
		"sources":  len(c.Sources()),
		"mappings": c.Len(),
	}).Debug("Decoded source map")
	return c, nil
}

// ReadSourceMap reads and parses the source map for path without decoding
// its mappings.
func (l *Loader) ReadSourceMap(path string) (*sourcemap.SourceMap, error) {
	data, err := l.read(path)
	if err != nil {
		return nil, err
	}
	if looksLikeSourceMap(data) {
		return parse(path, data)
	}

	ref, ok := FindSourceMappingURL(string(data))
	if !ok {
		return nil, errors.Wrapf(ErrNoSourceMap, "%s", path)
	}

	if IsDataURI(ref) {
		l.logger.WithField("path", path).Debug("Using inline source map")
		payload, err := DecodeDataURI(ref)
		if err != nil {
			return nil, errors.Wrapf(err, "%s", path)
		}
		return parse(path, payload)
	}

	mapPath, err := resolveReference(path, ref)
	if err != nil {
		return nil, err
	}
	l.logger.WithFields(logrus.Fields{"path": path, "map": mapPath}).Debug("Following sourceMappingURL")

	data, err = l.read(mapPath)
	if err != nil {
		return nil, err
	}
	return parse(mapPath, data)
}

// read returns the contents of path, decompressing gzip data.
func (l *Loader) read(path string) ([]byte, error) {
	data, err := afero.ReadFile(l.fs, path)
	if err != nil {
		return nil, errors.Wrap(err, "reading source map")
	}
	l.logger.WithFields(logrus.Fields{"path": path, "bytes": len(data)}).Debug("Read file")

	if !bytes.HasPrefix(data, gzipMagic) {
		return data, nil
	}

	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}
	defer func() { _ = zr.Close() }()

	out, err := io.ReadAll(io.LimitReader(zr, maxMapSize+1))
	if err != nil {
		return nil, errors.Wrapf(err, "decompressing %s", path)
	}
	if len(out) > maxMapSize {
		return nil, errors.Errorf("%s: decompressed source map exceeds %d bytes", path, maxMapSize)
	}
	l.logger.WithFields(logrus.Fields{"path": path, "bytes": len(out)}).Debug("Decompressed file")
	return out, nil
}

func parse(path string, data []byte) (*sourcemap.SourceMap, error) {
	sm, err := sourcemap.ParseSourceMap(data)
	return sm, errors.Wrapf(err, "%s", path)
}

// looksLikeSourceMap reports whether data is a JSON document rather than
// generated code.
func looksLikeSourceMap(data []byte) bool {
	trimmed := bytes.TrimLeft(data, " \t\r\n\ufeff")
	return bytes.HasPrefix(trimmed, []byte("{")) || bytes.HasPrefix(trimmed, []byte(")]}'"))
}

// resolveReference resolves a sourceMappingURL against the generated file
// that contains it.
func resolveReference(generated, ref string) (string, error) {
	u, err := url.Parse(ref)
	if err != nil {
		return "", errors.Wrapf(err, "invalid sourceMappingURL %q", ref)
	}
	switch u.Scheme {
	case "":
	case "file":
		return filepath.FromSlash(u.Path), nil
	default:
		return "", errors.Wrapf(ErrRemoteSourceMap, "%s", ref)
	}

	p := filepath.FromSlash(u.Path)
	if filepath.IsAbs(p) {
		return p, nil
	}
	return filepath.Join(filepath.Dir(generated), p), nil
}
