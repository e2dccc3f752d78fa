package sourcemap

import (
	"fmt"

	"github.com/pkg/errors"
)

// Sentinel errors. Every error about the contents of a source map matches
// one of them with errors.Is. A nil *SourceMap passed to NewConsumer is a
// caller bug and matches none.
var (
	ErrInvalidJSON        = errors.New("invalid source map document")
	ErrMissingField       = errors.New("missing required field")
	ErrUnsupportedVersion = errors.New("unsupported source map version")
	ErrMalformedVLQ       = errors.New("malformed VLQ")
	ErrIndexOutOfRange    = errors.New("index out of range")

	// ErrIndexMap is returned by ParseSourceMap for sectioned index maps.
	ErrIndexMap = errors.New("index maps with sections are not supported")
)

// MissingFieldError reports a required envelope field that is absent.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s: %q", ErrMissingField, e.Field)
}

func (e *MissingFieldError) Unwrap() error { return ErrMissingField }

// UnsupportedVersionError reports an envelope version other than the one
// this package decodes.
type UnsupportedVersionError struct {
	Got      int
	Expected int
}

func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("%s: %d (expected %d)", ErrUnsupportedVersion, e.Got, e.Expected)
}

func (e *UnsupportedVersionError) Unwrap() error { return ErrUnsupportedVersion }

// IndexOutOfRangeError reports a lookup past the end of a string table.
type IndexOutOfRangeError struct {
	Index int
	Len   int
}

func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("%s: %d not in [0, %d)", ErrIndexOutOfRange, e.Index, e.Len)
}

func (e *IndexOutOfRangeError) Unwrap() error { return ErrIndexOutOfRange }
