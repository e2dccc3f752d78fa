// Package sourcemap decodes Source Map v3 documents and answers
// generated-to-original position queries.
//
// The format is specified at:
// https://sourcemaps.info/spec.html
package sourcemap

import (
	"math"
	"strings"

	"github.com/pkg/errors"
)

// Base64 alphabet used for VLQ encoding in source maps
const base64Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

// base64Values is a lookup table for decoding base64 characters
var base64Values [128]int

func init() {
	// Initialize lookup table with -1 for invalid characters
	for i := range base64Values {
		base64Values[i] = -1
	}
	for i, c := range base64Alphabet {
		base64Values[c] = i
	}
}

// VLQ constants
const (
	vlqBaseShift       = 5
	vlqBase            = 1 << vlqBaseShift // 32
	vlqBaseMask        = vlqBase - 1       // 31 (0x1F)
	vlqContinuationBit = vlqBase           // 32 (0x20)
	vlqSignBit         = 1

	// vlqMaxShift bounds a value to 7 digits (35 bits), enough for any
	// 32-bit magnitude plus the sign bit. Decoded magnitudes above
	// math.MaxInt32 are rejected separately.
	vlqMaxShift = 30
)

// EncodeVLQ encodes a signed integer as a VLQ base64 string.
func EncodeVLQ(value int) string {
	var buf strings.Builder

	// Convert to VLQ signed representation:
	// - Positive numbers: value << 1
	// - Negative numbers: ((-value) << 1) | 1
	var vlq uint64
	if value < 0 {
		vlq = uint64(-value)<<1 | vlqSignBit
	} else {
		vlq = uint64(value) << 1
	}

	for {
		digit := vlq & vlqBaseMask
		vlq >>= vlqBaseShift

		if vlq > 0 {
			digit |= vlqContinuationBit
		}

		buf.WriteByte(base64Alphabet[digit])

		if vlq == 0 {
			break
		}
	}

	return buf.String()
}

// DecodeVLQ decodes one VLQ value from the front of input and returns it
// together with the unconsumed remainder.
func DecodeVLQ(input string) (int, string, error) {
	if len(input) == 0 {
		return 0, input, errors.Wrap(ErrMalformedVLQ, "empty input")
	}

	var vlq uint64
	var shift uint

	for i := 0; i < len(input); i++ {
		c := input[i]
		if c >= 128 || base64Values[c] < 0 {
			return 0, input, errors.Wrapf(ErrMalformedVLQ, "invalid base64 digit %q", c)
		}
		if shift > vlqMaxShift {
			return 0, input, errors.Wrap(ErrMalformedVLQ, "value overflows 32 bits")
		}

		digit := base64Values[c]
		continuation := (digit & vlqContinuationBit) != 0

		vlq |= uint64(digit&vlqBaseMask) << shift
		shift += vlqBaseShift

		if !continuation {
			negative := (vlq & vlqSignBit) != 0
			if vlq>>1 > math.MaxInt32 {
				return 0, input, errors.Wrap(ErrMalformedVLQ, "value overflows 32 bits")
			}
			magnitude := int(vlq >> 1)
			if negative {
				return -magnitude, input[i+1:], nil
			}
			return magnitude, input[i+1:], nil
		}
	}

	// Continuation bit set on the last digit
	return 0, input, errors.Wrap(ErrMalformedVLQ, "unexpected end of input")
}

// EncodeVLQSequence encodes multiple values as a VLQ sequence.
func EncodeVLQSequence(values []int) string {
	var buf strings.Builder
	for _, v := range values {
		buf.WriteString(EncodeVLQ(v))
	}
	return buf.String()
}
