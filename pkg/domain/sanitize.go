package domain

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxInputSize bounds the byte length of a unit name or currency code.
const MaxInputSize = 256

// ErrInvalidInput is returned for unit names that are too large or not UTF-8.
var ErrInvalidInput = errors.New("invalid input")

// SanitizeInput rejects oversized or malformed names and strips control
// characters (ANSI escapes, NUL, BEL). Spaces are kept as typed.
func SanitizeInput(input string) (string, error) {
	if len(input) > MaxInputSize {
		// Rejected rather than truncated so the lookup is deterministic.
		return "", fmt.Errorf("%w: size=%d limit=%d", ErrInvalidInput, len(input), MaxInputSize)
	}
	if !utf8.ValidString(input) {
		return "", fmt.Errorf("%w: invalid UTF-8", ErrInvalidInput)
	}

	// Fast path: nothing to strip.
	if strings.IndexFunc(input, unicode.IsControl) < 0 {
		return input, nil
	}

	var b strings.Builder
	b.Grow(len(input))
	for _, r := range input {
		if !unicode.IsControl(r) {
			b.WriteRune(r)
		}
	}
	return b.String(), nil
}

// Sanitized returns r with both unit names passed through SanitizeInput.
func (r ConversionRequest) Sanitized() (ConversionRequest, error) {
	from, err := SanitizeInput(r.From)
	if err != nil {
		return r, err
	}
	to, err := SanitizeInput(r.To)
	if err != nil {
		return r, err
	}
	r.From, r.To = from, to
	return r, nil
}
