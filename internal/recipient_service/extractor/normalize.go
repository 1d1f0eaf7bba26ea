package extractor

import (
	"regexp"
	"strings"
	"unicode"
)

// shapePattern is the minimal phone-number shape: optional plus, non-zero
// first digit, 7 to 15 digits in total.
var shapePattern = regexp.MustCompile(`^\+?[1-9]\d{6,14}$`)

var canonicalPattern = regexp.MustCompile(`^\+?\d+$`)

// Normalize strips whitespace, hyphens, parentheses and periods from raw.
// Every other character is kept, so letters still fail the shape filter.
func Normalize(raw string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		switch r {
		case '-', '(', ')', '.':
			return -1
		}
		return r
	}, raw)
}

// IsCandidate reports whether a normalized token passes the shape filter.
func IsCandidate(token string) bool {
	return shapePattern.MatchString(token)
}

// NormalizeCandidate normalizes raw and reports whether the result passes the
// shape filter.
func NormalizeCandidate(raw string) (string, bool) {
	token := Normalize(raw)
	return token, IsCandidate(token)
}

// IsCanonical reports whether token holds only digits and an optional leading
// plus, regardless of length.
func IsCanonical(token string) bool {
	return canonicalPattern.MatchString(token)
}
