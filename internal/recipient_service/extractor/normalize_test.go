package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aradsms/recipient_intake/internal/recipient_service/classifier"
)

func TestNormalize(t *testing.T) {
	tests := map[string]string{
		"+237 6 70 00 00 00":    "+237670000000",
		"(237) 670-000.000":     "237670000000",
		"\t670 000 000\n":       "670000000",
		"670\u00a0000\u00a0000": "670000000",
		"abc":                   "abc",
		"67O000000":             "67O000000",
		"":                      "",
	}
	for input, want := range tests {
		assert.Equal(t, want, Normalize(input), "input %q", input)
	}
}

func TestIsCandidate(t *testing.T) {
	valid := []string{"1234567", "+237670000000", "612345678", "123456789012345", "+123456789012345"}
	for _, token := range valid {
		assert.True(t, IsCandidate(token), token)
	}
	invalid := []string{"", "123456", "0612345678", "+0612345678", "1234567890123456", "abc", "+", "67O000000", "2376+70000000"}
	for _, token := range invalid {
		assert.False(t, IsCandidate(token), token)
	}
}

func TestNormalizeThenClassify_MatchesCanonical(t *testing.T) {
	c := classifier.New(nil)
	canonical := []string{"+237670000000", "237699887766", "612345678", "67000", "6700000000", "+33612345678"}
	decorate := []func(string) string{
		func(s string) string { return " " + s + " " },
		func(s string) string {
			if len(s) < 6 {
				return s[:2] + "-" + s[2:]
			}
			return s[:4] + " " + s[4:6] + "-" + s[6:]
		},
		func(s string) string { return "(" + s[:3] + ") " + s[3:] },
		func(s string) string { return s[:3] + "." + s[3:] },
	}
	for _, digits := range canonical {
		want := c.Classify(digits)
		for _, d := range decorate {
			decorated := d(digits)
			assert.Equal(t, want, c.Classify(Normalize(decorated)), "decorated %q", decorated)
		}
	}
}

func TestIsCanonical(t *testing.T) {
	assert.True(t, IsCanonical("+23767"))
	assert.True(t, IsCanonical("0012"))
	assert.False(t, IsCanonical(""))
	assert.False(t, IsCanonical("+"))
	assert.False(t, IsCanonical("67a"))
	assert.False(t, IsCanonical("6+7"))
}
