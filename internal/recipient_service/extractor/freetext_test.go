package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScanFreeText_MixedSeparators(t *testing.T) {
	result := ScanFreeText("+237612345678, 612345678; abc, 237699887766")

	assert.Equal(t, []string{"+237612345678", "612345678", "237699887766"}, result.Numbers)
	assert.Equal(t, []string{"abc"}, result.Rejected)
}

func TestScanFreeText_DeduplicatesInOrder(t *testing.T) {
	text := "670 000 001\n670000002|670-000-001\r\n670000003\t670000002;;,\n"
	result := ScanFreeText(text)

	assert.Equal(t, []string{"670000001", "670000002", "670000003"}, result.Numbers)
	assert.Empty(t, result.Rejected)
}

func TestScanFreeText_SingleNumber(t *testing.T) {
	assert.Equal(t, []string{"+237670000000"}, ExtractFreeText("  +237 670 00 00 00  "))
}

func TestScanFreeText_RejectsShortAndWords(t *testing.T) {
	result := ScanFreeText("call me, 12345, 0670000000, 12345")

	assert.Empty(t, result.Numbers)
	assert.Equal(t, []string{"call me", "12345", "0670000000"}, result.Rejected)
}

func TestScanFreeText_Empty(t *testing.T) {
	result := ScanFreeText(" \n,;| ")
	assert.Empty(t, result.Numbers)
	assert.Empty(t, result.Rejected)
}
