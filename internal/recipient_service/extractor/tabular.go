package extractor

import (
	"encoding/csv"
	"errors"
	"io"
	"strings"
)

// ParseGrid splits pasted text into rows and columns when it looks tabular:
// at least two non-empty lines, with a tab (preferred) or comma in the first
// one, and every row splitting into the same number of fields. The second
// return value is false for anything else, including ragged rows.
func ParseGrid(raw string) ([][]string, bool) {
	raw = strings.TrimPrefix(raw, "\ufeff")

	var lines []string
	for _, line := range strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) < 2 {
		return nil, false
	}

	var delimiter rune
	switch {
	case strings.ContainsRune(lines[0], '\t'):
		delimiter = '\t'
	case strings.ContainsRune(lines[0], ','):
		delimiter = ','
	default:
		return nil, false
	}

	reader := csv.NewReader(strings.NewReader(strings.Join(lines, "\n")))
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	var rows [][]string
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, false
		}
		if len(rows) > 0 && len(row) != len(rows[0]) {
			return nil, false
		}
		rows = append(rows, row)
	}
	return rows, true
}

// SelectPhoneColumn picks the phone column of a grid. A header name match on
// row 0 wins and marks row 0 as a header. Otherwise every column is scored by
// the number of its cells, header included, that pass the shape filter; the
// best score wins, ties going to the leftmost column. It returns -1 when no
// column scores.
func SelectPhoneColumn(rows [][]string) (col int, hasHeader bool) {
	if len(rows) == 0 {
		return -1, false
	}
	if idx := MapColumns(rows[0]).PhoneIdx; idx >= 0 {
		return idx, true
	}

	width := 0
	for _, row := range rows {
		width = max(width, len(row))
	}
	scores := make([]int, width)
	for _, row := range rows {
		for i, cell := range row {
			if _, ok := NormalizeCandidate(cell); ok {
				scores[i]++
			}
		}
	}

	best, bestScore := -1, 0
	for i, score := range scores {
		if score > bestScore {
			best, bestScore = i, score
		}
	}
	return best, false
}

// ScanTable extracts phone numbers from the selected column of rows. When no
// column qualifies, all cells are flattened and scanned as free text.
func ScanTable(rows [][]string) ScanResult {
	col, hasHeader := SelectPhoneColumn(rows)
	if col < 0 {
		var cells []string
		for _, row := range rows {
			cells = append(cells, row...)
		}
		return ScanFreeText(strings.Join(cells, "\n"))
	}

	s := newScanner()
	for i, row := range rows {
		if i == 0 && hasHeader {
			continue
		}
		if col < len(row) {
			s.add(row[col])
		}
	}
	return s.result
}

// ExtractTable returns the deduplicated phone numbers of a pre-split grid.
func ExtractTable(rows [][]string) []string {
	return ScanTable(rows).Numbers
}

// ScanPaste scans clipboard content, using column selection when the text is
// tabular and free-text rules otherwise.
func ScanPaste(raw string) ScanResult {
	if rows, ok := ParseGrid(raw); ok {
		return ScanTable(rows)
	}
	return ScanFreeText(raw)
}

// ExtractPaste returns the deduplicated phone numbers of clipboard content.
func ExtractPaste(raw string) []string {
	return ScanPaste(raw).Numbers
}
