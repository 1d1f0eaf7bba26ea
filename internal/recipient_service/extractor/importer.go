package extractor

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"

	"github.com/aradsms/recipient_intake/internal/recipient_service/domain"
)

// Importer reads contact files with an explicit header row. The phone column
// must be named and must come first; anything else voids the whole file.
type Importer struct {
	maxBytes int64
	logger   *slog.Logger
}

// NewImporter creates an Importer. maxBytes <= 0 disables the size limit.
func NewImporter(logger *slog.Logger, maxBytes int64) *Importer {
	return &Importer{
		maxBytes: maxBytes,
		logger:   logger.With("component", "importer"),
	}
}

type numberedRow struct {
	line  int
	cells []string
}

// Import reads all of r and parses it as kind. Bad rows and bad structure are
// reported inside the result; only unsupported kinds and unreadable content
// are returned as errors.
func (imp *Importer) Import(ctx context.Context, r io.Reader, kind domain.FileKind) (*domain.ImportResult, error) {
	if kind != domain.FileKindCSV && kind != domain.FileKindSpreadsheet {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedFileKind, kind)
	}

	data, err := imp.readAll(r)
	if err != nil {
		importFilesCounter.WithLabelValues(string(kind), "unreadable").Inc()
		imp.logger.WarnContext(ctx, "Import input could not be read", "kind", kind, "error", err)
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var rows []numberedRow
	switch kind {
	case domain.FileKindCSV:
		rows, err = readCSVRows(data)
	case domain.FileKindSpreadsheet:
		rows, err = readSpreadsheetRows(data)
	}
	if err != nil {
		importFilesCounter.WithLabelValues(string(kind), "unreadable").Inc()
		imp.logger.WarnContext(ctx, "Import file is unreadable", "kind", kind, "size_bytes", len(data), "error", err)
		return nil, err
	}

	result := buildImportResult(rows)
	if result.HasStructuralErrors() {
		importFilesCounter.WithLabelValues(string(kind), "structural_error").Inc()
		imp.logger.InfoContext(ctx, "Import rejected for structure", "kind", kind, "structural_errors", result.StructuralErrors)
		return result, nil
	}

	importFilesCounter.WithLabelValues(string(kind), "accepted").Inc()
	importRowsCounter.WithLabelValues(string(kind), "accepted").Add(float64(len(result.ValidRecords)))
	importRowsCounter.WithLabelValues(string(kind), "rejected").Add(float64(len(result.RowErrors)))
	imp.logger.InfoContext(ctx, "Import parsed", "kind", kind,
		"valid_records", len(result.ValidRecords), "row_errors", len(result.RowErrors))
	return result, nil
}

func (imp *Importer) readAll(r io.Reader) ([]byte, error) {
	if imp.maxBytes <= 0 {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrUnreadableFile, err)
		}
		return data, nil
	}
	data, err := io.ReadAll(io.LimitReader(r, imp.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUnreadableFile, err)
	}
	if int64(len(data)) > imp.maxBytes {
		return nil, fmt.Errorf("%w: larger than %d bytes", domain.ErrUnreadableFile, imp.maxBytes)
	}
	return data, nil
}

// ImportRows applies the structured-import rules to an in-memory grid whose
// first row is the header. Row numbers are 1-based grid positions.
func ImportRows(grid [][]string) *domain.ImportResult {
	rows := make([]numberedRow, len(grid))
	for i, cells := range grid {
		rows[i] = numberedRow{line: i + 1, cells: cells}
	}
	return buildImportResult(rows)
}

func readCSVRows(data []byte) ([]numberedRow, error) {
	if bytes.IndexByte(data, 0) >= 0 {
		return nil, fmt.Errorf("%w: binary content in csv", domain.ErrUnreadableFile)
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if !utf8.Valid(data) {
		// Spreadsheet tools on Windows still export Windows-1252.
		decoded, err := charmap.Windows1252.NewDecoder().Bytes(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrUnreadableFile, err)
		}
		data = decoded
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = sniffDelimiter(data)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var rows []numberedRow
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrUnreadableFile, err)
		}
		line, _ := reader.FieldPos(0)
		rows = append(rows, numberedRow{line: line, cells: record})
	}
	return rows, nil
}

// sniffDelimiter picks the most frequent of comma, semicolon and tab on the
// header line. Comma wins when none appears.
func sniffDelimiter(data []byte) rune {
	firstLine := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		firstLine = data[:i]
	}
	best, bestCount := ',', 0
	for _, d := range []rune{',', ';', '\t'} {
		if n := strings.Count(string(firstLine), string(d)); n > bestCount {
			best, bestCount = d, n
		}
	}
	return best
}

func readSpreadsheetRows(data []byte) ([]numberedRow, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUnreadableFile, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	// Raw values keep long numeric phone cells out of scientific notation.
	grid, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUnreadableFile, err)
	}
	rows := make([]numberedRow, len(grid))
	for i, cells := range grid {
		rows[i] = numberedRow{line: i + 1, cells: cells}
	}
	return rows, nil
}

func buildImportResult(rows []numberedRow) *domain.ImportResult {
	result := &domain.ImportResult{
		ValidRecords:     []domain.ContactRecord{},
		RowErrors:        []domain.RowError{},
		StructuralErrors: []string{},
	}

	headerAt := -1
	for i, row := range rows {
		if !isBlankRow(row.cells) {
			headerAt = i
			break
		}
	}
	if headerAt < 0 {
		result.StructuralErrors = append(result.StructuralErrors, "file has no header row")
		return result
	}

	header := rows[headerAt].cells
	mapping := MapColumns(header)
	switch {
	case mapping.PhoneIdx < 0:
		result.StructuralErrors = append(result.StructuralErrors,
			"no phone column found in header row; name the first column e.g. \"phone\", \"téléphone\" or \"mobile\"")
		return result
	case mapping.PhoneIdx != 0:
		result.StructuralErrors = append(result.StructuralErrors,
			fmt.Sprintf("phone column %q must be the first column, found at column %d",
				strings.TrimSpace(header[mapping.PhoneIdx]), mapping.PhoneIdx+1))
		return result
	}

	firstNameIdx := mapping.Index(FieldFirstName)
	lastNameIdx := mapping.Index(FieldLastName)
	emailIdx := mapping.Index(FieldEmail)

	for _, row := range rows[headerAt+1:] {
		if isBlankRow(row.cells) {
			continue
		}
		raw := strings.TrimSpace(cellAt(row.cells, 0))
		if raw == "" {
			result.RowErrors = append(result.RowErrors, domain.RowError{Row: row.line, RawValue: raw, Reason: domain.ReasonEmptyPhone})
			continue
		}
		phone, ok := NormalizeCandidate(raw)
		if !ok {
			result.RowErrors = append(result.RowErrors, domain.RowError{Row: row.line, RawValue: raw, Reason: domain.ReasonInvalidShape})
			continue
		}

		record := domain.ContactRecord{
			PhoneNumber: phone,
			FirstName:   strings.TrimSpace(cellAt(row.cells, firstNameIdx)),
			LastName:    strings.TrimSpace(cellAt(row.cells, lastNameIdx)),
			Email:       strings.TrimSpace(cellAt(row.cells, emailIdx)),
		}
		for i, value := range row.cells {
			if _, mapped := mapping.FieldMap[i]; mapped || i >= len(header) {
				continue
			}
			name, v := strings.TrimSpace(header[i]), strings.TrimSpace(value)
			if name == "" || v == "" {
				continue
			}
			if record.Extra == nil {
				record.Extra = make(map[string]string)
			}
			record.Extra[name] = v
		}
		result.ValidRecords = append(result.ValidRecords, record)
	}
	return result
}

func cellAt(cells []string, idx int) string {
	if idx < 0 || idx >= len(cells) {
		return ""
	}
	return cells[idx]
}

func isBlankRow(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
