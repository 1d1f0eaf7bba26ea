package domain

import (
	"fmt"
	"path/filepath"
	"strings"
)

// FileKind is the declared kind of a structured import file.
type FileKind string

const (
	FileKindCSV         FileKind = "csv"
	FileKindSpreadsheet FileKind = "spreadsheet"
)

// KindFromFilename maps a file name to the import kind it should be parsed as.
func KindFromFilename(name string) (FileKind, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", ".txt":
		return FileKindCSV, nil
	case ".xlsx", ".xlsm":
		return FileKindSpreadsheet, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFileKind, filepath.Ext(name))
	}
}

// ContactRecord is a row accepted by a structured import.
type ContactRecord struct {
	PhoneNumber string            `json:"phone_number"`
	FirstName   string            `json:"first_name,omitempty"`
	LastName    string            `json:"last_name,omitempty"`
	Email       string            `json:"email,omitempty"`
	Extra       map[string]string `json:"extra,omitempty"` // Remaining columns keyed by header name
}

// DisplayName joins first and last name.
func (c ContactRecord) DisplayName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// RowErrorReason explains why an import row was rejected.
type RowErrorReason string

const (
	ReasonEmptyPhone   RowErrorReason = "empty_phone_number"
	ReasonInvalidShape RowErrorReason = "invalid_phone_format"
)

// RowError is an itemized, row-level import failure. Row is the 1-based line of
// the file; the header is row 1.
type RowError struct {
	Row      int            `json:"row"`
	RawValue string         `json:"raw_value"`
	Reason   RowErrorReason `json:"reason"`
}

// ImportResult is the outcome of a structured import. A non-empty
// StructuralErrors always comes with zero ValidRecords.
type ImportResult struct {
	ValidRecords     []ContactRecord `json:"valid_records"`
	RowErrors        []RowError      `json:"row_errors"`
	StructuralErrors []string        `json:"structural_errors"`
}

// HasStructuralErrors reports whether the whole file was rejected.
func (r *ImportResult) HasStructuralErrors() bool {
	return len(r.StructuralErrors) > 0
}
