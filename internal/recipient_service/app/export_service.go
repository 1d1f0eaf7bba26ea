package app

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"time"

	"github.com/aradsms/recipient_intake/internal/recipient_service/domain"
)

const entriesExportType = "entries_csv"

var unsafeLabelChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// ExportService writes registry entries to CSV files.
type ExportService struct {
	logger     *slog.Logger
	exportPath string // Base path where export files will be stored
	now        func() time.Time
}

// NewExportService creates a new ExportService.
func NewExportService(logger *slog.Logger, exportPath string) *ExportService {
	if exportPath == "" {
		exportPath = filepath.Join(os.TempDir(), "recipient_exports")
		logger.Warn("Export path not configured, using default", "path", exportPath)
	}
	return &ExportService{
		logger:     logger.With("component", "export_service"),
		exportPath: exportPath,
		now:        time.Now,
	}
}

// ExportEntriesToCSV writes entries to a timestamped file under the export
// path and returns its full path. No entries means no file and an empty path.
func (s *ExportService) ExportEntriesToCSV(ctx context.Context, label string, entries []domain.PhoneEntry) (filePath string, err error) {
	if len(entries) == 0 {
		s.logger.InfoContext(ctx, "No entries to export", "label", label)
		return "", nil
	}

	if err := os.MkdirAll(s.exportPath, 0750); err != nil {
		exportJobsProcessedCounter.WithLabelValues(entriesExportType, "failure").Inc()
		s.logger.ErrorContext(ctx, "Failed to create export directory", "path", s.exportPath, "error", err)
		return "", fmt.Errorf("could not create export directory: %w", err)
	}

	safeLabel := unsafeLabelChars.ReplaceAllString(label, "_")
	if safeLabel == "" {
		safeLabel = "recipients"
	}
	fileName := fmt.Sprintf("%s_%s.csv", safeLabel, s.now().UTC().Format("20060102T150405Z"))
	fullPath := filepath.Join(s.exportPath, fileName)

	file, err := os.Create(fullPath)
	if err != nil {
		exportJobsProcessedCounter.WithLabelValues(entriesExportType, "failure").Inc()
		s.logger.ErrorContext(ctx, "Failed to create CSV export file", "path", fullPath, "error", err)
		return "", fmt.Errorf("creating CSV file failed: %w", err)
	}

	writeErr := WriteEntriesCSV(file, entries)
	closeErr := file.Close()
	if writeErr == nil {
		writeErr = closeErr
	}
	if writeErr != nil {
		_ = os.Remove(fullPath)
		exportJobsProcessedCounter.WithLabelValues(entriesExportType, "failure").Inc()
		s.logger.ErrorContext(ctx, "Failed to write CSV export", "path", fullPath, "error", writeErr)
		return "", fmt.Errorf("writing CSV export failed: %w", writeErr)
	}

	exportJobsProcessedCounter.WithLabelValues(entriesExportType, "success").Inc()
	exportedRowsCounter.WithLabelValues(entriesExportType).Add(float64(len(entries)))
	s.logger.InfoContext(ctx, "Exported entries to CSV", "file_path", fullPath, "num_records", len(entries))
	return fullPath, nil
}

// WriteEntriesCSV writes a header and one row per entry to w.
func WriteEntriesCSV(w io.Writer, entries []domain.PhoneEntry) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"ID", "PhoneNumber", "Name", "Operator", "Valid"}); err != nil {
		return fmt.Errorf("writing CSV header failed: %w", err)
	}
	for _, e := range entries {
		row := []string{
			e.ID.String(),
			e.PhoneNumber,
			e.Name,
			string(e.Operator),
			strconv.FormatBool(e.IsValid),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("writing CSV row for %s failed: %w", e.ID, err)
		}
	}
	writer.Flush()
	return writer.Error()
}
