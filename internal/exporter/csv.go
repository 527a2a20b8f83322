package exporter

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	apperrors "schoolcensus/internal/errors"
	"schoolcensus/pkg/contracts/domain"
)

// ReportHeaders is the column layout of an age group report.
var ReportHeaders = []string{"Suburb", "Population", "Enrolment", "Difference"}

// CSVWriter provides CSV export functionality
type CSVWriter struct {
	baseDir string
	logger  *slog.Logger
}

// NewCSVWriter creates a CSV writer resolving relative paths against baseDir.
func NewCSVWriter(baseDir string, logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{baseDir: baseDir, logger: logger}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// WriteCSV writes data to a CSV file with the given options, replacing any
// existing file.
func (w *CSVWriter) WriteCSV(filePath string, options WriteOptions) error {
	fullPath := w.resolvePath(filePath)

	w.logger.Info("Writing CSV file",
		slog.String("file_path", filePath),
		slog.String("full_path", fullPath),
		slog.Int("record_count", len(options.Records)))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return apperrors.NewExportError("failed to create directory", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return apperrors.NewExportError("failed to open file", err).WithContext("path", fullPath)
	}
	defer file.Close()

	// Write BOM if requested (helps Excel recognize UTF-8)
	if options.BOMPrefix {
		if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return apperrors.NewExportError("failed to write BOM", err)
		}
	}

	writer := csv.NewWriter(file)

	if len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return apperrors.NewExportError("failed to write headers", err)
		}
	}

	for i, record := range options.Records {
		if err := writer.Write(record); err != nil {
			return apperrors.NewExportError(fmt.Sprintf("failed to write record %d", i), err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return apperrors.NewExportError("failed to flush csv", err)
	}
	return nil
}

// WriteReport writes one age group report with a header row and UTF-8 BOM.
func (w *CSVWriter) WriteReport(filePath string, report domain.AgeGroupReport) error {
	return w.WriteCSV(filePath, WriteOptions{
		Headers:   ReportHeaders,
		Records:   reportRecords(report),
		BOMPrefix: true,
	})
}

// ReportFileName is the default CSV file name for a report.
func ReportFileName(report domain.AgeGroupReport) string {
	return fmt.Sprintf("enrolment_vs_population_%d_%s.csv", report.Year, report.Group.Name)
}

func reportRecords(report domain.AgeGroupReport) [][]string {
	records := make([][]string, 0, len(report.Rows))
	for _, row := range report.Rows {
		records = append(records, []string{
			row.Suburb,
			formatInt(row.Population),
			formatFloat(row.Enrolment),
			formatFloat(row.Difference()),
		})
	}
	return records
}

// resolvePath resolves a relative path against the writer's base directory
func (w *CSVWriter) resolvePath(filePath string) string {
	if filepath.IsAbs(filePath) || w.baseDir == "" {
		return filePath
	}
	return filepath.Join(w.baseDir, filePath)
}
