package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	apperrors "schoolcensus/internal/errors"
	"schoolcensus/pkg/contracts/domain"
)

// XLSXWriter exports reports as an Excel workbook, one sheet per age group.
type XLSXWriter struct {
	baseDir string
	logger  *slog.Logger
}

// NewXLSXWriter creates an XLSX writer resolving relative paths against baseDir.
func NewXLSXWriter(baseDir string, logger *slog.Logger) *XLSXWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &XLSXWriter{baseDir: baseDir, logger: logger}
}

// WorkbookFileName is the default workbook name for a census year.
func WorkbookFileName(year int) string {
	return fmt.Sprintf("enrolment_vs_population_%d.xlsx", year)
}

// SheetName returns the worksheet name used for a report, e.g. "junior 4-11".
func SheetName(report domain.AgeGroupReport) string {
	return report.Group.Name + " " + report.Group.Label()
}

// WriteReports writes every report to its own sheet of a new workbook.
func (w *XLSXWriter) WriteReports(filePath string, reports []domain.AgeGroupReport) error {
	if len(reports) == 0 {
		return apperrors.NewExportError("no reports to write", nil)
	}

	fullPath := filePath
	if !filepath.IsAbs(filePath) && w.baseDir != "" {
		fullPath = filepath.Join(w.baseDir, filePath)
	}

	w.logger.Info("Writing XLSX workbook",
		slog.String("full_path", fullPath),
		slog.Int("sheet_count", len(reports)))

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return apperrors.NewExportError("failed to create header style", err)
	}

	for i, report := range reports {
		sheet := SheetName(report)
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
				return apperrors.NewExportError("failed to rename sheet", err)
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return apperrors.NewExportError("failed to add sheet", err).WithContext("sheet", sheet)
		}

		if err := writeSheet(f, sheet, report, headerStyle); err != nil {
			return apperrors.NewExportError("failed to fill sheet", err).WithContext("sheet", sheet)
		}
	}
	f.SetActiveSheet(0)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return apperrors.NewExportError("failed to create directory", err)
	}
	if err := f.SaveAs(fullPath); err != nil {
		return apperrors.NewExportError("failed to save workbook", err).WithContext("path", fullPath)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, report domain.AgeGroupReport, headerStyle int) error {
	if err := f.SetCellValue(sheet, "A1", report.Title()); err != nil {
		return err
	}

	header := make([]interface{}, len(ReportHeaders))
	for i, h := range ReportHeaders {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A2", &header); err != nil {
		return err
	}
	if err := f.SetRowStyle(sheet, 1, 2, headerStyle); err != nil {
		return err
	}

	for i, row := range report.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+3)
		if err != nil {
			return err
		}
		values := []interface{}{row.Suburb, row.Population, row.Enrolment, row.Difference()}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
	}

	return f.SetColWidth(sheet, "A", "A", 24)
}
