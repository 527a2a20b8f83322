// Package exporter writes age group reports to disk.
//
// CSVWriter produces one file per report with a UTF-8 BOM for Excel
// compatibility. XLSXWriter produces a single workbook with one sheet per
// report; row 1 holds the report title and row 2 the column headers.
//
// Example usage:
//
//	csvWriter := exporter.NewCSVWriter("reports", logger)
//	err := csvWriter.WriteReport(exporter.ReportFileName(report), report)
//
//	xlsxWriter := exporter.NewXLSXWriter("reports", logger)
//	err = xlsxWriter.WriteReports(exporter.WorkbookFileName(2019), reports)
package exporter
