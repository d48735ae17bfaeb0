// Package exporter writes simulation datasets and actuarial reports to disk.
//
// This package contains three main components:
//
// CSVWriter: Core CSV writing functionality with support for headers, streaming,
// and UTF-8 BOM for Excel compatibility.
//
// DatasetExporter: Writes generated policy books and claim files to the
// datasets directory in the canonical CSV schema.
//
// ReportExporter: Writes earned premium, severity, frequency and loss ratio
// reports as CSV files, and assembles the combined summary workbook with a
// severity trend chart.
//
// Example usage:
//
//	csvWriter := exporter.NewCSVWriter(paths)
//	datasets := exporter.NewDatasetExporter(csvWriter, paths)
//
//	// Export a generated portfolio
//	err := datasets.ExportPolicies(policies)
//
//	// Export reports
//	reports := exporter.NewReportExporter(csvWriter, paths)
//	err = reports.ExportEarnedPremium(rows)
package exporter
