// Package dataprocessing owns the on-disk tabular formats for policy and
// claim datasets: the canonical CSV schema written by the simulator and
// read back by the report tools, plus an Excel workbook reader for
// externally supplied policy books.
package dataprocessing
