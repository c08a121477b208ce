// Package export serializes a model.Report into downloadable files.
//
// # Sinks
//
// Every output format implements Sink:
//
//	var sink export.Sink = export.NewXLSXWriter(export.XLSXOptions{IncludeCharts: true})
//	data, err := sink.Write(report)
//	name := export.FileName(report.Artist, sink.Extension())
//
// XLSXWriter produces a workbook with a Summary sheet, a Chart History
// sheet (dates down, songs across) and one sheet per song. CSVWriter
// produces a single long-format table.
//
// # Sheet Names
//
// Excel limits sheet names to 31 characters, forbids []:*?/\ and reserves
// "History". Table names are adjusted to those rules and made unique before
// they become sheet names.
package export
