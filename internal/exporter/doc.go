// Package exporter writes report sheets as CSV files.
//
// CSVWriter mirrors every workbook sheet as <sheet>.csv with a UTF-8 BOM so
// spreadsheet tools open the files with the right encoding:
//
//	w := exporter.NewCSVWriter(paths.OutputDir, logger)
//	files, err := w.WriteSheets(ctx, exporter.SheetDir(workbookPath), sheets)
package exporter
