// Package files locates report workbooks and writes run artifacts.
//
// Discovery finds the newest workbook for a report prefix, using the
// YYYYMMDD_HHMMSS stamp in the file name:
//
//	latest, err := files.NewDiscovery(outputDir).LatestReport("", report.StoreWisePrefix)
//
// Manager writes narrative files atomically next to their workbook.
package files
