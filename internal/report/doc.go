// Package report writes analysis results as multi-sheet Excel workbooks and
// reads the store-wise workbook back into an insights document.
//
// Sheet names and their write order are declared once per report (see
// StoreWiseSheets, ImpactSheets and SnapshotSheets) and shared by the writer
// and the reader.
//
// The insights narrative is rendered as markdown from an embedded template
// and optionally converted to HTML.
package report
