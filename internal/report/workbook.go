package report

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	apperrors "storepulse/internal/errors"
)

const (
	minColumnWidth = 8
	maxColumnWidth = 60
)

// Workbook accumulates sheets in order and saves them as one xlsx file.
type Workbook struct {
	file        *excelize.File
	headerStyle int
	sheets      []string
	logger      *slog.Logger
}

// NewWorkbook creates an empty workbook.
func NewWorkbook(logger *slog.Logger) (*Workbook, error) {
	if logger == nil {
		logger = slog.Default()
	}
	f := excelize.NewFile()
	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "bottom", Color: "#9BC2E6", Style: 1},
		},
	})
	if err != nil {
		f.Close()
		return nil, apperrors.NewStorageError("create header style", err)
	}
	return &Workbook{file: f, headerStyle: style, logger: logger.With("component", "workbook")}, nil
}

// Sheets returns the sheet names added so far, in order.
func (w *Workbook) Sheets() []string {
	return append([]string(nil), w.sheets...)
}

// Add writes s as the next sheet: a bold frozen header row, then one row per
// record with numbers stored as numbers, and columns sized to their content.
func (w *Workbook) Add(s Sheet) error {
	if err := w.newSheet(s.Name); err != nil {
		return err
	}

	widths := make([]int, len(s.Headers))
	for i, h := range s.Headers {
		widths[i] = utf8.RuneCountInString(h)
	}

	header := make([]any, len(s.Headers))
	for i, h := range s.Headers {
		header[i] = h
	}
	if err := w.file.SetSheetRow(s.Name, "A1", &header); err != nil {
		return w.cellError(s.Name, err)
	}
	if len(s.Headers) > 0 {
		last, err := excelize.CoordinatesToCellName(len(s.Headers), 1)
		if err != nil {
			return w.cellError(s.Name, err)
		}
		if err := w.file.SetCellStyle(s.Name, "A1", last, w.headerStyle); err != nil {
			return w.cellError(s.Name, err)
		}
	}

	for r, row := range s.Rows {
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return w.cellError(s.Name, err)
		}
		values := make([]any, len(row))
		copy(values, row)
		if err := w.file.SetSheetRow(s.Name, cell, &values); err != nil {
			return w.cellError(s.Name, err)
		}
		for i, v := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], utf8.RuneCountInString(cellText(v)))
			}
		}
	}

	for i, n := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return w.cellError(s.Name, err)
		}
		width := float64(min(max(n+2, minColumnWidth), maxColumnWidth))
		if err := w.file.SetColWidth(s.Name, col, col, width); err != nil {
			return w.cellError(s.Name, err)
		}
	}

	if err := w.file.SetPanes(s.Name, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return w.cellError(s.Name, err)
	}

	w.logger.Debug("sheet written", slog.String("sheet", s.Name), slog.Int("rows", len(s.Rows)))
	return nil
}

func (w *Workbook) newSheet(name string) error {
	if len(w.sheets) == 0 {
		if err := w.file.SetSheetName(w.file.GetSheetName(0), name); err != nil {
			return w.cellError(name, err)
		}
	} else if _, err := w.file.NewSheet(name); err != nil {
		return w.cellError(name, err)
	}
	w.sheets = append(w.sheets, name)
	return nil
}

func (w *Workbook) cellError(sheet string, err error) error {
	return apperrors.NewStorageError("write sheet", err).WithContext("sheet", sheet)
}

// SaveAs writes the workbook to path, creating its directory.
func (w *Workbook) SaveAs(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return apperrors.NewStorageError("create report directory", err).WithContext("path", path)
	}
	w.file.SetActiveSheet(0)
	if err := w.file.SaveAs(path); err != nil {
		return apperrors.NewStorageError("save workbook", err).WithContext("path", path)
	}
	w.logger.Info("workbook saved", slog.String("path", path), slog.Int("sheets", len(w.sheets)))
	return nil
}

// Close releases the workbook.
func (w *Workbook) Close() error {
	return w.file.Close()
}

// WriteWorkbook writes sheets in order to path.
func WriteWorkbook(ctx context.Context, path string, sheets []Sheet, logger *slog.Logger) error {
	if len(sheets) == 0 {
		return apperrors.NewValidationError(fmt.Sprintf("no sheets to write to %s", filepath.Base(path)))
	}
	w, err := NewWorkbook(logger)
	if err != nil {
		return err
	}
	defer w.Close()

	for _, s := range sheets {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := w.Add(s); err != nil {
			return err
		}
	}
	return w.SaveAs(path)
}
