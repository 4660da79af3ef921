package exporter

import (
	"context"
	"encoding/csv"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	apperrors "storepulse/internal/errors"
	"storepulse/internal/report"
)

// utf8BOM helps Excel recognise UTF-8 CSV files.
const utf8BOM = "\ufeff"

// CSVWriter writes report sheets as CSV files under a base directory.
type CSVWriter struct {
	baseDir string
	logger  *slog.Logger
}

// NewCSVWriter creates a writer rooted at baseDir.
func NewCSVWriter(baseDir string, logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{baseDir: baseDir, logger: logger.With("component", "csv_writer")}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	Append    bool
	BOMPrefix bool
}

// WriteCSV writes data to a CSV file with the given options. Relative paths
// resolve against the writer's base directory.
func (w *CSVWriter) WriteCSV(filePath string, options WriteOptions) error {
	fullPath := w.resolvePath(filePath)

	w.logger.Debug("writing csv file",
		slog.String("full_path", fullPath),
		slog.Int("record_count", len(options.Records)))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return apperrors.NewStorageError("failed to create directory", err).WithContext("path", fullPath)
	}

	flags := os.O_CREATE | os.O_WRONLY
	if options.Append {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}

	file, err := os.OpenFile(fullPath, flags, 0644)
	if err != nil {
		return apperrors.NewStorageError("failed to open file", err).WithContext("path", fullPath)
	}
	defer file.Close()

	if options.BOMPrefix && !options.Append {
		if _, err := file.WriteString(utf8BOM); err != nil {
			return apperrors.NewStorageError("failed to write BOM", err).WithContext("path", fullPath)
		}
	}

	writer := csv.NewWriter(file)
	if !options.Append && len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return apperrors.NewStorageError("failed to write headers", err).WithContext("path", fullPath)
		}
	}
	for i, record := range options.Records {
		if err := writer.Write(record); err != nil {
			return apperrors.NewStorageError("failed to write record", err).
				WithContext("path", fullPath).
				WithContext("record", i)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return apperrors.NewStorageError("failed to flush csv", err).WithContext("path", fullPath)
	}
	return nil
}

// WriteSheets writes each sheet to <dir>/<sheet name>.csv with a BOM and
// returns the written paths in sheet order.
func (w *CSVWriter) WriteSheets(ctx context.Context, dir string, sheets []report.Sheet) ([]string, error) {
	paths := make([]string, 0, len(sheets))
	for _, s := range sheets {
		if err := ctx.Err(); err != nil {
			return paths, err
		}
		path := filepath.Join(dir, sanitize(s.Name)+".csv")
		err := w.WriteCSV(path, WriteOptions{
			Headers:   s.Headers,
			Records:   s.Records(),
			BOMPrefix: true,
		})
		if err != nil {
			return paths, err
		}
		paths = append(paths, w.resolvePath(path))
	}
	w.logger.Info("csv export complete", slog.String("dir", w.resolvePath(dir)), slog.Int("files", len(paths)))
	return paths, nil
}

// SheetDir is the CSV directory for a workbook, e.g. reports/X_20250910_csv
// for reports/X_20250910.xlsx.
func SheetDir(workbook string) string {
	return strings.TrimSuffix(workbook, filepath.Ext(workbook)) + "_csv"
}

func sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, name)
}

func (w *CSVWriter) resolvePath(filePath string) string {
	if filepath.IsAbs(filePath) || w.baseDir == "" {
		return filePath
	}
	return filepath.Join(w.baseDir, filePath)
}
