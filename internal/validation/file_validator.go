package validation

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/multierr"

	"storepulse/internal/config"
	apperrors "storepulse/internal/errors"
)

// FileValidator checks input extracts and output locations before a run.
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		logger: logger.With("component", "file_validator"),
	}
}

// Input is one extract a report reads.
type Input struct {
	Name     string
	Path     string
	Required bool
}

// Inputs lists the extracts of paths. Current-year financial, promotion and
// sales extracts are required; the rest are optional. Baseline extracts are
// left out when withBaseline is false.
func Inputs(paths *config.Paths, withBaseline bool) []Input {
	in := []Input{
		{Name: "financial", Path: paths.Financial.Current, Required: true},
		{Name: "marketing", Path: paths.Marketing.Current, Required: true},
		{Name: "sponsored", Path: paths.Sponsored.Current},
		{Name: "sales", Path: paths.Sales.Current, Required: true},
	}
	if withBaseline {
		in = append(in,
			Input{Name: "financial_baseline", Path: paths.Financial.Baseline},
			Input{Name: "marketing_baseline", Path: paths.Marketing.Baseline},
			Input{Name: "sales_baseline", Path: paths.Sales.Baseline},
		)
	}
	return in
}

// ValidateInputs checks every input at once and returns all failures of
// required inputs combined. A missing optional input only logs a warning.
func (v *FileValidator) ValidateInputs(inputs []Input) error {
	var errs error
	for _, in := range inputs {
		if in.Path == "" {
			if in.Required {
				errs = multierr.Append(errs, apperrors.NewValidationError("input path not configured").
					WithContext("input", in.Name))
			}
			continue
		}
		err := v.ValidateCSVFile(in.Path)
		if err == nil {
			continue
		}
		if in.Required {
			errs = multierr.Append(errs, withInput(err, in.Name))
			continue
		}
		v.logger.Warn("optional input unavailable",
			slog.String("input", in.Name),
			slog.String("file", in.Path),
			slog.String("error", err.Error()))
	}
	return errs
}

func withInput(err error, name string) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.WithContext("input", name)
	}
	return err
}

// ValidateOutputDirectory ensures output directory exists or can be created
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return apperrors.NewStorageError("failed to create output directory", err).WithContext("directory", dir)
	}

	// Verify it's writable by creating a test file
	probe, err := os.CreateTemp(dir, ".write_test_*")
	if err != nil {
		v.logger.Error("output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return apperrors.NewStorageError("output directory is not writable", err).WithContext("directory", dir)
	}
	probe.Close()
	os.Remove(probe.Name())

	v.logger.Debug("output directory validated", slog.String("directory", dir))
	return nil
}

// ValidateFile checks if a specific file exists and is readable
func (v *FileValidator) ValidateFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return apperrors.NewNotFoundError("file").WithContext("file", path)
	}
	if err != nil {
		return apperrors.NewStorageError("failed to stat file", err).WithContext("file", path)
	}
	if info.IsDir() {
		return apperrors.NewValidationError("path is a directory, not a file").WithContext("file", path)
	}

	file, err := os.Open(path)
	if err != nil {
		return apperrors.NewStorageError("file is not readable", err).WithContext("file", path)
	}
	file.Close()

	v.logger.Debug("file validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

// ValidateExcelFile checks that path is a readable .xlsx workbook and not an
// Excel lock file.
func (v *FileValidator) ValidateExcelFile(path string) error {
	if err := v.ValidateFile(path); err != nil {
		return err
	}
	if ext := strings.ToLower(filepath.Ext(path)); ext != ".xlsx" {
		return apperrors.NewValidationError("file is not an xlsx workbook").
			WithContext("file", path).
			WithContext("extension", ext)
	}
	if strings.HasPrefix(filepath.Base(path), "~$") {
		return apperrors.NewValidationError("file is a temporary Excel file").WithContext("file", path)
	}
	return nil
}

// ValidateCSVFile checks that path is a readable .csv file.
func (v *FileValidator) ValidateCSVFile(path string) error {
	if err := v.ValidateFile(path); err != nil {
		return err
	}
	if ext := strings.ToLower(filepath.Ext(path)); ext != ".csv" {
		return apperrors.NewValidationError("file is not a CSV file").
			WithContext("file", path).
			WithContext("extension", ext)
	}
	return nil
}
