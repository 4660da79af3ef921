package files

import (
	"log/slog"
	"os"
	"path/filepath"

	apperrors "storepulse/internal/errors"
)

// Manager writes run artifacts under a base directory.
type Manager struct {
	baseDir string
	logger  *slog.Logger
}

// NewManager creates a new file manager instance
func NewManager(baseDir string, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{baseDir: baseDir, logger: logger.With("component", "file_manager")}
}

// FileExists checks if a regular file exists at the given path
func (m *Manager) FileExists(path string) bool {
	info, err := os.Stat(m.resolvePath(path))
	return err == nil && !info.IsDir()
}

// EnsureDirectory creates a directory if it doesn't exist
func (m *Manager) EnsureDirectory(path string) error {
	fullPath := m.resolvePath(path)
	if err := os.MkdirAll(fullPath, 0755); err != nil {
		return apperrors.NewStorageError("failed to create directory", err).WithContext("path", fullPath)
	}
	return nil
}

// WriteFile writes data through a temporary file in the same directory and
// renames it into place, so readers never see a partial file.
func (m *Manager) WriteFile(path string, data []byte) error {
	fullPath := m.resolvePath(path)
	dir := filepath.Dir(fullPath)
	if err := m.EnsureDirectory(dir); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(fullPath)+".*")
	if err != nil {
		return apperrors.NewStorageError("failed to create temp file", err).WithContext("path", fullPath)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return apperrors.NewStorageError("failed to write file", err).WithContext("path", fullPath)
	}
	if err := tmp.Close(); err != nil {
		return apperrors.NewStorageError("failed to write file", err).WithContext("path", fullPath)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return apperrors.NewStorageError("failed to set permissions", err).WithContext("path", fullPath)
	}
	if err := os.Rename(tmp.Name(), fullPath); err != nil {
		return apperrors.NewStorageError("failed to move file into place", err).WithContext("path", fullPath)
	}

	m.logger.Info("file written", slog.String("path", fullPath), slog.Int("size_bytes", len(data)))
	return nil
}

func (m *Manager) resolvePath(path string) string {
	if filepath.IsAbs(path) || m.baseDir == "" {
		return path
	}
	return filepath.Join(m.baseDir, path)
}
