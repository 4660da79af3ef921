package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Paths are the resolved absolute locations for one run.
type Paths struct {
	BaseDir   string
	OutputDir string
	LogsDir   string
	Financial SourceFiles
	Marketing SourceFiles
	Sponsored SourceFiles
	Sales     SourceFiles
}

// ResolvePaths makes every configured path absolute. Relative paths resolve
// against Paths.BaseDir when set, otherwise the directory of the config file,
// otherwise the working directory.
func (c *Config) ResolvePaths() (*Paths, error) {
	base := c.Paths.BaseDir
	if base == "" && c.file != "" {
		base = filepath.Dir(c.file)
	}
	if base == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		base = wd
	}
	base, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve base directory: %w", err)
	}

	abs := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(base, p)
	}
	files := func(s SourceFiles) SourceFiles {
		return SourceFiles{Current: abs(s.Current), Baseline: abs(s.Baseline)}
	}

	logsDir := ""
	if c.Logging.FilePath != "" {
		logsDir = filepath.Dir(abs(c.Logging.FilePath))
	}

	return &Paths{
		BaseDir:   base,
		OutputDir: abs(c.Paths.OutputDir),
		LogsDir:   logsDir,
		Financial: files(c.Paths.Financial),
		Marketing: files(c.Paths.Marketing),
		Sponsored: files(c.Paths.Sponsored),
		Sales:     files(c.Paths.Sales),
	}, nil
}

// EnsureDirectories creates the output and log directories.
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.OutputDir, p.LogsDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// ReportPath returns a timestamped report file in the output directory, e.g.
// Store_Wise_Analysis_20250910_142233.xlsx.
func (p *Paths) ReportPath(prefix, ext string, at time.Time) string {
	ext = strings.TrimPrefix(ext, ".")
	name := fmt.Sprintf("%s_%s.%s", prefix, at.Format("20060102_150405"), ext)
	return filepath.Join(p.OutputDir, name)
}

// InsightsPath returns the narrative file written next to a workbook. ext is
// "md" or "html".
func InsightsPath(workbook, ext string) string {
	return filepath.Join(filepath.Dir(workbook), "insights."+strings.TrimPrefix(ext, "."))
}
