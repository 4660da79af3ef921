package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "storepulse/internal/errors"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "storepulse.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "reports", cfg.Paths.OutputDir)
	assert.Equal(t, "2025-05-09", cfg.Periods.Pre.Start)
	assert.Equal(t, "2025-09-08", cfg.Periods.Post.End)
	assert.Equal(t, "August_2025", cfg.Periods.SnapshotName)
	assert.Equal(t, 7, cfg.Periods.WeekDays)
	assert.Equal(t, "TODC", cfg.Analysis.ProcessLabel)
	assert.Equal(t, PolicyMax, cfg.Analysis.Reconciliation)
	assert.Equal(t, 10, cfg.Analysis.TopN)
	assert.Equal(t, 20, cfg.Analysis.SnapshotTopN)
	assert.NoError(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		file        string
		env         map[string]string
		wantErr     bool
		errType     apperrors.ErrorType
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "file overrides defaults and keeps unset keys",
			file: `
analysis:
  process_label: REBRAND
  top_n: 5
periods:
  pre:
    start: "2025-01-01"
    end: "2025-01-31"
`,
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "REBRAND", cfg.Analysis.ProcessLabel)
				assert.Equal(t, 5, cfg.Analysis.TopN)
				assert.Equal(t, 20, cfg.Analysis.SnapshotTopN)
				assert.Equal(t, "2025-01-01", cfg.Periods.Pre.Start)
				assert.Equal(t, "2025-07-09", cfg.Periods.Post.Start)
				assert.Equal(t, "info", cfg.Logging.Level)
			},
		},
		{
			name: "environment wins over file",
			file: "analysis:\n  reconciliation: financial\n",
			env: map[string]string{
				"STOREPULSE_ANALYSIS_RECONCILIATION": "sales",
				"STOREPULSE_LOGGING_LEVEL":           "debug",
				"STOREPULSE_PERIODS_WEEK_DAYS":       "14",
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, PolicySales, cfg.Analysis.Reconciliation)
				assert.Equal(t, "debug", cfg.Logging.Level)
				assert.Equal(t, 14, cfg.Periods.WeekDays)
			},
		},
		{
			name: "schema overrides are read from file",
			file: `
schema:
  sales:
    gross_sales: ["Gross Sales (USD)"]
`,
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, []string{"Gross Sales (USD)"}, cfg.Schema["sales"]["gross_sales"])
			},
		},
		{
			name:    "malformed yaml",
			file:    "analysis: [unclosed",
			wantErr: true,
			errType: apperrors.ErrTypeConfig,
		},
		{
			name:    "unknown policy",
			file:    "analysis:\n  reconciliation: average\n",
			wantErr: true,
			errType: apperrors.ErrTypeValidation,
		},
		{
			name: "reversed period",
			file: `
periods:
  snapshot:
    start: "2025-08-31"
    end: "2025-08-01"
`,
			wantErr: true,
			errType: apperrors.ErrTypeValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := writeConfig(t, tt.file)

			cfg, err := Load(path)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apperrors.IsType(err, tt.errType), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, path, cfg.File())
			if tt.validateCfg != nil {
				tt.validateCfg(t, cfg)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeConfig))
}

func TestValidate_ReportsAllProblems(t *testing.T) {
	cfg := Default()
	cfg.Logging.Level = "loud"
	cfg.Periods.Pre.Start = "09/05/2025"
	cfg.Analysis.TopN = 0

	err := cfg.Validate()
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrTypeValidation, appErr.Type)
	assert.Equal(t, 3, appErr.Context["problems"])
	assert.Contains(t, err.Error(), "logging.level: must be one of [debug info warn warning error]")
	assert.Contains(t, err.Error(), "periods.pre.start: must be a date in YYYY-MM-DD format")
	assert.Contains(t, err.Error(), "analysis.top_n: must be at least 1")
}

func TestValidate_PostMustFollowPre(t *testing.T) {
	cfg := Default()
	cfg.Periods.Post.Start = "2025-07-01"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must start after periods.pre ends")
}

func TestWindows(t *testing.T) {
	w, err := Default().Windows()
	require.NoError(t, err)

	assert.Equal(t, "Pre-TODC", w.Pre.Name)
	assert.Equal(t, "Post-TODC", w.Post.Name)
	assert.Equal(t, "2025-05-09", w.Overall.StartLabel())
	assert.Equal(t, "2025-09-08", w.Overall.EndLabel())
	assert.Equal(t, "2024-05-09", w.BaselineAll.StartLabel())
	assert.Equal(t, "August_2025", w.Snapshot.Name)
	assert.True(t, w.Snapshot.Contains(time.Date(2025, 8, 31, 23, 0, 0, 0, time.UTC)))
}

func TestResolvePaths(t *testing.T) {
	path := writeConfig(t, "paths:\n  output_dir: out\n")
	cfg, err := Load(path)
	require.NoError(t, err)

	paths, err := cfg.ResolvePaths()
	require.NoError(t, err)

	dir := filepath.Dir(path)
	assert.Equal(t, dir, paths.BaseDir)
	assert.Equal(t, filepath.Join(dir, "out"), paths.OutputDir)
	assert.Equal(t, filepath.Join(dir, "data", "SALES_viewByTime_byStore_2025.csv"), paths.Sales.Current)
	assert.Equal(t, filepath.Join(dir, "logs"), paths.LogsDir)
	assert.Empty(t, paths.Sponsored.Baseline)

	require.NoError(t, paths.EnsureDirectories())
	assert.DirExists(t, paths.OutputDir)
	assert.DirExists(t, paths.LogsDir)
}

func TestResolvePaths_BaseDirWins(t *testing.T) {
	base := t.TempDir()
	cfg := Default()
	cfg.Paths.BaseDir = base
	cfg.Paths.Financial.Current = "/abs/fin.csv"

	paths, err := cfg.ResolvePaths()
	require.NoError(t, err)
	assert.Equal(t, "/abs/fin.csv", paths.Financial.Current)
	assert.Equal(t, filepath.Join(base, "reports"), paths.OutputDir)
}

func TestReportPath(t *testing.T) {
	p := &Paths{OutputDir: "/tmp/reports"}
	at := time.Date(2025, 9, 10, 14, 22, 33, 0, time.UTC)

	assert.Equal(t, "/tmp/reports/Store_Wise_Analysis_20250910_142233.xlsx", p.ReportPath("Store_Wise_Analysis", ".xlsx", at))
	assert.Equal(t, "/tmp/reports/insights.md", InsightsPath("/tmp/reports/Store_Wise_Analysis_20250910_142233.xlsx", "md"))
}
