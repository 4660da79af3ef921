package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	apperrors "storepulse/internal/errors"
	"storepulse/internal/period"
)

// EnvPrefix namespaces every environment override, e.g. STOREPULSE_LOGGING_LEVEL.
const EnvPrefix = "STOREPULSE"

// Config represents the complete application configuration
type Config struct {
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Paths     PathsConfig     `yaml:"paths" envconfig:"PATHS"`
	Periods   PeriodsConfig   `yaml:"periods" envconfig:"PERIODS"`
	Analysis  AnalysisConfig  `yaml:"analysis" envconfig:"ANALYSIS"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`

	// Schema overrides accepted column labels: source -> logical field -> labels.
	Schema map[string]map[string][]string `yaml:"schema" ignored:"true"`

	// file is the config file the values were read from, if any.
	file string
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// PathsConfig locates the input extracts and the output directory.
// Relative paths resolve against BaseDir, then the config file directory.
type PathsConfig struct {
	BaseDir   string      `yaml:"base_dir" envconfig:"BASE_DIR"`
	OutputDir string      `yaml:"output_dir" envconfig:"OUTPUT_DIR" validate:"required"`
	Financial SourceFiles `yaml:"financial" envconfig:"FINANCIAL"`
	Marketing SourceFiles `yaml:"marketing" envconfig:"MARKETING"`
	Sponsored SourceFiles `yaml:"sponsored" envconfig:"SPONSORED"`
	Sales     SourceFiles `yaml:"sales" envconfig:"SALES"`
}

// SourceFiles holds one extract per year: Current is the analysed year and
// Baseline the prior year used for year-over-year comparison.
type SourceFiles struct {
	Current  string `yaml:"current" envconfig:"CURRENT"`
	Baseline string `yaml:"baseline" envconfig:"BASELINE"`
}

// DateRange is an inclusive ISO date interval.
type DateRange struct {
	Start string `yaml:"start" envconfig:"START" validate:"required,isodate"`
	End   string `yaml:"end" envconfig:"END" validate:"required,isodate"`
}

// PeriodsConfig names the analysis windows.
type PeriodsConfig struct {
	Pre          DateRange `yaml:"pre" envconfig:"PRE"`
	Post         DateRange `yaml:"post" envconfig:"POST"`
	BaselinePre  DateRange `yaml:"baseline_pre" envconfig:"BASELINE_PRE"`
	BaselinePost DateRange `yaml:"baseline_post" envconfig:"BASELINE_POST"`
	Snapshot     DateRange `yaml:"snapshot" envconfig:"SNAPSHOT"`
	SnapshotName string    `yaml:"snapshot_name" envconfig:"SNAPSHOT_NAME" validate:"required"`
	WeekDays     int       `yaml:"week_days" envconfig:"WEEK_DAYS" validate:"gte=1,lte=31"`
}

// AnalysisConfig tunes metric reconciliation and report sizes.
type AnalysisConfig struct {
	// ProcessLabel names the business change being evaluated in sheet
	// names and narrative text, e.g. "Pre_TODC_Metrics".
	ProcessLabel   string `yaml:"process_label" envconfig:"PROCESS_LABEL" validate:"required,alphanum"`
	Reconciliation string `yaml:"reconciliation" envconfig:"RECONCILIATION" validate:"policy"`
	TopN           int    `yaml:"top_n" envconfig:"TOP_N" validate:"gte=1"`
	SnapshotTopN   int    `yaml:"snapshot_top_n" envconfig:"SNAPSHOT_TOP_N" validate:"gte=1"`
}

// TelemetryConfig controls trace and metric files written at the end of a run.
type TelemetryConfig struct {
	ServiceName string `yaml:"service_name" envconfig:"SERVICE_NAME" validate:"required"`
	TracesFile  string `yaml:"traces_file" envconfig:"TRACES_FILE"`
	MetricsFile string `yaml:"metrics_file" envconfig:"METRICS_FILE"`
}

// Load builds the configuration from defaults, the YAML file at path (or the
// first well-known location when path is empty), a .env file and
// STOREPULSE_* environment variables, in increasing order of precedence.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = getConfigFilePath()
	}
	if path != "" {
		if err := loadFromFile(path, cfg); err != nil {
			return nil, apperrors.NewConfigError("failed to load config file", err).WithContext("file", path)
		}
		cfg.file = path
	}

	// A missing .env is normal; only parse failures matter.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, apperrors.NewConfigError("failed to load .env", err)
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, apperrors.NewConfigError("failed to load config from env", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFromFile overlays YAML values on cfg; keys absent from the file keep
// their current value.
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	locations := []string{
		"storepulse.yaml",
		"configs/storepulse.yaml",
		"../configs/storepulse.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return ""
}

// File returns the config file the configuration was read from, or "".
func (c *Config) File() string {
	return c.file
}

// Period resolves a configured date range into a named period.
func (c *Config) Period(name string, r DateRange) (period.Period, error) {
	p, err := period.New(name, r.Start, r.End)
	if err != nil {
		return period.Period{}, apperrors.NewConfigError("invalid period", err).WithContext("period", name)
	}
	return p, nil
}

// Windows are the resolved analysis periods used by every report.
type Windows struct {
	Pre          period.Period
	Post         period.Period
	Overall      period.Period
	BaselinePre  period.Period
	BaselinePost period.Period
	BaselineAll  period.Period
	Snapshot     period.Period
}

// Windows resolves every configured period. Period names carry the process
// label, e.g. "Pre-TODC".
func (c *Config) Windows() (Windows, error) {
	label := c.Analysis.ProcessLabel
	var w Windows
	var err error
	if w.Pre, err = c.Period("Pre-"+label, c.Periods.Pre); err != nil {
		return w, err
	}
	if w.Post, err = c.Period("Post-"+label, c.Periods.Post); err != nil {
		return w, err
	}
	if w.BaselinePre, err = c.Period("Baseline Pre-"+label, c.Periods.BaselinePre); err != nil {
		return w, err
	}
	if w.BaselinePost, err = c.Period("Baseline Post-"+label, c.Periods.BaselinePost); err != nil {
		return w, err
	}
	if w.Snapshot, err = c.Period(c.Periods.SnapshotName, c.Periods.Snapshot); err != nil {
		return w, err
	}
	w.Overall = w.Pre.Span("Overall", w.Post)
	w.BaselineAll = w.BaselinePre.Span("Baseline Overall", w.BaselinePost)
	return w, nil
}

// Default returns default configuration. Paths point at the extract file
// names the delivery platform produces; periods are the 2025 rollout windows
// and their 2024 equivalents.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    "info",
			Output:   "both",
			FilePath: "logs/storepulse.log",
		},
		Paths: PathsConfig{
			OutputDir: "reports",
			Financial: SourceFiles{
				Current:  "data/FINANCIAL_DETAILED_TRANSACTIONS_2025.csv",
				Baseline: "data/FINANCIAL_DETAILED_TRANSACTIONS_2024.csv",
			},
			Marketing: SourceFiles{
				Current:  "data/MARKETING_PROMOTION_2025.csv",
				Baseline: "data/MARKETING_PROMOTION_2024.csv",
			},
			Sponsored: SourceFiles{
				Current: "data/MARKETING_SPONSORED_LISTING_2025.csv",
			},
			Sales: SourceFiles{
				Current:  "data/SALES_viewByTime_byStore_2025.csv",
				Baseline: "data/SALES_viewByTime_byStore_2024.csv",
			},
		},
		Periods: PeriodsConfig{
			Pre:          DateRange{Start: "2025-05-09", End: "2025-07-08"},
			Post:         DateRange{Start: "2025-07-09", End: "2025-09-08"},
			BaselinePre:  DateRange{Start: "2024-05-09", End: "2024-07-08"},
			BaselinePost: DateRange{Start: "2024-07-09", End: "2024-09-08"},
			Snapshot:     DateRange{Start: "2025-08-01", End: "2025-08-31"},
			SnapshotName: "August_2025",
			WeekDays:     7,
		},
		Analysis: AnalysisConfig{
			ProcessLabel:   "TODC",
			Reconciliation: "max",
			TopN:           10,
			SnapshotTopN:   20,
		},
		Telemetry: TelemetryConfig{
			ServiceName: "storepulse",
		},
	}
}

// String summarises where the configuration came from.
func (c *Config) String() string {
	src := "defaults"
	if c.file != "" {
		src = filepath.Clean(c.file)
	}
	return fmt.Sprintf("config(source=%s, output=%s, label=%s)", src, c.Paths.OutputDir, c.Analysis.ProcessLabel)
}
