package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.uber.org/multierr"

	"storepulse/internal/config"
	apperrors "storepulse/internal/errors"
	"storepulse/internal/infrastructure"
	"storepulse/internal/services"
)

const (
	Version = "1.0.0"
	AppName = "StorePulse - Store Performance Analytics"
)

// Commands.
const (
	CommandStoreReport     = "store-report"
	CommandImpactReport    = "impact-report"
	CommandSnapshotReport  = "snapshot-report"
	CommandExtractInsights = "extract-insights"
)

// Exit codes.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
)

const shutdownTimeout = 10 * time.Second

// Flags are the command line options of a command.
type Flags struct {
	ConfigPath string
	OutputDir  string
	CSV        bool
	// Insights is accepted by store-report only.
	Insights bool
	// Workbook is accepted by extract-insights only.
	Workbook string
}

// ParseFlags parses the options of command. Usage and parse errors are
// written to stderr.
func ParseFlags(command string, args []string, stderr io.Writer) (Flags, error) {
	var f Flags
	fs := flag.NewFlagSet(command, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&f.ConfigPath, "config", "", "path to the YAML configuration file")
	fs.StringVar(&f.OutputDir, "out", "", "output directory, overrides paths.output_dir")
	fs.BoolVar(&f.CSV, "csv", false, "also export every sheet as CSV")
	switch command {
	case CommandStoreReport:
		fs.BoolVar(&f.Insights, "insights", false, "also write insights.md and insights.html")
	case CommandExtractInsights:
		fs.StringVar(&f.Workbook, "workbook", "", "store-wise workbook to read (default: newest in the output directory)")
	}
	if err := fs.Parse(args); err != nil {
		return f, err
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(stderr, "%s: unexpected arguments: %v\n", command, fs.Args())
		fs.Usage()
		return f, apperrors.NewValidationError("unexpected arguments")
	}
	return f, nil
}

// Application holds the components of one command run.
type Application struct {
	Config    *config.Config
	Paths     *config.Paths
	Logger    *slog.Logger
	Telemetry *infrastructure.Telemetry
	Reports   *services.ReportService
}

// NewApplication loads configuration, applies flags, prepares the output and
// log directories and wires logging, telemetry and the report service.
func NewApplication(flags Flags) (*Application, error) {
	cfg, err := config.Load(flags.ConfigPath)
	if err != nil {
		return nil, err
	}
	if flags.OutputDir != "" {
		out, err := filepath.Abs(flags.OutputDir)
		if err != nil {
			return nil, apperrors.NewConfigError("invalid output directory", err).WithContext("out", flags.OutputDir)
		}
		cfg.Paths.OutputDir = out
	}

	paths, err := cfg.ResolvePaths()
	if err != nil {
		return nil, apperrors.NewConfigError("failed to resolve paths", err)
	}
	if err := paths.EnsureDirectories(); err != nil {
		return nil, apperrors.NewStorageError("failed to ensure directories", err)
	}

	logging := cfg.Logging
	if logging.FilePath != "" {
		logging.FilePath = filepath.Join(paths.LogsDir, filepath.Base(logging.FilePath))
	}
	logger, err := infrastructure.InitializeLogger(logging)
	if err != nil {
		return nil, apperrors.NewConfigError("failed to initialize logger", err)
	}

	telemetryCfg := cfg.Telemetry
	telemetryCfg.TracesFile = resolve(paths.BaseDir, telemetryCfg.TracesFile)
	telemetryCfg.MetricsFile = resolve(paths.BaseDir, telemetryCfg.MetricsFile)
	telemetry, err := infrastructure.NewTelemetry(telemetryCfg, logger)
	if err != nil {
		infrastructure.CloseLogFile()
		return nil, apperrors.NewConfigError("failed to initialize telemetry", err)
	}

	reports, err := services.NewReportService(cfg, paths, telemetry, logger)
	if err != nil {
		telemetry.Shutdown(context.Background())
		infrastructure.CloseLogFile()
		return nil, err
	}

	logger.Info("application starting",
		slog.String("name", AppName),
		slog.String("version", Version),
		slog.String("config", cfg.String()))

	return &Application{
		Config:    cfg,
		Paths:     paths,
		Logger:    logger,
		Telemetry: telemetry,
		Reports:   reports,
	}, nil
}

func resolve(base, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}

// Run executes command.
func (a *Application) Run(ctx context.Context, command string, flags Flags) (*services.Result, error) {
	opts := services.Options{Insights: flags.Insights, CSV: flags.CSV}
	switch command {
	case CommandStoreReport:
		return a.Reports.StoreWise(ctx, opts)
	case CommandImpactReport:
		return a.Reports.Impact(ctx, opts)
	case CommandSnapshotReport:
		return a.Reports.Snapshot(ctx, opts)
	case CommandExtractInsights:
		return a.Reports.ExtractInsights(ctx, flags.Workbook)
	default:
		return nil, apperrors.NewValidationError("unknown command").WithContext("command", command)
	}
}

// Shutdown flushes telemetry and closes the log file.
func (a *Application) Shutdown(ctx context.Context) error {
	var errs error
	if a.Telemetry != nil {
		errs = multierr.Append(errs, a.Telemetry.Shutdown(ctx))
	}
	return multierr.Append(errs, infrastructure.CloseLogFile())
}

// Main runs command with args and returns the process exit code. The outcome
// is printed to stdout, failures to stderr.
func Main(command string, args []string, stdout, stderr io.Writer) int {
	flags, err := ParseFlags(command, args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return ExitOK
	}
	if err != nil {
		return ExitUsage
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = infrastructure.WithRunID(ctx, infrastructure.GenerateRunID())

	app, err := NewApplication(flags)
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", command, err)
		return ExitFailure
	}

	res, runErr := app.Run(ctx, command, flags)
	if runErr != nil {
		app.Logger.ErrorContext(ctx, "command failed",
			slog.String("command", command),
			slog.String("error", runErr.Error()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := app.Shutdown(shutdownCtx); err != nil {
		fmt.Fprintf(stderr, "%s: shutdown: %v\n", command, err)
	}

	if runErr != nil {
		fmt.Fprintf(stderr, "%s: %v\n", command, runErr)
		return ExitFailure
	}
	printResult(stdout, res)
	return ExitOK
}

func printResult(w io.Writer, res *services.Result) {
	if res.Workbook != "" {
		fmt.Fprintf(w, "Results exported to: %s\n", res.Workbook)
	}
	for _, p := range res.Insights {
		fmt.Fprintf(w, "Insights written to: %s\n", p)
	}
	if len(res.CSV) > 0 {
		fmt.Fprintf(w, "CSV files written: %d\n", len(res.CSV))
	}
	if res.Failures != nil {
		fmt.Fprintf(w, "Completed with skipped analyses: %v\n", res.Failures)
	}
}
