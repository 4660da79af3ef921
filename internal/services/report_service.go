package services

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"storepulse/internal/analytics"
	"storepulse/internal/config"
	"storepulse/internal/dataset"
	apperrors "storepulse/internal/errors"
	"storepulse/internal/exporter"
	"storepulse/internal/files"
	"storepulse/internal/infrastructure"
	"storepulse/internal/operations"
	"storepulse/internal/report"
	"storepulse/internal/validation"
)

// Step ids shared by the workflows.
const (
	StepValidate  = "validate"
	StepLoad      = "load"
	StepWrite     = "write"
	StepNarrative = "narrative"
	StepCSV       = "csv"
)

// State keys.
const (
	keySources  = "sources"
	keyWorkbook = "workbook"
	keySheets   = "sheets"
	keyDocument = "document"
)

// Options selects the optional outputs of a workflow.
type Options struct {
	// Insights also writes insights.md and insights.html next to the
	// store-wise workbook.
	Insights bool
	// CSV exports every sheet to <workbook>_csv/.
	CSV bool
}

// Result lists what a workflow wrote.
type Result struct {
	Workbook string
	Insights []string
	CSV      []string
	Status   operations.OperationStatusValue
	// Failures combines the errors of optional steps that failed.
	Failures error
}

// ReportService runs the report workflows for one configuration.
type ReportService struct {
	config  *config.Config
	paths   *config.Paths
	windows config.Windows
	policy  analytics.Policy

	logger    *slog.Logger
	telemetry *infrastructure.Telemetry
	metrics   *operations.StepMetrics

	loader    *dataset.Loader
	validator *validation.FileValidator
	csv       *exporter.CSVWriter
	files     *files.Manager
	discovery *files.Discovery

	now func() time.Time
}

// NewReportService resolves the configured windows and wires the loader,
// validator and writers. telemetry may be nil.
func NewReportService(cfg *config.Config, paths *config.Paths, telemetry *infrastructure.Telemetry, logger *slog.Logger) (*ReportService, error) {
	if cfg == nil || paths == nil {
		return nil, apperrors.NewConfigError("report service needs a configuration and resolved paths", nil)
	}
	if logger == nil {
		logger = slog.Default()
	}
	windows, err := cfg.Windows()
	if err != nil {
		return nil, err
	}

	s := &ReportService{
		config:    cfg,
		paths:     paths,
		windows:   windows,
		policy:    analytics.Policy(cfg.Analysis.Reconciliation),
		logger:    logger.With("component", "report_service"),
		telemetry: telemetry,
		loader:    dataset.NewLoader(logger, cfg.Schema, telemetry),
		validator: validation.NewFileValidator(logger),
		csv:       exporter.NewCSVWriter(paths.OutputDir, logger),
		files:     files.NewManager(paths.OutputDir, logger),
		discovery: files.NewDiscovery(paths.OutputDir),
		now:       time.Now,
	}
	s.metrics = operations.NewStepMetrics(nil)
	if telemetry != nil && telemetry.Registry != nil {
		s.metrics = operations.NewStepMetrics(telemetry.Registry)
	}

	logger.Info("report service initialized",
		slog.String("output_dir", paths.OutputDir),
		slog.String("label", cfg.Analysis.ProcessLabel),
		slog.String("reconciliation", string(s.policy)),
		slog.String("pre", windows.Pre.String()),
		slog.String("post", windows.Post.String()))
	return s, nil
}

// run registers steps on a fresh runner and executes them under the run id
// of ctx.
func (s *ReportService) run(ctx context.Context, workflow string, steps ...operations.Step) (*operations.OperationState, error) {
	runner := operations.NewRunner(s.logger.With("workflow", workflow), s.telemetry, s.metrics)
	for _, step := range steps {
		if err := runner.Register(step); err != nil {
			return nil, err
		}
	}
	return runner.Run(ctx, infrastructure.GetRunID(ctx))
}

// result collects the outputs recorded in state.
func result(state *operations.OperationState) *Result {
	res := &Result{Status: state.Status, Failures: state.Failures()}
	res.Workbook, _ = operations.Value[string](state, keyWorkbook)
	res.Insights, _ = operations.Value[[]string](state, StepNarrative)
	res.CSV, _ = operations.Value[[]string](state, StepCSV)
	return res
}

// validateStep checks the output directory and the input extracts.
func (s *ReportService) validateStep(withBaseline bool) operations.Step {
	return operations.Required(StepValidate, "Validate inputs", func(ctx context.Context, _ *operations.OperationState) error {
		if err := s.validator.ValidateOutputDirectory(s.paths.OutputDir); err != nil {
			return err
		}
		return s.validator.ValidateInputs(validation.Inputs(s.paths, withBaseline))
	})
}

// loadStep reads the extracts of the current year, and of the baseline year
// unless baselineYear is 0. sponsored adds sponsored listings to the
// current-year marketing rows.
func (s *ReportService) loadStep(currentYear, baselineYear int, sponsored bool) operations.Step {
	return operations.Required(StepLoad, "Load extracts", func(ctx context.Context, state *operations.OperationState) error {
		src, err := s.loader.LoadSources(ctx, dataset.Request{
			Paths:         s.paths,
			CurrentYear:   currentYear,
			BaselineYear:  baselineYear,
			SkipBaseline:  baselineYear == 0,
			WithSponsored: sponsored,
		})
		if err != nil {
			return err
		}
		state.SetContext(keySources, src)
		return nil
	}, StepValidate)
}

func sources(state *operations.OperationState) (*dataset.Sources, error) {
	src, ok := operations.Value[*dataset.Sources](state, keySources)
	if !ok || src == nil {
		return nil, apperrors.NewNotFoundError("loaded extracts")
	}
	return src, nil
}

// writeStep writes the sheets stored under keySheets to a timestamped
// workbook named by prefix.
func (s *ReportService) writeStep(prefix string, deps ...string) operations.Step {
	return operations.Required(StepWrite, "Write workbook", func(ctx context.Context, state *operations.OperationState) error {
		sheets, ok := operations.Value[[]report.Sheet](state, keySheets)
		if !ok {
			return apperrors.NewNotFoundError("report sheets")
		}
		path := s.paths.ReportPath(prefix, "xlsx", s.now())
		if err := report.WriteWorkbook(ctx, path, sheets, s.logger); err != nil {
			return err
		}
		state.SetContext(keyWorkbook, path)
		s.logger.InfoContext(ctx, "workbook written",
			slog.String("path", path),
			slog.Int("sheets", len(sheets)))
		return nil
	}, deps...)
}

// csvStep exports the written sheets next to the workbook.
func (s *ReportService) csvStep() operations.Step {
	return operations.Optional(StepCSV, "Export CSV", func(ctx context.Context, state *operations.OperationState) error {
		workbook, _ := operations.Value[string](state, keyWorkbook)
		sheets, _ := operations.Value[[]report.Sheet](state, keySheets)
		written, err := s.csv.WriteSheets(ctx, exporter.SheetDir(workbook), sheets)
		if err != nil {
			return err
		}
		state.SetContext(StepCSV, written)
		return nil
	}, StepWrite)
}

// narrativeStep renders the document stored under keyDocument as markdown
// and HTML next to the workbook.
func (s *ReportService) narrativeStep(required bool, deps ...string) operations.Step {
	fn := func(ctx context.Context, state *operations.OperationState) error {
		workbook, _ := operations.Value[string](state, keyWorkbook)
		doc, ok := operations.Value[report.InsightsDocument](state, keyDocument)
		if !ok {
			return apperrors.NewNotFoundError("insights document")
		}
		written, err := s.writeNarrative(ctx, workbook, doc)
		if err != nil {
			return err
		}
		state.SetContext(StepNarrative, written)
		return nil
	}
	if required {
		return operations.Required(StepNarrative, "Write insights", fn, deps...)
	}
	return operations.Optional(StepNarrative, "Write insights", fn, deps...)
}

func (s *ReportService) writeNarrative(ctx context.Context, workbook string, doc report.InsightsDocument) ([]string, error) {
	var md bytes.Buffer
	if err := report.RenderInsights(&md, doc); err != nil {
		return nil, err
	}
	mdPath := config.InsightsPath(workbook, "md")
	if err := s.files.WriteFile(mdPath, md.Bytes()); err != nil {
		return nil, err
	}

	var page bytes.Buffer
	title := fmt.Sprintf("Store-Wise %s Analysis Insights", doc.Label)
	if err := report.RenderHTML(&page, title, md.Bytes()); err != nil {
		return nil, err
	}
	htmlPath := config.InsightsPath(workbook, "html")
	if err := s.files.WriteFile(htmlPath, page.Bytes()); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "insights written",
		slog.String("markdown", mdPath),
		slog.String("html", htmlPath))
	return []string{mdPath, htmlPath}, nil
}

// warnEmpty logs a period slice without records; its aggregate is all zero.
func (s *ReportService) warnEmpty(ctx context.Context, in analytics.PeriodInputs) {
	if in.Empty() {
		s.logger.WarnContext(ctx, "no records in period, metrics will be zero",
			slog.String("period", in.Name))
	}
}

// finish turns a run into a Result. The Result is returned alongside a run
// error so callers can report what was written before the failure.
func finish(state *operations.OperationState, err error) (*Result, error) {
	if state == nil {
		return nil, err
	}
	return result(state), err
}
